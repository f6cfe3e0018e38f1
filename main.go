package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"currencypro-api/internal/api"
	"currencypro-api/internal/config"
	"currencypro-api/internal/exchange"
	"currencypro-api/internal/logger"
	"currencypro-api/internal/platform"
	"currencypro-api/internal/ratelimit"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	appLogger := logger.New(cfg.LogLevel)

	// Build the shared state container: rate table, simulated histories and
	// the alert registry all live here for the life of the process.
	store := exchange.NewStore(appLogger)
	historyService := exchange.NewHistoryService(store, appLogger, cfg.HistoryDays)
	alertRegistry := exchange.NewAlertRegistry(store, appLogger, cfg.AlertValidateCurrency)
	rateLimiter := ratelimit.NewLimiter(cfg, appLogger)

	// Initialize HTTP handlers
	handlerConfig := api.HandlerConfig{
		Logger:         appLogger,
		Store:          store,
		HistoryService: historyService,
		AlertRegistry:  alertRegistry,
		RateLimiter:    rateLimiter,
		DefaultDays:    cfg.HistoryDays,
	}
	handlers := api.NewHandlers(handlerConfig)

	// Setup Gin router
	router := handlers.SetupRoutes()

	// Setup HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		appLogger.Info("Starting CurrencyPro API on port " + cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Create a shutdown context that works across platforms
	shutdownCtx, stop := platform.NewShutdownContext(context.Background())
	defer stop()
	<-shutdownCtx.Done()

	appLogger.Info("Shutting down server...")

	// Stop rate limiter cleanup
	rateLimiter.Stop()

	// Give outstanding requests 30 seconds to complete
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		appLogger.Fatalf("Server forced to shutdown: %v", err)
	}

	appLogger.Info("Server exited")
}
