package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"currencypro-api/internal/exchange"
	"currencypro-api/internal/middleware"
	"currencypro-api/internal/models"
	"currencypro-api/internal/ratelimit"
)

// Version is reported by the banner endpoint.
const Version = "1.0.0"

// maxHistoryDays caps the ?days= query so one request cannot ask for an
// unbounded number of generated points.
const maxHistoryDays = 365

// HandlerConfig holds all dependencies needed by the handlers.
type HandlerConfig struct {
	Logger         *logrus.Logger
	Store          *exchange.Store
	HistoryService *exchange.HistoryService
	AlertRegistry  *exchange.AlertRegistry
	RateLimiter    *ratelimit.Limiter
	DefaultDays    int
}

// Handlers contains all HTTP handlers.
type Handlers struct {
	logger         *logrus.Logger
	store          *exchange.Store
	historyService *exchange.HistoryService
	alertRegistry  *exchange.AlertRegistry
	rateLimiter    *ratelimit.Limiter
	defaultDays    int
	startTime      time.Time
}

// NewHandlers creates a new handlers instance.
func NewHandlers(handlerConfig HandlerConfig) *Handlers {
	defaultDays := handlerConfig.DefaultDays
	if defaultDays <= 0 {
		defaultDays = 30
	}

	return &Handlers{
		logger:         handlerConfig.Logger,
		store:          handlerConfig.Store,
		historyService: handlerConfig.HistoryService,
		alertRegistry:  handlerConfig.AlertRegistry,
		rateLimiter:    handlerConfig.RateLimiter,
		defaultDays:    defaultDays,
		startTime:      time.Now(),
	}
}

// SetupRoutes configures all the routes using Gin.
func (handlers *Handlers) SetupRoutes() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	router.Use(middleware.RequestLogger(handlers.logger))
	router.Use(gin.Recovery())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.RequestID())
	router.Use(handlers.corsMiddleware())

	if handlers.rateLimiter != nil {
		router.Use(handlers.rateLimitMiddleware())
	}

	router.GET("/", handlers.Index)

	apiGroup := router.Group("/api")
	{
		apiGroup.GET("/health", handlers.HealthCheck)

		apiGroup.GET("/rates", handlers.GetRates)
		apiGroup.GET("/rates/:code", handlers.GetRate)
		apiGroup.POST("/rates/update", handlers.UpdateRate)

		apiGroup.POST("/convert", handlers.Convert)

		// Both history forms share the first path segment so gin keeps a
		// single wildcard name at that level.
		apiGroup.GET("/history/:from", handlers.GetCurrencyHistory)
		apiGroup.GET("/history/:from/:to", handlers.GetPairHistory)

		apiGroup.GET("/alerts", handlers.ListAlerts)
		apiGroup.POST("/alerts", handlers.CreateAlert)
	}

	router.NoRoute(func(context *gin.Context) {
		handlers.writeErrorResponse(context, http.StatusNotFound, "route not found")
	})

	return router
}

// Index returns the service banner with the available endpoints.
func (handlers *Handlers) Index(context *gin.Context) {
	context.JSON(http.StatusOK, models.IndexResponse{
		Message: "CurrencyPro API Server",
		Version: Version,
		Endpoints: []string{
			"GET /api/health",
			"GET /api/rates",
			"GET /api/rates/:code",
			"POST /api/rates/update",
			"POST /api/convert",
			"GET /api/history/:from/:to",
			"GET /api/history/:currency",
			"GET /api/alerts",
			"POST /api/alerts",
		},
	})
}

// HealthCheck handles liveness probe requests.
func (handlers *Handlers) HealthCheck(context *gin.Context) {
	context.JSON(http.StatusOK, models.HealthResponse{
		Success:   true,
		Message:   "CurrencyPro API is running",
		Timestamp: time.Now().Format(time.RFC3339),
		Uptime:    time.Since(handlers.startTime).String(),
	})
}

// GetRates returns the full rate table.
func (handlers *Handlers) GetRates(context *gin.Context) {
	context.JSON(http.StatusOK, models.APIResponse{
		Success:   true,
		Data:      handlers.store.All(),
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

// GetRate returns a single rate table entry.
func (handlers *Handlers) GetRate(context *gin.Context) {
	currencyCode := strings.ToUpper(context.Param("code"))

	entry, lookupError := handlers.store.Get(currencyCode)
	if lookupError != nil {
		handlers.writeDomainError(context, lookupError, http.StatusNotFound)
		return
	}

	context.JSON(http.StatusOK, models.APIResponse{
		Success: true,
		Data:    entry,
	})
}

// UpdateRate overwrites the rate of an existing currency. Unknown currencies
// are a 404; a missing body field, a non-positive rate or an attempt to move
// the base currency are a 400.
func (handlers *Handlers) UpdateRate(context *gin.Context) {
	var updateRequest models.UpdateRateRequest
	if bindError := context.ShouldBindJSON(&updateRequest); bindError != nil {
		handlers.writeErrorResponse(context, http.StatusBadRequest, "invalid request body")
		return
	}

	if updateRequest.Devise == "" || updateRequest.Taux == 0 {
		handlers.writeErrorResponse(context, http.StatusBadRequest, "missing parameters: devise, taux")
		return
	}

	currencyCode := strings.ToUpper(updateRequest.Devise)
	entry, updateError := handlers.store.Update(currencyCode, updateRequest.Taux)
	if updateError != nil {
		handlers.writeDomainError(context, updateError, http.StatusNotFound)
		return
	}

	context.JSON(http.StatusOK, models.APIResponse{
		Success:   true,
		Data:      entry,
		Message:   "rate updated",
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

// Convert converts an amount between two currencies. The result and the unit
// rate are rounded to six decimal places here, at the boundary; the rate is
// computed independently so result/amount need not equal it exactly.
func (handlers *Handlers) Convert(context *gin.Context) {
	var convertRequest models.ConvertRequest
	if bindError := context.ShouldBindJSON(&convertRequest); bindError != nil {
		handlers.writeErrorResponse(context, http.StatusBadRequest, "invalid request body")
		return
	}

	// Zero values count as missing, matching the original API's behavior.
	if convertRequest.Amount == 0 || convertRequest.From == "" || convertRequest.To == "" {
		handlers.writeErrorResponse(context, http.StatusBadRequest, "missing parameters: amount, from, to")
		return
	}

	fromCurrency := strings.ToUpper(convertRequest.From)
	toCurrency := strings.ToUpper(convertRequest.To)

	result, convertError := handlers.store.Convert(convertRequest.Amount, fromCurrency, toCurrency)
	if convertError != nil {
		handlers.writeDomainError(context, convertError, http.StatusBadRequest)
		return
	}
	unitRate, rateError := handlers.store.Rate(fromCurrency, toCurrency)
	if rateError != nil {
		handlers.writeDomainError(context, rateError, http.StatusBadRequest)
		return
	}

	context.JSON(http.StatusOK, models.APIResponse{
		Success: true,
		Data: models.ConvertResult{
			Amount:    convertRequest.Amount,
			From:      fromCurrency,
			To:        toCurrency,
			Result:    exchange.Round6(result),
			Rate:      exchange.Round6(unitRate),
			Timestamp: time.Now().Format(time.RFC3339),
		},
	})
}

// GetPairHistory generates a fresh simulated history for a currency pair.
func (handlers *Handlers) GetPairHistory(context *gin.Context) {
	fromCurrency := strings.ToUpper(context.Param("from"))
	toCurrency := strings.ToUpper(context.Param("to"))

	days := handlers.defaultDays
	if daysQuery := context.Query("days"); daysQuery != "" {
		if parsedDays, parseError := strconv.Atoi(daysQuery); parseError == nil && parsedDays > 0 {
			days = parsedDays
		}
	}
	if days > maxHistoryDays {
		days = maxHistoryDays
	}

	points, generateError := handlers.historyService.Generate(fromCurrency, toCurrency, days)
	if generateError != nil {
		handlers.writeDomainError(context, generateError, http.StatusBadRequest)
		return
	}

	context.JSON(http.StatusOK, models.APIResponse{
		Success: true,
		Data: models.PairHistory{
			From:    fromCurrency,
			To:      toCurrency,
			Period:  fmt.Sprintf("%d days", days),
			History: points,
			Summary: exchange.Summarize(points),
		},
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

// GetCurrencyHistory serves the frozen startup history of a single currency
// against the base currency.
func (handlers *Handlers) GetCurrencyHistory(context *gin.Context) {
	currencyCode := strings.ToUpper(context.Param("from"))

	points, historyError := handlers.historyService.CurrencyHistory(currencyCode)
	if historyError != nil {
		handlers.writeDomainError(context, historyError, http.StatusNotFound)
		return
	}

	entry, lookupError := handlers.store.Get(currencyCode)
	if lookupError != nil {
		handlers.writeDomainError(context, lookupError, http.StatusNotFound)
		return
	}

	context.JSON(http.StatusOK, models.APIResponse{
		Success: true,
		Data: models.CurrencyHistory{
			Currency:     currencyCode,
			History:      points,
			CurrentRate:  entry.Rate,
			TotalEntries: len(points),
		},
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

// ListAlerts returns every recorded alert in insertion order.
func (handlers *Handlers) ListAlerts(context *gin.Context) {
	alerts := handlers.alertRegistry.List()

	context.JSON(http.StatusOK, models.AlertListResponse{
		Success:   true,
		Data:      alerts,
		Count:     len(alerts),
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

// CreateAlert records a new rate alert. Alerts are never evaluated; creation
// and listing is the whole lifecycle.
func (handlers *Handlers) CreateAlert(context *gin.Context) {
	var alertRequest models.CreateAlertRequest
	if bindError := context.ShouldBindJSON(&alertRequest); bindError != nil {
		handlers.writeErrorResponse(context, http.StatusBadRequest, "invalid request body")
		return
	}

	if alertRequest.Currency == "" || alertRequest.TargetRate == 0 || alertRequest.Type == "" {
		handlers.writeErrorResponse(context, http.StatusBadRequest, "missing parameters: currency, targetRate, type")
		return
	}

	currencyCode := strings.ToUpper(alertRequest.Currency)
	alert, createError := handlers.alertRegistry.Create(currencyCode, alertRequest.TargetRate, alertRequest.Type, alertRequest.Email)
	if createError != nil {
		handlers.writeDomainError(context, createError, http.StatusBadRequest)
		return
	}

	context.JSON(http.StatusOK, models.APIResponse{
		Success: true,
		Data:    alert,
		Message: "alert created",
	})
}

// writeDomainError maps a domain error to an HTTP status. UnknownCurrency is
// a 400 or a 404 depending on the endpoint, so the caller passes the status
// it wants for that case; the rest of the taxonomy maps uniformly.
func (handlers *Handlers) writeDomainError(context *gin.Context, domainError error, unknownCurrencyStatus int) {
	statusCode := http.StatusInternalServerError

	switch exchange.TypeOf(domainError) {
	case exchange.ErrorTypeMissingParameter, exchange.ErrorTypeInvalidRate:
		statusCode = http.StatusBadRequest
	case exchange.ErrorTypeUnknownCurrency:
		statusCode = unknownCurrencyStatus
	case exchange.ErrorTypeNotFound:
		statusCode = http.StatusNotFound
	}

	handlers.writeErrorResponse(context, statusCode, domainError.Error())
}

// writeErrorResponse writes the uniform failure envelope.
func (handlers *Handlers) writeErrorResponse(context *gin.Context, statusCode int, errorMessage string) {
	context.JSON(statusCode, models.ErrorResponse{
		Success: false,
		Error:   errorMessage,
	})
}

// corsMiddleware adds CORS headers using Gin middleware.
func (handlers *Handlers) corsMiddleware() gin.HandlerFunc {
	return func(context *gin.Context) {
		context.Header("Access-Control-Allow-Origin", "*")
		context.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		context.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if context.Request.Method == "OPTIONS" {
			context.AbortWithStatus(http.StatusOK)
			return
		}

		context.Next()
	}
}

// rateLimitMiddleware provides rate limiting using Gin middleware.
func (handlers *Handlers) rateLimitMiddleware() gin.HandlerFunc {
	return func(context *gin.Context) {
		clientIP := handlers.rateLimiter.GetClientIP(context.Request)

		if !handlers.rateLimiter.Allow(clientIP) {
			handlers.logger.Warnf("Rate limit exceeded for IP: %s", clientIP)
			context.Header("X-RateLimit-Limit", strconv.Itoa(handlers.rateLimiter.Configuration.RateLimitRequests))
			context.Header("X-RateLimit-Remaining", "0")
			context.Header("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(handlers.rateLimiter.Configuration.RateLimitWindow).Unix(), 10))
			context.JSON(http.StatusTooManyRequests, models.ErrorResponse{Success: false, Error: "rate limit exceeded"})
			context.Abort()
			return
		}

		context.Next()
	}
}
