package testutils

import (
	"time"

	"currencypro-api/internal/config"
	"currencypro-api/internal/exchange"
	"currencypro-api/internal/logger"

	"github.com/sirupsen/logrus"
)

// MockLogger creates a quiet logger for testing.
func MockLogger() *logrus.Logger {
	return logger.New("error")
}

// MockConfig creates a mock configuration for testing.
func MockConfig() *config.Config {
	return &config.Config{
		Port:     "8080",
		LogLevel: "error",

		HistoryDays: 30,

		AlertValidateCurrency: true,

		RateLimitEnabled:  true,
		RateLimitRequests: 100,
		RateLimitWindow:   60 * time.Second,
		RateLimitBurst:    10,
	}
}

// NewStore builds a fresh seeded rate table so each test gets isolated state.
func NewStore() *exchange.Store {
	return exchange.NewStore(MockLogger())
}
