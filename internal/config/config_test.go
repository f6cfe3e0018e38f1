package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	// Save original environment
	varsToClear := []string{
		"PORT", "LOG_LEVEL", "HISTORY_DAYS", "ALERT_VALIDATE_CURRENCY",
		"RATE_LIMIT_ENABLED", "RATE_LIMIT_REQUESTS", "RATE_LIMIT_WINDOW_SECONDS", "RATE_LIMIT_BURST",
	}
	originalEnv := make(map[string]string)
	for _, key := range varsToClear {
		originalEnv[key] = os.Getenv(key)
	}
	defer func() {
		for key, value := range originalEnv {
			if value == "" {
				os.Unsetenv(key)
			} else {
				os.Setenv(key, value)
			}
		}
	}()

	tests := []struct {
		name     string
		envVars  map[string]string
		expected func(*Config) bool
	}{
		{
			name:    "default configuration",
			envVars: map[string]string{},
			expected: func(cfg *Config) bool {
				return cfg.Port == "8080" &&
					cfg.LogLevel == "info" &&
					cfg.HistoryDays == 30 &&
					cfg.AlertValidateCurrency == true &&
					cfg.RateLimitEnabled == true &&
					cfg.RateLimitRequests == 100 &&
					cfg.RateLimitWindow == 60*time.Second &&
					cfg.RateLimitBurst == 10
			},
		},
		{
			name: "custom configuration",
			envVars: map[string]string{
				"PORT":                      "9090",
				"LOG_LEVEL":                 "debug",
				"HISTORY_DAYS":              "7",
				"ALERT_VALIDATE_CURRENCY":   "false",
				"RATE_LIMIT_ENABLED":        "false",
				"RATE_LIMIT_REQUESTS":       "200",
				"RATE_LIMIT_WINDOW_SECONDS": "120",
				"RATE_LIMIT_BURST":          "20",
			},
			expected: func(cfg *Config) bool {
				return cfg.Port == "9090" &&
					cfg.LogLevel == "debug" &&
					cfg.HistoryDays == 7 &&
					cfg.AlertValidateCurrency == false &&
					cfg.RateLimitEnabled == false &&
					cfg.RateLimitRequests == 200 &&
					cfg.RateLimitWindow == 120*time.Second &&
					cfg.RateLimitBurst == 20
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, key := range varsToClear {
				os.Unsetenv(key)
			}
			for key, value := range tt.envVars {
				os.Setenv(key, value)
			}

			cfg, err := Load()
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if !tt.expected(cfg) {
				t.Errorf("Load() unexpected configuration: %+v", cfg)
			}
		})
	}
}

func TestGetEnv(t *testing.T) {
	os.Setenv("TEST_CONFIG_KEY", "value")
	defer os.Unsetenv("TEST_CONFIG_KEY")

	if got := getEnv("TEST_CONFIG_KEY", "fallback"); got != "value" {
		t.Errorf("getEnv() = %v, want %v", got, "value")
	}
	if got := getEnv("TEST_CONFIG_MISSING", "fallback"); got != "fallback" {
		t.Errorf("getEnv() = %v, want %v", got, "fallback")
	}
}

func TestMustAtoi(t *testing.T) {
	if got := mustAtoi("42"); got != 42 {
		t.Errorf("mustAtoi(42) = %v, want 42", got)
	}
	if got := mustAtoi("not-a-number"); got != 30 {
		t.Errorf("mustAtoi(invalid) = %v, want fallback 30", got)
	}
}
