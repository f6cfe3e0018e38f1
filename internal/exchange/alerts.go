package exchange

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"currencypro-api/internal/models"

	"github.com/sirupsen/logrus"
)

// AlertRegistry is an append-only list of rate threshold watches. Nothing
// ever evaluates alerts against the rate table and nothing deletes them;
// create and list is the entire lifecycle.
type AlertRegistry struct {
	store            *Store
	logger           *logrus.Logger
	validateCurrency bool

	mu     sync.Mutex
	alerts []models.Alert
}

// NewAlertRegistry builds an empty registry. When validateCurrency is set,
// Create rejects currencies absent from the rate table; when unset any
// non-empty string is accepted.
func NewAlertRegistry(store *Store, logger *logrus.Logger, validateCurrency bool) *AlertRegistry {
	return &AlertRegistry{
		store:            store,
		logger:           logger,
		validateCurrency: validateCurrency,
	}
}

// Create records a new alert and returns it. The ID is the creation-time
// millisecond tick, which is unique enough for a demo but not collision-proof
// under concurrent creation.
func (registry *AlertRegistry) Create(currency string, targetRate float64, direction, email string) (models.Alert, error) {
	if direction != models.AlertAbove && direction != models.AlertBelow {
		return models.Alert{}, &Error{
			Type:    ErrorTypeMissingParameter,
			Message: fmt.Sprintf("alert type must be %q or %q, got %q", models.AlertAbove, models.AlertBelow, direction),
		}
	}
	if registry.validateCurrency && !registry.store.Has(currency) {
		return models.Alert{}, unknownCurrencyError(currency)
	}

	now := time.Now()
	alert := models.Alert{
		ID:         strconv.FormatInt(now.UnixMilli(), 10),
		Currency:   currency,
		TargetRate: targetRate,
		Direction:  direction,
		Email:      email,
		CreatedAt:  now,
		Active:     true,
	}

	registry.mu.Lock()
	registry.alerts = append(registry.alerts, alert)
	registry.mu.Unlock()

	registry.logger.WithFields(logrus.Fields{
		"alert_id":    alert.ID,
		"currency":    currency,
		"target_rate": targetRate,
		"type":        direction,
	}).Info("Rate alert created")

	return alert, nil
}

// List returns all alerts in insertion order.
func (registry *AlertRegistry) List() []models.Alert {
	registry.mu.Lock()
	defer registry.mu.Unlock()

	alerts := make([]models.Alert, len(registry.alerts))
	copy(alerts, registry.alerts)
	return alerts
}

// Count returns the number of recorded alerts.
func (registry *AlertRegistry) Count() int {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	return len(registry.alerts)
}
