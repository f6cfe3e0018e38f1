package exchange

import (
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"currencypro-api/internal/models"

	"github.com/sirupsen/logrus"
)

// BaseCurrency is the pivot for every conversion. Its rate is fixed at 1 and
// cannot be updated.
const BaseCurrency = "TND"

// seedRates are the hardcoded launch rates, expressed as units of currency
// per one TND. There is no external rate source; this table is the truth.
var seedRates = map[string]float64{
	"TND": 1,
	"EUR": 3.475,
	"USD": 2.98,
	"GBP": 3.70,
	"MAD": 0.298,
	"CAD": 2.17,
	"CHF": 3.33,
	"JPY": 0.0206,
}

// Store is the in-memory rate table. It is constructed once in main and
// shared by every handler; the RWMutex is what makes concurrent gin requests
// safe against racing updates (last writer wins, no versioning).
type Store struct {
	logger *logrus.Logger

	mu      sync.RWMutex
	entries map[string]models.RateEntry
}

// NewStore builds a rate table seeded from the hardcoded launch rates.
func NewStore(logger *logrus.Logger) *Store {
	now := time.Now()
	entries := make(map[string]models.RateEntry, len(seedRates))
	for code, rate := range seedRates {
		entries[code] = models.RateEntry{
			Code:        code,
			Rate:        rate,
			LastUpdated: now,
		}
	}

	return &Store{
		logger:  logger,
		entries: entries,
	}
}

// Get returns the entry for code, or an UnknownCurrency error.
func (store *Store) Get(code string) (models.RateEntry, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()

	entry, exists := store.entries[code]
	if !exists {
		return models.RateEntry{}, unknownCurrencyError(code)
	}
	return entry, nil
}

// All returns a copy of the full rate table.
func (store *Store) All() map[string]models.RateEntry {
	store.mu.RLock()
	defer store.mu.RUnlock()

	entries := make(map[string]models.RateEntry, len(store.entries))
	for code, entry := range store.entries {
		entries[code] = entry
	}
	return entries
}

// Codes returns every known currency code in sorted order.
func (store *Store) Codes() []string {
	store.mu.RLock()
	defer store.mu.RUnlock()

	codes := make([]string, 0, len(store.entries))
	for code := range store.entries {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Has reports whether code is present in the rate table.
func (store *Store) Has(code string) bool {
	store.mu.RLock()
	defer store.mu.RUnlock()

	_, exists := store.entries[code]
	return exists
}

// Update overwrites the rate for an existing currency and refreshes its
// lastUpdated timestamp. There is no dynamic registration: unknown codes fail
// with UnknownCurrency and leave the table untouched. Updating the base
// currency is rejected because every stored rate is relative to it.
func (store *Store) Update(code string, rate float64) (models.RateEntry, error) {
	if code == BaseCurrency {
		return models.RateEntry{}, &Error{
			Type:    ErrorTypeInvalidRate,
			Message: fmt.Sprintf("base currency %s is fixed at 1 and cannot be updated", BaseCurrency),
		}
	}
	if math.IsNaN(rate) || math.IsInf(rate, 0) || rate <= 0 {
		return models.RateEntry{}, &Error{
			Type:    ErrorTypeInvalidRate,
			Message: fmt.Sprintf("rate must be a finite positive number, got %v", rate),
		}
	}

	store.mu.Lock()
	defer store.mu.Unlock()

	entry, exists := store.entries[code]
	if !exists {
		return models.RateEntry{}, unknownCurrencyError(code)
	}

	entry.Rate = rate
	entry.LastUpdated = time.Now()
	store.entries[code] = entry

	store.logger.WithFields(logrus.Fields{
		"currency": code,
		"rate":     rate,
	}).Info("Exchange rate updated")

	return entry, nil
}

// pair returns both rates under a single lock acquisition so a conversion
// never sees a table mutated between the two reads.
func (store *Store) pair(from, to string) (fromRate, toRate float64, err error) {
	store.mu.RLock()
	defer store.mu.RUnlock()

	fromEntry, fromExists := store.entries[from]
	if !fromExists {
		return 0, 0, unknownCurrencyError(from)
	}
	toEntry, toExists := store.entries[to]
	if !toExists {
		return 0, 0, unknownCurrencyError(to)
	}
	return fromEntry.Rate, toEntry.Rate, nil
}
