package exchange

import (
	"fmt"
	"math/rand"
	"time"

	"currencypro-api/internal/models"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// maxJitter bounds the simulated daily variation at ±2% of the base rate.
const maxJitter = 0.02

// HistoryService produces synthetic rate history. There is no real historical
// data anywhere in the system; every point is the current cross-rate with
// random jitter applied, which means regenerating the same pair yields
// different numbers each time.
//
// Two serving policies coexist, matching the public endpoints:
//   - pair histories are regenerated on every request (concurrent identical
//     requests are collapsed through singleflight so they share one result)
//   - per-currency histories against the base currency are generated once at
//     startup, frozen, and served unchanged for the life of the process
type HistoryService struct {
	store       *Store
	logger      *logrus.Logger
	defaultDays int

	flightGroup singleflight.Group

	// frozen is built in the constructor and never written again, so it is
	// safe to read without a lock.
	frozen map[string][]models.HistoryPoint
}

// NewHistoryService builds the service and precomputes the frozen
// per-currency histories for every non-base currency.
func NewHistoryService(store *Store, logger *logrus.Logger, defaultDays int) *HistoryService {
	if defaultDays <= 0 {
		defaultDays = 30
	}

	historyService := &HistoryService{
		store:       store,
		logger:      logger,
		defaultDays: defaultDays,
		frozen:      make(map[string][]models.HistoryPoint),
	}

	for _, code := range store.Codes() {
		if code == BaseCurrency {
			continue
		}
		points, err := historyService.Generate(BaseCurrency, code, defaultDays)
		if err != nil {
			// Cannot happen for codes read from the store itself.
			logger.Warnf("Skipping startup history for %s: %v", code, err)
			continue
		}
		historyService.frozen[code] = points
	}

	logger.WithFields(logrus.Fields{
		"currencies": len(historyService.frozen),
		"days":       defaultDays,
	}).Info("Startup rate histories generated")

	return historyService
}

// Generate produces days+1 points (day offsets days..0, oldest first) for a
// currency pair. Each day's jitter is drawn independently around the current
// cross-rate; the sequence is not a random walk, so consecutive days can
// swing by up to twice the jitter bound.
func (historyService *HistoryService) Generate(from, to string, days int) ([]models.HistoryPoint, error) {
	flightKey := fmt.Sprintf("%s/%s/%d", from, to, days)
	result, err, _ := historyService.flightGroup.Do(flightKey, func() (interface{}, error) {
		return historyService.generate(from, to, days)
	})
	if err != nil {
		return nil, err
	}
	return result.([]models.HistoryPoint), nil
}

func (historyService *HistoryService) generate(from, to string, days int) ([]models.HistoryPoint, error) {
	fromRate, toRate, err := historyService.store.pair(from, to)
	if err != nil {
		return nil, err
	}
	baseRate := toRate / fromRate

	today := time.Now()
	points := make([]models.HistoryPoint, 0, days+1)
	for i := days; i >= 0; i-- {
		jitter := (rand.Float64() - 0.5) * 2 * maxJitter
		points = append(points, models.HistoryPoint{
			Date:          today.AddDate(0, 0, -i).Format("2006-01-02"),
			Rate:          Round6(baseRate * (1 + jitter)),
			ChangePercent: jitter * 100,
		})
	}
	return points, nil
}

// CurrencyHistory returns the frozen startup history for a single currency
// against the base currency. The base currency itself has no history (its
// rate is the constant 1), which surfaces as NotFound.
func (historyService *HistoryService) CurrencyHistory(code string) ([]models.HistoryPoint, error) {
	if !historyService.store.Has(code) {
		return nil, unknownCurrencyError(code)
	}

	points, exists := historyService.frozen[code]
	if !exists {
		return nil, &Error{
			Type:    ErrorTypeNotFound,
			Message: fmt.Sprintf("no history available for currency %s", code),
		}
	}
	return points, nil
}

// Summarize derives the display statistics for a generated sequence:
// current is the newest rate, highest/lowest span the whole sequence and
// averageChange is the mean absolute daily change in percent.
func Summarize(points []models.HistoryPoint) models.HistorySummary {
	if len(points) == 0 {
		return models.HistorySummary{}
	}

	summary := models.HistorySummary{
		Current: points[len(points)-1].Rate,
		Highest: points[0].Rate,
		Lowest:  points[0].Rate,
	}

	totalChange := 0.0
	for _, point := range points {
		if point.Rate > summary.Highest {
			summary.Highest = point.Rate
		}
		if point.Rate < summary.Lowest {
			summary.Lowest = point.Rate
		}
		change := point.ChangePercent
		if change < 0 {
			change = -change
		}
		totalChange += change
	}
	summary.AverageChange = totalChange / float64(len(points))

	return summary
}
