package models

import "time"

// RateEntry is a single row of the rate table. Rate is expressed as units of
// this currency per one unit of the base currency; the base currency itself
// always carries rate 1. Wire names follow the original CurrencyPro API.
type RateEntry struct {
	Code        string    `json:"devise"`
	Rate        float64   `json:"taux"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// HistoryPoint is one day of simulated rate history.
type HistoryPoint struct {
	Date          string  `json:"date"`
	Rate          float64 `json:"rate"`
	ChangePercent float64 `json:"change"`
}

// HistorySummary aggregates a generated history sequence.
type HistorySummary struct {
	Current       float64 `json:"current"`
	Highest       float64 `json:"highest"`
	Lowest        float64 `json:"lowest"`
	AverageChange float64 `json:"averageChange"`
}

// Alert is a user-declared rate threshold watch. Alerts are never evaluated
// against the rate table; they only exist to be created and listed.
type Alert struct {
	ID         string    `json:"id"`
	Currency   string    `json:"currency"`
	TargetRate float64   `json:"targetRate"`
	Direction  string    `json:"type"`
	Email      string    `json:"email,omitempty"`
	CreatedAt  time.Time `json:"created"`
	Active     bool      `json:"active"`
}

// Alert directions.
const (
	AlertAbove = "above"
	AlertBelow = "below"
)

// ConvertRequest is the body of POST /api/convert.
type ConvertRequest struct {
	Amount float64 `json:"amount"`
	From   string  `json:"from"`
	To     string  `json:"to"`
}

// ConvertResult is the payload returned for a successful conversion.
type ConvertResult struct {
	Amount    float64 `json:"amount"`
	From      string  `json:"from"`
	To        string  `json:"to"`
	Result    float64 `json:"result"`
	Rate      float64 `json:"rate"`
	Timestamp string  `json:"timestamp"`
}

// UpdateRateRequest is the body of POST /api/rates/update.
type UpdateRateRequest struct {
	Devise string  `json:"devise"`
	Taux   float64 `json:"taux"`
}

// CreateAlertRequest is the body of POST /api/alerts.
type CreateAlertRequest struct {
	Currency   string  `json:"currency"`
	TargetRate float64 `json:"targetRate"`
	Type       string  `json:"type"`
	Email      string  `json:"email"`
}

// PairHistory is the payload of GET /api/history/:from/:to.
type PairHistory struct {
	From    string         `json:"from"`
	To      string         `json:"to"`
	Period  string         `json:"period"`
	History []HistoryPoint `json:"history"`
	Summary HistorySummary `json:"summary"`
}

// CurrencyHistory is the payload of GET /api/history/:currency.
type CurrencyHistory struct {
	Currency     string         `json:"currency"`
	History      []HistoryPoint `json:"history"`
	CurrentRate  float64        `json:"currentRate"`
	TotalEntries int            `json:"totalEntries"`
}

// APIResponse is the generic success envelope.
type APIResponse struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	Message   string      `json:"message,omitempty"`
	Timestamp string      `json:"timestamp,omitempty"`
}

// AlertListResponse envelopes GET /api/alerts; Count is always present,
// including when the registry is empty.
type AlertListResponse struct {
	Success   bool    `json:"success"`
	Data      []Alert `json:"data"`
	Count     int     `json:"count"`
	Timestamp string  `json:"timestamp"`
}

// HealthResponse is the liveness probe payload.
type HealthResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
	Uptime    string `json:"uptime"`
}

// IndexResponse is the payload of GET /.
type IndexResponse struct {
	Message   string   `json:"message"`
	Version   string   `json:"version"`
	Endpoints []string `json:"endpoints"`
}

// ErrorResponse is the uniform failure envelope.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}
