package exchange

import (
	"testing"

	"currencypro-api/internal/logger"
	"currencypro-api/internal/models"
)

func newTestRegistry(validateCurrency bool) *AlertRegistry {
	store := newTestStore()
	return NewAlertRegistry(store, logger.New("error"), validateCurrency)
}

func TestAlertRegistry_Create(t *testing.T) {
	registry := newTestRegistry(true)

	alert, err := registry.Create("EUR", 1.05, models.AlertAbove, "user@example.com")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if alert.ID == "" {
		t.Error("Create() alert missing id")
	}
	if alert.Currency != "EUR" {
		t.Errorf("Create() currency = %v, want EUR", alert.Currency)
	}
	if alert.TargetRate != 1.05 {
		t.Errorf("Create() targetRate = %v, want 1.05", alert.TargetRate)
	}
	if alert.Direction != models.AlertAbove {
		t.Errorf("Create() direction = %v, want %v", alert.Direction, models.AlertAbove)
	}
	if alert.Email != "user@example.com" {
		t.Errorf("Create() email = %v, want user@example.com", alert.Email)
	}
	if !alert.Active {
		t.Error("Create() active = false, want true")
	}
	if alert.CreatedAt.IsZero() {
		t.Error("Create() createdAt is zero")
	}
}

func TestAlertRegistry_Create_InvalidDirection(t *testing.T) {
	registry := newTestRegistry(true)

	_, err := registry.Create("EUR", 1.05, "sideways", "")
	if err == nil {
		t.Fatal("Create() with invalid direction error = nil, want error")
	}
	if TypeOf(err) != ErrorTypeMissingParameter {
		t.Errorf("Create() error type = %v, want ErrorTypeMissingParameter", TypeOf(err))
	}
}

func TestAlertRegistry_Create_CurrencyValidationPolicy(t *testing.T) {
	// Validating registry rejects currencies absent from the rate table.
	strict := newTestRegistry(true)
	if _, err := strict.Create("XXX", 2, models.AlertBelow, ""); TypeOf(err) != ErrorTypeUnknownCurrency {
		t.Errorf("strict Create(XXX) error = %v, want UnknownCurrency", err)
	}

	// Permissive registry accepts any non-empty code.
	permissive := newTestRegistry(false)
	alert, err := permissive.Create("XXX", 2, models.AlertBelow, "")
	if err != nil {
		t.Fatalf("permissive Create(XXX) error = %v", err)
	}
	if alert.Currency != "XXX" {
		t.Errorf("permissive Create() currency = %v, want XXX", alert.Currency)
	}
}

func TestAlertRegistry_List_InsertionOrder(t *testing.T) {
	registry := newTestRegistry(true)

	created := []struct {
		currency  string
		target    float64
		direction string
	}{
		{"EUR", 3.5, models.AlertAbove},
		{"USD", 2.9, models.AlertBelow},
		{"GBP", 3.8, models.AlertAbove},
	}

	for _, spec := range created {
		if _, err := registry.Create(spec.currency, spec.target, spec.direction, ""); err != nil {
			t.Fatalf("Create(%s) error = %v", spec.currency, err)
		}
	}

	alerts := registry.List()
	if len(alerts) != len(created) {
		t.Fatalf("List() length = %v, want %v", len(alerts), len(created))
	}
	for i, spec := range created {
		if alerts[i].Currency != spec.currency {
			t.Errorf("List()[%d] currency = %v, want %v", i, alerts[i].Currency, spec.currency)
		}
	}
	if registry.Count() != len(created) {
		t.Errorf("Count() = %v, want %v", registry.Count(), len(created))
	}
}

func TestAlertRegistry_List_ReturnsCopy(t *testing.T) {
	registry := newTestRegistry(true)

	if _, err := registry.Create("EUR", 3.5, models.AlertAbove, ""); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	alerts := registry.List()
	alerts[0].Currency = "MUTATED"

	if registry.List()[0].Currency != "EUR" {
		t.Error("List() exposed internal slice to mutation")
	}
}

func TestAlertRegistry_EmptyList(t *testing.T) {
	registry := newTestRegistry(true)

	if alerts := registry.List(); len(alerts) != 0 {
		t.Errorf("List() on empty registry length = %v, want 0", len(alerts))
	}
	if registry.Count() != 0 {
		t.Errorf("Count() on empty registry = %v, want 0", registry.Count())
	}
}
