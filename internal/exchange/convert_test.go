package exchange

import (
	"math"
	"testing"
)

const tolerance = 1e-9

func almostEqual(a, b, epsilon float64) bool {
	return math.Abs(a-b) <= epsilon
}

func TestConvert_Identity(t *testing.T) {
	store := newTestStore()

	for _, code := range store.Codes() {
		for _, amount := range []float64{0.01, 1, 100, 12345.6789} {
			result, err := store.Convert(amount, code, code)
			if err != nil {
				t.Fatalf("Convert(%v, %s, %s) error = %v", amount, code, code, err)
			}
			if result != amount {
				t.Errorf("Convert(%v, %s, %s) = %v, want %v", amount, code, code, result, amount)
			}
		}
	}
}

func TestConvert_FromBase(t *testing.T) {
	store := newTestStore()

	// 100 TND in EUR at taux 3.475: 100 / 3.475
	result, err := store.Convert(100, "TND", "EUR")
	if err != nil {
		t.Fatalf("Convert(100, TND, EUR) error = %v", err)
	}
	want := 100.0 / 3.475
	if !almostEqual(result, want, tolerance) {
		t.Errorf("Convert(100, TND, EUR) = %v, want %v", result, want)
	}
	if !almostEqual(Round6(result), 28.776978, 1e-6) {
		t.Errorf("Round6(Convert(100, TND, EUR)) = %v, want ~28.776978", Round6(result))
	}
}

func TestConvert_ToBase(t *testing.T) {
	store := newTestStore()

	result, err := store.Convert(10, "USD", "TND")
	if err != nil {
		t.Fatalf("Convert(10, USD, TND) error = %v", err)
	}
	if !almostEqual(result, 29.8, tolerance) {
		t.Errorf("Convert(10, USD, TND) = %v, want 29.8", result)
	}
}

func TestConvert_CrossRate(t *testing.T) {
	store := newTestStore()

	// 100 EUR -> USD pivots through TND: (100 * 3.475) / 2.98
	result, err := store.Convert(100, "EUR", "USD")
	if err != nil {
		t.Fatalf("Convert(100, EUR, USD) error = %v", err)
	}
	want := 100 * 3.475 / 2.98
	if !almostEqual(result, want, tolerance) {
		t.Errorf("Convert(100, EUR, USD) = %v, want %v", result, want)
	}
	if !almostEqual(Round6(result), 116.610738, 1e-6) {
		t.Errorf("Round6(Convert(100, EUR, USD)) = %v, want ~116.610738", Round6(result))
	}
}

func TestConvert_Linearity(t *testing.T) {
	store := newTestStore()
	codes := store.Codes()

	for _, from := range codes {
		for _, to := range codes {
			unitRate, err := store.Convert(1, from, to)
			if err != nil {
				t.Fatalf("Convert(1, %s, %s) error = %v", from, to, err)
			}
			for _, amount := range []float64{2, 57.5, 1000} {
				result, err := store.Convert(amount, from, to)
				if err != nil {
					t.Fatalf("Convert(%v, %s, %s) error = %v", amount, from, to, err)
				}
				if !almostEqual(result, amount*unitRate, math.Abs(result)*1e-12+1e-12) {
					t.Errorf("Convert(%v, %s, %s) = %v, want %v", amount, from, to, result, amount*unitRate)
				}
			}
		}
	}
}

func TestConvert_RoundTrip(t *testing.T) {
	store := newTestStore()
	codes := store.Codes()

	for _, from := range codes {
		for _, to := range codes {
			forward, err := store.Convert(250, from, to)
			if err != nil {
				t.Fatalf("Convert(250, %s, %s) error = %v", from, to, err)
			}
			back, err := store.Convert(forward, to, from)
			if err != nil {
				t.Fatalf("Convert(%v, %s, %s) error = %v", forward, to, from, err)
			}
			if !almostEqual(back, 250, 1e-6) {
				t.Errorf("round trip %s -> %s -> %s = %v, want ~250", from, to, from, back)
			}
		}
	}
}

func TestConvert_UnknownCurrency(t *testing.T) {
	store := newTestStore()

	for _, pair := range [][2]string{{"XXX", "EUR"}, {"EUR", "XXX"}, {"XXX", "XXX"}} {
		_, err := store.Convert(100, pair[0], pair[1])
		if err == nil {
			t.Fatalf("Convert(100, %s, %s) error = nil, want UnknownCurrency", pair[0], pair[1])
		}
		if TypeOf(err) != ErrorTypeUnknownCurrency {
			t.Errorf("Convert(100, %s, %s) error type = %v, want ErrorTypeUnknownCurrency", pair[0], pair[1], TypeOf(err))
		}
	}
}

func TestConvert_ReflectsUpdatedRates(t *testing.T) {
	store := newTestStore()

	if _, err := store.Update("EUR", 4); err != nil {
		t.Fatalf("Update(EUR, 4) error = %v", err)
	}

	result, err := store.Convert(100, "TND", "EUR")
	if err != nil {
		t.Fatalf("Convert(100, TND, EUR) error = %v", err)
	}
	if !almostEqual(result, 25, tolerance) {
		t.Errorf("Convert(100, TND, EUR) after update = %v, want 25", result)
	}
}

func TestRound6(t *testing.T) {
	tests := []struct {
		input    float64
		expected float64
	}{
		{1.23456789, 1.234568},
		{1.2345644, 1.234564},
		{0, 0},
		{-2.5000004, -2.5},
		{100, 100},
	}

	for _, tt := range tests {
		if got := Round6(tt.input); got != tt.expected {
			t.Errorf("Round6(%v) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}
