package exchange

import "math"

// Convert converts amount from one currency to another by pivoting through
// the base currency. The result keeps full float64 precision; rounding to six
// decimal places happens only at the API boundary (see Round6).
func (store *Store) Convert(amount float64, from, to string) (float64, error) {
	// Identity short-circuit: no floating-point round-trip for X -> X.
	if from == to {
		if !store.Has(from) {
			return 0, unknownCurrencyError(from)
		}
		return amount, nil
	}

	fromRate, toRate, err := store.pair(from, to)
	if err != nil {
		return 0, err
	}

	switch {
	case from == BaseCurrency:
		return amount / toRate, nil
	case to == BaseCurrency:
		return amount * fromRate, nil
	default:
		// Cross-rate: amount -> base -> target.
		return amount * fromRate / toRate, nil
	}
}

// Rate returns the unit rate for a pair, computed independently as
// Convert(1, from, to). Callers must not assume result/amount equals this
// value exactly once both have been rounded.
func (store *Store) Rate(from, to string) (float64, error) {
	return store.Convert(1, from, to)
}

// Round6 rounds v to six decimal places, the precision the API advertises.
func Round6(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}
