package currency

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingRate is returned when no FX rate can be derived for a pair.
	ErrMissingRate = errors.New("missing fx rate")
)

// Matrix holds FX rates against a base currency. Cross rates between two
// non-base currencies are derived through the base. Immutable after
// construction.
type Matrix struct {
	base  Code
	rates map[Code]float64 // 1 unit of ccy = rates[ccy] units of base
}

// NewMatrix builds a matrix from per-currency rates expressed in units of
// the base currency (1 unit of key = value units of base). The base itself
// is implied at 1.0.
func NewMatrix(base Code, rates map[Code]float64) (*Matrix, error) {
	m := &Matrix{base: base, rates: make(map[Code]float64, len(rates)+1)}
	m.rates[base] = 1.0
	for ccy, rate := range rates {
		if rate <= 0 {
			return nil, fmt.Errorf("fx rate for %s/%s must be positive, got %g", ccy, base, rate)
		}
		m.rates[ccy] = rate
	}
	return m, nil
}

// Base returns the matrix base currency.
func (m *Matrix) Base() Code {
	return m.base
}

// Rate returns the rate converting one unit of from into units of to,
// deriving cross rates through the base currency.
func (m *Matrix) Rate(from, to Code) (float64, error) {
	if from == to {
		return 1.0, nil
	}
	rf, okf := m.rates[from]
	rt, okt := m.rates[to]
	if !okf || !okt {
		return 0, fmt.Errorf("%w: %s/%s", ErrMissingRate, from, to)
	}
	return rf / rt, nil
}

// Convert re-expresses an amount in another currency.
func (m *Matrix) Convert(a Amount, to Code) (Amount, error) {
	rate, err := m.Rate(a.Currency, to)
	if err != nil {
		return Amount{}, err
	}
	return Amount{Currency: to, Value: a.Value * rate}, nil
}
