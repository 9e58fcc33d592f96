package currency

import "fmt"

// Code is an ISO 4217 currency code.
type Code string

const (
	AUD Code = "AUD"
	CHF Code = "CHF"
	EUR Code = "EUR"
	GBP Code = "GBP"
	JPY Code = "JPY"
	KRW Code = "KRW"
	USD Code = "USD"
)

// Amount is a monetary amount in a single currency.
type Amount struct {
	Currency Code
	Value    float64
}

// NewAmount returns an amount of the given currency.
func NewAmount(ccy Code, value float64) Amount {
	return Amount{Currency: ccy, Value: value}
}

// Zero returns the zero amount of the given currency.
func Zero(ccy Code) Amount {
	return Amount{Currency: ccy}
}

// MultipliedBy scales the amount.
func (a Amount) MultipliedBy(f float64) Amount {
	return Amount{Currency: a.Currency, Value: a.Value * f}
}

// Plus adds another amount of the same currency.
func (a Amount) Plus(o Amount) (Amount, error) {
	if a.Currency != o.Currency {
		return Amount{}, fmt.Errorf("currency mismatch: %s vs %s", a.Currency, o.Currency)
	}
	return Amount{Currency: a.Currency, Value: a.Value + o.Value}, nil
}

func (a Amount) String() string {
	return fmt.Sprintf("%s %.4f", a.Currency, a.Value)
}

// Convertible is a value that can be re-expressed in another currency
// using an FX matrix. Implementations return a value of their own type.
type Convertible interface {
	ConvertedTo(to Code, fx *Matrix) (Convertible, error)
}

// ConvertedTo implements Convertible.
func (a Amount) ConvertedTo(to Code, fx *Matrix) (Convertible, error) {
	return fx.Convert(a, to)
}
