package product

import (
	"fmt"
	"time"

	"github.com/meenmo/ratecalc/currency"
	"github.com/meenmo/ratecalc/daycount"
	"github.com/meenmo/ratecalc/index"
	"github.com/meenmo/ratecalc/rateobs"
)

// Discounting selects the FRA cash settlement convention. The set is
// closed: the three conventions imply the three settlement formulas and
// the convention is fixed at expansion time.
type Discounting string

const (
	DiscountingISDA Discounting = "ISDA"
	DiscountingNone Discounting = "NONE"
	DiscountingAFMA Discounting = "AFMA"
)

// Fra is a forward rate agreement. A positive notional receives the
// floating rate (buys the FRA); sellers use a negative notional.
//
// Optional fields default from the index: PaymentDate to StartDate,
// FixingDate to the index fixing implied by StartDate, DayCount and Ccy to
// the index conventions, Discounting to ISDA.
type Fra struct {
	Notional  float64
	StartDate time.Time
	EndDate   time.Time
	FixedRate float64

	Index index.Ibor
	// IndexInterpolated, when set, blends the rate between Index and this
	// second index of a different tenor.
	IndexInterpolated *index.Ibor

	PaymentDate time.Time
	FixingDate  time.Time
	DayCount    daycount.Convention
	Ccy         currency.Code
	Discounting Discounting
}

// Kind implements Product.
func (f Fra) Kind() Kind {
	return KindFra
}

// Currency implements Product.
func (f Fra) Currency() currency.Code {
	if f.Ccy != "" {
		return f.Ccy
	}
	return f.Index.Currency
}

// Expand validates the trade economics and resolves the FRA into its
// expanded form.
func (f Fra) Expand() (Expanded, error) {
	if f.Notional == 0 {
		return nil, fmt.Errorf("fra: notional is required")
	}
	if f.StartDate.IsZero() || f.EndDate.IsZero() {
		return nil, fmt.Errorf("fra: start and end dates are required")
	}
	if !f.EndDate.After(f.StartDate) {
		return nil, fmt.Errorf("fra: end date %s must be after start date %s",
			f.EndDate.Format("2006-01-02"), f.StartDate.Format("2006-01-02"))
	}
	disc := f.Discounting
	if disc == "" {
		disc = DiscountingISDA
	}
	switch disc {
	case DiscountingISDA, DiscountingNone, DiscountingAFMA:
	default:
		return nil, fmt.Errorf("fra: unknown discounting convention %q", disc)
	}

	payment := f.PaymentDate
	if payment.IsZero() {
		payment = f.StartDate
	}
	fixing := f.FixingDate
	if fixing.IsZero() {
		fixing = f.Index.FixingFromEffective(f.StartDate)
	}
	dc := f.DayCount
	if dc == "" {
		dc = f.Index.DayCount
	}

	var floating rateobs.Observation
	if f.IndexInterpolated != nil {
		short, long := f.Index, *f.IndexInterpolated
		if short.TenorMonths > long.TenorMonths {
			short, long = long, short
		}
		if short.TenorMonths == long.TenorMonths {
			return nil, fmt.Errorf("fra: interpolated indices %s and %s have the same tenor", f.Index.Name, f.IndexInterpolated.Name)
		}
		if short.Currency != long.Currency {
			return nil, fmt.Errorf("fra: interpolated indices %s and %s differ in currency", short.Name, long.Name)
		}
		floating = rateobs.InterpolatedObservation(short, long, fixing)
	} else {
		floating = rateobs.IborObservation(f.Index, fixing)
	}

	return &ExpandedFra{
		Ccy:          f.Currency(),
		Notional:     f.Notional,
		StartDate:    f.StartDate,
		EndDate:      f.EndDate,
		PaymentDate:  payment,
		YearFraction: daycount.YearFraction(f.StartDate, f.EndDate, dc),
		FixedRate:    f.FixedRate,
		FloatingRate: floating,
		Discounting:  disc,
	}, nil
}

// ExpandedFra is the resolved economics of a FRA. Immutable.
type ExpandedFra struct {
	Ccy          currency.Code
	Notional     float64
	StartDate    time.Time
	EndDate      time.Time
	PaymentDate  time.Time
	YearFraction float64
	FixedRate    float64
	FloatingRate rateobs.Observation
	Discounting  Discounting
}

// Kind implements Expanded.
func (f *ExpandedFra) Kind() Kind {
	return KindFra
}

// Currency implements Expanded.
func (f *ExpandedFra) Currency() currency.Code {
	return f.Ccy
}
