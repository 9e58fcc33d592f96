package product

import (
	"fmt"
	"time"

	"github.com/meenmo/ratecalc/currency"
	"github.com/meenmo/ratecalc/daycount"
)

// TermDeposit is a simple term deposit: the notional is paid away on the
// start date and returned with interest at the fixed rate on the end date.
// A positive notional lends (deposits); a negative notional borrows.
type TermDeposit struct {
	Notional  float64
	StartDate time.Time
	EndDate   time.Time
	Rate      float64
	Ccy       currency.Code
	DayCount  daycount.Convention
}

// Kind implements Product.
func (d TermDeposit) Kind() Kind {
	return KindTermDeposit
}

// Currency implements Product.
func (d TermDeposit) Currency() currency.Code {
	return d.Ccy
}

// Expand validates and resolves the deposit.
func (d TermDeposit) Expand() (Expanded, error) {
	if d.Notional == 0 {
		return nil, fmt.Errorf("term deposit: notional is required")
	}
	if d.Ccy == "" {
		return nil, fmt.Errorf("term deposit: currency is required")
	}
	if d.StartDate.IsZero() || d.EndDate.IsZero() {
		return nil, fmt.Errorf("term deposit: start and end dates are required")
	}
	if !d.EndDate.After(d.StartDate) {
		return nil, fmt.Errorf("term deposit: end date %s must be after start date %s",
			d.EndDate.Format("2006-01-02"), d.StartDate.Format("2006-01-02"))
	}
	dc := d.DayCount
	if dc == "" {
		dc = daycount.Act360
	}
	return &ExpandedTermDeposit{
		Ccy:          d.Ccy,
		Notional:     d.Notional,
		StartDate:    d.StartDate,
		EndDate:      d.EndDate,
		YearFraction: daycount.YearFraction(d.StartDate, d.EndDate, dc),
		Rate:         d.Rate,
	}, nil
}

// ExpandedTermDeposit is the resolved economics of a term deposit.
type ExpandedTermDeposit struct {
	Ccy          currency.Code
	Notional     float64
	StartDate    time.Time
	EndDate      time.Time
	YearFraction float64
	Rate         float64
}

// Kind implements Expanded.
func (d *ExpandedTermDeposit) Kind() Kind {
	return KindTermDeposit
}

// Currency implements Expanded.
func (d *ExpandedTermDeposit) Currency() currency.Code {
	return d.Ccy
}
