package pricer

import (
	"github.com/meenmo/ratecalc/currency"
	"github.com/meenmo/ratecalc/marketdata"
	"github.com/meenmo/ratecalc/product"
	"github.com/meenmo/ratecalc/sensitivity"
)

// TermDepositPricer prices term deposits by discounting both principal
// exchanges. Flows dated before the valuation date contribute nothing.
type TermDepositPricer struct{}

// FutureValue returns the interest amount paid at maturity.
func (TermDepositPricer) FutureValue(dep *product.ExpandedTermDeposit, view *marketdata.View) (currency.Amount, error) {
	if dep.EndDate.Before(view.ValuationDate()) {
		return currency.Zero(dep.Ccy), nil
	}
	return currency.NewAmount(dep.Ccy, dep.Notional*dep.Rate*dep.YearFraction), nil
}

// PresentValue discounts the initial outflow and the final repayment with
// interest.
func (TermDepositPricer) PresentValue(dep *product.ExpandedTermDeposit, view *marketdata.View) (currency.Amount, error) {
	valuation := view.ValuationDate()
	if dep.EndDate.Before(valuation) {
		return currency.Zero(dep.Ccy), nil
	}
	df, err := view.DiscountFactors(dep.Ccy)
	if err != nil {
		return currency.Amount{}, err
	}
	pv := dep.Notional * (1 + dep.Rate*dep.YearFraction) * df.DF(dep.EndDate)
	if !dep.StartDate.Before(valuation) {
		pv -= dep.Notional * df.DF(dep.StartDate)
	}
	return currency.NewAmount(dep.Ccy, pv), nil
}

// PresentValueSensitivity returns the discount curve point sensitivities
// of the present value, ordered [start, end].
func (TermDepositPricer) PresentValueSensitivity(dep *product.ExpandedTermDeposit, view *marketdata.View) (sensitivity.Points, error) {
	valuation := view.ValuationDate()
	if dep.EndDate.Before(valuation) {
		return sensitivity.PointsOf(), nil
	}
	df, err := view.DiscountFactors(dep.Ccy)
	if err != nil {
		return sensitivity.Points{}, err
	}
	b := sensitivity.None()
	if !dep.StartDate.Before(valuation) {
		start := df.PointSensitivity(dep.StartDate)
		start.Value *= -dep.Notional
		b.Add(start)
	}
	end := df.PointSensitivity(dep.EndDate)
	end.Value *= dep.Notional * (1 + dep.Rate*dep.YearFraction)
	b.Add(end)
	return b.Build(), nil
}

// ParRate returns the deposit rate that zeroes the present value.
func (TermDepositPricer) ParRate(dep *product.ExpandedTermDeposit, view *marketdata.View) (float64, error) {
	df, err := view.DiscountFactors(dep.Ccy)
	if err != nil {
		return 0, err
	}
	return (df.DF(dep.StartDate)/df.DF(dep.EndDate) - 1) / dep.YearFraction, nil
}

// CashFlowsOf returns the two principal exchanges.
func (TermDepositPricer) CashFlowsOf(dep *product.ExpandedTermDeposit, view *marketdata.View) (CashFlows, error) {
	return CashFlows{
		{PaymentDate: dep.StartDate, FutureValue: currency.NewAmount(dep.Ccy, -dep.Notional)},
		{PaymentDate: dep.EndDate, FutureValue: currency.NewAmount(dep.Ccy, dep.Notional*(1+dep.Rate*dep.YearFraction))},
	}, nil
}
