// Package pricer computes valuation measures for expanded products
// against a market data view. All pricers are stateless pure functions of
// (product, view); missing market data propagates as an error for the
// orchestrator to capture per cell.
package pricer

import (
	"github.com/meenmo/ratecalc/currency"
	"github.com/meenmo/ratecalc/marketdata"
	"github.com/meenmo/ratecalc/product"
	"github.com/meenmo/ratecalc/rateobs"
	"github.com/meenmo/ratecalc/sensitivity"
)

// FraPricer prices forward rate agreements by discounting, supporting the
// ISDA, NONE and AFMA cash settlement conventions.
type FraPricer struct{}

// FutureValue returns the settlement amount projected to the payment
// date. A FRA whose payment date precedes the valuation date has settled
// and contributes nothing.
func (FraPricer) FutureValue(fra *product.ExpandedFra, view *marketdata.View) (currency.Amount, error) {
	if fra.PaymentDate.Before(view.ValuationDate()) {
		return currency.Zero(fra.Ccy), nil
	}
	forward, err := rateobs.Rate(fra.FloatingRate, fra.StartDate, fra.EndDate, view)
	if err != nil {
		return currency.Amount{}, err
	}
	return currency.NewAmount(fra.Ccy, futureValue(fra, forward)), nil
}

// PresentValue discounts the future value from the payment date. A
// settled FRA is zero without any discount curve lookup.
func (FraPricer) PresentValue(fra *product.ExpandedFra, view *marketdata.View) (currency.Amount, error) {
	if fra.PaymentDate.Before(view.ValuationDate()) {
		return currency.Zero(fra.Ccy), nil
	}
	fv, err := FraPricer{}.FutureValue(fra, view)
	if err != nil {
		return currency.Amount{}, err
	}
	df, err := view.DiscountFactors(fra.Ccy)
	if err != nil {
		return currency.Amount{}, err
	}
	return fv.MultipliedBy(df.DF(fra.PaymentDate)), nil
}

// FutureValueSensitivity returns the analytic derivative of the future
// value with respect to the curve inputs, via the chain rule through the
// rate observation.
func (FraPricer) FutureValueSensitivity(fra *product.ExpandedFra, view *marketdata.View) (sensitivity.Points, error) {
	if fra.PaymentDate.Before(view.ValuationDate()) {
		return sensitivity.PointsOf(), nil
	}
	forward, err := rateobs.Rate(fra.FloatingRate, fra.StartDate, fra.EndDate, view)
	if err != nil {
		return sensitivity.Points{}, err
	}
	rateSens, err := rateobs.RateSensitivity(fra.FloatingRate, fra.StartDate, fra.EndDate, view)
	if err != nil {
		return sensitivity.Points{}, err
	}
	return rateSens.MultipliedBy(futureValueDerivative(fra, forward)).Build(), nil
}

// PresentValueSensitivity returns the analytic derivative of the present
// value: the discounted rate sensitivity entries first, then the discount
// curve's own point sensitivity at the payment date scaled by the future
// value, in that fixed order.
func (FraPricer) PresentValueSensitivity(fra *product.ExpandedFra, view *marketdata.View) (sensitivity.Points, error) {
	if fra.PaymentDate.Before(view.ValuationDate()) {
		return sensitivity.PointsOf(), nil
	}
	forward, err := rateobs.Rate(fra.FloatingRate, fra.StartDate, fra.EndDate, view)
	if err != nil {
		return sensitivity.Points{}, err
	}
	rateSens, err := rateobs.RateSensitivity(fra.FloatingRate, fra.StartDate, fra.EndDate, view)
	if err != nil {
		return sensitivity.Points{}, err
	}
	df, err := view.DiscountFactors(fra.Ccy)
	if err != nil {
		return sensitivity.Points{}, err
	}
	discountFactor := df.DF(fra.PaymentDate)
	fv := futureValue(fra, forward)

	rateTerm := rateSens.MultipliedBy(discountFactor * futureValueDerivative(fra, forward)).Build()
	dscPoint := df.PointSensitivity(fra.PaymentDate)
	dscPoint.Value *= fv
	return rateTerm.CombinedWith(sensitivity.PointsOf(dscPoint)), nil
}

// ParRate returns the fixed rate zeroing the future value. It equals the
// forward rate under every settlement convention.
func (FraPricer) ParRate(fra *product.ExpandedFra, view *marketdata.View) (float64, error) {
	return rateobs.Rate(fra.FloatingRate, fra.StartDate, fra.EndDate, view)
}

// CashFlowsOf returns the single projected settlement flow.
func (FraPricer) CashFlowsOf(fra *product.ExpandedFra, view *marketdata.View) (CashFlows, error) {
	fv, err := FraPricer{}.FutureValue(fra, view)
	if err != nil {
		return nil, err
	}
	return CashFlows{{PaymentDate: fra.PaymentDate, FutureValue: fv}}, nil
}

// futureValue applies the convention-specific settlement formula.
func futureValue(fra *product.ExpandedFra, forward float64) float64 {
	yf := fra.YearFraction
	switch fra.Discounting {
	case product.DiscountingNone:
		return fra.Notional * yf * (forward - fra.FixedRate)
	case product.DiscountingAFMA:
		return -fra.Notional * (1/(1+yf*forward) - 1/(1+yf*fra.FixedRate))
	default: // ISDA
		return fra.Notional * yf * (forward - fra.FixedRate) / (1 + yf*forward)
	}
}

// futureValueDerivative is d(futureValue)/d(forward).
func futureValueDerivative(fra *product.ExpandedFra, forward float64) float64 {
	yf := fra.YearFraction
	switch fra.Discounting {
	case product.DiscountingNone:
		return fra.Notional * yf
	case product.DiscountingAFMA:
		den := 1 + yf*forward
		return fra.Notional * yf / (den * den)
	default: // ISDA
		den := 1 + yf*forward
		return fra.Notional * yf * (1 + yf*fra.FixedRate) / (den * den)
	}
}
