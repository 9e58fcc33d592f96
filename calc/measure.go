// Package calc orchestrates valuation runs: a portfolio of trades priced
// for a set of measures across every scenario of a market dataset,
// producing a trade-by-measure result grid. Cell failures never abort the
// run; only cancellation does.
package calc

// Measure identifies a quantity to calculate for a trade.
type Measure string

const (
	// MeasurePresentValue is the discounted value in the trade currency.
	MeasurePresentValue Measure = "PresentValue"
	// MeasureFutureValue is the value projected to the payment date.
	MeasureFutureValue Measure = "FutureValue"
	// MeasureParRate is the break-even fixed rate.
	MeasureParRate Measure = "ParRate"
	// MeasureSensitivities is the present value point sensitivity.
	MeasureSensitivities Measure = "Sensitivities"
	// MeasureCashFlows is the list of projected payments.
	MeasureCashFlows Measure = "CashFlows"
)

// AllMeasures lists every supported measure in display order.
func AllMeasures() []Measure {
	return []Measure{
		MeasurePresentValue,
		MeasureFutureValue,
		MeasureParRate,
		MeasureSensitivities,
		MeasureCashFlows,
	}
}
