package calc_test

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meenmo/ratecalc/calc"
	"github.com/meenmo/ratecalc/calendar"
	"github.com/meenmo/ratecalc/currency"
	"github.com/meenmo/ratecalc/daycount"
	"github.com/meenmo/ratecalc/index"
	"github.com/meenmo/ratecalc/marketdata"
	"github.com/meenmo/ratecalc/product"
)

var (
	test3M   = index.Ibor{Name: "TEST-3M", Currency: currency.GBP, TenorMonths: 3, FixingLagDays: 0, Calendar: calendar.NoHolidays, DayCount: daycount.Act365F}
	orphan3M = index.Ibor{Name: "ORPHAN-3M", Currency: currency.GBP, TenorMonths: 3, FixingLagDays: 0, Calendar: calendar.NoHolidays, DayCount: daycount.Act365F}
)

func d(y int, m time.Month, day int) time.Time {
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

func flatCurve(t *testing.T, anchor time.Time, zero float64) marketdata.Curve {
	t.Helper()
	nodes := map[time.Time]float64{}
	for _, years := range []int{0, 1, 2, 5} {
		date := anchor.AddDate(years, 0, 0)
		yf := daycount.YearFraction(anchor, date, daycount.Act365F)
		nodes[date] = math.Exp(-zero * yf)
	}
	c, err := marketdata.NewZeroCurve(anchor, nodes)
	if err != nil {
		t.Fatalf("NewZeroCurve error: %v", err)
	}
	return c
}

func fraTrade(id string, ix index.Ibor) product.Trade {
	return product.Trade{ID: id, Product: product.Fra{
		Notional:  1_000_000,
		StartDate: d(2024, 4, 10),
		EndDate:   d(2024, 7, 10),
		FixedRate: 0.025,
		Index:     ix,
	}}
}

func depositTrade(id string) product.Trade {
	return product.Trade{ID: id, Product: product.TermDeposit{
		Notional:  2_000_000,
		StartDate: d(2024, 4, 10),
		EndDate:   d(2024, 10, 10),
		Rate:      0.03,
		Ccy:       currency.GBP,
	}}
}

// baseData has everything TEST-3M trades need and nothing ORPHAN-3M needs.
func baseData(t *testing.T, valuation time.Time, scenarioShifts []float64) *marketdata.ScenarioData {
	t.Helper()
	dsc := flatCurve(t, valuation, 0.020)
	fwd := flatCurve(t, valuation, 0.030)

	b := marketdata.NewScenarioBuilder(valuation, maxInt(1, len(scenarioShifts)))
	if len(scenarioShifts) <= 1 {
		b.SharedCurve(marketdata.DiscountCurveKey(currency.GBP), dsc).
			SharedCurve(marketdata.ForwardCurveKey("TEST-3M"), fwd)
	} else {
		dscs := make([]marketdata.Curve, len(scenarioShifts))
		fwds := make([]marketdata.Curve, len(scenarioShifts))
		for i, s := range scenarioShifts {
			dscs[i] = marketdata.ZeroRateShifted(dsc, valuation, s)
			fwds[i] = marketdata.ZeroRateShifted(fwd, valuation, s)
		}
		b.ScenarioCurves(marketdata.DiscountCurveKey(currency.GBP), dscs).
			ScenarioCurves(marketdata.ForwardCurveKey("TEST-3M"), fwds)
	}
	data, err := b.Build()
	require.NoError(t, err)
	return data
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func TestCalculateGridIsComplete(t *testing.T) {
	valuation := d(2024, 1, 10)
	data := baseData(t, valuation, nil)
	trades := []product.Trade{fraTrade("FRA-1", test3M), depositTrade("DEP-1")}
	measures := []calc.Measure{calc.MeasurePresentValue, calc.MeasureParRate, calc.MeasureSensitivities}

	grid, err := calc.NewRunner().Calculate(context.Background(), trades, measures, data)
	require.NoError(t, err)
	require.Equal(t, len(trades), grid.RowCount())
	require.Equal(t, measures, grid.Measures)

	for i := range trades {
		for j := range measures {
			cell := grid.Get(i, j)
			assert.True(t, cell.Ok(), "cell (%d,%d) failed: %v", i, j, cell.Failure)
			assert.NotNil(t, cell.Value, "cell (%d,%d) has no value", i, j)
		}
	}

	pv, ok := grid.Get(0, 0).Value.(currency.Amount)
	require.True(t, ok, "PV cell should hold an amount")
	assert.Equal(t, currency.GBP, pv.Currency)
}

func TestCalculateIsolatesCellFailures(t *testing.T) {
	valuation := d(2024, 1, 10)
	data := baseData(t, valuation, nil)
	// ORPHAN-3M has no forward curve; its row fails, the others succeed.
	trades := []product.Trade{fraTrade("FRA-OK", test3M), fraTrade("FRA-ORPHAN", orphan3M), depositTrade("DEP-1")}
	measures := []calc.Measure{calc.MeasurePresentValue, calc.MeasureParRate}

	grid, err := calc.NewRunner(calc.WithWorkers(4)).Calculate(context.Background(), trades, measures, data)
	require.NoError(t, err)

	for j := range measures {
		assert.True(t, grid.Get(0, j).Ok(), "healthy FRA row must succeed")
		assert.True(t, grid.Get(2, j).Ok(), "deposit row must succeed")

		cell := grid.Get(1, j)
		require.False(t, cell.Ok(), "orphan row must fail")
		assert.Equal(t, calc.ReasonMissingData, cell.Failure.Reason)
		assert.Contains(t, cell.Failure.Message, "ORPHAN-3M")
	}
}

func TestCalculateUnsupportedMeasure(t *testing.T) {
	valuation := d(2024, 1, 10)
	data := baseData(t, valuation, nil)
	trades := []product.Trade{fraTrade("FRA-1", test3M)}

	grid, err := calc.NewRunner().Calculate(context.Background(), trades, []calc.Measure{calc.Measure("Theta")}, data)
	require.NoError(t, err)

	cell := grid.Get(0, 0)
	require.False(t, cell.Ok())
	assert.Equal(t, calc.ReasonUnsupported, cell.Failure.Reason)
}

func TestCalculateScenarioValues(t *testing.T) {
	valuation := d(2024, 1, 10)
	shifts := []float64{0, 0.001, 0.002}
	data := baseData(t, valuation, shifts)
	trades := []product.Trade{depositTrade("DEP-1")}

	grid, err := calc.NewRunner().Calculate(context.Background(), trades, []calc.Measure{calc.MeasurePresentValue}, data)
	require.NoError(t, err)

	values, ok := grid.Get(0, 0).Value.(calc.ScenarioValues)
	require.True(t, ok, "multi-scenario cell must hold scenario values")
	require.Len(t, values, len(shifts))

	// Higher discount rates push the deposit's positive PV down.
	prev := math.Inf(1)
	for i, v := range values {
		amt, ok := v.(currency.Amount)
		require.True(t, ok, "scenario %d value type", i)
		assert.Less(t, amt.Value, prev, "PV must decrease with the shift")
		prev = amt.Value
	}
}

func TestCalculateConvertsToReportingCurrency(t *testing.T) {
	valuation := d(2024, 1, 10)
	dsc := flatCurve(t, valuation, 0.020)
	fwd := flatCurve(t, valuation, 0.030)
	fx, err := currency.NewMatrix(currency.USD, map[currency.Code]float64{currency.GBP: 1.25})
	require.NoError(t, err)

	data, err := marketdata.NewScenarioBuilder(valuation, 1).
		SharedCurve(marketdata.DiscountCurveKey(currency.GBP), dsc).
		SharedCurve(marketdata.ForwardCurveKey("TEST-3M"), fwd).
		SharedFxMatrix(fx).
		Build()
	require.NoError(t, err)

	trades := []product.Trade{fraTrade("FRA-1", test3M)}
	measures := []calc.Measure{calc.MeasurePresentValue, calc.MeasureParRate}

	natural, err := calc.NewRunner().Calculate(context.Background(), trades, measures, data)
	require.NoError(t, err)
	converted, err := calc.NewRunner(calc.WithReportingCurrency(currency.USD)).Calculate(context.Background(), trades, measures, data)
	require.NoError(t, err)

	nat := natural.Get(0, 0).Value.(currency.Amount)
	usd := converted.Get(0, 0).Value.(currency.Amount)
	assert.Equal(t, currency.USD, usd.Currency)
	assert.InDelta(t, nat.Value*1.25, usd.Value, math.Abs(nat.Value)*1e-12)

	// Non-convertible values pass through unchanged.
	assert.Equal(t, natural.Get(0, 1).Value, converted.Get(0, 1).Value)
}

func TestCalculateConversionWithoutFxFailsCellOnly(t *testing.T) {
	valuation := d(2024, 1, 10)
	data := baseData(t, valuation, nil) // no fx matrix registered
	trades := []product.Trade{fraTrade("FRA-1", test3M)}
	measures := []calc.Measure{calc.MeasurePresentValue, calc.MeasureParRate}

	grid, err := calc.NewRunner(calc.WithReportingCurrency(currency.USD)).Calculate(context.Background(), trades, measures, data)
	require.NoError(t, err)

	pvCell := grid.Get(0, 0)
	require.False(t, pvCell.Ok())
	assert.Equal(t, calc.ReasonMissingData, pvCell.Failure.Reason)
	// ParRate is a plain number and needs no conversion.
	assert.True(t, grid.Get(0, 1).Ok())
}

func TestCalculateCancellation(t *testing.T) {
	valuation := d(2024, 1, 10)
	data := baseData(t, valuation, nil)
	trades := []product.Trade{fraTrade("FRA-1", test3M), depositTrade("DEP-1")}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	grid, err := calc.NewRunner().Calculate(ctx, trades, calc.AllMeasures(), data)
	require.Error(t, err)
	assert.Nil(t, grid)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCalculateIsDeterministic(t *testing.T) {
	valuation := d(2024, 1, 10)
	data := baseData(t, valuation, []float64{0, 0.001})
	trades := []product.Trade{fraTrade("FRA-1", test3M), depositTrade("DEP-1"), fraTrade("FRA-ORPHAN", orphan3M)}
	measures := calc.AllMeasures()

	first, err := calc.NewRunner(calc.WithWorkers(8)).Calculate(context.Background(), trades, measures, data)
	require.NoError(t, err)
	second, err := calc.NewRunner(calc.WithWorkers(2)).Calculate(context.Background(), trades, measures, data)
	require.NoError(t, err)

	for i := range trades {
		for j := range measures {
			a, b := first.Get(i, j), second.Get(i, j)
			require.Equal(t, a.Ok(), b.Ok(), "cell (%d,%d) status differs", i, j)
			if a.Ok() {
				assert.Equal(t, a.Value, b.Value, "cell (%d,%d) value differs", i, j)
			} else {
				assert.Equal(t, a.Failure.Reason, b.Failure.Reason, "cell (%d,%d) reason differs", i, j)
			}
		}
	}
}

func TestCalculatePanicIsContained(t *testing.T) {
	valuation := d(2024, 1, 10)
	data := baseData(t, valuation, nil)
	trades := []product.Trade{fraTrade("FRA-1", test3M)}

	reg := calc.Registry{
		product.KindFra: {
			calc.MeasurePresentValue: func(p product.Expanded, v *marketdata.View) (any, error) {
				panic("boom")
			},
		},
	}
	grid, err := calc.NewRunner(calc.WithRegistry(reg)).Calculate(context.Background(), trades, []calc.Measure{calc.MeasurePresentValue}, data)
	require.NoError(t, err)

	cell := grid.Get(0, 0)
	require.False(t, cell.Ok())
	assert.Equal(t, calc.ReasonCalculation, cell.Failure.Reason)
	assert.Contains(t, cell.Failure.Message, "boom")
}

func TestCalculateExpansionFailureFailsRow(t *testing.T) {
	valuation := d(2024, 1, 10)
	data := baseData(t, valuation, nil)
	bad := product.Trade{ID: "BAD", Product: product.Fra{
		// Zero notional does not expand.
		StartDate: d(2024, 4, 10),
		EndDate:   d(2024, 7, 10),
		Index:     test3M,
	}}

	grid, err := calc.NewRunner().Calculate(context.Background(), []product.Trade{bad}, []calc.Measure{calc.MeasurePresentValue}, data)
	require.NoError(t, err)
	cell := grid.Get(0, 0)
	require.False(t, cell.Ok())
	assert.Equal(t, calc.ReasonCalculation, cell.Failure.Reason)
}

func TestRequirementsFor(t *testing.T) {
	p, err := fraTrade("FRA-1", test3M).Product.Expand()
	require.NoError(t, err)
	r := calc.RequirementsFor(p)

	assert.Contains(t, r.Curves, marketdata.DiscountCurveKey(currency.GBP))
	assert.Contains(t, r.Curves, marketdata.ForwardCurveKey("TEST-3M"))
	assert.Contains(t, r.TimeSeries, "TEST-3M")
	assert.Contains(t, r.OutputCurrencies, currency.GBP)

	dep, err := depositTrade("DEP-1").Product.Expand()
	require.NoError(t, err)
	merged := r.Union(calc.RequirementsFor(dep))
	assert.Contains(t, merged.Curves, marketdata.DiscountCurveKey(currency.GBP))
	assert.Len(t, merged.CurveKeys(), 2)
}
