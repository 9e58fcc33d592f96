package marketdata_test

import (
	"math"
	"testing"
	"time"

	"github.com/meenmo/ratecalc/daycount"
	"github.com/meenmo/ratecalc/marketdata"
)

func d(y int, m time.Month, day int) time.Time {
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

// flatCurve builds nodes consistent with a constant continuously
// compounded zero rate. Log-linear interpolation reproduces such a curve
// exactly at every date.
func flatCurve(t *testing.T, anchor time.Time, zero float64) *marketdata.ZeroCurve {
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

func TestZeroCurveInterpolatesLogLinear(t *testing.T) {
	t.Parallel()

	anchor := d(2024, 1, 10)
	const zero = 0.025
	c := flatCurve(t, anchor, zero)

	for _, date := range []time.Time{
		anchor,
		d(2024, 4, 10),  // between nodes
		d(2025, 1, 10),  // on a node
		d(2027, 8, 15),  // between later nodes
		d(2030, 6, 1),   // beyond the last node (flat-forward extrapolation)
		d(2023, 11, 15), // before the anchor
	} {
		yf := daycount.YearFraction(anchor, date, daycount.Act365F)
		want := math.Exp(-zero * yf)
		got := c.DF(date)
		if math.Abs(got-want) > 1e-12 {
			t.Fatalf("DF(%s) = %.15f, want %.15f", date.Format("2006-01-02"), got, want)
		}
	}
}

func TestZeroCurveSingleNode(t *testing.T) {
	t.Parallel()

	anchor := d(2024, 1, 10)
	c, err := marketdata.NewZeroCurve(anchor, map[time.Time]float64{d(2025, 1, 10): 0.97})
	if err != nil {
		t.Fatalf("NewZeroCurve error: %v", err)
	}
	if got := c.DF(d(2024, 6, 1)); got != 0.97 {
		t.Fatalf("single node curve must be flat, got %v", got)
	}
}

func TestZeroCurveValidation(t *testing.T) {
	t.Parallel()

	anchor := d(2024, 1, 10)
	if _, err := marketdata.NewZeroCurve(anchor, nil); err == nil {
		t.Fatalf("expected error for empty node set")
	}
	if _, err := marketdata.NewZeroCurve(anchor, map[time.Time]float64{d(2025, 1, 10): -0.5}); err == nil {
		t.Fatalf("expected error for non-positive discount factor")
	}
}

func TestZeroRateShifted(t *testing.T) {
	t.Parallel()

	anchor := d(2024, 1, 10)
	base := flatCurve(t, anchor, 0.02)
	shifted := marketdata.ZeroRateShifted(base, anchor, 0.005)

	date := d(2026, 1, 10)
	yf := daycount.YearFraction(anchor, date, daycount.Act365F)
	want := base.DF(date) * math.Exp(-0.005*yf)
	if got := shifted.DF(date); math.Abs(got-want) > 1e-15 {
		t.Fatalf("shifted DF = %v, want %v", got, want)
	}

	// A zero shift is the identity.
	if same := marketdata.ZeroRateShifted(base, anchor, 0); same != marketdata.Curve(base) {
		t.Fatalf("zero shift must return the base curve")
	}
}
