package marketdata

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/meenmo/ratecalc/daycount"
)

// Curve resolves a date to a discount factor.
type Curve interface {
	DF(t time.Time) float64
}

// ZeroCurve is a discount factor curve defined by dated nodes, with
// log-linear interpolation between nodes and flat-forward extrapolation
// beyond the last node. Immutable after construction. The time axis uses
// ACT/365F from the anchor date, the standard convention for curve
// interpolation.
type ZeroCurve struct {
	anchor time.Time
	dates  []time.Time
	dfs    []float64
}

// NewZeroCurve builds a curve from discount factor nodes keyed by date.
// At least one node is required and all discount factors must be positive.
func NewZeroCurve(anchor time.Time, nodes map[time.Time]float64) (*ZeroCurve, error) {
	if len(nodes) == 0 {
		return nil, fmt.Errorf("zero curve needs at least one node")
	}
	dates := make([]time.Time, 0, len(nodes))
	for d := range nodes {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	dfs := make([]float64, len(dates))
	for i, d := range dates {
		df := nodes[d]
		if df <= 0 {
			return nil, fmt.Errorf("discount factor at %s must be positive, got %g", d.Format("2006-01-02"), df)
		}
		dfs[i] = df
	}
	return &ZeroCurve{anchor: anchor, dates: dates, dfs: dfs}, nil
}

// Anchor returns the curve's anchor date.
func (c *ZeroCurve) Anchor() time.Time {
	return c.anchor
}

// DF returns the discount factor at t.
func (c *ZeroCurve) DF(t time.Time) float64 {
	// First index with dates[i] >= t.
	i := sort.Search(len(c.dates), func(i int) bool {
		return !c.dates[i].Before(t)
	})
	if i < len(c.dates) && c.dates[i].Equal(t) {
		return c.dfs[i]
	}
	if len(c.dates) == 1 {
		return c.dfs[0]
	}
	// Bracket, clamped to the boundary pair for extrapolation.
	lo, hi := i-1, i
	if lo < 0 {
		lo, hi = 0, 1
	}
	if hi >= len(c.dates) {
		lo, hi = len(c.dates)-2, len(c.dates)-1
	}

	df1, df2 := c.dfs[lo], c.dfs[hi]
	t1 := c.relativeTime(c.dates[lo])
	t2 := c.relativeTime(c.dates[hi])
	if t2 == t1 {
		return df1
	}
	forward := math.Log(df1/df2) / (t2 - t1)
	return df1 * math.Exp(-forward*(c.relativeTime(t)-t1))
}

func (c *ZeroCurve) relativeTime(t time.Time) float64 {
	return daycount.YearFraction(c.anchor, t, daycount.Act365F)
}

// shiftedCurve applies a parallel zero-rate shift to a base curve:
// DF'(t) = DF(t) * exp(-shift * t). Used to derive stress scenarios from a
// base scenario without rebuilding node sets.
type shiftedCurve struct {
	base   Curve
	anchor time.Time
	shift  float64
}

// ZeroRateShifted decorates a curve with a parallel zero-rate shift.
func ZeroRateShifted(base Curve, anchor time.Time, shift float64) Curve {
	if shift == 0 {
		return base
	}
	return &shiftedCurve{base: base, anchor: anchor, shift: shift}
}

func (c *shiftedCurve) DF(t time.Time) float64 {
	yf := daycount.YearFraction(c.anchor, t, daycount.Act365F)
	return c.base.DF(t) * math.Exp(-c.shift*yf)
}
