package marketdata

import (
	"fmt"
	"time"

	"github.com/meenmo/ratecalc/currency"
	"github.com/meenmo/ratecalc/timeseries"
)

// ScenarioData holds the market data for a whole calculation run across N
// scenarios. Fixing series are scenario-invariant and shared; curves and FX
// matrices either vary per scenario or are shared by every scenario.
// ViewAt projects one scenario into an immutable View; the underlying data
// is never mutated, so views for different scenarios can be read
// concurrently.
type ScenarioData struct {
	valuationDate time.Time
	count         int
	curves        map[CurveKey][]Curve // len 1 (shared) or len count
	fx            []*currency.Matrix   // len 0, 1 (shared) or count
	fixings       map[string]*timeseries.Series
	side          []any
}

// ScenarioBuilder assembles ScenarioData.
type ScenarioBuilder struct {
	data *ScenarioData
	err  error
}

// NewScenarioBuilder starts a dataset for the given number of scenarios.
func NewScenarioBuilder(valuationDate time.Time, scenarioCount int) *ScenarioBuilder {
	b := &ScenarioBuilder{data: &ScenarioData{
		valuationDate: valuationDate,
		count:         scenarioCount,
		curves:        make(map[CurveKey][]Curve),
		fixings:       make(map[string]*timeseries.Series),
	}}
	if scenarioCount < 1 {
		b.err = fmt.Errorf("scenario count must be at least 1, got %d", scenarioCount)
	}
	return b
}

// SharedCurve registers one curve used by every scenario.
func (b *ScenarioBuilder) SharedCurve(key CurveKey, c Curve) *ScenarioBuilder {
	b.data.curves[key] = []Curve{c}
	return b
}

// ScenarioCurves registers one curve per scenario.
func (b *ScenarioBuilder) ScenarioCurves(key CurveKey, curves []Curve) *ScenarioBuilder {
	if b.err == nil && len(curves) != b.data.count {
		b.err = fmt.Errorf("curve %s: %d scenario curves for %d scenarios", key, len(curves), b.data.count)
		return b
	}
	cp := make([]Curve, len(curves))
	copy(cp, curves)
	b.data.curves[key] = cp
	return b
}

// SharedFxMatrix registers one FX matrix used by every scenario.
func (b *ScenarioBuilder) SharedFxMatrix(m *currency.Matrix) *ScenarioBuilder {
	b.data.fx = []*currency.Matrix{m}
	return b
}

// ScenarioFxMatrices registers one FX matrix per scenario.
func (b *ScenarioBuilder) ScenarioFxMatrices(ms []*currency.Matrix) *ScenarioBuilder {
	if b.err == nil && len(ms) != b.data.count {
		b.err = fmt.Errorf("%d fx matrices for %d scenarios", len(ms), b.data.count)
		return b
	}
	cp := make([]*currency.Matrix, len(ms))
	copy(cp, ms)
	b.data.fx = cp
	return b
}

// FixingSeries registers an index's historical fixings (scenario-invariant).
func (b *ScenarioBuilder) FixingSeries(indexName string, s *timeseries.Series) *ScenarioBuilder {
	b.data.fixings[indexName] = s
	return b
}

// SideData stores a typed side value shared by every scenario view.
func (b *ScenarioBuilder) SideData(v any) *ScenarioBuilder {
	b.data.side = append(b.data.side, v)
	return b
}

// Build returns the immutable dataset.
func (b *ScenarioBuilder) Build() (*ScenarioData, error) {
	if b.err != nil {
		return nil, b.err
	}
	d := b.data
	b.data = nil
	return d, nil
}

// ValuationDate returns the run's valuation date.
func (d *ScenarioData) ValuationDate() time.Time {
	return d.valuationDate
}

// ScenarioCount returns the number of scenarios.
func (d *ScenarioData) ScenarioCount() int {
	return d.count
}

// ViewAt projects scenario i into an immutable single-scenario view,
// sharing the scenario-invariant fixing series and selecting the
// scenario's curves and FX matrix.
func (d *ScenarioData) ViewAt(i int) (*View, error) {
	if i < 0 || i >= d.count {
		return nil, fmt.Errorf("scenario index %d out of range [0,%d)", i, d.count)
	}
	vb := NewBuilder(d.valuationDate)
	for key, curves := range d.curves {
		if len(curves) == 1 {
			vb.Curve(key, curves[0])
		} else {
			vb.Curve(key, curves[i])
		}
	}
	switch len(d.fx) {
	case 0:
	case 1:
		vb.FxMatrix(d.fx[0])
	default:
		vb.FxMatrix(d.fx[i])
	}
	for name, s := range d.fixings {
		vb.FixingSeries(name, s)
	}
	for _, v := range d.side {
		vb.SideData(v)
	}
	return vb.Build(), nil
}
