package marketdata

import (
	"fmt"
	"reflect"
	"time"

	"github.com/meenmo/ratecalc/currency"
	"github.com/meenmo/ratecalc/daycount"
	"github.com/meenmo/ratecalc/sensitivity"
	"github.com/meenmo/ratecalc/timeseries"
)

// View is a read-only snapshot of the market data for one scenario:
// curves, FX rates and historical fixing series as of a valuation date.
// Built once via Builder and never mutated afterwards.
type View struct {
	valuationDate time.Time
	curves        map[CurveKey]Curve
	fixings       map[string]*timeseries.Series
	fx            *currency.Matrix
	side          map[reflect.Type]any
}

// Builder assembles a View.
type Builder struct {
	view *View
}

// NewBuilder starts a view as of the given valuation date.
func NewBuilder(valuationDate time.Time) *Builder {
	return &Builder{view: &View{
		valuationDate: valuationDate,
		curves:        make(map[CurveKey]Curve),
		fixings:       make(map[string]*timeseries.Series),
		side:          make(map[reflect.Type]any),
	}}
}

// Curve registers a curve under the given key.
func (b *Builder) Curve(key CurveKey, c Curve) *Builder {
	b.view.curves[key] = c
	return b
}

// FixingSeries registers an index's historical fixings.
func (b *Builder) FixingSeries(indexName string, s *timeseries.Series) *Builder {
	b.view.fixings[indexName] = s
	return b
}

// FxMatrix registers the FX rate matrix.
func (b *Builder) FxMatrix(m *currency.Matrix) *Builder {
	b.view.fx = m
	return b
}

// SideData stores an arbitrary typed value. At most one value per concrete
// type; a later call with the same type replaces the earlier value.
func (b *Builder) SideData(v any) *Builder {
	b.view.side[reflect.TypeOf(v)] = v
	return b
}

// Build returns the immutable view. The builder must not be reused.
func (b *Builder) Build() *View {
	v := b.view
	b.view = nil
	return v
}

// ValuationDate returns the reference date for all time calculations.
func (v *View) ValuationDate() time.Time {
	return v.valuationDate
}

// Curve returns the curve for the given key.
func (v *View) Curve(key CurveKey) (Curve, error) {
	c, ok := v.curves[key]
	if !ok {
		return nil, fmt.Errorf("%w: no %s", ErrMissingData, key)
	}
	return c, nil
}

// HasCurve reports whether the view contains a curve for the key.
func (v *View) HasCurve(key CurveKey) bool {
	_, ok := v.curves[key]
	return ok
}

// FixingSeries returns the historical fixings for an index. An index with
// no registered series resolves to an empty series rather than an error:
// the distinction that matters is a missing individual fixing, which the
// rate observation reports with the date in question.
func (v *View) FixingSeries(indexName string) *timeseries.Series {
	if s, ok := v.fixings[indexName]; ok {
		return s
	}
	return timeseries.Empty()
}

// FxMatrix returns the FX rate matrix.
func (v *View) FxMatrix() (*currency.Matrix, error) {
	if v.fx == nil {
		return nil, fmt.Errorf("%w: no fx matrix", ErrMissingData)
	}
	return v.fx, nil
}

// DiscountFactors returns the discount factor capability for a currency.
func (v *View) DiscountFactors(ccy currency.Code) (DiscountFactors, error) {
	c, err := v.Curve(DiscountCurveKey(ccy))
	if err != nil {
		return DiscountFactors{}, err
	}
	return DiscountFactors{currency: ccy, valuationDate: v.valuationDate, curve: c}, nil
}

// SideData retrieves the unique side data value of type T. An exact type
// match wins; otherwise a single assignable value (e.g. an interface
// implementation) is accepted. Zero matches and multiple matches are
// distinguishable errors.
func SideData[T any](v *View) (T, error) {
	var zero T
	want := reflect.TypeOf(&zero).Elem()
	if got, ok := v.side[want]; ok {
		return got.(T), nil
	}
	var found []any
	for typ, val := range v.side {
		if typ.AssignableTo(want) {
			found = append(found, val)
		}
	}
	switch len(found) {
	case 0:
		return zero, fmt.Errorf("%w: %s", ErrSideDataAbsent, want)
	case 1:
		return found[0].(T), nil
	default:
		return zero, fmt.Errorf("%w: %d values match %s", ErrSideDataAmbiguous, len(found), want)
	}
}

// DiscountFactors exposes a single currency's discount curve together with
// its point sensitivity.
type DiscountFactors struct {
	currency      currency.Code
	valuationDate time.Time
	curve         Curve
}

// Currency returns the curve currency.
func (d DiscountFactors) Currency() currency.Code {
	return d.currency
}

// DF returns the discount factor at the given date.
func (d DiscountFactors) DF(date time.Time) float64 {
	return d.curve.DF(date)
}

// PointSensitivity returns the zero-rate point sensitivity of the discount
// factor at the given date: d(DF)/d(zero rate) = -t * DF.
func (d DiscountFactors) PointSensitivity(date time.Time) sensitivity.Point {
	t := daycount.YearFraction(d.valuationDate, date, daycount.Act365F)
	return sensitivity.ZeroRate(d.currency, date, -t*d.curve.DF(date))
}
