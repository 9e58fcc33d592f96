// Package sensitivity models point sensitivities: partial derivatives of a
// valuation measure with respect to a single market risk factor (an index
// fixing or a discount curve node).
package sensitivity

import (
	"math"
	"sort"
	"time"

	"github.com/meenmo/ratecalc/currency"
)

// Kind enumerates the risk factor kinds.
type Kind string

const (
	// KindIndexRate is a sensitivity to an index rate at a fixing date.
	KindIndexRate Kind = "IndexRate"
	// KindZeroRate is a sensitivity to a discount curve zero rate at a date.
	KindZeroRate Kind = "ZeroRate"
)

// Point is one risk factor sensitivity.
type Point struct {
	Kind     Kind
	Name     string // index name, or discount curve name for zero rates
	Date     time.Time
	Currency currency.Code
	Value    float64
}

// IndexRate returns a sensitivity to an index fixing.
func IndexRate(indexName string, fixingDate time.Time, ccy currency.Code, value float64) Point {
	return Point{Kind: KindIndexRate, Name: indexName, Date: fixingDate, Currency: ccy, Value: value}
}

// ZeroRate returns a sensitivity to a discount curve zero rate.
func ZeroRate(ccy currency.Code, date time.Time, value float64) Point {
	return Point{Kind: KindZeroRate, Name: string(ccy), Date: date, Currency: ccy, Value: value}
}

// sameFactor reports whether two points reference the same risk factor.
func (p Point) sameFactor(o Point) bool {
	return p.Kind == o.Kind && p.Name == o.Name && p.Currency == o.Currency && p.Date.Equal(o.Date)
}

// factorLess orders points by (kind, currency, date, name) for
// reproducible output.
func factorLess(a, b Point) bool {
	if a.Kind != b.Kind {
		return a.Kind < b.Kind
	}
	if a.Currency != b.Currency {
		return a.Currency < b.Currency
	}
	if !a.Date.Equal(b.Date) {
		return a.Date.Before(b.Date)
	}
	return a.Name < b.Name
}

// Points is an ordered collection of point sensitivities. The order is the
// insertion order until Normalized is called.
type Points struct {
	points []Point
}

// PointsOf builds a collection preserving the given order.
func PointsOf(points ...Point) Points {
	out := make([]Point, len(points))
	copy(out, points)
	return Points{points: out}
}

// Empty reports whether the collection has no entries.
func (p Points) Empty() bool {
	return len(p.points) == 0
}

// Slice returns a copy of the entries.
func (p Points) Slice() []Point {
	out := make([]Point, len(p.points))
	copy(out, p.points)
	return out
}

// CombinedWith appends another collection's entries after this one's.
func (p Points) CombinedWith(o Points) Points {
	out := make([]Point, 0, len(p.points)+len(o.points))
	out = append(out, p.points...)
	out = append(out, o.points...)
	return Points{points: out}
}

// MultipliedBy scales every entry.
func (p Points) MultipliedBy(f float64) Points {
	out := make([]Point, len(p.points))
	for i, pt := range p.points {
		pt.Value *= f
		out[i] = pt
	}
	return Points{points: out}
}

// Normalized sorts by (kind, currency, date, name) and merges entries that
// reference the same risk factor by adding their values.
func (p Points) Normalized() Points {
	sorted := p.Slice()
	sort.SliceStable(sorted, func(i, j int) bool { return factorLess(sorted[i], sorted[j]) })
	out := make([]Point, 0, len(sorted))
	for _, pt := range sorted {
		if n := len(out); n > 0 && out[n-1].sameFactor(pt) {
			out[n-1].Value += pt.Value
			continue
		}
		out = append(out, pt)
	}
	return Points{points: out}
}

// EqualWithTolerance reports whether the normalized forms of two
// collections match within the given value tolerance.
func (p Points) EqualWithTolerance(o Points, tol float64) bool {
	a := p.Normalized().points
	b := o.Normalized().points
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].sameFactor(b[i]) {
			return false
		}
		if math.Abs(a[i].Value-b[i].Value) > tol {
			return false
		}
	}
	return true
}

// ConvertedTo implements currency.Convertible: every entry's value is
// re-expressed in the target currency.
func (p Points) ConvertedTo(to currency.Code, fx *currency.Matrix) (currency.Convertible, error) {
	out := make([]Point, len(p.points))
	for i, pt := range p.points {
		rate, err := fx.Rate(pt.Currency, to)
		if err != nil {
			return nil, err
		}
		pt.Value *= rate
		pt.Currency = to
		out[i] = pt
	}
	return Points{points: out}, nil
}
