package calc

import (
	"sort"

	"github.com/meenmo/ratecalc/currency"
	"github.com/meenmo/ratecalc/marketdata"
	"github.com/meenmo/ratecalc/product"
)

// Requirements enumerates the market data a calculation will touch:
// curve keys, fixing series and output currencies. They are resolved up
// front for run logging and diagnostics; the data itself is verified
// lazily when a pricing function asks the view for it.
type Requirements struct {
	Curves           map[marketdata.CurveKey]struct{}
	TimeSeries       map[string]struct{}
	OutputCurrencies map[currency.Code]struct{}
}

// NewRequirements returns an empty requirement set.
func NewRequirements() Requirements {
	return Requirements{
		Curves:           make(map[marketdata.CurveKey]struct{}),
		TimeSeries:       make(map[string]struct{}),
		OutputCurrencies: make(map[currency.Code]struct{}),
	}
}

// RequirementsFor resolves the market data an expanded product references.
func RequirementsFor(p product.Expanded) Requirements {
	r := NewRequirements()
	r.OutputCurrencies[p.Currency()] = struct{}{}
	switch t := p.(type) {
	case *product.ExpandedFra:
		r.Curves[marketdata.DiscountCurveKey(t.Ccy)] = struct{}{}
		for _, ix := range t.FloatingRate.Indices() {
			r.Curves[marketdata.ForwardCurveKey(ix.Name)] = struct{}{}
			r.TimeSeries[ix.Name] = struct{}{}
		}
	case *product.ExpandedTermDeposit:
		r.Curves[marketdata.DiscountCurveKey(t.Ccy)] = struct{}{}
	}
	return r
}

// Union merges another requirement set into this one and returns it.
func (r Requirements) Union(o Requirements) Requirements {
	for k := range o.Curves {
		r.Curves[k] = struct{}{}
	}
	for k := range o.TimeSeries {
		r.TimeSeries[k] = struct{}{}
	}
	for k := range o.OutputCurrencies {
		r.OutputCurrencies[k] = struct{}{}
	}
	return r
}

// CurveKeys returns the curve keys in a reproducible order.
func (r Requirements) CurveKeys() []marketdata.CurveKey {
	keys := make([]marketdata.CurveKey, 0, len(r.Curves))
	for k := range r.Curves {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Kind != keys[j].Kind {
			return keys[i].Kind < keys[j].Kind
		}
		return keys[i].Name < keys[j].Name
	})
	return keys
}
