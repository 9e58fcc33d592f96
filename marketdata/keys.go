// Package marketdata provides immutable market data snapshots (curves, FX
// rates, historical fixings) and their multi-scenario containers.
package marketdata

import (
	"errors"
	"fmt"

	"github.com/meenmo/ratecalc/currency"
)

var (
	// ErrMissingData is returned when a required curve, fixing series or
	// FX rate is absent from a view.
	ErrMissingData = errors.New("missing market data")
	// ErrSideDataAbsent is returned when no side data of the requested
	// type is present.
	ErrSideDataAbsent = errors.New("side data absent")
	// ErrSideDataAmbiguous is returned when more than one side data value
	// matches the requested interface type.
	ErrSideDataAmbiguous = errors.New("side data ambiguous")
)

// CurveKind distinguishes discount curves from index forward curves.
type CurveKind string

const (
	KindDiscount CurveKind = "Discount"
	KindForward  CurveKind = "Forward"
)

// CurveKey identifies a curve within a view.
type CurveKey struct {
	Kind CurveKind
	Name string // currency code for discount curves, index name for forward curves
}

// DiscountCurveKey returns the key of a currency's discount curve.
func DiscountCurveKey(ccy currency.Code) CurveKey {
	return CurveKey{Kind: KindDiscount, Name: string(ccy)}
}

// ForwardCurveKey returns the key of an index's forward curve.
func ForwardCurveKey(indexName string) CurveKey {
	return CurveKey{Kind: KindForward, Name: indexName}
}

func (k CurveKey) String() string {
	switch k.Kind {
	case KindDiscount:
		return fmt.Sprintf("discount curve for currency %s", k.Name)
	default:
		return fmt.Sprintf("forward curve for index %s", k.Name)
	}
}
