// Package product defines the tradeable products and their expanded,
// schedule-free forms consumed by the pricers.
package product

import "github.com/meenmo/ratecalc/currency"

// Kind tags a product type for pricing function dispatch.
type Kind string

const (
	KindFra         Kind = "Fra"
	KindTermDeposit Kind = "TermDeposit"
)

// Product is a tradeable product definition.
type Product interface {
	Kind() Kind
	Currency() currency.Code
	// Expand resolves the definition into its immutable economic form,
	// validating the trade economics.
	Expand() (Expanded, error)
}

// Expanded is a resolved, schedule-free representation of a product's
// economics. Created once per trade and consumed read-only by pricers.
type Expanded interface {
	Kind() Kind
	Currency() currency.Code
}

// Trade pairs a product with its identifier.
type Trade struct {
	ID      string
	Product Product
}
