package domain

import "strings"

// StockOut is the only stock value with cart semantics: products marked
// "out" cannot be added to the cart.
const StockOut = "out"

// Attr is one sheet cell, keyed by its normalized column label. Values are
// either string or float64 depending on how the cell decoded.
type Attr struct {
	Key   string
	Value any
}

// Product is one row of the published products sheet. Attrs holds every cell
// in column order; the named fields are convenience copies of the columns the
// storefront reads directly.
type Product struct {
	ID          string
	Name        string
	Category    string
	Description string
	Image       string
	Stock       string
	Attrs       []Attr
}

// Attr returns the raw cell value for a column key.
func (p *Product) Attr(key string) (any, bool) {
	for _, a := range p.Attrs {
		if a.Key == key {
			return a.Value, true
		}
	}
	return nil, false
}

// OutOfStock reports whether the product carries the "out" stock sentinel.
func (p *Product) OutOfStock() bool {
	return strings.EqualFold(strings.TrimSpace(p.Stock), StockOut)
}
