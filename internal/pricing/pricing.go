// Package pricing resolves unit prices from the loosely shaped product
// records the sheet produces. Sheet data is unreliable, so resolution is an
// ordered fallback chain that degrades to 0 instead of failing.
package pricing

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/greenbasket/storefront/internal/domain"
	"github.com/greenbasket/storefront/internal/weight"
)

// Dedicated price columns for the stocked weight tiers.
var tierColumns = map[int]string{
	250:  "price_250g",
	500:  "price_500g",
	1000: "price_1kg",
	2000: "price_2kg",
}

// BaseColumn is the per-kilogram fallback price column.
const BaseColumn = "base_price_1kg"

var plainNumber = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?$`)

// UnitPrice resolves the unit price of a product at a given weight. The
// resolution order is fixed: the tier's dedicated column wins, then the
// per-kilogram base price scaled to the weight, then the first positive
// numeric value anywhere in the record. Missing products and dead ends
// resolve to 0; the result is never negative and the function never panics.
func UnitPrice(p *domain.Product, w any) float64 {
	if p == nil {
		return 0
	}
	g := weight.Normalize(w)

	if col, ok := tierColumns[g]; ok {
		if raw, ok := p.Attr(col); ok {
			if v, ok := numeric(raw); ok {
				return math.Max(0, v)
			}
		}
	}

	if raw, ok := p.Attr(BaseColumn); ok {
		if base, ok := numeric(raw); ok && base != 0 {
			return math.Max(0, math.Round(base/1000*float64(g)))
		}
	}

	// Last resort: take the first positive numeric cell in column order.
	for _, a := range p.Attrs {
		switch v := a.Value.(type) {
		case float64:
			if v > 0 {
				return v
			}
		case string:
			if plainNumber.MatchString(v) {
				if n, err := strconv.ParseFloat(v, 64); err == nil && n > 0 {
					return n
				}
			}
		}
	}

	return 0
}

// numeric coerces a sheet cell to a number. Empty strings and anything that
// does not parse cleanly are skipped by the fallback chain.
func numeric(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
