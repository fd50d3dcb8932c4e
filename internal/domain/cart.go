package domain

// LineItem is one cart entry. The pair (ProductID, Weight) identifies the
// entry; a second add for the same pair aggregates into it.
//
// Price is the unit price captured when the entry was first added, so the
// cart keeps showing the price the shopper saw even if the catalog changes
// later. A nil Price means no snapshot was recorded (older persisted carts);
// totals then fall back to a live catalog lookup.
type LineItem struct {
	ProductID string   `json:"productId"`
	Weight    int      `json:"weight"`
	Quantity  int      `json:"quantity"`
	Price     *float64 `json:"price,omitempty"`
	// Unpriced flags entries whose product could not be found in the
	// catalog when the snapshot was taken, so the 0 price is a default
	// rather than a real price.
	Unpriced bool `json:"unpriced,omitempty"`
}

// Matches reports whether the item is the entry for the given identity pair.
func (it LineItem) Matches(productID string, grams int) bool {
	return it.ProductID == productID && it.Weight == grams
}
