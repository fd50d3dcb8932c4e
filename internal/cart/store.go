// Package cart owns the persisted line-item collection: a deduplicated,
// quantity-aggregated sequence keyed by (product, weight) with unit prices
// snapshotted at add time.
package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/greenbasket/storefront/internal/domain"
	"github.com/greenbasket/storefront/internal/pricing"
	"github.com/greenbasket/storefront/internal/weight"
)

// StorageKey is the single key the whole collection is stored under.
const StorageKey = "cart"

// Catalog is the product lookup the Store resolves prices against. A nil
// result means the product is not in the loaded catalog; the store treats
// that as "price unresolved" and carries on.
type Catalog interface {
	Find(id string) *domain.Product
}

// Store reads, mutates and persists the cart. Every mutation reads the full
// collection, applies the change and writes the collection back; the store
// mutex serializes that read-modify-write within the process. Running more
// than one writer process against the same key would need coordination the
// store does not provide.
type Store struct {
	mu   sync.Mutex
	kv   KV
	cat  Catalog
	log  *slog.Logger
	subs []func()
}

func NewStore(kv KV, cat Catalog, log *slog.Logger) *Store {
	return &Store{kv: kv, cat: cat, log: log}
}

// Subscribe registers a function invoked after every successful mutation,
// so presentation code can re-render. Not safe to call concurrently with
// mutations.
func (s *Store) Subscribe(fn func()) {
	s.subs = append(s.subs, fn)
}

func (s *Store) notify() {
	for _, fn := range s.subs {
		fn()
	}
}

// Items returns the persisted line items in order. A corrupted stored value
// is treated as an empty cart and never surfaces as an error; only the
// persistence layer itself can fail.
func (s *Store) Items(ctx context.Context) ([]domain.LineItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read(ctx)
}

// read loads and decodes the collection. Callers hold the mutex.
func (s *Store) read(ctx context.Context) ([]domain.LineItem, error) {
	raw, ok, err := s.kv.Get(ctx, StorageKey)
	if err != nil {
		return nil, fmt.Errorf("loading cart: %w", err)
	}
	if !ok || raw == "" {
		return []domain.LineItem{}, nil
	}

	var items []domain.LineItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		s.log.Warn("discarding unparseable cart state", "error", err)
		return []domain.LineItem{}, nil
	}
	if items == nil {
		items = []domain.LineItem{}
	}
	return items, nil
}

func (s *Store) write(ctx context.Context, items []domain.LineItem) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encoding cart: %w", err)
	}
	if err := s.kv.Set(ctx, StorageKey, string(data)); err != nil {
		return fmt.Errorf("persisting cart: %w", err)
	}
	return nil
}

func findIndex(items []domain.LineItem, productID string, grams int) int {
	for i, it := range items {
		if it.Matches(productID, grams) {
			return i
		}
	}
	return -1
}

// Add puts qty units of (productID, w) into the cart. Adds for a pair
// already present aggregate into the existing entry and keep its price
// snapshot; a new entry snapshots the unit price resolved against the
// current catalog. An unknown product is not an error: the entry is created
// with price 0 and flagged Unpriced.
func (s *Store) Add(ctx context.Context, productID string, w any, qty int) error {
	err := func() error {
		s.mu.Lock()
		defer s.mu.Unlock()

		items, err := s.read(ctx)
		if err != nil {
			return err
		}

		grams := weight.Normalize(w)
		if qty < 1 {
			qty = 1
		}

		if i := findIndex(items, productID, grams); i >= 0 {
			items[i].Quantity += qty
			if items[i].Price == nil {
				price, unpriced := s.resolve(productID, grams)
				items[i].Price = &price
				items[i].Unpriced = unpriced
			}
			return s.write(ctx, items)
		}

		price, unpriced := s.resolve(productID, grams)
		items = append(items, domain.LineItem{
			ProductID: productID,
			Weight:    grams,
			Quantity:  qty,
			Price:     &price,
			Unpriced:  unpriced,
		})
		return s.write(ctx, items)
	}()
	if err != nil {
		return err
	}
	s.notify()
	return nil
}

// resolve snapshots the unit price for a pair. The unpriced flag marks
// products missing from the catalog, where the 0 default may hide a stale
// identifier rather than a free item.
func (s *Store) resolve(productID string, grams int) (float64, bool) {
	p := s.cat.Find(productID)
	if p == nil {
		s.log.Warn("product not in catalog, adding with unresolved price",
			"product_id", productID, "grams", grams)
		return 0, true
	}
	return pricing.UnitPrice(p, grams), false
}

// SetQuantity sets the quantity of an existing entry. Quantities at or
// below zero remove the entry; positive values are floored at 1. A missing
// entry is a no-op.
func (s *Store) SetQuantity(ctx context.Context, productID string, w any, n int) error {
	changed := false
	err := func() error {
		s.mu.Lock()
		defer s.mu.Unlock()

		items, err := s.read(ctx)
		if err != nil {
			return err
		}

		i := findIndex(items, productID, weight.Normalize(w))
		if i < 0 {
			return nil
		}
		if n <= 0 {
			items = append(items[:i], items[i+1:]...)
		} else {
			items[i].Quantity = max(1, n)
		}
		changed = true
		return s.write(ctx, items)
	}()
	if err != nil {
		return err
	}
	if changed {
		s.notify()
	}
	return nil
}

// Remove deletes the entry for (productID, w); no-op when absent.
func (s *Store) Remove(ctx context.Context, productID string, w any) error {
	changed := false
	err := func() error {
		s.mu.Lock()
		defer s.mu.Unlock()

		items, err := s.read(ctx)
		if err != nil {
			return err
		}

		i := findIndex(items, productID, weight.Normalize(w))
		if i < 0 {
			return nil
		}
		items = append(items[:i], items[i+1:]...)
		changed = true
		return s.write(ctx, items)
	}()
	if err != nil {
		return err
	}
	if changed {
		s.notify()
	}
	return nil
}

// Total sums price × quantity over the cart. Entries carrying a snapshot
// use it; entries without one resolve live against the catalog.
func (s *Store) Total(ctx context.Context) (float64, error) {
	items, err := s.Items(ctx)
	if err != nil {
		return 0, err
	}
	var sum float64
	for _, it := range items {
		sum += s.unitPrice(it) * float64(it.Quantity)
	}
	return sum, nil
}

func (s *Store) unitPrice(it domain.LineItem) float64 {
	if it.Price != nil {
		return *it.Price
	}
	return pricing.UnitPrice(s.cat.Find(it.ProductID), it.Weight)
}

// Count sums the quantities across all entries (the cart badge number).
func (s *Store) Count(ctx context.Context) (int, error) {
	items, err := s.Items(ctx)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, it := range items {
		n += it.Quantity
	}
	return n, nil
}

// Clear empties the cart, used after a completed checkout.
func (s *Store) Clear(ctx context.Context) error {
	err := func() error {
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.write(ctx, []domain.LineItem{})
	}()
	if err != nil {
		return err
	}
	s.notify()
	return nil
}
