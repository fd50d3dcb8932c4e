package catalog

import (
	"context"
	"sync"
	"time"

	"github.com/greenbasket/storefront/internal/domain"
)

// Snapshot holds the current product collection. It is replaced wholesale on
// each successful load, never patched row by row, and it carries the
// readiness signal consumers await before rendering anything price-related.
type Snapshot struct {
	mu       sync.RWMutex
	products []domain.Product
	byID     map[string]int

	readyOnce sync.Once
	ready     chan struct{}
}

func NewSnapshot() *Snapshot {
	return &Snapshot{ready: make(chan struct{})}
}

// Replace swaps in a freshly loaded product collection and marks the
// snapshot ready.
func (s *Snapshot) Replace(products []domain.Product) {
	byID := make(map[string]int, len(products))
	for i, p := range products {
		if _, dup := byID[p.ID]; !dup {
			byID[p.ID] = i
		}
	}

	s.mu.Lock()
	s.products = products
	s.byID = byID
	s.mu.Unlock()

	s.signalReady()
}

// signalReady unblocks WaitReady without touching the product data. Used by
// the loader on failure so consumers degrade to an empty catalog instead of
// waiting out their full timeout.
func (s *Snapshot) signalReady() {
	s.readyOnce.Do(func() { close(s.ready) })
}

// Products returns a copy of the current collection.
func (s *Snapshot) Products() []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Product, len(s.products))
	copy(out, s.products)
	return out
}

// Len reports the number of loaded products.
func (s *Snapshot) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.products)
}

// Find looks a product up by identifier, falling back to an exact name
// match the way the storefront always has. Returns nil when the product is
// not in the loaded catalog; callers treat that as "price unresolved", not
// as an error.
func (s *Snapshot) Find(id string) *domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i, ok := s.byID[id]; ok {
		p := s.products[i]
		return &p
	}
	for _, p := range s.products {
		if p.Name == id {
			p := p
			return &p
		}
	}
	return nil
}

// WaitReady blocks until the first load attempt finished (successfully or
// not), the timeout elapses or the context is cancelled. It reports whether
// the snapshot became ready; on false the caller proceeds with whatever
// state exists, possibly empty.
func (s *Snapshot) WaitReady(ctx context.Context, timeout time.Duration) bool {
	select {
	case <-s.ready:
		return true
	default:
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-s.ready:
		return true
	case <-timer.C:
		return false
	case <-ctx.Done():
		return false
	}
}
