package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenbasket/storefront/internal/domain"
)

func TestSnapshot_ReplaceAndFind(t *testing.T) {
	snap := NewSnapshot()
	snap.Replace([]domain.Product{
		{ID: "spinach", Name: "Spinach"},
		{ID: "okra", Name: "Okra"},
	})

	require.Equal(t, 2, snap.Len())

	p := snap.Find("okra")
	require.NotNil(t, p)
	assert.Equal(t, "Okra", p.Name)

	// name fallback, as the product pages link by name in old carts
	p = snap.Find("Spinach")
	require.NotNil(t, p)
	assert.Equal(t, "spinach", p.ID)

	assert.Nil(t, snap.Find("missing"))
}

func TestSnapshot_ReplaceIsWholesale(t *testing.T) {
	snap := NewSnapshot()
	snap.Replace([]domain.Product{{ID: "a"}, {ID: "b"}})
	snap.Replace([]domain.Product{{ID: "c"}})

	assert.Equal(t, 1, snap.Len())
	assert.Nil(t, snap.Find("a"))
	assert.NotNil(t, snap.Find("c"))
}

func TestSnapshot_WaitReady(t *testing.T) {
	snap := NewSnapshot()

	// not ready yet: bounded wait times out
	ok := snap.WaitReady(context.Background(), 20*time.Millisecond)
	assert.False(t, ok)

	go func() {
		time.Sleep(10 * time.Millisecond)
		snap.Replace(nil)
	}()
	ok = snap.WaitReady(context.Background(), time.Second)
	assert.True(t, ok)

	// already ready: returns immediately
	ok = snap.WaitReady(context.Background(), time.Nanosecond)
	assert.True(t, ok)
}

func TestSnapshot_WaitReady_ContextCancelled(t *testing.T) {
	snap := NewSnapshot()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.False(t, snap.WaitReady(ctx, time.Second))
}
