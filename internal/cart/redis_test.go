package cart

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenbasket/storefront/internal/domain"
)

func setupTestRedis(t *testing.T) (*RedisKV, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisKV(client), mr
}

func TestRedisKV_GetMissingKey(t *testing.T) {
	kv, _ := setupTestRedis(t)

	_, ok, err := kv.Get(context.Background(), StorageKey)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisKV_SetGetRoundtrip(t *testing.T) {
	kv, mr := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, StorageKey, `[{"productId":"okra","weight":1000,"quantity":2}]`))

	got, ok, err := kv.Get(ctx, StorageKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Contains(t, got, `"okra"`)

	// value is visible to the raw client too
	raw, err := mr.Get(StorageKey)
	require.NoError(t, err)
	assert.Equal(t, got, raw)
}

func TestRedisKV_ServerGone(t *testing.T) {
	kv, mr := setupTestRedis(t)
	mr.Close()

	_, _, err := kv.Get(context.Background(), StorageKey)
	assert.Error(t, err)
	assert.Error(t, kv.Set(context.Background(), StorageKey, "[]"))
}

func TestStore_OverRedis(t *testing.T) {
	kv, _ := setupTestRedis(t)
	ctx := context.Background()

	cat := &mockCatalog{products: map[string]*domain.Product{}}
	cat.setPrice("spinach", "price_500g", 55)
	sut := NewStore(kv, cat, slog.New(slog.NewTextHandler(io.Discard, nil)))

	require.NoError(t, sut.Add(ctx, "spinach", "500g", 2))
	require.NoError(t, sut.Add(ctx, "spinach", "0.5kg", 1))

	items, err := sut.Items(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity)

	total, err := sut.Total(ctx)
	require.NoError(t, err)
	assert.Equal(t, 165.0, total)
}
