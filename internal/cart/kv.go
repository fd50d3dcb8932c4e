package cart

import "context"

// KV is the durable key-value capability the cart persists through. The
// whole line-item collection is serialized as one value under one fixed
// key; there is no partial persistence.
//
// The Store defines this interface, not the Redis implementation.
type KV interface {
	// Get returns the stored value and whether the key exists.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}
