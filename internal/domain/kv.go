package domain

import "context"

// KVStore is the raw persistence medium: a string key-value store.
// Get returns ErrNotFound for a missing key. Remove of a missing key is not an error.
type KVStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}
