// internal/domain/kv/store.go
package kv

import "context"

// Store is the persistent key-value store shared by the engine's state:
// the settings record, cooldown stamps, milestone latches and the first-sale
// flag. Values survive process restarts and are scoped to one installation.
//
// Get returns database.ErrKeyNotFound when no value exists for the key.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}
