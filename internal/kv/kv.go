// Package kv is the key-value persistence boundary. Values are whole JSON
// documents keyed by string; there are no multi-key transactions.
package kv

import "context"

type Store interface {
	// Get returns ErrNotFound when the key does not exist.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// Delete returns nil when the key does not exist.
	Delete(ctx context.Context, key string) error
	Close() error
}
