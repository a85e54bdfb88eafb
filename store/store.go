// Package store provides the key-value backends the bill ledger is kept in.
// Values are opaque byte blobs; the ledger owns their encoding.
package store

import (
	"context"
	"errors"
)

var ErrKeyNotFound = errors.New("store: key not found")

type KV interface {
	// Get returns ErrKeyNotFound when key has no value.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// Delete is a no-op for missing keys.
	Delete(ctx context.Context, key string) error
	Close() error
}
