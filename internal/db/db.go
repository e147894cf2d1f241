package db

import (
	"context"
	"time"
)

// Store is the key-value facade used by the embedding cache.
type Store interface {
	Pinger
	KVStore
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks store connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// KVItem holds a single key+value pair for pipelined writes.
type KVItem struct {
	Key   string
	Value []byte
}

// KVStore provides binary-safe key-value operations.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	// MGet returns one entry per key, nil where the key is missing.
	MGet(ctx context.Context, keys []string) ([][]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// SetMulti writes all items; ttl <= 0 means no expiry.
	SetMulti(ctx context.Context, items []KVItem, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}
