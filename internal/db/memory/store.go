// Package memory implements db.Store in process on an expiring LRU.
package memory

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/kailas-cloud/docsearch/internal/db"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

// DefaultMaxEntries bounds the store when no size is configured.
const DefaultMaxEntries = 10_000

// Store keeps up to maxEntries values, evicting the least recently used.
// Every entry shares the TTL given at construction; per-call TTLs are ignored.
type Store struct {
	lru *expirable.LRU[string, []byte]
}

// NewStore creates an in-process store. ttl <= 0 disables expiry.
func NewStore(maxEntries int, ttl time.Duration) *Store {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	if ttl < 0 {
		ttl = 0
	}
	return &Store{lru: expirable.NewLRU[string, []byte](maxEntries, nil, ttl)}
}

// Ping always succeeds.
func (s *Store) Ping(_ context.Context) error { return nil }

// Close drops every entry.
func (s *Store) Close() { s.lru.Purge() }

// WaitForReady returns immediately.
func (s *Store) WaitForReady(_ context.Context, _ time.Duration) error { return nil }

// Get retrieves a copy of the value stored at key.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := s.lru.Get(key)
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return clone(v), nil
}

// MGet retrieves many keys. Missing keys yield nil entries.
func (s *Store) MGet(_ context.Context, keys []string) ([][]byte, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	out := make([][]byte, len(keys))
	for i, key := range keys {
		if v, ok := s.lru.Get(key); ok {
			out[i] = clone(v)
		}
	}
	return out, nil
}

// Set stores a copy of value.
func (s *Store) Set(_ context.Context, key string, value []byte) error {
	s.lru.Add(key, clone(value))
	return nil
}

// SetMulti stores every item.
func (s *Store) SetMulti(_ context.Context, items []db.KVItem, _ time.Duration) error {
	for _, it := range items {
		s.lru.Add(it.Key, clone(it.Value))
	}
	return nil
}

// Del removes a key.
func (s *Store) Del(_ context.Context, key string) error {
	s.lru.Remove(key)
	return nil
}

// Len returns the number of live entries.
func (s *Store) Len() int { return s.lru.Len() }

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
