package cache

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// DefaultMemoryEntries bounds the in-memory store when no size is given.
const DefaultMemoryEntries = 4096

// MemoryStore is an in-memory Store backed by an expirable LRU.
// Entries are evicted by TTL or when the size bound is exceeded.
type MemoryStore struct {
	lru *expirable.LRU[string, []byte]
}

// NewMemoryStore creates a MemoryStore holding at most maxEntries values,
// each expiring ttl after it was written. maxEntries <= 0 uses
// DefaultMemoryEntries; ttl <= 0 disables expiry.
func NewMemoryStore(maxEntries int, ttl time.Duration) *MemoryStore {
	if maxEntries <= 0 {
		maxEntries = DefaultMemoryEntries
	}
	return &MemoryStore{
		lru: expirable.NewLRU[string, []byte](maxEntries, nil, ttl),
	}
}

// Get returns the value for key if present and unexpired.
func (s *MemoryStore) Get(key string) ([]byte, bool, error) {
	value, ok := s.lru.Get(key)
	return value, ok, nil
}

// Set stores value under key.
func (s *MemoryStore) Set(key string, value []byte) error {
	s.lru.Add(key, value)
	return nil
}

// Close implements Store. A memory store has nothing to release.
func (s *MemoryStore) Close() error {
	return nil
}
