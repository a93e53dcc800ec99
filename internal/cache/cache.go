// Package cache memoizes provider fetches keyed by their exact input
// parameters, so identical requests within a session hit the network at
// most once.
//
// The backing store is pluggable: an in-memory expirable LRU for
// single-process use and a SQLite store for persistence across restarts.
// Entries expire by TTL and are simply recomputed; there is no explicit
// invalidation API. Concurrent lookups for the same key are collapsed into
// a single upstream call (per-key single-flight).
package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// Store is a TTL-scoped byte store. Implementations must be safe for
// concurrent use. Get returns false for missing or expired entries.
type Store interface {
	Get(key string) ([]byte, bool, error)
	Set(key string, value []byte) error
	Close() error
}

// StatsRecorder receives cache hit/miss observations. Implemented by the
// observability metrics; a nil recorder disables recording.
type StatsRecorder interface {
	CacheHit()
	CacheMiss()
}

// Cache wraps a Store with single-flight request collapsing.
type Cache struct {
	store  Store
	group  singleflight.Group
	logger zerolog.Logger
	stats  StatsRecorder
}

// New creates a Cache over the given store. stats may be nil.
func New(store Store, logger zerolog.Logger, stats StatsRecorder) *Cache {
	return &Cache{
		store:  store,
		logger: logger.With().Str("component", "cache").Logger(),
		stats:  stats,
	}
}

// Do returns the cached value for key, or invokes fetch once and stores the
// result. Concurrent callers for the same key share one fetch; cache write
// failures are logged but do not fail the call.
func (c *Cache) Do(ctx context.Context, key string, fetch func(context.Context) ([]byte, error)) ([]byte, error) {
	if value, ok := c.lookup(key); ok {
		c.hit()
		return value, nil
	}
	c.miss()

	result, err, _ := c.group.Do(key, func() (any, error) {
		// A concurrent flight may have populated the store while this
		// caller was waiting on the group.
		if value, ok := c.lookup(key); ok {
			return value, nil
		}

		value, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		if err := c.store.Set(key, value); err != nil {
			c.logger.Warn().Err(err).Str("key", key).Msg("cache write failed")
		}
		return value, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]byte), nil
}

// Memoize wraps Do for a typed fetch function, marshaling the result as
// JSON in the store.
func Memoize[T any](ctx context.Context, c *Cache, key string, fetch func(context.Context) (T, error)) (T, error) {
	var zero T

	raw, err := c.Do(ctx, key, func(ctx context.Context) ([]byte, error) {
		value, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		encoded, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("encoding cache value: %w", err)
		}
		return encoded, nil
	})
	if err != nil {
		return zero, err
	}

	var value T
	if err := json.Unmarshal(raw, &value); err != nil {
		return zero, fmt.Errorf("decoding cache value: %w", err)
	}
	return value, nil
}

func (c *Cache) lookup(key string) ([]byte, bool) {
	value, ok, err := c.store.Get(key)
	if err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("cache read failed")
		return nil, false
	}
	return value, ok
}

func (c *Cache) hit() {
	if c.stats != nil {
		c.stats.CacheHit()
	}
}

func (c *Cache) miss() {
	if c.stats != nil {
		c.stats.CacheMiss()
	}
}
