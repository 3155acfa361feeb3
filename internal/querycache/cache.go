// Package querycache caches query results keyed by search term and a version
// counter. Bumping the version invalidates every entry at once, which is how
// a successful create makes the next listing go back to the server.
package querycache

import (
	"sync"
	"time"
)

// DefaultTTL is how long a cached result counts as fresh.
const DefaultTTL = 5 * time.Second

// Option configures a Cache.
type Option func(*cacheOptions)

type cacheOptions struct {
	now func() time.Time
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(o *cacheOptions) {
		o.now = now
	}
}

// Key identifies one cached query.
type Key struct {
	Term    string
	Version uint64
}

type entry[T any] struct {
	value    T
	storedAt time.Time
}

// Cache holds query results for a limited time. Entries are never refreshed
// in the background; a stale entry is simply a miss.
type Cache[T any] struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	version uint64
	entries map[Key]entry[T]
}

// New creates a Cache whose entries stay fresh for ttl.
func New[T any](ttl time.Duration, opts ...Option) *Cache[T] {
	o := cacheOptions{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return &Cache[T]{
		ttl:     ttl,
		now:     o.now,
		entries: make(map[Key]entry[T]),
	}
}

// Key returns the cache key for term at the current version.
func (c *Cache[T]) Key(term string) Key {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Key{Term: term, Version: c.version}
}

// Get returns the fresh value stored under key, if any.
func (c *Cache[T]) Get(key Key) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	e, ok := c.entries[key]
	if !ok || key.Version != c.version {
		return zero, false
	}
	if c.now().Sub(e.storedAt) >= c.ttl {
		delete(c.entries, key)
		return zero, false
	}
	return e.value, true
}

// Put stores value under key. Values for an outdated version are dropped, so
// a fetch that started before an invalidation cannot repopulate the cache.
func (c *Cache[T]) Put(key Key, value T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if key.Version != c.version {
		return
	}
	c.entries[key] = entry[T]{value: value, storedAt: c.now()}
}

// Invalidate bumps the version and discards every entry.
func (c *Cache[T]) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.version++
	c.entries = make(map[Key]entry[T])
}

// Version returns the current version.
func (c *Cache[T]) Version() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.version
}
