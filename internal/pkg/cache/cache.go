// Package cache provides an in-process key/value store with per-entry
// expiration and capacity-bounded least-recently-used eviction.
//
// Expired entries are removed lazily by Get and in bulk by ClearExpired,
// which StartSweeper calls on a timer.
//
// A stored zero value (nil pointer, empty string) is a hit: Get reports
// ok=true for it. Only a missing or expired key is a miss.
package cache

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultMaxSize bounds the cache when Options.MaxSize is not set.
const DefaultMaxSize = 1000

// Options configures a Cache.
type Options struct {
	// MaxSize is the number of entries kept before eviction. Defaults to DefaultMaxSize.
	MaxSize int
	// Now overrides the clock. Defaults to time.Now.
	Now func() time.Time
}

// Stats is a point-in-time view of the cache.
type Stats struct {
	Size      int
	MaxSize   int
	Keys      []string
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

type entry[V any] struct {
	value     V
	expiresAt time.Time
	// lastAccess is unix nanoseconds, updated under the read lock.
	lastAccess atomic.Int64
}

func (e *entry[V]) expired(now time.Time) bool {
	return !now.Before(e.expiresAt)
}

// Cache is safe for concurrent use.
type Cache[V any] struct {
	mu      sync.RWMutex
	entries map[string]*entry[V]
	maxSize int
	now     func() time.Time

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

// New returns an empty cache.
func New[V any](opts Options) *Cache[V] {
	if opts.MaxSize <= 0 {
		opts.MaxSize = DefaultMaxSize
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Cache[V]{
		entries: make(map[string]*entry[V]),
		maxSize: opts.MaxSize,
		now:     opts.Now,
	}
}

// Get returns the value stored under key while it has not expired.
// An expired entry is removed as a side effect.
func (c *Cache[V]) Get(key string) (V, bool) {
	now := c.now()

	c.mu.RLock()
	e, ok := c.entries[key]
	if ok && !e.expired(now) {
		e.lastAccess.Store(now.UnixNano())
		v := e.value
		c.mu.RUnlock()
		c.hits.Add(1)
		return v, true
	}
	c.mu.RUnlock()

	if ok {
		c.mu.Lock()
		// The entry may have been overwritten between the two locks.
		if cur, still := c.entries[key]; still && cur.expired(now) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
	}

	c.misses.Add(1)
	var zero V
	return zero, false
}

// Set stores value under key for ttl. A ttl of zero or less expires the entry
// immediately. Adding a new key to a full cache evicts the least recently
// accessed entry; overwriting an existing key never evicts.
func (c *Cache[V]) Set(key string, value V, ttl time.Duration) {
	now := c.now()
	e := &entry[V]{value: value, expiresAt: now.Add(ttl)}
	e.lastAccess.Store(now.UnixNano())

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.maxSize {
		c.evictOldestLocked()
	}
	c.entries[key] = e
}

// Delete removes key if present.
func (c *Cache[V]) Delete(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// Clear removes every entry.
func (c *Cache[V]) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]*entry[V])
	c.mu.Unlock()
}

// ClearExpired removes all expired entries and returns how many were removed.
// The write lock is taken once per removal so foreground calls are never
// blocked for longer than a single delete.
func (c *Cache[V]) ClearExpired() int {
	now := c.now()

	c.mu.RLock()
	var stale []string
	for k, e := range c.entries {
		if e.expired(now) {
			stale = append(stale, k)
		}
	}
	c.mu.RUnlock()

	removed := 0
	for _, k := range stale {
		c.mu.Lock()
		if e, ok := c.entries[k]; ok && e.expired(now) {
			delete(c.entries, k)
			removed++
		}
		c.mu.Unlock()
	}
	return removed
}

// Len returns the number of stored entries, expired or not.
func (c *Cache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Stats returns the current size, capacity, sorted keys and counters.
func (c *Cache[V]) Stats() Stats {
	c.mu.RLock()
	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	c.mu.RUnlock()
	sort.Strings(keys)

	return Stats{
		Size:      len(keys),
		MaxSize:   c.maxSize,
		Keys:      keys,
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
	}
}

// evictOldestLocked drops the entry with the oldest access time. Ties are
// broken by map iteration order. Caller must hold c.mu for writing.
func (c *Cache[V]) evictOldestLocked() {
	var (
		oldestKey string
		oldest    int64
		found     bool
	)
	for k, e := range c.entries {
		at := e.lastAccess.Load()
		if !found || at < oldest {
			oldestKey, oldest, found = k, at, true
		}
	}
	if found {
		delete(c.entries, oldestKey)
		c.evictions.Add(1)
	}
}
