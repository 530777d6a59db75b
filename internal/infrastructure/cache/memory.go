package cache

import (
	"context"
	"sync"
	"time"

	"github.com/tripweaver/backend/internal/domain"
)

const (
	// DefaultTTL matches the reference aggregation window.
	DefaultTTL = 6 * time.Hour

	// DefaultMaxEntries bounds the store; the oldest entry is evicted when
	// a put would exceed it.
	DefaultMaxEntries = 10
)

type entry struct {
	recs       []domain.Recommendation
	insertedAt time.Time
}

// MemoryCache is a thread-safe in-memory recommendation cache with TTL and
// oldest-first eviction. The clock is injectable for tests.
type MemoryCache struct {
	mu         sync.Mutex
	data       map[string]entry
	ttl        time.Duration
	maxEntries int
	now        func() time.Time
}

// Option configures a MemoryCache.
type Option func(*MemoryCache)

// WithTTL overrides the expiry window.
func WithTTL(ttl time.Duration) Option {
	return func(c *MemoryCache) { c.ttl = ttl }
}

// WithMaxEntries overrides the entry cap.
func WithMaxEntries(n int) Option {
	return func(c *MemoryCache) { c.maxEntries = n }
}

// WithClock injects the time source.
func WithClock(now func() time.Time) Option {
	return func(c *MemoryCache) { c.now = now }
}

// NewMemoryCache creates a cache with the default TTL and entry cap.
func NewMemoryCache(opts ...Option) *MemoryCache {
	c := &MemoryCache{
		data:       make(map[string]entry),
		ttl:        DefaultTTL,
		maxEntries: DefaultMaxEntries,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the cached list for key, or ErrCacheMiss when the key is
// absent or expired. Expired entries are deleted on access.
func (c *MemoryCache) Get(ctx context.Context, key string) ([]domain.Recommendation, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.data[key]
	if !ok {
		return nil, domain.ErrCacheMiss
	}

	if c.now().Sub(e.insertedAt) >= c.ttl {
		delete(c.data, key)
		return nil, domain.ErrCacheMiss
	}

	return e.recs, nil
}

// Put stores the list under key with the current timestamp. When the store
// would exceed the cap, the single oldest entry is evicted first.
func (c *MemoryCache) Put(ctx context.Context, key string, recs []domain.Recommendation) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.data[key]; !exists && len(c.data) >= c.maxEntries {
		c.evictOldestLocked()
	}

	c.data[key] = entry{recs: recs, insertedAt: c.now()}
	return nil
}

func (c *MemoryCache) evictOldestLocked() {
	var oldestKey string
	var oldestAt time.Time
	first := true
	for k, e := range c.data {
		if first || e.insertedAt.Before(oldestAt) {
			oldestKey = k
			oldestAt = e.insertedAt
			first = false
		}
	}
	if oldestKey != "" {
		delete(c.data, oldestKey)
	}
}

// Size returns the current number of entries.
func (c *MemoryCache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.data)
}

// Clear removes all entries.
func (c *MemoryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string]entry)
}
