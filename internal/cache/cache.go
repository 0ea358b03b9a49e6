// Package cache keeps recent extraction results in memory so identical
// requests are answered without a backend round trip.
//
// Entries expire after a fixed TTL and, once the cache is full, the entry
// inserted first is evicted. Reading an entry does not refresh it.
//
// Example usage:
//
//	c := cache.New(cache.Config{TTL: 5 * time.Minute, MaxEntries: 100})
//	key, _ := cache.Fingerprint(cache.Key{Text: text, Backend: "openai", Model: "gpt-4o-mini"})
//	c.Set(key, result)
//	res, ok := c.Get(key)
package cache

import (
	"container/list"
	"sync"
	"time"

	"github.com/fyrsmithlabs/braindump/internal/extraction"
)

// Config sizes the cache. A zero TTL or zero MaxEntries disables storage.
type Config struct {
	TTL        time.Duration
	MaxEntries int
}

// Option configures a Cache.
type Option func(*Cache)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		if now != nil {
			c.now = now
		}
	}
}

// WithMetrics enables Prometheus instrumentation.
func WithMetrics(m *Metrics) Option {
	return func(c *Cache) {
		c.metrics = m
	}
}

type entry struct {
	key        string
	result     *extraction.Result
	insertedAt time.Time
}

// Cache is a TTL cache with insertion-order eviction. It is safe for
// concurrent use.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*list.Element
	order   *list.List // front is oldest
	ttl     time.Duration
	max     int
	now     func() time.Time
	metrics *Metrics
}

// New creates an empty cache.
func New(cfg Config, opts ...Option) *Cache {
	c := &Cache{
		entries: make(map[string]*list.Element),
		order:   list.New(),
		ttl:     cfg.TTL,
		max:     cfg.MaxEntries,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns a copy of the result stored under key if it is younger than
// the TTL. Expired entries are removed as they are found.
func (c *Cache) Get(key string) (*extraction.Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[key]
	if !ok {
		c.metrics.miss()
		return nil, false
	}

	e := el.Value.(*entry)
	if c.now().Sub(e.insertedAt) >= c.ttl {
		c.removeElement(el)
		c.metrics.miss()
		return nil, false
	}

	c.metrics.hit()
	return e.result.Clone(), true
}

// Set stores a copy of result under key. An existing entry for key is
// replaced and becomes the newest. When the cache is full the oldest
// inserted entry is evicted first.
func (c *Cache) Set(key string, result *extraction.Result) {
	if c.ttl <= 0 || c.max <= 0 || result == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		c.removeElement(el)
	}

	for c.order.Len() >= c.max {
		c.removeElement(c.order.Front())
		c.metrics.eviction()
	}

	c.entries[key] = c.order.PushBack(&entry{
		key:        key,
		result:     result.Clone(),
		insertedAt: c.now(),
	})
	c.metrics.setSize(c.order.Len())
}

// Clear removes every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*list.Element)
	c.order.Init()
	c.metrics.setSize(0)
}

// Len reports the number of stored entries, including ones that have
// expired but not yet been looked up.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// removeElement drops el from both indexes. Caller must hold mu.
func (c *Cache) removeElement(el *list.Element) {
	e := c.order.Remove(el).(*entry)
	delete(c.entries, e.key)
	c.metrics.setSize(c.order.Len())
}
