// Package cache stores raw response bodies for a bounded time.
package cache

import (
	"context"
	"sync"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry expiry.
// A miss is (nil, false, nil); err is reserved for backend failures.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error
}

// Stats counts lookups served by a Memory cache
type Stats struct {
	Hits      int64
	Misses    int64
	Evictions int64
	Entries   int
}

// Memory is an in-process Cache. When full it evicts the least recently used entry.
type Memory struct {
	mu         sync.Mutex
	entries    map[string]*entry
	maxEntries int
	stats      Stats
	now        func() time.Time
}

type entry struct {
	b        []byte
	exp      time.Time
	accessed time.Time
}

// DefaultMaxEntries bounds a Memory cache created with maxEntries <= 0
const DefaultMaxEntries = 1024

// NewMemory returns an empty Memory cache holding at most maxEntries entries.
func NewMemory(maxEntries int) *Memory {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &Memory{entries: make(map[string]*entry), maxEntries: maxEntries, now: time.Now}
}

func (c *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	now := c.now()
	if !ok || (!e.exp.IsZero() && now.After(e.exp)) {
		if ok {
			delete(c.entries, key)
		}
		c.stats.Misses++
		return nil, false, nil
	}
	e.accessed = now
	c.stats.Hits++
	return append([]byte(nil), e.b...), true, nil
}

// Set stores val under key. A ttl <= 0 keeps the entry until it is evicted.
func (c *Memory) Set(_ context.Context, key string, val []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.maxEntries {
		c.evictLRU()
	}
	e := &entry{b: append([]byte(nil), val...), accessed: now}
	if ttl > 0 {
		e.exp = now.Add(ttl)
	}
	c.entries[key] = e
	return nil
}

// Stats returns a snapshot of the counters
func (c *Memory) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.stats
	s.Entries = len(c.entries)
	return s
}

// evictLRU drops the least recently accessed entry; caller holds mu
func (c *Memory) evictLRU() {
	var oldestKey string
	var oldest time.Time
	for k, e := range c.entries {
		if oldestKey == "" || e.accessed.Before(oldest) {
			oldestKey, oldest = k, e.accessed
		}
	}
	if oldestKey != "" {
		delete(c.entries, oldestKey)
		c.stats.Evictions++
	}
}

// Noop never stores anything
type Noop struct{}

func (Noop) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (Noop) Set(context.Context, string, []byte, time.Duration) error { return nil }
