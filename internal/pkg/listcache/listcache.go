// Package listcache is a small in-memory memo for paginated list responses.
// Keys are composite strings (table:view-mode:user:page); staleness is
// enforced by callers via ClearByPrefix whenever a mutation or a realtime
// event could affect a cached set. The cache is advisory: the database stays
// the source of truth and every entry must be reconstructible from a fresh
// load.
package listcache

import (
	"strconv"
	"strings"
	"sync"
	"time"
)

type entry struct {
	value    any
	storedAt time.Time
}

// Cache is a bounded key/value store with per-entry TTL and prefix
// invalidation. It is explicitly constructed and injected; there is no
// package-level instance.
type Cache struct {
	mu       sync.Mutex
	capacity int
	ttl      time.Duration
	entries  map[string]*entry
	order    []string // insertion order, oldest first

	now func() time.Time
}

const (
	DefaultCapacity = 256
	DefaultTTL      = 30 * time.Second
)

// New creates a cache holding at most capacity entries, each valid for ttl.
func New(capacity int, ttl time.Duration) *Cache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		capacity: capacity,
		ttl:      ttl,
		entries:  make(map[string]*entry),
		now:      time.Now,
	}
}

// Key builds the composite cache key for a list page. The scoping user is
// part of the key: controllers of different users never share entries, so a
// row-scoped page cached by one session cannot leak into another.
func Key(table, viewMode string, userID uint, page int) string {
	return table + ":" + viewMode + ":u" + strconv.FormatUint(uint64(userID), 10) + ":" + strconv.Itoa(page)
}

// Prefix builds the invalidation prefix covering every cached page of a table.
func Prefix(table string) string {
	return table + ":"
}

// Get returns the cached value for key, or ok=false on a miss or an expired
// entry. Expired entries are dropped on access; there is no sweeper timer.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(e.storedAt) > c.ttl {
		c.removeLocked(key)
		return nil, false
	}
	return e.value, true
}

// Set stores value under key, evicting the oldest entry when full.
func (c *Cache) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		e.storedAt = c.now()
		return
	}

	for len(c.entries) >= c.capacity && len(c.order) > 0 {
		c.removeLocked(c.order[0])
	}

	c.entries[key] = &entry{value: value, storedAt: c.now()}
	c.order = append(c.order, key)
}

// ClearByPrefix drops every entry whose key starts with prefix and returns
// the number of dropped entries.
func (c *Cache) ClearByPrefix(prefix string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	dropped := 0
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			c.removeLocked(key)
			dropped++
		}
	}
	return dropped
}

// Len returns the number of live entries, expired ones included until touched.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache) removeLocked(key string) {
	delete(c.entries, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}
