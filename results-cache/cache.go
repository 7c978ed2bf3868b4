// Package results_cache keeps materialized query results keyed by the exact query text.
// Entries are never evicted nor invalidated, a cached result outlives the data it was read from.
package results_cache

import (
	"sync"

	"go.uber.org/atomic"

	"github.com/acronis/perfkit/dbopt-bench/db"
)

// ResultCache maps query text to its result set
type ResultCache struct {
	lock    sync.RWMutex
	entries map[string]*db.ResultSet

	hits   *atomic.Int64
	misses *atomic.Int64
}

// NewResultCache creates an empty cache
func NewResultCache() *ResultCache {
	return &ResultCache{
		entries: make(map[string]*db.ResultSet),
		hits:    atomic.NewInt64(0),
		misses:  atomic.NewInt64(0),
	}
}

// Get returns the result cached for query. Keys are compared byte for byte,
// queries differing in case or whitespace are different entries.
// An empty result set is a hit.
func (c *ResultCache) Get(query string) (*db.ResultSet, bool) {
	c.lock.RLock()
	rs, ok := c.entries[query]
	c.lock.RUnlock()

	if ok {
		c.hits.Inc()
	} else {
		c.misses.Inc()
	}

	return rs, ok
}

// Put stores a copy of rs for query, replacing a previous entry
func (c *ResultCache) Put(query string, rs *db.ResultSet) {
	c.lock.Lock()
	c.entries[query] = rs.Clone()
	c.lock.Unlock()
}

// Len returns the number of cached queries
func (c *ResultCache) Len() int {
	c.lock.RLock()
	defer c.lock.RUnlock()

	return len(c.entries)
}

// Hits returns the number of successful lookups
func (c *ResultCache) Hits() int64 {
	return c.hits.Load()
}

// Misses returns the number of failed lookups
func (c *ResultCache) Misses() int64 {
	return c.misses.Load()
}
