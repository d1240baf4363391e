// Package cache provides an LRU cache for prepared statements.
package cache

import (
	"container/list"
	"database/sql"
	"sync"
	"sync/atomic"
)

// DefaultCapacity is the default maximum number of cached prepared statements.
const DefaultCapacity = 1000

// StmtCache keys prepared statements by their SQL text with LRU eviction.
// Evicted and replaced statements are closed; callers must never close a
// statement obtained from the cache.
type StmtCache struct {
	mu       sync.Mutex
	capacity int
	entries  map[string]*list.Element
	order    *list.List // front = most recently used

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

type stmtEntry struct {
	sql  string
	stmt *sql.Stmt
}

// New creates a cache with the given capacity; non-positive values fall
// back to DefaultCapacity.
func New(capacity int) *StmtCache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &StmtCache{
		capacity: capacity,
		entries:  make(map[string]*list.Element, capacity),
		order:    list.New(),
	}
}

// Get returns the cached statement for the SQL text, marking it most
// recently used.
func (c *StmtCache) Get(sql string) (*sql.Stmt, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[sql]
	if !ok {
		c.misses.Add(1)
		return nil, false
	}
	c.order.MoveToFront(elem)
	c.hits.Add(1)
	return elem.Value.(*stmtEntry).stmt, true
}

// Put stores a statement, closing any previous statement cached under the
// same SQL text and evicting the least recently used entry at capacity.
func (c *StmtCache) Put(sqlText string, stmt *sql.Stmt) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[sqlText]; ok {
		c.order.MoveToFront(elem)
		entry := elem.Value.(*stmtEntry)
		_ = entry.stmt.Close()
		entry.stmt = stmt
		return
	}

	if c.order.Len() >= c.capacity {
		c.evictOldest()
	}
	c.entries[sqlText] = c.order.PushFront(&stmtEntry{sql: sqlText, stmt: stmt})
}

// evictOldest removes and closes the least recently used statement.
// Caller holds the lock.
func (c *StmtCache) evictOldest() {
	elem := c.order.Back()
	if elem == nil {
		return
	}
	c.order.Remove(elem)
	entry := elem.Value.(*stmtEntry)
	delete(c.entries, entry.sql)
	_ = entry.stmt.Close()
	c.evictions.Add(1)
}

// Clear closes and drops every cached statement.
func (c *StmtCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for elem := c.order.Front(); elem != nil; elem = elem.Next() {
		_ = elem.Value.(*stmtEntry).stmt.Close()
	}
	c.entries = make(map[string]*list.Element, c.capacity)
	c.order.Init()
}

// Stats holds cache performance counters.
type Stats struct {
	Size      int
	Capacity  int
	Hits      uint64
	Misses    uint64
	Evictions uint64
	HitRate   float64
}

// Stats returns a snapshot of the cache counters.
func (c *StmtCache) Stats() Stats {
	c.mu.Lock()
	size := c.order.Len()
	c.mu.Unlock()

	hits := c.hits.Load()
	misses := c.misses.Load()
	total := hits + misses
	rate := 0.0
	if total > 0 {
		rate = float64(hits) / float64(total)
	}
	return Stats{
		Size:      size,
		Capacity:  c.capacity,
		Hits:      hits,
		Misses:    misses,
		Evictions: c.evictions.Load(),
		HitRate:   rate,
	}
}
