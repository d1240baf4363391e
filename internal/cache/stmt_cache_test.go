package cache

import (
	"database/sql"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func prepare(t *testing.T, db *sql.DB, sqlText string) *sql.Stmt {
	t.Helper()
	stmt, err := db.Prepare(sqlText)
	require.NoError(t, err)
	return stmt
}

func TestStmtCache_HitAndMiss(t *testing.T) {
	db := openTestDB(t)
	c := New(10)

	_, ok := c.Get("select 1")
	assert.False(t, ok)

	c.Put("select 1", prepare(t, db, "select 1"))
	stmt, ok := c.Get("select 1")
	assert.True(t, ok)
	assert.NotNil(t, stmt)

	stats := c.Stats()
	assert.Equal(t, uint64(1), stats.Hits)
	assert.Equal(t, uint64(1), stats.Misses)
	assert.InDelta(t, 0.5, stats.HitRate, 0.001)
}

func TestStmtCache_EvictsLeastRecentlyUsed(t *testing.T) {
	db := openTestDB(t)
	c := New(2)

	c.Put("select 1", prepare(t, db, "select 1"))
	c.Put("select 2", prepare(t, db, "select 2"))

	// Touch the first entry so the second becomes the eviction candidate.
	_, ok := c.Get("select 1")
	require.True(t, ok)

	c.Put("select 3", prepare(t, db, "select 3"))

	_, ok = c.Get("select 1")
	assert.True(t, ok)
	_, ok = c.Get("select 2")
	assert.False(t, ok)
	_, ok = c.Get("select 3")
	assert.True(t, ok)

	assert.Equal(t, uint64(1), c.Stats().Evictions)
}

func TestStmtCache_PutReplacesExisting(t *testing.T) {
	db := openTestDB(t)
	c := New(4)

	c.Put("select 1", prepare(t, db, "select 1"))
	replacement := prepare(t, db, "select 1")
	c.Put("select 1", replacement)

	got, ok := c.Get("select 1")
	require.True(t, ok)
	assert.Same(t, replacement, got)
	assert.Equal(t, 1, c.Stats().Size)
}

func TestStmtCache_Clear(t *testing.T) {
	db := openTestDB(t)
	c := New(4)

	for i := 0; i < 3; i++ {
		sqlText := fmt.Sprintf("select %d", i)
		c.Put(sqlText, prepare(t, db, sqlText))
	}
	c.Clear()

	assert.Equal(t, 0, c.Stats().Size)
	_, ok := c.Get("select 0")
	assert.False(t, ok)
}

func TestStmtCache_NonPositiveCapacityUsesDefault(t *testing.T) {
	c := New(0)
	assert.Equal(t, DefaultCapacity, c.Stats().Capacity)
}
