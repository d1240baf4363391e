package core

import (
	"context"
	"database/sql"

	"github.com/coregx/sequel/internal/query"
	"github.com/coregx/sequel/internal/relation"
)

// Operation set mirrored on DB and Tx. Each method delegates to a Session
// bound to the pool or to the open transaction.

// Select runs the builder and returns all rows.
func (db *DB) Select(ctx context.Context, b *query.Builder) ([]relation.Row, error) {
	return db.Session().Select(ctx, b)
}

// First runs the builder limited to one row.
func (db *DB) First(ctx context.Context, b *query.Builder) (relation.Row, error) {
	return db.Session().First(ctx, b)
}

// Value returns a single column of the first row.
func (db *DB) Value(ctx context.Context, b *query.Builder, column string) (any, error) {
	return db.Session().Value(ctx, b, column)
}

// Exists reports whether the builder matches any row.
func (db *DB) Exists(ctx context.Context, b *query.Builder) (bool, error) {
	return db.Session().Exists(ctx, b)
}

// Aggregate computes an aggregate function over the builder's rows.
func (db *DB) Aggregate(ctx context.Context, b *query.Builder, function string, columns ...string) (any, error) {
	return db.Session().Aggregate(ctx, b, function, columns...)
}

// Count returns the number of rows the builder would select.
func (db *DB) Count(ctx context.Context, b *query.Builder) (int64, error) {
	return db.Session().Count(ctx, b)
}

// Insert inserts one or more rows into the builder's table.
func (db *DB) Insert(ctx context.Context, b *query.Builder, values ...map[string]any) (sql.Result, error) {
	return db.Session().Insert(ctx, b, values...)
}

// InsertOrIgnore inserts rows, skipping conflicts.
func (db *DB) InsertOrIgnore(ctx context.Context, b *query.Builder, values ...map[string]any) (sql.Result, error) {
	return db.Session().InsertOrIgnore(ctx, b, values...)
}

// InsertGetID inserts one row and returns its generated key.
func (db *DB) InsertGetID(ctx context.Context, b *query.Builder, values map[string]any, keyColumn string) (any, error) {
	return db.Session().InsertGetID(ctx, b, values, keyColumn)
}

// Upsert inserts rows, updating the listed columns on conflict.
func (db *DB) Upsert(ctx context.Context, b *query.Builder, values []map[string]any, uniqueBy, update []string) (sql.Result, error) {
	return db.Session().Upsert(ctx, b, values, uniqueBy, update)
}

// Update updates rows matched by the builder's wheres.
func (db *DB) Update(ctx context.Context, b *query.Builder, values map[string]any) (sql.Result, error) {
	return db.Session().Update(ctx, b, values)
}

// Delete deletes rows matched by the builder's wheres.
func (db *DB) Delete(ctx context.Context, b *query.Builder) (sql.Result, error) {
	return db.Session().Delete(ctx, b)
}

// Truncate empties the builder's table.
func (db *DB) Truncate(ctx context.Context, b *query.Builder) error {
	return db.Session().Truncate(ctx, b)
}

// Load eager-loads relationships onto parent rows, one query per
// descriptor.
func (db *DB) Load(ctx context.Context, parents []relation.Row, descriptors ...any) error {
	return db.Session().Load(ctx, parents, descriptors...)
}

// Select runs the builder inside the transaction.
func (tx *Tx) Select(ctx context.Context, b *query.Builder) ([]relation.Row, error) {
	return tx.Session().Select(ctx, b)
}

// First runs the builder limited to one row inside the transaction.
func (tx *Tx) First(ctx context.Context, b *query.Builder) (relation.Row, error) {
	return tx.Session().First(ctx, b)
}

// Exists reports whether the builder matches any row inside the transaction.
func (tx *Tx) Exists(ctx context.Context, b *query.Builder) (bool, error) {
	return tx.Session().Exists(ctx, b)
}

// Count returns the matched row count inside the transaction.
func (tx *Tx) Count(ctx context.Context, b *query.Builder) (int64, error) {
	return tx.Session().Count(ctx, b)
}

// Insert inserts rows inside the transaction.
func (tx *Tx) Insert(ctx context.Context, b *query.Builder, values ...map[string]any) (sql.Result, error) {
	return tx.Session().Insert(ctx, b, values...)
}

// InsertOrIgnore inserts rows inside the transaction, skipping conflicts.
func (tx *Tx) InsertOrIgnore(ctx context.Context, b *query.Builder, values ...map[string]any) (sql.Result, error) {
	return tx.Session().InsertOrIgnore(ctx, b, values...)
}

// InsertGetID inserts one row inside the transaction and returns its key.
func (tx *Tx) InsertGetID(ctx context.Context, b *query.Builder, values map[string]any, keyColumn string) (any, error) {
	return tx.Session().InsertGetID(ctx, b, values, keyColumn)
}

// Upsert inserts rows inside the transaction, updating on conflict.
func (tx *Tx) Upsert(ctx context.Context, b *query.Builder, values []map[string]any, uniqueBy, update []string) (sql.Result, error) {
	return tx.Session().Upsert(ctx, b, values, uniqueBy, update)
}

// Update updates rows inside the transaction.
func (tx *Tx) Update(ctx context.Context, b *query.Builder, values map[string]any) (sql.Result, error) {
	return tx.Session().Update(ctx, b, values)
}

// Delete deletes rows inside the transaction.
func (tx *Tx) Delete(ctx context.Context, b *query.Builder) (sql.Result, error) {
	return tx.Session().Delete(ctx, b)
}

// Load eager-loads relationships inside the transaction.
func (tx *Tx) Load(ctx context.Context, parents []relation.Row, descriptors ...any) error {
	return tx.Session().Load(ctx, parents, descriptors...)
}
