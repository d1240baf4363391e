// Package core provides the connection layer: pooling, statement caching,
// placeholder rebinding, logging, tracing, and execution of compiled queries.
package core

import (
	"context"
	"database/sql"
	"time"

	"github.com/coregx/sequel/internal/cache"
	"github.com/coregx/sequel/internal/dialects"
	"github.com/coregx/sequel/internal/logger"
	"github.com/coregx/sequel/internal/processor"
	"github.com/coregx/sequel/internal/query"
	"github.com/coregx/sequel/internal/tracer"
)

// DB is the main database handle. It owns the *sql.DB pool, the prepared
// statement cache, and the ambient observability hooks, and hands out
// builders compiling for its dialect.
type DB struct {
	sqlDB      *sql.DB
	driverName string
	dialect    dialects.Dialect
	grammar    *query.Grammar
	stmtCache  *cache.StmtCache
	processor  *processor.Processor
	logger     logger.Logger
	sanitizer  *logger.Sanitizer
	tracer     tracer.Tracer
	queryHook  QueryHook
	health     *healthChecker
}

// Option configures a DB at open time.
type Option func(*DB)

// WithMaxOpenConns sets the maximum number of open connections.
func WithMaxOpenConns(n int) Option {
	return func(db *DB) { db.sqlDB.SetMaxOpenConns(n) }
}

// WithMaxIdleConns sets the maximum number of idle connections.
func WithMaxIdleConns(n int) Option {
	return func(db *DB) { db.sqlDB.SetMaxIdleConns(n) }
}

// WithConnMaxLifetime caps how long a pooled connection may be reused.
func WithConnMaxLifetime(d time.Duration) Option {
	return func(db *DB) { db.sqlDB.SetConnMaxLifetime(d) }
}

// WithStmtCacheCapacity sets the prepared statement cache capacity.
func WithStmtCacheCapacity(capacity int) Option {
	return func(db *DB) { db.stmtCache = cache.New(capacity) }
}

// WithLogger installs a structured logger for query execution.
func WithLogger(log logger.Logger) Option {
	return func(db *DB) { db.logger = log }
}

// WithSensitiveFields configures which column names trigger argument
// masking in logs.
func WithSensitiveFields(fields []string) Option {
	return func(db *DB) { db.sanitizer = logger.NewSanitizer(fields) }
}

// WithTracer installs a tracer; one span is opened per executed statement.
func WithTracer(t tracer.Tracer) Option {
	return func(db *DB) { db.tracer = t }
}

// WithQueryHook installs a callback invoked after every query execution.
func WithQueryHook(hook QueryHook) Option {
	return func(db *DB) { db.queryHook = hook }
}

// WithTablePrefix prepends a prefix to every table-position identifier
// compiled by this handle's builders.
func WithTablePrefix(prefix string) Option {
	return func(db *DB) { db.grammar.SetTablePrefix(prefix) }
}

// WithHealthCheck starts a background ping loop at the given interval.
func WithHealthCheck(interval time.Duration) Option {
	return func(db *DB) {
		db.health = newHealthChecker(db.sqlDB, db.logger, interval)
		db.health.start()
	}
}

// NewDB opens a connection pool for a registered driver name. The dialect
// is resolved from the driver name; unknown names panic.
func NewDB(driverName, dsn string) (*DB, error) {
	sqlDB, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, err
	}
	return WrapDB(sqlDB, driverName), nil
}

// WrapDB adopts an existing *sql.DB. The caller keeps ownership of the
// pool's lifetime only through Close on the returned handle.
func WrapDB(sqlDB *sql.DB, driverName string) *DB {
	dialect := dialects.GetDialect(driverName)
	return &DB{
		sqlDB:      sqlDB,
		driverName: driverName,
		dialect:    dialect,
		grammar:    query.NewGrammar(dialect),
		stmtCache:  cache.New(cache.DefaultCapacity),
		processor:  processor.New(),
		logger:     logger.NoopLogger{},
		sanitizer:  logger.NewSanitizer(nil),
		tracer:     tracer.NoopTracer{},
	}
}

// Open creates a DB and applies options.
func Open(driverName, dsn string, opts ...Option) (*DB, error) {
	db, err := NewDB(driverName, dsn)
	if err != nil {
		return nil, err
	}
	for _, opt := range opts {
		opt(db)
	}
	return db, nil
}

// Close stops the health checker, clears the statement cache, and closes
// the pool.
func (db *DB) Close() error {
	if db.health != nil {
		db.health.shutdown()
	}
	db.stmtCache.Clear()
	return db.sqlDB.Close()
}

// Ping verifies the connection is alive.
func (db *DB) Ping(ctx context.Context) error {
	return db.sqlDB.PingContext(ctx)
}

// Healthy reports the outcome of the most recent background health check,
// or true when no checker is running.
func (db *DB) Healthy() bool {
	if db.health == nil {
		return true
	}
	return db.health.isHealthy()
}

// DriverName returns the driver this handle was opened with.
func (db *DB) DriverName() string {
	return db.driverName
}

// Grammar returns the compiler configured for this handle's dialect.
func (db *DB) Grammar() *query.Grammar {
	return db.grammar
}

// Builder returns a fresh query builder compiling for this handle's
// dialect.
func (db *DB) Builder() *query.Builder {
	return query.NewBuilder(db.grammar)
}

// Table returns a builder with its source table set.
func (db *DB) Table(table string) *query.Builder {
	return db.Builder().From(table)
}

// ExecContext runs a raw SQL statement directly against the pool.
func (db *DB) ExecContext(ctx context.Context, sqlText string, args ...any) (sql.Result, error) {
	return db.sqlDB.ExecContext(ctx, sqlText, args...)
}

// QueryContext runs a raw SQL query directly against the pool.
func (db *DB) QueryContext(ctx context.Context, sqlText string, args ...any) (*sql.Rows, error) {
	return db.sqlDB.QueryContext(ctx, sqlText, args...)
}

// CacheStats returns prepared statement cache counters.
func (db *DB) CacheStats() cache.Stats {
	return db.stmtCache.Stats()
}

// Tx is an open transaction. Statements prepared inside it bypass the
// statement cache; a cached statement belongs to the pool, not to this
// transaction's connection.
type Tx struct {
	db *DB
	tx *sql.Tx
}

// TxOptions selects the isolation level and read-only mode.
type TxOptions struct {
	Isolation sql.IsolationLevel
	ReadOnly  bool
}

// Begin starts a transaction with default options.
func (db *DB) Begin(ctx context.Context) (*Tx, error) {
	return db.BeginTx(ctx, nil)
}

// BeginTx starts a transaction with the given options.
func (db *DB) BeginTx(ctx context.Context, opts *TxOptions) (*Tx, error) {
	var sqlOpts *sql.TxOptions
	if opts != nil {
		sqlOpts = &sql.TxOptions{Isolation: opts.Isolation, ReadOnly: opts.ReadOnly}
	}
	tx, err := db.sqlDB.BeginTx(ctx, sqlOpts)
	if err != nil {
		return nil, err
	}
	return &Tx{db: db, tx: tx}, nil
}

// Transactional runs fn inside a transaction, committing on nil and
// rolling back on error or panic.
func (db *DB) Transactional(ctx context.Context, fn func(tx *Tx) error) (err error) {
	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()
	if err = fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// Commit commits the transaction.
func (tx *Tx) Commit() error {
	return tx.tx.Commit()
}

// Rollback rolls back the transaction.
func (tx *Tx) Rollback() error {
	return tx.tx.Rollback()
}

// Builder returns a fresh query builder compiling for the parent handle's
// dialect.
func (tx *Tx) Builder() *query.Builder {
	return tx.db.Builder()
}

// Table returns a builder with its source table set.
func (tx *Tx) Table(table string) *query.Builder {
	return tx.Builder().From(table)
}
