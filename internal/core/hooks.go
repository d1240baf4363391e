package core

import (
	"context"
	"time"
)

// QueryEvent describes one executed statement, passed to QueryHook
// callbacks for logging, metrics, or tracing.
type QueryEvent struct {
	SQL          string
	Args         []any
	Duration     time.Duration
	RowsAffected int64
	Error        error // nil on success
	Operation    string
}

// QueryHook is invoked after every statement execution.
//
// Example:
//
//	db, _ := sequel.Open("postgres", dsn,
//	    sequel.WithQueryHook(func(ctx context.Context, e sequel.QueryEvent) {
//	        slog.Info("query", "sql", e.SQL, "duration", e.Duration, "err", e.Error)
//	    }))
type QueryHook func(ctx context.Context, event QueryEvent)

func (db *DB) invokeHook(ctx context.Context, event QueryEvent) {
	if db.queryHook != nil {
		db.queryHook(ctx, event)
	}
}
