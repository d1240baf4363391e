package core

import (
	"context"
	"database/sql"
	"time"

	"github.com/coregx/sequel/internal/relation"
	"github.com/coregx/sequel/internal/tracer"
)

// prepareStatement prepares SQL through the statement cache, or directly on
// the transaction connection when one is active. The second return value
// reports whether the caller must close the statement; cached statements
// belong to the cache.
func (db *DB) prepareStatement(ctx context.Context, tx *sql.Tx, sqlText string) (*sql.Stmt, bool, error) {
	if tx != nil {
		stmt, err := tx.PrepareContext(ctx, sqlText)
		if err != nil {
			return nil, false, err
		}
		return stmt, true, nil
	}

	if stmt, ok := db.stmtCache.Get(sqlText); ok {
		return stmt, false, nil
	}
	stmt, err := db.sqlDB.PrepareContext(ctx, sqlText)
	if err != nil {
		return nil, false, err
	}
	db.stmtCache.Put(sqlText, stmt)
	return stmt, false, nil
}

// observe emits the post-execution telemetry for one statement: structured
// log line with masked arguments, span attributes, and the query hook.
func (db *DB) observe(ctx context.Context, span tracer.Span, sqlText string, args []any, elapsed time.Duration, rowsAffected int64, err error) {
	masked := db.sanitizer.FormatArgs(db.sanitizer.MaskArgs(sqlText, args))
	if err != nil {
		db.logger.Error("query execution failed",
			"sql", sqlText,
			"args", masked,
			"duration_ms", elapsed.Milliseconds(),
			"database", db.driverName,
			"error", err,
		)
	} else {
		db.logger.Info("query executed",
			"sql", sqlText,
			"args", masked,
			"duration_ms", elapsed.Milliseconds(),
			"rows_affected", rowsAffected,
			"database", db.driverName,
		)
	}

	operation := tracer.DetectOperation(sqlText)
	tracer.AddQueryAttributes(span, &tracer.QueryMetadata{
		SQL:          sqlText,
		Args:         args,
		Duration:     elapsed,
		RowsAffected: rowsAffected,
		Error:        err,
		Database:     db.driverName,
		Operation:    operation,
	})

	db.invokeHook(ctx, QueryEvent{
		SQL:          sqlText,
		Args:         args,
		Duration:     elapsed,
		RowsAffected: rowsAffected,
		Error:        err,
		Operation:    operation,
	})
}

// exec runs a statement that returns no rows.
func (db *DB) exec(ctx context.Context, tx *sql.Tx, sqlText string, args []any) (sql.Result, error) {
	ctx, span := db.tracer.StartSpan(ctx, "sequel.query.exec")
	defer span.End()

	start := time.Now()
	stmt, needsClose, err := db.prepareStatement(ctx, tx, sqlText)
	if err != nil {
		db.observe(ctx, span, sqlText, args, time.Since(start), 0, err)
		return nil, WrapError(err, "prepare statement")
	}
	if needsClose {
		defer func() { _ = stmt.Close() }()
	}

	result, err := stmt.ExecContext(ctx, args...)
	elapsed := time.Since(start)

	var rowsAffected int64
	if result != nil {
		rowsAffected, _ = result.RowsAffected()
	}
	db.observe(ctx, span, sqlText, args, elapsed, rowsAffected, err)
	return result, err
}

// queryRows runs a statement and scans every result row into a generic row
// map, with []byte column values converted to string.
func (db *DB) queryRows(ctx context.Context, tx *sql.Tx, sqlText string, args []any) ([]relation.Row, error) {
	ctx, span := db.tracer.StartSpan(ctx, "sequel.query.rows")
	defer span.End()

	start := time.Now()
	stmt, needsClose, err := db.prepareStatement(ctx, tx, sqlText)
	if err != nil {
		db.observe(ctx, span, sqlText, args, time.Since(start), 0, err)
		return nil, WrapError(err, "prepare statement")
	}
	if needsClose {
		defer func() { _ = stmt.Close() }()
	}

	rows, err := stmt.QueryContext(ctx, args...)
	if err != nil {
		db.observe(ctx, span, sqlText, args, time.Since(start), 0, err)
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	out, err := scanRows(rows)
	db.observe(ctx, span, sqlText, args, time.Since(start), int64(len(out)), err)
	if err != nil {
		return nil, err
	}
	return db.processor.ProcessSelect(out), nil
}

// queryRow runs a statement expected to return a single scalar column.
func (db *DB) queryRow(ctx context.Context, tx *sql.Tx, sqlText string, args []any, dest ...any) error {
	ctx, span := db.tracer.StartSpan(ctx, "sequel.query.row")
	defer span.End()

	start := time.Now()
	var row *sql.Row
	if tx != nil {
		row = tx.QueryRowContext(ctx, sqlText, args...)
	} else {
		row = db.sqlDB.QueryRowContext(ctx, sqlText, args...)
	}
	err := row.Scan(dest...)
	db.observe(ctx, span, sqlText, args, time.Since(start), 0, err)
	return err
}

func scanRows(rows *sql.Rows) ([]relation.Row, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var out []relation.Row
	values := make([]any, len(columns))
	ptrs := make([]any, len(columns))
	for i := range values {
		ptrs[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make(relation.Row, len(columns))
		for i, col := range columns {
			v := values[i]
			if b, ok := v.([]byte); ok {
				v = string(b)
			}
			row[col] = v
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// Query is a raw SQL statement with named parameters. Placeholders use
// {:name} syntax; {{table}} and [[column]] are quoted for the dialect.
type Query struct {
	db         *DB
	tx         *sql.Tx
	sql        string
	paramNames []string
	args       []any
}

// NewQuery parses a raw SQL string, rewriting named placeholders to the
// dialect's positional form and quoting bracketed identifiers.
func (db *DB) NewQuery(sqlText string) *Query {
	processed, names := db.processSQL(sqlText)
	return &Query{db: db, sql: processed, paramNames: names}
}

// NewQuery parses a raw SQL string bound to this transaction.
func (tx *Tx) NewQuery(sqlText string) *Query {
	q := tx.db.NewQuery(sqlText)
	q.tx = tx.tx
	return q
}

// Bind resolves named parameters to positional arguments. Every name the
// SQL references must be present.
func (q *Query) Bind(params Params) (*Query, error) {
	args, err := bindParams(params, q.paramNames)
	if err != nil {
		return nil, err
	}
	q.args = args
	return q, nil
}

// Execute runs the query and returns the driver result.
func (q *Query) Execute(ctx context.Context) (sql.Result, error) {
	return q.db.exec(ctx, q.tx, q.sql, q.args)
}

// Rows runs the query and returns all result rows.
func (q *Query) Rows(ctx context.Context) ([]relation.Row, error) {
	return q.db.queryRows(ctx, q.tx, q.sql, q.args)
}

// Row runs the query and returns the first result row, or ErrNoRows.
func (q *Query) Row(ctx context.Context) (relation.Row, error) {
	rows, err := q.Rows(ctx)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNoRows
	}
	return rows[0], nil
}
