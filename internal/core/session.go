package core

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/coregx/sequel/internal/query"
	"github.com/coregx/sequel/internal/relation"
)

// Session executes compiled builders against either the pool or an open
// transaction. DB and Tx expose the same operation set by delegating here.
type Session struct {
	db *DB
	tx *sql.Tx
}

// Session returns an executor bound to the pool.
func (db *DB) Session() *Session {
	return &Session{db: db}
}

// Session returns an executor bound to this transaction.
func (tx *Tx) Session() *Session {
	return &Session{db: tx.db, tx: tx.tx}
}

// rebind rewrites "?" placeholders to the dialect's positional form.
// Compiled SQL always carries "?"; drivers like lib/pq want $1, $2.
// Question marks inside single-quoted literals are left alone.
func (db *DB) rebind(sqlText string) string {
	if db.dialect.Placeholder(1) == "?" {
		return sqlText
	}
	var sb strings.Builder
	sb.Grow(len(sqlText) + 8)
	n := 0
	inString := false
	for i := 0; i < len(sqlText); i++ {
		c := sqlText[i]
		switch {
		case c == '\'':
			inString = !inString
			sb.WriteByte(c)
		case c == '?' && !inString:
			n++
			sb.WriteString(db.dialect.Placeholder(n))
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String()
}

// Select compiles and runs the builder, returning all rows. Session
// satisfies relation.Executor through this method.
func (s *Session) Select(ctx context.Context, b *query.Builder) ([]relation.Row, error) {
	return s.db.queryRows(ctx, s.tx, s.db.rebind(b.ToSQL()), b.Bindings())
}

// First runs the builder limited to one row, returning ErrNoRows when the
// result set is empty.
func (s *Session) First(ctx context.Context, b *query.Builder) (relation.Row, error) {
	rows, err := s.Select(ctx, b.Clone().Limit(1))
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNoRows
	}
	return rows[0], nil
}

// Value runs the builder limited to one row and returns a single column
// from it.
func (s *Session) Value(ctx context.Context, b *query.Builder, column string) (any, error) {
	row, err := s.First(ctx, b.Clone().Select(column))
	if err != nil {
		return nil, err
	}
	return row.Get(column), nil
}

// Exists wraps the builder in an existence probe. Both an empty result set
// and a falsy flag value count as absent; drivers disagree on whether the
// flag arrives as bool, integer, or text.
func (s *Session) Exists(ctx context.Context, b *query.Builder) (bool, error) {
	sqlText := s.db.rebind(s.db.grammar.CompileExists(b))
	rows, err := s.db.queryRows(ctx, s.tx, sqlText, b.Bindings())
	if err != nil {
		return false, err
	}
	if len(rows) == 0 {
		return false, nil
	}
	return truthy(rows[0].Get("exists")), nil
}

func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case int64:
		return x != 0
	case int:
		return x != 0
	case float64:
		return x != 0
	case []byte:
		return truthyString(string(x))
	case string:
		return truthyString(x)
	default:
		return true
	}
}

func truthyString(s string) bool {
	switch strings.ToLower(s) {
	case "", "0", "false", "f":
		return false
	default:
		return true
	}
}

// Aggregate runs the builder with its columns replaced by an aggregate
// function call and returns the computed value.
func (s *Session) Aggregate(ctx context.Context, b *query.Builder, function string, columns ...string) (any, error) {
	rows, err := s.Select(ctx, b.Clone().SetAggregate(function, columns...))
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0].Get("aggregate"), nil
}

// Count returns the number of rows the builder would select.
func (s *Session) Count(ctx context.Context, b *query.Builder) (int64, error) {
	rows, err := s.Select(ctx, b.Clone().SetAggregate("count"))
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Int64("aggregate"), nil
}

// Insert compiles and runs a (possibly multi-row) insert against the
// builder's table.
func (s *Session) Insert(ctx context.Context, b *query.Builder, values ...map[string]any) (sql.Result, error) {
	if !b.HasTable() {
		return nil, ErrMissingTable
	}
	sqlText, args := s.db.grammar.CompileInsert(b, values)
	return s.db.exec(ctx, s.tx, s.db.rebind(sqlText), args)
}

// InsertOrIgnore inserts rows, silently skipping conflicts.
func (s *Session) InsertOrIgnore(ctx context.Context, b *query.Builder, values ...map[string]any) (sql.Result, error) {
	if !b.HasTable() {
		return nil, ErrMissingTable
	}
	sqlText, args := s.db.grammar.CompileInsertOrIgnore(b, values)
	return s.db.exec(ctx, s.tx, s.db.rebind(sqlText), args)
}

// InsertGetID inserts one row and returns its generated key, normalized to
// int64 when it renders as a decimal integer. keyColumn defaults to "id".
// PostgreSQL has no LastInsertId, so the insert gains a RETURNING clause
// there.
func (s *Session) InsertGetID(ctx context.Context, b *query.Builder, values map[string]any, keyColumn string) (any, error) {
	if !b.HasTable() {
		return nil, ErrMissingTable
	}
	if keyColumn == "" {
		keyColumn = "id"
	}
	sqlText, args := s.db.grammar.CompileInsert(b, []map[string]any{values})

	if s.db.dialect.Placeholder(1) != "?" {
		sqlText += " returning " + s.db.dialect.QuoteIdentifier(keyColumn)
		var id any
		if err := s.db.queryRow(ctx, s.tx, s.db.rebind(sqlText), args, &id); err != nil {
			return nil, err
		}
		return s.db.processor.ProcessInsertGetID(id), nil
	}

	result, err := s.db.exec(ctx, s.tx, sqlText, args)
	if err != nil {
		return nil, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, WrapError(err, "last insert id")
	}
	return s.db.processor.ProcessInsertGetID(id), nil
}

// Upsert inserts rows, resolving conflicts on uniqueBy by updating the
// listed columns. A nil update list leaves conflicting rows untouched.
func (s *Session) Upsert(ctx context.Context, b *query.Builder, values []map[string]any, uniqueBy, update []string) (sql.Result, error) {
	if !b.HasTable() {
		return nil, ErrMissingTable
	}
	sqlText, args := s.db.grammar.CompileUpsert(b, values, uniqueBy, update)
	return s.db.exec(ctx, s.tx, s.db.rebind(sqlText), args)
}

// Update compiles and runs an update constrained by the builder's wheres.
func (s *Session) Update(ctx context.Context, b *query.Builder, values map[string]any) (sql.Result, error) {
	if !b.HasTable() {
		return nil, ErrMissingTable
	}
	sqlText, args := s.db.grammar.CompileUpdate(b, values)
	return s.db.exec(ctx, s.tx, s.db.rebind(sqlText), args)
}

// Delete compiles and runs a delete constrained by the builder's wheres.
func (s *Session) Delete(ctx context.Context, b *query.Builder) (sql.Result, error) {
	if !b.HasTable() {
		return nil, ErrMissingTable
	}
	sqlText, args := s.db.grammar.CompileDelete(b)
	return s.db.exec(ctx, s.tx, s.db.rebind(sqlText), args)
}

// Truncate empties the builder's table using the dialect's statement.
func (s *Session) Truncate(ctx context.Context, b *query.Builder) error {
	if !b.HasTable() {
		return ErrMissingTable
	}
	_, err := s.db.exec(ctx, s.tx, s.db.grammar.CompileTruncate(b), nil)
	return err
}

// Load eager-loads the given relationships onto the parent rows, one query
// per descriptor. Descriptors are relation.BelongsTo, relation.HasOne,
// relation.HasMany, or relation.BelongsToMany values.
func (s *Session) Load(ctx context.Context, parents []relation.Row, descriptors ...any) error {
	loader := relation.NewLoader(s, s.db.grammar)
	for _, d := range descriptors {
		var err error
		switch rel := d.(type) {
		case relation.BelongsTo:
			err = loader.LoadBelongsTo(ctx, parents, rel)
		case relation.HasOne:
			err = loader.LoadHasOne(ctx, parents, rel)
		case relation.HasMany:
			err = loader.LoadHasMany(ctx, parents, rel)
		case relation.BelongsToMany:
			err = loader.LoadBelongsToMany(ctx, parents, rel)
		default:
			return fmt.Errorf("core: unsupported relationship descriptor %T", d)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
