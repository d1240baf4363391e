// Package sequel provides a fluent SQL query builder for Go with support
// for PostgreSQL, MySQL, and SQLite. Builders accumulate clauses and
// bindings; a dialect-aware grammar compiles them to SQL text, and the
// connection layer executes them with prepared statement caching, eager
// relationship loading, and OpenTelemetry tracing out of the box.
package sequel

import (
	"github.com/coregx/sequel/internal/core"
	"github.com/coregx/sequel/internal/dialects"
	"github.com/coregx/sequel/internal/query"
	"github.com/coregx/sequel/internal/relation"
)

type (
	// DB is the main database handle with caching and tracing capabilities.
	DB = core.DB
	// Option is a functional option for configuring DB.
	Option = core.Option
	// Query is a raw SQL statement with named parameters.
	Query = core.Query
	// Params holds named parameter values for raw queries.
	Params = core.Params
	// Session executes compiled builders against the pool or a transaction.
	Session = core.Session
	// Tx is an open database transaction.
	Tx = core.Tx
	// TxOptions selects isolation level and read-only mode.
	TxOptions = core.TxOptions
	// QueryEvent describes one executed statement.
	QueryEvent = core.QueryEvent
	// QueryHook is invoked after every statement execution.
	QueryHook = core.QueryHook

	// Builder accumulates a query description and its bindings.
	Builder = query.Builder
	// JoinClause is a builder restricted to join conditions.
	JoinClause = query.JoinClause
	// Expr is a raw SQL fragment, inlined verbatim by the compiler.
	Expr = query.Expr
	// Grammar compiles builder state into SQL text.
	Grammar = query.Grammar
	// Macro is a named, reusable builder transformation.
	Macro = query.Macro
	// MacroRegistry maps names to macros.
	MacroRegistry = query.MacroRegistry
	// FulltextOptions tunes full-text where clauses.
	FulltextOptions = dialects.FulltextOptions

	// Row is a generic result row keyed by column name.
	Row = relation.Row
	// BelongsTo declares a child-to-parent relationship.
	BelongsTo = relation.BelongsTo
	// HasOne declares a one-to-one relationship keyed on the related table.
	HasOne = relation.HasOne
	// HasMany declares a one-to-many relationship.
	HasMany = relation.HasMany
	// BelongsToMany declares a many-to-many relationship through a pivot.
	BelongsToMany = relation.BelongsToMany
)

// Re-export core functions.
var (
	Open   = core.Open
	NewDB  = core.NewDB
	WrapDB = core.WrapDB

	WithMaxOpenConns      = core.WithMaxOpenConns
	WithMaxIdleConns      = core.WithMaxIdleConns
	WithConnMaxLifetime   = core.WithConnMaxLifetime
	WithStmtCacheCapacity = core.WithStmtCacheCapacity
	WithLogger            = core.WithLogger
	WithSensitiveFields   = core.WithSensitiveFields
	WithTracer            = core.WithTracer
	WithQueryHook         = core.WithQueryHook
	WithTablePrefix       = core.WithTablePrefix
	WithHealthCheck       = core.WithHealthCheck

	// Raw wraps a literal SQL fragment as an expression.
	Raw = query.Raw
	// NewMacroRegistry creates an empty macro registry.
	NewMacroRegistry = query.NewMacroRegistry

	// ErrNoRows is returned when a query that expects rows returns none.
	ErrNoRows = core.ErrNoRows
	// ErrMissingTable is returned by write operations on a builder with no table.
	ErrMissingTable = core.ErrMissingTable
)

// NewBuilder returns a standalone builder compiling for a registered
// dialect name ("mysql", "postgres", "sqlite"). Useful for generating SQL
// without a connection; panics on an unknown name.
func NewBuilder(dialect string) *query.Builder {
	return query.NewBuilder(query.NewGrammarFor(dialect))
}
