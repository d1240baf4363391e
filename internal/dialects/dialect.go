// Package dialects provides database-specific SQL dialect implementations for
// PostgreSQL, MySQL, and SQLite, handling identifier quoting, placeholders,
// UPSERT syntax, JSON path rendering, date-part extraction, and row locking.
package dialects

import "strings"

// FulltextOptions tunes full-text where clauses for dialects that support them.
type FulltextOptions struct {
	// Mode selects the search mode ("natural" or "boolean"). MySQL only.
	Mode string
	// Expanded enables query expansion. MySQL only.
	Expanded bool
	// Language names the text-search configuration. PostgreSQL only;
	// defaults to "english" when empty.
	Language string
}

// Dialect defines database-specific SQL generation behaviors.
// Implementations are stateless; a single instance is shared by every
// grammar built for the same driver.
type Dialect interface {
	// Name returns the canonical driver name ("mysql", "postgres", "sqlite").
	Name() string

	// QuoteIdentifier quotes a single identifier segment.
	QuoteIdentifier(string) string

	// Placeholder returns the positional placeholder for the given 1-based
	// index. Compiled SQL always uses "?"; this is consulted by the
	// connection layer when rebinding for drivers that need $1, $2, etc.
	Placeholder(int) string

	// UpsertSQL returns the conflict-resolution suffix appended to an INSERT.
	// A nil updateColumns means "do nothing on conflict".
	UpsertSQL(conflictColumns, updateColumns []string) string

	// InsertIgnoreSQL rewrites a compiled INSERT into its ignore-conflicts form.
	InsertIgnoreSQL(insertSQL string) string

	// TruncateSQL returns the statement that empties the given (already
	// quoted) table.
	TruncateSQL(table string) string

	// WrapUnion wraps one member of a compound select.
	WrapUnion(sql string) string

	// JSONExtract renders a JSON path lookup on the given (already quoted)
	// column. The final path segment is extracted as text.
	JSONExtract(column string, path []string) string

	// JSONContainsSQL renders a JSON containment predicate with a single
	// value placeholder.
	JSONContainsSQL(column string, path []string, placeholder string, not bool) string

	// JSONLengthSQL renders the JSON array length expression for the given
	// (already quoted) column; the comparison operator and placeholder are
	// appended by the compiler.
	JSONLengthSQL(column string, path []string) string

	// DateBasedSQL renders a date-part comparison ("date", "time", "day",
	// "month", "year") against a single value placeholder.
	DateBasedSQL(part, column, operator, placeholder string) string

	// LockSQL returns the row-locking suffix. forUpdate selects the
	// exclusive form; otherwise the shared form is returned.
	LockSQL(forUpdate bool) string

	// RandomSQL returns the random-ordering function call.
	RandomSQL() string

	// FulltextSQL renders a full-text match predicate over the given
	// (already quoted) columns with a single value placeholder.
	// Dialects without full-text support panic; requesting one is a
	// programming error, not a data error.
	FulltextSQL(columns []string, placeholder string, options FulltextOptions) string
}

var dialects = make(map[string]Dialect)

// RegisterDialect registers a database dialect by driver name.
func RegisterDialect(name string, d Dialect) {
	dialects[name] = d
}

// GetDialect retrieves a registered dialect by driver name, panics if not found.
func GetDialect(name string) Dialect {
	if d, ok := dialects[name]; ok {
		return d
	}
	panic("unsupported dialect: " + name)
}

// jsonPath renders path segments as a JSON path literal: ["a","b"] -> '$."a"."b"'.
func jsonPath(path []string) string {
	var sb strings.Builder
	sb.WriteString(`'$`)
	for _, seg := range path {
		sb.WriteString(`."`)
		sb.WriteString(seg)
		sb.WriteString(`"`)
	}
	sb.WriteString(`'`)
	return sb.String()
}
