// Package query provides the fluent query builder and the dialect-aware
// compiler (grammar) that turns accumulated builder state into SQL text with
// positionally aligned bindings.
package query

// Expr is a raw SQL fragment. The compiler inlines it verbatim: it is never
// quoted, escaped, or parameterized, and values of this type are never
// registered as bindings. Callers are responsible for trusting its content.
type Expr struct {
	sql string
}

// Raw wraps a literal SQL fragment as an expression.
//
// Example:
//
//	b.Select(query.Raw("count(*) as total")).From("orders")
func Raw(sql string) Expr {
	return Expr{sql: sql}
}

// String returns the wrapped fragment unchanged.
func (e Expr) String() string {
	return e.sql
}
