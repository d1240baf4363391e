// Copyright (c) 2025 COREGX. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package query

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/coregx/sequel/internal/dialects"
)

// Grammar compiles builder state into SQL text. It is a pure function of its
// input: it never touches bindings, which are fully accumulated at clause
// construction time. All value positions render as "?"; driver-specific
// placeholder rewriting happens in the connection layer.
type Grammar struct {
	dialect     dialects.Dialect
	tablePrefix string
}

// NewGrammar creates a grammar compiling for the given dialect.
func NewGrammar(d dialects.Dialect) *Grammar {
	return &Grammar{dialect: d}
}

// NewGrammarFor creates a grammar for a registered dialect name.
// Panics on an unknown name, like dialects.GetDialect.
func NewGrammarFor(name string) *Grammar {
	return NewGrammar(dialects.GetDialect(name))
}

// Dialect returns the dialect this grammar compiles for.
func (g *Grammar) Dialect() dialects.Dialect {
	return g.dialect
}

// SetTablePrefix sets the prefix prepended to table-position identifiers.
// Column qualifiers are never prefixed.
func (g *Grammar) SetTablePrefix(prefix string) {
	g.tablePrefix = prefix
}

// TablePrefix returns the configured table prefix.
func (g *Grammar) TablePrefix() string {
	return g.tablePrefix
}

// CompileSelect renders a full select statement in fixed clause order:
// columns, from, joins, wheres, groups, havings, orders, limit, offset,
// then union members with compound-level ordering, then the lock suffix.
func (g *Grammar) CompileSelect(b *Builder) string {
	var sb strings.Builder
	g.compileBase(&sb, b)

	if len(b.unions) > 0 {
		base := sb.String()
		sb.Reset()
		sb.WriteString(g.dialect.WrapUnion(base))
		for _, u := range b.unions {
			if u.all {
				sb.WriteString(" union all ")
			} else {
				sb.WriteString(" union ")
			}
			sb.WriteString(g.dialect.WrapUnion(g.CompileSelect(u.query)))
		}
		g.compileOrders(&sb, b.unionOrders)
		g.compileLimitOffset(&sb, b.unionLimit, b.unionOffset)
	}

	if b.lock != lockNone {
		sb.WriteString(g.dialect.LockSQL(b.lock == lockForUpdate))
	}
	return sb.String()
}

// CompileExists wraps a select so the driver returns a single row with a
// single boolean-ish column named "exists".
func (g *Grammar) CompileExists(b *Builder) string {
	return "select exists(" + g.CompileSelect(b) + ") as " + g.wrapSegment("exists")
}

func (g *Grammar) compileBase(sb *strings.Builder, b *Builder) {
	g.compileColumns(sb, b)
	if b.table != nil {
		sb.WriteString(" from ")
		sb.WriteString(g.wrapTable(b.table))
	}
	g.compileJoins(sb, b)
	g.compileWheres(sb, b)
	g.compileGroups(sb, b)
	g.compileHavings(sb, b)
	g.compileOrders(sb, b.orders)
	g.compileLimitOffset(sb, b.limit, b.offset)
}

func (g *Grammar) compileColumns(sb *strings.Builder, b *Builder) {
	if b.aggregate != nil {
		sb.WriteString("select ")
		column := g.columnizeStrings(b.aggregate.columns)
		if b.distinct && column != "*" {
			column = "distinct " + column
		}
		sb.WriteString(b.aggregate.function)
		sb.WriteString("(")
		sb.WriteString(column)
		sb.WriteString(") as aggregate")
		return
	}

	if b.distinct {
		sb.WriteString("select distinct ")
	} else {
		sb.WriteString("select ")
	}
	if len(b.columns) == 0 {
		sb.WriteString("*")
		return
	}
	sb.WriteString(g.columnize(b.columns))
}

func (g *Grammar) compileJoins(sb *strings.Builder, b *Builder) {
	for _, j := range b.joins {
		if j.joinType == "cross" {
			sb.WriteString(" cross join ")
			sb.WriteString(g.wrapTable(j.table))
			continue
		}
		sb.WriteString(" ")
		sb.WriteString(j.joinType)
		sb.WriteString(" join ")
		sb.WriteString(g.wrapTable(j.table))
		if len(j.wheres) > 0 {
			sb.WriteString(" on ")
			sb.WriteString(g.whereList(j.Builder))
		}
	}
}

func (g *Grammar) compileWheres(sb *strings.Builder, b *Builder) {
	if len(b.wheres) == 0 {
		return
	}
	sb.WriteString(" where ")
	sb.WriteString(g.whereList(b))
}

// whereList joins the compiled clauses with their conjunctions, stripping
// the leading one.
func (g *Grammar) whereList(b *Builder) string {
	parts := make([]string, len(b.wheres))
	for i, w := range b.wheres {
		if i == 0 {
			parts[i] = g.compileWhere(w)
		} else {
			parts[i] = w.boolean + " " + g.compileWhere(w)
		}
	}
	return strings.Join(parts, " ")
}

func (g *Grammar) compileWhere(w where) string {
	switch w.typ {
	case whereBasic:
		return g.wrap(w.column) + " " + w.operator + " " + g.parameter(w.value)
	case whereIn:
		if len(w.values) == 0 {
			return "0 = 1"
		}
		return g.wrap(w.column) + " in (" + g.parameterize(w.values) + ")"
	case whereNotIn:
		if len(w.values) == 0 {
			return "1 = 1"
		}
		return g.wrap(w.column) + " not in (" + g.parameterize(w.values) + ")"
	case whereInSub:
		return g.wrap(w.column) + " in (" + g.CompileSelect(w.query) + ")"
	case whereNotInSub:
		return g.wrap(w.column) + " not in (" + g.CompileSelect(w.query) + ")"
	case whereInRaw:
		if len(w.values) == 0 {
			return "0 = 1"
		}
		return g.wrap(w.column) + " in (" + inlineValues(w.values) + ")"
	case whereNotInRaw:
		if len(w.values) == 0 {
			return "1 = 1"
		}
		return g.wrap(w.column) + " not in (" + inlineValues(w.values) + ")"
	case whereNull:
		return g.wrap(w.column) + " is null"
	case whereNotNull:
		return g.wrap(w.column) + " is not null"
	case whereBetween:
		return g.wrap(w.column) + " between " + g.parameter(w.values[0]) + " and " + g.parameter(w.values[1])
	case whereNotBetween:
		return g.wrap(w.column) + " not between " + g.parameter(w.values[0]) + " and " + g.parameter(w.values[1])
	case whereRaw:
		return w.sql
	case whereExists:
		return "exists (" + g.CompileSelect(w.query) + ")"
	case whereNotExists:
		return "not exists (" + g.CompileSelect(w.query) + ")"
	case whereNested:
		return "(" + g.whereList(w.query) + ")"
	case whereColumn:
		return g.wrap(w.first) + " " + w.operator + " " + g.wrap(w.second)
	case whereSub:
		return g.wrap(w.column) + " " + w.operator + " (" + g.CompileSelect(w.query) + ")"
	case whereJSONContains:
		base, path := splitJSONSelector(w.column.(string))
		return g.dialect.JSONContainsSQL(g.wrap(base), path, "?", w.not)
	case whereJSONLength:
		base, path := splitJSONSelector(w.column.(string))
		return g.dialect.JSONLengthSQL(g.wrap(base), path) + " " + w.operator + " " + g.parameter(w.value)
	case whereDate:
		return g.dialect.DateBasedSQL("date", g.wrap(w.column), w.operator, g.parameter(w.value))
	case whereTime:
		return g.dialect.DateBasedSQL("time", g.wrap(w.column), w.operator, g.parameter(w.value))
	case whereDay:
		return g.dialect.DateBasedSQL("day", g.wrap(w.column), w.operator, g.parameter(w.value))
	case whereMonth:
		return g.dialect.DateBasedSQL("month", g.wrap(w.column), w.operator, g.parameter(w.value))
	case whereYear:
		return g.dialect.DateBasedSQL("year", g.wrap(w.column), w.operator, g.parameter(w.value))
	case whereFulltext:
		wrapped := make([]string, len(w.columns))
		for i, c := range w.columns {
			wrapped[i] = g.wrap(c)
		}
		return g.dialect.FulltextSQL(wrapped, "?", w.options)
	default:
		panic(fmt.Sprintf("query: unknown where clause type %d", w.typ))
	}
}

func (g *Grammar) compileGroups(sb *strings.Builder, b *Builder) {
	if len(b.groups) == 0 {
		return
	}
	sb.WriteString(" group by ")
	sb.WriteString(g.columnize(b.groups))
}

func (g *Grammar) compileHavings(sb *strings.Builder, b *Builder) {
	if len(b.havings) == 0 {
		return
	}
	sb.WriteString(" having ")
	parts := make([]string, len(b.havings))
	for i, h := range b.havings {
		compiled := g.compileHaving(h)
		if i == 0 {
			parts[i] = compiled
		} else {
			parts[i] = h.boolean + " " + compiled
		}
	}
	sb.WriteString(strings.Join(parts, " "))
}

func (g *Grammar) compileHaving(h having) string {
	switch h.typ {
	case havingBasic:
		return g.wrap(h.column) + " " + h.operator + " " + g.parameter(h.value)
	case havingRaw:
		return h.sql
	case havingBetween:
		kw := "between"
		if h.not {
			kw = "not between"
		}
		return g.wrap(h.column) + " " + kw + " " + g.parameter(h.low) + " and " + g.parameter(h.high)
	default:
		panic(fmt.Sprintf("query: unknown having clause type %d", h.typ))
	}
}

func (g *Grammar) compileOrders(sb *strings.Builder, orders []order) {
	if len(orders) == 0 {
		return
	}
	sb.WriteString(" order by ")
	parts := make([]string, len(orders))
	for i, o := range orders {
		switch {
		case o.random:
			parts[i] = g.dialect.RandomSQL()
		case o.sql != "":
			parts[i] = o.sql
		default:
			parts[i] = g.wrap(o.column) + " " + o.direction
		}
	}
	sb.WriteString(strings.Join(parts, ", "))
}

func (g *Grammar) compileLimitOffset(sb *strings.Builder, limit, offset int) {
	if limit >= 0 {
		sb.WriteString(" limit ")
		sb.WriteString(strconv.Itoa(limit))
	}
	if offset >= 0 {
		sb.WriteString(" offset ")
		sb.WriteString(strconv.Itoa(offset))
	}
}

// parameter renders a single value position: raw expressions inline, all
// bound values as "?".
func (g *Grammar) parameter(v any) string {
	if e, ok := v.(Expr); ok {
		return e.String()
	}
	return "?"
}

func (g *Grammar) parameterize(values []any) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = g.parameter(v)
	}
	return strings.Join(parts, ", ")
}

func (g *Grammar) columnize(columns []any) string {
	parts := make([]string, len(columns))
	for i, c := range columns {
		parts[i] = g.wrap(c)
	}
	return strings.Join(parts, ", ")
}

func (g *Grammar) columnizeStrings(columns []string) string {
	parts := make([]string, len(columns))
	for i, c := range columns {
		parts[i] = g.wrap(c)
	}
	return strings.Join(parts, ", ")
}

// wrap quotes a column-position identifier. Raw expressions pass through;
// "col as alias" splits into two wrapped halves; "col->a->b" compiles to the
// dialect's JSON selector; dotted names quote each segment with "*" passing
// through unquoted. Column qualifiers never receive the table prefix.
func (g *Grammar) wrap(value any) string {
	switch v := value.(type) {
	case Expr:
		return v.String()
	case string:
		if idx := strings.Index(strings.ToLower(v), " as "); idx >= 0 {
			return g.wrap(v[:idx]) + " as " + g.wrapSegment(v[idx+4:])
		}
		if strings.Contains(v, "->") {
			base, path := splitJSONSelector(v)
			return g.dialect.JSONExtract(g.wrap(base), path)
		}
		return g.wrapSegments(strings.Split(v, "."))
	default:
		panic(fmt.Sprintf("query: cannot wrap %T as an identifier", value))
	}
}

// wrapTable quotes a table-position identifier, applying the configured
// table prefix to the table name (the last dotted segment) and to aliases.
// Names that already carry the prefix are left alone.
func (g *Grammar) wrapTable(value any) string {
	switch v := value.(type) {
	case Expr:
		return v.String()
	case string:
		if idx := strings.Index(strings.ToLower(v), " as "); idx >= 0 {
			return g.wrapTable(v[:idx]) + " as " + g.wrapSegment(g.prefixed(v[idx+4:]))
		}
		segments := strings.Split(v, ".")
		segments[len(segments)-1] = g.prefixed(segments[len(segments)-1])
		return g.wrapSegments(segments)
	default:
		panic(fmt.Sprintf("query: cannot wrap %T as a table", value))
	}
}

// prefixed prepends the table prefix unless the name already bears it.
func (g *Grammar) prefixed(name string) string {
	if g.tablePrefix == "" || strings.HasPrefix(name, g.tablePrefix) {
		return name
	}
	return g.tablePrefix + name
}

func (g *Grammar) wrapSegments(segments []string) string {
	parts := make([]string, len(segments))
	for i, s := range segments {
		parts[i] = g.wrapSegment(s)
	}
	return strings.Join(parts, ".")
}

func (g *Grammar) wrapSegment(s string) string {
	if s == "*" {
		return "*"
	}
	return g.dialect.QuoteIdentifier(s)
}

// splitJSONSelector splits "col->a->b" into the column and its JSON path.
func splitJSONSelector(s string) (string, []string) {
	parts := strings.Split(s, "->")
	return parts[0], parts[1:]
}

func inlineValues(values []any) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, ", ")
}
