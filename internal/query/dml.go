package query

import (
	"sort"
	"strings"
)

// DML compilation works on value maps rather than builder clause state, so
// these entrypoints return bindings alongside the SQL: map iteration order
// is unspecified in Go, and the deterministic column order chosen here (the
// first row's keys, sorted) must stay aligned with the emitted values.

// CompileInsert renders a multi-row insert. Column order is the sorted key
// set of the first row; every row binds its values in that order, with nil
// bound for keys a later row omits. An empty row set compiles to a
// default-values insert.
func (g *Grammar) CompileInsert(b *Builder, values []map[string]any) (string, []any) {
	table := g.wrapTable(b.table)
	if len(values) == 0 {
		return "insert into " + table + " default values", nil
	}

	columns := sortedKeys(values[0])
	if len(columns) == 0 {
		return "insert into " + table + " default values", nil
	}
	wrapped := make([]string, len(columns))
	for i, c := range columns {
		wrapped[i] = g.wrap(c)
	}

	row := "(" + strings.Repeat("?, ", len(columns)-1) + "?)"
	rows := make([]string, len(values))
	bindings := make([]any, 0, len(values)*len(columns))
	for i, rec := range values {
		rows[i] = row
		for _, c := range columns {
			bindings = append(bindings, rec[c])
		}
	}

	sql := "insert into " + table + " (" + strings.Join(wrapped, ", ") + ") values " + strings.Join(rows, ", ")
	return sql, bindings
}

// CompileInsertOrIgnore renders an insert that skips conflicting rows using
// the dialect's conflict-tolerant form.
func (g *Grammar) CompileInsertOrIgnore(b *Builder, values []map[string]any) (string, []any) {
	sql, bindings := g.CompileInsert(b, values)
	return g.dialect.InsertIgnoreSQL(sql), bindings
}

// CompileUpsert renders an insert that resolves conflicts on uniqueBy by
// updating the listed columns. A nil update list compiles to do-nothing
// conflict handling.
func (g *Grammar) CompileUpsert(b *Builder, values []map[string]any, uniqueBy, update []string) (string, []any) {
	sql, bindings := g.CompileInsert(b, values)
	return sql + g.dialect.UpsertSQL(uniqueBy, update), bindings
}

// CompileUpdate renders an update of the builder's table constrained by its
// where clauses. Set columns are emitted in sorted order; bindings are the
// set values followed by the builder's where-partition bindings.
func (g *Grammar) CompileUpdate(b *Builder, values map[string]any) (string, []any) {
	columns := sortedKeys(values)
	sets := make([]string, len(columns))
	bindings := make([]any, 0, len(columns)+len(b.bindings[bindWhere]))
	for i, c := range columns {
		v := values[c]
		sets[i] = g.wrap(c) + " = " + g.parameter(v)
		if _, ok := v.(Expr); !ok {
			bindings = append(bindings, v)
		}
	}

	var sb strings.Builder
	sb.WriteString("update ")
	sb.WriteString(g.wrapTable(b.table))
	sb.WriteString(" set ")
	sb.WriteString(strings.Join(sets, ", "))
	g.compileWheres(&sb, b)

	bindings = append(bindings, b.bindings[bindWhere]...)
	return sb.String(), bindings
}

// CompileDelete renders a delete constrained by the builder's where clauses.
func (g *Grammar) CompileDelete(b *Builder) (string, []any) {
	var sb strings.Builder
	sb.WriteString("delete from ")
	sb.WriteString(g.wrapTable(b.table))
	g.compileWheres(&sb, b)
	return sb.String(), append([]any(nil), b.bindings[bindWhere]...)
}

// CompileTruncate renders the dialect's table-emptying statement.
func (g *Grammar) CompileTruncate(b *Builder) string {
	return g.dialect.TruncateSQL(g.wrapTable(b.table))
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
