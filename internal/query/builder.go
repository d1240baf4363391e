package query

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Construction misuse panics carry these sentinels so callers recovering at a
// boundary can classify them with errors.Is.
var (
	// ErrInvalidOperatorCombination is raised when a nil value is paired
	// with an operator that cannot express a null check.
	ErrInvalidOperatorCombination = errors.New("query: operator requires a non-nil value")
	// ErrInvalidDirection is raised for an order direction other than asc/desc.
	ErrInvalidDirection = errors.New(`query: order direction must be "asc" or "desc"`)
)

// bindingType partitions accumulated bindings by clause category. The
// partitions are flattened in this exact order by Bindings, matching the
// fixed clause emission order of the compiler.
type bindingType int

const (
	bindSelect bindingType = iota
	bindFrom
	bindJoin
	bindWhere
	bindHaving
	bindOrder
	bindUnion
	bindUnionOrder
	numBindingTypes
)

// Builder accumulates a query description and its positional bindings.
// It performs no semantic validation beyond operator/value legality; the
// grammar compiles whatever state has been built.
//
// A Builder is single-owner mutable state and is not safe for concurrent
// mutation. Branching into subqueries or per-request copies goes through
// Clone, which shares nothing with its source.
type Builder struct {
	grammar *Grammar

	columns  []any // string or Expr
	distinct bool
	table    any // string or Expr
	joins    []*JoinClause
	wheres   []where
	groups   []any // string or Expr
	havings  []having
	orders   []order

	limit  int // -1 = unset
	offset int // -1 = unset

	unions      []union
	unionOrders []order
	unionLimit  int
	unionOffset int

	lock      lockMode
	aggregate *aggregate

	bindings [numBindingTypes][]any
}

// NewBuilder creates an empty builder compiling through the given grammar.
func NewBuilder(g *Grammar) *Builder {
	return &Builder{
		grammar:     g,
		limit:       -1,
		offset:      -1,
		unionLimit:  -1,
		unionOffset: -1,
	}
}

// fork creates an empty builder sharing this builder's grammar, used for
// subqueries and nested where groups.
func (b *Builder) fork() *Builder {
	return NewBuilder(b.grammar)
}

// Grammar returns the grammar this builder compiles through.
func (b *Builder) Grammar() *Grammar {
	return b.grammar
}

// addBinding appends values to the given partition, skipping raw expressions,
// which are inlined by the compiler and never parameterized.
func (b *Builder) addBinding(typ bindingType, values ...any) {
	for _, v := range values {
		if _, ok := v.(Expr); ok {
			continue
		}
		b.bindings[typ] = append(b.bindings[typ], v)
	}
}

// Bindings returns all accumulated bindings flattened in fixed category
// order: select, from, join, where, having, order, union, union order. The
// result aligns one-to-one with the "?" placeholders of ToSQL, left to
// right: compound-level orderings compile after the union members, so their
// bindings flatten last.
func (b *Builder) Bindings() []any {
	var out []any
	for typ := bindingType(0); typ < numBindingTypes; typ++ {
		out = append(out, b.bindings[typ]...)
	}
	return out
}

// ToSQL compiles the builder into SQL text. It is pure and repeatable:
// calling it twice on an unmutated builder yields identical results.
func (b *Builder) ToSQL() string {
	return b.grammar.CompileSelect(b)
}

// Select sets the columns to retrieve. Accepts strings (quoted, with
// "col as alias" support) and Expr values (inlined verbatim).
func (b *Builder) Select(columns ...any) *Builder {
	b.columns = append([]any(nil), columns...)
	return b
}

// AddSelect appends columns to the existing select list.
func (b *Builder) AddSelect(columns ...any) *Builder {
	b.columns = append(b.columns, columns...)
	return b
}

// SelectRaw appends a raw select fragment with optional bindings.
func (b *Builder) SelectRaw(sql string, bindings ...any) *Builder {
	b.columns = append(b.columns, Raw(sql))
	b.addBinding(bindSelect, bindings...)
	return b
}

// SelectSub compiles a subquery and selects it under the given alias.
func (b *Builder) SelectSub(fn func(*Builder), alias string) *Builder {
	sub := b.fork()
	fn(sub)
	b.columns = append(b.columns, Raw("("+sub.ToSQL()+") as "+b.grammar.wrapSegment(alias)))
	b.addBinding(bindSelect, sub.Bindings()...)
	return b
}

// Distinct forces the query to return distinct results.
func (b *Builder) Distinct() *Builder {
	b.distinct = true
	return b
}

// From sets the source table. Accepts a string (optionally "table as alias",
// table-prefixed at compile time) or an Expr.
func (b *Builder) From(table any) *Builder {
	b.table = table
	return b
}

// HasTable reports whether a source table has been set.
func (b *Builder) HasTable() bool {
	return b.table != nil
}

// FromSub compiles a subquery and selects from it under the given alias.
func (b *Builder) FromSub(fn func(*Builder), alias string) *Builder {
	sub := b.fork()
	fn(sub)
	b.table = Raw("(" + sub.ToSQL() + ") as " + b.grammar.wrapSegment(b.grammar.tablePrefix+alias))
	b.addBinding(bindFrom, sub.Bindings()...)
	return b
}

// SetAggregate replaces the column list with an aggregate function call.
// The compiler emits the aggregate instead of the explicit columns.
func (b *Builder) SetAggregate(function string, columns ...string) *Builder {
	if len(columns) == 0 {
		columns = []string{"*"}
	}
	b.aggregate = &aggregate{function: function, columns: columns}
	return b
}

// prepareOperatorValue normalizes the variadic tail of a where call.
// One argument means "= value"; two mean "operator, value".
func prepareOperatorValue(args []any) (string, any) {
	switch len(args) {
	case 1:
		return "=", args[0]
	case 2:
		op, ok := args[0].(string)
		if !ok {
			panic(fmt.Errorf("query: operator must be a string, got %T", args[0]))
		}
		return op, args[1]
	default:
		panic(fmt.Errorf("query: where expects (column, value) or (column, operator, value), got %d trailing arguments", len(args)))
	}
}

// Where adds a basic where clause. The two-argument form defaults the
// operator to "=". A nil value rewrites "=" to an IS NULL check and a
// negation operator to IS NOT NULL; any other operator paired with nil
// panics with ErrInvalidOperatorCombination. A *Builder value becomes a
// column-to-subquery comparison.
func (b *Builder) Where(column any, args ...any) *Builder {
	return b.addWhere("and", column, args...)
}

// OrWhere adds a basic where clause joined with OR.
func (b *Builder) OrWhere(column any, args ...any) *Builder {
	return b.addWhere("or", column, args...)
}

func (b *Builder) addWhere(boolean string, column any, args ...any) *Builder {
	operator, value := prepareOperatorValue(args)

	if sub, ok := value.(*Builder); ok {
		return b.addWhereSubQuery(boolean, column, operator, sub)
	}

	if value == nil {
		switch operator {
		case "=":
			return b.addWhereNull(boolean, column, false)
		case "!=", "<>":
			return b.addWhereNull(boolean, column, true)
		default:
			panic(fmt.Errorf("%w: %q", ErrInvalidOperatorCombination, operator))
		}
	}

	b.wheres = append(b.wheres, where{
		typ:      whereBasic,
		column:   column,
		operator: operator,
		value:    value,
		boolean:  boolean,
	})
	b.addBinding(bindWhere, value)
	return b
}

// WhereIn adds a "column in (values)" clause. An empty list compiles to an
// always-false predicate with no bindings.
func (b *Builder) WhereIn(column any, values []any) *Builder {
	return b.addWhereIn("and", column, values, false)
}

// OrWhereIn adds an IN clause joined with OR.
func (b *Builder) OrWhereIn(column any, values []any) *Builder {
	return b.addWhereIn("or", column, values, false)
}

// WhereNotIn adds a "column not in (values)" clause. An empty list compiles
// to an always-true predicate with no bindings.
func (b *Builder) WhereNotIn(column any, values []any) *Builder {
	return b.addWhereIn("and", column, values, true)
}

// OrWhereNotIn adds a NOT IN clause joined with OR.
func (b *Builder) OrWhereNotIn(column any, values []any) *Builder {
	return b.addWhereIn("or", column, values, true)
}

func (b *Builder) addWhereIn(boolean string, column any, values []any, not bool) *Builder {
	typ := whereIn
	if not {
		typ = whereNotIn
	}
	b.wheres = append(b.wheres, where{
		typ:     typ,
		column:  column,
		values:  append([]any(nil), values...),
		boolean: boolean,
	})
	b.addBinding(bindWhere, values...)
	return b
}

// WhereInSub adds a "column in (select ...)" clause; the subquery's own
// bindings are flattened into the where partition.
func (b *Builder) WhereInSub(column any, fn func(*Builder)) *Builder {
	return b.addWhereInSub("and", column, fn, false)
}

// WhereNotInSub adds a "column not in (select ...)" clause.
func (b *Builder) WhereNotInSub(column any, fn func(*Builder)) *Builder {
	return b.addWhereInSub("and", column, fn, true)
}

func (b *Builder) addWhereInSub(boolean string, column any, fn func(*Builder), not bool) *Builder {
	sub := b.fork()
	fn(sub)
	typ := whereInSub
	if not {
		typ = whereNotInSub
	}
	b.wheres = append(b.wheres, where{typ: typ, column: column, query: sub, boolean: boolean})
	b.addBinding(bindWhere, sub.Bindings()...)
	return b
}

// WhereIntegerInRaw adds an IN clause whose integer values are inlined
// directly into the SQL instead of bound. Useful for very large key lists.
func (b *Builder) WhereIntegerInRaw(column any, values []int64) *Builder {
	return b.addWhereIntegerInRaw("and", column, values, false)
}

// WhereIntegerNotInRaw is the negated form of WhereIntegerInRaw.
func (b *Builder) WhereIntegerNotInRaw(column any, values []int64) *Builder {
	return b.addWhereIntegerInRaw("and", column, values, true)
}

func (b *Builder) addWhereIntegerInRaw(boolean string, column any, values []int64, not bool) *Builder {
	typ := whereInRaw
	if not {
		typ = whereNotInRaw
	}
	raw := make([]any, len(values))
	for i, v := range values {
		raw[i] = v
	}
	b.wheres = append(b.wheres, where{typ: typ, column: column, values: raw, boolean: boolean})
	return b
}

// WhereNull adds an IS NULL check.
func (b *Builder) WhereNull(column any) *Builder {
	return b.addWhereNull("and", column, false)
}

// OrWhereNull adds an IS NULL check joined with OR.
func (b *Builder) OrWhereNull(column any) *Builder {
	return b.addWhereNull("or", column, false)
}

// WhereNotNull adds an IS NOT NULL check.
func (b *Builder) WhereNotNull(column any) *Builder {
	return b.addWhereNull("and", column, true)
}

// OrWhereNotNull adds an IS NOT NULL check joined with OR.
func (b *Builder) OrWhereNotNull(column any) *Builder {
	return b.addWhereNull("or", column, true)
}

func (b *Builder) addWhereNull(boolean string, column any, not bool) *Builder {
	typ := whereNull
	if not {
		typ = whereNotNull
	}
	b.wheres = append(b.wheres, where{typ: typ, column: column, boolean: boolean})
	return b
}

// WhereBetween adds a "column between low and high" clause.
func (b *Builder) WhereBetween(column any, low, high any) *Builder {
	return b.addWhereBetween("and", column, low, high, false)
}

// OrWhereBetween adds a BETWEEN clause joined with OR.
func (b *Builder) OrWhereBetween(column any, low, high any) *Builder {
	return b.addWhereBetween("or", column, low, high, false)
}

// WhereNotBetween adds a "column not between low and high" clause.
func (b *Builder) WhereNotBetween(column any, low, high any) *Builder {
	return b.addWhereBetween("and", column, low, high, true)
}

func (b *Builder) addWhereBetween(boolean string, column any, low, high any, not bool) *Builder {
	typ := whereBetween
	if not {
		typ = whereNotBetween
	}
	b.wheres = append(b.wheres, where{typ: typ, column: column, values: []any{low, high}, boolean: boolean})
	b.addBinding(bindWhere, low, high)
	return b
}

// WhereRaw adds a raw where fragment with optional bindings.
func (b *Builder) WhereRaw(sql string, bindings ...any) *Builder {
	return b.addWhereRaw("and", sql, bindings...)
}

// OrWhereRaw adds a raw where fragment joined with OR.
func (b *Builder) OrWhereRaw(sql string, bindings ...any) *Builder {
	return b.addWhereRaw("or", sql, bindings...)
}

func (b *Builder) addWhereRaw(boolean string, sql string, bindings ...any) *Builder {
	b.wheres = append(b.wheres, where{typ: whereRaw, sql: sql, boolean: boolean})
	b.addBinding(bindWhere, bindings...)
	return b
}

// WhereColumn compares two columns. The two-argument form defaults the
// operator to "=".
func (b *Builder) WhereColumn(first string, rest ...string) *Builder {
	return b.addWhereColumn("and", first, rest...)
}

// OrWhereColumn compares two columns, joined with OR.
func (b *Builder) OrWhereColumn(first string, rest ...string) *Builder {
	return b.addWhereColumn("or", first, rest...)
}

func (b *Builder) addWhereColumn(boolean string, first string, rest ...string) *Builder {
	var operator, second string
	switch len(rest) {
	case 1:
		operator, second = "=", rest[0]
	case 2:
		operator, second = rest[0], rest[1]
	default:
		panic(fmt.Errorf("query: whereColumn expects (first, second) or (first, operator, second), got %d trailing arguments", len(rest)))
	}
	b.wheres = append(b.wheres, where{
		typ:      whereColumn,
		first:    first,
		operator: operator,
		second:   second,
		boolean:  boolean,
	})
	return b
}

// WhereExists adds an "exists (select ...)" clause.
func (b *Builder) WhereExists(fn func(*Builder)) *Builder {
	return b.addWhereExists("and", fn, false)
}

// OrWhereExists adds an EXISTS clause joined with OR.
func (b *Builder) OrWhereExists(fn func(*Builder)) *Builder {
	return b.addWhereExists("or", fn, false)
}

// WhereNotExists adds a "not exists (select ...)" clause.
func (b *Builder) WhereNotExists(fn func(*Builder)) *Builder {
	return b.addWhereExists("and", fn, true)
}

func (b *Builder) addWhereExists(boolean string, fn func(*Builder), not bool) *Builder {
	sub := b.fork()
	fn(sub)
	typ := whereExists
	if not {
		typ = whereNotExists
	}
	b.wheres = append(b.wheres, where{typ: typ, query: sub, boolean: boolean})
	b.addBinding(bindWhere, sub.Bindings()...)
	return b
}

// WhereSub compares a column against a subquery: "column op (select ...)".
func (b *Builder) WhereSub(column any, operator string, fn func(*Builder)) *Builder {
	sub := b.fork()
	fn(sub)
	return b.addWhereSubQuery("and", column, operator, sub)
}

func (b *Builder) addWhereSubQuery(boolean string, column any, operator string, sub *Builder) *Builder {
	b.wheres = append(b.wheres, where{
		typ:      whereSub,
		column:   column,
		operator: operator,
		query:    sub,
		boolean:  boolean,
	})
	b.addBinding(bindWhere, sub.Bindings()...)
	return b
}

// WhereNested groups the clauses built by fn into a parenthesized sub-list.
// The callback receives a fresh builder sharing this builder's grammar.
func (b *Builder) WhereNested(fn func(*Builder)) *Builder {
	return b.addWhereNested("and", fn)
}

// OrWhereNested groups clauses into a parenthesized sub-list joined with OR.
func (b *Builder) OrWhereNested(fn func(*Builder)) *Builder {
	return b.addWhereNested("or", fn)
}

func (b *Builder) addWhereNested(boolean string, fn func(*Builder)) *Builder {
	sub := b.fork()
	sub.table = b.table
	fn(sub)
	if len(sub.wheres) == 0 {
		return b
	}
	b.wheres = append(b.wheres, where{typ: whereNested, query: sub, boolean: boolean})
	b.addBinding(bindWhere, sub.bindings[bindWhere]...)
	return b
}

// WhereDate compares the date part of a column. The two-argument tail form
// defaults the operator to "=".
func (b *Builder) WhereDate(column any, args ...any) *Builder {
	return b.addDateBased(whereDate, column, args...)
}

// WhereTime compares the time part of a column.
func (b *Builder) WhereTime(column any, args ...any) *Builder {
	return b.addDateBased(whereTime, column, args...)
}

// WhereDay compares the day-of-month part of a column.
func (b *Builder) WhereDay(column any, args ...any) *Builder {
	return b.addDateBased(whereDay, column, args...)
}

// WhereMonth compares the month part of a column.
func (b *Builder) WhereMonth(column any, args ...any) *Builder {
	return b.addDateBased(whereMonth, column, args...)
}

// WhereYear compares the year part of a column.
func (b *Builder) WhereYear(column any, args ...any) *Builder {
	return b.addDateBased(whereYear, column, args...)
}

func (b *Builder) addDateBased(typ whereType, column any, args ...any) *Builder {
	operator, value := prepareOperatorValue(args)
	b.wheres = append(b.wheres, where{
		typ:      typ,
		column:   column,
		operator: operator,
		value:    value,
		boolean:  "and",
	})
	b.addBinding(bindWhere, value)
	return b
}

// WhereJSONContains checks that a JSON column (optionally addressed with
// "col->path" syntax) contains the given value. The value is JSON-encoded
// at construction time and bound as a single parameter.
func (b *Builder) WhereJSONContains(column string, value any) *Builder {
	return b.addWhereJSONContains(column, value, false)
}

// WhereJSONDoesntContain is the negated form of WhereJSONContains.
func (b *Builder) WhereJSONDoesntContain(column string, value any) *Builder {
	return b.addWhereJSONContains(column, value, true)
}

func (b *Builder) addWhereJSONContains(column string, value any, not bool) *Builder {
	encoded, err := json.Marshal(value)
	if err != nil {
		panic(fmt.Errorf("query: whereJSONContains value is not JSON-encodable: %w", err))
	}
	b.wheres = append(b.wheres, where{
		typ:     whereJSONContains,
		column:  column,
		not:     not,
		boolean: "and",
	})
	b.addBinding(bindWhere, string(encoded))
	return b
}

// WhereJSONLength compares the length of a JSON array column.
func (b *Builder) WhereJSONLength(column string, operator string, value any) *Builder {
	b.wheres = append(b.wheres, where{
		typ:      whereJSONLength,
		column:   column,
		operator: operator,
		value:    value,
		boolean:  "and",
	})
	b.addBinding(bindWhere, value)
	return b
}

// WhereFulltext adds a full-text match over the given columns. Panics at
// compile time on dialects without full-text support.
func (b *Builder) WhereFulltext(columns []string, value string, options ...FulltextOptions) *Builder {
	var opts FulltextOptions
	if len(options) > 0 {
		opts = options[0]
	}
	b.wheres = append(b.wheres, where{
		typ:     whereFulltext,
		columns: append([]string(nil), columns...),
		options: opts,
		boolean: "and",
	})
	b.addBinding(bindWhere, value)
	return b
}

// GroupBy appends grouping columns.
func (b *Builder) GroupBy(columns ...any) *Builder {
	b.groups = append(b.groups, columns...)
	return b
}

// GroupByRaw appends a raw grouping fragment.
func (b *Builder) GroupByRaw(sql string) *Builder {
	b.groups = append(b.groups, Raw(sql))
	return b
}

// Having adds a basic having clause; the two-argument form defaults the
// operator to "=".
func (b *Builder) Having(column string, args ...any) *Builder {
	return b.addHaving("and", column, args...)
}

// OrHaving adds a basic having clause joined with OR.
func (b *Builder) OrHaving(column string, args ...any) *Builder {
	return b.addHaving("or", column, args...)
}

func (b *Builder) addHaving(boolean string, column string, args ...any) *Builder {
	operator, value := prepareOperatorValue(args)
	b.havings = append(b.havings, having{
		typ:      havingBasic,
		column:   column,
		operator: operator,
		value:    value,
		boolean:  boolean,
	})
	b.addBinding(bindHaving, value)
	return b
}

// HavingRaw adds a raw having fragment with optional bindings.
func (b *Builder) HavingRaw(sql string, bindings ...any) *Builder {
	b.havings = append(b.havings, having{typ: havingRaw, sql: sql, boolean: "and"})
	b.addBinding(bindHaving, bindings...)
	return b
}

// HavingBetween adds a "column between low and high" having clause.
func (b *Builder) HavingBetween(column string, low, high any) *Builder {
	return b.havingBetween(column, low, high, false)
}

// HavingNotBetween adds a "column not between low and high" having clause.
func (b *Builder) HavingNotBetween(column string, low, high any) *Builder {
	return b.havingBetween(column, low, high, true)
}

func (b *Builder) havingBetween(column string, low, high any, not bool) *Builder {
	b.havings = append(b.havings, having{
		typ:     havingBetween,
		column:  column,
		low:     low,
		high:    high,
		not:     not,
		boolean: "and",
	})
	b.addBinding(bindHaving, low, high)
	return b
}

// OrderBy appends an ordering term. Direction must be "asc" or "desc".
// After a union, ordering applies to the compound result as a whole.
func (b *Builder) OrderBy(column any, direction string) *Builder {
	if direction != "asc" && direction != "desc" {
		panic(fmt.Errorf("%w: %q", ErrInvalidDirection, direction))
	}
	o := order{column: column, direction: direction}
	if len(b.unions) > 0 {
		b.unionOrders = append(b.unionOrders, o)
	} else {
		b.orders = append(b.orders, o)
	}
	return b
}

// OrderByDesc orders by the given column descending.
func (b *Builder) OrderByDesc(column any) *Builder {
	return b.OrderBy(column, "desc")
}

// OrderByRaw appends a raw ordering fragment with optional bindings. After
// a union the ordering applies to the compound, so its bindings land in the
// partition that flattens after the union members.
func (b *Builder) OrderByRaw(sql string, bindings ...any) *Builder {
	o := order{sql: sql}
	if len(b.unions) > 0 {
		b.unionOrders = append(b.unionOrders, o)
		b.addBinding(bindUnionOrder, bindings...)
	} else {
		b.orders = append(b.orders, o)
		b.addBinding(bindOrder, bindings...)
	}
	return b
}

// InRandomOrder orders results by the dialect's random function.
func (b *Builder) InRandomOrder() *Builder {
	o := order{random: true}
	if len(b.unions) > 0 {
		b.unionOrders = append(b.unionOrders, o)
	} else {
		b.orders = append(b.orders, o)
	}
	return b
}

// Limit caps the number of returned rows. Negative values are ignored.
// After a union, the limit applies to the compound result.
func (b *Builder) Limit(n int) *Builder {
	if n < 0 {
		return b
	}
	if len(b.unions) > 0 {
		b.unionLimit = n
	} else {
		b.limit = n
	}
	return b
}

// Offset skips the given number of rows. Negative values are ignored.
func (b *Builder) Offset(n int) *Builder {
	if n < 0 {
		return b
	}
	if len(b.unions) > 0 {
		b.unionOffset = n
	} else {
		b.offset = n
	}
	return b
}

// Union appends another query to this one with duplicate elimination.
// Order, limit, and offset set after this call apply to the whole compound.
func (b *Builder) Union(other *Builder) *Builder {
	b.unions = append(b.unions, union{query: other})
	b.addBinding(bindUnion, other.Bindings()...)
	return b
}

// UnionAll appends another query keeping duplicates.
func (b *Builder) UnionAll(other *Builder) *Builder {
	b.unions = append(b.unions, union{query: other, all: true})
	b.addBinding(bindUnion, other.Bindings()...)
	return b
}

// LockForUpdate requests an exclusive row lock on selected rows.
func (b *Builder) LockForUpdate() *Builder {
	b.lock = lockForUpdate
	return b
}

// SharedLock requests a shared row lock on selected rows.
func (b *Builder) SharedLock() *Builder {
	b.lock = lockShared
	return b
}

// Clone deep-copies the builder: clause lists, captured sub-builders, and
// binding partitions. Mutating the clone never affects the source.
func (b *Builder) Clone() *Builder {
	out := &Builder{
		grammar:     b.grammar,
		distinct:    b.distinct,
		table:       b.table,
		limit:       b.limit,
		offset:      b.offset,
		unionLimit:  b.unionLimit,
		unionOffset: b.unionOffset,
		lock:        b.lock,
	}
	out.columns = append([]any(nil), b.columns...)
	out.groups = append([]any(nil), b.groups...)
	out.havings = append([]having(nil), b.havings...)

	if b.wheres != nil {
		out.wheres = make([]where, len(b.wheres))
		for i, w := range b.wheres {
			out.wheres[i] = w.clone()
		}
	}
	if b.joins != nil {
		out.joins = make([]*JoinClause, len(b.joins))
		for i, j := range b.joins {
			out.joins[i] = j.clone()
		}
	}
	if b.orders != nil {
		out.orders = make([]order, len(b.orders))
		for i, o := range b.orders {
			out.orders[i] = o.clone()
		}
	}
	if b.unionOrders != nil {
		out.unionOrders = make([]order, len(b.unionOrders))
		for i, o := range b.unionOrders {
			out.unionOrders[i] = o.clone()
		}
	}
	if b.unions != nil {
		out.unions = make([]union, len(b.unions))
		for i, u := range b.unions {
			out.unions[i] = union{query: u.query.Clone(), all: u.all}
		}
	}
	if b.aggregate != nil {
		agg := aggregate{
			function: b.aggregate.function,
			columns:  append([]string(nil), b.aggregate.columns...),
		}
		out.aggregate = &agg
	}
	for typ := bindingType(0); typ < numBindingTypes; typ++ {
		out.bindings[typ] = append([]any(nil), b.bindings[typ]...)
	}
	return out
}
