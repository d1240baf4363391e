package query

// JoinClause is a builder restricted to join conditions. It embeds a full
// Builder, so On conditions can be mixed freely with Where clauses against
// bound values; the compiler renders the clause's where list after "on".
type JoinClause struct {
	*Builder
	joinType string // inner, left, right, cross
	table    any    // string or Expr
}

func newJoinClause(parent *Builder, joinType string, table any) *JoinClause {
	return &JoinClause{
		Builder:  NewBuilder(parent.grammar),
		joinType: joinType,
		table:    table,
	}
}

// On adds a column-to-column join condition. The two-argument form defaults
// the operator to "=".
func (j *JoinClause) On(first string, rest ...string) *JoinClause {
	j.WhereColumn(first, rest...)
	return j
}

// OrOn adds a column-to-column join condition joined with OR.
func (j *JoinClause) OrOn(first string, rest ...string) *JoinClause {
	j.OrWhereColumn(first, rest...)
	return j
}

func (j *JoinClause) clone() *JoinClause {
	return &JoinClause{
		Builder:  j.Builder.Clone(),
		joinType: j.joinType,
		table:    j.table,
	}
}

// Join adds an inner join with a single column-equality condition.
func (b *Builder) Join(table string, first, operator, second string) *Builder {
	jc := newJoinClause(b, "inner", table)
	jc.On(first, operator, second)
	return b.addJoin(jc)
}

// LeftJoin adds a left join with a single column-equality condition.
func (b *Builder) LeftJoin(table string, first, operator, second string) *Builder {
	jc := newJoinClause(b, "left", table)
	jc.On(first, operator, second)
	return b.addJoin(jc)
}

// RightJoin adds a right join with a single column-equality condition.
func (b *Builder) RightJoin(table string, first, operator, second string) *Builder {
	jc := newJoinClause(b, "right", table)
	jc.On(first, operator, second)
	return b.addJoin(jc)
}

// CrossJoin adds a cross join with no condition.
func (b *Builder) CrossJoin(table string) *Builder {
	return b.addJoin(newJoinClause(b, "cross", table))
}

// JoinOn adds an inner join whose conditions are built by the callback,
// allowing compound On/OrOn chains and value predicates via Where.
func (b *Builder) JoinOn(table string, fn func(*JoinClause)) *Builder {
	jc := newJoinClause(b, "inner", table)
	fn(jc)
	return b.addJoin(jc)
}

// LeftJoinOn adds a left join whose conditions are built by the callback.
func (b *Builder) LeftJoinOn(table string, fn func(*JoinClause)) *Builder {
	jc := newJoinClause(b, "left", table)
	fn(jc)
	return b.addJoin(jc)
}

// RightJoinOn adds a right join whose conditions are built by the callback.
func (b *Builder) RightJoinOn(table string, fn func(*JoinClause)) *Builder {
	jc := newJoinClause(b, "right", table)
	fn(jc)
	return b.addJoin(jc)
}

// JoinSub joins against a compiled subquery under the given alias.
func (b *Builder) JoinSub(fn func(*Builder), alias string, first, operator, second string) *Builder {
	sub := b.fork()
	fn(sub)
	table := Raw("(" + sub.ToSQL() + ") as " + b.grammar.wrapSegment(b.grammar.tablePrefix+alias))
	jc := newJoinClause(b, "inner", table)
	jc.On(first, operator, second)
	b.addBinding(bindJoin, sub.Bindings()...)
	return b.addJoin(jc)
}

// addJoin records the clause and flattens its accumulated bindings into the
// parent's join partition, after any callback has run.
func (b *Builder) addJoin(jc *JoinClause) *Builder {
	b.joins = append(b.joins, jc)
	b.addBinding(bindJoin, jc.Bindings()...)
	return b
}
