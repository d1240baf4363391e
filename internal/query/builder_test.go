// Copyright (c) 2025 COREGX. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sqliteBuilder() *Builder {
	return NewBuilder(NewGrammarFor("sqlite"))
}

func TestBuilder_SelectStar(t *testing.T) {
	b := sqliteBuilder().From("users")

	assert.Equal(t, `select * from "users"`, b.ToSQL())
	assert.Empty(t, b.Bindings())
}

func TestBuilder_WhereChain(t *testing.T) {
	b := sqliteBuilder().From("users").
		Where("age", ">", 18).
		Where("name", "John")

	assert.Equal(t, `select * from "users" where "age" > ? and "name" = ?`, b.ToSQL())
	assert.Equal(t, []any{18, "John"}, b.Bindings())
}

func TestBuilder_OrWhere(t *testing.T) {
	b := sqliteBuilder().From("users").
		Where("role", "admin").
		OrWhere("role", "owner")

	assert.Equal(t, `select * from "users" where "role" = ? or "role" = ?`, b.ToSQL())
	assert.Equal(t, []any{"admin", "owner"}, b.Bindings())
}

func TestBuilder_WhereIn(t *testing.T) {
	b := sqliteBuilder().From("users").WhereIn("id", []any{1, 2, 3})

	assert.Equal(t, `select * from "users" where "id" in (?, ?, ?)`, b.ToSQL())
	assert.Equal(t, []any{1, 2, 3}, b.Bindings())
}

func TestBuilder_WhereInEmpty(t *testing.T) {
	b := sqliteBuilder().From("items").WhereIn("id", nil)

	assert.Equal(t, `select * from "items" where 0 = 1`, b.ToSQL())
	assert.Empty(t, b.Bindings())
}

func TestBuilder_WhereNotInEmpty(t *testing.T) {
	b := sqliteBuilder().From("items").WhereNotIn("id", nil)

	assert.Equal(t, `select * from "items" where 1 = 1`, b.ToSQL())
	assert.Empty(t, b.Bindings())
}

func TestBuilder_WhereIntegerInRaw(t *testing.T) {
	b := sqliteBuilder().From("users").WhereIntegerInRaw("id", []int64{1, 2, 3})

	assert.Equal(t, `select * from "users" where "id" in (1, 2, 3)`, b.ToSQL())
	assert.Empty(t, b.Bindings())
}

func TestBuilder_WhereNilValueBecomesNullCheck(t *testing.T) {
	b := sqliteBuilder().From("users").Where("deleted_at", nil)
	assert.Equal(t, `select * from "users" where "deleted_at" is null`, b.ToSQL())
	assert.Empty(t, b.Bindings())

	b = sqliteBuilder().From("users").Where("deleted_at", "!=", nil)
	assert.Equal(t, `select * from "users" where "deleted_at" is not null`, b.ToSQL())
}

func TestBuilder_WhereNilValueWithOrderingOperatorPanics(t *testing.T) {
	defer func() {
		r := recover()
		require.NotNil(t, r)
		err, ok := r.(error)
		require.True(t, ok)
		assert.ErrorIs(t, err, ErrInvalidOperatorCombination)
	}()
	sqliteBuilder().From("users").Where("age", ">", nil)
}

func TestBuilder_WhereBetween(t *testing.T) {
	b := sqliteBuilder().From("users").WhereBetween("votes", 1, 100)

	assert.Equal(t, `select * from "users" where "votes" between ? and ?`, b.ToSQL())
	assert.Equal(t, []any{1, 100}, b.Bindings())
}

func TestBuilder_WhereColumn(t *testing.T) {
	b := sqliteBuilder().From("users").WhereColumn("first_name", "last_name")

	assert.Equal(t, `select * from "users" where "first_name" = "last_name"`, b.ToSQL())
}

func TestBuilder_WhereRaw(t *testing.T) {
	b := sqliteBuilder().From("users").WhereRaw("price > IF(state = ?, ?, 100)", "TX", 200)

	assert.Equal(t, `select * from "users" where price > IF(state = ?, ?, 100)`, b.ToSQL())
	assert.Equal(t, []any{"TX", 200}, b.Bindings())
}

func TestBuilder_WhereNested(t *testing.T) {
	b := sqliteBuilder().From("users").
		Where("active", true).
		OrWhereNested(func(q *Builder) {
			q.Where("votes", ">", 100).Where("title", "!=", "Admin")
		})

	assert.Equal(t,
		`select * from "users" where "active" = ? or ("votes" > ? and "title" != ?)`,
		b.ToSQL())
	assert.Equal(t, []any{true, 100, "Admin"}, b.Bindings())
}

func TestBuilder_WhereNestedEmptyCallbackIsDropped(t *testing.T) {
	b := sqliteBuilder().From("users").WhereNested(func(q *Builder) {})

	assert.Equal(t, `select * from "users"`, b.ToSQL())
}

func TestBuilder_WhereExists(t *testing.T) {
	b := sqliteBuilder().From("users").WhereExists(func(q *Builder) {
		q.From("orders").Where("orders.total", ">", 100)
	})

	assert.Equal(t,
		`select * from "users" where exists (select * from "orders" where "orders"."total" > ?)`,
		b.ToSQL())
	assert.Equal(t, []any{100}, b.Bindings())
}

func TestBuilder_WhereInSub(t *testing.T) {
	b := sqliteBuilder().From("users").WhereInSub("id", func(q *Builder) {
		q.Select("user_id").From("orders").Where("total", ">", 100)
	})

	assert.Equal(t,
		`select * from "users" where "id" in (select "user_id" from "orders" where "total" > ?)`,
		b.ToSQL())
	assert.Equal(t, []any{100}, b.Bindings())
}

func TestBuilder_WhereSubQueryComparison(t *testing.T) {
	g := NewGrammarFor("sqlite")
	sub := NewBuilder(g).Select("user_id").From("orders").Limit(1)
	b := NewBuilder(g).From("users").Where("id", "=", sub)

	assert.Equal(t,
		`select * from "users" where "id" = (select "user_id" from "orders" limit 1)`,
		b.ToSQL())
}

func TestBuilder_ExprValueIsInlined(t *testing.T) {
	b := sqliteBuilder().From("events").Where("created_at", "<", Raw("now()"))

	assert.Equal(t, `select * from "events" where "created_at" < now()`, b.ToSQL())
	assert.Empty(t, b.Bindings())
}

func TestBuilder_Joins(t *testing.T) {
	b := sqliteBuilder().From("users").
		Join("posts", "users.id", "=", "posts.user_id")
	assert.Equal(t,
		`select * from "users" inner join "posts" on "users"."id" = "posts"."user_id"`,
		b.ToSQL())

	b = sqliteBuilder().From("users").
		LeftJoin("posts", "users.id", "=", "posts.user_id")
	assert.Contains(t, b.ToSQL(), `left join "posts"`)

	b = sqliteBuilder().From("sizes").CrossJoin("colors")
	assert.Equal(t, `select * from "sizes" cross join "colors"`, b.ToSQL())
}

func TestBuilder_JoinOnClosure(t *testing.T) {
	b := sqliteBuilder().From("users").
		JoinOn("orders", func(j *JoinClause) {
			j.On("orders.user_id", "users.id").OrOn("orders.buyer_id", "users.id")
			j.Where("orders.total", ">", 100)
		})

	assert.Equal(t,
		`select * from "users" inner join "orders" on `+
			`"orders"."user_id" = "users"."id" or "orders"."buyer_id" = "users"."id" and "orders"."total" > ?`,
		b.ToSQL())
	assert.Equal(t, []any{100}, b.Bindings())
}

func TestBuilder_GroupByHaving(t *testing.T) {
	b := sqliteBuilder().From("users").
		SelectRaw("count(*) as total").
		AddSelect("role").
		GroupBy("role").
		Having("total", ">", 5)

	assert.Equal(t,
		`select count(*) as total, "role" from "users" group by "role" having "total" > ?`,
		b.ToSQL())
	assert.Equal(t, []any{5}, b.Bindings())
}

func TestBuilder_HavingBetween(t *testing.T) {
	b := sqliteBuilder().From("orders").
		GroupBy("user_id").
		HavingBetween("total", 100, 200)

	assert.Equal(t,
		`select * from "orders" group by "user_id" having "total" between ? and ?`,
		b.ToSQL())
	assert.Equal(t, []any{100, 200}, b.Bindings())
}

func TestBuilder_OrderLimitOffset(t *testing.T) {
	b := sqliteBuilder().From("users").
		OrderBy("name", "asc").
		OrderByDesc("id").
		Limit(10).
		Offset(5)

	assert.Equal(t,
		`select * from "users" order by "name" asc, "id" desc limit 10 offset 5`,
		b.ToSQL())
}

func TestBuilder_OrderByInvalidDirectionPanics(t *testing.T) {
	defer func() {
		r := recover()
		require.NotNil(t, r)
		err, ok := r.(error)
		require.True(t, ok)
		assert.ErrorIs(t, err, ErrInvalidDirection)
	}()
	sqliteBuilder().From("users").OrderBy("name", "sideways")
}

func TestBuilder_InRandomOrder(t *testing.T) {
	b := sqliteBuilder().From("users").InRandomOrder()

	assert.Equal(t, `select * from "users" order by RANDOM()`, b.ToSQL())
}

func TestBuilder_NegativeLimitIgnored(t *testing.T) {
	b := sqliteBuilder().From("users").Limit(-1).Offset(-3)

	assert.Equal(t, `select * from "users"`, b.ToSQL())
}

func TestBuilder_UnionAppliesOrderToCompound(t *testing.T) {
	g := NewGrammarFor("sqlite")
	b := NewBuilder(g).From("employees").
		Union(NewBuilder(g).From("contractors")).
		OrderBy("name", "asc").
		Limit(5)

	// SQLite rejects parenthesized compound members, so each side is
	// rewrapped as a subquery select.
	assert.Equal(t,
		`select * from (select * from "employees") union select * from (select * from "contractors") order by "name" asc limit 5`,
		b.ToSQL())
}

func TestBuilder_UnionAllBindings(t *testing.T) {
	g := NewGrammarFor("sqlite")
	b := NewBuilder(g).From("a").Where("x", 1).
		UnionAll(NewBuilder(g).From("b").Where("y", 2))

	assert.Contains(t, b.ToSQL(), " union all ")
	assert.Equal(t, []any{1, 2}, b.Bindings())
}

func TestBuilder_UnionOrderByRawBindingsFollowMembers(t *testing.T) {
	g := NewGrammarFor("sqlite")
	b := NewBuilder(g).From("a").Where("x", 1).
		Union(NewBuilder(g).From("b").Where("y", 2)).
		OrderByRaw("case when priority = ? then 0 else 1 end", 99)

	// The compound-level ordering compiles after both members, so its
	// binding must flatten after theirs.
	assert.Equal(t,
		`select * from (select * from "a" where "x" = ?) union select * from (select * from "b" where "y" = ?) order by case when priority = ? then 0 else 1 end`,
		b.ToSQL())
	assert.Equal(t, []any{1, 2, 99}, b.Bindings())
}

func TestBuilder_HavingNotBetween(t *testing.T) {
	b := sqliteBuilder().From("orders").
		GroupBy("user_id").
		HavingNotBetween("total", 100, 200)

	assert.Equal(t,
		`select * from "orders" group by "user_id" having "total" not between ? and ?`,
		b.ToSQL())
	assert.Equal(t, []any{100, 200}, b.Bindings())
}

func TestBuilder_SelectSub(t *testing.T) {
	b := sqliteBuilder().From("users").
		Select("name").
		SelectSub(func(q *Builder) {
			q.From("orders").
				WhereColumn("orders.user_id", "users.id").
				SetAggregate("count")
		}, "order_count")

	assert.Equal(t,
		`select "name", (select count(*) as aggregate from "orders" where "orders"."user_id" = "users"."id") as "order_count" from "users"`,
		b.ToSQL())
}

func TestBuilder_FromSub(t *testing.T) {
	b := sqliteBuilder().FromSub(func(q *Builder) {
		q.From("users").Where("active", true)
	}, "u")

	assert.Equal(t,
		`select * from (select * from "users" where "active" = ?) as "u"`,
		b.ToSQL())
	assert.Equal(t, []any{true}, b.Bindings())
}

func TestBuilder_Distinct(t *testing.T) {
	b := sqliteBuilder().From("users").Select("name").Distinct()

	assert.Equal(t, `select distinct "name" from "users"`, b.ToSQL())
}

func TestBuilder_AggregateSuppressesColumns(t *testing.T) {
	b := sqliteBuilder().From("users").Select("name", "email").SetAggregate("count")

	assert.Equal(t, `select count(*) as aggregate from "users"`, b.ToSQL())
}

func TestBuilder_DistinctAggregate(t *testing.T) {
	b := sqliteBuilder().From("users").Distinct().SetAggregate("count", "email")

	assert.Equal(t, `select count(distinct "email") as aggregate from "users"`, b.ToSQL())
}

func TestBuilder_SelectAlias(t *testing.T) {
	b := sqliteBuilder().From("users").Select("name as n", "users.email")

	assert.Equal(t, `select "name" as "n", "users"."email" from "users"`, b.ToSQL())
}

func TestBuilder_WhereDate(t *testing.T) {
	b := sqliteBuilder().From("posts").WhereDate("created_at", "2024-01-01")

	assert.Equal(t,
		`select * from "posts" where strftime('%Y-%m-%d', "created_at") = cast(? as text)`,
		b.ToSQL())
	assert.Equal(t, []any{"2024-01-01"}, b.Bindings())
}

func TestBuilder_WhereJSONContains(t *testing.T) {
	b := sqliteBuilder().From("users").WhereJSONContains("meta->tags", "go")

	assert.Equal(t,
		`select * from "users" where exists (select 1 from json_each("meta", '$."tags"') where json_each.value is ?)`,
		b.ToSQL())
	assert.Equal(t, []any{`"go"`}, b.Bindings())
}

func TestBuilder_WhereJSONLength(t *testing.T) {
	b := sqliteBuilder().From("users").WhereJSONLength("meta->tags", ">", 2)

	assert.Equal(t,
		`select * from "users" where json_array_length("meta", '$."tags"') > ?`,
		b.ToSQL())
	assert.Equal(t, []any{2}, b.Bindings())
}

func TestBuilder_BindingOrderFollowsClauseCategories(t *testing.T) {
	g := NewGrammarFor("sqlite")
	b := NewBuilder(g).From("users").
		SelectRaw("price * ? as discounted", 0.9).
		JoinOn("orders", func(j *JoinClause) {
			j.On("orders.user_id", "users.id")
			j.Where("orders.total", ">", 100)
		}).
		Where("age", ">", 18).
		GroupBy("age").
		Having("age", "<", 65).
		OrderByRaw("case when ? then 1 else 2 end", true).
		Union(NewBuilder(g).From("admins").Where("x", 1))

	// select, from, join, where, having, order, union
	assert.Equal(t, []any{0.9, 100, 18, 65, true, 1}, b.Bindings())
}

func TestBuilder_ToSQLIsIdempotent(t *testing.T) {
	b := sqliteBuilder().From("users").
		Where("age", ">", 18).
		WhereIn("role", []any{"admin", "owner"}).
		OrderBy("name", "asc")

	first := b.ToSQL()
	firstBindings := b.Bindings()
	assert.Equal(t, first, b.ToSQL())
	assert.Equal(t, firstBindings, b.Bindings())
}

func TestBuilder_CloneIsIndependent(t *testing.T) {
	b := sqliteBuilder().From("users").Where("age", ">", 18)
	c := b.Clone()

	c.Where("name", "John").OrderBy("id", "desc").Limit(3)

	assert.Equal(t, `select * from "users" where "age" > ?`, b.ToSQL())
	assert.Equal(t, []any{18}, b.Bindings())
	assert.Equal(t,
		`select * from "users" where "age" > ? and "name" = ? order by "id" desc limit 3`,
		c.ToSQL())
	assert.Equal(t, []any{18, "John"}, c.Bindings())
}

func TestBuilder_CloneDeepCopiesSubBuilders(t *testing.T) {
	b := sqliteBuilder().From("users").WhereInSub("id", func(q *Builder) {
		q.Select("user_id").From("orders")
	})
	c := b.Clone()

	c.wheres[0].query.Where("total", ">", 10)

	assert.NotContains(t, b.ToSQL(), "total")
	assert.Contains(t, c.ToSQL(), "total")
}
