package relation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coregx/sequel/internal/query"
)

// fakeExecutor records every issued query and replays canned responses in
// order.
type fakeExecutor struct {
	sqls      []string
	bindings  [][]any
	responses [][]Row
}

func (f *fakeExecutor) Select(_ context.Context, b *query.Builder) ([]Row, error) {
	f.sqls = append(f.sqls, b.ToSQL())
	f.bindings = append(f.bindings, b.Bindings())
	if len(f.responses) == 0 {
		return nil, nil
	}
	resp := f.responses[0]
	f.responses = f.responses[1:]
	return resp, nil
}

func newLoader(responses ...[]Row) (*Loader, *fakeExecutor) {
	exec := &fakeExecutor{responses: responses}
	return NewLoader(exec, query.NewGrammarFor("sqlite")), exec
}

func TestLoadBelongsTo(t *testing.T) {
	posts := []Row{
		{"id": 1, "user_id": int64(10)},
		{"id": 2, "user_id": int64(20)},
		{"id": 3, "user_id": int64(10)},
		{"id": 4, "user_id": nil},
	}
	users := []Row{
		{"id": int64(10), "name": "Ann"},
		{"id": int64(20), "name": "Bob"},
	}
	loader, exec := newLoader(users)

	err := loader.LoadBelongsTo(context.Background(), posts, BelongsTo{
		Name: "author", Related: "users", ForeignKey: "user_id", OwnerKey: "id",
	})
	require.NoError(t, err)

	// One batched query for the whole parent set, with deduplicated keys.
	require.Len(t, exec.sqls, 1)
	assert.Equal(t, `select * from "users" where "id" in (?, ?)`, exec.sqls[0])
	assert.Equal(t, []any{int64(10), int64(20)}, exec.bindings[0])

	assert.Equal(t, "Ann", posts[0]["author"].(Row).String("name"))
	assert.Equal(t, "Bob", posts[1]["author"].(Row).String("name"))
	assert.Equal(t, "Ann", posts[2]["author"].(Row).String("name"))
	assert.Nil(t, posts[3]["author"])
}

func TestLoadBelongsTo_AllKeysNilSkipsQuery(t *testing.T) {
	posts := []Row{{"id": 1, "user_id": nil}}
	loader, exec := newLoader()

	err := loader.LoadBelongsTo(context.Background(), posts, BelongsTo{
		Name: "author", Related: "users", ForeignKey: "user_id", OwnerKey: "id",
	})
	require.NoError(t, err)

	assert.Empty(t, exec.sqls)
	assert.Nil(t, posts[0]["author"])
}

func TestLoadBelongsTo_CrossTypeKeysMatch(t *testing.T) {
	// Parent keys arrive as int, related keys as string; rendering both
	// through the same key function makes them land on the same bucket.
	posts := []Row{{"id": 1, "user_id": 10}}
	users := []Row{{"id": "10", "name": "Ann"}}
	loader, _ := newLoader(users)

	err := loader.LoadBelongsTo(context.Background(), posts, BelongsTo{
		Name: "author", Related: "users", ForeignKey: "user_id", OwnerKey: "id",
	})
	require.NoError(t, err)

	require.NotNil(t, posts[0]["author"])
	assert.Equal(t, "Ann", posts[0]["author"].(Row).String("name"))
}

func TestLoadHasOne(t *testing.T) {
	users := []Row{
		{"id": int64(1)},
		{"id": int64(2)},
	}
	profiles := []Row{
		{"id": int64(100), "user_id": int64(1), "bio": "hello"},
	}
	loader, exec := newLoader(profiles)

	err := loader.LoadHasOne(context.Background(), users, HasOne{
		Name: "profile", Related: "profiles", ForeignKey: "user_id", LocalKey: "id",
	})
	require.NoError(t, err)

	require.Len(t, exec.sqls, 1)
	assert.Equal(t, `select * from "profiles" where "user_id" in (?, ?)`, exec.sqls[0])
	assert.Equal(t, "hello", users[0]["profile"].(Row).String("bio"))
	assert.Nil(t, users[1]["profile"])
}

func TestLoadHasMany(t *testing.T) {
	users := []Row{
		{"id": int64(1)},
		{"id": int64(2)},
		{"id": int64(3)},
	}
	posts := []Row{
		{"id": int64(11), "user_id": int64(1), "title": "first"},
		{"id": int64(12), "user_id": int64(1), "title": "second"},
	}
	loader, exec := newLoader(posts)

	err := loader.LoadHasMany(context.Background(), users, HasMany{
		Name: "posts", Related: "posts", ForeignKey: "user_id", LocalKey: "id",
	})
	require.NoError(t, err)

	require.Len(t, exec.sqls, 1)

	// Matches preserve fetch order.
	got := users[0]["posts"].([]Row)
	require.Len(t, got, 2)
	assert.Equal(t, "first", got[0].String("title"))
	assert.Equal(t, "second", got[1].String("title"))

	// Parents with no matches get an empty, non-nil slice.
	assert.NotNil(t, users[1]["posts"])
	assert.Empty(t, users[1]["posts"].([]Row))
	assert.Empty(t, users[2]["posts"].([]Row))
}

func TestLoadHasMany_QualifiedKeys(t *testing.T) {
	users := []Row{{"id": int64(1)}}
	posts := []Row{{"id": int64(11), "user_id": int64(1)}}
	loader, _ := newLoader(posts)

	// Qualified key columns are normalized when reading row values.
	err := loader.LoadHasMany(context.Background(), users, HasMany{
		Name: "posts", Related: "posts", ForeignKey: "posts.user_id", LocalKey: "users.id",
	})
	require.NoError(t, err)

	assert.Len(t, users[0]["posts"].([]Row), 1)
}

func TestLoadBelongsToMany(t *testing.T) {
	users := []Row{
		{"id": int64(1)},
		{"id": int64(2)},
	}
	roles := []Row{
		{"id": int64(5), "name": "admin", "pivot_user_id": int64(1)},
		{"id": int64(6), "name": "editor", "pivot_user_id": int64(1)},
		{"id": int64(5), "name": "admin", "pivot_user_id": int64(2)},
	}
	loader, exec := newLoader(roles)

	err := loader.LoadBelongsToMany(context.Background(), users, BelongsToMany{
		Name:            "roles",
		Related:         "roles",
		Pivot:           "role_user",
		ForeignPivotKey: "user_id",
		RelatedPivotKey: "role_id",
		ParentKey:       "id",
		RelatedKey:      "id",
	})
	require.NoError(t, err)

	require.Len(t, exec.sqls, 1)
	assert.Equal(t,
		`select "roles".*, "role_user"."user_id" as "pivot_user_id" from "roles" `+
			`inner join "role_user" on "role_user"."role_id" = "roles"."id" `+
			`where "role_user"."user_id" in (?, ?)`,
		exec.sqls[0])

	first := users[0].Related("roles")
	require.Len(t, first, 2)
	assert.Equal(t, "admin", first[0].String("name"))
	assert.Equal(t, "editor", first[1].String("name"))

	second := users[1].Related("roles")
	require.Len(t, second, 1)
	assert.Equal(t, "admin", second[0].String("name"))
}

func TestRow_Accessors(t *testing.T) {
	r := Row{"id": []byte("42"), "name": []byte("Ann"), "score": 3.0}

	assert.Equal(t, int64(42), r.Int64("id"))
	assert.Equal(t, "Ann", r.String("users.name"))
	assert.Equal(t, int64(3), r.Int64("score"))
	assert.Equal(t, "", r.String("missing"))
	assert.Equal(t, int64(0), r.Int64("missing"))
}
