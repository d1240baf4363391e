// Package relation implements eager loading of related rows: one batched
// query per declared relationship, attached to parent rows in memory, so a
// page of N parents never triggers N follow-up queries.
package relation

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/coregx/sequel/internal/query"
)

// Row is a generic result row keyed by column name. Related rows are
// attached under the relationship name as Row, nil, or []Row values.
type Row map[string]any

// Get returns the value for a column, normalizing a qualified name like
// "users.id" to its final segment.
func (r Row) Get(column string) any {
	return r[keyName(column)]
}

// String returns the column value rendered as a string, or "" when absent.
func (r Row) String(column string) string {
	v := r.Get(column)
	if v == nil {
		return ""
	}
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return fmt.Sprint(v)
}

// Int64 returns the column value coerced to int64, or 0 when absent or not
// numeric.
func (r Row) Int64(column string) int64 {
	switch v := r.Get(column).(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case int32:
		return int64(v)
	case float64:
		return int64(v)
	case []byte:
		n, _ := strconv.ParseInt(string(v), 10, 64)
		return n
	case string:
		n, _ := strconv.ParseInt(v, 10, 64)
		return n
	default:
		return 0
	}
}

// Related returns the rows attached under a has-many or many-to-many
// relationship name, or nil for a to-one relationship.
func (r Row) Related(name string) []Row {
	rows, _ := r[name].([]Row)
	return rows
}

// Executor runs a compiled select and returns its rows. The connection
// layer satisfies this; tests substitute fakes.
type Executor interface {
	Select(ctx context.Context, b *query.Builder) ([]Row, error)
}

// BelongsTo declares that each parent row references one row of the related
// table: parent.ForeignKey points at related.OwnerKey.
type BelongsTo struct {
	Name       string // attachment key on the parent row
	Related    string // related table
	ForeignKey string // key column on the parent
	OwnerKey   string // matched column on the related table
}

// HasOne declares that at most one related row points back at the parent:
// related.ForeignKey matches parent.LocalKey.
type HasOne struct {
	Name       string
	Related    string
	ForeignKey string
	LocalKey   string
}

// HasMany declares that any number of related rows point back at the
// parent: related.ForeignKey matches parent.LocalKey.
type HasMany struct {
	Name       string
	Related    string
	ForeignKey string
	LocalKey   string
}

// BelongsToMany declares a many-to-many relationship through a pivot table.
// pivot.ForeignPivotKey matches parent.ParentKey and pivot.RelatedPivotKey
// matches related.RelatedKey.
type BelongsToMany struct {
	Name            string
	Related         string
	Pivot           string
	ForeignPivotKey string
	RelatedPivotKey string
	ParentKey       string
	RelatedKey      string
}

// keyName strips a table qualifier from a column reference.
func keyName(column string) string {
	if i := strings.LastIndex(column, "."); i >= 0 {
		return column[i+1:]
	}
	return column
}

// keyString renders a key value for dictionary lookup. Rendering through
// fmt makes int64(7) from one driver and "7" from another land on the same
// bucket.
func keyString(v any) string {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return fmt.Sprint(v)
}
