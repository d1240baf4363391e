package dialects

import (
	"fmt"
	"strings"
)

// SQLiteDialect implements SQLite-specific SQL dialect.
type SQLiteDialect struct{}

func init() {
	RegisterDialect("sqlite", &SQLiteDialect{})
	RegisterDialect("sqlite3", &SQLiteDialect{})
}

// Name returns "sqlite".
func (d *SQLiteDialect) Name() string {
	return "sqlite"
}

// QuoteIdentifier quotes a SQLite identifier using double quotes.
func (d *SQLiteDialect) QuoteIdentifier(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// Placeholder returns SQLite placeholder format (always "?").
func (d *SQLiteDialect) Placeholder(_ int) string {
	return "?"
}

// UpsertSQL generates SQLite UPSERT syntax using ON CONFLICT.
func (d *SQLiteDialect) UpsertSQL(conflictColumns, updateColumns []string) string {
	if updateColumns == nil {
		if len(conflictColumns) > 0 {
			return fmt.Sprintf(" on conflict (%s) do nothing", d.columnize(conflictColumns))
		}
		return " on conflict do nothing"
	}

	updates := make([]string, len(updateColumns))
	for i, col := range updateColumns {
		quoted := d.QuoteIdentifier(col)
		updates[i] = fmt.Sprintf("%s = excluded.%s", quoted, quoted)
	}

	return fmt.Sprintf(" on conflict (%s) do update set %s",
		d.columnize(conflictColumns),
		strings.Join(updates, ", "))
}

// InsertIgnoreSQL rewrites "insert into ..." as "insert or ignore into ...".
func (d *SQLiteDialect) InsertIgnoreSQL(insertSQL string) string {
	return strings.Replace(insertSQL, "insert", "insert or ignore", 1)
}

// TruncateSQL returns a DELETE; SQLite has no TRUNCATE statement.
func (d *SQLiteDialect) TruncateSQL(table string) string {
	return "delete from " + table
}

// WrapUnion rewraps the member as a subquery select; SQLite rejects
// parenthesized compound select members.
func (d *SQLiteDialect) WrapUnion(sql string) string {
	return "select * from (" + sql + ")"
}

// JSONExtract renders json_extract(col, '$."path"').
func (d *SQLiteDialect) JSONExtract(column string, path []string) string {
	return fmt.Sprintf("json_extract(%s, %s)", column, jsonPath(path))
}

// JSONContainsSQL emulates containment by scanning json_each over the
// addressed array.
func (d *SQLiteDialect) JSONContainsSQL(column string, path []string, placeholder string, not bool) string {
	prefix := "exists"
	if not {
		prefix = "not exists"
	}
	if len(path) == 0 {
		return fmt.Sprintf("%s (select 1 from json_each(%s) where json_each.value is %s)",
			prefix, column, placeholder)
	}
	return fmt.Sprintf("%s (select 1 from json_each(%s, %s) where json_each.value is %s)",
		prefix, column, jsonPath(path), placeholder)
}

// JSONLengthSQL renders json_array_length(col[, '$."path"']).
func (d *SQLiteDialect) JSONLengthSQL(column string, path []string) string {
	if len(path) == 0 {
		return fmt.Sprintf("json_array_length(%s)", column)
	}
	return fmt.Sprintf("json_array_length(%s, %s)", column, jsonPath(path))
}

// DateBasedSQL renders date-part comparisons using strftime; the bound value
// is cast to text so integer arguments compare equal to strftime output.
func (d *SQLiteDialect) DateBasedSQL(part, column, operator, placeholder string) string {
	formats := map[string]string{
		"date":  "%Y-%m-%d",
		"time":  "%H:%M:%S",
		"day":   "%d",
		"month": "%m",
		"year":  "%Y",
	}
	return fmt.Sprintf("strftime('%s', %s) %s cast(%s as text)",
		formats[part], column, operator, placeholder)
}

// LockSQL returns an empty string; SQLite locks the whole database file.
func (d *SQLiteDialect) LockSQL(_ bool) string {
	return ""
}

// RandomSQL returns the RANDOM() function call.
func (d *SQLiteDialect) RandomSQL() string {
	return "RANDOM()"
}

// FulltextSQL panics; SQLite full-text search requires an FTS virtual table
// and cannot be expressed as a column predicate.
func (d *SQLiteDialect) FulltextSQL(_ []string, _ string, _ FulltextOptions) string {
	panic("sqlite dialect does not support full-text where clauses")
}

func (d *SQLiteDialect) columnize(cols []string) string {
	quoted := make([]string, len(cols))
	for i, col := range cols {
		quoted[i] = d.QuoteIdentifier(col)
	}
	return strings.Join(quoted, ", ")
}
