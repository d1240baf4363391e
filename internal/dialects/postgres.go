package dialects

import (
	"fmt"
	"strings"
)

// PostgresDialect implements PostgreSQL-specific SQL dialect.
type PostgresDialect struct{}

func init() {
	RegisterDialect("postgres", &PostgresDialect{})
	RegisterDialect("postgresql", &PostgresDialect{})
}

// Name returns "postgres".
func (d *PostgresDialect) Name() string {
	return "postgres"
}

// QuoteIdentifier quotes a PostgreSQL identifier using double quotes.
func (d *PostgresDialect) QuoteIdentifier(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// Placeholder returns PostgreSQL placeholder format ($1, $2, etc.).
func (d *PostgresDialect) Placeholder(index int) string {
	return fmt.Sprintf("$%d", index)
}

// UpsertSQL generates PostgreSQL UPSERT syntax using ON CONFLICT.
func (d *PostgresDialect) UpsertSQL(conflictColumns, updateColumns []string) string {
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

// InsertIgnoreSQL appends ON CONFLICT DO NOTHING to a compiled INSERT.
func (d *PostgresDialect) InsertIgnoreSQL(insertSQL string) string {
	return insertSQL + " on conflict do nothing"
}

// TruncateSQL restarts identity sequences along with emptying the table.
func (d *PostgresDialect) TruncateSQL(table string) string {
	return "truncate " + table + " restart identity cascade"
}

// WrapUnion parenthesizes a compound select member.
func (d *PostgresDialect) WrapUnion(sql string) string {
	return "(" + sql + ")"
}

// JSONExtract renders col->'a'->>'b', extracting the last segment as text.
func (d *PostgresDialect) JSONExtract(column string, path []string) string {
	if len(path) == 0 {
		return column
	}
	var sb strings.Builder
	sb.WriteString(column)
	for i, seg := range path {
		if i == len(path)-1 {
			sb.WriteString("->>")
		} else {
			sb.WriteString("->")
		}
		sb.WriteString("'" + seg + "'")
	}
	return sb.String()
}

// JSONContainsSQL renders a jsonb containment test using the @> operator.
func (d *PostgresDialect) JSONContainsSQL(column string, path []string, placeholder string, not bool) string {
	target := column
	for _, seg := range path {
		target += "->'" + seg + "'"
	}
	prefix := ""
	if not {
		prefix = "not "
	}
	return fmt.Sprintf("%s(%s)::jsonb @> %s", prefix, target, placeholder)
}

// JSONLengthSQL renders jsonb_array_length over the addressed value.
func (d *PostgresDialect) JSONLengthSQL(column string, path []string) string {
	target := column
	for _, seg := range path {
		target += "->'" + seg + "'"
	}
	return fmt.Sprintf("jsonb_array_length((%s)::jsonb)", target)
}

// DateBasedSQL renders date-part comparisons using casts and extract().
func (d *PostgresDialect) DateBasedSQL(part, column, operator, placeholder string) string {
	switch part {
	case "date":
		return fmt.Sprintf("%s::date %s %s", column, operator, placeholder)
	case "time":
		return fmt.Sprintf("%s::time %s %s", column, operator, placeholder)
	default:
		return fmt.Sprintf("extract(%s from %s) %s %s", part, column, operator, placeholder)
	}
}

// LockSQL returns PostgreSQL row-locking clauses.
func (d *PostgresDialect) LockSQL(forUpdate bool) string {
	if forUpdate {
		return " for update"
	}
	return " for share"
}

// RandomSQL returns the RANDOM() function call.
func (d *PostgresDialect) RandomSQL() string {
	return "RANDOM()"
}

// FulltextSQL renders a tsvector match over the concatenated columns.
func (d *PostgresDialect) FulltextSQL(columns []string, placeholder string, options FulltextOptions) string {
	language := options.Language
	if language == "" {
		language = "english"
	}

	vectors := make([]string, len(columns))
	for i, col := range columns {
		vectors[i] = fmt.Sprintf("to_tsvector('%s', %s)", language, col)
	}

	return fmt.Sprintf("(%s) @@ plainto_tsquery('%s', %s)",
		strings.Join(vectors, " || "), language, placeholder)
}

func (d *PostgresDialect) columnize(cols []string) string {
	quoted := make([]string, len(cols))
	for i, col := range cols {
		quoted[i] = d.QuoteIdentifier(col)
	}
	return strings.Join(quoted, ", ")
}
