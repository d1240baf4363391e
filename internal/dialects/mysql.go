package dialects

import (
	"fmt"
	"strings"
)

// MySQLDialect implements MySQL-specific SQL dialect.
type MySQLDialect struct{}

func init() {
	RegisterDialect("mysql", &MySQLDialect{})
}

// Name returns "mysql".
func (d *MySQLDialect) Name() string {
	return "mysql"
}

// QuoteIdentifier quotes a MySQL identifier using backticks.
func (d *MySQLDialect) QuoteIdentifier(s string) string {
	return "`" + strings.ReplaceAll(s, "`", "``") + "`"
}

// Placeholder returns MySQL placeholder format (always "?").
func (d *MySQLDialect) Placeholder(_ int) string {
	return "?"
}

// UpsertSQL generates MySQL UPSERT syntax using ON DUPLICATE KEY UPDATE.
// MySQL ignores the conflict column list; the PRIMARY KEY and UNIQUE
// constraints decide what counts as a duplicate.
func (d *MySQLDialect) UpsertSQL(_, updateColumns []string) string {
	if updateColumns == nil {
		// MySQL has no DO NOTHING form here; callers wanting that use
		// InsertIgnoreSQL instead.
		return ""
	}

	updates := make([]string, len(updateColumns))
	for i, col := range updateColumns {
		quoted := d.QuoteIdentifier(col)
		updates[i] = fmt.Sprintf("%s = values(%s)", quoted, quoted)
	}

	return " on duplicate key update " + strings.Join(updates, ", ")
}

// InsertIgnoreSQL rewrites "insert into ..." as "insert ignore into ...".
func (d *MySQLDialect) InsertIgnoreSQL(insertSQL string) string {
	return strings.Replace(insertSQL, "insert", "insert ignore", 1)
}

// TruncateSQL returns the TRUNCATE statement, which also resets auto-increment.
func (d *MySQLDialect) TruncateSQL(table string) string {
	return "truncate table " + table
}

// WrapUnion parenthesizes a compound select member.
func (d *MySQLDialect) WrapUnion(sql string) string {
	return "(" + sql + ")"
}

// JSONExtract renders json_unquote(json_extract(col, '$."path"')).
func (d *MySQLDialect) JSONExtract(column string, path []string) string {
	return fmt.Sprintf("json_unquote(json_extract(%s, %s))", column, jsonPath(path))
}

// JSONContainsSQL renders json_contains(col, ?[, '$."path"']).
func (d *MySQLDialect) JSONContainsSQL(column string, path []string, placeholder string, not bool) string {
	prefix := ""
	if not {
		prefix = "not "
	}
	if len(path) == 0 {
		return fmt.Sprintf("%sjson_contains(%s, %s)", prefix, column, placeholder)
	}
	return fmt.Sprintf("%sjson_contains(%s, %s, %s)", prefix, column, placeholder, jsonPath(path))
}

// JSONLengthSQL renders json_length(col[, '$."path"']).
func (d *MySQLDialect) JSONLengthSQL(column string, path []string) string {
	if len(path) == 0 {
		return fmt.Sprintf("json_length(%s)", column)
	}
	return fmt.Sprintf("json_length(%s, %s)", column, jsonPath(path))
}

// DateBasedSQL renders date-part comparisons using the native extraction functions.
func (d *MySQLDialect) DateBasedSQL(part, column, operator, placeholder string) string {
	return fmt.Sprintf("%s(%s) %s %s", part, column, operator, placeholder)
}

// LockSQL returns MySQL row-locking clauses.
func (d *MySQLDialect) LockSQL(forUpdate bool) string {
	if forUpdate {
		return " for update"
	}
	return " lock in share mode"
}

// RandomSQL returns the RAND() function call.
func (d *MySQLDialect) RandomSQL() string {
	return "RAND()"
}

// FulltextSQL renders match (cols) against (? in natural language mode).
func (d *MySQLDialect) FulltextSQL(columns []string, placeholder string, options FulltextOptions) string {
	mode := " in natural language mode"
	if options.Mode == "boolean" {
		mode = " in boolean mode"
	}
	expanded := ""
	if options.Expanded && options.Mode != "boolean" {
		expanded = " with query expansion"
	}
	return fmt.Sprintf("match (%s) against (%s%s%s)", strings.Join(columns, ", "), placeholder, mode, expanded)
}
