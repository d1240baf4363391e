package core

import (
	"fmt"
	"regexp"
	"strings"
)

// Params holds named parameter values for raw queries. Named parameters
// use {:name} syntax in the SQL text.
//
// Example:
//
//	q := db.NewQuery("select * from {{users}} where [[id]]={:id}")
//	q, _ = q.Bind(core.Params{"id": 1})
type Params map[string]any

var (
	// namedPlaceholderRegex matches {:name} placeholders.
	namedPlaceholderRegex = regexp.MustCompile(`\{:(\w+)\}`)

	// quoteRegex matches {{table}} and [[column]] quoting syntax, allowing
	// dots for schema-qualified names.
	quoteRegex = regexp.MustCompile(`(\{\{[\w\-. ]+\}\}|\[\[[\w\-. ]+\]\])`)
)

// processSQL rewrites {:name} placeholders to the dialect's positional form
// and quotes {{table}} / [[column]] identifiers. It returns the rewritten
// SQL and the parameter names in order of appearance; a name used twice
// appears twice.
func (db *DB) processSQL(sqlText string) (string, []string) {
	var names []string
	count := 0

	result := namedPlaceholderRegex.ReplaceAllStringFunc(sqlText, func(match string) string {
		count++
		names = append(names, match[2:len(match)-1])
		return db.dialect.Placeholder(count)
	})

	result = quoteRegex.ReplaceAllStringFunc(result, func(match string) string {
		return db.quoteIdentifier(match[2 : len(match)-2])
	})

	return result, names
}

// quoteIdentifier quotes an identifier for the dialect, quoting each part
// of a schema-qualified name separately.
func (db *DB) quoteIdentifier(identifier string) string {
	if strings.Contains(identifier, ".") {
		parts := strings.Split(identifier, ".")
		quoted := make([]string, len(parts))
		for i, part := range parts {
			quoted[i] = db.dialect.QuoteIdentifier(strings.TrimSpace(part))
		}
		return strings.Join(quoted, ".")
	}
	return db.dialect.QuoteIdentifier(strings.TrimSpace(identifier))
}

// bindParams resolves named parameters to positional values in placeholder
// order. Every referenced name must be present.
func bindParams(params Params, names []string) ([]any, error) {
	values := make([]any, len(names))
	for i, name := range names {
		value, ok := params[name]
		if !ok {
			return nil, fmt.Errorf("missing parameter: %s", name)
		}
		values[i] = value
	}
	return values, nil
}
