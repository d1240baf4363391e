package logger

import (
	"fmt"
	"regexp"
	"strings"
)

const maskValue = "***REDACTED***"

// Sanitizer keeps secrets out of query logs. When the SQL text mentions a
// sensitive column name, every bound value of that statement is masked;
// guessing which placeholder maps to the secret column would require
// parsing the SQL, so the whole argument list is treated as tainted.
type Sanitizer struct {
	patterns []*regexp.Regexp
}

// NewSanitizer builds a sanitizer matching the given field names as
// case-insensitive whole words. With no fields it falls back to a default
// set of common secret-bearing column names.
func NewSanitizer(fields []string) *Sanitizer {
	if len(fields) == 0 {
		fields = []string{
			"password", "passwd", "pwd",
			"token", "api_key", "apikey", "api_token",
			"secret", "auth", "authorization",
			"credit_card", "card_number", "cvv", "cvc",
			"ssn", "social_security",
			"private_key", "priv_key",
		}
	}
	patterns := make([]*regexp.Regexp, len(fields))
	for i, field := range fields {
		patterns[i] = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(field) + `\b`)
	}
	return &Sanitizer{patterns: patterns}
}

// MaskArgs returns the argument list with values masked when the SQL
// mentions a sensitive field. The input slice is never modified.
func (s *Sanitizer) MaskArgs(sql string, args []any) []any {
	if len(args) == 0 || !s.sensitive(sql) {
		return args
	}
	masked := make([]any, len(args))
	for i := range args {
		masked[i] = maskValue
	}
	return masked
}

func (s *Sanitizer) sensitive(sql string) bool {
	for _, p := range s.patterns {
		if p.MatchString(sql) {
			return true
		}
	}
	return false
}

// FormatArgs renders arguments for log output, truncating long values.
// Mask with MaskArgs first.
func (s *Sanitizer) FormatArgs(args []any) string {
	if len(args) == 0 {
		return "[]"
	}
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = formatValue(a)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func formatValue(v any) string {
	if v == nil {
		return "NULL"
	}
	str := fmt.Sprintf("%v", v)
	const maxLen = 100
	if len(str) > maxLen {
		return str[:maxLen] + "..."
	}
	return str
}
