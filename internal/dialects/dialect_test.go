package dialects

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetDialect_RegisteredNames(t *testing.T) {
	assert.Equal(t, "mysql", GetDialect("mysql").Name())
	assert.Equal(t, "postgres", GetDialect("postgres").Name())
	assert.Equal(t, "postgres", GetDialect("postgresql").Name())
	assert.Equal(t, "sqlite", GetDialect("sqlite").Name())
	assert.Equal(t, "sqlite", GetDialect("sqlite3").Name())
}

func TestGetDialect_UnknownPanics(t *testing.T) {
	assert.Panics(t, func() { GetDialect("oracle") })
}

func TestQuoteIdentifier_EscapesEmbeddedQuotes(t *testing.T) {
	assert.Equal(t, "`we``ird`", GetDialect("mysql").QuoteIdentifier("we`ird"))
	assert.Equal(t, `"we""ird"`, GetDialect("postgres").QuoteIdentifier(`we"ird`))
}

func TestPlaceholder(t *testing.T) {
	assert.Equal(t, "?", GetDialect("mysql").Placeholder(3))
	assert.Equal(t, "$3", GetDialect("postgres").Placeholder(3))
	assert.Equal(t, "?", GetDialect("sqlite").Placeholder(3))
}

func TestJSONPath(t *testing.T) {
	assert.Equal(t, `'$'`, jsonPath(nil))
	assert.Equal(t, `'$."a"."b"'`, jsonPath([]string{"a", "b"}))
}
