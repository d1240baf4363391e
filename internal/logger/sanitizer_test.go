package logger

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskArgs_SensitiveSQLMasksEverything(t *testing.T) {
	s := NewSanitizer(nil)

	args := []any{"john", "hunter2-very-secret"}
	masked := s.MaskArgs(`update "users" set "password" = ? where "name" = ?`, args)

	assert.Equal(t, []any{maskValue, maskValue}, masked)
	// Original slice stays untouched.
	assert.Equal(t, "john", args[0])
}

func TestMaskArgs_PlainSQLPassesThrough(t *testing.T) {
	s := NewSanitizer(nil)

	args := []any{"john", 42}
	masked := s.MaskArgs(`select * from "users" where "name" = ? and "age" = ?`, args)

	assert.Equal(t, args, masked)
}

func TestMaskArgs_CustomFields(t *testing.T) {
	s := NewSanitizer([]string{"pin_code"})

	masked := s.MaskArgs(`update "cards" set "pin_code" = ?`, []any{"1234"})
	assert.Equal(t, []any{maskValue}, masked)

	// Default fields are replaced, not extended.
	masked = s.MaskArgs(`update "users" set "password" = ?`, []any{"x"})
	assert.Equal(t, []any{"x"}, masked)
}

func TestMaskArgs_WordBoundary(t *testing.T) {
	s := NewSanitizer(nil)

	// "authors" must not match the "auth" field.
	masked := s.MaskArgs(`select * from "authors" where "id" = ?`, []any{1})
	assert.Equal(t, []any{1}, masked)
}

func TestFormatArgs(t *testing.T) {
	s := NewSanitizer(nil)

	assert.Equal(t, "[]", s.FormatArgs(nil))
	assert.Equal(t, "[1, NULL, abc]", s.FormatArgs([]any{1, nil, "abc"}))

	long := strings.Repeat("x", 150)
	formatted := s.FormatArgs([]any{long})
	assert.Contains(t, formatted, "...")
	assert.Less(t, len(formatted), 120)
}
