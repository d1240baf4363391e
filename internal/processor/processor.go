// Package processor normalizes raw driver results after execution.
package processor

import (
	"strconv"

	"github.com/coregx/sequel/internal/relation"
)

// Processor post-processes query results. The connection layer routes every
// result set and generated key through it so driver quirks are absorbed in
// one place.
type Processor struct{}

// New creates a Processor.
func New() *Processor {
	return &Processor{}
}

// ProcessSelect returns selected rows unchanged. Kept as an explicit pass
// so per-dialect result fixups have a seam when a driver needs one.
func (p *Processor) ProcessSelect(rows []relation.Row) []relation.Row {
	return rows
}

// ProcessInsertGetID normalizes a generated key: values that render as a
// decimal integer become int64, everything else stays a string. Drivers
// variously hand back int64, uint64, []byte, or text for the same column.
func (p *Processor) ProcessInsertGetID(id any) any {
	switch v := id.(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case uint64:
		return int64(v)
	case []byte:
		return coerceID(string(v))
	case string:
		return coerceID(v)
	default:
		return id
	}
}

func coerceID(s string) any {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	return s
}
