package query

import (
	"fmt"
	"sync"
)

// Macro is a named, reusable builder transformation. Macros extend the
// fluent surface without touching the compiler: they run against the
// builder and leave only ordinary clauses behind.
type Macro func(b *Builder, args ...any)

// MacroRegistry maps names to macros. Registration typically happens at
// package init time; Apply is safe for concurrent use afterwards.
type MacroRegistry struct {
	mu     sync.RWMutex
	macros map[string]Macro
}

// NewMacroRegistry creates an empty registry.
func NewMacroRegistry() *MacroRegistry {
	return &MacroRegistry{macros: make(map[string]Macro)}
}

// Register adds or replaces a macro under the given name.
func (r *MacroRegistry) Register(name string, m Macro) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.macros[name] = m
}

// Has reports whether a macro is registered under the given name.
func (r *MacroRegistry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.macros[name]
	return ok
}

// Apply runs the named macro against the builder. An unknown name is a
// programming defect and panics.
func (r *MacroRegistry) Apply(name string, b *Builder, args ...any) *Builder {
	r.mu.RLock()
	m, ok := r.macros[name]
	r.mu.RUnlock()
	if !ok {
		panic(fmt.Sprintf("query: undefined macro %q", name))
	}
	m(b, args...)
	return b
}

// Clear removes all registered macros. Intended for tests.
func (r *MacroRegistry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.macros = make(map[string]Macro)
}
