package relation

import (
	"context"

	"github.com/coregx/sequel/internal/query"
)

// Loader batches related-row fetches. Every Load method issues exactly one
// query for the whole parent set, or none at all when no parent carries a
// usable key.
type Loader struct {
	exec    Executor
	grammar *query.Grammar
}

// NewLoader creates a loader running queries through exec and compiling
// them with g.
func NewLoader(exec Executor, g *query.Grammar) *Loader {
	return &Loader{exec: exec, grammar: g}
}

// collectKeys gathers the distinct non-nil values of a key column across
// the parents, preserving first-seen order.
func collectKeys(parents []Row, column string) []any {
	seen := make(map[string]struct{}, len(parents))
	var keys []any
	for _, p := range parents {
		v := p.Get(column)
		if v == nil {
			continue
		}
		k := keyString(v)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		keys = append(keys, v)
	}
	return keys
}

// LoadBelongsTo attaches the referenced related row (or nil) to each parent
// under rel.Name.
func (l *Loader) LoadBelongsTo(ctx context.Context, parents []Row, rel BelongsTo) error {
	keys := collectKeys(parents, rel.ForeignKey)
	if len(keys) == 0 {
		for _, p := range parents {
			p[rel.Name] = nil
		}
		return nil
	}

	b := query.NewBuilder(l.grammar).From(rel.Related).WhereIn(rel.OwnerKey, keys)
	rows, err := l.exec.Select(ctx, b)
	if err != nil {
		return err
	}

	dict := make(map[string]Row, len(rows))
	for _, r := range rows {
		dict[keyString(r.Get(rel.OwnerKey))] = r
	}

	for _, p := range parents {
		v := p.Get(rel.ForeignKey)
		if v == nil {
			p[rel.Name] = nil
			continue
		}
		if match, ok := dict[keyString(v)]; ok {
			p[rel.Name] = match
		} else {
			p[rel.Name] = nil
		}
	}
	return nil
}

// LoadHasOne attaches the single related row pointing back at each parent
// (or nil) under rel.Name. When multiple related rows match a parent, the
// first in fetch order wins.
func (l *Loader) LoadHasOne(ctx context.Context, parents []Row, rel HasOne) error {
	keys := collectKeys(parents, rel.LocalKey)
	if len(keys) == 0 {
		for _, p := range parents {
			p[rel.Name] = nil
		}
		return nil
	}

	b := query.NewBuilder(l.grammar).From(rel.Related).WhereIn(rel.ForeignKey, keys)
	rows, err := l.exec.Select(ctx, b)
	if err != nil {
		return err
	}

	dict := make(map[string]Row, len(rows))
	for _, r := range rows {
		k := keyString(r.Get(rel.ForeignKey))
		if _, ok := dict[k]; !ok {
			dict[k] = r
		}
	}

	for _, p := range parents {
		v := p.Get(rel.LocalKey)
		if v == nil {
			p[rel.Name] = nil
			continue
		}
		if match, ok := dict[keyString(v)]; ok {
			p[rel.Name] = match
		} else {
			p[rel.Name] = nil
		}
	}
	return nil
}

// LoadHasMany attaches all related rows pointing back at each parent under
// rel.Name, preserving fetch order. Parents with no matches get an empty,
// non-nil slice.
func (l *Loader) LoadHasMany(ctx context.Context, parents []Row, rel HasMany) error {
	keys := collectKeys(parents, rel.LocalKey)
	if len(keys) == 0 {
		for _, p := range parents {
			p[rel.Name] = []Row{}
		}
		return nil
	}

	b := query.NewBuilder(l.grammar).From(rel.Related).WhereIn(rel.ForeignKey, keys)
	rows, err := l.exec.Select(ctx, b)
	if err != nil {
		return err
	}

	dict := make(map[string][]Row, len(rows))
	for _, r := range rows {
		k := keyString(r.Get(rel.ForeignKey))
		dict[k] = append(dict[k], r)
	}

	l.attachMany(parents, rel.Name, rel.LocalKey, dict)
	return nil
}

// LoadBelongsToMany attaches related rows joined through the pivot table
// under rel.Name. The pivot foreign key rides along on each related row as
// "pivot_<ForeignPivotKey>" so rows can be grouped back onto their parents.
func (l *Loader) LoadBelongsToMany(ctx context.Context, parents []Row, rel BelongsToMany) error {
	keys := collectKeys(parents, rel.ParentKey)
	if len(keys) == 0 {
		for _, p := range parents {
			p[rel.Name] = []Row{}
		}
		return nil
	}

	pivotKey := "pivot_" + rel.ForeignPivotKey
	b := query.NewBuilder(l.grammar).
		Select(rel.Related+".*", rel.Pivot+"."+rel.ForeignPivotKey+" as "+pivotKey).
		From(rel.Related).
		Join(rel.Pivot, rel.Pivot+"."+rel.RelatedPivotKey, "=", rel.Related+"."+rel.RelatedKey).
		WhereIn(rel.Pivot+"."+rel.ForeignPivotKey, keys)

	rows, err := l.exec.Select(ctx, b)
	if err != nil {
		return err
	}

	dict := make(map[string][]Row, len(rows))
	for _, r := range rows {
		k := keyString(r.Get(pivotKey))
		dict[k] = append(dict[k], r)
	}

	l.attachMany(parents, rel.Name, rel.ParentKey, dict)
	return nil
}

func (l *Loader) attachMany(parents []Row, name, localKey string, dict map[string][]Row) {
	for _, p := range parents {
		v := p.Get(localKey)
		if v == nil {
			p[name] = []Row{}
			continue
		}
		if matches, ok := dict[keyString(v)]; ok {
			p[name] = matches
		} else {
			p[name] = []Row{}
		}
	}
}
