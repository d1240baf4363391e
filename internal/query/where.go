// Copyright (c) 2025 COREGX. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package query

import "github.com/coregx/sequel/internal/dialects"

// FulltextOptions tunes full-text where clauses. See dialects.FulltextOptions.
type FulltextOptions = dialects.FulltextOptions

// whereType tags the closed set of where-clause variants. The compiler
// switches exhaustively on it; an unknown tag is a programming defect and
// panics at compile time, never a recoverable data error.
type whereType int

const (
	whereBasic whereType = iota
	whereIn
	whereNotIn
	whereInSub
	whereNotInSub
	whereInRaw
	whereNotInRaw
	whereNull
	whereNotNull
	whereBetween
	whereNotBetween
	whereRaw
	whereExists
	whereNotExists
	whereNested
	whereColumn
	whereSub
	whereJSONContains
	whereJSONLength
	whereDate
	whereTime
	whereDay
	whereMonth
	whereYear
	whereFulltext
)

// where is a single clause in a builder's where list. Which fields are
// meaningful depends on the type tag. Every variant carries the boolean
// conjunction ("and"/"or") joining it to the previous clause.
type where struct {
	typ      whereType
	column   any    // string or Expr
	operator string // basic, column, sub, json-length and date-part variants
	value    any    // single bound value
	values   []any  // in / between / integer-in-raw variants
	query    *Builder
	first    string // column-to-column comparison
	second   string
	sql      string // raw fragment
	not      bool   // json-contains negation
	columns  []string
	options  FulltextOptions
	boolean  string
}

// clone deep-copies the clause, including any captured sub-builder, so that
// cloned builders share no structure with their source.
func (w where) clone() where {
	out := w
	if w.query != nil {
		out.query = w.query.Clone()
	}
	if w.values != nil {
		out.values = append([]any(nil), w.values...)
	}
	if w.columns != nil {
		out.columns = append([]string(nil), w.columns...)
	}
	return out
}

// havingType tags the restricted having-clause variant set.
type havingType int

const (
	havingBasic havingType = iota
	havingRaw
	havingBetween
)

type having struct {
	typ      havingType
	column   string
	operator string
	value    any
	low      any
	high     any
	sql      string
	not      bool
	boolean  string
}

// order is one ORDER BY term: a wrapped column with a direction, a raw
// fragment, or the dialect's random-ordering function.
type order struct {
	column    any // string or Expr
	direction string
	sql       string // raw fragment; takes precedence over column
	random    bool
}

func (o order) clone() order {
	return o
}

// union records one member of a compound select.
type union struct {
	query *Builder
	all   bool
}

// aggregate replaces the column list when set; selecting an aggregate
// suppresses normal column compilation.
type aggregate struct {
	function string
	columns  []string
}

// lockMode selects the row-locking suffix appended after everything else.
type lockMode int

const (
	lockNone lockMode = iota
	lockShared
	lockForUpdate
)
