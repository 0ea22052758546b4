package queryir

import (
	"strings"

	"github.com/aasr-admin/uoAvox-Server-Development-sub001/internal/ir"
)

// Query represents a compiled query. Sealed to this package.
type Query interface {
	queryNode()
}

// Predicate represents a filter condition. Sealed to this package.
type Predicate interface {
	predicateNode()
}

// Select is the relational form of a pipeline:
//
//	SELECT objects WHERE <filter>
//	  [keep the first object of each <distinct> group, in candidate order]
//	  ORDER BY <orderBy> LIMIT <limit>
//
// Candidates are in ascending serial order. Distinct output is ordered by
// the distinct keys, ties by serial, and OrderBy sorts stably on top of it.
type Select struct {
	Filter   Predicate  // nil = every object
	Distinct []Path     // empty = no deduplication
	OrderBy  []OrderKey // applied after Distinct
	Limit    int64      // NoLimit = unbounded
}

func (Select) queryNode() {}

// NoLimit marks a Select without a Limit stage.
const NoLimit int64 = -1

// Path is a bound property path with the kind of its leaf.
type Path struct {
	Segments []string
	Kind     ir.Kind
}

// String returns the dotted path.
func (p Path) String() string {
	return strings.Join(p.Segments, ".")
}

// OrderKey is one sort key.
type OrderKey struct {
	Path       Path
	Descending bool
}

// Op is a comparison operator.
type Op string

const (
	OpEq       Op = "=="
	OpNe       Op = "!="
	OpLt       Op = "<"
	OpLe       Op = "<="
	OpGt       Op = ">"
	OpGe       Op = ">="
	OpContains Op = "contains"
	OpStarts   Op = "starts"
	OpEnds     Op = "ends"
)

// IsOrdering reports whether op compares by order.
func (op Op) IsOrdering() bool {
	switch op {
	case OpLt, OpLe, OpGt, OpGe:
		return true
	}
	return false
}

// IsString reports whether op only applies to strings.
func (op Op) IsString() bool {
	switch op {
	case OpContains, OpStarts, OpEnds:
		return true
	}
	return false
}

// Compare tests one property against a literal.
//
//	Compare{Path: hits, Op: OpGe, Value: ir.IRInt(50)}
//
// Fold compares case-insensitively; it is only valid with string values.
type Compare struct {
	Path  Path
	Op    Op
	Value ir.IRValue
	Fold  bool
}

func (Compare) predicateNode() {}

// And holds when every predicate holds (empty = true).
type And struct {
	Predicates []Predicate
}

func (And) predicateNode() {}

// Or holds when any predicate holds (empty = false).
type Or struct {
	Predicates []Predicate
}

func (Or) predicateNode() {}

// Not negates a predicate.
type Not struct {
	Predicate Predicate
}

func (Not) predicateNode() {}

// TypeIn holds when the object's type is one of Types. Where expands its
// base type to the type and all of its subtypes.
type TypeIn struct {
	Types []string
}

func (TypeIn) predicateNode() {}
