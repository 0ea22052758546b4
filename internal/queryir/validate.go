package queryir

import (
	"fmt"

	"github.com/aasr-admin/uoAvox-Server-Development-sub001/internal/ir"
)

// ValidationResult reports whether a query can be pushed down to the SQL
// backend with results identical to in-memory evaluation.
type ValidationResult struct {
	// IsPortable is true when the SQL rendering is exact.
	IsPortable bool

	// Warnings lists the constructs that break parity. Empty when
	// IsPortable is true.
	Warnings []string
}

// Validate checks a query against the SQL-portable fragment:
//  1. Distinct and OrderBy keys are scalar properties (object values are
//     compared as JSON text in SQL).
//  2. Comparisons against object literals are not rendered.
//
// Case-insensitive comparisons are portable at any literal: the SQL
// rendering folds both sides with the same function as in-memory matching.
//
// Non-portable queries still evaluate correctly in memory.
//
// Validate is a pure function with no side effects.
func Validate(query Query) ValidationResult {
	v := &validator{
		warnings: []string{},
	}
	v.validateQuery(query)

	return ValidationResult{
		IsPortable: len(v.warnings) == 0,
		Warnings:   v.warnings,
	}
}

type validator struct {
	warnings []string
}

func (v *validator) addWarning(format string, args ...any) {
	v.warnings = append(v.warnings, fmt.Sprintf(format, args...))
}

func (v *validator) validateQuery(q Query) {
	if q == nil {
		v.addWarning("nil query - nothing to render")
		return
	}

	switch query := q.(type) {
	case Select:
		v.validateSelect(query)
	case *Select:
		v.validateSelect(*query)
	default:
		v.addWarning("Unknown query type: %T - portability cannot be verified", q)
	}
}

func (v *validator) validateSelect(sel Select) {
	if sel.Filter != nil {
		v.validatePredicate(sel.Filter)
	}
	for _, p := range sel.Distinct {
		if p.Kind == ir.KindObject {
			v.addWarning("Distinct on object property '%s' compares JSON text in SQL", p)
		}
	}
	for _, k := range sel.OrderBy {
		if k.Path.Kind == ir.KindObject {
			v.addWarning("Sort on object property '%s' compares JSON text in SQL", k.Path)
		}
	}
}

func (v *validator) validatePredicate(p Predicate) {
	if p == nil {
		return
	}

	switch pred := p.(type) {
	case Compare:
		v.validateCompare(pred)
	case *Compare:
		v.validateCompare(*pred)
	case And:
		v.validateAll(pred.Predicates)
	case *And:
		v.validateAll(pred.Predicates)
	case Or:
		v.validateAll(pred.Predicates)
	case *Or:
		v.validateAll(pred.Predicates)
	case Not:
		v.validatePredicate(pred.Predicate)
	case *Not:
		v.validatePredicate(pred.Predicate)
	case TypeIn, *TypeIn:
		// Rendered as a type column IN list.
	default:
		v.addWarning("Unknown predicate type: %T - portability cannot be verified", p)
	}
}

func (v *validator) validateAll(preds []Predicate) {
	for _, p := range preds {
		v.validatePredicate(p)
	}
}

func (v *validator) validateCompare(c Compare) {
	switch c.Value.(type) {
	case ir.IRObject, ir.IRArray:
		v.addWarning("Field '%s' compared to a composite literal - not rendered in SQL", c.Path)
	}
}
