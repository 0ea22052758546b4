package extension

import (
	"slices"

	"github.com/aasr-admin/uoAvox-Server-Development-sub001/internal/condition"
	"github.com/aasr-admin/uoAvox-Server-Development-sub001/internal/ir"
	"github.com/aasr-admin/uoAvox-Server-Development-sub001/internal/queryerr"
	"github.com/aasr-admin/uoAvox-Server-Development-sub001/internal/queryir"
)

// Where selects objects of a base type that satisfy a condition. It
// contributes to the validity pass only; its Filter is the identity.
type Where struct {
	cond *condition.Condition
	base *ir.TypeSpec
}

func (w *Where) Name() string { return "Where" }

func (w *Where) Order() int { return OrderWhere }

// Parse compiles the whole operand span as "<Type> [expr]".
func (w *Where) Parse(env *Env, args []string) error {
	cond, err := condition.Parse(env.Catalog, args)
	if err != nil {
		return err
	}
	if err := cond.Compile(env.Actor, env.Binder); err != nil {
		return err
	}
	w.cond = cond
	w.base, _ = env.Catalog.Lookup(cond.Type)
	return nil
}

// Optimize compiles the condition if Parse did not.
func (w *Where) Optimize(env *Env, _ *ir.TypeSpec) error {
	if w.cond == nil {
		return queryerr.Semantic("Where optimized before parse")
	}
	return w.cond.Compile(env.Actor, env.Binder)
}

func (w *Where) IsValid(obj Object) bool {
	if w.cond == nil || !w.cond.Compiled() {
		return false
	}
	return w.cond.Test(obj)
}

func (w *Where) Filter(objs []Object) ([]Object, error) {
	return objs, nil
}

// BaseType returns the type resolved by the condition.
func (w *Where) BaseType() *ir.TypeSpec {
	return w.base
}

// Condition returns the parsed condition.
func (w *Where) Condition() *condition.Condition {
	return w.cond
}

// Lower ANDs the condition into the select's filter.
func (w *Where) Lower(sel *queryir.Select) error {
	if w.cond == nil {
		return queryerr.Semantic("Where lowered before parse")
	}
	pred := w.cond.Predicate()
	switch f := sel.Filter.(type) {
	case nil:
		sel.Filter = pred
	case queryir.And:
		sel.Filter = queryir.And{Predicates: append(slices.Clone(f.Predicates), pred)}
	default:
		sel.Filter = queryir.And{Predicates: []queryir.Predicate{f, pred}}
	}
	return nil
}

func (w *Where) String() string {
	if w.cond == nil {
		return "Where"
	}
	return "Where " + w.cond.String()
}
