package extension

import (
	"slices"
	"strings"

	"github.com/aasr-admin/uoAvox-Server-Development-sub001/internal/ir"
	"github.com/aasr-admin/uoAvox-Server-Development-sub001/internal/queryerr"
	"github.com/aasr-admin/uoAvox-Server-Development-sub001/internal/queryir"
)

// Distinct keeps the first object of every run of objects with equal keys.
// Its output is ordered by the keys.
type Distinct struct {
	keys  []OrderKey
	bound []boundKey
	cmp   func(a, b Object) int
}

func (d *Distinct) Name() string { return "Distinct" }

func (d *Distinct) Order() int { return OrderDistinct }

// Parse takes one or more property paths.
func (d *Distinct) Parse(_ *Env, args []string) error {
	if len(args) == 0 {
		return queryerr.Syntax("invalid distinction syntax").WithToken("Distinct")
	}
	d.keys = make([]OrderKey, len(args))
	for i, a := range args {
		d.keys[i] = OrderKey{Path: a, Ascending: true}
	}
	return nil
}

// Optimize binds the keys against the Where-resolved base type.
func (d *Distinct) Optimize(env *Env, base *ir.TypeSpec) error {
	if base == nil {
		return queryerr.Semantic("Distinct requires a Where clause to resolve the object type").WithToken("Distinct")
	}
	bound, err := bindKeys(env, base, d.keys)
	if err != nil {
		return err
	}
	d.bound = bound
	d.cmp = composite(bound)
	return nil
}

func (d *Distinct) IsValid(Object) bool { return true }

// Filter stably sorts a copy of objs by the keys and keeps the first
// element of each equal run.
func (d *Distinct) Filter(objs []Object) ([]Object, error) {
	if d.cmp == nil {
		return nil, queryerr.Semantic("Distinct filtered before optimize")
	}

	sorted := slices.Clone(objs)
	slices.SortStableFunc(sorted, d.cmp)

	kept := make([]Object, 0, len(sorted))
	for i, obj := range sorted {
		if i > 0 && d.cmp(sorted[i-1], obj) == 0 {
			continue
		}
		kept = append(kept, obj)
	}
	return kept, nil
}

// Keys returns the parsed keys.
func (d *Distinct) Keys() []OrderKey {
	return slices.Clone(d.keys)
}

// Lower sets the select's distinct keys. A second Distinct, or one after
// an ordering, has no single-select form.
func (d *Distinct) Lower(sel *queryir.Select) error {
	if d.bound == nil {
		return queryerr.Semantic("Distinct lowered before optimize")
	}
	if len(sel.Distinct) > 0 || len(sel.OrderBy) > 0 {
		return queryerr.Semantic("repeated Distinct cannot be rendered as a single select")
	}
	for _, k := range d.bound {
		sel.Distinct = append(sel.Distinct, toPath(k.acc))
	}
	return nil
}

func (d *Distinct) String() string {
	paths := make([]string, len(d.keys))
	for i, k := range d.keys {
		paths[i] = k.Path
	}
	return "Distinct " + strings.Join(paths, " ")
}
