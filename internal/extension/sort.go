package extension

import (
	"slices"
	"strings"

	"github.com/aasr-admin/uoAvox-Server-Development-sub001/internal/ir"
	"github.com/aasr-admin/uoAvox-Server-Development-sub001/internal/queryerr"
	"github.com/aasr-admin/uoAvox-Server-Development-sub001/internal/queryir"
)

var (
	ascendingTokens  = []string{"+", "up", "asc", "ascending"}
	descendingTokens = []string{"-", "down", "desc", "descending"}
)

// Sort stably orders objects by one or more keys.
type Sort struct {
	keys  []OrderKey
	bound []boundKey
	cmp   func(a, b Object) int
}

func (s *Sort) Name() string { return "Sort" }

func (s *Sort) Order() int { return OrderSort }

// Parse reads "[by] property [direction] {property [direction]}". A
// direction is only consumed directly after its property.
func (s *Sort) Parse(_ *Env, args []string) error {
	i := 0
	if len(args) > 0 && fold(args[0]) == "by" {
		i++
	}

	s.keys = nil
	for i < len(args) {
		key := OrderKey{Path: args[i], Ascending: true}
		i++
		if i < len(args) {
			if asc, ok := parseDirection(args[i]); ok {
				key.Ascending = asc
				i++
			}
		}
		s.keys = append(s.keys, key)
	}

	if len(s.keys) == 0 {
		return queryerr.Syntax("invalid ordering syntax").WithToken("Sort")
	}
	return nil
}

// parseDirection reports the direction a token names, if any.
func parseDirection(tok string) (ascending bool, ok bool) {
	f := fold(tok)
	if slices.Contains(ascendingTokens, f) {
		return true, true
	}
	if slices.Contains(descendingTokens, f) {
		return false, true
	}
	return false, false
}

// Optimize binds the keys against the Where-resolved base type.
func (s *Sort) Optimize(env *Env, base *ir.TypeSpec) error {
	if base == nil {
		return queryerr.Semantic("Sort requires a Where clause to resolve the object type").WithToken("Sort")
	}
	bound, err := bindKeys(env, base, s.keys)
	if err != nil {
		return err
	}
	s.bound = bound
	s.cmp = composite(bound)
	return nil
}

func (s *Sort) IsValid(Object) bool { return true }

// Filter returns a stably sorted copy of objs.
func (s *Sort) Filter(objs []Object) ([]Object, error) {
	if s.cmp == nil {
		return nil, queryerr.Semantic("Sort filtered before optimize")
	}
	sorted := slices.Clone(objs)
	slices.SortStableFunc(sorted, s.cmp)
	return sorted, nil
}

// Keys returns the parsed keys.
func (s *Sort) Keys() []OrderKey {
	return slices.Clone(s.keys)
}

// Lower prepends the keys to the select's ordering, since a later stable
// sort takes precedence over an earlier one.
func (s *Sort) Lower(sel *queryir.Select) error {
	if s.bound == nil {
		return queryerr.Semantic("Sort lowered before optimize")
	}
	keys := make([]queryir.OrderKey, len(s.bound))
	for i, k := range s.bound {
		keys[i] = queryir.OrderKey{Path: toPath(k.acc), Descending: !k.ascending}
	}
	sel.OrderBy = append(keys, sel.OrderBy...)
	return nil
}

func (s *Sort) String() string {
	parts := make([]string, 0, 2*len(s.keys))
	for _, k := range s.keys {
		parts = append(parts, k.Path)
		if !k.Ascending {
			parts = append(parts, "desc")
		}
	}
	return "Sort " + strings.Join(parts, " ")
}
