package extension

import (
	"github.com/aasr-admin/uoAvox-Server-Development-sub001/internal/binder"
	"github.com/aasr-admin/uoAvox-Server-Development-sub001/internal/ir"
	"github.com/aasr-admin/uoAvox-Server-Development-sub001/internal/queryir"
)

// OrderKey is one comparator key: a property path and its direction.
type OrderKey struct {
	Path      string
	Ascending bool
}

// boundKey is an OrderKey bound to an accessor.
type boundKey struct {
	acc       *binder.Accessor
	ascending bool
}

// bindKeys binds each key against base, checking the actor's access.
func bindKeys(env *Env, base *ir.TypeSpec, keys []OrderKey) ([]boundKey, error) {
	bound := make([]boundKey, len(keys))
	for i, k := range keys {
		acc, err := env.Binder.Bind(base.Name, k.Path)
		if err != nil {
			return nil, err
		}
		if err := acc.CheckAccess(env.Actor); err != nil {
			return nil, err
		}
		bound[i] = boundKey{acc: acc, ascending: k.Ascending}
	}
	return bound, nil
}

// composite compares lexicographically across keys in declaration order.
func composite(keys []boundKey) func(a, b Object) int {
	return func(a, b Object) int {
		for _, k := range keys {
			c := k.acc.Compare(a, b)
			if c == 0 {
				continue
			}
			if !k.ascending {
				return -c
			}
			return c
		}
		return 0
	}
}

func toPath(acc *binder.Accessor) queryir.Path {
	return queryir.Path{Segments: acc.Path, Kind: acc.Kind}
}
