// Package binder resolves dotted property paths against catalog types and
// produces accessors that read, compare and permission-check them.
package binder

import (
	"fmt"
	"strings"
	"sync"

	"golang.org/x/text/cases"

	"github.com/aasr-admin/uoAvox-Server-Development-sub001/internal/ir"
	"github.com/aasr-admin/uoAvox-Server-Development-sub001/internal/queryerr"
	"github.com/aasr-admin/uoAvox-Server-Development-sub001/internal/schema"
)

// Object is a queryable record. Property returns a top-level value by its
// canonical schema name, including the serial and type built-ins.
type Object interface {
	TypeName() string
	Property(name string) (ir.IRValue, bool)
}

type cacheKey struct {
	typeName string
	path     string
}

// Binder binds property paths to accessors. Accessors are cached per
// (type, path); the cache is safe for concurrent use and rebuilding an
// entry is idempotent.
type Binder struct {
	catalog *schema.Catalog

	mu    sync.RWMutex
	cache map[cacheKey]*Accessor
}

// New creates a binder over catalog.
func New(catalog *schema.Catalog) *Binder {
	return &Binder{
		catalog: catalog,
		cache:   make(map[cacheKey]*Accessor),
	}
}

// Catalog returns the catalog the binder resolves against.
func (b *Binder) Catalog() *schema.Catalog {
	return b.catalog
}

// Bind resolves path ("stats.str") on typeName. Each segment is matched
// case-insensitively; nested segments must descend through object
// properties. The accessor's required access is the highest level along
// the path.
func (b *Binder) Bind(typeName, path string) (*Accessor, error) {
	key := cacheKey{typeName: fold(typeName), path: fold(path)}

	b.mu.RLock()
	acc, ok := b.cache[key]
	b.mu.RUnlock()
	if ok {
		return acc, nil
	}

	acc, err := b.resolve(typeName, path)
	if err != nil {
		return nil, err
	}

	b.mu.Lock()
	b.cache[key] = acc
	b.mu.Unlock()
	return acc, nil
}

// Cached returns the number of cached accessors.
func (b *Binder) Cached() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.cache)
}

func (b *Binder) resolve(typeName, path string) (*Accessor, error) {
	spec, ok := b.catalog.Lookup(typeName)
	if !ok {
		return nil, &queryerr.Error{
			Code:        queryerr.CodeSemantic,
			Message:     "unknown object type",
			Token:       typeName,
			Suggestions: Suggest(typeName, b.catalog.Names()),
		}
	}

	segments := strings.Split(path, ".")
	for _, seg := range segments {
		if seg == "" {
			return nil, queryerr.Binding("invalid property path").WithToken(path)
		}
	}

	prop, ok := b.catalog.Property(spec.Name, segments[0])
	if !ok {
		return nil, &queryerr.Error{
			Code:        queryerr.CodeBinding,
			Message:     fmt.Sprintf("unknown property on %s", spec.Name),
			Token:       segments[0],
			Suggestions: Suggest(segments[0], b.catalog.PropertyNames(spec.Name)),
		}
	}

	acc := &Accessor{
		Type:   spec.Name,
		Path:   []string{prop.Name},
		Kind:   prop.Kind,
		Access: prop.Access,
	}

	for _, seg := range segments[1:] {
		if prop.Kind != ir.KindObject {
			return nil, queryerr.Binding("%s is not an object property", acc).WithToken(path)
		}
		next, ok := prop.Property(seg)
		if !ok {
			return nil, &queryerr.Error{
				Code:        queryerr.CodeBinding,
				Message:     fmt.Sprintf("unknown property on %s.%s", spec.Name, acc),
				Token:       seg,
				Suggestions: Suggest(seg, prop.Names()),
			}
		}
		prop = next
		acc.Path = append(acc.Path, prop.Name)
		acc.Kind = prop.Kind
		acc.Access = max(acc.Access, prop.Access)
	}

	return acc, nil
}

// Accessor reads one bound property path from objects of its type.
type Accessor struct {
	Type   string
	Path   []string
	Kind   ir.Kind
	Access ir.AccessLevel
}

// String returns the canonical dotted path.
func (a *Accessor) String() string {
	return strings.Join(a.Path, ".")
}

// CheckAccess fails with a binding error if actor may not read the path.
func (a *Accessor) CheckAccess(actor ir.Actor) error {
	if actor.Access < a.Access {
		return queryerr.Binding("access denied: %s requires %s, %s has %s",
			a, a.Access, actor.Name, actor.Access).WithToken(a.String())
	}
	return nil
}

// Read returns the value at the path, or IRNull if any segment is missing.
func (a *Accessor) Read(obj Object) ir.IRValue {
	v, ok := obj.Property(a.Path[0])
	if !ok || v == nil {
		return ir.IRNull{}
	}
	if len(a.Path) == 1 {
		return v
	}
	o, ok := v.(ir.IRObject)
	if !ok {
		return ir.IRNull{}
	}
	nested, ok := o.Lookup(a.Path[1:]...)
	if !ok || nested == nil {
		return ir.IRNull{}
	}
	return nested
}

// Compare orders x and y by the value at the path.
func (a *Accessor) Compare(x, y Object) int {
	return ir.Compare(a.Read(x), a.Read(y))
}

func fold(s string) string {
	return cases.Fold().String(s)
}
