package schema

import (
	"fmt"
	"slices"

	"golang.org/x/text/cases"

	"github.com/aasr-admin/uoAvox-Server-Development-sub001/internal/ir"
)

// Built-in properties carried by every object regardless of its type.
const (
	PropSerial = "serial"
	PropType   = "type"
)

var builtins = []ir.PropertySpec{
	{Name: PropSerial, Kind: ir.KindInt, Access: ir.AccessPlayer},
	{Name: PropType, Kind: ir.KindString, Access: ir.AccessPlayer},
}

// Catalog indexes compiled types by case-insensitive name and resolves the
// parent chain for inheritance queries. A Catalog is immutable once built
// and safe for concurrent use.
type Catalog struct {
	types    map[string]*ir.TypeSpec
	children map[string][]string
	names    []string
}

// NewCatalog validates specs and builds a catalog. Every parent must be
// declared, the parent graph must be acyclic, and a type may not redeclare
// a property it inherits.
func NewCatalog(specs []ir.TypeSpec) (*Catalog, error) {
	specs = slices.Clone(specs)
	c := &Catalog{
		types:    make(map[string]*ir.TypeSpec, len(specs)),
		children: make(map[string][]string),
	}

	for i := range specs {
		spec := &specs[i]
		key := foldName(spec.Name)
		if prev, ok := c.types[key]; ok {
			return nil, &CompileError{
				Field:   "type." + spec.Name,
				Message: fmt.Sprintf("duplicate type name (conflicts with %s)", prev.Name),
			}
		}
		for _, p := range spec.Properties {
			if isBuiltin(p.Name) {
				return nil, &CompileError{
					Field:   "type." + spec.Name + ".properties." + p.Name,
					Message: "property name is reserved",
				}
			}
		}
		c.types[key] = spec
		c.names = append(c.names, spec.Name)
	}

	for _, spec := range c.types {
		if spec.Parent == "" {
			continue
		}
		parent, ok := c.types[foldName(spec.Parent)]
		if !ok {
			return nil, &CompileError{
				Field:   "type." + spec.Name + ".parent",
				Message: fmt.Sprintf("unknown parent type %q", spec.Parent),
			}
		}
		pk := foldName(parent.Name)
		c.children[pk] = append(c.children[pk], spec.Name)
	}

	for _, spec := range c.types {
		if err := c.checkChain(spec); err != nil {
			return nil, err
		}
	}

	slices.Sort(c.names)
	for k := range c.children {
		slices.Sort(c.children[k])
	}
	return c, nil
}

// checkChain walks the parent chain of spec, rejecting cycles and inherited
// property redeclarations.
func (c *Catalog) checkChain(spec *ir.TypeSpec) error {
	visited := map[string]bool{foldName(spec.Name): true}
	for cur := c.parentOf(spec); cur != nil; cur = c.parentOf(cur) {
		key := foldName(cur.Name)
		if visited[key] {
			return &CompileError{
				Field:   "type." + spec.Name + ".parent",
				Message: fmt.Sprintf("inheritance cycle through %s", cur.Name),
			}
		}
		visited[key] = true

		for _, p := range spec.Properties {
			if _, ok := cur.Property(p.Name); ok {
				return &CompileError{
					Field:   "type." + spec.Name + ".properties." + p.Name,
					Message: fmt.Sprintf("redeclares property inherited from %s", cur.Name),
				}
			}
		}
	}
	return nil
}

func (c *Catalog) parentOf(spec *ir.TypeSpec) *ir.TypeSpec {
	if spec.Parent == "" {
		return nil
	}
	return c.types[foldName(spec.Parent)]
}

// Lookup finds a type by name, ignoring case.
func (c *Catalog) Lookup(name string) (*ir.TypeSpec, bool) {
	spec, ok := c.types[foldName(name)]
	return spec, ok
}

// Names returns every declared type name in sorted order.
func (c *Catalog) Names() []string {
	return slices.Clone(c.names)
}

// Len returns the number of declared types.
func (c *Catalog) Len() int {
	return len(c.types)
}

// IsA reports whether typeName is ancestor or one of its descendants.
func (c *Catalog) IsA(typeName, ancestor string) bool {
	want := foldName(ancestor)
	for cur, ok := c.Lookup(typeName); ok && cur != nil; cur = c.parentOf(cur) {
		if foldName(cur.Name) == want {
			return true
		}
	}
	return false
}

// Subtypes returns name and all of its descendants, sorted.
func (c *Catalog) Subtypes(name string) []string {
	root, ok := c.Lookup(name)
	if !ok {
		return nil
	}
	out := []string{root.Name}
	queue := []string{root.Name}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		kids := c.children[foldName(next)]
		out = append(out, kids...)
		queue = append(queue, kids...)
	}
	slices.Sort(out)
	return out
}

// Property resolves a top-level property on typeName, walking the parent
// chain and then the built-ins.
func (c *Catalog) Property(typeName, prop string) (*ir.PropertySpec, bool) {
	for cur, ok := c.Lookup(typeName); ok && cur != nil; cur = c.parentOf(cur) {
		if p, found := cur.Property(prop); found {
			return p, true
		}
	}
	if _, ok := c.Lookup(typeName); !ok {
		return nil, false
	}
	for i := range builtins {
		if foldName(builtins[i].Name) == foldName(prop) {
			return &builtins[i], true
		}
	}
	return nil, false
}

// PropertyNames lists every top-level property visible on typeName: its
// own, then inherited ones nearest first, then the built-ins.
func (c *Catalog) PropertyNames(typeName string) []string {
	var names []string
	for cur, ok := c.Lookup(typeName); ok && cur != nil; cur = c.parentOf(cur) {
		for _, p := range cur.Properties {
			names = append(names, p.Name)
		}
	}
	if _, ok := c.Lookup(typeName); ok {
		for _, b := range builtins {
			names = append(names, b.Name)
		}
	}
	return names
}

func isBuiltin(name string) bool {
	key := foldName(name)
	for _, b := range builtins {
		if foldName(b.Name) == key {
			return true
		}
	}
	return false
}

// foldName case-folds identifiers for lookup keys.
func foldName(s string) string {
	return cases.Fold().String(s)
}
