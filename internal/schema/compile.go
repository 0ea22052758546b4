package schema

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/aasr-admin/uoAvox-Server-Development-sub001/internal/ir"
)

// CompileTypes compiles every type declared under the "type" field of v.
// A value without a "type" field yields no types.
func CompileTypes(v cue.Value) ([]ir.TypeSpec, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	typesVal := v.LookupPath(cue.ParsePath("type"))
	if !typesVal.Exists() {
		return nil, nil
	}

	iter, err := typesVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var specs []ir.TypeSpec
	for iter.Next() {
		spec, err := CompileType(iter.Value())
		if err != nil {
			return nil, err
		}
		specs = append(specs, *spec)
	}
	return specs, nil
}

// CompileType parses a single CUE type struct into a TypeSpec. The type
// name is taken from the struct's label:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`type: Item: { properties: { amount: int } }`)
//	spec, err := CompileType(v.LookupPath(cue.ParsePath("type.Item")))
func CompileType(v cue.Value) (*ir.TypeSpec, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	spec := &ir.TypeSpec{}
	labels := v.Path().Selectors()
	if len(labels) > 0 {
		spec.Name = labels[len(labels)-1].String()
	}
	if spec.Name == "" {
		return nil, &CompileError{Field: "type", Message: "type name is required", Pos: v.Pos()}
	}

	parentVal := v.LookupPath(cue.ParsePath("parent"))
	if parentVal.Exists() {
		parent, err := parentVal.String()
		if err != nil {
			return nil, &CompileError{
				Field:   "parent",
				Message: "parent must be a concrete string",
				Pos:     parentVal.Pos(),
			}
		}
		spec.Parent = parent
	}

	propsVal := v.LookupPath(cue.ParsePath("properties"))
	if propsVal.Exists() {
		props, err := parseProperties(propsVal)
		if err != nil {
			return nil, err
		}
		spec.Properties = props
	}

	return spec, nil
}

// parseProperties reads every field of a properties struct in declaration
// order.
func parseProperties(v cue.Value) ([]ir.PropertySpec, error) {
	iter, err := v.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var props []ir.PropertySpec
	seen := make(map[string]bool)
	for iter.Next() {
		name := iter.Label()
		key := foldName(name)
		if seen[key] {
			return nil, &CompileError{
				Field:   "properties." + name,
				Message: "property declared twice (names are case-insensitive)",
				Pos:     iter.Value().Pos(),
			}
		}
		seen[key] = true

		prop, err := parseProperty(name, iter.Value())
		if err != nil {
			return nil, err
		}
		props = append(props, prop)
	}
	return props, nil
}

func parseProperty(name string, v cue.Value) (ir.PropertySpec, error) {
	prop := ir.PropertySpec{Name: name, Access: ir.AccessPlayer}

	if v.IncompleteKind() != cue.StructKind {
		kind, err := extractKind(v)
		if err != nil {
			return prop, err
		}
		if kind == ir.KindObject {
			return prop, &CompileError{
				Field:   "properties." + name,
				Message: "object properties must declare their nested properties",
				Pos:     v.Pos(),
			}
		}
		prop.Kind = kind
		return prop, nil
	}

	// A concrete "kind" string marks a descriptor struct. A plain struct
	// of nested properties may itself contain a property named "kind", but
	// its value is a type, not a concrete string.
	kindVal := v.LookupPath(cue.ParsePath("kind"))
	kindName, kindErr := kindVal.String()
	if !kindVal.Exists() || kindErr != nil {
		nested, err := parseProperties(v)
		if err != nil {
			return prop, err
		}
		prop.Kind = ir.KindObject
		prop.Properties = nested
		return prop, nil
	}

	switch ir.Kind(kindName) {
	case ir.KindString, ir.KindInt, ir.KindBool, ir.KindObject:
		prop.Kind = ir.Kind(kindName)
	default:
		return prop, &CompileError{
			Field:   "properties." + name + ".kind",
			Message: fmt.Sprintf("unknown kind %q: must be string, int, bool or object", kindName),
			Pos:     kindVal.Pos(),
		}
	}

	accessVal := v.LookupPath(cue.ParsePath("access"))
	if accessVal.Exists() {
		accessName, err := accessVal.String()
		if err != nil {
			return prop, formatCUEError(err)
		}
		level, err := ir.ParseAccessLevel(accessName)
		if err != nil {
			return prop, &CompileError{
				Field:   "properties." + name + ".access",
				Message: err.Error(),
				Pos:     accessVal.Pos(),
			}
		}
		prop.Access = level
	}

	nestedVal := v.LookupPath(cue.ParsePath("properties"))
	switch {
	case nestedVal.Exists() && prop.Kind != ir.KindObject:
		return prop, &CompileError{
			Field:   "properties." + name + ".properties",
			Message: "only object properties may declare nested properties",
			Pos:     nestedVal.Pos(),
		}
	case nestedVal.Exists():
		nested, err := parseProperties(nestedVal)
		if err != nil {
			return prop, err
		}
		prop.Properties = nested
	}

	return prop, nil
}

// extractKind converts a bare CUE type to a property kind.
// Floats are forbidden: all numbers are integers.
func extractKind(v cue.Value) (ir.Kind, error) {
	switch v.IncompleteKind() {
	case cue.StringKind:
		return ir.KindString, nil
	case cue.IntKind:
		return ir.KindInt, nil
	case cue.BoolKind:
		return ir.KindBool, nil
	case cue.StructKind:
		return ir.KindObject, nil
	case cue.FloatKind, cue.NumberKind:
		return "", &CompileError{
			Field:   "type",
			Message: "float types are forbidden - use int instead",
			Pos:     v.Pos(),
		}
	default:
		return "", &CompileError{
			Field:   "type",
			Message: fmt.Sprintf("unsupported type kind: %v", v.IncompleteKind()),
			Pos:     v.Pos(),
		}
	}
}

// CompileError represents a schema error with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}

	return err
}
