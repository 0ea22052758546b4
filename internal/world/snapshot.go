package world

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/aasr-admin/uoAvox-Server-Development-sub001/internal/binder"
	"github.com/aasr-admin/uoAvox-Server-Development-sub001/internal/ir"
	"github.com/aasr-admin/uoAvox-Server-Development-sub001/internal/schema"
)

// File is the YAML layout of a snapshot:
//
//	objects:
//	  - serial: 0x1
//	    type: Mobile
//	    props:
//	      name: Dupre
//	      hits: 80
type File struct {
	Objects []ObjectEntry `yaml:"objects"`
}

// ObjectEntry is one object as written in YAML.
type ObjectEntry struct {
	Serial int64          `yaml:"serial"`
	Type   string         `yaml:"type"`
	Props  map[string]any `yaml:"props,omitempty"`
}

// Snapshot is an ordered, validated list of objects.
type Snapshot struct {
	objects []*Object
}

// NewSnapshot wraps already-validated objects.
func NewSnapshot(objects []*Object) *Snapshot {
	return &Snapshot{objects: objects}
}

// LoadFile reads and validates a YAML snapshot.
func LoadFile(path string, catalog *schema.Catalog) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read world file: %w", err)
	}
	snap, err := Decode(bytes.NewReader(data), catalog)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return snap, nil
}

// Decode parses YAML with strict field checking and validates every object
// against catalog.
func Decode(r io.Reader, catalog *schema.Catalog) (*Snapshot, error) {
	var f File
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&f); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return FromEntries(f.Objects, catalog)
}

// FromEntries validates entries against catalog. Types and property names
// are canonicalized; serials must be unique and values must match their
// property kinds.
func FromEntries(entries []ObjectEntry, catalog *schema.Catalog) (*Snapshot, error) {
	seen := make(map[int64]bool, len(entries))
	objects := make([]*Object, 0, len(entries))

	for i, e := range entries {
		if seen[e.Serial] {
			return nil, fmt.Errorf("objects[%d]: duplicate serial 0x%X", i, e.Serial)
		}
		seen[e.Serial] = true

		spec, ok := catalog.Lookup(e.Type)
		if !ok {
			return nil, fmt.Errorf("objects[%d]: unknown type %q", i, e.Type)
		}

		raw, err := ir.ToIRValue(e.Props)
		if err != nil {
			return nil, fmt.Errorf("objects[%d]: %w", i, err)
		}
		props, err := canonicalize(catalog, spec.Name, raw.(ir.IRObject))
		if err != nil {
			return nil, fmt.Errorf("objects[%d] (0x%X): %w", i, e.Serial, err)
		}

		objects = append(objects, &Object{Serial: e.Serial, Type: spec.Name, Props: props})
	}

	return &Snapshot{objects: objects}, nil
}

// canonicalize checks every property against the type and rekeys it by
// its declared name.
func canonicalize(catalog *schema.Catalog, typeName string, props ir.IRObject) (ir.IRObject, error) {
	out := make(ir.IRObject, len(props))
	for _, key := range props.SortedKeys() {
		spec, ok := catalog.Property(typeName, key)
		if !ok || spec.Name == schema.PropSerial || spec.Name == schema.PropType {
			return nil, fmt.Errorf("unknown property %q on %s", key, typeName)
		}
		v, err := checkValue(spec, props[key], key)
		if err != nil {
			return nil, err
		}
		if _, dup := out[spec.Name]; dup {
			return nil, fmt.Errorf("property %q given twice", spec.Name)
		}
		out[spec.Name] = v
	}
	return out, nil
}

func checkValue(spec *ir.PropertySpec, v ir.IRValue, path string) (ir.IRValue, error) {
	if !spec.Kind.Matches(v) {
		return nil, fmt.Errorf("property %s: expected %s, got %T", path, spec.Kind, v)
	}
	obj, ok := v.(ir.IRObject)
	if !ok {
		return v, nil
	}

	out := make(ir.IRObject, len(obj))
	for _, key := range obj.SortedKeys() {
		nested, ok := spec.Property(key)
		if !ok {
			return nil, fmt.Errorf("unknown property %s.%s", path, key)
		}
		nv, err := checkValue(nested, obj[key], path+"."+key)
		if err != nil {
			return nil, err
		}
		out[nested.Name] = nv
	}
	return out, nil
}

// Objects returns the snapshot's objects in file order.
func (s *Snapshot) Objects() []*Object {
	return s.objects
}

// Len returns the number of objects.
func (s *Snapshot) Len() int {
	return len(s.objects)
}

// Candidates returns the objects as pipeline candidates, in file order.
func (s *Snapshot) Candidates(context.Context) ([]binder.Object, error) {
	out := make([]binder.Object, len(s.objects))
	for i, o := range s.objects {
		out[i] = o
	}
	return out, nil
}

// Get finds an object by serial.
func (s *Snapshot) Get(serial int64) (*Object, bool) {
	for _, o := range s.objects {
		if o.Serial == serial {
			return o, true
		}
	}
	return nil, false
}
