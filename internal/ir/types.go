package ir

import (
	"encoding/json"
	"fmt"
	"strings"
)

// AccessLevel ranks actors and guards property reads.
// A property is readable when actor.Access >= property.Access.
type AccessLevel int

const (
	AccessPlayer AccessLevel = iota
	AccessCounselor
	AccessGameMaster
	AccessSeer
	AccessAdministrator
	AccessDeveloper
	AccessOwner
)

var accessNames = []string{
	"Player",
	"Counselor",
	"GameMaster",
	"Seer",
	"Administrator",
	"Developer",
	"Owner",
}

// String returns the canonical level name.
func (a AccessLevel) String() string {
	if a < 0 || int(a) >= len(accessNames) {
		return fmt.Sprintf("AccessLevel(%d)", int(a))
	}
	return accessNames[a]
}

// ParseAccessLevel parses a level name case-insensitively.
func ParseAccessLevel(s string) (AccessLevel, error) {
	for i, name := range accessNames {
		if strings.EqualFold(name, s) {
			return AccessLevel(i), nil
		}
	}
	return 0, fmt.Errorf("unknown access level %q: must be one of %v", s, accessNames)
}

// MarshalJSON encodes the level by name.
func (a AccessLevel) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON decodes a level name.
func (a *AccessLevel) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("access level must be a name: %w", err)
	}
	lvl, err := ParseAccessLevel(s)
	if err != nil {
		return err
	}
	*a = lvl
	return nil
}

// UnmarshalYAML decodes a level name from YAML.
func (a *AccessLevel) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	lvl, err := ParseAccessLevel(s)
	if err != nil {
		return err
	}
	*a = lvl
	return nil
}

// Actor is the invoking user. Its access level is checked by every
// property binding the pipeline makes on its behalf.
type Actor struct {
	Name   string      `json:"name" yaml:"name"`
	Access AccessLevel `json:"access" yaml:"access"`
}

// Kind is the value kind of a schema property.
type Kind string

const (
	KindString Kind = "string"
	KindInt    Kind = "int"
	KindBool   Kind = "bool"
	KindObject Kind = "object"
)

// Matches reports whether v may be stored in (or compared with) a property
// of kind k. Null matches every kind.
func (k Kind) Matches(v IRValue) bool {
	switch v.(type) {
	case nil, IRNull:
		return true
	case IRString:
		return k == KindString
	case IRInt:
		return k == KindInt
	case IRBool:
		return k == KindBool
	case IRObject:
		return k == KindObject
	}
	return false
}

// TypeSpec is a compiled object type definition.
type TypeSpec struct {
	Name       string         `json:"name"`
	Parent     string         `json:"parent,omitempty"`
	Properties []PropertySpec `json:"properties"`
}

// Property returns the property declared directly on this type.
// Inherited properties are resolved by the schema catalog.
func (t *TypeSpec) Property(name string) (*PropertySpec, bool) {
	return findProperty(t.Properties, name)
}

// PropertySpec declares one readable property.
type PropertySpec struct {
	Name       string         `json:"name"`
	Kind       Kind           `json:"kind"`
	Access     AccessLevel    `json:"access"`
	Properties []PropertySpec `json:"properties,omitempty"` // KindObject only
}

// Property returns a nested property of an object property.
func (p *PropertySpec) Property(name string) (*PropertySpec, bool) {
	return findProperty(p.Properties, name)
}

// Names lists nested property names in declaration order.
func (p *PropertySpec) Names() []string {
	names := make([]string, len(p.Properties))
	for i := range p.Properties {
		names[i] = p.Properties[i].Name
	}
	return names
}

// findProperty matches property names case-insensitively.
func findProperty(props []PropertySpec, name string) (*PropertySpec, bool) {
	for i := range props {
		if strings.EqualFold(props[i].Name, name) {
			return &props[i], true
		}
	}
	return nil, false
}
