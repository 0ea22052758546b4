// Package world holds in-memory object snapshots: the candidate lists the
// query pipeline filters.
package world

import (
	"strings"

	"github.com/aasr-admin/uoAvox-Server-Development-sub001/internal/ir"
	"github.com/aasr-admin/uoAvox-Server-Development-sub001/internal/schema"
)

// Object is a typed record identified by a serial. Props is keyed by the
// canonical schema property names.
type Object struct {
	Serial int64
	Type   string
	Props  ir.IRObject
}

// TypeName returns the object's type.
func (o *Object) TypeName() string {
	return o.Type
}

// Property returns a top-level property value. The serial and type
// built-ins are always present.
func (o *Object) Property(name string) (ir.IRValue, bool) {
	switch {
	case strings.EqualFold(name, schema.PropSerial):
		return ir.IRInt(o.Serial), true
	case strings.EqualFold(name, schema.PropType):
		return ir.IRString(o.Type), true
	}
	v, ok := o.Props[name]
	return v, ok
}

// Record flattens the object into one IR object with the built-ins.
func (o *Object) Record() ir.IRObject {
	rec := make(ir.IRObject, len(o.Props)+2)
	for k, v := range o.Props {
		rec[k] = v
	}
	rec[schema.PropSerial] = ir.IRInt(o.Serial)
	rec[schema.PropType] = ir.IRString(o.Type)
	return rec
}
