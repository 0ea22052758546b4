package command

import (
	"github.com/aasr-admin/uoAvox-Server-Development-sub001/internal/binder"
	"github.com/aasr-admin/uoAvox-Server-Development-sub001/internal/extension"
	"github.com/aasr-admin/uoAvox-Server-Development-sub001/internal/ir"
	"github.com/aasr-admin/uoAvox-Server-Development-sub001/internal/schema"
)

// recorder is implemented by objects that can list all their properties.
type recorder interface {
	Record() ir.IRObject
}

// projection maps surviving objects to display rows.
//
// With a base type every column is bound and access-checked up front.
// Without one, columns are bound per object type and unreadable columns
// project as null. With no columns, every property the actor may read is
// shown.
type projection struct {
	actor   ir.Actor
	binder  *binder.Binder
	columns []string
	bound   []*binder.Accessor
}

func (r *Runner) projection(actor ir.Actor, base *ir.TypeSpec, columns []string) (*projection, error) {
	p := &projection{actor: actor, binder: r.binder, columns: columns}
	if base == nil {
		return p, nil
	}

	p.bound = make([]*binder.Accessor, len(columns))
	for i, col := range columns {
		acc, err := r.binder.Bind(base.Name, col)
		if err != nil {
			return nil, err
		}
		if err := acc.CheckAccess(actor); err != nil {
			return nil, err
		}
		p.bound[i] = acc
	}
	return p, nil
}

func (p *projection) row(obj extension.Object) Row {
	row := Row{Type: obj.TypeName(), Values: ir.IRObject{}}
	if v, ok := obj.Property(schema.PropSerial); ok {
		if serial, ok := v.(ir.IRInt); ok {
			row.Serial = int64(serial)
		}
	}

	if len(p.columns) == 0 {
		if rec, ok := obj.(recorder); ok {
			row.Values = p.visible(obj.TypeName(), "", rec.Record())
		}
		return row
	}

	for i, col := range p.columns {
		var acc *binder.Accessor
		if p.bound != nil {
			acc = p.bound[i]
		} else {
			acc = p.readable(obj.TypeName(), col)
		}
		if acc == nil {
			row.Values[col] = ir.IRNull{}
			continue
		}
		row.Values[col] = acc.Read(obj)
	}
	return row
}

// readable binds path on typeName, returning nil when it does not exist
// or the actor may not read it.
func (p *projection) readable(typeName, path string) *binder.Accessor {
	acc, err := p.binder.Bind(typeName, path)
	if err != nil {
		return nil
	}
	if acc.CheckAccess(p.actor) != nil {
		return nil
	}
	return acc
}

// visible copies the fields of obj the actor may read. prefix is the
// dotted path of obj itself.
func (p *projection) visible(typeName, prefix string, obj ir.IRObject) ir.IRObject {
	out := make(ir.IRObject, len(obj))
	for _, key := range obj.SortedKeys() {
		if prefix == "" && (key == schema.PropSerial || key == schema.PropType) {
			continue
		}
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}
		if p.readable(typeName, path) == nil {
			continue
		}
		if nested, ok := obj[key].(ir.IRObject); ok {
			out[key] = p.visible(typeName, path, nested)
			continue
		}
		out[key] = obj[key]
	}
	return out
}
