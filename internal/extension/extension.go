package extension

import (
	"github.com/aasr-admin/uoAvox-Server-Development-sub001/internal/binder"
	"github.com/aasr-admin/uoAvox-Server-Development-sub001/internal/ir"
	"github.com/aasr-admin/uoAvox-Server-Development-sub001/internal/queryir"
	"github.com/aasr-admin/uoAvox-Server-Development-sub001/internal/schema"
)

// Object is a candidate the pipeline filters.
type Object = binder.Object

// Declared orders of the built-in extensions. Lower runs first, for both
// Optimize and Filter.
const (
	OrderWhere    = 20
	OrderDistinct = 30
	OrderSort     = 40
	OrderLimit    = 80
)

// Env carries the invocation context into Parse and Optimize.
type Env struct {
	Actor   ir.Actor
	Catalog *schema.Catalog
	Binder  *binder.Binder
}

// Extension is one parsed pipeline stage. An instance lives for a single
// invocation.
type Extension interface {
	// Name is the keyword the extension was registered under.
	Name() string

	// Order is the declared execution order.
	Order() int

	// Parse consumes the operand tokens that followed the keyword.
	Parse(env *Env, args []string) error

	// Optimize binds operands against the base type. base is nil when the
	// pipeline has no Where.
	Optimize(env *Env, base *ir.TypeSpec) error

	// IsValid reports whether obj survives the validity pass that runs
	// before any Filter.
	IsValid(obj Object) bool

	// Filter transforms the working list. It must not modify its input.
	Filter(objs []Object) ([]Object, error)

	String() string
}

// Lowerer is implemented by extensions that can express themselves in the
// query IR. Lower is called in execution order.
type Lowerer interface {
	Lower(sel *queryir.Select) error
}

// BaseTyper is implemented by extensions that resolve the pipeline's base
// type.
type BaseTyper interface {
	BaseType() *ir.TypeSpec
}
