// Package condition compiles the token span of a Where clause into a typed
// predicate over one base object type.
//
// The first token names the base type; the rest is a boolean expression
// over its property paths:
//
//	Mobile hits >= 50 and not female
//	Item (name contains~ sword or hue == 0x482) and owner != null
//
// Parse checks syntax and resolves the type. Compile binds every path for
// an actor and type-checks literals against property kinds.
package condition

import (
	"fmt"
	"strings"

	"github.com/aasr-admin/uoAvox-Server-Development-sub001/internal/binder"
	"github.com/aasr-admin/uoAvox-Server-Development-sub001/internal/ir"
	"github.com/aasr-admin/uoAvox-Server-Development-sub001/internal/queryerr"
	"github.com/aasr-admin/uoAvox-Server-Development-sub001/internal/queryir"
	"github.com/aasr-admin/uoAvox-Server-Development-sub001/internal/schema"
)

// Condition is a parsed Where predicate.
type Condition struct {
	// Type is the canonical name of the base type.
	Type string

	tokens []string
	expr   node // nil matches every object of the type
	types  map[string]bool
	subs   []string

	pred queryir.Predicate
	eval func(binder.Object) bool
}

// Parse reads tokens as "<Type> [expr]". An empty span is a syntax error;
// an unknown type is a semantic error.
func Parse(catalog *schema.Catalog, tokens []string) (*Condition, error) {
	if len(tokens) == 0 {
		return nil, queryerr.Syntax("invalid condition syntax")
	}

	spec, ok := catalog.Lookup(tokens[0])
	if !ok {
		return nil, &queryerr.Error{
			Code:        queryerr.CodeSemantic,
			Message:     "unknown object type",
			Token:       tokens[0],
			Suggestions: binder.Suggest(tokens[0], catalog.Names()),
		}
	}

	c := &Condition{
		Type:   spec.Name,
		tokens: tokens,
		subs:   catalog.Subtypes(spec.Name),
		types:  make(map[string]bool),
	}
	for _, s := range c.subs {
		c.types[fold(s)] = true
	}

	if len(tokens) > 1 {
		expr, err := parseExpr(lex(tokens[1:]))
		if err != nil {
			return nil, err
		}
		c.expr = expr
	}
	return c, nil
}

// Compiled reports whether Compile has succeeded.
func (c *Condition) Compiled() bool {
	return c.eval != nil
}

// Compile binds every property path against the base type, checks the
// actor's read access, and type-checks literals. It is idempotent.
func (c *Condition) Compile(actor ir.Actor, b *binder.Binder) error {
	if c.Compiled() {
		return nil
	}
	if c.expr == nil {
		c.pred = nil
		c.eval = func(binder.Object) bool { return true }
		return nil
	}

	comp := &compiler{actor: actor, binder: b, typeName: c.Type}
	pred, eval, err := comp.compile(c.expr)
	if err != nil {
		return err
	}
	c.pred = pred
	c.eval = eval
	return nil
}

// Test reports whether obj is of the base type (or a subtype) and satisfies
// the predicate. Test panics if the condition has not been compiled.
func (c *Condition) Test(obj binder.Object) bool {
	if !c.types[fold(obj.TypeName())] {
		return false
	}
	return c.eval(obj)
}

// Predicate returns the compiled predicate, including the type restriction.
func (c *Condition) Predicate() queryir.Predicate {
	typeIn := queryir.TypeIn{Types: c.subs}
	if c.pred == nil {
		return typeIn
	}
	return queryir.And{Predicates: []queryir.Predicate{typeIn, c.pred}}
}

// String returns the condition's source tokens.
func (c *Condition) String() string {
	return strings.Join(c.tokens, " ")
}

type compiler struct {
	actor    ir.Actor
	binder   *binder.Binder
	typeName string
}

func (cc *compiler) compile(n node) (queryir.Predicate, func(binder.Object) bool, error) {
	switch n := n.(type) {
	case andNode:
		preds, evals, err := cc.compileAll(n.terms)
		if err != nil {
			return nil, nil, err
		}
		return queryir.And{Predicates: preds}, func(obj binder.Object) bool {
			for _, e := range evals {
				if !e(obj) {
					return false
				}
			}
			return true
		}, nil
	case orNode:
		preds, evals, err := cc.compileAll(n.terms)
		if err != nil {
			return nil, nil, err
		}
		return queryir.Or{Predicates: preds}, func(obj binder.Object) bool {
			for _, e := range evals {
				if e(obj) {
					return true
				}
			}
			return false
		}, nil
	case notNode:
		pred, eval, err := cc.compile(n.term)
		if err != nil {
			return nil, nil, err
		}
		return queryir.Not{Predicate: pred}, func(obj binder.Object) bool {
			return !eval(obj)
		}, nil
	case cmpNode:
		return cc.compileCompare(n)
	}
	return nil, nil, fmt.Errorf("condition: unexpected node %T", n)
}

func (cc *compiler) compileAll(terms []node) ([]queryir.Predicate, []func(binder.Object) bool, error) {
	preds := make([]queryir.Predicate, len(terms))
	evals := make([]func(binder.Object) bool, len(terms))
	for i, t := range terms {
		p, e, err := cc.compile(t)
		if err != nil {
			return nil, nil, err
		}
		preds[i], evals[i] = p, e
	}
	return preds, evals, nil
}

func (cc *compiler) compileCompare(n cmpNode) (queryir.Predicate, func(binder.Object) bool, error) {
	acc, err := cc.binder.Bind(cc.typeName, n.path)
	if err != nil {
		return nil, nil, err
	}
	if err := acc.CheckAccess(cc.actor); err != nil {
		return nil, nil, err
	}

	cmp := queryir.Compare{
		Path: queryir.Path{Segments: acc.Path, Kind: acc.Kind},
		Op:   n.op,
		Fold: n.fold,
	}

	if n.bare {
		if acc.Kind != ir.KindBool {
			return nil, nil, queryerr.Semantic("%s is %s, not bool; compare it with a value", acc, acc.Kind).WithToken(n.tok)
		}
		cmp.Op = queryir.OpEq
		cmp.Value = ir.IRBool(true)
	} else {
		lit, err := coerceLiteral(n, acc.Kind)
		if err != nil {
			return nil, nil, err
		}
		cmp.Value = lit
		if err := checkOperator(cmp, n.tok); err != nil {
			return nil, nil, err
		}
	}

	return cmp, func(obj binder.Object) bool {
		return Match(cmp, acc.Read(obj))
	}, nil
}

// coerceLiteral types a literal by the property kind. Unquoted "null" is
// null for every kind; a quoted literal is always a string.
func coerceLiteral(n cmpNode, kind ir.Kind) (ir.IRValue, error) {
	if !n.quoted && fold(n.lit) == "null" {
		return ir.IRNull{}, nil
	}

	mismatch := func() error {
		return queryerr.Semantic("value %q does not match %s property %s", n.lit, kind, n.path).WithToken(n.tok)
	}

	switch kind {
	case ir.KindString:
		return ir.IRString(n.lit), nil
	case ir.KindInt:
		if n.quoted {
			return nil, mismatch()
		}
		v, err := ir.ParseInt(n.lit)
		if err != nil {
			return nil, mismatch()
		}
		return ir.IRInt(v), nil
	case ir.KindBool:
		if n.quoted {
			return nil, mismatch()
		}
		switch fold(n.lit) {
		case "true":
			return ir.IRBool(true), nil
		case "false":
			return ir.IRBool(false), nil
		}
		return nil, mismatch()
	}
	return nil, mismatch()
}

func checkOperator(c queryir.Compare, tok string) error {
	_, isNull := c.Value.(ir.IRNull)
	switch {
	case isNull && c.Op != queryir.OpEq && c.Op != queryir.OpNe:
		return queryerr.Semantic("null only supports == and !=").WithToken(tok)
	case c.Op.IsString() && c.Path.Kind != ir.KindString:
		return queryerr.Semantic("%s requires a string property, %s is %s", c.Op, c.Path, c.Path.Kind).WithToken(tok)
	case c.Fold && c.Path.Kind != ir.KindString:
		return queryerr.Semantic("case-insensitive %s requires a string property, %s is %s", c.Op, c.Path, c.Path.Kind).WithToken(tok)
	}
	return nil
}

// Match evaluates one comparison against a property value. Equality is
// null-safe; ordering and string operators are false on null.
func Match(c queryir.Compare, v ir.IRValue) bool {
	if v == nil {
		v = ir.IRNull{}
	}
	lit := c.Value

	if c.Fold {
		if s, ok := v.(ir.IRString); ok {
			v = ir.IRString(fold(string(s)))
		}
		if s, ok := lit.(ir.IRString); ok {
			lit = ir.IRString(fold(string(s)))
		}
	}

	switch c.Op {
	case queryir.OpEq:
		return ir.Equal(v, lit)
	case queryir.OpNe:
		return !ir.Equal(v, lit)
	}

	if _, null := v.(ir.IRNull); null {
		return false
	}

	if c.Op.IsOrdering() {
		r := ir.Compare(v, lit)
		switch c.Op {
		case queryir.OpLt:
			return r < 0
		case queryir.OpLe:
			return r <= 0
		case queryir.OpGt:
			return r > 0
		case queryir.OpGe:
			return r >= 0
		}
	}

	s, ok := v.(ir.IRString)
	if !ok {
		return false
	}
	needle, ok := lit.(ir.IRString)
	if !ok {
		return false
	}
	switch c.Op {
	case queryir.OpContains:
		return strings.Contains(string(s), string(needle))
	case queryir.OpStarts:
		return strings.HasPrefix(string(s), string(needle))
	case queryir.OpEnds:
		return strings.HasSuffix(string(s), string(needle))
	}
	return false
}

func fold(s string) string {
	return ir.FoldCase(s)
}
