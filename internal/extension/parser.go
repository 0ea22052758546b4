package extension

import (
	"log/slog"
	"slices"

	"github.com/aasr-admin/uoAvox-Server-Development-sub001/internal/binder"
	"github.com/aasr-admin/uoAvox-Server-Development-sub001/internal/ir"
	"github.com/aasr-admin/uoAvox-Server-Development-sub001/internal/queryerr"
	"github.com/aasr-admin/uoAvox-Server-Development-sub001/internal/schema"
)

// Parser turns trailing command tokens into a pipeline.
type Parser struct {
	registry *Registry
	catalog  *schema.Catalog
	binder   *binder.Binder
}

// NewParser creates a parser over a registry and type binder. A nil
// registry uses Default().
func NewParser(registry *Registry, b *binder.Binder) *Parser {
	if registry == nil {
		registry = Default()
	}
	return &Parser{registry: registry, catalog: b.Catalog(), binder: b}
}

// Parse scans tokens from the tail. Every registered keyword consumes the
// tokens between it and the previous keyword; unregistered tokens are left
// for the caller. A fixed-arity keyword must sit exactly Arity tokens from
// the end of the unconsumed region.
//
// The extensions are then sorted by declared order and optimized in that
// order, so Where resolves the base type before Distinct and Sort bind
// against it. When several Where clauses are present the leftmost supplies
// the base type.
//
// Parse returns the unconsumed prefix of tokens. tokens is never modified.
func (p *Parser) Parse(actor ir.Actor, tokens []string) ([]string, *Pipeline, error) {
	env := &Env{Actor: actor, Catalog: p.catalog, Binder: p.binder}

	size := len(tokens)
	var (
		exts []Extension
		base *ir.TypeSpec
	)

	for i := size - 1; i >= 0; i-- {
		d, ok := p.registry.Lookup(tokens[i])
		if !ok {
			continue
		}

		if !d.IsVariadic() && i != size-d.Arity-1 {
			return nil, nil, queryerr.Syntax("invalid extended argument count").WithToken(tokens[i])
		}

		ext := d.New()
		if err := ext.Parse(env, slices.Clone(tokens[i+1:size])); err != nil {
			return nil, nil, err
		}
		if bt, ok := ext.(BaseTyper); ok && bt.BaseType() != nil {
			base = bt.BaseType()
		}

		exts = append(exts, ext)
		size = i
	}

	slices.SortStableFunc(exts, func(a, b Extension) int {
		return a.Order() - b.Order()
	})

	for _, ext := range exts {
		if err := ext.Optimize(env, base); err != nil {
			return nil, nil, err
		}
	}

	pipeline := &Pipeline{Extensions: exts, BaseType: base}
	slog.Debug("pipeline parsed",
		"actor", actor.Name,
		"stages", pipeline.Stages(),
		"remaining", size)

	return tokens[:size:size], pipeline, nil
}
