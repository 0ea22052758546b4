package extension

import (
	"fmt"
	"log/slog"

	"github.com/aasr-admin/uoAvox-Server-Development-sub001/internal/ir"
	"github.com/aasr-admin/uoAvox-Server-Development-sub001/internal/queryir"
)

// Pipeline is the order-sorted set of extensions parsed for one
// invocation.
type Pipeline struct {
	Extensions []Extension

	// BaseType is non-nil iff a Where was parsed.
	BaseType *ir.TypeSpec
}

// Execute keeps the candidates every extension considers valid, then runs
// each Filter in order. candidates is never reordered or modified.
func (p *Pipeline) Execute(candidates []Object) ([]Object, error) {
	working := make([]Object, 0, len(candidates))
	for _, obj := range candidates {
		if p.isValid(obj) {
			working = append(working, obj)
		}
	}
	slog.Debug("validity pass", "candidates", len(candidates), "valid", len(working))

	for _, ext := range p.Extensions {
		in := len(working)
		out, err := ext.Filter(working)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ext.Name(), err)
		}
		working = out
		slog.Debug("stage applied", "stage", ext.Name(), "in", in, "out", len(working))
	}
	return working, nil
}

func (p *Pipeline) isValid(obj Object) bool {
	for _, ext := range p.Extensions {
		if !ext.IsValid(obj) {
			return false
		}
	}
	return true
}

// Len returns the number of stages.
func (p *Pipeline) Len() int {
	return len(p.Extensions)
}

// Stages describes each stage in execution order.
func (p *Pipeline) Stages() []string {
	stages := make([]string, len(p.Extensions))
	for i, ext := range p.Extensions {
		stages[i] = ext.String()
	}
	return stages
}

// Query lowers the pipeline into a single select. It fails if a stage
// cannot be lowered.
func (p *Pipeline) Query() (queryir.Select, error) {
	sel := queryir.Select{Limit: queryir.NoLimit}
	for _, ext := range p.Extensions {
		l, ok := ext.(Lowerer)
		if !ok {
			return sel, fmt.Errorf("%s has no query form", ext.Name())
		}
		if err := l.Lower(&sel); err != nil {
			return sel, err
		}
	}
	return sel, nil
}
