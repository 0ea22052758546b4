package command

import (
	"slices"

	"github.com/aasr-admin/uoAvox-Server-Development-sub001/internal/ir"
	"github.com/aasr-admin/uoAvox-Server-Development-sub001/internal/queryir"
	"github.com/aasr-admin/uoAvox-Server-Development-sub001/internal/querysql"
)

// Plan describes how a command would be evaluated, without reading any
// source.
type Plan struct {
	Columns  []string `json:"columns"`
	Stages   []string `json:"stages"`
	BaseType string   `json:"base_type,omitempty"`

	// SQL is empty when the pipeline has no single-select form.
	SQL    string `json:"sql,omitempty"`
	Params []any  `json:"params,omitempty"`

	Portable bool     `json:"portable"`
	Warnings []string `json:"warnings,omitempty"`
}

// Explain parses tokens and renders the pipeline's SQL form. Parse,
// binding and access errors are returned exactly as Run would return
// them.
func (r *Runner) Explain(actor ir.Actor, tokens []string) (*Plan, error) {
	remaining, pipeline, err := r.parser.Parse(actor, tokens)
	if err != nil {
		return nil, err
	}
	if _, err := r.projection(actor, pipeline.BaseType, remaining); err != nil {
		return nil, err
	}

	plan := &Plan{
		Columns: slices.Clone(remaining),
		Stages:  pipeline.Stages(),
	}
	if pipeline.BaseType != nil {
		plan.BaseType = pipeline.BaseType.Name
	}

	sel, err := pipeline.Query()
	if err != nil {
		plan.Warnings = []string{err.Error()}
		return plan, nil
	}

	v := queryir.Validate(sel)
	plan.Portable = v.IsPortable
	plan.Warnings = v.Warnings

	query, params, err := querysql.NewSQLCompiler().Compile(sel)
	if err != nil {
		plan.Portable = false
		plan.Warnings = append(plan.Warnings, err.Error())
		return plan, nil
	}
	plan.SQL = query
	plan.Params = params
	return plan, nil
}
