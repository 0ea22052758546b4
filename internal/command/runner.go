// Package command runs player commands: it splits trailing pipeline
// extensions off the tokens, evaluates them over a candidate source, and
// projects the remaining tokens as display columns.
package command

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/aasr-admin/uoAvox-Server-Development-sub001/internal/binder"
	"github.com/aasr-admin/uoAvox-Server-Development-sub001/internal/extension"
	"github.com/aasr-admin/uoAvox-Server-Development-sub001/internal/ir"
	"github.com/aasr-admin/uoAvox-Server-Development-sub001/internal/queryerr"
	"github.com/aasr-admin/uoAvox-Server-Development-sub001/internal/queryir"
	"github.com/aasr-admin/uoAvox-Server-Development-sub001/internal/querysql"
	"github.com/aasr-admin/uoAvox-Server-Development-sub001/internal/schema"
	"github.com/aasr-admin/uoAvox-Server-Development-sub001/internal/world"
)

// Source supplies the candidate list, in a stable order.
// Implemented by world.Snapshot and store.Store.
type Source interface {
	Candidates(ctx context.Context) ([]extension.Object, error)
}

// SQLSource is a Source that can also evaluate rendered SQL.
// Implemented by store.Store.
type SQLSource interface {
	Source
	QueryObjects(ctx context.Context, query string, args ...any) ([]*world.Object, error)
}

// Evaluation modes reported in Result.Mode.
const (
	ModeMemory = "memory"
	ModeSQL    = "sql"
)

// Runner evaluates commands for one type catalog.
//
// Thread-safety: Run is safe for concurrent use; each call parses a fresh
// pipeline.
type Runner struct {
	catalog  *schema.Catalog
	binder   *binder.Binder
	parser   *extension.Parser
	ids      IDGenerator
	clock    *Clock
	pushdown bool
}

// Option configures a Runner.
type Option func(*runnerConfig)

type runnerConfig struct {
	registry *extension.Registry
	ids      IDGenerator
	clock    *Clock
	pushdown bool
}

// WithRegistry parses with r instead of the default registry.
func WithRegistry(r *extension.Registry) Option {
	return func(c *runnerConfig) { c.registry = r }
}

// WithIDGenerator sets the invocation id generator.
// Default: UUIDv7Generator.
func WithIDGenerator(g IDGenerator) Option {
	return func(c *runnerConfig) { c.ids = g }
}

// WithClock sets the logical clock that stamps invocations.
func WithClock(clock *Clock) Option {
	return func(c *runnerConfig) { c.clock = clock }
}

// WithPushdown evaluates portable pipelines as SQL when the source is a
// SQLSource.
func WithPushdown(enabled bool) Option {
	return func(c *runnerConfig) { c.pushdown = enabled }
}

// NewRunner creates a runner over a type catalog.
func NewRunner(catalog *schema.Catalog, opts ...Option) *Runner {
	cfg := runnerConfig{ids: UUIDv7Generator{}, clock: NewClockAt(0)}
	for _, opt := range opts {
		opt(&cfg)
	}

	b := binder.New(catalog)
	return &Runner{
		catalog:  catalog,
		binder:   b,
		parser:   extension.NewParser(cfg.registry, b),
		ids:      cfg.ids,
		clock:    cfg.clock,
		pushdown: cfg.pushdown,
	}
}

// Result is the outcome of one command.
type Result struct {
	ID       string   `json:"id"`
	Seq      int64    `json:"seq"`
	Actor    ir.Actor `json:"actor"`
	Columns  []string `json:"columns"`
	Stages   []string `json:"stages"`
	BaseType string   `json:"base_type,omitempty"`
	Mode     string   `json:"mode"`

	// Candidates counts the objects read from the source: the whole
	// candidate list in memory mode, the matching rows in SQL mode.
	Candidates int `json:"candidates"`

	Rows   []Row  `json:"rows"`
	Digest string `json:"digest"`
}

// Serials lists the result's serials in row order.
func (r *Result) Serials() []int64 {
	out := make([]int64, len(r.Rows))
	for i, row := range r.Rows {
		out[i] = row.Serial
	}
	return out
}

// Row is one surviving object and its projected columns.
type Row struct {
	Serial int64       `json:"serial"`
	Type   string      `json:"type"`
	Values ir.IRObject `json:"values"`
}

// Record returns the row as a single IR object.
func (r Row) Record() ir.IRObject {
	return ir.IRObject{
		"serial": ir.IRInt(r.Serial),
		"type":   ir.IRString(r.Type),
		"values": r.Values,
	}
}

// Run parses tokens, loads candidates from src and evaluates the pipeline.
// Every parse, binding and access error is returned before src is read.
func (r *Runner) Run(ctx context.Context, actor ir.Actor, tokens []string, src Source) (*Result, error) {
	remaining, pipeline, err := r.parser.Parse(actor, tokens)
	if err != nil {
		slog.Warn("command rejected", "actor", actor.Name, "code", queryerr.CodeOf(err), "error", err)
		return nil, err
	}

	proj, err := r.projection(actor, pipeline.BaseType, remaining)
	if err != nil {
		slog.Warn("command rejected", "actor", actor.Name, "code", queryerr.CodeOf(err), "error", err)
		return nil, err
	}

	res := &Result{
		ID:      r.ids.Generate(),
		Seq:     r.clock.Next(),
		Actor:   actor,
		Columns: slices.Clone(remaining),
		Stages:  pipeline.Stages(),
		Mode:    ModeMemory,
	}
	if pipeline.BaseType != nil {
		res.BaseType = pipeline.BaseType.Name
	}

	objs, err := r.evaluate(ctx, pipeline, src, res)
	if err != nil {
		slog.Error("command failed", "id", res.ID, "actor", actor.Name, "error", err)
		return nil, err
	}

	res.Rows = make([]Row, len(objs))
	records := make([]ir.IRObject, len(objs))
	for i, obj := range objs {
		res.Rows[i] = proj.row(obj)
		records[i] = res.Rows[i].Record()
	}
	digest, err := ir.ResultDigest(records)
	if err != nil {
		return nil, fmt.Errorf("digest result: %w", err)
	}
	res.Digest = digest

	slog.Info("command executed",
		"id", res.ID,
		"seq", res.Seq,
		"actor", actor.Name,
		"stages", res.Stages,
		"mode", res.Mode,
		"candidates", res.Candidates,
		"rows", len(res.Rows))

	return res, nil
}

// evaluate runs the pipeline in SQL when pushdown applies, otherwise in
// memory over the source's candidates.
func (r *Runner) evaluate(ctx context.Context, pipeline *extension.Pipeline, src Source, res *Result) ([]extension.Object, error) {
	if sqlSrc, ok := src.(SQLSource); ok && r.pushdown {
		if query, params, ok := render(pipeline); ok {
			rows, err := sqlSrc.QueryObjects(ctx, query, params...)
			if err != nil {
				return nil, fmt.Errorf("query objects: %w", err)
			}
			res.Mode = ModeSQL
			res.Candidates = len(rows)
			out := make([]extension.Object, len(rows))
			for i, o := range rows {
				out[i] = o
			}
			return out, nil
		}
	}

	candidates, err := src.Candidates(ctx)
	if err != nil {
		return nil, fmt.Errorf("load candidates: %w", err)
	}
	res.Candidates = len(candidates)
	return pipeline.Execute(candidates)
}

// render lowers and compiles the pipeline, reporting false when the SQL
// form would not match in-memory evaluation.
func render(pipeline *extension.Pipeline) (string, []any, bool) {
	sel, err := pipeline.Query()
	if err != nil {
		slog.Debug("pushdown skipped", "reason", err)
		return "", nil, false
	}
	if v := queryir.Validate(sel); !v.IsPortable {
		slog.Debug("pushdown skipped", "warnings", v.Warnings)
		return "", nil, false
	}
	query, params, err := querysql.NewSQLCompiler().Compile(sel)
	if err != nil {
		slog.Debug("pushdown skipped", "reason", err)
		return "", nil, false
	}
	return query, params, true
}
