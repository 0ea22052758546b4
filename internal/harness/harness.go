package harness

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aasr-admin/uoAvox-Server-Development-sub001/internal/command"
	"github.com/aasr-admin/uoAvox-Server-Development-sub001/internal/queryerr"
	"github.com/aasr-admin/uoAvox-Server-Development-sub001/internal/schema"
	"github.com/aasr-admin/uoAvox-Server-Development-sub001/internal/store"
	"github.com/aasr-admin/uoAvox-Server-Development-sub001/internal/world"
)

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass is true if every expectation held.
	Pass bool `json:"pass"`

	// Errors contains expectation failures. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Command is the command result. Nil when the command was rejected.
	Command *command.Result `json:"command,omitempty"`

	// Err is the rejection, if any.
	Err *queryerr.Error `json:"-"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{Pass: true, Errors: []string{}}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Run executes a scenario and returns the result.
//
// A command rejected with a query error is an outcome, not a failure of
// Run: it is recorded in Result.Err and checked against the expectation.
// Any other error (unreadable types, invalid world, store failure) is
// returned.
func Run(scenario *Scenario) (*Result, error) {
	ctx := context.Background()

	catalog, err := schema.LoadDir(scenario.Types)
	if err != nil {
		return nil, fmt.Errorf("failed to load types: %w", err)
	}

	snap, err := loadWorld(scenario, catalog)
	if err != nil {
		return nil, err
	}

	var ids *command.FixedGenerator
	if scenario.InvocationID != "" {
		ids = command.NewFixedGenerator(scenario.InvocationID)
	} else {
		ids = command.NewFixedGenerator()
	}
	runner := command.NewRunner(catalog,
		command.WithIDGenerator(ids),
		command.WithClock(command.NewClockAt(0)),
		command.WithPushdown(scenario.Pushdown),
	)

	var src command.Source = snap
	if scenario.Pushdown {
		st, cleanup, err := scratchStore(ctx, scenario.Name, snap)
		if err != nil {
			return nil, err
		}
		defer cleanup()
		src = st
	}

	result := NewResult()
	res, err := runner.Run(ctx, scenario.Actor, scenario.Command, src)
	if err != nil {
		var qe *queryerr.Error
		if !errors.As(err, &qe) {
			return nil, fmt.Errorf("failed to execute command: %w", err)
		}
		result.Err = qe
	} else {
		result.Command = res
	}

	for _, msg := range checkExpectations(result, scenario.Expect) {
		result.AddError(msg)
	}
	return result, nil
}

func loadWorld(scenario *Scenario, catalog *schema.Catalog) (*world.Snapshot, error) {
	if scenario.World != "" {
		snap, err := world.LoadFile(scenario.World, catalog)
		if err != nil {
			return nil, fmt.Errorf("failed to load world: %w", err)
		}
		return snap, nil
	}
	snap, err := world.FromEntries(scenario.Objects, catalog)
	if err != nil {
		return nil, fmt.Errorf("invalid objects: %w", err)
	}
	return snap, nil
}

// scratchStore imports snap into a throwaway SQLite file. The returned
// cleanup closes and removes it.
func scratchStore(ctx context.Context, name string, snap *world.Snapshot) (*store.Store, func(), error) {
	dir, err := os.MkdirTemp("", "wherecmd-scenario-*")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create scratch dir: %w", err)
	}
	cleanup := func() { os.RemoveAll(dir) }

	st, err := store.Open(filepath.Join(dir, "world.db"))
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("failed to open scratch store: %w", err)
	}
	if _, err := st.ImportSnapshot(ctx, name, "scenario", snap.Objects()); err != nil {
		st.Close()
		cleanup()
		return nil, nil, fmt.Errorf("failed to import world: %w", err)
	}

	return st, func() {
		st.Close()
		cleanup()
	}, nil
}
