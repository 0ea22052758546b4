package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/aasr-admin/uoAvox-Server-Development-sub001/internal/ir"
)

// Snapshot renders the deterministic part of a result as canonical JSON.
// The digest is left out: it is checked by comparing runs, not by file.
func Snapshot(scenario *Scenario, result *Result) ([]byte, error) {
	return ir.MarshalCanonical(toCanonicalMap(scenario, result))
}

// toCanonicalMap converts a result to a map[string]any for canonical JSON
// serialization. ir.MarshalCanonical only handles IR types and primitives.
func toCanonicalMap(scenario *Scenario, result *Result) map[string]any {
	m := map[string]any{
		"scenario": scenario.Name,
		"actor": map[string]any{
			"name":   scenario.Actor.Name,
			"access": scenario.Actor.Access.String(),
		},
		"command": stringList(scenario.Command),
	}

	if result.Err != nil {
		m["error"] = string(result.Err.Code)
		return m
	}

	res := result.Command
	rows := make([]any, len(res.Rows))
	for i, row := range res.Rows {
		rows[i] = row.Record()
	}
	m["id"] = res.ID
	m["seq"] = res.Seq
	m["columns"] = stringList(res.Columns)
	m["stages"] = stringList(res.Stages)
	m["mode"] = res.Mode
	m["candidates"] = res.Candidates
	m["rows"] = rows
	if res.BaseType != "" {
		m["base_type"] = res.BaseType
	}
	return m
}

func stringList(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

// RunWithGolden executes a scenario and compares the result against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails. Test failure (via goldie)
// occurs if the result doesn't match the golden file.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an already computed result against its golden
// file without re-running the scenario.
func AssertGolden(t *testing.T, scenario *Scenario, result *Result) error {
	t.Helper()

	data, err := Snapshot(scenario, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, data)
	return nil
}
