package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/aasr-admin/uoAvox-Server-Development-sub001/internal/ir"
	"github.com/aasr-admin/uoAvox-Server-Development-sub001/internal/queryerr"
	"github.com/aasr-admin/uoAvox-Server-Development-sub001/internal/world"
)

// Scenario defines one command and its expected outcome.
type Scenario struct {
	// Name uniquely identifies this scenario. It names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Types is the CUE type directory. Relative paths resolve against the
	// scenario file.
	Types string `yaml:"types"`

	// World is a YAML snapshot file. Mutually exclusive with Objects.
	World string `yaml:"world,omitempty"`

	// Objects is an inline world, in the snapshot file layout.
	Objects []world.ObjectEntry `yaml:"objects,omitempty"`

	// Actor invokes the command.
	Actor ir.Actor `yaml:"actor"`

	// Command is the token list, exactly as a player would type it.
	Command []string `yaml:"command"`

	// InvocationID is the fixed id stamped on the result.
	// If empty, defaults to "test-invocation".
	InvocationID string `yaml:"invocation_id,omitempty"`

	// Pushdown evaluates through a SQLite store with SQL pushdown enabled.
	Pushdown bool `yaml:"pushdown,omitempty"`

	Expect Expectation `yaml:"expect"`
}

// Expectation lists what the command must produce. Unset fields are not
// checked.
type Expectation struct {
	// Serials is the exact result order. An explicit empty list expects no
	// rows.
	Serials []int64 `yaml:"serials,omitempty"`

	// Columns is the expected remaining (unconsumed) token list.
	Columns []string `yaml:"columns,omitempty"`

	// Stages is the expected ordered stage list.
	Stages []string `yaml:"stages,omitempty"`

	// Mode is "memory" or "sql".
	Mode string `yaml:"mode,omitempty"`

	// Error is the expected error code. When set, the command must fail.
	Error queryerr.Code `yaml:"error,omitempty"`

	// Message must be a substring of the error message.
	Message string `yaml:"message,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
// Types and World paths are resolved relative to the scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Reject unknown fields so "expects:" is not silently ignored
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	base := filepath.Dir(path)
	scenario.Types = resolve(base, scenario.Types)
	scenario.World = resolve(base, scenario.World)

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

func resolve(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Types == "" {
		return fmt.Errorf("types directory is required")
	}
	if _, err := os.Stat(s.Types); os.IsNotExist(err) {
		return fmt.Errorf("types directory not found: %s", s.Types)
	}

	if s.World != "" && len(s.Objects) > 0 {
		return fmt.Errorf("world and objects are mutually exclusive")
	}
	if s.World != "" {
		if _, err := os.Stat(s.World); os.IsNotExist(err) {
			return fmt.Errorf("world file not found: %s", s.World)
		}
	}

	if s.Actor.Name == "" {
		return fmt.Errorf("actor.name is required")
	}

	if len(s.Command) == 0 {
		return fmt.Errorf("command is required and must be non-empty")
	}

	switch s.Expect.Error {
	case "", queryerr.CodeSyntax, queryerr.CodeBinding, queryerr.CodeSemantic:
	default:
		return fmt.Errorf("expect.error: unknown error code %q", s.Expect.Error)
	}
	if s.Expect.Error != "" && s.Expect.Serials != nil {
		return fmt.Errorf("expect: serials and error are mutually exclusive")
	}

	return nil
}
