package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario defines a conformance test scenario.
// A scenario names one automaton from a set of CUE definitions, drives it
// over each case input and asserts on the outcomes, the recorded trace and
// the rows left in the store.
type Scenario struct {
	// Name uniquely identifies this scenario.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Specs lists CUE files or directories holding automaton definitions.
	Specs []string `yaml:"specs"`

	// Automaton is the name of the definition under test.
	Automaton string `yaml:"automaton"`

	// Strict overrides the definition's strict flag when set.
	Strict *bool `yaml:"strict,omitempty"`

	// Cases are driven in order against the same engine.
	Cases []Case `yaml:"cases"`

	// Assertions validate the final trace and state.
	// Supported types: trace_contains, trace_order, trace_count, store_row
	Assertions []Assertion `yaml:"assertions"`
}

// Case is one input with its expected outcome.
type Case struct {
	Input string `yaml:"input"`

	// Expect is the expected acceptance result. Required.
	Expect *bool `yaml:"expect"`

	// FinalState, when set, must equal the state the drive ended in.
	FinalState string `yaml:"final_state,omitempty"`

	// Derailed, when set, must equal the strict-mode derailment flag.
	Derailed *bool `yaml:"derailed,omitempty"`
}

// Assertion validates trace or final state.
type Assertion struct {
	// Type specifies the assertion type:
	// - "trace_contains": a step matching From/To/Rule appears in the trace
	// - "trace_order": States are entered in the given order
	// - "trace_count": steps matching From/To/Rule appear exactly Count times
	// - "store_row": query Table and verify expected column values
	Type string `yaml:"type"`

	// From, To and Rule filter steps (trace_contains, trace_count).
	// Empty fields match anything.
	From string `yaml:"from,omitempty"`
	To   string `yaml:"to,omitempty"`
	Rule string `yaml:"rule,omitempty"`

	// Table is the store table name (used by store_row).
	Table string `yaml:"table,omitempty"`

	// Where specifies query filters (used by store_row).
	// All fields must match exactly.
	Where map[string]interface{} `yaml:"where,omitempty"`

	// Expect contains expected column values (used by store_row).
	// Subset match - only specified fields are validated.
	Expect map[string]interface{} `yaml:"expect,omitempty"`

	// Count is the expected number of matching steps (used by trace_count).
	Count int `yaml:"count,omitempty"`

	// States is the expected order of entered states (used by trace_order).
	States []string `yaml:"states,omitempty"`
}

// Assertion type constants.
const (
	AssertTraceContains = "trace_contains"
	AssertTraceOrder    = "trace_order"
	AssertTraceCount    = "trace_count"
	AssertStoreRow      = "store_row"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	return LoadScenarioWithBasePath(path, "")
}

// LoadScenarioWithBasePath reads and parses a scenario YAML file,
// resolving relative spec paths against basePath.
func LoadScenarioWithBasePath(path, basePath string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	// Resolve spec paths BEFORE validation so existence checks see real paths
	for i, specPath := range scenario.Specs {
		if !filepath.IsAbs(specPath) && basePath != "" {
			scenario.Specs[i] = filepath.Join(basePath, specPath)
		}
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Specs) == 0 {
		return fmt.Errorf("specs list is required and must be non-empty")
	}

	for i, specPath := range s.Specs {
		if _, err := os.Stat(specPath); err != nil {
			return fmt.Errorf("specs[%d]: %q not found", i, specPath)
		}
	}

	if s.Automaton == "" {
		return fmt.Errorf("automaton is required")
	}

	if len(s.Cases) == 0 {
		return fmt.Errorf("cases list is required and must be non-empty")
	}

	for i, c := range s.Cases {
		if c.Expect == nil {
			return fmt.Errorf("cases[%d]: expect is required", i)
		}
	}

	for i, a := range s.Assertions {
		switch a.Type {
		case AssertTraceContains, AssertTraceCount:
			if a.From == "" && a.To == "" && a.Rule == "" {
				return fmt.Errorf("assertions[%d]: %s needs at least one of from, to, rule", i, a.Type)
			}
		case AssertTraceOrder:
			if len(a.States) == 0 {
				return fmt.Errorf("assertions[%d]: trace_order requires states", i)
			}
		case AssertStoreRow:
			if a.Table == "" {
				return fmt.Errorf("assertions[%d]: store_row requires table", i)
			}
		case "":
			return fmt.Errorf("assertions[%d]: type is required", i)
		default:
			return fmt.Errorf("assertions[%d]: unknown assertion type %q", i, a.Type)
		}
	}

	return nil
}
