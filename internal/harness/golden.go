package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/mfsm/internal/ir"
)

// TraceSnapshot captures the complete trace for a scenario execution.
// All fields use canonical JSON serialization for deterministic comparison.
type TraceSnapshot struct {
	ScenarioName string       `json:"scenario_name"`
	Automaton    string       `json:"automaton"`
	Trace        []TraceEvent `json:"trace"`
}

// toCanonicalMap converts a TraceSnapshot to a map[string]any for canonical JSON serialization.
// Step events carry from/symbol/to/rule/matched; run events carry the outcome.
func (s *TraceSnapshot) toCanonicalMap() map[string]any {
	traceList := make([]any, len(s.Trace))
	for i, event := range s.Trace {
		eventMap := map[string]any{
			"type": event.Type,
			"seq":  event.Seq,
			"case": event.Case,
		}
		switch event.Type {
		case EventStep:
			eventMap["from"] = event.From
			eventMap["symbol"] = event.Symbol
			eventMap["to"] = event.To
			eventMap["matched"] = event.Matched
			if event.Rule != "" {
				eventMap["rule"] = event.Rule
			}
		case EventRun:
			eventMap["run_id"] = event.RunID
			eventMap["input"] = event.Input
			eventMap["accepted"] = event.Accepted
			eventMap["derailed"] = event.Derailed
			eventMap["consumed"] = event.Consumed
			eventMap["final"] = event.Final
		}
		traceList[i] = eventMap
	}

	return map[string]any{
		"scenario_name": s.ScenarioName,
		"automaton":     s.Automaton,
		"trace":         traceList,
	}
}

// Canonical returns the canonical JSON form of the snapshot.
func (s *TraceSnapshot) Canonical() ([]byte, error) {
	return ir.MarshalCanonical(s.toCanonicalMap())
}

// RunWithGolden executes a scenario and compares the trace against a golden file.
// The golden file is stored in testdata/golden/{scenario.Name}.golden
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if trace doesn't match golden file.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}

	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares the given result's trace against a golden file
// without re-running the scenario.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	snapshot := TraceSnapshot{
		ScenarioName: scenarioName,
		Automaton:    result.Automaton,
		Trace:        result.Trace,
	}

	traceJSON, err := snapshot.Canonical()
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, traceJSON)

	return nil
}
