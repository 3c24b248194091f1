package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/mfsm/internal/fsm"
)

func boolPtr(b bool) *bool { return &b }

func aabScenario() *Scenario {
	return &Scenario{
		Name:        "aab",
		Description: "a(ab)^n",
		Specs:       []string{"testdata/specs/samples.cue"},
		Automaton:   "aab",
		Cases: []Case{
			{Input: "a", Expect: boolPtr(true), FinalState: "S1"},
			{Input: "aabab", Expect: boolPtr(true)},
			{Input: "aac", Expect: boolPtr(false), Derailed: boolPtr(true)},
		},
	}
}

func TestRun_Passes(t *testing.T) {
	result, err := Run(aabScenario())
	require.NoError(t, err)

	assert.True(t, result.Pass, result.Errors)
	assert.Empty(t, result.Errors)
	assert.Equal(t, "aab", result.Automaton)
	assert.Len(t, result.SpecHash, 64)

	require.Len(t, result.Cases, 3)
	assert.Equal(t, "run-0001", result.Cases[0].RunID)
	assert.Equal(t, "run-0003", result.Cases[2].RunID)
	assert.Equal(t, "S2", result.Cases[2].Final)
	assert.True(t, result.Cases[2].Derailed)
}

func TestRun_TraceSeqIsContiguous(t *testing.T) {
	result, err := Run(aabScenario())
	require.NoError(t, err)

	// seq 1 stamps the stored automaton
	for i, ev := range result.Trace {
		assert.Equal(t, int64(i+2), ev.Seq, "event %d", i)
	}

	// a: 1 step, aabab: 5 steps, aac: 3 steps, plus one run event each
	assert.Len(t, result.Trace, 12)
	assert.Len(t, result.Steps(), 9)
}

func TestRun_Deterministic(t *testing.T) {
	first, err := Run(aabScenario())
	require.NoError(t, err)
	second, err := Run(aabScenario())
	require.NoError(t, err)

	assert.Equal(t, first.Trace, second.Trace)
	assert.Equal(t, first.SpecHash, second.SpecHash)
}

func TestRun_ReportsExpectationFailures(t *testing.T) {
	scenario := aabScenario()
	scenario.Cases = []Case{
		{Input: "aa", Expect: boolPtr(true), FinalState: "S1", Derailed: boolPtr(true)},
	}

	result, err := Run(scenario)
	require.NoError(t, err)

	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 3)
	assert.Contains(t, result.Errors[0], "expected accepted=true, got false")
	assert.Contains(t, result.Errors[1], `expected final state "S1", got "S2"`)
	assert.Contains(t, result.Errors[2], "expected derailed=true, got false")
	assert.False(t, result.Cases[0].Pass)
}

func TestRun_StrictOverride(t *testing.T) {
	scenario := aabScenario()
	scenario.Strict = boolPtr(false)
	scenario.Cases = []Case{
		// Lax mode skips the c and stays in the final state
		{Input: "ac", Expect: boolPtr(true), FinalState: "S1", Derailed: boolPtr(false)},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, result.Errors)
}

func TestRun_LoadsDirectories(t *testing.T) {
	scenario := &Scenario{
		Name:        "dir",
		Description: "specs from a package directory",
		Specs:       []string{"testdata/specs"},
		Automaton:   "dotinfo",
		Cases:       []Case{{Input: "pippo.info", Expect: boolPtr(true)}},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, result.Errors)
}

func TestRun_UnknownAutomaton(t *testing.T) {
	scenario := aabScenario()
	scenario.Automaton = "missing"

	_, err := Run(scenario)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `automaton "missing" not found`)
}

func TestRun_InvalidAutomaton(t *testing.T) {
	dir := t.TempDir()
	src := `package bad

automaton: bad: {
	start: "nowhere"
	connections: [{from: "S0", to: "S1", rule: "a"}]
}
`
	path := filepath.Join(dir, "bad.cue")
	require.NoError(t, os.WriteFile(path, []byte(src), 0644))

	_, err := Run(&Scenario{
		Name:        "bad",
		Description: "unknown start",
		Specs:       []string{path},
		Automaton:   "bad",
		Cases:       []Case{{Input: "a", Expect: boolPtr(true)}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is invalid")
}

func TestRun_SpecCompileError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.cue")
	require.NoError(t, os.WriteFile(path, []byte("automaton: x: {"), 0644))

	scenario := aabScenario()
	scenario.Specs = []string{path}

	_, err := Run(scenario)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.cue")
}

func TestRun_Assertions(t *testing.T) {
	scenario := aabScenario()
	scenario.Assertions = []Assertion{
		{Type: AssertTraceCount, Rule: "b", Count: 2},
		{Type: AssertStoreRow, Table: "runs", Where: map[string]interface{}{"id": "run-0002"}, Expect: map[string]interface{}{"input": "aabab", "accepted": true}},
		{Type: AssertTraceContains, From: "S0", To: "S2"},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "trace_contains")
}

func TestObservedSteps(t *testing.T) {
	rec := &fsm.Recorder{}
	e := fsm.New(fsm.WithTracer(rec))
	e.DeclareState("S1", true)
	e.Connect("S0", "S1", "a")
	e.SetStart("S0")

	out := e.Drive("ab")
	steps, err := observedSteps(rec, out)
	require.NoError(t, err)
	assert.Equal(t, out.Steps, steps)
	require.Len(t, steps, 2)
	assert.False(t, steps[1].Matched)

	t.Run("missing steps", func(t *testing.T) {
		_, err := observedSteps(&fsm.Recorder{}, out)
		assert.ErrorContains(t, err, "tracer observed 0 step(s), drive returned 2")
	})

	t.Run("missing acceptance check", func(t *testing.T) {
		partial := &fsm.Recorder{Steps: rec.Steps}
		_, err := observedSteps(partial, out)
		assert.ErrorContains(t, err, `no acceptance check on final state "S1"`)
	})

	t.Run("engine without states", func(t *testing.T) {
		empty := &fsm.Recorder{}
		steps, err := observedSteps(empty, fsm.New(fsm.WithTracer(empty)).Drive("x"))
		require.NoError(t, err)
		assert.Empty(t, steps)
	})
}
