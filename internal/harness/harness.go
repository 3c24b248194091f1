package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"

	"github.com/roach88/mfsm/internal/compiler"
	"github.com/roach88/mfsm/internal/fsm"
	"github.com/roach88/mfsm/internal/ir"
	"github.com/roach88/mfsm/internal/store"
	"github.com/roach88/mfsm/internal/testutil"
)

// Harness is the test execution engine.
// It runs scenarios with a deterministic clock and sequential run IDs.
type Harness struct {
	store    *store.Store
	engine   *fsm.Engine
	recorder *fsm.Recorder
	clock    *testutil.DeterministicClock
	ids      *testutil.SequentialIDs
	logger   *slog.Logger
	specHash string
}

// Run executes a test scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation.
//
// Execution flow:
// 1. Create fresh in-memory database
// 2. Load, compile and validate the automaton definitions
// 3. Build the engine and record the definition
// 4. Drive every case, recording runs and steps
// 5. Evaluate assertions and return the result
//
// An error is returned when the scenario cannot be executed at all;
// expectation and assertion failures are reported in the Result.
func Run(scenario *Scenario) (*Result, error) {
	st, err := store.Open(store.MemoryPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	spec, err := loadAutomaton(scenario.Specs, scenario.Automaton)
	if err != nil {
		return nil, err
	}

	var problems []error
	for _, v := range compiler.Validate(spec) {
		if v.Severity == compiler.SeverityError {
			problems = append(problems, v)
		}
	}
	if len(problems) > 0 {
		return nil, fmt.Errorf("automaton %q is invalid: %w", spec.Name, errors.Join(problems...))
	}

	clock := testutil.NewDeterministicClock()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil)) // Suppress logs in tests

	rec := &fsm.Recorder{}
	eng, err := compiler.Build(spec, fsm.WithClock(clock), fsm.WithLogger(logger), fsm.WithTracer(rec))
	if err != nil {
		return nil, fmt.Errorf("failed to build automaton: %w", err)
	}
	if scenario.Strict != nil {
		eng.SetStrict(*scenario.Strict)
	}

	ctx := context.Background()

	hash, err := st.WriteAutomaton(ctx, *spec, clock.Next())
	if err != nil {
		return nil, fmt.Errorf("failed to record automaton: %w", err)
	}

	h := &Harness{
		store:    st,
		engine:   eng,
		recorder: rec,
		clock:    clock,
		ids:      testutil.NewSequentialIDs("run"),
		logger:   logger,
		specHash: hash,
	}

	result := NewResult()
	result.Automaton = spec.Name
	result.SpecHash = hash

	if err := h.executeCases(ctx, scenario.Cases, result); err != nil {
		return nil, fmt.Errorf("failed to execute cases: %w", err)
	}

	actx := &AssertionContext{
		Store: st,
		Ctx:   ctx,
	}
	for _, errMsg := range EvaluateAssertions(result, scenario.Assertions, actx) {
		result.AddError(errMsg)
	}

	return result, nil
}

// executeCases drives every case in order and checks its expectations.
//
// Each case:
// 1. Drives the engine from the start state; the recorder observes it
// 2. Takes the run seq after the last step seq
// 3. Writes the run and its steps to the store
// 4. Compares the outcome against the case expectations
func (h *Harness) executeCases(ctx context.Context, cases []Case, result *Result) error {
	strict := h.engine.Strict()

	for i, c := range cases {
		h.recorder.Reset()
		out := h.engine.Drive(c.Input)
		steps, err := observedSteps(h.recorder, out)
		if err != nil {
			return fmt.Errorf("case %d (%q): %w", i, c.Input, err)
		}
		for _, step := range steps {
			result.AddStepTrace(i, step)
		}

		// Get seq ONCE and reuse for both the record and the trace
		runSeq := h.clock.Next()
		runID := h.ids.Generate()

		run := store.NewRun(runID, h.specHash, c.Input, strict, out, runSeq)
		if err := h.store.WriteRun(ctx, run, steps); err != nil {
			return fmt.Errorf("case %d: failed to write run: %w", i, err)
		}
		result.AddRunTrace(i, runID, c.Input, out, runSeq)

		cr := CaseResult{
			Input:    c.Input,
			RunID:    runID,
			Accepted: out.Accepted,
			Derailed: out.Derailed,
			Final:    out.Final,
			Pass:     true,
		}
		for _, msg := range checkCase(i, c, out) {
			cr.Pass = false
			result.AddError(msg)
		}
		result.Cases = append(result.Cases, cr)

		h.logger.Info("case completed",
			"case", i,
			"input", c.Input,
			"run_id", runID,
			"accepted", out.Accepted,
			"final", out.Final,
		)
	}

	return nil
}

// observedSteps returns the steps the tracer saw during one drive, after
// checking them against the outcome Drive returned: the same steps in the
// same order, and a final acceptance check on the state the drive ended in.
func observedSteps(rec *fsm.Recorder, out fsm.Outcome) ([]fsm.Step, error) {
	if !slices.Equal(rec.Steps, out.Steps) {
		return nil, fmt.Errorf("tracer observed %d step(s), drive returned %d", len(rec.Steps), len(out.Steps))
	}
	if out.Final == "" {
		return rec.Steps, nil
	}
	if n := len(rec.Accepts); n == 0 || rec.Accepts[n-1].State != out.Final {
		return nil, fmt.Errorf("tracer saw no acceptance check on final state %q", out.Final)
	}
	return rec.Steps, nil
}

// checkCase compares an outcome against a case's expectations.
func checkCase(i int, c Case, out fsm.Outcome) []string {
	var errs []string
	if c.Expect != nil && *c.Expect != out.Accepted {
		errs = append(errs, fmt.Sprintf("case %d (%q): expected accepted=%t, got %t (final state %q)",
			i, c.Input, *c.Expect, out.Accepted, out.Final))
	}
	if c.FinalState != "" && c.FinalState != out.Final {
		errs = append(errs, fmt.Sprintf("case %d (%q): expected final state %q, got %q",
			i, c.Input, c.FinalState, out.Final))
	}
	if c.Derailed != nil && *c.Derailed != out.Derailed {
		errs = append(errs, fmt.Sprintf("case %d (%q): expected derailed=%t, got %t",
			i, c.Input, *c.Derailed, out.Derailed))
	}
	return errs
}

// loadAutomaton compiles every spec path and returns the named automaton.
// Directories are loaded as CUE packages; files are compiled on their own.
func loadAutomaton(paths []string, name string) (*ir.AutomatonSpec, error) {
	var found []ir.AutomatonSpec
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("spec %q: %w", p, err)
		}

		var (
			res  *compiler.LoadResult
			errs []error
		)
		if info.IsDir() {
			res, errs = compiler.LoadDir(p)
		} else {
			data, err := os.ReadFile(p)
			if err != nil {
				return nil, fmt.Errorf("spec %q: %w", p, err)
			}
			res, errs = compiler.CompileSource(p, string(data))
		}
		if len(errs) > 0 {
			return nil, fmt.Errorf("spec %q: %w", p, errors.Join(errs...))
		}
		found = append(found, res.Automata...)
	}

	for i := range found {
		if found[i].Name == name {
			return &found[i], nil
		}
	}
	return nil, fmt.Errorf("automaton %q not found in specs", name)
}
