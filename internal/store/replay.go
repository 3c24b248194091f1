package store

import (
	"context"
	"fmt"

	"github.com/roach88/mfsm/internal/fsm"
)

// ReplayResult compares a recorded run with a fresh drive of the same input.
type ReplayResult struct {
	RunID    string      `json:"run_id"`
	Recorded Run         `json:"recorded"`
	Replayed fsm.Outcome `json:"replayed"`
	Match    bool        `json:"match"`
	Diffs    []string    `json:"diffs,omitempty"`
}

// Replay drives e over the input of a stored run, in the run's strict mode,
// and reports every difference from the recording. Step seq values are not
// compared because they depend on the clock the engine was built with.
//
// The engine's strict mode is restored before returning.
func (s *Store) Replay(ctx context.Context, runID string, e *fsm.Engine) (ReplayResult, error) {
	run, steps, err := s.ReadRun(ctx, runID)
	if err != nil {
		return ReplayResult{}, fmt.Errorf("replay: %w", err)
	}

	prevStrict := e.Strict()
	e.SetStrict(run.Strict)
	out := e.Drive(run.Input)
	e.SetStrict(prevStrict)

	result := ReplayResult{
		RunID:    runID,
		Recorded: run,
		Replayed: out,
	}

	if out.Accepted != run.Accepted {
		result.Diffs = append(result.Diffs, fmt.Sprintf("accepted: recorded %t, replayed %t", run.Accepted, out.Accepted))
	}
	if out.Derailed != run.Derailed {
		result.Diffs = append(result.Diffs, fmt.Sprintf("derailed: recorded %t, replayed %t", run.Derailed, out.Derailed))
	}
	if out.Consumed != run.Consumed {
		result.Diffs = append(result.Diffs, fmt.Sprintf("consumed: recorded %d, replayed %d", run.Consumed, out.Consumed))
	}
	if out.Final != run.FinalState {
		result.Diffs = append(result.Diffs, fmt.Sprintf("final state: recorded %q, replayed %q", run.FinalState, out.Final))
	}
	result.Diffs = append(result.Diffs, diffSteps(steps, out.Steps)...)

	result.Match = len(result.Diffs) == 0
	return result, nil
}

func diffSteps(recorded, replayed []fsm.Step) []string {
	var diffs []string
	if len(recorded) != len(replayed) {
		diffs = append(diffs, fmt.Sprintf("steps: recorded %d, replayed %d", len(recorded), len(replayed)))
	}
	n := min(len(recorded), len(replayed))
	for i := 0; i < n; i++ {
		a, b := recorded[i], replayed[i]
		a.Seq, b.Seq = 0, 0
		if a != b {
			diffs = append(diffs, fmt.Sprintf("step %d: recorded %s -%s-> %s, replayed %s -%s-> %s",
				i, a.From, a.Rule, a.To, b.From, b.Rule, b.To))
		}
	}
	return diffs
}
