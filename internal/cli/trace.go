package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/mfsm/internal/fsm"
	"github.com/roach88/mfsm/internal/store"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Database string
}

// TraceResult holds a recorded run with its steps.
type TraceResult struct {
	Run       store.Run  `json:"run"`
	Automaton string     `json:"automaton"`
	Steps     []fsm.Step `json:"steps"`
	Stats     TraceStats `json:"stats"`
}

// TraceStats summarizes a recorded run.
type TraceStats struct {
	Steps     int `json:"steps"`
	Matched   int `json:"matched"`
	Unmatched int `json:"unmatched"`
}

// RunListing is the trace output when no run ID is given.
type RunListing struct {
	Runs []store.Run `json:"runs"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace [run-id]",
		Short: "Show recorded runs and their steps",
		Long: `Show the steps of a recorded run in seq order.

Without a run ID, lists every recorded run.

Examples:
  mfsm trace --db ./runs.db
  mfsm trace --db ./runs.db 01920d6e-7b5c-7000-8000-000000000000
  mfsm trace --db ./runs.db <run-id> --format json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return runListRuns(opts, cmd)
			}
			return runTrace(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runTrace(opts *TraceOptions, runID string, cmd *cobra.Command) error {
	f := newFormatter(opts.RootOptions, cmd)
	ctx := commandContext(cmd)

	st, err := openStore(f, opts.Database)
	if err != nil {
		return err
	}
	defer st.Close()

	run, steps, err := st.ReadRun(ctx, runID)
	if err != nil {
		return storeReadError(f, err)
	}

	result := TraceResult{Run: run, Steps: steps}
	if rec, err := st.ReadAutomaton(ctx, run.SpecHash); err == nil {
		result.Automaton = rec.Name
	}
	for _, s := range steps {
		result.Stats.Steps++
		if s.Matched {
			result.Stats.Matched++
		} else {
			result.Stats.Unmatched++
		}
	}

	if f.IsJSON() {
		return f.Success(result)
	}
	printTraceText(f.Writer, result)
	return nil
}

func runListRuns(opts *TraceOptions, cmd *cobra.Command) error {
	f := newFormatter(opts.RootOptions, cmd)
	ctx := commandContext(cmd)

	st, err := openStore(f, opts.Database)
	if err != nil {
		return err
	}
	defer st.Close()

	runs, err := st.ListRuns(ctx, "")
	if err != nil {
		return storeReadError(f, err)
	}

	if f.IsJSON() {
		return f.Success(RunListing{Runs: runs})
	}

	w := f.Writer
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return nil
	}

	automata, err := st.ListAutomata(ctx)
	if err != nil {
		return storeReadError(f, err)
	}
	names := make(map[string]string, len(automata))
	for _, a := range automata {
		names[a.SpecHash] = a.Name
	}
	for _, r := range runs {
		fmt.Fprintf(w, "%6d  %s  %-10s %-8s %q\n", r.Seq, r.ID, names[r.SpecHash], verdict(r.Accepted), r.Input)
	}
	return nil
}

// storeReadError reports a failed lookup. Missing records are failures of
// the request; anything else is a database error.
func storeReadError(f *OutputFormatter, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		_ = f.Error(ErrCodeNotRecorded, err.Error(), nil)
		return WrapExitError(ExitCommandError, "not recorded", err)
	}
	_ = f.Error(ErrCodeStore, err.Error(), nil)
	return WrapExitError(ExitCommandError, "failed to read database", err)
}

func verdict(accepted bool) string {
	if accepted {
		return "accepted"
	}
	return "rejected"
}

func printTraceText(w io.Writer, t TraceResult) {
	r := t.Run
	name := t.Automaton
	if name == "" {
		name = "?"
	}
	mode := "lax"
	if r.Strict {
		mode = "strict"
	}

	fmt.Fprintf(w, "Run %s: automaton %s (%s), %s\n", r.ID, name, r.SpecHash[:12], mode)
	fmt.Fprintf(w, "Input %q: %s, final state %s", r.Input, verdict(r.Accepted), r.FinalState)
	if r.Derailed {
		fmt.Fprintf(w, ", derailed after %d symbol(s)", r.Consumed)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w)

	for _, s := range t.Steps {
		if s.Matched {
			fmt.Fprintf(w, "  [%d] %s --%s--> %s  %q\n", s.Seq, s.From, s.Rule, s.To, rune(s.Symbol))
		} else {
			fmt.Fprintf(w, "  [%d] %s  %q no match\n", s.Seq, s.From, rune(s.Symbol))
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Stats: %d step(s), %d matched, %d unmatched\n", t.Stats.Steps, t.Stats.Matched, t.Stats.Unmatched)
}
