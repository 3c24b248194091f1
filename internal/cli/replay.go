package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/mfsm/internal/compiler"
	"github.com/roach88/mfsm/internal/fsm"
	"github.com/roach88/mfsm/internal/store"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Database string
}

// ReplaySummary holds the overall replay result.
type ReplaySummary struct {
	Runs     []store.ReplayResult `json:"runs"`
	Total    int                  `json:"total"`
	Diverged int                  `json:"diverged"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay [run-id]",
		Short: "Re-drive recorded runs and verify determinism",
		Long: `Rebuild each recorded automaton from its stored definition, drive it
over the recorded input and compare outcome and steps with the recording.

Without a run ID every recorded run is replayed.

Exit codes:
  0 - All runs reproduce
  1 - At least one run diverged
  2 - Command error (database not found, unknown run, etc.)

Examples:
  mfsm replay --db ./runs.db
  mfsm replay --db ./runs.db <run-id> --format json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runReplay(opts *ReplayOptions, args []string, cmd *cobra.Command) error {
	f := newFormatter(opts.RootOptions, cmd)
	ctx := commandContext(cmd)

	st, err := openStore(f, opts.Database)
	if err != nil {
		return err
	}
	defer st.Close()

	var runs []store.Run
	if len(args) == 1 {
		run, _, err := st.ReadRun(ctx, args[0])
		if err != nil {
			return storeReadError(f, err)
		}
		runs = []store.Run{run}
	} else {
		runs, err = st.ListRuns(ctx, "")
		if err != nil {
			return storeReadError(f, err)
		}
	}

	// One engine per definition; Replay rewinds before every drive
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	engines := make(map[string]*fsm.Engine)

	summary := ReplaySummary{Runs: []store.ReplayResult{}, Total: len(runs)}
	for _, run := range runs {
		eng, ok := engines[run.SpecHash]
		if !ok {
			rec, err := st.ReadAutomaton(ctx, run.SpecHash)
			if err != nil {
				return storeReadError(f, err)
			}
			eng, err = compiler.Build(&rec.Spec, fsm.WithLogger(logger))
			if err != nil {
				_ = f.Error(ErrCodeBuild, err.Error(), nil)
				return WrapExitError(ExitCommandError, "failed to rebuild automaton", err)
			}
			engines[run.SpecHash] = eng
			f.VerboseLog("Rebuilt automaton %s (%s)", rec.Name, run.SpecHash[:12])
		}

		res, err := st.Replay(ctx, run.ID, eng)
		if err != nil {
			return storeReadError(f, err)
		}
		if !res.Match {
			summary.Diverged++
		}
		summary.Runs = append(summary.Runs, res)
	}

	if f.IsJSON() {
		if summary.Diverged > 0 {
			if err := f.Failure("E_DIVERGED", fmt.Sprintf("%d run(s) diverged", summary.Diverged), summary); err != nil {
				return err
			}
		} else if err := f.Success(summary); err != nil {
			return err
		}
	} else {
		w := f.Writer
		for _, r := range summary.Runs {
			if r.Match {
				fmt.Fprintf(w, "✓ %s %q\n", r.RunID, r.Recorded.Input)
				continue
			}
			fmt.Fprintf(w, "✗ %s %q\n", r.RunID, r.Recorded.Input)
			for _, d := range r.Diffs {
				fmt.Fprintf(w, "  %s\n", d)
			}
		}
		fmt.Fprintf(w, "\nReplayed %d run(s), %d diverged\n", summary.Total, summary.Diverged)
	}

	if summary.Diverged > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d run(s) diverged", summary.Diverged))
	}
	return nil
}
