package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/mfsm/internal/compiler"
	"github.com/roach88/mfsm/internal/fsm"
	"github.com/roach88/mfsm/internal/ir"
	"github.com/roach88/mfsm/internal/store"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Strict       bool
	Trace        bool
	Database     string
	ExpectAccept bool

	// IDGenerator allows overriding run IDs (for testing).
	// If nil, defaults to store.UUIDv7Generator.
	IDGenerator store.IDGenerator
}

// InputResult is the outcome of one input.
type InputResult struct {
	Input    string `json:"input"`
	Accepted bool   `json:"accepted"`
	Derailed bool   `json:"derailed"`
	Consumed int    `json:"consumed"`
	Final    string `json:"final"`
	RunID    string `json:"run_id,omitempty"`
}

// RunResult holds the outcomes of a run command.
type RunResult struct {
	Automaton string        `json:"automaton"`
	SpecHash  string        `json:"spec_hash"`
	Strict    bool          `json:"strict"`
	Inputs    []InputResult `json:"inputs"`
	Rejected  int           `json:"rejected"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <specs-dir> <automaton> <input>...",
		Short: "Drive an automaton over inputs",
		Long: `Drive an automaton over one or more inputs and report acceptance.

Each input is fed byte by byte from the start state. With --db every run
and its steps are recorded so they can be inspected with trace and checked
with replay.

Examples:
  mfsm run ./specs dotinfo pippo.info x.inf
  mfsm run ./specs aab aab --strict=false --trace
  mfsm run ./specs rec 12A45 --db ./runs.db --expect-accept`,
		Args:          cobra.MinimumNArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAutomaton(opts, args[0], args[1], args[2:], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "override the definition's strict mode")
	cmd.Flags().BoolVar(&opts.Trace, "trace", false, "log every transition to stderr")
	cmd.Flags().StringVar(&opts.Database, "db", "", "record runs to this SQLite database")
	cmd.Flags().BoolVar(&opts.ExpectAccept, "expect-accept", false, "exit 1 if any input is rejected")

	return cmd
}

func runAutomaton(opts *RunOptions, specsDir, name string, inputs []string, cmd *cobra.Command) error {
	f := newFormatter(opts.RootOptions, cmd)
	ctx := commandContext(cmd)

	spec, err := loadAutomaton(f, specsDir, name)
	if err != nil {
		return err
	}

	var (
		st    *store.Store
		clock = fsm.NewClock()
	)
	if opts.Database != "" {
		st, err = openStore(f, opts.Database)
		if err != nil {
			return err
		}
		defer st.Close()

		last, err := st.LastSeq(ctx)
		if err != nil {
			_ = f.Error(ErrCodeStore, err.Error(), nil)
			return WrapExitError(ExitCommandError, "failed to read database", err)
		}
		clock = fsm.NewClockAt(last)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if opts.Trace || opts.Verbose {
		logger = f.Logger()
	}

	eng, err := compiler.Build(spec, fsm.WithClock(clock), fsm.WithLogger(logger), fsm.WithTrace(opts.Trace))
	if err != nil {
		_ = f.Error(ErrCodeBuild, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to build automaton", err)
	}
	if cmd.Flags().Changed("strict") {
		eng.SetStrict(opts.Strict)
	}

	hash, err := ir.SpecHash(*spec)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to hash automaton", err)
	}
	if st != nil {
		if _, err := st.WriteAutomaton(ctx, *spec, clock.Next()); err != nil {
			_ = f.Error(ErrCodeStore, err.Error(), nil)
			return WrapExitError(ExitCommandError, "failed to record automaton", err)
		}
	}

	ids := opts.IDGenerator
	if ids == nil {
		ids = store.UUIDv7Generator{}
	}

	result := RunResult{Automaton: spec.Name, SpecHash: hash, Strict: eng.Strict()}
	for _, input := range inputs {
		out := eng.Drive(input)
		res := InputResult{
			Input:    input,
			Accepted: out.Accepted,
			Derailed: out.Derailed,
			Consumed: out.Consumed,
			Final:    out.Final,
		}
		if !out.Accepted {
			result.Rejected++
		}

		if st != nil {
			res.RunID = ids.Generate()
			run := store.NewRun(res.RunID, hash, input, eng.Strict(), out, clock.Next())
			if err := st.WriteRun(ctx, run, out.Steps); err != nil {
				_ = f.Error(ErrCodeStore, err.Error(), nil)
				return WrapExitError(ExitCommandError, "failed to record run", err)
			}
			logger.Debug("run recorded", "run_id", res.RunID, "input", input)
		}
		result.Inputs = append(result.Inputs, res)
	}

	failed := opts.ExpectAccept && result.Rejected > 0
	if f.IsJSON() {
		if failed {
			if err := f.Failure("E_REJECTED", fmt.Sprintf("%d input(s) rejected", result.Rejected), result); err != nil {
				return err
			}
		} else if err := f.Success(result); err != nil {
			return err
		}
	} else {
		printRunText(f.Writer, result)
	}

	if failed {
		return NewExitError(ExitFailure, fmt.Sprintf("%d input(s) rejected", result.Rejected))
	}
	return nil
}

func printRunText(w io.Writer, result RunResult) {
	for _, in := range result.Inputs {
		verdict := "rejected"
		switch {
		case in.Accepted:
			verdict = "accepted"
		case in.Derailed:
			verdict = fmt.Sprintf("rejected (derailed after %d symbol(s))", in.Consumed)
		}
		fmt.Fprintf(w, "%s: %s, final state %s", in.Input, verdict, in.Final)
		if in.RunID != "" {
			fmt.Fprintf(w, " [run %s]", in.RunID)
		}
		fmt.Fprintln(w)
	}
}
