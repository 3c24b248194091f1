package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/mfsm/internal/compiler"
	"github.com/roach88/mfsm/internal/visual"
)

// DotOptions holds flags for the dot command.
type DotOptions struct {
	*RootOptions
	Input  string
	Output string
}

// DotResult is the JSON form of the dot command output.
type DotResult struct {
	Automaton string `json:"automaton"`
	Current   string `json:"current,omitempty"`
	DOT       string `json:"dot"`
}

// NewDotCommand creates the dot command.
func NewDotCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DotOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "dot <specs-dir> <automaton>",
		Short: "Export an automaton as Graphviz DOT",
		Long: `Render an automaton as a Graphviz digraph.

With --input the automaton is driven over the input first and the state it
ends in is highlighted.

Examples:
  mfsm dot ./specs rec | dot -Tsvg > rec.svg
  mfsm dot ./specs aab --input aaba -o aab.dot`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDot(opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Input, "input", "", "drive this input and highlight the resulting state")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write DOT to this file instead of stdout")

	return cmd
}

func runDot(opts *DotOptions, specsDir, name string, cmd *cobra.Command) error {
	f := newFormatter(opts.RootOptions, cmd)

	spec, err := loadAutomaton(f, specsDir, name)
	if err != nil {
		return err
	}

	eng, err := compiler.Build(spec)
	if err != nil {
		_ = f.Error(ErrCodeBuild, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to build automaton", err)
	}

	current := ""
	if cmd.Flags().Changed("input") {
		current = eng.Drive(opts.Input).Final
	}
	out := visual.DOT(eng, current)

	if opts.Output != "" {
		if err := os.WriteFile(opts.Output, []byte(out), 0644); err != nil {
			_ = f.Error(ErrCodeWriteFailed, fmt.Sprintf("writing output file: %v", err), nil)
			return WrapExitError(ExitCommandError, "failed to write output", err)
		}
		f.VerboseLog("Written to %s", opts.Output)
	}

	if f.IsJSON() {
		return f.Success(DotResult{Automaton: spec.Name, Current: current, DOT: out})
	}
	if opts.Output == "" {
		fmt.Fprint(f.Writer, out)
	}
	return nil
}
