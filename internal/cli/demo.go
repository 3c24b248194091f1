package cli

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/mfsm/internal/demo"
	"github.com/roach88/mfsm/internal/fsm"
)

// DemoResult holds the self-check tallies.
type DemoResult struct {
	Passed int      `json:"passed"`
	Failed int      `json:"failed"`
	Lines  []string `json:"lines"`
}

// NewDemoCommand creates the demo command.
func NewDemoCommand(rootOpts *RootOptions) *cobra.Command {
	var trace bool

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run the built-in self-check table",
		Long: `Drive the built-in sample automata (dotinfo, aab, rec, ro) over their
reference inputs and print "<input>: passed" or "<input>: FAIL" per row.

The command reports failures but always exits 0.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(rootOpts, trace, cmd)
		},
	}

	cmd.Flags().BoolVar(&trace, "trace", false, "log every transition to stderr")

	return cmd
}

func runDemo(opts *RootOptions, trace bool, cmd *cobra.Command) error {
	f := newFormatter(opts, cmd)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if trace {
		logger = f.Logger()
	}

	var buf bytes.Buffer
	passed, failed := demo.Check(&buf, fsm.WithLogger(logger), fsm.WithTrace(trace))

	if f.IsJSON() {
		return f.Success(DemoResult{
			Passed: passed,
			Failed: failed,
			Lines:  splitLines(buf.String()),
		})
	}

	if _, err := io.Copy(f.Writer, &buf); err != nil {
		return err
	}
	fmt.Fprintf(f.Writer, "\n%d passed, %d failed\n", passed, failed)
	return nil
}

func splitLines(s string) []string {
	lines := []string{}
	for _, l := range bytes.Split([]byte(s), []byte("\n")) {
		if len(l) > 0 {
			lines = append(lines, string(l))
		}
	}
	return lines
}
