// Command mfsm defines, drives and records deterministic automata.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/roach88/mfsm/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cmd := cli.NewRootCommand()
	if err := cmd.ExecuteContext(ctx); err != nil {
		// Commands print their own diagnostics; only surface errors that
		// did not come from one (flag parsing, unknown commands).
		if !cli.IsExitError(err) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		stop()
		os.Exit(cli.GetExitCode(err))
	}
}
