package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/mfsm/internal/compiler"
	"github.com/roach88/mfsm/internal/ir"
	"github.com/roach88/mfsm/internal/store"
)

// CLI error codes, continuing the compiler's load codes.
const (
	ErrCodeUnknownAutomaton = "E008" // Named automaton not in specs
	ErrCodeBuild            = "E009" // Engine construction refused a connection
	ErrCodeStore            = "E020" // Database could not be opened or written
	ErrCodeNotRecorded      = "E021" // Run or automaton not in database
	ErrCodeWriteFailed      = "E022" // Output file could not be written
)

// newFormatter builds the formatter for a command from the global flags.
// Diagnostics go to stderr so JSON on stdout stays parseable.
func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}

// commandContext returns the command's context, or Background outside cobra.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// loadSpecs loads every automaton in specsDir, failing on the first load
// or compile error.
func loadSpecs(f *OutputFormatter, specsDir string) (*compiler.LoadResult, error) {
	result, errs := compiler.LoadDir(specsDir)
	if len(errs) > 0 {
		code, msg := compiler.ErrCodeGeneric, errs[0].Error()
		var loadErr *compiler.LoadError
		if errors.As(errs[0], &loadErr) {
			code, msg = loadErr.Code, loadErr.Error()
		}
		_ = f.Error(code, msg, nil)
		return nil, WrapExitError(ExitCommandError, "failed to load specs", errs[0])
	}

	f.VerboseLog("Found %d CUE file(s) in %s", result.FileCount, specsDir)
	return result, nil
}

// loadAutomaton loads specsDir and returns the automaton called name.
func loadAutomaton(f *OutputFormatter, specsDir, name string) (*ir.AutomatonSpec, error) {
	result, err := loadSpecs(f, specsDir)
	if err != nil {
		return nil, err
	}

	spec, ok := result.Find(name)
	if !ok {
		msg := fmt.Sprintf("automaton %q not found in %s (have %v)", name, specsDir, result.Names())
		_ = f.Error(ErrCodeUnknownAutomaton, msg, nil)
		return nil, NewExitError(ExitCommandError, msg)
	}
	return spec, nil
}

// openStore opens the database at path, reporting failures as command errors.
func openStore(f *OutputFormatter, path string) (*store.Store, error) {
	st, err := store.Open(path)
	if err != nil {
		_ = f.Error(ErrCodeStore, fmt.Sprintf("failed to open database %s: %v", path, err), nil)
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	return st, nil
}
