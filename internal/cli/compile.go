package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/mfsm/internal/ir"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Output string // output file path
}

// CompiledAutomaton is one automaton in compile output.
type CompiledAutomaton struct {
	Name        string           `json:"name"`
	SpecHash    string           `json:"spec_hash"`
	States      int              `json:"states"`
	Connections int              `json:"connections"`
	Spec        ir.AutomatonSpec `json:"spec"`
}

// CompilationResult holds the compiled automata.
type CompilationResult struct {
	IRVersion string              `json:"ir_version"`
	Automata  []CompiledAutomaton `json:"automata"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <specs-dir>",
		Short: "Compile CUE automata to canonical IR",
		Long: `Compile the automaton definitions in a CUE package to canonical JSON.

Each automaton is reported with its content hash, the identity under which
runs of it are recorded.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path")

	return cmd
}

func runCompile(opts *CompileOptions, specsDir string, cmd *cobra.Command) error {
	f := newFormatter(opts.RootOptions, cmd)

	loaded, err := loadSpecs(f, specsDir)
	if err != nil {
		return err
	}

	result := CompilationResult{IRVersion: ir.IRVersion}
	for _, spec := range loaded.Automata {
		f.VerboseLog("Compiled automaton: %s", spec.Name)
		hash, err := ir.SpecHash(spec)
		if err != nil {
			_ = f.Error(ErrCodeBuild, fmt.Sprintf("hashing %s: %v", spec.Name, err), nil)
			return WrapExitError(ExitCommandError, "failed to hash automaton", err)
		}
		result.Automata = append(result.Automata, CompiledAutomaton{
			Name:        spec.Name,
			SpecHash:    hash,
			States:      len(spec.StateNames()),
			Connections: len(spec.Connections),
			Spec:        spec,
		})
	}

	if opts.Output != "" {
		if err := writeIRToFile(loaded.Automata, opts.Output); err != nil {
			_ = f.Error(ErrCodeWriteFailed, fmt.Sprintf("writing output file: %v", err), nil)
			return WrapExitError(ExitCommandError, "failed to write output", err)
		}
	}

	if f.IsJSON() {
		return f.Success(result)
	}

	w := f.Writer
	fmt.Fprintf(w, "✓ Compiled %d automaton(s)\n", len(result.Automata))
	for _, a := range result.Automata {
		fmt.Fprintf(w, "  %-16s %s  %d states, %d connections\n", a.Name, a.SpecHash[:12], a.States, a.Connections)
	}
	if opts.Output != "" {
		fmt.Fprintf(w, "Written to %s\n", opts.Output)
	}
	return nil
}

// writeIRToFile writes the automata as one canonical JSON document.
func writeIRToFile(specs []ir.AutomatonSpec, path string) error {
	list := make([]any, len(specs))
	for i, s := range specs {
		list[i] = s.ToMap()
	}
	data, err := ir.MarshalCanonical(map[string]any{
		"ir_version": ir.IRVersion,
		"automata":   list,
	})
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
