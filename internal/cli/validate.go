package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/mfsm/internal/compiler"
)

// Finding is one validation message, tied to the automaton it concerns.
type Finding struct {
	Automaton string            `json:"automaton,omitempty"`
	Field     string            `json:"field"`
	Code      string            `json:"code"`
	Severity  compiler.Severity `json:"severity"`
	Message   string            `json:"message"`
	Line      int               `json:"line,omitempty"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid    bool      `json:"valid"`
	Automata []string  `json:"automata"`
	Findings []Finding `json:"findings,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <specs-dir>",
		Short: "Validate automaton definitions",
		Long: `Validate the automaton definitions in a CUE package.

Errors (unknown start state, empty names, definitions that do not compile)
fail the command. Warnings (rules that can never match, duplicate state
declarations) are reported but do not.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, specsDir string, cmd *cobra.Command) error {
	f := newFormatter(opts, cmd)

	loaded, loadErrs := compiler.LoadDir(specsDir)

	// Directory-level failures leave nothing to validate
	if loaded == nil {
		code, msg := compiler.ErrCodeGeneric, loadErrs[0].Error()
		var loadErr *compiler.LoadError
		if errors.As(loadErrs[0], &loadErr) {
			code, msg = loadErr.Code, loadErr.Message
		}
		_ = f.Error(code, msg, nil)
		return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, msg))
	}

	f.VerboseLog("Found %d CUE file(s) in %s", loaded.FileCount, specsDir)

	result := ValidationResult{Valid: true, Automata: loaded.Names()}
	for _, err := range loadErrs {
		result.Findings = append(result.Findings, loadFinding(err))
	}
	for i := range loaded.Automata {
		spec := &loaded.Automata[i]
		f.VerboseLog("Validating automaton: %s", spec.Name)
		for _, v := range compiler.Validate(spec) {
			result.Findings = append(result.Findings, Finding{
				Automaton: spec.Name,
				Field:     v.Field,
				Code:      v.Code,
				Severity:  v.Severity,
				Message:   v.Message,
			})
		}
	}

	errCount := 0
	for _, fd := range result.Findings {
		if fd.Severity == compiler.SeverityError {
			errCount++
		}
	}
	result.Valid = errCount == 0

	if f.IsJSON() {
		if !result.Valid {
			first := firstError(result.Findings)
			if err := f.Failure(first.Code, first.Message, result); err != nil {
				return err
			}
			return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", errCount))
		}
		return f.Success(result)
	}

	w := f.Writer
	if result.Valid {
		fmt.Fprintf(w, "✓ All %d automata valid\n", len(result.Automata))
	} else {
		fmt.Fprintln(w, "✗ Validation failed")
	}
	for _, fd := range result.Findings {
		fmt.Fprintln(w)
		if fd.Line > 0 {
			fmt.Fprintf(w, "line %d\n", fd.Line)
		}
		where := fd.Field
		if fd.Automaton != "" {
			where = fd.Automaton + "." + fd.Field
		}
		fmt.Fprintf(w, "  %s %s (%s): %s\n", fd.Code, fd.Severity, where, fd.Message)
	}

	if !result.Valid {
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", errCount))
	}
	return nil
}

// loadFinding converts a per-automaton compile failure into an error finding.
func loadFinding(err error) Finding {
	fd := Finding{
		Field:    "load",
		Code:     compiler.ErrCodeGeneric,
		Severity: compiler.SeverityError,
		Message:  err.Error(),
	}
	var loadErr *compiler.LoadError
	if errors.As(err, &loadErr) {
		fd.Code = loadErr.Code
		fd.Message = loadErr.Message
		if loadErr.Pos.IsValid() {
			fd.Line = loadErr.Pos.Line()
		}
	}
	return fd
}

func firstError(findings []Finding) Finding {
	for _, fd := range findings {
		if fd.Severity == compiler.SeverityError {
			return fd
		}
	}
	return Finding{}
}
