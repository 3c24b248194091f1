package compiler

import (
	"fmt"
	"maps"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/mfsm/internal/ir"
	"github.com/roach88/mfsm/internal/rule"
)

// Validation codes. Errors are E1xx, warnings W2xx.
const (
	ErrEmptyName       = "E101" // automaton name is required
	ErrUnknownStart    = "E102" // start names no state
	ErrEmptyStateName  = "E103" // state or endpoint name is empty
	WarnDegenerateRule = "W201" // rule text never matches
	ErrInvalidText     = "E104" // name or rule text is not valid UTF-8
	WarnDuplicateState = "W202" // state declared twice, first wins
	WarnNotNormalized  = "W203" // text is not NFC, matching uses its raw bytes
)

// Severity classifies a ValidationError.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// ValidationError represents one validation finding.
type ValidationError struct {
	Field    string   `json:"field"`
	Message  string   `json:"message"`
	Code     string   `json:"code"`
	Severity Severity `json:"severity"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// HasErrors reports whether any finding has error severity.
func HasErrors(errs []ValidationError) bool {
	for _, e := range errs {
		if e.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Validate checks an automaton spec and returns every finding (does not
// fail fast).
//
// Degenerate rules and duplicate declarations are warnings: the engine
// accepts both and degrades silently, so the spec still builds.
func Validate(spec *ir.AutomatonSpec) []ValidationError {
	var errs []ValidationError

	// E101: name is required
	if strings.TrimSpace(spec.Name) == "" {
		errs = append(errs, ValidationError{
			Field:    "name",
			Message:  "automaton name is required and must be non-empty",
			Code:     ErrEmptyName,
			Severity: SeverityError,
		})
	}

	errs = append(errs, checkText("name", spec.Name)...)
	errs = append(errs, checkText("start", spec.Start)...)

	declared := make(map[string]bool)
	for i, st := range spec.States {
		field := fmt.Sprintf("states[%d]", i)
		if st.Name == "" {
			errs = append(errs, emptyStateName(field))
			continue
		}
		errs = append(errs, checkText(field, st.Name)...)
		// W202: duplicate declaration
		if declared[st.Name] {
			errs = append(errs, ValidationError{
				Field:    field,
				Message:  fmt.Sprintf("state %q declared more than once, the first declaration wins", st.Name),
				Code:     WarnDuplicateState,
				Severity: SeverityWarning,
			})
		}
		declared[st.Name] = true
	}

	known := maps.Clone(declared)
	for i, c := range spec.Connections {
		if c.From == "" {
			errs = append(errs, emptyStateName(fmt.Sprintf("connections[%d].from", i)))
		}
		if c.To == "" {
			errs = append(errs, emptyStateName(fmt.Sprintf("connections[%d].to", i)))
		}
		known[c.From] = true
		known[c.To] = true
		errs = append(errs, checkText(fmt.Sprintf("connections[%d].from", i), c.From)...)
		errs = append(errs, checkText(fmt.Sprintf("connections[%d].to", i), c.To)...)
		errs = append(errs, checkText(fmt.Sprintf("connections[%d].rule", i), c.Rule)...)

		// W201: rule that never matches
		if rule.New(c.Rule).Degenerate() {
			errs = append(errs, ValidationError{
				Field:    fmt.Sprintf("connections[%d].rule", i),
				Message:  fmt.Sprintf("rule %q matches no symbol: use a single character, ~c or any", c.Rule),
				Code:     WarnDegenerateRule,
				Severity: SeverityWarning,
			})
		}
	}

	// E102: start must name a declared or referenced state
	if spec.Start != "" && !known[spec.Start] {
		errs = append(errs, ValidationError{
			Field:    "start",
			Message:  fmt.Sprintf("start state %q is neither declared nor connected", spec.Start),
			Code:     ErrUnknownStart,
			Severity: SeverityError,
		})
	}

	return errs
}

// checkText reports text that cannot be stored (invalid UTF-8) or that
// looks like a different string than the bytes it matches on (not NFC).
func checkText(field, text string) []ValidationError {
	switch {
	case !utf8.ValidString(text):
		return []ValidationError{{
			Field:    field,
			Message:  fmt.Sprintf("%q is not valid UTF-8", text),
			Code:     ErrInvalidText,
			Severity: SeverityError,
		}}
	case !norm.NFC.IsNormalString(text):
		return []ValidationError{{
			Field:    field,
			Message:  fmt.Sprintf("%q is not NFC-normalized; it is matched byte by byte as written (NFC form %q)", text, norm.NFC.String(text)),
			Code:     WarnNotNormalized,
			Severity: SeverityWarning,
		}}
	}
	return nil
}

func emptyStateName(field string) ValidationError {
	return ValidationError{
		Field:    field,
		Message:  "state name must be non-empty",
		Code:     ErrEmptyStateName,
		Severity: SeverityError,
	}
}
