package harness

import (
	"context"
	"fmt"
	"strings"

	"github.com/roach88/mfsm/internal/store"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nFull trace:\n")
	for _, event := range e.Trace {
		switch event.Type {
		case EventStep:
			fmt.Fprintf(&buf, "  [%d] %s --%q--> %s\n", event.Seq, event.From, event.Rule, event.To)
		case EventRun:
			fmt.Fprintf(&buf, "  [%d] run %q accepted=%t final=%s\n", event.Seq, event.Input, event.Accepted, event.Final)
		}
	}

	return buf.String()
}

// stepMatches reports whether a step event satisfies the assertion's
// From/To/Rule filters. Empty filters match anything.
func stepMatches(event TraceEvent, assertion Assertion) bool {
	if event.Type != EventStep {
		return false
	}
	if assertion.From != "" && event.From != assertion.From {
		return false
	}
	if assertion.To != "" && event.To != assertion.To {
		return false
	}
	if assertion.Rule != "" && event.Rule != assertion.Rule {
		return false
	}
	return true
}

// describeStep renders the filters of a step assertion.
func describeStep(assertion Assertion) string {
	parts := make([]string, 0, 3)
	if assertion.From != "" {
		parts = append(parts, "from="+assertion.From)
	}
	if assertion.To != "" {
		parts = append(parts, "to="+assertion.To)
	}
	if assertion.Rule != "" {
		parts = append(parts, fmt.Sprintf("rule=%q", assertion.Rule))
	}
	return "step " + strings.Join(parts, " ")
}

// assertTraceContains checks if the trace contains a step matching the
// assertion filters.
func assertTraceContains(trace []TraceEvent, assertion Assertion) error {
	for _, event := range trace {
		if stepMatches(event, assertion) {
			return nil
		}
	}

	return &AssertionError{
		Type:     AssertTraceContains,
		Expected: describeStep(assertion),
		Actual:   "not found in trace",
		Trace:    trace,
	}
}

// assertTraceOrder checks that the states are entered in the specified order.
// States don't need to be consecutive (intervening steps are allowed).
func assertTraceOrder(trace []TraceEvent, assertion Assertion) error {
	next := 0
	for _, event := range trace {
		if next == len(assertion.States) {
			break
		}
		if event.Type == EventStep && event.To == assertion.States[next] {
			next++
		}
	}

	if next < len(assertion.States) {
		return &AssertionError{
			Type:     AssertTraceOrder,
			Expected: fmt.Sprintf("states entered in order: %v", assertion.States),
			Actual:   fmt.Sprintf("%s not entered after %v", assertion.States[next], assertion.States[:next]),
			Trace:    trace,
		}
	}

	return nil
}

// assertTraceCount checks that matching steps appear exactly the specified
// number of times.
func assertTraceCount(trace []TraceEvent, assertion Assertion) error {
	count := 0
	for _, event := range trace {
		if stepMatches(event, assertion) {
			count++
		}
	}

	if count != assertion.Count {
		return &AssertionError{
			Type:     AssertTraceCount,
			Expected: fmt.Sprintf("%d occurrences of %s", assertion.Count, describeStep(assertion)),
			Actual:   fmt.Sprintf("%d occurrences", count),
			Trace:    trace,
		}
	}

	return nil
}

// AssertionContext provides context for evaluating assertions.
type AssertionContext struct {
	Store *store.Store
	Ctx   context.Context
}

// EvaluateAssertions evaluates all assertions against the result.
// Returns a slice of error messages for failed assertions.
// The actx parameter provides database access for store_row assertions.
func EvaluateAssertions(result *Result, assertions []Assertion, actx *AssertionContext) []string {
	var errors []string

	for i, assertion := range assertions {
		var err error

		switch assertion.Type {
		case AssertTraceContains:
			err = assertTraceContains(result.Trace, assertion)
		case AssertTraceOrder:
			err = assertTraceOrder(result.Trace, assertion)
		case AssertTraceCount:
			err = assertTraceCount(result.Trace, assertion)
		case AssertStoreRow:
			if actx == nil || actx.Store == nil {
				err = fmt.Errorf("assertion[%d]: store_row requires database context", i)
			} else {
				err = assertStoreRow(actx.Ctx, actx.Store, assertion)
			}
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, assertion.Type)
		}

		if err != nil {
			errors = append(errors, err.Error())
		}
	}

	return errors
}
