package harness

import "github.com/roach88/mfsm/internal/fsm"

// Trace event types.
const (
	EventStep = "step"
	EventRun  = "run"
)

// TraceEvent is one entry of a scenario trace: a fed symbol or a finished
// case. Fields irrelevant to the event type are zero.
type TraceEvent struct {
	Type string `json:"type"`
	Seq  int64  `json:"seq"`
	Case int    `json:"case"`

	// Step events.
	From    string `json:"from,omitempty"`
	Symbol  int    `json:"symbol,omitempty"`
	To      string `json:"to,omitempty"`
	Rule    string `json:"rule,omitempty"`
	Matched bool   `json:"matched,omitempty"`

	// Run events.
	RunID    string `json:"run_id,omitempty"`
	Input    string `json:"input,omitempty"`
	Accepted bool   `json:"accepted,omitempty"`
	Derailed bool   `json:"derailed,omitempty"`
	Consumed int    `json:"consumed,omitempty"`
	Final    string `json:"final,omitempty"`
}

// CaseResult is the observed outcome of one case.
type CaseResult struct {
	Input    string `json:"input"`
	RunID    string `json:"run_id"`
	Accepted bool   `json:"accepted"`
	Derailed bool   `json:"derailed"`
	Final    string `json:"final"`
	Pass     bool   `json:"pass"`
}

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass is true when every case matched its expectations and every
	// assertion held.
	Pass bool `json:"pass"`

	Automaton string `json:"automaton"`
	SpecHash  string `json:"spec_hash"`

	Cases []CaseResult `json:"cases"`

	// Trace holds step and run events in seq order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Cases:  []CaseResult{},
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddStepTrace adds a fed symbol to the trace.
func (r *Result) AddStepTrace(caseIndex int, step fsm.Step) {
	r.Trace = append(r.Trace, TraceEvent{
		Type:    EventStep,
		Seq:     step.Seq,
		Case:    caseIndex,
		From:    step.From,
		Symbol:  step.Symbol,
		To:      step.To,
		Rule:    step.Rule,
		Matched: step.Matched,
	})
}

// AddRunTrace adds a finished case to the trace.
func (r *Result) AddRunTrace(caseIndex int, runID, input string, out fsm.Outcome, seq int64) {
	r.Trace = append(r.Trace, TraceEvent{
		Type:     EventRun,
		Seq:      seq,
		Case:     caseIndex,
		RunID:    runID,
		Input:    input,
		Accepted: out.Accepted,
		Derailed: out.Derailed,
		Consumed: out.Consumed,
		Final:    out.Final,
	})
}

// Steps returns the step events of the trace.
func (r *Result) Steps() []TraceEvent {
	var steps []TraceEvent
	for _, ev := range r.Trace {
		if ev.Type == EventStep {
			steps = append(steps, ev)
		}
	}
	return steps
}
