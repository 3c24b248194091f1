package fsm

import "fmt"

// Step is one fed symbol as observed by a Tracer.
type Step struct {
	Seq     int64  `json:"seq"`
	From    string `json:"from"`
	Symbol  int    `json:"symbol"`
	To      string `json:"to"`
	Rule    string `json:"rule,omitempty"`
	Matched bool   `json:"matched"`
}

// Tracer observes an engine while it is driven.
//
// Callbacks run synchronously on the driving goroutine and must not call
// back into the engine.
type Tracer interface {
	OnStep(step Step)
	OnAccept(state string, accepted bool)
}

// AcceptCheck is one acceptance check recorded by a Recorder.
type AcceptCheck struct {
	State    string `json:"state"`
	Accepted bool   `json:"accepted"`
}

// Recorder is a Tracer that keeps everything it sees.
type Recorder struct {
	Steps   []Step
	Accepts []AcceptCheck
}

// OnStep implements Tracer.
func (r *Recorder) OnStep(step Step) {
	r.Steps = append(r.Steps, step)
}

// OnAccept implements Tracer.
func (r *Recorder) OnAccept(state string, accepted bool) {
	r.Accepts = append(r.Accepts, AcceptCheck{State: state, Accepted: accepted})
}

// Reset drops all recorded events.
func (r *Recorder) Reset() {
	r.Steps = nil
	r.Accepts = nil
}

// symbolText renders a symbol for the human-readable trace.
func symbolText(symbol int) string {
	if symbol >= 0x20 && symbol < 0x7f {
		return string(rune(symbol))
	}
	return fmt.Sprintf("\\x%02x", symbol)
}

func (e *Engine) emitStep(step Step) {
	if e.trace {
		e.logger.Info("transition",
			"seq", step.Seq,
			"from", step.From,
			"symbol", symbolText(step.Symbol),
			"to", step.To,
			"rule", step.Rule,
			"matched", step.Matched,
		)
	}
	if e.tracer != nil {
		e.tracer.OnStep(step)
	}
}

func (e *Engine) emitAccept(state string, accepted bool) {
	if e.trace {
		e.logger.Info("acceptance check",
			"state", state,
			"accepted", accepted,
		)
	}
	if e.tracer != nil {
		e.tracer.OnAccept(state, accepted)
	}
}
