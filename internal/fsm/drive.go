package fsm

import "github.com/roach88/mfsm/internal/rule"

// Outcome is the full result of driving an engine over one input.
type Outcome struct {
	Accepted bool `json:"accepted"`

	// Derailed is set when strict mode stopped feeding on a symbol that
	// no transition matched.
	Derailed bool `json:"derailed"`

	// Consumed counts the symbols fed, including the one that derailed.
	Consumed int `json:"consumed"`

	// Final is the state the engine rests in, "" when there are no states.
	Final string `json:"final"`

	Steps []Step `json:"steps,omitempty"`
}

// Rewind positions the engine at its start state.
func (e *Engine) Rewind() {
	e.current = e.start
}

// Feed advances the engine by one symbol.
//
// An engine that was never rewound is positioned at start first. The first
// transition of the current state whose rule accepts symbol moves the engine
// to its destination; when none matches the engine stays put. Returns whether
// a transition matched. With no states at all Feed returns false.
func (e *Engine) Feed(symbol int) bool {
	_, matched := e.feed(symbol)
	return matched
}

func (e *Engine) feed(symbol int) (Step, bool) {
	if e.current == nil {
		e.current = e.start
	}
	if e.current == nil {
		return Step{}, false
	}

	from := e.current
	next := from
	ruleText := ""
	matched := from.evaluateTransitions(symbol, func(r *rule.Rule, dest string) {
		ruleText = r.Text()
		if s, ok := e.states[dest]; ok {
			next = s
		}
	})
	e.current = next

	step := Step{
		Seq:     e.clock.Next(),
		From:    from.name,
		Symbol:  symbol,
		To:      next.name,
		Rule:    ruleText,
		Matched: matched,
	}
	e.emitStep(step)
	return step, matched
}

// Run rewinds the engine and feeds every byte of input, reporting whether
// the input is accepted.
//
// In strict mode feeding stops at the first byte no transition matches and
// the input is rejected. Otherwise unmatched bytes leave the state unchanged.
// Empty input is accepted iff the start state is final.
func (e *Engine) Run(input string) bool {
	return e.drive(input, false).Accepted
}

// Drive runs the same algorithm as Run and reports every step taken.
func (e *Engine) Drive(input string) Outcome {
	return e.drive(input, true)
}

func (e *Engine) drive(input string, record bool) Outcome {
	e.Rewind()

	var out Outcome
	matched := true
	for i := 0; i < len(input); i++ {
		if e.current == nil {
			matched = false
			break
		}
		step, ok := e.feed(int(input[i]))
		out.Consumed++
		if record {
			out.Steps = append(out.Steps, step)
		}
		matched = ok
		if e.strict && !matched {
			out.Derailed = true
			break
		}
	}

	out.Final = e.CurrentName()
	out.Accepted = e.Accepted() && (!e.strict || matched)
	return out
}

// Accepted reports whether the current state is final. An engine that has
// never been driven (or has no states) is not accepting.
func (e *Engine) Accepted() bool {
	if e.current == nil {
		return false
	}
	final := e.current.final
	e.emitAccept(e.current.name, final)
	return final
}
