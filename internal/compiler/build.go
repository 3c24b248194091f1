package compiler

import (
	"fmt"

	"github.com/roach88/mfsm/internal/fsm"
	"github.com/roach88/mfsm/internal/ir"
)

// BuildError reports a connection the engine refused.
type BuildError struct {
	Automaton  string
	Index      int
	Connection ir.ConnectionSpec
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("automaton %s: connections[%d] %s -%s-> %s refused by the rule registry",
		e.Automaton, e.Index, e.Connection.From, e.Connection.Rule, e.Connection.To)
}

// Build constructs an engine from spec.
//
// States are declared first, in spec order, then connections are added in
// spec order, then the start state is applied and strict mode is set from
// the spec. Without an explicit Start the source of the first connection is
// the start state, as if the automaton had been wired by hand; a spec with
// no connections starts at its first declared state.
func Build(spec *ir.AutomatonSpec, opts ...fsm.Option) (*fsm.Engine, error) {
	e := fsm.New(opts...)

	for _, st := range spec.States {
		e.DeclareState(st.Name, st.Final)
	}
	for i, c := range spec.Connections {
		if !e.Connect(c.From, c.To, c.Rule) {
			return nil, &BuildError{Automaton: spec.Name, Index: i, Connection: c}
		}
	}
	start := spec.Start
	if start == "" && len(spec.Connections) > 0 {
		start = spec.Connections[0].From
	}
	if start != "" {
		e.SetStart(start)
	}
	e.SetStrict(spec.Strict)

	return e, nil
}
