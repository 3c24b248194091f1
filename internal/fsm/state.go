package fsm

import (
	"slices"
	"sort"

	"github.com/roach88/mfsm/internal/rule"
)

// Transition is one (rule, destination) connection of a state.
// The destination is held by name; the engine resolves it.
type Transition struct {
	Rule *rule.Rule
	Dest string
}

// State is a named node with an acceptance flag and an ordered transition table.
//
// INVARIANT: transitions are sorted ascending by rule weight, and entries of
// equal weight keep their insertion order.
type State struct {
	name        string
	final       bool
	transitions []Transition
}

func newState(name string, final bool) *State {
	return &State{name: name, final: final}
}

// Name returns the state identity.
func (s *State) Name() string {
	return s.name
}

// Final reports whether the state is accepting.
func (s *State) Final() bool {
	return s.final
}

// SetFinal flips the acceptance flag.
func (s *State) SetFinal(final bool) {
	s.final = final
}

// Transitions returns a copy of the table in evaluation order.
func (s *State) Transitions() []Transition {
	return slices.Clone(s.transitions)
}

// addTransition inserts after the last entry whose weight is <= r's weight.
func (s *State) addTransition(r *rule.Rule, dest string) {
	w := r.Weight()
	i := sort.Search(len(s.transitions), func(i int) bool {
		return s.transitions[i].Rule.Weight() > w
	})
	s.transitions = slices.Insert(s.transitions, i, Transition{Rule: r, Dest: dest})
}

// evaluateTransitions calls action with the first transition satisfied by
// symbol and reports whether one was found.
func (s *State) evaluateTransitions(symbol int, action func(r *rule.Rule, dest string)) bool {
	for _, t := range s.transitions {
		if t.Rule.SatisfiedBy(symbol) {
			action(t.Rule, t.Dest)
			return true
		}
	}
	return false
}
