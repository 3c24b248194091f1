package demo

import "github.com/roach88/mfsm/internal/fsm"

// NewDotInfo recognizes .*\.info without strict mode: symbols with no
// matching transition are skipped.
func NewDotInfo(opts ...fsm.Option) *fsm.Engine {
	e := fsm.New(opts...)
	e.Connect("S1", "S2", ".")
	e.Connect("S2", "S3", "i")
	e.Connect("S3", "S4", "n")
	e.Connect("S4", "S5", "f")
	e.DeclareState("S6", true)
	e.Connect("S5", "S6", "o")
	for _, s := range []string{"S2", "S3", "S4", "S5"} {
		e.Connect(s, "S1", "any")
	}
	return e
}

// NewAAB recognizes a(ab)^n in strict mode.
func NewAAB(opts ...fsm.Option) *fsm.Engine {
	e := fsm.New(opts...)
	e.SetStrict(true)
	e.DeclareState("S1", true)
	e.Connect("S0", "S1", "a")
	e.Connect("S1", "S2", "a")
	e.Connect("S2", "S1", "b")
	e.SetStart("S0")
	return e
}

// NewRecognizer accepts the codes 12A45 and 22B48.
func NewRecognizer(opts ...fsm.Option) *fsm.Engine {
	e := fsm.New(opts...)
	e.SetStrict(true)
	e.DeclareState("S9", true)
	for _, s := range []string{"S0", "S1", "S2", "S3", "S4", "S5", "S6", "S7", "S8"} {
		e.Connect(s, "S1", "1")
		e.Connect(s, "S0", "any")
	}
	e.Connect("S9", "S0", "any")
	for _, s := range []string{"S0", "S8", "S7", "S6", "S5"} {
		e.Connect(s, "S2", "2")
	}
	e.Connect("S1", "S3", "2")
	e.Connect("S2", "S4", "2")
	e.Connect("S3", "S4", "2")
	e.Connect("S3", "S5", "A")
	e.Connect("S4", "S4", "2")
	e.Connect("S4", "S6", "B")
	e.Connect("S5", "S7", "4")
	e.Connect("S6", "S8", "4")
	e.Connect("S7", "S9", "5")
	e.Connect("S8", "S9", "8")
	e.SetStart("S0")
	return e
}

// NewRuleOrdering puts an exact, a negated and a wildcard rule on one state.
func NewRuleOrdering(opts ...fsm.Option) *fsm.Engine {
	e := fsm.New(opts...)
	e.SetStrict(true)
	e.DeclareState("S1", true)
	e.Connect("S0", "S1", "a")
	e.Connect("S0", "S2", "~b")
	e.Connect("S0", "S1", "any")
	e.SetStart("S0")
	return e
}
