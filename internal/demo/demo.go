// Package demo ships the sample automata and the self-check table that
// exercise the engine end to end.
package demo

import (
	"fmt"
	"io"

	"github.com/roach88/mfsm/internal/fsm"
)

// Names of the sample automata.
const (
	DotInfo      = "dotinfo"
	AAB          = "aab"
	Recognizer   = "rec"
	RuleOrdering = "ro"
)

// Case is one row of the self-check table.
type Case struct {
	Automaton string `json:"automaton" yaml:"automaton"`
	Input     string `json:"input" yaml:"input"`
	Expected  bool   `json:"expected" yaml:"expected"`
}

// Cases returns the self-check table in its canonical order.
func Cases() []Case {
	return []Case{
		{RuleOrdering, "a", true},
		{RuleOrdering, "x", false},
		{RuleOrdering, "b", true},
		{DotInfo, "pippo.info", true},
		{DotInfo, "pippo.inf", false},
		{DotInfo, "x.inf", false},
		{DotInfo, ".infother", true},
		{DotInfo, ".info", true},
		{AAB, "a", true},
		{AAB, "aab", true},
		{AAB, "aaa", false},
		{AAB, "aabab", true},
		{AAB, "ac", false},
		{AAB, "aac", false},
		{Recognizer, "12A45", true},
		{Recognizer, "22B48", true},
		{Recognizer, "AA", false},
		{Recognizer, "12B48", false},
		{Recognizer, "22A45", false},
		{Recognizer, "12A22B4", false},
		{Recognizer, "1312A4", false},
	}
}

// Automata builds a fresh engine for every sample, keyed by name.
func Automata(opts ...fsm.Option) map[string]*fsm.Engine {
	return map[string]*fsm.Engine{
		DotInfo:      NewDotInfo(opts...),
		AAB:          NewAAB(opts...),
		Recognizer:   NewRecognizer(opts...),
		RuleOrdering: NewRuleOrdering(opts...),
	}
}

// Check runs every case and prints "<input>: passed" or "<input>: FAIL"
// per row. It returns the tallies; callers decide what a failure means.
func Check(w io.Writer, opts ...fsm.Option) (passed, failed int) {
	automata := Automata(opts...)
	for _, c := range Cases() {
		status := "passed"
		if automata[c.Automaton].Run(c.Input) != c.Expected {
			status = "FAIL"
			failed++
		} else {
			passed++
		}
		fmt.Fprintf(w, "%s: %s\n", c.Input, status)
	}
	return passed, failed
}
