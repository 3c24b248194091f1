package demo

import (
	"errors"

	"github.com/roach88/mfsm/internal/compiler"
	"github.com/roach88/mfsm/internal/ir"
)

// CUE holds the sample automata in the definition format read by the
// compiler. Building any of them yields an engine equivalent to the
// corresponding New* constructor.
const CUE = `package demo

// .*\.info, lax: unmatched symbols are skipped
automaton: dotinfo: {
	start:  "S1"
	strict: false
	states: S6: final: true
	connections: [
		{from: "S1", to: "S2", rule: "."},
		{from: "S2", to: "S3", rule: "i"},
		{from: "S3", to: "S4", rule: "n"},
		{from: "S4", to: "S5", rule: "f"},
		{from: "S5", to: "S6", rule: "o"},
		{from: "S2", to: "S1", rule: "any"},
		{from: "S3", to: "S1", rule: "any"},
		{from: "S4", to: "S1", rule: "any"},
		{from: "S5", to: "S1", rule: "any"},
	]
}

// a(ab)^n
automaton: aab: {
	start:  "S0"
	strict: true
	states: S1: final: true
	connections: [
		{from: "S0", to: "S1", rule: "a"},
		{from: "S1", to: "S2", rule: "a"},
		{from: "S2", to: "S1", rule: "b"},
	]
}

// accepts the codes 12A45 and 22B48
automaton: rec: {
	start:  "S0"
	strict: true
	states: S9: final: true
	connections: [
		{from: "S0", to: "S1", rule: "1"},
		{from: "S0", to: "S0", rule: "any"},
		{from: "S1", to: "S1", rule: "1"},
		{from: "S1", to: "S0", rule: "any"},
		{from: "S2", to: "S1", rule: "1"},
		{from: "S2", to: "S0", rule: "any"},
		{from: "S3", to: "S1", rule: "1"},
		{from: "S3", to: "S0", rule: "any"},
		{from: "S4", to: "S1", rule: "1"},
		{from: "S4", to: "S0", rule: "any"},
		{from: "S5", to: "S1", rule: "1"},
		{from: "S5", to: "S0", rule: "any"},
		{from: "S6", to: "S1", rule: "1"},
		{from: "S6", to: "S0", rule: "any"},
		{from: "S7", to: "S1", rule: "1"},
		{from: "S7", to: "S0", rule: "any"},
		{from: "S8", to: "S1", rule: "1"},
		{from: "S8", to: "S0", rule: "any"},
		{from: "S9", to: "S0", rule: "any"},
		{from: "S0", to: "S2", rule: "2"},
		{from: "S8", to: "S2", rule: "2"},
		{from: "S7", to: "S2", rule: "2"},
		{from: "S6", to: "S2", rule: "2"},
		{from: "S5", to: "S2", rule: "2"},
		{from: "S1", to: "S3", rule: "2"},
		{from: "S2", to: "S4", rule: "2"},
		{from: "S3", to: "S4", rule: "2"},
		{from: "S3", to: "S5", rule: "A"},
		{from: "S4", to: "S4", rule: "2"},
		{from: "S4", to: "S6", rule: "B"},
		{from: "S5", to: "S7", rule: "4"},
		{from: "S6", to: "S8", rule: "4"},
		{from: "S7", to: "S9", rule: "5"},
		{from: "S8", to: "S9", rule: "8"},
	]
}

// exact before negated before wildcard
automaton: ro: {
	start:  "S0"
	strict: true
	states: S1: final: true
	connections: [
		{from: "S0", to: "S1", rule: "a"},
		{from: "S0", to: "S2", rule: "~b"},
		{from: "S0", to: "S1", rule: "any"},
	]
}
`

// Specs compiles CUE into automaton specs, in declaration order.
func Specs() ([]ir.AutomatonSpec, error) {
	result, errs := compiler.CompileSource("demo.cue", CUE)
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return result.Automata, nil
}
