// Package harness runs conformance scenarios against automata.
//
// A scenario is a YAML file naming CUE definitions, one automaton among
// them, and a list of input cases with their expected outcomes:
//
//	name: aab_accepts
//	description: "a+ followed by an optional b"
//	specs:
//	  - specs/aab.cue
//	automaton: aab
//	cases:
//	  - input: "aab"
//	    expect: true
//	    final_state: S1
//	assertions:
//	  - type: trace_count
//	    rule: "a"
//	    count: 2
//
// Run builds the engine with a deterministic clock so that step and run
// sequence numbers are reproducible, drives every case, records each run
// in a fresh in-memory store and evaluates the assertions. The trace can
// be compared against a golden file with RunWithGolden.
//
// Cases share one engine. Each Drive rewinds to the start state, so cases
// are independent of each other; only sequence numbers carry over.
package harness
