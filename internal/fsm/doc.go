// Package fsm implements the deterministic automaton engine.
//
// An Engine owns a registry of named states and a registry of distinct rules.
// Construction happens through DeclareState, Connect and SetStart; driving
// happens through Rewind, Feed and Run.
//
// # Disambiguation
//
// Every state keeps its outgoing transitions sorted by rule specificity
// weight, ascending and stable. Feeding a symbol walks that list and takes the
// first transition whose rule is satisfied, so an exact character always wins
// over a negation, and a negation over the wildcard, regardless of the order
// in which the connections were made.
//
// # Failure semantics
//
// The engine never panics and never returns an error. Redeclaring a state is
// a no-op (the first declaration wins), designating an unknown start state is
// ignored, a malformed rule never fires, and a refused rule makes Connect
// return false. A misbuilt automaton degrades to one that never accepts.
//
// # Concurrency
//
// An Engine has no internal locking. Construction and driving must be
// sequenced by the caller; distinct engines are fully independent.
package fsm
