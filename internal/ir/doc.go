// Package ir holds the declarative form of an automaton and its canonical
// encoding.
//
// The compiler produces AutomatonSpec values from CUE sources; the store and
// the harness identify them by SpecHash. ir imports nothing internal.
//
// Constraints on the canonical form:
//   - no floats and no null
//   - object keys sorted by UTF-16 code units
//   - strings kept byte for byte (valid UTF-8, never normalized)
//   - all JSON tags use snake_case
package ir
