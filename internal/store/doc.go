// Package store provides a SQLite-backed log of automaton runs.
//
// The log holds three tables:
//   - automata: definitions keyed by ir.SpecHash, stored as canonical JSON
//   - runs: one row per driven input with its Outcome
//   - steps: the per-symbol trace of each run
//
// Definitions are kept for provenance only. The store never rebuilds an
// engine; Replay drives a caller-supplied engine over a stored input and
// compares the result with what was recorded.
//
// # Ordering
//
// All list queries order by seq ASC, id ASC COLLATE BINARY so that results
// are identical across replays regardless of wall time.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
