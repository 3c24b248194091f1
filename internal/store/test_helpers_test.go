package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/mfsm/internal/fsm"
	"github.com/roach88/mfsm/internal/ir"
)

// createTestStore creates a new file-backed store for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func aabSpec() ir.AutomatonSpec {
	return ir.AutomatonSpec{
		Name:   "aab",
		Start:  "S0",
		Strict: true,
		States: []ir.StateSpec{{Name: "S1", Final: true}},
		Connections: []ir.ConnectionSpec{
			{From: "S0", To: "S1", Rule: "a"},
			{From: "S1", To: "S2", Rule: "a"},
			{From: "S2", To: "S1", Rule: "b"},
		},
	}
}

// newAAB builds the engine described by aabSpec.
func newAAB(opts ...fsm.Option) *fsm.Engine {
	e := fsm.New(opts...)
	e.DeclareState("S1", true)
	e.Connect("S0", "S1", "a")
	e.Connect("S1", "S2", "a")
	e.Connect("S2", "S1", "b")
	e.SetStart("S0")
	e.SetStrict(true)
	return e
}
