package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/mfsm/internal/fsm"
	"github.com/roach88/mfsm/internal/ir"
)

func TestWriteAutomaton_Idempotent(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	h1, err := s.WriteAutomaton(ctx, aabSpec(), 1)
	require.NoError(t, err)
	h2, err := s.WriteAutomaton(ctx, aabSpec(), 7)
	require.NoError(t, err)

	assert.Equal(t, h1, h2)
	assert.Equal(t, ir.MustSpecHash(aabSpec()), h1)

	rec, err := s.ReadAutomaton(ctx, h1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rec.CreatedAtSeq, "first write wins")
	assert.Equal(t, "aab", rec.Name)
	assert.Equal(t, ir.IRVersion, rec.IRVersion)
	assert.Equal(t, aabSpec(), rec.Spec)
}

func TestWriteRun_WithSteps(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	hash, err := s.WriteAutomaton(ctx, aabSpec(), 1)
	require.NoError(t, err)

	e := newAAB(fsm.WithClock(fsm.NewClockAt(10)))
	out := e.Drive("aab")
	run := NewRun("run-1", hash, "aab", true, out, 2)

	require.NoError(t, s.WriteRun(ctx, run, out.Steps))

	got, steps, err := s.ReadRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, run, got)
	assert.Equal(t, out.Steps, steps)
	assert.Equal(t, ir.EngineVersion, got.EngineVersion)
}

func TestWriteRun_UnknownAutomaton(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	run := NewRun("run-1", "missing-hash", "a", false, fsm.Outcome{}, 1)
	err := s.WriteRun(ctx, run, nil)
	require.Error(t, err, "foreign key on spec_hash")

	_, _, err = s.ReadRun(ctx, "run-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestWriteRun_RollsBackOnStepFailure(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	hash, err := s.WriteAutomaton(ctx, aabSpec(), 1)
	require.NoError(t, err)

	dup := []fsm.Step{
		{Seq: 1, From: "S0", Symbol: 'a', To: "S1", Rule: "a", Matched: true},
		{Seq: 1, From: "S1", Symbol: 'a', To: "S2", Rule: "a", Matched: true},
	}
	err = s.WriteRun(ctx, NewRun("run-1", hash, "aa", true, fsm.Outcome{}, 2), dup)
	require.Error(t, err)

	runs, err := s.ListRuns(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, runs, "run row is rolled back with its steps")
}

func TestWriteRun_DuplicateID(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	hash, err := s.WriteAutomaton(ctx, aabSpec(), 1)
	require.NoError(t, err)

	run := NewRun("run-1", hash, "a", true, fsm.Outcome{Accepted: true}, 2)
	require.NoError(t, s.WriteRun(ctx, run, nil))
	assert.Error(t, s.WriteRun(ctx, run, nil))
}

// negatedAccent accepts any first byte other than the one its rule negates.
func negatedAccent(ruleText string) ir.AutomatonSpec {
	return ir.AutomatonSpec{
		Name:        "accent",
		Start:       "S0",
		Strict:      true,
		States:      []ir.StateSpec{{Name: "S1", Final: true}},
		Connections: []ir.ConnectionSpec{{From: "S0", To: "S1", Rule: ruleText}},
	}
}

func buildFromSpec(spec ir.AutomatonSpec) *fsm.Engine {
	e := fsm.New()
	for _, st := range spec.States {
		e.DeclareState(st.Name, st.Final)
	}
	for _, c := range spec.Connections {
		e.Connect(c.From, c.To, c.Rule)
	}
	e.SetStart(spec.Start)
	e.SetStrict(spec.Strict)
	return e
}

func TestWriteAutomaton_KeepsRuleBytes(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	decomposed := negatedAccent("~e\u0301")
	composed := negatedAccent("~\u00e9")

	h1, err := s.WriteAutomaton(ctx, decomposed, 1)
	require.NoError(t, err)
	h2, err := s.WriteAutomaton(ctx, composed, 2)
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)

	rec, err := s.ReadAutomaton(ctx, h1)
	require.NoError(t, err)
	assert.Equal(t, []byte("~e\xcc\x81"), []byte(rec.Spec.Connections[0].Rule))
	assert.Equal(t, decomposed, rec.Spec)

	recs, err := s.ListAutomata(ctx)
	require.NoError(t, err)
	assert.Len(t, recs, 2)
}

func TestWriteAutomaton_ReplayOfDecomposedRule(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	spec := negatedAccent("~e\u0301")
	hash, err := s.WriteAutomaton(ctx, spec, 1)
	require.NoError(t, err)

	// 0xC3 is not 'e', so the negated rule fires.
	out := buildFromSpec(spec).Drive("\xc3")
	require.True(t, out.Accepted)
	require.NoError(t, s.WriteRun(ctx, NewRun("run-1", hash, "\xc3", true, out, 2), out.Steps))

	rec, err := s.ReadAutomaton(ctx, hash)
	require.NoError(t, err)
	result, err := s.Replay(ctx, "run-1", buildFromSpec(rec.Spec))
	require.NoError(t, err)
	assert.True(t, result.Match, "diffs: %v", result.Diffs)
}

func TestWriteAutomaton_RejectsInvalidUTF8(t *testing.T) {
	s := createTestStore(t)

	_, err := s.WriteAutomaton(context.Background(), negatedAccent("~\xff"), 1)
	assert.ErrorContains(t, err, "invalid UTF-8")
}
