package cli

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/mfsm/internal/store"
)

// recordRuns drives the aab sample over inputs into a fresh database and
// returns its path with the recorded runs in seq order.
func recordRuns(t *testing.T, inputs ...string) (string, []store.Run) {
	t.Helper()
	specs := writeDemoSpecs(t)
	db := filepath.Join(t.TempDir(), "runs.db")

	args := append([]string{"run", specs, "aab"}, inputs...)
	_, _, err := execute(t, append(args, "--db", db)...)
	require.NoError(t, err)

	st, err := store.Open(db)
	require.NoError(t, err)
	defer st.Close()
	runs, err := st.ListRuns(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, runs, len(inputs))
	return db, runs
}

func TestTrace_Run(t *testing.T) {
	db, runs := recordRuns(t, "aac")

	out, _, err := execute(t, "trace", "--db", db, runs[0].ID)
	require.NoError(t, err)

	assert.Contains(t, out, "Run "+runs[0].ID+": automaton aab")
	assert.Contains(t, out, "strict")
	assert.Contains(t, out, `Input "aac": rejected, final state S2, derailed after 3 symbol(s)`)
	assert.Contains(t, out, "[2] S0 --a--> S1  'a'")
	assert.Contains(t, out, "[3] S1 --a--> S2  'a'")
	assert.Contains(t, out, "[4] S2  'c' no match")
	assert.Contains(t, out, "Stats: 3 step(s), 2 matched, 1 unmatched")
}

func TestTrace_JSON(t *testing.T) {
	db, runs := recordRuns(t, "aab")

	out, _, err := execute(t, "trace", "--db", db, runs[0].ID, "--format", "json")
	require.NoError(t, err)

	var result TraceResult
	resp := decodeResponse(t, out, &result)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "aab", result.Automaton)
	assert.True(t, result.Run.Accepted)
	require.Len(t, result.Steps, 3)
	assert.Equal(t, "b", result.Steps[2].Rule)
	assert.Equal(t, TraceStats{Steps: 3, Matched: 3}, result.Stats)
}

func TestTrace_ListRuns(t *testing.T) {
	db, runs := recordRuns(t, "a", "aa")

	out, _, err := execute(t, "trace", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, runs[0].ID)
	assert.Contains(t, out, runs[1].ID)
	assert.Contains(t, out, "aab")
	assert.Contains(t, out, `accepted "a"`)
	assert.Contains(t, out, `rejected "aa"`)
}

func TestTrace_EmptyDatabase(t *testing.T) {
	db := filepath.Join(t.TempDir(), "empty.db")

	out, _, err := execute(t, "trace", "--db", db)
	require.NoError(t, err)
	assert.Equal(t, "No runs recorded.\n", out)
}

func TestTrace_UnknownRun(t *testing.T) {
	db, _ := recordRuns(t, "a")

	out, _, err := execute(t, "trace", "--db", db, "missing")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.Contains(t, out, "Error [E021]")
}
