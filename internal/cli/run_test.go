package cli

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/mfsm/internal/store"
)

func TestRun_Text(t *testing.T) {
	specs := writeDemoSpecs(t)

	out, _, err := execute(t, "run", specs, "dotinfo", "pippo.info", "x.inf")
	require.NoError(t, err)
	assert.Equal(t, "pippo.info: accepted, final state S6\nx.inf: rejected, final state S5\n", out)
}

func TestRun_StrictDerailment(t *testing.T) {
	specs := writeDemoSpecs(t)

	out, _, err := execute(t, "run", specs, "aab", "ac")
	require.NoError(t, err)
	assert.Equal(t, "ac: rejected (derailed after 2 symbol(s)), final state S1\n", out)
}

func TestRun_StrictOverride(t *testing.T) {
	specs := writeDemoSpecs(t)

	out, _, err := execute(t, "run", specs, "aab", "ac", "--strict=false")
	require.NoError(t, err)
	assert.Equal(t, "ac: accepted, final state S1\n", out)
}

func TestRun_ExpectAccept(t *testing.T) {
	specs := writeDemoSpecs(t)

	_, _, err := execute(t, "run", specs, "rec", "12A45", "22B48", "--expect-accept")
	require.NoError(t, err)

	out, _, err := execute(t, "run", specs, "rec", "12A45", "AA", "--expect-accept", "--format", "json")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var result RunResult
	resp := decodeResponse(t, out, &result)
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, 1, result.Rejected)
	require.Len(t, result.Inputs, 2)
	assert.True(t, result.Inputs[0].Accepted)
	assert.Equal(t, "S9", result.Inputs[0].Final)
	assert.True(t, result.Strict)
	assert.Len(t, result.SpecHash, 64)
}

func TestRun_Trace(t *testing.T) {
	specs := writeDemoSpecs(t)

	_, stderr, err := execute(t, "run", specs, "ro", "x", "--trace")
	require.NoError(t, err)
	assert.Contains(t, stderr, "msg=transition")
	assert.Contains(t, stderr, "rule=~b")
	assert.Contains(t, stderr, `msg="acceptance check"`)
}

func TestRun_NoTraceIsQuiet(t *testing.T) {
	specs := writeDemoSpecs(t)

	_, stderr, err := execute(t, "run", specs, "ro", "x")
	require.NoError(t, err)
	assert.Empty(t, stderr)
}

func TestRun_UnknownAutomaton(t *testing.T) {
	specs := writeDemoSpecs(t)

	out, _, err := execute(t, "run", specs, "nope", "a")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E008]")
	assert.Contains(t, out, "[dotinfo aab rec ro]")
}

func TestRun_RecordsToDatabase(t *testing.T) {
	specs := writeDemoSpecs(t)
	db := filepath.Join(t.TempDir(), "runs.db")

	out, _, err := execute(t, "run", specs, "aab", "aab", "aaa", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "[run ")

	// A second process continues the seq numbering
	_, _, err = execute(t, "run", specs, "aab", "a", "--db", db)
	require.NoError(t, err)

	st, err := store.Open(db)
	require.NoError(t, err)
	defer st.Close()

	ctx := context.Background()
	automata, err := st.ListAutomata(ctx)
	require.NoError(t, err)
	require.Len(t, automata, 1)
	assert.Equal(t, "aab", automata[0].Name)
	assert.Equal(t, int64(1), automata[0].CreatedAtSeq)

	runs, err := st.ListRuns(ctx, automata[0].SpecHash)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, []string{"aab", "aaa", "a"}, []string{runs[0].Input, runs[1].Input, runs[2].Input})

	// aab: seq 2-4 steps, 5 run; aaa: 6-8, 9; second process: automaton 10, step 11, run 12
	assert.Equal(t, int64(5), runs[0].Seq)
	assert.Equal(t, int64(9), runs[1].Seq)
	assert.Equal(t, int64(12), runs[2].Seq)
	assert.True(t, runs[1].Derailed)

	_, steps, err := st.ReadRun(ctx, runs[2].ID)
	require.NoError(t, err)
	require.Len(t, steps, 1)
	assert.Equal(t, int64(11), steps[0].Seq)
}
