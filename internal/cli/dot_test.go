package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDot_Stdout(t *testing.T) {
	specs := writeDemoSpecs(t)

	out, _, err := execute(t, "dot", specs, "aab")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "digraph"), out)
	assert.Contains(t, out, "doublecircle")
	assert.NotContains(t, out, "lightgrey")
}

func TestDot_HighlightsDrivenState(t *testing.T) {
	specs := writeDemoSpecs(t)

	out, _, err := execute(t, "dot", specs, "aab", "--input", "aa", "--format", "json")
	require.NoError(t, err)

	var result DotResult
	decodeResponse(t, out, &result)
	assert.Equal(t, "aab", result.Automaton)
	assert.Equal(t, "S2", result.Current)
	assert.Contains(t, result.DOT, "lightgrey")
}

func TestDot_OutputFile(t *testing.T) {
	specs := writeDemoSpecs(t)
	path := filepath.Join(t.TempDir(), "aab.dot")

	out, _, err := execute(t, "dot", specs, "aab", "-o", path)
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "digraph")
}

func TestDot_UnknownAutomaton(t *testing.T) {
	specs := writeDemoSpecs(t)

	_, _, err := execute(t, "dot", specs, "nope")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
