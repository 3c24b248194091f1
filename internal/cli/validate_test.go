package cli

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/mfsm/internal/compiler"
)

func TestValidate_Valid(t *testing.T) {
	specs := writeDemoSpecs(t)

	out, _, err := execute(t, "validate", specs)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ All 4 automata valid")
}

func TestValidate_WarningsDoNotFail(t *testing.T) {
	specs := writeSpecs(t, `package x

automaton: odd: {
	states: S0: final: true
	connections: [{from: "S0", to: "S1", rule: "ab"}]
}
`)

	out, _, err := execute(t, "validate", specs)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ All 1 automata valid")
	assert.Contains(t, out, "W201 warning (odd.connections[0].rule)")
}

func TestValidate_Errors(t *testing.T) {
	specs := writeSpecs(t, `package x

automaton: lost: {
	start: "nowhere"
	connections: [{from: "S0", to: "S1", rule: "a"}]
}
`)

	out, _, err := execute(t, "validate", specs)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ Validation failed")
	assert.Contains(t, out, compiler.ErrUnknownStart)
}

func TestValidate_CompileErrorIsFinding(t *testing.T) {
	specs := writeSpecs(t, `package x

automaton: broken: {
	connections: [{from: "S0", to: "S1"}]
}
automaton: fine: {
	connections: [{from: "S0", to: "S1", rule: "a"}]
}
`)

	out, _, err := execute(t, "validate", specs, "--format", "json")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var result ValidationResult
	resp := decodeResponse(t, out, &result)
	assert.Equal(t, "error", resp.Status)
	assert.False(t, result.Valid)
	assert.Equal(t, []string{"fine"}, result.Automata)
	require.NotEmpty(t, result.Findings)
	assert.Equal(t, compiler.ErrCodeCompile, result.Findings[0].Code)
	assert.Equal(t, compiler.ErrCodeCompile, resp.Error.Code)
}

func TestValidate_MissingDir(t *testing.T) {
	out, _, err := execute(t, "validate", filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E005]")
}
