package compiler

import (
	"testing"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/mfsm/internal/ir"
)

func compileOne(t *testing.T, src, name string) (*ir.AutomatonSpec, error) {
	t.Helper()
	ctx := cuecontext.New()
	v := ctx.CompileString(src)
	require.NoError(t, v.Err())
	return CompileAutomaton(v.LookupPath(cue.ParsePath("automaton." + name)))
}

func TestCompileAutomatonBasic(t *testing.T) {
	spec, err := compileOne(t, `
		automaton: aab: {
			start:  "S0"
			strict: true
			states: S1: final: true
			connections: [
				{from: "S0", to: "S1", rule: "a"},
				{from: "S1", to: "S2", rule: "a"},
				{from: "S2", to: "S1", rule: "b"},
			]
		}
	`, "aab")
	require.NoError(t, err)

	assert.Equal(t, "aab", spec.Name)
	assert.Equal(t, "S0", spec.Start)
	assert.True(t, spec.Strict)
	assert.Equal(t, []ir.StateSpec{{Name: "S1", Final: true}}, spec.States)
	assert.Equal(t, []ir.ConnectionSpec{
		{From: "S0", To: "S1", Rule: "a"},
		{From: "S1", To: "S2", Rule: "a"},
		{From: "S2", To: "S1", Rule: "b"},
	}, spec.Connections)
}

func TestCompileAutomatonDefaults(t *testing.T) {
	spec, err := compileOne(t, `
		automaton: tiny: connections: [{from: "A", to: "B", rule: "any"}]
	`, "tiny")
	require.NoError(t, err)

	assert.Equal(t, "", spec.Start)
	assert.False(t, spec.Strict)
	assert.Empty(t, spec.States)
	assert.Len(t, spec.Connections, 1)
}

func TestCompileAutomatonStatesKeepDeclarationOrder(t *testing.T) {
	spec, err := compileOne(t, `
		automaton: order: {
			states: {
				Z: final: true
				A: {}
				M: final: false
			}
			connections: []
		}
	`, "order")
	require.NoError(t, err)

	assert.Equal(t, []ir.StateSpec{
		{Name: "Z", Final: true},
		{Name: "A"},
		{Name: "M"},
	}, spec.States)
}

func TestCompileAutomatonMissingConnections(t *testing.T) {
	_, err := compileOne(t, `automaton: bad: start: "S0"`, "bad")
	require.Error(t, err)

	var compileErr *CompileError
	require.ErrorAs(t, err, &compileErr)
	assert.Equal(t, "connections", compileErr.Field)
}

func TestCompileAutomatonConnectionMissingRule(t *testing.T) {
	_, err := compileOne(t, `
		automaton: bad: connections: [{from: "S0", to: "S1"}]
	`, "bad")

	var compileErr *CompileError
	require.ErrorAs(t, err, &compileErr)
	assert.Equal(t, "rule", compileErr.Field)
	assert.Contains(t, err.Error(), "rule is required")
}

func TestCompileAutomatonWrongType(t *testing.T) {
	_, err := compileOne(t, `
		automaton: bad: {
			strict: "yes"
			connections: []
		}
	`, "bad")
	require.Error(t, err)
}

func TestCompileErrorFormat(t *testing.T) {
	err := &CompileError{Field: "rule", Message: "rule is required"}
	assert.Equal(t, "rule: rule is required", err.Error())
}
