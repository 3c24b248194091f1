package demo

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/mfsm/internal/compiler"
	"github.com/roach88/mfsm/internal/fsm"
)

func TestCasesAllPass(t *testing.T) {
	automata := Automata()
	for _, c := range Cases() {
		t.Run(c.Automaton+"/"+c.Input, func(t *testing.T) {
			e, ok := automata[c.Automaton]
			require.True(t, ok)
			assert.Equal(t, c.Expected, e.Run(c.Input))
		})
	}
}

func TestCasesTableShape(t *testing.T) {
	cases := Cases()
	assert.Len(t, cases, 21)

	perAutomaton := map[string]int{}
	for _, c := range cases {
		perAutomaton[c.Automaton]++
	}
	assert.Equal(t, map[string]int{RuleOrdering: 3, DotInfo: 5, AAB: 6, Recognizer: 7}, perAutomaton)
}

func TestCheck(t *testing.T) {
	var buf bytes.Buffer
	passed, failed := Check(&buf)

	assert.Equal(t, 21, passed)
	assert.Equal(t, 0, failed)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 21)
	assert.Equal(t, "a: passed", lines[0])
	assert.Equal(t, "pippo.info: passed", lines[3])
	assert.Equal(t, "1312A4: passed", lines[20])
}

func TestRecognizerFinalStates(t *testing.T) {
	e := NewRecognizer()
	tests := []struct {
		input string
		final string
	}{
		{"12A45", "S9"},
		{"22B48", "S9"},
		{"12A22B4", "S8"},
		{"1312A4", "S7"},
		{"AA", "S0"},
	}
	for _, tt := range tests {
		out := e.Drive(tt.input)
		assert.Equal(t, tt.final, out.Final, "input %q", tt.input)
		assert.False(t, out.Derailed, "every recognizer state has a wildcard")
	}
}

func TestCUEParity(t *testing.T) {
	specs, err := Specs()
	require.NoError(t, err)
	require.Len(t, specs, 4)

	built := map[string]*fsm.Engine{}
	for i := range specs {
		assert.Empty(t, compiler.Validate(&specs[i]), specs[i].Name)
		e, err := compiler.Build(&specs[i])
		require.NoError(t, err)
		built[specs[i].Name] = e
	}

	handmade := Automata()
	for name, want := range handmade {
		got, ok := built[name]
		require.True(t, ok, name)

		assert.Equal(t, want.StartName(), got.StartName(), name)
		assert.Equal(t, want.Strict(), got.Strict(), name)
		assert.Equal(t, want.StateNames(), got.StateNames(), name)
		assert.Equal(t, want.RuleTexts(), got.RuleTexts(), name)
		for _, state := range want.StateNames() {
			ws, _ := want.Lookup(state)
			gs, ok := got.Lookup(state)
			require.True(t, ok, "%s/%s", name, state)
			assert.Equal(t, ws.Final(), gs.Final(), "%s/%s", name, state)
			assert.Equal(t, transitionTexts(ws), transitionTexts(gs), "%s/%s", name, state)
		}
	}

	for _, c := range Cases() {
		assert.Equal(t, c.Expected, built[c.Automaton].Run(c.Input), "%s %q", c.Automaton, c.Input)
	}
}

func transitionTexts(s *fsm.State) []string {
	var out []string
	for _, tr := range s.Transitions() {
		out = append(out, tr.Rule.Text()+"->"+tr.Dest)
	}
	return out
}
