package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSequentialIDs(t *testing.T) {
	g := NewSequentialIDs("")
	assert.Equal(t, "run-0001", g.Generate())
	assert.Equal(t, "run-0002", g.Generate())

	g.Reset()
	assert.Equal(t, "run-0001", g.Generate())

	assert.Equal(t, "case-0001", NewSequentialIDs("case").Generate())
}
