package rule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Classification(t *testing.T) {
	tests := []struct {
		text   string
		kind   Kind
		weight int
	}{
		{"a", KindExact, WeightExact},
		{".", KindExact, WeightExact},
		{"~", KindExact, WeightExact},
		{"~b", KindNegated, WeightNegated},
		{"~bc", KindNegated, WeightNegated},
		{"any", KindWildcard, WeightWildcard},
		{"", KindDegenerate, WeightDegenerate},
		{"ab", KindDegenerate, WeightDegenerate},
		{"ANY", KindDegenerate, WeightDegenerate},
		{"anything", KindDegenerate, WeightDegenerate},
	}

	for _, tc := range tests {
		t.Run(tc.text, func(t *testing.T) {
			r := New(tc.text)
			assert.Equal(t, tc.kind, r.Kind())
			assert.Equal(t, tc.weight, r.Weight())
			assert.Equal(t, tc.text, r.Text())
			assert.Equal(t, tc.kind == KindDegenerate, r.Degenerate())
		})
	}
}

func TestSatisfiedBy_Exact(t *testing.T) {
	r := New("x")
	for sym := 0; sym < 512; sym++ {
		assert.Equal(t, sym == 'x', r.SatisfiedBy(sym), "symbol %d", sym)
	}
}

func TestSatisfiedBy_Negated(t *testing.T) {
	r := New("~b")
	for sym := 0; sym < 512; sym++ {
		assert.Equal(t, sym != 'b', r.SatisfiedBy(sym), "symbol %d", sym)
	}
}

func TestSatisfiedBy_NegatedIgnoresTrailingText(t *testing.T) {
	r := New("~bc")
	assert.False(t, r.SatisfiedBy('b'))
	assert.True(t, r.SatisfiedBy('c'))
}

func TestSatisfiedBy_Wildcard(t *testing.T) {
	r := New("any")
	for sym := -1; sym < 512; sym++ {
		assert.True(t, r.SatisfiedBy(sym), "symbol %d", sym)
	}
}

func TestSatisfiedBy_DegenerateNeverFires(t *testing.T) {
	for _, text := range []string{"", "ab", "xyz", "Any"} {
		r := New(text)
		for sym := 0; sym < 256; sym++ {
			require.False(t, r.SatisfiedBy(sym), "text %q symbol %d", text, sym)
		}
	}
}

func TestWeightOrdering(t *testing.T) {
	assert.Less(t, New("zz").Weight(), New("a").Weight())
	assert.Less(t, New("a").Weight(), New("~a").Weight())
	assert.Less(t, New("~a").Weight(), New("any").Weight())
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "exact", KindExact.String())
	assert.Equal(t, "negated", KindNegated.String())
	assert.Equal(t, "wildcard", KindWildcard.String())
	assert.Equal(t, "degenerate", KindDegenerate.String())
}
