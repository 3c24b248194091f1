package rule

// Kind is the discriminant derived from a rule's text.
type Kind int

const (
	// KindDegenerate never matches.
	KindDegenerate Kind = iota
	// KindExact matches one code unit.
	KindExact
	// KindNegated matches every code unit but one.
	KindNegated
	// KindWildcard matches everything.
	KindWildcard
)

// Specificity weights. Transition tables are kept in ascending weight order.
const (
	WeightDegenerate = 0
	WeightExact      = 1
	WeightNegated    = 255
	WeightWildcard   = 256
)

// WildcardText is the pattern that matches every symbol.
const WildcardText = "any"

// String returns the kind name used in diagnostics.
func (k Kind) String() string {
	switch k {
	case KindExact:
		return "exact"
	case KindNegated:
		return "negated"
	case KindWildcard:
		return "wildcard"
	default:
		return "degenerate"
	}
}

// Rule is an immutable match guard over a single input symbol.
// Rules are shared by reference between every connection that uses the same text.
type Rule struct {
	text   string
	kind   Kind
	weight int
}

// New classifies text and returns the compiled rule.
//
// Precedence: a single character is always exact (so "~" matches '~'), then a
// leading '~' means negation of the following character, then "any".
func New(text string) *Rule {
	r := &Rule{text: text}
	switch {
	case len(text) == 1:
		r.kind, r.weight = KindExact, WeightExact
	case len(text) > 1 && text[0] == '~':
		r.kind, r.weight = KindNegated, WeightNegated
	case text == WildcardText:
		r.kind, r.weight = KindWildcard, WeightWildcard
	default:
		r.kind, r.weight = KindDegenerate, WeightDegenerate
	}
	return r
}

// SatisfiedBy reports whether symbol passes the guard.
func (r *Rule) SatisfiedBy(symbol int) bool {
	switch r.kind {
	case KindExact:
		return int(r.text[0]) == symbol
	case KindNegated:
		return int(r.text[1]) != symbol
	case KindWildcard:
		return true
	default:
		return false
	}
}

// Weight returns the specificity ordering key (1, 255, 256 or 0).
func (r *Rule) Weight() int {
	return r.weight
}

// Kind returns the rule discriminant.
func (r *Rule) Kind() Kind {
	return r.kind
}

// Text returns the canonical pattern the rule was built from.
func (r *Rule) Text() string {
	return r.text
}

// Degenerate reports whether the rule can never fire.
func (r *Rule) Degenerate() bool {
	return r.kind == KindDegenerate
}

func (r *Rule) String() string {
	return r.text
}
