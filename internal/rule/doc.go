// Package rule implements the single-symbol transition guards of the automaton.
//
// A rule is compiled once from a short pattern:
//
//	"x"    exact match on the code unit 'x'           (weight 1)
//	"~x"   anything except 'x'                        (weight 255)
//	"any"  every symbol                               (weight 256)
//
// Any other text yields a degenerate rule of weight 0 that never fires.
// Malformed patterns are not reported: the rule simply never matches.
//
// The weight is the specificity ordering key used by state transition tables,
// lowest first, so exact characters are always tried before negations and
// negations before the wildcard.
package rule
