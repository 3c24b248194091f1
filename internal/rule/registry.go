package rule

import (
	"fmt"
	"sort"
)

// QuotaError is returned when registering a new rule would exceed the
// registry limit. Rules already registered are still served.
type QuotaError struct {
	Text  string // Pattern that was refused
	Limit int    // Configured maximum number of distinct rules
}

func (e *QuotaError) Error() string {
	return fmt.Sprintf("rule %q refused: registry holds the maximum of %d rules", e.Text, e.Limit)
}

// Registry owns the distinct rules of one engine, keyed by their text.
//
// Not safe for concurrent use; an engine is driven by a single goroutine.
type Registry struct {
	rules    map[string]*Rule
	maxRules int
}

// NewRegistry creates an empty registry. maxRules <= 0 means unlimited.
func NewRegistry(maxRules int) *Registry {
	return &Registry{
		rules:    make(map[string]*Rule),
		maxRules: maxRules,
	}
}

// Intern returns the shared rule for text, creating it on first use.
func (r *Registry) Intern(text string) (*Rule, error) {
	if existing, ok := r.rules[text]; ok {
		return existing, nil
	}
	if r.maxRules > 0 && len(r.rules) >= r.maxRules {
		return nil, &QuotaError{Text: text, Limit: r.maxRules}
	}
	created := New(text)
	r.rules[text] = created
	return created, nil
}

// Lookup returns the rule registered for text, if any.
func (r *Registry) Lookup(text string) (*Rule, bool) {
	existing, ok := r.rules[text]
	return existing, ok
}

// Len returns the number of distinct rules.
func (r *Registry) Len() int {
	return len(r.rules)
}

// Texts returns the registered patterns in sorted order.
func (r *Registry) Texts() []string {
	texts := make([]string, 0, len(r.rules))
	for text := range r.rules {
		texts = append(texts, text)
	}
	sort.Strings(texts)
	return texts
}
