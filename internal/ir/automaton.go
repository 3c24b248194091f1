package ir

// AutomatonSpec is the declarative definition of one automaton.
//
// States lists explicit declarations in source order. Endpoints that are only
// named by connections are created non-final when the spec is built.
type AutomatonSpec struct {
	Name        string           `json:"name"`
	Start       string           `json:"start,omitempty"`
	Strict      bool             `json:"strict"`
	States      []StateSpec      `json:"states"`
	Connections []ConnectionSpec `json:"connections"`
}

// StateSpec declares a state and its acceptance flag.
type StateSpec struct {
	Name  string `json:"name"`
	Final bool   `json:"final"`
}

// ConnectionSpec is one transition: from --rule--> to.
type ConnectionSpec struct {
	From string `json:"from"`
	To   string `json:"to"`
	Rule string `json:"rule"`
}

// ToMap converts the spec to plain values accepted by MarshalCanonical.
// An empty Start is omitted.
func (s AutomatonSpec) ToMap() map[string]any {
	states := make([]any, len(s.States))
	for i, st := range s.States {
		states[i] = map[string]any{
			"name":  st.Name,
			"final": st.Final,
		}
	}
	conns := make([]any, len(s.Connections))
	for i, c := range s.Connections {
		conns[i] = map[string]any{
			"from": c.From,
			"to":   c.To,
			"rule": c.Rule,
		}
	}

	m := map[string]any{
		"name":        s.Name,
		"strict":      s.Strict,
		"states":      states,
		"connections": conns,
	}
	if s.Start != "" {
		m["start"] = s.Start
	}
	return m
}

// FinalStates returns the names of states declared final, in source order.
func (s AutomatonSpec) FinalStates() []string {
	var names []string
	for _, st := range s.States {
		if st.Final {
			names = append(names, st.Name)
		}
	}
	return names
}

// StateNames returns every state name the spec mentions, declarations first
// and then connection endpoints in order of appearance, without duplicates.
func (s AutomatonSpec) StateNames() []string {
	seen := make(map[string]bool)
	var names []string
	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	for _, st := range s.States {
		add(st.Name)
	}
	for _, c := range s.Connections {
		add(c.From)
		add(c.To)
	}
	return names
}
