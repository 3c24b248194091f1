// Package visual renders engines as Graphviz DOT.
package visual

import (
	"fmt"

	"github.com/emicklei/dot"

	"github.com/roach88/mfsm/internal/fsm"
)

// DOT renders the states and transitions of e.
//
// Final states are double circles, the start state is drawn bold and fed by
// an unlabeled point node, and the state named current (if any) is filled.
// Each edge is labeled with its rule text and carries its evaluation rank
// within the source state as a tooltip.
func DOT(e *fsm.Engine, current string) string {
	g := dot.NewGraph(dot.Directed)
	g.Attr("rankdir", "LR")

	nodes := make(map[string]dot.Node)
	for _, name := range e.StateNames() {
		s, _ := e.Lookup(name)
		n := g.Node(name).Attr("shape", "circle")
		if s.Final() {
			n.Attr("shape", "doublecircle")
		}
		if name == e.StartName() {
			n.Attr("penwidth", "2")
		}
		if name == current {
			n.Attr("style", "filled").Attr("fillcolor", "lightgrey")
		}
		nodes[name] = n
	}

	if start, ok := nodes[e.StartName()]; ok {
		entry := g.Node(entryID(nodes)).Attr("shape", "point").Attr("label", "")
		g.Edge(entry, start)
	}

	for _, name := range e.StateNames() {
		s, _ := e.Lookup(name)
		for rank, tr := range s.Transitions() {
			g.Edge(nodes[name], nodes[tr.Dest], tr.Rule.Text()).
				Attr("tooltip", fmt.Sprintf("rank %d, weight %d", rank+1, tr.Rule.Weight()))
		}
	}

	return g.String()
}

// entryID picks a node ID for the start marker that no state uses; dot
// returns the existing node for a known ID.
func entryID(states map[string]dot.Node) string {
	id := "__start"
	for {
		if _, taken := states[id]; !taken {
			return id
		}
		id = "_" + id
	}
}
