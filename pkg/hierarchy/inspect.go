package hierarchy

import "github.com/matzehuels/conceptree/pkg/dag"

// Snapshot is a self-contained copy of a hierarchy's node table and graph,
// suitable for tests, tooling and JSON export.
type Snapshot struct {
	Nodes    []Node      `json:"nodes"`
	Edges    []Edge      `json:"edges"`
	Roots    []ConceptID `json:"roots"`
	Leaves   []ConceptID `json:"leaves"`
	Unlinked []ConceptID `json:"unlinked,omitempty"`
}

// Export returns a snapshot of the hierarchy. Nodes are in concept input
// order and edges in insertion order; edges from the unlinked node are
// included.
func (h *Hierarchy) Export() Snapshot {
	s := Snapshot{
		Nodes:    make([]Node, 0, len(h.order)),
		Roots:    h.Roots(),
		Leaves:   h.Leaves(),
		Unlinked: h.Unlinked(),
	}
	for _, id := range h.order {
		s.Nodes = append(s.Nodes, *h.nodes[id].clone())
	}
	for _, e := range h.graph.Edges() {
		s.Edges = append(s.Edges, Edge{ConceptID(e.From), ConceptID(e.To)})
	}
	return s
}

// GraphCopy returns an independent copy of the underlying graph, including
// the unlinked node. Node metadata carries the concept name under "label".
func (h *Hierarchy) GraphCopy() *dag.DAG {
	g := h.graph.Clone()
	for _, n := range g.Nodes() {
		if node, ok := h.nodes[ConceptID(n.ID)]; ok {
			n.Meta["label"] = node.ConceptName
			n.Meta["drc"] = node.DRC
		}
	}
	return g
}

// SetHighlightPaths sets the highlight path of the given nodes and clears it
// on every other node. Highlight paths only affect sibling ordering in later
// resolutions. It must not run concurrently with Resolve.
func (h *Hierarchy) SetHighlightPaths(paths map[ConceptID][]ConceptID) {
	for id, n := range h.nodes {
		p, ok := paths[id]
		if !ok {
			n.PathFromDisplayedNode = nil
			continue
		}
		if p == nil {
			p = []ConceptID{}
		}
		n.PathFromDisplayedNode = append([]ConceptID{}, p...)
	}
}
