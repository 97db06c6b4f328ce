package hierarchy

import (
	"errors"

	"github.com/matzehuels/conceptree/pkg/dag"
	errs "github.com/matzehuels/conceptree/pkg/errors"
)

// Hierarchy is the node table and graph built from a concept list and an
// edge list. It is mutated only by [Hierarchy.ComputeAttributes] (and by
// [Hierarchy.SetHighlightPaths]); afterwards it is read-only and may be shared
// by concurrent readers.
type Hierarchy struct {
	graph    *dag.DAG
	nodes    map[ConceptID]*Node
	order    []ConceptID // concept input order, unlinked last
	roots    []ConceptID
	leaves   []ConceptID
	unlinked []ConceptID
	computed bool
}

// New builds the hierarchy and computes its attributes.
func New(concepts []Concept, edges []Edge) (*Hierarchy, error) {
	h, err := Build(concepts, edges)
	if err != nil {
		return nil, err
	}
	if err := h.ComputeAttributes(); err != nil {
		return nil, err
	}
	return h, nil
}

// Build adds one node per concept and one edge per parent→child pair, then
// moves every concept without any edge under the synthetic [UnlinkedID]
// node. Cycles are not detected here.
//
// Errors carry the codes DUPLICATE_CONCEPT, DANGLING_EDGE (unknown endpoint),
// INVALID_EDGE (self-loop or repeated pair) or INVALID_INPUT.
func Build(concepts []Concept, edges []Edge) (*Hierarchy, error) {
	h := &Hierarchy{
		graph: dag.New(nil),
		nodes: make(map[ConceptID]*Node, len(concepts)+1),
		order: make([]ConceptID, 0, len(concepts)+1),
	}

	for _, c := range concepts {
		if c.ConceptID == UnlinkedID {
			return nil, errs.New(errs.ErrCodeInvalidInput, "concept id %q is reserved", UnlinkedID)
		}
		if err := h.graph.AddNode(dag.Node{ID: string(c.ConceptID)}); err != nil {
			if errors.Is(err, dag.ErrDuplicateNodeID) {
				return nil, errs.Wrap(errs.ErrCodeDuplicateConcept, err, "concept %s listed more than once", c.ConceptID)
			}
			return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "concept %q", c.ConceptID)
		}
		h.nodes[c.ConceptID] = &Node{Concept: c}
		h.order = append(h.order, c.ConceptID)
	}

	for _, e := range edges {
		err := h.graph.AddEdge(dag.Edge{From: string(e.Parent()), To: string(e.Child())})
		switch {
		case err == nil:
		case errors.Is(err, dag.ErrUnknownSourceNode), errors.Is(err, dag.ErrUnknownTargetNode):
			return nil, errs.Wrap(errs.ErrCodeDanglingEdge, err, "edge %s->%s", e.Parent(), e.Child())
		default:
			return nil, errs.Wrap(errs.ErrCodeInvalidEdge, err, "edge %s->%s", e.Parent(), e.Child())
		}
	}

	h.roots = idsOf(h.graph.Sources())
	h.leaves = idsOf(h.graph.Sinks())
	h.unlinked = idsOf(h.graph.Isolated())

	if len(h.unlinked) > 0 {
		if err := h.graph.AddNode(dag.Node{ID: string(UnlinkedID), Kind: dag.NodeKindSynthetic}); err != nil {
			return nil, errs.Wrap(errs.ErrCodeInternal, err, "add unlinked node")
		}
		h.nodes[UnlinkedID] = newUnlinkedNode()
		h.order = append(h.order, UnlinkedID)
		for _, id := range h.unlinked {
			if err := h.graph.AddEdge(dag.Edge{From: string(UnlinkedID), To: string(id)}); err != nil {
				return nil, errs.Wrap(errs.ErrCodeInternal, err, "attach %s to unlinked", id)
			}
		}
		h.roots = idsOf(h.graph.Sources())
	}
	return h, nil
}

// Len returns the number of nodes, including the unlinked node if present.
func (h *Hierarchy) Len() int { return len(h.order) }

// Roots returns the nodes with no parent, in concept input order. The
// unlinked node, when present, is last.
func (h *Hierarchy) Roots() []ConceptID { return append([]ConceptID(nil), h.roots...) }

// Leaves returns the concepts that had no children before unlinked
// re-parenting.
func (h *Hierarchy) Leaves() []ConceptID { return append([]ConceptID(nil), h.leaves...) }

// Unlinked returns the concepts that had no edges and now hang below the
// unlinked node.
func (h *Hierarchy) Unlinked() []ConceptID { return append([]ConceptID(nil), h.unlinked...) }

// IDs returns every node id in concept input order.
func (h *Hierarchy) IDs() []ConceptID { return append([]ConceptID(nil), h.order...) }

// Node returns a copy of the node with the given id.
func (h *Hierarchy) Node(id ConceptID) (Node, bool) {
	n, ok := h.nodes[id]
	if !ok {
		return Node{}, false
	}
	return *n.clone(), true
}

// Computed reports whether attributes have been computed.
func (h *Hierarchy) Computed() bool { return h.computed }

func idsOf(nodes []*dag.Node) []ConceptID {
	ids := make([]ConceptID, len(nodes))
	for i, n := range nodes {
		ids[i] = ConceptID(n.ID)
	}
	return ids
}
