package hierarchy

// UnlinkedID is the id of the synthetic node that owns every concept with no
// edges at all.
const UnlinkedID ConceptID = "unlinked"

const unlinkedName = "Concepts included but not linked to other concepts"

// Node is a concept augmented with the rollups computed by
// [Hierarchy.ComputeAttributes]. Nodes are owned by their Hierarchy; callers
// receive copies.
type Node struct {
	Concept

	// NotAConcept marks the synthetic unlinked node.
	NotAConcept bool `json:"not_a_concept,omitempty"`

	ChildIDs        []ConceptID `json:"childIds,omitempty"`
	Descendants     []ConceptID `json:"descendants,omitempty"`
	DescendantCount int         `json:"descendantCount"`
	ChildCount      int         `json:"childCount"`
	LevelsBelow     int         `json:"levelsBelow"`
	DRC             int64       `json:"drc"`
	HasChildren     bool        `json:"hasChildren"`

	// PathFromDisplayedNode is the highlight path set by the host; it only
	// influences sibling ordering.
	PathFromDisplayedNode []ConceptID `json:"pathFromDisplayedNode,omitempty"`

	computed bool
}

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool { return len(n.ChildIDs) == 0 }

func (n *Node) clone() *Node {
	c := *n
	c.ChildIDs = append([]ConceptID(nil), n.ChildIDs...)
	c.Descendants = append([]ConceptID(nil), n.Descendants...)
	c.PathFromDisplayedNode = append([]ConceptID(nil), n.PathFromDisplayedNode...)
	return &c
}

func newUnlinkedNode() *Node {
	return &Node{
		Concept: Concept{
			ConceptID:    UnlinkedID,
			ConceptName:  unlinkedName,
			VocabularyID: "--",
		},
		NotAConcept: true,
	}
}
