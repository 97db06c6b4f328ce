package hierarchy

import (
	"strings"

	"github.com/matzehuels/conceptree/pkg/dag/transform"
	errs "github.com/matzehuels/conceptree/pkg/errors"
)

// ComputeAttributes fills in the rollups of every node reachable from a root:
// child ids, deduplicated descendants, counts, levels below and the rolled-up
// record count (drc). Each node is computed once even when reached through
// several parents, so calling ComputeAttributes again is a no-op.
//
// The traversal uses an explicit stack. A cycle is reported as
// CYCLE_DETECTED instead of looping: either a back edge met during the walk
// or nodes left unreached after all roots have been visited.
func (h *Hierarchy) ComputeAttributes() error {
	if h.computed {
		return nil
	}

	onStack := make(map[ConceptID]bool)
	type frame struct {
		id   ConceptID
		next int
	}

	for _, root := range h.roots {
		if h.nodes[root].computed {
			continue
		}
		stack := []frame{{id: root}}
		onStack[root] = true
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			children := h.graph.Children(string(top.id))
			if top.next < len(children) {
				child := ConceptID(children[top.next])
				top.next++
				if h.nodes[child].computed {
					continue
				}
				if onStack[child] {
					return errs.New(errs.ErrCodeCycleDetected, "cycle through %s->%s", top.id, child)
				}
				onStack[child] = true
				stack = append(stack, frame{id: child})
				continue
			}
			h.finish(top.id)
			onStack[top.id] = false
			stack = stack[:len(stack)-1]
		}
	}

	for _, id := range h.order {
		if !h.nodes[id].computed {
			return h.unreachedError()
		}
	}
	h.computed = true
	return nil
}

// finish computes a node whose children are all computed.
func (h *Hierarchy) finish(id ConceptID) {
	n := h.nodes[id]
	n.LevelsBelow, n.DescendantCount, n.ChildCount = 0, 0, 0
	n.DRC = int64(n.TotalCnt)
	n.computed = true

	children := h.graph.Children(string(id))
	if len(children) == 0 {
		n.ChildIDs, n.Descendants, n.HasChildren = nil, nil, false
		return
	}

	n.ChildIDs = make([]ConceptID, len(children))
	for i, c := range children {
		n.ChildIDs[i] = ConceptID(c)
	}

	seen := make(map[ConceptID]struct{}, len(children))
	desc := make([]ConceptID, 0, len(children))
	add := func(d ConceptID) {
		if _, ok := seen[d]; ok {
			return
		}
		seen[d] = struct{}{}
		desc = append(desc, d)
	}
	for _, c := range n.ChildIDs {
		add(c)
	}
	for _, c := range n.ChildIDs {
		child := h.nodes[c]
		n.LevelsBelow = max(n.LevelsBelow, 1+child.LevelsBelow)
		for _, d := range child.Descendants {
			add(d)
		}
	}

	n.Descendants = desc
	n.DescendantCount = len(desc)
	n.ChildCount = len(n.ChildIDs)
	for _, d := range desc {
		n.DRC += int64(h.nodes[d].TotalCnt)
	}
	n.HasChildren = true
}

func (h *Hierarchy) unreachedError() error {
	comps := transform.StronglyConnected(h.graph)
	if len(comps) == 0 {
		return errs.New(errs.ErrCodeCycleDetected, "nodes unreachable from any root")
	}
	parts := make([]string, len(comps))
	for i, c := range comps {
		parts[i] = "[" + strings.Join(c, " ") + "]"
	}
	return errs.New(errs.ErrCodeCycleDetected, "cycles among %s", strings.Join(parts, ", "))
}
