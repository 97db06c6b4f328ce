package transform

import (
	"slices"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/matzehuels/conceptree/pkg/dag"
)

// BreakCycles removes back edges found by a depth-first search started from
// the sources and then from any node not yet visited. It returns the number
// of edges removed; afterwards the graph is acyclic.
func BreakCycles(g *dag.DAG) int {
	const (
		white = iota
		gray
		black
	)

	color := make(map[string]int, g.NodeCount())
	var backEdges [][2]string

	type frame struct {
		id   string
		next int
	}
	visit := func(start string) {
		color[start] = gray
		stack := []frame{{id: start}}
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			children := g.Children(top.id)
			if top.next == len(children) {
				color[top.id] = black
				stack = stack[:len(stack)-1]
				continue
			}
			child := children[top.next]
			top.next++
			switch color[child] {
			case white:
				color[child] = gray
				stack = append(stack, frame{id: child})
			case gray:
				backEdges = append(backEdges, [2]string{top.id, child})
			}
		}
	}

	for _, n := range g.Sources() {
		if color[n.ID] == white {
			visit(n.ID)
		}
	}
	for _, id := range g.NodeIDs() {
		if color[id] == white {
			visit(id)
		}
	}

	for _, e := range backEdges {
		g.RemoveEdge(e[0], e[1])
	}
	return len(backEdges)
}

// StronglyConnected returns the strongly connected components of g that
// contain more than one node, i.e. the cycles. Each component lists node IDs
// in graph insertion order and components are ordered by their first member.
// Self-loops cannot occur in a [dag.DAG], so single-node components are never
// cyclic.
func StronglyConnected(g *dag.DAG) [][]string {
	order := g.NodeIDs()
	if len(order) == 0 {
		return nil
	}

	sg := simple.NewDirectedGraph()
	idOf := make(map[string]int64, len(order))
	nameOf := make(map[int64]string, len(order))
	for _, id := range order {
		n := sg.NewNode()
		sg.AddNode(n)
		idOf[id] = n.ID()
		nameOf[n.ID()] = id
	}
	for _, e := range g.Edges() {
		sg.SetEdge(sg.NewEdge(sg.Node(idOf[e.From]), sg.Node(idOf[e.To])))
	}

	pos := dag.PosMap(order)
	var comps [][]string
	for _, scc := range topo.TarjanSCC(sg) {
		if len(scc) < 2 {
			continue
		}
		comp := make([]string, len(scc))
		for i, n := range scc {
			comp[i] = nameOf[n.ID()]
		}
		slices.SortFunc(comp, func(a, b string) int { return pos[a] - pos[b] })
		comps = append(comps, comp)
	}
	slices.SortFunc(comps, func(a, b []string) int { return pos[a[0]] - pos[b[0]] })
	return comps
}
