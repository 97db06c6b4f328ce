package transform

import "github.com/matzehuels/conceptree/pkg/dag"

// AssignBoundedLayers partitions the graph into layers of at most maxWidth
// nodes using Kahn's algorithm.
//
// Each round takes the current frontier (unplaced nodes whose parents are all
// placed) in graph insertion order and appends it to the current layer until
// the layer holds maxWidth nodes. Children freed by a round may join the same
// layer in a later round, so a parent sits in the same layer as its child or
// above it, and within a layer every parent precedes its children. The layer
// is closed when it is full or when the frontier is empty.
//
// Nodes that never join the frontier lie on or below a cycle. They are
// returned in dropped (insertion order) and are not assigned a row. The rows
// of placed nodes are written back with [dag.DAG.SetRows].
//
// A maxWidth below 1 is treated as unbounded.
func AssignBoundedLayers(g *dag.DAG, maxWidth int) (layers [][]string, dropped []string) {
	order := g.NodeIDs()
	remaining := make(map[string]int, len(order))
	for _, id := range order {
		remaining[id] = g.InDegree(id)
	}
	placed := make(map[string]bool, len(order))
	rows := make(map[string]int, len(order))

	frontier := func(limit int) []string {
		var ids []string
		for _, id := range order {
			if placed[id] || remaining[id] != 0 {
				continue
			}
			if limit > 0 && len(ids) == limit {
				break
			}
			ids = append(ids, id)
		}
		return ids
	}

	var current []string
	for {
		limit := 0
		if maxWidth > 0 {
			limit = maxWidth - len(current)
		}
		picked := frontier(limit)
		if len(picked) == 0 {
			break
		}
		for _, id := range picked {
			placed[id] = true
			rows[id] = len(layers)
		}
		for _, id := range picked {
			for _, child := range g.Children(id) {
				remaining[child]--
			}
		}
		current = append(current, picked...)

		if (maxWidth > 0 && len(current) >= maxWidth) || len(frontier(1)) == 0 {
			layers = append(layers, current)
			current = nil
		}
	}

	for _, id := range order {
		if !placed[id] {
			dropped = append(dropped, id)
		}
	}
	g.SetRows(rows)
	return layers, dropped
}
