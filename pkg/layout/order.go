package layout

import (
	"slices"

	"github.com/matzehuels/conceptree/pkg/dag"
	"github.com/matzehuels/conceptree/pkg/dag/perm"
)

// maxOrders caps the orders tried for one layer; 5040 admits layers of up to
// seven nodes.
const maxOrders = 5040

// orderLayers reduces edge crossings in one top-down sweep. Each layer is
// ordered against the already fixed layer above it: by trying every order
// when it is narrow, by parent barycenter otherwise. A layer only changes
// when the new order has strictly fewer crossings, so crossing-free input
// keeps its order.
func orderLayers(g *dag.DAG, layers [][]string) {
	for i := 1; i < len(layers); i++ {
		upper, lower := layers[i-1], layers[i]
		best := dag.CountLayerCrossings(g, upper, lower)
		if best == 0 {
			continue
		}

		if perm.Factorial(len(lower)) > maxOrders {
			if c := barycenterOrder(g, upper, lower); dag.CountLayerCrossings(g, upper, c) < best {
				layers[i] = c
			}
			continue
		}

		candidate := make([]string, len(lower))
		perm.Each(len(lower), func(p []int) bool {
			for j, k := range p {
				candidate[j] = lower[k]
			}
			if n := dag.CountLayerCrossings(g, upper, candidate); n < best {
				best = n
				layers[i] = slices.Clone(candidate)
			}
			return best > 0
		})
	}
}

// barycenterOrder sorts lower by the mean position of each node's parents in
// upper. Nodes without a parent there keep their own index.
func barycenterOrder(g *dag.DAG, upper, lower []string) []string {
	pos := dag.PosMap(upper)
	weight := make(map[string]float64, len(lower))
	for i, id := range lower {
		sum, n := 0.0, 0
		for _, p := range g.Parents(id) {
			if j, ok := pos[p]; ok {
				sum += float64(j)
				n++
			}
		}
		if n == 0 {
			weight[id] = float64(i)
		} else {
			weight[id] = sum / float64(n)
		}
	}

	out := slices.Clone(lower)
	slices.SortStableFunc(out, func(a, b string) int {
		switch {
		case weight[a] < weight[b]:
			return -1
		case weight[a] > weight[b]:
			return 1
		}
		return 0
	})
	return out
}
