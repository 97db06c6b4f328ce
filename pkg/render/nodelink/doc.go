// Package nodelink draws concept hierarchies as node-link diagrams with
// Graphviz.
//
// Build the layered graph with the layout package, convert it to DOT and
// render it in-process:
//
//	g, _ := l.DAG()
//	dot := nodelink.ToDOT(g, nodelink.Options{KeepLayers: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// With KeepLayers set, every layer becomes a rank=same group, so the
// width-bounded layering survives Graphviz's own ranking. The DOT source can
// also be written out and processed with external Graphviz tools.
package nodelink
