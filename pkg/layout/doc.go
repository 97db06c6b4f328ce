// Package layout places the nodes of a concept hierarchy in width-bounded
// layers for node-link rendering.
//
// Nodes whose parents are all placed join the current layer, in input order,
// until it holds MaxWidth nodes or no node is ready; then a new layer starts.
// A child freed while its parent's layer still has room joins that layer.
// Nodes on or below a cycle never become ready; they are reported in
// [Layout.Dropped] together with the strongly connected components in
// [Layout.Cycles].
//
// Within each layer, nodes are reordered to reduce crossings with the layer
// above.
//
// Coordinates are x = position * NodeSpacing and y = layer * LayerSpacing.
package layout
