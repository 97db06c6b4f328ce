// Package pkg holds the conceptree libraries.
//
// Conceptree turns a concept set (concepts plus parent/child edges) into a
// collapsible hierarchy and draws it as a layered node-link diagram:
//
//	Bundle (concepts, edges, categories)
//	     ↓
//	[hierarchy] Build, ComputeAttributes, Resolve
//	     ↓
//	[layout] width-bounded layers, crossing reduction
//	     ↓
//	[render/nodelink] DOT, SVG, PNG
//
// [pipeline] runs these stages with caching ([cache]); [viewstate] stores
// visibility configurations; [config] loads settings; [io] reads bundles and
// writes results. [dag] is the graph structure underneath, with cycle and
// layering algorithms in [dag/transform].
package pkg
