// Package dag provides the directed graph that backs a concept hierarchy.
//
// # Overview
//
// A concept hierarchy is a set of concepts connected by parent→child edges.
// This package stores that structure: nodes keyed by canonical concept id,
// directed edges, and parent/child adjacency lists. Everything is kept in
// insertion order so the engine built on top of it is deterministic.
//
// # Basic Usage
//
// Create a new graph with [New], add nodes with [DAG.AddNode], and edges with
// [DAG.AddEdge]:
//
//	g := dag.New(nil)
//	g.AddNode(dag.Node{ID: "404684"})
//	g.AddNode(dag.Node{ID: "4154309"})
//	g.AddEdge(dag.Edge{From: "404684", To: "4154309"})
//
// Self-loops and repeated parent→child pairs are rejected. Cycles are not
// rejected on insertion; [DAG.Validate] detects them.
//
// Query the structure with [DAG.Children], [DAG.Parents], [DAG.Sources],
// [DAG.Sinks] and [DAG.Isolated].
//
// # Node Types
//
//   - [NodeKindRegular]: concepts supplied by the caller
//   - [NodeKindSynthetic]: nodes injected by the engine (the "unlinked" parent)
//
// # Rows
//
// Nodes carry a Row used by layered layouts. Rows are assigned by the
// transform subpackage and indexed with [DAG.SetRows]; [CountCrossings]
// measures the quality of a layering.
//
// # Concurrency
//
// DAG instances are not safe for concurrent use. Read-only queries on a graph
// that is no longer modified may run in parallel.
//
// [transform]: github.com/matzehuels/conceptree/pkg/dag/transform
package dag
