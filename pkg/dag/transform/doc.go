// Package transform provides graph transformations used to lay out a concept
// hierarchy.
//
// # Layer Assignment
//
// [AssignBoundedLayers] packs nodes into layers of a bounded width in
// topological order; nodes that cannot be placed because they sit on (or
// below) a cycle are returned separately instead of looping forever.
//
// # Cycles
//
// Concept hierarchies should be acyclic, but vocabulary data occasionally is
// not. [StronglyConnected] reports the offending components using gonum's
// Tarjan implementation, and [BreakCycles] removes back edges so downstream
// passes can run on the remainder.
package transform
