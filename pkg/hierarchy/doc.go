// Package hierarchy is the concept-hierarchy engine: it turns a list of
// concepts and parent→child edges into a node table with rollups and resolves
// which occurrences of which concepts a tree-table should show.
//
// # Building
//
// [Build] creates one node per concept and one edge per pair, rejecting
// duplicate concepts, dangling edges, self-loops and repeated pairs with
// coded errors from pkg/errors. Concepts without any edge are moved below a
// synthetic node with id [UnlinkedID], which always sorts last.
//
// [Hierarchy.ComputeAttributes] then fills in child ids, deduplicated
// descendants, counts, levels below and drc (a node's own total_cnt plus that
// of all its descendants). [New] does both.
//
// # Resolving
//
// A node with several parents appears once per path from a root. Each
// appearance is a [Row] keyed by its row path ("/A/B/C").
// [Hierarchy.Resolve] flattens all rows, hides everything below depth 0
// unless [Config.ExpandAll] is set, applies per-path expand and collapse
// overrides, and finally records repeated occurrences in the
// allButFirstOccurrence category, hiding them when that treatment is on (the
// default). Every row carries the reasons it was hidden or shown.
//
// Other category treatments are reported by [ComputeDisplayConfig] but do not
// change visibility.
//
// # Statistics
//
// [ComputeDisplayConfig] counts, per category, how many members are visible
// and hidden, and seeds missing treatment flags in the configuration from the
// declared defaults.
//
// # Concurrency
//
// A Hierarchy is not safe for concurrent mutation. Once attributes are
// computed, Resolve, WholeHierarchy, Export and GraphCopy may run from
// several goroutines.
package hierarchy
