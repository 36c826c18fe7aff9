// Package algo provides structural tests and read-only analytic passes
// over [graph.Graph] values.
//
// # Cached Tests
//
// [AcyclicCache], [ConnectedCache] and [SimpleCache] memoize their result per graph and
// subscribe to the graph's events. A mutation that can change the answer
// drops the cached entry, so the next query recomputes without explicit
// invalidation:
//
//	cache := algo.NewAcyclicCache()
//	cache.IsAcyclic(g) // true
//	g.AddEdge(b, a)    // closes a cycle
//	cache.IsAcyclic(g) // false
//
// Entries are dropped when their graph is destroyed. Undo and redo emit
// the same structural events as direct edits, so caches stay correct
// across checkpoints.
//
// # Parallel Passes
//
// [DegreeMetric] and [BoundingBox] snapshot the node or edge list,
// compute on a [parallel.Pool] and write results back on the calling
// goroutine. The graph must not be mutated while a pass runs.
package algo
