// Package graph provides an in-process attributed multigraph with a
// subgraph hierarchy, typed properties and checkpoint-based undo/redo.
//
// # Overview
//
// A [Graph] created with [New] is a root: it owns the storage of nodes and
// edges and allocates their ids. Subgraphs created with
// [Graph.AddSubgraph] are views presenting a subset of their supergraph's
// elements. Views share ids with the root, so a [Node] or [Edge] handle
// means the same element in every graph of the tree.
//
// Multi-edges and self-loops are allowed. A self-loop appears twice in the
// incidence of its node, counts 2 toward [Graph.Deg] and 1 toward each of
// [Graph.Indeg] and [Graph.Outdeg].
//
// # Basic Usage
//
//	g := graph.New()
//	a, b := g.AddNode(), g.AddNode()
//	e, _ := g.AddEdge(a, b)
//
//	weight, _ := graph.LocalProperty(g, "weight", graph.Double)
//	weight.SetEdgeValue(e, 2.5)
//
//	sub := g.AddSubgraph("left")
//	_ = sub.AddExistingNode(a)
//
// # Iteration Order
//
// [Graph.Nodes] and [Graph.Edges] return elements in sequence order.
// Deleting an element moves the last element of the sequence into its
// slot, so the order is insertion order only until the first deletion.
// The incidence order of a node is under caller control through
// [Graph.SetEdgeOrder] and [Graph.SwapEdgeOrder].
//
// # Properties
//
// A [Property] is local to one graph and visible from its descendants
// unless they define a property of the same name. [LocalProperty] and
// [GetProperty] create or look up typed properties; [PropertyInterface]
// gives string and numeric access without knowing the value type.
//
// # Checkpoints
//
// [Graph.Push] opens a checkpoint on the root. Every later change to the
// tree, including property values, graph attributes and the subgraph
// hierarchy, is recorded. [Graph.Pop] undoes the changes and
// [Graph.Unpop] redoes them. Undo followed by redo restores ids, sequence
// order, incidence order and property values exactly. Any other change
// made after a pop discards the redo history.
//
// # Events
//
// Graphs and properties raise [Event] values to their subscribers,
// synchronously and in registration order. Use [Graph.Subscribe] or the
// typed filter [On].
//
// # Concurrency
//
// A graph tree is single-writer. Callers must serialize every mutation
// and must not read while another goroutine writes. Read-only analyses
// may run in parallel over a snapshot of the node list; see the parallel
// package.
package graph
