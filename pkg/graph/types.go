package graph

import (
	"fmt"

	"github.com/matzehuels/multigraph/pkg/graph/ids"
)

// Node is an opaque handle on a graph vertex.
//
// A Node carries no state besides its id. IsValid only checks the
// sentinel; whether a node belongs to a given graph is answered by
// [Graph.HasNode].
type Node struct {
	ID uint32
}

// Edge is an opaque handle on a graph edge.
type Edge struct {
	ID uint32
}

// InvalidNode and InvalidEdge denote "no element".
var (
	InvalidNode = Node{ID: ids.Invalid}
	InvalidEdge = Edge{ID: ids.Invalid}
)

// IsValid reports whether n is not the invalid sentinel.
func (n Node) IsValid() bool { return n.ID != ids.Invalid }

// IsValid reports whether e is not the invalid sentinel.
func (e Edge) IsValid() bool { return e.ID != ids.Invalid }

func (n Node) String() string {
	if !n.IsValid() {
		return "node(invalid)"
	}
	return fmt.Sprintf("node(%d)", n.ID)
}

func (e Edge) String() string {
	if !e.IsValid() {
		return "edge(invalid)"
	}
	return fmt.Sprintf("edge(%d)", e.ID)
}

// Ends is the (source, target) pair of an edge.
type Ends struct {
	Source Node
	Target Node
}

// IsLoop reports whether the edge is a self-loop.
func (e Ends) IsLoop() bool { return e.Source == e.Target }

// Opposite returns the endpoint of e that is not n. For a self-loop it
// returns n.
func (e Ends) Opposite(n Node) Node {
	if e.Source == n {
		return e.Target
	}
	return e.Source
}

// Reversed returns the ends with source and target swapped.
func (e Ends) Reversed() Ends { return Ends{Source: e.Target, Target: e.Source} }

var invalidEnds = Ends{Source: InvalidNode, Target: InvalidNode}
