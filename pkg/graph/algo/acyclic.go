package algo

import (
	errs "github.com/matzehuels/multigraph/pkg/errors"
	"github.com/matzehuels/multigraph/pkg/graph"
)

// AcyclicTest reports whether g has no directed cycle. The obstruction
// edges are the back edges of a depth-first traversal in node order;
// reversing all of them makes g acyclic. A self-loop is always an
// obstruction.
func AcyclicTest(g *graph.Graph) (acyclic bool, obstructions []graph.Edge) {
	acyclic = walkBackEdges(g, func(e graph.Edge) bool {
		obstructions = append(obstructions, e)
		return true
	})
	return acyclic, obstructions
}

// hasNoCycle stops at the first back edge.
func hasNoCycle(g *graph.Graph) bool {
	return walkBackEdges(g, func(graph.Edge) bool { return false })
}

type frame struct {
	node graph.Node
	out  []graph.Edge
	next int
}

// walkBackEdges runs an iterative DFS over out-edges and calls back for
// every edge reaching a node still on the stack. It returns true when no
// such edge exists.
func walkBackEdges(g *graph.Graph, back func(graph.Edge) bool) bool {
	const (
		white = iota
		gray
		black
	)
	color := make(map[graph.Node]uint8, g.NumberOfNodes())
	acyclic := true

	for _, root := range g.Nodes() {
		if color[root] != white {
			continue
		}
		color[root] = gray
		stack := []frame{{node: root, out: g.OutEdges(root)}}
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			if top.next == len(top.out) {
				color[top.node] = black
				stack = stack[:len(stack)-1]
				continue
			}
			e := top.out[top.next]
			top.next++
			tgt := g.Target(e)
			switch color[tgt] {
			case white:
				color[tgt] = gray
				stack = append(stack, frame{node: tgt, out: g.OutEdges(tgt)})
			case gray:
				acyclic = false
				if !back(e) {
					return false
				}
			}
		}
	}
	return acyclic
}

// SelfLoop records how MakeAcyclic replaced a self-loop on Node: two new
// nodes and the edges Node->N1, N1->N2 and Node->N2. Old is the deleted
// loop.
type SelfLoop struct {
	Node   graph.Node
	N1, N2 graph.Node
	E1     graph.Edge
	E2     graph.Edge
	E3     graph.Edge
	Old    graph.Edge
}

// MakeAcyclic turns g into a directed acyclic graph. Self-loops are
// replaced by two-node paths and the remaining obstruction edges are
// reversed. The changes are reported so callers can undo them.
func MakeAcyclic(g *graph.Graph) (reversed []graph.Edge, loops []SelfLoop, err error) {
	if hasNoCycle(g) {
		return nil, nil, nil
	}

	var old []graph.Edge
	for _, e := range g.Edges() {
		end := g.Ends(e)
		if !end.IsLoop() {
			continue
		}
		l := SelfLoop{Node: end.Source, Old: e}
		l.N1, l.N2 = g.AddNode(), g.AddNode()
		if l.E1, err = g.AddEdge(end.Source, l.N1); err != nil {
			return nil, nil, err
		}
		if l.E2, err = g.AddEdge(l.N1, l.N2); err != nil {
			return nil, nil, err
		}
		if l.E3, err = g.AddEdge(end.Source, l.N2); err != nil {
			return nil, nil, err
		}
		loops = append(loops, l)
		old = append(old, e)
	}
	if err := g.DelEdges(old, false); err != nil {
		return nil, nil, err
	}

	_, reversed = AcyclicTest(g)
	if len(reversed) > g.NumberOfEdges()/2 {
		g.Logger().Warn("make acyclic reverses more than half of the edges", "reversed", len(reversed), "edges", g.NumberOfEdges())
	}
	for _, e := range reversed {
		if err := g.Reverse(e); err != nil {
			return nil, nil, err
		}
	}
	if !hasNoCycle(g) {
		return nil, nil, errs.New(errs.ErrCodeInternal, "graph %d still has a cycle after reversing %d edges", g.ID(), len(reversed))
	}
	return reversed, loops, nil
}

// AcyclicCache memoizes AcyclicTest per graph.
type AcyclicCache struct {
	*resultCache[bool]
}

// NewAcyclicCache returns an empty cache.
func NewAcyclicCache() *AcyclicCache {
	return &AcyclicCache{newResultCache(hasNoCycle, reactAcyclic)}
}

// IsAcyclic returns the cached result for g, computing it on first use.
func (c *AcyclicCache) IsAcyclic(g *graph.Graph) bool { return c.get(g) }

// Adding an edge cannot repair a cycle and deleting one cannot create a
// cycle; everything else that moves edges invalidates.
func reactAcyclic(ev graph.Event, acyclic bool) (bool, bool) {
	switch ev.(type) {
	case graph.EdgeAdded:
		return false, !acyclic
	case graph.EdgeDeleted:
		return true, acyclic
	case graph.EdgeReversed, graph.EndsChanged:
		return acyclic, false
	}
	return acyclic, true
}
