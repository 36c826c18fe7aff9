package algo

import (
	"github.com/matzehuels/multigraph/pkg/graph"
)

// ConnectedComponents returns the weakly connected components of g. Each
// component lists its nodes in traversal order; components are ordered by
// their first node in g.
func ConnectedComponents(g *graph.Graph) [][]graph.Node {
	seen := make(map[graph.Node]bool, g.NumberOfNodes())
	var out [][]graph.Node
	for _, n := range g.Nodes() {
		if seen[n] {
			continue
		}
		var comp []graph.Node
		g.BFS(n, false, func(m graph.Node) bool {
			seen[m] = true
			comp = append(comp, m)
			return true
		})
		out = append(out, comp)
	}
	return out
}

// IsConnected reports whether g has at most one weakly connected
// component. The empty graph is connected.
func IsConnected(g *graph.Graph) bool {
	if g.NumberOfNodes() == 0 {
		return true
	}
	return len(g.BFSOrder(g.OneNode(), false)) == g.NumberOfNodes()
}

// MakeConnected links the first node of every component to the first node
// of the first component and returns the added edges.
func MakeConnected(g *graph.Graph) ([]graph.Edge, error) {
	comps := ConnectedComponents(g)
	if len(comps) < 2 {
		return nil, nil
	}
	added := make([]graph.Edge, 0, len(comps)-1)
	for _, c := range comps[1:] {
		e, err := g.AddEdge(comps[0][0], c[0])
		if err != nil {
			return added, err
		}
		added = append(added, e)
	}
	return added, nil
}

// ConnectedCache memoizes IsConnected and ConnectedComponents per graph.
type ConnectedCache struct {
	connected  *resultCache[bool]
	components *resultCache[[][]graph.Node]
}

// NewConnectedCache returns an empty cache.
func NewConnectedCache() *ConnectedCache {
	return &ConnectedCache{
		connected:  newResultCache(IsConnected, reactConnected),
		components: newResultCache(ConnectedComponents, reactComponents),
	}
}

// IsConnected returns the cached result for g.
func (c *ConnectedCache) IsConnected(g *graph.Graph) bool { return c.connected.get(g) }

// ConnectedComponents returns the cached components of g. The result is
// shared; callers must not modify it.
func (c *ConnectedCache) ConnectedComponents(g *graph.Graph) [][]graph.Node {
	return c.components.get(g)
}

// NumberOfComponents returns the number of cached components of g.
func (c *ConnectedCache) NumberOfComponents(g *graph.Graph) int {
	return len(c.ConnectedComponents(g))
}

// Len returns the number of graphs with any cached result.
func (c *ConnectedCache) Len() int { return max(c.connected.Len(), c.components.Len()) }

// Reset drops every cached result.
func (c *ConnectedCache) Reset() {
	c.connected.Reset()
	c.components.Reset()
}

func reactConnected(ev graph.Event, connected bool) (bool, bool) {
	switch ev := ev.(type) {
	case graph.NodeAdded:
		// A new node is isolated unless it is the only one.
		if ev.Graph.NumberOfNodes() > 1 {
			return false, true
		}
		return connected, false
	case graph.EdgeAdded:
		return true, connected
	case graph.EdgeDeleted:
		return false, !connected
	case graph.NodeDeleted, graph.EndsChanged:
		return connected, false
	}
	return connected, true
}

func reactComponents(ev graph.Event, comps [][]graph.Node) ([][]graph.Node, bool) {
	switch ev.(type) {
	case graph.NodeAdded, graph.NodeDeleted, graph.EdgeAdded, graph.EdgeDeleted, graph.EndsChanged:
		return nil, false
	}
	return comps, true
}
