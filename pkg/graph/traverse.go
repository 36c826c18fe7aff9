package graph

// Visit is called for each node reached by a traversal. Returning false
// stops the traversal from expanding that node; other branches continue.
type Visit func(n Node) bool

// VisitEdge is called for each edge discovering an unvisited node.
// Returning false keeps the traversal from expanding that node.
type VisitEdge func(e Edge, reached Node) bool

// step returns the edges followed from n and the node each leads to.
func (g *Graph) step(n Node, directed bool) ([]Edge, []Node) {
	var es []Edge
	if directed {
		es = g.OutEdges(n)
	} else {
		es = g.Incident(n)
	}
	st := g.storage()
	to := make([]Node, len(es))
	for i, e := range es {
		to[i] = st.endsOf(e).Opposite(n)
	}
	return es, to
}

// roots returns start, or every node of g when start is invalid.
func (g *Graph) roots(start Node) []Node {
	if start.IsValid() {
		if !g.HasNode(start) {
			return nil
		}
		return []Node{start}
	}
	return g.Nodes()
}

// BFS visits nodes breadth-first from start. With an invalid start every
// component is traversed, in node order.
func (g *Graph) BFS(start Node, directed bool, visit Visit) {
	g.bfs(start, directed, visit, nil)
}

// BFSEdges reports the tree edges of a breadth-first traversal.
func (g *Graph) BFSEdges(start Node, directed bool, visit VisitEdge) {
	g.bfs(start, directed, nil, visit)
}

func (g *Graph) bfs(start Node, directed bool, visit Visit, visitEdge VisitEdge) {
	seen := make(map[Node]bool, g.NumberOfNodes())
	for _, r := range g.roots(start) {
		if seen[r] {
			continue
		}
		seen[r] = true
		queue := []Node{r}
		for len(queue) > 0 {
			n := queue[0]
			queue = queue[1:]
			if visit != nil && !visit(n) {
				continue
			}
			es, to := g.step(n, directed)
			for i, m := range to {
				if seen[m] {
					continue
				}
				seen[m] = true
				if visitEdge != nil && !visitEdge(es[i], m) {
					continue
				}
				queue = append(queue, m)
			}
		}
	}
}

// DFS visits nodes depth-first in pre-order from start. With an invalid
// start every component is traversed, in node order.
func (g *Graph) DFS(start Node, directed bool, visit Visit) {
	g.dfs(start, directed, visit, nil)
}

// DFSEdges reports the tree edges of a depth-first traversal.
func (g *Graph) DFSEdges(start Node, directed bool, visit VisitEdge) {
	g.dfs(start, directed, nil, visit)
}

type dfsFrame struct {
	via  Edge
	node Node
}

func (g *Graph) dfs(start Node, directed bool, visit Visit, visitEdge VisitEdge) {
	seen := make(map[Node]bool, g.NumberOfNodes())
	for _, r := range g.roots(start) {
		if seen[r] {
			continue
		}
		stack := []dfsFrame{{via: InvalidEdge, node: r}}
		for len(stack) > 0 {
			f := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if seen[f.node] {
				continue
			}
			seen[f.node] = true
			if f.via.IsValid() && visitEdge != nil && !visitEdge(f.via, f.node) {
				continue
			}
			if visit != nil && !visit(f.node) {
				continue
			}
			es, to := g.step(f.node, directed)
			for i := len(to) - 1; i >= 0; i-- {
				if !seen[to[i]] {
					stack = append(stack, dfsFrame{via: es[i], node: to[i]})
				}
			}
		}
	}
}

// BFSOrder returns the nodes in breadth-first order.
func (g *Graph) BFSOrder(start Node, directed bool) []Node {
	var out []Node
	g.BFS(start, directed, func(n Node) bool {
		out = append(out, n)
		return true
	})
	return out
}

// DFSOrder returns the nodes in depth-first pre-order.
func (g *Graph) DFSOrder(start Node, directed bool) []Node {
	var out []Node
	g.DFS(start, directed, func(n Node) bool {
		out = append(out, n)
		return true
	})
	return out
}
