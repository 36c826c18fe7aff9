package graph

import "slices"

// Nodes returns the nodes of g in sequence order. The sequence is
// insertion order until the first deletion; deleting an element moves the
// last one into its slot.
func (g *Graph) Nodes() []Node { return g.members.nodes() }

// Edges returns the edges of g in sequence order; see [Graph.Nodes].
func (g *Graph) Edges() []Edge { return g.members.edges() }

func (g *Graph) NumberOfNodes() int { return g.members.numberOfNodes() }
func (g *Graph) NumberOfEdges() int { return g.members.numberOfEdges() }

// HasNode reports whether n is a member of g.
func (g *Graph) HasNode(n Node) bool { return n.IsValid() && g.members.hasNode(n) }

// HasEdge reports whether e is a member of g.
func (g *Graph) HasEdge(e Edge) bool { return e.IsValid() && g.members.hasEdge(e) }

// NodePos returns the position of n in Nodes, or -1.
func (g *Graph) NodePos(n Node) int {
	if !n.IsValid() {
		return -1
	}
	return g.members.nodePos(n)
}

// EdgePos returns the position of e in Edges, or -1.
func (g *Graph) EdgePos(e Edge) int {
	if !e.IsValid() {
		return -1
	}
	return g.members.edgePos(e)
}

// OneNode returns the first node of g, or InvalidNode.
func (g *Graph) OneNode() Node {
	if ns := g.members.nodes(); len(ns) > 0 {
		return ns[0]
	}
	return InvalidNode
}

// OneEdge returns the first edge of g, or InvalidEdge.
func (g *Graph) OneEdge() Edge {
	if es := g.members.edges(); len(es) > 0 {
		return es[0]
	}
	return InvalidEdge
}

// Ends returns the source and target of e.
func (g *Graph) Ends(e Edge) Ends {
	if !g.HasEdge(e) {
		return invalidEnds
	}
	return g.storage().endsOf(e)
}

func (g *Graph) Source(e Edge) Node { return g.Ends(e).Source }
func (g *Graph) Target(e Edge) Node { return g.Ends(e).Target }

// Opposite returns the end of e that is not n.
func (g *Graph) Opposite(e Edge, n Node) Node {
	if !g.HasEdge(e) {
		return InvalidNode
	}
	return g.storage().endsOf(e).Opposite(n)
}

// filter keeps the edges of list that are members of g. Views have no
// degree counters; they filter the root incidence.
func (g *Graph) filter(list []Edge) []Edge {
	if g.IsRoot() {
		return list
	}
	out := list[:0]
	for _, e := range list {
		if g.members.hasEdge(e) {
			out = append(out, e)
		}
	}
	return out
}

// Incident returns the edges incident to n in incidence order. A
// self-loop appears twice.
func (g *Graph) Incident(n Node) []Edge {
	if !g.HasNode(n) {
		return nil
	}
	return g.filter(g.storage().incidence(n))
}

// OutEdges returns the edges leaving n. A self-loop appears once.
func (g *Graph) OutEdges(n Node) []Edge {
	if !g.HasNode(n) {
		return nil
	}
	return g.filter(g.storage().directed(n, true))
}

// InEdges returns the edges entering n. A self-loop appears once.
func (g *Graph) InEdges(n Node) []Edge {
	if !g.HasNode(n) {
		return nil
	}
	return g.filter(g.storage().directed(n, false))
}

// Deg returns the number of edge ends at n; a self-loop counts twice.
func (g *Graph) Deg(n Node) int {
	if !g.HasNode(n) {
		return 0
	}
	if g.IsRoot() {
		return g.storage().deg(n)
	}
	return len(g.Incident(n))
}

// Outdeg returns the number of edges leaving n; a self-loop counts once.
func (g *Graph) Outdeg(n Node) int {
	if !g.HasNode(n) {
		return 0
	}
	if g.IsRoot() {
		return g.storage().outdeg(n)
	}
	return len(g.OutEdges(n))
}

// Indeg returns the number of edges entering n; a self-loop counts once.
func (g *Graph) Indeg(n Node) int {
	if !g.HasNode(n) {
		return 0
	}
	if g.IsRoot() {
		return g.storage().indeg(n)
	}
	return len(g.InEdges(n))
}

// OutNodes returns the target of each edge leaving n, repeated for
// parallel edges.
func (g *Graph) OutNodes(n Node) []Node {
	es := g.OutEdges(n)
	out := make([]Node, len(es))
	for i, e := range es {
		out[i] = g.storage().endsOf(e).Target
	}
	return out
}

// InNodes returns the source of each edge entering n.
func (g *Graph) InNodes(n Node) []Node {
	es := g.InEdges(n)
	out := make([]Node, len(es))
	for i, e := range es {
		out[i] = g.storage().endsOf(e).Source
	}
	return out
}

// Neighbors returns the distinct nodes adjacent to n in incidence order.
// n itself is included when it carries a self-loop.
func (g *Graph) Neighbors(n Node) []Node {
	var out []Node
	for _, e := range g.Incident(n) {
		o := g.storage().endsOf(e).Opposite(n)
		if !slices.Contains(out, o) {
			out = append(out, o)
		}
	}
	return out
}

// ExistEdge returns an edge of g linking src to tgt. Undirected lookups
// also match tgt to src.
func (g *Graph) ExistEdge(src, tgt Node, directed bool) (Edge, bool) {
	if !g.HasNode(src) || !g.HasNode(tgt) {
		return InvalidEdge, false
	}
	st := g.storage()
	if g.IsRoot() {
		return st.existEdge(src, tgt, directed)
	}
	for _, e := range st.getEdges(src, tgt, directed) {
		if g.members.hasEdge(e) {
			return e, true
		}
	}
	return InvalidEdge, false
}

// GetEdges returns every edge of g linking src and tgt, a self-loop once.
func (g *Graph) GetEdges(src, tgt Node, directed bool) []Edge {
	if !g.HasNode(src) || !g.HasNode(tgt) {
		return nil
	}
	return g.filter(g.storage().getEdges(src, tgt, directed))
}

// FindSource returns the first node without incoming edges, or
// InvalidNode.
func (g *Graph) FindSource() Node {
	for _, n := range g.Nodes() {
		if g.Indeg(n) == 0 {
			return n
		}
	}
	return InvalidNode
}

// FindSink returns the first node without outgoing edges, or InvalidNode.
func (g *Graph) FindSink() Node {
	for _, n := range g.Nodes() {
		if g.Outdeg(n) == 0 {
			return n
		}
	}
	return InvalidNode
}
