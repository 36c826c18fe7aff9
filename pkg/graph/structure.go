package graph

import (
	"slices"

	errs "github.com/matzehuels/multigraph/pkg/errors"
)

// =============================================================================
// Adding elements
// =============================================================================

// AddNode creates a node. On a view the node is created at the root and
// added to every graph between the root and g.
//
// AddNode panics with an ID_EXHAUSTED error when the node id space is
// used up.
func (g *Graph) AddNode() Node {
	g.changed()
	n, err := g.storage().addNode()
	if err != nil {
		panic(err)
	}
	g.root.emit(NodeAdded{Graph: g.root, Node: n})
	for _, v := range g.path() {
		v.includeNode(n)
	}
	return n
}

// AddNodes creates count nodes and returns them in creation order.
func (g *Graph) AddNodes(count int) []Node {
	if count <= 0 {
		return nil
	}
	g.changed()
	ns, err := g.storage().addNodes(count)
	if err != nil {
		panic(err)
	}
	for _, n := range ns {
		g.root.emit(NodeAdded{Graph: g.root, Node: n})
	}
	for _, v := range g.path() {
		for _, n := range ns {
			v.includeNode(n)
		}
	}
	return ns
}

// AddExistingNode adds a node of the root to g and to every graph between
// them that lacks it. Adding a member is a no-op.
func (g *Graph) AddExistingNode(n Node) error {
	if g.HasNode(n) {
		return nil
	}
	if !g.root.HasNode(n) {
		return g.root.nodeError(n)
	}
	g.changed()
	for _, v := range g.path() {
		v.includeNode(n)
	}
	return nil
}

// AddExistingNodes is AddExistingNode for several nodes; nothing is added
// when one of them is unknown to the root.
func (g *Graph) AddExistingNodes(nodes []Node) error {
	for _, n := range nodes {
		if !g.root.HasNode(n) {
			return g.root.nodeError(n)
		}
	}
	for _, n := range nodes {
		if err := g.AddExistingNode(n); err != nil {
			return err
		}
	}
	return nil
}

// AddEdge creates an edge from src to tgt, both members of g. src == tgt
// creates a self-loop.
func (g *Graph) AddEdge(src, tgt Node) (Edge, error) {
	if !g.HasNode(src) {
		return InvalidEdge, g.nodeError(src)
	}
	if !g.HasNode(tgt) {
		return InvalidEdge, g.nodeError(tgt)
	}
	return g.addEdge(src, tgt)
}

func (g *Graph) addEdge(src, tgt Node) (Edge, error) {
	g.changed()
	e, err := g.storage().addEdge(src, tgt)
	if err != nil {
		return InvalidEdge, err
	}
	g.root.emit(EdgeAdded{Graph: g.root, Edge: e})
	for _, v := range g.path() {
		v.includeEdge(e)
	}
	return e, nil
}

// AddEdges creates one edge per pair. Nothing is created when an endpoint
// is not a member of g.
func (g *Graph) AddEdges(pairs []Ends) ([]Edge, error) {
	for _, p := range pairs {
		if !g.HasNode(p.Source) {
			return nil, g.nodeError(p.Source)
		}
		if !g.HasNode(p.Target) {
			return nil, g.nodeError(p.Target)
		}
	}
	out := make([]Edge, 0, len(pairs))
	for _, p := range pairs {
		e, err := g.addEdge(p.Source, p.Target)
		if err != nil {
			return out, err
		}
		out = append(out, e)
	}
	return out, nil
}

// AddExistingEdge adds an edge of the root to g, together with its ends,
// in every graph between the root and g.
func (g *Graph) AddExistingEdge(e Edge) error {
	if g.HasEdge(e) {
		return nil
	}
	if !g.root.HasEdge(e) {
		return g.root.edgeError(e)
	}
	g.changed()
	end := g.storage().endsOf(e)
	for _, v := range g.path() {
		v.includeNode(end.Source)
		v.includeNode(end.Target)
		v.includeEdge(e)
	}
	return nil
}

// AddExistingEdges is AddExistingEdge for several edges.
func (g *Graph) AddExistingEdges(edges []Edge) error {
	for _, e := range edges {
		if !g.root.HasEdge(e) {
			return g.root.edgeError(e)
		}
	}
	for _, e := range edges {
		if err := g.AddExistingEdge(e); err != nil {
			return err
		}
	}
	return nil
}

func (g *Graph) includeNode(n Node) {
	if g.view().ns.add(n.ID) {
		g.emit(NodeAdded{Graph: g, Node: n})
	}
}

func (g *Graph) includeEdge(e Edge) {
	if g.view().es.add(e.ID) {
		g.emit(EdgeAdded{Graph: g, Edge: e})
	}
}

// =============================================================================
// Deleting elements
// =============================================================================

// DelNode removes n and its incident edges from g and its descendants.
// With allGraphs set, or on a root, n is deleted from the whole tree and
// its id freed.
func (g *Graph) DelNode(n Node, allGraphs bool) error {
	if !g.HasNode(n) {
		return g.nodeError(n)
	}
	g.changed()
	if allGraphs || g.IsRoot() {
		g.root.removeNodeEverywhere(n)
	} else {
		g.removeNodeFromView(n)
	}
	return nil
}

// DelNodes deletes several nodes, one event per element. Nothing is
// deleted when one of them is not a member.
func (g *Graph) DelNodes(nodes []Node, allGraphs bool) error {
	nodes = slices.Compact(slices.Clone(nodes))
	for _, n := range nodes {
		if !g.HasNode(n) {
			return g.nodeError(n)
		}
	}
	for _, n := range nodes {
		if g.HasNode(n) {
			if err := g.DelNode(n, allGraphs); err != nil {
				return err
			}
		}
	}
	return nil
}

// DelEdge removes e from g and its descendants, or from the whole tree
// with allGraphs set or on a root.
func (g *Graph) DelEdge(e Edge, allGraphs bool) error {
	if !g.HasEdge(e) {
		return g.edgeError(e)
	}
	g.changed()
	if allGraphs || g.IsRoot() {
		g.root.removeEdgeEverywhere(e)
	} else {
		g.removeEdgeFromView(e)
	}
	return nil
}

// DelEdges deletes several edges. Nothing is deleted when one of them is
// not a member.
func (g *Graph) DelEdges(edges []Edge, allGraphs bool) error {
	for _, e := range edges {
		if !g.HasEdge(e) {
			return g.edgeError(e)
		}
	}
	for _, e := range edges {
		if g.HasEdge(e) {
			if err := g.DelEdge(e, allGraphs); err != nil {
				return err
			}
		}
	}
	return nil
}

func (g *Graph) removeNodeFromView(n Node) {
	for _, sg := range slices.Clone(g.subs) {
		if sg.HasNode(n) {
			sg.removeNodeFromView(n)
		}
	}
	for _, e := range uniqueEdges(g.Incident(n)) {
		g.removeEdgeFromView(e)
	}
	g.emit(NodeDeleted{Graph: g, Node: n})
	g.view().ns.remove(n.ID)
	g.eraseNodeValues(n)
}

func (g *Graph) removeEdgeFromView(e Edge) {
	for _, sg := range slices.Clone(g.subs) {
		if sg.HasEdge(e) {
			sg.removeEdgeFromView(e)
		}
	}
	g.emit(EdgeDeleted{Graph: g, Edge: e})
	g.view().es.remove(e.ID)
	g.eraseEdgeValues(e)
}

func (g *Graph) removeNodeEverywhere(n Node) {
	for _, sg := range slices.Clone(g.subs) {
		if sg.HasNode(n) {
			sg.removeNodeFromView(n)
		}
	}
	st := g.storage()
	for _, e := range uniqueEdges(st.incidence(n)) {
		g.removeEdgeAtRoot(e)
	}
	g.emit(NodeDeleted{Graph: g, Node: n})
	g.eraseNodeValues(n)
	if err := st.removeNode(n); err != nil {
		panic(errs.Wrap(errs.ErrCodeInternal, err, "remove %s", n))
	}
}

func (g *Graph) removeEdgeEverywhere(e Edge) {
	for _, sg := range slices.Clone(g.subs) {
		if sg.HasEdge(e) {
			sg.removeEdgeFromView(e)
		}
	}
	g.removeEdgeAtRoot(e)
}

func (g *Graph) removeEdgeAtRoot(e Edge) {
	g.emit(EdgeDeleted{Graph: g, Edge: e})
	g.eraseEdgeValues(e)
	if err := g.storage().removeEdge(e); err != nil {
		panic(errs.Wrap(errs.ErrCodeInternal, err, "remove %s", e))
	}
}

// Clear deletes every subgraph of g and every node of g. On a view the
// nodes stay in the ancestors.
func (g *Graph) Clear() {
	for _, sg := range slices.Clone(g.subs) {
		_ = g.DelAllSubgraphs(sg)
	}
	for _, n := range g.Nodes() {
		_ = g.DelNode(n, false)
	}
}

// Reserve pre-sizes the root storage for the given element counts.
func (g *Graph) Reserve(nodes, edges int) {
	g.storage().reserve(nodes, edges)
}

// =============================================================================
// Edge ends
// =============================================================================

// graphsWithEdge returns the root and every descendant holding e, parents
// before children.
func (g *Graph) graphsWithEdge(e Edge) []*Graph {
	out := []*Graph{g.root}
	for _, d := range g.root.Descendants() {
		if d.HasEdge(e) {
			out = append(out, d)
		}
	}
	return out
}

// graphsWithNode is graphsWithEdge for a node.
func (g *Graph) graphsWithNode(n Node) []*Graph {
	out := []*Graph{g.root}
	for _, d := range g.root.Descendants() {
		if d.HasNode(n) {
			out = append(out, d)
		}
	}
	return out
}

// Reverse swaps the ends of e in the whole tree. Reversing a self-loop
// changes nothing.
func (g *Graph) Reverse(e Edge) error {
	if !g.HasEdge(e) {
		return g.edgeError(e)
	}
	st := g.storage()
	if st.endsOf(e).IsLoop() {
		return nil
	}
	g.changed()
	st.reverse(e)
	for _, v := range g.graphsWithEdge(e) {
		v.emit(EdgeReversed{Graph: v, Edge: e})
	}
	return nil
}

// SetEnds moves e to new ends. An invalid node keeps that end. Views that
// do not hold both new ends lose the edge.
func (g *Graph) SetEnds(e Edge, src, tgt Node) error {
	if !g.HasEdge(e) {
		return g.edgeError(e)
	}
	st := g.storage()
	old := st.endsOf(e)
	next := old
	if src.IsValid() {
		next.Source = src
	}
	if tgt.IsValid() {
		next.Target = tgt
	}
	if !st.hasNode(next.Source) {
		return g.root.nodeError(next.Source)
	}
	if !st.hasNode(next.Target) {
		return g.root.nodeError(next.Target)
	}
	if next == old {
		return nil
	}
	g.changed()
	graphs := g.graphsWithEdge(e)
	for _, v := range graphs {
		v.emit(EndsChanging{Graph: v, Edge: e, Old: old, New: next})
	}
	st.setEnds(e, next.Source, next.Target)
	for i := len(graphs) - 1; i > 0; i-- {
		v := graphs[i]
		if v.HasEdge(e) && (!v.HasNode(next.Source) || !v.HasNode(next.Target)) {
			v.removeEdgeFromView(e)
		}
	}
	for _, v := range graphs {
		if v.HasEdge(e) {
			v.emit(EndsChanged{Graph: v, Edge: e, Old: old})
		}
	}
	return nil
}

// SetSource moves the source of e to n.
func (g *Graph) SetSource(e Edge, n Node) error { return g.SetEnds(e, n, InvalidNode) }

// SetTarget moves the target of e to n.
func (g *Graph) SetTarget(e Edge, n Node) error { return g.SetEnds(e, InvalidNode, n) }

// =============================================================================
// Incidence order
// =============================================================================

// SetEdgeOrder replaces the incidence order of n. order must be a
// permutation of Incident(n) as seen from g; on a view only the positions
// of the view's edges are rewritten.
func (g *Graph) SetEdgeOrder(n Node, order []Edge) error {
	if !g.HasNode(n) {
		return g.nodeError(n)
	}
	st := g.storage()
	full := slices.Clone(order)
	if !g.IsRoot() {
		cur := st.incidence(n)
		var slots []int
		var mine []Edge
		for i, e := range cur {
			if g.HasEdge(e) {
				slots = append(slots, i)
				mine = append(mine, e)
			}
		}
		if !sameMultiset(mine, order) {
			return errs.New(errs.ErrCodeInvalidOrder, "order for %s is not a permutation of its %d incident edges in graph %d", n, len(mine), g.id)
		}
		full = cur
		for k, i := range slots {
			full[i] = order[k]
		}
	}
	if !sameMultiset(st.adj[n.ID].edges, full) {
		return errs.New(errs.ErrCodeInvalidOrder, "order for %s is not a permutation of its %d incident edges", n, st.deg(n))
	}
	g.changed()
	g.emitOrder(n, true)
	if err := st.setEdgeOrder(n, full); err != nil {
		panic(err)
	}
	g.emitOrder(n, false)
	return nil
}

// SwapEdgeOrder exchanges the positions of e1 and e2 in the incidence of
// n. Both must be incident to n and members of g.
func (g *Graph) SwapEdgeOrder(n Node, e1, e2 Edge) error {
	if !g.HasNode(n) {
		return g.nodeError(n)
	}
	st := g.storage()
	list := st.adj[n.ID].edges
	if !g.HasEdge(e1) || !g.HasEdge(e2) || !slices.Contains(list, e1) || !slices.Contains(list, e2) {
		return errs.New(errs.ErrCodeInvalidOrder, "%s and %s must both be incident to %s", e1, e2, n)
	}
	if e1 == e2 {
		return nil
	}
	g.changed()
	g.emitOrder(n, true)
	if err := st.swapEdgeOrder(n, e1, e2); err != nil {
		panic(err)
	}
	g.emitOrder(n, false)
	return nil
}

func (g *Graph) emitOrder(n Node, before bool) {
	targets := []*Graph{g.root}
	if !g.IsRoot() {
		targets = append(targets, g)
	}
	for _, v := range targets {
		if before {
			v.emit(EdgeOrderChanging{Graph: v, Node: n})
		} else {
			v.emit(EdgeOrderChanged{Graph: v, Node: n})
		}
	}
}
