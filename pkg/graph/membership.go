package graph

import (
	"slices"
)

// membership is the element set of a graph. A root answers from its
// storage, a view keeps its own ordered sets.
type membership interface {
	hasNode(Node) bool
	hasEdge(Edge) bool
	nodes() []Node
	edges() []Edge
	numberOfNodes() int
	numberOfEdges() int
	nodePos(Node) int
	edgePos(Edge) int
}

type rootMembers struct {
	st *storage
}

func (r rootMembers) hasNode(n Node) bool { return r.st.hasNode(n) }
func (r rootMembers) hasEdge(e Edge) bool { return r.st.hasEdge(e) }
func (r rootMembers) numberOfNodes() int  { return len(r.st.nodes.order) }
func (r rootMembers) numberOfEdges() int  { return len(r.st.edges.order) }

func (r rootMembers) nodes() []Node {
	out := make([]Node, len(r.st.nodes.order))
	for i, id := range r.st.nodes.order {
		out[i] = Node{ID: id}
	}
	return out
}

func (r rootMembers) edges() []Edge {
	out := make([]Edge, len(r.st.edges.order))
	for i, id := range r.st.edges.order {
		out[i] = Edge{ID: id}
	}
	return out
}

func (r rootMembers) nodePos(n Node) int {
	if !r.st.hasNode(n) {
		return -1
	}
	return int(r.st.nodes.pos[n.ID])
}

func (r rootMembers) edgePos(e Edge) int {
	if !r.st.hasEdge(e) {
		return -1
	}
	return int(r.st.edges.pos[e.ID])
}

// posSet is an ordered id set with swap-with-last removal.
type posSet struct {
	order []uint32
	pos   map[uint32]int
}

func newPosSet() posSet { return posSet{pos: make(map[uint32]int)} }

func (s *posSet) has(id uint32) bool {
	_, ok := s.pos[id]
	return ok
}

func (s *posSet) add(id uint32) bool {
	if s.has(id) {
		return false
	}
	s.pos[id] = len(s.order)
	s.order = append(s.order, id)
	return true
}

func (s *posSet) remove(id uint32) bool {
	i, ok := s.pos[id]
	if !ok {
		return false
	}
	last := s.order[len(s.order)-1]
	s.order[i] = last
	s.pos[last] = i
	s.order = s.order[:len(s.order)-1]
	delete(s.pos, id)
	return true
}

func (s *posSet) index(id uint32) int {
	if i, ok := s.pos[id]; ok {
		return i
	}
	return -1
}

type viewMembers struct {
	ns posSet
	es posSet
}

func newViewMembers() *viewMembers {
	return &viewMembers{ns: newPosSet(), es: newPosSet()}
}

func (v *viewMembers) hasNode(n Node) bool { return v.ns.has(n.ID) }
func (v *viewMembers) hasEdge(e Edge) bool { return v.es.has(e.ID) }
func (v *viewMembers) numberOfNodes() int  { return len(v.ns.order) }
func (v *viewMembers) numberOfEdges() int  { return len(v.es.order) }
func (v *viewMembers) nodePos(n Node) int  { return v.ns.index(n.ID) }
func (v *viewMembers) edgePos(e Edge) int  { return v.es.index(e.ID) }

func (v *viewMembers) nodes() []Node {
	out := make([]Node, len(v.ns.order))
	for i, id := range v.ns.order {
		out[i] = Node{ID: id}
	}
	return out
}

func (v *viewMembers) edges() []Edge {
	out := make([]Edge, len(v.es.order))
	for i, id := range v.es.order {
		out[i] = Edge{ID: id}
	}
	return out
}

// view returns the view membership of g; g must not be a root.
func (g *Graph) view() *viewMembers { return g.members.(*viewMembers) }

// uniqueEdges drops repeated edges, keeping first occurrences.
func uniqueEdges(list []Edge) []Edge {
	out := make([]Edge, 0, len(list))
	for _, e := range list {
		if !slices.Contains(out, e) {
			out = append(out, e)
		}
	}
	return out
}
