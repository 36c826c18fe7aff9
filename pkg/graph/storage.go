package graph

import (
	"slices"

	errs "github.com/matzehuels/multigraph/pkg/errors"
	"github.com/matzehuels/multigraph/pkg/graph/ids"
)

// =============================================================================
// Id sequences
// =============================================================================

// idSeq is a dense sequence of live ids backed by an id manager and a
// position table indexed by id. Removal swaps the last element into the
// freed slot, so order is insertion order until the first removal.
type idSeq struct {
	mgr   *ids.Manager
	order []uint32
	pos   []uint32
}

type seqMemento struct {
	state ids.State
	order []uint32
	pos   []uint32
}

func newIDSeq() idSeq {
	return idSeq{mgr: ids.New()}
}

func (s *idSeq) has(id uint32) bool {
	return int(id) < len(s.pos) && s.pos[id] != ids.Invalid
}

func (s *idSeq) push(id uint32) {
	for int(id) >= len(s.pos) {
		s.pos = append(s.pos, ids.Invalid)
	}
	s.pos[id] = uint32(len(s.order))
	s.order = append(s.order, id)
}

func (s *idSeq) add() (uint32, error) {
	id, err := s.mgr.Get()
	if err != nil {
		return ids.Invalid, err
	}
	s.push(id)
	return id, nil
}

func (s *idSeq) addN(n int) ([]uint32, error) {
	out, err := s.mgr.GetN(n)
	if err != nil {
		return nil, err
	}
	for _, id := range out {
		s.push(id)
	}
	return out, nil
}

func (s *idSeq) remove(id uint32) error {
	if !s.has(id) {
		return errs.New(errs.ErrCodeInvalidID, "id %d is not live", id)
	}
	if err := s.mgr.Free(id); err != nil {
		return err
	}
	i := s.pos[id]
	last := s.order[len(s.order)-1]
	s.order[i] = last
	s.pos[last] = i
	s.order = s.order[:len(s.order)-1]
	s.pos[id] = ids.Invalid
	return nil
}

func (s *idSeq) memento() seqMemento {
	return seqMemento{state: s.mgr.State(), order: slices.Clone(s.order), pos: slices.Clone(s.pos)}
}

func (s *idSeq) restore(m seqMemento) {
	s.mgr.Restore(m.state)
	s.order = slices.Clone(m.order)
	s.pos = slices.Clone(m.pos)
}

func (s *idSeq) reserve(n int) {
	s.order = slices.Grow(s.order, n)
	s.pos = slices.Grow(s.pos, n)
}

// =============================================================================
// Storage
// =============================================================================

// nodeData is the ordered incidence of one node. A self-loop occurs twice.
// outDeg counts edges whose source is the node, a self-loop once.
type nodeData struct {
	edges  []Edge
	outDeg int
}

// storage is the adjacency engine owned by a root graph.
//
// It keeps node and edge sequences, edge ends and per-node incidence. It
// never cascades: removing a node with incident edges is rejected, the
// graph layer deletes those edges first.
type storage struct {
	nodes idSeq
	edges idSeq
	adj   []nodeData
	ends  []Ends
}

// storageMemento captures id allocation and sequence order of nodes and
// edges.
type storageMemento struct {
	nodes seqMemento
	edges seqMemento
}

func newStorage() *storage {
	return &storage{nodes: newIDSeq(), edges: newIDSeq()}
}

func (s *storage) hasNode(n Node) bool { return s.nodes.has(n.ID) }
func (s *storage) hasEdge(e Edge) bool { return s.edges.has(e.ID) }

func (s *storage) growNode(id uint32) {
	for int(id) >= len(s.adj) {
		s.adj = append(s.adj, nodeData{})
	}
}

func (s *storage) growEdge(id uint32) {
	for int(id) >= len(s.ends) {
		s.ends = append(s.ends, invalidEnds)
	}
}

func (s *storage) addNode() (Node, error) {
	id, err := s.nodes.add()
	if err != nil {
		return InvalidNode, err
	}
	s.growNode(id)
	s.adj[id] = nodeData{}
	return Node{ID: id}, nil
}

func (s *storage) addNodes(n int) ([]Node, error) {
	got, err := s.nodes.addN(n)
	if err != nil {
		return nil, err
	}
	out := make([]Node, len(got))
	for i, id := range got {
		s.growNode(id)
		s.adj[id] = nodeData{}
		out[i] = Node{ID: id}
	}
	return out, nil
}

// restoreNode reinitializes the adjacency of n. The node sequence itself
// is reinstated by the ids memento.
func (s *storage) restoreNode(n Node) {
	s.growNode(n.ID)
	s.adj[n.ID] = nodeData{}
}

func (s *storage) removeNode(n Node) error {
	if !s.hasNode(n) {
		return errs.New(errs.ErrCodeNotElement, "%s does not exist", n)
	}
	if len(s.adj[n.ID].edges) > 0 {
		return errs.New(errs.ErrCodeInternal, "%s still has %d incident edges", n, len(s.adj[n.ID].edges))
	}
	if err := s.nodes.remove(n.ID); err != nil {
		return err
	}
	s.adj[n.ID] = nodeData{}
	return nil
}

// dropNode clears the adjacency of n without touching id allocation.
func (s *storage) dropNode(n Node) {
	if int(n.ID) < len(s.adj) {
		s.adj[n.ID] = nodeData{}
	}
}

func (s *storage) addEdge(src, tgt Node) (Edge, error) {
	id, err := s.edges.add()
	if err != nil {
		return InvalidEdge, err
	}
	e := Edge{ID: id}
	s.attach(e, src, tgt)
	return e, nil
}

// restoreEdge reattaches e with the given ends. The edge sequence is
// reinstated by the ids memento.
func (s *storage) restoreEdge(e Edge, src, tgt Node) {
	s.attach(e, src, tgt)
}

func (s *storage) attach(e Edge, src, tgt Node) {
	s.growEdge(e.ID)
	s.ends[e.ID] = Ends{Source: src, Target: tgt}
	s.adj[src.ID].edges = append(s.adj[src.ID].edges, e)
	s.adj[tgt.ID].edges = append(s.adj[tgt.ID].edges, e)
	s.adj[src.ID].outDeg++
}

func (s *storage) removeEdge(e Edge) error {
	if !s.hasEdge(e) {
		return errs.New(errs.ErrCodeNotElement, "%s does not exist", e)
	}
	if err := s.edges.remove(e.ID); err != nil {
		return err
	}
	s.detach(e)
	return nil
}

// dropEdge detaches e from its ends without touching id allocation.
func (s *storage) dropEdge(e Edge) {
	if int(e.ID) < len(s.ends) && s.ends[e.ID].Source.IsValid() {
		s.detach(e)
	}
}

func (s *storage) detach(e Edge) {
	end := s.ends[e.ID]
	if s.removeIncidence(end.Source, e) {
		s.adj[end.Source.ID].outDeg--
	}
	s.removeIncidence(end.Target, e)
	s.ends[e.ID] = invalidEnds
}

// removeIncidence removes the last occurrence of e from n's incidence.
func (s *storage) removeIncidence(n Node, e Edge) bool {
	if int(n.ID) >= len(s.adj) {
		return false
	}
	list := s.adj[n.ID].edges
	for i := len(list) - 1; i >= 0; i-- {
		if list[i] == e {
			s.adj[n.ID].edges = slices.Delete(list, i, i+1)
			return true
		}
	}
	return false
}

func (s *storage) endsOf(e Edge) Ends { return s.ends[e.ID] }

// setEnds rewrites the ends of e. An invalid node keeps that end.
func (s *storage) setEnds(e Edge, src, tgt Node) {
	old := s.ends[e.ID]
	if !src.IsValid() {
		src = old.Source
	}
	if !tgt.IsValid() {
		tgt = old.Target
	}
	if src != old.Source {
		s.removeIncidence(old.Source, e)
		s.adj[old.Source.ID].outDeg--
		s.adj[src.ID].edges = append(s.adj[src.ID].edges, e)
		s.adj[src.ID].outDeg++
	}
	if tgt != old.Target {
		s.removeIncidence(old.Target, e)
		s.adj[tgt.ID].edges = append(s.adj[tgt.ID].edges, e)
	}
	s.ends[e.ID] = Ends{Source: src, Target: tgt}
}

// setEndsRaw overwrites the stored ends of e without touching incidence.
// Replay uses it before reinstating incidence snapshots.
func (s *storage) setEndsRaw(e Edge, end Ends) {
	s.growEdge(e.ID)
	s.ends[e.ID] = end
}

func (s *storage) reverse(e Edge) {
	end := s.ends[e.ID]
	if end.IsLoop() {
		return
	}
	s.ends[e.ID] = end.Reversed()
	s.adj[end.Source.ID].outDeg--
	s.adj[end.Target.ID].outDeg++
}

// sameMultiset reports whether a and b hold the same edges with the same
// multiplicities.
func sameMultiset(a, b []Edge) bool {
	if len(a) != len(b) {
		return false
	}
	count := make(map[Edge]int, len(a))
	for _, e := range a {
		count[e]++
	}
	for _, e := range b {
		count[e]--
		if count[e] < 0 {
			return false
		}
	}
	return true
}

func (s *storage) setEdgeOrder(n Node, order []Edge) error {
	if !sameMultiset(s.adj[n.ID].edges, order) {
		return errs.New(errs.ErrCodeInvalidOrder, "order for %s is not a permutation of its %d incident edges", n, len(s.adj[n.ID].edges))
	}
	s.adj[n.ID].edges = slices.Clone(order)
	return nil
}

func (s *storage) swapEdgeOrder(n Node, e1, e2 Edge) error {
	list := s.adj[n.ID].edges
	i, j := slices.Index(list, e1), slices.Index(list, e2)
	if i < 0 || j < 0 {
		return errs.New(errs.ErrCodeInvalidOrder, "%s and %s must both be incident to %s", e1, e2, n)
	}
	list[i], list[j] = list[j], list[i]
	return nil
}

func (s *storage) incidence(n Node) []Edge {
	return slices.Clone(s.adj[n.ID].edges)
}

// setIncidence reinstates a snapshot of n's incidence and recomputes its
// out-degree from the stored ends.
func (s *storage) setIncidence(n Node, list []Edge) {
	s.growNode(n.ID)
	out, loops := 0, 0
	for _, e := range list {
		end := s.ends[e.ID]
		switch {
		case end.IsLoop():
			loops++
		case end.Source == n:
			out++
		}
	}
	s.adj[n.ID] = nodeData{edges: slices.Clone(list), outDeg: out + loops/2}
}

func (s *storage) deg(n Node) int    { return len(s.adj[n.ID].edges) }
func (s *storage) outdeg(n Node) int { return s.adj[n.ID].outDeg }
func (s *storage) indeg(n Node) int  { return len(s.adj[n.ID].edges) - s.adj[n.ID].outDeg }

// directed returns the edges of n leaving it (out) or entering it (!out).
// A self-loop is reported once.
func (s *storage) directed(n Node, out bool) []Edge {
	list := s.adj[n.ID].edges
	res := make([]Edge, 0, len(list))
	var loops map[Edge]bool
	for _, e := range list {
		end := s.ends[e.ID]
		if end.IsLoop() {
			if loops == nil {
				loops = make(map[Edge]bool)
			}
			if loops[e] {
				continue
			}
			loops[e] = true
			res = append(res, e)
			continue
		}
		if (out && end.Source == n) || (!out && end.Target == n) {
			res = append(res, e)
		}
	}
	return res
}

// existEdge scans the smaller incidence of src and tgt.
func (s *storage) existEdge(src, tgt Node, directed bool) (Edge, bool) {
	list := s.adj[src.ID].edges
	if other := s.adj[tgt.ID].edges; len(other) < len(list) {
		list = other
	}
	for _, e := range list {
		if s.matches(e, src, tgt, directed) {
			return e, true
		}
	}
	return InvalidEdge, false
}

// getEdges returns every edge linking src and tgt, a self-loop once.
func (s *storage) getEdges(src, tgt Node, directed bool) []Edge {
	list := s.adj[src.ID].edges
	if other := s.adj[tgt.ID].edges; len(other) < len(list) {
		list = other
	}
	var res []Edge
	for _, e := range list {
		if s.matches(e, src, tgt, directed) && !slices.Contains(res, e) {
			res = append(res, e)
		}
	}
	return res
}

func (s *storage) matches(e Edge, src, tgt Node, directed bool) bool {
	end := s.ends[e.ID]
	if end.Source == src && end.Target == tgt {
		return true
	}
	return !directed && end.Source == tgt && end.Target == src
}

func (s *storage) memento() storageMemento {
	return storageMemento{nodes: s.nodes.memento(), edges: s.edges.memento()}
}

func (s *storage) restoreMemento(m storageMemento) {
	s.nodes.restore(m.nodes)
	s.edges.restore(m.edges)
}

func (s *storage) reserve(nodes, edges int) {
	s.nodes.reserve(nodes)
	s.edges.reserve(edges)
	s.adj = slices.Grow(s.adj, nodes)
	s.ends = slices.Grow(s.ends, edges)
	s.nodes.mgr.Reserve(nodes)
	s.edges.mgr.Reserve(edges)
}
