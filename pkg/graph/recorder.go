package graph

import (
	"maps"
	"slices"

	errs "github.com/matzehuels/multigraph/pkg/errors"
)

// idSet is a set of element ids. Iteration goes through sorted so replay
// is deterministic.
type idSet map[uint32]struct{}

func (s idSet) has(id uint32) bool {
	_, ok := s[id]
	return ok
}

func (s idSet) sorted() []uint32 { return slices.Sorted(maps.Keys(s)) }

// graphSets maps a graph id to a set of element ids.
type graphSets map[uint32]idSet

func (m graphSets) has(gid, id uint32) bool { return m[gid].has(id) }

func (m graphSets) add(gid, id uint32) {
	s, ok := m[gid]
	if !ok {
		s = idSet{}
		m[gid] = s
	}
	s[id] = struct{}{}
}

// del removes id and reports whether it was present.
func (m graphSets) del(gid, id uint32) bool {
	s, ok := m[gid]
	if !ok || !s.has(id) {
		return false
	}
	delete(s, id)
	if len(s) == 0 {
		delete(m, gid)
	}
	return true
}

// subOp is one subgraph attach or detach, in the order it happened.
type subOp struct {
	add      bool
	parent   *Graph
	sg       *Graph
	index    int
	children []*Graph
}

type propOpKind int

const (
	propAdded propOpKind = iota
	propDeleted
	propRenamed
)

type propOp struct {
	kind             propOpKind
	graph            *Graph
	prop             PropertyInterface
	oldName, newName string
}

// cells maps a property handle to the recorded cells of its elements.
type cells map[uint32]map[uint32]cell

func (c cells) has(h, id uint32) bool {
	_, ok := c[h][id]
	return ok
}

func (c cells) put(h, id uint32, v cell) {
	m, ok := c[h]
	if !ok {
		m = make(map[uint32]cell)
		c[h] = m
	}
	m[id] = v
}

// recorder captures the changes made to a graph tree during one
// checkpoint interval and replays them backward (undo) or forward (redo).
//
// The old side of each touched item is captured on first touch. The new
// side is computed when recording stops. Elements added during the
// interval only need their final state: they are dropped on undo and
// recreated from the new side on redo.
type recorder struct {
	root         *Graph
	allowRestart bool
	recording    bool
	dirty        bool

	tracked   map[uint32]PropertyInterface
	preserved map[uint32]bool
	graphs    map[uint32]*Graph
	cancels   []func()

	oldIDs, newIDs storageMemento

	addedNodes, deletedNodes graphSets
	addedEdges, deletedEdges graphSets

	deletedEnds  map[uint32]Ends
	addedEnds    map[uint32]Ends
	oldEnds      map[uint32]Ends
	newEnds      map[uint32]Ends
	oldIncidence map[uint32][]Edge
	newIncidence map[uint32][]Edge

	subOps     []subOp
	propOps    []propOp
	addedProps map[uint32]bool

	oldAttrs, newAttrs map[uint32]map[string]cell

	oldNodeDefaults, newNodeDefaults map[uint32]any
	oldEdgeDefaults, newEdgeDefaults map[uint32]any
	oldNodeValues, newNodeValues     cells
	oldEdgeValues, newEdgeValues     cells
}

func newRecorder(root *Graph, allowRestart bool, preserved []PropertyInterface) *recorder {
	r := &recorder{
		root:            root,
		allowRestart:    allowRestart,
		tracked:         make(map[uint32]PropertyInterface),
		preserved:       make(map[uint32]bool),
		graphs:          make(map[uint32]*Graph),
		addedNodes:      graphSets{},
		deletedNodes:    graphSets{},
		addedEdges:      graphSets{},
		deletedEdges:    graphSets{},
		deletedEnds:     make(map[uint32]Ends),
		oldEnds:         make(map[uint32]Ends),
		oldIncidence:    make(map[uint32][]Edge),
		addedProps:      make(map[uint32]bool),
		oldAttrs:        make(map[uint32]map[string]cell),
		oldNodeDefaults: make(map[uint32]any),
		oldEdgeDefaults: make(map[uint32]any),
		oldNodeValues:   cells{},
		oldEdgeValues:   cells{},
	}
	for _, p := range preserved {
		r.preserved[p.Handle()] = true
	}
	r.oldIDs = root.storage().memento()
	for _, g := range append([]*Graph{root}, root.Descendants()...) {
		r.graphs[g.id] = g
		for _, p := range g.props.local {
			if !r.preserved[p.Handle()] {
				r.tracked[p.Handle()] = p
			}
		}
	}
	return r
}

// =============================================================================
// Recording lifecycle
// =============================================================================

func (r *recorder) start() {
	if r.recording {
		return
	}
	r.recording = true
	for _, g := range r.graphs {
		r.cancels = append(r.cancels, g.Subscribe(r.onGraphEvent))
	}
	for _, p := range r.tracked {
		r.cancels = append(r.cancels, p.Subscribe(r.onPropertyEvent))
	}
}

func (r *recorder) unsubscribe() {
	for _, c := range r.cancels {
		c()
	}
	r.cancels = nil
}

// stop ends recording and computes the new side of every touched item.
func (r *recorder) stop() {
	if !r.recording {
		return
	}
	r.unsubscribe()
	r.recording = false

	root := r.root
	st := root.storage()
	r.newIDs = st.memento()

	r.newIncidence = make(map[uint32][]Edge)
	for id := range r.oldIncidence {
		if n := (Node{ID: id}); st.hasNode(n) {
			r.newIncidence[id] = st.incidence(n)
		}
	}
	for id := range r.addedNodes[root.id] {
		r.newIncidence[id] = st.incidence(Node{ID: id})
	}

	r.newEnds = make(map[uint32]Ends)
	for id := range r.oldEnds {
		if e := (Edge{ID: id}); st.hasEdge(e) {
			r.newEnds[id] = st.endsOf(e)
		}
	}
	r.addedEnds = make(map[uint32]Ends)
	for id := range r.addedEdges[root.id] {
		r.addedEnds[id] = st.endsOf(Edge{ID: id})
	}

	r.newNodeDefaults = make(map[uint32]any)
	for h := range r.oldNodeDefaults {
		r.newNodeDefaults[h], _ = r.tracked[h].defaults()
	}
	r.newEdgeDefaults = make(map[uint32]any)
	for h := range r.oldEdgeDefaults {
		_, r.newEdgeDefaults[h] = r.tracked[h].defaults()
	}

	r.newNodeValues, r.newEdgeValues = cells{}, cells{}
	for h, m := range r.oldNodeValues {
		for id := range m {
			r.newNodeValues.put(h, id, r.tracked[h].nodeCell(id))
		}
	}
	for h, m := range r.oldEdgeValues {
		for id := range m {
			r.newEdgeValues.put(h, id, r.tracked[h].edgeCell(id))
		}
	}
	for h, p := range r.tracked {
		gid := p.Graph().id
		for _, set := range []idSet{r.addedNodes[gid], r.addedNodes[root.id]} {
			for id := range set {
				if c := p.nodeCell(id); c.set {
					r.newNodeValues.put(h, id, c)
				}
			}
		}
		for _, set := range []idSet{r.addedEdges[gid], r.addedEdges[root.id]} {
			for id := range set {
				if c := p.edgeCell(id); c.set {
					r.newEdgeValues.put(h, id, c)
				}
			}
		}
	}

	r.newAttrs = make(map[uint32]map[string]cell)
	for gid, m := range r.oldAttrs {
		g := r.graphs[gid]
		nm := make(map[string]cell, len(m))
		for name := range m {
			nm[name] = g.attributeCell(name)
		}
		r.newAttrs[gid] = nm
	}
}

// restart resumes recording after a later checkpoint was popped.
func (r *recorder) restart() {
	r.newIncidence, r.newEnds, r.addedEnds = nil, nil, nil
	r.newNodeDefaults, r.newEdgeDefaults = nil, nil
	r.newNodeValues, r.newEdgeValues = nil, nil
	r.newAttrs = nil
	for _, g := range append([]*Graph{r.root}, r.root.Descendants()...) {
		r.graphs[g.id] = g
	}
	r.start()
}

// preserve stops tracking the values of props from now on.
func (r *recorder) preserve(props []PropertyInterface) {
	if len(props) == 0 {
		return
	}
	for _, p := range props {
		r.preserved[p.Handle()] = true
		delete(r.tracked, p.Handle())
	}
	if r.recording {
		r.unsubscribe()
		r.recording = false
		r.start()
	}
}

func (r *recorder) hasUpdates() bool { return r.dirty }

// subgraphs returns every graph the recorder may reattach or detach.
func (r *recorder) subgraphs() []*Graph {
	var out []*Graph
	for _, op := range r.subOps {
		out = append(out, op.sg)
	}
	return out
}

// =============================================================================
// Event capture
// =============================================================================

func (r *recorder) onGraphEvent(ev Event) {
	switch e := ev.(type) {
	case NodeAdded:
		r.nodeAdded(e.Graph, e.Node)
	case NodeDeleted:
		r.nodeDeleted(e.Graph, e.Node)
	case EdgeAdded:
		r.edgeAdded(e.Graph, e.Edge)
	case EdgeDeleted:
		r.edgeDeleted(e.Graph, e.Edge)
	case EdgeReversed:
		if e.Graph == r.root {
			r.edgeReversed(e.Edge)
		}
	case EndsChanging:
		if e.Graph == r.root {
			r.endsChanging(e.Edge, e.Old, e.New)
		}
	case EdgeOrderChanging:
		if e.Graph == r.root {
			r.dirty = true
			r.keepIncidence(e.Node)
		}
	case SubgraphAdded:
		r.dirty = true
		r.subOps = append(r.subOps, subOp{
			add:    true,
			parent: e.Graph,
			sg:     e.Subgraph,
			index:  slices.Index(e.Graph.subs, e.Subgraph),
		})
		if _, ok := r.graphs[e.Subgraph.id]; !ok {
			r.graphs[e.Subgraph.id] = e.Subgraph
			r.cancels = append(r.cancels, e.Subgraph.Subscribe(r.onGraphEvent))
		}
	case SubgraphDeleting:
		r.dirty = true
		r.subOps = append(r.subOps, subOp{
			parent:   e.Graph,
			sg:       e.Subgraph,
			index:    slices.Index(e.Graph.subs, e.Subgraph),
			children: slices.Clone(e.Subgraph.subs),
		})
	case LocalPropertyAdded:
		r.dirty = true
		r.addedProps[e.Property.Handle()] = true
		r.propOps = append(r.propOps, propOp{kind: propAdded, graph: e.Graph, prop: e.Property})
	case LocalPropertyDeleting:
		r.dirty = true
		r.propOps = append(r.propOps, propOp{kind: propDeleted, graph: e.Graph, prop: e.Property})
	case PropertyRenaming:
		r.dirty = true
		r.propOps = append(r.propOps, propOp{
			kind: propRenamed, graph: e.Graph, prop: e.Property,
			oldName: e.OldName, newName: e.NewName,
		})
	case AttributeSetting:
		r.keepAttribute(e.Graph, e.Name)
	case AttributeRemoved:
		r.keepAttribute(e.Graph, e.Name)
	}
}

func (r *recorder) nodeAdded(g *Graph, n Node) {
	r.dirty = true
	if !r.deletedNodes.del(g.id, n.ID) {
		r.addedNodes.add(g.id, n.ID)
	}
}

func (r *recorder) nodeDeleted(g *Graph, n Node) {
	r.dirty = true
	if r.addedNodes.del(g.id, n.ID) {
		return
	}
	r.deletedNodes.add(g.id, n.ID)
	if g == r.root {
		r.keepIncidence(n)
	}
	for _, p := range g.props.local {
		if h := p.Handle(); r.tracked[h] != nil && !r.oldNodeValues.has(h, n.ID) {
			r.oldNodeValues.put(h, n.ID, p.nodeCell(n.ID))
		}
	}
}

func (r *recorder) edgeAdded(g *Graph, e Edge) {
	r.dirty = true
	if g != r.root {
		if !r.deletedEdges.del(g.id, e.ID) {
			r.addedEdges.add(g.id, e.ID)
		}
		return
	}
	r.addedEdges.add(g.id, e.ID)
	end := r.root.storage().endsOf(e)
	r.keepIncidenceWithout(end.Source, e)
	r.keepIncidenceWithout(end.Target, e)
}

func (r *recorder) edgeDeleted(g *Graph, e Edge) {
	r.dirty = true
	if r.addedEdges.del(g.id, e.ID) {
		return
	}
	r.deletedEdges.add(g.id, e.ID)
	if g == r.root {
		end := r.root.storage().endsOf(e)
		r.deletedEnds[e.ID] = end
		r.keepIncidence(end.Source)
		r.keepIncidence(end.Target)
	}
	for _, p := range g.props.local {
		if h := p.Handle(); r.tracked[h] != nil && !r.oldEdgeValues.has(h, e.ID) {
			r.oldEdgeValues.put(h, e.ID, p.edgeCell(e.ID))
		}
	}
}

func (r *recorder) edgeReversed(e Edge) {
	r.dirty = true
	if r.addedEdges.has(r.root.id, e.ID) {
		return
	}
	end := r.root.storage().endsOf(e)
	if _, ok := r.oldEnds[e.ID]; !ok {
		r.oldEnds[e.ID] = end.Reversed()
	}
	r.keepIncidence(end.Source)
	r.keepIncidence(end.Target)
}

func (r *recorder) endsChanging(e Edge, old, next Ends) {
	r.dirty = true
	if r.addedEdges.has(r.root.id, e.ID) {
		r.keepIncidence(next.Source)
		r.keepIncidence(next.Target)
		return
	}
	if _, ok := r.oldEnds[e.ID]; !ok {
		r.oldEnds[e.ID] = old
	}
	for _, n := range []Node{old.Source, old.Target, next.Source, next.Target} {
		r.keepIncidence(n)
	}
}

// keepIncidence captures the incidence of n on first touch. Nodes added
// during the interval are recreated from the new side.
func (r *recorder) keepIncidence(n Node) {
	if r.addedNodes.has(r.root.id, n.ID) {
		return
	}
	if _, ok := r.oldIncidence[n.ID]; ok {
		return
	}
	r.oldIncidence[n.ID] = r.root.storage().incidence(n)
}

// keepIncidenceWithout captures the incidence n had before e was added.
func (r *recorder) keepIncidenceWithout(n Node, e Edge) {
	if r.addedNodes.has(r.root.id, n.ID) {
		return
	}
	if _, ok := r.oldIncidence[n.ID]; ok {
		return
	}
	list := r.root.storage().incidence(n)
	r.oldIncidence[n.ID] = slices.DeleteFunc(list, func(x Edge) bool { return x == e })
}

func (r *recorder) keepAttribute(g *Graph, name string) {
	r.dirty = true
	m, ok := r.oldAttrs[g.id]
	if !ok {
		m = make(map[string]cell)
		r.oldAttrs[g.id] = m
	}
	if _, ok := m[name]; !ok {
		m[name] = g.attributeCell(name)
	}
}

func (r *recorder) onPropertyEvent(ev Event) {
	switch e := ev.(type) {
	case NodeValueChanging:
		r.keepNodeValue(e.Property, e.Node.ID)
	case EdgeValueChanging:
		r.keepEdgeValue(e.Property, e.Edge.ID)
	case AllNodeValuesChanging:
		p := e.Property
		r.dirty = true
		if _, ok := r.oldNodeDefaults[p.Handle()]; !ok {
			r.oldNodeDefaults[p.Handle()], _ = p.defaults()
		}
		for id := range p.nodeCells() {
			r.keepNodeValue(p, id)
		}
	case AllEdgeValuesChanging:
		p := e.Property
		r.dirty = true
		if _, ok := r.oldEdgeDefaults[p.Handle()]; !ok {
			_, r.oldEdgeDefaults[p.Handle()] = p.defaults()
		}
		for id := range p.edgeCells() {
			r.keepEdgeValue(p, id)
		}
	}
}

func (r *recorder) keepNodeValue(p PropertyInterface, id uint32) {
	h := p.Handle()
	if r.tracked[h] == nil {
		return
	}
	if r.addedNodes.has(p.Graph().id, id) || r.addedNodes.has(r.root.id, id) {
		return
	}
	r.dirty = true
	if !r.oldNodeValues.has(h, id) {
		r.oldNodeValues.put(h, id, p.nodeCell(id))
	}
}

func (r *recorder) keepEdgeValue(p PropertyInterface, id uint32) {
	h := p.Handle()
	if r.tracked[h] == nil {
		return
	}
	if r.addedEdges.has(p.Graph().id, id) || r.addedEdges.has(r.root.id, id) {
		return
	}
	r.dirty = true
	if !r.oldEdgeValues.has(h, id) {
		r.oldEdgeValues.put(h, id, p.edgeCell(id))
	}
}

// =============================================================================
// Replay
// =============================================================================

func inconsistent(format string, args ...any) {
	panic(errs.New(errs.ErrCodeRecorderInconsistent, format, args...))
}

// byDepth returns the graphs of sets ordered by depth, deepest first when
// desc is set. The root sorts first among equals.
func (r *recorder) byDepth(sets graphSets, desc bool) []*Graph {
	out := make([]*Graph, 0, len(sets))
	for gid := range sets {
		g, ok := r.graphs[gid]
		if !ok {
			inconsistent("unknown graph %d", gid)
		}
		out = append(out, g)
	}
	slices.SortFunc(out, func(a, b *Graph) int {
		da, db := a.Depth(), b.Depth()
		if da != db {
			if desc {
				return db - da
			}
			return da - db
		}
		return int(a.id) - int(b.id)
	})
	return out
}

// eraseNode drops the values of a removed node from the untracked
// properties local to g. Tracked properties get their cells from the
// recorded value maps after properties are replayed, and properties
// created in the interval keep their values while detached.
func (r *recorder) eraseNode(g *Graph, n Node) {
	for _, p := range g.props.local {
		if h := p.Handle(); !r.addedProps[h] && r.tracked[h] == nil {
			p.eraseNode(n.ID)
		}
	}
}

func (r *recorder) eraseEdge(g *Graph, e Edge) {
	for _, p := range g.props.local {
		if h := p.Handle(); !r.addedProps[h] && r.tracked[h] == nil {
			p.eraseEdge(e.ID)
		}
	}
}

// eraseAddedValues drops the values tracked properties hold for elements
// added in the interval. Only the new side records them.
func (r *recorder) eraseAddedValues() {
	for h, m := range r.newNodeValues {
		for id := range m {
			if !r.oldNodeValues.has(h, id) {
				r.tracked[h].eraseNode(id)
			}
		}
	}
	for h, m := range r.newEdgeValues {
		for id := range m {
			if !r.oldEdgeValues.has(h, id) {
				r.tracked[h].eraseEdge(id)
			}
		}
	}
}

func (r *recorder) undo() { r.replay(true) }
func (r *recorder) redo() { r.replay(false) }

// replay moves the tree from one side of the interval to the other. Undo
// removes what was added and restores what was deleted; redo the reverse.
func (r *recorder) replay(undo bool) {
	root := r.root
	sh := root.shared
	st := root.storage()
	sh.replaying = true
	defer func() { sh.replaying = false }()

	dropNodes, keepNodes := r.addedNodes, r.deletedNodes
	dropEdges, keepEdges := r.addedEdges, r.deletedEdges
	ids, ends, incidence := r.oldIDs, r.oldEnds, r.oldIncidence
	if !undo {
		dropNodes, keepNodes = keepNodes, dropNodes
		dropEdges, keepEdges = keepEdges, dropEdges
		ids, ends, incidence = r.newIDs, r.newEnds, r.newIncidence
	}

	// Remove edges, then nodes, views before the root.
	for _, g := range r.byDepth(dropEdges, true) {
		for _, id := range dropEdges[g.id].sorted() {
			e := Edge{ID: id}
			if g == root {
				if !st.hasEdge(e) {
					inconsistent("%s missing from the root", e)
				}
				g.emit(EdgeDeleted{Graph: g, Edge: e})
				r.eraseEdge(g, e)
				st.dropEdge(e)
				continue
			}
			if !g.members.hasEdge(e) {
				inconsistent("%s missing from graph %d", e, g.id)
			}
			g.emit(EdgeDeleted{Graph: g, Edge: e})
			g.view().es.remove(id)
			r.eraseEdge(g, e)
		}
	}
	for _, g := range r.byDepth(dropNodes, true) {
		for _, id := range dropNodes[g.id].sorted() {
			n := Node{ID: id}
			if g == root {
				if !st.hasNode(n) {
					inconsistent("%s missing from the root", n)
				}
				g.emit(NodeDeleted{Graph: g, Node: n})
				r.eraseNode(g, n)
				st.dropNode(n)
				continue
			}
			if !g.members.hasNode(n) {
				inconsistent("%s missing from graph %d", n, g.id)
			}
			g.emit(NodeDeleted{Graph: g, Node: n})
			g.view().ns.remove(id)
			r.eraseNode(g, n)
		}
	}
	for _, id := range keepNodes[root.id].sorted() {
		if st.hasNode(Node{ID: id}) {
			inconsistent("node(%d) unexpectedly present in the root", id)
		}
	}

	// Reinstate id allocation and sequence order, then adjacency.
	st.restoreMemento(ids)
	for _, id := range keepNodes[root.id].sorted() {
		st.restoreNode(Node{ID: id})
	}
	restoredEnds := make(map[uint32]Ends)
	for _, id := range keepEdges[root.id].sorted() {
		end, ok := ends[id]
		if !ok && undo {
			end, ok = r.deletedEnds[id]
		}
		if !ok && !undo {
			end, ok = r.addedEnds[id]
		}
		if !ok {
			inconsistent("no ends recorded for edge(%d)", id)
		}
		restoredEnds[id] = end
		st.setEndsRaw(Edge{ID: id}, end)
	}
	changedEnds := make(map[uint32]Ends)
	for id, end := range ends {
		if _, ok := restoredEnds[id]; ok {
			continue
		}
		e := Edge{ID: id}
		if !st.hasEdge(e) {
			continue
		}
		if prev := st.endsOf(e); prev != end {
			changedEnds[id] = prev
			st.setEndsRaw(e, end)
		}
	}
	var reordered []uint32
	for id, list := range incidence {
		n := Node{ID: id}
		if !st.hasNode(n) {
			continue
		}
		if !slices.Equal(st.incidence(n), list) {
			reordered = append(reordered, id)
		}
		st.setIncidence(n, list)
	}
	slices.Sort(reordered)

	// Membership events, parents before children.
	for _, g := range r.byDepth(keepNodes, false) {
		for _, id := range keepNodes[g.id].sorted() {
			n := Node{ID: id}
			if g != root {
				if !g.view().ns.add(id) {
					inconsistent("%s already in graph %d", n, g.id)
				}
			}
			g.emit(NodeAdded{Graph: g, Node: n})
		}
	}
	for _, g := range r.byDepth(keepEdges, false) {
		for _, id := range keepEdges[g.id].sorted() {
			e := Edge{ID: id}
			if g != root {
				if !g.view().es.add(id) {
					inconsistent("%s already in graph %d", e, g.id)
				}
			}
			g.emit(EdgeAdded{Graph: g, Edge: e})
		}
	}
	for _, id := range slices.Sorted(maps.Keys(changedEnds)) {
		e := Edge{ID: id}
		for _, v := range root.graphsWithEdge(e) {
			v.emit(EndsChanged{Graph: v, Edge: e, Old: changedEnds[id]})
		}
	}
	for _, id := range reordered {
		n := Node{ID: id}
		for _, v := range root.graphsWithNode(n) {
			v.emit(EdgeOrderChanged{Graph: v, Node: n})
		}
	}

	r.replaySubgraphs(undo)
	r.replayProperties(undo)

	attrs := r.oldAttrs
	if !undo {
		attrs = r.newAttrs
	}
	for gid, m := range attrs {
		g := r.graphs[gid]
		for _, name := range slices.Sorted(maps.Keys(m)) {
			g.restoreAttribute(name, m[name])
		}
	}

	nodeDefaults, edgeDefaults := r.oldNodeDefaults, r.oldEdgeDefaults
	nodeValues, edgeValues := r.oldNodeValues, r.oldEdgeValues
	if !undo {
		nodeDefaults, edgeDefaults = r.newNodeDefaults, r.newEdgeDefaults
		nodeValues, edgeValues = r.newNodeValues, r.newEdgeValues
	}
	if undo {
		r.eraseAddedValues()
	}
	for h, v := range nodeDefaults {
		r.tracked[h].restoreNodeDefault(v)
	}
	for h, v := range edgeDefaults {
		r.tracked[h].restoreEdgeDefault(v)
	}
	for h, m := range nodeValues {
		p := r.tracked[h]
		for _, id := range slices.Sorted(maps.Keys(m)) {
			p.applyNodeCell(Node{ID: id}, m[id])
		}
	}
	for h, m := range edgeValues {
		p := r.tracked[h]
		for _, id := range slices.Sorted(maps.Keys(m)) {
			p.applyEdgeCell(Edge{ID: id}, m[id])
		}
	}
}

func (r *recorder) replaySubgraphs(undo bool) {
	if !undo {
		for _, op := range r.subOps {
			if op.add {
				op.parent.attachSubgraph(op.sg, op.index)
			} else {
				op.parent.detachSubgraph(op.sg)
			}
		}
		return
	}
	for i := len(r.subOps) - 1; i >= 0; i-- {
		op := r.subOps[i]
		if op.add {
			if !op.parent.IsSubgraph(op.sg) {
				inconsistent("graph %d is not attached to graph %d", op.sg.id, op.parent.id)
			}
			op.parent.detachSubgraph(op.sg)
			continue
		}
		for _, c := range op.children {
			j := slices.Index(op.parent.subs, c)
			if j < 0 {
				inconsistent("graph %d is not attached to graph %d", c.id, op.parent.id)
			}
			op.parent.subs = slices.Delete(op.parent.subs, j, j+1)
			c.super = op.sg
		}
		op.sg.subs = slices.Clone(op.children)
		op.parent.attachSubgraph(op.sg, op.index)
	}
}

func (r *recorder) replayProperties(undo bool) {
	apply := func(op propOp, forward bool) {
		g := op.graph
		switch {
		case op.kind == propRenamed && forward:
			g.renameLocal(op.prop, op.newName)
		case op.kind == propRenamed:
			g.renameLocal(op.prop, op.oldName)
		case (op.kind == propAdded) == forward:
			g.addLocalProperty(op.prop)
			if !forward {
				r.clearAdded(g, op.prop)
			}
		default:
			if err := g.DelLocalProperty(op.prop.Name()); err != nil {
				inconsistent("property %q is not local to graph %d", op.prop.Name(), g.id)
			}
		}
	}
	if undo {
		for i := len(r.propOps) - 1; i >= 0; i-- {
			apply(r.propOps[i], false)
		}
		return
	}
	for _, op := range r.propOps {
		apply(op, true)
	}
}

// clearAdded drops values that a property deleted during the interval
// holds for elements that no longer exist after undo.
func (r *recorder) clearAdded(g *Graph, p PropertyInterface) {
	for _, gid := range []uint32{g.id, r.root.id} {
		for id := range r.addedNodes[gid] {
			p.eraseNode(id)
		}
		for id := range r.addedEdges[gid] {
			p.eraseEdge(id)
		}
	}
}
