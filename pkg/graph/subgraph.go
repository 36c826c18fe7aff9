package graph

import (
	"slices"

	errs "github.com/matzehuels/multigraph/pkg/errors"
)

// AddSubgraph creates an empty child view of g.
func (g *Graph) AddSubgraph(name string) *Graph {
	return g.addSubgraph(name, nil)
}

// AddSubgraphFromSelection creates a child view holding the nodes of g
// selected by sel and the selected edges of g together with their ends.
func (g *Graph) AddSubgraphFromSelection(sel *Property[bool], name string) *Graph {
	return g.addSubgraph(name, func(sg *Graph) {
		for _, n := range g.Nodes() {
			if sel.NodeValue(n) {
				sg.view().ns.add(n.ID)
			}
		}
		st := g.storage()
		for _, e := range g.Edges() {
			if sel.EdgeValue(e) {
				end := st.endsOf(e)
				sg.view().ns.add(end.Source.ID)
				sg.view().ns.add(end.Target.ID)
				sg.view().es.add(e.ID)
			}
		}
	})
}

// AddCloneSubgraph creates a view holding every element of g. With
// sibling set the view becomes a child of g's supergraph; with
// siblingProps set the local properties of g are copied onto it.
func (g *Graph) AddCloneSubgraph(name string, sibling, siblingProps bool) (*Graph, error) {
	parent := g
	if sibling {
		if g.IsRoot() {
			return nil, errs.New(errs.ErrCodeUnsupported, "a root graph has no siblings")
		}
		parent = g.super
	}
	clone := parent.addSubgraph(name, func(sg *Graph) {
		for _, n := range g.Nodes() {
			sg.view().ns.add(n.ID)
		}
		for _, e := range g.Edges() {
			sg.view().es.add(e.ID)
		}
	})
	if siblingProps {
		for _, p := range g.LocalProperties() {
			if _, err := p.cloneTo(clone, p.Name()); err != nil {
				return clone, err
			}
		}
	}
	return clone, nil
}

// InducedSubgraph creates a child of parent (g when nil) holding nodes and
// every edge of g between them.
func (g *Graph) InducedSubgraph(nodes []Node, parent *Graph, name string) (*Graph, error) {
	if parent == nil {
		parent = g
	}
	for _, n := range nodes {
		if !g.HasNode(n) {
			return nil, g.nodeError(n)
		}
	}
	sg := parent.AddSubgraph(name)
	if err := sg.AddExistingNodes(nodes); err != nil {
		return sg, err
	}
	st := g.storage()
	for _, n := range nodes {
		for _, e := range g.OutEdges(n) {
			if sg.HasNode(st.endsOf(e).Target) {
				if err := sg.AddExistingEdge(e); err != nil {
					return sg, err
				}
			}
		}
	}
	return sg, nil
}

// InducedSubgraphFromSelection is InducedSubgraph over the nodes selected
// by sel, plus the ends of selected edges.
func (g *Graph) InducedSubgraphFromSelection(sel *Property[bool], parent *Graph, name string) (*Graph, error) {
	var nodes []Node
	for _, n := range g.Nodes() {
		if sel.NodeValue(n) {
			nodes = append(nodes, n)
		}
	}
	st := g.storage()
	for _, e := range g.Edges() {
		if sel.EdgeValue(e) {
			end := st.endsOf(e)
			for _, n := range []Node{end.Source, end.Target} {
				if !slices.Contains(nodes, n) {
					nodes = append(nodes, n)
				}
			}
		}
	}
	return g.InducedSubgraph(nodes, parent, name)
}

// addSubgraph attaches a new view to g. fill populates its membership
// before it becomes visible.
func (g *Graph) addSubgraph(name string, fill func(sg *Graph)) *Graph {
	sh := g.shared
	sg := &Graph{
		id:      sh.mustGraphID(),
		root:    g.root,
		super:   g,
		members: newViewMembers(),
		props:   newPropertyManager(),
		attrs:   map[string]any{NameAttribute: name},
		shared:  sh,
	}
	if fill != nil {
		fill(sg)
	}
	g.attachSubgraph(sg, len(g.subs))
	return sg
}

// attachSubgraph inserts sg among g's children at index i.
func (g *Graph) attachSubgraph(sg *Graph, i int) {
	g.changed()
	g.emit(SubgraphAdding{Graph: g, Subgraph: sg})
	sg.super = g
	g.subs = slices.Insert(g.subs, min(i, len(g.subs)), sg)
	sg.refreshInherited()
	g.emit(SubgraphAdded{Graph: g, Subgraph: sg})
	for a := g; a != nil; a = a.super {
		a.emit(DescendantAdded{Graph: a, Descendant: sg})
	}
}

// DelSubgraph detaches the child sg from g. The children of sg become
// children of g. The id of sg is freed unless a checkpoint keeps it.
func (g *Graph) DelSubgraph(sg *Graph) error {
	if !g.IsSubgraph(sg) {
		return errs.New(errs.ErrCodeNotSubgraph, "graph %d is not a subgraph of graph %d", sg.id, g.id)
	}
	g.detachSubgraph(sg)
	if !g.shared.recording() {
		sg.release()
	}
	return nil
}

// detachSubgraph removes sg from g, moving its children to the end of
// g's child list.
func (g *Graph) detachSubgraph(sg *Graph) {
	g.changed()
	g.emit(SubgraphDeleting{Graph: g, Subgraph: sg})
	i := slices.Index(g.subs, sg)
	g.subs = slices.Delete(g.subs, i, i+1)
	children := sg.subs
	sg.subs = nil
	for _, c := range children {
		c.super = g
		g.subs = append(g.subs, c)
	}
	for _, c := range children {
		c.refreshInherited()
	}
	g.emit(SubgraphDeleted{Graph: g, Subgraph: sg})
	for a := g; a != nil; a = a.super {
		a.emit(DescendantDeleted{Graph: a, Descendant: sg})
	}
}

// release frees the id of a detached subgraph and drops its listeners.
func (g *Graph) release() {
	if err := g.shared.graphIDs.Free(g.id); err == nil {
		g.emit(GraphDestroyed{Graph: g})
	}
	g.bus.Clear()
}

// DelAllSubgraphs deletes the child sg together with its whole subtree.
func (g *Graph) DelAllSubgraphs(sg *Graph) error {
	if !g.IsSubgraph(sg) {
		return errs.New(errs.ErrCodeNotSubgraph, "graph %d is not a subgraph of graph %d", sg.id, g.id)
	}
	for _, c := range slices.Clone(sg.subs) {
		if err := sg.DelAllSubgraphs(c); err != nil {
			return err
		}
	}
	return g.DelSubgraph(sg)
}

// Subgraphs returns the children of g in creation order.
func (g *Graph) Subgraphs() []*Graph { return slices.Clone(g.subs) }

// NumberOfSubgraphs returns the number of children of g.
func (g *Graph) NumberOfSubgraphs() int { return len(g.subs) }

// Descendants returns every graph below g in pre-order.
func (g *Graph) Descendants() []*Graph {
	var out []*Graph
	var walk func(*Graph)
	walk = func(v *Graph) {
		for _, c := range v.subs {
			out = append(out, c)
			walk(c)
		}
	}
	walk(g)
	return out
}

// NumberOfDescendantGraphs returns the size of g's subtree, g excluded.
func (g *Graph) NumberOfDescendantGraphs() int {
	n := len(g.subs)
	for _, c := range g.subs {
		n += c.NumberOfDescendantGraphs()
	}
	return n
}

// IsSubgraph reports whether sg is a direct child of g.
func (g *Graph) IsSubgraph(sg *Graph) bool {
	return sg != nil && slices.Contains(g.subs, sg)
}

// IsDescendantGraph reports whether sg lies in g's subtree.
func (g *Graph) IsDescendantGraph(sg *Graph) bool {
	return sg != nil && slices.Contains(g.Descendants(), sg)
}

// Subgraph returns the child of g with the given id, or nil.
func (g *Graph) Subgraph(id uint32) *Graph {
	for _, c := range g.subs {
		if c.id == id {
			return c
		}
	}
	return nil
}

// SubgraphByName returns the first child of g with the given name, or nil.
func (g *Graph) SubgraphByName(name string) *Graph {
	for _, c := range g.subs {
		if c.Name() == name {
			return c
		}
	}
	return nil
}

// DescendantGraph returns the graph with the given id in g's subtree, or
// nil.
func (g *Graph) DescendantGraph(id uint32) *Graph {
	for _, d := range g.Descendants() {
		if d.id == id {
			return d
		}
	}
	return nil
}

// DescendantGraphByName returns the first graph in pre-order with the
// given name, or nil.
func (g *Graph) DescendantGraphByName(name string) *Graph {
	for _, d := range g.Descendants() {
		if d.Name() == name {
			return d
		}
	}
	return nil
}
