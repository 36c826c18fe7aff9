package graph_test

import (
	"slices"
	"testing"

	errs "github.com/matzehuels/multigraph/pkg/errors"
	"github.com/matzehuels/multigraph/pkg/graph"
)

func TestAddAndDelete(t *testing.T) {
	tests := []struct {
		name      string
		build     func(g *graph.Graph)
		wantNodes int
		wantEdges int
	}{
		{
			name:  "Empty",
			build: func(g *graph.Graph) {},
		},
		{
			name: "Path",
			build: func(g *graph.Graph) {
				ns := g.AddNodes(3)
				g.AddEdge(ns[0], ns[1])
				g.AddEdge(ns[1], ns[2])
			},
			wantNodes: 3,
			wantEdges: 2,
		},
		{
			name: "ParallelEdges",
			build: func(g *graph.Graph) {
				ns := g.AddNodes(2)
				g.AddEdge(ns[0], ns[1])
				g.AddEdge(ns[0], ns[1])
				g.AddEdge(ns[1], ns[0])
			},
			wantNodes: 2,
			wantEdges: 3,
		},
		{
			name: "DeleteCascadesEdges",
			build: func(g *graph.Graph) {
				ns := g.AddNodes(3)
				g.AddEdge(ns[0], ns[1])
				g.AddEdge(ns[1], ns[2])
				g.AddEdge(ns[1], ns[1])
				g.DelNode(ns[1], false)
			},
			wantNodes: 2,
		},
		{
			name: "Clear",
			build: func(g *graph.Graph) {
				ns := g.AddNodes(4)
				g.AddEdge(ns[0], ns[3])
				g.AddSubgraph("s")
				g.Clear()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := graph.New()
			tt.build(g)
			if got := g.NumberOfNodes(); got != tt.wantNodes {
				t.Errorf("NumberOfNodes = %d, want %d", got, tt.wantNodes)
			}
			if got := g.NumberOfEdges(); got != tt.wantEdges {
				t.Errorf("NumberOfEdges = %d, want %d", got, tt.wantEdges)
			}
		})
	}
}

func TestNonMemberErrors(t *testing.T) {
	g := graph.New()
	n := g.AddNode()
	sg := g.AddSubgraph("s")

	tests := []struct {
		name  string
		apply func() error
	}{
		{"EdgeOutsideView", func() error { _, err := sg.AddEdge(n, n); return err }},
		{"DelMissingNode", func() error { return g.DelNode(graph.Node{ID: 42}, false) }},
		{"DelMissingEdge", func() error { return g.DelEdge(graph.Edge{ID: 42}, false) }},
		{"ReverseInvalid", func() error { return g.Reverse(graph.InvalidEdge) }},
		{"AddExistingUnknown", func() error { return sg.AddExistingNode(graph.Node{ID: 99}) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.apply(); !errs.Is(err, errs.ErrCodeNotElement) {
				t.Errorf("err = %v, want NOT_ELEMENT", err)
			}
		})
	}
}

func TestViewContainment(t *testing.T) {
	g := graph.New()
	ns := g.AddNodes(4)
	a := g.AddSubgraph("a")
	b := a.AddSubgraph("b")

	// Adding to a grandchild makes the element visible up the chain.
	n := b.AddNode()
	e, err := b.AddEdge(n, n)
	if err != nil {
		t.Fatal(err)
	}
	for _, v := range []*graph.Graph{g, a, b} {
		if !v.HasNode(n) || !v.HasEdge(e) {
			t.Errorf("graph %q does not see elements added to b", v.Name())
		}
	}

	if err := a.AddExistingNodes(ns[:2]); err != nil {
		t.Fatal(err)
	}
	if b.HasNode(ns[0]) {
		t.Error("adding to a leaked into its child")
	}

	// Deleting from a view keeps the element in its ancestors.
	if err := a.DelNode(n, false); err != nil {
		t.Fatal(err)
	}
	if a.HasNode(n) || b.HasNode(n) || b.HasEdge(e) {
		t.Error("view deletion did not reach descendants")
	}
	if !g.HasNode(n) || !g.HasEdge(e) {
		t.Error("view deletion removed element from root")
	}

	// allGraphs deletes from the whole tree.
	if err := a.DelNode(ns[0], true); err != nil {
		t.Fatal(err)
	}
	if g.HasNode(ns[0]) {
		t.Error("allGraphs deletion left node in root")
	}
}

func TestSetEndsRemovesFromViews(t *testing.T) {
	g := graph.New()
	ns := g.AddNodes(3)
	e, _ := g.AddEdge(ns[0], ns[1])
	sg, err := g.InducedSubgraph(ns[:2], nil, "pair")
	if err != nil {
		t.Fatal(err)
	}
	if !sg.HasEdge(e) {
		t.Fatal("induced subgraph missing edge")
	}

	if err := g.SetTarget(e, ns[2]); err != nil {
		t.Fatal(err)
	}
	if sg.HasEdge(e) {
		t.Error("view kept an edge whose target left it")
	}
	if got := g.Ends(e); got != (graph.Ends{Source: ns[0], Target: ns[2]}) {
		t.Errorf("Ends = %v", got)
	}
	if got := g.Indeg(ns[1]); got != 0 {
		t.Errorf("Indeg of old target = %d", got)
	}
}

func TestReverse(t *testing.T) {
	g := graph.New()
	ns := g.AddNodes(2)
	e, _ := g.AddEdge(ns[0], ns[1])

	var reversed []graph.Edge
	graph.On(g, func(ev graph.EdgeReversed) { reversed = append(reversed, ev.Edge) })

	if err := g.Reverse(e); err != nil {
		t.Fatal(err)
	}
	if g.Source(e) != ns[1] || g.Target(e) != ns[0] {
		t.Errorf("Ends after Reverse = %v", g.Ends(e))
	}
	if g.Outdeg(ns[1]) != 1 || g.Indeg(ns[0]) != 1 {
		t.Error("degrees not updated by Reverse")
	}
	if !slices.Equal(reversed, []graph.Edge{e}) {
		t.Errorf("EdgeReversed events = %v", reversed)
	}
}

func TestQueries(t *testing.T) {
	g := graph.New()
	ns := g.AddNodes(4)
	e01, _ := g.AddEdge(ns[0], ns[1])
	e01b, _ := g.AddEdge(ns[0], ns[1])
	e21, _ := g.AddEdge(ns[2], ns[1])
	loop, _ := g.AddEdge(ns[3], ns[3])

	if got := g.OutNodes(ns[0]); !slices.Equal(got, []graph.Node{ns[1], ns[1]}) {
		t.Errorf("OutNodes = %v", got)
	}
	if got := g.Neighbors(ns[1]); !slices.Equal(got, []graph.Node{ns[0], ns[2]}) {
		t.Errorf("Neighbors = %v", got)
	}
	if got := g.Neighbors(ns[3]); !slices.Equal(got, []graph.Node{ns[3]}) {
		t.Errorf("Neighbors of loop node = %v", got)
	}
	if got := g.GetEdges(ns[0], ns[1], true); !slices.Equal(got, []graph.Edge{e01, e01b}) {
		t.Errorf("GetEdges = %v", got)
	}
	if _, ok := g.ExistEdge(ns[1], ns[0], true); ok {
		t.Error("ExistEdge directed found reversed edge")
	}
	if got, ok := g.ExistEdge(ns[1], ns[2], false); !ok || got != e21 {
		t.Errorf("ExistEdge undirected = %v, %v", got, ok)
	}
	if got := g.Opposite(loop, ns[3]); got != ns[3] {
		t.Errorf("Opposite of loop = %v", got)
	}
	if got := g.FindSource(); got != ns[0] {
		t.Errorf("FindSource = %v, want %v", got, ns[0])
	}
	if got := g.FindSink(); got != ns[1] {
		t.Errorf("FindSink = %v, want %v", got, ns[1])
	}
}

func TestSubgraphHierarchy(t *testing.T) {
	g := graph.New()
	a := g.AddSubgraph("a")
	b := a.AddSubgraph("b")
	c := g.AddSubgraph("c")

	if got := g.NumberOfDescendantGraphs(); got != 3 {
		t.Errorf("NumberOfDescendantGraphs = %d", got)
	}
	if got := g.Descendants(); !slices.Equal(got, []*graph.Graph{a, b, c}) {
		t.Error("Descendants not in pre-order")
	}
	if g.DescendantGraphByName("b") != b || g.SubgraphByName("b") != nil {
		t.Error("name lookup wrong")
	}
	if !g.IsDescendantGraph(b) || g.IsSubgraph(b) {
		t.Error("descendant relation wrong")
	}
	if b.Depth() != 2 || b.Root() != g || b.Super() != a {
		t.Error("ancestry of b wrong")
	}

	if err := g.DelSubgraph(b); !errs.Is(err, errs.ErrCodeNotSubgraph) {
		t.Errorf("DelSubgraph of grandchild: err = %v", err)
	}
	if err := g.DelSubgraph(a); err != nil {
		t.Fatal(err)
	}
	if got := g.Subgraphs(); !slices.Equal(got, []*graph.Graph{c, b}) {
		t.Error("children of deleted subgraph not moved to parent")
	}
	if err := g.DelAllSubgraphs(c); err != nil {
		t.Fatal(err)
	}
	if g.NumberOfSubgraphs() != 1 {
		t.Errorf("NumberOfSubgraphs = %d, want 1", g.NumberOfSubgraphs())
	}
}

func TestSubgraphFromSelection(t *testing.T) {
	g := graph.New()
	ns := g.AddNodes(4)
	e, _ := g.AddEdge(ns[2], ns[3])
	sel, _ := graph.LocalProperty(g, "sel", graph.Bool)
	sel.SetNodeValue(ns[0], true)
	sel.SetEdgeValue(e, true)

	sg := g.AddSubgraphFromSelection(sel, "picked")
	if got := sg.NumberOfNodes(); got != 3 {
		t.Errorf("NumberOfNodes = %d, want 3", got)
	}
	if !sg.HasEdge(e) || sg.HasNode(ns[1]) {
		t.Error("selection membership wrong")
	}

	clone, err := sg.AddCloneSubgraph("copy", true, false)
	if err != nil {
		t.Fatal(err)
	}
	if clone.Super() != g || clone.NumberOfNodes() != 3 {
		t.Error("sibling clone wrong")
	}
}

func TestDestroy(t *testing.T) {
	g := graph.New()
	sg := g.AddSubgraph("s")
	var destroyed []uint32
	for _, v := range []*graph.Graph{g, sg} {
		graph.On(v, func(ev graph.GraphDestroyed) { destroyed = append(destroyed, ev.Graph.ID()) })
	}
	if err := sg.Destroy(); err == nil {
		t.Error("Destroy on a view succeeded")
	}
	if err := g.Destroy(); err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(destroyed, []uint32{sg.ID(), g.ID()}) {
		t.Errorf("GraphDestroyed order = %v", destroyed)
	}
}

func TestEventOrder(t *testing.T) {
	g := graph.New()
	ns := g.AddNodes(2)
	e, _ := g.AddEdge(ns[0], ns[1])
	w, _ := graph.LocalProperty(g, "w", graph.Int)
	w.SetNodeValue(ns[0], 3)

	var log []string
	g.Subscribe(func(ev graph.Event) {
		switch ev := ev.(type) {
		case graph.EdgeDeleted:
			// Still a member while the event is delivered.
			if ev.Graph.HasEdge(ev.Edge) {
				log = append(log, "edge-deleted")
			}
		case graph.NodeDeleted:
			if ev.Graph.HasNode(ev.Node) && w.NodeValue(ev.Node) == 3 {
				log = append(log, "node-deleted")
			}
		}
	})
	if err := g.DelNode(ns[0], false); err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(log, []string{"edge-deleted", "node-deleted"}) {
		t.Errorf("events = %v", log)
	}
	if g.HasEdge(e) {
		t.Error("incident edge survived")
	}
}

func TestAttributes(t *testing.T) {
	g := graph.New()
	g.SetName("root")
	g.SetAttribute("layers", 3)

	if got := g.Name(); got != "root" {
		t.Errorf("Name = %q", got)
	}
	if got, ok := graph.AttributeAs[int](g, "layers"); !ok || got != 3 {
		t.Errorf("AttributeAs = %v, %v", got, ok)
	}
	if _, ok := graph.AttributeAs[string](g, "layers"); ok {
		t.Error("AttributeAs with wrong type succeeded")
	}
	if !g.RemoveAttribute("layers") || g.RemoveAttribute("layers") {
		t.Error("RemoveAttribute results wrong")
	}
	if got := g.AttributeNames(); !slices.Equal(got, []string{graph.NameAttribute}) {
		t.Errorf("AttributeNames = %v", got)
	}
}

func TestAttributeUndo(t *testing.T) {
	g := graph.New()
	g.SetAttribute("k", "old")
	g.Push()
	g.SetAttribute("k", "new")
	g.SetAttribute("added", true)
	if _, err := g.Pop(); err != nil {
		t.Fatal(err)
	}
	if v, _ := g.Attribute("k"); v != "old" {
		t.Errorf("k = %v, want old", v)
	}
	if _, ok := g.Attribute("added"); ok {
		t.Error("attribute added after checkpoint survived Pop")
	}
}
