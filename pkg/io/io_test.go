package io_test

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	errs "github.com/matzehuels/multigraph/pkg/errors"
	"github.com/matzehuels/multigraph/pkg/graph"
	mio "github.com/matzehuels/multigraph/pkg/io"
)

func buildSample(t *testing.T) *graph.Graph {
	t.Helper()
	g := graph.New()
	g.SetName("sample")
	g.SetAttribute("owner", "ops")
	n := g.AddNodes(4)
	e0, _ := g.AddEdge(n[0], n[1])
	e1, _ := g.AddEdge(n[1], n[2])
	e2, _ := g.AddEdge(n[2], n[2])

	weight, err := graph.LocalProperty(g, "weight", graph.Double)
	if err != nil {
		t.Fatal(err)
	}
	weight.SetAllEdgeValue(1)
	weight.SetEdgeValue(e1, 2.5)
	label, _ := graph.LocalProperty(g, "label", graph.String)
	label.SetNodeValue(n[0], "a")
	label.SetNodeValue(n[3], "d e")

	sg := g.AddSubgraph("cluster")
	_ = sg.AddExistingNodes([]graph.Node{n[1], n[2]})
	_ = sg.AddExistingEdges([]graph.Edge{e1, e2})
	color, _ := graph.LocalProperty(sg, "color", graph.ColorType)
	color.SetNodeValue(n[1], graph.Color{255, 0, 0, 255})
	inner := sg.AddSubgraph("inner")
	_ = inner.AddExistingNode(n[2])

	meta, _ := graph.LocalProperty(g, "meta", graph.GraphRef)
	meta.SetNodeValue(n[3], inner.ID())
	_ = e0
	return g
}

func TestRoundTrip(t *testing.T) {
	g := buildSample(t)
	data, err := mio.Marshal(g)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	got, err := mio.Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if got.NumberOfNodes() != 4 || got.NumberOfEdges() != 3 {
		t.Fatalf("got %d nodes %d edges, want 4 and 3", got.NumberOfNodes(), got.NumberOfEdges())
	}
	if got.Name() != "sample" {
		t.Errorf("name = %q", got.Name())
	}
	if v, _ := got.Attribute("owner"); v != "ops" {
		t.Errorf("owner = %v", v)
	}
	for _, e := range g.Edges() {
		if !got.HasEdge(e) {
			t.Fatalf("edge %v missing", e)
		}
		if g.Ends(e) != got.Ends(e) {
			t.Errorf("ends of %v = %v, want %v", e, got.Ends(e), g.Ends(e))
		}
	}

	weight, err := graph.LocalProperty(got, "weight", graph.Double)
	if err != nil {
		t.Fatal(err)
	}
	if weight.EdgeValue(graph.Edge{ID: 0}) != 1 || weight.EdgeValue(graph.Edge{ID: 1}) != 2.5 {
		t.Errorf("weights = %v, %v", weight.EdgeValue(graph.Edge{ID: 0}), weight.EdgeValue(graph.Edge{ID: 1}))
	}
	label, _ := graph.LocalProperty(got, "label", graph.String)
	if label.NodeValue(graph.Node{ID: 3}) != "d e" {
		t.Errorf("label = %q", label.NodeValue(graph.Node{ID: 3}))
	}

	sg := got.SubgraphByName("cluster")
	if sg == nil {
		t.Fatal("cluster missing")
	}
	if sg.NumberOfNodes() != 2 || sg.NumberOfEdges() != 2 {
		t.Errorf("cluster has %d nodes %d edges", sg.NumberOfNodes(), sg.NumberOfEdges())
	}
	color, ok := sg.Property("color").(*graph.Property[graph.Color])
	if !ok {
		t.Fatal("color property missing from cluster")
	}
	if color.NodeValue(graph.Node{ID: 1}) != (graph.Color{255, 0, 0, 255}) {
		t.Errorf("color = %v", color.NodeValue(graph.Node{ID: 1}))
	}
	inner := got.DescendantGraphByName("inner")
	if inner == nil || inner.Super() != sg {
		t.Fatal("inner subgraph not restored under cluster")
	}
	meta, _ := graph.LocalProperty(got, "meta", graph.GraphRef)
	if ref := meta.NodeValue(graph.Node{ID: 3}); ref != inner.ID() {
		t.Errorf("meta ref = %d, want %d", ref, inner.ID())
	}
}

func TestRoundTripStable(t *testing.T) {
	g := buildSample(t)
	first, err := mio.Marshal(g)
	if err != nil {
		t.Fatal(err)
	}
	back, err := mio.Unmarshal(first)
	if err != nil {
		t.Fatal(err)
	}
	second, err := mio.Marshal(back)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(first, second) {
		t.Errorf("re-export differs:\n%s\n---\n%s", first, second)
	}
}

func TestSparseIDsRenumbered(t *testing.T) {
	g := graph.New()
	n := g.AddNodes(5)
	_ = g.DelNode(n[1], false)
	_ = g.DelNode(n[3], false)
	e, _ := g.AddEdge(n[4], n[0])

	got, err := roundTrip(t, g)
	if err != nil {
		t.Fatal(err)
	}
	if got.NumberOfNodes() != 3 || got.NumberOfEdges() != 1 {
		t.Fatalf("got %d nodes %d edges", got.NumberOfNodes(), got.NumberOfEdges())
	}
	end := got.Ends(got.Edges()[0])
	// 0, 2, 4 become 0, 1, 2
	if end.Source.ID != 2 || end.Target.ID != 0 {
		t.Errorf("edge %v ends = %v, want node(2) -> node(0)", e, end)
	}
}

func TestIncidenceOrder(t *testing.T) {
	g := graph.New()
	n := g.AddNodes(3)
	a, _ := g.AddEdge(n[0], n[1])
	b, _ := g.AddEdge(n[0], n[2])
	if err := g.SetEdgeOrder(n[0], []graph.Edge{b, a}); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := mio.WriteJSON(g, &buf, mio.WithIncidence()); err != nil {
		t.Fatal(err)
	}
	got, err := mio.ReadJSON(&buf)
	if err != nil {
		t.Fatal(err)
	}
	inc := got.Incident(n[0])
	if len(inc) != 2 || inc[0] != b || inc[1] != a {
		t.Errorf("incidence = %v, want [%v %v]", inc, b, a)
	}
}

func TestExportView(t *testing.T) {
	g := buildSample(t)
	sg := g.SubgraphByName("cluster")

	got, err := roundTrip(t, sg)
	if err != nil {
		t.Fatal(err)
	}
	if got.NumberOfNodes() != 2 || got.NumberOfEdges() != 2 {
		t.Errorf("got %d nodes %d edges, want 2 and 2", got.NumberOfNodes(), got.NumberOfEdges())
	}
	// inherited properties of the view become local to the new root
	for _, name := range []string{"weight", "label", "color"} {
		if !got.ExistLocalProperty(name) {
			t.Errorf("property %q missing", name)
		}
	}
	if got.SubgraphByName("inner") == nil {
		t.Error("inner subgraph missing")
	}
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name string
		json string
		code errs.Code
	}{
		{"version", `{"version": 2, "nodes": [], "edges": [], "graph": {"id": 0}}`, errs.ErrCodeInvalidFormat},
		{"duplicate node", `{"version": 1, "nodes": [0, 0], "edges": [], "graph": {"id": 0}}`, errs.ErrCodeInvalidFormat},
		{"unknown source", `{"version": 1, "nodes": [0], "edges": [{"id": 0, "source": 7, "target": 0}], "graph": {"id": 0}}`, errs.ErrCodeInvalidFormat},
		{"unknown member", `{"version": 1, "nodes": [0], "edges": [], "graph": {"id": 0, "subgraphs": [{"id": 1, "nodes": [3]}]}}`, errs.ErrCodeInvalidFormat},
		{"unknown value node", `{"version": 1, "nodes": [0], "edges": [], "graph": {"id": 0, "properties": [{"name": "p", "kind": "int", "node_default": "0", "edge_default": "0", "nodes": {"9": "1"}}]}}`, errs.ErrCodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := mio.ReadJSON(strings.NewReader(tt.json))
			if !errs.Is(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestReadMalformed(t *testing.T) {
	_, err := mio.ReadJSON(strings.NewReader(`{"nodes": [`))
	if err == nil || !strings.HasPrefix(err.Error(), "decode:") {
		t.Errorf("err = %v, want decode error", err)
	}
}

func TestFileRoundTrip(t *testing.T) {
	g := buildSample(t)
	path := filepath.Join(t.TempDir(), "graph.json")
	if err := mio.ExportJSON(g, path); err != nil {
		t.Fatal(err)
	}
	got, err := mio.ImportJSON(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.NumberOfDescendantGraphs() != 2 {
		t.Errorf("descendants = %d, want 2", got.NumberOfDescendantGraphs())
	}
	if _, err := mio.ImportJSON(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func roundTrip(t *testing.T, g *graph.Graph) (*graph.Graph, error) {
	t.Helper()
	data, err := mio.Marshal(g)
	if err != nil {
		return nil, err
	}
	return mio.Unmarshal(data)
}
