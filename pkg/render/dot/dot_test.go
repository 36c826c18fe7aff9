package dot

import (
	"strings"
	"testing"

	"github.com/matzehuels/multigraph/pkg/graph"
)

func sample(t *testing.T) *graph.Graph {
	t.Helper()
	g := graph.New()
	n := g.AddNodes(3)
	_, _ = g.AddEdge(n[0], n[1])
	_, _ = g.AddEdge(n[1], n[2])
	_, _ = g.AddEdge(n[2], n[2])
	return g
}

func TestToDOT(t *testing.T) {
	g := sample(t)
	out, err := ToDOT(g, Options{})
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"digraph G {",
		`0 [label="0"];`,
		`2 [label="2"];`,
		"0 -> 1;",
		"1 -> 2;",
		"2 -> 2;",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}

func TestToDOTLabelAndColor(t *testing.T) {
	g := sample(t)
	name, _ := graph.LocalProperty(g, "name", graph.String)
	name.SetNodeValue(graph.Node{ID: 1}, "middle")
	name.SetEdgeValue(graph.Edge{ID: 0}, "first")
	color, _ := graph.LocalProperty(g, "color", graph.ColorType)
	color.SetNodeValue(graph.Node{ID: 0}, graph.Color{255, 0, 16, 255})

	out, err := ToDOT(g, Options{Label: "name", Color: "color"})
	if err != nil {
		t.Fatal(err)
	}
	tests := []string{
		`1 [label="middle"`,
		`0 [label="0", fillcolor="#ff0010ff"]`,
		`0 -> 1 [label="first"`,
	}
	for _, want := range tests {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}

func TestToDOTColorKind(t *testing.T) {
	g := sample(t)
	_, _ = graph.LocalProperty(g, "color", graph.Int)
	if _, err := ToDOT(g, Options{Color: "color"}); err == nil {
		t.Error("expected error for non-color property")
	}
	if _, err := ToDOT(g, Options{Color: "missing", Label: "missing"}); err != nil {
		t.Errorf("missing properties should be ignored: %v", err)
	}
}

func TestToDOTClusters(t *testing.T) {
	g := sample(t)
	sg := g.AddSubgraph("outer")
	_ = sg.AddExistingNodes([]graph.Node{{ID: 0}, {ID: 1}})
	inner := sg.AddSubgraph("")
	_ = inner.AddExistingNode(graph.Node{ID: 1})

	out, err := ToDOT(g, Options{Clusters: true})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "subgraph cluster_1 {") || !strings.Contains(out, `label="outer";`) {
		t.Errorf("outer cluster missing:\n%s", out)
	}
	if !strings.Contains(out, "    subgraph cluster_2 {") || !strings.Contains(out, `label="graph 2";`) {
		t.Errorf("nested cluster missing:\n%s", out)
	}

	plain, _ := ToDOT(g, Options{})
	if strings.Contains(plain, "cluster_") {
		t.Error("clusters emitted without the option")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="10pt" viewBox="0.00 0.00 120.50 80.00"><g/></svg>`)
	got := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 120.50 80.00" width="120" height="80"><g/></svg>`
	if got != want {
		t.Errorf("got %s\nwant %s", got, want)
	}
	if string(normalizeViewBox([]byte("<svg/>"))) != "<svg/>" {
		t.Error("svg without viewBox should be unchanged")
	}
}
