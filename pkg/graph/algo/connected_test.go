package algo

import (
	"testing"

	"github.com/matzehuels/multigraph/pkg/graph"
)

func TestConnectedComponents(t *testing.T) {
	g := graph.New()
	ns := g.AddNodes(5)
	g.AddEdge(ns[0], ns[1])
	g.AddEdge(ns[2], ns[1])
	g.AddEdge(ns[3], ns[3])

	comps := ConnectedComponents(g)
	if len(comps) != 3 {
		t.Fatalf("components = %v, want 3", comps)
	}
	if len(comps[0]) != 3 || len(comps[1]) != 1 || len(comps[2]) != 1 {
		t.Errorf("component sizes wrong: %v", comps)
	}
	if IsConnected(g) {
		t.Error("IsConnected = true")
	}

	added, err := MakeConnected(g)
	if err != nil {
		t.Fatal(err)
	}
	if len(added) != 2 || !IsConnected(g) {
		t.Errorf("MakeConnected added %v, connected = %v", added, IsConnected(g))
	}
	if !IsConnected(graph.New()) {
		t.Error("empty graph not connected")
	}
}

func TestConnectedCacheInvalidation(t *testing.T) {
	g := graph.New()
	ns := g.AddNodes(2)
	e, _ := g.AddEdge(ns[0], ns[1])
	c := NewConnectedCache()

	tests := []struct {
		name       string
		mutate     func()
		want       bool
		wantCached bool
	}{
		{"Initial", func() {}, true, true},
		{"AddNode", func() { ns = append(ns, g.AddNode()) }, false, true},
		{"EdgeOnDisconnected", func() { g.AddEdge(ns[0], ns[0]) }, false, false},
		{"Bridge", func() { g.AddEdge(ns[1], ns[2]) }, true, false},
		{"EdgeOnConnected", func() { g.AddEdge(ns[2], ns[0]) }, true, true},
		{"DeleteEdge", func() { g.DelEdge(e, false) }, true, false},
		{"DeleteNode", func() { g.DelNode(ns[2], false) }, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c.IsConnected(g)
			tt.mutate()
			if got := c.connected.cached(g); got != tt.wantCached {
				t.Errorf("cached = %v, want %v", got, tt.wantCached)
			}
			if got := c.IsConnected(g); got != tt.want {
				t.Errorf("IsConnected = %v, want %v", got, tt.want)
			}
			if got := c.NumberOfComponents(g); (got == 1) != tt.want {
				t.Errorf("NumberOfComponents = %d", got)
			}
		})
	}
}
