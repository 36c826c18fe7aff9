package graph

import (
	"math/rand/v2"
	"slices"
	"testing"

	errs "github.com/matzehuels/multigraph/pkg/errors"
)

func TestStorageSelfLoopDegrees(t *testing.T) {
	g := New()
	n := g.AddNode()
	m := g.AddNode()
	loop, err := g.AddEdge(n, n)
	if err != nil {
		t.Fatalf("AddEdge loop: %v", err)
	}
	out, _ := g.AddEdge(n, m)

	if got := g.Deg(n); got != 3 {
		t.Errorf("Deg = %d, want 3", got)
	}
	if got := g.Outdeg(n); got != 2 {
		t.Errorf("Outdeg = %d, want 2", got)
	}
	if got := g.Indeg(n); got != 1 {
		t.Errorf("Indeg = %d, want 1", got)
	}
	if got := g.Incident(n); !slices.Equal(got, []Edge{loop, loop, out}) {
		t.Errorf("Incident = %v, want [loop loop out]", got)
	}
	if got := g.InEdges(n); !slices.Equal(got, []Edge{loop}) {
		t.Errorf("InEdges = %v, want [%v]", got, loop)
	}
	if got := g.OutEdges(n); !slices.Equal(got, []Edge{loop, out}) {
		t.Errorf("OutEdges = %v, want [%v %v]", got, loop, out)
	}

	if err := g.Reverse(loop); err != nil {
		t.Fatalf("Reverse loop: %v", err)
	}
	if got := g.Outdeg(n); got != 2 {
		t.Errorf("Outdeg after reversing loop = %d, want 2", got)
	}

	if err := g.DelEdge(loop, false); err != nil {
		t.Fatalf("DelEdge: %v", err)
	}
	if got := g.Deg(n); got != 1 {
		t.Errorf("Deg after deleting loop = %d, want 1", got)
	}
}

func TestStorageEdgeOrder(t *testing.T) {
	g := New()
	n := g.AddNode()
	a, b, c := g.AddNode(), g.AddNode(), g.AddNode()
	e1, _ := g.AddEdge(n, a)
	e2, _ := g.AddEdge(b, n)
	e3, _ := g.AddEdge(n, c)

	if err := g.SwapEdgeOrder(n, e1, e3); err != nil {
		t.Fatalf("SwapEdgeOrder: %v", err)
	}
	if got := g.Incident(n); !slices.Equal(got, []Edge{e3, e2, e1}) {
		t.Errorf("after swap Incident = %v, want [%v %v %v]", got, e3, e2, e1)
	}

	if err := g.SetEdgeOrder(n, []Edge{e2, e1, e3}); err != nil {
		t.Fatalf("SetEdgeOrder: %v", err)
	}
	if got := g.Incident(n); !slices.Equal(got, []Edge{e2, e1, e3}) {
		t.Errorf("after set Incident = %v, want [%v %v %v]", got, e2, e1, e3)
	}

	other, _ := g.AddEdge(a, b)
	tests := []struct {
		name  string
		apply func() error
	}{
		{"SwapForeignEdge", func() error { return g.SwapEdgeOrder(n, e1, other) }},
		{"SetMissingEdge", func() error { return g.SetEdgeOrder(n, []Edge{e1, e2}) }},
		{"SetForeignEdge", func() error { return g.SetEdgeOrder(n, []Edge{e1, e2, other}) }},
		{"SetDuplicate", func() error { return g.SetEdgeOrder(n, []Edge{e1, e1, e3}) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.apply()
			if !errs.Is(err, errs.ErrCodeInvalidOrder) {
				t.Fatalf("err = %v, want INVALID_ORDER", err)
			}
			if got := g.Incident(n); !slices.Equal(got, []Edge{e2, e1, e3}) {
				t.Errorf("rejected order changed Incident to %v", got)
			}
		})
	}
}

func TestStorageViewEdgeOrder(t *testing.T) {
	g := New()
	n, a, b := g.AddNode(), g.AddNode(), g.AddNode()
	e1, _ := g.AddEdge(n, a)
	e2, _ := g.AddEdge(n, b)
	e3, _ := g.AddEdge(n, a)

	sg := g.AddSubgraph("view")
	for _, e := range []Edge{e1, e3} {
		if err := sg.AddExistingEdge(e); err != nil {
			t.Fatal(err)
		}
	}
	if err := sg.SetEdgeOrder(n, []Edge{e3, e1}); err != nil {
		t.Fatalf("SetEdgeOrder on view: %v", err)
	}
	if got := g.Incident(n); !slices.Equal(got, []Edge{e3, e2, e1}) {
		t.Errorf("root Incident = %v, want [%v %v %v]", got, e3, e2, e1)
	}
	if got := sg.Incident(n); !slices.Equal(got, []Edge{e3, e1}) {
		t.Errorf("view Incident = %v, want [%v %v]", got, e3, e1)
	}
}

func TestStorageRandomLiveSet(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	g := New()
	live := map[Node]bool{}

	for step := 0; step < 5000; step++ {
		if len(live) == 0 || rng.IntN(3) > 0 {
			live[g.AddNode()] = true
			continue
		}
		nodes := g.Nodes()
		n := nodes[rng.IntN(len(nodes))]
		if err := g.DelNode(n, false); err != nil {
			t.Fatalf("step %d: DelNode(%v): %v", step, n, err)
		}
		delete(live, n)
	}

	nodes := g.Nodes()
	if len(nodes) != len(live) {
		t.Fatalf("NumberOfNodes = %d, live set has %d", len(nodes), len(live))
	}
	for i, n := range nodes {
		if !live[n] {
			t.Errorf("%v enumerated but not live", n)
		}
		if g.NodePos(n) != i {
			t.Errorf("NodePos(%v) = %d, want %d", n, g.NodePos(n), i)
		}
	}
	if got := g.storage().nodes.mgr.Len(); got != len(live) {
		t.Errorf("id manager Len = %d, want %d", got, len(live))
	}
}

func TestStorageIDReuse(t *testing.T) {
	g := New()
	ns := g.AddNodes(10)
	for _, i := range []int{7, 3, 5} {
		if err := g.DelNode(ns[i], false); err != nil {
			t.Fatal(err)
		}
	}
	for _, want := range []uint32{3, 5, 7, 10} {
		if got := g.AddNode(); got.ID != want {
			t.Errorf("AddNode = %v, want id %d", got, want)
		}
	}
}

func TestStorageSwapRemovalOrder(t *testing.T) {
	g := New()
	ns := g.AddNodes(4)
	if err := g.DelNode(ns[1], false); err != nil {
		t.Fatal(err)
	}
	want := []Node{ns[0], ns[3], ns[2]}
	if got := g.Nodes(); !slices.Equal(got, want) {
		t.Errorf("Nodes = %v, want %v", got, want)
	}
}
