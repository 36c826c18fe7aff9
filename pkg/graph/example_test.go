package graph_test

import (
	"fmt"

	"github.com/matzehuels/multigraph/pkg/graph"
)

func Example() {
	g := graph.New()
	a, b := g.AddNode(), g.AddNode()
	e, _ := g.AddEdge(a, b)
	g.AddEdge(b, b)

	weight, _ := graph.LocalProperty(g, "weight", graph.Double)
	weight.SetEdgeValue(e, 2.5)

	fmt.Println("nodes:", g.NumberOfNodes(), "edges:", g.NumberOfEdges())
	fmt.Println("deg(b):", g.Deg(b))
	fmt.Println("weight:", weight.EdgeString(e))
	// Output:
	// nodes: 2 edges: 2
	// deg(b): 3
	// weight: 2.5
}

func ExampleGraph_Push() {
	g := graph.New()
	g.AddNode()

	g.Push()
	g.AddNodes(3)
	fmt.Println("before pop:", g.NumberOfNodes())

	g.Pop()
	fmt.Println("after pop:", g.NumberOfNodes())

	g.Unpop()
	fmt.Println("after unpop:", g.NumberOfNodes())
	// Output:
	// before pop: 4
	// after pop: 1
	// after unpop: 4
}

func ExampleGraph_AddSubgraph() {
	g := graph.New()
	ns := g.AddNodes(3)

	left := g.AddSubgraph("left")
	left.AddExistingNode(ns[0])
	inner := left.AddSubgraph("inner")
	inner.AddNode()

	fmt.Println(g.NumberOfNodes(), left.NumberOfNodes(), inner.NumberOfNodes())
	for _, d := range g.Descendants() {
		fmt.Println(d.Depth(), d.Name())
	}
	// Output:
	// 4 2 1
	// 1 left
	// 2 inner
}

func ExampleOn() {
	g := graph.New()
	graph.On(g, func(ev graph.NodeAdded) {
		fmt.Println("added", ev.Node)
	})
	g.AddNodes(2)
	// Output:
	// added node(0)
	// added node(1)
}
