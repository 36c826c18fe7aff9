package algo

import (
	"context"
	"math"

	"github.com/matzehuels/multigraph/pkg/graph"
	"github.com/matzehuels/multigraph/pkg/parallel"
)

// Direction selects which incident edges a degree counts.
type Direction int

const (
	InOut Direction = iota
	In
	Out
)

// DegreeMetric writes the degree of every node of g into out. With
// normalize set the degree is divided by the largest possible simple
// degree, 2(n-1) for InOut and n-1 otherwise.
func DegreeMetric(ctx context.Context, pool *parallel.Pool, g *graph.Graph, dir Direction, normalize bool, out *graph.Property[float64]) error {
	nodes := g.Nodes()
	deg := func(n graph.Node) float64 {
		switch dir {
		case In:
			return float64(g.Indeg(n))
		case Out:
			return float64(g.Outdeg(n))
		}
		return float64(g.Deg(n))
	}
	values, err := parallel.Map(ctx, pool, nodes, deg)
	if err != nil {
		return err
	}

	scale := 1.0
	if normalize && len(nodes) > 1 {
		scale = float64(len(nodes) - 1)
		if dir == InOut {
			scale *= 2
		}
	}
	for i, n := range nodes {
		out.SetNodeValue(n, values[i]/scale)
	}
	return nil
}

// Box is an axis-aligned bounding box. An empty box has Min > Max.
type Box struct {
	Min graph.Coord
	Max graph.Coord
}

// EmptyBox returns the identity for Box.Union.
func EmptyBox() Box {
	inf := float32(math.Inf(1))
	return Box{
		Min: graph.Coord{inf, inf, inf},
		Max: graph.Coord{-inf, -inf, -inf},
	}
}

// IsEmpty reports whether b contains no point.
func (b Box) IsEmpty() bool { return b.Min[0] > b.Max[0] }

// Extend returns b grown to contain p.
func (b Box) Extend(p graph.Coord) Box {
	for i := range 3 {
		b.Min[i] = min(b.Min[i], p[i])
		b.Max[i] = max(b.Max[i], p[i])
	}
	return b
}

// Union returns the smallest box containing b and o.
func (b Box) Union(o Box) Box {
	if o.IsEmpty() {
		return b
	}
	return b.Extend(o.Min).Extend(o.Max)
}

// BoundingBox computes the box enclosing the nodes of g, each centered at
// its layout coordinate and extended by half its size, and the bend
// points of its edges. size and bends may be nil.
func BoundingBox(ctx context.Context, pool *parallel.Pool, g *graph.Graph, layout *graph.Property[graph.Coord], size *graph.Property[graph.Size], bends *graph.Property[[]graph.Coord]) (Box, error) {
	nodes := g.Nodes()
	box, err := parallel.Reduce(ctx, pool, nodes, EmptyBox(),
		func(b Box, n graph.Node) Box {
			c := layout.NodeValue(n)
			var half graph.Coord
			if size != nil {
				s := size.NodeValue(n)
				half = graph.Coord{s[0] / 2, s[1] / 2, s[2] / 2}
			}
			return b.
				Extend(graph.Coord{c[0] - half[0], c[1] - half[1], c[2] - half[2]}).
				Extend(graph.Coord{c[0] + half[0], c[1] + half[1], c[2] + half[2]})
		},
		Box.Union)
	if err != nil || bends == nil {
		return box, err
	}

	edges := g.Edges()
	acc := parallel.NewLocked(box)
	err = pool.For(ctx, len(edges), func(ctx context.Context, lo, hi int) error {
		local := EmptyBox()
		for i := lo; i < hi; i++ {
			for _, p := range bends.EdgeValue(edges[i]) {
				local = local.Extend(p)
			}
		}
		acc.Update(func(b Box) Box { return b.Union(local) })
		return ctx.Err()
	})
	if err != nil {
		return Box{}, err
	}
	return acc.Value(), nil
}
