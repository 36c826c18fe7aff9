package algo

import (
	"github.com/matzehuels/multigraph/pkg/graph"
)

// SimpleTest reports whether g has neither self-loops nor parallel edges.
// Direction is ignored: a→b and b→a are parallel. For each pair of nodes
// the first edge in g's edge order is kept and the others are returned
// as multi-edges.
func SimpleTest(g *graph.Graph) (simple bool, loops, multi []graph.Edge) {
	walkObstructions(g, func(e graph.Edge, loop bool) bool {
		if loop {
			loops = append(loops, e)
		} else {
			multi = append(multi, e)
		}
		return true
	})
	return len(loops) == 0 && len(multi) == 0, loops, multi
}

func isSimple(g *graph.Graph) bool {
	return walkObstructions(g, func(graph.Edge, bool) bool { return false })
}

type nodePair struct{ lo, hi uint32 }

// walkObstructions calls back for every loop and every repeated pair and
// returns true when there was none. The walk stops when found returns
// false.
func walkObstructions(g *graph.Graph, found func(e graph.Edge, loop bool) bool) bool {
	seen := make(map[nodePair]bool, g.NumberOfEdges())
	clean := true
	for _, e := range g.Edges() {
		end := g.Ends(e)
		if end.IsLoop() {
			clean = false
			if !found(e, true) {
				return false
			}
			continue
		}
		p := nodePair{end.Source.ID, end.Target.ID}
		if p.lo > p.hi {
			p.lo, p.hi = p.hi, p.lo
		}
		if seen[p] {
			clean = false
			if !found(e, false) {
				return false
			}
			continue
		}
		seen[p] = true
	}
	return clean
}

// MakeSimple deletes the loops and multi-edges SimpleTest reports and
// returns them.
func MakeSimple(g *graph.Graph) (removed []graph.Edge, err error) {
	_, loops, multi := SimpleTest(g)
	removed = append(loops, multi...)
	if len(removed) == 0 {
		return nil, nil
	}
	if err := g.DelEdges(removed, false); err != nil {
		return nil, err
	}
	return removed, nil
}

// SimpleCache memoizes the outcome of SimpleTest per graph.
type SimpleCache struct {
	*resultCache[bool]
}

// NewSimpleCache returns an empty cache.
func NewSimpleCache() *SimpleCache {
	return &SimpleCache{newResultCache(isSimple, reactSimple)}
}

// IsSimple returns the cached result for g, computing it on first use.
func (c *SimpleCache) IsSimple(g *graph.Graph) bool { return c.get(g) }

// An added edge cannot remove an obstruction and a deleted one cannot
// create one. Reversal keeps the unordered pair.
func reactSimple(ev graph.Event, simple bool) (bool, bool) {
	switch ev.(type) {
	case graph.EdgeAdded:
		return false, !simple
	case graph.EdgeDeleted:
		return true, simple
	case graph.EndsChanged:
		return simple, false
	}
	return simple, true
}
