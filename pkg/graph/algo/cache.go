package algo

import (
	"sync"

	"github.com/matzehuels/multigraph/pkg/graph"
)

// resultCache memoizes one value per graph. react decides, for each event
// raised by a cached graph, whether the entry survives and with which
// value.
type resultCache[V any] struct {
	mu      sync.Mutex
	entries map[*graph.Graph]*entry[V]
	compute func(*graph.Graph) V
	react   func(ev graph.Event, cur V) (next V, keep bool)
}

type entry[V any] struct {
	value  V
	cancel func()
}

func newResultCache[V any](compute func(*graph.Graph) V, react func(graph.Event, V) (V, bool)) *resultCache[V] {
	return &resultCache[V]{
		entries: make(map[*graph.Graph]*entry[V]),
		compute: compute,
		react:   react,
	}
}

func (c *resultCache[V]) get(g *graph.Graph) V {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[g]; ok {
		return e.value
	}
	e := &entry[V]{value: c.compute(g)}
	e.cancel = g.Subscribe(func(ev graph.Event) { c.onEvent(g, ev) })
	c.entries[g] = e
	return e.value
}

func (c *resultCache[V]) onEvent(g *graph.Graph, ev graph.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[g]
	if !ok {
		return
	}
	if _, destroyed := ev.(graph.GraphDestroyed); !destroyed {
		if next, keep := c.react(ev, e.value); keep {
			e.value = next
			return
		}
	}
	e.cancel()
	delete(c.entries, g)
}

func (c *resultCache[V]) cached(g *graph.Graph) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[g]
	return ok
}

// Len returns the number of graphs with a cached result.
func (c *resultCache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Reset drops every cached result and its subscription.
func (c *resultCache[V]) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for g, e := range c.entries {
		e.cancel()
		delete(c.entries, g)
	}
}
