package graph

import (
	"maps"
	"slices"
)

// NameAttribute is the attribute holding a graph's name.
const NameAttribute = "name"

// SetAttribute stores a named value on g. Values should be treated as
// immutable once stored; undo keeps references, not copies.
func (g *Graph) SetAttribute(name string, v any) {
	g.changed()
	g.emit(AttributeSetting{Graph: g, Name: name})
	g.attrs[name] = v
	g.emit(AttributeSet{Graph: g, Name: name})
}

// Attribute returns the value stored under name.
func (g *Graph) Attribute(name string) (any, bool) {
	v, ok := g.attrs[name]
	return v, ok
}

// AttributeAs returns the attribute called name when it holds a T.
func AttributeAs[T any](g *Graph, name string) (T, bool) {
	v, ok := g.attrs[name].(T)
	return v, ok
}

// RemoveAttribute deletes name and reports whether it was present.
func (g *Graph) RemoveAttribute(name string) bool {
	if _, ok := g.attrs[name]; !ok {
		return false
	}
	g.changed()
	g.emit(AttributeRemoved{Graph: g, Name: name})
	delete(g.attrs, name)
	return true
}

// AttributeNames returns the attribute names of g in sorted order.
func (g *Graph) AttributeNames() []string {
	return slices.Sorted(maps.Keys(g.attrs))
}

// Name returns the graph name.
func (g *Graph) Name() string {
	s, _ := AttributeAs[string](g, NameAttribute)
	return s
}

// SetName sets the graph name.
func (g *Graph) SetName(name string) { g.SetAttribute(NameAttribute, name) }

// restoreAttribute reinstates a recorded attribute cell during replay.
func (g *Graph) restoreAttribute(name string, c cell) {
	if c.set {
		g.emit(AttributeSetting{Graph: g, Name: name})
		g.attrs[name] = c.value
		g.emit(AttributeSet{Graph: g, Name: name})
		return
	}
	if _, ok := g.attrs[name]; ok {
		g.emit(AttributeRemoved{Graph: g, Name: name})
		delete(g.attrs, name)
	}
}

func (g *Graph) attributeCell(name string) cell {
	v, ok := g.attrs[name]
	return cell{value: v, set: ok}
}
