package graph

import (
	"maps"
	"slices"
	"strings"

	errs "github.com/matzehuels/multigraph/pkg/errors"
)

// DefaultValues holds the string forms of a property's node and edge
// defaults. Empty strings keep the kind's zero value.
type DefaultValues struct {
	Node string `toml:"node" yaml:"node" json:"node"`
	Edge string `toml:"edge" yaml:"edge" json:"edge"`
}

// Defaults maps property names to the defaults given to new properties
// of that name, whatever graph they are created on.
type Defaults map[string]DefaultValues

// propertyManager holds the properties visible from one graph. inherited
// never contains a name that is also local.
type propertyManager struct {
	local     map[string]PropertyInterface
	inherited map[string]PropertyInterface
}

func newPropertyManager() propertyManager {
	return propertyManager{
		local:     make(map[string]PropertyInterface),
		inherited: make(map[string]PropertyInterface),
	}
}

// LocalProperty returns the property called name that is local to g,
// creating it when absent. An existing property of another kind is a
// PROPERTY_TYPE error.
func LocalProperty[T any](g *Graph, name string, vt ValueType[T]) (*Property[T], error) {
	if p, ok := g.props.local[name]; ok {
		return typed(p, vt)
	}
	if err := errs.ValidateName(name); err != nil {
		return nil, err
	}
	p, err := newProperty(g, name, vt)
	if err != nil {
		return nil, err
	}
	g.addLocalProperty(p)
	return p, nil
}

// GetProperty resolves name through g and its ancestors, creating a
// local property on g when no graph defines it.
func GetProperty[T any](g *Graph, name string, vt ValueType[T]) (*Property[T], error) {
	if p := g.Property(name); p != nil {
		return typed(p, vt)
	}
	return LocalProperty(g, name, vt)
}

func typed[T any](p PropertyInterface, vt ValueType[T]) (*Property[T], error) {
	tp, ok := p.(*Property[T])
	if !ok || tp.vt.kind != vt.kind {
		return nil, errs.New(errs.ErrCodePropertyType, "property %q has kind %s, not %s", p.Name(), p.Kind(), vt.kind)
	}
	return tp, nil
}

// Property returns the property called name visible from g, local first,
// or nil.
func (g *Graph) Property(name string) PropertyInterface {
	if p, ok := g.props.local[name]; ok {
		return p
	}
	return g.props.inherited[name]
}

// ExistProperty reports whether name resolves from g.
func (g *Graph) ExistProperty(name string) bool { return g.Property(name) != nil }

// ExistLocalProperty reports whether name is local to g.
func (g *Graph) ExistLocalProperty(name string) bool {
	_, ok := g.props.local[name]
	return ok
}

// LocalProperties returns the properties local to g sorted by name.
func (g *Graph) LocalProperties() []PropertyInterface { return sortedProps(g.props.local) }

// InheritedProperties returns the properties g sees from its ancestors
// and does not shadow, sorted by name.
func (g *Graph) InheritedProperties() []PropertyInterface {
	return sortedProps(g.props.inherited)
}

// Properties returns every property visible from g sorted by name.
func (g *Graph) Properties() []PropertyInterface { return sortedProps(g.visibleProps()) }

func (g *Graph) visibleProps() map[string]PropertyInterface {
	all := maps.Clone(g.props.inherited)
	maps.Copy(all, g.props.local)
	return all
}

func sortedProps(m map[string]PropertyInterface) []PropertyInterface {
	out := slices.Collect(maps.Values(m))
	slices.SortFunc(out, func(a, b PropertyInterface) int { return strings.Compare(a.Name(), b.Name()) })
	return out
}

// addLocalProperty registers p under its name and makes it visible to
// the subtree.
func (g *Graph) addLocalProperty(p PropertyInterface) {
	name := p.Name()
	g.changed()
	g.emit(LocalPropertyAdding{Graph: g, Name: name})
	delete(g.props.inherited, name)
	g.props.local[name] = p
	g.emit(LocalPropertyAdded{Graph: g, Name: name, Property: p})
	for _, sg := range g.subs {
		sg.setInherited(name, p)
	}
}

// setInherited makes p the inherited definition of name in g and below,
// stopping at graphs defining name locally.
func (g *Graph) setInherited(name string, p PropertyInterface) {
	if _, ok := g.props.local[name]; ok {
		return
	}
	if old, ok := g.props.inherited[name]; ok {
		if old == p {
			return
		}
		g.emit(InheritedPropertyDeleted{Graph: g, Name: name, Property: old})
	}
	g.props.inherited[name] = p
	g.emit(InheritedPropertyAdded{Graph: g, Name: name, Property: p})
	for _, sg := range g.subs {
		sg.setInherited(name, p)
	}
}

func (g *Graph) delInherited(name string) {
	if _, ok := g.props.local[name]; ok {
		return
	}
	old, ok := g.props.inherited[name]
	if !ok {
		return
	}
	delete(g.props.inherited, name)
	g.emit(InheritedPropertyDeleted{Graph: g, Name: name, Property: old})
	for _, sg := range g.subs {
		sg.delInherited(name)
	}
}

// unshadow recomputes what g and its subtree see under name once g no
// longer defines it locally.
func (g *Graph) unshadow(name string) {
	var anc PropertyInterface
	if g.super != nil {
		anc = g.super.Property(name)
	}
	if anc != nil {
		g.props.inherited[name] = anc
		for _, sg := range g.subs {
			sg.setInherited(name, anc)
		}
		return
	}
	for _, sg := range g.subs {
		sg.delInherited(name)
	}
}

// refreshInherited aligns the inherited map of g and its subtree with the
// properties visible from its current supergraph.
func (g *Graph) refreshInherited() {
	want := map[string]PropertyInterface{}
	if g.super != nil {
		want = g.super.visibleProps()
	}
	for name := range g.props.inherited {
		if _, ok := want[name]; !ok {
			g.delInherited(name)
		}
	}
	for name, p := range want {
		g.setInherited(name, p)
	}
	for _, sg := range g.subs {
		sg.refreshInherited()
	}
}

// DelLocalProperty removes the local property called name. Descendants
// fall back to an ancestor definition if there is one. The property
// object keeps its values.
func (g *Graph) DelLocalProperty(name string) error {
	p, ok := g.props.local[name]
	if !ok {
		return errs.New(errs.ErrCodeNotFound, "no local property %q in graph %d", name, g.id)
	}
	g.changed()
	g.emit(LocalPropertyDeleting{Graph: g, Name: name, Property: p})
	delete(g.props.local, name)
	g.unshadow(name)
	g.emit(LocalPropertyDeleted{Graph: g, Name: name, Property: p})
	return nil
}

// RenameLocalProperty gives p, local to g, a new name. The rename fails
// with PROPERTY_EXISTS when newName already resolves from g or is local
// to a descendant.
func (g *Graph) RenameLocalProperty(p PropertyInterface, newName string) error {
	if p == nil || g.props.local[p.Name()] != p {
		return errs.New(errs.ErrCodeNotFound, "property is not local to graph %d", g.id)
	}
	oldName := p.Name()
	if newName == oldName {
		return nil
	}
	if err := errs.ValidateName(newName); err != nil {
		return err
	}
	if g.ExistProperty(newName) {
		return errs.New(errs.ErrCodePropertyExists, "property %q already exists in graph %d", newName, g.id)
	}
	for _, d := range g.Descendants() {
		if d.ExistLocalProperty(newName) {
			return errs.New(errs.ErrCodePropertyExists, "property %q already exists in descendant graph %d", newName, d.id)
		}
	}
	g.renameLocal(p, newName)
	return nil
}

// renameLocal performs a validated rename, also used by replay.
func (g *Graph) renameLocal(p PropertyInterface, newName string) {
	oldName := p.Name()
	g.changed()
	g.emit(PropertyRenaming{Graph: g, Property: p, OldName: oldName, NewName: newName})
	delete(g.props.local, oldName)
	g.unshadow(oldName)
	p.base().name = newName
	delete(g.props.inherited, newName)
	g.props.local[newName] = p
	for _, sg := range g.subs {
		sg.setInherited(newName, p)
	}
	g.emit(PropertyRenamed{Graph: g, Property: p, OldName: oldName, NewName: newName})
}

// eraseNodeValues drops the values of a node leaving g from the
// properties local to g.
func (g *Graph) eraseNodeValues(n Node) {
	for _, p := range g.props.local {
		p.eraseNode(n.ID)
	}
}

func (g *Graph) eraseEdgeValues(e Edge) {
	for _, p := range g.props.local {
		p.eraseEdge(e.ID)
	}
}
