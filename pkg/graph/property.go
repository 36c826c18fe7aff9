package graph

import (
	"maps"
	"slices"

	errs "github.com/matzehuels/multigraph/pkg/errors"
	"github.com/matzehuels/multigraph/pkg/observe"
)

// PropertyInterface is the type-erased view of a [Property]. Values cross
// it as strings (in the kind's format) or as float64 for numeric kinds.
//
// The interface is closed: only this package implements it.
type PropertyInterface interface {
	Observable

	Name() string
	Kind() Kind
	// Graph returns the graph the property is local to.
	Graph() *Graph
	// Handle is a stable integer identifying the property in its tree.
	Handle() uint32

	NodeString(n Node) string
	EdgeString(e Edge) string
	SetNodeString(n Node, s string) error
	SetEdgeString(e Edge, s string) error
	NodeDefaultString() string
	EdgeDefaultString() string
	SetAllNodeString(s string) error
	SetAllEdgeString(s string) error

	// NodeDouble returns the value as float64 when the kind is numeric.
	NodeDouble(n Node) (float64, bool)
	EdgeDouble(e Edge) (float64, bool)

	CompareNodes(a, b Node) int
	CompareEdges(a, b Edge) int

	NonDefaultNodes() []Node
	NonDefaultEdges() []Edge
	HasNodeValue(n Node) bool
	HasEdgeValue(e Edge) bool

	base() *propertyBase
	nodeCell(id uint32) cell
	edgeCell(id uint32) cell
	applyNodeCell(n Node, c cell)
	applyEdgeCell(e Edge, c cell)
	nodeCells() map[uint32]cell
	edgeCells() map[uint32]cell
	defaults() (node, edge any)
	restoreNodeDefault(v any)
	restoreEdgeDefault(v any)
	eraseNode(id uint32)
	eraseEdge(id uint32)
	cloneTo(g *Graph, name string) (PropertyInterface, error)
}

// cell is a recorded override: the value when set, nothing otherwise.
type cell struct {
	value any
	set   bool
}

type propertyBase struct {
	name   string
	handle uint32
	owner  *Graph
	bus    observe.Subject[Event]
}

func (b *propertyBase) Name() string        { return b.name }
func (b *propertyBase) Graph() *Graph       { return b.owner }
func (b *propertyBase) Handle() uint32      { return b.handle }
func (b *propertyBase) base() *propertyBase { return b }

func (b *propertyBase) Subscribe(fn func(Event)) (cancel func()) {
	return b.bus.Subscribe(fn)
}

// Property is a typed attribute of the nodes and edges of one graph.
//
// Every element reads the default until it is given another value. Values
// equal to the current default are not stored, so NonDefaultNodes lists
// exactly the elements whose value differs from the default. Values may be
// set for ids outside the owning graph; they are kept but raise no events.
//
// Slice-valued kinds return stored slices directly; callers must not
// modify them.
type Property[T any] struct {
	propertyBase
	vt       ValueType[T]
	nodeDef  T
	edgeDef  T
	nodeVals map[uint32]T
	edgeVals map[uint32]T
}

var _ PropertyInterface = (*Property[bool])(nil)

func newProperty[T any](g *Graph, name string, vt ValueType[T]) (*Property[T], error) {
	p := &Property[T]{
		propertyBase: propertyBase{name: name, owner: g},
		vt:           vt,
		nodeDef:      vt.Zero(),
		edgeDef:      vt.Zero(),
		nodeVals:     make(map[uint32]T),
		edgeVals:     make(map[uint32]T),
	}
	if d, ok := g.shared.opts.defaults[name]; ok {
		if d.Node != "" {
			v, err := vt.parse(d.Node)
			if err != nil {
				return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "node default for %q", name)
			}
			p.nodeDef = v
		}
		if d.Edge != "" {
			v, err := vt.parse(d.Edge)
			if err != nil {
				return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "edge default for %q", name)
			}
			p.edgeDef = v
		}
	}
	g.shared.nextProp++
	p.handle = g.shared.nextProp
	return p, nil
}

// Kind returns the value kind.
func (p *Property[T]) Kind() Kind { return p.vt.kind }

// Type returns the value type descriptor.
func (p *Property[T]) Type() ValueType[T] { return p.vt }

func (p *Property[T]) watchingNode(n Node) bool {
	return p.bus.HasListeners() && p.owner.HasNode(n)
}

func (p *Property[T]) watchingEdge(e Edge) bool {
	return p.bus.HasListeners() && p.owner.HasEdge(e)
}

// NodeValue returns the value of n.
func (p *Property[T]) NodeValue(n Node) T {
	if v, ok := p.nodeVals[n.ID]; ok {
		return v
	}
	return p.nodeDef
}

// EdgeValue returns the value of e.
func (p *Property[T]) EdgeValue(e Edge) T {
	if v, ok := p.edgeVals[e.ID]; ok {
		return v
	}
	return p.edgeDef
}

// NodeDefault returns the node default.
func (p *Property[T]) NodeDefault() T { return p.nodeDef }

// EdgeDefault returns the edge default.
func (p *Property[T]) EdgeDefault() T { return p.edgeDef }

func (p *Property[T]) storeNode(id uint32, v T) {
	if p.vt.equal(v, p.nodeDef) {
		delete(p.nodeVals, id)
		return
	}
	p.nodeVals[id] = p.vt.clone(v)
}

func (p *Property[T]) storeEdge(id uint32, v T) {
	if p.vt.equal(v, p.edgeDef) {
		delete(p.edgeVals, id)
		return
	}
	p.edgeVals[id] = p.vt.clone(v)
}

// SetNodeValue sets the value of n.
func (p *Property[T]) SetNodeValue(n Node, v T) {
	p.owner.changed()
	notify := p.watchingNode(n)
	if notify {
		p.bus.Notify(NodeValueChanging{Property: p, Node: n})
	}
	p.storeNode(n.ID, v)
	if notify {
		p.bus.Notify(NodeValueChanged{Property: p, Node: n})
	}
}

// SetEdgeValue sets the value of e.
func (p *Property[T]) SetEdgeValue(e Edge, v T) {
	p.owner.changed()
	notify := p.watchingEdge(e)
	if notify {
		p.bus.Notify(EdgeValueChanging{Property: p, Edge: e})
	}
	p.storeEdge(e.ID, v)
	if notify {
		p.bus.Notify(EdgeValueChanged{Property: p, Edge: e})
	}
}

// SetAllNodeValue makes v the node default and drops every node override.
func (p *Property[T]) SetAllNodeValue(v T) {
	p.owner.changed()
	notify := p.bus.HasListeners()
	if notify {
		p.bus.Notify(AllNodeValuesChanging{Property: p})
	}
	p.nodeDef = p.vt.clone(v)
	clear(p.nodeVals)
	if notify {
		p.bus.Notify(AllNodeValuesChanged{Property: p})
	}
}

// SetAllEdgeValue makes v the edge default and drops every edge override.
func (p *Property[T]) SetAllEdgeValue(v T) {
	p.owner.changed()
	notify := p.bus.HasListeners()
	if notify {
		p.bus.Notify(AllEdgeValuesChanging{Property: p})
	}
	p.edgeDef = p.vt.clone(v)
	clear(p.edgeVals)
	if notify {
		p.bus.Notify(AllEdgeValuesChanged{Property: p})
	}
}

// HasNodeValue reports whether n holds a value other than the default.
func (p *Property[T]) HasNodeValue(n Node) bool {
	_, ok := p.nodeVals[n.ID]
	return ok
}

// HasEdgeValue reports whether e holds a value other than the default.
func (p *Property[T]) HasEdgeValue(e Edge) bool {
	_, ok := p.edgeVals[e.ID]
	return ok
}

// EraseNode resets n to the default.
func (p *Property[T]) EraseNode(n Node) { p.SetNodeValue(n, p.nodeDef) }

// EraseEdge resets e to the default.
func (p *Property[T]) EraseEdge(e Edge) { p.SetEdgeValue(e, p.edgeDef) }

// NonDefaultNodes returns the nodes holding a non-default value, in
// ascending id order.
func (p *Property[T]) NonDefaultNodes() []Node {
	keys := slices.Sorted(maps.Keys(p.nodeVals))
	out := make([]Node, len(keys))
	for i, id := range keys {
		out[i] = Node{ID: id}
	}
	return out
}

// NonDefaultEdges returns the edges holding a non-default value, in
// ascending id order.
func (p *Property[T]) NonDefaultEdges() []Edge {
	keys := slices.Sorted(maps.Keys(p.edgeVals))
	out := make([]Edge, len(keys))
	for i, id := range keys {
		out[i] = Edge{ID: id}
	}
	return out
}

// =============================================================================
// Type-erased access
// =============================================================================

func (p *Property[T]) NodeString(n Node) string { return p.vt.format(p.NodeValue(n)) }
func (p *Property[T]) EdgeString(e Edge) string { return p.vt.format(p.EdgeValue(e)) }
func (p *Property[T]) NodeDefaultString() string {
	return p.vt.format(p.nodeDef)
}
func (p *Property[T]) EdgeDefaultString() string {
	return p.vt.format(p.edgeDef)
}

func (p *Property[T]) SetNodeString(n Node, s string) error {
	v, err := p.vt.parse(s)
	if err != nil {
		return err
	}
	p.SetNodeValue(n, v)
	return nil
}

func (p *Property[T]) SetEdgeString(e Edge, s string) error {
	v, err := p.vt.parse(s)
	if err != nil {
		return err
	}
	p.SetEdgeValue(e, v)
	return nil
}

func (p *Property[T]) SetAllNodeString(s string) error {
	v, err := p.vt.parse(s)
	if err != nil {
		return err
	}
	p.SetAllNodeValue(v)
	return nil
}

func (p *Property[T]) SetAllEdgeString(s string) error {
	v, err := p.vt.parse(s)
	if err != nil {
		return err
	}
	p.SetAllEdgeValue(v)
	return nil
}

func (p *Property[T]) NodeDouble(n Node) (float64, bool) { return p.vt.double(p.NodeValue(n)) }
func (p *Property[T]) EdgeDouble(e Edge) (float64, bool) { return p.vt.double(p.EdgeValue(e)) }

func (p *Property[T]) CompareNodes(a, b Node) int {
	return p.vt.compare(p.NodeValue(a), p.NodeValue(b))
}

func (p *Property[T]) CompareEdges(a, b Edge) int {
	return p.vt.compare(p.EdgeValue(a), p.EdgeValue(b))
}

// =============================================================================
// Recorder support
// =============================================================================

func (p *Property[T]) nodeCell(id uint32) cell {
	if v, ok := p.nodeVals[id]; ok {
		return cell{value: v, set: true}
	}
	return cell{}
}

func (p *Property[T]) edgeCell(id uint32) cell {
	if v, ok := p.edgeVals[id]; ok {
		return cell{value: v, set: true}
	}
	return cell{}
}

func (p *Property[T]) nodeCells() map[uint32]cell {
	out := make(map[uint32]cell, len(p.nodeVals))
	for id, v := range p.nodeVals {
		out[id] = cell{value: v, set: true}
	}
	return out
}

func (p *Property[T]) edgeCells() map[uint32]cell {
	out := make(map[uint32]cell, len(p.edgeVals))
	for id, v := range p.edgeVals {
		out[id] = cell{value: v, set: true}
	}
	return out
}

func (p *Property[T]) applyNodeCell(n Node, c cell) {
	notify := p.watchingNode(n)
	if notify {
		p.bus.Notify(NodeValueChanging{Property: p, Node: n})
	}
	if c.set {
		p.nodeVals[n.ID] = c.value.(T)
	} else {
		delete(p.nodeVals, n.ID)
	}
	if notify {
		p.bus.Notify(NodeValueChanged{Property: p, Node: n})
	}
}

func (p *Property[T]) applyEdgeCell(e Edge, c cell) {
	notify := p.watchingEdge(e)
	if notify {
		p.bus.Notify(EdgeValueChanging{Property: p, Edge: e})
	}
	if c.set {
		p.edgeVals[e.ID] = c.value.(T)
	} else {
		delete(p.edgeVals, e.ID)
	}
	if notify {
		p.bus.Notify(EdgeValueChanged{Property: p, Edge: e})
	}
}

func (p *Property[T]) defaults() (node, edge any) { return p.nodeDef, p.edgeDef }

// restoreNodeDefault reinstates a recorded default without touching the
// overrides.
func (p *Property[T]) restoreNodeDefault(v any) {
	notify := p.bus.HasListeners()
	if notify {
		p.bus.Notify(AllNodeValuesChanging{Property: p})
	}
	p.nodeDef = v.(T)
	if notify {
		p.bus.Notify(AllNodeValuesChanged{Property: p})
	}
}

func (p *Property[T]) restoreEdgeDefault(v any) {
	notify := p.bus.HasListeners()
	if notify {
		p.bus.Notify(AllEdgeValuesChanging{Property: p})
	}
	p.edgeDef = v.(T)
	if notify {
		p.bus.Notify(AllEdgeValuesChanged{Property: p})
	}
}

// eraseNode drops the override of a deleted node silently.
func (p *Property[T]) eraseNode(id uint32) { delete(p.nodeVals, id) }
func (p *Property[T]) eraseEdge(id uint32) { delete(p.edgeVals, id) }

// cloneTo creates a local property of the same kind on g holding the
// same defaults and overrides.
func (p *Property[T]) cloneTo(g *Graph, name string) (PropertyInterface, error) {
	c, err := LocalProperty(g, name, p.vt)
	if err != nil {
		return nil, err
	}
	c.SetAllNodeValue(p.nodeDef)
	c.SetAllEdgeValue(p.edgeDef)
	for id, v := range p.nodeVals {
		c.SetNodeValue(Node{ID: id}, v)
	}
	for id, v := range p.edgeVals {
		c.SetEdgeValue(Edge{ID: id}, v)
	}
	return c, nil
}
