package graph

// Event is the closed set of notifications raised by graphs and
// properties. Listeners discriminate with a type switch or [On].
//
// Events whose name ends in -ing are delivered before the change; the
// others after it, except NodeDeleted and EdgeDeleted which are delivered
// while the element is still a member so listeners can read its ends and
// property values.
type Event interface {
	// Sender returns the *Graph or PropertyInterface that raised the event.
	Sender() any
	event()
}

// Observable is implemented by *Graph and every property.
type Observable interface {
	Subscribe(fn func(Event)) (cancel func())
}

// On subscribes fn to the events of type E raised by src.
//
//	cancel := graph.On(g, func(ev graph.NodeAdded) { ... })
func On[E Event](src Observable, fn func(E)) (cancel func()) {
	return src.Subscribe(func(ev Event) {
		if e, ok := ev.(E); ok {
			fn(e)
		}
	})
}

// =============================================================================
// Structure
// =============================================================================

type (
	NodeAdded struct {
		Graph *Graph
		Node  Node
	}
	NodeDeleted struct {
		Graph *Graph
		Node  Node
	}
	EdgeAdded struct {
		Graph *Graph
		Edge  Edge
	}
	EdgeDeleted struct {
		Graph *Graph
		Edge  Edge
	}
	EdgeReversed struct {
		Graph *Graph
		Edge  Edge
	}
	EndsChanging struct {
		Graph    *Graph
		Edge     Edge
		Old, New Ends
	}
	EndsChanged struct {
		Graph *Graph
		Edge  Edge
		Old   Ends
	}
	EdgeOrderChanging struct {
		Graph *Graph
		Node  Node
	}
	EdgeOrderChanged struct {
		Graph *Graph
		Node  Node
	}
)

// =============================================================================
// Hierarchy
// =============================================================================

type (
	SubgraphAdding struct {
		Graph    *Graph
		Subgraph *Graph
	}
	SubgraphAdded struct {
		Graph    *Graph
		Subgraph *Graph
	}
	SubgraphDeleting struct {
		Graph    *Graph
		Subgraph *Graph
	}
	SubgraphDeleted struct {
		Graph    *Graph
		Subgraph *Graph
	}
	// DescendantAdded is raised on every ancestor of a new subgraph,
	// including its direct parent.
	DescendantAdded struct {
		Graph      *Graph
		Descendant *Graph
	}
	DescendantDeleted struct {
		Graph      *Graph
		Descendant *Graph
	}
	GraphDestroyed struct {
		Graph *Graph
	}
)

// =============================================================================
// Properties and attributes
// =============================================================================

type (
	LocalPropertyAdding struct {
		Graph *Graph
		Name  string
	}
	LocalPropertyAdded struct {
		Graph    *Graph
		Name     string
		Property PropertyInterface
	}
	LocalPropertyDeleting struct {
		Graph    *Graph
		Name     string
		Property PropertyInterface
	}
	LocalPropertyDeleted struct {
		Graph    *Graph
		Name     string
		Property PropertyInterface
	}
	InheritedPropertyAdded struct {
		Graph    *Graph
		Name     string
		Property PropertyInterface
	}
	InheritedPropertyDeleted struct {
		Graph    *Graph
		Name     string
		Property PropertyInterface
	}
	PropertyRenaming struct {
		Graph            *Graph
		Property         PropertyInterface
		OldName, NewName string
	}
	PropertyRenamed struct {
		Graph            *Graph
		Property         PropertyInterface
		OldName, NewName string
	}
	AttributeSetting struct {
		Graph *Graph
		Name  string
	}
	AttributeSet struct {
		Graph *Graph
		Name  string
	}
	AttributeRemoved struct {
		Graph *Graph
		Name  string
	}
)

// =============================================================================
// Property values
// =============================================================================

type (
	NodeValueChanging struct {
		Property PropertyInterface
		Node     Node
	}
	NodeValueChanged struct {
		Property PropertyInterface
		Node     Node
	}
	EdgeValueChanging struct {
		Property PropertyInterface
		Edge     Edge
	}
	EdgeValueChanged struct {
		Property PropertyInterface
		Edge     Edge
	}
	AllNodeValuesChanging struct{ Property PropertyInterface }
	AllNodeValuesChanged  struct{ Property PropertyInterface }
	AllEdgeValuesChanging struct{ Property PropertyInterface }
	AllEdgeValuesChanged  struct{ Property PropertyInterface }
)

func (e NodeAdded) Sender() any                { return e.Graph }
func (e NodeDeleted) Sender() any              { return e.Graph }
func (e EdgeAdded) Sender() any                { return e.Graph }
func (e EdgeDeleted) Sender() any              { return e.Graph }
func (e EdgeReversed) Sender() any             { return e.Graph }
func (e EndsChanging) Sender() any             { return e.Graph }
func (e EndsChanged) Sender() any              { return e.Graph }
func (e EdgeOrderChanging) Sender() any        { return e.Graph }
func (e EdgeOrderChanged) Sender() any         { return e.Graph }
func (e SubgraphAdding) Sender() any           { return e.Graph }
func (e SubgraphAdded) Sender() any            { return e.Graph }
func (e SubgraphDeleting) Sender() any         { return e.Graph }
func (e SubgraphDeleted) Sender() any          { return e.Graph }
func (e DescendantAdded) Sender() any          { return e.Graph }
func (e DescendantDeleted) Sender() any        { return e.Graph }
func (e GraphDestroyed) Sender() any           { return e.Graph }
func (e LocalPropertyAdding) Sender() any      { return e.Graph }
func (e LocalPropertyAdded) Sender() any       { return e.Graph }
func (e LocalPropertyDeleting) Sender() any    { return e.Graph }
func (e LocalPropertyDeleted) Sender() any     { return e.Graph }
func (e InheritedPropertyAdded) Sender() any   { return e.Graph }
func (e InheritedPropertyDeleted) Sender() any { return e.Graph }
func (e PropertyRenaming) Sender() any         { return e.Graph }
func (e PropertyRenamed) Sender() any          { return e.Graph }
func (e AttributeSetting) Sender() any         { return e.Graph }
func (e AttributeSet) Sender() any             { return e.Graph }
func (e AttributeRemoved) Sender() any         { return e.Graph }
func (e NodeValueChanging) Sender() any        { return e.Property }
func (e NodeValueChanged) Sender() any         { return e.Property }
func (e EdgeValueChanging) Sender() any        { return e.Property }
func (e EdgeValueChanged) Sender() any         { return e.Property }
func (e AllNodeValuesChanging) Sender() any    { return e.Property }
func (e AllNodeValuesChanged) Sender() any     { return e.Property }
func (e AllEdgeValuesChanging) Sender() any    { return e.Property }
func (e AllEdgeValuesChanged) Sender() any     { return e.Property }

func (NodeAdded) event()                {}
func (NodeDeleted) event()              {}
func (EdgeAdded) event()                {}
func (EdgeDeleted) event()              {}
func (EdgeReversed) event()             {}
func (EndsChanging) event()             {}
func (EndsChanged) event()              {}
func (EdgeOrderChanging) event()        {}
func (EdgeOrderChanged) event()         {}
func (SubgraphAdding) event()           {}
func (SubgraphAdded) event()            {}
func (SubgraphDeleting) event()         {}
func (SubgraphDeleted) event()          {}
func (DescendantAdded) event()          {}
func (DescendantDeleted) event()        {}
func (GraphDestroyed) event()           {}
func (LocalPropertyAdding) event()      {}
func (LocalPropertyAdded) event()       {}
func (LocalPropertyDeleting) event()    {}
func (LocalPropertyDeleted) event()     {}
func (InheritedPropertyAdded) event()   {}
func (InheritedPropertyDeleted) event() {}
func (PropertyRenaming) event()         {}
func (PropertyRenamed) event()          {}
func (AttributeSetting) event()         {}
func (AttributeSet) event()             {}
func (AttributeRemoved) event()         {}
func (NodeValueChanging) event()        {}
func (NodeValueChanged) event()         {}
func (EdgeValueChanging) event()        {}
func (EdgeValueChanged) event()         {}
func (AllNodeValuesChanging) event()    {}
func (AllNodeValuesChanged) event()     {}
func (AllEdgeValuesChanging) event()    {}
func (AllEdgeValuesChanged) event()     {}
