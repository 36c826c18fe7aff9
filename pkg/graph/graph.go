package graph

import (
	"github.com/charmbracelet/log"

	errs "github.com/matzehuels/multigraph/pkg/errors"
	"github.com/matzehuels/multigraph/pkg/graph/ids"
	"github.com/matzehuels/multigraph/pkg/observability"
	"github.com/matzehuels/multigraph/pkg/observe"
)

// DefaultMaxCheckpoints bounds the undo history of a root graph.
const DefaultMaxCheckpoints = 10

// Graph is a mutable multigraph: either a root, which owns the element
// storage and id space, or a view (subgraph) presenting a subset of its
// supergraph's elements.
//
// Views share ids with their root. An element visible in a view is
// visible in every ancestor up to the root. Graphs are not safe for
// concurrent mutation; callers serialize writers.
type Graph struct {
	id      uint32
	root    *Graph
	super   *Graph
	subs    []*Graph
	members membership
	props   propertyManager
	attrs   map[string]any
	bus     observe.Subject[Event]
	shared  *shared
}

// shared holds the state owned by a root and reachable from every graph
// of its tree.
type shared struct {
	st        *storage
	graphIDs  *ids.Manager
	nextProp  uint32
	hist      history
	opts      options
	replaying bool
	destroyed bool
}

// =============================================================================
// Options
// =============================================================================

type options struct {
	logger         *log.Logger
	defaults       Defaults
	hooks          observability.HistoryHooks
	maxCheckpoints int
}

// Option configures a root graph.
type Option func(*options)

// WithLogger sets the logger used for checkpoint operations.
func WithLogger(l *log.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithDefaults sets the default-value table applied to new properties.
func WithDefaults(d Defaults) Option {
	return func(o *options) { o.defaults = d }
}

// WithHistoryHooks registers instrumentation for push, pop and unpop.
func WithHistoryHooks(h observability.HistoryHooks) Option {
	return func(o *options) {
		if h != nil {
			o.hooks = h
		}
	}
}

// WithMaxCheckpoints bounds the number of retained undo checkpoints.
// Values below 1 keep the default.
func WithMaxCheckpoints(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxCheckpoints = n
		}
	}
}

// =============================================================================
// Construction
// =============================================================================

// New creates an empty root graph.
func New(opts ...Option) *Graph {
	o := options{
		logger:         log.Default(),
		hooks:          observability.NoopHistoryHooks{},
		maxCheckpoints: DefaultMaxCheckpoints,
	}
	for _, opt := range opts {
		opt(&o)
	}

	sh := &shared{st: newStorage(), graphIDs: ids.New(), opts: o}
	g := &Graph{
		shared: sh,
		props:  newPropertyManager(),
		attrs:  make(map[string]any),
	}
	g.id = sh.mustGraphID()
	g.root = g
	g.members = rootMembers{st: sh.st}
	return g
}

func (sh *shared) mustGraphID() uint32 {
	id, err := sh.graphIDs.Get()
	if err != nil {
		panic(err)
	}
	return id
}

// ID returns the graph id, unique within its tree. The root has id 0.
func (g *Graph) ID() uint32 { return g.id }

// Root returns the root of g's tree.
func (g *Graph) Root() *Graph { return g.root }

// Super returns the supergraph of g, or nil for a root.
func (g *Graph) Super() *Graph { return g.super }

// IsRoot reports whether g owns the storage.
func (g *Graph) IsRoot() bool { return g.root == g }

// Depth returns the number of ancestors of g.
func (g *Graph) Depth() int {
	d := 0
	for s := g.super; s != nil; s = s.super {
		d++
	}
	return d
}

// Subscribe registers fn for every event raised by g.
func (g *Graph) Subscribe(fn func(Event)) (cancel func()) {
	return g.bus.Subscribe(fn)
}

// Logger returns the logger configured on the root.
func (g *Graph) Logger() *log.Logger { return g.shared.opts.logger }

// Destroy ends the life of a root graph. Listeners receive GraphDestroyed
// on every graph of the tree, deepest first, and are then dropped.
func (g *Graph) Destroy() error {
	if !g.IsRoot() {
		return errs.New(errs.ErrCodeUnsupported, "only a root graph can be destroyed, use DelSubgraph")
	}
	if g.shared.destroyed {
		return nil
	}
	g.shared.destroyed = true
	g.shared.hist = history{}
	all := g.Descendants()
	for i := len(all) - 1; i >= 0; i-- {
		all[i].emit(GraphDestroyed{Graph: all[i]})
		all[i].bus.Clear()
	}
	g.emit(GraphDestroyed{Graph: g})
	g.bus.Clear()
	return nil
}

func (g *Graph) storage() *storage { return g.shared.st }

func (g *Graph) emit(ev Event) {
	if g.bus.HasListeners() {
		g.bus.Notify(ev)
	}
}

// changed is called on every mutation entry point. Outside replay it
// invalidates pending redo history.
func (g *Graph) changed() {
	sh := g.shared
	if !sh.replaying && len(sh.hist.redo) > 0 {
		sh.hist.discardRedo(g.root)
	}
}

// path returns the graphs from the root's first child down to g.
func (g *Graph) path() []*Graph {
	var p []*Graph
	for v := g; v != nil && !v.IsRoot(); v = v.super {
		p = append(p, v)
	}
	for i, j := 0, len(p)-1; i < j; i, j = i+1, j-1 {
		p[i], p[j] = p[j], p[i]
	}
	return p
}

// nodeError returns a NOT_ELEMENT error for n in g.
func (g *Graph) nodeError(n Node) error {
	return errs.New(errs.ErrCodeNotElement, "%s is not in graph %d", n, g.id)
}

func (g *Graph) edgeError(e Edge) error {
	return errs.New(errs.ErrCodeNotElement, "%s is not in graph %d", e, g.id)
}
