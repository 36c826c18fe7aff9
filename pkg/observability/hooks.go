// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends to the graph core. Hooks are plain
// interfaces; the graph history and the snapshot stores call them, and the
// application decides which implementation to inject.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Inject implementations through constructor options, never globals
//
// [TracingHooks] records OpenTelemetry spans and [MetricsHooks] maintains
// Prometheus collectors. [Multi] fans one event out to several hooks.
//
// # Usage
//
//	hooks := observability.Hooks{
//	    History: observability.NewMetricsHooks(reg),
//	    Store:   observability.NewTracingHooks(otel.Tracer("mgraph")),
//	}
//	g := graph.New(graph.WithHistoryHooks(hooks.History))
//	st, err := snapshot.Open(ctx, cfg, snapshot.WithHooks(hooks.Store))
package observability

import (
	"context"
	"time"
)

// =============================================================================
// History Hooks
// =============================================================================

// HistoryHooks receives checkpoint events from a root graph.
type HistoryHooks interface {
	// OnPush records a new checkpoint. discarded reports that pending redo
	// history was dropped.
	OnPush(ctx context.Context, depth int, discarded bool)

	// OnPop records an undo. noop reports that the interval had no updates.
	OnPop(ctx context.Context, depth int, noop bool, duration time.Duration, err error)

	// OnUnpop records a redo.
	OnUnpop(ctx context.Context, depth int, duration time.Duration, err error)
}

// =============================================================================
// Store Hooks
// =============================================================================

// StoreHooks receives events from snapshot store operations.
type StoreHooks interface {
	// OnSave records a snapshot write of size bytes.
	OnSave(ctx context.Context, backend string, size int, duration time.Duration, err error)

	// OnLoad records a snapshot read. hit is false when the id was unknown.
	OnLoad(ctx context.Context, backend string, hit bool, duration time.Duration, err error)

	// OnDelete records a snapshot removal.
	OnDelete(ctx context.Context, backend string, err error)
}

// Hooks bundles every hook category. Nil members are replaced by no-ops
// in [Hooks.WithDefaults].
type Hooks struct {
	History HistoryHooks
	Store   StoreHooks
}

// WithDefaults returns h with nil members replaced by no-op hooks.
func (h Hooks) WithDefaults() Hooks {
	if h.History == nil {
		h.History = NoopHistoryHooks{}
	}
	if h.Store == nil {
		h.Store = NoopStoreHooks{}
	}
	return h
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopHistoryHooks is a no-op implementation of HistoryHooks.
type NoopHistoryHooks struct{}

func (NoopHistoryHooks) OnPush(context.Context, int, bool)                       {}
func (NoopHistoryHooks) OnPop(context.Context, int, bool, time.Duration, error) {}
func (NoopHistoryHooks) OnUnpop(context.Context, int, time.Duration, error)     {}

// NoopStoreHooks is a no-op implementation of StoreHooks.
type NoopStoreHooks struct{}

func (NoopStoreHooks) OnSave(context.Context, string, int, time.Duration, error)  {}
func (NoopStoreHooks) OnLoad(context.Context, string, bool, time.Duration, error) {}
func (NoopStoreHooks) OnDelete(context.Context, string, error)                    {}

// =============================================================================
// Fan-out
// =============================================================================

// Multi forwards every event to each of its members in order.
type Multi struct {
	History []HistoryHooks
	Store   []StoreHooks
}

func (m Multi) OnPush(ctx context.Context, depth int, discarded bool) {
	for _, h := range m.History {
		h.OnPush(ctx, depth, discarded)
	}
}

func (m Multi) OnPop(ctx context.Context, depth int, noop bool, d time.Duration, err error) {
	for _, h := range m.History {
		h.OnPop(ctx, depth, noop, d, err)
	}
}

func (m Multi) OnUnpop(ctx context.Context, depth int, d time.Duration, err error) {
	for _, h := range m.History {
		h.OnUnpop(ctx, depth, d, err)
	}
}

func (m Multi) OnSave(ctx context.Context, backend string, size int, d time.Duration, err error) {
	for _, h := range m.Store {
		h.OnSave(ctx, backend, size, d, err)
	}
}

func (m Multi) OnLoad(ctx context.Context, backend string, hit bool, d time.Duration, err error) {
	for _, h := range m.Store {
		h.OnLoad(ctx, backend, hit, d, err)
	}
}

func (m Multi) OnDelete(ctx context.Context, backend string, err error) {
	for _, h := range m.Store {
		h.OnDelete(ctx, backend, err)
	}
}
