package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the instrumentation name used when no tracer is given.
const TracerName = "github.com/matzehuels/multigraph"

// TracingHooks turns history and store events into OpenTelemetry spans.
// Hooks run after the operation, so each span is back-dated by the
// reported duration.
type TracingHooks struct {
	tracer trace.Tracer
}

// NewTracingHooks returns hooks recording spans on t, or on the global
// tracer provider when t is nil.
func NewTracingHooks(t trace.Tracer) *TracingHooks {
	if t == nil {
		t = otel.Tracer(TracerName)
	}
	return &TracingHooks{tracer: t}
}

func (h *TracingHooks) span(ctx context.Context, name string, d time.Duration, err error, attrs ...attribute.KeyValue) {
	end := time.Now()
	_, span := h.tracer.Start(ctx, name,
		trace.WithTimestamp(end.Add(-d)),
		trace.WithAttributes(attrs...),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End(trace.WithTimestamp(end))
}

func (h *TracingHooks) OnPush(ctx context.Context, depth int, discarded bool) {
	h.span(ctx, "graph.Push", 0, nil,
		attribute.Int("depth", depth),
		attribute.Bool("redo_discarded", discarded),
	)
}

func (h *TracingHooks) OnPop(ctx context.Context, depth int, noop bool, d time.Duration, err error) {
	h.span(ctx, "graph.Pop", d, err,
		attribute.Int("depth", depth),
		attribute.Bool("noop", noop),
	)
}

func (h *TracingHooks) OnUnpop(ctx context.Context, depth int, d time.Duration, err error) {
	h.span(ctx, "graph.Unpop", d, err, attribute.Int("depth", depth))
}

func (h *TracingHooks) OnSave(ctx context.Context, backend string, size int, d time.Duration, err error) {
	h.span(ctx, "snapshot.Save", d, err,
		attribute.String("backend", backend),
		attribute.Int("size", size),
	)
}

func (h *TracingHooks) OnLoad(ctx context.Context, backend string, hit bool, d time.Duration, err error) {
	h.span(ctx, "snapshot.Load", d, err,
		attribute.String("backend", backend),
		attribute.Bool("found", hit),
	)
}

func (h *TracingHooks) OnDelete(ctx context.Context, backend string, err error) {
	h.span(ctx, "snapshot.Delete", 0, err, attribute.String("backend", backend))
}
