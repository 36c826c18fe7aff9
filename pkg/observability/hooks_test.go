package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.opentelemetry.io/otel/trace/noop"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	h := NoopHistoryHooks{}
	h.OnPush(ctx, 1, false)
	h.OnPop(ctx, 0, true, time.Millisecond, nil)
	h.OnUnpop(ctx, 1, time.Millisecond, errors.New("boom"))

	s := NoopStoreHooks{}
	s.OnSave(ctx, "file", 1024, time.Millisecond, nil)
	s.OnLoad(ctx, "redis", false, time.Millisecond, nil)
	s.OnDelete(ctx, "mongo", nil)
}

func TestHooksWithDefaults(t *testing.T) {
	h := Hooks{}.WithDefaults()
	if _, ok := h.History.(NoopHistoryHooks); !ok {
		t.Error("History should default to NoopHistoryHooks")
	}
	if _, ok := h.Store.(NoopStoreHooks); !ok {
		t.Error("Store should default to NoopStoreHooks")
	}

	custom := &testHistoryHooks{}
	h = Hooks{History: custom}.WithDefaults()
	if h.History != custom {
		t.Error("WithDefaults should keep custom hooks")
	}
}

func TestMultiFansOut(t *testing.T) {
	ctx := context.Background()
	a, b := &testHistoryHooks{}, &testHistoryHooks{}
	sa := &testStoreHooks{}
	m := Multi{History: []HistoryHooks{a, b}, Store: []StoreHooks{sa}}

	m.OnPush(ctx, 1, false)
	m.OnPop(ctx, 0, false, time.Millisecond, nil)
	m.OnUnpop(ctx, 1, time.Millisecond, nil)
	m.OnSave(ctx, "file", 10, time.Millisecond, nil)
	m.OnLoad(ctx, "file", true, time.Millisecond, nil)
	m.OnDelete(ctx, "file", nil)

	for i, h := range []*testHistoryHooks{a, b} {
		if h.pushes != 1 || h.pops != 1 || h.unpops != 1 {
			t.Errorf("member %d got push=%d pop=%d unpop=%d, want 1 each", i, h.pushes, h.pops, h.unpops)
		}
	}
	if sa.saves != 1 || sa.loads != 1 || sa.deletes != 1 {
		t.Errorf("store member got save=%d load=%d delete=%d, want 1 each", sa.saves, sa.loads, sa.deletes)
	}
}

func TestMetricsHooks(t *testing.T) {
	ctx := context.Background()
	reg := prometheus.NewRegistry()
	m := NewMetricsHooks(reg)

	m.OnPush(ctx, 1, false)
	m.OnPush(ctx, 2, true)
	m.OnPop(ctx, 1, true, time.Millisecond, nil)
	m.OnUnpop(ctx, 2, time.Millisecond, errors.New("no redo"))
	m.OnSave(ctx, "file", 512, time.Millisecond, nil)
	m.OnLoad(ctx, "file", false, time.Millisecond, nil)

	if got := testutil.ToFloat64(m.depth); got != 2 {
		t.Errorf("depth = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.checkpoints.WithLabelValues("pop", "noop")); got != 1 {
		t.Errorf("noop pops = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.checkpoints.WithLabelValues("unpop", "error")); got != 1 {
		t.Errorf("failed unpops = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.storeBytes); got != 512 {
		t.Errorf("saved bytes = %v, want 512", got)
	}
	if got := testutil.ToFloat64(m.storeOps.WithLabelValues("file", "load", "miss")); got != 1 {
		t.Errorf("load misses = %v, want 1", got)
	}
}

func TestTracingHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()
	h := NewTracingHooks(noop.NewTracerProvider().Tracer("test"))
	h.OnPush(ctx, 1, false)
	h.OnPop(ctx, 0, false, time.Millisecond, errors.New("boom"))
	h.OnUnpop(ctx, 1, time.Millisecond, nil)
	h.OnSave(ctx, "badger", 12, time.Millisecond, nil)
	h.OnLoad(ctx, "badger", true, time.Millisecond, nil)
	h.OnDelete(ctx, "badger", nil)

	if NewTracingHooks(nil).tracer == nil {
		t.Error("NewTracingHooks(nil) should fall back to the global tracer")
	}
}

type testHistoryHooks struct{ pushes, pops, unpops int }

func (h *testHistoryHooks) OnPush(context.Context, int, bool) { h.pushes++ }
func (h *testHistoryHooks) OnPop(context.Context, int, bool, time.Duration, error) {
	h.pops++
}
func (h *testHistoryHooks) OnUnpop(context.Context, int, time.Duration, error) { h.unpops++ }

type testStoreHooks struct{ saves, loads, deletes int }

func (h *testStoreHooks) OnSave(context.Context, string, int, time.Duration, error) { h.saves++ }
func (h *testStoreHooks) OnLoad(context.Context, string, bool, time.Duration, error) {
	h.loads++
}
func (h *testStoreHooks) OnDelete(context.Context, string, error) { h.deletes++ }
