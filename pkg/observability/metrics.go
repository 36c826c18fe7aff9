package observability

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsHooks maintains Prometheus collectors for history and store
// events. Collectors are registered on the registerer given to
// [NewMetricsHooks], never on the global default.
type MetricsHooks struct {
	checkpoints  *prometheus.CounterVec
	depth        prometheus.Gauge
	replay       *prometheus.HistogramVec
	storeOps     *prometheus.CounterVec
	storeLatency *prometheus.HistogramVec
	storeBytes   prometheus.Counter
}

// NewMetricsHooks registers the multigraph collectors on reg.
func NewMetricsHooks(reg prometheus.Registerer) *MetricsHooks {
	f := promauto.With(reg)
	return &MetricsHooks{
		checkpoints: f.NewCounterVec(prometheus.CounterOpts{
			Name: "mgraph_history_operations_total",
			Help: "Checkpoint operations by kind and outcome",
		}, []string{"op", "outcome"}),
		depth: f.NewGauge(prometheus.GaugeOpts{
			Name: "mgraph_history_depth",
			Help: "Number of retained undo checkpoints",
		}),
		replay: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "mgraph_history_replay_seconds",
			Help:    "Time spent replaying a recorded interval",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"op"}),
		storeOps: f.NewCounterVec(prometheus.CounterOpts{
			Name: "mgraph_store_operations_total",
			Help: "Snapshot store operations by backend, kind and outcome",
		}, []string{"backend", "op", "outcome"}),
		storeLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "mgraph_store_latency_seconds",
			Help:    "Snapshot store operation latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"backend", "op"}),
		storeBytes: f.NewCounter(prometheus.CounterOpts{
			Name: "mgraph_store_saved_bytes_total",
			Help: "Bytes written to snapshot stores",
		}),
	}
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func (m *MetricsHooks) OnPush(_ context.Context, depth int, discarded bool) {
	m.checkpoints.WithLabelValues("push", "discarded="+strconv.FormatBool(discarded)).Inc()
	m.depth.Set(float64(depth))
}

func (m *MetricsHooks) OnPop(_ context.Context, depth int, noop bool, d time.Duration, err error) {
	o := outcome(err)
	if err == nil && noop {
		o = "noop"
	}
	m.checkpoints.WithLabelValues("pop", o).Inc()
	m.depth.Set(float64(depth))
	m.replay.WithLabelValues("undo").Observe(d.Seconds())
}

func (m *MetricsHooks) OnUnpop(_ context.Context, depth int, d time.Duration, err error) {
	m.checkpoints.WithLabelValues("unpop", outcome(err)).Inc()
	m.depth.Set(float64(depth))
	m.replay.WithLabelValues("redo").Observe(d.Seconds())
}

func (m *MetricsHooks) OnSave(_ context.Context, backend string, size int, d time.Duration, err error) {
	m.storeOps.WithLabelValues(backend, "save", outcome(err)).Inc()
	m.storeLatency.WithLabelValues(backend, "save").Observe(d.Seconds())
	if err == nil {
		m.storeBytes.Add(float64(size))
	}
}

func (m *MetricsHooks) OnLoad(_ context.Context, backend string, hit bool, d time.Duration, err error) {
	o := outcome(err)
	if err == nil && !hit {
		o = "miss"
	}
	m.storeOps.WithLabelValues(backend, "load", o).Inc()
	m.storeLatency.WithLabelValues(backend, "load").Observe(d.Seconds())
}

func (m *MetricsHooks) OnDelete(_ context.Context, backend string, err error) {
	m.storeOps.WithLabelValues(backend, "delete", outcome(err)).Inc()
}
