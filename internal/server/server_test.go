package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/multigraph/pkg/graph"
	"github.com/matzehuels/multigraph/pkg/observability"
	"github.com/matzehuels/multigraph/pkg/snapshot"
)

type harness struct {
	t   *testing.T
	srv *Server
	ts  *httptest.Server
}

func newHarness(t *testing.T, opts ...Option) *harness {
	t.Helper()
	st, err := snapshot.NewFileStore(t.TempDir(), 0)
	require.NoError(t, err)
	srv := New(graph.New(), st, opts...)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return &harness{t: t, srv: srv, ts: ts}
}

func (h *harness) do(method, path, body string, out any) int {
	h.t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, h.ts.URL+path, r)
	require.NoError(h.t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(h.t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(h.t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestHealth(t *testing.T) {
	h := newHarness(t)
	var body map[string]string
	assert.Equal(t, http.StatusOK, h.do("GET", "/healthz", "", &body))
	assert.Equal(t, "ok", body["status"])
}

func TestEditAndQuery(t *testing.T) {
	h := newHarness(t)

	var created map[string][]uint32
	require.Equal(t, http.StatusCreated, h.do("POST", "/graph/nodes", `{"count": 3}`, &created))
	assert.Equal(t, []uint32{0, 1, 2}, created["nodes"])
	require.Equal(t, http.StatusCreated, h.do("POST", "/graph/nodes", "", &created))
	assert.Equal(t, []uint32{3}, created["nodes"])

	var e EdgeInfo
	require.Equal(t, http.StatusCreated, h.do("POST", "/graph/edges", `{"source": 0, "target": 1}`, &e))
	assert.Equal(t, EdgeInfo{ID: 0, Source: 0, Target: 1}, e)
	require.Equal(t, http.StatusCreated, h.do("POST", "/graph/edges", `{"source": 1, "target": 1}`, &e))

	var nodes []NodeInfo
	require.Equal(t, http.StatusOK, h.do("GET", "/graph/nodes", "", &nodes))
	require.Len(t, nodes, 4)
	assert.Equal(t, NodeInfo{ID: 1, Deg: 3, Indeg: 2, Outdeg: 1}, nodes[1])

	var edges []EdgeInfo
	require.Equal(t, http.StatusOK, h.do("GET", "/graph/edges", "", &edges))
	assert.Len(t, edges, 2)

	var stats Stats
	require.Equal(t, http.StatusOK, h.do("GET", "/graph", "", &stats))
	assert.Equal(t, 4, stats.Nodes)
	assert.Equal(t, 2, stats.Edges)
	assert.Equal(t, 3, stats.Components)
	assert.False(t, stats.Connected)
	assert.False(t, stats.Simple)

	assert.Equal(t, http.StatusNoContent, h.do("DELETE", "/graph/nodes/1", "", nil))
	require.Equal(t, http.StatusOK, h.do("GET", "/graph", "", &stats))
	assert.Equal(t, 3, stats.Nodes)
	assert.Equal(t, 0, stats.Edges)
	assert.True(t, stats.Simple)
}

func TestErrors(t *testing.T) {
	h := newHarness(t)
	h.do("POST", "/graph/nodes", `{"count": 1}`, nil)

	tests := []struct {
		method, path, body string
		status             int
		code               string
	}{
		{"POST", "/graph/edges", `{"source": 0, "target": 9}`, http.StatusNotFound, "NOT_ELEMENT"},
		{"POST", "/graph/edges", `{"source": 0}`, http.StatusBadRequest, "INVALID_INPUT"},
		{"POST", "/graph/edges", `{`, http.StatusBadRequest, "INVALID_INPUT"},
		{"POST", "/graph/nodes", `{"count": 0}`, http.StatusBadRequest, "INVALID_INPUT"},
		{"POST", "/graph/nodes", `{"count": 100000}`, http.StatusBadRequest, "INVALID_INPUT"},
		{"DELETE", "/graph/nodes/x", "", http.StatusBadRequest, "INVALID_ID"},
		{"DELETE", "/graph/nodes/7", "", http.StatusNotFound, "NOT_ELEMENT"},
		{"POST", "/graph/pop", "", http.StatusConflict, "NO_CHECKPOINT"},
		{"POST", "/graph/unpop", "", http.StatusConflict, "NO_REDO"},
		{"POST", "/snapshots", `{"name": "../x"}`, http.StatusBadRequest, "INVALID_INPUT"},
		{"POST", "/snapshots/not-a-uuid/restore", "", http.StatusBadRequest, "INVALID_ID"},
		{"POST", "/snapshots/4b3c1f0e-7d55-4a36-9a8e-2f1f1f1f1f1f/restore", "", http.StatusNotFound, "NOT_FOUND"},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			var body errorBody
			assert.Equal(t, tt.status, h.do(tt.method, tt.path, tt.body, &body))
			assert.Equal(t, tt.code, string(body.Code))
		})
	}
}

func TestHistory(t *testing.T) {
	h := newHarness(t)
	var info HistoryInfo
	require.Equal(t, http.StatusOK, h.do("POST", "/graph/push", "", &info))
	assert.Equal(t, 1, info.Depth)
	h.do("POST", "/graph/nodes", `{"count": 2}`, nil)

	require.Equal(t, http.StatusOK, h.do("POST", "/graph/pop", "", &info))
	assert.False(t, info.Noop)
	assert.True(t, info.CanUnpop)
	assert.Equal(t, 0, h.srv.Graph().NumberOfNodes())

	require.Equal(t, http.StatusOK, h.do("POST", "/graph/unpop", "", &info))
	assert.Equal(t, 2, h.srv.Graph().NumberOfNodes())

	require.Equal(t, http.StatusOK, h.do("POST", "/graph/push", `{"without_unpop": true}`, &info))
	h.do("POST", "/graph/nodes", "", nil)
	require.Equal(t, http.StatusOK, h.do("POST", "/graph/pop", "", &info))
	assert.False(t, info.CanUnpop)
}

func TestAcyclic(t *testing.T) {
	h := newHarness(t)
	h.do("POST", "/graph/nodes", `{"count": 2}`, nil)
	h.do("POST", "/graph/edges", `{"source": 0, "target": 1}`, nil)

	var info AcyclicInfo
	require.Equal(t, http.StatusOK, h.do("GET", "/graph/acyclic", "", &info))
	assert.True(t, info.Acyclic)

	h.do("POST", "/graph/edges", `{"source": 1, "target": 0}`, nil)
	require.Equal(t, http.StatusOK, h.do("GET", "/graph/acyclic", "", &info))
	assert.False(t, info.Acyclic)
	assert.Len(t, info.Obstructions, 1)
}

func TestDOT(t *testing.T) {
	h := newHarness(t)
	h.do("POST", "/graph/nodes", `{"count": 2}`, nil)
	h.do("POST", "/graph/edges", `{"source": 0, "target": 1}`, nil)

	resp, err := http.Get(h.ts.URL + "/graph/dot?clusters=true")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "text/vnd.graphviz", resp.Header.Get("Content-Type"))
	assert.Contains(t, string(body), "0 -> 1;")
}

func TestSnapshotRestore(t *testing.T) {
	h := newHarness(t)
	h.do("POST", "/graph/nodes", `{"count": 3}`, nil)
	h.do("POST", "/graph/edges", `{"source": 0, "target": 2}`, nil)

	var snap snapshot.Snapshot
	require.Equal(t, http.StatusCreated, h.do("POST", "/snapshots", `{"name": "three"}`, &snap))
	assert.Equal(t, "three", snap.Name)
	assert.Empty(t, snap.Data)

	var list []snapshot.Snapshot
	require.Equal(t, http.StatusOK, h.do("GET", "/snapshots", "", &list))
	require.Len(t, list, 1)

	h.do("DELETE", "/graph/nodes/0", "", nil)
	before := h.srv.Graph()

	var wg sync.WaitGroup
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var stats Stats
			assert.Equal(t, http.StatusOK, h.do("POST", "/snapshots/"+snap.ID.String()+"/restore", "", &stats))
			assert.Equal(t, 3, stats.Nodes)
			assert.Equal(t, 1, stats.Edges)
		}()
	}
	wg.Wait()
	assert.NotSame(t, before, h.srv.Graph())
	assert.Equal(t, 3, h.srv.Graph().NumberOfNodes())
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	hooks := observability.NewMetricsHooks(reg)
	h := newHarness(t, WithGatherer(reg))
	h.srv.g = graph.New(graph.WithHistoryHooks(hooks))

	h.do("POST", "/graph/push", "", nil)
	h.do("POST", "/graph/nodes", "", nil)
	h.do("POST", "/graph/pop", "", nil)

	resp, err := http.Get(h.ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "mgraph_history_operations_total")
}
