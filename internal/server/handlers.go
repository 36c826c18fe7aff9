package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	errs "github.com/matzehuels/multigraph/pkg/errors"
	"github.com/matzehuels/multigraph/pkg/graph"
	"github.com/matzehuels/multigraph/pkg/graph/algo"
	"github.com/matzehuels/multigraph/pkg/render/dot"
	"github.com/matzehuels/multigraph/pkg/snapshot"
)

// Stats summarizes the served graph.
type Stats struct {
	Name         string `json:"name,omitempty"`
	Nodes        int    `json:"nodes"`
	Edges        int    `json:"edges"`
	Subgraphs    int    `json:"subgraphs"`
	Components   int    `json:"components"`
	Connected    bool   `json:"connected"`
	Simple       bool   `json:"simple"`
	HistoryDepth int    `json:"history_depth"`
	CanUnpop     bool   `json:"can_unpop"`
}

// NodeInfo describes one node.
type NodeInfo struct {
	ID     uint32 `json:"id"`
	Deg    int    `json:"deg"`
	Indeg  int    `json:"indeg"`
	Outdeg int    `json:"outdeg"`
}

// EdgeInfo describes one edge.
type EdgeInfo struct {
	ID     uint32 `json:"id"`
	Source uint32 `json:"source"`
	Target uint32 `json:"target"`
}

// HistoryInfo is returned by push, pop and unpop.
type HistoryInfo struct {
	Depth     int  `json:"depth"`
	CanUnpop  bool `json:"can_unpop"`
	Discarded bool `json:"discarded,omitempty"`
	Noop      bool `json:"noop,omitempty"`
}

// AcyclicInfo reports acyclicity with the obstruction edges.
type AcyclicInfo struct {
	Acyclic      bool     `json:"acyclic"`
	Obstructions []uint32 `json:"obstructions,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.stats())
}

func (s *Server) stats() Stats {
	return Stats{
		Name:         s.g.Name(),
		Nodes:        s.g.NumberOfNodes(),
		Edges:        s.g.NumberOfEdges(),
		Subgraphs:    s.g.NumberOfDescendantGraphs(),
		Components:   s.connected.NumberOfComponents(s.g),
		Connected:    s.connected.IsConnected(s.g),
		Simple:       s.simple.IsSimple(s.g),
		HistoryDepth: s.g.HistoryDepth(),
		CanUnpop:     s.g.CanUnpop(),
	}
}

func (s *Server) handleNodes(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	nodes := s.g.Nodes()
	out := make([]NodeInfo, len(nodes))
	for i, n := range nodes {
		out[i] = NodeInfo{ID: n.ID, Deg: s.g.Deg(n), Indeg: s.g.Indeg(n), Outdeg: s.g.Outdeg(n)}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleEdges(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	edges := s.g.Edges()
	out := make([]EdgeInfo, len(edges))
	for i, e := range edges {
		end := s.g.Ends(e)
		out[i] = EdgeInfo{ID: e.ID, Source: end.Source.ID, Target: end.Target.ID}
	}
	writeJSON(w, http.StatusOK, out)
}

// maxBatch bounds the nodes one request may create.
const maxBatch = 1 << 16

func (s *Server) handleAddNodes(w http.ResponseWriter, r *http.Request) {
	req := struct {
		Count int `json:"count"`
	}{Count: 1}
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Count < 1 {
		writeError(w, errs.New(errs.ErrCodeInvalidInput, "count must be positive, got %d", req.Count))
		return
	}
	if req.Count > maxBatch {
		writeError(w, errs.New(errs.ErrCodeInvalidInput, "count %d exceeds the limit of %d", req.Count, maxBatch))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	nodes := s.g.AddNodes(req.Count)
	ids := make([]uint32, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	writeJSON(w, http.StatusCreated, map[string][]uint32{"nodes": ids})
}

func (s *Server) handleAddEdge(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Source *uint32 `json:"source"`
		Target *uint32 `json:"target"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Source == nil || req.Target == nil {
		writeError(w, errs.New(errs.ErrCodeInvalidInput, "source and target are required"))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	e, err := s.g.AddEdge(graph.Node{ID: *req.Source}, graph.Node{ID: *req.Target})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, EdgeInfo{ID: e.ID, Source: *req.Source, Target: *req.Target})
}

func (s *Server) handleDelNode(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 32)
	if err != nil {
		writeError(w, errs.Wrap(errs.ErrCodeInvalidID, err, "node id"))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.g.DelNode(graph.Node{ID: uint32(id)}, true); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePush(w http.ResponseWriter, r *http.Request) {
	var req struct {
		WithoutUnpop bool `json:"without_unpop"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	var opts []graph.PushOption
	if req.WithoutUnpop {
		opts = append(opts, graph.WithoutUnpop())
	}
	discarded := s.g.Push(opts...)
	writeJSON(w, http.StatusOK, HistoryInfo{Depth: s.g.HistoryDepth(), CanUnpop: s.g.CanUnpop(), Discarded: discarded})
}

func (s *Server) handlePop(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	noop, err := s.g.Pop()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, HistoryInfo{Depth: s.g.HistoryDepth(), CanUnpop: s.g.CanUnpop(), Noop: noop})
}

func (s *Server) handleUnpop(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.g.Unpop(); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, HistoryInfo{Depth: s.g.HistoryDepth(), CanUnpop: s.g.CanUnpop()})
}

func (s *Server) handleAcyclic(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	info := AcyclicInfo{Acyclic: s.acyclic.IsAcyclic(s.g)}
	if !info.Acyclic {
		_, obstructions := algo.AcyclicTest(s.g)
		for _, e := range obstructions {
			info.Obstructions = append(info.Obstructions, e.ID)
		}
	}
	writeJSON(w, http.StatusOK, info)
}

func (s *Server) handleDOT(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := dot.Options{
		Label:    q.Get("label"),
		Color:    q.Get("color"),
		Clusters: q.Get("clusters") == "true",
	}

	s.mu.Lock()
	src, err := dot.ToDOT(s.g, opts)
	s.mu.Unlock()
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/vnd.graphviz")
	_, _ = w.Write([]byte(src))
}

func (s *Server) handleListSnapshots(w http.ResponseWriter, r *http.Request) {
	list, err := s.store.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if list == nil {
		list = []*snapshot.Snapshot{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleSaveSnapshot(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	s.mu.Lock()
	snap, err := snapshot.New(s.g, req.Name)
	s.mu.Unlock()
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.store.Save(r.Context(), snap); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, snap.Summary())
}

// handleRestore replaces the served graph with a stored snapshot.
// Concurrent restores of the same id share one load.
func (s *Server) handleRestore(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, errs.Wrap(errs.ErrCodeInvalidID, err, "snapshot id"))
		return
	}
	v, err, _ := s.loads.Do(id.String(), func() (any, error) {
		return s.store.Load(r.Context(), id)
	})
	if err != nil {
		writeError(w, err)
		return
	}
	snap := v.(*snapshot.Snapshot)
	g, err := snap.Graph(s.graphOpts...)
	if err != nil {
		writeError(w, err)
		return
	}

	s.mu.Lock()
	old := s.g
	s.g = g
	_ = old.Destroy()
	stats := s.stats()
	s.mu.Unlock()
	s.logger.Info("snapshot restored", "id", id, "name", snap.Name)
	writeJSON(w, http.StatusOK, stats)
}
