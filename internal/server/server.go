// Package server exposes one in-memory graph over HTTP for inspection and
// scripted editing.
package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/singleflight"

	"github.com/matzehuels/multigraph/pkg/graph"
	"github.com/matzehuels/multigraph/pkg/graph/algo"
	"github.com/matzehuels/multigraph/pkg/snapshot"
)

// Server serves a single root graph. Every handler takes the graph lock,
// so requests are applied one at a time.
type Server struct {
	mu        sync.Mutex
	g         *graph.Graph
	acyclic   *algo.AcyclicCache
	connected *algo.ConnectedCache
	simple    *algo.SimpleCache

	store     snapshot.Store
	loads     singleflight.Group
	graphOpts []graph.Option
	gatherer  prometheus.Gatherer
	logger    *log.Logger
	router    chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithGatherer serves the collectors of g at /metrics.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) { s.gatherer = g }
}

// WithGraphOptions sets the options of graphs restored from snapshots.
func WithGraphOptions(opts ...graph.Option) Option {
	return func(s *Server) { s.graphOpts = opts }
}

// New creates a server over g. A nil store disables persistence.
func New(g *graph.Graph, store snapshot.Store, opts ...Option) *Server {
	if store == nil {
		store = snapshot.NullStore{}
	}
	s := &Server{
		g:         g,
		acyclic:   algo.NewAcyclicCache(),
		connected: algo.NewConnectedCache(),
		simple:    algo.NewSimpleCache(),
		store:     store,
		gatherer:  prometheus.NewRegistry(),
		logger:    log.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	r.Route("/graph", func(r chi.Router) {
		r.Get("/", s.handleStats)
		r.Get("/nodes", s.handleNodes)
		r.Post("/nodes", s.handleAddNodes)
		r.Delete("/nodes/{id}", s.handleDelNode)
		r.Get("/edges", s.handleEdges)
		r.Post("/edges", s.handleAddEdge)
		r.Post("/push", s.handlePush)
		r.Post("/pop", s.handlePop)
		r.Post("/unpop", s.handleUnpop)
		r.Get("/acyclic", s.handleAcyclic)
		r.Get("/dot", s.handleDOT)
	})

	r.Route("/snapshots", func(r chi.Router) {
		r.Get("/", s.handleListSnapshots)
		r.Post("/", s.handleSaveSnapshot)
		r.Post("/{id}/restore", s.handleRestore)
	})
	return r
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Graph returns the graph currently served.
func (s *Server) Graph() *graph.Graph {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.g
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"took", time.Since(start),
			"id", middleware.GetReqID(r.Context()))
	})
}
