// Package server exposes the pipeline over HTTP. It serves a small JSON API
// for generating graphs, searching cycle counts, and rendering artifacts,
// plus health and Prometheus metrics endpoints.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/cyclograph/pkg/cache"
	apperrors "github.com/matzehuels/cyclograph/pkg/errors"
	"github.com/matzehuels/cyclograph/pkg/graph"
	"github.com/matzehuels/cyclograph/pkg/pipeline"
)

// Server wraps the pipeline runner behind an HTTP API.
type Server struct {
	runner   *pipeline.Runner
	logger   *log.Logger
	maxNodes int
	server   *http.Server
}

// New creates a server listening on addr. maxNodes bounds the node count
// accepted by the API; 0 disables the bound.
func New(runner *pipeline.Runner, logger *log.Logger, addr string, maxNodes int) *Server {
	s := &Server{
		runner:   runner,
		logger:   logger,
		maxNodes: maxNodes,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/generate", s.handleGenerate)
		r.Post("/search", s.handleSearch)
		r.Post("/render", s.handleRender)
	})

	s.server = &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// ListenAndServe runs the server until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.server.Addr)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.logger.Info("shutting down")
	return s.server.Shutdown(shutdownCtx)
}

// ============================================================================
// Request/response types
// ============================================================================

type generateRequest struct {
	Nodes  int `json:"nodes"`
	Cycles int `json:"cycles"`
}

type generateResponse struct {
	Graph graph.Graph `json:"graph"`
	Hash  string      `json:"hash"`
}

type searchRequest struct {
	Nodes  int   `json:"nodes"`
	Cycles int   `json:"cycles"`
	Target int64 `json:"target"`

	// Graph overrides nodes/cycles when set: the search runs on the
	// submitted edge list instead of a freshly generated graph.
	Graph *graph.Graph `json:"graph,omitempty"`

	Refresh bool `json:"refresh,omitempty"`
}

type searchResponse struct {
	RunID   string `json:"run_id,omitempty"`
	Found   bool   `json:"found"`
	Step    int    `json:"step"`
	Count   int64  `json:"count"`
	Elapsed string `json:"elapsed"`
	Cached  bool   `json:"cached"`
}

type renderRequest struct {
	Nodes   int    `json:"nodes"`
	Cycles  int    `json:"cycles"`
	Format  string `json:"format,omitempty"`
	Engine  string `json:"engine,omitempty"`
	Refresh bool   `json:"refresh,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// ============================================================================
// Handlers
// ============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	m, err := s.runner.Generate(r.Context(), pipeline.Options{
		Nodes:    req.Nodes,
		Cycles:   req.Cycles,
		MaxNodes: s.maxNodes,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	data, err := graph.Marshal(m)
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, generateResponse{
		Graph: graph.FromMatrix(m),
		Hash:  cache.Hash(data),
	})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	opts := pipeline.Options{
		Nodes:    req.Nodes,
		Cycles:   req.Cycles,
		Target:   req.Target,
		MaxNodes: s.maxNodes,
		Refresh:  req.Refresh,
	}

	if req.Graph != nil {
		s.searchSubmitted(w, r, req, opts)
		return
	}

	res, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, searchResponse{
		RunID:   res.RunID,
		Found:   res.Search.Found,
		Step:    res.Search.Step,
		Count:   res.Search.Count,
		Elapsed: res.Search.Elapsed.String(),
		Cached:  res.CacheInfo.SearchHit,
	})
}

// searchSubmitted runs the cycle search on a client-supplied graph.
func (s *Server) searchSubmitted(w http.ResponseWriter, r *http.Request, req searchRequest, opts pipeline.Options) {
	if s.maxNodes > 0 && req.Graph.NodeCount > s.maxNodes {
		s.writeError(w, apperrors.New(apperrors.ErrCodeInvalidInput,
			"graph has %d nodes, server accepts at most %d", req.Graph.NodeCount, s.maxNodes))
		return
	}
	if opts.Target < 0 {
		s.writeError(w, apperrors.New(apperrors.ErrCodeInvalidInput,
			"target cycle count must not be negative, got %d", opts.Target))
		return
	}

	m, err := req.Graph.ToMatrix()
	if err != nil {
		s.writeError(w, err)
		return
	}

	data, err := graph.Marshal(m)
	if err != nil {
		s.writeError(w, err)
		return
	}

	res, cached, err := s.runner.SearchWithCacheInfo(r.Context(), m, cache.Hash(data), opts)
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, searchResponse{
		Found:   res.Found,
		Step:    res.Step,
		Count:   res.Count,
		Elapsed: res.Elapsed.String(),
		Cached:  cached,
	})
}

// handleRender generates the graph and renders it. The search stage is
// skipped entirely: a render request asks for an artifact, not a cycle count,
// and a search near the node ceiling is O(n⁴).
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var req renderRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if req.Format == "" {
		req.Format = pipeline.FormatSVG
	}

	opts := pipeline.Options{
		Nodes:    req.Nodes,
		Cycles:   req.Cycles,
		Formats:  []string{req.Format},
		Engine:   req.Engine,
		MaxNodes: s.maxNodes,
		Refresh:  req.Refresh,
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		s.writeError(w, err)
		return
	}

	m, err := s.runner.Generate(r.Context(), opts)
	if err != nil {
		s.writeError(w, err)
		return
	}

	graphData, err := graph.Marshal(m)
	if err != nil {
		s.writeError(w, err)
		return
	}

	artifacts, _, err := s.runner.RenderWithCacheInfo(r.Context(), m, cache.Hash(graphData), opts)
	if err != nil {
		s.writeError(w, err)
		return
	}

	data, ok := artifacts[req.Format]
	if !ok {
		s.writeError(w, apperrors.New(apperrors.ErrCodeInternal, "artifact %q missing from render result", req.Format))
		return
	}

	w.Header().Set("Content-Type", contentType(req.Format))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// ============================================================================
// Helpers
// ============================================================================

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "invalid request body")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps error codes to HTTP status and emits the JSON envelope.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := apperrors.GetCode(err)

	status := http.StatusInternalServerError
	switch code {
	case apperrors.ErrCodeInvalidInput, apperrors.ErrCodeInvalidSpec,
		apperrors.ErrCodeInvalidGraph, apperrors.ErrCodeInvalidFormat,
		apperrors.ErrCodeInvalidEngine:
		status = http.StatusBadRequest
	case apperrors.ErrCodeNotFound, apperrors.ErrCodeFileNotFound:
		status = http.StatusNotFound
	}

	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	}

	writeJSON(w, status, errorResponse{
		Error: apperrors.UserMessage(err),
		Code:  string(code),
	})
}

func contentType(format string) string {
	switch format {
	case pipeline.FormatSVG:
		return "image/svg+xml"
	case pipeline.FormatPNG:
		return "image/png"
	default:
		return "text/vnd.graphviz"
	}
}
