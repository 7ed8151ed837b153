// Package server exposes the query engine and facet extractor as a
// read-only JSON API for the rendering layer.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/amishk599/jobfeed/internal/facet"
	"github.com/amishk599/jobfeed/internal/model"
	"github.com/amishk599/jobfeed/internal/query"
)

// FeedLoader is the part of *feed.Loader the API needs.
type FeedLoader interface {
	Load(ctx context.Context, now time.Time) (*model.FeedSnapshot, error)
	Detail(ctx context.Context, id string, now time.Time) (model.Job, error)
}

// Server serves the job API. Facets are computed once per snapshot.
type Server struct {
	loader     FeedLoader
	categories []string
	pageSize   int
	logger     *slog.Logger
	now        func() time.Time

	mu        sync.Mutex
	facetsFor time.Time
	facets    *model.Facets
}

// New creates a Server. pageSize is the default when a request names none.
func New(loader FeedLoader, categories []string, pageSize int, logger *slog.Logger) *Server {
	return &Server{
		loader:     loader,
		categories: categories,
		pageSize:   pageSize,
		logger:     logger,
		now:        time.Now,
	}
}

// Handler returns the routed API.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/jobs", s.handleJobs)
		r.Get("/jobs/{id}", s.handleJob)
		r.Get("/jobs/{id}/similar", s.handleSimilar)
		r.Get("/facets", s.handleFacets)
	})
	return r
}

type jobsResponse struct {
	model.QueryResult
	FetchedAt time.Time `json:"fetched_at"`
}

type facetsResponse struct {
	model.Facets
	FetchedAt time.Time `json:"fetched_at"`
}

type similarResponse struct {
	Items []model.Job `json:"items"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleJobs answers GET /api/jobs.
func (s *Server) handleJobs(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	spec := ParseFilterSpec(r.URL.Query(), s.pageSize)
	writeJSON(w, http.StatusOK, jobsResponse{
		QueryResult: query.Run(snap, spec),
		FetchedAt:   snap.FetchedAt,
	})
}

// handleFacets answers GET /api/facets.
func (s *Server) handleFacets(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, facetsResponse{
		Facets:    s.facetsOf(snap),
		FetchedAt: snap.FetchedAt,
	})
}

// handleJob answers GET /api/jobs/{id} through the uncached detail lookup.
func (s *Server) handleJob(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	job, err := s.loader.Detail(r.Context(), id, s.now())
	if err != nil {
		if errors.Is(err, model.ErrJobNotFound) {
			writeError(w, http.StatusNotFound, "job not found")
			return
		}
		s.logger.Warn("job detail lookup failed", "id", id, "error", err)
		writeError(w, http.StatusBadGateway, "job detail unavailable")
		return
	}
	writeJSON(w, http.StatusOK, job)
}

// handleSimilar answers GET /api/jobs/{id}/similar from the current snapshot.
func (s *Server) handleSimilar(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	job, found := snap.Find(chi.URLParam(r, "id"))
	if !found {
		writeError(w, http.StatusNotFound, "job not found")
		return
	}
	limit := intParam(r.URL.Query(), "limit", query.DefaultSimilarLimit)
	writeJSON(w, http.StatusOK, similarResponse{Items: query.Similar(snap, job, limit)})
}

// snapshot loads the current feed, writing the error response itself when
// there is none.
func (s *Server) snapshot(w http.ResponseWriter, r *http.Request) (*model.FeedSnapshot, bool) {
	snap, err := s.loader.Load(r.Context(), s.now())
	if err != nil {
		if errors.Is(err, model.ErrFeedUnavailable) {
			s.logger.Warn("feed unavailable", "error", err)
			writeError(w, http.StatusServiceUnavailable, "job feed unavailable")
			return nil, false
		}
		s.logger.Error("loading feed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return nil, false
	}
	return snap, true
}

func (s *Server) facetsOf(snap *model.FeedSnapshot) model.Facets {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.facets == nil || !s.facetsFor.Equal(snap.FetchedAt) {
		f := facet.Extract(snap.Jobs, s.categories)
		s.facets = &f
		s.facetsFor = snap.FetchedAt
	}
	return *s.facets
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start).Round(time.Microsecond),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
