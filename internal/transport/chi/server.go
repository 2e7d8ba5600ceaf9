// Package chi is the thin HTTP controller over the search, telemetry, and
// analytics usecases.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/juris-cloud/lexidex/internal/domain"
	domana "github.com/juris-cloud/lexidex/internal/domain/analytics"
	"github.com/juris-cloud/lexidex/internal/domain/search/query"
	"github.com/juris-cloud/lexidex/internal/logger"
	"github.com/juris-cloud/lexidex/internal/metrics"
	analyticsuc "github.com/juris-cloud/lexidex/internal/usecase/analytics"
	searchuc "github.com/juris-cloud/lexidex/internal/usecase/search"
	telemetryuc "github.com/juris-cloud/lexidex/internal/usecase/telemetry"
)

// timeNow is swappable in tests.
var timeNow = time.Now

// Server exposes the retrieval pipeline over HTTP.
type Server struct {
	search    *searchuc.Service
	telemetry *telemetryuc.Recorder
	analytics *analyticsuc.Service
	logger    *zap.Logger
}

// NewServer creates the HTTP API server.
func NewServer(
	search *searchuc.Service,
	telemetry *telemetryuc.Recorder,
	analytics *analyticsuc.Service,
	log *zap.Logger,
) *Server {
	return &Server{search: search, telemetry: telemetry, analytics: analytics, logger: log}
}

// Router wires all routes with logging, recovery, and metrics middleware.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.Recoverer)
	r.Use(metrics.Middleware())
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(logger.ContextWithLogger(req.Context(), s.logger)))
		})
	})

	r.Get("/health", s.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Post("/search", s.SemanticSearch)
		r.Post("/search/hybrid", s.HybridSearch)
		r.Post("/documents/{id}/view", s.RecordView)
		r.Get("/analytics/top-queries", s.TopQueries)
		r.Get("/analytics/zero-result-queries", s.ZeroResultQueries)
		r.Get("/analytics/top-documents", s.TopDocuments)
		r.Get("/telemetry/recent", s.RecentTelemetry)
	})

	return r
}

// Health handles GET /health.
func (s *Server) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// SemanticSearch handles POST /v1/search.
func (s *Server) SemanticSearch(w http.ResponseWriter, r *http.Request) {
	q, ok := s.parseQuery(w, r)
	if !ok {
		return
	}
	resp, err := s.search.Semantic(r.Context(), q)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSearchResponse(resp))
}

// HybridSearch handles POST /v1/search/hybrid.
func (s *Server) HybridSearch(w http.ResponseWriter, r *http.Request) {
	q, ok := s.parseQuery(w, r)
	if !ok {
		return
	}
	resp, err := s.search.Hybrid(r.Context(), q)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSearchResponse(resp))
}

// RecordView handles POST /v1/documents/{id}/view. Always succeeds from the
// caller's perspective: recording is fire-and-forget.
func (s *Server) RecordView(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "bad_request", "document id is required")
		return
	}
	s.analytics.RecordView(
		r.Context(), id,
		r.Header.Get("X-User-ID"), clientIP(r), r.UserAgent(),
	)
	w.WriteHeader(http.StatusAccepted)
}

// TopQueries handles GET /v1/analytics/top-queries.
func (s *Server) TopQueries(w http.ResponseWriter, r *http.Request) {
	dr, limit, ok := s.parseReportParams(w, r)
	if !ok {
		return
	}
	stats := s.analytics.TopQueries(r.Context(), dr, limit)
	writeJSON(w, http.StatusOK, toQueryStatResponses(stats))
}

// ZeroResultQueries handles GET /v1/analytics/zero-result-queries.
func (s *Server) ZeroResultQueries(w http.ResponseWriter, r *http.Request) {
	dr, limit, ok := s.parseReportParams(w, r)
	if !ok {
		return
	}
	stats := s.analytics.ZeroResultQueries(r.Context(), dr, limit)
	writeJSON(w, http.StatusOK, toQueryStatResponses(stats))
}

// TopDocuments handles GET /v1/analytics/top-documents.
func (s *Server) TopDocuments(w http.ResponseWriter, r *http.Request) {
	dr, limit, ok := s.parseReportParams(w, r)
	if !ok {
		return
	}
	stats := s.analytics.TopViewedDocuments(r.Context(), dr, limit)
	writeJSON(w, http.StatusOK, toDocumentStatResponses(stats))
}

// RecentTelemetry handles GET /v1/telemetry/recent.
func (s *Server) RecentTelemetry(w http.ResponseWriter, r *http.Request) {
	offset := intParam(r, "offset", 0)
	limit := intParam(r, "limit", 20)

	records, err := s.telemetry.Recent(r.Context(), offset, limit)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

// --- Helpers ---

func (s *Server) parseQuery(w http.ResponseWriter, r *http.Request) (*query.Query, bool) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid request body: "+err.Error())
		return nil, false
	}

	weight := -1.0 // NewQuery substitutes the configured default
	if req.SemanticWeight != nil {
		weight = *req.SemanticWeight
	}

	q, err := s.search.NewQuery(
		req.Query,
		query.Filters{
			DocType:       req.Filters.DocType,
			Scope:         req.Filters.Scope,
			OnlyActive:    req.Filters.OnlyActive,
			OnlyPublished: req.Filters.OnlyPublished,
		},
		req.Limit,
		weight,
		req.DisableKeyword,
		query.Requester{
			UserID:    r.Header.Get("X-User-ID"),
			IP:        clientIP(r),
			UserAgent: r.UserAgent(),
		},
	)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return nil, false
	}
	return &q, true
}

func (s *Server) parseReportParams(
	w http.ResponseWriter, r *http.Request,
) (domana.DateRange, int, bool) {
	q := r.URL.Query()

	if days := q.Get("days"); days != "" {
		n, err := strconv.Atoi(days)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", "days must be a positive integer")
			return domana.DateRange{}, 0, false
		}
		return domana.LastDays(n, timeNow()), intParam(r, "limit", 0), true
	}

	dr, err := domana.ParseDateRange(q.Get("start"), q.Get("end"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return domana.DateRange{}, 0, false
	}
	return dr, intParam(r, "limit", 0), true
}

func (s *Server) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidEmbedding):
		writeError(w, http.StatusBadRequest, "invalid_embedding", err.Error())
	case errors.Is(err, domain.ErrEmbedding):
		writeError(w, http.StatusBadGateway, "embedding_failed", err.Error())
	case errors.Is(err, domain.ErrBackendSearch):
		writeError(w, http.StatusBadGateway, "backend_search_failed", err.Error())
	case errors.Is(err, domain.ErrDocumentNotFound):
		writeError(w, http.StatusNotFound, "document_not_found", err.Error())
	default:
		s.logger.Error("unhandled error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal", "internal server error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

func intParam(r *http.Request, name string, def int) int {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return fwd
	}
	return r.RemoteAddr
}
