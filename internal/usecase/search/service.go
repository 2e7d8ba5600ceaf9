package search

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	domana "github.com/juris-cloud/lexidex/internal/domain/analytics"
	"github.com/juris-cloud/lexidex/internal/domain/document"
	"github.com/juris-cloud/lexidex/internal/domain/search/match"
	"github.com/juris-cloud/lexidex/internal/domain/search/query"
	"github.com/juris-cloud/lexidex/internal/domain/search/result"
	"github.com/juris-cloud/lexidex/internal/domain/telemetry"
	"github.com/juris-cloud/lexidex/internal/metrics"
)

// Search type labels, also used as metric label values.
const (
	TypeSemantic = "semantic"
	TypeHybrid   = "hybrid"
)

// Options holds orchestrator thresholds and per-request defaults.
type Options struct {
	// SemanticThreshold is the minimum similarity for pure semantic search.
	SemanticThreshold float64
	// HybridThreshold is the relaxed similarity floor used before fusion.
	HybridThreshold float64
	// DefaultWeight is the semantic share used when a request omits one.
	DefaultWeight float64
	// DefaultLimit and MaxLimit bound the per-request result count.
	DefaultLimit int
	MaxLimit     int
}

func (o *Options) applyDefaults() {
	if o.SemanticThreshold <= 0 {
		o.SemanticThreshold = query.DefaultSemanticThreshold
	}
	if o.HybridThreshold <= 0 {
		o.HybridThreshold = query.HybridSemanticThreshold
	}
	if o.DefaultWeight <= 0 {
		o.DefaultWeight = query.DefaultSemanticWeight
	}
	if o.DefaultLimit <= 0 {
		o.DefaultLimit = query.DefaultLimit
	}
	if o.MaxLimit <= 0 {
		o.MaxLimit = query.MaxLimit
	}
}

// Response is the caller-visible outcome of one search.
type Response struct {
	Results         []result.Scored
	Total           int
	Query           string
	ExecutionTimeMs int64
	SearchType      string
	SearchQueryID   string
}

// Service orchestrates semantic and hybrid retrieval over the backends and
// records telemetry and analytics for every query, successful or not.
type Service struct {
	similarity SimilarityBackend
	keyword    KeywordBackend
	embed      Embedder
	telemetry  TelemetryRecorder
	analytics  AnalyticsRecorder
	opts       Options
}

// New creates a search service.
func New(
	similarity SimilarityBackend,
	keyword KeywordBackend,
	embed Embedder,
	tel TelemetryRecorder,
	ana AnalyticsRecorder,
	opts Options,
) *Service {
	opts.applyDefaults()
	return &Service{
		similarity: similarity,
		keyword:    keyword,
		embed:      embed,
		telemetry:  tel,
		analytics:  ana,
		opts:       opts,
	}
}

// NewQuery builds a validated query with the service-configured defaults:
// a non-positive limit falls back to Options.DefaultLimit capped at
// Options.MaxLimit, and a negative weight selects Options.DefaultWeight.
func (s *Service) NewQuery(
	text string, filters query.Filters,
	limit int, semanticWeight float64,
	disableKeyword bool, requester query.Requester,
) (query.Query, error) {
	if limit <= 0 {
		limit = s.opts.DefaultLimit
	}
	if limit > s.opts.MaxLimit {
		limit = s.opts.MaxLimit
	}
	if semanticWeight < 0 {
		semanticWeight = s.opts.DefaultWeight
	}
	return query.New(text, filters, limit, semanticWeight, disableKeyword, requester)
}

// Semantic runs pure embedding-based retrieval.
// Embedding and backend failures are surfaced unretried; telemetry and
// analytics record the outcome either way.
func (s *Service) Semantic(ctx context.Context, q *query.Query) (*Response, error) {
	started := time.Now()
	var timings telemetry.Timings

	embStart := time.Now()
	emb, err := s.embed.Embed(ctx, q.Text())
	timings.EmbeddingMs = time.Since(embStart).Milliseconds()
	if err != nil {
		return nil, s.fail(ctx, q, TypeSemantic, timings, started, err)
	}

	searchStart := time.Now()
	hits, err := s.similarity.SearchBySimilarity(
		ctx, emb.Embedding, q.Filters(), s.opts.SemanticThreshold, q.Limit(),
	)
	timings.SearchMs = time.Since(searchStart).Milliseconds()
	if err != nil {
		return nil, s.fail(ctx, q, TypeSemantic, timings, started, err)
	}

	ctxStart := time.Now()
	results := make([]result.Scored, 0, len(hits))
	for _, h := range hits {
		r := result.New(
			h.Doc, h.Similarity, h.Similarity, match.Semantic,
			extractExcerpt(h.Doc.FullText, q.Text()),
		)
		results = append(results, r)
	}
	timings.ContextBuildMs = time.Since(ctxStart).Milliseconds()
	timings.TotalMs = time.Since(started).Milliseconds()

	rec := s.observe(ctx, q, TypeSemantic, results, len(hits), timings)
	return s.respond(q, TypeSemantic, results, timings, rec), nil
}

// Hybrid blends semantic and keyword retrieval with weighted score fusion.
// Both backend calls run in parallel once the vector is available; either
// failing aborts the whole query after the failure is recorded.
func (s *Service) Hybrid(ctx context.Context, q *query.Query) (*Response, error) {
	started := time.Now()
	var timings telemetry.Timings

	embStart := time.Now()
	emb, err := s.embed.Embed(ctx, q.Text())
	timings.EmbeddingMs = time.Since(embStart).Milliseconds()
	if err != nil {
		return nil, s.fail(ctx, q, TypeHybrid, timings, started, err)
	}

	searchStart := time.Now()

	var (
		wg              sync.WaitGroup
		semHits, kwHits []document.Hit
		semErr, kwErr   error
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		semHits, semErr = s.similarity.SearchBySimilarity(
			ctx, emb.Embedding, q.Filters(), s.opts.HybridThreshold, q.Limit(),
		)
	}()

	if !q.DisableKeyword() {
		wg.Add(1)
		go func() {
			defer wg.Done()
			kwHits, kwErr = s.keyword.SearchByKeywords(ctx, q.Text(), q.Filters(), q.Limit())
		}()
	}

	wg.Wait()
	timings.SearchMs = time.Since(searchStart).Milliseconds()

	if semErr != nil {
		return nil, s.fail(ctx, q, TypeHybrid, timings, started, semErr)
	}
	if kwErr != nil {
		return nil, s.fail(ctx, q, TypeHybrid, timings, started, kwErr)
	}

	ctxStart := time.Now()
	results, found := fuseWeighted(q.Text(), semHits, kwHits, q.SemanticWeight(), q.Limit())
	for i, r := range results {
		results[i] = r.WithExcerpt(extractExcerpt(r.Document().FullText, q.Text()))
	}
	timings.ContextBuildMs = time.Since(ctxStart).Milliseconds()
	timings.TotalMs = time.Since(started).Milliseconds()

	rec := s.observe(ctx, q, TypeHybrid, results, found, timings)
	return s.respond(q, TypeHybrid, results, timings, rec), nil
}

func (s *Service) respond(
	q *query.Query, searchType string,
	results []result.Scored, timings telemetry.Timings, rec telemetry.Record,
) *Response {
	return &Response{
		Results:         results,
		Total:           len(results),
		Query:           q.Text(),
		ExecutionTimeMs: timings.TotalMs,
		SearchType:      searchType,
		SearchQueryID:   rec.ID,
	}
}

// observe records telemetry and analytics for a successful query.
func (s *Service) observe(
	ctx context.Context, q *query.Query, searchType string,
	results []result.Scored, found int, timings telemetry.Timings,
) telemetry.Record {
	sources := make([]telemetry.Source, 0, len(results))
	for i := range results {
		r := &results[i]
		sources = append(sources, telemetry.Source{
			DocumentID:    r.ID(),
			Title:         r.Document().Title,
			ChunkIndex:    i,
			Score:         r.Relevance(),
			SnippetLength: len(r.Excerpt()),
		})
	}
	avg, maxScore, minScore := telemetry.ScoreStats(sources)

	rec := &telemetry.Record{
		ID:              uuid.NewString(),
		Query:           q.Text(),
		NormalizedQuery: domana.NormalizeQuery(q.Text()),
		Timings:         timings,
		Context: telemetry.ContextMetrics{
			Found:    found,
			Used:     len(results),
			AvgScore: avg,
			MaxScore: maxScore,
			MinScore: minScore,
		},
		Sources:   sources,
		Success:   true,
		Requester: requester(q),
		Status:    telemetry.Pending,
		CreatedAt: time.Now(),
	}

	final := s.telemetry.Record(ctx, rec)
	s.analytics.RecordQuery(ctx, q.Text(), len(results), timings.TotalMs, q.Requester().UserID)

	metrics.SearchRequestsTotal.WithLabelValues(searchType, "success").Inc()
	observeStages(searchType, timings)
	metrics.SearchResultsReturned.WithLabelValues(searchType).Observe(float64(len(results)))

	return final
}

// fail records a zero-result failed query before handing the error back.
// Recording is best effort: the recorder and analytics never propagate their
// own failures, so the original error is never masked.
func (s *Service) fail(
	ctx context.Context, q *query.Query, searchType string,
	timings telemetry.Timings, started time.Time, err error,
) error {
	timings.TotalMs = time.Since(started).Milliseconds()

	rec := &telemetry.Record{
		ID:              uuid.NewString(),
		Query:           q.Text(),
		NormalizedQuery: domana.NormalizeQuery(q.Text()),
		Timings:         timings,
		Success:         false,
		ErrorMessage:    err.Error(),
		Requester:       requester(q),
		Status:          telemetry.Pending,
		CreatedAt:       time.Now(),
	}
	s.telemetry.Record(ctx, rec)
	s.analytics.RecordQuery(ctx, q.Text(), 0, timings.TotalMs, q.Requester().UserID)

	metrics.SearchRequestsTotal.WithLabelValues(searchType, "error").Inc()
	observeStages(searchType, timings)

	return err
}

func observeStages(searchType string, t telemetry.Timings) {
	obs := metrics.SearchStageDuration
	obs.WithLabelValues(searchType, "embedding").Observe(float64(t.EmbeddingMs) / 1000)
	obs.WithLabelValues(searchType, "backend").Observe(float64(t.SearchMs) / 1000)
	obs.WithLabelValues(searchType, "context").Observe(float64(t.ContextBuildMs) / 1000)
	obs.WithLabelValues(searchType, "total").Observe(float64(t.TotalMs) / 1000)
}

func requester(q *query.Query) telemetry.Requester {
	r := q.Requester()
	return telemetry.Requester{UserID: r.UserID, IP: r.IP, UserAgent: r.UserAgent}
}
