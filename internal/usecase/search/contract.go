package search

import (
	"context"

	"github.com/juris-cloud/lexidex/internal/domain"
	"github.com/juris-cloud/lexidex/internal/domain/document"
	"github.com/juris-cloud/lexidex/internal/domain/search/query"
	"github.com/juris-cloud/lexidex/internal/domain/telemetry"
)

// SimilarityBackend runs embedding-based retrieval. Implementations must
// validate the vector (non-empty, finite elements) before any network call
// and return hits ordered by descending similarity.
type SimilarityBackend interface {
	SearchBySimilarity(
		ctx context.Context, vector []float32,
		filters query.Filters, threshold float64, limit int,
	) ([]document.Hit, error)
}

// KeywordBackend runs lexical retrieval over title/summary/body/keyword
// fields, preserving its own ranking via Hit.Rank.
type KeywordBackend interface {
	SearchByKeywords(
		ctx context.Context, text string,
		filters query.Filters, limit int,
	) ([]document.Hit, error)
}

// Embedder vectorizes query text.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// TelemetryRecorder observes one finished query. Record must never fail the
// search path; persistence errors stay behind it.
type TelemetryRecorder interface {
	Record(ctx context.Context, rec *telemetry.Record) telemetry.Record
}

// AnalyticsRecorder appends one query fact. Failures are swallowed inside
// the implementation.
type AnalyticsRecorder interface {
	RecordQuery(ctx context.Context, text string, resultCount int, durationMs int64, userID string)
}
