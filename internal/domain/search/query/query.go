package query

import "fmt"

// Search parameter limits and defaults.
const (
	// MaxQueryLength is the maximum allowed search query length.
	MaxQueryLength = 4096
	DefaultLimit   = 10
	MaxLimit       = 100

	// DefaultSemanticWeight is the semantic share of the hybrid score.
	DefaultSemanticWeight = 0.7
	// DefaultSemanticThreshold is the minimum similarity for pure semantic search.
	DefaultSemanticThreshold = 0.7
	// HybridSemanticThreshold is the relaxed threshold used by hybrid search
	// for broader recall before fusion.
	HybridSemanticThreshold = 0.5
)

// Filters narrows candidate documents on both backends.
type Filters struct {
	DocType       string
	Scope         string
	OnlyActive    bool
	OnlyPublished bool
}

// Requester identifies who issued the query, for telemetry and analytics.
type Requester struct {
	UserID    string
	IP        string
	UserAgent string
}

// Query is a validated, immutable search request.
type Query struct {
	text           string
	filters        Filters
	limit          int
	semanticWeight float64
	disableKeyword bool
	requester      Requester
}

// New validates and normalizes search parameters.
// Defaults: limit=10 (cap 100), semanticWeight=0.7.
// A negative semanticWeight selects the default; keywordWeight is always
// derived as 1-semanticWeight.
func New(
	text string,
	filters Filters,
	limit int,
	semanticWeight float64,
	disableKeyword bool,
	requester Requester,
) (Query, error) {
	if text == "" {
		return Query{}, fmt.Errorf("query text is required")
	}
	if len(text) > MaxQueryLength {
		return Query{}, fmt.Errorf("query too long (max %d chars)", MaxQueryLength)
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if semanticWeight < 0 {
		semanticWeight = DefaultSemanticWeight
	}
	if semanticWeight > 1 {
		return Query{}, fmt.Errorf("semantic weight must be between 0 and 1")
	}

	return Query{
		text:           text,
		filters:        filters,
		limit:          limit,
		semanticWeight: semanticWeight,
		disableKeyword: disableKeyword,
		requester:      requester,
	}, nil
}

// Text returns the raw query text.
func (q *Query) Text() string { return q.text }

// Filters returns the backend filters.
func (q *Query) Filters() Filters { return q.filters }

// Limit returns the maximum results to return.
func (q *Query) Limit() int { return q.limit }

// SemanticWeight returns the semantic share of the hybrid score.
func (q *Query) SemanticWeight() float64 { return q.semanticWeight }

// KeywordWeight returns the keyword share of the hybrid score.
func (q *Query) KeywordWeight() float64 { return 1 - q.semanticWeight }

// DisableKeyword reports whether the keyword backend should be skipped.
func (q *Query) DisableKeyword() bool { return q.disableKeyword }

// Requester returns the caller context.
func (q *Query) Requester() Requester { return q.requester }
