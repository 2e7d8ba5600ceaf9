// Package search implements the similarity and keyword search backends on
// Redis FT.SEARCH indexes.
package search

import (
	"context"
	"fmt"
	"math"

	"github.com/juris-cloud/lexidex/internal/db"
	"github.com/juris-cloud/lexidex/internal/domain"
	"github.com/juris-cloud/lexidex/internal/domain/document"
	"github.com/juris-cloud/lexidex/internal/domain/search/query"
)

// Result limit bounds enforced server-side on every backend call.
const (
	minLimit = 1
	maxLimit = 100
)

// store is the consumer interface for search operations (ISP).
type store interface {
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
	SearchText(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error)
}

// Repo implements the similarity and keyword backend contracts of
// usecase/search on a Redis document index.
type Repo struct {
	store     store
	keyPrefix string
}

// New creates a search backend repository.
func New(s store, keyPrefix string) *Repo {
	return &Repo{store: s, keyPrefix: keyPrefix}
}

// SearchBySimilarity runs a KNN search and maps hits to candidates with
// similarity = 1 - distance. The vector is validated before any store call:
// an empty vector or one with non-finite elements is rejected with
// domain.ErrInvalidEmbedding. Hits below threshold are dropped.
func (r *Repo) SearchBySimilarity(
	ctx context.Context, vector []float32,
	filters query.Filters, threshold float64, limit int,
) ([]document.Hit, error) {
	if err := validateVector(vector); err != nil {
		return nil, err
	}
	limit = clampLimit(limit)

	q := &db.KNNQuery{
		IndexName:    r.indexName(),
		Filter:       buildFilter(filters),
		Vector:       vector,
		K:            limit,
		ReturnFields: candidateFields,
	}

	sr, err := r.store.SearchKNN(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("%w: knn: %w", domain.ErrBackendSearch, err)
	}

	hits := make([]document.Hit, 0, len(sr.Entries))
	for i, entry := range sr.Entries {
		similarity := 1 - entry.Score // cosine distance -> similarity
		if similarity < 0 {
			similarity = 0
		}
		if similarity < threshold {
			continue
		}
		hits = append(hits, document.Hit{
			Doc:        parseCandidate(r.docID(entry.Key), entry.Fields),
			Similarity: similarity,
			Rank:       i,
		})
	}
	return hits, nil
}

// SearchByKeywords runs a full-text search over title/summary/body/keyword
// fields. The backend's own ordering is preserved via Hit.Rank.
func (r *Repo) SearchByKeywords(
	ctx context.Context, text string,
	filters query.Filters, limit int,
) ([]document.Hit, error) {
	limit = clampLimit(limit)

	q := &db.TextQuery{
		IndexName:    r.indexName(),
		Query:        text,
		Filter:       buildFilter(filters),
		TopK:         limit,
		ReturnFields: candidateFields,
	}

	sr, err := r.store.SearchText(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("%w: text: %w", domain.ErrBackendSearch, err)
	}

	hits := make([]document.Hit, 0, len(sr.Entries))
	for i, entry := range sr.Entries {
		hits = append(hits, document.Hit{
			Doc:  parseCandidate(r.docID(entry.Key), entry.Fields),
			Rank: i,
		})
	}
	return hits, nil
}

func (r *Repo) indexName() string {
	return r.keyPrefix + "doc-idx"
}

func (r *Repo) docID(key string) string {
	prefix := r.keyPrefix + "doc:"
	if len(key) > len(prefix) && key[:len(prefix)] == prefix {
		return key[len(prefix):]
	}
	return key
}

func clampLimit(limit int) int {
	if limit < minLimit {
		return minLimit
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}

// validateVector rejects empty vectors and vectors with NaN or infinite
// elements before anything reaches the wire.
func validateVector(v []float32) error {
	if len(v) == 0 {
		return fmt.Errorf("%w: empty vector", domain.ErrInvalidEmbedding)
	}
	for i, f := range v {
		f64 := float64(f)
		if math.IsNaN(f64) || math.IsInf(f64, 0) {
			return fmt.Errorf("%w: non-finite element at index %d", domain.ErrInvalidEmbedding, i)
		}
	}
	return nil
}
