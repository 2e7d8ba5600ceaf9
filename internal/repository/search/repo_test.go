package search

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/juris-cloud/lexidex/internal/db"
	"github.com/juris-cloud/lexidex/internal/domain"
	"github.com/juris-cloud/lexidex/internal/domain/search/query"
)

type mockStore struct {
	knnResult  *db.SearchResult
	textResult *db.SearchResult
	err        error

	knnCalls  int
	textCalls int
	lastKNN   *db.KNNQuery
	lastText  *db.TextQuery
}

func (m *mockStore) SearchKNN(_ context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
	m.knnCalls++
	m.lastKNN = q
	return m.knnResult, m.err
}

func (m *mockStore) SearchText(_ context.Context, q *db.TextQuery) (*db.SearchResult, error) {
	m.textCalls++
	m.lastText = q
	return m.textResult, m.err
}

func entry(key string, score float64, fields map[string]string) db.SearchEntry {
	return db.SearchEntry{Key: key, Score: score, Fields: fields}
}

func TestRepo_SearchBySimilarity(t *testing.T) {
	store := &mockStore{knnResult: &db.SearchResult{
		Total: 3,
		Entries: []db.SearchEntry{
			entry("lexidex:doc:a", 0.1, map[string]string{"title": "Act A"}),
			entry("lexidex:doc:b", 0.25, map[string]string{"title": "Act B"}),
			entry("lexidex:doc:c", 0.6, map[string]string{"title": "Act C"}),
		},
	}}
	repo := New(store, "lexidex:")

	hits, err := repo.SearchBySimilarity(
		context.Background(), []float32{0.1, 0.2}, query.Filters{}, 0.7, 10,
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 1-0.6=0.4 falls below the 0.7 threshold.
	if len(hits) != 2 {
		t.Fatalf("expected 2 hits above threshold, got %d", len(hits))
	}
	if hits[0].Doc.ID != "a" {
		t.Errorf("expected key prefix stripped, got %q", hits[0].Doc.ID)
	}
	if math.Abs(hits[0].Similarity-0.9) > 1e-9 {
		t.Errorf("expected similarity 0.9, got %f", hits[0].Similarity)
	}
	if hits[1].Rank != 1 {
		t.Errorf("expected backend rank preserved, got %d", hits[1].Rank)
	}
	if store.lastKNN.IndexName != "lexidex:doc-idx" {
		t.Errorf("unexpected index name %q", store.lastKNN.IndexName)
	}
}

func TestRepo_SearchBySimilarity_RejectsInvalidVector(t *testing.T) {
	tests := []struct {
		name   string
		vector []float32
	}{
		{"empty", nil},
		{"nan element", []float32{0.1, float32(math.NaN())}},
		{"infinite element", []float32{float32(math.Inf(1)), 0.2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &mockStore{}
			repo := New(store, "lexidex:")

			_, err := repo.SearchBySimilarity(
				context.Background(), tt.vector, query.Filters{}, 0.7, 10,
			)
			if !errors.Is(err, domain.ErrInvalidEmbedding) {
				t.Fatalf("expected ErrInvalidEmbedding, got %v", err)
			}
			if store.knnCalls != 0 {
				t.Error("store must not be called with an invalid vector")
			}
		})
	}
}

func TestRepo_SearchBySimilarity_ClampsLimit(t *testing.T) {
	store := &mockStore{knnResult: &db.SearchResult{}}
	repo := New(store, "lexidex:")

	tests := []struct {
		limit int
		want  int
	}{
		{0, 1},
		{-5, 1},
		{50, 50},
		{1000, 100},
	}
	for _, tt := range tests {
		_, err := repo.SearchBySimilarity(
			context.Background(), []float32{0.1}, query.Filters{}, 0, tt.limit,
		)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if store.lastKNN.K != tt.want {
			t.Errorf("limit %d: expected K=%d, got %d", tt.limit, tt.want, store.lastKNN.K)
		}
	}
}

func TestRepo_SearchBySimilarity_NegativeSimilarityClampedToZero(t *testing.T) {
	store := &mockStore{knnResult: &db.SearchResult{
		Entries: []db.SearchEntry{entry("lexidex:doc:a", 1.4, nil)},
	}}
	repo := New(store, "lexidex:")

	hits, err := repo.SearchBySimilarity(
		context.Background(), []float32{0.1}, query.Filters{}, 0, 10,
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(hits) != 1 || hits[0].Similarity != 0 {
		t.Errorf("expected similarity clamped to 0, got %+v", hits)
	}
}

func TestRepo_SearchBySimilarity_BackendError(t *testing.T) {
	store := &mockStore{err: errors.New("index missing")}
	repo := New(store, "lexidex:")

	_, err := repo.SearchBySimilarity(
		context.Background(), []float32{0.1}, query.Filters{}, 0.7, 10,
	)
	if !errors.Is(err, domain.ErrBackendSearch) {
		t.Fatalf("expected ErrBackendSearch, got %v", err)
	}
}

func TestRepo_SearchByKeywords(t *testing.T) {
	store := &mockStore{textResult: &db.SearchResult{
		Total: 2,
		Entries: []db.SearchEntry{
			entry("lexidex:doc:a", 5, map[string]string{
				"title":    "Act A",
				"keywords": "termination,notice",
			}),
			entry("lexidex:doc:b", 3, map[string]string{"title": "Act B"}),
		},
	}}
	repo := New(store, "lexidex:")

	hits, err := repo.SearchByKeywords(context.Background(), "termination", query.Filters{}, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("expected 2 hits, got %d", len(hits))
	}
	if hits[0].Rank != 0 || hits[1].Rank != 1 {
		t.Error("expected backend ordering preserved via rank")
	}
	if len(hits[0].Doc.Keywords) != 2 || hits[0].Doc.Keywords[0] != "termination" {
		t.Errorf("expected keywords split, got %+v", hits[0].Doc.Keywords)
	}
	if store.lastText.Query != "termination" {
		t.Errorf("unexpected query text %q", store.lastText.Query)
	}
}

func TestRepo_SearchByKeywords_BackendError(t *testing.T) {
	store := &mockStore{err: errors.New("index missing")}
	repo := New(store, "lexidex:")

	_, err := repo.SearchByKeywords(context.Background(), "termination", query.Filters{}, 10)
	if !errors.Is(err, domain.ErrBackendSearch) {
		t.Fatalf("expected ErrBackendSearch, got %v", err)
	}
}

func TestBuildFilter(t *testing.T) {
	tests := []struct {
		name    string
		filters query.Filters
		want    string
	}{
		{"empty", query.Filters{}, ""},
		{"doc type", query.Filters{DocType: "law"}, "@doc_type:{law}"},
		{
			"all filters",
			query.Filters{DocType: "law", Scope: "federal", OnlyActive: true, OnlyPublished: true},
			"@doc_type:{law} @scope:{federal} @active:{1} @published:{1}",
		},
		{
			"tag value escaped",
			query.Filters{Scope: "new york"},
			`@scope:{new\ york}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := buildFilter(tt.filters); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
