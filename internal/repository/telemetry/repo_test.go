package telemetry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/juris-cloud/lexidex/internal/domain"
	domtel "github.com/juris-cloud/lexidex/internal/domain/telemetry"
)

type mockStore struct {
	lists map[string][]string
	err   error

	lastStart, lastStop int64
}

func newMockStore() *mockStore {
	return &mockStore{lists: make(map[string][]string)}
}

func (m *mockStore) LPush(_ context.Context, key string, values ...string) error {
	if m.err != nil {
		return m.err
	}
	m.lists[key] = append(values, m.lists[key]...)
	return nil
}

func (m *mockStore) LRange(_ context.Context, key string, start, stop int64) ([]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.lastStart, m.lastStop = start, stop

	list := m.lists[key]
	if start >= int64(len(list)) {
		return nil, nil
	}
	if stop >= int64(len(list)) {
		stop = int64(len(list)) - 1
	}
	return list[start : stop+1], nil
}

func (m *mockStore) LLen(_ context.Context, key string) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	return int64(len(m.lists[key])), nil
}

func testRecord(id string) *domtel.Record {
	return &domtel.Record{
		ID:      id,
		Query:   "notice period",
		Success: true,
		Timings: domtel.Timings{TotalMs: 42},
		Context: domtel.ContextMetrics{Found: 3, Used: 2, MaxScore: 0.9},
		Sources: []domtel.Source{
			{DocumentID: "doc-1", Title: "Act A", Score: 0.9, SnippetLength: 120},
		},
		Requester: domtel.Requester{UserID: "user-1", IP: "10.0.0.1"},
		CreatedAt: time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC),
	}
}

func TestRepo_SaveAndRecent(t *testing.T) {
	store := newMockStore()
	repo := New(store, "lexidex:")

	if err := repo.Save(context.Background(), testRecord("rec-1")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := repo.Save(context.Background(), testRecord("rec-2")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(store.lists["lexidex:telemetry:records"]) != 2 {
		t.Fatal("expected records in the prefixed list key")
	}

	records, err := repo.Recent(context.Background(), 0, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	// LPush is newest-first.
	if records[0].ID != "rec-2" {
		t.Errorf("expected newest record first, got %s", records[0].ID)
	}

	got := records[1]
	if got.Query != "notice period" || got.Timings.TotalMs != 42 {
		t.Errorf("record did not round-trip: %+v", got)
	}
	if got.Context.Found != 3 || got.Context.MaxScore != 0.9 {
		t.Errorf("context metrics did not round-trip: %+v", got.Context)
	}
	if len(got.Sources) != 1 || got.Sources[0].DocumentID != "doc-1" {
		t.Errorf("sources did not round-trip: %+v", got.Sources)
	}
	if got.Requester.UserID != "user-1" {
		t.Errorf("requester did not round-trip: %+v", got.Requester)
	}
	if got.Status != domtel.Persisted {
		t.Errorf("loaded records are PERSISTED by definition, got %s", got.Status)
	}
}

func TestRepo_Save_StoreError(t *testing.T) {
	store := newMockStore()
	store.err = errors.New("connection refused")
	repo := New(store, "lexidex:")

	err := repo.Save(context.Background(), testRecord("rec-1"))
	if !errors.Is(err, domain.ErrTelemetryPersist) {
		t.Fatalf("expected ErrTelemetryPersist, got %v", err)
	}
}

func TestRepo_Recent_Pagination(t *testing.T) {
	store := newMockStore()
	repo := New(store, "lexidex:")

	for i := 0; i < 5; i++ {
		if err := repo.Save(context.Background(), testRecord("rec")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	records, err := repo.Recent(context.Background(), 2, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Errorf("expected a 2-record page, got %d", len(records))
	}
	if store.lastStart != 2 || store.lastStop != 3 {
		t.Errorf("expected LRANGE 2..3, got %d..%d", store.lastStart, store.lastStop)
	}

	t.Run("negative offset and zero limit normalized", func(t *testing.T) {
		if _, err := repo.Recent(context.Background(), -1, 0); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if store.lastStart != 0 || store.lastStop != 19 {
			t.Errorf("expected LRANGE 0..19, got %d..%d", store.lastStart, store.lastStop)
		}
	})
}

func TestRepo_Recent_SkipsUndecodableEntries(t *testing.T) {
	store := newMockStore()
	repo := New(store, "lexidex:")

	if err := repo.Save(context.Background(), testRecord("rec-1")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	store.lists["lexidex:telemetry:records"] = append(
		store.lists["lexidex:telemetry:records"], "{not json",
	)

	records, err := repo.Recent(context.Background(), 0, 10)
	if err != nil {
		t.Fatalf("undecodable entries must not fail the page: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("expected the broken entry skipped, got %d records", len(records))
	}
}

func TestRepo_Count(t *testing.T) {
	store := newMockStore()
	repo := New(store, "lexidex:")

	for i := 0; i < 3; i++ {
		if err := repo.Save(context.Background(), testRecord("rec")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	n, err := repo.Count(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 3 {
		t.Errorf("expected count 3, got %d", n)
	}
}
