package analytics

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/juris-cloud/lexidex/internal/domain"
	domana "github.com/juris-cloud/lexidex/internal/domain/analytics"
	domdoc "github.com/juris-cloud/lexidex/internal/domain/document"
)

type mockRepo struct {
	queries  []domana.QueryLog
	views    []domana.DocumentView
	logErr   error
	rangeErr error

	lastRange domana.DateRange
}

func (m *mockRepo) LogQuery(_ context.Context, entry *domana.QueryLog) error {
	if m.logErr != nil {
		return m.logErr
	}
	m.queries = append(m.queries, *entry)
	return nil
}

func (m *mockRepo) LogView(_ context.Context, entry *domana.DocumentView) error {
	if m.logErr != nil {
		return m.logErr
	}
	m.views = append(m.views, *entry)
	return nil
}

func (m *mockRepo) QueriesInRange(_ context.Context, dr domana.DateRange) ([]domana.QueryLog, error) {
	m.lastRange = dr
	return m.queries, m.rangeErr
}

func (m *mockRepo) ViewsInRange(_ context.Context, dr domana.DateRange) ([]domana.DocumentView, error) {
	m.lastRange = dr
	return m.views, m.rangeErr
}

type mockDocs struct {
	metas map[string]domdoc.Meta
	err   error
}

func (m *mockDocs) GetMeta(_ context.Context, id string) (domdoc.Meta, error) {
	if m.err != nil {
		return domdoc.Meta{}, m.err
	}
	meta, ok := m.metas[id]
	if !ok {
		return domdoc.Meta{}, domain.ErrDocumentNotFound
	}
	return meta, nil
}

type syncPool struct {
	submitErr error
}

func (p *syncPool) Submit(task func()) error {
	if p.submitErr != nil {
		return p.submitErr
	}
	task()
	return nil
}

func newService(repo *mockRepo, docs *mockDocs) *Service {
	if docs == nil {
		docs = &mockDocs{}
	}
	svc := New(repo, docs, &syncPool{}, zap.NewNop())
	svc.now = func() time.Time {
		return time.Date(2026, 9, 1, 12, 0, 0, 0, time.Local)
	}
	return svc
}

func at(day, hour int) time.Time {
	return time.Date(2026, 8, day, hour, 0, 0, 0, time.Local)
}

func TestService_RecordQuery(t *testing.T) {
	repo := &mockRepo{}
	svc := newService(repo, nil)

	svc.RecordQuery(context.Background(), "notice period", 3, 120, "user-1")

	if len(repo.queries) != 1 {
		t.Fatalf("expected 1 fact, got %d", len(repo.queries))
	}
	got := repo.queries[0]
	if got.Query != "notice period" || got.ResultCount != 3 || !got.HasResults {
		t.Errorf("unexpected fact: %+v", got)
	}
	if got.ID == "" {
		t.Error("expected a generated id")
	}
}

func TestService_RecordQuery_TruncatesLongText(t *testing.T) {
	repo := &mockRepo{}
	svc := newService(repo, nil)

	svc.RecordQuery(context.Background(), strings.Repeat("x", 600), 0, 10, "")

	if len(repo.queries[0].Query) != domana.MaxStoredQueryLength {
		t.Errorf("expected truncation to %d characters, got %d",
			domana.MaxStoredQueryLength, len(repo.queries[0].Query))
	}
	if repo.queries[0].HasResults {
		t.Error("zero results must record hasResults=false")
	}
}

func TestService_RecordQuery_FailureSwallowed(t *testing.T) {
	repo := &mockRepo{logErr: errors.New("connection refused")}
	svc := newService(repo, nil)

	// Must not panic; analytics never propagates.
	svc.RecordQuery(context.Background(), "notice period", 3, 120, "user-1")
}

func TestService_RecordView(t *testing.T) {
	repo := &mockRepo{}
	svc := newService(repo, nil)

	svc.RecordView(context.Background(), "doc-1", "user-1", "10.0.0.1", "agent")

	if len(repo.views) != 1 {
		t.Fatalf("expected 1 view fact, got %d", len(repo.views))
	}
	if repo.views[0].DocumentID != "doc-1" || repo.views[0].IP != "10.0.0.1" {
		t.Errorf("unexpected fact: %+v", repo.views[0])
	}
}

func TestService_RecordView_ScheduleFailureSwallowed(t *testing.T) {
	repo := &mockRepo{}
	svc := New(repo, &mockDocs{}, &syncPool{submitErr: errors.New("pool closed")}, zap.NewNop())

	svc.RecordView(context.Background(), "doc-1", "", "", "")
	if len(repo.views) != 0 {
		t.Errorf("expected nothing recorded, got %d", len(repo.views))
	}
}

func TestService_TopQueries(t *testing.T) {
	repo := &mockRepo{queries: []domana.QueryLog{
		{Query: "Notice Period", ResultCount: 3, HasResults: true, DurationMs: 100, CreatedAt: at(10, 9)},
		{Query: "notice   period", ResultCount: 5, HasResults: true, DurationMs: 300, CreatedAt: at(12, 9)},
		{Query: "severance", ResultCount: 0, HasResults: false, DurationMs: 50, CreatedAt: at(11, 9)},
	}}
	svc := newService(repo, nil)

	stats := svc.TopQueries(context.Background(), domana.DateRange{}, 10)
	if len(stats) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(stats))
	}

	top := stats[0]
	if top.Query != "notice period" {
		t.Errorf("expected normalized grouping, got %q", top.Query)
	}
	if top.Count != 2 {
		t.Errorf("expected count 2, got %d", top.Count)
	}
	if top.AvgDurationMs != 200 {
		t.Errorf("expected avg duration 200, got %f", top.AvgDurationMs)
	}
	if top.AvgResultCount != 4 {
		t.Errorf("expected avg result count 4, got %f", top.AvgResultCount)
	}
	if !top.LastSeen.Equal(at(12, 9)) {
		t.Errorf("expected most recent occurrence, got %v", top.LastSeen)
	}
}

func TestService_TopQueries_LimitAndOrder(t *testing.T) {
	repo := &mockRepo{queries: []domana.QueryLog{
		{Query: "a", HasResults: true, CreatedAt: at(10, 9)},
		{Query: "a", HasResults: true, CreatedAt: at(11, 9)},
		{Query: "b", HasResults: true, CreatedAt: at(12, 9)},
		{Query: "c", HasResults: true, CreatedAt: at(13, 9)},
	}}
	svc := newService(repo, nil)

	stats := svc.TopQueries(context.Background(), domana.DateRange{}, 2)
	if len(stats) != 2 {
		t.Fatalf("expected truncation to 2 rows, got %d", len(stats))
	}
	if stats[0].Query != "a" {
		t.Errorf("expected most frequent first, got %q", stats[0].Query)
	}
	// b and c tie on count; the later-seen one wins the remaining slot.
	if stats[1].Query != "c" {
		t.Errorf("expected most recent tie-winner, got %q", stats[1].Query)
	}
}

func TestService_ZeroResultQueries(t *testing.T) {
	repo := &mockRepo{queries: []domana.QueryLog{
		{Query: "found", ResultCount: 3, HasResults: true, CreatedAt: at(10, 9)},
		{Query: "missing", ResultCount: 0, HasResults: false, CreatedAt: at(11, 9)},
	}}
	svc := newService(repo, nil)

	stats := svc.ZeroResultQueries(context.Background(), domana.DateRange{}, 10)
	if len(stats) != 1 {
		t.Fatalf("expected 1 zero-result group, got %d", len(stats))
	}
	if stats[0].Query != "missing" {
		t.Errorf("expected %q, got %q", "missing", stats[0].Query)
	}
}

func TestService_Reports_ReadFailureYieldsEmpty(t *testing.T) {
	repo := &mockRepo{rangeErr: errors.New("connection refused")}
	svc := newService(repo, nil)

	if stats := svc.TopQueries(context.Background(), domana.DateRange{}, 10); stats != nil {
		t.Errorf("expected nil report, got %+v", stats)
	}
	if stats := svc.TopViewedDocuments(context.Background(), domana.DateRange{}, 10); stats != nil {
		t.Errorf("expected nil report, got %+v", stats)
	}
}

func TestService_TopViewedDocuments(t *testing.T) {
	repo := &mockRepo{views: []domana.DocumentView{
		{DocumentID: "doc-1", CreatedAt: at(10, 9)},
		{DocumentID: "doc-1", CreatedAt: at(12, 9)},
		{DocumentID: "doc-2", CreatedAt: at(11, 9)},
	}}
	docs := &mockDocs{metas: map[string]domdoc.Meta{
		"doc-1": {ID: "doc-1", Title: "Labor Code", Number: "L-100"},
	}}
	svc := newService(repo, docs)

	stats := svc.TopViewedDocuments(context.Background(), domana.DateRange{}, 10)
	if len(stats) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(stats))
	}

	if stats[0].DocumentID != "doc-1" || stats[0].ViewCount != 2 {
		t.Errorf("expected doc-1 with 2 views first, got %+v", stats[0])
	}
	if stats[0].Title != "Labor Code" || stats[0].Number != "L-100" {
		t.Errorf("expected denormalized metadata, got %+v", stats[0])
	}

	// doc-2 has no metadata anymore but stays in the report.
	if stats[1].DocumentID != "doc-2" {
		t.Fatalf("expected doc-2 second, got %+v", stats[1])
	}
	if stats[1].Title != domana.PlaceholderTitle {
		t.Errorf("expected placeholder title, got %q", stats[1].Title)
	}
}

func TestService_ResolveRange(t *testing.T) {
	svc := newService(&mockRepo{}, nil)

	t.Run("open range becomes last 30 days", func(t *testing.T) {
		dr := svc.resolveRange(domana.DateRange{})
		if dr.IsZero() {
			t.Fatal("expected a bounded range")
		}
		days := int(dr.End.Sub(dr.Start).Hours() / 24)
		if days != DefaultWindowDays {
			t.Errorf("expected a %d-day window, got %d", DefaultWindowDays, days)
		}
	})

	t.Run("missing start derived from end", func(t *testing.T) {
		end := at(20, 0)
		dr := svc.resolveRange(domana.DateRange{End: end})
		if !dr.Start.Equal(end.AddDate(0, 0, -DefaultWindowDays)) {
			t.Errorf("unexpected start %v", dr.Start)
		}
	})

	t.Run("missing end bounded to today", func(t *testing.T) {
		start := at(20, 0)
		dr := svc.resolveRange(domana.DateRange{Start: start})
		if dr.End.IsZero() {
			t.Error("expected a derived end")
		}
		if !dr.Start.Equal(start) {
			t.Errorf("start must be kept, got %v", dr.Start)
		}
	})
}
