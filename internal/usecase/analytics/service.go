// Package analytics aggregates append-only query and view facts into
// historical reports. Every failure on this path is logged and suppressed:
// analytics must never break search or view recording.
package analytics

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/juris-cloud/lexidex/internal/domain"
	domana "github.com/juris-cloud/lexidex/internal/domain/analytics"
	"github.com/juris-cloud/lexidex/internal/metrics"
)

// Defaults for reporting windows and row limits.
const (
	DefaultWindowDays  = 30
	DefaultReportLimit = 10
	viewRecordTimeout  = 10 * time.Second
)

// Service records analytics facts and serves aggregate reports.
type Service struct {
	repo   Repository
	docs   DocumentReader
	pool   Pool
	logger *zap.Logger
	now    func() time.Time
}

// New creates an analytics service.
func New(repo Repository, docs DocumentReader, pool Pool, logger *zap.Logger) *Service {
	return &Service{repo: repo, docs: docs, pool: pool, logger: logger, now: time.Now}
}

// RecordQuery appends one query fact. The text is truncated to 500
// characters before storage; write failures are logged and swallowed.
func (s *Service) RecordQuery(
	ctx context.Context, text string, resultCount int, durationMs int64, userID string,
) {
	entry := &domana.QueryLog{
		ID:          uuid.NewString(),
		Query:       domana.TruncateQuery(text),
		ResultCount: resultCount,
		HasResults:  resultCount > 0,
		DurationMs:  durationMs,
		UserID:      userID,
		CreatedAt:   s.now(),
	}
	if err := s.repo.LogQuery(ctx, entry); err != nil {
		metrics.AnalyticsWritesTotal.WithLabelValues("query", "failed").Inc()
		s.logger.Warn("query log write failed", zap.Error(err))
		return
	}
	metrics.AnalyticsWritesTotal.WithLabelValues("query", "ok").Inc()
}

// RecordView appends one document view fact, fire-and-forget: the caller
// returns immediately and failures surface only in logs.
func (s *Service) RecordView(ctx context.Context, documentID, userID, ip, userAgent string) {
	entry := &domana.DocumentView{
		ID:         uuid.NewString(),
		DocumentID: documentID,
		UserID:     userID,
		IP:         ip,
		UserAgent:  userAgent,
		CreatedAt:  s.now(),
	}

	err := s.pool.Submit(func() {
		vctx, cancel := context.WithTimeout(context.Background(), viewRecordTimeout)
		defer cancel()

		if err := s.repo.LogView(vctx, entry); err != nil {
			metrics.AnalyticsWritesTotal.WithLabelValues("view", "failed").Inc()
			s.logger.Warn("view log write failed",
				zap.String("document_id", documentID),
				zap.Error(err),
			)
			return
		}
		metrics.AnalyticsWritesTotal.WithLabelValues("view", "ok").Inc()
	})
	if err != nil {
		metrics.AnalyticsWritesTotal.WithLabelValues("view", "failed").Inc()
		s.logger.Warn("view log not scheduled",
			zap.String("document_id", documentID),
			zap.Error(err),
		)
	}
}

// TopQueries groups queries by normalized text and reports the most frequent
// ones: occurrence count, average execution time and result count, and the
// most recent occurrence per group. Read failures yield an empty report.
func (s *Service) TopQueries(ctx context.Context, dr domana.DateRange, limit int) []domana.QueryStat {
	return s.queryReport(ctx, dr, limit, false)
}

// ZeroResultQueries is TopQueries restricted to queries that found nothing.
func (s *Service) ZeroResultQueries(ctx context.Context, dr domana.DateRange, limit int) []domana.QueryStat {
	return s.queryReport(ctx, dr, limit, true)
}

func (s *Service) queryReport(
	ctx context.Context, dr domana.DateRange, limit int, zeroOnly bool,
) []domana.QueryStat {
	logs, err := s.repo.QueriesInRange(ctx, s.resolveRange(dr))
	if err != nil {
		s.logger.Warn("query report read failed", zap.Error(err))
		return nil
	}

	type group struct {
		count       int
		durationSum int64
		resultSum   int
		lastSeen    time.Time
	}
	groups := make(map[string]*group)

	for _, l := range logs {
		if zeroOnly && l.HasResults {
			continue
		}
		key := domana.NormalizeQuery(l.Query)
		g, ok := groups[key]
		if !ok {
			g = &group{}
			groups[key] = g
		}
		g.count++
		g.durationSum += l.DurationMs
		g.resultSum += l.ResultCount
		if l.CreatedAt.After(g.lastSeen) {
			g.lastSeen = l.CreatedAt
		}
	}

	stats := make([]domana.QueryStat, 0, len(groups))
	for q, g := range groups {
		stats = append(stats, domana.QueryStat{
			Query:          q,
			Count:          g.count,
			AvgDurationMs:  float64(g.durationSum) / float64(g.count),
			AvgResultCount: float64(g.resultSum) / float64(g.count),
			LastSeen:       g.lastSeen,
		})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Count != stats[j].Count {
			return stats[i].Count > stats[j].Count
		}
		return stats[i].LastSeen.After(stats[j].LastSeen)
	})

	return truncateStats(stats, limit)
}

// TopViewedDocuments groups views by document and attaches denormalized
// metadata. Documents no longer present are reported with a placeholder
// title rather than omitted.
func (s *Service) TopViewedDocuments(
	ctx context.Context, dr domana.DateRange, limit int,
) []domana.DocumentStat {
	views, err := s.repo.ViewsInRange(ctx, s.resolveRange(dr))
	if err != nil {
		s.logger.Warn("view report read failed", zap.Error(err))
		return nil
	}

	type group struct {
		count      int
		lastViewed time.Time
	}
	groups := make(map[string]*group)
	for _, v := range views {
		g, ok := groups[v.DocumentID]
		if !ok {
			g = &group{}
			groups[v.DocumentID] = g
		}
		g.count++
		if v.CreatedAt.After(g.lastViewed) {
			g.lastViewed = v.CreatedAt
		}
	}

	stats := make([]domana.DocumentStat, 0, len(groups))
	for id, g := range groups {
		stat := domana.DocumentStat{
			DocumentID: id,
			Title:      domana.PlaceholderTitle,
			ViewCount:  g.count,
			LastViewed: g.lastViewed,
		}
		meta, err := s.docs.GetMeta(ctx, id)
		switch {
		case err == nil:
			stat.Title = meta.Title
			stat.Number = meta.Number
		case !errors.Is(err, domain.ErrDocumentNotFound):
			s.logger.Warn("document meta lookup failed",
				zap.String("document_id", id),
				zap.Error(err),
			)
		}
		stats = append(stats, stat)
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].ViewCount != stats[j].ViewCount {
			return stats[i].ViewCount > stats[j].ViewCount
		}
		return stats[i].LastViewed.After(stats[j].LastViewed)
	})

	if limit <= 0 {
		limit = DefaultReportLimit
	}
	if len(stats) > limit {
		stats = stats[:limit]
	}
	return stats
}

// resolveRange bounds open ranges so per-day reads stay finite: a fully open
// range becomes the last 30 days, a missing side is derived from the other.
func (s *Service) resolveRange(dr domana.DateRange) domana.DateRange {
	if dr.IsZero() {
		return domana.LastDays(DefaultWindowDays, s.now())
	}
	if dr.Start.IsZero() {
		dr.Start = dr.End.AddDate(0, 0, -DefaultWindowDays)
	}
	if dr.End.IsZero() {
		dr.End = domana.LastDays(1, s.now()).End
	}
	return dr
}

func truncateStats(stats []domana.QueryStat, limit int) []domana.QueryStat {
	if limit <= 0 {
		limit = DefaultReportLimit
	}
	if len(stats) > limit {
		stats = stats[:limit]
	}
	return stats
}
