// Package analytics persists append-only search query and document view
// facts, bucketed by local calendar day so date-range reports read only the
// days they cover.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/juris-cloud/lexidex/internal/domain"
	domana "github.com/juris-cloud/lexidex/internal/domain/analytics"
)

const dayLayout = "2006-01-02"

// store is the consumer interface for analytics persistence (ISP).
type store interface {
	LPush(ctx context.Context, key string, values ...string) error
	LRange(ctx context.Context, key string, start, stop int64) ([]string, error)
}

// Repo stores analytics facts.
type Repo struct {
	store     store
	keyPrefix string
}

// New creates an analytics repository.
func New(s store, keyPrefix string) *Repo {
	return &Repo{store: s, keyPrefix: keyPrefix}
}

func (r *Repo) queryKey(day string) string {
	return r.keyPrefix + "analytics:queries:" + day
}

func (r *Repo) viewKey(day string) string {
	return r.keyPrefix + "analytics:views:" + day
}

func localDay(t time.Time) string {
	return t.In(time.Local).Format(dayLayout)
}

// LogQuery appends one query fact to its local-day bucket.
func (r *Repo) LogQuery(ctx context.Context, entry *domana.QueryLog) error {
	data, err := marshalQueryLog(entry)
	if err != nil {
		return fmt.Errorf("%w: encode query log: %w", domain.ErrAnalytics, err)
	}
	if err := r.store.LPush(ctx, r.queryKey(localDay(entry.CreatedAt)), data); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrAnalytics, err)
	}
	return nil
}

// LogView appends one document view fact to its local-day bucket.
func (r *Repo) LogView(ctx context.Context, entry *domana.DocumentView) error {
	data, err := marshalView(entry)
	if err != nil {
		return fmt.Errorf("%w: encode view: %w", domain.ErrAnalytics, err)
	}
	if err := r.store.LPush(ctx, r.viewKey(localDay(entry.CreatedAt)), data); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrAnalytics, err)
	}
	return nil
}

// QueriesInRange reads all query facts whose local day falls inside the
// range. Facts at a day boundary are filtered precisely by timestamp.
func (r *Repo) QueriesInRange(ctx context.Context, dr domana.DateRange) ([]domana.QueryLog, error) {
	var logs []domana.QueryLog
	for _, day := range daysIn(dr) {
		raw, err := r.store.LRange(ctx, r.queryKey(day), 0, -1)
		if err != nil {
			return nil, fmt.Errorf("%w: read queries %s: %w", domain.ErrAnalytics, day, err)
		}
		for _, data := range raw {
			entry, err := unmarshalQueryLog(data)
			if err != nil {
				continue
			}
			if dr.Contains(entry.CreatedAt) {
				logs = append(logs, entry)
			}
		}
	}
	return logs, nil
}

// ViewsInRange reads all view facts whose local day falls inside the range.
func (r *Repo) ViewsInRange(ctx context.Context, dr domana.DateRange) ([]domana.DocumentView, error) {
	var views []domana.DocumentView
	for _, day := range daysIn(dr) {
		raw, err := r.store.LRange(ctx, r.viewKey(day), 0, -1)
		if err != nil {
			return nil, fmt.Errorf("%w: read views %s: %w", domain.ErrAnalytics, day, err)
		}
		for _, data := range raw {
			entry, err := unmarshalView(data)
			if err != nil {
				continue
			}
			if dr.Contains(entry.CreatedAt) {
				views = append(views, entry)
			}
		}
	}
	return views, nil
}

// daysIn enumerates the local calendar days covered by the range. The caller
// (usecase layer) always supplies a bounded range.
func daysIn(dr domana.DateRange) []string {
	if dr.Start.IsZero() || dr.End.IsZero() {
		return nil
	}
	var days []string
	end := dr.End.In(time.Local)
	for d := dr.Start.In(time.Local); d.Before(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d.Format(dayLayout))
	}
	return days
}
