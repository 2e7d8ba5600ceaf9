package analytics

import (
	"fmt"
	"strings"
	"time"
)

// MaxStoredQueryLength caps stored query text for privacy.
const MaxStoredQueryLength = 500

// PlaceholderTitle is reported for viewed documents that no longer exist.
const PlaceholderTitle = "(document removed)"

// QueryLog is an append-only fact recording one executed search.
type QueryLog struct {
	ID          string
	Query       string
	ResultCount int
	HasResults  bool
	DurationMs  int64
	UserID      string
	CreatedAt   time.Time
}

// DocumentView is an append-only fact recording one document view.
type DocumentView struct {
	ID         string
	DocumentID string
	UserID     string
	IP         string
	UserAgent  string
	CreatedAt  time.Time
}

// QueryStat is one row of the top-queries and zero-result reports.
type QueryStat struct {
	Query          string
	Count          int
	AvgDurationMs  float64
	AvgResultCount float64
	LastSeen       time.Time
}

// DocumentStat is one row of the top-viewed-documents report.
type DocumentStat struct {
	DocumentID string
	Title      string
	Number     string
	ViewCount  int
	LastViewed time.Time
}

// TruncateQuery caps query text to the stored length.
func TruncateQuery(q string) string {
	if len(q) > MaxStoredQueryLength {
		return q[:MaxStoredQueryLength]
	}
	return q
}

// NormalizeQuery folds case and whitespace so report grouping treats
// trivially different spellings as one query.
func NormalizeQuery(q string) string {
	return strings.Join(strings.Fields(strings.ToLower(q)), " ")
}

// DateRange is a reporting window over local calendar days. Zero values mean
// unbounded on that side.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// ParseDateRange builds a range from explicit YYYY-MM-DD day strings,
// interpreted as local calendar days: the start day begins at local midnight
// and the end day runs through its final instant. Empty strings leave the
// corresponding side open.
func ParseDateRange(startDay, endDay string) (DateRange, error) {
	var r DateRange
	if startDay != "" {
		t, err := time.ParseInLocation("2006-01-02", startDay, time.Local)
		if err != nil {
			return DateRange{}, fmt.Errorf("parse start day: %w", err)
		}
		r.Start = t
	}
	if endDay != "" {
		t, err := time.ParseInLocation("2006-01-02", endDay, time.Local)
		if err != nil {
			return DateRange{}, fmt.Errorf("parse end day: %w", err)
		}
		r.End = t.AddDate(0, 0, 1)
	}
	return r, nil
}

// LastDays builds a relative window covering today and the previous n-1
// local calendar days.
func LastDays(n int, now time.Time) DateRange {
	if n < 1 {
		n = 1
	}
	local := now.In(time.Local)
	dayStart := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.Local)
	return DateRange{
		Start: dayStart.AddDate(0, 0, -(n - 1)),
		End:   dayStart.AddDate(0, 0, 1),
	}
}

// Contains reports whether t falls inside the range. The end bound is
// exclusive (it already points at the midnight after the last day).
func (r DateRange) Contains(t time.Time) bool {
	if !r.Start.IsZero() && t.Before(r.Start) {
		return false
	}
	if !r.End.IsZero() && !t.Before(r.End) {
		return false
	}
	return true
}

// IsZero reports whether the range is fully open.
func (r DateRange) IsZero() bool {
	return r.Start.IsZero() && r.End.IsZero()
}
