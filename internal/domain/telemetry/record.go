package telemetry

import "time"

// Status is the per-query recorder state.
type Status string

// Recorder state machine: Pending -> Logged -> Persisted | PersistFailed.
const (
	Pending       Status = "PENDING"
	Logged        Status = "LOGGED"
	Persisted     Status = "PERSISTED"
	PersistFailed Status = "PERSIST_FAILED"
)

// MaxLoggedQueryLength caps the query text in structured log lines.
const MaxLoggedQueryLength = 200

// MaxAnswerLength caps the stored answer summary.
const MaxAnswerLength = 1000

// Timings holds per-stage latencies in milliseconds. Total is measured
// end-to-end independently: stages may overlap, so no sum relation is
// enforced between total and the other three.
type Timings struct {
	EmbeddingMs    int64
	SearchMs       int64
	ContextBuildMs int64
	TotalMs        int64
}

// ContextMetrics holds counts and score statistics over the candidate pool
// before truncation to the requested limit.
type ContextMetrics struct {
	Found    int
	Used     int
	AvgScore float64
	MaxScore float64
	MinScore float64
}

// Source attributes one result that contributed to the answer.
type Source struct {
	DocumentID    string
	Title         string
	ChunkIndex    int
	Score         float64
	SnippetLength int
}

// Requester identifies who issued the query.
type Requester struct {
	UserID    string
	IP        string
	UserAgent string
}

// Record is the per-query observability fact. Created once, never mutated
// after construction, persisted at most once.
type Record struct {
	ID              string
	Query           string
	NormalizedQuery string
	Timings         Timings
	Context         ContextMetrics
	Sources         []Source
	Answer          string
	Success         bool
	ErrorMessage    string
	Requester       Requester
	Status          Status
	CreatedAt       time.Time
}

// TruncatedQuery returns the query capped for log output.
func (r *Record) TruncatedQuery() string {
	if len(r.Query) > MaxLoggedQueryLength {
		return r.Query[:MaxLoggedQueryLength]
	}
	return r.Query
}

// TruncatedAnswer returns the answer summary capped for storage.
func (r *Record) TruncatedAnswer() string {
	if len(r.Answer) > MaxAnswerLength {
		return r.Answer[:MaxAnswerLength]
	}
	return r.Answer
}

// ScoreStats computes avg/max/min over source scores. An empty source list
// yields all zeros, never NaN.
func ScoreStats(sources []Source) (avg, maxScore, minScore float64) {
	if len(sources) == 0 {
		return 0, 0, 0
	}
	maxScore = sources[0].Score
	minScore = sources[0].Score
	var sum float64
	for _, s := range sources {
		sum += s.Score
		if s.Score > maxScore {
			maxScore = s.Score
		}
		if s.Score < minScore {
			minScore = s.Score
		}
	}
	return sum / float64(len(sources)), maxScore, minScore
}
