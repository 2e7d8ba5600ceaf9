// Package telemetry implements the per-query telemetry recorder.
//
// Every query moves through a small state machine: PENDING on construction,
// LOGGED once the structured log line is out (always), then PERSISTED or
// PERSIST_FAILED depending on the asynchronous database write. Persistence
// failures never reach the search caller.
package telemetry

import (
	"context"
	"time"

	"go.uber.org/zap"

	domtel "github.com/juris-cloud/lexidex/internal/domain/telemetry"
	"github.com/juris-cloud/lexidex/internal/metrics"
)

// persistTimeout bounds the background database write.
const persistTimeout = 10 * time.Second

// Recorder logs and optionally persists telemetry records.
type Recorder struct {
	repo      Repository
	pool      Pool
	logger    *zap.Logger
	dbLogging bool
}

// New creates a telemetry recorder. dbLogging gates asynchronous persistence;
// the structured log sink is always active. Modeled as an explicit
// constructor flag so both settings stay testable.
func New(repo Repository, pool Pool, logger *zap.Logger, dbLogging bool) *Recorder {
	return &Recorder{repo: repo, pool: pool, logger: logger, dbLogging: dbLogging}
}

// Record logs the record synchronously and schedules persistence when
// enabled. The returned copy reflects the state reached before Record
// returned: LOGGED when persistence is pending or disabled, PERSIST_FAILED
// when the record could not even be scheduled.
func (r *Recorder) Record(ctx context.Context, rec *domtel.Record) domtel.Record {
	r.log(rec)

	logged := *rec
	logged.Status = domtel.Logged
	logged.Answer = logged.TruncatedAnswer()

	if !r.dbLogging {
		metrics.TelemetryPersistTotal.WithLabelValues("skipped").Inc()
		return logged
	}

	// The caller's context ends with the response; persistence gets its own.
	persist := logged
	err := r.pool.Submit(func() {
		pctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()

		if err := r.repo.Save(pctx, &persist); err != nil {
			metrics.TelemetryPersistTotal.WithLabelValues("failed").Inc()
			r.logger.Warn("telemetry persist failed",
				zap.String("record_id", persist.ID),
				zap.Error(err),
			)
			return
		}
		metrics.TelemetryPersistTotal.WithLabelValues("persisted").Inc()
	})
	if err != nil {
		metrics.TelemetryPersistTotal.WithLabelValues("failed").Inc()
		r.logger.Warn("telemetry persist not scheduled",
			zap.String("record_id", logged.ID),
			zap.Error(err),
		)
		logged.Status = domtel.PersistFailed
	}

	return logged
}

// Recent returns persisted records newest first with offset/limit pagination.
func (r *Recorder) Recent(ctx context.Context, offset, limit int) ([]domtel.Record, error) {
	return r.repo.Recent(ctx, offset, limit)
}

// Count returns the number of persisted records.
func (r *Recorder) Count(ctx context.Context) (int64, error) {
	return r.repo.Count(ctx)
}

// ScoreStats computes avg/max/min over source scores; empty input yields
// all zeros.
func (r *Recorder) ScoreStats(sources []domtel.Source) (avg, maxScore, minScore float64) {
	return domtel.ScoreStats(sources)
}

// log writes the always-on structured line for one query.
func (r *Recorder) log(rec *domtel.Record) {
	fields := []zap.Field{
		zap.String("record_id", rec.ID),
		zap.String("query", rec.TruncatedQuery()),
		zap.Int64("embedding_ms", rec.Timings.EmbeddingMs),
		zap.Int64("search_ms", rec.Timings.SearchMs),
		zap.Int64("context_build_ms", rec.Timings.ContextBuildMs),
		zap.Int64("total_ms", rec.Timings.TotalMs),
		zap.Int("context_found", rec.Context.Found),
		zap.Int("context_used", rec.Context.Used),
		zap.Float64("avg_score", rec.Context.AvgScore),
		zap.Float64("max_score", rec.Context.MaxScore),
		zap.Float64("min_score", rec.Context.MinScore),
		zap.Int("sources", len(rec.Sources)),
		zap.Bool("success", rec.Success),
	}
	if rec.ErrorMessage != "" {
		fields = append(fields, zap.String("error", rec.ErrorMessage))
	}

	if rec.Success {
		r.logger.Info("search query", fields...)
	} else {
		r.logger.Warn("search query failed", fields...)
	}
}
