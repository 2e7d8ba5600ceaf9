// Package telemetry persists per-query telemetry records in a Redis list,
// newest first.
package telemetry

import (
	"context"
	"fmt"

	"github.com/juris-cloud/lexidex/internal/domain"
	domtel "github.com/juris-cloud/lexidex/internal/domain/telemetry"
)

// store is the consumer interface for telemetry persistence (ISP).
type store interface {
	LPush(ctx context.Context, key string, values ...string) error
	LRange(ctx context.Context, key string, start, stop int64) ([]string, error)
	LLen(ctx context.Context, key string) (int64, error)
}

// Repo stores telemetry records.
type Repo struct {
	store     store
	keyPrefix string
}

// New creates a telemetry repository.
func New(s store, keyPrefix string) *Repo {
	return &Repo{store: s, keyPrefix: keyPrefix}
}

func (r *Repo) key() string {
	return r.keyPrefix + "telemetry:records"
}

// Save appends one record. Records are written at most once and never updated.
func (r *Repo) Save(ctx context.Context, rec *domtel.Record) error {
	data, err := marshalRecord(rec)
	if err != nil {
		return fmt.Errorf("%w: encode: %w", domain.ErrTelemetryPersist, err)
	}
	if err := r.store.LPush(ctx, r.key(), data); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrTelemetryPersist, err)
	}
	return nil
}

// Recent returns records newest first, with offset/limit pagination.
func (r *Repo) Recent(ctx context.Context, offset, limit int) ([]domtel.Record, error) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = 20
	}

	raw, err := r.store.LRange(ctx, r.key(), int64(offset), int64(offset+limit-1))
	if err != nil {
		return nil, fmt.Errorf("list telemetry records: %w", err)
	}

	records := make([]domtel.Record, 0, len(raw))
	for _, data := range raw {
		rec, err := unmarshalRecord(data)
		if err != nil {
			// Skip undecodable entries rather than failing the whole page.
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// Count returns the total number of persisted records.
func (r *Repo) Count(ctx context.Context) (int64, error) {
	n, err := r.store.LLen(ctx, r.key())
	if err != nil {
		return 0, fmt.Errorf("count telemetry records: %w", err)
	}
	return n, nil
}
