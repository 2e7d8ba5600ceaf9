package telemetry

import (
	"context"

	domtel "github.com/juris-cloud/lexidex/internal/domain/telemetry"
)

// Repository defines the storage contract for telemetry records.
type Repository interface {
	Save(ctx context.Context, rec *domtel.Record) error
	Recent(ctx context.Context, offset, limit int) ([]domtel.Record, error)
	Count(ctx context.Context) (int64, error)
}

// Pool schedules fire-and-forget tasks. Satisfied by *ants.Pool.
type Pool interface {
	Submit(task func()) error
}
