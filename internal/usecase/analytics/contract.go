package analytics

import (
	"context"

	domana "github.com/juris-cloud/lexidex/internal/domain/analytics"
	domdoc "github.com/juris-cloud/lexidex/internal/domain/document"
)

// Repository defines the storage contract for analytics facts.
type Repository interface {
	LogQuery(ctx context.Context, entry *domana.QueryLog) error
	LogView(ctx context.Context, entry *domana.DocumentView) error
	QueriesInRange(ctx context.Context, dr domana.DateRange) ([]domana.QueryLog, error)
	ViewsInRange(ctx context.Context, dr domana.DateRange) ([]domana.DocumentView, error)
}

// DocumentReader resolves denormalized document metadata for reports.
type DocumentReader interface {
	GetMeta(ctx context.Context, id string) (domdoc.Meta, error)
}

// Pool schedules fire-and-forget tasks. Satisfied by *ants.Pool.
type Pool interface {
	Submit(task func()) error
}
