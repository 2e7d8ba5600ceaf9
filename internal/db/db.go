// Package db defines the storage contract implemented by the Redis store.
package db

import (
	"context"
	"time"
)

// Store is the full storage contract the repositories build on.
type Store interface {
	Searcher
	Lists
	Hashes

	Ping(ctx context.Context) error
	WaitForReady(ctx context.Context, timeout time.Duration) error
	Close()
}

// Searcher runs FT.SEARCH queries.
type Searcher interface {
	SearchKNN(ctx context.Context, q *KNNQuery) (*SearchResult, error)
	SearchText(ctx context.Context, q *TextQuery) (*SearchResult, error)
}

// Lists provides append-only list operations for durable facts.
type Lists interface {
	LPush(ctx context.Context, key string, values ...string) error
	LRange(ctx context.Context, key string, start, stop int64) ([]string, error)
	LLen(ctx context.Context, key string) (int64, error)
}

// Hashes provides hash read operations for denormalized metadata.
type Hashes interface {
	HGetAll(ctx context.Context, key string) (map[string]string, error)
}
