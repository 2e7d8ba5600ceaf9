// Package document reads denormalized document metadata for reporting.
package document

import (
	"context"
	"fmt"

	"github.com/juris-cloud/lexidex/internal/domain"
	domdoc "github.com/juris-cloud/lexidex/internal/domain/document"
)

// store is the consumer interface for metadata reads (ISP).
type store interface {
	HGetAll(ctx context.Context, key string) (map[string]string, error)
}

// Repo reads document metadata from the document hashes.
type Repo struct {
	store     store
	keyPrefix string
}

// New creates a document metadata repository.
func New(s store, keyPrefix string) *Repo {
	return &Repo{store: s, keyPrefix: keyPrefix}
}

// GetMeta fetches title and number for a document.
// Returns domain.ErrDocumentNotFound when the document hash is gone.
func (r *Repo) GetMeta(ctx context.Context, id string) (domdoc.Meta, error) {
	m, err := r.store.HGetAll(ctx, r.keyPrefix+"doc:"+id)
	if err != nil {
		return domdoc.Meta{}, fmt.Errorf("get document %s: %w", id, err)
	}
	if len(m) == 0 {
		return domdoc.Meta{}, fmt.Errorf("%w: %s", domain.ErrDocumentNotFound, id)
	}
	return domdoc.Meta{ID: id, Title: m["title"], Number: m["number"]}, nil
}
