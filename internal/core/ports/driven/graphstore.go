package driven

import (
	"context"

	"github.com/custodia-labs/kgpipe/internal/core/domain"
)

// GraphStore persists chunk trees and canonical entities for the
// downstream knowledge-graph loader. Entity writes are upserts keyed
// by normalized name so repeated runs are idempotent.
type GraphStore interface {
	// SaveDocument stores or updates a document's metadata.
	SaveDocument(ctx context.Context, doc *domain.Document) error

	// SaveChunks stores a document's chunk tree. Parents must be
	// written in the same call as their children.
	SaveChunks(ctx context.Context, chunks []domain.Chunk) error

	// GetChunks retrieves a document's chunks in position order.
	GetChunks(ctx context.Context, documentID string) ([]domain.Chunk, error)

	// UpsertEntities merges canonical entities on normalized_name.
	UpsertEntities(ctx context.Context, entities []domain.CanonicalEntity) error

	// GetEntityByName retrieves a canonical entity by its
	// normalized name. Returns domain.ErrNotFound when absent.
	GetEntityByName(ctx context.Context, normalizedName string) (*domain.CanonicalEntity, error)

	// ListEntities returns all canonical entities ordered by
	// normalized name.
	ListEntities(ctx context.Context) ([]domain.CanonicalEntity, error)
}
