package driven

import (
	"context"

	"github.com/custodia-labs/safetyqa/internal/core/domain"
)

// VectorStore persists chunk vectors and answers cosine nearest-neighbour queries.
type VectorStore interface {
	// Upsert inserts or replaces records by key.
	Upsert(ctx context.Context, records []domain.EmbeddingRecord) error

	// DeleteAll removes every record.
	DeleteAll(ctx context.Context) error

	// Query returns up to topN matches ordered by ascending cosine distance.
	Query(ctx context.Context, vector []float32, topN int) ([]domain.VectorMatch, error)

	// Count returns the number of stored records.
	Count(ctx context.Context) (int, error)

	// Close releases resources.
	Close() error
}
