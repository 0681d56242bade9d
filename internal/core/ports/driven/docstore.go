package driven

import (
	"context"

	"github.com/custodia-labs/safetyqa/internal/core/domain"
)

// DocumentStore persists documents and their chunks.
type DocumentStore interface {
	// SaveDocument inserts or updates a document by ID.
	SaveDocument(ctx context.Context, doc *domain.Document) error

	// GetDocument retrieves a document by ID.
	// Returns domain.ErrNotFound when it does not exist.
	GetDocument(ctx context.Context, id string) (*domain.Document, error)

	// ListDocuments returns all documents ordered by title.
	ListDocuments(ctx context.Context) ([]domain.Document, error)

	// ListUnprocessed returns documents that have not been chunked yet.
	ListUnprocessed(ctx context.Context) ([]domain.Document, error)

	// MarkProcessed sets the processed flag on a document.
	MarkProcessed(ctx context.Context, id string) error

	// ReplaceChunks atomically swaps all chunks of a document for the given set.
	ReplaceChunks(ctx context.Context, documentID string, chunks []domain.Chunk) error

	// GetChunks retrieves all chunks for a document ordered by index.
	GetChunks(ctx context.Context, documentID string) ([]domain.Chunk, error)

	// CountChunks returns the total number of chunks.
	CountChunks(ctx context.Context) (int, error)

	// DeleteAll removes every document and chunk.
	DeleteAll(ctx context.Context) error
}
