package driven

import (
	"context"

	"github.com/custodia-labs/safetyqa/internal/core/domain"
)

// PostProcessor turns document content into chunks.
// PostProcessors are chained in a pipeline (e.g. chunking, then size filtering).
type PostProcessor interface {
	// Name returns the processor name for logging and configuration.
	Name() string

	// Process takes a document and returns chunks.
	// A processor that creates chunks receives nil; one that filters or
	// rewrites chunks receives the previous stage's output.
	Process(ctx context.Context, doc *domain.Document, chunks []domain.Chunk) ([]domain.Chunk, error)
}

// PostProcessorPipeline chains multiple PostProcessors.
type PostProcessorPipeline interface {
	// Process runs the document through all processors in order.
	Process(ctx context.Context, doc *domain.Document) ([]domain.Chunk, error)
}
