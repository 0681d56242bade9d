package driven

import "context"

// EmbeddingService generates vector embeddings for text.
// The same input must always produce the same vector.
type EmbeddingService interface {
	// Embed generates an embedding for a single text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts, in input order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size.
	Dimensions() int

	// ModelName returns the name of the embedding model.
	ModelName() string

	// Ping validates that the embedding service is reachable.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
