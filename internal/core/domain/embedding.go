package domain

// EmbeddingMetadata is stored next to every chunk vector so that a query can
// be answered from the vector store alone.
type EmbeddingMetadata struct {
	DocumentID    string `json:"document_id"`
	ChunkIndex    int    `json:"chunk_index"`
	DocumentTitle string `json:"document_title"`
	DocumentURL   string `json:"document_url"`
	OriginalText  string `json:"original_text"`
}

// EmbeddingRecord is one eligible chunk as persisted by a vector store.
type EmbeddingRecord struct {
	// Key is ChunkKey(DocumentID, ChunkIndex).
	Key string

	// Text is the normalised text that was embedded.
	Text string

	// Vector is the embedding. Its length is fixed for the lifetime of a store.
	Vector []float32

	Metadata EmbeddingMetadata
}

// VectorMatch is a nearest-neighbour hit returned by a vector store.
type VectorMatch struct {
	Key      string
	Text     string
	Distance float64
	Metadata EmbeddingMetadata
}
