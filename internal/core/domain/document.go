package domain

import "fmt"

// Document is a safety publication listed in the source file.
type Document struct {
	// ID is derived from the title, so reloading the source list is stable.
	ID string `json:"id"`

	// Title is the publication title. It doubles as the key used to
	// locate the PDF on disk.
	Title string `json:"title"`

	// SourceURL is where the publication was obtained.
	SourceURL string `json:"source_url"`

	// Processed is set once the document has been chunked successfully.
	Processed bool `json:"processed"`

	// Content holds extracted text while the document moves through the
	// chunking pipeline. It is never persisted.
	Content string `json:"-"`
}

// Chunk is a sentence-aligned slice of a document and the unit of retrieval.
// (DocumentID, Index) is unique.
type Chunk struct {
	// DocumentID links to the parent Document.
	DocumentID string `json:"document_id"`

	// Index is the 0-based position assigned by the chunker. Indices are not
	// renumbered when short chunks are filtered out.
	Index int `json:"index"`

	// Text is the normalised chunk text.
	Text string `json:"text"`

	// OriginalText is the chunk text shown to users. The chunker splits
	// already normalised text, so it currently equals Text; stores keep both
	// so a display form can diverge without a schema change.
	OriginalText string `json:"original_text"`
}

// Key returns the vector store key for the chunk.
func (c Chunk) Key() string {
	return ChunkKey(c.DocumentID, c.Index)
}

// ChunkKey builds the vector store key for a document chunk.
func ChunkKey(documentID string, index int) string {
	return fmt.Sprintf("%s_%d", documentID, index)
}

// SourceEntry is one item of the source list.
type SourceEntry struct {
	Title string `json:"title" yaml:"title"`
	URL   string `json:"url" yaml:"url"`
}
