package driving

import (
	"context"

	"github.com/custodia-labs/safetyqa/internal/core/domain"
)

// IngestionService runs the batch steps that build the corpus.
// Every step is safe to re-run.
type IngestionService interface {
	// LoadSources upserts a document for every entry of the source list.
	LoadSources(ctx context.Context) (domain.IngestStats, error)

	// ProcessDocuments extracts and chunks every unprocessed document.
	ProcessDocuments(ctx context.Context) (domain.IngestStats, error)

	// GenerateEmbeddings rebuilds the vector store from all chunks.
	GenerateEmbeddings(ctx context.Context) (domain.IngestStats, error)

	// Initialize resets all state and runs load, process and embed in order.
	Initialize(ctx context.Context) (domain.IngestStats, error)

	// Diagnostics reports corpus counts.
	Diagnostics(ctx context.Context) (domain.Diagnostics, error)

	// CheckPDFs lists PDF files and how document titles map onto them.
	CheckPDFs(ctx context.Context) (*domain.PDFReport, error)

	// Questions returns the suggested question bank.
	Questions(ctx context.Context) ([]domain.QuestionCategory, error)
}
