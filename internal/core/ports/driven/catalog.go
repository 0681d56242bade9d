package driven

import (
	"context"

	"github.com/custodia-labs/safetyqa/internal/core/domain"
)

// SourceCatalog reads the curated inputs of the system.
type SourceCatalog interface {
	// LoadSources returns the list of publications to ingest.
	LoadSources(ctx context.Context) ([]domain.SourceEntry, error)

	// LoadQuestions returns suggested questions grouped by category.
	// A missing question bank yields an empty slice, not an error.
	LoadQuestions(ctx context.Context) ([]domain.QuestionCategory, error)
}
