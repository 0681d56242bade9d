package driving

import (
	"context"

	"github.com/custodia-labs/safetyqa/internal/core/domain"
)

// QAService answers questions over the ingested corpus.
type QAService interface {
	// Ask validates the request, retrieves and ranks passages, and synthesises an answer.
	// Only invalid input produces an error; retrieval failures yield an empty result.
	Ask(ctx context.Context, req domain.QueryRequest) (*domain.AnswerResult, error)
}
