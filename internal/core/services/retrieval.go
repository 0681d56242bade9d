package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/safetyqa/internal/core/domain"
	"github.com/custodia-labs/safetyqa/internal/core/ports/driven"
	"github.com/custodia-labs/safetyqa/internal/logger"
	"github.com/custodia-labs/safetyqa/internal/normalisers/text"
)

// RetrievalService turns a question into vector search candidates.
//
// It is the only place on the query path where collaborator failures are
// swallowed: Retrieve logs them and returns no candidates.
type RetrievalService struct {
	embedding driven.EmbeddingService
	vectors   driven.VectorStore
}

// NewRetrievalService creates a retrieval service. Either dependency may be
// nil, in which case every query degrades to an empty candidate set.
func NewRetrievalService(embedding driven.EmbeddingService, vectors driven.VectorStore) *RetrievalService {
	return &RetrievalService{
		embedding: embedding,
		vectors:   vectors,
	}
}

// Retrieve returns up to k candidates ordered by descending cosine similarity.
// It never fails; an unavailable embedding service or vector store yields an
// empty slice.
func (s *RetrievalService) Retrieve(ctx context.Context, query string, k int) []domain.Candidate {
	candidates, err := s.Search(ctx, query, k)
	if err != nil {
		logger.Warn("Vector retrieval failed, returning no candidates: %v", err)
		return []domain.Candidate{}
	}
	return candidates
}

// Search is Retrieve with the failure reported instead of collapsed.
func (s *RetrievalService) Search(ctx context.Context, query string, k int) ([]domain.Candidate, error) {
	if s.embedding == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}
	if s.vectors == nil {
		return nil, domain.ErrVectorStoreUnavailable
	}
	if k <= 0 {
		return []domain.Candidate{}, nil
	}

	cleaned := text.Normalise(query)
	logger.Debug("Retrieval query: %q (k=%d)", cleaned, k)

	vector, err := s.embedding.Embed(ctx, cleaned)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", errors.Join(domain.ErrEmbeddingUnavailable, err))
	}

	matches, err := s.vectors.Query(ctx, vector, k)
	if err != nil {
		return nil, fmt.Errorf("query vectors: %w", errors.Join(domain.ErrVectorStoreUnavailable, err))
	}

	if len(matches) > k {
		matches = matches[:k]
	}

	candidates := make([]domain.Candidate, len(matches))
	for i, m := range matches {
		candidates[i] = domain.Candidate{
			ChunkText:     m.Metadata.OriginalText,
			CleanedText:   m.Text,
			DocumentTitle: m.Metadata.DocumentTitle,
			DocumentURL:   m.Metadata.DocumentURL,
			ChunkIndex:    m.Metadata.ChunkIndex,
			VectorScore:   1 - m.Distance,
		}
		logger.Debug("  candidate %d: %s #%d (%.4f)", i+1, m.Metadata.DocumentTitle, m.Metadata.ChunkIndex, 1-m.Distance)
	}
	return candidates, nil
}
