package services

import (
	"context"
	"time"

	"github.com/custodia-labs/safetyqa/internal/answer"
	"github.com/custodia-labs/safetyqa/internal/core/domain"
	"github.com/custodia-labs/safetyqa/internal/core/ports/driving"
	"github.com/custodia-labs/safetyqa/internal/logger"
	"github.com/custodia-labs/safetyqa/internal/ranking"
)

// Ensure QAService implements the interface.
var _ driving.QAService = (*QAService)(nil)

// CandidateRetriever produces the vector search window for a question.
type CandidateRetriever interface {
	Retrieve(ctx context.Context, query string, k int) []domain.Candidate
}

// QAService answers questions: retrieve 2k candidates, optionally rerank
// them, keep the top k and synthesise an answer.
type QAService struct {
	retriever   CandidateRetriever
	reranker    *ranking.Reranker
	synthesizer *answer.Synthesizer
}

// NewQAService creates a QA service. Nil reranker or synthesizer fall back
// to the defaults.
func NewQAService(retriever CandidateRetriever, reranker *ranking.Reranker, synthesizer *answer.Synthesizer) *QAService {
	if reranker == nil {
		reranker = ranking.NewReranker()
	}
	if synthesizer == nil {
		synthesizer = answer.NewSynthesizer()
	}
	return &QAService{
		retriever:   retriever,
		reranker:    reranker,
		synthesizer: synthesizer,
	}
}

// Ask validates the request and runs the pipeline. Only invalid input is
// reported as an error.
func (s *QAService) Ask(ctx context.Context, req domain.QueryRequest) (*domain.AnswerResult, error) {
	req = req.WithDefaults()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	logger.Section("Query")
	logger.Debug("Query: %q, k=%d, mode=%s", req.Query, req.K, req.Mode)
	start := time.Now()

	candidates := s.retriever.Retrieve(ctx, req.Query, 2*req.K)
	logger.Debug("Retrieved %d candidates", len(candidates))

	var (
		ranked       []domain.ScoredCandidate
		rerankerUsed bool
	)
	switch {
	case req.Mode == domain.ModeBaseline:
		ranked = domain.Unranked(candidates)
	case len(candidates) > 0:
		ranked = s.reranker.Rerank(req.Query, candidates)
		rerankerUsed = true
	}

	if len(ranked) > req.K {
		ranked = ranked[:req.K]
	}

	result := s.synthesizer.Synthesize(ranked, rerankerUsed)
	result.Query = req.Query

	logger.Info("Answered in %s: %d contexts, answer=%t, reranked=%t",
		time.Since(start).Round(time.Millisecond), len(result.Contexts), result.HasAnswer(), rerankerUsed)
	return &result, nil
}
