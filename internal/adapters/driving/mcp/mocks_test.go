package mcp

import (
	"context"

	"github.com/custodia-labs/safetyqa/internal/core/domain"
)

// mockQAService is a mock implementation of driving.QAService.
type mockQAService struct {
	result  *domain.AnswerResult
	err     error
	lastReq domain.QueryRequest
}

func (m *mockQAService) Ask(_ context.Context, req domain.QueryRequest) (*domain.AnswerResult, error) {
	m.lastReq = req
	if m.err != nil {
		return nil, m.err
	}
	if m.result == nil {
		return &domain.AnswerResult{Query: req.Query}, nil
	}
	return m.result, nil
}

// mockIngestionService is a mock implementation of driving.IngestionService.
type mockIngestionService struct {
	diagnostics domain.Diagnostics
	report      *domain.PDFReport
	questions   []domain.QuestionCategory
	err         error
}

func (m *mockIngestionService) LoadSources(_ context.Context) (domain.IngestStats, error) {
	return domain.IngestStats{}, m.err
}

func (m *mockIngestionService) ProcessDocuments(_ context.Context) (domain.IngestStats, error) {
	return domain.IngestStats{}, m.err
}

func (m *mockIngestionService) GenerateEmbeddings(_ context.Context) (domain.IngestStats, error) {
	return domain.IngestStats{}, m.err
}

func (m *mockIngestionService) Initialize(_ context.Context) (domain.IngestStats, error) {
	return domain.IngestStats{}, m.err
}

func (m *mockIngestionService) Diagnostics(_ context.Context) (domain.Diagnostics, error) {
	return m.diagnostics, m.err
}

func (m *mockIngestionService) CheckPDFs(_ context.Context) (*domain.PDFReport, error) {
	return m.report, m.err
}

func (m *mockIngestionService) Questions(_ context.Context) ([]domain.QuestionCategory, error) {
	return m.questions, m.err
}
