package cli

import (
	"context"

	"github.com/custodia-labs/safetyqa/internal/core/domain"
)

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
	if m.result != nil {
		return m.result, nil
	}
	return &domain.AnswerResult{Query: req.Query, Contexts: []domain.AnswerContext{}}, nil
}

type mockIngestionService struct {
	calls       []string
	stats       domain.IngestStats
	diagnostics domain.Diagnostics
	report      *domain.PDFReport
	questions   []domain.QuestionCategory
	err         error
}

func (m *mockIngestionService) LoadSources(_ context.Context) (domain.IngestStats, error) {
	m.calls = append(m.calls, "load")
	return m.stats, m.err
}

func (m *mockIngestionService) ProcessDocuments(_ context.Context) (domain.IngestStats, error) {
	m.calls = append(m.calls, "process")
	return m.stats, m.err
}

func (m *mockIngestionService) GenerateEmbeddings(_ context.Context) (domain.IngestStats, error) {
	m.calls = append(m.calls, "embed")
	return m.stats, m.err
}

func (m *mockIngestionService) Initialize(_ context.Context) (domain.IngestStats, error) {
	m.calls = append(m.calls, "init")
	return m.stats, m.err
}

func (m *mockIngestionService) Diagnostics(_ context.Context) (domain.Diagnostics, error) {
	return m.diagnostics, m.err
}

func (m *mockIngestionService) CheckPDFs(_ context.Context) (*domain.PDFReport, error) {
	if m.report == nil {
		return &domain.PDFReport{}, m.err
	}
	return m.report, m.err
}

func (m *mockIngestionService) Questions(_ context.Context) ([]domain.QuestionCategory, error) {
	return m.questions, m.err
}

type mockSettingsService struct {
	settings *domain.Settings
	values   map[string]string
	err      error
}

func (m *mockSettingsService) Get() (*domain.Settings, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.settings == nil {
		s := domain.DefaultSettings("/tmp/safetyqa")
		return &s, nil
	}
	return m.settings, nil
}

func (m *mockSettingsService) Set(key, value string) error {
	if m.err != nil {
		return m.err
	}
	if m.values == nil {
		m.values = map[string]string{}
	}
	m.values[key] = value
	return nil
}

func (m *mockSettingsService) Keys() []string {
	return []string{"embedding.provider", "ranking.alpha"}
}
