package services

import (
	"context"
	"errors"
	"strings"

	"github.com/custodia-labs/safetyqa/internal/core/domain"
)

// mockEmbeddingService maps text to a two-dimensional vector: the share of
// words equal to "fire" and the share that are not.
type mockEmbeddingService struct {
	err       error
	batchErrs map[int]error // keyed by batch call number, 1-based
	calls     int
	texts     []string
}

func (m *mockEmbeddingService) vector(text string) []float32 {
	words := strings.Fields(strings.ToLower(text))
	if len(words) == 0 {
		return []float32{0, 1}
	}
	var fire float32
	for _, w := range words {
		if strings.Trim(w, ".,!?") == "fire" {
			fire++
		}
	}
	n := float32(len(words))
	return []float32{fire / n, (n - fire) / n}
}

func (m *mockEmbeddingService) Embed(_ context.Context, text string) ([]float32, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.texts = append(m.texts, text)
	return m.vector(text), nil
}

func (m *mockEmbeddingService) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if err := m.batchErrs[m.calls]; err != nil {
		return nil, err
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = m.vector(t)
	}
	return out, nil
}

func (m *mockEmbeddingService) Dimensions() int { return 2 }
func (m *mockEmbeddingService) ModelName() string { return "mock" }
func (m *mockEmbeddingService) Ping(_ context.Context) error { return m.err }
func (m *mockEmbeddingService) Close() error { return nil }

// mockVectorStore returns canned matches or an error.
type mockVectorStore struct {
	matches []domain.VectorMatch
	err     error
	topN    int
}

func (m *mockVectorStore) Upsert(_ context.Context, _ []domain.EmbeddingRecord) error { return m.err }
func (m *mockVectorStore) DeleteAll(_ context.Context) error { return m.err }
func (m *mockVectorStore) Count(_ context.Context) (int, error) { return len(m.matches), m.err }
func (m *mockVectorStore) Close() error { return nil }

func (m *mockVectorStore) Query(_ context.Context, _ []float32, topN int) ([]domain.VectorMatch, error) {
	m.topN = topN
	if m.err != nil {
		return nil, m.err
	}
	return m.matches, nil
}

// mockCatalog serves a fixed source list and question bank.
type mockCatalog struct {
	sources   []domain.SourceEntry
	questions []domain.QuestionCategory
	err       error
}

func (m *mockCatalog) LoadSources(_ context.Context) ([]domain.SourceEntry, error) {
	return m.sources, m.err
}

func (m *mockCatalog) LoadQuestions(_ context.Context) ([]domain.QuestionCategory, error) {
	return m.questions, m.err
}

// mockLocator maps titles to paths.
type mockLocator struct {
	paths map[string]string
	err   error
}

func (m *mockLocator) List(_ context.Context) ([]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	files := make([]string, 0, len(m.paths))
	for _, p := range m.paths {
		files = append(files, p)
	}
	return files, nil
}

func (m *mockLocator) Locate(_ context.Context, title string) (string, error) {
	if p, ok := m.paths[title]; ok {
		return p, nil
	}
	return "", domain.ErrPDFNotFound
}

// mockTextSource returns canned text per path.
type mockTextSource struct {
	texts map[string]string
}

func (m *mockTextSource) ExtractText(_ context.Context, path string) (string, error) {
	t, ok := m.texts[path]
	if !ok {
		return "", errors.New("unreadable pdf")
	}
	return t, nil
}

// mockRetriever returns canned candidates and records the requested k.
type mockRetriever struct {
	candidates []domain.Candidate
	k          int
	calls      int
}

func (m *mockRetriever) Retrieve(_ context.Context, _ string, k int) []domain.Candidate {
	m.calls++
	m.k = k
	if len(m.candidates) > k {
		return m.candidates[:k]
	}
	return m.candidates
}
