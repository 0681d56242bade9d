package domain

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings("/tmp/safetyqa")

	assert.Equal(t, "/tmp/safetyqa", s.Data.Dir)
	assert.Equal(t, EmbeddingProviderLocal, s.Embedding.Provider)
	assert.Equal(t, VectorBackendSQLite, s.Vector.Backend)
	assert.Equal(t, 300, s.Chunking.ChunkSize)
	assert.Equal(t, 50, s.Chunking.Overlap)
	assert.Equal(t, 10, s.Chunking.MinWords)
	assert.InDelta(t, 0.6, s.Ranking.Alpha, 1e-9)
	assert.InDelta(t, 0.3, s.Ranking.ConfidenceThreshold, 1e-9)
	assert.Equal(t, 500, s.Ranking.MaxAnswerChars)
	require.NoError(t, s.Validate())
}

func TestSettings_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Settings)
	}{
		{"unknown provider", func(s *Settings) { s.Embedding.Provider = "cohere" }},
		{"openai without key", func(s *Settings) { s.Embedding.Provider = EmbeddingProviderOpenAI }},
		{"unknown backend", func(s *Settings) { s.Vector.Backend = "chroma" }},
		{"pgvector without url", func(s *Settings) { s.Vector.Backend = VectorBackendPGVector }},
		{"overlap not below chunk size", func(s *Settings) { s.Chunking.Overlap = 300 }},
		{"alpha out of range", func(s *Settings) { s.Ranking.Alpha = 1.5 }},
		{"zero answer length", func(s *Settings) { s.Ranking.MaxAnswerChars = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings("/tmp")
			tt.mutate(&s)
			assert.ErrorIs(t, s.Validate(), ErrInvalidConfig)
		})
	}
}

func TestEmbeddingProvider(t *testing.T) {
	assert.True(t, EmbeddingProviderOllama.IsValid())
	assert.False(t, EmbeddingProvider("x").IsValid())
	assert.True(t, EmbeddingProviderOpenAI.RequiresAPIKey())
	assert.False(t, EmbeddingProviderLocal.RequiresAPIKey())
	assert.Equal(t, unknownDescription, EmbeddingProvider("x").Description())
}

func TestDataSettings_Resolve(t *testing.T) {
	d := DataSettings{BaseDir: "/srv/qa"}

	assert.Equal(t, filepath.Join("/srv/qa", "data", "pdfs"), d.Resolve(filepath.Join("data", "pdfs")))
	assert.Equal(t, "/abs/pdfs", d.Resolve("/abs/pdfs"))
	assert.Equal(t, "", d.Resolve(""))
	assert.Equal(t, "rel", DataSettings{}.Resolve("rel"))
}
