package domain

import (
	"fmt"
	"path/filepath"
)

const unknownDescription = "Unknown"

// EmbeddingProvider identifies the service that turns text into vectors.
type EmbeddingProvider string

// Available embedding providers.
const (
	// EmbeddingProviderLocal is the built-in hashing embedder. It needs no network.
	EmbeddingProviderLocal EmbeddingProvider = "local"

	// EmbeddingProviderOpenAI is the OpenAI embeddings API.
	EmbeddingProviderOpenAI EmbeddingProvider = "openai"

	// EmbeddingProviderOllama is a local Ollama instance.
	EmbeddingProviderOllama EmbeddingProvider = "ollama"
)

// IsValid returns true if the provider is recognised.
func (p EmbeddingProvider) IsValid() bool {
	switch p {
	case EmbeddingProviderLocal, EmbeddingProviderOpenAI, EmbeddingProviderOllama:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p EmbeddingProvider) RequiresAPIKey() bool {
	return p == EmbeddingProviderOpenAI
}

// Description returns a human-readable description of the provider.
func (p EmbeddingProvider) Description() string {
	switch p {
	case EmbeddingProviderLocal:
		return "Local hashing embedder (offline)"
	case EmbeddingProviderOpenAI:
		return "OpenAI (cloud)"
	case EmbeddingProviderOllama:
		return "Ollama (local)"
	default:
		return unknownDescription
	}
}

// VectorBackend identifies where chunk vectors are stored.
type VectorBackend string

// Available vector backends.
const (
	// VectorBackendSQLite stores vectors next to documents in the SQLite database.
	VectorBackendSQLite VectorBackend = "sqlite"

	// VectorBackendPGVector stores vectors in PostgreSQL with the pgvector extension.
	VectorBackendPGVector VectorBackend = "pgvector"

	// VectorBackendMemory keeps vectors in process memory. Nothing survives a restart.
	VectorBackendMemory VectorBackend = "memory"
)

// IsValid returns true if the backend is recognised.
func (b VectorBackend) IsValid() bool {
	switch b {
	case VectorBackendSQLite, VectorBackendPGVector, VectorBackendMemory:
		return true
	default:
		return false
	}
}

// DataSettings locates the input files.
type DataSettings struct {
	// Dir holds the SQLite database. Relative file paths below resolve against BaseDir.
	Dir string

	// BaseDir is the directory that relative SourcesFile, QuestionsFile and PDFDir
	// paths are resolved against. Defaults to the working directory.
	BaseDir string

	SourcesFile   string
	QuestionsFile string
	PDFDir        string
}

// Resolve returns p joined to BaseDir unless p is absolute.
func (d DataSettings) Resolve(p string) string {
	if p == "" || filepath.IsAbs(p) || d.BaseDir == "" {
		return p
	}
	return filepath.Join(d.BaseDir, p)
}

// EmbeddingSettings configures the embedding provider.
type EmbeddingSettings struct {
	Provider EmbeddingProvider
	Model    string
	BaseURL  string
	APIKey   string

	// Dimensions is only used by the local provider.
	Dimensions int

	// RateLimit caps embedding requests per second. Zero disables limiting.
	RateLimit float64
}

// VectorSettings configures the vector store.
type VectorSettings struct {
	Backend     VectorBackend
	DatabaseURL string
}

// ChunkingSettings configures the chunking pipeline.
type ChunkingSettings struct {
	ChunkSize int
	Overlap   int
	MinWords  int
}

// RankingSettings configures reranking and answer synthesis.
type RankingSettings struct {
	Alpha               float64
	ConfidenceThreshold float64
	MaxAnswerChars      int
}

// Settings is the effective application configuration.
type Settings struct {
	Data      DataSettings
	Embedding EmbeddingSettings
	Vector    VectorSettings
	Chunking  ChunkingSettings
	Ranking   RankingSettings
}

// Default settings values.
const (
	DefaultChunkSize           = 300
	DefaultOverlap             = 50
	DefaultMinChunkWords       = 10
	DefaultAlpha               = 0.6
	DefaultConfidenceThreshold = 0.3
	DefaultMaxAnswerChars      = 500
	DefaultLocalDimensions     = 384
	DefaultEmbeddingRateLimit  = 10
)

// DefaultSettings returns settings for a fresh installation rooted at dataDir.
func DefaultSettings(dataDir string) Settings {
	return Settings{
		Data: DataSettings{
			Dir:           dataDir,
			SourcesFile:   filepath.Join("data", "sources.json"),
			QuestionsFile: filepath.Join("data", "questions.json"),
			PDFDir:        filepath.Join("data", "pdfs"),
		},
		Embedding: EmbeddingSettings{
			Provider:   EmbeddingProviderLocal,
			Dimensions: DefaultLocalDimensions,
			RateLimit:  DefaultEmbeddingRateLimit,
		},
		Vector: VectorSettings{
			Backend: VectorBackendSQLite,
		},
		Chunking: ChunkingSettings{
			ChunkSize: DefaultChunkSize,
			Overlap:   DefaultOverlap,
			MinWords:  DefaultMinChunkWords,
		},
		Ranking: RankingSettings{
			Alpha:               DefaultAlpha,
			ConfidenceThreshold: DefaultConfidenceThreshold,
			MaxAnswerChars:      DefaultMaxAnswerChars,
		},
	}
}

// Validate checks that the settings can be used to build the application.
func (s Settings) Validate() error {
	if !s.Embedding.Provider.IsValid() {
		return fmt.Errorf("%w: unknown embedding provider %q", ErrInvalidConfig, s.Embedding.Provider)
	}
	if s.Embedding.Provider.RequiresAPIKey() && s.Embedding.APIKey == "" {
		return fmt.Errorf("%w: %s requires an API key", ErrInvalidConfig, s.Embedding.Provider)
	}
	if !s.Vector.Backend.IsValid() {
		return fmt.Errorf("%w: unknown vector backend %q", ErrInvalidConfig, s.Vector.Backend)
	}
	if s.Vector.Backend == VectorBackendPGVector && s.Vector.DatabaseURL == "" {
		return fmt.Errorf("%w: pgvector requires vector.database_url", ErrInvalidConfig)
	}
	if s.Chunking.ChunkSize <= 0 || s.Chunking.Overlap < 0 || s.Chunking.Overlap >= s.Chunking.ChunkSize {
		return fmt.Errorf("%w: chunk_size must be positive and larger than overlap", ErrInvalidConfig)
	}
	if s.Ranking.Alpha < 0 || s.Ranking.Alpha > 1 {
		return fmt.Errorf("%w: alpha must be within [0,1]", ErrInvalidConfig)
	}
	if s.Ranking.MaxAnswerChars <= 0 {
		return fmt.Errorf("%w: answer max_chars must be positive", ErrInvalidConfig)
	}
	return nil
}
