package services

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/custodia-labs/safetyqa/internal/core/domain"
	"github.com/custodia-labs/safetyqa/internal/core/ports/driven"
	"github.com/custodia-labs/safetyqa/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyBaseDir        = "data.base_dir"
	keySourcesFile    = "data.sources_file"
	keyQuestionsFile  = "data.questions_file"
	keyPDFDir         = "data.pdf_dir"
	keyEmbedProvider  = "embedding.provider"
	keyEmbedModel     = "embedding.model"
	keyEmbedBaseURL   = "embedding.base_url"
	keyEmbedAPIKey    = "embedding.api_key"
	keyEmbedDims      = "embedding.dimensions"
	keyEmbedRateLimit = "embedding.rate_limit"
	keyVectorBackend  = "vector.backend"
	keyVectorDBURL    = "vector.database_url"
	keyChunkSize      = "chunking.chunk_size"
	keyChunkOverlap   = "chunking.overlap"
	keyChunkMinWords  = "chunking.min_words"
	keyAlpha          = "ranking.alpha"
	keyThreshold      = "answer.confidence_threshold"
	keyMaxChars       = "answer.max_chars"
)

// Environment variables consulted when the config file leaves a value empty.
const (
	EnvOpenAIAPIKey = "OPENAI_API_KEY"
	EnvDatabaseURL  = "SAFETYQA_DATABASE_URL"
)

type valueKind int

const (
	kindString valueKind = iota
	kindInt
	kindFloat
)

// settingKeys lists every settable key in display order.
var settingKeys = []struct {
	key  string
	kind valueKind
}{
	{keyBaseDir, kindString},
	{keySourcesFile, kindString},
	{keyQuestionsFile, kindString},
	{keyPDFDir, kindString},
	{keyEmbedProvider, kindString},
	{keyEmbedModel, kindString},
	{keyEmbedBaseURL, kindString},
	{keyEmbedAPIKey, kindString},
	{keyEmbedDims, kindInt},
	{keyEmbedRateLimit, kindFloat},
	{keyVectorBackend, kindString},
	{keyVectorDBURL, kindString},
	{keyChunkSize, kindInt},
	{keyChunkOverlap, kindInt},
	{keyChunkMinWords, kindInt},
	{keyAlpha, kindFloat},
	{keyThreshold, kindFloat},
	{keyMaxChars, kindInt},
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	dataDir     string
	getenv      func(string) string
}

// NewSettingsService creates a settings service for the data directory.
func NewSettingsService(configStore driven.ConfigStore, dataDir string) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		dataDir:     dataDir,
		getenv:      os.Getenv,
	}
}

// WithEnv replaces the environment lookup, for tests.
func (s *SettingsService) WithEnv(getenv func(string) string) *SettingsService {
	s.getenv = getenv
	return s
}

// Get retrieves the effective application settings.
func (s *SettingsService) Get() (*domain.Settings, error) {
	d := domain.DefaultSettings(s.dataDir)

	settings := &domain.Settings{
		Data: domain.DataSettings{
			Dir:           d.Data.Dir,
			BaseDir:       s.getString(keyBaseDir, d.Data.BaseDir),
			SourcesFile:   s.getString(keySourcesFile, d.Data.SourcesFile),
			QuestionsFile: s.getString(keyQuestionsFile, d.Data.QuestionsFile),
			PDFDir:        s.getString(keyPDFDir, d.Data.PDFDir),
		},
		Embedding: domain.EmbeddingSettings{
			Provider:   domain.EmbeddingProvider(s.getString(keyEmbedProvider, string(d.Embedding.Provider))),
			Model:      s.configStore.GetString(keyEmbedModel),
			BaseURL:    s.configStore.GetString(keyEmbedBaseURL),
			APIKey:     s.getString(keyEmbedAPIKey, s.getenv(EnvOpenAIAPIKey)),
			Dimensions: s.getInt(keyEmbedDims, d.Embedding.Dimensions),
			RateLimit:  s.getFloat(keyEmbedRateLimit, d.Embedding.RateLimit),
		},
		Vector: domain.VectorSettings{
			Backend:     domain.VectorBackend(s.getString(keyVectorBackend, string(d.Vector.Backend))),
			DatabaseURL: s.getString(keyVectorDBURL, s.getenv(EnvDatabaseURL)),
		},
		Chunking: domain.ChunkingSettings{
			ChunkSize: s.getInt(keyChunkSize, d.Chunking.ChunkSize),
			Overlap:   s.getInt(keyChunkOverlap, d.Chunking.Overlap),
			MinWords:  s.getInt(keyChunkMinWords, d.Chunking.MinWords),
		},
		Ranking: domain.RankingSettings{
			Alpha:               s.getFloat(keyAlpha, d.Ranking.Alpha),
			ConfidenceThreshold: s.getFloat(keyThreshold, d.Ranking.ConfidenceThreshold),
			MaxAnswerChars:      s.getInt(keyMaxChars, d.Ranking.MaxAnswerChars),
		},
	}

	return settings, nil
}

// Set parses and stores a single setting. The change is rejected if the
// resulting settings do not validate.
func (s *SettingsService) Set(key, value string) error {
	kind, ok := kindOf(key)
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrConfigNotFound, key)
	}

	var parsed any
	switch kind {
	case kindInt:
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("%w: %s must be an integer", domain.ErrInvalidConfig, key)
		}
		parsed = n
	case kindFloat:
		f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return fmt.Errorf("%w: %s must be a number", domain.ErrInvalidConfig, key)
		}
		parsed = f
	default:
		parsed = value
	}

	previous, existed := s.configStore.Get(key)
	if err := s.configStore.Set(key, parsed); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}

	settings, err := s.Get()
	if err == nil {
		err = settings.Validate()
	}
	if err != nil {
		if existed {
			_ = s.configStore.Set(key, previous)
		} else {
			_ = s.configStore.Delete(key)
		}
		return err
	}
	return nil
}

// Keys returns every settable key in display order.
func (s *SettingsService) Keys() []string {
	keys := make([]string, len(settingKeys))
	for i, k := range settingKeys {
		keys[i] = k.key
	}
	return keys
}

func kindOf(key string) (valueKind, bool) {
	for _, k := range settingKeys {
		if k.key == key {
			return k.kind, true
		}
	}
	return 0, false
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	if val := s.configStore.GetString(key); val != "" {
		return val
	}
	return defaultVal
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	if _, ok := s.configStore.Get(key); !ok {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, ok := s.configStore.Get(key); !ok {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}
