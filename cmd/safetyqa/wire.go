package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/custodia-labs/safetyqa/internal/adapters/driven/config/file"
	"github.com/custodia-labs/safetyqa/internal/adapters/driven/embedding/hashing"
	"github.com/custodia-labs/safetyqa/internal/adapters/driven/embedding/ollama"
	"github.com/custodia-labs/safetyqa/internal/adapters/driven/embedding/openai"
	"github.com/custodia-labs/safetyqa/internal/adapters/driven/embedding/ratelimit"
	"github.com/custodia-labs/safetyqa/internal/adapters/driven/locator"
	"github.com/custodia-labs/safetyqa/internal/adapters/driven/sources"
	"github.com/custodia-labs/safetyqa/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/safetyqa/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/safetyqa/internal/adapters/driven/vector/pgvector"
	"github.com/custodia-labs/safetyqa/internal/adapters/driving/cli"
	"github.com/custodia-labs/safetyqa/internal/answer"
	"github.com/custodia-labs/safetyqa/internal/core/domain"
	"github.com/custodia-labs/safetyqa/internal/core/ports/driven"
	"github.com/custodia-labs/safetyqa/internal/core/services"
	"github.com/custodia-labs/safetyqa/internal/logger"
	"github.com/custodia-labs/safetyqa/internal/normalisers/pdf"
	"github.com/custodia-labs/safetyqa/internal/postprocessors"
	"github.com/custodia-labs/safetyqa/internal/ranking"
)

// bootstrap builds the services from the config file at configPath.
//
// Only a broken config file or database is fatal. Invalid settings leave
// just the settings service available so they can be fixed, and an
// unreachable embedding provider or vector store leaves queries returning
// empty results.
func bootstrap(ctx context.Context, configPath string) (cli.Services, func(), error) {
	if configPath == "" {
		p, err := file.DefaultPath()
		if err != nil {
			return cli.Services{}, nil, err
		}
		configPath = p
	}

	configStore, err := file.NewConfigStore(configPath)
	if err != nil {
		return cli.Services{}, nil, fmt.Errorf("opening config: %w", err)
	}

	dataDir := filepath.Dir(configPath)
	settingsService := services.NewSettingsService(configStore, dataDir)
	out := cli.Services{Settings: settingsService}

	var closers []io.Closer
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i].Close(); err != nil {
				logger.Warn("close: %v", err)
			}
		}
	}

	settings, err := settingsService.Get()
	if err != nil {
		return out, cleanup, fmt.Errorf("loading settings: %w", err)
	}
	if err := settings.Validate(); err != nil {
		logger.Warn("Settings are invalid, fix them with 'safetyqa settings set': %v", err)
		return out, cleanup, nil
	}

	store, err := sqlite.NewStore(settings.Data.Dir)
	if err != nil {
		return out, cleanup, fmt.Errorf("opening database: %w", err)
	}
	closers = append(closers, store)

	pipeline, err := postprocessors.NewDefaultPipeline(settings.Chunking)
	if err != nil {
		cleanup()
		return cli.Services{}, nil, fmt.Errorf("building chunking pipeline: %w", err)
	}

	embedder, err := newEmbeddingService(settings.Embedding)
	if err != nil {
		logger.Warn("Embedding provider unavailable: %v", err)
	} else {
		closers = append(closers, embedder)
	}

	vectors, err := newVectorStore(ctx, settings.Vector, store, embedder)
	if err != nil {
		logger.Warn("Vector store unavailable: %v", err)
	} else {
		closers = append(closers, vectors)
	}

	out.Ingestion = services.NewIngestionService(services.IngestionDeps{
		Documents:  store.DocumentStore(),
		Catalog:    sources.NewCatalog(settings.Data.Resolve(settings.Data.SourcesFile), settings.Data.Resolve(settings.Data.QuestionsFile)),
		Locator:    locator.New(settings.Data.Resolve(settings.Data.PDFDir)),
		TextSource: pdf.New(),
		Pipeline:   pipeline,
		Embedding:  embedder,
		Vectors:    vectors,
	})

	out.QA = services.NewQAService(
		services.NewRetrievalService(embedder, vectors),
		ranking.NewReranker(ranking.WithAlpha(settings.Ranking.Alpha)),
		answer.NewSynthesizer(
			answer.WithConfidenceThreshold(settings.Ranking.ConfidenceThreshold),
			answer.WithMaxChars(settings.Ranking.MaxAnswerChars),
		),
	)

	logger.Debug("data dir %s, embedding %s, vectors %s", settings.Data.Dir, settings.Embedding.Provider, settings.Vector.Backend)
	return out, cleanup, nil
}

// newEmbeddingService returns a nil interface on error.
func newEmbeddingService(cfg domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	var svc driven.EmbeddingService

	switch cfg.Provider {
	case domain.EmbeddingProviderLocal:
		// Local hashing is CPU-bound and never rate limited.
		return hashing.New(cfg.Dimensions), nil
	case domain.EmbeddingProviderOpenAI:
		o, err := openai.NewEmbeddingService(openai.Config{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
		})
		if err != nil {
			return nil, err
		}
		svc = o
	case domain.EmbeddingProviderOllama:
		svc = ollama.NewEmbeddingService(ollama.Config{
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
		})
	default:
		return nil, fmt.Errorf("%w: unknown embedding provider %q", domain.ErrInvalidConfig, cfg.Provider)
	}

	return ratelimit.Wrap(svc, ratelimit.Config{RequestsPerSecond: cfg.RateLimit}), nil
}

// newVectorStore returns a nil interface on error.
func newVectorStore(
	ctx context.Context,
	cfg domain.VectorSettings,
	store *sqlite.Store,
	embedder driven.EmbeddingService,
) (driven.VectorStore, error) {
	switch cfg.Backend {
	case domain.VectorBackendSQLite:
		return store.VectorStore(), nil
	case domain.VectorBackendMemory:
		return memory.NewVectorStore(), nil
	case domain.VectorBackendPGVector:
		if embedder == nil {
			return nil, fmt.Errorf("%w: pgvector needs the embedding dimension", domain.ErrEmbeddingUnavailable)
		}
		pg, err := pgvector.New(ctx, pgvector.Config{
			DSN:       cfg.DatabaseURL,
			Dimension: embedder.Dimensions(),
		})
		if err != nil {
			return nil, err
		}
		return pg, nil
	default:
		return nil, fmt.Errorf("%w: unknown vector backend %q", domain.ErrInvalidConfig, cfg.Backend)
	}
}
