package postprocessors

import (
	"github.com/custodia-labs/safetyqa/internal/core/domain"
	"github.com/custodia-labs/safetyqa/internal/core/ports/driven"
	"github.com/custodia-labs/safetyqa/internal/postprocessors/chunker"
	"github.com/custodia-labs/safetyqa/internal/postprocessors/minwords"
)

// RegisterDefaults registers all built-in processors with the registry.
func RegisterDefaults(r *Registry) {
	r.Register("chunker", buildChunker)
	r.Register("minwords", buildMinWords)
}

// DefaultStages returns the ingestion pipeline: sentence chunking followed
// by dropping chunks that are too short to be useful.
func DefaultStages(cfg domain.ChunkingSettings) []Stage {
	return []Stage{
		{Name: "chunker", Config: map[string]any{"chunk_size": cfg.ChunkSize, "overlap": cfg.Overlap}},
		{Name: "minwords", Config: map[string]any{"min_words": cfg.MinWords}},
	}
}

// NewDefaultPipeline builds the ingestion pipeline for the given settings.
func NewDefaultPipeline(cfg domain.ChunkingSettings) (*Pipeline, error) {
	r := NewRegistry()
	RegisterDefaults(r)
	return r.BuildPipeline(DefaultStages(cfg)...)
}

// buildChunker creates a chunker processor from generic config.
// Supported config keys:
//   - chunk_size (int): maximum words per chunk (default: 300)
//   - overlap (int): overlap budget in words (default: 50)
func buildChunker(cfg map[string]any) (driven.PostProcessor, error) {
	var opts []chunker.Option

	if size, ok := getIntFromConfig(cfg, "chunk_size"); ok {
		opts = append(opts, chunker.WithChunkSize(size))
	}
	if overlap, ok := getIntFromConfig(cfg, "overlap"); ok {
		opts = append(opts, chunker.WithOverlap(overlap))
	}

	return chunker.New(opts...), nil
}

// buildMinWords creates a size filter from generic config.
// Supported config keys:
//   - min_words (int): minimum words a chunk must have (default: 10)
func buildMinWords(cfg map[string]any) (driven.PostProcessor, error) {
	if n, ok := getIntFromConfig(cfg, "min_words"); ok {
		return minwords.New(n), nil
	}
	return minwords.New(minwords.DefaultMinWords), nil
}

// getIntFromConfig extracts an int from a generic config map.
// Handles int, int64, and float64 types that may come from TOML/JSON parsing.
func getIntFromConfig(cfg map[string]any, key string) (int, bool) {
	val, ok := cfg[key]
	if !ok {
		return 0, false
	}

	switch v := val.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}
