// Package ratelimit wraps an embedding service with a token bucket so bulk
// embedding runs stay under the provider's request quota.
package ratelimit

import (
	"context"
	"fmt"
	"math"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/safetyqa/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// Config holds rate limiting configuration.
type Config struct {
	// RequestsPerSecond is the sustained rate. Zero or less disables limiting.
	RequestsPerSecond float64

	// BurstSize is the maximum burst. Defaults to ceil(RequestsPerSecond).
	BurstSize int
}

// EmbeddingService delays each call to the wrapped service until the token
// bucket allows it. One call is one request regardless of batch size.
type EmbeddingService struct {
	next    driven.EmbeddingService
	limiter *rate.Limiter
}

// Wrap returns next unchanged when limiting is disabled.
func Wrap(next driven.EmbeddingService, cfg Config) driven.EmbeddingService {
	if next == nil || cfg.RequestsPerSecond <= 0 {
		return next
	}
	return New(next, cfg)
}

// New creates a rate-limited embedding service.
func New(next driven.EmbeddingService, cfg Config) *EmbeddingService {
	burst := cfg.BurstSize
	if burst <= 0 {
		burst = int(math.Ceil(cfg.RequestsPerSecond))
	}
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	return &EmbeddingService{
		next:    next,
		limiter: rate.NewLimiter(limit, max(burst, 1)),
	}
}

func (s *EmbeddingService) wait(ctx context.Context) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("waiting for rate limit: %w", err)
	}
	return nil
}

// Embed waits for a token, then embeds text.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	return s.next.Embed(ctx, text)
}

// EmbedBatch waits for a token, then embeds texts.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	return s.next.EmbedBatch(ctx, texts)
}

// Dimensions returns the wrapped service's vector size.
func (s *EmbeddingService) Dimensions() int { return s.next.Dimensions() }

// ModelName returns the wrapped service's model name.
func (s *EmbeddingService) ModelName() string { return s.next.ModelName() }

// Ping is not rate limited.
func (s *EmbeddingService) Ping(ctx context.Context) error { return s.next.Ping(ctx) }

// Close closes the wrapped service.
func (s *EmbeddingService) Close() error { return s.next.Close() }
