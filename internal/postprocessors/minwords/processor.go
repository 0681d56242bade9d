// Package minwords drops chunks that are too short to be worth retrieving.
package minwords

import (
	"context"

	"github.com/custodia-labs/safetyqa/internal/core/domain"
	"github.com/custodia-labs/safetyqa/internal/normalisers/text"
)

// DefaultMinWords is the default minimum chunk length in words.
const DefaultMinWords = 10

// Processor filters chunks below a word count. Surviving chunks keep their
// original index, so indices may have gaps.
type Processor struct {
	minWords int
}

// New creates a filter. A non-positive minimum keeps every chunk.
func New(minWords int) *Processor {
	return &Processor{minWords: minWords}
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "minwords"
}

// Process returns the chunks with at least minWords words.
func (p *Processor) Process(_ context.Context, _ *domain.Document, chunks []domain.Chunk) ([]domain.Chunk, error) {
	if p.minWords <= 0 {
		return chunks, nil
	}
	kept := chunks[:0:0]
	for _, c := range chunks {
		if text.WordCount(c.OriginalText) >= p.minWords {
			kept = append(kept, c)
		}
	}
	return kept, nil
}
