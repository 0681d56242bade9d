// Package chunker splits document text into overlapping, sentence-aligned chunks.
package chunker

import (
	"context"
	"strings"
	"unicode"

	"github.com/custodia-labs/safetyqa/internal/core/domain"
	"github.com/custodia-labs/safetyqa/internal/normalisers/text"
)

// DefaultChunkSize is the default maximum number of words per chunk.
const DefaultChunkSize = 300

// DefaultChunkOverlap is the default overlap budget in words.
const DefaultChunkOverlap = 50

// MinTextWords is the smallest normalised text, in words, that is chunked at all.
const MinTextWords = 20

// Processor splits document content into sentence-aligned chunks.
// It implements the PostProcessor interface.
type Processor struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the maximum chunk size in words.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap budget in words. The overlap is always made
// of whole sentences taken from the end of the previous chunk.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(p)
	}

	// Ensure overlap doesn't exceed chunk size
	if p.overlap >= p.chunkSize {
		p.overlap = p.chunkSize / 4
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// Process chunks the document content. Input chunks are ignored.
func (p *Processor) Process(ctx context.Context, doc *domain.Document, _ []domain.Chunk) ([]domain.Chunk, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	parts := p.Split(doc.Content)
	if len(parts) == 0 {
		return nil, nil
	}

	// Split works on normalised text, so both fields hold the same chunk.
	chunks := make([]domain.Chunk, 0, len(parts))
	for i, part := range parts {
		chunks = append(chunks, domain.Chunk{
			DocumentID:   doc.ID,
			Index:        i,
			Text:         part,
			OriginalText: part,
		})
	}
	return chunks, nil
}

// Split normalises s and groups its sentences into chunks of at most
// chunkSize words. A sentence is never split. A sentence longer than
// chunkSize closes the current chunk and starts the next one after the
// carried overlap sentences, so that chunk exceeds chunkSize. Each new chunk
// starts with the trailing sentences of the previous one, up to overlap
// words, and never with all of them. Texts under MinTextWords words yield no
// chunks.
func (p *Processor) Split(s string) []string {
	s = text.Normalise(s)
	if text.WordCount(s) < MinTextWords {
		return nil
	}

	var (
		chunks  []string
		current []string
		counts  []int
		words   int
	)

	for _, sentence := range Sentences(s) {
		n := text.WordCount(sentence)

		if words+n > p.chunkSize && len(current) > 0 {
			chunks = append(chunks, strings.Join(current, " "))

			keep := p.overlapStart(counts)
			current = append([]string(nil), current[keep:]...)
			counts = append([]int(nil), counts[keep:]...)
			words = sum(counts)
		}

		current = append(current, sentence)
		counts = append(counts, n)
		words += n
	}

	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, " "))
	}
	return chunks
}

// overlapStart returns the index of the first sentence carried into the next chunk.
func (p *Processor) overlapStart(counts []int) int {
	start := len(counts)
	budget := p.overlap
	for start > 1 && counts[start-1] <= budget {
		budget -= counts[start-1]
		start--
	}
	return start
}

// Sentences splits s after every '.', '!' or '?' that is followed by whitespace.
// The terminator stays with its sentence and the whitespace is dropped.
func Sentences(s string) []string {
	var (
		sentences []string
		start     int
	)

	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		if !isTerminator(runes[i]) || i+1 >= len(runes) || !unicode.IsSpace(runes[i+1]) {
			continue
		}
		sentences = append(sentences, string(runes[start:i+1]))

		j := i + 1
		for j < len(runes) && unicode.IsSpace(runes[j]) {
			j++
		}
		start = j
		i = j - 1
	}

	if start < len(runes) {
		sentences = append(sentences, string(runes[start:]))
	}
	return sentences
}

func isTerminator(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

func sum(xs []int) int {
	total := 0
	for _, x := range xs {
		total += x
	}
	return total
}
