// Package answer assembles a short extractive answer from ranked passages.
package answer

import (
	"strings"

	"github.com/custodia-labs/safetyqa/internal/core/domain"
)

// Synthesis defaults.
const (
	DefaultConfidenceThreshold = 0.3
	DefaultMaxChars            = 500
	DefaultMaxPassages         = 3
)

// Synthesizer builds an AnswerResult from ranked candidates.
type Synthesizer struct {
	threshold   float64
	maxChars    int
	maxPassages int
}

// Option configures a Synthesizer.
type Option func(*Synthesizer)

// WithConfidenceThreshold sets the minimum combined score a passage needs to
// contribute to the answer.
func WithConfidenceThreshold(threshold float64) Option {
	return func(s *Synthesizer) { s.threshold = threshold }
}

// WithMaxChars sets the answer length limit before the ellipsis is appended.
func WithMaxChars(n int) Option {
	return func(s *Synthesizer) {
		if n > 0 {
			s.maxChars = n
		}
	}
}

// WithMaxPassages sets how many confident passages are concatenated.
func WithMaxPassages(n int) Option {
	return func(s *Synthesizer) {
		if n > 0 {
			s.maxPassages = n
		}
	}
}

// NewSynthesizer creates a synthesizer with the given options.
func NewSynthesizer(opts ...Option) *Synthesizer {
	s := &Synthesizer{
		threshold:   DefaultConfidenceThreshold,
		maxChars:    DefaultMaxChars,
		maxPassages: DefaultMaxPassages,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Synthesize joins the original text of the first confident passages and
// truncates it at a sentence boundary. Every ranked passage is returned as a
// context, so a result with contexts and a nil Answer means nothing cleared
// the confidence threshold. Scored must already be in ranked order.
func (s *Synthesizer) Synthesize(scored []domain.ScoredCandidate, rerankerUsed bool) domain.AnswerResult {
	result := domain.AnswerResult{
		Contexts:     make([]domain.AnswerContext, 0, len(scored)),
		RerankerUsed: rerankerUsed,
	}

	var passages []string
	for _, sc := range scored {
		result.Contexts = append(result.Contexts, domain.AnswerContext{
			Text:  sc.ChunkText,
			Score: sc.CombinedScore,
			Source: domain.AnswerSource{
				Title:      sc.DocumentTitle,
				URL:        sc.DocumentURL,
				ChunkIndex: sc.ChunkIndex,
			},
		})
		if sc.CombinedScore >= s.threshold && len(passages) < s.maxPassages {
			passages = append(passages, sc.ChunkText)
		}
	}

	if len(passages) > 0 {
		answer := Truncate(strings.Join(passages, " "), s.maxChars)
		result.Answer = &answer
	}
	return result
}

// Truncate shortens s to at most maxChars characters. It cuts after the last
// '.', '!' or '?' inside the limit and appends "..", or hard-cuts at the limit
// and appends "..." when no terminator is found past the first character.
// Strings within the limit are returned unchanged.
func Truncate(s string, maxChars int) string {
	runes := []rune(s)
	if len(runes) <= maxChars {
		return s
	}

	cut := runes[:maxChars]
	for i := len(cut) - 1; i > 0; i-- {
		switch cut[i] {
		case '.', '!', '?':
			return string(cut[:i+1]) + ".."
		}
	}
	return string(cut) + "..."
}
