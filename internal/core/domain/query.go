package domain

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// SearchMode selects between plain vector retrieval and hybrid reranking.
type SearchMode string

const (
	// ModeBaseline ranks by vector similarity alone.
	ModeBaseline SearchMode = "baseline"
	// ModeReranked fuses vector, lexical, title and length signals.
	ModeReranked SearchMode = "reranked"
)

// Query limits.
const (
	MaxQueryLength = 500
	MinK           = 1
	MaxK           = 10
	DefaultK       = 5
)

// ParseSearchMode parses a mode name. The empty string maps to ModeReranked.
func ParseSearchMode(s string) (SearchMode, error) {
	switch SearchMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeReranked:
		return ModeReranked, nil
	case ModeBaseline:
		return ModeBaseline, nil
	default:
		return "", fmt.Errorf("%w: unknown mode %q (want baseline or reranked)", ErrInvalidInput, s)
	}
}

// QueryRequest is a question submitted to the QA service.
type QueryRequest struct {
	Query string     `json:"query"`
	K     int        `json:"k"`
	Mode  SearchMode `json:"mode"`
}

// WithDefaults fills a zero K and an empty Mode.
func (r QueryRequest) WithDefaults() QueryRequest {
	if r.K == 0 {
		r.K = DefaultK
	}
	if r.Mode == "" {
		r.Mode = ModeReranked
	}
	return r
}

// Validate rejects requests that must not enter the pipeline.
func (r QueryRequest) Validate() error {
	if strings.TrimSpace(r.Query) == "" {
		return fmt.Errorf("%w: query is required", ErrInvalidInput)
	}
	if n := utf8.RuneCountInString(r.Query); n > MaxQueryLength {
		return fmt.Errorf("%w: query is %d characters, maximum is %d", ErrInvalidInput, n, MaxQueryLength)
	}
	if r.K < MinK || r.K > MaxK {
		return fmt.Errorf("%w: k must be between %d and %d, got %d", ErrInvalidInput, MinK, MaxK, r.K)
	}
	if r.Mode != ModeBaseline && r.Mode != ModeReranked {
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidInput, r.Mode)
	}
	return nil
}
