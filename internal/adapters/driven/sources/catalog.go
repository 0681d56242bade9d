// Package sources reads the source list and the question bank.
//
// Both files may be JSON or YAML. Content starting with '[' or '{' is read
// as JSON, anything else as YAML.
package sources

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/safetyqa/internal/core/domain"
	"github.com/custodia-labs/safetyqa/internal/core/ports/driven"
)

// Ensure Catalog implements the interface.
var _ driven.SourceCatalog = (*Catalog)(nil)

// Catalog reads sources and questions from files.
type Catalog struct {
	sourcesFile   string
	questionsFile string
}

// NewCatalog creates a catalog over the two files.
func NewCatalog(sourcesFile, questionsFile string) *Catalog {
	return &Catalog{sourcesFile: sourcesFile, questionsFile: questionsFile}
}

// LoadSources reads the source list. A missing file is an error because
// ingestion cannot start without it.
func (c *Catalog) LoadSources(ctx context.Context) ([]domain.SourceEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(c.sourcesFile)
	if err != nil {
		return nil, fmt.Errorf("reading sources file: %w", err)
	}

	var entries []domain.SourceEntry
	if err := decode(data, &entries); err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", domain.ErrInvalidInput, c.sourcesFile, err)
	}
	for i := range entries {
		entries[i].Title = strings.TrimSpace(entries[i].Title)
		entries[i].URL = strings.TrimSpace(entries[i].URL)
	}
	if entries == nil {
		entries = []domain.SourceEntry{}
	}
	return entries, nil
}

// LoadQuestions reads the question bank. A missing file yields no categories.
func (c *Catalog) LoadQuestions(ctx context.Context) ([]domain.QuestionCategory, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(c.questionsFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []domain.QuestionCategory{}, nil
		}
		return nil, fmt.Errorf("reading questions file: %w", err)
	}

	var categories []domain.QuestionCategory
	if err := decode(data, &categories); err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", domain.ErrInvalidInput, c.questionsFile, err)
	}
	if categories == nil {
		categories = []domain.QuestionCategory{}
	}
	return categories, nil
}

// decode reads JSON or YAML into v.
func decode(data []byte, v any) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil
	}
	if trimmed[0] == '[' || trimmed[0] == '{' {
		return json.Unmarshal(trimmed, v)
	}
	return yaml.Unmarshal(trimmed, v)
}
