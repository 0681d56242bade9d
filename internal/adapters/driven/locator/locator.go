// Package locator finds the PDF file that belongs to a document title.
//
// Matching runs in three passes: file names derived from the title
// (spaces to underscores or hyphens, punctuation dropped), then a
// case-insensitive substring match between title and file name, then a
// fuzzy word match over an in-memory bleve index of file names.
package locator

import (
	"context"
	"fmt"
	"math"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
	"github.com/bmatcuk/doublestar/v4"

	"github.com/custodia-labs/safetyqa/internal/core/domain"
	"github.com/custodia-labs/safetyqa/internal/core/ports/driven"
	"github.com/custodia-labs/safetyqa/internal/logger"
	"github.com/custodia-labs/safetyqa/internal/ranking"
)

// Ensure Locator implements the interface.
var _ driven.PDFLocator = (*Locator)(nil)

// DefaultPattern matches PDF files at any depth, whatever the extension case.
const DefaultPattern = "**/*.[pP][dD][fF]"

// Locator resolves document titles to PDF files under a directory.
type Locator struct {
	dir     string
	pattern string
	fuzzy   bool
}

// Option configures a Locator.
type Option func(*Locator)

// WithPattern replaces DefaultPattern. Patterns use doublestar syntax and
// are relative to the directory.
func WithPattern(p string) Option {
	return func(l *Locator) { l.pattern = p }
}

// WithoutFuzzy disables the fuzzy pass.
func WithoutFuzzy() Option {
	return func(l *Locator) { l.fuzzy = false }
}

// New creates a locator for dir.
func New(dir string, opts ...Option) *Locator {
	l := &Locator{dir: dir, pattern: DefaultPattern, fuzzy: true}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Dir returns the directory searched.
func (l *Locator) Dir() string {
	return l.dir
}

// List returns every PDF under the directory, sorted. A missing directory
// yields an empty list.
func (l *Locator) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, err := os.Stat(l.dir); os.IsNotExist(err) {
		return []string{}, nil
	}

	matches, err := doublestar.Glob(os.DirFS(l.dir), l.pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("listing pdfs in %s: %w", l.dir, err)
	}
	sort.Strings(matches)

	files := make([]string, len(matches))
	for i, m := range matches {
		files[i] = filepath.Join(l.dir, filepath.FromSlash(m))
	}
	return files, nil
}

// Locate returns the PDF that best matches title.
func (l *Locator) Locate(ctx context.Context, title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", fmt.Errorf("%w: empty title", domain.ErrPDFNotFound)
	}

	files, err := l.List(ctx)
	if err != nil {
		return "", err
	}
	if len(files) == 0 {
		return "", fmt.Errorf("%w: %q", domain.ErrPDFNotFound, title)
	}

	if p := matchExact(title, files); p != "" {
		return p, nil
	}
	if p := matchPartial(title, files); p != "" {
		logger.Debug("Found PDF for %q by partial match: %s", title, filepath.Base(p))
		return p, nil
	}
	if l.fuzzy {
		p, err := matchFuzzy(title, files)
		if err != nil {
			return "", err
		}
		if p != "" {
			logger.Debug("Found PDF for %q by fuzzy match: %s", title, filepath.Base(p))
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %q", domain.ErrPDFNotFound, title)
}

// CandidateNames returns the file names tried for title, in order.
func CandidateNames(title string) []string {
	variants := []string{
		title,
		strings.ReplaceAll(title, " ", "_"),
		strings.ReplaceAll(title, " ", "-"),
		strings.ReplaceAll(title, "/", "_"),
		strings.ReplaceAll(title, ":", ""),
		strings.ReplaceAll(title, "—", "_"),
		strings.NewReplacer("(", "", ")", "").Replace(title),
		strings.NewReplacer(" ", "_", "/", "_", ":", "", "—", "_").Replace(title),
	}

	seen := make(map[string]bool, len(variants))
	names := make([]string, 0, len(variants))
	for _, v := range variants {
		name := v + ".pdf"
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	return names
}

func matchExact(title string, files []string) string {
	byName := make(map[string]string, len(files))
	byLower := make(map[string]string, len(files))
	for _, f := range files {
		base := filepath.Base(f)
		if _, ok := byName[base]; !ok {
			byName[base] = f
		}
		if _, ok := byLower[strings.ToLower(base)]; !ok {
			byLower[strings.ToLower(base)] = f
		}
	}

	names := CandidateNames(title)
	for _, n := range names {
		if p, ok := byName[n]; ok {
			return p
		}
	}
	for _, n := range names {
		if p, ok := byLower[strings.ToLower(n)]; ok {
			return p
		}
	}
	return ""
}

func matchPartial(title string, files []string) string {
	lowerTitle := strings.ToLower(title)
	for _, f := range files {
		name := strings.ToLower(filepath.Base(f))
		stem := strings.TrimSuffix(name, path.Ext(name))
		if strings.Contains(name, lowerTitle) || (stem != "" && strings.Contains(lowerTitle, stem)) {
			return f
		}
	}
	return ""
}

// nameDoc is the indexed form of a file name.
type nameDoc struct {
	Name string `json:"name"`
}

// matchFuzzy indexes file stems and accepts the best file in which at least
// half of the title's content words appear within one edit.
func matchFuzzy(title string, files []string) (string, error) {
	words := ranking.Tokenize(title)
	if len(words) == 0 {
		return "", nil
	}

	index, err := bleve.NewMemOnly(bleve.NewIndexMapping())
	if err != nil {
		return "", fmt.Errorf("creating name index: %w", err)
	}
	defer index.Close()

	batch := index.NewBatch()
	for i, f := range files {
		if err := batch.Index(fmt.Sprint(i), nameDoc{Name: fileWords(f)}); err != nil {
			return "", fmt.Errorf("indexing %s: %w", f, err)
		}
	}
	if err := index.Batch(batch); err != nil {
		return "", fmt.Errorf("indexing pdf names: %w", err)
	}

	terms := make([]query.Query, len(words))
	for i, w := range words {
		fq := bleve.NewFuzzyQuery(w)
		fq.SetFuzziness(1)
		fq.SetField("name")
		terms[i] = fq
	}
	q := bleve.NewDisjunctionQuery(terms...)
	q.SetMin(math.Ceil(float64(len(words)) / 2))

	req := bleve.NewSearchRequestOptions(q, 1, 0, false)
	res, err := index.Search(req)
	if err != nil {
		return "", fmt.Errorf("searching pdf names: %w", err)
	}
	if len(res.Hits) == 0 {
		return "", nil
	}

	var i int
	if _, err := fmt.Sscan(res.Hits[0].ID, &i); err != nil || i < 0 || i >= len(files) {
		return "", nil
	}
	return files[i], nil
}

// fileWords turns "Fire_Safety-Guide.pdf" into "fire safety guide".
func fileWords(file string) string {
	base := filepath.Base(file)
	stem := strings.TrimSuffix(base, path.Ext(base))
	return strings.ToLower(strings.NewReplacer("_", " ", "-", " ", ".", " ").Replace(stem))
}
