// Package pdf extracts text from PDF files with the pdftotext tool from poppler.
package pdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/custodia-labs/safetyqa/internal/core/domain"
	"github.com/custodia-labs/safetyqa/internal/core/ports/driven"
	"github.com/custodia-labs/safetyqa/internal/logger"
)

// Ensure Extractor implements the interface.
var _ driven.TextSource = (*Extractor)(nil)

// ErrPDFToolNotFound is returned when pdftotext is not installed.
var ErrPDFToolNotFound = domain.ErrPDFToolNotFound

// toolName is the poppler binary used for extraction.
const toolName = "pdftotext"

// pageBreak is the form feed pdftotext writes between pages.
const pageBreak = "\f"

// CommandRunner runs an external command and returns its standard output.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

type execRunner struct{}

// Run executes the command. Standard error is attached to a failure.
func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return nil, ErrPDFToolNotFound
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return out, fmt.Errorf("%w: %s", err, msg)
		}
		return out, err
	}
	return out, nil
}

// Extractor reads the text layer of PDF files page by page.
type Extractor struct {
	runner CommandRunner
}

// New creates an extractor that runs pdftotext from PATH.
func New() *Extractor {
	return &Extractor{runner: execRunner{}}
}

// NewWithRunner creates an extractor with a custom command runner.
func NewWithRunner(runner CommandRunner) *Extractor {
	return &Extractor{runner: runner}
}

// ExtractText returns the text of every readable page joined by newlines.
// pdftotext keeps going past damaged pages and exits non-zero at the end, so
// output that arrives together with an error is kept. An error is returned
// only when nothing could be read.
func (e *Extractor) ExtractText(ctx context.Context, path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("opening pdf: %w", err)
	}

	out, err := e.runner.Run(ctx, toolName, "-enc", "UTF-8", path, "-")
	if errors.Is(err, ErrPDFToolNotFound) {
		return "", err
	}
	if ctx.Err() != nil {
		return "", ctx.Err()
	}

	text := joinPages(string(out))
	if err != nil {
		if text == "" {
			return "", fmt.Errorf("extracting %s: %w", path, err)
		}
		logger.Warn("Some pages of %s could not be read: %v", path, err)
	}
	return text, nil
}

// joinPages splits pdftotext output on page breaks, drops blank pages and
// joins the rest with a newline.
func joinPages(out string) string {
	pages := strings.Split(out, pageBreak)
	kept := pages[:0]
	for _, p := range pages {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "\n")
}

// CheckAvailable returns ErrPDFToolNotFound when pdftotext is not in PATH.
func CheckAvailable() error {
	if _, err := exec.LookPath(toolName); err != nil {
		return ErrPDFToolNotFound
	}
	return nil
}

// InstallInstructions explains how to install pdftotext.
func InstallInstructions() string {
	return `pdftotext is required to read PDF files. Install poppler:

  macOS:          brew install poppler
  Debian/Ubuntu:  apt install poppler-utils
  Fedora:         dnf install poppler-utils
  Windows:        choco install poppler`
}
