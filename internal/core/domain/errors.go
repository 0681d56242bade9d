package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmbeddingUnavailable indicates the embedding provider is not
	// configured or cannot be reached.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrVectorStoreUnavailable indicates the vector store is not configured
	// or cannot be reached.
	ErrVectorStoreUnavailable = errors.New("vector store unavailable")

	// Ingestion Errors.

	// ErrPDFNotFound indicates no PDF file could be matched to a document title.
	ErrPDFNotFound = errors.New("pdf not found")

	// ErrPDFToolNotFound indicates pdftotext is not installed.
	ErrPDFToolNotFound = errors.New("pdftotext not found in PATH")

	// ErrNoPDFs indicates the PDF directory holds no PDF files.
	ErrNoPDFs = errors.New("no pdf files found")

	// ErrNoChunks indicates processing produced no chunks at all.
	ErrNoChunks = errors.New("no chunks were created")

	// Configuration Errors.

	// ErrConfigNotFound indicates a configuration key is not set.
	ErrConfigNotFound = errors.New("config key not found")

	// ErrInvalidConfig indicates a configuration value cannot be used.
	ErrInvalidConfig = errors.New("invalid config")
)
