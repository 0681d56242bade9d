package driven

import "context"

// TextSource extracts raw text from a document file.
// Pages that cannot be read are skipped; an empty string with a nil error
// means the file holds no extractable text.
type TextSource interface {
	ExtractText(ctx context.Context, path string) (string, error)
}

// PDFLocator finds the PDF file that belongs to a document title.
type PDFLocator interface {
	// List returns all available PDF paths.
	List(ctx context.Context) ([]string, error)

	// Locate returns the path of the best match for the title.
	// Returns domain.ErrPDFNotFound when nothing matches.
	Locate(ctx context.Context, title string) (string, error)
}
