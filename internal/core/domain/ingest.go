package domain

// IngestStats counts the outcome of an ingestion step.
type IngestStats struct {
	Loaded    int `json:"loaded,omitempty"`
	Processed int `json:"processed,omitempty"`
	Chunks    int `json:"chunks,omitempty"`
	Embedded  int `json:"embedded,omitempty"`
	Skipped   int `json:"skipped,omitempty"`
	Failed    int `json:"failed,omitempty"`
}

// Add returns the field-wise sum of two stats.
func (s IngestStats) Add(o IngestStats) IngestStats {
	return IngestStats{
		Loaded:    s.Loaded + o.Loaded,
		Processed: s.Processed + o.Processed,
		Chunks:    s.Chunks + o.Chunks,
		Embedded:  s.Embedded + o.Embedded,
		Skipped:   s.Skipped + o.Skipped,
		Failed:    s.Failed + o.Failed,
	}
}

// Diagnostics reports how far ingestion has progressed.
type Diagnostics struct {
	Documents          int `json:"document_count"`
	ProcessedDocuments int `json:"processed_document_count"`
	Chunks             int `json:"chunk_count"`
	Vectors            int `json:"vector_count"`
}

// PDFMatch pairs a document title with the PDF chosen for it.
// Path is empty when nothing matched.
type PDFMatch struct {
	Title string `json:"title"`
	Path  string `json:"path,omitempty"`
}

// Matched reports whether a PDF was found.
func (m PDFMatch) Matched() bool {
	return m.Path != ""
}

// PDFReport lists available PDF files and how each document maps onto them.
type PDFReport struct {
	Files   []string   `json:"files"`
	Matches []PDFMatch `json:"matches"`
}

// QuestionCategory groups suggested questions.
type QuestionCategory struct {
	Category  string   `json:"category" yaml:"category"`
	Questions []string `json:"questions" yaml:"questions"`
}
