package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/safetyqa/internal/core/domain"
)

func TestDiagnosticCmd(t *testing.T) {
	ts, cleanupServices := setupTestServices(t)
	defer cleanupServices()
	ts.ingestion.diagnostics = domain.Diagnostics{Documents: 5, ProcessedDocuments: 4, Chunks: 90, Vectors: 0}

	out, err := execute(t, "diagnostic")

	require.NoError(t, err)
	assert.Contains(t, out, "Documents:           5")
	assert.Contains(t, out, "Processed documents: 4")
	assert.Contains(t, out, "Chunks:              90")
	assert.Contains(t, out, "safetyqa ingest embed")
}

func TestDiagnosticCmd_JSON(t *testing.T) {
	ts, cleanupServices := setupTestServices(t)
	defer cleanupServices()
	ts.ingestion.diagnostics = domain.Diagnostics{Documents: 5, ProcessedDocuments: 4, Chunks: 90, Vectors: 88}

	out, err := execute(t, "diagnostic", "--json")

	require.NoError(t, err)
	var got map[string]int
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, map[string]int{
		"document_count":           5,
		"processed_document_count": 4,
		"chunk_count":              90,
		"vector_count":             88,
	}, got)
}

func TestCheckPDFsCmd(t *testing.T) {
	ts, cleanupServices := setupTestServices(t)
	defer cleanupServices()
	ts.ingestion.report = &domain.PDFReport{
		Files: []string{"/data/pdfs/osha_3124.pdf", "/data/pdfs/ladders.pdf"},
		Matches: []domain.PDFMatch{
			{Title: "Stairways and Ladders", Path: "/data/pdfs/ladders.pdf"},
			{Title: "Confined Spaces"},
		},
	}

	out, err := execute(t, "check-pdfs")

	require.NoError(t, err)
	assert.Contains(t, out, "PDF files: 2")
	assert.Contains(t, out, "osha_3124.pdf")
	assert.Contains(t, out, "[ok]      Stairways and Ladders -> ladders.pdf")
	assert.Contains(t, out, "[missing] Confined Spaces")
	assert.Contains(t, out, "1 of 2 documents matched a PDF.")
}

func TestQuestionsCmd(t *testing.T) {
	ts, cleanupServices := setupTestServices(t)
	defer cleanupServices()
	ts.ingestion.questions = []domain.QuestionCategory{
		{Category: "Electrical", Questions: []string{"What is arc flash?", "Who may work on live circuits?"}},
	}

	out, err := execute(t, "questions")

	require.NoError(t, err)
	assert.Contains(t, out, "Electrical:")
	assert.Contains(t, out, "  - What is arc flash?")
	assert.Contains(t, out, "  - Who may work on live circuits?")
}

func TestQuestionsCmd_Empty(t *testing.T) {
	_, cleanupServices := setupTestServices(t)
	defer cleanupServices()

	out, err := execute(t, "questions")

	require.NoError(t, err)
	assert.Contains(t, out, "No questions configured.")
}
