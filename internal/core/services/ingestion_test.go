package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/safetyqa/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/safetyqa/internal/core/domain"
	"github.com/custodia-labs/safetyqa/internal/postprocessors"
)

// safetyText returns n sentences of twelve words each.
func safetyText(topic string, n int) string {
	sentences := make([]string, n)
	for i := range sentences {
		sentences[i] = fmt.Sprintf("Sentence %d explains how %s hazards are controlled at every industrial site.", i, topic)
	}
	return strings.Join(sentences, " ")
}

type ingestionFixture struct {
	svc       *IngestionService
	docs      *memory.DocumentStore
	vectors   *memory.VectorStore
	embedding *mockEmbeddingService
}

func newIngestionFixture(t *testing.T, catalog *mockCatalog, locator *mockLocator, texts *mockTextSource) *ingestionFixture {
	t.Helper()

	pipeline, err := postprocessors.NewDefaultPipeline(domain.ChunkingSettings{ChunkSize: 60, Overlap: 12, MinWords: 10})
	require.NoError(t, err)

	f := &ingestionFixture{
		docs:      memory.NewDocumentStore(),
		vectors:   memory.NewVectorStore(),
		embedding: &mockEmbeddingService{},
	}
	f.svc = NewIngestionService(IngestionDeps{
		Documents:  f.docs,
		Catalog:    catalog,
		Locator:    locator,
		TextSource: texts,
		Pipeline:   pipeline,
		Embedding:  f.embedding,
		Vectors:    f.vectors,
	})
	return f
}

func standardFixture(t *testing.T) *ingestionFixture {
	t.Helper()
	return newIngestionFixture(t,
		&mockCatalog{sources: []domain.SourceEntry{
			{Title: "Fire Safety", URL: "https://example.org/fire.pdf"},
			{Title: "Noise at Work", URL: "https://example.org/noise.pdf"},
			{Title: "Missing Guide", URL: "https://example.org/missing.pdf"},
			{Title: "Scanned Leaflet", URL: "https://example.org/scan.pdf"},
		}},
		&mockLocator{paths: map[string]string{
			"Fire Safety":     "/pdfs/fire.pdf",
			"Noise at Work":   "/pdfs/noise.pdf",
			"Scanned Leaflet": "/pdfs/scan.pdf",
		}},
		&mockTextSource{texts: map[string]string{
			"/pdfs/fire.pdf":  safetyText("fire", 12),
			"/pdfs/noise.pdf": safetyText("noise", 6),
			"/pdfs/scan.pdf":  "Page 1 of 2",
		}},
	)
}

func TestDocumentID_IsStable(t *testing.T) {
	assert.Equal(t, DocumentID("Fire Safety"), DocumentID("Fire Safety"))
	assert.NotEqual(t, DocumentID("Fire Safety"), DocumentID("Fire safety"))
}

func TestIngestionService_LoadSources(t *testing.T) {
	f := newIngestionFixture(t,
		&mockCatalog{sources: []domain.SourceEntry{
			{Title: "Fire Safety", URL: "https://example.org/v1.pdf"},
			{Title: "", URL: "https://example.org/untitled.pdf"},
		}},
		&mockLocator{}, &mockTextSource{})
	ctx := context.Background()

	stats, err := f.svc.LoadSources(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Loaded)
	assert.Equal(t, 1, stats.Skipped)

	id := DocumentID("Fire Safety")
	require.NoError(t, f.docs.MarkProcessed(ctx, id))

	// Reloading updates the URL and queues the document again.
	f.svc.deps.Catalog = &mockCatalog{sources: []domain.SourceEntry{{Title: "Fire Safety", URL: "https://example.org/v2.pdf"}}}
	_, err = f.svc.LoadSources(ctx)
	require.NoError(t, err)

	doc, err := f.docs.GetDocument(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "https://example.org/v2.pdf", doc.SourceURL)
	assert.False(t, doc.Processed)

	docs, err := f.docs.ListDocuments(ctx)
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}

func TestIngestionService_LoadSources_CatalogError(t *testing.T) {
	f := newIngestionFixture(t, &mockCatalog{err: errors.New("bad json")}, &mockLocator{}, &mockTextSource{})
	_, err := f.svc.LoadSources(context.Background())
	assert.ErrorContains(t, err, "bad json")
}

func TestIngestionService_ProcessDocuments(t *testing.T) {
	f := standardFixture(t)
	ctx := context.Background()

	_, err := f.svc.LoadSources(ctx)
	require.NoError(t, err)

	stats, err := f.svc.ProcessDocuments(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Processed)
	assert.Equal(t, 2, stats.Skipped, "missing pdf and too little text")
	assert.Positive(t, stats.Chunks)

	fire, err := f.docs.GetDocument(ctx, DocumentID("Fire Safety"))
	require.NoError(t, err)
	assert.True(t, fire.Processed)

	chunks, err := f.docs.GetChunks(ctx, fire.ID)
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)
	for i, c := range chunks {
		assert.Equal(t, fire.ID, c.DocumentID)
		assert.Equal(t, i, c.Index)
		assert.NotEmpty(t, c.OriginalText)
	}

	missing, err := f.docs.GetDocument(ctx, DocumentID("Missing Guide"))
	require.NoError(t, err)
	assert.False(t, missing.Processed)
}

func TestIngestionService_ProcessDocuments_IsIdempotent(t *testing.T) {
	f := standardFixture(t)
	ctx := context.Background()

	_, err := f.svc.LoadSources(ctx)
	require.NoError(t, err)
	_, err = f.svc.ProcessDocuments(ctx)
	require.NoError(t, err)
	first, err := f.docs.CountChunks(ctx)
	require.NoError(t, err)

	// Reloading resets the processed flag, so everything is chunked again.
	_, err = f.svc.LoadSources(ctx)
	require.NoError(t, err)
	_, err = f.svc.ProcessDocuments(ctx)
	require.NoError(t, err)
	second, err := f.docs.CountChunks(ctx)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestIngestionService_GenerateEmbeddings(t *testing.T) {
	f := standardFixture(t)
	ctx := context.Background()

	_, err := f.svc.LoadSources(ctx)
	require.NoError(t, err)
	processed, err := f.svc.ProcessDocuments(ctx)
	require.NoError(t, err)

	stats, err := f.svc.GenerateEmbeddings(ctx)
	require.NoError(t, err)
	assert.Equal(t, processed.Chunks, stats.Embedded)
	assert.Zero(t, stats.Failed)

	count, err := f.vectors.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, processed.Chunks, count)

	// Re-running replaces rather than duplicates.
	_, err = f.svc.GenerateEmbeddings(ctx)
	require.NoError(t, err)
	count, err = f.vectors.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, processed.Chunks, count)

	matches, err := f.vectors.Query(ctx, []float32{1, 0}, 1)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "Fire Safety", matches[0].Metadata.DocumentTitle)
	assert.Equal(t, "https://example.org/fire.pdf", matches[0].Metadata.DocumentURL)
	assert.Equal(t, domain.ChunkKey(DocumentID("Fire Safety"), matches[0].Metadata.ChunkIndex), matches[0].Key)
}

func TestIngestionService_GenerateEmbeddings_SkipsShortChunks(t *testing.T) {
	f := newIngestionFixture(t, &mockCatalog{}, &mockLocator{}, &mockTextSource{})
	ctx := context.Background()

	require.NoError(t, f.docs.SaveDocument(ctx, &domain.Document{ID: "d", Title: "Doc"}))
	require.NoError(t, f.docs.ReplaceChunks(ctx, "d", []domain.Chunk{
		{Index: 0, Text: "Four words only here", OriginalText: "Four words only here"},
		{Index: 1, Text: "Five words are enough here", OriginalText: "Five words are enough here"},
	}))

	stats, err := f.svc.GenerateEmbeddings(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Embedded)
	assert.Equal(t, 1, stats.Skipped)
}

func TestIngestionService_GenerateEmbeddings_FailedBatchContinues(t *testing.T) {
	f := newIngestionFixture(t, &mockCatalog{}, &mockLocator{}, &mockTextSource{})
	ctx := context.Background()

	require.NoError(t, f.docs.SaveDocument(ctx, &domain.Document{ID: "d", Title: "Doc"}))
	chunks := make([]domain.Chunk, EmbeddingBatchSize+10)
	for i := range chunks {
		chunks[i] = domain.Chunk{Index: i, Text: "fire doors must close fully", OriginalText: "Fire doors must close fully."}
	}
	require.NoError(t, f.docs.ReplaceChunks(ctx, "d", chunks))

	f.embedding.batchErrs = map[int]error{1: errors.New("rate limited")}

	stats, err := f.svc.GenerateEmbeddings(ctx)
	require.NoError(t, err)
	assert.Equal(t, EmbeddingBatchSize, stats.Failed)
	assert.Equal(t, 10, stats.Embedded)
	assert.Equal(t, 2, f.embedding.calls)
}

func TestIngestionService_GenerateEmbeddings_Unavailable(t *testing.T) {
	svc := NewIngestionService(IngestionDeps{Documents: memory.NewDocumentStore()})
	_, err := svc.GenerateEmbeddings(context.Background())
	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)

	svc = NewIngestionService(IngestionDeps{Documents: memory.NewDocumentStore(), Embedding: &mockEmbeddingService{}})
	_, err = svc.GenerateEmbeddings(context.Background())
	assert.ErrorIs(t, err, domain.ErrVectorStoreUnavailable)
}

func TestIngestionService_Initialize(t *testing.T) {
	f := standardFixture(t)
	ctx := context.Background()

	require.NoError(t, f.docs.SaveDocument(ctx, &domain.Document{ID: "stale", Title: "Stale"}))

	stats, err := f.svc.Initialize(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, stats.Loaded)
	assert.Equal(t, 2, stats.Processed)
	assert.Equal(t, stats.Chunks, stats.Embedded)

	_, err = f.docs.GetDocument(ctx, "stale")
	assert.ErrorIs(t, err, domain.ErrNotFound, "initialize starts from scratch")
}

func TestIngestionService_Initialize_NoPDFs(t *testing.T) {
	f := newIngestionFixture(t,
		&mockCatalog{sources: []domain.SourceEntry{{Title: "Fire Safety"}}},
		&mockLocator{}, &mockTextSource{})

	_, err := f.svc.Initialize(context.Background())
	assert.ErrorIs(t, err, domain.ErrNoPDFs)
}

func TestIngestionService_Initialize_NoChunks(t *testing.T) {
	f := newIngestionFixture(t,
		&mockCatalog{sources: []domain.SourceEntry{{Title: "Fire Safety"}}},
		&mockLocator{paths: map[string]string{"Other": "/pdfs/other.pdf"}},
		&mockTextSource{})

	_, err := f.svc.Initialize(context.Background())
	assert.ErrorIs(t, err, domain.ErrNoChunks)
}

func TestIngestionService_Diagnostics(t *testing.T) {
	f := standardFixture(t)
	ctx := context.Background()

	_, err := f.svc.Initialize(ctx)
	require.NoError(t, err)

	d, err := f.svc.Diagnostics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, d.Documents)
	assert.Equal(t, 2, d.ProcessedDocuments)
	assert.Positive(t, d.Chunks)
	assert.Equal(t, d.Chunks, d.Vectors)

	f.svc.deps.Vectors = &mockVectorStore{err: errors.New("offline")}
	d, err = f.svc.Diagnostics(ctx)
	require.NoError(t, err)
	assert.Zero(t, d.Vectors)
}

func TestIngestionService_CheckPDFs(t *testing.T) {
	f := standardFixture(t)
	ctx := context.Background()

	_, err := f.svc.LoadSources(ctx)
	require.NoError(t, err)

	report, err := f.svc.CheckPDFs(ctx)
	require.NoError(t, err)
	assert.Len(t, report.Files, 3)
	require.Len(t, report.Matches, 4)

	matched := map[string]string{}
	for _, m := range report.Matches {
		matched[m.Title] = m.Path
	}
	assert.Equal(t, "/pdfs/fire.pdf", matched["Fire Safety"])
	assert.Empty(t, matched["Missing Guide"])
}

func TestIngestionService_Questions(t *testing.T) {
	questions := []domain.QuestionCategory{{Category: "Fire", Questions: []string{"How often are extinguishers checked?"}}}
	f := newIngestionFixture(t, &mockCatalog{questions: questions}, &mockLocator{}, &mockTextSource{})

	got, err := f.svc.Questions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, questions, got)
}
