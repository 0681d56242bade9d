package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/custodia-labs/safetyqa/internal/core/domain"
	"github.com/custodia-labs/safetyqa/internal/core/ports/driven"
	"github.com/custodia-labs/safetyqa/internal/core/ports/driving"
	"github.com/custodia-labs/safetyqa/internal/logger"
	"github.com/custodia-labs/safetyqa/internal/normalisers/text"
)

// Ensure IngestionService implements the interface.
var _ driving.IngestionService = (*IngestionService)(nil)

// Ingestion thresholds.
const (
	// MinDocumentWords is the least extracted text worth chunking.
	MinDocumentWords = 50

	// MinEmbeddingWords is the least normalised chunk text worth embedding.
	MinEmbeddingWords = 5

	// EmbeddingBatchSize is the number of chunks embedded and upserted together.
	EmbeddingBatchSize = 50
)

// documentNamespace seeds the deterministic document IDs.
var documentNamespace = uuid.MustParse("6f1c2a8e-3d4b-5c6d-8e7f-9a0b1c2d3e4f")

// DocumentID returns the stable ID of the document with the given title.
func DocumentID(title string) string {
	return uuid.NewSHA1(documentNamespace, []byte(title)).String()
}

// IngestionDeps holds the collaborators of IngestionService.
type IngestionDeps struct {
	Documents  driven.DocumentStore
	Catalog    driven.SourceCatalog
	Locator    driven.PDFLocator
	TextSource driven.TextSource
	Pipeline   driven.PostProcessorPipeline
	Embedding  driven.EmbeddingService
	Vectors    driven.VectorStore
}

// IngestionService builds the corpus: documents from the source list, chunks
// from their PDFs and vectors from their chunks.
type IngestionService struct {
	deps IngestionDeps
}

// NewIngestionService creates an ingestion service.
func NewIngestionService(deps IngestionDeps) *IngestionService {
	return &IngestionService{deps: deps}
}

// LoadSources upserts one document per source entry. Existing documents get
// the new URL and are marked for reprocessing.
func (s *IngestionService) LoadSources(ctx context.Context) (domain.IngestStats, error) {
	logger.Section("Load Sources")

	entries, err := s.deps.Catalog.LoadSources(ctx)
	if err != nil {
		return domain.IngestStats{}, fmt.Errorf("load sources: %w", err)
	}

	var stats domain.IngestStats
	for _, e := range entries {
		if e.Title == "" {
			logger.Warn("Skipping source entry without title (url %q)", e.URL)
			stats.Skipped++
			continue
		}
		doc := &domain.Document{
			ID:        DocumentID(e.Title),
			Title:     e.Title,
			SourceURL: e.URL,
		}
		if err := s.deps.Documents.SaveDocument(ctx, doc); err != nil {
			return stats, fmt.Errorf("save document %q: %w", e.Title, err)
		}
		stats.Loaded++
		logger.Debug("Loaded %q", e.Title)
	}

	logger.Info("Loaded %d sources", stats.Loaded)
	return stats, nil
}

// ProcessDocuments chunks every unprocessed document. Documents whose PDF is
// missing or unreadable are logged and skipped.
func (s *IngestionService) ProcessDocuments(ctx context.Context) (domain.IngestStats, error) {
	logger.Section("Process Documents")

	docs, err := s.deps.Documents.ListUnprocessed(ctx)
	if err != nil {
		return domain.IngestStats{}, fmt.Errorf("list unprocessed documents: %w", err)
	}
	logger.Info("Found %d documents to process", len(docs))

	var stats domain.IngestStats
	for i := range docs {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		n, err := s.processDocument(ctx, &docs[i])
		if err != nil {
			logger.Warn("Skipping %q: %v", docs[i].Title, err)
			stats.Skipped++
			continue
		}
		stats.Processed++
		stats.Chunks += n
	}

	logger.Info("Processed %d documents (%d chunks), skipped %d", stats.Processed, stats.Chunks, stats.Skipped)
	return stats, nil
}

func (s *IngestionService) processDocument(ctx context.Context, doc *domain.Document) (int, error) {
	path, err := s.deps.Locator.Locate(ctx, doc.Title)
	if err != nil {
		return 0, err
	}
	logger.Debug("Found PDF for %q: %s", doc.Title, path)

	content, err := s.deps.TextSource.ExtractText(ctx, path)
	if err != nil {
		return 0, fmt.Errorf("extract text: %w", err)
	}
	if words := text.WordCount(content); words < MinDocumentWords {
		return 0, fmt.Errorf("only %d words of text extracted from %s", words, path)
	}

	doc.Content = content
	chunks, err := s.deps.Pipeline.Process(ctx, doc)
	doc.Content = ""
	if err != nil {
		return 0, fmt.Errorf("chunk: %w", err)
	}
	if len(chunks) == 0 {
		return 0, errors.New("no chunks produced")
	}

	if err := s.deps.Documents.ReplaceChunks(ctx, doc.ID, chunks); err != nil {
		return 0, fmt.Errorf("save chunks: %w", err)
	}
	if err := s.deps.Documents.MarkProcessed(ctx, doc.ID); err != nil {
		return 0, fmt.Errorf("mark processed: %w", err)
	}

	logger.Debug("Created %d chunks for %q", len(chunks), doc.Title)
	return len(chunks), nil
}

// GenerateEmbeddings rebuilds the vector store from every stored chunk.
// A failing batch is logged and counted, and the run continues.
func (s *IngestionService) GenerateEmbeddings(ctx context.Context) (domain.IngestStats, error) {
	logger.Section("Generate Embeddings")

	if s.deps.Embedding == nil {
		return domain.IngestStats{}, domain.ErrEmbeddingUnavailable
	}
	if s.deps.Vectors == nil {
		return domain.IngestStats{}, domain.ErrVectorStoreUnavailable
	}

	records, stats, err := s.embeddingRecords(ctx)
	if err != nil {
		return stats, err
	}
	logger.Info("Embedding %d chunks with %s", len(records), s.deps.Embedding.ModelName())

	if err := s.deps.Vectors.DeleteAll(ctx); err != nil {
		return stats, fmt.Errorf("clear vector store: %w", err)
	}

	batches := (len(records) + EmbeddingBatchSize - 1) / EmbeddingBatchSize
	for b := 0; b < batches; b++ {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		start := b * EmbeddingBatchSize
		batch := records[start:min(start+EmbeddingBatchSize, len(records))]
		if err := s.embedBatch(ctx, batch); err != nil {
			logger.Error("Embedding batch %d/%d failed: %v", b+1, batches, err)
			stats.Failed += len(batch)
			continue
		}
		stats.Embedded += len(batch)
		logger.Progress("embed", b+1, batches)
	}

	logger.Info("Embedded %d chunks, skipped %d, failed %d", stats.Embedded, stats.Skipped, stats.Failed)
	return stats, nil
}

// embeddingRecords collects every chunk long enough to embed. Vectors are
// filled in per batch.
func (s *IngestionService) embeddingRecords(ctx context.Context) ([]domain.EmbeddingRecord, domain.IngestStats, error) {
	var stats domain.IngestStats

	docs, err := s.deps.Documents.ListDocuments(ctx)
	if err != nil {
		return nil, stats, fmt.Errorf("list documents: %w", err)
	}

	var records []domain.EmbeddingRecord
	for _, doc := range docs {
		chunks, err := s.deps.Documents.GetChunks(ctx, doc.ID)
		if err != nil {
			return nil, stats, fmt.Errorf("get chunks for %q: %w", doc.Title, err)
		}
		for _, c := range chunks {
			cleaned := text.Normalise(c.Text)
			if text.WordCount(cleaned) < MinEmbeddingWords {
				stats.Skipped++
				continue
			}
			records = append(records, domain.EmbeddingRecord{
				Key:  c.Key(),
				Text: cleaned,
				Metadata: domain.EmbeddingMetadata{
					DocumentID:    doc.ID,
					ChunkIndex:    c.Index,
					DocumentTitle: doc.Title,
					DocumentURL:   doc.SourceURL,
					OriginalText:  c.OriginalText,
				},
			})
		}
	}
	return records, stats, nil
}

func (s *IngestionService) embedBatch(ctx context.Context, batch []domain.EmbeddingRecord) error {
	texts := make([]string, len(batch))
	for i := range batch {
		texts[i] = batch[i].Text
	}

	vectors, err := s.deps.Embedding.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("embed: %w", err)
	}
	if len(vectors) != len(batch) {
		return fmt.Errorf("embed: got %d vectors for %d texts", len(vectors), len(batch))
	}
	for i := range batch {
		batch[i].Vector = vectors[i]
	}

	if err := s.deps.Vectors.Upsert(ctx, batch); err != nil {
		return fmt.Errorf("upsert: %w", err)
	}
	return nil
}

// Initialize wipes documents, chunks and vectors, then loads, processes and
// embeds from scratch. It stops with ErrNoPDFs or ErrNoChunks when there is
// nothing to ingest.
func (s *IngestionService) Initialize(ctx context.Context) (domain.IngestStats, error) {
	logger.Section("Initialize")

	if err := s.deps.Documents.DeleteAll(ctx); err != nil {
		return domain.IngestStats{}, fmt.Errorf("reset documents: %w", err)
	}
	if s.deps.Vectors != nil {
		if err := s.deps.Vectors.DeleteAll(ctx); err != nil {
			logger.Warn("Could not clear vector store: %v", err)
		}
	}

	total, err := s.LoadSources(ctx)
	if err != nil {
		return total, err
	}

	files, err := s.deps.Locator.List(ctx)
	if err != nil {
		return total, fmt.Errorf("list pdfs: %w", err)
	}
	if len(files) == 0 {
		return total, domain.ErrNoPDFs
	}

	stats, err := s.ProcessDocuments(ctx)
	total = total.Add(stats)
	if err != nil {
		return total, err
	}

	count, err := s.deps.Documents.CountChunks(ctx)
	if err != nil {
		return total, fmt.Errorf("count chunks: %w", err)
	}
	if count == 0 {
		return total, domain.ErrNoChunks
	}

	stats, err = s.GenerateEmbeddings(ctx)
	total = total.Add(stats)
	return total, err
}

// Diagnostics reports corpus counts. The vector count is 0 when the vector
// store cannot be reached.
func (s *IngestionService) Diagnostics(ctx context.Context) (domain.Diagnostics, error) {
	var d domain.Diagnostics

	docs, err := s.deps.Documents.ListDocuments(ctx)
	if err != nil {
		return d, fmt.Errorf("list documents: %w", err)
	}
	d.Documents = len(docs)
	for _, doc := range docs {
		if doc.Processed {
			d.ProcessedDocuments++
		}
	}

	if d.Chunks, err = s.deps.Documents.CountChunks(ctx); err != nil {
		return d, fmt.Errorf("count chunks: %w", err)
	}

	if s.deps.Vectors != nil {
		n, err := s.deps.Vectors.Count(ctx)
		if err != nil {
			logger.Warn("Vector store unavailable: %v", err)
		} else {
			d.Vectors = n
		}
	}
	return d, nil
}

// CheckPDFs lists the available PDF files and the file matched to each
// document title.
func (s *IngestionService) CheckPDFs(ctx context.Context) (*domain.PDFReport, error) {
	files, err := s.deps.Locator.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list pdfs: %w", err)
	}

	docs, err := s.deps.Documents.ListDocuments(ctx)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}

	report := &domain.PDFReport{
		Files:   files,
		Matches: make([]domain.PDFMatch, 0, len(docs)),
	}
	for _, doc := range docs {
		match := domain.PDFMatch{Title: doc.Title}
		path, err := s.deps.Locator.Locate(ctx, doc.Title)
		switch {
		case err == nil:
			match.Path = path
		case !errors.Is(err, domain.ErrPDFNotFound):
			return nil, fmt.Errorf("locate %q: %w", doc.Title, err)
		}
		report.Matches = append(report.Matches, match)
	}
	return report, nil
}

// Questions returns the suggested question bank.
func (s *IngestionService) Questions(ctx context.Context) ([]domain.QuestionCategory, error) {
	return s.deps.Catalog.LoadQuestions(ctx)
}
