package sqlite

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/safetyqa/internal/core/domain"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) (*Store, func()) {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "safetyqa-test-*")
	require.NoError(t, err)

	store, err := NewStore(tempDir)
	require.NoError(t, err)
	require.NotNil(t, store)

	cleanup := func() {
		assert.NoError(t, store.Close())
		assert.NoError(t, os.RemoveAll(tempDir))
	}

	return store, cleanup
}

// createTestDocument saves a document to satisfy foreign key constraints.
func createTestDocument(t *testing.T, store *Store, id, title string) {
	t.Helper()
	err := store.DocumentStore().SaveDocument(context.Background(), &domain.Document{
		ID:        id,
		Title:     title,
		SourceURL: "https://example.org/" + id + ".pdf",
	})
	require.NoError(t, err)
}

func record(key string, vector []float32, index int) domain.EmbeddingRecord {
	return domain.EmbeddingRecord{
		Key:    key,
		Text:   "text " + key,
		Vector: vector,
		Metadata: domain.EmbeddingMetadata{
			DocumentID:    "doc-1",
			ChunkIndex:    index,
			DocumentTitle: "Fire Safety",
			DocumentURL:   "https://example.org/fire.pdf",
			OriginalText:  "Original " + key,
		},
	}
}

func TestNewStore_EmptyDataDir(t *testing.T) {
	_, err := NewStore("")
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
}

func TestNewStore_DirectoryCreation(t *testing.T) {
	tempDir := t.TempDir()
	dataDir := filepath.Join(tempDir, "nested", "data")

	store, err := NewStore(dataDir)
	require.NoError(t, err)
	defer store.Close()

	assert.Equal(t, filepath.Join(dataDir, DatabaseFile), store.Path())
	_, err = os.Stat(store.Path())
	assert.NoError(t, err)
}

func TestNewStore_Migrations(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	for _, table := range []string{"documents", "chunks", "vectors", "schema_migrations"} {
		var name string
		err := store.db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
	}

	var version int
	require.NoError(t, store.db.QueryRow("SELECT MAX(version) FROM schema_migrations").Scan(&version))
	assert.Equal(t, 1, version)
}

func TestNewStore_ReopenKeepsData(t *testing.T) {
	tempDir := t.TempDir()

	store, err := NewStore(tempDir)
	require.NoError(t, err)
	createTestDocument(t, store, "doc-1", "Fire Safety")
	require.NoError(t, store.Close())

	store, err = NewStore(tempDir)
	require.NoError(t, err, "migrations are not re-applied")
	defer store.Close()

	doc, err := store.DocumentStore().GetDocument(context.Background(), "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "Fire Safety", doc.Title)
}

func TestNewStore_ForeignKeysEnabled(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	var enabled int
	require.NoError(t, store.db.QueryRow("PRAGMA foreign_keys").Scan(&enabled))
	assert.Equal(t, 1, enabled)
}

func TestDocumentStore_SaveAndGetDocument(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	docs := store.DocumentStore()

	doc := &domain.Document{
		ID:        "doc-1",
		Title:     "Fire Safety",
		SourceURL: "https://example.org/fire.pdf",
		Content:   "never persisted",
	}
	require.NoError(t, docs.SaveDocument(ctx, doc))

	got, err := docs.GetDocument(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "Fire Safety", got.Title)
	assert.Equal(t, "https://example.org/fire.pdf", got.SourceURL)
	assert.False(t, got.Processed)
	assert.Empty(t, got.Content)

	doc.SourceURL = "https://example.org/fire-v2.pdf"
	doc.Processed = true
	require.NoError(t, docs.SaveDocument(ctx, doc))

	got, err = docs.GetDocument(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "https://example.org/fire-v2.pdf", got.SourceURL)
	assert.True(t, got.Processed)
}

func TestDocumentStore_GetDocument_NotFound(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	_, err := store.DocumentStore().GetDocument(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentStore_ListAndMarkProcessed(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	docs := store.DocumentStore()

	createTestDocument(t, store, "b", "Noise at Work")
	createTestDocument(t, store, "a", "Fire Safety")
	createTestDocument(t, store, "c", "Working at Height")

	all, err := docs.ListDocuments(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Fire Safety", all[0].Title)
	assert.Equal(t, "Working at Height", all[2].Title)

	require.NoError(t, docs.MarkProcessed(ctx, "b"))
	assert.ErrorIs(t, docs.MarkProcessed(ctx, "missing"), domain.ErrNotFound)

	pending, err := docs.ListUnprocessed(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, "a", pending[0].ID)
	assert.Equal(t, "c", pending[1].ID)
}

func TestDocumentStore_ListDocuments_Empty(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	docs, err := store.DocumentStore().ListDocuments(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, docs)
	assert.Empty(t, docs)
}

func TestDocumentStore_ReplaceChunks(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	docs := store.DocumentStore()
	createTestDocument(t, store, "doc-1", "Fire Safety")

	first := []domain.Chunk{
		{Index: 0, Text: "keep exits clear", OriginalText: "Keep exits clear."},
		{Index: 1, Text: "test alarms", OriginalText: "Test alarms."},
		{Index: 2, Text: "train wardens", OriginalText: "Train wardens."},
	}
	require.NoError(t, docs.ReplaceChunks(ctx, "doc-1", first))

	got, err := docs.GetChunks(ctx, "doc-1")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "doc-1", got[0].DocumentID)
	assert.Equal(t, "Keep exits clear.", got[0].OriginalText)

	// Reprocessing replaces, never appends.
	second := []domain.Chunk{
		{Index: 0, Text: "keep exits clear", OriginalText: "Keep exits clear."},
		{Index: 3, Text: "log drills", OriginalText: "Log drills."},
	}
	require.NoError(t, docs.ReplaceChunks(ctx, "doc-1", second))

	got, err = docs.GetChunks(ctx, "doc-1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 0, got[0].Index)
	assert.Equal(t, 3, got[1].Index, "indices are kept as assigned")

	n, err := docs.CountChunks(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestDocumentStore_ReplaceChunks_UnknownDocument(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	err := store.DocumentStore().ReplaceChunks(context.Background(), "missing", []domain.Chunk{{Index: 0, Text: "x"}})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentStore_DeleteAll_CascadesChunks(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	docs := store.DocumentStore()

	createTestDocument(t, store, "doc-1", "Fire Safety")
	require.NoError(t, docs.ReplaceChunks(ctx, "doc-1", []domain.Chunk{{Index: 0, Text: "a", OriginalText: "A"}}))

	require.NoError(t, docs.DeleteAll(ctx))

	all, err := docs.ListDocuments(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	n, err := docs.CountChunks(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestVectorStore_UpsertAndQuery(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	vectors := store.VectorStore()

	require.NoError(t, vectors.Upsert(ctx, []domain.EmbeddingRecord{
		record("doc-1_0", []float32{1, 0, 0}, 0),
		record("doc-1_1", []float32{0, 1, 0}, 1),
		record("doc-1_2", []float32{0.9, 0.1, 0}, 2),
	}))

	n, err := vectors.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	matches, err := vectors.Query(ctx, []float32{1, 0, 0}, 2)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "doc-1_0", matches[0].Key)
	assert.InDelta(t, 0.0, matches[0].Distance, 1e-6)
	assert.Equal(t, "doc-1_2", matches[1].Key)
	assert.Equal(t, "text doc-1_0", matches[0].Text)
	assert.Equal(t, "Original doc-1_0", matches[0].Metadata.OriginalText)
	assert.Equal(t, "Fire Safety", matches[0].Metadata.DocumentTitle)
}

func TestVectorStore_UpsertReplaces(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	vectors := store.VectorStore()

	require.NoError(t, vectors.Upsert(ctx, []domain.EmbeddingRecord{record("k", []float32{1, 0}, 0)}))
	require.NoError(t, vectors.Upsert(ctx, []domain.EmbeddingRecord{record("k", []float32{0, 1}, 0)}))

	n, err := vectors.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	matches, err := vectors.Query(ctx, []float32{0, 1}, 1)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.InDelta(t, 0.0, matches[0].Distance, 1e-6)
}

func TestVectorStore_TiesKeepInsertionOrder(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	vectors := store.VectorStore()

	var records []domain.EmbeddingRecord
	for i := 0; i < 5; i++ {
		records = append(records, record(fmt.Sprintf("k%d", i), []float32{1, 1}, i))
	}
	require.NoError(t, vectors.Upsert(ctx, records))

	matches, err := vectors.Query(ctx, []float32{1, 1}, 5)
	require.NoError(t, err)
	for i, m := range matches {
		assert.Equal(t, fmt.Sprintf("k%d", i), m.Key)
	}
}

func TestVectorStore_DimensionMismatch(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	vectors := store.VectorStore()

	require.NoError(t, vectors.Upsert(ctx, []domain.EmbeddingRecord{record("a", []float32{1, 0}, 0)}))
	assert.Error(t, vectors.Upsert(ctx, []domain.EmbeddingRecord{record("b", []float32{1, 0, 0}, 1)}))

	_, err := vectors.Query(ctx, []float32{1, 0, 0}, 1)
	assert.Error(t, err)
}

func TestVectorStore_EmptyAndDeleteAll(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	vectors := store.VectorStore()

	matches, err := vectors.Query(ctx, []float32{1, 0}, 3)
	require.NoError(t, err)
	assert.Empty(t, matches)

	require.NoError(t, vectors.Upsert(ctx, []domain.EmbeddingRecord{record("a", []float32{1, 0}, 0)}))
	require.NoError(t, vectors.DeleteAll(ctx))

	n, err := vectors.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	// A cleared store accepts a new dimension.
	require.NoError(t, vectors.Upsert(ctx, []domain.EmbeddingRecord{record("b", []float32{1, 0, 0}, 0)}))
	require.NoError(t, vectors.Close())
}

func TestFloat32Roundtrip(t *testing.T) {
	original := []float32{0.1, -2.5, 3.14159, 0, 1e-7}
	assert.Equal(t, original, bytesToFloat32Slice(float32SliceToBytes(original)))
	assert.Empty(t, float32SliceToBytes(nil))
	assert.Nil(t, bytesToFloat32Slice(nil))
}

func TestStore_ContextCancellation(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.DocumentStore().ListDocuments(ctx)
	assert.Error(t, err)
}
