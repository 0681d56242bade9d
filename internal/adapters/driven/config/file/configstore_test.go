package file

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *ConfigStore {
	t.Helper()
	store, err := NewConfigStore(filepath.Join(t.TempDir(), FileName))
	require.NoError(t, err)
	return store
}

func TestNewConfigStore_Success(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "safetyqa.toml")

	store, err := NewConfigStore(path)

	require.NoError(t, err)
	assert.Equal(t, path, store.Path())
	_, err = os.Stat(filepath.Dir(path))
	assert.NoError(t, err, "parent directory is created")
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "file is not written until a value is set")
}

func TestDefaultPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("Cannot determine home directory")
	}

	path, err := DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".safetyqa", "config.toml"), path)
}

func TestConfigStore_SetAndGet(t *testing.T) {
	store := newStore(t)

	require.NoError(t, store.Set("data.pdf_dir", "/srv/pdfs"))

	val, ok := store.Get("data.pdf_dir")
	assert.True(t, ok)
	assert.Equal(t, "/srv/pdfs", val)
	assert.Equal(t, "/srv/pdfs", store.GetString("data.pdf_dir"))

	_, ok = store.Get("data.missing")
	assert.False(t, ok)
	assert.Empty(t, store.GetString("data.missing"))
}

func TestConfigStore_NumericConversions(t *testing.T) {
	store := newStore(t)

	require.NoError(t, store.Set("chunking.chunk_size", 300))
	require.NoError(t, store.Set("ranking.alpha", 0.6))
	require.NoError(t, store.Set("answer.max_chars", 500))

	// Reload so values come back with TOML's own types.
	require.NoError(t, store.Load())

	assert.Equal(t, 300, store.GetInt("chunking.chunk_size"))
	assert.InDelta(t, 0.6, store.GetFloat("ranking.alpha"), 1e-9)
	assert.InDelta(t, 500.0, store.GetFloat("answer.max_chars"), 1e-9, "integers convert to float")
	assert.Equal(t, 0, store.GetInt("data.pdf_dir"))
	assert.Zero(t, store.GetFloat("missing"))
}

func TestConfigStore_WritesNestedTables(t *testing.T) {
	store := newStore(t)

	require.NoError(t, store.Set("ranking.alpha", 0.7))
	require.NoError(t, store.Set("embedding.provider", "ollama"))

	content, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(content), "[ranking]")
	assert.Contains(t, string(content), "[embedding]")
	assert.NotContains(t, string(content), "'ranking.alpha'")
}

func TestConfigStore_Persistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)

	store, err := NewConfigStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Set("vector.backend", "pgvector"))
	require.NoError(t, store.Set("chunking.overlap", 0))

	reopened, err := NewConfigStore(path)
	require.NoError(t, err)
	assert.Equal(t, "pgvector", reopened.GetString("vector.backend"))

	val, ok := reopened.Get("chunking.overlap")
	assert.True(t, ok, "zero values survive a reload")
	assert.EqualValues(t, 0, val)
}

func TestConfigStore_Delete(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	store, err := NewConfigStore(path)
	require.NoError(t, err)

	require.NoError(t, store.Set("ranking.alpha", 0.9))
	require.NoError(t, store.Delete("ranking.alpha"))
	require.NoError(t, store.Delete("never.set"))

	_, ok := store.Get("ranking.alpha")
	assert.False(t, ok)

	reopened, err := NewConfigStore(path)
	require.NoError(t, err)
	_, ok = reopened.Get("ranking.alpha")
	assert.False(t, ok)
}

func TestConfigStore_ReadsHandWrittenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	content := `
[data]
pdf_dir = "docs/pdfs"

[ranking]
alpha = 1
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	store, err := NewConfigStore(path)
	require.NoError(t, err)
	assert.Equal(t, "docs/pdfs", store.GetString("data.pdf_dir"))
	assert.InDelta(t, 1.0, store.GetFloat("ranking.alpha"), 1e-9)
}

func TestConfigStore_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, nil, 0600))

	store, err := NewConfigStore(path)
	require.NoError(t, err)
	_, ok := store.Get("anything")
	assert.False(t, ok)
}

func TestConfigStore_FilePermissions(t *testing.T) {
	store := newStore(t)
	require.NoError(t, store.Set("embedding.api_key", "sk-secret"))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestNewConfigStore_MkdirAllError(t *testing.T) {
	store, err := NewConfigStore("/dev/null/cannot/create/config.toml")

	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestNewConfigStore_LoadCorruptedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("this is not valid TOML {{{[["), 0600))

	store, err := NewConfigStore(path)

	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestConfigStore_Set_WriteFileErrorRollsBack(t *testing.T) {
	store := newStore(t)
	require.NoError(t, store.Set("test", "value"))

	// A directory in place of the file makes every write fail.
	require.NoError(t, os.Remove(store.Path()))
	require.NoError(t, os.Mkdir(store.Path(), 0700))

	assert.Error(t, store.Set("another", "value"))
	_, ok := store.Get("another")
	assert.False(t, ok)

	assert.Error(t, store.Set("test", "changed"))
	assert.Equal(t, "value", store.GetString("test"))
}

func TestConfigStore_SetWithUnmarshallableValue(t *testing.T) {
	store := newStore(t)

	assert.Error(t, store.Set("channel", make(chan int)))
}

func TestConfigStore_Concurrency(t *testing.T) {
	store := newStore(t)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_ = store.Set("ranking.alpha", float64(n)/10)
			_ = store.GetFloat("ranking.alpha")
		}(i)
	}
	wg.Wait()

	_, ok := store.Get("ranking.alpha")
	assert.True(t, ok)
}

func TestNestMap(t *testing.T) {
	nested := nestMap(map[string]any{
		"ranking.alpha":     0.6,
		"answer.max_chars":  500,
		"data.pdf_dir":      "pdfs",
		"data.sources_file": "sources.json",
		"top":               true,
	})

	assert.Equal(t, map[string]any{
		"ranking": map[string]any{"alpha": 0.6},
		"answer":  map[string]any{"max_chars": 500},
		"data":    map[string]any{"pdf_dir": "pdfs", "sources_file": "sources.json"},
		"top":     true,
	}, nested)

	assert.Equal(t, map[string]any{
		"ranking.alpha":     0.6,
		"answer.max_chars":  500,
		"data.pdf_dir":      "pdfs",
		"data.sources_file": "sources.json",
		"top":               true,
	}, flattenMap(nested, ""))
}
