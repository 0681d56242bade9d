package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/safetyqa/internal/adapters/driven/storage/cosine"
	"github.com/custodia-labs/safetyqa/internal/core/domain"
	"github.com/custodia-labs/safetyqa/internal/core/ports/driven"
)

// Ensure VectorStore implements the interface.
var _ driven.VectorStore = (*VectorStore)(nil)

// VectorStore keeps chunk vectors in memory and answers exact cosine queries.
type VectorStore struct {
	mu      sync.RWMutex
	keys    []string
	entries map[string]cosine.Entry
	records map[string]domain.EmbeddingRecord
	dims    int
}

// NewVectorStore creates an empty in-memory vector store.
func NewVectorStore() *VectorStore {
	return &VectorStore{
		entries: make(map[string]cosine.Entry),
		records: make(map[string]domain.EmbeddingRecord),
	}
}

// Upsert inserts or replaces records by key. All vectors must share one
// dimension. A batch with a mismatched vector is rejected as a whole.
func (s *VectorStore) Upsert(_ context.Context, records []domain.EmbeddingRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dims := s.dims
	for _, r := range records {
		if dims == 0 {
			dims = len(r.Vector)
		}
		if len(r.Vector) != dims {
			return fmt.Errorf("vector %s has dimension %d, store uses %d", r.Key, len(r.Vector), dims)
		}
	}
	s.dims = dims

	for i := range records {
		r := records[i]
		if _, exists := s.records[r.Key]; !exists {
			s.keys = append(s.keys, r.Key)
		}
		s.records[r.Key] = r
		s.entries[r.Key] = cosine.NewEntry(r.Key, r.Vector)
	}
	return nil
}

// DeleteAll removes every record and forgets the dimension.
func (s *VectorStore) DeleteAll(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys = nil
	s.entries = make(map[string]cosine.Entry)
	s.records = make(map[string]domain.EmbeddingRecord)
	s.dims = 0
	return nil
}

// Query returns the topN records closest to vector.
func (s *VectorStore) Query(_ context.Context, vector []float32, topN int) ([]domain.VectorMatch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.dims != 0 && len(vector) != s.dims {
		return nil, fmt.Errorf("query has dimension %d, store uses %d", len(vector), s.dims)
	}

	entries := make([]cosine.Entry, len(s.keys))
	for i, k := range s.keys {
		entries[i] = s.entries[k]
	}

	hits := cosine.Nearest(vector, entries, topN)
	matches := make([]domain.VectorMatch, len(hits))
	for i, h := range hits {
		r := s.records[h.Key]
		matches[i] = domain.VectorMatch{
			Key:      h.Key,
			Text:     r.Text,
			Distance: h.Distance,
			Metadata: r.Metadata,
		}
	}
	return matches, nil
}

// Count returns the number of stored records.
func (s *VectorStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records), nil
}

// Close is a no-op.
func (s *VectorStore) Close() error {
	return nil
}
