// Package cosine ranks stored vectors by exact cosine distance.
//
// The embedded vector stores (memory and SQLite) hold at most a few tens of
// thousands of chunk vectors, so a full scan is fast enough and exact.
package cosine

import (
	"sort"

	"github.com/viant/vec/search"
)

// Entry is a stored vector with a precomputed magnitude.
type Entry struct {
	Key       string
	Vector    []float32
	Magnitude float32
}

// NewEntry builds an Entry and computes its magnitude.
func NewEntry(key string, vector []float32) Entry {
	return Entry{Key: key, Vector: vector, Magnitude: Magnitude(vector)}
}

// Magnitude returns the Euclidean norm of v.
func Magnitude(v []float32) float32 {
	return search.Float32s(v).Magnitude()
}

// Distance returns 1 - cosine similarity. Zero vectors are at distance 1
// from everything. Vectors of different length are at distance 2.
func Distance(a []float32, magA float32, b []float32, magB float32) float64 {
	if len(a) != len(b) {
		return 2
	}
	if magA == 0 || magB == 0 {
		return 1
	}
	return float64(search.Float32s(a).CosineDistanceWithMagnitude(b, magA, magB))
}

// Hit is a ranked Entry.
type Hit struct {
	Key      string
	Distance float64
}

// Nearest returns the topN entries closest to query, by ascending distance.
// Ties keep the order of entries.
func Nearest(query []float32, entries []Entry, topN int) []Hit {
	if topN <= 0 || len(entries) == 0 {
		return []Hit{}
	}

	qm := Magnitude(query)
	hits := make([]Hit, len(entries))
	for i, e := range entries {
		hits[i] = Hit{Key: e.Key, Distance: Distance(query, qm, e.Vector, e.Magnitude)}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Distance < hits[j].Distance
	})
	if len(hits) > topN {
		hits = hits[:topN]
	}
	return hits
}
