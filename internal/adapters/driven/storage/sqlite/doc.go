// Package sqlite provides the SQLite-backed document store and vector store.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO. Both stores share a single database connection:
//
//   - DocumentStore: documents and their chunks
//   - VectorStore: chunk vectors and their metadata
//
// # Schema
//
// The schema is managed through versioned migrations in the migrations/
// directory. Each migration is a pair of .up.sql and .down.sql files.
//
// # Vector Search
//
// Vectors are stored as little-endian float32 blobs with a precomputed
// magnitude. Queries scan every row and rank by exact cosine distance.
//
// # Data Location
//
// The database lives at <data dir>/safetyqa.db.
package sqlite
