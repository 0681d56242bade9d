// Package domain defines the core entities of safetyqa.
//
// This package is the innermost layer of the hexagon and imports the
// standard library only. It defines:
//
//   - Document and Chunk: ingested sources and their retrieval units
//   - EmbeddingRecord: a chunk vector as persisted by a vector store
//   - Candidate and ScoredCandidate: per-query retrieval results
//   - QueryRequest and AnswerResult: the question-answering contract
//   - Settings: effective application configuration
//
// All other packages depend on domain, never the reverse.
package domain
