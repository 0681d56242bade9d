// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and adapters implement them.
//
// # Required Interfaces
//
//   - DocumentStore: document and chunk persistence
//   - SourceCatalog: the source list and question bank
//   - PDFLocator: maps document titles onto PDF files
//   - TextSource: extracts raw text from a PDF
//   - ConfigStore: application configuration
//
// # Degradable Interfaces
//
//   - EmbeddingService and VectorStore: when either fails at query time the
//     retrieval service returns no candidates instead of an error.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: any adapter package
package driven
