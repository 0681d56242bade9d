package mcp

import (
	"github.com/custodia-labs/safetyqa/internal/core/ports/driving"
)

// Ports aggregates the driving ports used by the MCP server.
type Ports struct {
	// QA answers questions. Required.
	QA driving.QAService

	// Ingestion backs the corpus resources. Optional.
	Ingestion driving.IngestionService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.QA == nil {
		return ErrMissingQAService
	}
	return nil
}
