// Package mcp exposes safetyqa to AI assistants over the Model Context Protocol.
package mcp

import "errors"

// ErrMissingQAService is returned when the QA service is not provided.
var ErrMissingQAService = errors.New("mcp: qa service is required")
