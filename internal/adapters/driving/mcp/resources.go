package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	uriScheme = "safetyqa://"

	uriDiagnostics = uriScheme + "diagnostics"
	uriQuestions   = uriScheme + "questions"
	uriPDFs        = uriScheme + "pdfs"

	mimeJSON = "application/json"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriDiagnostics,
		Name:        "diagnostics",
		Description: "Counts of documents, processed documents, chunks and vectors",
		MIMEType:    mimeJSON,
	}, s.handleDiagnosticsResource)

	s.server.AddResource(&mcp.Resource{
		URI:         uriQuestions,
		Name:        "questions",
		Description: "Suggested questions grouped by category",
		MIMEType:    mimeJSON,
	}, s.handleQuestionsResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriQuestions + "/{category}",
		Name:        "questions-by-category",
		Description: "Suggested questions of one category",
		MIMEType:    mimeJSON,
	}, s.handleCategoryResource)

	s.server.AddResource(&mcp.Resource{
		URI:         uriPDFs,
		Name:        "pdfs",
		Description: "Available PDF files and how each document title maps onto them",
		MIMEType:    mimeJSON,
	}, s.handlePDFsResource)
}

func (s *Server) handleDiagnosticsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Ingestion == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	d, err := s.ports.Ingestion.Diagnostics(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading diagnostics: %w", err)
	}
	return jsonResource(req.Params.URI, d)
}

func (s *Server) handleQuestionsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Ingestion == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	categories, err := s.ports.Ingestion.Questions(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading questions: %w", err)
	}
	return jsonResource(req.Params.URI, categories)
}

// handleCategoryResource returns one category, matched case-insensitively.
func (s *Server) handleCategoryResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Ingestion == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	name := extractCategory(req.Params.URI)
	if name == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	categories, err := s.ports.Ingestion.Questions(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading questions: %w", err)
	}
	for _, c := range categories {
		if strings.EqualFold(c.Category, name) {
			return jsonResource(req.Params.URI, c)
		}
	}
	return nil, mcp.ResourceNotFoundError(req.Params.URI)
}

func (s *Server) handlePDFsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Ingestion == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	report, err := s.ports.Ingestion.CheckPDFs(ctx)
	if err != nil {
		return nil, fmt.Errorf("checking pdfs: %w", err)
	}
	return jsonResource(req.Params.URI, report)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", uri, err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: mimeJSON,
			Text:     string(data),
		}},
	}, nil
}

// extractCategory extracts the category from a URI like safetyqa://questions/{category}.
func extractCategory(uri string) string {
	const prefix = uriQuestions + "/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	name, err := url.PathUnescape(strings.TrimPrefix(uri, prefix))
	if err != nil {
		return ""
	}
	return name
}
