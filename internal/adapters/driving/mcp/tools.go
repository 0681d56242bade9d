package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/safetyqa/internal/core/domain"
)

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Query string `json:"query" jsonschema:"the safety question to answer (at most 500 characters)"`
	K     int    `json:"k,omitempty" jsonschema:"number of passages to return, 1 to 10 (default 5)"`
	Mode  string `json:"mode,omitempty" jsonschema:"ranking mode: baseline or reranked (default reranked)"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer       *string         `json:"answer" jsonschema:"the best passage, or null when no passage was confident enough"`
	Contexts     []ContextOutput `json:"contexts"`
	RerankerUsed bool            `json:"reranker_used"`
	Query        string          `json:"query"`
}

// ContextOutput is a ranked passage.
type ContextOutput struct {
	Text   string       `json:"text"`
	Score  float64      `json:"score"`
	Source SourceOutput `json:"source"`
}

// SourceOutput identifies the document a passage came from.
type SourceOutput struct {
	Title      string `json:"title"`
	URL        string `json:"url"`
	ChunkIndex int    `json:"chunk_index"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name: "ask",
		Description: "Answer a question from the ingested industrial safety documents. " +
			"Returns the most relevant passages with their sources, and the best passage as the answer when it is confident enough.",
	}, s.handleAsk)
}

// handleAsk handles the ask tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	mode, err := domain.ParseSearchMode(input.Mode)
	if err != nil {
		return nil, AskOutput{}, err
	}

	req := domain.QueryRequest{Query: input.Query, K: input.K, Mode: mode}
	result, err := s.ports.QA.Ask(ctx, req.WithDefaults())
	if err != nil {
		return nil, AskOutput{}, err
	}

	return nil, toAskOutput(result), nil
}

func toAskOutput(r *domain.AnswerResult) AskOutput {
	out := AskOutput{
		Answer:       r.Answer,
		Contexts:     make([]ContextOutput, len(r.Contexts)),
		RerankerUsed: r.RerankerUsed,
		Query:        r.Query,
	}
	for i, c := range r.Contexts {
		out.Contexts[i] = ContextOutput{
			Text:  c.Text,
			Score: c.Score,
			Source: SourceOutput{
				Title:      c.Source.Title,
				URL:        c.Source.URL,
				ChunkIndex: c.Source.ChunkIndex,
			},
		}
	}
	return out
}
