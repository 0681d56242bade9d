// Package messages defines Bubbletea message types for the TUI.
package messages

import (
	"github.com/custodia-labs/safetyqa/internal/core/domain"
)

// AskCompleted carries the answer to a question back to the model.
type AskCompleted struct {
	Request domain.QueryRequest
	Result  *domain.AnswerResult
	Err     error
}

// DiagnosticsLoaded carries corpus counts shown in the header.
type DiagnosticsLoaded struct {
	Diagnostics domain.Diagnostics
	Err         error
}
