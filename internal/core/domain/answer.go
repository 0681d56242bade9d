package domain

// AnswerSource identifies where a context passage came from.
type AnswerSource struct {
	Title      string `json:"title"`
	URL        string `json:"url"`
	ChunkIndex int    `json:"chunk_index"`
}

// AnswerContext is a ranked passage shown alongside the answer.
type AnswerContext struct {
	Text   string       `json:"text"`
	Score  float64      `json:"score"`
	Source AnswerSource `json:"source"`
}

// AnswerResult is the outcome of one query.
//
// A nil Answer with populated Contexts means no passage was confident enough.
// A nil Answer with no Contexts means nothing was retrieved at all.
type AnswerResult struct {
	Answer       *string         `json:"answer"`
	Contexts     []AnswerContext `json:"contexts"`
	RerankerUsed bool            `json:"reranker_used"`
	Query        string          `json:"query"`
}

// HasAnswer reports whether a confident answer was produced.
func (r *AnswerResult) HasAnswer() bool {
	return r != nil && r.Answer != nil
}
