package domain

// Candidate is a chunk surfaced by vector retrieval for one query.
type Candidate struct {
	// ChunkText is the original chunk text, used for display and answers.
	ChunkText string `json:"chunk_text"`

	// CleanedText is the normalised text, used for lexical scoring.
	CleanedText string `json:"cleaned_text"`

	DocumentTitle string `json:"document_title"`
	DocumentURL   string `json:"document_url"`
	ChunkIndex    int    `json:"chunk_index"`

	// VectorScore is the cosine similarity, 1 - distance.
	VectorScore float64 `json:"vector_score"`
}

// ScoredCandidate is a Candidate annotated with every reranking signal.
type ScoredCandidate struct {
	Candidate

	// BM25Score is the min-max normalised lexical score.
	BM25Score float64 `json:"bm25_score"`

	// TitleScore is the fraction of query tokens found in the document title.
	TitleScore float64 `json:"title_score"`

	// LengthScore prefers chunks of roughly 100 words or more.
	LengthScore float64 `json:"length_score"`

	// CombinedScore is the fused ranking score.
	CombinedScore float64 `json:"combined_score"`
}

// Unranked wraps candidates as scored candidates whose combined score is the
// raw vector score. It is used when reranking is skipped.
func Unranked(candidates []Candidate) []ScoredCandidate {
	out := make([]ScoredCandidate, len(candidates))
	for i, c := range candidates {
		out[i] = ScoredCandidate{Candidate: c, CombinedScore: c.VectorScore}
	}
	return out
}
