package ranking

import (
	"sort"

	"github.com/custodia-labs/safetyqa/internal/core/domain"
	"github.com/custodia-labs/safetyqa/internal/normalisers/text"
)

// Fusion weights. Only the vector weight (alpha) is configurable.
const (
	DefaultAlpha = 0.6
	BM25Weight   = 0.3
	TitleWeight  = 0.05
	LengthWeight = 0.05
)

// PreferredChunkWords is the chunk length at which the length signal saturates.
const PreferredChunkWords = 100

// Reranker reorders vector retrieval candidates by fusing vector similarity
// with BM25, title overlap and chunk length. It holds no per-query state and
// is safe for concurrent use.
type Reranker struct {
	alpha       float64
	bm25Options []BM25Option
}

// Option configures a Reranker.
type Option func(*Reranker)

// WithAlpha sets the weight of the normalised vector score.
func WithAlpha(alpha float64) Option {
	return func(r *Reranker) {
		if alpha >= 0 && alpha <= 1 {
			r.alpha = alpha
		}
	}
}

// WithBM25Options passes options to the per-query BM25 index.
func WithBM25Options(opts ...BM25Option) Option {
	return func(r *Reranker) {
		r.bm25Options = append(r.bm25Options, opts...)
	}
}

// NewReranker creates a reranker with the given options.
func NewReranker(opts ...Option) *Reranker {
	r := &Reranker{alpha: DefaultAlpha}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Alpha returns the vector weight.
func (r *Reranker) Alpha() float64 {
	return r.alpha
}

// Rerank scores candidates against query and returns them ordered by
// combined score, highest first. Candidates with equal combined scores keep
// their retrieval order. An empty candidate set yields an empty result.
func (r *Reranker) Rerank(query string, candidates []domain.Candidate) []domain.ScoredCandidate {
	if len(candidates) == 0 {
		return []domain.ScoredCandidate{}
	}

	corpus := make([][]string, len(candidates))
	vector := make([]float64, len(candidates))
	for i, c := range candidates {
		corpus[i] = Tokenize(c.CleanedText)
		vector[i] = c.VectorScore
	}

	queryTokens := Tokenize(query)
	bm25 := MinMax(NewBM25(corpus, r.bm25Options...).Scores(queryTokens))
	vectorNorm := MinMax(vector)

	scored := make([]domain.ScoredCandidate, len(candidates))
	for i, c := range candidates {
		title := TitleScore(queryTokens, c.DocumentTitle)
		length := LengthScore(c.CleanedText)
		scored[i] = domain.ScoredCandidate{
			Candidate:     c,
			BM25Score:     bm25[i],
			TitleScore:    title,
			LengthScore:   length,
			CombinedScore: r.fuse(vectorNorm[i], bm25[i], title, length),
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].CombinedScore > scored[j].CombinedScore
	})
	return scored
}

func (r *Reranker) fuse(vector, bm25, title, length float64) float64 {
	return r.alpha*vector + BM25Weight*bm25 + TitleWeight*title + LengthWeight*length
}

// TitleScore returns the fraction of distinct query tokens that also occur
// in the title. It is 0 when the query has no tokens.
func TitleScore(queryTokens []string, title string) float64 {
	query := toSet(queryTokens)
	if len(query) == 0 {
		return 0
	}
	titleTokens := toSet(Tokenize(title))
	shared := 0
	for tok := range query {
		if _, ok := titleTokens[tok]; ok {
			shared++
		}
	}
	return float64(shared) / float64(len(query))
}

// LengthScore is min(1, words/PreferredChunkWords).
func LengthScore(s string) float64 {
	return min(1.0, float64(text.WordCount(s))/PreferredChunkWords)
}
