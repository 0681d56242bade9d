package ranking

import "math"

// Okapi BM25 defaults.
const (
	DefaultK1      = 1.5
	DefaultB       = 0.75
	DefaultEpsilon = 0.25
)

// BM25 is an Okapi BM25 index over a small, fixed set of tokenized texts.
//
// It is built per query over the candidates returned by vector retrieval,
// so document frequencies describe that window and not the whole corpus.
type BM25 struct {
	k1      float64
	b       float64
	epsilon float64

	termFreqs []map[string]int
	docLens   []int
	avgDocLen float64
	idf       map[string]float64
}

// BM25Option configures a BM25 index.
type BM25Option func(*BM25)

// WithK1 sets the term frequency saturation constant.
func WithK1(k1 float64) BM25Option {
	return func(m *BM25) { m.k1 = k1 }
}

// WithB sets the document length normalisation constant.
func WithB(b float64) BM25Option {
	return func(m *BM25) { m.b = b }
}

// WithEpsilon sets the floor, as a fraction of the mean idf, applied to
// terms whose idf would otherwise be negative.
func WithEpsilon(epsilon float64) BM25Option {
	return func(m *BM25) { m.epsilon = epsilon }
}

// NewBM25 indexes corpus, one token slice per document.
func NewBM25(corpus [][]string, opts ...BM25Option) *BM25 {
	m := &BM25{
		k1:        DefaultK1,
		b:         DefaultB,
		epsilon:   DefaultEpsilon,
		termFreqs: make([]map[string]int, len(corpus)),
		docLens:   make([]int, len(corpus)),
		idf:       make(map[string]float64),
	}
	for _, opt := range opts {
		opt(m)
	}

	docFreqs := make(map[string]int)
	total := 0
	for i, doc := range corpus {
		freqs := make(map[string]int, len(doc))
		for _, tok := range doc {
			freqs[tok]++
		}
		for tok := range freqs {
			docFreqs[tok]++
		}
		m.termFreqs[i] = freqs
		m.docLens[i] = len(doc)
		total += len(doc)
	}
	if len(corpus) > 0 {
		m.avgDocLen = float64(total) / float64(len(corpus))
	}

	m.computeIDF(docFreqs, len(corpus))
	return m
}

// computeIDF uses log((N - n + 0.5) / (n + 0.5)). Terms present in more than
// half of the documents get a negative value, which is replaced by epsilon
// times the mean idf.
func (m *BM25) computeIDF(docFreqs map[string]int, n int) {
	if len(docFreqs) == 0 {
		return
	}
	var (
		sum      float64
		negative []string
	)
	for tok, df := range docFreqs {
		idf := math.Log(float64(n)-float64(df)+0.5) - math.Log(float64(df)+0.5)
		m.idf[tok] = idf
		sum += idf
		if idf < 0 {
			negative = append(negative, tok)
		}
	}
	floor := m.epsilon * sum / float64(len(m.idf))
	for _, tok := range negative {
		m.idf[tok] = floor
	}
}

// Len returns the number of indexed documents.
func (m *BM25) Len() int {
	return len(m.termFreqs)
}

// Scores returns the BM25 score of every indexed document for the query
// tokens, aligned with the corpus order. Repeated query tokens count once
// per occurrence. A document sharing no term with the query scores 0.
func (m *BM25) Scores(query []string) []float64 {
	scores := make([]float64, len(m.termFreqs))
	if m.avgDocLen == 0 {
		return scores
	}
	for _, q := range query {
		idf, ok := m.idf[q]
		if !ok {
			continue
		}
		for i, freqs := range m.termFreqs {
			tf := float64(freqs[q])
			if tf == 0 {
				continue
			}
			norm := m.k1 * (1 - m.b + m.b*float64(m.docLens[i])/m.avgDocLen)
			scores[i] += idf * tf * (m.k1 + 1) / (tf + norm)
		}
	}
	return scores
}
