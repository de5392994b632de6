package index

import "math"

// BM25 parameters. k1 controls term-frequency saturation, b the strength of
// document-length normalization.
const (
	k1 = 1.5
	b  = 0.75
)

// BM25 scores every indexed document against the query terms and returns a
// dense score slice by document ordinal.
//
//	score(D,Q) = Σ_t IDF(t) · (f(t,D)·(k1+1)) / (f(t,D) + k1·(1−b+b·|D|/avgdl))
//	IDF(t)     = ln((N − n(t) + 0.5)/(n(t) + 0.5) + 1)
//
// Terms absent from the index contribute nothing, duplicate query terms are
// counted once, and an empty term slice yields all-zero scores. A zero score
// means no lexical match; it is never an error.
func (ix *Index) BM25(terms []string) []float64 {
	scores := make([]float64, ix.numDocs)
	if ix.numDocs == 0 || len(terms) == 0 {
		return scores
	}

	seen := make(map[string]bool, len(terms))
	for _, term := range terms {
		if seen[term] {
			continue
		}
		seen[term] = true

		plist := ix.postings[term]
		if len(plist) == 0 {
			continue
		}

		n := float64(len(plist))
		idf := math.Log((float64(ix.numDocs)-n+0.5)/(n+0.5) + 1)
		for _, p := range plist {
			tf := float64(p.Freq)
			lengthNorm := 1 - b + b*float64(ix.docLens[p.Doc])/ix.avgDocLen
			scores[p.Doc] += idf * tf * (k1 + 1) / (tf + k1*lengthNorm)
		}
	}
	return scores
}
