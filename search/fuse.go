package search

// normalizeScores maps raw scores onto [0, 1] by min-max scaling across the
// candidate set. A single candidate or an all-equal spread maps to 1.0, so
// fusion never divides by zero and a lone lexical match keeps full weight.
func normalizeScores(scores []float64) []float64 {
	if len(scores) == 0 {
		return nil
	}

	lo, hi := scores[0], scores[0]
	for _, s := range scores[1:] {
		if s < lo {
			lo = s
		}
		if s > hi {
			hi = s
		}
	}

	out := make([]float64, len(scores))
	if hi == lo {
		for i := range out {
			out[i] = 1.0
		}
		return out
	}
	for i, s := range scores {
		out[i] = (s - lo) / (hi - lo)
	}
	return out
}

// fuseScores blends normalized lexical scores with semantic scores.
// weight is the lexical share; 1-weight goes to the semantic side.
func fuseScores(lexical, semantic []float64, weight float64) []float64 {
	out := make([]float64, len(lexical))
	for i := range lexical {
		out[i] = weight*lexical[i] + (1-weight)*semantic[i]
	}
	return out
}
