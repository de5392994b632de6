package fallback

import (
	"context"
	"strings"

	"github.com/poiesic/trawl/ai"
)

// maxSummaryWords caps the length of an extracted summary.
const maxSummaryWords = 30

// Summarizer implements ai.Summarizer by extracting the lead sentence of
// the text. No model is involved.
type Summarizer struct{}

// NewSummarizer creates a lead-sentence summarizer.
//
// Returns ai.Summarizer interface to enforce abstraction.
func NewSummarizer() ai.Summarizer {
	return &Summarizer{}
}

// Summarize returns the first sentence of text, capped at maxSummaryWords
// words and collapsed to a single line.
func (s *Summarizer) Summarize(_ context.Context, text string) (string, error) {
	return leadSentence(text), nil
}

func leadSentence(text string) string {
	words := strings.Fields(text)
	out := make([]string, 0, min(len(words), maxSummaryWords))
	for _, w := range words {
		out = append(out, w)
		if len(out) == maxSummaryWords {
			break
		}
		// Word-final punctuation ends the sentence. Checking the suffix
		// keeps dots inside tokens like "v1.2" from cutting early.
		if strings.HasSuffix(w, ".") || strings.HasSuffix(w, "!") || strings.HasSuffix(w, "?") {
			break
		}
	}
	return strings.Join(out, " ")
}
