package index

import (
	"strings"
	"unicode"
)

// Stop words removed before indexing and scoring. Fixed 58-entry list; the
// same set is applied to documents and queries.
var stopWords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "as": true, "at": true,
	"be": true, "been": true, "but": true, "by": true, "can": true, "do": true,
	"for": true, "from": true, "had": true, "has": true, "have": true, "he": true,
	"her": true, "his": true, "i": true, "if": true, "in": true, "is": true,
	"it": true, "its": true, "my": true, "no": true, "not": true, "of": true,
	"on": true, "or": true, "our": true, "she": true, "so": true, "than": true,
	"that": true, "the": true, "their": true, "them": true, "then": true, "there": true,
	"these": true, "they": true, "this": true, "to": true, "was": true, "we": true,
	"were": true, "what": true, "when": true, "which": true, "who": true, "will": true,
	"with": true, "would": true, "you": true, "your": true,
}

// Tokenize splits text into lowercase alphanumeric tokens and removes stop
// words. A token is a maximal run of Unicode letters and digits; everything
// else separates tokens. Empty or stopword-only text yields an empty slice,
// which is valid input downstream (the text simply cannot be matched
// lexically).
func Tokenize(text string) []string {
	tokens := make([]string, 0, 16)
	var b strings.Builder

	flush := func() {
		if b.Len() == 0 {
			return
		}
		token := b.String()
		b.Reset()
		if !stopWords[token] {
			tokens = append(tokens, token)
		}
	}

	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		flush()
	}
	flush()

	return tokens
}
