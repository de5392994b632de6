package search

import (
	"strings"
	"unicode"
)

// snippetRunes is the display budget for one result body.
const snippetRunes = 200

// makeSnippet truncates text at a word boundary within snippetRunes runes,
// appending "..." when anything was cut.
func makeSnippet(text string) string {
	runes := []rune(text)
	if len(runes) <= snippetRunes {
		return text
	}

	cut := snippetRunes
	for cut > 0 && !unicode.IsSpace(runes[cut]) {
		cut--
	}
	if cut == 0 {
		// One unbroken run of text, nothing to align to
		cut = snippetRunes
	}
	return strings.TrimRight(string(runes[:cut]), " \t\n") + "..."
}

// highlightTerms wraps each token of text that matches one of terms in
// ** markers. Matching is case-insensitive and token-bounded: tokens are
// maximal letter/digit runs, so a term never fires inside a longer word.
func highlightTerms(text string, terms []string) string {
	if len(terms) == 0 {
		return text
	}
	wanted := make(map[string]struct{}, len(terms))
	for _, t := range terms {
		wanted[strings.ToLower(t)] = struct{}{}
	}

	var b strings.Builder
	b.Grow(len(text) + 16)

	runes := []rune(text)
	for i := 0; i < len(runes); {
		if !isTokenRune(runes[i]) {
			b.WriteRune(runes[i])
			i++
			continue
		}
		j := i
		for j < len(runes) && isTokenRune(runes[j]) {
			j++
		}
		token := string(runes[i:j])
		if _, hit := wanted[strings.ToLower(token)]; hit {
			b.WriteString("**")
			b.WriteString(token)
			b.WriteString("**")
		} else {
			b.WriteString(token)
		}
		i = j
	}
	return b.String()
}

func isTokenRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
