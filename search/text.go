package search

import (
	"strings"
	"unicode/utf8"

	"github.com/poiesic/posfind/normalize"
)

// fold applies the normalizer and lowercases the result.
func fold(n normalize.Normalizer, text string) string {
	return strings.ToLower(n.Normalize(text))
}

// tokenize splits folded text on runs of whitespace, dropping empty fragments.
func tokenize(folded string) []string {
	return strings.Fields(folded)
}

// containsAllTokens reports whether every token is a substring of text.
// An empty token list matches everything.
func containsAllTokens(text string, tokens []string) bool {
	for _, token := range tokens {
		if !strings.Contains(text, token) {
			return false
		}
	}
	return true
}

// phrasePosition returns the rune offset of the first occurrence of phrase in
// text, or -1 if it does not occur.
func phrasePosition(text, phrase string) int {
	i := strings.Index(text, phrase)
	if i < 0 {
		return -1
	}
	return utf8.RuneCountInString(text[:i])
}
