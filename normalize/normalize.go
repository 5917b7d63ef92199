package normalize

import (
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalizer transforms text into its canonical comparison form.
type Normalizer interface {
	Normalize(text string) string
}

// Func adapts an ordinary function to the Normalizer interface.
type Func func(text string) string

// Normalize calls f(text).
func (f Func) Normalize(text string) string {
	return f(text)
}

var (
	// StripDiacritics removes combining accents: "Café Noir" becomes "Cafe Noir".
	StripDiacritics Normalizer = Func(stripDiacritics)

	// Identity returns text unchanged.
	Identity Normalizer = Func(func(text string) string { return text })
)

// stripDiacritics builds a fresh transformer chain per call; chains carry
// state and must not be shared between goroutines.
func stripDiacritics(text string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, err := transform.String(t, text)
	if err != nil {
		return text
	}
	return result
}
