package search

import (
	"cmp"
	"math"
	"slices"
	"strings"

	"github.com/poiesic/posfind/normalize"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Item is anything the matcher can search. Only the search text is read;
// items are returned untouched.
type Item interface {
	SearchText() string
}

// Matcher filters and ranks items against a free-text query.
// A Matcher holds only configuration and is safe for concurrent use.
type Matcher[T Item] struct {
	normalizer        normalize.Normalizer
	language          language.Tag
	missingPhraseLast bool
}

// MatcherOption configures a Matcher.
type MatcherOption func(*matcherConfig)

type matcherConfig struct {
	language          language.Tag
	missingPhraseLast bool
}

// WithLanguage sets the language whose collation breaks ranking ties.
// Default is language.Und (root collation).
func WithLanguage(tag language.Tag) MatcherOption {
	return func(c *matcherConfig) {
		c.language = tag
	}
}

// WithMissingPhraseLast ranks items that do not contain the whole query as a
// phrase after every phrase match. Without it those items rank first.
func WithMissingPhraseLast() MatcherOption {
	return func(c *matcherConfig) {
		c.missingPhraseLast = true
	}
}

// NewMatcher creates a matcher using the given normalizer.
// A nil normalizer falls back to normalize.StripDiacritics.
func NewMatcher[T Item](normalizer normalize.Normalizer, opts ...MatcherOption) *Matcher[T] {
	if normalizer == nil {
		normalizer = normalize.StripDiacritics
	}
	cfg := &matcherConfig{language: language.Und}
	for _, opt := range opts {
		opt(cfg)
	}
	return &Matcher[T]{
		normalizer:        normalizer,
		language:          cfg.language,
		missingPhraseLast: cfg.missingPhraseLast,
	}
}

// NormalizeQuery folds the query and splits it into tokens.
// The normalized query has surrounding whitespace trimmed; an empty or
// whitespace-only query yields "" and no tokens.
func (m *Matcher[T]) NormalizeQuery(query string) (string, []string) {
	normalized := strings.TrimSpace(fold(m.normalizer, query))
	return normalized, tokenize(normalized)
}

// Filter returns the items whose normalized search text contains every token,
// in input order. With no tokens every item is returned.
func (m *Matcher[T]) Filter(items []T, tokens []string) []T {
	result := make([]T, 0, len(items))
	for _, item := range items {
		if containsAllTokens(fold(m.normalizer, item.SearchText()), tokens) {
			result = append(result, item)
		}
	}
	return result
}

// ranked pairs an item with its precomputed sort keys.
type ranked[T Item] struct {
	item T
	text string
	pos  int
}

// Rank orders items by the rune position of normalizedQuery in their
// normalized search text, then by collation of that text. Items that do not
// contain normalizedQuery get position -1. Items equal on both keys keep their
// input order. The input slice is not modified.
func (m *Matcher[T]) Rank(items []T, normalizedQuery string) []T {
	entries := make([]ranked[T], len(items))
	for i, item := range items {
		text := fold(m.normalizer, item.SearchText())
		pos := phrasePosition(text, normalizedQuery)
		if pos < 0 && m.missingPhraseLast {
			pos = math.MaxInt
		}
		entries[i] = ranked[T]{item: item, text: text, pos: pos}
	}

	// Collators keep internal buffers, so each call gets its own.
	collator := collate.New(m.language)
	slices.SortStableFunc(entries, func(a, b ranked[T]) int {
		if c := cmp.Compare(a.pos, b.pos); c != 0 {
			return c
		}
		return collator.CompareString(a.text, b.text)
	})

	result := make([]T, len(entries))
	for i, e := range entries {
		result[i] = e.item
	}
	return result
}

// Match normalizes the query, filters items and ranks the survivors.
func (m *Matcher[T]) Match(query string, items []T) []T {
	return m.MatchWithMonitor(query, items, nil)
}

// MatchWithMonitor is Match with callbacks at each stage.
func (m *Matcher[T]) MatchWithMonitor(query string, items []T, monitor SearchMonitor) []T {
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	monitor.Start(query)

	normalized, tokens := m.NormalizeQuery(query)
	monitor.AfterNormalize(normalized, tokens)
	monitor.AfterCandidates(len(items))

	filtered := m.Filter(items, tokens)
	monitor.AfterFilter(len(filtered))

	results := m.Rank(filtered, normalized)
	monitor.Finish(len(results))

	return results
}

// Match runs a one-off match with default options.
func Match[T Item](query string, items []T, normalizer normalize.Normalizer) []T {
	return NewMatcher[T](normalizer).Match(query, items)
}
