package search

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/posfind/core"
	"github.com/poiesic/posfind/normalize"
	"github.com/poiesic/posfind/storage"
	"golang.org/x/text/language"
)

// Options narrows a catalog search.
type Options struct {
	// CategoryID scopes the search to one category. 0 searches the whole catalog.
	CategoryID core.ID
	// ExcludeSubcategories limits a scoped search to products filed directly
	// under CategoryID.
	ExcludeSubcategories bool
	// OnlyAvailable drops products that cannot be sold from the POS.
	OnlyAvailable bool
	// MaxHits truncates the ranked result. 0 means unlimited.
	MaxHits int
}

// Searcher runs free-text queries against the product catalog.
type Searcher struct {
	productRepository  storage.ProductRepository
	categoryRepository storage.CategoryRepository
	matcher            *Matcher[*core.Product]
	logger             *slog.Logger

	normalizer  normalize.Normalizer
	cacheSize   int
	matcherOpts []MatcherOption
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithNormalizer replaces the text normalizer.
// Default is normalize.StripDiacritics.
func WithNormalizer(normalizer normalize.Normalizer) Option {
	return func(s *Searcher) error {
		if normalizer != nil {
			s.normalizer = normalizer
		}
		return nil
	}
}

// WithCacheSize sets how many normalized texts are memoized.
// 0 or less disables the cache. Default is normalize.DefaultCacheSize.
func WithCacheSize(size int) Option {
	return func(s *Searcher) error {
		s.cacheSize = size
		return nil
	}
}

// WithMatcherOptions passes options through to the underlying Matcher.
func WithMatcherOptions(opts ...MatcherOption) Option {
	return func(s *Searcher) error {
		s.matcherOpts = append(s.matcherOpts, opts...)
		return nil
	}
}

// ParseLanguage parses a BCP 47 tag for WithLanguage. An empty string
// selects the root collation.
func ParseLanguage(tag string) (language.Tag, error) {
	if tag == "" {
		return language.Und, nil
	}
	parsed, err := language.Parse(tag)
	if err != nil {
		return language.Und, fmt.Errorf("%w %q: %w", ErrInvalidLanguage, tag, err)
	}
	return parsed, nil
}

// NewSearcher creates a new searcher.
func NewSearcher(
	productRepository storage.ProductRepository,
	categoryRepository storage.CategoryRepository,
	opts ...Option,
) (*Searcher, error) {
	if productRepository == nil {
		return nil, ErrProductRepositoryRequired
	}
	if categoryRepository == nil {
		return nil, ErrCategoryRepositoryRequired
	}

	s := &Searcher{
		productRepository:  productRepository,
		categoryRepository: categoryRepository,
		logger:             slog.Default(),
		normalizer:         normalize.StripDiacritics,
		cacheSize:          normalize.DefaultCacheSize,
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	normalizer := s.normalizer
	if s.cacheSize > 0 {
		cache, err := normalize.NewCache(normalizer, s.cacheSize)
		if err != nil {
			return nil, err
		}
		normalizer = cache
	}
	s.matcher = NewMatcher[*core.Product](normalizer, s.matcherOpts...)

	return s, nil
}

// Search returns the catalog products matching query, best first.
// A nil opts searches the whole catalog without limits.
func (s *Searcher) Search(ctx context.Context, query string, opts *Options) ([]*core.Product, error) {
	return s.SearchWithMonitor(ctx, query, opts, nil)
}

// SearchWithMonitor is Search with callbacks at each stage.
func (s *Searcher) SearchWithMonitor(ctx context.Context, query string, opts *Options, monitor SearchMonitor) ([]*core.Product, error) {
	if opts == nil {
		opts = &Options{}
	}

	candidates, err := s.loadCandidates(ctx, opts)
	if err != nil {
		s.logger.Error("error loading search candidates", "categoryID", opts.CategoryID, "err", err)
		return nil, err
	}

	if opts.OnlyAvailable {
		available := candidates[:0]
		for _, product := range candidates {
			if product.Available {
				available = append(available, product)
			}
		}
		candidates = available
	}

	results := s.matcher.MatchWithMonitor(query, candidates, monitor)
	if opts.MaxHits > 0 && len(results) > opts.MaxHits {
		results = results[:opts.MaxHits]
	}

	s.logger.Debug("search complete",
		"query", query,
		"categoryID", opts.CategoryID,
		"candidates", len(candidates),
		"results", len(results))

	return results, nil
}

// loadCandidates fetches the products a query runs against, in catalog order.
func (s *Searcher) loadCandidates(ctx context.Context, opts *Options) ([]*core.Product, error) {
	if opts.CategoryID == 0 {
		products, err := s.productRepository.ListProducts(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing products: %w", err)
		}
		return products, nil
	}

	var categoryIDs []core.ID
	if opts.ExcludeSubcategories {
		category, err := s.categoryRepository.GetCategory(ctx, opts.CategoryID)
		if err != nil {
			return nil, fmt.Errorf("loading category %d: %w", opts.CategoryID, err)
		}
		categoryIDs = []core.ID{category.Id}
	} else {
		tree, err := s.categoryRepository.GetCategoryTree(ctx, opts.CategoryID)
		if err != nil {
			return nil, fmt.Errorf("loading category tree %d: %w", opts.CategoryID, err)
		}
		categoryIDs = make([]core.ID, len(tree))
		for i, category := range tree {
			categoryIDs[i] = category.Id
		}
	}

	products, err := s.productRepository.ListProductsByCategory(ctx, categoryIDs...)
	if err != nil {
		return nil, fmt.Errorf("listing products by category: %w", err)
	}
	return products, nil
}
