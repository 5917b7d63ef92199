package search

import (
	"context"
	"log/slog"
	"testing"

	"github.com/poiesic/posfind/core"
	"github.com/poiesic/posfind/normalize"
	"github.com/poiesic/posfind/storage"
	"github.com/poiesic/posfind/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCatalog(t *testing.T) (storage.ProductRepository, storage.CategoryRepository, map[string]core.ID) {
	t.Helper()
	productRepo, categoryRepo, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() {
		categoryRepo.Close()
		productRepo.Close()
		backend.Close()
	})

	ctx := context.Background()
	furniture := &core.Category{Name: "Furniture"}
	food := &core.Category{Name: "Food"}
	_, err = categoryRepo.AddCategories(ctx, furniture, food)
	require.NoError(t, err)
	chairs := &core.Category{Name: "Chairs", ParentId: furniture.Id}
	_, err = categoryRepo.AddCategories(ctx, chairs)
	require.NoError(t, err)

	_, err = productRepo.AddProducts(ctx,
		&core.Product{Id: 1, Name: "Office Chair", CategoryIds: []core.ID{chairs.Id}, Available: true},
		&core.Product{Id: 2, Name: "Chair Cushion", CategoryIds: []core.ID{furniture.Id}, Available: true},
		&core.Product{Id: 3, Name: "Chocolate Chair Cake", CategoryIds: []core.ID{food.Id}},
		&core.Product{Id: 4, Name: "Desk", DefaultCode: "FURN_0001", CategoryIds: []core.ID{furniture.Id}, Available: true},
		&core.Product{Id: 5, Name: "Crème Brûlée", Barcode: "5400000000017", CategoryIds: []core.ID{food.Id}, Available: true},
	)
	require.NoError(t, err)

	return productRepo, categoryRepo, map[string]core.ID{
		"furniture": furniture.Id,
		"food":      food.Id,
		"chairs":    chairs.Id,
	}
}

func productNames(products []*core.Product) []string {
	result := make([]string, len(products))
	for i, p := range products {
		result[i] = p.Name
	}
	return result
}

func TestNewSearcher(t *testing.T) {
	productRepo, categoryRepo, _ := newTestCatalog(t)

	t.Run("valid configuration", func(t *testing.T) {
		searcher, err := NewSearcher(productRepo, categoryRepo)
		require.NoError(t, err)
		assert.NotNil(t, searcher)
	})

	t.Run("with custom logger", func(t *testing.T) {
		logger := slog.Default()
		searcher, err := NewSearcher(productRepo, categoryRepo, WithLogger(logger))
		require.NoError(t, err)
		assert.NotNil(t, searcher)
	})

	t.Run("with nil logger falls back to default", func(t *testing.T) {
		searcher, err := NewSearcher(productRepo, categoryRepo, WithLogger(nil))
		require.NoError(t, err)
		assert.NotNil(t, searcher)
	})

	t.Run("nil product repository", func(t *testing.T) {
		_, err := NewSearcher(nil, categoryRepo)
		assert.Equal(t, ErrProductRepositoryRequired, err)
	})

	t.Run("nil category repository", func(t *testing.T) {
		_, err := NewSearcher(productRepo, nil)
		assert.Equal(t, ErrCategoryRepositoryRequired, err)
	})
}

func TestSearch(t *testing.T) {
	productRepo, categoryRepo, categories := newTestCatalog(t)
	searcher, err := NewSearcher(productRepo, categoryRepo)
	require.NoError(t, err)
	ctx := context.Background()

	tests := []struct {
		name     string
		query    string
		opts     *Options
		expected []string
	}{
		{
			name:     "whole catalog",
			query:    "chair",
			expected: []string{"Chair Cushion", "Office Chair", "Chocolate Chair Cake"},
		},
		{
			name:     "category with subcategories",
			query:    "chair",
			opts:     &Options{CategoryID: categories["furniture"]},
			expected: []string{"Chair Cushion", "Office Chair"},
		},
		{
			name:     "category without subcategories",
			query:    "chair",
			opts:     &Options{CategoryID: categories["furniture"], ExcludeSubcategories: true},
			expected: []string{"Chair Cushion"},
		},
		{
			name:     "only available",
			query:    "chair",
			opts:     &Options{OnlyAvailable: true},
			expected: []string{"Chair Cushion", "Office Chair"},
		},
		{
			name:     "max hits",
			query:    "chair",
			opts:     &Options{MaxHits: 1},
			expected: []string{"Chair Cushion"},
		},
		{
			name:     "accent insensitive",
			query:    "creme brulee",
			expected: []string{"Crème Brûlée"},
		},
		{
			name:     "matches internal reference",
			query:    "furn_0001",
			expected: []string{"Desk"},
		},
		{
			name:     "matches barcode",
			query:    "5400000000017",
			expected: []string{"Crème Brûlée"},
		},
		{
			name:     "no match",
			query:    "sofa",
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := searcher.Search(ctx, tt.query, tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, productNames(results))
		})
	}
}

func TestSearch_EmptyQueryReturnsScope(t *testing.T) {
	productRepo, categoryRepo, categories := newTestCatalog(t)
	searcher, err := NewSearcher(productRepo, categoryRepo)
	require.NoError(t, err)

	results, err := searcher.Search(context.Background(), "  ", &Options{CategoryID: categories["food"]})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Chocolate Chair Cake", "Crème Brûlée"}, productNames(results))
}

func TestSearch_UnknownCategory(t *testing.T) {
	productRepo, categoryRepo, _ := newTestCatalog(t)
	searcher, err := NewSearcher(productRepo, categoryRepo)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = searcher.Search(ctx, "chair", &Options{CategoryID: 987654})
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, err = searcher.Search(ctx, "chair", &Options{CategoryID: 987654, ExcludeSubcategories: true})
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestSearch_MatcherOptions(t *testing.T) {
	productRepo, categoryRepo, _ := newTestCatalog(t)
	ctx := context.Background()

	_, err := productRepo.AddProducts(ctx,
		&core.Product{Id: 10, Name: "red cotton shirt"},
		&core.Product{Id: 11, Name: "red shirt xl"},
	)
	require.NoError(t, err)

	defaultSearcher, err := NewSearcher(productRepo, categoryRepo)
	require.NoError(t, err)
	results, err := defaultSearcher.Search(ctx, "red shirt", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"red cotton shirt", "red shirt xl"}, productNames(results))

	fixedSearcher, err := NewSearcher(productRepo, categoryRepo,
		WithMatcherOptions(WithMissingPhraseLast()),
		WithCacheSize(0),
		WithNormalizer(normalize.StripDiacritics))
	require.NoError(t, err)
	results, err = fixedSearcher.Search(ctx, "red shirt", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"red shirt xl", "red cotton shirt"}, productNames(results))
}

func TestSearchWithMonitor(t *testing.T) {
	productRepo, categoryRepo, _ := newTestCatalog(t)
	searcher, err := NewSearcher(productRepo, categoryRepo)
	require.NoError(t, err)

	monitor := &recordingMonitor{}
	results, err := searcher.SearchWithMonitor(context.Background(), "Chair", &Options{OnlyAvailable: true}, monitor)
	require.NoError(t, err)

	assert.Equal(t, "chair", monitor.normalized)
	assert.Equal(t, 4, monitor.candidates)
	assert.Equal(t, 2, monitor.retained)
	assert.Equal(t, len(results), monitor.results)
}

func TestParseLanguage(t *testing.T) {
	tag, err := ParseLanguage("")
	require.NoError(t, err)
	assert.Equal(t, "und", tag.String())

	tag, err = ParseLanguage("fr-BE")
	require.NoError(t, err)
	assert.Equal(t, "fr-BE", tag.String())

	_, err = ParseLanguage("not a tag!")
	assert.ErrorIs(t, err, ErrInvalidLanguage)
}
