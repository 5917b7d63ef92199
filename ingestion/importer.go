package ingestion

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"slices"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/posfind/core"
	"github.com/poiesic/posfind/storage"
)

// Import defaults.
const (
	DefaultBatchSize  = 100
	DefaultMaxRetries = 5
	DefaultRetryDelay = 20 * time.Millisecond
)

// ImportReport summarizes an import.
type ImportReport struct {
	Categories int // Categories written
	Products   int // Products written
	Skipped    int // Invalid or conflicting records left out
}

// Importer loads catalog documents into the product and category repositories.
type Importer struct {
	productRepository  storage.ProductRepository
	categoryRepository storage.CategoryRepository
	pool               *ants.Pool
	batchSize          int
	maxRetries         int
	retryDelay         time.Duration
	progress           io.Writer
	reportInterval     int
	logger             *slog.Logger
}

// Option configures an Importer.
type Option func(*Importer) error

// WithPoolSize sets the worker pool size for concurrent batch writes.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(im *Importer) error {
		if size < 1 {
			size = 1
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}

		// Release old pool
		if im.pool != nil {
			im.pool.Release()
		}
		im.pool = pool
		return nil
	}
}

// WithBatchSize sets how many products are written per transaction.
// Default is DefaultBatchSize.
func WithBatchSize(size int) Option {
	return func(im *Importer) error {
		if size < 1 {
			size = 1
		}
		im.batchSize = size
		return nil
	}
}

// WithMaxRetries sets how many times a conflicting batch write is attempted.
// Default is DefaultMaxRetries.
func WithMaxRetries(attempts int) Option {
	return func(im *Importer) error {
		if attempts < 1 {
			return ErrInvalidMaxAttempts
		}
		im.maxRetries = attempts
		return nil
	}
}

// WithRetryDelay sets the base delay between retries. It doubles on each retry.
// Default is DefaultRetryDelay.
func WithRetryDelay(delay time.Duration) Option {
	return func(im *Importer) error {
		im.retryDelay = delay
		return nil
	}
}

// WithProgress reports progress to w every interval products.
// Default is no progress output.
func WithProgress(w io.Writer, interval int) Option {
	return func(im *Importer) error {
		im.progress = w
		im.reportInterval = interval
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(im *Importer) error {
		if logger == nil {
			logger = slog.Default()
		}
		im.logger = logger
		return nil
	}
}

// NewImporter creates a new catalog importer.
func NewImporter(
	productRepository storage.ProductRepository,
	categoryRepository storage.CategoryRepository,
	opts ...Option,
) (*Importer, error) {
	if productRepository == nil {
		return nil, ErrProductRepositoryRequired
	}
	if categoryRepository == nil {
		return nil, ErrCategoryRepositoryRequired
	}

	// Default pool size
	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	im := &Importer{
		productRepository:  productRepository,
		categoryRepository: categoryRepository,
		pool:               pool,
		batchSize:          DefaultBatchSize,
		maxRetries:         DefaultMaxRetries,
		retryDelay:         DefaultRetryDelay,
		reportInterval:     DefaultBatchSize,
		logger:             slog.Default(),
	}

	// Apply options (may override defaults)
	for _, opt := range opts {
		if optErr := opt(im); optErr != nil {
			im.Release()
			return nil, optErr
		}
	}

	return im, nil
}

// Import reads a JSON catalog document from r and writes it to storage.
func (im *Importer) Import(ctx context.Context, r io.Reader) (*ImportReport, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	catalog, err := ParseCatalog(data)
	if err != nil {
		return nil, err
	}
	return im.ImportCatalog(ctx, catalog)
}

// ImportCatalog writes a parsed catalog to storage. Categories are written
// before any product so category scoping works as soon as products appear.
func (im *Importer) ImportCatalog(ctx context.Context, catalog *Catalog) (*ImportReport, error) {
	report := &ImportReport{}

	categories := make([]*core.Category, 0, len(catalog.Categories))
	for _, category := range catalog.Categories {
		if err := core.ValidateCategory(category); err != nil {
			im.logger.Warn("skipping invalid category", "id", category.Id, "err", err)
			report.Skipped++
			continue
		}
		categories = append(categories, category)
	}
	if len(categories) > 0 {
		err := retryWithBackoff(ctx, im.logger, func() error {
			_, err := im.categoryRepository.AddCategories(ctx, categories...)
			return err
		}, im.maxRetries, im.retryDelay)
		if err != nil {
			return report, fmt.Errorf("writing categories: %w", err)
		}
		report.Categories = len(categories)
	}

	products := make([]*core.Product, 0, len(catalog.Products))
	for _, product := range catalog.Products {
		if err := core.ValidateProduct(product); err != nil {
			im.logger.Warn("skipping invalid product", "id", product.Id, "err", err)
			report.Skipped++
			continue
		}
		products = append(products, product)
	}

	tracker := newProgressTracker(im.progress, len(products), im.reportInterval)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	for batch := range slices.Chunk(products, im.batchSize) {
		if err := ctx.Err(); err != nil {
			mu.Lock()
			errs = append(errs, err)
			mu.Unlock()
			break
		}

		wg.Add(1)
		submitErr := im.pool.Submit(func() {
			defer wg.Done()
			written, skipped, err := im.writeBatch(ctx, batch)

			mu.Lock()
			report.Products += written
			report.Skipped += skipped
			if err != nil {
				errs = append(errs, err)
			}
			mu.Unlock()

			tracker.Increment(written + skipped)
		})
		if submitErr != nil {
			wg.Done()
			mu.Lock()
			errs = append(errs, submitErr)
			mu.Unlock()
			break
		}
	}
	wg.Wait()

	if im.progress != nil {
		tracker.Finish()
	}

	im.logger.Info("catalog import finished",
		"categories", report.Categories,
		"products", report.Products,
		"skipped", report.Skipped)

	return report, errors.Join(errs...)
}

// writeBatch stores one batch of products. When a barcode collides with an
// existing product the batch is retried product by product so only the
// colliding products are skipped.
func (im *Importer) writeBatch(ctx context.Context, batch []*core.Product) (written, skipped int, err error) {
	err = im.addProducts(ctx, batch...)
	if err == nil {
		return len(batch), 0, nil
	}
	if !errors.Is(err, storage.ErrDuplicateKey) {
		return 0, 0, fmt.Errorf("writing %d products: %w", len(batch), err)
	}

	for _, product := range batch {
		err := im.addProducts(ctx, product)
		switch {
		case err == nil:
			written++
		case errors.Is(err, storage.ErrDuplicateKey):
			im.logger.Warn("skipping product with duplicate barcode",
				"id", product.Id, "name", product.Name, "barcode", product.Barcode)
			skipped++
		default:
			return written, skipped, fmt.Errorf("writing product %q: %w", product.Name, err)
		}
	}
	return written, skipped, nil
}

func (im *Importer) addProducts(ctx context.Context, products ...*core.Product) error {
	return retryWithBackoff(ctx, im.logger, func() error {
		_, err := im.productRepository.AddProducts(ctx, products...)
		return err
	}, im.maxRetries, im.retryDelay)
}

// Release releases the worker pool.
// The importer should not be used after calling Release.
func (im *Importer) Release() {
	if im.pool != nil {
		im.pool.Release()
	}
}
