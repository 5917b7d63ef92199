package storage

import (
	"context"

	"github.com/poiesic/posfind/core"
)

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	// The context passed to fn may contain transaction state.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the storage backend and releases resources.
	Close() error
}

// ProductRepository provides operations for managing catalog products.
type ProductRepository interface {
	Repository
	// AddProducts adds or replaces one or more products.
	// Products with ID=0 get a new ID from a sequence; other IDs are kept.
	// Sets InsertedAt and UpdatedAt.
	// Returns the products with IDs and timestamps populated.
	AddProducts(ctx context.Context, products ...*core.Product) ([]*core.Product, error)

	// UpdateProducts updates existing products.
	// Updates the UpdatedAt timestamp automatically.
	// Returns ErrNotFound if any product doesn't exist.
	UpdateProducts(ctx context.Context, products ...*core.Product) ([]*core.Product, error)

	// DeleteProducts removes products by their IDs, along with their indices.
	// Returns ErrNotFound if any product doesn't exist.
	DeleteProducts(ctx context.Context, ids ...core.ID) error

	// GetProduct retrieves a single product by ID.
	// Returns ErrNotFound if the product doesn't exist.
	GetProduct(ctx context.Context, id core.ID) (*core.Product, error)

	// GetProducts retrieves multiple products by their IDs.
	// Returns only the products that exist (no error for missing products).
	GetProducts(ctx context.Context, ids ...core.ID) ([]*core.Product, error)

	// GetProductByBarcode retrieves the product carrying a barcode.
	// Returns ErrNotFound if no product has it.
	GetProductByBarcode(ctx context.Context, barcode string) (*core.Product, error)

	// ListProducts returns every product in catalog order (ascending ID).
	ListProducts(ctx context.Context) ([]*core.Product, error)

	// ListProductsByCategory returns the products belonging to any of the
	// given categories, in catalog order, without duplicates.
	ListProductsByCategory(ctx context.Context, categoryIDs ...core.ID) ([]*core.Product, error)
}

// CategoryRepository provides operations for managing product categories.
type CategoryRepository interface {
	Repository
	// AddCategories adds or replaces one or more categories.
	// Categories with ID=0 get a content-based ID (core.CategoryIDFromPath).
	// Sets InsertedAt and UpdatedAt.
	AddCategories(ctx context.Context, categories ...*core.Category) ([]*core.Category, error)

	// DeleteCategories removes categories by their IDs.
	// Returns ErrNotFound if any category doesn't exist.
	DeleteCategories(ctx context.Context, ids ...core.ID) error

	// GetCategory retrieves a single category by ID.
	// Returns ErrNotFound if the category doesn't exist.
	GetCategory(ctx context.Context, id core.ID) (*core.Category, error)

	// ListCategories returns every category ordered by ID.
	ListCategories(ctx context.Context) ([]*core.Category, error)

	// GetChildCategories returns the direct children of a category.
	// Use 0 to list root categories.
	GetChildCategories(ctx context.Context, parentID core.ID) ([]*core.Category, error)

	// GetCategoryTree returns the category and all of its descendants,
	// breadth-first starting with the category itself.
	// Returns ErrNotFound if the root category doesn't exist.
	GetCategoryTree(ctx context.Context, rootID core.ID) ([]*core.Category, error)
}
