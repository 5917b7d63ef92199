package ingestion

import "errors"

var (
	// ErrProductRepositoryRequired is returned when a product repository is not provided.
	ErrProductRepositoryRequired = errors.New("product repository required")

	// ErrCategoryRepositoryRequired is returned when a category repository is not provided.
	ErrCategoryRepositoryRequired = errors.New("category repository required")

	// ErrInvalidCatalog is returned when a catalog document is not valid JSON
	// or has the wrong shape.
	ErrInvalidCatalog = errors.New("invalid catalog document")

	// ErrInvalidMaxAttempts is returned when maxAttempts is <= 0
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")
)
