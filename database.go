// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package posfind

import (
	"log/slog"

	"github.com/poiesic/posfind/ingestion"
	"github.com/poiesic/posfind/search"
	"github.com/poiesic/posfind/storage"
	"github.com/poiesic/posfind/storage/badger"
)

// Database ties a catalog store to the searchers and importers built on it.
type Database struct {
	backend      *badger.Backend
	productRepo  storage.ProductRepository
	categoryRepo storage.CategoryRepository
	config       *Config
	logger       *slog.Logger
}

// NewDatabase opens the catalog stored at filePath.
func NewDatabase(filePath string, opts ...ConfigOption) (*Database, error) {
	opts = append([]ConfigOption{WithDatabasePath(filePath)}, opts...)
	return Open(NewConfig(opts...))
}

// Open opens the catalog described by cfg.
func Open(cfg *Config) (*Database, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	backend, err := badger.OpenBackend(cfg.Database.Path, cfg.Database.InMemory)
	if err != nil {
		return nil, err
	}

	productRepo, err := badger.NewProductRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	categoryRepo, err := badger.NewCategoryRepository(backend)
	if err != nil {
		productRepo.Close()
		backend.Close()
		return nil, err
	}

	return &Database{
		backend:      backend,
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		config:       cfg,
		logger:       slog.Default(),
	}, nil
}

// SetLogger replaces the logger handed to searchers and importers.
func (db *Database) SetLogger(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	db.logger = logger
}

func (db *Database) Close() error {
	// Close repositories
	if err := db.categoryRepo.Close(); err != nil {
		db.logger.Error("error closing category repository", "err", err)
		return err
	}
	if err := db.productRepo.Close(); err != nil {
		db.logger.Error("error closing product repository", "err", err)
		return err
	}

	// Close backend
	if err := db.backend.Close(); err != nil {
		db.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

func (db *Database) Config() *Config {
	return db.config
}

func (db *Database) ProductRepository() storage.ProductRepository {
	return db.productRepo
}

func (db *Database) CategoryRepository() storage.CategoryRepository {
	return db.categoryRepo
}

// NewSearcher creates a Searcher configured from the database settings.
// Options passed in are applied after the configured ones and win.
func (db *Database) NewSearcher(opts ...search.Option) (*search.Searcher, error) {
	tag, err := search.ParseLanguage(db.config.Search.Language)
	if err != nil {
		return nil, err
	}
	matcherOpts := []search.MatcherOption{search.WithLanguage(tag)}
	if db.config.Search.MissingPhraseLast {
		matcherOpts = append(matcherOpts, search.WithMissingPhraseLast())
	}

	base := []search.Option{
		search.WithLogger(db.logger),
		search.WithCacheSize(db.config.Search.CacheSize),
		search.WithMatcherOptions(matcherOpts...),
	}
	return search.NewSearcher(db.productRepo, db.categoryRepo, append(base, opts...)...)
}

// NewImporter creates an Importer configured from the database settings.
// The caller must Release it.
func (db *Database) NewImporter(opts ...ingestion.Option) (*ingestion.Importer, error) {
	base := []ingestion.Option{
		ingestion.WithLogger(db.logger),
		ingestion.WithBatchSize(db.config.Import.BatchSize),
		ingestion.WithMaxRetries(db.config.Import.MaxRetries),
		ingestion.WithRetryDelay(db.config.Import.RetryDelay),
	}
	if db.config.Import.PoolSize > 0 {
		base = append(base, ingestion.WithPoolSize(db.config.Import.PoolSize))
	}
	return ingestion.NewImporter(db.productRepo, db.categoryRepo, append(base, opts...)...)
}

// SearchOptions returns search options carrying the configured result limit.
func (db *Database) SearchOptions() *search.Options {
	return &search.Options{MaxHits: db.config.Search.MaxHits}
}
