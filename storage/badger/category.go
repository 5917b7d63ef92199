package badger

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/posfind/core"
	"github.com/poiesic/posfind/storage"
)

// CategoryRepository implements storage.CategoryRepository for BadgerDB.
type CategoryRepository struct {
	backend *Backend
}

var _ storage.CategoryRepository = (*CategoryRepository)(nil)

// NewCategoryRepository creates a new CategoryRepository.
func NewCategoryRepository(backend *Backend) (*CategoryRepository, error) {
	return &CategoryRepository{
		backend: backend,
	}, nil
}

// Close releases resources. CategoryRepository has no resources to release.
func (r *CategoryRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *CategoryRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AddCategories adds or replaces one or more categories.
func (r *CategoryRepository) AddCategories(ctx context.Context, categories ...*core.Category) ([]*core.Category, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, category := range categories {
			// Use path-based ID if not set
			if category.Id == 0 {
				category.Id = core.CategoryIDFromPath(category.ParentId, category.Name)
			}

			key := makeCategoryKey(category.Id)
			old, err := readCategory(tx, key)
			if err != nil {
				return err
			}

			now := time.Now().UTC().Truncate(time.Microsecond)
			category.InsertedAt = now
			if old != nil {
				category.InsertedAt = old.InsertedAt
				if old.ParentId != category.ParentId {
					if err := tx.Delete(makeCategoryParentKey(old.ParentId, old.Id)); err != nil {
						return err
					}
				}
			}
			category.UpdatedAt = now

			// Store primary record
			if err := tx.Set(key, storage.MarshalCategory(category)); err != nil {
				return err
			}

			// Store parent index
			parentKey := makeCategoryParentKey(category.ParentId, category.Id)
			if err := tx.Set(parentKey, storage.MarshalID(category.Id)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return categories, err
}

// DeleteCategories removes categories by their IDs. Children of a deleted
// category are left in place.
func (r *CategoryRepository) DeleteCategories(ctx context.Context, ids ...core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makeCategoryKey(id)

			category, err := readCategory(tx, key)
			if err != nil {
				return err
			}
			if category == nil {
				return storage.ErrNotFound
			}

			if err := tx.Delete(makeCategoryParentKey(category.ParentId, category.Id)); err != nil {
				return err
			}
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetCategory retrieves a single category by ID.
func (r *CategoryRepository) GetCategory(ctx context.Context, id core.ID) (*core.Category, error) {
	var result *core.Category
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readCategory(tx, makeCategoryKey(id))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// ListCategories retrieves all categories ordered by ID.
func (r *CategoryRepository) ListCategories(ctx context.Context) ([]*core.Category, error) {
	var results []*core.Category
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makePrefix(categoryRecordPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var category *core.Category
			err := iter.Item().Value(func(val []byte) error {
				var err error
				category, err = storage.UnmarshalCategory(val)
				return err
			})
			if err != nil {
				return err
			}
			results = append(results, category)
		}
		return nil
	}, false)

	return results, err
}

// GetChildCategories returns the direct children of parentID.
func (r *CategoryRepository) GetChildCategories(ctx context.Context, parentID core.ID) ([]*core.Category, error) {
	var results []*core.Category
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		results, err = readChildren(tx, parentID)
		return err
	}, false)
	return results, err
}

// GetCategoryTree returns rootID and all its descendants, breadth-first.
func (r *CategoryRepository) GetCategoryTree(ctx context.Context, rootID core.ID) ([]*core.Category, error) {
	var results []*core.Category
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		root, err := readCategory(tx, makeCategoryKey(rootID))
		if err != nil {
			return err
		}
		if root == nil {
			return storage.ErrNotFound
		}

		// Visited set guards against parent cycles in imported data
		visited := map[core.ID]bool{root.Id: true}
		queue := []*core.Category{root}
		for len(queue) > 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
			current := queue[0]
			queue = queue[1:]
			results = append(results, current)

			children, err := readChildren(tx, current.Id)
			if err != nil {
				return err
			}
			for _, child := range children {
				if visited[child.Id] {
					continue
				}
				visited[child.Id] = true
				queue = append(queue, child)
			}
		}
		return nil
	}, false)
	return results, err
}

// Helper methods

// readCategory reads a category from the transaction. A missing key yields nil.
func readCategory(tx *badger.Txn, key []byte) (*core.Category, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var category *core.Category
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		category, unmarshalErr = storage.UnmarshalCategory(val)
		return unmarshalErr
	})
	return category, err
}

// readChildren follows the parent index to the child records of parentID.
func readChildren(tx *badger.Txn, parentID core.ID) ([]*core.Category, error) {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = makePartialCategoryParentKey(parentID)
	iter := tx.NewIterator(opts)
	defer iter.Close()

	var children []*core.Category
	for iter.Rewind(); iter.Valid(); iter.Next() {
		var childID core.ID
		if err := iter.Item().Value(func(val []byte) error {
			var err error
			childID, err = storage.UnmarshalID(val)
			return err
		}); err != nil {
			return nil, err
		}

		child, err := readCategory(tx, makeCategoryKey(childID))
		if err != nil {
			return nil, err
		}
		if child != nil {
			children = append(children, child)
		}
	}
	return children, nil
}
