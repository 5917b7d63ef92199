package badger

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/posfind/core"
	"github.com/poiesic/posfind/storage"
)

// ProductRepository implements storage.ProductRepository for BadgerDB.
type ProductRepository struct {
	backend *Backend
	idSeq   *badger.Sequence
}

var _ storage.ProductRepository = (*ProductRepository)(nil)

// NewProductRepository creates a new ProductRepository.
func NewProductRepository(backend *Backend) (*ProductRepository, error) {
	idSeq, err := backend.GetSequence(productIDSeq)
	if err != nil {
		return nil, err
	}

	return &ProductRepository{
		backend: backend,
		idSeq:   idSeq,
	}, nil
}

// Close releases the ID sequence.
func (r *ProductRepository) Close() error {
	return r.idSeq.Release()
}

// WithTransaction delegates to the backend.
func (r *ProductRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AddProducts adds or replaces one or more products.
func (r *ProductRepository) AddProducts(ctx context.Context, products ...*core.Product) ([]*core.Product, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, product := range products {
			if product.Id == 0 {
				id, err := r.nextID(tx)
				if err != nil {
					return err
				}
				product.Id = id
			}

			key := makeProductKey(product.Id)
			old, err := readProduct(tx, key)
			if err != nil {
				return err
			}

			now := time.Now().UTC().Truncate(time.Microsecond)
			product.InsertedAt = now
			if old != nil {
				product.InsertedAt = old.InsertedAt
				if err := deleteProductIndices(tx, old); err != nil {
					return err
				}
			}
			product.UpdatedAt = now

			if err := checkBarcode(tx, product); err != nil {
				return err
			}

			// Store primary record
			if err := tx.Set(key, storage.MarshalProduct(product)); err != nil {
				return err
			}
			if err := setProductIndices(tx, product); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return products, err
}

// UpdateProducts updates existing products.
func (r *ProductRepository) UpdateProducts(ctx context.Context, products ...*core.Product) ([]*core.Product, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, product := range products {
			key := makeProductKey(product.Id)

			// Read old product to detect index changes
			old, err := readProduct(tx, key)
			if err != nil {
				return err
			}
			if old == nil {
				return storage.ErrNotFound
			}

			product.InsertedAt = old.InsertedAt
			product.UpdatedAt = time.Now().UTC().Truncate(time.Microsecond)

			if old.Barcode != product.Barcode || !slices.Equal(old.CategoryIds, product.CategoryIds) {
				if err := deleteProductIndices(tx, old); err != nil {
					return err
				}
				if err := checkBarcode(tx, product); err != nil {
					return err
				}
				if err := setProductIndices(tx, product); err != nil {
					return err
				}
			}

			if err := tx.Set(key, storage.MarshalProduct(product)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return products, err
}

// DeleteProducts removes products by their IDs.
func (r *ProductRepository) DeleteProducts(ctx context.Context, ids ...core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makeProductKey(id)

			product, err := readProduct(tx, key)
			if err != nil {
				return err
			}
			if product == nil {
				return storage.ErrNotFound
			}

			if err := deleteProductIndices(tx, product); err != nil {
				return err
			}
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetProduct retrieves a single product by ID.
func (r *ProductRepository) GetProduct(ctx context.Context, id core.ID) (*core.Product, error) {
	var result *core.Product
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readProduct(tx, makeProductKey(id))
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

// GetProducts retrieves multiple products by their IDs.
func (r *ProductRepository) GetProducts(ctx context.Context, ids ...core.ID) ([]*core.Product, error) {
	var result []*core.Product
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			product, err := readProduct(tx, makeProductKey(id))
			if err != nil {
				return err
			}
			if product != nil {
				result = append(result, product)
			}
		}
		return nil
	}, false)
	return result, err
}

// GetProductByBarcode looks up a product through the barcode index.
func (r *ProductRepository) GetProductByBarcode(ctx context.Context, barcode string) (*core.Product, error) {
	var result *core.Product
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		productID, err := readIDValue(tx, makeProductBarcodeKey(barcode))
		if err != nil {
			return err
		}
		if productID == 0 {
			return storage.ErrNotFound
		}

		result, err = readProduct(tx, makeProductKey(productID))
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

// ListProducts returns every product in ascending ID order.
func (r *ProductRepository) ListProducts(ctx context.Context) ([]*core.Product, error) {
	var results []*core.Product
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makePrefix(productRecordPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			var product *core.Product
			err := iter.Item().Value(func(val []byte) error {
				var err error
				product, err = storage.UnmarshalProduct(val)
				return err
			})
			if err != nil {
				return err
			}
			results = append(results, product)
		}
		return nil
	}, false)

	return results, err
}

// ListProductsByCategory returns the products filed under any of the given
// categories, in ascending ID order.
func (r *ProductRepository) ListProductsByCategory(ctx context.Context, categoryIDs ...core.ID) ([]*core.Product, error) {
	var results []*core.Product
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		seen := make(map[core.ID]struct{})
		for _, categoryID := range categoryIDs {
			opts := badger.DefaultIteratorOptions
			opts.PrefetchValues = false
			opts.Prefix = makePartialProductCategoryKey(categoryID)
			iter := tx.NewIterator(opts)

			for iter.Rewind(); iter.Valid(); iter.Next() {
				seen[productIDFromKey(iter.Item().Key())] = struct{}{}
			}
			iter.Close()

			if err := ctx.Err(); err != nil {
				return err
			}
		}

		for _, id := range slices.Sorted(maps.Keys(seen)) {
			product, err := readProduct(tx, makeProductKey(id))
			if err != nil {
				return err
			}
			if product != nil {
				results = append(results, product)
			}
		}
		return nil
	}, false)

	return results, err
}

// Helper methods

// nextID draws IDs from the sequence until it finds one not already used by
// a product imported with an explicit ID.
func (r *ProductRepository) nextID(tx *badger.Txn) (core.ID, error) {
	for {
		next, err := r.idSeq.Next()
		if err != nil {
			return 0, err
		}
		// BadgerDB sequences can return 0 on first call, so we skip it
		if next == 0 {
			continue
		}
		id := core.ID(next)
		existing, err := readProduct(tx, makeProductKey(id))
		if err != nil {
			return 0, err
		}
		if existing == nil {
			return id, nil
		}
	}
}

// readProduct reads a product from the transaction. A missing key yields nil.
func readProduct(tx *badger.Txn, key []byte) (*core.Product, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var product *core.Product
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		product, unmarshalErr = storage.UnmarshalProduct(val)
		return unmarshalErr
	})
	return product, err
}

// readIDValue reads an ID stored as an index value. A missing key yields 0.
func readIDValue(tx *badger.Txn, key []byte) (core.ID, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return 0, nil
		}
		return 0, err
	}

	var id core.ID
	err = item.Value(func(val []byte) error {
		var err error
		id, err = storage.UnmarshalID(val)
		return err
	})
	return id, err
}

// checkBarcode fails when the product's barcode already belongs to another product.
func checkBarcode(tx *badger.Txn, product *core.Product) error {
	if product.Barcode == "" {
		return nil
	}
	owner, err := readIDValue(tx, makeProductBarcodeKey(product.Barcode))
	if err != nil {
		return err
	}
	if owner != 0 && owner != product.Id {
		return fmt.Errorf("%w: barcode %q already used by product %d", storage.ErrDuplicateKey, product.Barcode, owner)
	}
	return nil
}

// setProductIndices writes the barcode and category index entries for a product.
func setProductIndices(tx *badger.Txn, product *core.Product) error {
	value := storage.MarshalID(product.Id)
	if product.Barcode != "" {
		if err := tx.Set(makeProductBarcodeKey(product.Barcode), value); err != nil {
			return err
		}
	}
	for _, categoryID := range product.CategoryIds {
		if err := tx.Set(makeProductCategoryKey(categoryID, product.Id), value); err != nil {
			return err
		}
	}
	return nil
}

// deleteProductIndices removes the barcode and category index entries for a product.
func deleteProductIndices(tx *badger.Txn, product *core.Product) error {
	if product.Barcode != "" {
		if err := tx.Delete(makeProductBarcodeKey(product.Barcode)); err != nil {
			return err
		}
	}
	for _, categoryID := range product.CategoryIds {
		if err := tx.Delete(makeProductCategoryKey(categoryID, product.Id)); err != nil {
			return err
		}
	}
	return nil
}
