package badger

import (
	"encoding/binary"

	"github.com/poiesic/posfind/core"
)

// Key prefixes for different data types
const (
	productRecordPrefix   = "prodrec"
	productCategoryPrefix = "prodcat"
	productBarcodePrefix  = "prodbar"
	productIDSeq          = "prodseq"
	categoryRecordPrefix  = "catrec"
	categoryParentPrefix  = "catpar"
)

// appendID appends id in BigEndian order so lexicographic key order matches
// numeric order.
func appendID(buf []byte, id core.ID) []byte {
	return binary.BigEndian.AppendUint64(buf, uint64(id))
}

// makePrefix returns "prefix:".
func makePrefix(prefix string) []byte {
	return []byte(prefix + ":")
}

// makeProductKey generates a key for a product by ID.
// Format: prefix:id
func makeProductKey(id core.ID) []byte {
	return appendID(makePrefix(productRecordPrefix), id)
}

// productIDFromKey extracts the ID from a product key.
func productIDFromKey(key []byte) core.ID {
	return core.ID(binary.BigEndian.Uint64(key[len(key)-8:]))
}

// makeProductCategoryKey generates a composite key for the category index.
// Format: prefix:categoryID:productID
func makeProductCategoryKey(categoryID, productID core.ID) []byte {
	return appendID(makePartialProductCategoryKey(categoryID), productID)
}

// makePartialProductCategoryKey generates a partial key for category queries.
// Format: prefix:categoryID
func makePartialProductCategoryKey(categoryID core.ID) []byte {
	return appendID(makePrefix(productCategoryPrefix), categoryID)
}

// makeProductBarcodeKey generates a key for the barcode index.
// Format: prefix:barcode
func makeProductBarcodeKey(barcode string) []byte {
	return append(makePrefix(productBarcodePrefix), barcode...)
}

// makeCategoryKey generates a key for a category by ID.
// Format: prefix:id
func makeCategoryKey(id core.ID) []byte {
	return appendID(makePrefix(categoryRecordPrefix), id)
}

// makeCategoryParentKey generates a composite key for the parent index.
// Format: prefix:parentID:childID
func makeCategoryParentKey(parentID, childID core.ID) []byte {
	return appendID(makePartialCategoryParentKey(parentID), childID)
}

// makePartialCategoryParentKey generates a partial key for child queries.
// Format: prefix:parentID
func makePartialCategoryParentKey(parentID core.ID) []byte {
	return appendID(makePrefix(categoryParentPrefix), parentID)
}
