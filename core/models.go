package core

import (
	"encoding/binary"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing or database sequences.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// searchTextSeparator joins the searchable fields of a product.
const searchTextSeparator = "|"

// Product is a sellable catalog entry shown on the point-of-sale product screen.
type Product struct {
	Id          ID
	Name        string
	DefaultCode string // Internal reference, e.g. "FURN_0096"
	Barcode     string
	Description string
	CategoryIds []ID
	Available   bool      // Whether the product can be sold from the POS
	InsertedAt  time.Time // When the product was inserted into the database
	UpdatedAt   time.Time // When the product was last updated
}

// SearchText returns the single string the search matcher runs against.
// Non-empty fields are joined in a fixed order so a query can hit the name,
// the internal reference, the barcode or the description.
func (p *Product) SearchText() string {
	fields := make([]string, 0, 4)
	for _, f := range []string{p.Name, p.DefaultCode, p.Barcode, p.Description} {
		if f != "" {
			fields = append(fields, f)
		}
	}
	return strings.Join(fields, searchTextSeparator)
}

// InCategory reports whether the product belongs to the given category.
func (p *Product) InCategory(id ID) bool {
	for _, c := range p.CategoryIds {
		if c == id {
			return true
		}
	}
	return false
}

// Category groups products on the POS screen. Categories form a tree.
type Category struct {
	Id         ID
	Name       string
	ParentId   ID // 0 for a root category
	InsertedAt time.Time
	UpdatedAt  time.Time
}

// IsRoot reports whether the category has no parent.
func (c *Category) IsRoot() bool {
	return c.ParentId == 0
}

// CategoryIDFromPath derives a category ID from its parent and name, so the
// same category imported twice keeps its identity.
func CategoryIDFromPath(parent ID, name string) ID {
	return IDFromContent("(" + binaryString(parent) + "," + name + ")")
}

func binaryString(id ID) string {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(id))
	return string(buf[:])
}
