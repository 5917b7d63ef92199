package ingestion

import (
	"fmt"

	"github.com/poiesic/posfind/core"
	"github.com/tidwall/gjson"
)

// Catalog is a parsed catalog document.
type Catalog struct {
	Categories []*core.Category
	Products   []*core.Product
}

// ParseCatalog parses a JSON catalog document.
// Missing sections are treated as empty. A product without an "available"
// field is sellable.
func ParseCatalog(data []byte) (*Catalog, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: malformed JSON", ErrInvalidCatalog)
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, fmt.Errorf("%w: top level must be an object", ErrInvalidCatalog)
	}

	catalog := &Catalog{}

	categories := root.Get("categories")
	if categories.Exists() && !categories.IsArray() {
		return nil, fmt.Errorf("%w: categories must be an array", ErrInvalidCatalog)
	}
	for _, c := range categories.Array() {
		catalog.Categories = append(catalog.Categories, &core.Category{
			Id:       relationID(c.Get("id")),
			Name:     text(c.Get("name")),
			ParentId: relationID(c.Get("parent_id")),
		})
	}

	products := root.Get("products")
	if products.Exists() && !products.IsArray() {
		return nil, fmt.Errorf("%w: products must be an array", ErrInvalidCatalog)
	}
	for _, p := range products.Array() {
		available := true
		if a := p.Get("available"); a.Exists() {
			available = a.Bool()
		}
		catalog.Products = append(catalog.Products, &core.Product{
			Id:          relationID(p.Get("id")),
			Name:        text(p.Get("name")),
			DefaultCode: text(p.Get("default_code")),
			Barcode:     text(p.Get("barcode")),
			Description: text(p.Get("description")),
			CategoryIds: relationIDs(p.Get("category_ids")),
			Available:   available,
		})
	}

	return catalog, nil
}

// relationID reads an ID given as a number or as an [id, "name"] pair.
// false, null and missing values yield 0.
func relationID(r gjson.Result) core.ID {
	if r.IsArray() {
		r = r.Get("0")
	}
	if r.Type != gjson.Number {
		return 0
	}
	return core.ID(r.Uint())
}

// relationIDs reads a list of IDs, accepting a single ID as a one-element list.
func relationIDs(r gjson.Result) []core.ID {
	if !r.IsArray() {
		if id := relationID(r); id != 0 {
			return []core.ID{id}
		}
		return nil
	}
	var ids []core.ID
	for _, v := range r.Array() {
		if id := relationID(v); id != 0 {
			ids = append(ids, id)
		}
	}
	return ids
}

// text reads a string field; false and null yield "".
func text(r gjson.Result) string {
	switch r.Type {
	case gjson.String, gjson.Number:
		return r.String()
	default:
		return ""
	}
}
