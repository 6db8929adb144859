package models

import "time"

// TaxonomyKind selects one of the two structurally identical lookup tables.
type TaxonomyKind string

const (
	KindCategory   TaxonomyKind = "category"
	KindCollection TaxonomyKind = "collection"
)

// Table returns the backing table for the kind.
func (k TaxonomyKind) Table() string {
	if k == KindCollection {
		return "collections"
	}
	return "categories"
}

// Label is the capitalised name used in response messages ("Category not found").
func (k TaxonomyKind) Label() string {
	if k == KindCollection {
		return "Collection"
	}
	return "Category"
}

// Taxonomy is a row of the 'categories' or 'collections' table.
type Taxonomy struct {
	ID           int64     `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Slug         string    `json:"slug" db:"slug"`
	Enabled      bool      `json:"enabled" db:"enabled"`
	DisplayOrder int       `json:"display_order" db:"display_order"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// --- API Input Structs ---

type CreateTaxonomyInput struct {
	Name    string `json:"name"`
	Enabled *bool  `json:"enabled"`
}

// TaxonomyPatch carries only the fields present in a PUT body.
type TaxonomyPatch struct {
	Name         *string `json:"name"`
	Enabled      *bool   `json:"enabled"`
	DisplayOrder *int    `json:"display_order"`
}
