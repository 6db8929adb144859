package models

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Product is the model for the 'products' table, enriched with its joins and owned children.
type Product struct {
	ID           int64               `json:"id" db:"id"`
	Name         string              `json:"name" db:"name"`
	Slug         string              `json:"slug" db:"slug"`
	SKU          string              `json:"sku" db:"sku"`
	Description  *string             `json:"description" db:"description"`
	Price        decimal.Decimal     `json:"price" db:"price"`
	SalePrice    decimal.NullDecimal `json:"sale_price" db:"sale_price"`
	Stock        int                 `json:"stock" db:"stock"`
	CategoryID   int64               `json:"category_id" db:"category_id"`
	CollectionID *int64              `json:"collection_id" db:"collection_id"`
	Fabric       *string             `json:"fabric" db:"fabric"`
	Enabled      bool                `json:"enabled" db:"enabled"`
	Featured     bool                `json:"featured" db:"featured"`
	CreatedAt    time.Time           `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at" db:"updated_at"`

	// Joins (LEFT JOIN, so nullable)
	CategoryName   *string `json:"category_name" db:"category_name"`
	CategorySlug   *string `json:"category_slug" db:"category_slug"`
	CollectionName *string `json:"collection_name" db:"collection_name"`
	CollectionSlug *string `json:"collection_slug" db:"collection_slug"`

	// Owned children, replaced wholesale on every write
	Colors []ProductColor `json:"colors" db:"-"`
	Images []ProductImage `json:"images" db:"-"`
}

// ProductColor is the model for the 'product_colors' table
type ProductColor struct {
	ID        int64  `json:"id" db:"id"`
	ProductID int64  `json:"product_id" db:"product_id"`
	Name      string `json:"name" db:"name"`
	Code      string `json:"code" db:"code"`
	Stock     *int   `json:"stock" db:"stock"`
}

// ProductImage is the model for the 'product_images' table
type ProductImage struct {
	ID           int64   `json:"id" db:"id"`
	ProductID    int64   `json:"product_id" db:"product_id"`
	URL          string  `json:"url" db:"url"`
	AltText      *string `json:"alt_text" db:"alt_text"`
	DisplayOrder int     `json:"display_order" db:"display_order"`
	IsPrimary    *bool   `json:"is_primary" db:"is_primary"`
}

// --- Inputs ---

type ColorInput struct {
	Name  string `json:"name"`
	Code  string `json:"code"`
	Stock *int   `json:"stock"`
}

type ImageInput struct {
	URL       string  `json:"url"`
	AltText   *string `json:"alt_text"`
	IsPrimary *bool   `json:"is_primary"`
}

// ImageSet is the "images" key of a product body. Present is set whenever
// the key appears, including "images": null, which decodes as an empty set.
type ImageSet struct {
	Items   []ImageInput
	Present bool
}

// Images builds a submitted image set.
func Images(items ...ImageInput) ImageSet {
	return ImageSet{Items: items, Present: true}
}

func (s *ImageSet) UnmarshalJSON(data []byte) error {
	s.Present = true
	s.Items = nil
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}
	return json.Unmarshal(data, &s.Items)
}

func (s ImageSet) MarshalJSON() ([]byte, error) {
	if !s.Present {
		return []byte("null"), nil
	}
	if s.Items == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s.Items)
}

// ProductInput is the POST/PUT body. ID is only read on PUT.
//
// On PUT an absent "images" key keeps the stored images; any value, null and
// [] included, replaces them. Colors has no such distinction: an absent key
// replaces the colors with the empty set.
type ProductInput struct {
	ID           *int64              `json:"id"`
	Name         string              `json:"name" binding:"required"`
	Description  *string             `json:"description"`
	Price        *decimal.Decimal    `json:"price" binding:"required"`
	SalePrice    decimal.NullDecimal `json:"sale_price"`
	Stock        *int                `json:"stock"`
	CategoryID   *int64              `json:"category_id" binding:"required"`
	CollectionID *int64              `json:"collection_id"`
	Fabric       *string             `json:"fabric"`
	Enabled      *bool               `json:"enabled"`
	Featured     *bool               `json:"featured"`
	Colors       []ColorInput        `json:"colors"`
	Images       ImageSet            `json:"images"`
}

// EnabledOrDefault returns the visibility flag, defaulting to visible.
func (in ProductInput) EnabledOrDefault() bool {
	if in.Enabled == nil {
		return true
	}
	return *in.Enabled
}

// FeaturedOrDefault returns the featured flag, defaulting to false.
func (in ProductInput) FeaturedOrDefault() bool {
	return in.Featured != nil && *in.Featured
}

// StockOrDefault returns the stock level, defaulting to 0.
func (in ProductInput) StockOrDefault() int {
	if in.Stock == nil {
		return 0
	}
	return *in.Stock
}
