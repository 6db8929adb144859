package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/01moynul/handloom-catalog/internal/catalog"
	"github.com/01moynul/handloom-catalog/internal/models"
)

// ProductFilter narrows the product listing. Zero values mean "no filter".
// An id filter takes precedence over the name filter on the same relation.
type ProductFilter struct {
	CategoryID      int64
	Category        string
	CollectionID    int64
	Collection      string
	IncludeDisabled bool
}

// ProductStore serves the 'products' table and its colors and images.
type ProductStore struct {
	s *Store
}

// Products returns the product store.
func (s *Store) Products() *ProductStore {
	return &ProductStore{s: s}
}

const productSelect = `SELECT p.id, p.name, p.slug, p.sku, p.description, p.price, p.sale_price, p.stock,
	p.category_id, p.collection_id, p.fabric, p.enabled, p.featured, p.created_at, p.updated_at,
	c.name AS category_name, c.slug AS category_slug,
	col.name AS collection_name, col.slug AS collection_slug
FROM products p
LEFT JOIN categories c ON p.category_id = c.id
LEFT JOIN collections col ON p.collection_id = col.id`

// List returns the matching products, featured first then newest first,
// each with its colors and images.
func (p *ProductStore) List(ctx context.Context, f ProductFilter) ([]models.Product, error) {
	var where []string
	var args []interface{}

	if !f.IncludeDisabled {
		where = append(where, "p.enabled = 1")
	}
	if f.CategoryID > 0 {
		where = append(where, "p.category_id = ?")
		args = append(args, f.CategoryID)
	} else if f.Category != "" {
		where = append(where, "c.name = ?")
		args = append(args, f.Category)
	}
	if f.CollectionID > 0 {
		where = append(where, "p.collection_id = ?")
		args = append(args, f.CollectionID)
	} else if f.Collection != "" {
		where = append(where, "col.name = ?")
		args = append(args, f.Collection)
	}

	query := productSelect
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY p.featured DESC, p.created_at DESC, p.id DESC"

	products := []models.Product{}
	if err := p.s.db.SelectContext(ctx, &products, query, args...); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	if err := p.attachChildren(ctx, products); err != nil {
		return nil, err
	}
	return products, nil
}

// Get returns one product regardless of its enabled flag.
func (p *ProductStore) Get(ctx context.Context, id int64) (*models.Product, error) {
	var product models.Product
	if err := p.s.db.GetContext(ctx, &product, productSelect+" WHERE p.id = ?", id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get product %d: %w", id, err)
	}
	products := []models.Product{product}
	if err := p.attachChildren(ctx, products); err != nil {
		return nil, err
	}
	return &products[0], nil
}

// attachChildren loads colors and images for all products with one query per child table.
func (p *ProductStore) attachChildren(ctx context.Context, products []models.Product) error {
	if len(products) == 0 {
		return nil
	}
	ids := make([]int64, len(products))
	for i := range products {
		ids[i] = products[i].ID
		products[i].Colors = []models.ProductColor{}
		products[i].Images = []models.ProductImage{}
	}

	query, args, err := sqlx.In("SELECT id, product_id, name, code, stock FROM product_colors WHERE product_id IN (?) ORDER BY id ASC", ids)
	if err != nil {
		return err
	}
	var colors []models.ProductColor
	if err := p.s.db.SelectContext(ctx, &colors, p.s.db.Rebind(query), args...); err != nil {
		return fmt.Errorf("load product colors: %w", err)
	}

	query, args, err = sqlx.In("SELECT id, product_id, url, alt_text, display_order, is_primary FROM product_images WHERE product_id IN (?) ORDER BY display_order ASC, id ASC", ids)
	if err != nil {
		return err
	}
	var images []models.ProductImage
	if err := p.s.db.SelectContext(ctx, &images, p.s.db.Rebind(query), args...); err != nil {
		return fmt.Errorf("load product images: %w", err)
	}

	index := make(map[int64]int, len(products))
	for i := range products {
		index[products[i].ID] = i
	}
	for _, c := range colors {
		if i, ok := index[c.ProductID]; ok {
			products[i].Colors = append(products[i].Colors, c)
		}
	}
	for _, img := range images {
		if i, ok := index[img.ProductID]; ok {
			products[i].Images = append(products[i].Images, img)
		}
	}
	return nil
}

// Create inserts the product with its colors and images in one transaction
// and returns the enriched row. The caller has validated name, price and category.
func (p *ProductStore) Create(ctx context.Context, in models.ProductInput) (*models.Product, error) {
	now := p.s.timestamp()
	name := in.Name

	var productID int64
	err := p.s.withTx(ctx, func(tx *sqlx.Tx) error {
		// 1. --- Insert the product row ---
		res, err := tx.ExecContext(ctx, `INSERT INTO products
			(name, slug, sku, description, price, sale_price, stock, category_id, collection_id, fabric, enabled, featured, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			name, catalog.ProductSlug(name), catalog.CreateSKU(name, now), in.Description,
			*in.Price, in.SalePrice, in.StockOrDefault(), *in.CategoryID, in.CollectionID, in.Fabric,
			in.EnabledOrDefault(), in.FeaturedOrDefault(), now, now,
		)
		if err != nil {
			return fmt.Errorf("insert product: %w", err)
		}
		if productID, err = res.LastInsertId(); err != nil {
			return err
		}

		// 2. --- Children ---
		if err := insertColors(ctx, tx, productID, in.Colors); err != nil {
			return err
		}
		if in.Images.Present {
			return insertImages(ctx, tx, productID, name, in.Images.Items)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	p.s.log.Info().Int64("product_id", productID).Msg("product created")
	return p.Get(ctx, productID)
}

// Update overwrites every product column, always replaces the colors, and
// replaces the images only when in.Images is present (an empty set removes them all).
func (p *ProductStore) Update(ctx context.Context, id int64, in models.ProductInput) (*models.Product, error) {
	name := in.Name

	err := p.s.withTx(ctx, func(tx *sqlx.Tx) error {
		// 1. --- Existence check ---
		var count int
		if err := tx.GetContext(ctx, &count, "SELECT COUNT(*) FROM products WHERE id = ?", id); err != nil {
			return fmt.Errorf("check product %d: %w", id, err)
		}
		if count == 0 {
			return ErrNotFound
		}

		// 2. --- Update the product row ---
		_, err := tx.ExecContext(ctx, `UPDATE products SET
			name = ?, slug = ?, sku = ?, description = ?,
			price = ?, sale_price = ?, stock = ?,
			category_id = ?, collection_id = ?, fabric = ?,
			enabled = ?, featured = ?, updated_at = ?
			WHERE id = ?`,
			name, catalog.ProductSlug(name), catalog.UpdateSKU(name, id), in.Description,
			*in.Price, in.SalePrice, in.StockOrDefault(),
			*in.CategoryID, in.CollectionID, in.Fabric,
			in.EnabledOrDefault(), in.FeaturedOrDefault(), p.s.timestamp(),
			id,
		)
		if err != nil {
			return fmt.Errorf("update product %d: %w", id, err)
		}

		// 3. --- Images: full replace only when the key was sent ---
		if in.Images.Present {
			if err := p.removeImages(ctx, tx, id); err != nil {
				return err
			}
			if err := insertImages(ctx, tx, id, name, in.Images.Items); err != nil {
				return err
			}
		}

		// 4. --- Colors: always replaced ---
		if _, err := tx.ExecContext(ctx, "DELETE FROM product_colors WHERE product_id = ?", id); err != nil {
			return fmt.Errorf("delete colors of product %d: %w", id, err)
		}
		return insertColors(ctx, tx, id, in.Colors)
	})
	if err != nil {
		return nil, err
	}

	p.s.log.Info().Int64("product_id", id).Msg("product updated")
	return p.Get(ctx, id)
}

// Delete removes the product, its image files (best effort), image rows and color rows.
func (p *ProductStore) Delete(ctx context.Context, id int64) error {
	err := p.s.withTx(ctx, func(tx *sqlx.Tx) error {
		var count int
		if err := tx.GetContext(ctx, &count, "SELECT COUNT(*) FROM products WHERE id = ?", id); err != nil {
			return fmt.Errorf("check product %d: %w", id, err)
		}
		if count == 0 {
			return ErrNotFound
		}

		if err := p.removeImages(ctx, tx, id); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM product_colors WHERE product_id = ?", id); err != nil {
			return fmt.Errorf("delete colors of product %d: %w", id, err)
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM products WHERE id = ?", id); err != nil {
			return fmt.Errorf("delete product %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	p.s.log.Info().Int64("product_id", id).Msg("product deleted")
	return nil
}

// removeImages unlinks the stored files and deletes the image rows. The file
// removal is not undone if the transaction later rolls back.
func (p *ProductStore) removeImages(ctx context.Context, tx *sqlx.Tx, productID int64) error {
	var urls []string
	if err := tx.SelectContext(ctx, &urls, "SELECT url FROM product_images WHERE product_id = ?", productID); err != nil {
		return fmt.Errorf("load images of product %d: %w", productID, err)
	}
	if len(urls) > 0 {
		p.s.cleaner.Cleanup(urls)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM product_images WHERE product_id = ?", productID); err != nil {
		return fmt.Errorf("delete images of product %d: %w", productID, err)
	}
	return nil
}

func insertColors(ctx context.Context, tx *sqlx.Tx, productID int64, colors []models.ColorInput) error {
	for _, c := range colors {
		if c.Name == "" || c.Code == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO product_colors (product_id, name, code, stock) VALUES (?, ?, ?, ?)",
			productID, c.Name, c.Code, c.Stock,
		); err != nil {
			return fmt.Errorf("insert color for product %d: %w", productID, err)
		}
	}
	return nil
}

// insertImages keeps the submitted index as display_order, so skipped entries leave gaps.
func insertImages(ctx context.Context, tx *sqlx.Tx, productID int64, productName string, images []models.ImageInput) error {
	for i, img := range images {
		if img.URL == "" {
			continue
		}
		alt := productName
		if img.AltText != nil {
			alt = *img.AltText
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO product_images (product_id, url, alt_text, display_order, is_primary) VALUES (?, ?, ?, ?, ?)",
			productID, img.URL, alt, i, img.IsPrimary,
		); err != nil {
			return fmt.Errorf("insert image for product %d: %w", productID, err)
		}
	}
	return nil
}
