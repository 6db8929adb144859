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

// TaxonomyStore serves one of the two lookup tables (categories or collections).
type TaxonomyStore struct {
	s    *Store
	kind models.TaxonomyKind
}

// Categories returns the store for the 'categories' table.
func (s *Store) Categories() *TaxonomyStore {
	return &TaxonomyStore{s: s, kind: models.KindCategory}
}

// Collections returns the store for the 'collections' table.
func (s *Store) Collections() *TaxonomyStore {
	return &TaxonomyStore{s: s, kind: models.KindCollection}
}

// Kind reports which table this store serves.
func (t *TaxonomyStore) Kind() models.TaxonomyKind {
	return t.kind
}

const taxonomyColumns = "id, name, slug, enabled, display_order, created_at"

// List returns every row ordered for display.
func (t *TaxonomyStore) List(ctx context.Context) ([]models.Taxonomy, error) {
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY display_order ASC, id ASC", taxonomyColumns, t.kind.Table())
	items := []models.Taxonomy{}
	if err := t.s.db.SelectContext(ctx, &items, query); err != nil {
		return nil, fmt.Errorf("list %s: %w", t.kind.Table(), err)
	}
	return items, nil
}

// Get returns one row or ErrNotFound.
func (t *TaxonomyStore) Get(ctx context.Context, id int64) (*models.Taxonomy, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = ?", taxonomyColumns, t.kind.Table())
	var item models.Taxonomy
	if err := t.s.db.GetContext(ctx, &item, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get %s %d: %w", t.kind, id, err)
	}
	return &item, nil
}

// Create inserts a row at the end of the display order.
func (t *TaxonomyStore) Create(ctx context.Context, name string, enabled bool) (*models.Taxonomy, error) {
	name = strings.TrimSpace(name)
	item := models.Taxonomy{
		Name:      name,
		Slug:      catalog.TaxonomySlug(name),
		Enabled:   enabled,
		CreatedAt: t.s.timestamp(),
	}

	// The MAX read and the insert share a transaction; concurrent creates may still tie.
	err := t.s.withTx(ctx, func(tx *sqlx.Tx) error {
		var maxOrder int
		q := fmt.Sprintf("SELECT COALESCE(MAX(display_order), 0) FROM %s", t.kind.Table())
		if err := tx.GetContext(ctx, &maxOrder, q); err != nil {
			return fmt.Errorf("read max display_order: %w", err)
		}
		item.DisplayOrder = maxOrder + 1

		q = fmt.Sprintf("INSERT INTO %s (name, slug, enabled, display_order, created_at) VALUES (?, ?, ?, ?, ?)", t.kind.Table())
		res, err := tx.ExecContext(ctx, q, item.Name, item.Slug, item.Enabled, item.DisplayOrder, item.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert %s: %w", t.kind, err)
		}
		item.ID, err = res.LastInsertId()
		return err
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// Update applies the fields present in patch and returns the refreshed row.
func (t *TaxonomyStore) Update(ctx context.Context, id int64, patch models.TaxonomyPatch) (*models.Taxonomy, error) {
	var set updateSet
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		set.add("name", name)
		set.add("slug", catalog.TaxonomySlug(name))
	}
	if patch.Enabled != nil {
		set.add("enabled", *patch.Enabled)
	}
	if patch.DisplayOrder != nil {
		set.add("display_order", *patch.DisplayOrder)
	}

	query, args, err := set.build(t.kind.Table(), id)
	if err != nil {
		return nil, err
	}

	if _, err := t.s.db.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("update %s %d: %w", t.kind, id, err)
	}
	// MySQL reports 0 affected rows for an unchanged row, so a miss is detected by the re-read.
	return t.Get(ctx, id)
}

// Delete removes the row. Products that reference it are left as they are.
func (t *TaxonomyStore) Delete(ctx context.Context, id int64) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE id = ?", t.kind.Table())
	res, err := t.s.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete %s %d: %w", t.kind, id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
