package store

import (
	"context"
	"fmt"

	"github.com/01moynul/handloom-catalog/internal/models"
)

// Stats aggregates catalog counts for the admin dashboard.
func (s *Store) Stats(ctx context.Context) (*models.CatalogStats, error) {
	var stats models.CatalogStats

	// 1. --- Product counts ---
	err := s.db.GetContext(ctx, &stats, `SELECT
		COUNT(*) AS products,
		COALESCE(SUM(CASE WHEN enabled = 1 THEN 1 ELSE 0 END), 0) AS enabled_products,
		COALESCE(SUM(CASE WHEN featured = 1 THEN 1 ELSE 0 END), 0) AS featured_products,
		COALESCE(SUM(CASE WHEN stock <= 0 THEN 1 ELSE 0 END), 0) AS out_of_stock
		FROM products`)
	if err != nil {
		return nil, fmt.Errorf("product stats: %w", err)
	}

	// 2. --- Lookups and reviews ---
	if err := s.db.GetContext(ctx, &stats.Categories, "SELECT COUNT(*) FROM categories"); err != nil {
		return nil, fmt.Errorf("category stats: %w", err)
	}
	if err := s.db.GetContext(ctx, &stats.Collections, "SELECT COUNT(*) FROM collections"); err != nil {
		return nil, fmt.Errorf("collection stats: %w", err)
	}
	if err := s.db.GetContext(ctx, &stats.Reviews, "SELECT COUNT(*) FROM reviews"); err != nil {
		return nil, fmt.Errorf("review stats: %w", err)
	}
	if err := s.db.GetContext(ctx, &stats.AvgRating, "SELECT COALESCE(ROUND(AVG(rating), 1), 0) FROM reviews"); err != nil {
		return nil, fmt.Errorf("rating stats: %w", err)
	}
	return &stats, nil
}
