package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/01moynul/handloom-catalog/internal/models"
)

// ReviewStore serves the 'reviews' table.
type ReviewStore struct {
	s *Store
}

// Reviews returns the review store.
func (s *Store) Reviews() *ReviewStore {
	return &ReviewStore{s: s}
}

const reviewColumns = "r.id, r.product_id, r.reviewer_name, r.rating, r.comment, r.created_at, r.updated_at"

type reviewWithSummary struct {
	models.Review
	AvgRating   sql.NullFloat64 `db:"avg_rating"`
	ReviewCount int             `db:"review_count"`
}

// ListForProduct returns a product's reviews newest first with the average
// rating (one decimal) and count. No reviews yields a zero summary.
func (r *ReviewStore) ListForProduct(ctx context.Context, productID int64) ([]models.Review, models.ReviewSummary, error) {
	query := `SELECT ` + reviewColumns + `,
		(SELECT ROUND(AVG(r2.rating), 1) FROM reviews r2 WHERE r2.product_id = r.product_id) AS avg_rating,
		(SELECT COUNT(*) FROM reviews r3 WHERE r3.product_id = r.product_id) AS review_count
		FROM reviews r
		WHERE r.product_id = ?
		ORDER BY r.created_at DESC, r.id DESC`

	var rows []reviewWithSummary
	if err := r.s.db.SelectContext(ctx, &rows, query, productID); err != nil {
		return nil, models.ReviewSummary{}, fmt.Errorf("list reviews of product %d: %w", productID, err)
	}

	reviews := make([]models.Review, len(rows))
	var summary models.ReviewSummary
	for i, row := range rows {
		reviews[i] = row.Review
		summary.AvgRating = row.AvgRating.Float64
		summary.ReviewCount = row.ReviewCount
	}
	return reviews, summary, nil
}

// ListAll returns every review with its product name, newest first.
func (r *ReviewStore) ListAll(ctx context.Context) ([]models.Review, error) {
	query := `SELECT ` + reviewColumns + `, p.name AS product_name
		FROM reviews r
		LEFT JOIN products p ON r.product_id = p.id
		ORDER BY r.created_at DESC, r.id DESC`

	reviews := []models.Review{}
	if err := r.s.db.SelectContext(ctx, &reviews, query); err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return reviews, nil
}

// Get returns one review or ErrNotFound.
func (r *ReviewStore) Get(ctx context.Context, id int64) (*models.Review, error) {
	var review models.Review
	if err := r.s.db.GetContext(ctx, &review, "SELECT "+reviewColumns+" FROM reviews r WHERE r.id = ?", id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get review %d: %w", id, err)
	}
	return &review, nil
}

// Create stores a review for an existing product. The caller has validated
// the rating range and trimmed the text fields.
func (r *ReviewStore) Create(ctx context.Context, productID int64, reviewerName string, rating float64, comment string) (*models.Review, error) {
	var count int
	if err := r.s.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM products WHERE id = ?", productID); err != nil {
		return nil, fmt.Errorf("check product %d: %w", productID, err)
	}
	if count == 0 {
		return nil, ErrNotFound
	}

	now := r.s.timestamp()
	res, err := r.s.db.ExecContext(ctx,
		"INSERT INTO reviews (product_id, reviewer_name, rating, comment, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)",
		productID, reviewerName, rating, comment, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert review: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.Get(ctx, id)
}

// Update applies the present fields, refreshes updated_at and returns the row.
func (r *ReviewStore) Update(ctx context.Context, id int64, reviewerName *string, rating *float64, comment *string) (*models.Review, error) {
	var set updateSet
	if reviewerName != nil {
		set.add("reviewer_name", strings.TrimSpace(*reviewerName))
	}
	if rating != nil {
		set.add("rating", *rating)
	}
	if comment != nil {
		set.add("comment", strings.TrimSpace(*comment))
	}
	if set.empty() {
		return nil, ErrNoFields
	}
	set.add("updated_at", r.s.timestamp())

	query, args, err := set.build("reviews", id)
	if err != nil {
		return nil, err
	}
	if _, err := r.s.db.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("update review %d: %w", id, err)
	}
	return r.Get(ctx, id)
}

// Delete removes one review.
func (r *ReviewStore) Delete(ctx context.Context, id int64) error {
	res, err := r.s.db.ExecContext(ctx, "DELETE FROM reviews WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete review %d: %w", id, err)
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
