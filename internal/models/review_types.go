package models

import "time"

// Review is the model for the 'reviews' table
type Review struct {
	ID           int64     `json:"id" db:"id"`
	ProductID    int64     `json:"product_id" db:"product_id"`
	ReviewerName string    `json:"reviewer_name" db:"reviewer_name"`
	Rating       float64   `json:"rating" db:"rating"`
	Comment      string    `json:"comment" db:"comment"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`

	// Only populated by the admin listing
	ProductName *string `json:"product_name,omitempty" db:"product_name"`
}

// ReviewSummary is the per-product aggregate.
type ReviewSummary struct {
	AvgRating   float64 `json:"avg_rating"`
	ReviewCount int     `json:"review_count"`
}

// --- API Input Structs ---

type CreateReviewInput struct {
	ProductID    *int64   `json:"product_id" binding:"required"`
	ReviewerName *string  `json:"reviewer_name" binding:"required"`
	Rating       *float64 `json:"rating" binding:"required,gte=1,lte=5"`
	Comment      *string  `json:"comment" binding:"required"`
}

// UpdateReviewInput carries the id plus only the fields present in a PUT body.
type UpdateReviewInput struct {
	ID           *int64   `json:"id"`
	ReviewerName *string  `json:"reviewer_name"`
	Rating       *float64 `json:"rating" binding:"omitempty,gte=1,lte=5"`
	Comment      *string  `json:"comment"`
}
