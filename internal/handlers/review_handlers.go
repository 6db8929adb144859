package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/01moynul/handloom-catalog/internal/models"
)

const reviewDateLayout = "January 2, 2006"

// productReview is the storefront rendering of a review, with a display date.
type productReview struct {
	ID           int64     `json:"id"`
	ProductID    int64     `json:"product_id"`
	ReviewerName string    `json:"reviewer_name"`
	Rating       float64   `json:"rating"`
	Comment      string    `json:"comment"`
	CreatedAt    string    `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// reviewBindMessage turns a binding failure into the client message.
func reviewBindMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "Missing required fields"
	}
	for _, fe := range verrs {
		if fe.Tag() == "required" {
			return "Missing required fields"
		}
	}
	for _, fe := range verrs {
		if fe.Field() == "Rating" {
			return "Rating must be between 1 and 5"
		}
	}
	return "Invalid request body"
}

// GetReviews handles GET /reviews:
// ?product_id=N for the storefront, ?id=N for one review, neither for the admin list.
func (h *Handlers) GetReviews(c *gin.Context) {
	ctx := c.Request.Context()

	switch {
	case c.Query("product_id") != "":
		productID, ok := queryID(c, "product_id")
		if !ok {
			fail(c, http.StatusBadRequest, "Invalid product ID")
			return
		}
		reviews, summary, err := h.Store.Reviews().ListForProduct(ctx, productID)
		if err != nil {
			h.serverError(c, err)
			return
		}

		out := make([]productReview, len(reviews))
		for i, r := range reviews {
			out[i] = productReview{
				ID:           r.ID,
				ProductID:    r.ProductID,
				ReviewerName: r.ReviewerName,
				Rating:       r.Rating,
				Comment:      r.Comment,
				CreatedAt:    r.CreatedAt.Format(reviewDateLayout),
				UpdatedAt:    r.UpdatedAt,
			}
		}
		c.JSON(http.StatusOK, gin.H{
			"success":      true,
			"reviews":      out,
			"avg_rating":   summary.AvgRating,
			"review_count": summary.ReviewCount,
		})

	case c.Query("id") != "":
		id, ok := queryID(c, "id")
		if !ok {
			fail(c, http.StatusBadRequest, "Invalid review ID")
			return
		}
		review, err := h.Store.Reviews().Get(ctx, id)
		if err != nil {
			h.storeError(c, err, "Review not found")
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "review": review})

	default:
		reviews, err := h.Store.Reviews().ListAll(ctx)
		if err != nil {
			h.serverError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "reviews": reviews})
	}
}

// CreateReview handles POST /reviews
func (h *Handlers) CreateReview(c *gin.Context) {
	// 1. --- Bind & Validate JSON ---
	var input models.CreateReviewInput
	if err := c.ShouldBindJSON(&input); err != nil {
		fail(c, http.StatusBadRequest, reviewBindMessage(err))
		return
	}

	// 2. --- Text fields must survive trimming ---
	name := strings.TrimSpace(*input.ReviewerName)
	comment := strings.TrimSpace(*input.Comment)
	if name == "" || comment == "" {
		fail(c, http.StatusBadRequest, "Reviewer name and comment are required")
		return
	}

	// 3. --- Persist ---
	review, err := h.Store.Reviews().Create(c.Request.Context(), *input.ProductID, name, *input.Rating, comment)
	if err != nil {
		h.storeError(c, err, "Product not found")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Review created successfully",
		"review":  review,
	})
}

// UpdateReview handles PUT /reviews with {id, reviewer_name?, rating?, comment?}.
func (h *Handlers) UpdateReview(c *gin.Context) {
	var input models.UpdateReviewInput
	err := c.ShouldBindJSON(&input)

	id, ok := bodyOrQueryID(c, input.ID)
	if !ok {
		fail(c, http.StatusBadRequest, "Review ID is required")
		return
	}
	if err != nil {
		fail(c, http.StatusBadRequest, reviewBindMessage(err))
		return
	}
	if input.ReviewerName != nil && strings.TrimSpace(*input.ReviewerName) == "" ||
		input.Comment != nil && strings.TrimSpace(*input.Comment) == "" {
		fail(c, http.StatusBadRequest, "Reviewer name and comment are required")
		return
	}

	review, err := h.Store.Reviews().Update(c.Request.Context(), id, input.ReviewerName, input.Rating, input.Comment)
	if err != nil {
		h.storeError(c, err, "Review not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Review updated successfully",
		"review":  review,
	})
}

// DeleteReview handles DELETE /reviews with {"id": N} (or ?id=).
func (h *Handlers) DeleteReview(c *gin.Context) {
	var body idBody
	if err := bindOptionalJSON(c, &body); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	id, ok := bodyOrQueryID(c, body.ID)
	if !ok {
		fail(c, http.StatusBadRequest, "Review ID is required")
		return
	}

	if err := h.Store.Reviews().Delete(c.Request.Context(), id); err != nil {
		h.storeError(c, err, "Review not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Review deleted successfully"})
}
