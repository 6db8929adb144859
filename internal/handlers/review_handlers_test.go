package handlers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateReviewValidation(t *testing.T) {
	env := newEnv(t)
	catID := env.seedCategory(t, "Sarees")
	productID := idOf(env.seedProduct(t, map[string]interface{}{"name": "Tussar", "price": 100, "category_id": catID}))

	cases := []struct {
		name   string
		body   map[string]interface{}
		status int
		msg    string
	}{
		{"missing comment", map[string]interface{}{"product_id": productID, "reviewer_name": "A", "rating": 4}, http.StatusBadRequest, "Missing required fields"},
		{"rating too high", map[string]interface{}{"product_id": productID, "reviewer_name": "A", "rating": 6, "comment": "x"}, http.StatusBadRequest, "Rating must be between 1 and 5"},
		{"rating too low", map[string]interface{}{"product_id": productID, "reviewer_name": "A", "rating": 0.5, "comment": "x"}, http.StatusBadRequest, "Rating must be between 1 and 5"},
		{"blank name", map[string]interface{}{"product_id": productID, "reviewer_name": "   ", "rating": 4, "comment": "x"}, http.StatusBadRequest, "Reviewer name and comment are required"},
		{"unknown product", map[string]interface{}{"product_id": 999, "reviewer_name": "A", "rating": 4, "comment": "x"}, http.StatusNotFound, "Product not found"},
		{"rating above five", map[string]interface{}{"product_id": productID, "reviewer_name": "A", "rating": 5.5, "comment": "x"}, http.StatusBadRequest, "Rating must be between 1 and 5"},
		{"lowest rating", map[string]interface{}{"product_id": productID, "reviewer_name": "A", "rating": 1, "comment": "x"}, http.StatusCreated, "Review created successfully"},
		{"highest rating", map[string]interface{}{"product_id": productID, "reviewer_name": "B", "rating": 5, "comment": "y"}, http.StatusCreated, "Review created successfully"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w, resp := env.do(t, http.MethodPost, "/api/reviews", tc.body)
			assert.Equal(t, tc.status, w.Code)
			assert.Equal(t, tc.msg, resp["message"])
		})
	}

	// only the two boundary ratings were stored
	_, resp := env.do(t, http.MethodGet, fmt.Sprintf("/api/reviews?product_id=%d", productID), nil)
	assert.Equal(t, float64(2), resp["review_count"])
	assert.Equal(t, float64(3), resp["avg_rating"])
	assert.Len(t, resp["reviews"], 2)
}

func TestReviewSummaryWithoutReviews(t *testing.T) {
	env := newEnv(t)
	catID := env.seedCategory(t, "Sarees")
	productID := idOf(env.seedProduct(t, map[string]interface{}{"name": "Tussar", "price": 100, "category_id": catID}))

	_, resp := env.do(t, http.MethodGet, fmt.Sprintf("/api/reviews?product_id=%d", productID), nil)
	assert.Equal(t, float64(0), resp["review_count"])
	assert.Equal(t, float64(0), resp["avg_rating"])
	assert.Empty(t, resp["reviews"])
}

func TestReviewLifecycle(t *testing.T) {
	env := newEnv(t)
	catID := env.seedCategory(t, "Sarees")
	productID := idOf(env.seedProduct(t, map[string]interface{}{"name": "Chanderi", "price": 100, "category_id": catID}))

	var ids []int64
	for _, rating := range []float64{5, 4, 3.5} {
		w, resp := env.do(t, http.MethodPost, "/api/reviews", map[string]interface{}{
			"product_id": productID, "reviewer_name": "  Meera  ", "rating": rating, "comment": " Lovely drape ",
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		assert.Equal(t, "Review created successfully", resp["message"])
		review := resp["review"].(map[string]interface{})
		assert.Equal(t, "Meera", review["reviewer_name"])
		assert.Equal(t, "Lovely drape", review["comment"])
		ids = append(ids, idOf(review))
	}

	// storefront view
	w, resp := env.do(t, http.MethodGet, fmt.Sprintf("/api/reviews?product_id=%d", productID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(3), resp["review_count"])
	assert.Equal(t, 4.2, resp["avg_rating"]) // 12.5 / 3 = 4.166...
	reviews := resp["reviews"].([]interface{})
	require.Len(t, reviews, 3)
	newest := reviews[0].(map[string]interface{})
	assert.Equal(t, ids[2], idOf(newest))
	assert.Equal(t, "March 1, 2024", newest["created_at"])
	assert.Equal(t, 3.5, newest["rating"])

	// single and admin views
	w, resp = env.do(t, http.MethodGet, fmt.Sprintf("/api/reviews?id=%d", ids[0]), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(5), resp["review"].(map[string]interface{})["rating"])

	w, resp = env.do(t, http.MethodGet, "/api/reviews?id=999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Review not found", resp["message"])

	_, resp = env.do(t, http.MethodGet, "/api/reviews", nil)
	all := resp["reviews"].([]interface{})
	require.Len(t, all, 3)
	assert.Equal(t, "Chanderi", all[0].(map[string]interface{})["product_name"])

	// update
	w, resp = env.do(t, http.MethodPut, "/api/reviews", map[string]interface{}{"id": ids[0], "rating": 2})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Review updated successfully", resp["message"])
	assert.Equal(t, float64(2), resp["review"].(map[string]interface{})["rating"])

	w, resp = env.do(t, http.MethodPut, "/api/reviews", map[string]interface{}{"id": ids[0], "rating": 7})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Rating must be between 1 and 5", resp["message"])

	w, resp = env.do(t, http.MethodPut, "/api/reviews", map[string]interface{}{"id": ids[0], "rating": 5.5})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Rating must be between 1 and 5", resp["message"])

	for _, rating := range []float64{1, 5, 2} {
		w, resp = env.do(t, http.MethodPut, "/api/reviews", map[string]interface{}{"id": ids[0], "rating": rating})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, rating, resp["review"].(map[string]interface{})["rating"])
	}

	w, resp = env.do(t, http.MethodPut, "/api/reviews", map[string]interface{}{"id": ids[0]})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "No fields to update", resp["message"])

	w, resp = env.do(t, http.MethodPut, "/api/reviews", map[string]interface{}{"rating": 3})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Review ID is required", resp["message"])

	w, _ = env.do(t, http.MethodPut, "/api/reviews", map[string]interface{}{"id": 999, "rating": 3})
	assert.Equal(t, http.StatusNotFound, w.Code)

	// delete
	w, resp = env.doRaw(t, http.MethodDelete, fmt.Sprintf("/api/reviews?id=%d", ids[1]), "not json")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid request body", resp["message"])

	w, resp = env.do(t, http.MethodDelete, "/api/reviews", map[string]interface{}{"id": ids[1]})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Review deleted successfully", resp["message"])

	w, _ = env.do(t, http.MethodDelete, "/api/reviews", map[string]interface{}{"id": ids[1]})
	assert.Equal(t, http.StatusNotFound, w.Code)

	_, resp = env.do(t, http.MethodGet, fmt.Sprintf("/api/reviews?product_id=%d", productID), nil)
	assert.Equal(t, float64(2), resp["review_count"])
	assert.Equal(t, 2.8, resp["avg_rating"]) // (2 + 3.5) / 2 = 2.75
}
