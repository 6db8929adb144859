package handlers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaxonomyCRUD(t *testing.T) {
	for _, tc := range []struct {
		path  string
		label string
	}{
		{"/api/categories", "Category"},
		{"/api/collections", "Collection"},
	} {
		t.Run(tc.label, func(t *testing.T) {
			env := newEnv(t)

			// create
			w, resp := env.do(t, http.MethodPost, tc.path, map[string]interface{}{"name": "Festive Wear"})
			require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
			assert.Equal(t, tc.label+" created successfully", resp["message"])
			item := resp["data"].(map[string]interface{})
			assert.Equal(t, "festive-wear", item["slug"])
			assert.Equal(t, true, item["enabled"])
			assert.Equal(t, float64(1), item["display_order"])
			id := idOf(item)

			w, resp = env.do(t, http.MethodPost, tc.path, map[string]interface{}{"name": "Everyday", "enabled": false})
			require.Equal(t, http.StatusCreated, w.Code)
			assert.Equal(t, float64(2), resp["data"].(map[string]interface{})["display_order"])

			w, resp = env.do(t, http.MethodPost, tc.path, map[string]interface{}{"name": ""})
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tc.label+" name is required", resp["message"])

			// read
			_, resp = env.do(t, http.MethodGet, tc.path, nil)
			assert.Len(t, resp["data"], 2)

			w, resp = env.do(t, http.MethodGet, fmt.Sprintf("%s?id=%d", tc.path, id), nil)
			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, "Festive Wear", resp["data"].(map[string]interface{})["name"])

			w, resp = env.do(t, http.MethodGet, tc.path+"?id=999", nil)
			assert.Equal(t, http.StatusNotFound, w.Code)
			assert.Equal(t, tc.label+" not found", resp["message"])

			// update
			w, resp = env.do(t, http.MethodPut, fmt.Sprintf("%s?id=%d", tc.path, id), map[string]interface{}{"display_order": 5, "enabled": false})
			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tc.label+" updated successfully", resp["message"])
			assert.Equal(t, float64(5), resp["data"].(map[string]interface{})["display_order"])
			assert.Equal(t, false, resp["data"].(map[string]interface{})["enabled"])

			w, resp = env.do(t, http.MethodPut, fmt.Sprintf("%s?id=%d", tc.path, id), map[string]interface{}{"unknown": 1})
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, "No fields to update", resp["message"])

			w, resp = env.do(t, http.MethodPut, tc.path, map[string]interface{}{"name": "X"})
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tc.label+" ID is required", resp["message"])

			w, _ = env.do(t, http.MethodPut, tc.path+"?id=999", map[string]interface{}{"name": "X"})
			assert.Equal(t, http.StatusNotFound, w.Code)

			// delete
			w, resp = env.do(t, http.MethodDelete, fmt.Sprintf("%s?id=%d", tc.path, id), nil)
			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tc.label+" deleted successfully", resp["message"])

			w, resp = env.do(t, http.MethodDelete, fmt.Sprintf("%s?id=%d", tc.path, id), nil)
			assert.Equal(t, http.StatusNotFound, w.Code)
			assert.Equal(t, tc.label+" not found", resp["message"])

			w, _ = env.do(t, http.MethodDelete, tc.path, nil)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestTaxonomyListIsOrdered(t *testing.T) {
	env := newEnv(t)
	first := env.seedCategory(t, "First")
	second := env.seedCategory(t, "Second")

	w, _ := env.do(t, http.MethodPut, fmt.Sprintf("/api/categories?id=%d", second), map[string]interface{}{"display_order": 0})
	require.Equal(t, http.StatusOK, w.Code)

	_, resp := env.do(t, http.MethodGet, "/api/categories", nil)
	data := resp["data"].([]interface{})
	require.Len(t, data, 2)
	assert.Equal(t, second, idOf(data[0].(map[string]interface{})))
	assert.Equal(t, first, idOf(data[1].(map[string]interface{})))
}

func TestTaxonomySlugKeepsPunctuation(t *testing.T) {
	env := newEnv(t)
	w, resp := env.do(t, http.MethodPost, "/api/collections", map[string]interface{}{"name": " Silk & Cotton "})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	item := resp["data"].(map[string]interface{})
	assert.Equal(t, "Silk & Cotton", item["name"])
	assert.Equal(t, "silk-&-cotton", item["slug"])

	w, resp = env.do(t, http.MethodPut, fmt.Sprintf("/api/collections?id=%d", idOf(item)), map[string]interface{}{"name": "Men's Kurtas"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "men's-kurtas", resp["data"].(map[string]interface{})["slug"])
}
