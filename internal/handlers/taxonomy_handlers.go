package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/01moynul/handloom-catalog/internal/models"
	"github.com/01moynul/handloom-catalog/internal/store"
)

// Categories and collections share these handlers; the kind picks the table
// and the wording of the messages.

func (h *Handlers) taxonomyStore(kind models.TaxonomyKind) *store.TaxonomyStore {
	if kind == models.KindCollection {
		return h.Store.Collections()
	}
	return h.Store.Categories()
}

// GetTaxonomies handles GET with an optional ?id=N.
func (h *Handlers) GetTaxonomies(kind models.TaxonomyKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		ts := h.taxonomyStore(kind)

		if c.Query("id") != "" {
			id, ok := queryID(c, "id")
			if !ok {
				fail(c, http.StatusBadRequest, "Invalid "+strings.ToLower(kind.Label())+" ID")
				return
			}
			item, err := ts.Get(c.Request.Context(), id)
			if err != nil {
				h.storeError(c, err, kind.Label()+" not found")
				return
			}
			c.JSON(http.StatusOK, gin.H{"success": true, "data": item})
			return
		}

		items, err := ts.List(c.Request.Context())
		if err != nil {
			h.serverError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": items})
	}
}

// CreateTaxonomy handles POST {name, enabled?}.
func (h *Handlers) CreateTaxonomy(kind models.TaxonomyKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. --- Bind & Validate JSON ---
		var input models.CreateTaxonomyInput
		if err := c.ShouldBindJSON(&input); err != nil || strings.TrimSpace(input.Name) == "" {
			fail(c, http.StatusBadRequest, kind.Label()+" name is required")
			return
		}
		enabled := true
		if input.Enabled != nil {
			enabled = *input.Enabled
		}

		// 2. --- Insert at the end of the display order ---
		item, err := h.taxonomyStore(kind).Create(c.Request.Context(), input.Name, enabled)
		if err != nil {
			h.serverError(c, err)
			return
		}
		h.Cache.Invalidate(c.Request.Context())

		c.JSON(http.StatusCreated, gin.H{
			"success": true,
			"data":    item,
			"message": kind.Label() + " created successfully",
		})
	}
}

// UpdateTaxonomy handles PUT ?id=N with any of {name, enabled, display_order}.
func (h *Handlers) UpdateTaxonomy(kind models.TaxonomyKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := queryID(c, "id")
		if !ok {
			fail(c, http.StatusBadRequest, kind.Label()+" ID is required")
			return
		}

		var patch models.TaxonomyPatch
		if err := c.ShouldBindJSON(&patch); err != nil {
			fail(c, http.StatusBadRequest, "No fields to update")
			return
		}
		if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
			fail(c, http.StatusBadRequest, kind.Label()+" name is required")
			return
		}

		item, err := h.taxonomyStore(kind).Update(c.Request.Context(), id, patch)
		if err != nil {
			h.storeError(c, err, kind.Label()+" not found")
			return
		}
		h.Cache.Invalidate(c.Request.Context())

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    item,
			"message": kind.Label() + " updated successfully",
		})
	}
}

// DeleteTaxonomy handles DELETE ?id=N. Products pointing at the row are left alone.
func (h *Handlers) DeleteTaxonomy(kind models.TaxonomyKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := queryID(c, "id")
		if !ok {
			fail(c, http.StatusBadRequest, kind.Label()+" ID is required")
			return
		}

		if err := h.taxonomyStore(kind).Delete(c.Request.Context(), id); err != nil {
			h.storeError(c, err, kind.Label()+" not found")
			return
		}
		h.Cache.Invalidate(c.Request.Context())

		c.JSON(http.StatusOK, gin.H{"success": true, "message": kind.Label() + " deleted successfully"})
	}
}
