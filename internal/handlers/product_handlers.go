package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/01moynul/handloom-catalog/internal/models"
	"github.com/01moynul/handloom-catalog/internal/store"
)

// validateProductInput applies the create/update rules shared by POST and PUT.
// It returns the client message, or "" when the input is acceptable.
func validateProductInput(in *models.ProductInput) string {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" || in.Price == nil || in.Price.IsZero() || in.CategoryID == nil || *in.CategoryID <= 0 {
		return "Missing required fields"
	}
	if in.Price.IsNegative() {
		return "Price must be greater than zero"
	}
	if in.SalePrice.Valid && in.SalePrice.Decimal.IsNegative() {
		return "Sale price cannot be negative"
	}
	if in.Stock != nil && *in.Stock < 0 {
		return "Stock cannot be negative"
	}
	return ""
}

// GetProducts handles GET /products.
// With ?id=N it returns one product, otherwise the filtered listing.
func (h *Handlers) GetProducts(c *gin.Context) {
	if c.Query("id") != "" {
		h.getProduct(c)
		return
	}

	// 1. --- Parse filters ---
	filter := store.ProductFilter{
		Category:        c.Query("category"),
		Collection:      c.Query("collection"),
		IncludeDisabled: c.Query("include_disabled") == "true",
	}
	filter.CategoryID, _ = queryID(c, "category_id")
	filter.CollectionID, _ = queryID(c, "collection_id")

	// 2. --- Cache ---
	var products []models.Product
	key, hit := h.Cache.Lookup(c.Request.Context(), &products, "list",
		strconv.FormatInt(filter.CategoryID, 10), filter.Category,
		strconv.FormatInt(filter.CollectionID, 10), filter.Collection,
		strconv.FormatBool(filter.IncludeDisabled),
	)

	// 3. --- Query ---
	if !hit {
		var err error
		products, err = h.Store.Products().List(c.Request.Context(), filter)
		if err != nil {
			h.serverError(c, err)
			return
		}
		h.Cache.Store(c.Request.Context(), key, products)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    products,
		"count":   len(products),
	})
}

func (h *Handlers) getProduct(c *gin.Context) {
	id, ok := queryID(c, "id")
	if !ok {
		fail(c, http.StatusBadRequest, "Invalid product ID")
		return
	}

	var product *models.Product
	key, hit := h.Cache.Lookup(c.Request.Context(), &product, "product", strconv.FormatInt(id, 10))
	if !hit || product == nil {
		var err error
		product, err = h.Store.Products().Get(c.Request.Context(), id)
		if err != nil {
			h.storeError(c, err, "Product not found")
			return
		}
		h.Cache.Store(c.Request.Context(), key, product)
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": product})
}

// CreateProduct handles POST /products
func (h *Handlers) CreateProduct(c *gin.Context) {
	// 1. --- Bind & Validate JSON ---
	var input models.ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		fail(c, http.StatusBadRequest, "Missing required fields")
		return
	}
	if msg := validateProductInput(&input); msg != "" {
		fail(c, http.StatusBadRequest, msg)
		return
	}

	// 2. --- Persist (product, colors, images in one transaction) ---
	product, err := h.Store.Products().Create(c.Request.Context(), input)
	if err != nil {
		h.serverError(c, err)
		return
	}
	h.Cache.Invalidate(c.Request.Context())

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    product,
		"message": "Product created successfully",
	})
}

// UpdateProduct handles PUT /products with the id in the body (or ?id=).
func (h *Handlers) UpdateProduct(c *gin.Context) {
	// 1. --- Bind ---
	var input models.ProductInput
	bindErr := c.ShouldBindJSON(&input)

	id, ok := bodyOrQueryID(c, input.ID)
	if !ok {
		fail(c, http.StatusBadRequest, "Product ID is required")
		return
	}

	// 2. --- Validate ---
	if bindErr != nil {
		fail(c, http.StatusBadRequest, "Missing required fields")
		return
	}
	if msg := validateProductInput(&input); msg != "" {
		fail(c, http.StatusBadRequest, msg)
		return
	}

	// 3. --- Persist ---
	product, err := h.Store.Products().Update(c.Request.Context(), id, input)
	if err != nil {
		h.storeError(c, err, "Product not found")
		return
	}
	h.Cache.Invalidate(c.Request.Context())

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    product,
		"message": "Product updated successfully",
	})
}

// DeleteProduct handles DELETE /products with {"id": N} (or ?id=).
func (h *Handlers) DeleteProduct(c *gin.Context) {
	var body idBody
	if err := bindOptionalJSON(c, &body); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	id, ok := bodyOrQueryID(c, body.ID)
	if !ok {
		fail(c, http.StatusBadRequest, "Product ID is required")
		return
	}

	if err := h.Store.Products().Delete(c.Request.Context(), id); err != nil {
		h.storeError(c, err, "Product not found")
		return
	}
	h.Cache.Invalidate(c.Request.Context())

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Product deleted successfully"})
}
