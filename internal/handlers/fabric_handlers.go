package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/01moynul/handloom-catalog/internal/catalog"
)

// GetFabrics handles GET /fabrics
func (h *Handlers) GetFabrics(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": catalog.Fabrics()})
}
