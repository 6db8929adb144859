package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

//
// --- Admin Dashboard Stats ---
//

// GetStats returns KPI data for the admin dashboard's analytics tab
// GET /api/stats
func (h *Handlers) GetStats(c *gin.Context) {
	stats, err := h.Store.Stats(c.Request.Context())
	if err != nil {
		h.serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": stats})
}

//
// --- Health ---
//

const healthTimeout = 2 * time.Second

// Health reports database and cache reachability. Only a database failure
// makes the service unhealthy; a down cache just degrades it.
// GET /health
func (h *Handlers) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	status := http.StatusOK
	body := gin.H{"status": "ok", "database": "up", "cache": "disabled"}

	if err := h.Store.Ping(ctx); err != nil {
		h.log.Error().Err(err).Msg("health check: database unreachable")
		status = http.StatusServiceUnavailable
		body["status"] = "unavailable"
		body["database"] = "down"
	}

	if h.Cache.Enabled() {
		body["cache"] = "up"
		if err := h.Cache.Ping(ctx); err != nil {
			h.log.Warn().Err(err).Msg("health check: cache unreachable")
			body["cache"] = "down"
			if status == http.StatusOK {
				body["status"] = "degraded"
			}
		}
	}

	c.JSON(status, body)
}
