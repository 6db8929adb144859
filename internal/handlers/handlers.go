package handlers

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/rs/zerolog"

	"github.com/01moynul/handloom-catalog/internal/cache"
	"github.com/01moynul/handloom-catalog/internal/logging"
	"github.com/01moynul/handloom-catalog/internal/media"
	"github.com/01moynul/handloom-catalog/internal/store"
)

// Handlers struct holds all dependencies for our handlers.
type Handlers struct {
	Store   *store.Store
	Uploads *media.Storage
	Cache   *cache.Catalog // nil when Redis is not configured

	// ExposeErrors puts the raw error into 500 bodies. Off in production.
	ExposeErrors bool

	log zerolog.Logger
}

// New builds the handler set.
func New(s *store.Store, uploads *media.Storage, c *cache.Catalog, logger zerolog.Logger, exposeErrors bool) *Handlers {
	return &Handlers{
		Store:        s,
		Uploads:      uploads,
		Cache:        c,
		ExposeErrors: exposeErrors,
		log:          logging.PackageLogger(logger, "handlers"),
	}
}

// --- Response helpers ---

func fail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "message": message})
}

// serverError logs err and answers 500 without leaking it unless ExposeErrors is set.
func (h *Handlers) serverError(c *gin.Context, err error) {
	h.log.Error().Err(err).
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path).
		Msg("request failed")
	c.Error(err)

	message := "Database error occurred"
	if h.ExposeErrors {
		message = "Database error: " + err.Error()
	}
	fail(c, http.StatusInternalServerError, message)
}

// storeError maps store sentinels to 404 and 400, anything else to 500.
func (h *Handlers) storeError(c *gin.Context, err error, notFound string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		fail(c, http.StatusNotFound, notFound)
	case errors.Is(err, store.ErrNoFields):
		fail(c, http.StatusBadRequest, "No fields to update")
	default:
		h.serverError(c, err)
	}
}

// --- Request helpers ---

// queryID reads a positive integer query parameter. Absent, malformed and
// non-positive values all report false.
func queryID(c *gin.Context, name string) (int64, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// idBody is the {"id": N} body the admin UI sends with PUT and DELETE.
type idBody struct {
	ID *int64 `json:"id"`
}

// bindOptionalJSON decodes the body into dest when one was sent. An empty
// body leaves dest untouched and is not an error.
func bindOptionalJSON(c *gin.Context, dest interface{}) error {
	raw, err := c.GetRawData()
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	return binding.JSON.BindBody(raw, dest)
}

// bodyOrQueryID prefers the body id and falls back to ?id=.
func bodyOrQueryID(c *gin.Context, fromBody *int64) (int64, bool) {
	if fromBody != nil {
		if *fromBody > 0 {
			return *fromBody, true
		}
		return 0, false
	}
	return queryID(c, "id")
}
