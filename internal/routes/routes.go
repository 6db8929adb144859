package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/01moynul/handloom-catalog/internal/handlers"
	"github.com/01moynul/handloom-catalog/internal/logging"
	"github.com/01moynul/handloom-catalog/internal/metrics"
	"github.com/01moynul/handloom-catalog/internal/models"
)

// Options carries the router settings that don't belong to the handlers.
type Options struct {
	AllowOrigin string
	UploadDir   string
	// UploadPrefix is the public path uploads are served under, without slashes.
	UploadPrefix string
	Metrics      *metrics.Metrics
	Logger       zerolog.Logger
}

// CORSMiddleware lets the storefront and admin UI call the API from another
// origin. Preflight OPTIONS requests are answered here with 200 and no body;
// gin runs global middleware on the NoMethod chain too, so no OPTIONS routes are needed.
func CORSMiddleware(allowOrigin string) gin.HandlerFunc {
	if allowOrigin == "" {
		allowOrigin = "*"
	}
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", allowOrigin)
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Max-Age", "86400")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}

		c.Next()
	}
}

// resource registers one endpoint under both its REST path and the legacy
// .php path older storefront builds call.
type resource struct {
	name   string
	get    gin.HandlerFunc
	post   gin.HandlerFunc
	put    gin.HandlerFunc
	delete gin.HandlerFunc
}

func (r resource) register(rest, legacy *gin.RouterGroup) {
	for _, path := range []struct {
		g *gin.RouterGroup
		p string
	}{{rest, "/" + r.name}, {legacy, "/" + r.name + ".php"}} {
		if r.get != nil {
			path.g.GET(path.p, r.get)
		}
		if r.post != nil {
			path.g.POST(path.p, r.post)
		}
		if r.put != nil {
			path.g.PUT(path.p, r.put)
		}
		if r.delete != nil {
			path.g.DELETE(path.p, r.delete)
		}
	}
}

func SetupRouter(h *handlers.Handlers, opts Options) *gin.Engine {
	router := gin.New()
	router.HandleMethodNotAllowed = true

	// --- Middleware: recovery, access log, metrics, CORS ---
	router.Use(gin.Recovery())
	router.Use(logging.GinLogger(logging.PackageLogger(opts.Logger, "http")))
	if opts.Metrics != nil {
		router.Use(opts.Metrics.Middleware())
	}
	router.Use(CORSMiddleware(opts.AllowOrigin))

	router.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"success": false, "message": "Method not allowed"})
	})
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Not found"})
	})

	// --- Ops ---
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong!"})
	})
	router.GET("/health", h.Health)
	if opts.Metrics != nil {
		router.GET("/metrics", opts.Metrics.Handler(opts.Logger))
	}

	// --- Uploaded images ---
	if opts.UploadPrefix != "" && opts.UploadDir != "" {
		router.Static("/"+opts.UploadPrefix, opts.UploadDir)
	}

	api := router.Group("/api")
	legacy := router.Group("/backend/api")

	resources := []resource{
		{
			name:   "products",
			get:    h.GetProducts,
			post:   h.CreateProduct,
			put:    h.UpdateProduct,
			delete: h.DeleteProduct,
		},
		{
			name:   "categories",
			get:    h.GetTaxonomies(models.KindCategory),
			post:   h.CreateTaxonomy(models.KindCategory),
			put:    h.UpdateTaxonomy(models.KindCategory),
			delete: h.DeleteTaxonomy(models.KindCategory),
		},
		{
			name:   "collections",
			get:    h.GetTaxonomies(models.KindCollection),
			post:   h.CreateTaxonomy(models.KindCollection),
			put:    h.UpdateTaxonomy(models.KindCollection),
			delete: h.DeleteTaxonomy(models.KindCollection),
		},
		{
			name:   "reviews",
			get:    h.GetReviews,
			post:   h.CreateReview,
			put:    h.UpdateReview,
			delete: h.DeleteReview,
		},
		{name: "fabrics", get: h.GetFabrics},
		{name: "upload-image", post: h.UploadImage},
		{name: "stats", get: h.GetStats},
	}
	for _, r := range resources {
		r.register(api, legacy)
	}

	return router
}
