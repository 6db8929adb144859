package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/01moynul/handloom-catalog/internal/cache"
	"github.com/01moynul/handloom-catalog/internal/config"
	"github.com/01moynul/handloom-catalog/internal/database"
	"github.com/01moynul/handloom-catalog/internal/handlers"
	"github.com/01moynul/handloom-catalog/internal/logging"
	"github.com/01moynul/handloom-catalog/internal/media"
	"github.com/01moynul/handloom-catalog/internal/metrics"
	"github.com/01moynul/handloom-catalog/internal/routes"
	"github.com/01moynul/handloom-catalog/internal/store"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// 0. --- Load Configuration (.env + environment) ---
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	logger := logging.New(cfg.LogLevel, cfg.LogFormat)
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. --- Main Database Connection ---
	db, err := database.OpenDB(ctx, cfg, logging.PackageLogger(logger, "database"))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	if cfg.AutoMigrate {
		if err := database.Migrate(ctx, db, logging.PackageLogger(logger, "database")); err != nil {
			logger.Fatal().Err(err).Msg("failed to migrate database")
		}
	}

	// 2. --- Metrics ---
	m := metrics.New()

	// 3. --- Optional Redis read cache ---
	var catalogCache *cache.Catalog
	if cfg.RedisAddr != "" {
		client, err := cache.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			logger.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("failed to connect to redis, caching disabled")
		} else {
			defer client.Close()
			catalogCache = cache.New(client, cfg.CacheTTL, logger, m.CacheRequests)
			logger.Info().Str("addr", cfg.RedisAddr).Msg("redis cache enabled")
		}
	}

	// --- Application Setup ---
	uploads := media.New(cfg.UploadDir, cfg.UploadPublicPrefix, cfg.UploadMaxBytes, logger, m.FileCleanupFailures)
	st := store.New(db, logger, store.WithFileCleaner(uploads))
	app := handlers.New(st, uploads, catalogCache, logger, cfg.ExposeErrors)

	// --- Router Setup ---
	router := routes.SetupRouter(app, routes.Options{
		AllowOrigin:  cfg.CORSAllowOrigin,
		UploadDir:    cfg.UploadDir,
		UploadPrefix: cfg.UploadPublicPrefix,
		Metrics:      m,
		Logger:       logger,
	})

	// --- Start Server ---
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("starting handloom catalog API server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
}
