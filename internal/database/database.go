package database

import (
	"context"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"

	"github.com/01moynul/handloom-catalog/internal/config"
)

// OpenDB initializes and returns the primary Read/Write connection pool.
func OpenDB(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*sqlx.DB, error) {
	// 1. Parse the DSN so parseTime is always on, whatever the operator passed.
	dsnCfg, err := mysql.ParseDSN(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse DB_DSN_PRIMARY: %w", err)
	}
	dsnCfg.ParseTime = true

	return OpenDBWithDSN(ctx, dsnCfg.FormatDSN(), cfg, logger)
}

// OpenDBWithDSN creates and configures a MySQL pool for any DSN string.
func OpenDBWithDSN(ctx context.Context, dsn string, cfg *config.Config, logger zerolog.Logger) (*sqlx.DB, error) {
	// 2. Open a new connection pool.
	db, err := sqlx.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	// 3. Configure the connection pool settings.
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	// 4. Ping the database to verify the connection.
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		logger.Error().Err(err).Msg("error connecting to database")
		return nil, err
	}

	logger.Info().
		Int("max_open_conns", cfg.MaxOpenConns).
		Dur("conn_max_lifetime", cfg.ConnMaxLifetime).
		Msg("database connection pool established")
	return db, nil
}
