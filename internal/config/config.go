package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config holds every setting the API reads from the environment.
type Config struct {
	Port string

	// --- Database ---
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	AutoMigrate     bool

	// --- Uploads ---
	UploadDir          string
	UploadPublicPrefix string
	UploadMaxBytes     int64

	// --- Cache (Redis is optional) ---
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	// --- HTTP / Logging ---
	LogLevel        string
	LogFormat       string
	GinMode         string
	CORSAllowOrigin string
	ExposeErrors    bool
}

// Load reads the optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("could not find or load .env file, relying on system environment variables")
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup func so tests don't have to touch the real environment.
func FromEnv(getenv func(string) string) (*Config, error) {
	p := parser{getenv: getenv}

	cfg := &Config{
		Port: p.str("PORT", "8080"),

		DSN:             p.str("DB_DSN_PRIMARY", "root:root@tcp(127.0.0.1:3306)/handloom_catalog?parseTime=true&charset=utf8mb4"),
		MaxOpenConns:    p.int("DB_MAX_OPEN_CONNS", 25),
		MaxIdleConns:    p.int("DB_MAX_IDLE_CONNS", 25),
		ConnMaxLifetime: p.duration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
		AutoMigrate:     p.bool("DB_AUTO_MIGRATE", false),

		UploadDir:          p.str("UPLOAD_DIR", "./uploads/products"),
		UploadPublicPrefix: strings.Trim(p.str("UPLOAD_PUBLIC_PREFIX", "backend/uploads/products"), "/"),
		UploadMaxBytes:     int64(p.int("UPLOAD_MAX_BYTES", 5*1024*1024)),

		RedisAddr:     p.str("REDIS_ADDR", ""),
		RedisPassword: p.str("REDIS_PASSWORD", ""),
		RedisDB:       p.int("REDIS_DB", 0),
		CacheTTL:      p.duration("CACHE_TTL", 5*time.Minute),

		LogLevel:        p.str("LOG_LEVEL", "info"),
		LogFormat:       p.str("LOG_FORMAT", "json"),
		GinMode:         p.str("GIN_MODE", "release"),
		CORSAllowOrigin: p.str("CORS_ALLOW_ORIGIN", "*"),
		ExposeErrors:    p.bool("EXPOSE_ERRORS", false),
	}

	if p.err != nil {
		return nil, p.err
	}
	if cfg.UploadMaxBytes <= 0 {
		return nil, fmt.Errorf("UPLOAD_MAX_BYTES must be positive, got %d", cfg.UploadMaxBytes)
	}
	return cfg, nil
}

// parser keeps the first conversion error so Load can report it once.
type parser struct {
	getenv func(string) string
	err    error
}

func (p *parser) str(key, def string) string {
	if v := strings.TrimSpace(p.getenv(key)); v != "" {
		return v
	}
	return def
}

func (p *parser) int(key string, def int) int {
	v := strings.TrimSpace(p.getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		p.fail(key, v, err)
		return def
	}
	return n
}

func (p *parser) bool(key string, def bool) bool {
	v := strings.TrimSpace(p.getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		p.fail(key, v, err)
		return def
	}
	return b
}

func (p *parser) duration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(p.getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		p.fail(key, v, err)
		return def
	}
	return d
}

func (p *parser) fail(key, value string, err error) {
	if p.err == nil {
		p.err = fmt.Errorf("invalid value %q for %s: %w", value, key, err)
	}
}
