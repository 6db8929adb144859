// Package cache is an optional Redis read cache for product listings and
// product detail. A nil *Catalog is valid and caches nothing.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/01moynul/handloom-catalog/internal/logging"
)

const (
	generationKey = "catalog:products:gen"
	keyPrefix     = "catalog:products"
)

// Connect opens a client and pings it.
func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return client, nil
}

// Catalog caches product reads. Entries are namespaced by a generation
// counter; Invalidate bumps it so every earlier entry becomes unreachable
// and expires on its TTL.
type Catalog struct {
	client   *redis.Client
	ttl      time.Duration
	log      zerolog.Logger
	requests *prometheus.CounterVec
}

// New returns nil when client is nil. requests may be nil.
func New(client *redis.Client, ttl time.Duration, logger zerolog.Logger, requests *prometheus.CounterVec) *Catalog {
	if client == nil {
		return nil
	}
	return &Catalog{
		client:   client,
		ttl:      ttl,
		log:      logging.PackageLogger(logger, "cache"),
		requests: requests,
	}
}

// Enabled reports whether a Redis client is attached.
func (c *Catalog) Enabled() bool {
	return c != nil
}

// Ping checks Redis is reachable. A disabled cache is always healthy.
func (c *Catalog) Ping(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.client.Ping(ctx).Err()
}

func (c *Catalog) observe(result string) {
	if c.requests != nil {
		c.requests.WithLabelValues(result).Inc()
	}
}

// Lookup builds the key for parts under the current generation and decodes
// any cached value into dest. The returned key is passed to Store on a miss
// so the value lands in the generation that was read. An empty key means
// the cache is unavailable.
func (c *Catalog) Lookup(ctx context.Context, dest interface{}, parts ...string) (string, bool) {
	if c == nil {
		return "", false
	}
	gen, err := c.client.Get(ctx, generationKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		c.log.Debug().Err(err).Msg("read cache generation")
		c.observe("error")
		return "", false
	}
	key := fmt.Sprintf("%s:g%d:%s", keyPrefix, gen, joinParts(parts))

	data, err := c.client.Get(ctx, key).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		c.observe("miss")
		return key, false
	case err != nil:
		c.log.Debug().Err(err).Str("key", key).Msg("cache get")
		c.observe("error")
		return "", false
	}
	if err := json.Unmarshal(data, dest); err != nil {
		c.log.Debug().Err(err).Str("key", key).Msg("cache decode")
		c.observe("error")
		return key, false
	}
	c.observe("hit")
	return key, true
}

// joinParts escapes each part so free-text filters cannot forge a separator.
func joinParts(parts []string) string {
	escaped := make([]string, len(parts))
	for i, p := range parts {
		escaped[i] = url.QueryEscape(p)
	}
	return strings.Join(escaped, ":")
}

// Store writes v under key. Failures are logged and dropped.
func (c *Catalog) Store(ctx context.Context, key string, v interface{}) {
	if c == nil || key == "" {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		c.log.Debug().Err(err).Str("key", key).Msg("cache encode")
		return
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.log.Debug().Err(err).Str("key", key).Msg("cache set")
	}
}

// Invalidate drops every cached product read.
func (c *Catalog) Invalidate(ctx context.Context) {
	if c == nil {
		return
	}
	if err := c.client.Incr(ctx, generationKey).Err(); err != nil {
		c.log.Debug().Err(err).Msg("cache invalidate")
	}
}
