package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type entry struct {
	Name string `json:"name"`
}

func newCatalog(t *testing.T) (*Catalog, *miniredis.Miniredis, *prometheus.CounterVec) {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := Connect(context.Background(), mr.Addr(), "", 0)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	requests := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "cache_requests"}, []string{"result"})
	return New(client, time.Minute, zerolog.Nop(), requests), mr, requests
}

func TestNilCatalogIsDisabled(t *testing.T) {
	var c *Catalog
	ctx := context.Background()

	assert.Nil(t, New(nil, time.Minute, zerolog.Nop(), nil))
	assert.False(t, c.Enabled())
	assert.NoError(t, c.Ping(ctx))

	key, hit := c.Lookup(ctx, &entry{}, "list")
	assert.Empty(t, key)
	assert.False(t, hit)
	c.Store(ctx, "k", entry{})
	c.Invalidate(ctx)
}

func TestLookupStoreInvalidate(t *testing.T) {
	ctx := context.Background()
	c, mr, requests := newCatalog(t)
	assert.True(t, c.Enabled())

	var got entry
	key, hit := c.Lookup(ctx, &got, "product", "7")
	require.NotEmpty(t, key)
	assert.False(t, hit)
	assert.Equal(t, "catalog:products:g0:product:7", key)

	c.Store(ctx, key, entry{Name: "Ikat"})
	assert.Equal(t, time.Minute, mr.TTL(key))

	_, hit = c.Lookup(ctx, &got, "product", "7")
	assert.True(t, hit)
	assert.Equal(t, "Ikat", got.Name)

	c.Invalidate(ctx)
	key, hit = c.Lookup(ctx, &got, "product", "7")
	assert.False(t, hit)
	assert.Equal(t, "catalog:products:g1:product:7", key)

	assert.Equal(t, 1.0, testutil.ToFloat64(requests.WithLabelValues("hit")))
	assert.Equal(t, 2.0, testutil.ToFloat64(requests.WithLabelValues("miss")))
}

func TestLookupKeepsFiltersApart(t *testing.T) {
	ctx := context.Background()
	c, _, _ := newCatalog(t)

	first, hit := c.Lookup(ctx, &entry{}, "list", "0", "a:0:b", "0", "", "false")
	require.False(t, hit)
	c.Store(ctx, first, entry{Name: "first"})

	var got entry
	second, hit := c.Lookup(ctx, &got, "list", "0", "a", "0", "b:0:", "false")
	assert.NotEqual(t, first, second)
	assert.False(t, hit)
	assert.Empty(t, got.Name)

	key, _ := c.Lookup(ctx, &got, "list", "0", "Silk & Cotton", "0", "", "false")
	assert.Equal(t, "catalog:products:g0:list:0:Silk+%26+Cotton:0::false", key)
}

func TestLookupSurvivesRedisOutage(t *testing.T) {
	ctx := context.Background()
	c, mr, requests := newCatalog(t)
	mr.Close()

	key, hit := c.Lookup(ctx, &entry{}, "list")
	assert.Empty(t, key)
	assert.False(t, hit)
	assert.Error(t, c.Ping(ctx))
	assert.Equal(t, 1.0, testutil.ToFloat64(requests.WithLabelValues("error")))
}

func TestConnectFailure(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := Connect(context.Background(), addr, "", 0)
	assert.Error(t, err)
}

