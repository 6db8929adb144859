package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/01moynul/handloom-catalog/internal/cache"
	"github.com/01moynul/handloom-catalog/internal/handlers"
	"github.com/01moynul/handloom-catalog/internal/media"
	"github.com/01moynul/handloom-catalog/internal/metrics"
	"github.com/01moynul/handloom-catalog/internal/routes"
	"github.com/01moynul/handloom-catalog/internal/store"
	"github.com/01moynul/handloom-catalog/internal/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testEnv struct {
	router  *gin.Engine
	store   *store.Store
	uploads *media.Storage
	redis   *miniredis.Miniredis
}

type envOption func(*envConfig)

type envConfig struct {
	redis        bool
	exposeErrors bool
}

func withRedis() envOption { return func(c *envConfig) { c.redis = true } }
func withExposedErrors() envOption { return func(c *envConfig) { c.exposeErrors = true } }

func newEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()
	var cfg envConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	m := metrics.New()
	uploads := media.New(filepath.Join(t.TempDir(), "products"), "backend/uploads/products", 5<<20, zerolog.Nop(), m.FileCleanupFailures)
	st := testutil.NewStore(t, store.WithFileCleaner(uploads))

	env := &testEnv{store: st, uploads: uploads}
	var c *cache.Catalog
	if cfg.redis {
		env.redis = miniredis.RunT(t)
		ctx, cancel := context.WithCancel(context.Background())
		t.Cleanup(cancel)
		client, err := cache.Connect(ctx, env.redis.Addr(), "", 0)
		require.NoError(t, err)
		t.Cleanup(func() { client.Close() })
		c = cache.New(client, 0, zerolog.Nop(), m.CacheRequests)
	}

	h := handlers.New(st, uploads, c, zerolog.Nop(), cfg.exposeErrors)
	env.router = routes.SetupRouter(h, routes.Options{
		AllowOrigin:  "*",
		UploadDir:    uploads.Dir,
		UploadPrefix: uploads.PublicPrefix,
		Metrics:      m,
		Logger:       zerolog.Nop(),
	})
	return env
}

// do sends a JSON request and decodes the JSON response into a map.
func (e *testEnv) do(t *testing.T, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	return e.doRaw(t, method, path, buf.String())
}

// doRaw sends body verbatim; a non-empty body is labelled as JSON.
func (e *testEnv) doRaw(t *testing.T, method, path, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	req, err := http.NewRequest(method, path, strings.NewReader(body))
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	var resp map[string]interface{}
	if w.Body.Len() > 0 && json.Valid(w.Body.Bytes()) {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return w, resp
}

// seedCategory creates a category through the API and returns its id.
func (e *testEnv) seedCategory(t *testing.T, name string) int64 {
	t.Helper()
	w, resp := e.do(t, http.MethodPost, "/api/categories", map[string]interface{}{"name": name})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return int64(resp["data"].(map[string]interface{})["id"].(float64))
}

// seedProduct creates a product through the API and returns its JSON object.
func (e *testEnv) seedProduct(t *testing.T, body map[string]interface{}) map[string]interface{} {
	t.Helper()
	w, resp := e.do(t, http.MethodPost, "/api/products", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return resp["data"].(map[string]interface{})
}

func idOf(obj map[string]interface{}) int64 {
	return int64(obj["id"].(float64))
}
