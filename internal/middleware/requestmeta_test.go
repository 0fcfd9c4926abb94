package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davrd/hashlink/internal/handlers"
	"github.com/davrd/hashlink/internal/middleware"
)

type metaOutput struct {
	Body string `json:"body"`
}

func setupMetaAPI(t *testing.T) (*chi.Mux, chan handlers.RequestMeta) {
	t.Helper()

	router := chi.NewMux()
	api := humachi.New(router, huma.DefaultConfig("Test", "1.0.0"))
	api.UseMiddleware(middleware.RequestMeta(api))

	metaChan := make(chan handlers.RequestMeta, 1)

	huma.Get(api, "/meta", func(ctx context.Context, _ *struct{}) (*metaOutput, error) {
		metaChan <- handlers.RequestMetaFromContext(ctx)

		return &metaOutput{Body: "ok"}, nil
	})

	return router, metaChan
}

func serveMeta(t *testing.T, router *chi.Mux, metaChan chan handlers.RequestMeta, req *http.Request) handlers.RequestMeta {
	t.Helper()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	return <-metaChan
}

func TestRequestMeta(t *testing.T) {
	t.Run("captures user-agent and referrer", func(t *testing.T) {
		router, metaChan := setupMetaAPI(t)

		req := httptest.NewRequest(http.MethodGet, "/meta", nil)
		req.Header.Set("User-Agent", "TestAgent/1.0")
		req.Header.Set("Referer", "https://example.com")

		meta := serveMeta(t, router, metaChan, req)
		assert.Equal(t, "TestAgent/1.0", meta.UserAgent)
		assert.Equal(t, "https://example.com", meta.Referrer)
	})

	t.Run("prefers the first X-Forwarded-For entry", func(t *testing.T) {
		router, metaChan := setupMetaAPI(t)

		req := httptest.NewRequest(http.MethodGet, "/meta", nil)
		req.Header.Set("X-Forwarded-For", "192.168.1.1, 10.0.0.1, 172.16.0.1")

		meta := serveMeta(t, router, metaChan, req)
		assert.Equal(t, "192.168.1.1", meta.ClientIP)
	})

	t.Run("uses X-Real-IP when X-Forwarded-For is absent", func(t *testing.T) {
		router, metaChan := setupMetaAPI(t)

		req := httptest.NewRequest(http.MethodGet, "/meta", nil)
		req.Header.Set("X-Real-IP", "10.0.0.1")

		meta := serveMeta(t, router, metaChan, req)
		assert.Equal(t, "10.0.0.1", meta.ClientIP)
	})

	t.Run("falls back to the host when no proxy headers are set", func(t *testing.T) {
		router, metaChan := setupMetaAPI(t)

		req := httptest.NewRequest(http.MethodGet, "/meta", nil)

		meta := serveMeta(t, router, metaChan, req)
		assert.NotEmpty(t, meta.ClientIP)
	})
}
