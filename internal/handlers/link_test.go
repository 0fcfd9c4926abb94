package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/davrd/hashlink/internal/analytics"
	"github.com/davrd/hashlink/internal/handlers"
	"github.com/davrd/hashlink/internal/messaging"
	"github.com/davrd/hashlink/internal/shortener"
	"github.com/davrd/hashlink/internal/store"
)

const testBaseURL = "http://localhost:8888"

// noopPublish returns a publish function that always succeeds.
func noopPublish[T any]() messaging.Publish[T] {
	return func(_ *T) error { return nil }
}

// errorPublish returns a publish function that always fails.
func errorPublish[T any](err error) messaging.Publish[T] {
	return func(_ *T) error { return err }
}

func newTestHandler(t *testing.T, algorithm string) (*handlers.LinkHandler, *store.MemoryStore) {
	t.Helper()

	memStore := store.NewMemoryStore()

	engine, err := shortener.NewEngine(shortener.Config{
		BaseURL:   testBaseURL,
		Salt:      "test-salt",
		Algorithm: algorithm,
	}, memStore)
	require.NoError(t, err)

	handler := handlers.NewLinkHandler(
		engine,
		noopPublish[analytics.LinkCreatedEvent](),
		noopPublish[analytics.LinkResolvedEvent](),
		zap.NewNop(),
	)

	return handler, memStore
}

func TestShorten(t *testing.T) {
	t.Run("creates a short link", func(t *testing.T) {
		handler, _ := newTestHandler(t, "sha256")

		req := &handlers.ShortenRequest{}
		req.Body.URL = testBaseURL + "/very/long/path"

		resp, err := handler.Shorten(context.Background(), req)

		require.NoError(t, err)
		assert.NotEmpty(t, resp.Body.Code)
		assert.Equal(t, testBaseURL+"/short/"+resp.Body.Code, resp.Body.ShortURL)
		assert.Equal(t, resp.Body.ShortURL, resp.Headers.Location)
	})

	t.Run("repeated shorten returns the same code", func(t *testing.T) {
		handler, memStore := newTestHandler(t, "sha256")

		req := &handlers.ShortenRequest{}
		req.Body.URL = testBaseURL + "/very/long/path"

		resp1, err1 := handler.Shorten(context.Background(), req)
		resp2, err2 := handler.Shorten(context.Background(), req)

		require.NoError(t, err1)
		require.NoError(t, err2)
		assert.Equal(t, resp1.Body.Code, resp2.Body.Code)
		assert.Equal(t, 1, memStore.Len())
	})

	t.Run("sequential strategy allocates a new code per call", func(t *testing.T) {
		handler, _ := newTestHandler(t, shortener.AlgorithmSequential)

		req := &handlers.ShortenRequest{}
		req.Body.URL = testBaseURL + "/very/long/path"

		resp1, err1 := handler.Shorten(context.Background(), req)
		resp2, err2 := handler.Shorten(context.Background(), req)

		require.NoError(t, err1)
		require.NoError(t, err2)
		assert.NotEqual(t, resp1.Body.Code, resp2.Body.Code)
	})

	t.Run("publish failure does not fail the request", func(t *testing.T) {
		memStore := store.NewMemoryStore()

		engine, err := shortener.NewEngine(shortener.Config{
			BaseURL: testBaseURL,
			Salt:    "test-salt",
		}, memStore)
		require.NoError(t, err)

		handler := handlers.NewLinkHandler(
			engine,
			errorPublish[analytics.LinkCreatedEvent](errors.New("broker down")),
			errorPublish[analytics.LinkResolvedEvent](errors.New("broker down")),
			zap.NewNop(),
		)

		req := &handlers.ShortenRequest{}
		req.Body.URL = testBaseURL + "/very/long/path"

		resp, err := handler.Shorten(context.Background(), req)

		require.NoError(t, err)
		assert.NotEmpty(t, resp.Body.Code)
	})
}

func TestRedirect(t *testing.T) {
	t.Run("redirects to the original url", func(t *testing.T) {
		handler, _ := newTestHandler(t, "sha256")

		req := &handlers.ShortenRequest{}
		req.Body.URL = testBaseURL + "/very/long/path"

		created, err := handler.Shorten(context.Background(), req)
		require.NoError(t, err)

		resp, err := handler.Redirect(context.Background(), &handlers.RedirectRequest{
			Code: created.Body.Code,
		})

		require.NoError(t, err)
		assert.Equal(t, http.StatusMovedPermanently, resp.Status)
		assert.Equal(t, testBaseURL+"/very/long/path", resp.Headers.Location)
	})

	t.Run("returns 404 for unknown codes", func(t *testing.T) {
		handler, _ := newTestHandler(t, "sha256")

		resp, err := handler.Redirect(context.Background(), &handlers.RedirectRequest{
			Code: "abcd12?",
		})

		assert.Nil(t, resp)
		require.Error(t, err)
		assert.True(t, strings.Contains(err.Error(), "Shortlink could not be resolved: abcd12?"))
	})
}
