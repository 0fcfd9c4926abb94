package handlers

import (
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/davrd/hashlink/internal/ratelimit"
)

// RegisterRoutes registers all routes with per-endpoint rate limit
// configuration.
func RegisterRoutes(api huma.API, links *LinkHandler, health *HealthHandler) {
	// Write path gets stricter limits than the redirect path.
	huma.Register(api, huma.Operation{
		Method:      http.MethodPost,
		Path:        "/shorten",
		Summary:     "Create short link",
		Description: "Maps a long URL to a short, stable, unique code.",
		Tags:        []string{"Links"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{
				Limits: []ratelimit.LimitConfig{
					{Window: time.Minute, Max: 30},
					{Window: time.Hour, Max: 500},
				},
			},
		},
	}, links.Shorten)

	huma.Register(api, huma.Operation{
		Method:      http.MethodGet,
		Path:        "/short/{code}",
		Summary:     "Follow short link",
		Description: "Redirects to the original URL stored under the code.",
		Tags:        []string{"Links"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{
				Limits: []ratelimit.LimitConfig{
					{Window: time.Minute, Max: 1000},
				},
			},
		},
	}, links.Redirect)

	huma.Register(api, huma.Operation{
		Method:  http.MethodGet,
		Path:    "/health",
		Summary: "Health check",
		Tags:    []string{"Health"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{Disabled: true},
		},
	}, health.Check)
}
