package middleware

import (
	"net"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/davrd/hashlink/internal/handlers"
)

// RequestMeta attaches client IP, user-agent, and referrer to the request
// context so handlers can stamp analytics events with them.
func RequestMeta(_ huma.API) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		meta := handlers.RequestMeta{
			ClientIP:  clientIP(ctx),
			UserAgent: ctx.Header("User-Agent"),
			Referrer:  ctx.Header("Referer"),
		}

		next(huma.WithContext(ctx, handlers.ContextWithRequestMeta(ctx.Context(), meta)))
	}
}

func clientIP(ctx huma.Context) string {
	// Behind a proxy the leftmost X-Forwarded-For entry is the client.
	if xff := ctx.Header("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")

		return strings.TrimSpace(first)
	}

	if xri := ctx.Header("X-Real-IP"); xri != "" {
		return xri
	}

	host := ctx.Host()
	if h, _, err := net.SplitHostPort(host); err == nil {
		return h
	}

	return host
}
