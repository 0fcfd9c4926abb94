package ratelimit

import (
	"time"

	"github.com/danielgtaylor/huma/v2"
)

// MetadataKey is the key used to store rate limit config in huma operation
// metadata.
const MetadataKey = "rateLimit"

// LimitConfig is a single windowed limit.
type LimitConfig struct {
	Window time.Duration
	Max    int64
}

// EndpointConfig defines per-endpoint rate limit configuration, attached to
// huma operations via the Metadata field. When Limits is empty the default
// limiter applies; when Disabled is set the endpoint is not limited at all.
type EndpointConfig struct {
	Limits   []LimitConfig
	Disabled bool
}

// GetEndpointConfig extracts the EndpointConfig from operation metadata, if
// present.
func GetEndpointConfig(ctx huma.Context) *EndpointConfig {
	op := ctx.Operation()
	if op == nil || op.Metadata == nil {
		return nil
	}

	cfg, ok := op.Metadata[MetadataKey].(EndpointConfig)
	if !ok {
		return nil
	}

	return &cfg
}
