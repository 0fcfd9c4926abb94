package handlers

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// Pinger checks connectivity of a backing service.
type Pinger interface {
	Ping(ctx context.Context) error
}

// RedisPinger adapts redis.Client to Pinger.
type RedisPinger struct {
	client *redis.Client
}

// NewRedisPinger creates a Redis health checker.
func NewRedisPinger(client *redis.Client) *RedisPinger {
	return &RedisPinger{client: client}
}

func (r *RedisPinger) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// PostgresPinger adapts pgxpool.Pool to Pinger.
type PostgresPinger struct {
	pool *pgxpool.Pool
}

// NewPostgresPinger creates a PostgreSQL health checker.
func NewPostgresPinger(pool *pgxpool.Pool) *PostgresPinger {
	return &PostgresPinger{pool: pool}
}

func (p *PostgresPinger) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

// HealthHandler handles health check operations.
type HealthHandler struct {
	redis    Pinger
	postgres Pinger
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(redis, postgres Pinger) *HealthHandler {
	return &HealthHandler{redis: redis, postgres: postgres}
}

// HealthResponse is the response for the health check endpoint.
type HealthResponse struct {
	Body struct {
		Status   string `json:"status"`
		Redis    string `json:"redis"`
		Postgres string `json:"postgres"`
	}
}

// Check reports the health of the application and its dependencies.
func (h *HealthHandler) Check(ctx context.Context, _ *struct{}) (*HealthResponse, error) {
	resp := &HealthResponse{}
	resp.Body.Status = "ok"
	resp.Body.Redis = checkDependency(ctx, h.redis, &resp.Body.Status)
	resp.Body.Postgres = checkDependency(ctx, h.postgres, &resp.Body.Status)

	return resp, nil
}

func checkDependency(ctx context.Context, p Pinger, status *string) string {
	if err := p.Ping(ctx); err != nil {
		*status = "degraded"

		return "unhealthy"
	}

	return "healthy"
}
