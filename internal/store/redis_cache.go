package store

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/davrd/hashlink/internal/shortener"
)

// RedisCacheStore wraps a LinkStore with Redis caching on the resolve path.
// Writes go to the underlying store first; the cache is only populated for
// links whose transaction committed, so a rolled-back row never becomes
// visible through the cache.
type RedisCacheStore struct {
	inner  shortener.LinkStore
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisCacheStore creates a Redis-cached link store decorator.
func NewRedisCacheStore(inner shortener.LinkStore, client *redis.Client, ttl time.Duration) *RedisCacheStore {
	return &RedisCacheStore{
		inner:  inner,
		client: client,
		prefix: "link:",
		ttl:    ttl,
	}
}

func (r *RedisCacheStore) FindByCode(ctx context.Context, code string) (*shortener.ShortLink, error) {
	if link, err := r.getFromCache(ctx, code); err == nil {
		return link, nil
	}

	link, err := r.inner.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	r.cacheLink(ctx, link)

	return link, nil
}

func (r *RedisCacheStore) Begin(ctx context.Context) (shortener.LinkTx, error) {
	tx, err := r.inner.Begin(ctx)
	if err != nil {
		return nil, err
	}

	return &cachingTx{inner: tx, cache: r}, nil
}

func (r *RedisCacheStore) getFromCache(ctx context.Context, code string) (*shortener.ShortLink, error) {
	result, err := r.client.HGetAll(ctx, r.prefix+code).Result()
	if err != nil {
		return nil, err
	}

	if len(result) == 0 {
		return nil, shortener.ErrNotFound
	}

	id, _ := strconv.ParseInt(result["id"], 10, 64)

	var created time.Time

	if ts, ok := result["created_at"]; ok {
		if nanos, err := strconv.ParseInt(ts, 10, 64); err == nil {
			created = time.Unix(0, nanos)
		}
	}

	return &shortener.ShortLink{
		ID:      id,
		Hash:    result["hash"],
		Path:    result["path"],
		Created: created,
	}, nil
}

func (r *RedisCacheStore) cacheLink(ctx context.Context, link *shortener.ShortLink) {
	if link.Hash == "" {
		return
	}

	key := r.prefix + link.Hash

	pipe := r.client.Pipeline()
	pipe.HSet(ctx, key, map[string]interface{}{
		"id":         link.ID,
		"hash":       link.Hash,
		"path":       link.Path,
		"created_at": link.Created.UnixNano(),
	})

	if r.ttl > 0 {
		pipe.Expire(ctx, key, r.ttl)
	}

	// Cache population is best effort; resolve falls back to the store.
	_, _ = pipe.Exec(ctx)
}

// cachingTx records links written in the transaction and pushes them into
// the cache once the commit succeeds.
type cachingTx struct {
	inner   shortener.LinkTx
	cache   *RedisCacheStore
	written []*shortener.ShortLink
}

func (t *cachingTx) Insert(ctx context.Context, link *shortener.ShortLink) error {
	if err := t.inner.Insert(ctx, link); err != nil {
		return err
	}

	t.written = append(t.written, link)

	return nil
}

func (t *cachingTx) SetHash(ctx context.Context, link *shortener.ShortLink, hash string) error {
	return t.inner.SetHash(ctx, link, hash)
}

func (t *cachingTx) Commit(ctx context.Context) error {
	if err := t.inner.Commit(ctx); err != nil {
		return err
	}

	for _, link := range t.written {
		t.cache.cacheLink(ctx, link)
	}

	return nil
}

func (t *cachingTx) Rollback(ctx context.Context) error {
	t.written = nil

	return t.inner.Rollback(ctx)
}

// Compile-time check.
var _ shortener.LinkStore = (*RedisCacheStore)(nil)
