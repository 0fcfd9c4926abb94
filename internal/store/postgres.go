package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/davrd/hashlink/internal/shortener"
)

// PostgresStore is a PostgreSQL implementation of shortener.LinkStore.
// Uniqueness of codes is enforced by a unique index on the hash column;
// violations surface as shortener.ErrHashExists so the engine can treat a
// lost insert race like an ordinary collision.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a PostgreSQL-backed link store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// EnsureSchema creates the short_links table and its indexes if missing.
// The hash column width matches the disambiguation ceiling.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	schema := `
		CREATE TABLE IF NOT EXISTS short_links (
			id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
			hash VARCHAR(32),
			path TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		);
		CREATE UNIQUE INDEX IF NOT EXISTS short_links_hash_idx ON short_links (hash);
		CREATE INDEX IF NOT EXISTS short_links_path_idx ON short_links (path);
	`

	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("creating short_links schema: %w", err)
	}

	return nil
}

func (p *PostgresStore) FindByCode(ctx context.Context, code string) (*shortener.ShortLink, error) {
	query := `
		SELECT id, hash, path, created_at
		FROM short_links
		WHERE hash = $1
	`

	rows, err := p.pool.Query(ctx, query, code)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	// The unique index makes a second row impossible in theory; the read
	// path still counts matches instead of trusting it.
	var matches []*shortener.ShortLink

	for rows.Next() {
		link, err := scanLink(rows)
		if err != nil {
			return nil, err
		}

		matches = append(matches, link)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	switch len(matches) {
	case 0:
		return nil, shortener.ErrNotFound
	case 1:
		return matches[0], nil
	default:
		return nil, shortener.ErrAmbiguous
	}
}

func (p *PostgresStore) Begin(ctx context.Context) (shortener.LinkTx, error) {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}

	return &postgresTx{tx: tx}, nil
}

type postgresTx struct {
	tx pgx.Tx
}

func (t *postgresTx) Insert(ctx context.Context, link *shortener.ShortLink) error {
	query := `
		INSERT INTO short_links (hash, path, created_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	err := t.tx.QueryRow(ctx, query,
		nullableHash(link.Hash),
		link.Path,
		link.Created,
	).Scan(&link.ID)
	if err != nil {
		return mapUniqueViolation(err)
	}

	return nil
}

func (t *postgresTx) SetHash(ctx context.Context, link *shortener.ShortLink, hash string) error {
	tag, err := t.tx.Exec(ctx, "UPDATE short_links SET hash = $1 WHERE id = $2", hash, link.ID)
	if err != nil {
		return mapUniqueViolation(err)
	}

	if tag.RowsAffected() == 0 {
		return shortener.ErrNotFound
	}

	link.Hash = hash

	return nil
}

func (t *postgresTx) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

func (t *postgresTx) Rollback(ctx context.Context) error {
	err := t.tx.Rollback(ctx)
	if err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return err
	}

	return nil
}

func scanLink(rows pgx.Rows) (*shortener.ShortLink, error) {
	var link shortener.ShortLink

	var hash *string

	if err := rows.Scan(&link.ID, &hash, &link.Path, &link.Created); err != nil {
		return nil, err
	}

	if hash != nil {
		link.Hash = *hash
	}

	return &link, nil
}

func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return shortener.ErrHashExists
	}

	return err
}

func nullableHash(hash string) *string {
	if hash == "" {
		return nil
	}

	return &hash
}

// Compile-time check.
var _ shortener.LinkStore = (*PostgresStore)(nil)
