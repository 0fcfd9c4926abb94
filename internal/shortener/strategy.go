package shortener

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Strategy turns a path into a stored short code. Implementations are
// selected once at engine construction, never per call.
type Strategy interface {
	Shorten(ctx context.Context, path string) (string, error)
}

// CodeGenerator produces a fresh random code. Used by the token strategy.
type CodeGenerator func() string

// hashPadding fills a candidate code when the digest is shorter than the
// requested width. Degenerate, but it must not crash.
const hashPadding = "_"

// HashStrategy derives codes from a salted content digest of the path with
// adaptive-length collision disambiguation: the candidate starts at a
// preferred width and grows one character at a time until it is free or
// already mapped to the same path, bounded by maxLength.
type HashStrategy struct {
	store           LinkStore
	digest          DigestFunc
	preferredLength int
	maxLength       int
}

// NewHashStrategy creates a content-hash shortening strategy.
func NewHashStrategy(store LinkStore, digest DigestFunc, preferredLength, maxLength int) *HashStrategy {
	return &HashStrategy{
		store:           store,
		digest:          digest,
		preferredLength: preferredLength,
		maxLength:       maxLength,
	}
}

func (s *HashStrategy) Shorten(ctx context.Context, path string) (string, error) {
	fullDigest := s.digest(path)

	// Bounded loop instead of recursion; re-checks the same width after
	// losing an insert race, widens on a genuine prefix collision.
	length := s.preferredLength
	for length <= s.maxLength {
		code := candidate(fullDigest, length)

		existing, err := s.store.FindByCode(ctx, code)

		switch {
		case err == nil:
			if existing.Path == path {
				// Idempotent: the path is already stored under this code.
				return code, nil
			}

			// Prefix collision with a different path.
			length++

			continue
		case errors.Is(err, ErrNotFound):
			// Fall through to insert.
		default:
			return "", fmt.Errorf("looking up candidate code %q: %w", code, err)
		}

		err = s.insert(ctx, path, code)
		if err == nil {
			return code, nil
		}

		if errors.Is(err, ErrHashExists) {
			// A concurrent writer won the race for this code. Treat it
			// like a found match and re-examine the same width.
			continue
		}

		return "", err
	}

	return "", &LengthExceededError{Path: path, MaxLength: s.maxLength}
}

func (s *HashStrategy) insert(ctx context.Context, path, code string) error {
	tx, err := s.store.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	link := &ShortLink{Hash: code, Path: path, Created: time.Now()}

	if err := tx.Insert(ctx, link); err != nil {
		_ = tx.Rollback(ctx)

		return err
	}

	if err := tx.Commit(ctx); err != nil {
		_ = tx.Rollback(ctx)

		return fmt.Errorf("committing short link %q: %w", code, err)
	}

	return nil
}

// candidate takes the first length characters of the digest, padding with
// underscores when the digest is too short.
func candidate(digest string, length int) string {
	if len(digest) >= length {
		return digest[:length]
	}

	return digest + strings.Repeat(hashPadding, length-len(digest))
}

// SequentialStrategy always allocates a new row and encodes its
// store-assigned ID as base62. Construction is two-phase: the row is
// inserted without a code, then the code is written once the ID is known.
// IDs are unique by construction, so no disambiguation runs.
type SequentialStrategy struct {
	store LinkStore
}

// NewSequentialStrategy creates a sequential-ID shortening strategy.
func NewSequentialStrategy(store LinkStore) *SequentialStrategy {
	return &SequentialStrategy{store: store}
}

func (s *SequentialStrategy) Shorten(ctx context.Context, path string) (string, error) {
	tx, err := s.store.Begin(ctx)
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}

	link := &ShortLink{Path: path, Created: time.Now()}

	if err := tx.Insert(ctx, link); err != nil {
		_ = tx.Rollback(ctx)

		return "", err
	}

	code := EncodeID(link.ID)

	if err := tx.SetHash(ctx, link, code); err != nil {
		_ = tx.Rollback(ctx)

		return "", err
	}

	if err := tx.Commit(ctx); err != nil {
		_ = tx.Rollback(ctx)

		return "", fmt.Errorf("committing short link %q: %w", code, err)
	}

	return code, nil
}

// TokenStrategy stores every path under a freshly generated random code.
type TokenStrategy struct {
	store    LinkStore
	generate CodeGenerator
}

// NewTokenStrategy creates a random-token shortening strategy.
func NewTokenStrategy(store LinkStore, generator CodeGenerator) *TokenStrategy {
	return &TokenStrategy{store: store, generate: generator}
}

func (s *TokenStrategy) Shorten(ctx context.Context, path string) (string, error) {
	tx, err := s.store.Begin(ctx)
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}

	link := &ShortLink{Hash: s.generate(), Path: path, Created: time.Now()}

	if err := tx.Insert(ctx, link); err != nil {
		_ = tx.Rollback(ctx)

		return "", err
	}

	if err := tx.Commit(ctx); err != nil {
		_ = tx.Rollback(ctx)

		return "", fmt.Errorf("committing short link %q: %w", link.Hash, err)
	}

	return link.Hash, nil
}
