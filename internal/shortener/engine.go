package shortener

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jaevor/go-nanoid"
)

// Strategy selector values accepted by Config.Algorithm besides the digest
// algorithm names in digestConstructors.
const (
	// AlgorithmSequential encodes the store-assigned row ID as base62.
	AlgorithmSequential = "base62"
	// AlgorithmToken generates a random nanoid code per request.
	AlgorithmToken = "token"
)

const (
	// DefaultPreferredHashLength is the initial candidate width for the
	// content-hash strategy: compact, and wide enough that collisions are
	// the rare case.
	DefaultPreferredHashLength = 9
	// DefaultMaxHashLength matches the fixed width of the hash column and
	// bounds the disambiguation search.
	DefaultMaxHashLength = 32
)

// Config fixes the engine behavior at construction. The strategy choice is
// deployment-wide, not per call.
type Config struct {
	// BaseURL is stripped from URLs on shorten and prepended on resolve.
	BaseURL string
	// Salt is mixed into the content digest. It must stay stable for the
	// deployment or freshly computed digests stop matching issued codes;
	// stored codes remain resolvable regardless.
	Salt string
	// Algorithm is a digest algorithm name for the content-hash strategy,
	// or one of the selector constants above. Empty means sha256.
	Algorithm string
	// PreferredHashLength is the initial candidate width. Zero means
	// DefaultPreferredHashLength.
	PreferredHashLength int
	// MaxHashLength bounds disambiguation. Zero means DefaultMaxHashLength.
	MaxHashLength int
}

// Engine maps long URLs to short ones and back. It is stateless per call
// and safe for concurrent use; all coordination lives in the LinkStore.
type Engine struct {
	store    LinkStore
	strategy Strategy
	baseURL  string
}

// NewEngine builds an engine with the strategy selected by cfg.Algorithm.
func NewEngine(cfg Config, store LinkStore) (*Engine, error) {
	algorithm := cfg.Algorithm
	if algorithm == "" {
		algorithm = "sha256"
	}

	preferred := cfg.PreferredHashLength
	if preferred == 0 {
		preferred = DefaultPreferredHashLength
	}

	maxLength := cfg.MaxHashLength
	if maxLength == 0 {
		maxLength = DefaultMaxHashLength
	}

	if preferred > maxLength {
		return nil, fmt.Errorf("preferred hash length %d exceeds maximum %d", preferred, maxLength)
	}

	var strategy Strategy

	switch algorithm {
	case AlgorithmSequential:
		strategy = NewSequentialStrategy(store)
	case AlgorithmToken:
		generator, err := nanoid.Standard(preferred)
		if err != nil {
			return nil, fmt.Errorf("building code generator: %w", err)
		}

		strategy = NewTokenStrategy(store, generator)
	default:
		digest, err := NewDigestFunc(cfg.Salt, algorithm)
		if err != nil {
			return nil, err
		}

		strategy = NewHashStrategy(store, digest, preferred, maxLength)
	}

	return &Engine{
		store:    store,
		strategy: strategy,
		baseURL:  strings.TrimSuffix(cfg.BaseURL, "/"),
	}, nil
}

// Shorten maps fullURL to a short URL of the form baseURL/short/{code},
// creating a stored link if needed.
func (e *Engine) Shorten(ctx context.Context, fullURL string) (string, error) {
	path := strings.TrimPrefix(fullURL, e.baseURL)

	code, err := e.strategy.Shorten(ctx, path)
	if err != nil {
		return "", err
	}

	return e.baseURL + "/short/" + code, nil
}

// Resolve maps a short code back to the full original URL. Exactly one
// stored link must match.
func (e *Engine) Resolve(ctx context.Context, code string) (string, error) {
	link, err := e.store.FindByCode(ctx, code)

	switch {
	case errors.Is(err, ErrNotFound):
		return "", &NotFoundError{Code: code}
	case errors.Is(err, ErrAmbiguous):
		return "", &AmbiguousError{Code: code}
	case err != nil:
		return "", fmt.Errorf("resolving %q: %w", code, err)
	}

	return e.baseURL + link.Path, nil
}

// BaseURL returns the configured site base URL.
func (e *Engine) BaseURL() string {
	return e.baseURL
}
