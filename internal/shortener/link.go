package shortener

import (
	"errors"
	"fmt"
	"time"
)

// ShortLink is a single stored mapping from a short code to a path.
//
// Hash is empty until it has been assigned: the sequential strategy inserts
// the row first to obtain its ID and only then writes the code. Once a link
// has been returned to a caller its fields never change.
type ShortLink struct {
	ID      int64
	Hash    string // short code; empty means not yet assigned
	Path    string // original path with the site base URL stripped
	Created time.Time
}

// Store-level sentinels. Implementations of LinkStore return these so the
// engine can react without knowing the backend.
var (
	// ErrNotFound is returned when no link matches a lookup.
	ErrNotFound = errors.New("short link not found")

	// ErrAmbiguous is returned when a code lookup matches more than one row.
	// Uniqueness is enforced at write time, so this indicates a broken
	// constraint rather than a normal condition.
	ErrAmbiguous = errors.New("short link code matches multiple rows")

	// ErrHashExists is returned when an insert or hash assignment collides
	// with the unique constraint on the hash column.
	ErrHashExists = errors.New("short link code already taken")
)

// NotFoundError is returned by Resolve when a code matches no stored link.
type NotFoundError struct {
	Code string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("Shortlink could not be resolved: %s", e.Code)
}

// AmbiguousError is returned by Resolve when a code matches more than one
// stored link. It should never happen with an intact unique index; the read
// path defends against it rather than silently picking a row.
type AmbiguousError struct {
	Code string
}

func (e *AmbiguousError) Error() string {
	return fmt.Sprintf("Shortlink could not be resolved: %s (multiple matches)", e.Code)
}

// LengthExceededError is returned when collision disambiguation would need a
// code longer than the configured maximum. This signals pathological
// collision density and is never retried.
type LengthExceededError struct {
	Path      string
	MaxLength int
}

func (e *LengthExceededError) Error() string {
	return fmt.Sprintf("could not shorten %q: candidate code length exceeds maximum of %d", e.Path, e.MaxLength)
}
