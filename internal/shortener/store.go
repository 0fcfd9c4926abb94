package shortener

import "context"

// LinkStore is the persistence contract consumed by the engine. All
// coordination between concurrent writers happens behind this interface:
// implementations must enforce a unique constraint on the hash column and
// report violations as ErrHashExists.
type LinkStore interface {
	// FindByCode looks up a link by exact code match. It returns
	// ErrNotFound for zero matches and ErrAmbiguous for more than one.
	FindByCode(ctx context.Context, code string) (*ShortLink, error)

	// Begin opens a transaction scoping a create-and-assign sequence. A
	// partially written row must never be observable by a concurrent
	// FindByCode as committed.
	Begin(ctx context.Context) (LinkTx, error)
}

// LinkTx is a transaction over the link table. Either Commit or Rollback
// must be called exactly once.
type LinkTx interface {
	// Insert creates a new row from link and fills in link.ID. An empty
	// link.Hash is stored as unassigned.
	Insert(ctx context.Context, link *ShortLink) error

	// SetHash assigns the code on an already inserted row and updates
	// link.Hash on success.
	SetHash(ctx context.Context, link *ShortLink, hash string) error

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}
