package store

import (
	"context"
	"sync"

	"github.com/davrd/hashlink/internal/shortener"
)

// MemoryStore is an in-memory implementation of shortener.LinkStore. It
// mirrors the relational backend closely enough for unit tests: IDs come
// from a sequence and survive rollback, the hash index is unique, and
// transactions undo their writes on rollback.
type MemoryStore struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]shortener.ShortLink
	byHash map[string]int64
}

// NewMemoryStore creates an empty in-memory link store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		rows:   make(map[int64]shortener.ShortLink),
		byHash: make(map[string]int64),
	}
}

func (m *MemoryStore) FindByCode(_ context.Context, code string) (*shortener.ShortLink, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id, ok := m.byHash[code]
	if !ok {
		return nil, shortener.ErrNotFound
	}

	row := m.rows[id]

	return &row, nil
}

func (m *MemoryStore) Begin(_ context.Context) (shortener.LinkTx, error) {
	return &memoryTx{store: m}, nil
}

// Len reports the number of stored links. Test helper.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.rows)
}

// memoryTx applies writes to the store immediately and keeps an undo log so
// Rollback can revert them. Commit simply discards the log.
type memoryTx struct {
	store *MemoryStore
	undo  []func()
	done  bool
}

func (t *memoryTx) Insert(_ context.Context, link *shortener.ShortLink) error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()

	if link.Hash != "" {
		if _, taken := t.store.byHash[link.Hash]; taken {
			return shortener.ErrHashExists
		}
	}

	t.store.nextID++
	link.ID = t.store.nextID

	t.store.rows[link.ID] = *link
	if link.Hash != "" {
		t.store.byHash[link.Hash] = link.ID
	}

	id, hash := link.ID, link.Hash
	t.undo = append(t.undo, func() {
		delete(t.store.rows, id)
		if hash != "" {
			delete(t.store.byHash, hash)
		}
	})

	return nil
}

func (t *memoryTx) SetHash(_ context.Context, link *shortener.ShortLink, hash string) error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()

	if id, taken := t.store.byHash[hash]; taken && id != link.ID {
		return shortener.ErrHashExists
	}

	row, ok := t.store.rows[link.ID]
	if !ok {
		return shortener.ErrNotFound
	}

	previous := row.Hash

	if previous != "" {
		delete(t.store.byHash, previous)
	}

	row.Hash = hash
	t.store.rows[link.ID] = row
	t.store.byHash[hash] = link.ID
	link.Hash = hash

	id := link.ID
	t.undo = append(t.undo, func() {
		row, ok := t.store.rows[id]
		if !ok {
			return
		}

		delete(t.store.byHash, hash)
		row.Hash = previous
		t.store.rows[id] = row

		if previous != "" {
			t.store.byHash[previous] = id
		}
	})

	return nil
}

func (t *memoryTx) Commit(_ context.Context) error {
	t.done = true
	t.undo = nil

	return nil
}

func (t *memoryTx) Rollback(_ context.Context) error {
	if t.done {
		return nil
	}

	t.store.mu.Lock()
	defer t.store.mu.Unlock()

	for i := len(t.undo) - 1; i >= 0; i-- {
		t.undo[i]()
	}

	t.undo = nil
	t.done = true

	return nil
}

// Compile-time check.
var _ shortener.LinkStore = (*MemoryStore)(nil)
