package store

import (
	"context"
	"sync"
	"time"

	"github.com/davrd/hashlink/internal/ratelimit"
)

// RateLimitMemoryStore is an in-memory implementation of ratelimit.Store
// tracking request timestamps per key.
type RateLimitMemoryStore struct {
	mu      sync.Mutex
	entries map[string][]time.Time
}

// NewRateLimitMemoryStore creates a new in-memory rate limit store.
func NewRateLimitMemoryStore() *RateLimitMemoryStore {
	return &RateLimitMemoryStore{
		entries: make(map[string][]time.Time),
	}
}

func (s *RateLimitMemoryStore) Record(_ context.Context, key string, window time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	cutoff := now.Add(-window)

	kept := s.entries[key][:0]

	for _, ts := range s.entries[key] {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}

	kept = append(kept, now)
	s.entries[key] = kept

	return int64(len(kept)), nil
}

// Compile-time check.
var _ ratelimit.Store = (*RateLimitMemoryStore)(nil)
