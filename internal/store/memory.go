// internal/store/memory.go
//
// Persistence backends for the serialized leaderboard.
// A Store holds one opaque blob (the JSON-encoded leaderboard); the leaderboard
// package owns the format and the update policy.
//
// Backends:
//   - memory: process-local, lost on restart (tests, degraded mode).
//   - gdata:  per-user application data directory (desktop/mobile hosts).
//   - sqlite: a key/blob table in a SQLite database.

package store

import (
	"context"
	"errors"
	"sync"
)

// ErrNotFound is returned by Load when nothing has been saved yet.
var ErrNotFound = errors.New("store: not found")

// Store persists a single serialized blob.
type Store interface {
	// Load returns the last saved blob, or ErrNotFound.
	Load(ctx context.Context) ([]byte, error)

	// Save replaces the stored blob.
	Save(ctx context.Context, data []byte) error
}

// memory is an in-memory Store implementation.
type memory struct {
	mu   sync.RWMutex // guards data
	data []byte       // nil until the first Save
}

// NewMemory constructs a new in-memory Store.
func NewMemory() Store {
	return &memory{}
}

// Save copies data so later caller mutations do not leak in.
func (m *memory) Save(ctx context.Context, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = append([]byte{}, data...)
	return nil
}

// Load returns a copy of the stored blob.
func (m *memory) Load(ctx context.Context) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.data == nil {
		return nil, ErrNotFound
	}
	return append([]byte{}, m.data...), nil
}
