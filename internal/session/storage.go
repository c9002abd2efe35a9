// ABOUTME: Durable storage contract for the persisted session triple
// ABOUTME: Includes an in-memory implementation for tests and ephemeral runs

package session

import (
	"context"
	"errors"
	"sync"
)

// Credentials is the persisted (token, userId, role) triple
type Credentials struct {
	Token  string `json:"token"`
	UserID string `json:"userId"`
	Role   string `json:"role"`
}

// Complete reports whether every field of the triple is present
func (c Credentials) Complete() bool {
	return c.Token != "" && c.UserID != "" && c.Role != ""
}

// ErrNotFound is returned by Storage.Load when nothing has been persisted
var ErrNotFound = errors.New("no stored session")

// Storage persists credentials between runs. Only the Store writes to it.
type Storage interface {
	Load(ctx context.Context) (Credentials, error)
	Save(ctx context.Context, creds Credentials) error
	Clear(ctx context.Context) error
}

// MemoryStorage keeps credentials in process memory
type MemoryStorage struct {
	mu    sync.Mutex
	creds *Credentials
}

// NewMemoryStorage creates an empty MemoryStorage
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

var _ Storage = (*MemoryStorage)(nil)

// Load returns the stored credentials or ErrNotFound
func (m *MemoryStorage) Load(ctx context.Context) (Credentials, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.creds == nil {
		return Credentials{}, ErrNotFound
	}
	return *m.creds, nil
}

// Save replaces the stored credentials
func (m *MemoryStorage) Save(ctx context.Context, creds Credentials) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.creds = &creds
	return nil
}

// Clear removes the stored credentials
func (m *MemoryStorage) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.creds = nil
	return nil
}
