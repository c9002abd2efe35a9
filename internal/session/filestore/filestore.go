// ABOUTME: File-backed session storage for the CLI and TUI
// ABOUTME: Stores the credential triple as JSON in the user's config directory

package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/paumaneja/mythic-companions-cli/internal/session"
)

// FileName is the name of the session file inside the config directory
const FileName = "session.json"

// Store keeps credentials in a JSON file readable only by the owner
type Store struct {
	configDir string
}

var _ session.Storage = (*Store)(nil)

// New creates a Store that writes to configDir
func New(configDir string) *Store {
	return &Store{configDir: configDir}
}

// Path returns the full path of the session file
func (s *Store) Path() string {
	return filepath.Join(s.configDir, FileName)
}

// Load reads the credentials from disk.
// A missing or unreadable file means there is no stored session.
func (s *Store) Load(ctx context.Context) (session.Credentials, error) {
	data, err := os.ReadFile(s.Path())
	if errors.Is(err, os.ErrNotExist) {
		return session.Credentials{}, session.ErrNotFound
	}
	if err != nil {
		return session.Credentials{}, err
	}

	var creds session.Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		// Corrupt file, start fresh
		return session.Credentials{}, session.ErrNotFound
	}
	return creds, nil
}

// Save writes the credentials, creating the config directory if needed
func (s *Store) Save(ctx context.Context, creds session.Credentials) error {
	if err := os.MkdirAll(s.configDir, 0700); err != nil {
		return err
	}

	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return err
	}

	tmp := s.Path() + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return err
	}
	return os.Rename(tmp, s.Path())
}

// Clear removes the session file. Clearing an absent file is not an error.
func (s *Store) Clear(ctx context.Context) error {
	err := os.Remove(s.Path())
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
