// Package session persists the signed-in user between crmctl runs.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/moderncrm/crm-api/internal/core/domain"
)

const fileName = "session.json"

// Session is what a successful login leaves behind.
type Session struct {
	User    domain.User `json:"user"`
	Token   string      `json:"token"`
	SavedAt time.Time   `json:"savedAt"`
}

// Cache is a single-slot session file readable only by its owner.
type Cache struct {
	path string
}

// New returns a Cache backed by path.
func New(path string) *Cache {
	return &Cache{path: path}
}

// DefaultPath is <user config dir>/moderncrm/session.json.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("session: config dir: %w", err)
	}
	return filepath.Join(dir, "moderncrm", fileName), nil
}

func (c *Cache) Path() string { return c.path }

// Load returns the cached session, or nil when there is none. A slot that
// cannot be decoded is removed and treated as empty.
func (c *Cache) Load() (*Session, error) {
	data, err := os.ReadFile(c.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("session: read: %w", err)
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil || s.Token == "" {
		_ = c.Clear()
		return nil, nil
	}
	return &s, nil
}

// Save replaces the slot atomically.
func (c *Cache) Save(s Session) error {
	if err := os.MkdirAll(filepath.Dir(c.path), 0o700); err != nil {
		return fmt.Errorf("session: mkdir: %w", err)
	}
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("session: encode: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(c.path), fileName+".*")
	if err != nil {
		return fmt.Errorf("session: temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("session: chmod: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("session: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("session: close: %w", err)
	}
	if err := os.Rename(tmp.Name(), c.path); err != nil {
		return fmt.Errorf("session: rename: %w", err)
	}
	return nil
}

// Clear removes the slot. Clearing an empty slot is not an error.
func (c *Cache) Clear() error {
	if err := os.Remove(c.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("session: clear: %w", err)
	}
	return nil
}
