// Package credstore owns the durable credential record for the Plume client.
package credstore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// RecordName is the fixed file name of the durable credential record.
const RecordName = "token"

// DefaultPath returns the default credential record path
// (~/.plume/token).
func DefaultPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".plume", RecordName)
}

// Store reads and writes the durable credential record.
type Store struct {
	path string
}

// New creates a Store for the record at path. An empty path selects
// DefaultPath().
func New(path string) *Store {
	if path == "" {
		path = DefaultPath()
	}
	return &Store{path: path}
}

// Path returns the record location.
func (s *Store) Path() string {
	return s.path
}

// Load reads the stored token. The second return value reports whether a
// record exists; a missing record is not an error.
func (s *Store) Load() (string, bool, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("credstore: read %s: %w", s.path, err)
	}
	tok := strings.TrimSpace(string(data))
	if tok == "" {
		// An empty file means the same as no record.
		return "", false, nil
	}
	return tok, true, nil
}

// Save persists the token. The write is atomic (temp file + rename) so a
// concurrent reader or watcher never observes a half-written record.
func (s *Store) Save(tok string) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("credstore: create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, RecordName+".*")
	if err != nil {
		return fmt.Errorf("credstore: temp file: %w", err)
	}
	tmpName := tmp.Name()

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("credstore: chmod: %w", err)
	}
	if _, err := tmp.WriteString(tok + "\n"); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("credstore: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("credstore: close: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("credstore: rename: %w", err)
	}
	return nil
}

// Clear removes the record. Clearing an absent record is not an error.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("credstore: remove %s: %w", s.path, err)
	}
	return nil
}
