// Package store persists small key/value browser state between runs.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrUnavailable reports that persistent storage cannot be written.
// Reads never fail; a missing or damaged state file reads as empty.
var ErrUnavailable = errors.New("store: storage unavailable")

// Store is the key/value contract the browser persists through.
type Store interface {
	// Get returns the value for key, or def when the key is absent.
	Get(key, def string) string
	// Set writes the value for key through to disk.
	Set(key, value string) error
}

// FileStore keeps all values in a single JSON state file.
type FileStore struct {
	path   string
	values map[string]string
}

// DefaultDir returns the per-user state directory.
func DefaultDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("getting config dir: %w", err)
	}
	return filepath.Join(dir, "padbrowse"), nil
}

// Open loads the state file under dir. Opening never fails: unreadable
// or corrupt state starts empty and surfaces on the first Set instead.
func Open(dir string) *FileStore {
	s := &FileStore{
		path:   filepath.Join(dir, "state.json"),
		values: map[string]string{},
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return s
	}
	var values map[string]string
	if err := json.Unmarshal(data, &values); err != nil || values == nil {
		return s
	}
	s.values = values
	return s
}

// Get returns the stored value for key, or def when absent.
func (s *FileStore) Get(key, def string) string {
	if v, ok := s.values[key]; ok {
		return v
	}
	return def
}

// Set stores the value and writes the state file. The file is replaced
// atomically so a crash mid-write can't corrupt existing state.
func (s *FileStore) Set(key, value string) error {
	s.values[key] = value

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	data, err := json.MarshalIndent(s.values, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Path returns the location of the state file.
func (s *FileStore) Path() string {
	return s.path
}
