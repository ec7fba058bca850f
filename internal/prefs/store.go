// Package prefs persists credential preferences as TOML.
package prefs

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"

	"minutemic/internal/domain"
)

// Defaults is what a fresh install starts with.
func Defaults() domain.Preferences {
	return domain.Preferences{UseDefaultCredential: true}
}

// FileStore keeps preferences in a single TOML file.
type FileStore struct {
	path string
	mu   sync.Mutex
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Path() string { return s.path }

// Load returns the stored preferences. Missing keys and a missing file fall
// back to Defaults.
func (s *FileStore) Load() (domain.Preferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prefs := Defaults()
	if _, err := toml.DecodeFile(s.path, &prefs); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Defaults(), nil
		}
		return Defaults(), fmt.Errorf("read preferences: %w", err)
	}
	prefs.CustomCredential = strings.TrimSpace(prefs.CustomCredential)
	return prefs, nil
}

// Save replaces the stored preferences. The file is only readable by the
// owner since it may hold a credential.
func (s *FileStore) Save(prefs domain.Preferences) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prefs.CustomCredential = strings.TrimSpace(prefs.CustomCredential)

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(prefs); err != nil {
		return fmt.Errorf("encode preferences: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create preferences dir: %w", err)
	}
	if err := os.WriteFile(s.path, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("write preferences: %w", err)
	}
	return nil
}
