package jsonstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/balkashynov/bankroll/internal/models"
)

// LiveFile keeps the single in-progress session, if any
type LiveFile struct {
	path string
}

// NewLiveFile returns a live session file at path
func NewLiveFile(path string) *LiveFile {
	return &LiveFile{path: path}
}

// Load returns the running session, or nil when nothing is being played
func (f *LiveFile) Load() (*models.LiveSession, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read live session: %w", err)
	}

	var live models.LiveSession
	if err := json.Unmarshal(data, &live); err != nil {
		return nil, fmt.Errorf("decode live session: %w: %v", ErrCorrupt, err)
	}
	return &live, nil
}

// Save replaces the running session
func (f *LiveFile) Save(live models.LiveSession) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}
	payload, err := json.MarshalIndent(live, "", "  ")
	if err != nil {
		return fmt.Errorf("encode live session: %w", err)
	}
	if err := writeFileAtomic(f.path, payload); err != nil {
		return fmt.Errorf("write live session: %w", err)
	}
	return nil
}

// Clear removes the running session; clearing nothing is not an error
func (f *LiveFile) Clear() error {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove live session: %w", err)
	}
	return nil
}
