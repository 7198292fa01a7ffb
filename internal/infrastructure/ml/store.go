package ml

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// FileStore persists a fitted Model as a JSON document.
type FileStore struct {
	path string
}

// NewFileStore creates a store backed by path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the artifact location.
func (s *FileStore) Path() string {
	return s.path
}

// Save writes m atomically: a temporary file in the target directory is
// renamed over the artifact once fully written.
func (s *FileStore) Save(ctx context.Context, m *Model) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create artifact directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".heartrisk-model-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temporary artifact: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := json.NewEncoder(tmp).Encode(m); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to encode model artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write model artifact: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to install model artifact: %w", err)
	}
	return nil
}

// Load reads and validates the artifact.
func (s *FileStore) Load(ctx context.Context) (*Model, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open model artifact: %w", err)
	}
	defer f.Close()

	var m Model
	if err := json.NewDecoder(f).Decode(&m); err != nil {
		return nil, fmt.Errorf("failed to decode model artifact: %w", err)
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	return &m, nil
}
