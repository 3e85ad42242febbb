package manifest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Filename is the local manifest file name, kept next to the project file.
const Filename = "tarmac-manifest.toml"

// FileStore keeps the manifest in a local TOML file.
type FileStore struct {
	Path string
}

// NewFileStore returns a store for the manifest inside folder.
func NewFileStore(folder string) *FileStore {
	return &FileStore{Path: filepath.Join(folder, Filename)}
}

// Load reads the manifest file. A missing file yields an empty manifest.
func (s *FileStore) Load(_ context.Context) (*Manifest, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return New(), nil
		}
		return nil, fmt.Errorf("reading manifest %s: %w", s.Path, err)
	}

	var m Manifest
	decoder := toml.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&m); err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", s.Path, err)
	}

	if err := m.check(); err != nil {
		return nil, err
	}

	return &m, nil
}

// Save writes the manifest atomically by renaming a temporary file.
func (s *FileStore) Save(_ context.Context, m *Manifest) error {
	data, err := toml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshaling manifest: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.Path), ".tarmac-manifest-*.toml")
	if err != nil {
		return fmt.Errorf("creating temp manifest: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing manifest: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing manifest: %w", err)
	}

	if err := os.Rename(tmpName, s.Path); err != nil {
		return fmt.Errorf("replacing manifest %s: %w", s.Path, err)
	}

	return nil
}
