// Package manifest records which images have already been uploaded.
// Each entry maps an asset name to the content hash that was uploaded and the
// asset IDs the server assigned, so unchanged images are not uploaded twice.
// The manifest lives either in a local TOML file next to the project file or
// as a JSON object in the mirror bucket.
package manifest

import (
	"context"
	"fmt"
	"sort"
	"time"
)

const currentVersion = 1

// Manifest tracks uploaded assets by name.
type Manifest struct {
	Version int                   `json:"version" toml:"version"`
	Assets  map[string]AssetEntry `json:"assets" toml:"assets"`
}

// AssetEntry records one uploaded image.
type AssetEntry struct {
	Hash           string    `json:"hash" toml:"hash"` // hex SHA-256 of the uploaded bytes
	AssetID        uint64    `json:"assetId" toml:"asset-id"`
	BackingAssetID uint64    `json:"backingAssetId" toml:"backing-asset-id"`
	UploadedAt     time.Time `json:"uploadedAt" toml:"uploaded-at"`
}

// Store loads and saves a manifest.
type Store interface {
	Load(ctx context.Context) (*Manifest, error)
	Save(ctx context.Context, m *Manifest) error
}

// New creates an empty manifest at the current version.
func New() *Manifest {
	return &Manifest{
		Version: currentVersion,
		Assets:  make(map[string]AssetEntry),
	}
}

// Lookup returns the entry for name if it was uploaded with the same hash.
func (m *Manifest) Lookup(name, hash string) (AssetEntry, bool) {
	entry, ok := m.Assets[name]
	if !ok || entry.Hash != hash {
		return AssetEntry{}, false
	}
	return entry, true
}

// Record stores or replaces the entry for name.
func (m *Manifest) Record(name string, entry AssetEntry) {
	if m.Assets == nil {
		m.Assets = make(map[string]AssetEntry)
	}
	m.Assets[name] = entry
}

// Names returns the recorded asset names in sorted order.
func (m *Manifest) Names() []string {
	names := make([]string, 0, len(m.Assets))
	for name := range m.Assets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// check validates a decoded manifest and fills in a missing map.
func (m *Manifest) check() error {
	if m.Version != currentVersion {
		return fmt.Errorf("unsupported manifest version: %d", m.Version)
	}
	if m.Assets == nil {
		m.Assets = make(map[string]AssetEntry)
	}
	return nil
}
