// Package uploader uploads a single image file to the asset host.
// It hashes the file, skips the upload when the manifest already holds the
// same content under the same name, records new asset IDs in the manifest,
// and optionally mirrors the bytes to S3-compatible storage.
package uploader

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/13rac1/tarmac/internal/manifest"
	"github.com/13rac1/tarmac/internal/robloxapi"
	"github.com/rs/zerolog"
)

// ImageUploader is the API surface the uploader needs.
type ImageUploader interface {
	UploadImage(ctx context.Context, data robloxapi.ImageUploadData) (*robloxapi.UploadResponse, error)
}

// Request names one image to upload.
type Request struct {
	Path        string // local image file
	Name        string // asset name; defaults to the file name without extension
	Description string
	Force       bool // upload even if the manifest has this content
}

// Result describes the outcome of one upload.
type Result struct {
	Name           string
	Hash           string // hex SHA-256 of the image bytes
	Size           int64
	AssetID        uint64
	BackingAssetID uint64
	Skipped        bool   // manifest already had this content
	MirrorKey      string // set when the image was mirrored
}

// Option configures an Uploader.
type Option func(*Uploader)

// WithMirror enables mirroring uploaded images.
func WithMirror(m *Mirror) Option {
	return func(u *Uploader) {
		u.mirror = m
	}
}

// WithLogger sets the diagnostics logger.
func WithLogger(log zerolog.Logger) Option {
	return func(u *Uploader) {
		u.log = log
	}
}

// Uploader orchestrates image uploads.
type Uploader struct {
	client ImageUploader
	store  manifest.Store
	mirror *Mirror
	log    zerolog.Logger
	now    func() time.Time
}

// New creates an Uploader with the given API client and manifest store.
func New(client ImageUploader, store manifest.Store, opts ...Option) *Uploader {
	u := &Uploader{
		client: client,
		store:  store,
		log:    zerolog.Nop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// UploadFile uploads the image named by req. API errors are returned
// unchanged in the chain so callers can inspect them with errors.As.
// Manifest and mirror failures are logged as warnings and do not fail the
// upload. When the manifest cannot be loaded the upload is not recorded, so
// the stored manifest is left untouched.
func (u *Uploader) UploadFile(ctx context.Context, req Request) (*Result, error) {
	data, err := os.ReadFile(req.Path)
	if err != nil {
		return nil, fmt.Errorf("reading image %s: %w", req.Path, err)
	}

	name := req.Name
	if name == "" {
		base := filepath.Base(req.Path)
		name = strings.TrimSuffix(base, filepath.Ext(base))
	}

	sum := sha256.Sum256(data)
	result := &Result{
		Name: name,
		Hash: hex.EncodeToString(sum[:]),
		Size: int64(len(data)),
	}

	// A manifest that failed to load is never saved over: it may still hold
	// asset IDs that exist nowhere else.
	m, err := u.store.Load(ctx)
	loaded := err == nil
	if !loaded {
		u.log.Warn().Err(err).Msg("failed to load manifest, upload will not be recorded")
		m = manifest.New()
	}

	if !req.Force {
		if entry, ok := m.Lookup(name, result.Hash); ok {
			u.log.Debug().Str("name", name).Uint64("asset_id", entry.AssetID).Msg("unchanged, skipping upload")
			result.AssetID = entry.AssetID
			result.BackingAssetID = entry.BackingAssetID
			result.Skipped = true
			return result, nil
		}
	}

	resp, err := u.client.UploadImage(ctx, robloxapi.ImageUploadData{
		ImageData:   data,
		Name:        name,
		Description: req.Description,
	})
	if err != nil {
		return nil, fmt.Errorf("uploading %s: %w", name, err)
	}
	result.AssetID = resp.AssetID
	result.BackingAssetID = resp.BackingAssetID

	if u.mirror != nil {
		key := u.mirror.Key(name, result.Hash, filepath.Ext(req.Path))
		uploaded, err := u.mirror.Put(ctx, key, data)
		switch {
		case err != nil:
			u.log.Warn().Err(err).Str("key", key).Msg("failed to mirror image (upload succeeded)")
		default:
			result.MirrorKey = key
			u.log.Debug().Str("key", key).Bool("uploaded", uploaded).Msg("mirrored image")
		}
	}

	if !loaded {
		return result, nil
	}

	m.Record(name, manifest.AssetEntry{
		Hash:           result.Hash,
		AssetID:        resp.AssetID,
		BackingAssetID: resp.BackingAssetID,
		UploadedAt:     u.now().UTC(),
	})
	if err := u.store.Save(ctx, m); err != nil {
		u.log.Warn().Err(err).Msg("failed to save manifest (upload succeeded)")
	}

	return result, nil
}

// FormatSize formats a byte count as a human-readable string.
func FormatSize(bytes int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)

	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.1f GB", float64(bytes)/GB)
	case bytes >= MB:
		return fmt.Sprintf("%.1f MB", float64(bytes)/MB)
	case bytes >= KB:
		return fmt.Sprintf("%.1f KB", float64(bytes)/KB)
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
