package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/13rac1/tarmac/internal/types"
	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultAPIBaseURL is the asset upload host.
	DefaultAPIBaseURL = "https://data.roblox.com"

	defaultMirrorPrefix = "tarmac/"
)

// LoadSettings reads user settings from the specified path. A missing file is
// not an error: defaults and environment overrides still apply. Tilde (~) in
// paths is expanded to the user's home directory.
func LoadSettings(path string) (*types.Settings, error) {
	expandedPath, err := expandTilde(path)
	if err != nil {
		return nil, fmt.Errorf("expanding settings path: %w", err)
	}

	var settings types.Settings

	data, err := os.ReadFile(expandedPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// Defaults only.
	case err != nil:
		return nil, fmt.Errorf("reading settings file %s: %w", expandedPath, err)
	default:
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		if err := decoder.Decode(&settings); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parsing settings YAML: %w", err)
		}
	}

	if err := env.Parse(&settings); err != nil {
		return nil, fmt.Errorf("reading settings from environment: %w", err)
	}

	applyDefaults(&settings)

	if err := validate(&settings); err != nil {
		return nil, fmt.Errorf("validating settings: %w", err)
	}

	return &settings, nil
}

// applyDefaults sets default values for optional settings.
func applyDefaults(settings *types.Settings) {
	if settings.Roblox.BaseURL == "" {
		settings.Roblox.BaseURL = DefaultAPIBaseURL
	}
	settings.Roblox.BaseURL = strings.TrimRight(settings.Roblox.BaseURL, "/")

	if settings.Mirror.Prefix == "" {
		settings.Mirror.Prefix = defaultMirrorPrefix
	}

	// Ensure prefix has trailing slash for consistent key building
	if !strings.HasSuffix(settings.Mirror.Prefix, "/") {
		settings.Mirror.Prefix += "/"
	}
}

// validate ensures the mirror is fully configured when enabled.
func validate(settings *types.Settings) error {
	if !settings.Mirror.Enabled {
		return nil
	}

	if settings.Mirror.Bucket == "" {
		return fmt.Errorf("mirror.bucket is required when mirror.enabled is true")
	}

	if settings.Mirror.Region == "" {
		return fmt.Errorf("mirror.region is required when mirror.enabled is true")
	}

	return nil
}

// expandTilde replaces ~ at the start of a path with the user's home directory.
func expandTilde(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}

	if path == "~" {
		return homeDir, nil
	}

	if strings.HasPrefix(path, "~/") {
		return filepath.Join(homeDir, path[2:]), nil
	}

	return path, nil
}
