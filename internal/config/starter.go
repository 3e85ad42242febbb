package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

const starterSettings = `# tarmac user settings

roblox:
  # Session cookie value used to authenticate uploads.
  # TARMAC_AUTH overrides this value.
  auth_token: ""
  # base_url: https://data.roblox.com

# Optional copy of every uploaded image in S3-compatible storage.
mirror:
  enabled: false
  bucket: YOUR-BUCKET-NAME
  region: us-east-1
  prefix: tarmac/
  # endpoint: https://s3.us-west-002.backblazeb2.com
  # force_path_style: true

auth:
  # profile: default
  # access_key_id: ""
  # secret_access_key: ""
  # session_token: ""
`

// CreateStarterSettings writes a commented settings file to path. It refuses
// to overwrite an existing file.
func CreateStarterSettings(path string) error {
	expandedPath, err := expandTilde(path)
	if err != nil {
		return fmt.Errorf("expanding settings path: %w", err)
	}

	if _, err := os.Stat(expandedPath); err == nil {
		return fmt.Errorf("settings file already exists: %s", expandedPath)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("checking settings file %s: %w", expandedPath, err)
	}

	if err := os.MkdirAll(filepath.Dir(expandedPath), 0o700); err != nil {
		return fmt.Errorf("creating settings directory: %w", err)
	}

	// The file holds credentials.
	if err := os.WriteFile(expandedPath, []byte(starterSettings), 0o600); err != nil {
		return fmt.Errorf("writing settings file: %w", err)
	}

	return nil
}
