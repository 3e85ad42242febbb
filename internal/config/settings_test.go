package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/13rac1/tarmac/internal/types"
)

func TestLoadSettings(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		env      map[string]string
		wantErr  bool
		errMsg   string
		validate func(*testing.T, *types.Settings)
	}{
		{
			name:    "empty file uses defaults",
			content: ``,
			validate: func(t *testing.T, s *types.Settings) {
				if s.Roblox.BaseURL != DefaultAPIBaseURL {
					t.Errorf("base_url = %q, want %q", s.Roblox.BaseURL, DefaultAPIBaseURL)
				}
				if s.Mirror.Prefix != "tarmac/" {
					t.Errorf("prefix = %q, want %q", s.Mirror.Prefix, "tarmac/")
				}
				if s.Mirror.Enabled {
					t.Error("mirror.enabled = true, want false")
				}
			},
		},
		{
			name: "custom prefix without trailing slash",
			content: `
mirror:
  prefix: images
`,
			validate: func(t *testing.T, s *types.Settings) {
				if s.Mirror.Prefix != "images/" {
					t.Errorf("prefix = %q, want %q", s.Mirror.Prefix, "images/")
				}
			},
		},
		{
			name: "base url trailing slash trimmed",
			content: `
roblox:
  base_url: http://localhost:8080/
`,
			validate: func(t *testing.T, s *types.Settings) {
				if s.Roblox.BaseURL != "http://localhost:8080" {
					t.Errorf("base_url = %q, want %q", s.Roblox.BaseURL, "http://localhost:8080")
				}
			},
		},
		{
			name: "env overrides file token",
			content: `
roblox:
  auth_token: from-file
`,
			env: map[string]string{"TARMAC_AUTH": "from-env"},
			validate: func(t *testing.T, s *types.Settings) {
				if s.Roblox.AuthToken != "from-env" {
					t.Errorf("auth_token = %q, want %q", s.Roblox.AuthToken, "from-env")
				}
			},
		},
		{
			name: "file token kept without env",
			content: `
roblox:
  auth_token: from-file
`,
			validate: func(t *testing.T, s *types.Settings) {
				if s.Roblox.AuthToken != "from-file" {
					t.Errorf("auth_token = %q, want %q", s.Roblox.AuthToken, "from-file")
				}
			},
		},
		{
			name: "all mirror fields",
			content: `
mirror:
  enabled: true
  bucket: assets
  region: us-west-2
  prefix: game/
  endpoint: https://s3.example.com
  force_path_style: true
auth:
  profile: custom-profile
  access_key_id: AKIATEST
  secret_access_key: secretkey
  session_token: token123
`,
			validate: func(t *testing.T, s *types.Settings) {
				if s.Mirror.Bucket != "assets" || s.Mirror.Region != "us-west-2" {
					t.Errorf("mirror = %+v, want bucket assets in us-west-2", s.Mirror)
				}
				if s.Mirror.Endpoint != "https://s3.example.com" || !s.Mirror.ForcePathStyle {
					t.Errorf("mirror = %+v, want custom endpoint with path style", s.Mirror)
				}
				if s.Auth.AccessKeyID != "AKIATEST" || s.Auth.Profile != "custom-profile" {
					t.Errorf("auth = %+v, want static credentials and profile", s.Auth)
				}
			},
		},
		{
			name: "mirror missing bucket",
			content: `
mirror:
  enabled: true
  region: us-west-2
`,
			wantErr: true,
			errMsg:  "mirror.bucket is required",
		},
		{
			name: "mirror missing region",
			content: `
mirror:
  enabled: true
  bucket: assets
`,
			wantErr: true,
			errMsg:  "mirror.region is required",
		},
		{
			name: "unknown key",
			content: `
roblox:
  cookie: abc
`,
			wantErr: true,
			errMsg:  "parsing settings YAML",
		},
		{
			name:    "invalid YAML",
			content: `invalid: yaml: content:`,
			wantErr: true,
			errMsg:  "parsing settings YAML",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TARMAC_AUTH", "")
			t.Setenv("TARMAC_API_BASE_URL", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			path := filepath.Join(t.TempDir(), "settings.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0o600); err != nil {
				t.Fatal(err)
			}

			settings, err := LoadSettings(path)

			if tt.wantErr {
				if err == nil {
					t.Fatalf("LoadSettings() error = nil, want error containing %q", tt.errMsg)
				}
				if !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("LoadSettings() error = %q, want error containing %q", err.Error(), tt.errMsg)
				}
				return
			}

			if err != nil {
				t.Fatalf("LoadSettings() unexpected error = %v", err)
			}

			if tt.validate != nil {
				tt.validate(t, settings)
			}
		})
	}
}

func TestLoadSettingsMissingFile(t *testing.T) {
	t.Setenv("TARMAC_AUTH", "token")
	t.Setenv("TARMAC_API_BASE_URL", "")

	settings, err := LoadSettings(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadSettings() unexpected error = %v", err)
	}

	if settings.Roblox.AuthToken != "token" {
		t.Errorf("auth_token = %q, want %q", settings.Roblox.AuthToken, "token")
	}
	if settings.Roblox.BaseURL != DefaultAPIBaseURL {
		t.Errorf("base_url = %q, want %q", settings.Roblox.BaseURL, DefaultAPIBaseURL)
	}
}

func TestCreateStarterSettings(t *testing.T) {
	t.Setenv("TARMAC_AUTH", "")
	t.Setenv("TARMAC_API_BASE_URL", "")

	path := filepath.Join(t.TempDir(), "nested", "settings.yaml")

	if err := CreateStarterSettings(path); err != nil {
		t.Fatalf("CreateStarterSettings() unexpected error = %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat starter settings: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("mode = %v, want 0600", info.Mode().Perm())
	}

	// The starter file must itself be loadable.
	if _, err := LoadSettings(path); err != nil {
		t.Errorf("LoadSettings(starter) unexpected error = %v", err)
	}

	if err := CreateStarterSettings(path); err == nil {
		t.Error("CreateStarterSettings() error = nil, want error for existing file")
	}
}

func TestExpandTilde(t *testing.T) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		t.Fatalf("failed to get home directory: %v", err)
	}

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "tilde only", input: "~", want: homeDir},
		{name: "tilde with path", input: "~/foo/bar", want: filepath.Join(homeDir, "foo/bar")},
		{name: "absolute path", input: "/absolute/path", want: "/absolute/path"},
		{name: "relative path", input: "relative/path", want: "relative/path"},
		{name: "tilde in middle", input: "/path/~/file", want: "/path/~/file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := expandTilde(tt.input)
			if err != nil {
				t.Fatalf("expandTilde() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("expandTilde(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
