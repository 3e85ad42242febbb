// Package types defines the core data structures used throughout tarmac.
// This includes the per-folder and project-level configuration models,
// user settings, and group summaries shared between commands.
package types

import (
	"fmt"
	"path/filepath"
	"sort"
	"time"
)

// Size is a width/height pair in pixels.
type Size struct {
	Width  int
	Height int
}

func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// CodegenKind controls which binding code accompanies an asset reference.
type CodegenKind string

const (
	// CodegenNone emits no binding for the asset.
	CodegenNone CodegenKind = "none"
	// CodegenAssetURL emits a plain asset URL string.
	CodegenAssetURL CodegenKind = "asset-url"
	// CodegenURLAndSlice emits the asset URL together with the rectangle
	// offset and size the image occupies inside a packed spritesheet.
	CodegenURLAndSlice CodegenKind = "url-and-slice"
)

// UnmarshalText accepts only the three known codegen kinds.
func (k *CodegenKind) UnmarshalText(text []byte) error {
	switch kind := CodegenKind(text); kind {
	case CodegenNone, CodegenAssetURL, CodegenURLAndSlice:
		*k = kind
		return nil
	default:
		return fmt.Errorf("unknown codegen kind %q, expected one of none, asset-url, url-and-slice", string(text))
	}
}

// Config is the content of one tarmac.toml file.
type Config struct {
	// Project is only set, and only relevant, in the top-level config.
	Project *ProjectInfo

	// Includes reference other config locations owned by this one.
	Includes []IncludeConfig

	Inputs []InputConfig

	// FilePath is where this config was loaded from. It is never read from
	// the file itself.
	FilePath string
}

// Folder returns the directory containing the config file. Paths inside the
// config are relative to it.
func (c *Config) Folder() string {
	return filepath.Dir(c.FilePath)
}

// ProjectInfo holds project-level fields of the top-level config.
type ProjectInfo struct {
	Name               string
	MaxSpritesheetSize Size
}

// IncludeConfig points at another config location to search recursively.
type IncludeConfig struct {
	Path string
}

// InputConfig describes a glob-matched set of candidate assets.
type InputConfig struct {
	Glob     string
	Codegen  CodegenKind
	Packable bool
}

// ProjectConfig is the content of a tarmac-project.toml file.
type ProjectConfig struct {
	Groups map[string]GroupConfig

	// FilePath is where this project file was loaded from.
	FilePath string
}

// Folder returns the directory containing the project file.
func (p *ProjectConfig) Folder() string {
	return filepath.Dir(p.FilePath)
}

// GroupNames returns the group names in sorted order.
func (p *ProjectConfig) GroupNames() []string {
	names := make([]string, 0, len(p.Groups))
	for name := range p.Groups {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GroupConfig is a named set of search paths plus packing defaults.
type GroupConfig struct {
	// Paths are absolute once the project file has been loaded.
	Paths              []string
	SpritesheetEnabled bool
	MaxSpritesheetSize Size
}

// Settings represents the user-level tool settings.
type Settings struct {
	Roblox RobloxSettings `yaml:"roblox"`
	Mirror MirrorSettings `yaml:"mirror"`
	Auth   AuthSettings   `yaml:"auth"`
}

// RobloxSettings holds the asset hosting API settings.
type RobloxSettings struct {
	AuthToken string `yaml:"auth_token" env:"TARMAC_AUTH"`
	BaseURL   string `yaml:"base_url" env:"TARMAC_API_BASE_URL"`
}

// MirrorSettings holds S3-compatible storage settings for mirroring uploads.
type MirrorSettings struct {
	Enabled        bool   `yaml:"enabled"`
	Bucket         string `yaml:"bucket"`
	Prefix         string `yaml:"prefix"`
	Region         string `yaml:"region"`
	Endpoint       string `yaml:"endpoint"`
	ForcePathStyle bool   `yaml:"force_path_style"`
}

// AuthSettings holds S3 authentication credentials.
type AuthSettings struct {
	Profile         string `yaml:"profile"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	SessionToken    string `yaml:"session_token"`
}

// GroupPath summarizes one search path of a project group.
type GroupPath struct {
	Group     string
	Path      string
	Exists    bool
	HasConfig bool
	Inputs    int
	Includes  int
	Err       error
}

// MirroredImage is one image found in the S3 mirror.
type MirroredImage struct {
	Name         string    `json:"name"`
	Hash         string    `json:"hash"` // first 12 hex characters of the content hash
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"lastModified"`
}
