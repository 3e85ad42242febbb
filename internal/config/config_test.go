package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/13rac1/tarmac/internal/types"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantErr  bool
		errMsg   string
		validate func(*testing.T, *types.Config)
	}{
		{
			name:    "empty file",
			content: ``,
			validate: func(t *testing.T, cfg *types.Config) {
				if cfg.Project != nil {
					t.Errorf("project = %+v, want nil", cfg.Project)
				}
				if len(cfg.Includes) != 0 || len(cfg.Inputs) != 0 {
					t.Errorf("includes = %d, inputs = %d, want 0 and 0", len(cfg.Includes), len(cfg.Inputs))
				}
			},
		},
		{
			name: "full config",
			content: `
[project]
name = "my-game"
max-spritesheet-size = [2048, 512]

[[includes]]
path = "assets/ui"

[[includes]]
path = "/abs/icons"

[[inputs]]
glob = "images/**/*.png"
codegen = "url-and-slice"
packable = true

[[inputs]]
glob = "decals/*.png"
codegen = "asset-url"
`,
			validate: func(t *testing.T, cfg *types.Config) {
				if cfg.Project == nil {
					t.Fatal("project = nil, want set")
				}
				if cfg.Project.Name != "my-game" {
					t.Errorf("project.name = %q, want %q", cfg.Project.Name, "my-game")
				}
				if want := (types.Size{Width: 2048, Height: 512}); cfg.Project.MaxSpritesheetSize != want {
					t.Errorf("project.max-spritesheet-size = %v, want %v", cfg.Project.MaxSpritesheetSize, want)
				}
				if len(cfg.Includes) != 2 {
					t.Fatalf("includes = %d, want 2", len(cfg.Includes))
				}
				if cfg.Includes[0].Path != "assets/ui" || cfg.Includes[1].Path != "/abs/icons" {
					t.Errorf("includes = %+v, want order preserved", cfg.Includes)
				}
				if len(cfg.Inputs) != 2 {
					t.Fatalf("inputs = %d, want 2", len(cfg.Inputs))
				}
				if cfg.Inputs[0].Codegen != types.CodegenURLAndSlice || !cfg.Inputs[0].Packable {
					t.Errorf("inputs[0] = %+v, want url-and-slice and packable", cfg.Inputs[0])
				}
				if cfg.Inputs[1].Codegen != types.CodegenAssetURL || cfg.Inputs[1].Packable {
					t.Errorf("inputs[1] = %+v, want asset-url and not packable", cfg.Inputs[1])
				}
			},
		},
		{
			name: "input defaults",
			content: `
[[inputs]]
glob = "*.png"
`,
			validate: func(t *testing.T, cfg *types.Config) {
				if cfg.Inputs[0].Codegen != types.CodegenNone {
					t.Errorf("codegen = %q, want %q", cfg.Inputs[0].Codegen, types.CodegenNone)
				}
				if cfg.Inputs[0].Packable {
					t.Error("packable = true, want false")
				}
			},
		},
		{
			name: "unknown top-level field",
			content: `
name = "stray"
`,
			wantErr: true,
			errMsg:  "unknown field `name`",
		},
		{
			name: "unknown input field",
			content: `
[[inputs]]
glob = "*.png"
pack = true
`,
			wantErr: true,
			errMsg:  "pack",
		},
		{
			name: "unknown project field",
			content: `
[project]
name = "x"
max-spritesheet-size = [1, 1]
author = "someone"
`,
			wantErr: true,
			errMsg:  "author",
		},
		{
			name: "snake case is not kebab case",
			content: `
[project]
name = "x"
max_spritesheet_size = [1, 1]
`,
			wantErr: true,
			errMsg:  "max_spritesheet_size",
		},
		{
			name: "unknown codegen kind",
			content: `
[[inputs]]
glob = "*.png"
codegen = "lua"
`,
			wantErr: true,
			errMsg:  "unknown codegen kind",
		},
		{
			name: "missing glob",
			content: `
[[inputs]]
packable = true
`,
			wantErr: true,
			errMsg:  "missing field `inputs[0].glob`",
		},
		{
			name: "missing include path",
			content: `
[[includes]]
`,
			wantErr: true,
			errMsg:  "missing field `includes[0].path`",
		},
		{
			name: "project without size",
			content: `
[project]
name = "x"
`,
			wantErr: true,
			errMsg:  "missing field `project.max-spritesheet-size`",
		},
		{
			name: "size with three elements",
			content: `
[project]
name = "x"
max-spritesheet-size = [1, 2, 3]
`,
			wantErr: true,
			errMsg:  "expected [width, height]",
		},
		{
			name: "bad glob syntax",
			content: `
[[inputs]]
glob = "images/[.png"
`,
			wantErr: true,
			errMsg:  "inputs[0].glob",
		},
		{
			name:    "invalid TOML",
			content: `[[inputs`,
			wantErr: true,
			errMsg:  "line 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), ConfigFilename)
			writeFile(t, path, tt.content)

			cfg, err := Load(path)

			if tt.wantErr {
				if err == nil {
					t.Fatalf("Load() error = nil, want error containing %q", tt.errMsg)
				}
				if !IsTOML(err) {
					t.Errorf("Load() error kind is not toml: %v", err)
				}
				if !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("Load() error = %q, want error containing %q", err.Error(), tt.errMsg)
				}
				if !strings.Contains(err.Error(), path) {
					t.Errorf("Load() error = %q, want path %q in message", err.Error(), path)
				}
				return
			}

			if err != nil {
				t.Fatalf("Load() unexpected error = %v", err)
			}

			if cfg.FilePath != path {
				t.Errorf("FilePath = %q, want %q", cfg.FilePath, path)
			}
			if cfg.Folder() != filepath.Dir(path) {
				t.Errorf("Folder() = %q, want %q", cfg.Folder(), filepath.Dir(path))
			}

			if tt.validate != nil {
				tt.validate(t, cfg)
			}
		})
	}
}

func TestLoadFromFolder(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ConfigFilename), "[[inputs]]\nglob = \"*.png\"\n")

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() unexpected error = %v", err)
	}

	if cfg.FilePath != filepath.Join(dir, ConfigFilename) {
		t.Errorf("FilePath = %q, want %q", cfg.FilePath, filepath.Join(dir, ConfigFilename))
	}
	if cfg.Folder() != dir {
		t.Errorf("Folder() = %q, want %q", cfg.Folder(), dir)
	}
}

func TestLoadRelativePathIsResolved(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ConfigFilename), "")
	t.Chdir(dir)

	cfg, err := Load(".")
	if err != nil {
		t.Fatalf("Load() unexpected error = %v", err)
	}

	if !filepath.IsAbs(cfg.FilePath) {
		t.Errorf("FilePath = %q, want absolute", cfg.FilePath)
	}
}

func TestLoadIOErrors(t *testing.T) {
	t.Run("missing path", func(t *testing.T) {
		missing := filepath.Join(t.TempDir(), "nope")

		_, err := Load(missing)
		if !IsIO(err) {
			t.Fatalf("Load() error = %v, want io error", err)
		}
		if !errors.Is(err, fs.ErrNotExist) {
			t.Errorf("Load() error = %v, want fs.ErrNotExist", err)
		}
		if !strings.Contains(err.Error(), missing) {
			t.Errorf("Load() error = %q, want path %q in message", err.Error(), missing)
		}
	})

	t.Run("folder without config file", func(t *testing.T) {
		dir := t.TempDir()

		_, err := Load(dir)
		if !IsIO(err) {
			t.Fatalf("Load() error = %v, want io error", err)
		}
		if !errors.Is(err, fs.ErrNotExist) {
			t.Errorf("Load() error = %v, want fs.ErrNotExist", err)
		}

		var le *LoadError
		if !errors.As(err, &le) {
			t.Fatalf("Load() error type = %T, want *LoadError", err)
		}
		if le.Path != filepath.Join(dir, ConfigFilename) {
			t.Errorf("LoadError.Path = %q, want %q", le.Path, filepath.Join(dir, ConfigFilename))
		}
	})
}

func TestErrorKindString(t *testing.T) {
	if KindIO.String() != "io" {
		t.Errorf("KindIO.String() = %q, want %q", KindIO.String(), "io")
	}
	if KindTOML.String() != "toml" {
		t.Errorf("KindTOML.String() = %q, want %q", KindTOML.String(), "toml")
	}
}
