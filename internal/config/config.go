// Package config loads tarmac configuration.
//
// Two strict TOML shapes are supported: the per-folder tarmac.toml (Load) and
// the top-level tarmac-project.toml (LoadProject). Both accept either the file
// itself or the folder containing it, and both reject unknown keys. The
// package also loads the user-level YAML settings and builds the S3 client
// used for mirroring.
package config

import (
	"fmt"
	"path"

	"github.com/13rac1/tarmac/internal/types"
)

// ConfigFilename is the per-folder config file name.
const ConfigFilename = "tarmac.toml"

type configFile struct {
	Project  *projectSection `toml:"project"`
	Includes []includeEntry  `toml:"includes"`
	Inputs   []inputEntry    `toml:"inputs"`
}

type projectSection struct {
	Name               *string `toml:"name"`
	MaxSpritesheetSize []int   `toml:"max-spritesheet-size"`
}

type includeEntry struct {
	Path *string `toml:"path"`
}

type inputEntry struct {
	Glob     *string           `toml:"glob"`
	Codegen  types.CodegenKind `toml:"codegen"`
	Packable bool              `toml:"packable"`
}

// Load reads a tarmac.toml. path may name the file directly or a folder
// containing it.
func Load(path string) (*types.Config, error) {
	filePath, err := resolveFile(path, ConfigFilename)
	if err != nil {
		return nil, err
	}

	var doc configFile
	if err := decodeStrict(filePath, &doc); err != nil {
		return nil, err
	}

	cfg, err := doc.toConfig()
	if err != nil {
		return nil, tomlError(filePath, err)
	}
	cfg.FilePath = filePath

	return cfg, nil
}

func (doc *configFile) toConfig() (*types.Config, error) {
	cfg := &types.Config{
		Includes: make([]types.IncludeConfig, 0, len(doc.Includes)),
		Inputs:   make([]types.InputConfig, 0, len(doc.Inputs)),
	}

	if doc.Project != nil {
		if doc.Project.Name == nil {
			return nil, missingField("project.name")
		}
		if doc.Project.MaxSpritesheetSize == nil {
			return nil, missingField("project.max-spritesheet-size")
		}
		size, err := parseSize("project.max-spritesheet-size", doc.Project.MaxSpritesheetSize)
		if err != nil {
			return nil, err
		}
		cfg.Project = &types.ProjectInfo{
			Name:               *doc.Project.Name,
			MaxSpritesheetSize: size,
		}
	}

	for i, inc := range doc.Includes {
		if inc.Path == nil {
			return nil, missingField(fmt.Sprintf("includes[%d].path", i))
		}
		cfg.Includes = append(cfg.Includes, types.IncludeConfig{Path: *inc.Path})
	}

	for i, in := range doc.Inputs {
		if in.Glob == nil {
			return nil, missingField(fmt.Sprintf("inputs[%d].glob", i))
		}
		// Only the syntax is checked here; matching happens elsewhere.
		if _, err := path.Match(*in.Glob, ""); err != nil {
			return nil, fmt.Errorf("inputs[%d].glob %q: %w", i, *in.Glob, err)
		}

		codegen := in.Codegen
		if codegen == "" {
			codegen = types.CodegenNone
		}

		cfg.Inputs = append(cfg.Inputs, types.InputConfig{
			Glob:     *in.Glob,
			Codegen:  codegen,
			Packable: in.Packable,
		})
	}

	return cfg, nil
}
