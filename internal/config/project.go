package config

import (
	"fmt"
	"path/filepath"

	"github.com/13rac1/tarmac/internal/types"
)

// ProjectFilename is the top-level project file name.
const ProjectFilename = "tarmac-project.toml"

const defaultSpritesheetDimension = 1024

type projectFile struct {
	Groups map[string]groupEntry `toml:"groups"`
}

type groupEntry struct {
	Paths              []string `toml:"paths"`
	SpritesheetEnabled bool     `toml:"spritesheet-enabled"`
	MaxSpritesheetSize []int    `toml:"max-spritesheet-size"`
}

// LoadProject reads a tarmac-project.toml. path may name the file directly
// or a folder containing it. Every group path in the result is absolute:
// relative entries are joined onto the folder holding the project file.
func LoadProject(path string) (*types.ProjectConfig, error) {
	filePath, err := resolveFile(path, ProjectFilename)
	if err != nil {
		return nil, err
	}

	var doc projectFile
	if err := decodeStrict(filePath, &doc); err != nil {
		return nil, err
	}

	project, err := doc.toProjectConfig(filepath.Dir(filePath))
	if err != nil {
		return nil, tomlError(filePath, err)
	}
	project.FilePath = filePath

	return project, nil
}

func (doc *projectFile) toProjectConfig(projectFolder string) (*types.ProjectConfig, error) {
	project := &types.ProjectConfig{
		Groups: make(map[string]types.GroupConfig, len(doc.Groups)),
	}

	for name, entry := range doc.Groups {
		if entry.Paths == nil {
			return nil, missingField(fmt.Sprintf("groups.%s.paths", name))
		}

		size := types.Size{Width: defaultSpritesheetDimension, Height: defaultSpritesheetDimension}
		if entry.MaxSpritesheetSize != nil {
			var err error
			size, err = parseSize(fmt.Sprintf("groups.%s.max-spritesheet-size", name), entry.MaxSpritesheetSize)
			if err != nil {
				return nil, err
			}
		}

		project.Groups[name] = types.GroupConfig{
			Paths:              anchorPaths(projectFolder, entry.Paths),
			SpritesheetEnabled: entry.SpritesheetEnabled,
			MaxSpritesheetSize: size,
		}
	}

	return project, nil
}

// anchorPaths makes every relative path absolute against folder.
func anchorPaths(folder string, paths []string) []string {
	anchored := make([]string, 0, len(paths))
	for _, p := range paths {
		if filepath.IsAbs(p) {
			anchored = append(anchored, p)
			continue
		}
		anchored = append(anchored, filepath.Join(folder, p))
	}
	return anchored
}
