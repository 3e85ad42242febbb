package output

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/13rac1/tarmac/internal/types"
)

// JSONOutput represents the complete JSON output structure.
type JSONOutput struct {
	GeneratedAt string                `json:"generatedAt"`
	Project     ProjectInfo           `json:"project"`
	Groups      []GroupPath           `json:"groups"`
	Mirrored    []types.MirroredImage `json:"mirrored,omitempty"`
}

// ProjectInfo holds project file details for JSON output.
type ProjectInfo struct {
	File   string        `json:"file"`
	Groups []GroupConfig `json:"groups"`
}

// GroupConfig represents one project group in JSON output.
type GroupConfig struct {
	Name               string   `json:"name"`
	Paths              []string `json:"paths"`
	SpritesheetEnabled bool     `json:"spritesheetEnabled"`
	MaxSpritesheetSize [2]int   `json:"maxSpritesheetSize"`
}

// GroupPath represents one probed search path in JSON output.
type GroupPath struct {
	Group     string `json:"group"`
	Path      string `json:"path"`
	Exists    bool   `json:"exists"`
	HasConfig bool   `json:"hasConfig"`
	Inputs    int    `json:"inputs"`
	Includes  int    `json:"includes"`
	Error     string `json:"error,omitempty"`
}

// PrintJSON formats and prints the project summary as JSON to stdout.
// mirrored may be nil when the mirror was not listed.
func PrintJSON(project *types.ProjectConfig, groups []types.GroupPath, mirrored []types.MirroredImage) error {
	output := JSONOutput{
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Project:     buildProjectInfo(project),
		Groups:      buildGroupPaths(groups),
		Mirrored:    mirrored,
	}

	data, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}

	fmt.Println(string(data))
	return nil
}

// buildProjectInfo extracts project information for JSON output.
func buildProjectInfo(project *types.ProjectConfig) ProjectInfo {
	info := ProjectInfo{
		File:   project.FilePath,
		Groups: make([]GroupConfig, 0, len(project.Groups)),
	}

	for _, name := range project.GroupNames() {
		g := project.Groups[name]
		info.Groups = append(info.Groups, GroupConfig{
			Name:               name,
			Paths:              g.Paths,
			SpritesheetEnabled: g.SpritesheetEnabled,
			MaxSpritesheetSize: [2]int{g.MaxSpritesheetSize.Width, g.MaxSpritesheetSize.Height},
		})
	}

	return info
}

// buildGroupPaths converts probe results, flattening errors to strings.
func buildGroupPaths(groups []types.GroupPath) []GroupPath {
	out := make([]GroupPath, 0, len(groups))

	for _, g := range groups {
		gp := GroupPath{
			Group:     g.Group,
			Path:      g.Path,
			Exists:    g.Exists,
			HasConfig: g.HasConfig,
			Inputs:    g.Inputs,
			Includes:  g.Includes,
		}
		if g.Err != nil {
			gp.Error = g.Err.Error()
		}
		out = append(out, gp)
	}

	return out
}
