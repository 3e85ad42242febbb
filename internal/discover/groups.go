// Package discover inspects the search paths of a tarmac project.
// It probes each group path on the local filesystem for a tarmac.toml and
// lists images previously mirrored to S3-compatible storage.
package discover

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/13rac1/tarmac/internal/config"
	"github.com/13rac1/tarmac/internal/types"
)

// Groups probes every search path of every group in project.
// Results are ordered by group name, then by path in declaration order.
// A path without a tarmac.toml is reported with HasConfig false; any other
// failure to load the config is recorded in Err rather than returned, so one
// broken folder does not hide the rest of the project.
// Includes are counted but not followed.
func Groups(project *types.ProjectConfig) []types.GroupPath {
	var paths []types.GroupPath

	for _, name := range project.GroupNames() {
		for _, dir := range project.Groups[name].Paths {
			paths = append(paths, probe(name, dir))
		}
	}

	return paths
}

func probe(group, dir string) types.GroupPath {
	gp := types.GroupPath{Group: group, Path: dir}

	info, err := os.Stat(dir)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			gp.Err = fmt.Errorf("accessing %s: %w", dir, err)
		}
		return gp
	}
	gp.Exists = true

	if !info.IsDir() {
		gp.Err = fmt.Errorf("search path is not a directory: %s", dir)
		return gp
	}

	cfg, err := config.Load(dir)
	switch {
	case err == nil:
		gp.HasConfig = true
		gp.Inputs = len(cfg.Inputs)
		gp.Includes = len(cfg.Includes)
	case config.IsIO(err) && errors.Is(err, fs.ErrNotExist):
		// No tarmac.toml in this folder.
	default:
		gp.Err = err
	}

	return gp
}
