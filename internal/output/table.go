// Package output renders project summaries as tables or JSON on stdout.
package output

import (
	"fmt"
	"os"
	"strconv"

	"github.com/13rac1/tarmac/internal/types"
	"github.com/olekukonko/tablewriter"
)

// PrintGroups formats and prints group search paths as an ASCII table.
func PrintGroups(groups []types.GroupPath) {
	if len(groups) == 0 {
		fmt.Println("No groups found.")
		return
	}

	fmt.Println("Groups")
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Group", "Path", "Config", "Inputs", "Includes")

	for _, g := range groups {
		table.Append(g.Group, g.Path, configStatus(g), formatCount(g.Inputs), formatCount(g.Includes))
	}

	table.Render()
}

// PrintMirrored formats and prints mirrored images as an ASCII table.
func PrintMirrored(images []types.MirroredImage) {
	if len(images) == 0 {
		fmt.Println("No mirrored images found.")
		return
	}

	fmt.Println("Mirrored Images")
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Name", "Hash", "Size", "Key")

	for _, img := range images {
		table.Append(img.Name, img.Hash, strconv.FormatInt(img.Size, 10), img.Key)
	}

	table.Render()
}

// formatCount formats a count for display, using "-" for zero values.
func formatCount(count int) string {
	if count == 0 {
		return "-"
	}
	return strconv.Itoa(count)
}

// configStatus describes whether a search path holds a usable tarmac.toml.
func configStatus(g types.GroupPath) string {
	switch {
	case g.Err != nil:
		return "Error"
	case !g.Exists:
		return "Missing path"
	case g.HasConfig:
		return "OK"
	default:
		return "-"
	}
}
