// Package doctor checks that a tarmac project and the user settings are
// ready for uploads.
package doctor

import (
	"context"
	"fmt"
	"io"

	"github.com/13rac1/tarmac/internal/config"
	"github.com/13rac1/tarmac/internal/discover"
	"github.com/13rac1/tarmac/internal/types"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const (
	colorGreen = "\033[32m"
	colorRed   = "\033[31m"
	colorReset = "\033[0m"
)

func checkmark() string {
	return colorGreen + "✓" + colorReset
}

func crossmark() string {
	return colorRed + "✗" + colorReset
}

// BucketClient is the S3 call used to verify mirror connectivity.
type BucketClient interface {
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
}

// Options selects what RunChecks inspects.
type Options struct {
	ProjectPath  string
	SettingsPath string

	// NewBucketClient builds the client for the mirror connectivity check.
	// Nil skips remote checks.
	NewBucketClient func(ctx context.Context, settings *types.Settings) (BucketClient, error)
}

// RunChecks performs all doctor checks, writing a report to w, and returns
// whether all passed.
func RunChecks(ctx context.Context, w io.Writer, opts Options) bool {
	fmt.Fprintln(w, "tarmac doctor - Project and settings check")
	fmt.Fprintln(w)

	allPassed := checkProject(w, opts.ProjectPath)
	fmt.Fprintln(w)

	if !checkSettings(ctx, w, opts) {
		allPassed = false
	}
	fmt.Fprintln(w)

	printSummary(w, allPassed)
	return allPassed
}

func checkProject(w io.Writer, projectPath string) bool {
	fmt.Fprintln(w, "Project:")

	project, err := config.LoadProject(projectPath)
	if err != nil {
		fmt.Fprintf(w, "  %s Cannot load project file\n", crossmark())
		fmt.Fprintf(w, "    → Error: %v\n", err)
		if config.IsIO(err) {
			fmt.Fprintf(w, "    → Run from a folder containing %s or pass --project\n", config.ProjectFilename)
		}
		return false
	}
	fmt.Fprintf(w, "  %s Project file loaded: %s\n", checkmark(), project.FilePath)

	if len(project.Groups) == 0 {
		fmt.Fprintf(w, "  %s No groups defined\n", crossmark())
		fmt.Fprintf(w, "    → Add a [groups.<name>] table with paths to %s\n", project.FilePath)
		return false
	}

	groupWord := "groups"
	if len(project.Groups) == 1 {
		groupWord = "group"
	}
	fmt.Fprintf(w, "  %s Found %d %s\n", checkmark(), len(project.Groups), groupWord)

	passed := true
	for _, gp := range discover.Groups(project) {
		switch {
		case gp.Err != nil:
			fmt.Fprintf(w, "  %s %s: %s\n", crossmark(), gp.Group, gp.Path)
			fmt.Fprintf(w, "    → Error: %v\n", gp.Err)
			passed = false
		case !gp.Exists:
			fmt.Fprintf(w, "  %s %s: path does not exist: %s\n", crossmark(), gp.Group, gp.Path)
			fmt.Fprintf(w, "    → Create the directory or update groups.%s.paths\n", gp.Group)
			passed = false
		case gp.HasConfig:
			fmt.Fprintf(w, "  %s %s: %s (%d inputs, %d includes)\n", checkmark(), gp.Group, gp.Path, gp.Inputs, gp.Includes)
		default:
			fmt.Fprintf(w, "  %s %s: %s (no %s)\n", checkmark(), gp.Group, gp.Path, config.ConfigFilename)
		}
	}

	return passed
}

func checkSettings(ctx context.Context, w io.Writer, opts Options) bool {
	fmt.Fprintln(w, "Settings:")

	settings, err := config.LoadSettings(opts.SettingsPath)
	if err != nil {
		fmt.Fprintf(w, "  %s Cannot load settings: %s\n", crossmark(), opts.SettingsPath)
		fmt.Fprintf(w, "    → Error: %v\n", err)
		return false
	}
	fmt.Fprintf(w, "  %s Settings loaded: %s\n", checkmark(), opts.SettingsPath)

	passed := true

	if settings.Roblox.AuthToken == "" {
		fmt.Fprintf(w, "  %s Roblox auth token not configured\n", crossmark())
		fmt.Fprintf(w, "    → Set roblox.auth_token in %s or the TARMAC_AUTH environment variable\n", opts.SettingsPath)
		passed = false
	} else {
		fmt.Fprintf(w, "  %s Roblox auth token configured\n", checkmark())
	}
	fmt.Fprintf(w, "  %s API base URL: %s\n", checkmark(), settings.Roblox.BaseURL)

	if !settings.Mirror.Enabled {
		fmt.Fprintf(w, "  %s Mirror disabled\n", checkmark())
		return passed
	}

	fmt.Fprintf(w, "  %s Mirror bucket configured: %s\n", checkmark(), settings.Mirror.Bucket)
	fmt.Fprintf(w, "  %s Mirror region configured: %s\n", checkmark(), settings.Mirror.Region)
	fmt.Fprintf(w, "  %s Mirror prefix configured: %s\n", checkmark(), settings.Mirror.Prefix)

	if opts.NewBucketClient == nil {
		return passed
	}

	client, err := opts.NewBucketClient(ctx, settings)
	if err != nil {
		fmt.Fprintf(w, "  %s Cannot create S3 client\n", crossmark())
		fmt.Fprintf(w, "    → Error: %v\n", err)
		return false
	}

	_, err = client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(settings.Mirror.Bucket)})
	if err != nil {
		fmt.Fprintf(w, "  %s Mirror bucket not reachable: %s\n", crossmark(), settings.Mirror.Bucket)
		fmt.Fprintf(w, "    → Error: %v\n", err)
		return false
	}
	fmt.Fprintf(w, "  %s Mirror bucket reachable\n", checkmark())

	return passed
}

func printSummary(w io.Writer, allPassed bool) {
	if allPassed {
		fmt.Fprintln(w, "All checks passed! Ready to upload.")
	} else {
		fmt.Fprintln(w, "Some checks failed. Please fix the issues above.")
	}
}
