package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/13rac1/tarmac/internal/config"
	"github.com/13rac1/tarmac/internal/discover"
	"github.com/13rac1/tarmac/internal/doctor"
	"github.com/13rac1/tarmac/internal/logger"
	"github.com/13rac1/tarmac/internal/manifest"
	"github.com/13rac1/tarmac/internal/output"
	"github.com/13rac1/tarmac/internal/robloxapi"
	"github.com/13rac1/tarmac/internal/types"
	"github.com/13rac1/tarmac/internal/uploader"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	projectPath         string
	settingsPath        string
	defaultSettingsPath string
	verbose             bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "tarmac",
	Short:   "Tarmac - manage and upload Roblox image assets",
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	Long: `tarmac reads tarmac-project.toml and tarmac.toml files describing the
image assets of a Roblox project and uploads images to Roblox.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var (
	uploadName        string
	uploadDescription string
	authToken         string
	force             bool
)

var uploadImageCmd = &cobra.Command{
	Use:   "upload-image <file>",
	Short: "Upload a single image to Roblox",
	Long: `Uploads one image file as a decal and prints its asset ID. Uploads are
recorded in a manifest so unchanged images are not uploaded twice.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := loadSettings()
		if err != nil {
			return err
		}

		token := resolveAuthToken(authToken, settings)
		if token == "" {
			return fmt.Errorf("no auth token: pass --auth, set TARMAC_AUTH, or set roblox.auth_token in %s", settingsPath)
		}

		ctx := cmd.Context()
		log := logger.New(os.Stderr, verbose)

		client := robloxapi.NewClient(token,
			robloxapi.WithBaseURL(settings.Roblox.BaseURL),
			robloxapi.WithLogger(log),
		)

		store, opts, err := buildStore(ctx, settings)
		if err != nil {
			return err
		}
		opts = append(opts, uploader.WithLogger(log))

		u := uploader.New(client, store, opts...)
		res, err := u.UploadFile(ctx, uploader.Request{
			Path:        args[0],
			Name:        uploadName,
			Description: uploadDescription,
			Force:       force,
		})
		if err != nil {
			return err
		}

		printUploadResult(res, settings)
		return nil
	},
}

var (
	jsonOutput bool
	listMirror bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List project groups and their search paths",
	Long: `Loads tarmac-project.toml and shows, for every group search path, whether
it exists and how many inputs and includes its tarmac.toml declares.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		project, err := loadProject()
		if err != nil {
			return err
		}

		groups := discover.Groups(project)

		var mirrored []types.MirroredImage
		if listMirror {
			mirrored, err = listMirrored(cmd.Context())
			if err != nil {
				return err
			}
		}

		if jsonOutput {
			if err := output.PrintJSON(project, groups, mirrored); err != nil {
				return fmt.Errorf("printing JSON output: %w", err)
			}
			return nil
		}

		output.PrintGroups(groups)
		if listMirror {
			fmt.Println()
			output.PrintMirrored(mirrored)
		}
		return nil
	},
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Validate project files, settings, and connectivity",
	Long: `Checks that the project file loads, every group path exists and its
tarmac.toml parses, an auth token is configured, and the S3 mirror is
reachable when enabled.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		allPassed := doctor.RunChecks(cmd.Context(), os.Stdout, doctor.Options{
			ProjectPath:  projectPath,
			SettingsPath: settingsPath,
			NewBucketClient: func(ctx context.Context, settings *types.Settings) (doctor.BucketClient, error) {
				client, err := config.NewS3Client(ctx, settings)
				if err != nil {
					return nil, err
				}
				return client, nil
			},
		})
		if !allPassed {
			exitFunc(1)
		}
		return nil
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a starter settings file",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.CreateStarterSettings(settingsPath); err != nil {
			return fmt.Errorf("creating starter settings: %w", err)
		}
		printWelcomeMessage(settingsPath)
		return nil
	},
}

func init() {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to get home directory: %v\n", err)
		homeDir = "~"
	}
	defaultSettingsPath = filepath.Join(homeDir, ".tarmac", "settings.yaml")

	rootCmd.PersistentFlags().StringVar(&projectPath, "project", ".", "path to tarmac-project.toml or the folder containing it")
	rootCmd.PersistentFlags().StringVar(&settingsPath, "settings", defaultSettingsPath, "path to user settings file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	uploadImageCmd.Flags().StringVar(&uploadName, "name", "", "asset name (defaults to the file name without extension)")
	uploadImageCmd.Flags().StringVar(&uploadDescription, "description", "", "asset description")
	uploadImageCmd.Flags().StringVar(&authToken, "auth", "", "Roblox auth cookie (overrides TARMAC_AUTH and settings)")
	uploadImageCmd.Flags().BoolVar(&force, "force", false, "upload even if the manifest shows the image unchanged")

	listCmd.Flags().BoolVar(&jsonOutput, "json", false, "output in JSON format")
	listCmd.Flags().BoolVar(&listMirror, "mirror", false, "also list images in the S3 mirror")

	rootCmd.AddCommand(uploadImageCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(initCmd)
}

var exitFunc = os.Exit

func loadSettings() (*types.Settings, error) {
	settings, err := config.LoadSettings(settingsPath)
	if err != nil {
		return nil, fmt.Errorf("loading settings from %s: %w", settingsPath, err)
	}
	return settings, nil
}

func loadProject() (*types.ProjectConfig, error) {
	project, err := config.LoadProject(projectPath)
	if err != nil {
		if config.IsIO(err) && errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("no %s found at %s: %w", config.ProjectFilename, projectPath, err)
		}
		return nil, fmt.Errorf("loading project: %w", err)
	}
	return project, nil
}

// resolveAuthToken applies flag > environment > settings file precedence.
// The environment already overrides the file inside LoadSettings.
func resolveAuthToken(flag string, settings *types.Settings) string {
	if flag != "" {
		return flag
	}
	return settings.Roblox.AuthToken
}

// buildStore picks the manifest store and mirror for uploads. With the mirror
// enabled the manifest lives in the bucket, otherwise next to the project.
func buildStore(ctx context.Context, settings *types.Settings) (manifest.Store, []uploader.Option, error) {
	if !settings.Mirror.Enabled {
		return manifest.NewFileStore(projectFolder()), nil, nil
	}

	client, err := config.NewS3Client(ctx, settings)
	if err != nil {
		return nil, nil, fmt.Errorf("creating S3 client: %w", err)
	}

	store := &manifest.S3Store{
		Client: client,
		Bucket: settings.Mirror.Bucket,
		Key:    manifest.S3Key(settings.Mirror.Prefix),
	}
	mirror := uploader.NewMirror(client, settings.Mirror.Bucket, settings.Mirror.Prefix)

	return store, []uploader.Option{uploader.WithMirror(mirror)}, nil
}

// projectFolder returns the folder named by --project, accepting a path to
// the project file itself.
func projectFolder() string {
	info, err := os.Stat(projectPath)
	if err == nil && !info.IsDir() {
		return filepath.Dir(projectPath)
	}
	return projectPath
}

func listMirrored(ctx context.Context) ([]types.MirroredImage, error) {
	settings, err := loadSettings()
	if err != nil {
		return nil, err
	}
	if !settings.Mirror.Enabled {
		return nil, fmt.Errorf("mirror is not enabled in %s", settingsPath)
	}

	client, err := config.NewS3Client(ctx, settings)
	if err != nil {
		return nil, fmt.Errorf("creating S3 client: %w", err)
	}

	images, err := discover.Mirrored(ctx, client, settings.Mirror.Bucket, settings.Mirror.Prefix)
	if err != nil {
		return nil, fmt.Errorf("listing mirror: %w", err)
	}
	return images, nil
}

func printUploadResult(res *uploader.Result, settings *types.Settings) {
	if res.Skipped {
		fmt.Printf("Unchanged %s (%s), skipped upload\n", res.Name, uploader.FormatSize(res.Size))
	} else {
		fmt.Printf("Uploaded %s (%s)\n", res.Name, uploader.FormatSize(res.Size))
	}
	fmt.Printf("  Asset ID: rbxassetid://%d\n", res.AssetID)
	if res.MirrorKey != "" {
		fmt.Printf("  Mirrored: s3://%s/%s\n", settings.Mirror.Bucket, res.MirrorKey)
	}
}

func printWelcomeMessage(settingsPath string) {
	fmt.Println("Welcome to tarmac!")
	fmt.Println()
	fmt.Printf("A starter settings file has been created at:\n")
	fmt.Printf("  %s\n", settingsPath)
	fmt.Println()
	fmt.Println("Please edit this file and configure:")
	fmt.Println("  1. roblox.auth_token - Your .ROBLOSECURITY cookie (or set TARMAC_AUTH)")
	fmt.Println("  2. mirror.* - Optional S3 bucket to keep a copy of every upload")
	fmt.Println()
	fmt.Println("After configuration, run:")
	fmt.Println("  tarmac doctor                 # Validate project and settings")
	fmt.Println("  tarmac list                   # List project groups")
	fmt.Println("  tarmac upload-image logo.png  # Upload an image")
}

