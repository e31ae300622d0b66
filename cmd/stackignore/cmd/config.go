package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Aman-CERP/stackignore/configs"
	"github.com/Aman-CERP/stackignore/internal/config"
	ierrors "github.com/Aman-CERP/stackignore/internal/errors"
	"github.com/Aman-CERP/stackignore/internal/output"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
		Long: `Manage stackignore configuration files.

Configuration precedence (lowest to highest):
  1. Hardcoded defaults
  2. User config (~/.config/stackignore/config.yaml)
  3. Project config (.stackignore.yaml)
  4. Environment variables (STACKIGNORE_*)
  5. Command-line flags`,
		Example: `  # Create .stackignore.yaml in the current project
  stackignore config init

  # Show effective configuration
  stackignore config show

  # Print config file locations
  stackignore config path`,
	}

	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigShowCmd())
	cmd.AddCommand(newConfigPathCmd())

	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var (
		user  bool
		force bool
	)

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Create a configuration file from a template",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := output.NewWithColor(cmd.OutOrStdout(), output.ColorEnabled(cmd.OutOrStdout(), noColor, true))

			path, template := config.GetUserConfigPath(), configs.UserConfigTemplate
			if !user {
				dir := "."
				if len(args) > 0 {
					dir = args[0]
				}
				abs, err := resolveDir(dir)
				if err != nil {
					return err
				}
				path, template = filepath.Join(abs, config.ProjectFileNames[0]), configs.ProjectConfigTemplate
			}

			if _, err := os.Stat(path); err == nil && !force {
				return ierrors.New(ierrors.ErrCodeFileExists, path+" already exists", nil).
					WithDetail("path", path).
					WithSuggestion("Use --force to overwrite it")
			}

			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return writeError(path, err)
			}
			if err := os.WriteFile(path, []byte(template), 0o644); err != nil {
				return writeError(path, err)
			}

			out.Success("Created configuration")
			out.Statusf("📁", "Location: %s", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&user, "user", false, "Create the user config instead of a project config")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")

	return cmd
}

func newConfigShowCmd() *cobra.Command {
	var (
		jsonOutput bool
		source     string
		outputPath string
	)

	cmd := &cobra.Command{
		Use:   "show [dir]",
		Short: "Show effective configuration",
		Long: `Show the configuration after merging all sources for a project directory.

Use --source to show a single layer: merged, user, project or defaults.
Use --output to save the result as a YAML config file.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			abs, err := resolveDir(dir)
			if err != nil {
				return err
			}

			cfg, err := configForSource(source, abs)
			if err != nil {
				return err
			}

			if outputPath != "" {
				if jsonOutput {
					return ierrors.ValidationError("--output writes YAML and cannot be combined with --json", nil)
				}
				if err := cfg.WriteYAML(outputPath); err != nil {
					return writeError(outputPath, err)
				}
				out := output.NewWithColor(cmd.OutOrStdout(), output.ColorEnabled(cmd.OutOrStdout(), noColor, true))
				out.Successf("Saved %s configuration to %s", source, outputPath)
				return nil
			}

			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(cfg)
			}
			data, err := cfg.YAML()
			if err != nil {
				return ierrors.InternalError("failed to render configuration", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().StringVar(&source, "source", "merged", "Config source: merged, user, project, defaults")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write the configuration to this YAML file")

	return cmd
}

// configForSource loads one configuration layer.
func configForSource(source, dir string) (*config.Config, error) {
	readLayer := func(path string) (*config.Config, error) {
		cfg := config.NewConfig()
		if path == "" {
			return cfg, nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, ierrors.New(ierrors.ErrCodeConfigNotFound, "cannot read "+path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, ierrors.ConfigError(fmt.Sprintf("failed to parse %s", path), err)
		}
		return cfg, nil
	}

	switch source {
	case "merged":
		cfg, err := config.Load(dir)
		if err != nil {
			return nil, ierrors.ConfigError(err.Error(), err)
		}
		return cfg, nil
	case "user":
		path := config.GetUserConfigPath()
		if _, err := os.Stat(path); err != nil {
			return nil, ierrors.New(ierrors.ErrCodeConfigNotFound, "no user configuration at "+path, err).
				WithSuggestion("Run 'stackignore config init --user' to create one")
		}
		return readLayer(path)
	case "project":
		path := config.ProjectConfigPath(dir)
		if path == "" {
			return nil, ierrors.New(ierrors.ErrCodeConfigNotFound, "no project configuration for "+dir, nil).
				WithSuggestion("Run 'stackignore config init' to create one")
		}
		return readLayer(path)
	case "defaults":
		return config.NewConfig(), nil
	default:
		return nil, ierrors.ValidationError(
			fmt.Sprintf("unknown source %q (use: merged, user, project, defaults)", source), nil)
	}
}

func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path [dir]",
		Short: "Print configuration file locations",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			project := config.ProjectConfigPath(dir)
			if project == "" {
				project = "(none)"
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "user:    %s\nproject: %s\n", config.GetUserConfigPath(), project)
			return err
		},
	}
}
