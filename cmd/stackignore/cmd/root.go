// Package cmd provides the CLI commands for stackignore.
package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	ierrors "github.com/Aman-CERP/stackignore/internal/errors"
	"github.com/Aman-CERP/stackignore/internal/logging"
	"github.com/Aman-CERP/stackignore/pkg/version"
)

// Persistent flags
var (
	debugMode      bool
	noColor        bool
	loggingCleanup func()
)

// NewRootCmd creates the root command for the stackignore CLI.
func NewRootCmd() *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "stackignore [dir]",
		Short: "Generate a .gitignore for the stacks a project uses",
		Long: `stackignore looks at the top level of a project directory, works out
which technology stacks it uses from marker files, directories and file
extensions, and writes a .gitignore tailored to those stacks.

With --check it instead reports version-controlled files that the generated
patterns would ignore.`,
		Example: `  # Write .gitignore for the current directory
  stackignore

  # Preview without writing
  stackignore --dry-run ./service

  # Add missing patterns to an existing .gitignore
  stackignore --merge

  # List tracked files the patterns would hide
  stackignore --check --verbose`,
		Args:          cobra.MaximumNArgs(1),
		Version:       version.Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			return runStackignore(cmd.Context(), cmd, dir, opts)
		},
	}

	cmd.SetVersionTemplate("stackignore version {{.Version}}\n")
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return ierrors.New(ierrors.ErrCodeInvalidFlags, err.Error(), err).
			WithSuggestion("Run 'stackignore --help' for usage")
	})

	cmd.Flags().BoolVarP(&opts.dryRun, "dry-run", "n", false, "Print the generated file instead of writing it")
	cmd.Flags().BoolVarP(&opts.merge, "merge", "m", false, "Append missing patterns to the existing file")
	cmd.Flags().BoolVarP(&opts.check, "check", "c", false, "Report tracked files the patterns would ignore")
	cmd.Flags().BoolVarP(&opts.force, "force", "f", false, "Overwrite an existing file")
	cmd.Flags().BoolVar(&opts.jsonOut, "json", false, "Output results as JSON")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "Use git's exact pattern rules for --check")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Show evidence and matching patterns")

	cmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging to ~/.stackignore/logs/")
	cmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	cmd.PersistentPreRunE = startLogging
	cmd.PersistentPostRunE = func(_ *cobra.Command, _ []string) error {
		stopLogging()
		return nil
	}

	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// startLogging enables file logging when --debug is set.
func startLogging(_ *cobra.Command, _ []string) error {
	if !debugMode || loggingCleanup != nil {
		return nil
	}

	cfg := logging.DebugConfig()
	logger, cleanup, err := logging.Setup(cfg)
	if err != nil {
		return fmt.Errorf("failed to setup debug logging: %w", err)
	}
	loggingCleanup = cleanup
	slog.SetDefault(logger)
	slog.Info("Debug logging enabled",
		slog.String("log_file", cfg.FilePath),
		slog.String("version", version.Version))
	return nil
}

// stopLogging flushes and closes the debug log, if open.
func stopLogging() {
	if loggingCleanup == nil {
		return
	}
	slog.Info("Debug logging stopped")
	loggingCleanup()
	loggingCleanup = nil
}

// commandLogger returns the logger for a run: the debug file logger when
// --debug is set, otherwise a console logger on stderr.
func commandLogger(cmd *cobra.Command, level string) *slog.Logger {
	if debugMode {
		return slog.Default()
	}
	return logging.NewConsole(cmd.ErrOrStderr(), level)
}

// Execute runs the root command and prints any error to stderr.
func Execute(ctx context.Context) error {
	err := NewRootCmd().ExecuteContext(ctx)
	if err != nil && loggingCleanup != nil {
		slog.Error("command failed", slog.Any("error", ierrors.FormatForLog(err)))
	}
	// PersistentPostRunE is skipped when RunE fails
	stopLogging()
	if err != nil {
		renderError(os.Stderr, err)
	}
	return err
}

// renderError prints err for a terminal. --debug adds details and the cause.
func renderError(w io.Writer, err error) {
	if debugMode {
		_, _ = fmt.Fprintln(w, ierrors.FormatForUser(err, true))
		return
	}
	_, _ = fmt.Fprint(w, ierrors.FormatForCLI(err))
}

// ExitCode maps err to the process exit status: 0 on success, 2 for
// invalid flags or input, 1 otherwise.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	switch ierrors.GetCode(err) {
	case ierrors.ErrCodeInvalidFlags, ierrors.ErrCodeInvalidInput:
		return 2
	default:
		return 1
	}
}
