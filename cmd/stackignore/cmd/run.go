package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/stackignore/internal/audit"
	"github.com/Aman-CERP/stackignore/internal/config"
	"github.com/Aman-CERP/stackignore/internal/detect"
	ierrors "github.com/Aman-CERP/stackignore/internal/errors"
	"github.com/Aman-CERP/stackignore/internal/generate"
	"github.com/Aman-CERP/stackignore/internal/gitignore"
	"github.com/Aman-CERP/stackignore/internal/ignorefile"
	"github.com/Aman-CERP/stackignore/internal/output"
	"github.com/Aman-CERP/stackignore/internal/templates"
)

type runOptions struct {
	dryRun  bool
	merge   bool
	check   bool
	force   bool
	jsonOut bool
	strict  bool
	verbose bool
}

// Report is the --json payload.
type Report struct {
	Stacks        []detect.Stack `json:"stacks"`
	GeneratedText string         `json:"generatedText"`
	Violations    []string       `json:"violations"`
}

// runStackignore runs one invocation. In --json mode a failure is also
// written to stdout as a JSON error object.
func runStackignore(ctx context.Context, cmd *cobra.Command, dir string, opts runOptions) error {
	err := run(ctx, cmd, dir, opts)
	if err != nil && opts.jsonOut {
		if data, jerr := ierrors.FormatJSON(err); jerr == nil {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), string(data))
		}
	}
	return err
}

func run(ctx context.Context, cmd *cobra.Command, dir string, opts runOptions) error {
	if opts.merge && opts.force {
		return ierrors.New(ierrors.ErrCodeInvalidFlags, "--merge and --force cannot be used together", nil).
			WithSuggestion("Use --merge to keep existing patterns or --force to replace the file")
	}

	abs, err := resolveDir(dir)
	if err != nil {
		return err
	}

	cfg, err := config.Load(abs)
	if err != nil {
		return ierrors.ConfigError(err.Error(), err).
			WithSuggestion("Fix the configuration file or run 'stackignore config show'")
	}

	logger := commandLogger(cmd, cfg.LogLevel)

	stacks := skipStacks(detect.Dir(abs, logger), cfg.Stacks.Skip)
	gen := generate.New(
		generate.WithRegistry(templates.Default().WithOverrides(cfg.Stacks.Templates)),
		generate.WithExtraPatterns(cfg.Patterns.Extra),
	)
	generated := gen.Generate(stacks)

	file := ignorefile.New(abs, cfg.Output.File)
	exists, err := file.Exists()
	if err != nil {
		return ierrors.New(ierrors.ErrCodeFileRead, fmt.Sprintf("cannot use %s", file.Path()), err).
			WithDetail("path", file.Path())
	}

	final := generated
	var existing string
	merging := opts.merge && exists
	if merging {
		if existing, err = file.Read(); err != nil {
			return ierrors.New(ierrors.ErrCodeFileRead, fmt.Sprintf("cannot read %s", file.Path()), err).
				WithDetail("path", file.Path())
		}
		final = gitignore.Merge(existing, generated)
	}

	stdout := cmd.OutOrStdout()
	useColor := !opts.jsonOut && output.ColorEnabled(stdout, noColor, cfg.ColorEnabled())
	out := output.NewWithColor(stdout, useColor)

	rep := Report{
		Stacks:        stacks,
		GeneratedText: final,
		Violations:    []string{},
	}
	if rep.Stacks == nil {
		rep.Stacks = []detect.Stack{}
	}

	switch {
	case opts.check:
		auditor := audit.New(
			audit.WithLister(audit.DefaultLister(cfg.GitTimeout())),
			audit.WithStrict(opts.strict || cfg.Git.Strict),
			audit.WithLogger(logger),
		)
		violations := auditor.Explain(ctx, abs, final)
		for _, v := range violations {
			rep.Violations = append(rep.Violations, v.Path)
		}
		if opts.jsonOut {
			return writeJSON(stdout, rep)
		}
		printStacks(out, stacks, opts.verbose)
		printViolations(out, violations, opts.verbose)
		return nil

	case opts.dryRun:
		if opts.jsonOut {
			return writeJSON(stdout, rep)
		}
		printStacks(out, stacks, opts.verbose)
		out.Header("Preview of " + file.Path())
		out.IgnoreText(final)
		return nil
	}

	if exists && !opts.merge && !opts.force {
		return ierrors.New(ierrors.ErrCodeFileExists, fmt.Sprintf("%s already exists", file.Path()), nil).
			WithDetail("path", file.Path()).
			WithSuggestion("Use --merge to add missing patterns, --force to overwrite, or --dry-run to preview")
	}

	added := gitignore.ParsePatterns(final)
	if merging {
		added, _ = gitignore.DiffPatterns(existing, final)
		if len(added) == 0 {
			logger.Debug("ignore file already complete", slog.String("path", file.Path()))
			if opts.jsonOut {
				return writeJSON(stdout, rep)
			}
			printStacks(out, stacks, opts.verbose)
			out.Statusf("✓", "%s already contains every generated pattern", file.Path())
			return nil
		}
	}

	if err := file.Write(ctx, final); err != nil {
		return writeError(file.Path(), err)
	}
	logger.Info("ignore file written",
		slog.String("path", file.Path()),
		slog.Bool("merged", merging),
		slog.Int("patterns", len(added)))

	if opts.jsonOut {
		return writeJSON(stdout, rep)
	}
	printStacks(out, stacks, opts.verbose)
	if merging {
		out.Successf("Added %d patterns to %s", len(added), file.Path())
		if opts.verbose {
			for _, p := range added {
				out.Bullet(p)
			}
		}
		return nil
	}
	out.Successf("Wrote %s (%d patterns)", file.Path(), len(added))
	return nil
}

// resolveDir makes dir absolute and checks that it is a directory.
func resolveDir(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err == nil {
		var info os.FileInfo
		if info, err = os.Stat(abs); err == nil && info.IsDir() {
			return abs, nil
		}
	}
	return "", ierrors.New(ierrors.ErrCodeDirNotFound, "directory not found: "+dir, err).
		WithDetail("path", dir).
		WithSuggestion("Pass an existing project directory")
}

// skipStacks drops stacks the configuration excludes.
func skipStacks(stacks []detect.Stack, skip []string) []detect.Stack {
	if len(skip) == 0 {
		return stacks
	}
	return slices.DeleteFunc(stacks, func(s detect.Stack) bool {
		return slices.Contains(skip, s.Name)
	})
}

func writeError(path string, err error) error {
	if errors.Is(err, fs.ErrPermission) {
		return ierrors.New(ierrors.ErrCodeFilePermission, "permission denied writing "+path, err).
			WithDetail("path", path).
			WithSuggestion("Check write permissions on the project directory")
	}
	return ierrors.IOError("failed to write "+path, err).WithDetail("path", path)
}

func writeJSON(w io.Writer, rep Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}

func printStacks(out *output.Writer, stacks []detect.Stack, verbose bool) {
	if len(stacks) == 0 {
		out.Warning("No stacks detected, using common patterns only")
		return
	}
	out.Header("Detected stacks")
	for _, s := range stacks {
		value := "(" + s.Confidence.String() + ")"
		if verbose {
			value += " " + strings.Join(s.Evidence, ", ")
		}
		out.Item(s.Name, value)
	}
	out.Newline()
}

func printViolations(out *output.Writer, violations []audit.Violation, verbose bool) {
	if len(violations) == 0 {
		out.Success("No tracked files match the generated patterns")
		return
	}
	out.Warningf("%d tracked files match the generated patterns", len(violations))
	for _, v := range violations {
		if verbose {
			out.Bullet(fmt.Sprintf("%s  (%s)", v.Path, v.Pattern))
			continue
		}
		out.Bullet(v.Path)
	}
	paths := make([]string, 0, len(violations))
	for _, v := range violations {
		paths = append(paths, quoteArg(v.Path))
	}
	out.Status("💡", "Stop tracking them (the files stay on disk) with:")
	out.Code("git rm --cached -- " + strings.Join(paths, " "))
}

// quoteArg single-quotes a path for a POSIX shell when it needs it.
func quoteArg(s string) string {
	if s != "" && strings.IndexFunc(s, func(r rune) bool {
		return !(r == '/' || r == '.' || r == '-' || r == '_' ||
			(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9'))
	}) < 0 {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
