package audit

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
)

// DefaultTimeout bounds the git query.
const DefaultTimeout = 5 * time.Second

// ErrTimeout is returned when the tracked-file query exceeds its timeout.
var ErrTimeout = errors.New("tracked-file query timed out")

// Lister returns the paths tracked by version control under dir,
// slash-separated and relative to dir.
type Lister interface {
	TrackedFiles(ctx context.Context, dir string) ([]string, error)
}

// GitCommand lists tracked files by running "git ls-files".
type GitCommand struct {
	// Binary is the git executable. Empty means "git" on PATH.
	Binary string
	// Timeout bounds the command. Zero means DefaultTimeout.
	Timeout time.Duration
}

// TrackedFiles implements Lister.
func (g GitCommand) TrackedFiles(ctx context.Context, dir string) ([]string, error) {
	bin := g.Binary
	if bin == "" {
		bin = "git"
	}
	timeout := g.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	// -z keeps paths unquoted
	cmd := exec.CommandContext(ctx, bin, "ls-files", "-z")
	cmd.Dir = dir
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w after %s", ErrTimeout, timeout)
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("git ls-files: %s: %w", msg, err)
		}
		return nil, fmt.Errorf("git ls-files: %w", err)
	}

	var paths []string
	for _, p := range strings.Split(string(out), "\x00") {
		if p != "" {
			paths = append(paths, p)
		}
	}
	return paths, nil
}

// GoGitIndex lists tracked files by reading the repository index with go-git.
// It needs no git binary.
type GoGitIndex struct{}

// TrackedFiles implements Lister.
func (GoGitIndex) TrackedFiles(ctx context.Context, dir string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("open repository: %w", err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("open worktree: %w", err)
	}

	idx, err := repo.Storer.Index()
	if err != nil {
		return nil, fmt.Errorf("read index: %w", err)
	}

	prefix, err := relPrefix(wt.Filesystem.Root(), dir)
	if err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(idx.Entries))
	for _, e := range idx.Entries {
		name := e.Name
		if prefix != "" {
			rest, ok := strings.CutPrefix(name, prefix+"/")
			if !ok {
				continue
			}
			name = rest
		}
		paths = append(paths, name)
	}
	return paths, nil
}

// relPrefix returns dir relative to the worktree root, slash-separated,
// or "" when dir is the root.
func relPrefix(root, dir string) (string, error) {
	absRoot, err := resolve(root)
	if err != nil {
		return "", err
	}
	absDir, err := resolve(dir)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(absRoot, absDir)
	if err != nil {
		return "", fmt.Errorf("resolve %s against worktree: %w", dir, err)
	}
	if rel == "." {
		return "", nil
	}
	return filepath.ToSlash(rel), nil
}

func resolve(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", p, err)
	}
	if real, err := filepath.EvalSymlinks(abs); err == nil {
		return real, nil
	}
	return abs, nil
}

// DefaultLister returns a GitCommand when git is on PATH, otherwise GoGitIndex.
func DefaultLister(timeout time.Duration) Lister {
	if _, err := exec.LookPath("git"); err != nil {
		return GoGitIndex{}
	}
	return GitCommand{Timeout: timeout}
}
