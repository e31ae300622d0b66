// Package ignorefile reads and writes the project's ignore file.
package ignorefile

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/renameio"
)

// DefaultName is the ignore file written when no other name is configured.
const DefaultName = ".gitignore"

// lockRetryDelay is how often a contended lock is retried.
const lockRetryDelay = 50 * time.Millisecond

// ErrIsDirectory is returned when the ignore file path names a directory.
var ErrIsDirectory = errors.New("ignore file path is a directory")

// File is an ignore file inside a project directory.
type File struct {
	path     string
	lockPath string
}

// New returns the ignore file called name inside dir.
// An empty name means DefaultName.
func New(dir, name string) *File {
	if name == "" {
		name = DefaultName
	}
	path := filepath.Join(dir, name)
	return &File{path: path, lockPath: lockPathFor(path)}
}

// Path returns the file path.
func (f *File) Path() string {
	return f.path
}

// LockPath returns the advisory lock guarding writes to the file.
func (f *File) LockPath() string {
	return f.lockPath
}

// LockDir is where lock files live: the user cache directory, or the
// system temp directory when there is none. Lock files stay outside the
// project so they never show up as untracked files.
func LockDir() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = os.TempDir()
	}
	return filepath.Join(base, "stackignore", "locks")
}

// lockPathFor names the lock after the absolute target path, so every
// process writing the same file contends on the same lock.
func lockPathFor(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	sum := sha256.Sum256([]byte(path))
	return filepath.Join(LockDir(), hex.EncodeToString(sum[:8])+".lock")
}

// Exists reports whether the file exists.
func (f *File) Exists() (bool, error) {
	info, err := os.Stat(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("stat %s: %w", f.path, err)
	}
	if info.IsDir() {
		return true, fmt.Errorf("%s: %w", f.path, ErrIsDirectory)
	}
	return true, nil
}

// Read returns the file content. A missing file reads as empty.
func (f *File) Read() (string, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("reading %s: %w", f.path, err)
	}
	return string(data), nil
}

// Write replaces the file with content.
//
// The replacement is atomic: content goes to a temporary file in the same
// directory which is then renamed over the target. An advisory lock
// serialises concurrent stackignore runs on the same file. The lock file is
// never removed: unlinking a flock file lets a waiter on the old inode and a
// newcomer on a fresh one hold the lock at once.
// The existing file mode is preserved.
func (f *File) Write(ctx context.Context, content string) error {
	if err := os.MkdirAll(filepath.Dir(f.lockPath), 0o755); err != nil {
		return fmt.Errorf("failed to create lock directory: %w", err)
	}
	lock := flock.New(f.lockPath)

	locked, err := lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return fmt.Errorf("failed to acquire lock %s: %w", f.lockPath, err)
	}
	if !locked {
		return fmt.Errorf("failed to acquire lock %s", f.lockPath)
	}
	defer func() { _ = lock.Unlock() }()

	perm := fs.FileMode(0o644)
	if info, err := os.Stat(f.path); err == nil {
		if info.IsDir() {
			return fmt.Errorf("%s: %w", f.path, ErrIsDirectory)
		}
		perm = info.Mode().Perm()
	}

	if err := renameio.WriteFile(f.path, []byte(content), perm); err != nil {
		return fmt.Errorf("writing %s: %w", f.path, err)
	}
	return nil
}
