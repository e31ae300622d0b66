package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/stackignore/internal/config"
	ierrors "github.com/Aman-CERP/stackignore/internal/errors"
)

func TestConfigInit_CreatesLoadableProjectConfig(t *testing.T) {
	// Given: an empty project
	isolateConfig(t)
	dir := t.TempDir()

	// When: creating the project config
	stdout, _, err := execute(t, "config", "init", dir)
	require.NoError(t, err)

	// Then: the template exists and loads without error
	path := filepath.Join(dir, ".stackignore.yaml")
	assert.FileExists(t, path)
	assert.Contains(t, stdout, path)
	cfg, err := config.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, ".gitignore", cfg.Output.File)
}

func TestConfigInit_RefusesOverwrite(t *testing.T) {
	isolateConfig(t)
	dir := project(t, map[string]string{".stackignore.yaml": "version: 1\n"})

	_, _, err := execute(t, "config", "init", dir)
	require.Error(t, err)
	assert.Equal(t, ierrors.ErrCodeFileExists, ierrors.GetCode(err))

	_, _, err = execute(t, "config", "init", "--force", dir)
	require.NoError(t, err)
	assert.NotEqual(t, "version: 1\n", readFile(t, filepath.Join(dir, ".stackignore.yaml")))
}

func TestConfigInit_User(t *testing.T) {
	isolateConfig(t)

	_, _, err := execute(t, "config", "init", "--user")

	require.NoError(t, err)
	assert.FileExists(t, config.GetUserConfigPath())
}

func TestConfigShow_MergedJSON(t *testing.T) {
	isolateConfig(t)
	dir := project(t, map[string]string{".stackignore.yaml": "stacks:\n  skip: [docker]\n"})

	stdout, _, err := execute(t, "config", "show", "--json", dir)
	require.NoError(t, err)

	var cfg config.Config
	require.NoError(t, json.Unmarshal([]byte(stdout), &cfg))
	assert.Equal(t, []string{"docker"}, cfg.Stacks.Skip)
	assert.Equal(t, "5s", cfg.Git.Timeout)
}

func TestConfigShow_Sources(t *testing.T) {
	isolateConfig(t)
	dir := t.TempDir()

	stdout, _, err := execute(t, "config", "show", "--source", "defaults", dir)
	require.NoError(t, err)
	assert.Contains(t, stdout, "file: .gitignore")

	_, _, err = execute(t, "config", "show", "--source", "project", dir)
	assert.Equal(t, ierrors.ErrCodeConfigNotFound, ierrors.GetCode(err))

	_, _, err = execute(t, "config", "show", "--source", "user", dir)
	assert.Equal(t, ierrors.ErrCodeConfigNotFound, ierrors.GetCode(err))

	_, _, err = execute(t, "config", "show", "--source", "nope", dir)
	assert.Equal(t, ierrors.ErrCodeInvalidInput, ierrors.GetCode(err))
}

func TestConfigPath(t *testing.T) {
	isolateConfig(t)
	dir := project(t, map[string]string{".stackignore.yml": "version: 1\n"})

	stdout, _, err := execute(t, "config", "path", dir)

	require.NoError(t, err)
	assert.Contains(t, stdout, config.GetUserConfigPath())
	assert.Contains(t, stdout, filepath.Join(dir, ".stackignore.yml"))
}

func TestConfigShow_MissingDirectory(t *testing.T) {
	isolateConfig(t)
	missing := filepath.Join(t.TempDir(), "gone")
	require.NoDirExists(t, missing)

	_, _, err := execute(t, "config", "show", missing)

	assert.Equal(t, ierrors.ErrCodeDirNotFound, ierrors.GetCode(err))
	_, statErr := os.Stat(missing)
	assert.True(t, os.IsNotExist(statErr))
}

func TestConfigShow_OutputWritesLoadableYAML(t *testing.T) {
	// Given: a project that skips docker
	isolateConfig(t)
	dir := project(t, map[string]string{".stackignore.yaml": "stacks:\n  skip: [docker]\n"})
	target := filepath.Join(t.TempDir(), "snapshot.yaml")

	// When: saving the merged configuration
	stdout, _, err := execute(t, "config", "show", "--output", target, dir)
	require.NoError(t, err)

	// Then: the snapshot is a project config that reproduces the merge
	assert.Contains(t, stdout, target)
	other := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(other, ".stackignore.yaml"), []byte(readFile(t, target)), 0o644))
	cfg, err := config.Load(other)
	require.NoError(t, err)
	assert.Equal(t, []string{"docker"}, cfg.Stacks.Skip)
}

func TestConfigShow_OutputRejectsJSON(t *testing.T) {
	isolateConfig(t)

	_, _, err := execute(t, "config", "show", "--json", "--output", filepath.Join(t.TempDir(), "c.yaml"), t.TempDir())

	assert.Equal(t, ierrors.ErrCodeInvalidInput, ierrors.GetCode(err))
}
