package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ierrors "github.com/Aman-CERP/stackignore/internal/errors"
	"github.com/Aman-CERP/stackignore/internal/generate"
	"github.com/Aman-CERP/stackignore/internal/gitignore"
)

func nodeTSProject(t *testing.T) string {
	return project(t, map[string]string{
		"package.json":  "{}",
		"tsconfig.json": "{}",
		"index.ts":      "export {}",
	})
}

// =============================================================================
// Write
// =============================================================================

func TestRun_WritesIgnoreFile(t *testing.T) {
	// Given: a node + typescript project without a .gitignore
	isolateConfig(t)
	dir := nodeTSProject(t)

	// When: running with defaults
	stdout, _, err := execute(t, dir)

	// Then: .gitignore is written with both stack blocks
	require.NoError(t, err)
	content := readFile(t, filepath.Join(dir, ".gitignore"))
	assert.True(t, strings.HasPrefix(content, generate.HeaderMarker+"\n"))
	assert.Contains(t, content, "# Detected: node, typescript\n")
	assert.Contains(t, content, "node_modules/\n")
	assert.Contains(t, content, "*.tsbuildinfo\n")
	assert.Contains(t, stdout, "Wrote")
	assert.Contains(t, stdout, "node")
}

func TestRun_ExistingFileIsConflict(t *testing.T) {
	// Given: an existing .gitignore
	isolateConfig(t)
	dir := project(t, map[string]string{"go.mod": "module x", ".gitignore": "mine\n"})

	// When: running without --merge or --force
	_, _, err := execute(t, dir)

	// Then: the run fails and the file is untouched
	require.Error(t, err)
	assert.Equal(t, ierrors.ErrCodeFileExists, ierrors.GetCode(err))
	assert.Equal(t, "mine\n", readFile(t, filepath.Join(dir, ".gitignore")))
}

func TestRun_ForceOverwrites(t *testing.T) {
	isolateConfig(t)
	dir := project(t, map[string]string{"go.mod": "module x", ".gitignore": "mine\n"})

	_, _, err := execute(t, "--force", dir)

	require.NoError(t, err)
	content := readFile(t, filepath.Join(dir, ".gitignore"))
	assert.NotContains(t, content, "mine")
	assert.Contains(t, content, "# Go\n")
}

func TestRun_MergeAppendsAndIsIdempotent(t *testing.T) {
	// Given: an existing file with one pattern the go template also has
	isolateConfig(t)
	dir := project(t, map[string]string{"go.mod": "module x", ".gitignore": "# mine\n*.exe\n"})
	path := filepath.Join(dir, ".gitignore")

	// When: merging twice
	stdout, _, err := execute(t, "--merge", dir)
	require.NoError(t, err)
	once := readFile(t, path)

	stdout2, _, err := execute(t, "-m", dir)
	require.NoError(t, err)
	twice := readFile(t, path)

	// Then: existing content is kept, *.exe is not repeated, second run adds nothing
	assert.True(t, strings.HasPrefix(once, "# mine\n*.exe\n\n"+gitignore.MergeHeader+"\n"))
	assert.Equal(t, 1, strings.Count(once, "*.exe"))
	assert.Contains(t, once, "go.work.sum\n")
	assert.Equal(t, once, twice)
	assert.Contains(t, stdout, "Added")
	assert.Contains(t, stdout2, "already contains")
}

func TestRun_MergeWithoutExistingFileWritesGenerated(t *testing.T) {
	isolateConfig(t)
	dir := project(t, map[string]string{"go.mod": "module x"})

	_, _, err := execute(t, "--merge", dir)

	require.NoError(t, err)
	content := readFile(t, filepath.Join(dir, ".gitignore"))
	assert.True(t, strings.HasPrefix(content, generate.HeaderMarker))
	assert.NotContains(t, content, gitignore.MergeHeader)
}

func TestRun_MergeAndForceRejected(t *testing.T) {
	isolateConfig(t)

	_, _, err := execute(t, "--merge", "--force", t.TempDir())

	require.Error(t, err)
	assert.Equal(t, ierrors.ErrCodeInvalidFlags, ierrors.GetCode(err))
}

// =============================================================================
// Preview and JSON
// =============================================================================

func TestRun_DryRunDoesNotWrite(t *testing.T) {
	isolateConfig(t)
	dir := project(t, map[string]string{"Cargo.toml": "", ".gitignore": "keep\n"})

	stdout, _, err := execute(t, "--dry-run", dir)

	// Existing file is not a conflict in preview mode
	require.NoError(t, err)
	assert.Contains(t, stdout, "target/")
	assert.Contains(t, stdout, "Preview of")
	assert.Equal(t, "keep\n", readFile(t, filepath.Join(dir, ".gitignore")))
}

func TestRun_JSONPayload(t *testing.T) {
	// Given: the node + typescript scenario
	isolateConfig(t)
	dir := nodeTSProject(t)

	// When: previewing as JSON
	stdout, _, err := execute(t, "-n", "--json", dir)
	require.NoError(t, err)

	// Then: stacks, text and violations are all present
	var rep struct {
		Stacks []struct {
			Name       string   `json:"name"`
			Confidence string   `json:"confidence"`
			Evidence   []string `json:"evidence"`
		} `json:"stacks"`
		GeneratedText string   `json:"generatedText"`
		Violations    []string `json:"violations"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &rep))
	require.Len(t, rep.Stacks, 2)
	assert.Equal(t, "node", rep.Stacks[0].Name)
	assert.Equal(t, "low", rep.Stacks[0].Confidence)
	assert.Equal(t, []string{"package.json"}, rep.Stacks[0].Evidence)
	assert.Equal(t, "typescript", rep.Stacks[1].Name)
	assert.Equal(t, "medium", rep.Stacks[1].Confidence)
	assert.Equal(t, []string{"tsconfig.json", "*.ts"}, rep.Stacks[1].Evidence)
	assert.Contains(t, rep.GeneratedText, "# Detected: node, typescript\n")
	assert.NotNil(t, rep.Violations)
	assert.Empty(t, rep.Violations)
	assert.NoFileExists(t, filepath.Join(dir, ".gitignore"))
}

func TestRun_JSONEmptyDirectory(t *testing.T) {
	isolateConfig(t)

	stdout, _, err := execute(t, "--dry-run", "--json", t.TempDir())
	require.NoError(t, err)

	var rep map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &rep))
	assert.Equal(t, []any{}, rep["stacks"])
	assert.Contains(t, rep["generatedText"], "# Detected:\n")
}

func TestRun_JSONErrorOnStdout(t *testing.T) {
	isolateConfig(t)
	missing := filepath.Join(t.TempDir(), "nope")

	stdout, _, err := execute(t, "--json", missing)

	require.Error(t, err)
	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &payload))
	assert.Equal(t, ierrors.ErrCodeDirNotFound, payload["code"])
}

// =============================================================================
// Check
// =============================================================================

func TestRun_CheckReportsTrackedFiles(t *testing.T) {
	// Given: a repository tracking a build artifact that the node block ignores
	isolateConfig(t)
	dir := project(t, map[string]string{
		"package.json": "{}",
		"dist/a.js":    "x",
		"src/a.py":     "print()",
	})
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)
	for _, p := range []string{"package.json", "dist/a.js", "src/a.py"} {
		_, err := wt.Add(p)
		require.NoError(t, err)
	}

	// When: checking as JSON
	stdout, _, err := execute(t, "--check", "--json", dir)
	require.NoError(t, err)

	// Then: only dist/a.js is reported and nothing is written
	var rep Report
	require.NoError(t, json.Unmarshal([]byte(stdout), &rep))
	assert.Equal(t, []string{"dist/a.js"}, rep.Violations)
	assert.NoFileExists(t, filepath.Join(dir, ".gitignore"))
}

func TestRun_CheckVerboseShowsPattern(t *testing.T) {
	isolateConfig(t)
	dir := project(t, map[string]string{"package.json": "{}", "dist/a.js": "x"})
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add("dist/a.js")
	require.NoError(t, err)

	stdout, _, err := execute(t, "-c", "-v", dir)

	require.NoError(t, err)
	assert.Contains(t, stdout, "dist/a.js  (dist/)")
	assert.Contains(t, stdout, "  git rm --cached -- dist/a.js\n")
}

func TestQuoteArg(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"dist/a.js", "dist/a.js"},
		{"build/out_1-2.o", "build/out_1-2.o"},
		{"my file.txt", "'my file.txt'"},
		{"it's.log", `'it'\''s.log'`},
		{"données.csv", "'données.csv'"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, quoteArg(tt.in))
		})
	}
}

func TestRun_CheckOutsideRepository(t *testing.T) {
	isolateConfig(t)
	dir := project(t, map[string]string{"package.json": "{}"})

	stdout, _, err := execute(t, "--check", dir)

	// No repository degrades to no violations
	require.NoError(t, err)
	assert.Contains(t, stdout, "No tracked files")
}

// =============================================================================
// Preconditions and configuration
// =============================================================================

func TestRun_MissingDirectory(t *testing.T) {
	isolateConfig(t)

	_, _, err := execute(t, filepath.Join(t.TempDir(), "missing"))

	require.Error(t, err)
	assert.Equal(t, ierrors.ErrCodeDirNotFound, ierrors.GetCode(err))
	ie, ok := ierrors.As(err)
	require.True(t, ok)
	assert.Equal(t, ierrors.SeverityFatal, ie.Severity)
	assert.Equal(t, 1, ExitCode(err))
}

func TestRun_FileIsNotADirectory(t *testing.T) {
	isolateConfig(t)
	dir := project(t, map[string]string{"file.txt": ""})

	_, _, err := execute(t, filepath.Join(dir, "file.txt"))

	assert.Equal(t, ierrors.ErrCodeDirNotFound, ierrors.GetCode(err))
}

func TestRun_ProjectConfigApplies(t *testing.T) {
	// Given: a config that skips typescript, renames the output and adds a pattern
	isolateConfig(t)
	dir := nodeTSProject(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".stackignore.yaml"), []byte(`
output:
  file: .ignore
stacks:
  skip: [typescript]
patterns:
  extra: ["secrets/"]
`), 0o644))

	// When: running
	_, _, err := execute(t, dir)
	require.NoError(t, err)

	// Then: the configured file holds node only plus the custom block
	content := readFile(t, filepath.Join(dir, ".ignore"))
	assert.Contains(t, content, "# Detected: node\n")
	assert.NotContains(t, content, "*.tsbuildinfo")
	assert.True(t, strings.HasSuffix(content, "# Custom\nsecrets/\n"))
	assert.NoFileExists(t, filepath.Join(dir, ".gitignore"))
}

func TestRun_InvalidConfig(t *testing.T) {
	isolateConfig(t)
	dir := project(t, map[string]string{".stackignore.yaml": "log_level: chatty\n"})

	_, _, err := execute(t, dir)

	require.Error(t, err)
	assert.Equal(t, ierrors.ErrCodeConfigInvalid, ierrors.GetCode(err))
}

func TestRun_UnknownFlag(t *testing.T) {
	isolateConfig(t)

	_, _, err := execute(t, "--bogus")

	require.Error(t, err)
	assert.Equal(t, ierrors.ErrCodeInvalidFlags, ierrors.GetCode(err))
}
