// Package config loads stackignore settings from YAML files and the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ProjectFileNames are the project config names, in lookup order.
var ProjectFileNames = []string{".stackignore.yaml", ".stackignore.yml"}

const (
	// DefaultOutputFile is the ignore file written into the target directory.
	DefaultOutputFile = ".gitignore"
	// DefaultGitTimeout bounds the tracked-file query.
	DefaultGitTimeout = "5s"
	// DefaultLogLevel is used for console logging without --debug.
	DefaultLogLevel = "warn"
)

// Config is the complete stackignore configuration.
type Config struct {
	Version  int            `yaml:"version" json:"version"`
	Output   OutputConfig   `yaml:"output" json:"output"`
	Git      GitConfig      `yaml:"git" json:"git"`
	Stacks   StacksConfig   `yaml:"stacks" json:"stacks"`
	Patterns PatternsConfig `yaml:"patterns" json:"patterns"`
	LogLevel string         `yaml:"log_level" json:"log_level"`
}

// OutputConfig controls where and how results are written.
type OutputConfig struct {
	// File is the ignore file name inside the target directory.
	File string `yaml:"file" json:"file"`
	// Color enables styled console output. Nil means the default (true).
	Color *bool `yaml:"color,omitempty" json:"color,omitempty"`
}

// GitConfig controls the tracked-file audit.
type GitConfig struct {
	// Timeout is a Go duration string, e.g. "5s".
	Timeout string `yaml:"timeout" json:"timeout"`
	// Strict uses git-accurate pattern semantics for --check.
	Strict bool `yaml:"strict" json:"strict"`
}

// StacksConfig adjusts detection results and templates.
type StacksConfig struct {
	// Skip lists stack names dropped after detection.
	Skip []string `yaml:"skip" json:"skip"`
	// Templates replaces or adds the template for a stack name.
	Templates map[string][]string `yaml:"templates" json:"templates"`
}

// PatternsConfig holds user patterns appended to every generated file.
type PatternsConfig struct {
	Extra []string `yaml:"extra" json:"extra"`
}

// NewConfig returns a Config with defaults.
func NewConfig() *Config {
	color := true
	return &Config{
		Version: 1,
		Output: OutputConfig{
			File:  DefaultOutputFile,
			Color: &color,
		},
		Git: GitConfig{
			Timeout: DefaultGitTimeout,
		},
		LogLevel: DefaultLogLevel,
	}
}

// GetUserConfigPath returns the path to the user configuration file.
// It follows the XDG Base Directory specification:
//   - $XDG_CONFIG_HOME/stackignore/config.yaml (if XDG_CONFIG_HOME is set)
//   - ~/.config/stackignore/config.yaml (default)
func GetUserConfigPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "stackignore", "config.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".config", "stackignore", "config.yaml")
	}
	return filepath.Join(home, ".config", "stackignore", "config.yaml")
}

// loadUserConfig loads the user configuration file if it exists.
// Returns nil config and nil error if the file doesn't exist.
func loadUserConfig() (*Config, error) {
	configPath := GetUserConfigPath()
	if !fileExists(configPath) {
		return nil, nil
	}

	var cfg Config
	if err := readYAML(configPath, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Load loads configuration for the target directory.
// It applies configuration in order of increasing precedence:
//  1. Hardcoded defaults
//  2. User config (~/.config/stackignore/config.yaml)
//  3. Project config (.stackignore.yaml in dir, else in its project root)
//  4. Environment variables (STACKIGNORE_*)
func Load(dir string) (*Config, error) {
	cfg := NewConfig()

	if userCfg, err := loadUserConfig(); err != nil {
		return nil, fmt.Errorf("failed to load user config: %w", err)
	} else if userCfg != nil {
		cfg.mergeWith(userCfg)
	}

	if err := cfg.loadProjectConfig(dir); err != nil {
		return nil, err
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// ProjectConfigPath returns the project config governing dir, or "" if none.
func ProjectConfigPath(dir string) string {
	candidates := []string{dir}
	if root, err := FindProjectRoot(dir); err == nil {
		if abs, err := filepath.Abs(dir); err != nil || root != abs {
			candidates = append(candidates, root)
		}
	}
	for _, d := range candidates {
		for _, name := range ProjectFileNames {
			if p := filepath.Join(d, name); fileExists(p) {
				return p
			}
		}
	}
	return ""
}

func (c *Config) loadProjectConfig(dir string) error {
	path := ProjectConfigPath(dir)
	if path == "" {
		return nil
	}
	var parsed Config
	if err := readYAML(path, &parsed); err != nil {
		return err
	}
	c.mergeWith(&parsed)
	return nil
}

func readYAML(path string, into *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, into); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// mergeWith merges non-zero values from other into c.
func (c *Config) mergeWith(other *Config) {
	if other.Version != 0 {
		c.Version = other.Version
	}

	if other.Output.File != "" {
		c.Output.File = other.Output.File
	}
	if other.Output.Color != nil {
		color := *other.Output.Color
		c.Output.Color = &color
	}

	if other.Git.Timeout != "" {
		c.Git.Timeout = other.Git.Timeout
	}
	if other.Git.Strict {
		c.Git.Strict = true
	}

	// Lists accumulate across layers
	for _, s := range other.Stacks.Skip {
		if !slices.Contains(c.Stacks.Skip, s) {
			c.Stacks.Skip = append(c.Stacks.Skip, s)
		}
	}
	if len(other.Stacks.Templates) > 0 {
		if c.Stacks.Templates == nil {
			c.Stacks.Templates = make(map[string][]string, len(other.Stacks.Templates))
		}
		for name, lines := range other.Stacks.Templates {
			c.Stacks.Templates[name] = slices.Clone(lines)
		}
	}
	for _, p := range other.Patterns.Extra {
		if !slices.Contains(c.Patterns.Extra, p) {
			c.Patterns.Extra = append(c.Patterns.Extra, p)
		}
	}

	if other.LogLevel != "" {
		c.LogLevel = other.LogLevel
	}
}

// applyEnvOverrides applies STACKIGNORE_* environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("STACKIGNORE_OUTPUT_FILE"); v != "" {
		c.Output.File = v
	}
	if v := os.Getenv("STACKIGNORE_COLOR"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Output.Color = &b
		}
	}
	if v := os.Getenv("STACKIGNORE_GIT_TIMEOUT"); v != "" {
		c.Git.Timeout = v
	}
	if v := os.Getenv("STACKIGNORE_STRICT"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Git.Strict = b
		}
	}
	if v := os.Getenv("STACKIGNORE_SKIP"); v != "" {
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" && !slices.Contains(c.Stacks.Skip, s) {
				c.Stacks.Skip = append(c.Stacks.Skip, s)
			}
		}
	}
	if v := os.Getenv("STACKIGNORE_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
}

// ColorEnabled reports the configured color preference.
func (c *Config) ColorEnabled() bool {
	return c.Output.Color == nil || *c.Output.Color
}

// GitTimeout returns the parsed git timeout, or the default if unparseable.
func (c *Config) GitTimeout() time.Duration {
	d, err := time.ParseDuration(c.Git.Timeout)
	if err != nil || d <= 0 {
		d, _ = time.ParseDuration(DefaultGitTimeout)
	}
	return d
}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	name := c.Output.File
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("output.file must be a plain file name, got %q", name)
	}

	d, err := time.ParseDuration(c.Git.Timeout)
	if err != nil {
		return fmt.Errorf("git.timeout must be a duration like \"5s\", got %q", c.Git.Timeout)
	}
	if d <= 0 {
		return fmt.Errorf("git.timeout must be positive, got %s", d)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("log_level must be 'debug', 'info', 'warn', or 'error', got %s", c.LogLevel)
	}

	for name, lines := range c.Stacks.Templates {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("stacks.templates has an empty stack name")
		}
		if len(lines) == 0 {
			return fmt.Errorf("stacks.templates.%s must have at least one line", name)
		}
	}

	return nil
}

// YAML renders the configuration as YAML.
func (c *Config) YAML() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := c.YAML()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// FindProjectRoot finds the project root directory by walking up from
// startDir until a .git directory or a project config file is found.
// Returns the absolute startDir when neither exists.
func FindProjectRoot(startDir string) (string, error) {
	absDir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}

	currentDir := absDir
	for {
		if dirExists(filepath.Join(currentDir, ".git")) {
			return currentDir, nil
		}
		for _, name := range ProjectFileNames {
			if fileExists(filepath.Join(currentDir, name)) {
				return currentDir, nil
			}
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return absDir, nil
		}
		currentDir = parentDir
	}
}

// fileExists checks if a file exists and is not a directory.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// dirExists checks if a directory exists.
func dirExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}
