// Package templates holds the ignore-file blocks emitted for each stack.
package templates

import (
	"maps"
	"slices"
)

// Common is always emitted, before any stack block.
var Common = []string{
	"# OS",
	".DS_Store",
	"Thumbs.db",
	"desktop.ini",
	"",
	"# Editors",
	"*.swp",
	"*.swo",
	"*~",
	"",
	"# Environment",
	".env",
	".env.local",
	".env.*.local",
	"",
	"# Logs",
	"*.log",
	"logs/",
}

var builtin = map[string][]string{
	"node": {
		"# Node",
		"node_modules/",
		"npm-debug.log*",
		"yarn-debug.log*",
		"yarn-error.log*",
		".pnpm-store/",
		".npm/",
		"dist/",
		"coverage/",
	},
	"typescript": {
		"# TypeScript",
		"*.tsbuildinfo",
		"out/",
	},
	"python": {
		"# Python",
		"__pycache__/",
		"*.py[cod]",
		"*.egg-info/",
		".eggs/",
		"build/",
		"dist/",
		".venv/",
		"venv/",
		".pytest_cache/",
		".mypy_cache/",
		".ruff_cache/",
		".coverage",
		"htmlcov/",
	},
	"go": {
		"# Go",
		"*.exe",
		"*.test",
		"*.out",
		"bin/",
		"go.work.sum",
	},
	"rust": {
		"# Rust",
		"target/",
		"**/*.rs.bk",
	},
	"java": {
		"# Java",
		"*.class",
		"*.jar",
		"*.war",
		"target/",
		".gradle/",
		"build/",
		"hs_err_pid*",
	},
	"dotnet": {
		"# .NET",
		"bin/",
		"obj/",
		"*.user",
		"*.suo",
		".vs/",
		"TestResults/",
	},
	"ruby": {
		"# Ruby",
		".bundle/",
		"vendor/bundle/",
		"*.gem",
		"coverage/",
		"tmp/",
	},
	"php": {
		"# PHP",
		"vendor/",
		".phpunit.result.cache",
		"storage/*.key",
	},
	"dart": {
		"# Dart",
		".dart_tool/",
		".packages",
		"build/",
		".flutter-plugins",
		".flutter-plugins-dependencies",
	},
	"swift": {
		"# Swift",
		".build/",
		"DerivedData/",
		"xcuserdata/",
		"Pods/",
		"*.xcuserstate",
	},
	"elixir": {
		"# Elixir",
		"_build/",
		"deps/",
		"*.ez",
		"erl_crash.dump",
	},
	"terraform": {
		"# Terraform",
		".terraform/",
		"*.tfstate",
		"*.tfstate.*",
		"crash.log",
		"*.tfvars",
		"override.tf",
	},
	"docker": {
		"# Docker",
		".docker/",
		"docker-compose.override.yml",
	},
	"unity": {
		"# Unity",
		"Library/",
		"Temp/",
		"Obj/",
		"Build/",
		"Builds/",
		"Logs/",
		"UserSettings/",
		"*.csproj",
		"*.sln",
	},
	"jetbrains": {
		"# JetBrains",
		".idea/",
		"*.iml",
		"out/",
	},
	"vscode": {
		"# VS Code",
		".vscode/*",
		"!.vscode/settings.json",
		"!.vscode/extensions.json",
	},
	"c-cpp": {
		"# C/C++",
		"*.o",
		"*.obj",
		"*.a",
		"*.so",
		"*.dylib",
		"*.dll",
		"CMakeFiles/",
		"CMakeCache.txt",
		"cmake-build-*/",
	},
	"latex": {
		"# LaTeX",
		"*.aux",
		"*.bbl",
		"*.blg",
		"*.fdb_latexmk",
		"*.fls",
		"*.synctex.gz",
		"*.toc",
	},
	"jupyter": {
		"# Jupyter",
		".ipynb_checkpoints/",
	},
}

// Registry maps stack names to their template lines.
type Registry struct {
	templates map[string][]string
}

// Default returns a registry holding the built-in templates.
func Default() *Registry {
	return &Registry{templates: maps.Clone(builtin)}
}

// WithOverrides returns a copy of r where each entry of overrides replaces
// (or adds) the template for that stack name.
func (r *Registry) WithOverrides(overrides map[string][]string) *Registry {
	merged := maps.Clone(r.templates)
	for name, lines := range overrides {
		merged[name] = slices.Clone(lines)
	}
	return &Registry{templates: merged}
}

// Get returns a copy of the template lines for name.
func (r *Registry) Get(name string) ([]string, bool) {
	lines, ok := r.templates[name]
	if !ok {
		return nil, false
	}
	return slices.Clone(lines), true
}

// Names returns the registered stack names, sorted.
func (r *Registry) Names() []string {
	return slices.Sorted(maps.Keys(r.templates))
}
