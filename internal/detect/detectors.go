package detect

import "slices"

// Detector describes the markers that identify one stack.
//
// A file marker may contain a single leading "*", in which case any entry
// ending with the rest of the marker matches. Extension markers are
// dot-prefixed suffixes.
type Detector struct {
	Name             string
	FileMarkers      []string
	DirMarkers       []string
	ExtensionMarkers []string
}

// detectors is ordered; the order is the tie-break and the rendering order
// of generated output.
var detectors = []Detector{
	{
		Name:        "node",
		FileMarkers: []string{"package.json", "package-lock.json", "yarn.lock", "pnpm-lock.yaml", ".nvmrc"},
		DirMarkers:  []string{"node_modules"},
	},
	{
		Name:             "typescript",
		FileMarkers:      []string{"tsconfig.json"},
		ExtensionMarkers: []string{".ts", ".tsx"},
	},
	{
		Name:             "python",
		FileMarkers:      []string{"requirements.txt", "pyproject.toml", "setup.py", "setup.cfg", "Pipfile", "poetry.lock"},
		DirMarkers:       []string{"venv", ".venv", "__pycache__"},
		ExtensionMarkers: []string{".py"},
	},
	{
		Name:             "go",
		FileMarkers:      []string{"go.mod", "go.sum", "go.work"},
		ExtensionMarkers: []string{".go"},
	},
	{
		Name:             "rust",
		FileMarkers:      []string{"Cargo.toml", "Cargo.lock"},
		ExtensionMarkers: []string{".rs"},
	},
	{
		Name:             "java",
		FileMarkers:      []string{"pom.xml", "build.gradle", "build.gradle.kts", "settings.gradle", "gradlew"},
		DirMarkers:       []string{".gradle", ".mvn"},
		ExtensionMarkers: []string{".java", ".kt"},
	},
	{
		Name:             "dotnet",
		FileMarkers:      []string{"*.csproj", "*.fsproj", "*.sln", "global.json"},
		DirMarkers:       []string{"obj"},
		ExtensionMarkers: []string{".cs"},
	},
	{
		Name:             "ruby",
		FileMarkers:      []string{"Gemfile", "Gemfile.lock", "Rakefile", ".ruby-version"},
		ExtensionMarkers: []string{".rb"},
	},
	{
		Name:             "php",
		FileMarkers:      []string{"composer.json", "composer.lock", "artisan"},
		DirMarkers:       []string{"vendor"},
		ExtensionMarkers: []string{".php"},
	},
	{
		Name:             "dart",
		FileMarkers:      []string{"pubspec.yaml", "pubspec.lock"},
		DirMarkers:       []string{".dart_tool"},
		ExtensionMarkers: []string{".dart"},
	},
	{
		Name:             "swift",
		FileMarkers:      []string{"Package.swift", "Podfile", "*.xcodeproj", "*.xcworkspace"},
		ExtensionMarkers: []string{".swift"},
	},
	{
		Name:             "elixir",
		FileMarkers:      []string{"mix.exs", "mix.lock"},
		DirMarkers:       []string{"_build", "deps"},
		ExtensionMarkers: []string{".ex", ".exs"},
	},
	{
		Name:             "terraform",
		FileMarkers:      []string{".terraform.lock.hcl", "terraform.tfvars"},
		DirMarkers:       []string{".terraform"},
		ExtensionMarkers: []string{".tf"},
	},
	{
		Name:        "docker",
		FileMarkers: []string{"Dockerfile", "docker-compose.yml", "docker-compose.yaml", "compose.yaml", ".dockerignore"},
	},
	{
		Name:        "unity",
		FileMarkers: []string{"*.unity"},
		DirMarkers:  []string{"Assets", "ProjectSettings", "Packages"},
	},
	{
		Name:        "jetbrains",
		FileMarkers: []string{"*.iml"},
		DirMarkers:  []string{".idea"},
	},
	{
		Name:        "vscode",
		FileMarkers: []string{"*.code-workspace"},
		DirMarkers:  []string{".vscode"},
	},
	{
		Name:             "c-cpp",
		FileMarkers:      []string{"CMakeLists.txt", "Makefile", "meson.build"},
		ExtensionMarkers: []string{".c", ".cpp", ".h", ".hpp"},
	},
	{
		Name:             "latex",
		ExtensionMarkers: []string{".tex", ".bib"},
	},
	{
		Name:             "jupyter",
		DirMarkers:       []string{".ipynb_checkpoints"},
		ExtensionMarkers: []string{".ipynb"},
	},
}

// Detectors returns a copy of the registered detectors in order.
func Detectors() []Detector {
	return slices.Clone(detectors)
}

// Lookup returns the registered detector with the given name.
func Lookup(name string) (Detector, bool) {
	for _, d := range detectors {
		if d.Name == name {
			return d, true
		}
	}
	return Detector{}, false
}
