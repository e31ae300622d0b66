// Package configs provides embedded configuration templates for stackignore.
//
// Templates are embedded at build time so they ship with every binary.
// They are written by:
//   - stackignore config init         -> .stackignore.yaml in the project
//   - stackignore config init --user  -> ~/.config/stackignore/config.yaml
//
// Configuration hierarchy (see internal/config Load()):
//  1. Hardcoded defaults
//  2. User config (~/.config/stackignore/config.yaml)
//  3. Project config (.stackignore.yaml)
//  4. Environment variables (STACKIGNORE_*)
package configs

import _ "embed"

// UserConfigTemplate is the template for machine-wide settings.
//
//go:embed user-config.example.yaml
var UserConfigTemplate string

// ProjectConfigTemplate is the template for settings versioned with a project.
//
//go:embed project-config.example.yaml
var ProjectConfigTemplate string
