// Package logging provides opt-in file logging with rotation for stackignore.
// With --debug, JSON logs are written to ~/.stackignore/logs/ so a run can
// be reconstructed afterwards. Without it, only warnings reach stderr.
package logging
