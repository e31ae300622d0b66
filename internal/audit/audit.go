// Package audit finds version-controlled files that ignore patterns would exclude.
package audit

import (
	"context"
	"log/slog"
	"strings"

	gitpattern "github.com/go-git/go-git/v5/plumbing/format/gitignore"

	"github.com/Aman-CERP/stackignore/internal/gitignore"
)

// Violation is a tracked path together with the pattern that excludes it.
type Violation struct {
	Path    string `json:"path"`
	Pattern string `json:"pattern"`
}

// FindViolations returns the tracked paths matched by any pattern line of
// ignoreText, in input order. Each path is tested against patterns in file
// order and stops at the first match.
func FindViolations(tracked []string, ignoreText string) []string {
	return paths(check(gitignore.New(), tracked, gitignore.ParsePatterns(ignoreText)))
}

func check(m *gitignore.Matcher, tracked, patterns []string) []Violation {
	var out []Violation
	if len(patterns) == 0 {
		return out
	}
	for _, path := range tracked {
		if p, ok := m.MatchesAny(path, patterns); ok {
			out = append(out, Violation{Path: path, Pattern: p})
		}
	}
	return out
}

// checkStrict uses go-git's implementation of git's own ignore rules,
// including negation and character classes. The reported pattern is the
// last one that excluded the path.
func checkStrict(tracked, patterns []string) []Violation {
	var out []Violation
	if len(patterns) == 0 {
		return out
	}

	parsed := make([]gitpattern.Pattern, 0, len(patterns))
	for _, p := range patterns {
		parsed = append(parsed, gitpattern.ParsePattern(p, nil))
	}
	matcher := gitpattern.NewMatcher(parsed)

	for _, path := range tracked {
		parts := strings.Split(path, "/")
		if !matcher.Match(parts, false) {
			continue
		}
		v := Violation{Path: path}
		for i := len(parsed) - 1; i >= 0; i-- {
			if parsed[i].Match(parts, false) == gitpattern.Exclude {
				v.Pattern = patterns[i]
				break
			}
		}
		out = append(out, v)
	}
	return out
}

func paths(vs []Violation) []string {
	out := make([]string, 0, len(vs))
	for _, v := range vs {
		out = append(out, v.Path)
	}
	return out
}

// Auditor combines a Lister with pattern matching.
type Auditor struct {
	lister  Lister
	matcher *gitignore.Matcher
	strict  bool
	logger  *slog.Logger
}

// Option configures an Auditor.
type Option func(*Auditor)

// WithLister sets the tracked-file source.
func WithLister(l Lister) Option {
	return func(a *Auditor) {
		if l != nil {
			a.lister = l
		}
	}
}

// WithStrict switches to git-accurate matching.
func WithStrict(strict bool) Option {
	return func(a *Auditor) {
		a.strict = strict
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Auditor) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// New creates an Auditor. Without WithLister it uses DefaultLister.
func New(opts ...Option) *Auditor {
	a := &Auditor{
		matcher: gitignore.New(),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.lister == nil {
		a.lister = DefaultLister(DefaultTimeout)
	}
	return a
}

// Audit returns the tracked paths under dir that ignoreText would exclude.
// A failing lister (no repository, no git, timeout) yields no violations.
func (a *Auditor) Audit(ctx context.Context, dir, ignoreText string) []string {
	return paths(a.Explain(ctx, dir, ignoreText))
}

// Explain is Audit with the matching pattern attached to each path.
func (a *Auditor) Explain(ctx context.Context, dir, ignoreText string) []Violation {
	tracked, err := a.lister.TrackedFiles(ctx, dir)
	if err != nil {
		a.logger.Debug("tracked files unavailable, skipping audit",
			slog.String("dir", dir),
			slog.String("error", err.Error()))
		return nil
	}
	a.logger.Debug("tracked files listed",
		slog.String("dir", dir),
		slog.Int("count", len(tracked)))

	return a.Check(tracked, ignoreText)
}

// Check matches an explicit list of tracked paths.
func (a *Auditor) Check(tracked []string, ignoreText string) []Violation {
	patterns := gitignore.ParsePatterns(ignoreText)
	if a.strict {
		return checkStrict(tracked, patterns)
	}
	return check(a.matcher, tracked, patterns)
}
