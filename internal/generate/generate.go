// Package generate composes ignore-file text from detected stacks.
package generate

import (
	"strings"
	"time"
	"unicode"

	"github.com/Aman-CERP/stackignore/internal/detect"
	"github.com/Aman-CERP/stackignore/internal/templates"
)

// HeaderMarker is the first line of every generated file.
const HeaderMarker = "# Generated by stackignore"

// DateLayout is the layout of the date stamp in the header.
const DateLayout = "2006-01-02"

// Generator renders ignore-file text. The zero value is not usable; use New.
type Generator struct {
	registry *templates.Registry
	common   []string
	extra    []string
	now      func() time.Time
}

// Option configures a Generator.
type Option func(*Generator)

// WithRegistry sets the template registry.
func WithRegistry(r *templates.Registry) Option {
	return func(g *Generator) {
		if r != nil {
			g.registry = r
		}
	}
}

// WithClock sets the time source used for the date stamp.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		if now != nil {
			g.now = now
		}
	}
}

// WithExtraPatterns appends a "# Custom" block after the stack blocks.
func WithExtraPatterns(patterns []string) Option {
	return func(g *Generator) {
		g.extra = patterns
	}
}

// New creates a Generator with the built-in templates and the system clock.
func New(opts ...Option) *Generator {
	g := &Generator{
		registry: templates.Default(),
		common:   templates.Common,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate renders the ignore file for stacks.
//
// Layout: header, blank line, common block, blank line, then one block per
// distinct stack name in input order, each followed by a blank line.
// Stacks without a template are listed in the header only. The result has
// no trailing whitespace beyond a single newline.
func (g *Generator) Generate(stacks []detect.Stack) string {
	names := uniqueNames(stacks)

	var sb strings.Builder
	sb.WriteString(HeaderMarker + "\n")
	sb.WriteString(strings.TrimRight("# Detected: "+strings.Join(names, ", "), " ") + "\n")
	sb.WriteString("# Date: " + g.now().Format(DateLayout) + "\n")
	sb.WriteString("\n")

	writeBlock(&sb, g.common)
	sb.WriteString("\n")

	for _, name := range names {
		lines, ok := g.registry.Get(name)
		if !ok {
			continue
		}
		writeBlock(&sb, lines)
		sb.WriteString("\n")
	}

	if len(g.extra) > 0 {
		sb.WriteString("# Custom\n")
		writeBlock(&sb, g.extra)
		sb.WriteString("\n")
	}

	return strings.TrimRightFunc(sb.String(), unicode.IsSpace) + "\n"
}

func writeBlock(sb *strings.Builder, lines []string) {
	for _, line := range lines {
		sb.WriteString(line)
		sb.WriteString("\n")
	}
}

// uniqueNames returns stack names in order, first occurrence wins.
func uniqueNames(stacks []detect.Stack) []string {
	seen := make(map[string]struct{}, len(stacks))
	names := make([]string, 0, len(stacks))
	for _, s := range stacks {
		if _, ok := seen[s.Name]; ok {
			continue
		}
		seen[s.Name] = struct{}{}
		names = append(names, s.Name)
	}
	return names
}
