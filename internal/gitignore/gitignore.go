package gitignore

import (
	"regexp"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize is the number of compiled wildcard patterns kept by a Matcher.
const DefaultCacheSize = 512

// Matcher evaluates ignore patterns against relative paths.
// Compiled wildcard expressions are cached, so a Matcher should be reused
// when the same patterns are checked against many paths.
// It is safe for concurrent use.
type Matcher struct {
	cache *lru.Cache[string, *regexp.Regexp]
}

// New creates a Matcher with the default cache size.
func New() *Matcher {
	return NewWithCacheSize(DefaultCacheSize)
}

// NewWithCacheSize creates a Matcher that caches up to size compiled patterns.
// A non-positive size falls back to DefaultCacheSize.
func NewWithCacheSize(size int) *Matcher {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, _ := lru.New[string, *regexp.Regexp](size)
	return &Matcher{cache: cache}
}

var defaultMatcher = New()

// Match reports whether path is excluded by pattern using a shared Matcher.
func Match(path, pattern string) bool {
	return defaultMatcher.Match(path, pattern)
}

// Match reports whether path is excluded by pattern.
//
// path is a forward-slash relative path without leading or trailing slash.
// pattern is a single non-comment, non-blank ignore line.
func (m *Matcher) Match(path, pattern string) bool {
	p := pattern
	dirOnly := strings.HasSuffix(p, "/")
	if dirOnly {
		p = strings.TrimSuffix(p, "/")
	}

	if path == p {
		return true
	}

	// p names an ancestor directory of path
	if strings.HasPrefix(path, p+"/") {
		return true
	}

	if strings.Contains(p, "*") {
		re := m.compile(p, dirOnly)
		if re == nil {
			return false
		}
		return re.MatchString(path)
	}

	for _, part := range strings.Split(path, "/") {
		if part == p {
			return true
		}
	}

	return false
}

// compile returns the cached expression for a wildcard pattern.
// A pattern that fails to compile is cached as nil and never matches.
func (m *Matcher) compile(p string, dirOnly bool) *regexp.Regexp {
	key := p
	if dirOnly {
		key += "/"
	}
	if re, ok := m.cache.Get(key); ok {
		return re
	}

	// A slash-free glob may start at any segment boundary, so "*.py"
	// matches "sub/a.py" but "src/*.py" only matches below "src".
	prefix := "^"
	if !strings.Contains(p, "/") {
		prefix = "^(?:.*/)?"
	}
	suffix := "$"
	if dirOnly {
		suffix = "(?:$|/)"
	}

	re, err := regexp.Compile(prefix + patternToRegex(p) + suffix)
	if err != nil {
		re = nil
	}
	m.cache.Add(key, re)
	return re
}

// patternToRegex converts a wildcard pattern to a regex body.
// Only "*" and "**" are special; the literal runs between them are quoted
// whole so multi-byte characters survive.
func patternToRegex(pattern string) string {
	var result strings.Builder

	i := 0
	for i < len(pattern) {
		if pattern[i] != '*' {
			end := strings.IndexByte(pattern[i:], '*')
			if end < 0 {
				end = len(pattern) - i
			}
			result.WriteString(regexp.QuoteMeta(pattern[i : i+end]))
			i += end
			continue
		}

		if i+1 < len(pattern) && pattern[i+1] == '*' {
			if i+2 < len(pattern) && pattern[i+2] == '/' {
				// **/ - zero or more leading directories
				result.WriteString("(?:.*/)?")
				i += 3
				continue
			}
			// ** elsewhere - anything, separators included
			result.WriteString(".*")
			i += 2
			continue
		}

		// Single * - run of non-separator characters
		result.WriteString("[^/]*")
		i++
	}

	return result.String()
}

// IsComment reports whether line is inert: blank or "#"-led after trimming.
func IsComment(line string) bool {
	line = strings.TrimSpace(line)
	return line == "" || strings.HasPrefix(line, "#")
}

// ParsePatterns extracts patterns from ignore-file content.
// Returns trimmed non-empty, non-comment lines in file order.
func ParsePatterns(content string) []string {
	var patterns []string
	for _, line := range strings.Split(content, "\n") {
		if IsComment(line) {
			continue
		}
		patterns = append(patterns, strings.TrimSpace(line))
	}
	return patterns
}

// MatchesAny returns the first pattern that excludes path.
func MatchesAny(path string, patterns []string) (string, bool) {
	return defaultMatcher.MatchesAny(path, patterns)
}

// MatchesAny returns the first pattern that excludes path.
func (m *Matcher) MatchesAny(path string, patterns []string) (string, bool) {
	for _, p := range patterns {
		if m.Match(path, p) {
			return p, true
		}
	}
	return "", false
}

// DiffPatterns computes added and removed patterns between old and new content.
func DiffPatterns(oldContent, newContent string) (added, removed []string) {
	oldPatterns := ParsePatterns(oldContent)
	newPatterns := ParsePatterns(newContent)

	oldSet := make(map[string]bool, len(oldPatterns))
	for _, p := range oldPatterns {
		oldSet[p] = true
	}

	newSet := make(map[string]bool, len(newPatterns))
	for _, p := range newPatterns {
		newSet[p] = true
	}

	for _, p := range newPatterns {
		if !oldSet[p] {
			added = append(added, p)
		}
	}

	for _, p := range oldPatterns {
		if !newSet[p] {
			removed = append(removed, p)
		}
	}

	return added, removed
}
