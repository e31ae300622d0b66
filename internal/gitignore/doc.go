// Package gitignore provides the ignore-pattern matching used by stackignore.
//
// The matcher is intentionally looser than git's own rules. A pattern is
// tested against a slash-separated relative path in four steps:
//
//   - exact match ("build" matches "build")
//   - ancestor prefix ("build" matches "build/out.o")
//   - wildcard match ("*.log", "**/*.log", "temp*/")
//   - segment fallback ("build" matches "src/build/out.o")
//
// A trailing slash marks a directory anchor. Character classes, "?" and
// negation are not interpreted: they are compared literally.
//
// Usage:
//
//	if gitignore.Match("src/app.log", "*.log") {
//	    // path is excluded
//	}
//
//	patterns := gitignore.ParsePatterns(content)
//	if p, ok := gitignore.MatchesAny("dist/app.js", patterns); ok {
//	    fmt.Println("matched by", p)
//	}
//
// Merge appends generated patterns to an existing ignore file without
// duplicating lines that are already present.
package gitignore
