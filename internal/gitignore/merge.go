package gitignore

import (
	"strings"
	"unicode"
)

// MergeHeader introduces the block of patterns appended by Merge.
const MergeHeader = "# Added by stackignore"

// Merge appends the pattern lines of generated that are not already present
// in existing. Comparison is on trimmed lines; pattern semantics are not
// interpreted, so "build" and "build/" are distinct.
//
// New patterns go under a single MergeHeader after the right-trimmed existing
// text and a blank line; blank existing text gets no separator, so the header
// opens the output. When nothing is new the existing text is returned
// unchanged apart from trailing whitespace, which keeps Merge idempotent.
// The result always ends with exactly one newline.
func Merge(existing, generated string) string {
	seen := make(map[string]struct{})
	for _, p := range ParsePatterns(existing) {
		seen[p] = struct{}{}
	}

	var added []string
	for _, line := range strings.Split(generated, "\n") {
		if IsComment(line) {
			continue
		}
		p := strings.TrimSpace(line)
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		added = append(added, p)
	}

	base := strings.TrimRightFunc(existing, unicode.IsSpace)
	if len(added) == 0 {
		return base + "\n"
	}

	var sb strings.Builder
	if base != "" {
		sb.WriteString(base)
		sb.WriteString("\n\n")
	}
	sb.WriteString(MergeHeader)
	sb.WriteString("\n")
	for _, p := range added {
		sb.WriteString(p)
		sb.WriteString("\n")
	}
	return sb.String()
}
