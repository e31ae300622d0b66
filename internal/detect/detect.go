// Package detect infers technology stacks from the entries of a project directory.
package detect

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Confidence is a coarse score derived from how much evidence a stack has.
type Confidence int

const (
	// ConfidenceLow means a single marker matched.
	ConfidenceLow Confidence = iota + 1
	// ConfidenceMedium means two markers matched.
	ConfidenceMedium
	// ConfidenceHigh means three or more markers matched.
	ConfidenceHigh
)

// ConfidenceFor maps an evidence count to a Confidence.
// Counts below one have no confidence and return zero.
func ConfidenceFor(evidence int) Confidence {
	switch {
	case evidence >= 3:
		return ConfidenceHigh
	case evidence == 2:
		return ConfidenceMedium
	case evidence == 1:
		return ConfidenceLow
	default:
		return 0
	}
}

// String returns the lowercase confidence name.
func (c Confidence) String() string {
	switch c {
	case ConfidenceHigh:
		return "high"
	case ConfidenceMedium:
		return "medium"
	case ConfidenceLow:
		return "low"
	default:
		return "none"
	}
}

// MarshalJSON encodes the confidence as its name.
func (c Confidence) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// UnmarshalJSON decodes a confidence name.
func (c *Confidence) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "high":
		*c = ConfidenceHigh
	case "medium":
		*c = ConfidenceMedium
	case "low":
		*c = ConfidenceLow
	default:
		return fmt.Errorf("unknown confidence %q", s)
	}
	return nil
}

// Stack is a detected technology stack.
type Stack struct {
	Name       string     `json:"name"`
	Confidence Confidence `json:"confidence"`
	Evidence   []string   `json:"evidence"`
}

// StatDirFunc reports whether name is a directory.
// An error means the answer is unknown and the marker is treated as absent.
type StatDirFunc func(name string) (bool, error)

// Detect runs every registered detector against entries, the immediate
// children of a project directory. Results follow registration order.
func Detect(entries []string, statDir StatDirFunc) []Stack {
	return DetectWith(Detectors(), entries, statDir)
}

// DetectWith runs the given detectors against entries.
// Stacks without evidence are omitted.
func DetectWith(detectors []Detector, entries []string, statDir StatDirFunc) []Stack {
	// Sorted so that "first match" for suffix markers is stable.
	sorted := slices.Clone(entries)
	slices.Sort(sorted)
	present := make(map[string]struct{}, len(sorted))
	for _, e := range sorted {
		present[e] = struct{}{}
	}

	var stacks []Stack
	for _, d := range detectors {
		evidence := d.collect(sorted, present, statDir)
		if len(evidence) == 0 {
			continue
		}
		stacks = append(stacks, Stack{
			Name:       d.Name,
			Confidence: ConfidenceFor(len(evidence)),
			Evidence:   evidence,
		})
	}
	return stacks
}

// collect gathers evidence in marker order: files, directories, extensions.
func (d Detector) collect(sorted []string, present map[string]struct{}, statDir StatDirFunc) []string {
	var ev evidenceSet

	for _, marker := range d.FileMarkers {
		if strings.Contains(marker, "*") {
			suffix := strings.Replace(marker, "*", "", 1)
			if e, ok := firstWithSuffix(sorted, suffix); ok {
				ev.add(e)
			}
			continue
		}
		if _, ok := present[marker]; ok {
			ev.add(marker)
		}
	}

	for _, dir := range d.DirMarkers {
		if _, ok := present[dir]; !ok {
			continue
		}
		if statDir == nil {
			continue
		}
		isDir, err := statDir(dir)
		if err != nil || !isDir {
			continue
		}
		ev.add(dir + "/")
	}

	for _, ext := range d.ExtensionMarkers {
		if _, ok := firstWithSuffix(sorted, ext); ok {
			ev.add("*" + ext)
		}
	}

	return ev.items
}

func firstWithSuffix(sorted []string, suffix string) (string, bool) {
	for _, e := range sorted {
		if strings.HasSuffix(e, suffix) {
			return e, true
		}
	}
	return "", false
}

// evidenceSet is an insertion-ordered set of strings.
type evidenceSet struct {
	seen  map[string]struct{}
	items []string
}

func (s *evidenceSet) add(v string) {
	if s.seen == nil {
		s.seen = make(map[string]struct{})
	}
	if _, ok := s.seen[v]; ok {
		return
	}
	s.seen[v] = struct{}{}
	s.items = append(s.items, v)
}

// Dir detects stacks in dir by listing its immediate entries.
// An unreadable directory yields no stacks; the failure is only logged.
func Dir(dir string, logger *slog.Logger) []Stack {
	if logger == nil {
		logger = slog.Default()
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		logger.Debug("directory listing failed, no stacks detected",
			slog.String("dir", dir),
			slog.String("error", err.Error()))
		return nil
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}

	stacks := Detect(names, OSStatDir(dir))
	logger.Debug("stack detection complete",
		slog.String("dir", dir),
		slog.Int("entries", len(names)),
		slog.Any("stacks", Names(stacks)))
	return stacks
}

// OSStatDir returns a StatDirFunc that resolves names relative to dir.
func OSStatDir(dir string) StatDirFunc {
	return func(name string) (bool, error) {
		info, err := os.Stat(filepath.Join(dir, name))
		if err != nil {
			return false, err
		}
		return info.IsDir(), nil
	}
}

// Names returns the stack names in order.
func Names(stacks []Stack) []string {
	names := make([]string, 0, len(stacks))
	for _, s := range stacks {
		names = append(names, s.Name)
	}
	return names
}
