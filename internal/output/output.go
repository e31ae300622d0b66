// Package output provides consistent CLI output formatting with colors.
package output

import (
	"fmt"
	"io"
	"strings"
)

// Writer provides formatted output for CLI.
type Writer struct {
	out      io.Writer
	useColor bool
	styles   Styles
}

// NewWithColor creates a Writer that styles output when useColor is set.
func NewWithColor(out io.Writer, useColor bool) *Writer {
	return &Writer{
		out:      out,
		useColor: useColor,
		styles:   GetStyles(!useColor),
	}
}

// Status prints a status message with an icon.
// Errors from writing are intentionally ignored for console output.
func (w *Writer) Status(icon, msg string) {
	if icon != "" {
		_, _ = fmt.Fprintf(w.out, "%s %s\n", icon, msg)
	} else {
		_, _ = fmt.Fprintf(w.out, "   %s\n", msg)
	}
}

// Statusf prints a formatted status message with an icon.
func (w *Writer) Statusf(icon, format string, args ...any) {
	w.Status(icon, fmt.Sprintf(format, args...))
}

// Success prints a success message with checkmark.
func (w *Writer) Success(msg string) {
	w.Status("✅", w.styles.Success.Render(msg))
}

// Successf prints a formatted success message.
func (w *Writer) Successf(format string, args ...any) {
	w.Success(fmt.Sprintf(format, args...))
}

// Warning prints a warning message.
func (w *Writer) Warning(msg string) {
	w.Status("⚠️ ", w.styles.Warning.Render(msg))
}

// Warningf prints a formatted warning message.
func (w *Writer) Warningf(format string, args ...any) {
	w.Warning(fmt.Sprintf(format, args...))
}

// Header prints a bold section title.
func (w *Writer) Header(title string) {
	_, _ = fmt.Fprintln(w.out, w.styles.Header.Render(title))
}

// Item prints an indented "label: value" line.
func (w *Writer) Item(label, value string) {
	_, _ = fmt.Fprintf(w.out, "  %s %s\n", w.styles.Stack.Render(label), w.styles.Label.Render(value))
}

// Bullet prints an indented list entry.
func (w *Writer) Bullet(msg string) {
	_, _ = fmt.Fprintf(w.out, "  - %s\n", msg)
}

// Code prints a command or snippet as an indented block.
func (w *Writer) Code(content string) {
	_, _ = fmt.Fprintln(w.out)
	for _, line := range strings.Split(content, "\n") {
		_, _ = fmt.Fprintf(w.out, "  %s\n", line)
	}
	_, _ = fmt.Fprintln(w.out)
}

// IgnoreText prints generated ignore-file text verbatim, dimming comments
// when color is on.
func (w *Writer) IgnoreText(text string) {
	if !w.useColor {
		_, _ = io.WriteString(w.out, text)
		return
	}
	lines := strings.SplitAfter(text, "\n")
	for _, line := range lines {
		if strings.HasPrefix(line, "#") {
			body := strings.TrimSuffix(line, "\n")
			_, _ = io.WriteString(w.out, w.styles.Dim.Render(body)+line[len(body):])
			continue
		}
		_, _ = io.WriteString(w.out, line)
	}
}

// Newline prints an empty line.
func (w *Writer) Newline() {
	_, _ = fmt.Fprintln(w.out)
}
