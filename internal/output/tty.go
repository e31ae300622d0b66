package output

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// IsTTY checks if the writer is a terminal.
func IsTTY(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return false
}

// DetectNoColor checks if the NO_COLOR environment variable is set.
// See https://no-color.org/
func DetectNoColor() bool {
	_, exists := os.LookupEnv("NO_COLOR")
	return exists
}

// ColorEnabled decides whether to style output written to w.
// Color needs a terminal and no opt-out from flag, config or NO_COLOR.
func ColorEnabled(w io.Writer, noColorFlag bool, configColor bool) bool {
	if noColorFlag || !configColor || DetectNoColor() {
		return false
	}
	return IsTTY(w)
}
