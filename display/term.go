package display

import (
	"io"
	"os"

	"github.com/pterm/pterm"
	"golang.org/x/term"
)

const defaultWidth = 100

func fd(w io.Writer) (int, bool) {
	f, ok := w.(*os.File)
	if !ok {
		return 0, false
	}
	return int(f.Fd()), true
}

// IsTerminal reports whether w is an interactive terminal
func IsTerminal(w io.Writer) bool {
	n, ok := fd(w)
	return ok && term.IsTerminal(n)
}

// Width returns the terminal width of w, or a default when it has none
func Width(w io.Writer) int {
	n, ok := fd(w)
	if !ok {
		return defaultWidth
	}
	cols, _, err := term.GetSize(n)
	if err != nil || cols <= 0 {
		return defaultWidth
	}
	return cols
}

// ConfigureStyling turns pterm colors off when w is not a terminal or
// NO_COLOR is set.
func ConfigureStyling(w io.Writer) {
	if os.Getenv("NO_COLOR") != "" || !IsTerminal(w) {
		pterm.DisableStyling()
		return
	}
	pterm.EnableStyling()
}
