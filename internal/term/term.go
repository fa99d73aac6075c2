// Package term decides whether diagnostics on a stream may be coloured.
package term

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// ANSI escape codes
const (
	Red   = "\x1b[31m"
	Reset = "\x1b[0m"
)

// ColorEnabled reports whether w is a terminal that should receive ANSI colours.
// Writers that are not *os.File are never coloured.
func ColorEnabled(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok || f == nil {
		return false
	}
	return colorAllowed(os.LookupEnv) && isTerminal(f.Fd())
}

// colorAllowed applies the NO_COLOR convention (https://no-color.org/) and TERM=dumb.
func colorAllowed(lookup func(string) (string, bool)) bool {
	if _, ok := lookup("NO_COLOR"); ok {
		return false
	}
	if t, _ := lookup("TERM"); t == "dumb" {
		return false
	}
	return true
}

func isTerminal(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Paint wraps s in the given escape code when enabled is true.
func Paint(s, code string, enabled bool) string {
	if !enabled {
		return s
	}
	return code + s + Reset
}
