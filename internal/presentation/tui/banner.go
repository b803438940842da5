package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes a colored title line for interactive commands. It
// prints nothing when w is not a terminal.
func PrintBanner(w io.Writer, version string) {
	if !IsTerminal() {
		return
	}
	p := termenv.ColorProfile()
	title := termenv.String(" rail ").Bold().Foreground(p.Color("#ffffff")).Background(p.Color("#6366f1"))
	sub := termenv.String(" schema-driven output validation ").Foreground(p.Color("#a78bfa"))
	ver := termenv.String(version).Faint()
	fmt.Fprintf(w, "\n%s%s%s\n\n", title, sub, ver)
}

// Status renders a short colored status word (ok, fail).
func Status(ok bool) string {
	p := termenv.ColorProfile()
	if ok {
		return termenv.String("✔ ok").Foreground(p.Color("#22c55e")).String()
	}
	return termenv.String("✘ fail").Foreground(p.Color("#ef4444")).String()
}
