// Package tui renders the user-facing output: colored status lines on stdout
// and the markdown usage guide. Color configuration is explicit; nothing in
// here touches global state.
package tui

import (
	"fmt"
	"io"
	"os"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// ColorMode decides whether status lines are colorized.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto" // color only when stdout is a terminal
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// Status prints step progress and results.
type Status struct {
	out     io.Writer
	profile termenv.Profile
}

// NewStatus creates a status printer for out. The auto mode checks whether
// the real stdout is a terminal, so piping output produces plain text.
func NewStatus(out io.Writer, mode ColorMode) *Status {
	profile := termenv.Ascii
	switch mode {
	case ColorAlways:
		profile = termenv.ColorProfile()
		if profile == termenv.Ascii {
			profile = termenv.ANSI
		}
	case ColorAuto:
		if term.IsTerminal(int(os.Stdout.Fd())) {
			profile = termenv.ColorProfile()
		}
	}
	return &Status{out: out, profile: profile}
}

// Success reports the final committed outcome.
func (s *Status) Success(msg string) {
	mark := termenv.String("✓").Foreground(s.profile.Color("2"))
	fmt.Fprintf(s.out, "%s %s\n", mark, msg)
}

// Warn reports a non-fatal condition, like a force-commit with zero matches.
func (s *Status) Warn(msg string) {
	mark := termenv.String("!").Foreground(s.profile.Color("3"))
	fmt.Fprintf(s.out, "%s %s\n", mark, msg)
}

// Fail reports the aborting failure.
func (s *Status) Fail(msg string) {
	mark := termenv.String("✗").Foreground(s.profile.Color("1"))
	fmt.Fprintf(s.out, "%s %s\n", mark, msg)
}
