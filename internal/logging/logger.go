// Package logging builds the application logger. Components receive a
// *slog.Logger at construction; there is no package-level logger and no
// global level switch.
package logging

import (
	"io"
	"log/slog"
	"os"
)

// New creates the application logger. It writes to Stderr (stdout is reserved
// for the user-facing status lines) and standardizes the "error" key to "err".
// Verbose enables debug-level records, including per-step timings and the
// exact converter argv.
func New(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == "error" {
				a.Key = "err"
			}
			return a
		},
	}))
}

// NewNop returns a no-op logger.
func NewNop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
