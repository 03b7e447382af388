package tui

import (
	"github.com/charmbracelet/glamour"
)

// RenderMarkdown renders the embedded usage guide for the terminal, detecting
// light/dark background automatically. When no renderer can be built or
// rendering fails (e.g. a dumb terminal), the raw markdown is returned as-is
// so the docs command never fails outright.
func RenderMarkdown(markdown string) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
	)
	if err != nil {
		return markdown
	}
	out, err := r.Render(markdown)
	if err != nil {
		return markdown
	}
	return out
}
