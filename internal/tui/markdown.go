package tui

import (
	"github.com/charmbracelet/glamour"
)

// renders markdown for the terminal, falling back to the raw text
func renderMarkdown(renderer *glamour.TermRenderer, md string) string {
	if renderer == nil {
		return md
	}

	out, err := renderer.Render(md)
	if err != nil {
		return md
	}

	return out
}

func newRenderer(width int) *glamour.TermRenderer {
	if width <= 0 {
		width = 80
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil
	}

	return r
}
