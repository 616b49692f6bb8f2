package tui

import (
	"github.com/charmbracelet/glamour"
)

// NewRenderer returns a function that renders markdown using glamour.
// When plain is set (no TTY, or --plain) the "notty" style is used, which keeps the
// layout without escape sequences.
func NewRenderer(plain bool) func(string) (string, error) {
	opt := glamour.WithAutoStyle()
	if plain {
		opt = glamour.WithStandardStyle("notty")
	}

	r, err := glamour.NewTermRenderer(opt, glamour.WithWordWrap(0))
	if err != nil {
		return func(markdown string) (string, error) {
			return markdown, nil
		}
	}

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}
