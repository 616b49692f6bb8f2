package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the ASCII art banner using the given color profile.
func PrintBanner(w io.Writer, p termenv.Profile) {
	lines := []struct {
		text  string
		color string
	}{
		{"  _ __ ___   ___   ___  _ __ ___ ", "#818cf8"},
		{" | '_ ` _ \\ / _ \\ / _ \\| '__/ _ \\", "#a78bfa"},
		{" | | | | | | (_) | (_) | | |  __/", "#e879f9"},
		{" |_| |_| |_|\\___/ \\___/|_|  \\___|", "#fb7185"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, p.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}
