package tui

import (
	"io"
	"os"
	"strings"

	"github.com/aretw0/moore/pkg/domain"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

var palette = []string{"#22d3ee", "#a3e635", "#f472b6", "#fbbf24", "#818cf8", "#fb7185"}

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// ProfileFor returns the color profile to use on w: Ascii (no color) unless w is a terminal.
func ProfileFor(w io.Writer) termenv.Profile {
	if !IsTerminal(w) {
		return termenv.Ascii
	}
	return termenv.EnvColorProfile()
}

// Styler colors outputs consistently: each distinct output of the table gets its own color.
type Styler struct {
	profile termenv.Profile
	colors  map[domain.Output]string
}

// NewStyler assigns palette colors to the table's outputs in order of first appearance.
func NewStyler(table *domain.Table, p termenv.Profile) *Styler {
	s := &Styler{profile: p, colors: make(map[domain.Output]string)}
	for i, o := range table.Outputs() {
		s.colors[o] = palette[i%len(palette)]
	}
	return s
}

// Output renders a single output symbol.
func (s *Styler) Output(o domain.Output) string {
	c, ok := s.colors[o]
	if !ok {
		return string(o)
	}
	return s.profile.String(string(o)).Foreground(s.profile.Color(c)).Bold().String()
}

// Outputs renders a sequence separated by sep.
func (s *Styler) Outputs(outs []domain.Output, sep string) string {
	parts := make([]string, len(outs))
	for i, o := range outs {
		parts[i] = s.Output(o)
	}
	return strings.Join(parts, sep)
}

// State renders a state identifier, dimmed.
func (s *Styler) State(id domain.StateID) string {
	return s.profile.String(string(id)).Foreground(s.profile.Color("#94a3b8")).String()
}
