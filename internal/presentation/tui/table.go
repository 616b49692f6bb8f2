package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/moore/pkg/domain"
)

// TableMarkdown renders the transition table as a Markdown document.
// The start state is marked with "→" and the current state (if any) with "●".
func TableMarkdown(table *domain.Table, start, current domain.StateID) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", table.Name())
	sb.WriteString("| | State | Output | on 0 | on 1 |\n")
	sb.WriteString("|---|---|---|---|---|\n")
	for _, row := range table.Rows() {
		var mark []string
		if row.ID == start {
			mark = append(mark, "→")
		}
		if current != "" && row.ID == current {
			mark = append(mark, "●")
		}
		fmt.Fprintf(&sb, "| %s | %s | %s | %s | %s |\n",
			strings.Join(mark, " "), row.ID, row.Output, row.Next[domain.Zero], row.Next[domain.One])
	}
	fmt.Fprintf(&sb, "\n%d states, outputs: %s\n", table.Len(), joinOutputs(table.Outputs(), ", "))
	return sb.String()
}

func joinOutputs(outs []domain.Output, sep string) string {
	parts := make([]string, len(outs))
	for i, o := range outs {
		parts[i] = string(o)
	}
	return strings.Join(parts, sep)
}
