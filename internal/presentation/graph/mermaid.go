package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/moore/pkg/domain"
)

// GraphOverlay contains dynamic state data to visualize on the graph.
type GraphOverlay struct {
	Visited []domain.StateID
	Current domain.StateID
}

// GenerateMermaid produces a Mermaid flowchart of the table.
// Each state is labelled "id / output"; the start state is drawn as a circle.
// Edges are labelled with the input symbol, merged as "0,1" when both symbols lead to
// the same successor. Overlay styles (visited/current) are applied if provided.
func GenerateMermaid(table *domain.Table, start domain.StateID, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")

	for _, row := range table.Rows() {
		opener, closer := "[", "]"
		if row.ID == start {
			opener, closer = "((", "))"
		}
		fmt.Fprintf(&sb, "    %s%s\"%s / %s\"%s\n", nodeID(row.ID), opener, escape(string(row.ID)), escape(string(row.Output)), closer)
	}

	for _, row := range table.Rows() {
		zero, one := row.Next[domain.Zero], row.Next[domain.One]
		if zero == one {
			fmt.Fprintf(&sb, "    %s -- \"0,1\" --> %s\n", nodeID(row.ID), nodeID(zero))
			continue
		}
		for _, s := range domain.Symbols {
			fmt.Fprintf(&sb, "    %s -- \"%s\" --> %s\n", nodeID(row.ID), s, nodeID(row.Next[s]))
		}
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Black text keeps contrast on both light and dark themes.
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		seen := make(map[domain.StateID]bool)
		for _, id := range overlay.Visited {
			if id == "" || seen[id] || !table.Has(id) {
				continue
			}
			seen[id] = true
			fmt.Fprintf(&sb, "    class %s visited;\n", nodeID(id))
		}
		if overlay.Current != "" && table.Has(overlay.Current) {
			fmt.Fprintf(&sb, "    class %s current;\n", nodeID(overlay.Current))
		}
	}

	return sb.String()
}

// nodeID prefixes and sanitizes ids so that keywords such as "end" stay valid.
func nodeID(id domain.StateID) string {
	r := strings.NewReplacer(".", "_", "-", "_", "/", "_", "\\", "_", " ", "_")
	return "s_" + r.Replace(string(id))
}

func escape(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}
