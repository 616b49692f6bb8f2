package main

import (
	"fmt"

	"github.com/aretw0/moore"
	"github.com/aretw0/moore/internal/presentation/graph"
	"github.com/aretw0/moore/pkg/domain"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the table as a Mermaid diagram",
	Long: `Outputs a Mermaid diagram (graph LR) with one node per state and one edge per symbol.
With --input the states visited while processing it are highlighted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		table, start, err := loadTable(cmd)
		if err != nil {
			return err
		}

		var overlay *graph.GraphOverlay
		if input, _ := cmd.Flags().GetString("input"); input != "" {
			m, err := moore.New(start, moore.WithTable(table))
			if err != nil {
				return err
			}
			trace, err := m.Trace(input)
			if err != nil {
				return err
			}
			overlay = &graph.GraphOverlay{Visited: []domain.StateID{start}, Current: m.Current()}
			for _, t := range trace {
				overlay.Visited = append(overlay.Visited, t.To)
			}
		}

		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(table, start, overlay))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().StringP("input", "i", "", "Highlight the path taken on this input")
}
