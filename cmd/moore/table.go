package main

import (
	"fmt"

	"github.com/aretw0/moore/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var tableCmd = &cobra.Command{
	Use:   "table",
	Short: "Print the transition table",
	Long:  `Renders the transition and output table. The start state is marked with an arrow.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		table, start, err := loadTable(cmd)
		if err != nil {
			return err
		}

		plain, _ := cmd.Flags().GetBool("plain")
		w := cmd.OutOrStdout()
		render := tui.NewRenderer(plain || !tui.IsTerminal(w))

		out, err := render(tui.TableMarkdown(table, start, ""))
		if err != nil {
			return fmt.Errorf("failed to render table: %w", err)
		}
		fmt.Fprint(w, out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tableCmd)
	tableCmd.Flags().Bool("plain", false, "Disable styling")
}
