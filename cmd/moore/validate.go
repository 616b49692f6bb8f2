package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aretw0/moore/internal/validator"
	"github.com/aretw0/moore/pkg/domain"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [file|dir]",
	Short: "Check a table definition for consistency",
	Long: `Builds the table (every state needs an output and a successor for 0 and 1, and every
successor must exist) and reports which states are reachable from the start state.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) > 0 {
			if err := cmd.Flags().Set("table", args[0]); err != nil {
				return err
			}
		}

		table, start, err := loadTable(cmd)
		if err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
		report, err := validator.Analyze(table, start)
		if err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}

		w := cmd.OutOrStdout()
		if jsonMode, _ := cmd.Flags().GetBool("json"); jsonMode {
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		}

		fmt.Fprintf(w, "Table %q: %d states, outputs %s\n", report.Table, report.States, joinOutputs(report.Outputs))
		fmt.Fprintf(w, "Reachable from %s: %s\n", report.Start, joinStates(report.Reachable))
		if len(report.Unreachable) > 0 {
			fmt.Fprintf(w, "Unreachable from %s: %s (usable only as start states)\n", report.Start, joinStates(report.Unreachable))
		}
		fmt.Fprintln(w, "Table is valid! ✅")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().Bool("json", false, "Print the report as JSON")
}

func joinStates(ids []domain.StateID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = string(id)
	}
	return strings.Join(parts, ", ")
}

func joinOutputs(outs []domain.Output) string {
	parts := make([]string, len(outs))
	for i, o := range outs {
		parts[i] = string(o)
	}
	return strings.Join(parts, ", ")
}
