package main

import (
	"errors"
	"fmt"

	"github.com/aretw0/moore"
	"github.com/aretw0/moore/internal/presentation/tui"
	"github.com/aretw0/moore/pkg/domain"
	"github.com/spf13/cobra"
)

var errMissingSymbol = errors.New("a symbol is required")

var stepCmd = &cobra.Command{
	Use:   "step <symbol>",
	Short: "Apply a single symbol to the start state",
	Long:  `Moves from the start state (--start) on one symbol and prints the transition.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		table, start, err := loadTable(cmd)
		if err != nil {
			return err
		}
		symbol, err := parseSymbolArg(args[0])
		if err != nil {
			return err
		}

		m, err := moore.New(start, moore.WithTable(table), moore.WithLogger(newLogger(cmd)))
		if err != nil {
			return err
		}
		out, err := m.Step(symbol)
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		styler := tui.NewStyler(table, tui.ProfileFor(w))
		fmt.Fprintf(w, "%s --%c--> %s (output %s)\n", styler.State(start), symbol, styler.State(m.Current()), styler.Output(out))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(stepCmd)
}

// parseSymbolArg accepts exactly one rune. Whether it is a valid symbol is left to the machine.
func parseSymbolArg(s string) (rune, error) {
	runes := []rune(s)
	switch len(runes) {
	case 0:
		return 0, errMissingSymbol
	case 1:
		return runes[0], nil
	default:
		return 0, &domain.InvalidSymbolError{Symbol: runes[1], Position: 1}
	}
}
