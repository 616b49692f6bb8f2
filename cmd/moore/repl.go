package main

import (
	"github.com/aretw0/moore"
	"github.com/aretw0/moore/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Drive the machine interactively",
	Long: `Reads one line at a time: a binary string is processed from the current state,
"reset [state]" moves the machine, "state" prints it and "exit" quits.
The machine is never reset implicitly between lines.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		table, start, err := loadTable(cmd)
		if err != nil {
			return err
		}
		headless, _ := cmd.Flags().GetBool("headless")

		m, err := moore.New(start, moore.WithTable(table), moore.WithLogger(newLogger(cmd)))
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		profile := tui.ProfileFor(out)
		if !headless {
			tui.PrintBanner(out, profile)
		}

		runner := moore.NewRunner(cmd.InOrStdin(), out)
		runner.Headless = headless
		runner.Start = start
		runner.Renderer = tui.NewStyler(table, profile).Output
		return runner.Run(m)
	},
}

func init() {
	rootCmd.AddCommand(replCmd)
	replCmd.Flags().Bool("headless", false, "Run in headless mode (no banner or prompts)")
}
