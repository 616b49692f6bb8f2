package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/moore/internal/logging"
	"github.com/aretw0/moore/pkg/adapters/loam"
	"github.com/aretw0/moore/pkg/definition"
	"github.com/aretw0/moore/pkg/domain"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "moore",
	Short: "Moore is a deterministic binary transducer",
	Long: `Moore runs a deterministic Moore machine over the alphabet {0,1}.
Every consumed symbol moves the machine to its successor state and emits the output
of the state it entered. Without --table the built-in reference table is used.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringP("table", "t", "", "Table definition: a YAML file or a directory of state documents")
	rootCmd.PersistentFlags().StringP("start", "s", "", "Start state (defaults to the table's declared start)")
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().Bool("debug", false, "Shorthand for --log-level=debug")
}

// newLogger builds the stderr logger selected by --log-level and --debug.
func newLogger(cmd *cobra.Command) *slog.Logger {
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		return logging.New(slog.LevelDebug)
	}
	level, _ := cmd.Flags().GetString("log-level")
	return logging.New(logging.ParseLevel(level))
}

// loadTable resolves --table and --start.
// A directory is read as a loam repository, whose start is its first state; a file is a YAML definition.
func loadTable(cmd *cobra.Command) (*domain.Table, domain.StateID, error) {
	path, _ := cmd.Flags().GetString("table")

	var (
		table *domain.Table
		start domain.StateID
	)
	switch {
	case path == "":
		table, start = domain.Reference(), domain.DefaultStart
	default:
		info, err := os.Stat(path)
		if err != nil {
			return nil, "", fmt.Errorf("failed to open table %s: %w", path, err)
		}
		if info.IsDir() {
			loader, err := loam.Open(path)
			if err != nil {
				return nil, "", err
			}
			table, err = loader.Load(cmd.Context())
			if err != nil {
				return nil, "", err
			}
			start = table.At(0).ID
		} else {
			var spec *definition.Spec
			table, spec, err = definition.LoadFile(path)
			if err != nil {
				return nil, "", err
			}
			start = spec.StartState()
		}
	}

	if override, _ := cmd.Flags().GetString("start"); override != "" {
		start = domain.StateID(override)
	}
	if !table.Has(start) {
		return nil, "", &domain.InvalidStateError{State: start}
	}
	return table, start, nil
}
