package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/moore"
	"github.com/aretw0/moore/internal/presentation/tui"
	"github.com/aretw0/moore/pkg/domain"
	"github.com/spf13/cobra"
)

// defaultInputs are processed when run is called without arguments.
var defaultInputs = []string{"00110", "11001", "1010110", "101111"}

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run [inputs...]",
	Short: "Process binary strings from the start state",
	Long: `Processes each input from the start state and prints its inputs, outputs and final state.
The machine is reset to the start state before every input. Without arguments a fixed set
of sample inputs is used.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		table, start, err := loadTable(cmd)
		if err != nil {
			return err
		}

		noInitial, _ := cmd.Flags().GetBool("no-initial")
		jsonMode, _ := cmd.Flags().GetBool("json")

		m, err := moore.New(start, moore.WithTable(table), moore.WithLogger(newLogger(cmd)))
		if err != nil {
			return err
		}

		inputs := args
		if len(inputs) == 0 {
			inputs = defaultInputs
		}

		out := cmd.OutOrStdout()
		results := runInputs(m, start, inputs, !noInitial)
		if jsonMode {
			err = writeResultsJSON(out, results)
		} else {
			writeResults(out, tui.NewStyler(table, tui.ProfileFor(out)), results)
		}
		if err != nil {
			return err
		}

		failed := 0
		for _, r := range results {
			if r.Error != "" {
				failed++
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d inputs failed", failed, len(results))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	// Running the sample inputs is the default when no command is provided,
	// so the root accepts the same flags.
	for _, c := range []*cobra.Command{runCmd, rootCmd} {
		c.Flags().Bool("no-initial", false, "Omit the output of the start state")
		c.Flags().Bool("json", false, "Write one JSON object per input (NDJSON)")
	}
	rootCmd.RunE = runCmd.RunE
}

// RunResult is the outcome of processing one input.
type RunResult struct {
	Index   int             `json:"index"`
	Input   string          `json:"input"`
	Outputs []domain.Output `json:"outputs,omitempty"`
	Final   domain.StateID  `json:"final,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// runInputs resets m to start before each input. A failed input leaves no trace on the next one.
func runInputs(m *moore.Machine, start domain.StateID, inputs []string, includeInitial bool) []RunResult {
	results := make([]RunResult, 0, len(inputs))
	for i, input := range inputs {
		r := RunResult{Index: i + 1, Input: input}
		if err := m.Reset(start); err != nil {
			r.Error = err.Error()
			results = append(results, r)
			continue
		}
		outputs, err := m.Process(input, includeInitial)
		if err != nil {
			r.Error = err.Error()
		} else {
			r.Outputs = outputs
			r.Final = m.Current()
		}
		results = append(results, r)
	}
	return results
}

func writeResults(w io.Writer, styler *tui.Styler, results []RunResult) {
	for _, r := range results {
		if r.Error != "" {
			fmt.Fprintf(w, "Test %d: input='%s' -> Error: %s\n", r.Index, r.Input, r.Error)
			continue
		}
		fmt.Fprintf(w, "Test %d: input='%s'\n", r.Index, r.Input)
		fmt.Fprintf(w, "  Inputs:  %s\n", strings.Join(strings.Split(r.Input, ""), " "))
		fmt.Fprintf(w, "  Outputs: %s\n", styler.Outputs(r.Outputs, " "))
		fmt.Fprintf(w, "  Final state: %s\n", styler.State(r.Final))
	}
}

func writeResultsJSON(w io.Writer, results []RunResult) error {
	enc := json.NewEncoder(w)
	for _, r := range results {
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("failed to encode result: %w", err)
		}
	}
	return nil
}
