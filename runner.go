package moore

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/moore/pkg/domain"
)

// Runner drives a Machine line by line from an io.Reader.
// This allows for easy testing and integration with different frontends (CLI, TUI, etc).
//
// Each line is either a binary string, consumed with Process, or a command:
// "reset [state]", "state" and "exit"/"quit".
type Runner struct {
	Input    io.Reader
	Output   io.Writer
	Headless bool
	Renderer OutputRenderer

	// Start is the state used by a bare "reset". Defaults to domain.DefaultStart.
	Start domain.StateID
}

// OutputRenderer transforms an output symbol before printing (e.g. to colorize it).
type OutputRenderer func(domain.Output) string

// NewRunner creates a Runner reading from in and writing to out.
func NewRunner(in io.Reader, out io.Writer) *Runner {
	return &Runner{
		Input:  in,
		Output: out,
		Start:  domain.DefaultStart,
	}
}

// Run executes the loop until EOF or an exit command.
// Invalid input is reported and the loop continues; only I/O errors are returned.
func (r *Runner) Run(m *Machine) error {
	if r.Input == nil {
		return fmt.Errorf("input reader must be set (use os.Stdin)")
	}
	if r.Output == nil {
		return fmt.Errorf("output writer must be set (use os.Stdout)")
	}
	start := r.Start
	if start == "" {
		start = domain.DefaultStart
	}

	lineReader := bufio.NewReader(r.Input)
	if !r.Headless {
		fmt.Fprintln(r.Output, "--- Moore Transducer ---")
		fmt.Fprintf(r.Output, "state %s (output %s)\n", m.Current(), r.render(m.Output()))
	}

	for {
		if !r.Headless {
			fmt.Fprint(r.Output, "> ")
		}
		text, err := lineReader.ReadString('\n')
		if err != nil && err != io.EOF {
			return fmt.Errorf("input error: %w", err)
		}
		line := strings.TrimSpace(text)

		if line != "" {
			if stop := r.handle(m, line, start); stop {
				return nil
			}
		}
		if err == io.EOF {
			return nil
		}
	}
}

func (r *Runner) handle(m *Machine, line string, start domain.StateID) bool {
	fields := strings.Fields(line)

	switch fields[0] {
	case "exit", "quit":
		if !r.Headless {
			fmt.Fprintln(r.Output, "Bye!")
		}
		return true
	case "state":
		fmt.Fprintf(r.Output, "state %s (output %s)\n", m.Current(), r.render(m.Output()))
		return false
	case "reset":
		target := start
		if len(fields) > 1 {
			target = domain.StateID(fields[1])
		}
		if err := m.Reset(target); err != nil {
			fmt.Fprintf(r.Output, "error: %v\n", err)
			return false
		}
		fmt.Fprintf(r.Output, "state %s (output %s)\n", m.Current(), r.render(m.Output()))
		return false
	}

	outputs, err := m.Process(line, false)
	if err != nil {
		fmt.Fprintf(r.Output, "error: %v\n", err)
		return false
	}
	rendered := make([]string, len(outputs))
	for i, o := range outputs {
		rendered[i] = r.render(o)
	}
	fmt.Fprintf(r.Output, "%s -> state %s\n", strings.Join(rendered, " "), m.Current())
	return false
}

func (r *Runner) render(o domain.Output) string {
	if r.Renderer != nil {
		return r.Renderer(o)
	}
	return string(o)
}
