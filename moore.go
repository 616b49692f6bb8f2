package moore

import (
	"log/slog"

	"github.com/aretw0/moore/internal/logging"
	"github.com/aretw0/moore/internal/runtime"
	"github.com/aretw0/moore/pkg/domain"
)

// Machine is the high-level entry point for the library.
// It wraps the internal runtime and provides a simplified API for consumers.
type Machine struct {
	runtime *runtime.Machine
	logger  *slog.Logger
}

type config struct {
	table  *domain.Table
	hooks  domain.LifecycleHooks
	logger *slog.Logger
}

// Option defines a functional option for configuring the Machine.
type Option func(*config)

// WithTable runs the machine on a custom table instead of the reference one.
func WithTable(table *domain.Table) Option {
	return func(c *config) {
		c.table = table
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(c *config) {
		c.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the machine.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// New creates a machine positioned at start.
// It fails with an error matching domain.ErrInvalidState if start is not a state of the table.
func New(start domain.StateID, opts ...Option) (*Machine, error) {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.table == nil {
		cfg.table = domain.Reference()
	}
	// Ensure logger is initialized (so we don't pass nil to runtime)
	if cfg.logger == nil {
		cfg.logger = logging.NewNop()
	}
	logger := cfg.logger.With("table", cfg.table.Name())

	rt, err := runtime.New(cfg.table, start,
		runtime.WithLifecycleHooks(cfg.hooks),
		runtime.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}

	return &Machine{runtime: rt, logger: logger}, nil
}

// Restore rebuilds a machine from a persisted snapshot.
func Restore(snap *domain.Snapshot, opts ...Option) (*Machine, error) {
	return New(snap.State, opts...)
}

// Table returns the transition table the machine runs on.
func (m *Machine) Table() *domain.Table {
	return m.runtime.Table()
}

// Current returns the current state identifier.
func (m *Machine) Current() domain.StateID {
	return m.runtime.Current()
}

// Output returns the output of the current state.
func (m *Machine) Output() domain.Output {
	return m.runtime.Output()
}

// Reset moves the machine to state. Unknown states fail with domain.ErrInvalidState.
func (m *Machine) Reset(state domain.StateID) error {
	return m.runtime.Reset(state)
}

// Step consumes '0' or '1' and returns the output of the state entered.
// Any other rune fails with domain.ErrInvalidSymbol and leaves the machine untouched.
func (m *Machine) Step(symbol rune) (domain.Output, error) {
	return m.runtime.Step(symbol)
}

// StepSymbol consumes a typed symbol. Values outside the alphabet fail with domain.ErrInvalidSymbol.
func (m *Machine) StepSymbol(s domain.Symbol) (domain.Output, error) {
	return m.runtime.StepSymbol(s)
}

// Process consumes a whole binary string, validated upfront.
// With includeInitial the result starts with the output of the state before the first symbol,
// so its length is len(input)+1; otherwise it is len(input).
func (m *Machine) Process(input string, includeInitial bool) ([]domain.Output, error) {
	return m.runtime.Process(input, includeInitial)
}

// ProcessSymbols is Process over a typed sequence, checked upfront like Process.
func (m *Machine) ProcessSymbols(symbols []domain.Symbol, includeInitial bool) ([]domain.Output, error) {
	return m.runtime.ProcessSymbols(symbols, includeInitial)
}

// Trace consumes input and returns one Transition per symbol.
func (m *Machine) Trace(input string) ([]domain.Transition, error) {
	return m.runtime.Trace(input)
}
