package runtime

import (
	"log/slog"
	"time"

	"github.com/aretw0/moore/internal/logging"
	"github.com/aretw0/moore/pkg/domain"
)

// Machine is the core Moore transducer: a table plus a single mutable field, the current state.
// It is not safe for concurrent mutation; give each goroutine its own Machine.
type Machine struct {
	table   *domain.Table
	current int

	hooks  domain.LifecycleHooks
	logger *slog.Logger
	now    func() time.Time
}

// Option configures a Machine.
type Option func(*Machine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(m *Machine) {
		m.hooks = hooks
	}
}

// WithLogger sets a structured logger. Steps are logged at Debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Machine) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithClock overrides the time source used for event timestamps.
func WithClock(now func() time.Time) Option {
	return func(m *Machine) {
		if now != nil {
			m.now = now
		}
	}
}

// New creates a machine positioned at start.
// A nil table selects the reference table.
// It returns an *domain.InvalidStateError if start is not a state of the table.
func New(table *domain.Table, start domain.StateID, opts ...Option) (*Machine, error) {
	if table == nil {
		table = domain.Reference()
	}

	m := &Machine{
		table:  table,
		logger: logging.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}

	idx, ok := table.Index(start)
	if !ok {
		err := &domain.InvalidStateError{State: start}
		m.emitReject(domain.RejectState, err)
		return nil, err
	}
	m.current = idx

	return m, nil
}

// Table returns the transition table the machine runs on.
func (m *Machine) Table() *domain.Table {
	return m.table
}

// Current returns the current state identifier.
func (m *Machine) Current() domain.StateID {
	return m.table.At(m.current).ID
}

// Output returns the output of the current state.
func (m *Machine) Output() domain.Output {
	return m.table.At(m.current).Output
}

// Reset overwrites the current state.
// It returns an *domain.InvalidStateError, leaving the machine untouched, if state is unknown.
func (m *Machine) Reset(state domain.StateID) error {
	idx, ok := m.table.Index(state)
	if !ok {
		err := &domain.InvalidStateError{State: state}
		m.emitReject(domain.RejectState, err)
		return err
	}

	from := m.Current()
	m.current = idx

	m.logger.Debug("machine reset", "from", from, "to", state)
	if m.hooks.OnReset != nil {
		m.hooks.OnReset(&domain.ResetEvent{
			EventBase: domain.EventBase{Timestamp: m.now(), Type: domain.EventReset},
			From:      from,
			To:        state,
		})
	}
	return nil
}
