package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/moore"
	"github.com/aretw0/moore/internal/logging"
	"github.com/aretw0/moore/pkg/domain"
	"github.com/aretw0/moore/pkg/ports"
	"github.com/aretw0/moore/pkg/registry"
	"github.com/google/uuid"
)

// ErrSessionExists is returned by Create when the ID is already taken.
var ErrSessionExists = errors.New("session already exists")

// DefaultLockTTL bounds how long a distributed lock survives a crashed holder.
const DefaultLockTTL = 30 * time.Second

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager runs machines bound to persisted sessions.
// Every operation loads the snapshot, rebuilds the machine, applies the operation and
// saves the result, all under a per-session lock. Failed operations never persist.
type Manager struct {
	store  ports.StateStore
	tables *registry.Registry

	mu    sync.Mutex            // guards locks
	locks map[string]*lockEntry // reference counted, removed when unused

	locker  ports.DistributedLocker
	lockTTL time.Duration
	hooks   domain.LifecycleHooks
	observe ChangeObserver
	logger  *slog.Logger
	now     func() time.Time
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL sets the lease requested from the distributed locker.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		m.lockTTL = ttl
	}
}

// WithRegistry sets the tables sessions may run on.
func WithRegistry(tables *registry.Registry) Option {
	return func(m *Manager) {
		m.tables = tables
	}
}

// WithLifecycleHooks attaches hooks to every machine the manager rebuilds.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(m *Manager) {
		m.hooks = hooks
	}
}

// ChangeObserver is told about every persisted change, while the session lock is held.
// prev is nil for a newly created session. It must not call back into the Manager.
type ChangeObserver func(prev, next *domain.Snapshot)

// WithChangeObserver registers fn to be called after each successful save.
func WithChangeObserver(fn ChangeObserver) Option {
	return func(m *Manager) {
		m.observe = fn
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithClock overrides the time source used for UpdatedAt.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// NewManager creates a new Session Manager with the given persistence store.
func NewManager(store ports.StateStore, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		locks:   make(map[string]*lockEntry),
		lockTTL: DefaultLockTTL,
		logger:  logging.NewNop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.tables == nil {
		m.tables = registry.NewRegistry()
	}
	return m
}

// Result is the outcome of a mutating operation.
type Result struct {
	Session     *domain.Snapshot    `json:"session"`
	Outputs     []domain.Output     `json:"outputs,omitempty"`
	Transitions []domain.Transition `json:"transitions,omitempty"`
}

// Create starts a session on table at start. An empty sessionID is replaced by a random UUID;
// an empty table selects the reference table.
func (m *Manager) Create(ctx context.Context, sessionID, table string, start domain.StateID) (*domain.Snapshot, error) {
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	t, err := m.tables.Get(table)
	if err != nil {
		return nil, err
	}
	if !t.Has(start) {
		return nil, &domain.InvalidStateError{State: start}
	}

	var snap *domain.Snapshot
	err = m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		_, err := m.store.Load(ctx, sessionID)
		if err == nil {
			return fmt.Errorf("%w: %s", ErrSessionExists, sessionID)
		}
		if !errors.Is(err, domain.ErrSessionNotFound) {
			return fmt.Errorf("failed to check session existence: %w", err)
		}

		snap = domain.NewSnapshot(sessionID, t.Name(), start)
		snap.UpdatedAt = m.now().UTC()
		if err := m.store.Save(ctx, sessionID, snap); err != nil {
			return fmt.Errorf("failed to initialize session: %w", err)
		}
		m.notify(nil, snap)
		return nil
	})
	if err != nil {
		return nil, err
	}

	m.logger.Info("session created", "session_id", sessionID, "table", t.Name(), "start", start)
	return snap, nil
}

// Load retrieves an existing session from the store.
func (m *Manager) Load(ctx context.Context, sessionID string) (*domain.Snapshot, error) {
	var snap *domain.Snapshot
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		var err error
		snap, err = m.store.Load(ctx, sessionID)
		return err
	})
	return snap, err
}

// Step feeds one symbol to the session's machine.
func (m *Manager) Step(ctx context.Context, sessionID string, symbol rune) (*Result, error) {
	res := &Result{}
	snap, err := m.mutate(ctx, sessionID, func(mach *moore.Machine, next *domain.Snapshot) error {
		from := mach.Current()
		out, err := mach.Step(symbol)
		if err != nil {
			return err
		}
		s, _ := domain.ParseSymbol(symbol)
		res.Transitions = []domain.Transition{{From: from, Symbol: s, To: mach.Current(), Output: out}}
		res.Outputs = []domain.Output{out}
		next.Steps++
		next.History = append(next.History, mach.Current())
		return nil
	})
	if err != nil {
		return nil, err
	}
	res.Session = snap
	return res, nil
}

// Process feeds a whole input sequence to the session's machine.
// The input is validated before any transition; an invalid symbol leaves the session unchanged.
func (m *Manager) Process(ctx context.Context, sessionID, input string, includeInitial bool) (*Result, error) {
	res := &Result{}
	snap, err := m.mutate(ctx, sessionID, func(mach *moore.Machine, next *domain.Snapshot) error {
		initial := mach.Output()
		trace, err := mach.Trace(input)
		if err != nil {
			return err
		}
		res.Transitions = trace
		res.Outputs = make([]domain.Output, 0, len(trace)+1)
		if includeInitial {
			res.Outputs = append(res.Outputs, initial)
		}
		for _, tr := range trace {
			res.Outputs = append(res.Outputs, tr.Output)
			next.History = append(next.History, tr.To)
		}
		next.Steps += len(trace)
		return nil
	})
	if err != nil {
		return nil, err
	}
	res.Session = snap
	return res, nil
}

// Reset moves the session's machine to state.
func (m *Manager) Reset(ctx context.Context, sessionID string, state domain.StateID) (*domain.Snapshot, error) {
	return m.mutate(ctx, sessionID, func(mach *moore.Machine, next *domain.Snapshot) error {
		if err := mach.Reset(state); err != nil {
			return err
		}
		next.History = append(next.History, state)
		return nil
	})
}

// Delete removes the session from the store.
func (m *Manager) Delete(ctx context.Context, sessionID string) error {
	return m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		return m.store.Delete(ctx, sessionID)
	})
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// Store returns the underlying state store.
func (m *Manager) Store() ports.StateStore {
	return m.store
}

// Tables returns the registry sessions resolve their table from.
func (m *Manager) Tables() *registry.Registry {
	return m.tables
}

func (m *Manager) mutate(ctx context.Context, sessionID string, fn func(*moore.Machine, *domain.Snapshot) error) (*domain.Snapshot, error) {
	var result *domain.Snapshot
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		snap, err := m.store.Load(ctx, sessionID)
		if err != nil {
			return err
		}
		table, err := m.tables.Get(snap.Table)
		if err != nil {
			return err
		}

		mach, err := moore.Restore(snap,
			moore.WithTable(table),
			moore.WithLifecycleHooks(m.hooks),
			moore.WithLogger(m.logger.With("session_id", sessionID)),
		)
		if err != nil {
			return fmt.Errorf("failed to restore session %s: %w", sessionID, err)
		}

		next := snap.Clone()
		if err := fn(mach, next); err != nil {
			return err
		}
		next.State = mach.Current()
		next.UpdatedAt = m.now().UTC()

		if err := m.store.Save(ctx, sessionID, next); err != nil {
			return fmt.Errorf("failed to save session: %w", err)
		}
		m.notify(snap, next)
		result = next
		return nil
	})
	return result, err
}

func (m *Manager) notify(prev, next *domain.Snapshot) {
	if m.observe != nil {
		m.observe(prev.Clone(), next.Clone())
	}
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(sessionID) after unlocking.
func (m *Manager) acquire(sessionID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		entry = &lockEntry{}
		m.locks[sessionID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		return
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, sessionID)
	}
}

// WithLock executes a function while holding the lock for the session.
func (m *Manager) WithLock(ctx context.Context, sessionID string, fn func(context.Context) error) error {
	entry := m.acquire(sessionID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(sessionID)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, sessionID, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"session_id", sessionID,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}
