package session_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/moore/pkg/adapters/memory"
	"github.com/aretw0/moore/pkg/domain"
	"github.com/aretw0/moore/pkg/ports"
	"github.com/aretw0/moore/pkg/registry"
	"github.com/aretw0/moore/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// SlowStore simulates latency to provoke race conditions if locking is missing.
type SlowStore struct {
	*memory.Store
}

func (s *SlowStore) Save(ctx context.Context, sessionID string, snap *domain.Snapshot) error {
	time.Sleep(2 * time.Millisecond)
	return s.Store.Save(ctx, sessionID, snap)
}

func (s *SlowStore) Load(ctx context.Context, sessionID string) (*domain.Snapshot, error) {
	time.Sleep(2 * time.Millisecond)
	return s.Store.Load(ctx, sessionID)
}

func TestManager_CreateAndProcess(t *testing.T) {
	mgr := session.NewManager(memory.NewStore())
	ctx := context.Background()

	snap, err := mgr.Create(ctx, "s1", "", domain.StateA)
	require.NoError(t, err)
	assert.Equal(t, domain.ReferenceName, snap.Table)
	assert.Equal(t, domain.StateA, snap.State)

	res, err := mgr.Process(ctx, "s1", "00110", true)
	require.NoError(t, err)
	assert.Equal(t, []domain.Output{"A", "A", "A", "B", "B", "B"}, res.Outputs)
	assert.Len(t, res.Transitions, 5)
	assert.Equal(t, domain.StateB, res.Session.State)
	assert.Equal(t, 5, res.Session.Steps)
	assert.Len(t, res.Session.History, 6)

	loaded, err := mgr.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, domain.StateB, loaded.State)
}

func TestManager_NoImplicitResetBetweenCalls(t *testing.T) {
	mgr := session.NewManager(memory.NewStore())
	ctx := context.Background()

	_, err := mgr.Create(ctx, "s1", "", domain.StateA)
	require.NoError(t, err)

	_, err = mgr.Process(ctx, "s1", "1", false)
	require.NoError(t, err)

	res, err := mgr.Process(ctx, "s1", "0", false)
	require.NoError(t, err)
	assert.Equal(t, []domain.Output{"A"}, res.Outputs, "B on 0 enters Ca")
	assert.Equal(t, domain.StateCa, res.Session.State)
}

func TestManager_StepAndReset(t *testing.T) {
	mgr := session.NewManager(memory.NewStore())
	ctx := context.Background()

	_, err := mgr.Create(ctx, "s1", "", domain.StateA)
	require.NoError(t, err)

	snap, err := mgr.Reset(ctx, "s1", domain.StateE)
	require.NoError(t, err)
	assert.Equal(t, domain.StateE, snap.State)
	assert.Equal(t, []domain.StateID{domain.StateA, domain.StateE}, snap.History)

	res, err := mgr.Step(ctx, "s1", '1')
	require.NoError(t, err)
	assert.Equal(t, []domain.Output{"C"}, res.Outputs)
	assert.Equal(t, domain.Transition{From: domain.StateE, Symbol: domain.One, To: domain.StateE, Output: "C"}, res.Transitions[0])
	assert.Equal(t, 1, res.Session.Steps)
}

func TestManager_FailedOperationsDoNotPersist(t *testing.T) {
	mgr := session.NewManager(memory.NewStore())
	ctx := context.Background()

	_, err := mgr.Create(ctx, "s1", "", domain.StateB)
	require.NoError(t, err)

	_, err = mgr.Process(ctx, "s1", "012", true)
	var symErr *domain.InvalidSymbolError
	require.ErrorAs(t, err, &symErr)
	assert.Equal(t, 2, symErr.Position)

	_, err = mgr.Step(ctx, "s1", 'x')
	assert.ErrorIs(t, err, domain.ErrInvalidSymbol)

	_, err = mgr.Reset(ctx, "s1", "Z")
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	snap, err := mgr.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, domain.StateB, snap.State)
	assert.Equal(t, 0, snap.Steps)
	assert.Equal(t, []domain.StateID{domain.StateB}, snap.History)
}

func TestManager_CreateErrors(t *testing.T) {
	mgr := session.NewManager(memory.NewStore())
	ctx := context.Background()

	_, err := mgr.Create(ctx, "s1", "", "Z")
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	_, err = mgr.Create(ctx, "s1", "ghost", domain.StateA)
	assert.ErrorIs(t, err, registry.ErrTableNotFound)

	_, err = mgr.Create(ctx, "s1", "", domain.StateA)
	require.NoError(t, err)
	_, err = mgr.Create(ctx, "s1", "", domain.StateE)
	assert.ErrorIs(t, err, session.ErrSessionExists)

	_, err = mgr.Step(ctx, "missing", '0')
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestManager_GeneratesIDs(t *testing.T) {
	mgr := session.NewManager(memory.NewStore())
	ctx := context.Background()

	a, err := mgr.Create(ctx, "", "", domain.StateA)
	require.NoError(t, err)
	b, err := mgr.Create(ctx, "", "", domain.StateA)
	require.NoError(t, err)

	assert.NotEmpty(t, a.SessionID)
	assert.NotEqual(t, a.SessionID, b.SessionID)

	ids, err := mgr.List(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{a.SessionID, b.SessionID}, ids)
}

func TestManager_CustomTable(t *testing.T) {
	toggle := domain.MustTable("toggle",
		domain.Row{ID: "off", Output: "0", Next: [domain.NumSymbols]domain.StateID{"off", "on"}},
		domain.Row{ID: "on", Output: "1", Next: [domain.NumSymbols]domain.StateID{"on", "off"}},
	)
	mgr := session.NewManager(memory.NewStore(), session.WithRegistry(registry.NewRegistry(toggle)))
	ctx := context.Background()

	_, err := mgr.Create(ctx, "t", "toggle", "off")
	require.NoError(t, err)

	res, err := mgr.Process(ctx, "t", "110", false)
	require.NoError(t, err)
	assert.Equal(t, []domain.Output{"1", "0", "0"}, res.Outputs)
}

func TestManager_HooksAndClock(t *testing.T) {
	fixed := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	var steps int
	mgr := session.NewManager(memory.NewStore(),
		session.WithClock(func() time.Time { return fixed }),
		session.WithLifecycleHooks(domain.LifecycleHooks{
			OnStep: func(*domain.StepEvent) { steps++ },
		}),
	)
	ctx := context.Background()

	_, err := mgr.Create(ctx, "s1", "", domain.StateA)
	require.NoError(t, err)
	res, err := mgr.Process(ctx, "s1", "1010", false)
	require.NoError(t, err)

	assert.Equal(t, 4, steps)
	assert.True(t, fixed.Equal(res.Session.UpdatedAt))
}

func TestManager_ConcurrentStepsAreSerialized(t *testing.T) {
	mgr := session.NewManager(&SlowStore{Store: memory.NewStore()})
	ctx := context.Background()
	id := "race-test"

	_, err := mgr.Create(ctx, id, "", domain.StateA)
	require.NoError(t, err)

	var wg sync.WaitGroup
	workers := 10
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := mgr.Step(ctx, id, '0')
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	snap, err := mgr.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, workers, snap.Steps, "every step must be persisted, none lost")
	assert.Len(t, snap.History, workers+1)
}

type countingLocker struct {
	mu    sync.Mutex
	calls int
}

func (l *countingLocker) Lock(ctx context.Context, key string, ttl time.Duration) (ports.UnlockFunc, error) {
	l.mu.Lock()
	l.calls++
	l.mu.Unlock()
	return func(context.Context) error { return nil }, nil
}

func TestManager_UsesDistributedLocker(t *testing.T) {
	locker := &countingLocker{}
	mgr := session.NewManager(memory.NewStore(), session.WithLocker(locker), session.WithLockTTL(time.Second))
	ctx := context.Background()

	_, err := mgr.Create(ctx, "s1", "", domain.StateA)
	require.NoError(t, err)
	_, err = mgr.Step(ctx, "s1", '1')
	require.NoError(t, err)

	assert.Equal(t, 2, locker.calls)
}

func TestManager_ChangeObserver(t *testing.T) {
	var diffs []*domain.SnapshotDiff
	mgr := session.NewManager(memory.NewStore(), session.WithChangeObserver(func(prev, next *domain.Snapshot) {
		diffs = append(diffs, domain.Diff(prev, next))
	}))
	ctx := context.Background()

	_, err := mgr.Create(ctx, "s1", "", domain.StateA)
	require.NoError(t, err)
	_, err = mgr.Process(ctx, "s1", "10", false)
	require.NoError(t, err)
	_, err = mgr.Process(ctx, "s1", "2", false)
	require.Error(t, err)

	require.Len(t, diffs, 2, "failed operations are not observed")
	assert.Equal(t, []domain.StateID{domain.StateA}, diffs[0].Appended)
	require.NotNil(t, diffs[1].State)
	assert.Equal(t, domain.StateCa, *diffs[1].State)
	assert.Equal(t, []domain.StateID{domain.StateB, domain.StateCa}, diffs[1].Appended)
}
