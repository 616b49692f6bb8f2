package middleware_test

import (
	"context"
	"testing"

	"github.com/aretw0/moore/pkg/domain"
	"github.com/aretw0/moore/pkg/persistence/middleware"
	"github.com/aretw0/moore/pkg/ports"
	"github.com/aretw0/moore/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChain_Contract(t *testing.T) {
	store := middleware.Chain(NewMockStore(),
		middleware.NewIntegrityMiddleware(registry.NewRegistry()),
		middleware.NewHistoryLimitMiddleware(16),
	)
	ports.RunStateStoreContract(t, store)
}

func TestIntegrity_RejectsUnknownStateOnSave(t *testing.T) {
	underlying := NewMockStore()
	store := middleware.NewIntegrityMiddleware(registry.NewRegistry())(underlying)
	ctx := context.Background()

	snap := domain.NewSnapshot("s1", domain.ReferenceName, "Z")
	err := store.Save(ctx, "s1", snap)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	_, err = underlying.Load(ctx, "s1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound, "nothing should reach the underlying store")
}

func TestIntegrity_RejectsUnknownTableOnSave(t *testing.T) {
	store := middleware.NewIntegrityMiddleware(registry.NewRegistry())(NewMockStore())

	err := store.Save(context.Background(), "s1", domain.NewSnapshot("s1", "ghost", "A"))
	assert.ErrorIs(t, err, registry.ErrTableNotFound)
}

func TestIntegrity_FlagsCorruptSnapshotOnLoad(t *testing.T) {
	underlying := NewMockStore()
	ctx := context.Background()
	require.NoError(t, underlying.Save(ctx, "s1", domain.NewSnapshot("s1", domain.ReferenceName, "gone")))

	store := middleware.NewIntegrityMiddleware(registry.NewRegistry())(underlying)
	_, err := store.Load(ctx, "s1")
	assert.ErrorIs(t, err, middleware.ErrCorruptSnapshot)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestHistoryLimit_TrimsOldestEntries(t *testing.T) {
	underlying := NewMockStore()
	store := middleware.NewHistoryLimitMiddleware(2)(underlying)
	ctx := context.Background()

	snap := domain.NewSnapshot("s1", domain.ReferenceName, domain.StateA)
	snap.History = append(snap.History, domain.StateB, domain.StateCa, domain.StateDb)
	require.NoError(t, store.Save(ctx, "s1", snap))

	loaded, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, []domain.StateID{domain.StateCa, domain.StateDb}, loaded.History)
	assert.Len(t, snap.History, 4, "caller's snapshot must not be modified")
}

func TestHistoryLimit_DisabledReturnsStore(t *testing.T) {
	underlying := NewMockStore()
	assert.Same(t, underlying, middleware.NewHistoryLimitMiddleware(0)(underlying))
}
