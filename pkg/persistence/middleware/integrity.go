package middleware

import (
	"context"
	"errors"
	"fmt"

	"github.com/aretw0/moore/pkg/domain"
	"github.com/aretw0/moore/pkg/ports"
	"github.com/aretw0/moore/pkg/registry"
)

// ErrCorruptSnapshot marks a stored snapshot that no longer matches its table.
var ErrCorruptSnapshot = errors.New("corrupt snapshot")

type integrityMiddleware struct {
	next   ports.StateStore
	tables *registry.Registry
}

// NewIntegrityMiddleware checks that every snapshot names a registered table and
// one of its states, both when saving and when loading.
// A table edited after sessions were stored surfaces as ErrCorruptSnapshot on Load.
func NewIntegrityMiddleware(tables *registry.Registry) Middleware {
	return func(next ports.StateStore) ports.StateStore {
		return &integrityMiddleware{next: next, tables: tables}
	}
}

func (m *integrityMiddleware) check(snap *domain.Snapshot) error {
	table, err := m.tables.Get(snap.Table)
	if err != nil {
		return err
	}
	if !table.Has(snap.State) {
		return &domain.InvalidStateError{State: snap.State}
	}
	return nil
}

func (m *integrityMiddleware) Save(ctx context.Context, sessionID string, snap *domain.Snapshot) error {
	if err := m.check(snap); err != nil {
		return fmt.Errorf("refusing to save session %s: %w", sessionID, err)
	}
	return m.next.Save(ctx, sessionID, snap)
}

func (m *integrityMiddleware) Load(ctx context.Context, sessionID string) (*domain.Snapshot, error) {
	snap, err := m.next.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := m.check(snap); err != nil {
		return nil, fmt.Errorf("%w: session %s: %w", ErrCorruptSnapshot, sessionID, err)
	}
	return snap, nil
}

func (m *integrityMiddleware) Delete(ctx context.Context, sessionID string) error {
	return m.next.Delete(ctx, sessionID)
}

func (m *integrityMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}
