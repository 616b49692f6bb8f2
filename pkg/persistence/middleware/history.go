package middleware

import (
	"context"

	"github.com/aretw0/moore/pkg/domain"
	"github.com/aretw0/moore/pkg/ports"
)

type historyLimitMiddleware struct {
	next  ports.StateStore
	limit int
}

// NewHistoryLimitMiddleware keeps only the most recent limit entries of a
// snapshot's history when saving. A limit <= 0 disables trimming.
func NewHistoryLimitMiddleware(limit int) Middleware {
	return func(next ports.StateStore) ports.StateStore {
		if limit <= 0 {
			return next
		}
		return &historyLimitMiddleware{next: next, limit: limit}
	}
}

func (m *historyLimitMiddleware) Save(ctx context.Context, sessionID string, snap *domain.Snapshot) error {
	if len(snap.History) <= m.limit {
		return m.next.Save(ctx, sessionID, snap)
	}
	trimmed := snap.Clone()
	trimmed.History = trimmed.History[len(trimmed.History)-m.limit:]
	return m.next.Save(ctx, sessionID, trimmed)
}

func (m *historyLimitMiddleware) Load(ctx context.Context, sessionID string) (*domain.Snapshot, error) {
	return m.next.Load(ctx, sessionID)
}

func (m *historyLimitMiddleware) Delete(ctx context.Context, sessionID string) error {
	return m.next.Delete(ctx, sessionID)
}

func (m *historyLimitMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}
