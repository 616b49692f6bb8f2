package ports

import (
	"context"

	"github.com/aretw0/moore/pkg/domain"
)

// TableLoader defines how a transition table is obtained.
// This allows the table source (Memory, YAML file, Loam repository) to be decoupled.
// Implementations must return a table built by domain.NewTable, so it is always complete.
type TableLoader interface {
	Load(ctx context.Context) (*domain.Table, error)
}
