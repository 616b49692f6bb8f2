package memory

import (
	"context"
	"fmt"

	"github.com/aretw0/moore/pkg/domain"
)

// Loader implements ports.TableLoader over a table held in memory.
type Loader struct {
	table *domain.Table
}

// NewLoader returns a loader for table. A nil table selects the reference table.
func NewLoader(table *domain.Table) *Loader {
	if table == nil {
		table = domain.Reference()
	}
	return &Loader{table: table}
}

// NewFromRows validates rows and returns a loader for the resulting table.
// This improves DX for tests and embedded tables.
func NewFromRows(name string, rows ...domain.Row) (*Loader, error) {
	table, err := domain.NewTable(name, rows...)
	if err != nil {
		return nil, fmt.Errorf("failed to build memory table: %w", err)
	}
	return &Loader{table: table}, nil
}

// Load returns the table.
func (l *Loader) Load(ctx context.Context) (*domain.Table, error) {
	return l.table, nil
}
