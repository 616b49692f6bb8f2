package dsl

import (
	"fmt"

	"github.com/aretw0/moore/pkg/adapters/memory"
	"github.com/aretw0/moore/pkg/domain"
)

// Builder manages the table construction.
type Builder struct {
	name   string
	order  []domain.StateID
	states map[domain.StateID]*StateBuilder
}

// New creates a new table builder.
func New(name string) *Builder {
	return &Builder{
		name:   name,
		states: make(map[domain.StateID]*StateBuilder),
	}
}

// Add creates a new state in the table.
// If the state already exists, it returns the existing builder.
func (b *Builder) Add(id domain.StateID) *StateBuilder {
	if sb, ok := b.states[id]; ok {
		return sb
	}
	sb := &StateBuilder{
		row:     domain.Row{ID: id},
		builder: b,
	}
	b.states[id] = sb
	b.order = append(b.order, id)
	return sb
}

// Rows returns the rows in insertion order.
func (b *Builder) Rows() []domain.Row {
	rows := make([]domain.Row, 0, len(b.order))
	for _, id := range b.order {
		rows = append(rows, b.states[id].row)
	}
	return rows
}

// Table validates the rows and returns the table.
// A state left without a successor surfaces as domain.ErrInvalidTable.
func (b *Builder) Table() (*domain.Table, error) {
	return domain.NewTable(b.name, b.Rows()...)
}

// Build compiles the table into a memory Loader.
func (b *Builder) Build() (*memory.Loader, error) {
	loader, err := memory.NewFromRows(b.name, b.Rows()...)
	if err != nil {
		return nil, fmt.Errorf("failed to build table %s: %w", b.name, err)
	}
	return loader, nil
}
