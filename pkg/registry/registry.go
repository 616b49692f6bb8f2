package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/moore/pkg/domain"
)

// ErrTableNotFound is returned when no table is registered under a name.
var ErrTableNotFound = errors.New("table not found")

// Registry maps table names to validated tables.
// The reference table is always registered.
type Registry struct {
	mu     sync.RWMutex
	tables map[string]*domain.Table
}

// NewRegistry creates a registry holding the reference table plus tables.
func NewRegistry(tables ...*domain.Table) *Registry {
	r := &Registry{
		tables: make(map[string]*domain.Table),
	}
	r.Register(domain.Reference())
	for _, t := range tables {
		r.Register(t)
	}
	return r
}

// Register adds a table under its name.
// If a table with the same name exists, it is overwritten, except for the built-in
// table which always stays registered under domain.ReferenceName.
func (r *Registry) Register(table *domain.Table) {
	if table == nil {
		return
	}
	name := table.Name()
	if name == domain.ReferenceName {
		table = domain.Reference()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.tables[name] = table
}

// Get looks up a table by name. An empty name selects the reference table.
func (r *Registry) Get(name string) (*domain.Table, error) {
	if name == "" {
		name = domain.ReferenceName
	}

	r.mu.RLock()
	table, ok := r.tables[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTableNotFound, name)
	}
	return table, nil
}

// Names lists the registered table names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.tables))
	for name := range r.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
