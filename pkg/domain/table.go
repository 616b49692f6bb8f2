package domain

import (
	"errors"
	"fmt"
)

// StateID identifies a state of the table.
type StateID string

// Output is the symbol emitted by a state.
type Output string

// Row is the definition of a single state: its output and its successor for each input symbol.
// Next is indexed by Symbol, so a row always defines both transitions.
type Row struct {
	ID     StateID             `json:"id" yaml:"id"`
	Output Output              `json:"output" yaml:"output"`
	Next   [NumSymbols]StateID `json:"next" yaml:"next"`
}

// Table is a validated, immutable transition table.
// Safe for concurrent use by any number of readers.
type Table struct {
	name  string
	rows  []Row
	index map[StateID]int
	next  [][NumSymbols]int
}

// NewTable validates the rows and compiles them into a Table.
// Every successor must name a state defined in rows; identifiers must be non-empty and unique.
// All defects are reported together, each as a *TableError.
// The name is required, and ReferenceName only admits the rows of the built-in table.
func NewTable(name string, rows ...Row) (*Table, error) {
	if name == "" {
		return nil, &TableError{Reason: "table name is empty"}
	}
	if name == ReferenceName && !isReference(rows) {
		return nil, &TableError{Reason: fmt.Sprintf("name %q is reserved for the built-in table", name)}
	}
	if len(rows) == 0 {
		return nil, &TableError{Reason: "no states defined"}
	}

	var errs []error
	index := make(map[StateID]int, len(rows))
	for i, row := range rows {
		if row.ID == "" {
			errs = append(errs, &TableError{Reason: fmt.Sprintf("row %d has an empty state identifier", i)})
			continue
		}
		if _, dup := index[row.ID]; dup {
			errs = append(errs, &TableError{State: row.ID, Reason: "defined more than once"})
			continue
		}
		index[row.ID] = i
	}

	next := make([][NumSymbols]int, len(rows))
	for i, row := range rows {
		for _, s := range Symbols {
			target := row.Next[s]
			j, ok := index[target]
			if !ok {
				errs = append(errs, &TableError{
					State:  row.ID,
					Reason: fmt.Sprintf("successor on %s names unknown state %q", s, string(target)),
				})
				continue
			}
			next[i][s] = j
		}
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	copied := make([]Row, len(rows))
	copy(copied, rows)

	return &Table{
		name:  name,
		rows:  copied,
		index: index,
		next:  next,
	}, nil
}

// MustTable is like NewTable but panics on an invalid definition.
// It is meant for tables authored in code and built at package initialization.
func MustTable(name string, rows ...Row) *Table {
	t, err := NewTable(name, rows...)
	if err != nil {
		panic(fmt.Sprintf("domain: %v", err))
	}
	return t
}

// Name returns the descriptive name of the table.
func (t *Table) Name() string { return t.name }

// Len returns the number of states.
func (t *Table) Len() int { return len(t.rows) }

// Has reports whether id is a state of the table.
func (t *Table) Has(id StateID) bool {
	_, ok := t.index[id]
	return ok
}

// Index returns the dense index of a state.
func (t *Table) Index(id StateID) (int, bool) {
	i, ok := t.index[id]
	return i, ok
}

// At returns the row at a dense index obtained from Index or Successor.
func (t *Table) At(i int) Row { return t.rows[i] }

// Successor returns the dense index of the state entered from i on s.
func (t *Table) Successor(i int, s Symbol) int { return t.next[i][s] }

// Row looks up a state definition by identifier.
func (t *Table) Row(id StateID) (Row, bool) {
	i, ok := t.index[id]
	if !ok {
		return Row{}, false
	}
	return t.rows[i], true
}

// Rows returns a copy of the rows in declaration order.
func (t *Table) Rows() []Row {
	out := make([]Row, len(t.rows))
	copy(out, t.rows)
	return out
}

// States returns the state identifiers in declaration order.
func (t *Table) States() []StateID {
	out := make([]StateID, len(t.rows))
	for i, r := range t.rows {
		out[i] = r.ID
	}
	return out
}

// Outputs returns the distinct output symbols in order of first appearance.
func (t *Table) Outputs() []Output {
	seen := make(map[Output]bool)
	var out []Output
	for _, r := range t.rows {
		if !seen[r.Output] {
			seen[r.Output] = true
			out = append(out, r.Output)
		}
	}
	return out
}
