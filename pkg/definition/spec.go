package definition

import (
	"errors"
	"fmt"
	"sort"

	"github.com/aretw0/moore/pkg/domain"
	"github.com/mitchellh/mapstructure"
)

// DefaultName names tables whose definition declares none.
const DefaultName = "custom"

// Spec is the serializable form of a table.
type Spec struct {
	Name   string      `yaml:"name" mapstructure:"name"`
	Start  string      `yaml:"start,omitempty" mapstructure:"start"`
	States []StateSpec `yaml:"states" mapstructure:"states"`
}

// StateSpec describes one state. Next maps "0" and "1" to successor ids.
type StateSpec struct {
	ID     string            `yaml:"id" mapstructure:"id"`
	Output string            `yaml:"output" mapstructure:"output"`
	Next   map[string]string `yaml:"next" mapstructure:"next"`
}

// Decode converts a generic document (as produced by a YAML or JSON decoder) into a Spec.
// Unknown keys are rejected.
func Decode(raw map[string]any) (*Spec, error) {
	var spec Spec
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &spec,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("failed to decode table definition: %w", err)
	}
	return &spec, nil
}

// Rows converts the state entries into domain rows.
// A missing or unknown symbol key is reported as a *domain.TableError.
func (s *Spec) Rows() ([]domain.Row, error) {
	var errs []error
	rows := make([]domain.Row, 0, len(s.States))
	for _, st := range s.States {
		row := domain.Row{ID: domain.StateID(st.ID), Output: domain.Output(st.Output)}
		for _, sym := range domain.Symbols {
			target, ok := st.Next[sym.String()]
			if !ok {
				errs = append(errs, &domain.TableError{
					State:  row.ID,
					Reason: fmt.Sprintf("no successor defined for symbol %s", sym),
				})
				continue
			}
			row.Next[sym] = domain.StateID(target)
		}
		for _, key := range sortedKeys(st.Next) {
			if key != domain.Zero.String() && key != domain.One.String() {
				errs = append(errs, &domain.TableError{
					State:  row.ID,
					Reason: fmt.Sprintf("successor key %q is not an input symbol", key),
				})
			}
		}
		rows = append(rows, row)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return rows, nil
}

// Table validates the definition and builds the table.
func (s *Spec) Table() (*domain.Table, error) {
	rows, err := s.Rows()
	if err != nil {
		return nil, err
	}
	table, err := domain.NewTable(s.Name, rows...)
	if err != nil {
		return nil, err
	}
	if s.Start != "" && !table.Has(domain.StateID(s.Start)) {
		return nil, &domain.TableError{Reason: fmt.Sprintf("start state %q is not defined", s.Start)}
	}
	return table, nil
}

// StartState returns the declared start, or the first state when none is declared.
func (s *Spec) StartState() domain.StateID {
	if s.Start != "" {
		return domain.StateID(s.Start)
	}
	if len(s.States) > 0 {
		return domain.StateID(s.States[0].ID)
	}
	return ""
}

// FromTable builds the definition describing table, with start as its declared start state.
func FromTable(table *domain.Table, start domain.StateID) *Spec {
	spec := &Spec{
		Name:   table.Name(),
		Start:  string(start),
		States: make([]StateSpec, 0, table.Len()),
	}
	for _, row := range table.Rows() {
		next := make(map[string]string, domain.NumSymbols)
		for _, sym := range domain.Symbols {
			next[sym.String()] = string(row.Next[sym])
		}
		spec.States = append(spec.States, StateSpec{
			ID:     string(row.ID),
			Output: string(row.Output),
			Next:   next,
		})
	}
	return spec
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
