package dsl

import "github.com/aretw0/moore/pkg/domain"

// StateBuilder provides a fluent API for configuring a state.
type StateBuilder struct {
	row     domain.Row
	builder *Builder
}

// Emit sets the output of the state.
func (s *StateBuilder) Emit(output domain.Output) *StateBuilder {
	s.row.Output = output
	return s
}

// On sets the successor for symbol.
func (s *StateBuilder) On(symbol domain.Symbol, target domain.StateID) *StateBuilder {
	s.row.Next[symbol] = target
	return s
}

// Zero sets the successor on '0'.
func (s *StateBuilder) Zero(target domain.StateID) *StateBuilder {
	return s.On(domain.Zero, target)
}

// One sets the successor on '1'.
func (s *StateBuilder) One(target domain.StateID) *StateBuilder {
	return s.On(domain.One, target)
}

// Go sends both symbols to target.
func (s *StateBuilder) Go(target domain.StateID) *StateBuilder {
	return s.Zero(target).One(target)
}

// Stay makes the state absorbing.
func (s *StateBuilder) Stay() *StateBuilder {
	return s.Go(s.row.ID)
}

// Build returns the underlying domain.Row.
// This is primarily used by the Builder, but exposed for advanced usage.
func (s *StateBuilder) Build() domain.Row {
	return s.row
}
