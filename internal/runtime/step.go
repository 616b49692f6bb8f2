package runtime

import (
	"github.com/aretw0/moore/pkg/domain"
)

// Step consumes one textual symbol ('0' or '1') and returns the output of the state entered.
// An invalid symbol yields an *domain.InvalidSymbolError and no transition.
func (m *Machine) Step(symbol rune) (domain.Output, error) {
	s, err := domain.ParseSymbol(symbol)
	if err != nil {
		m.emitReject(domain.RejectSymbol, err)
		return "", err
	}
	return m.advance(s).Output, nil
}

// StepSymbol consumes a typed symbol.
// A value outside the alphabet yields an *domain.InvalidSymbolError and no transition.
func (m *Machine) StepSymbol(s domain.Symbol) (domain.Output, error) {
	if err := domain.CheckSymbols(s); err != nil {
		m.emitReject(domain.RejectSymbol, err)
		return "", err
	}
	return m.advance(s).Output, nil
}

// Process consumes a whole input string.
// The sequence is validated before any transition, so an invalid symbol anywhere leaves the
// machine where it was. With includeInitial the first element is the output of the state
// the machine was in before consuming anything.
func (m *Machine) Process(input string, includeInitial bool) ([]domain.Output, error) {
	symbols, err := domain.ParseSymbols(input)
	if err != nil {
		m.emitReject(domain.RejectSymbol, err)
		return nil, err
	}
	return m.fold(symbols, includeInitial), nil
}

// ProcessSymbols is Process over a typed sequence.
// Every symbol is checked before the first transition.
func (m *Machine) ProcessSymbols(symbols []domain.Symbol, includeInitial bool) ([]domain.Output, error) {
	if err := domain.CheckSymbols(symbols...); err != nil {
		m.emitReject(domain.RejectSymbol, err)
		return nil, err
	}
	return m.fold(symbols, includeInitial), nil
}

func (m *Machine) fold(symbols []domain.Symbol, includeInitial bool) []domain.Output {
	outputs := make([]domain.Output, 0, len(symbols)+1)
	if includeInitial {
		outputs = append(outputs, m.Output())
	}
	for _, s := range symbols {
		outputs = append(outputs, m.advance(s).Output)
	}
	return outputs
}

// Trace is Process returning one Transition per consumed symbol.
// Validation is identical to Process.
func (m *Machine) Trace(input string) ([]domain.Transition, error) {
	symbols, err := domain.ParseSymbols(input)
	if err != nil {
		m.emitReject(domain.RejectSymbol, err)
		return nil, err
	}

	trace := make([]domain.Transition, 0, len(symbols))
	for _, s := range symbols {
		trace = append(trace, m.advance(s))
	}
	return trace, nil
}

// advance performs the single mutation of a step.
func (m *Machine) advance(s domain.Symbol) domain.Transition {
	from := m.table.At(m.current)
	m.current = m.table.Successor(m.current, s)
	to := m.table.At(m.current)

	tr := domain.Transition{
		From:   from.ID,
		Symbol: s,
		To:     to.ID,
		Output: to.Output,
	}

	m.logger.Debug("machine step", "from", tr.From, "symbol", tr.Symbol.String(), "to", tr.To, "output", tr.Output)
	if m.hooks.OnStep != nil {
		m.hooks.OnStep(&domain.StepEvent{
			EventBase:  domain.EventBase{Timestamp: m.now(), Type: domain.EventStep},
			Transition: tr,
		})
	}
	return tr
}

func (m *Machine) emitReject(kind domain.RejectKind, err error) {
	m.logger.Debug("machine rejected input", "kind", kind, "err", err)
	if m.hooks.OnReject != nil {
		m.hooks.OnReject(&domain.RejectEvent{
			EventBase: domain.EventBase{Timestamp: m.now(), Type: domain.EventReject},
			Kind:      kind,
			Err:       err,
		})
	}
}
