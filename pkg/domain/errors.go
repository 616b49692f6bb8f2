package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidState is returned when a state identifier is not a key of the table.
var ErrInvalidState = errors.New("invalid state")

// ErrInvalidSymbol is returned when an input symbol is outside {0,1}.
var ErrInvalidSymbol = errors.New("invalid input symbol")

// ErrInvalidTable is returned when a transition table is incomplete or inconsistent.
var ErrInvalidTable = errors.New("invalid transition table")

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// InvalidStateError reports a state identifier absent from the table.
type InvalidStateError struct {
	State StateID
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("invalid state %q", string(e.State))
}

func (e *InvalidStateError) Is(target error) bool {
	return target == ErrInvalidState
}

// InvalidSymbolError reports an input symbol outside the binary alphabet.
// Position is the rune offset inside the input sequence, or -1 for a single symbol.
type InvalidSymbolError struct {
	Symbol   rune
	Position int
}

func (e *InvalidSymbolError) Error() string {
	if e.Position < 0 {
		return fmt.Sprintf("invalid input symbol %q: symbols must be '0' or '1'", e.Symbol)
	}
	return fmt.Sprintf("invalid input symbol %q at position %d: symbols must be '0' or '1'", e.Symbol, e.Position)
}

func (e *InvalidSymbolError) Is(target error) bool {
	return target == ErrInvalidSymbol
}

// TableError reports a single defect found while building a table.
type TableError struct {
	State  StateID
	Reason string
}

func (e *TableError) Error() string {
	if e.State == "" {
		return fmt.Sprintf("table: %s", e.Reason)
	}
	return fmt.Sprintf("table: state %q: %s", string(e.State), e.Reason)
}

func (e *TableError) Is(target error) bool {
	return target == ErrInvalidTable
}
