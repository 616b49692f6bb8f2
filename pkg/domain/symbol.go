package domain

import (
	"fmt"
	"unicode/utf8"
)

// Symbol is an input symbol of the binary alphabet.
type Symbol uint8

const (
	// Zero is the input symbol '0'.
	Zero Symbol = iota
	// One is the input symbol '1'.
	One
)

// NumSymbols is the size of the input alphabet.
const NumSymbols = 2

// Symbols lists the alphabet in index order.
var Symbols = [NumSymbols]Symbol{Zero, One}

// Valid reports whether s belongs to the alphabet.
func (s Symbol) Valid() bool {
	return s < NumSymbols
}

// CheckSymbols reports the first symbol outside the alphabet as an *InvalidSymbolError.
// Its position is the index in symbols.
func CheckSymbols(symbols ...Symbol) error {
	for i, s := range symbols {
		if !s.Valid() {
			return &InvalidSymbolError{Symbol: s.Rune(), Position: i}
		}
	}
	return nil
}

// Rune returns the textual form of the symbol ('0' or '1').
func (s Symbol) Rune() rune {
	return '0' + rune(s)
}

func (s Symbol) String() string {
	return string(s.Rune())
}

// MarshalText encodes the symbol as "0" or "1".
func (s Symbol) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("symbol %d out of range", uint8(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText decodes "0" or "1".
func (s *Symbol) UnmarshalText(text []byte) error {
	r, size := utf8.DecodeRune(text)
	if size != len(text) || len(text) == 0 {
		return &InvalidSymbolError{Symbol: r, Position: -1}
	}
	parsed, err := ParseSymbol(r)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseSymbol converts a rune into a Symbol.
// It returns an *InvalidSymbolError for anything other than '0' or '1'.
func ParseSymbol(r rune) (Symbol, error) {
	switch r {
	case '0':
		return Zero, nil
	case '1':
		return One, nil
	}
	return 0, &InvalidSymbolError{Symbol: r, Position: -1}
}

// ParseSymbols validates a whole input sequence before returning it.
// The first offending rune is reported with its position (in runes).
func ParseSymbols(input string) ([]Symbol, error) {
	symbols := make([]Symbol, 0, len(input))
	pos := 0
	for _, r := range input {
		s, err := ParseSymbol(r)
		if err != nil {
			return nil, &InvalidSymbolError{Symbol: r, Position: pos}
		}
		symbols = append(symbols, s)
		pos++
	}
	return symbols, nil
}
