package domain

// State identifiers of the reference automaton.
const (
	StateA  StateID = "A"
	StateB  StateID = "B"
	StateCa StateID = "Ca"
	StateDa StateID = "Da"
	StateCb StateID = "Cb"
	StateDb StateID = "Db"
	StateE  StateID = "E"
)

// DefaultStart is the start state of the reference automaton.
const DefaultStart = StateA

// ReferenceName is the name of the built-in table.
const ReferenceName = "reference"

var referenceRows = []Row{
	Row{ID: StateA, Output: "A", Next: [NumSymbols]StateID{Zero: StateA, One: StateB}},
	Row{ID: StateB, Output: "B", Next: [NumSymbols]StateID{Zero: StateCa, One: StateDa}},
	Row{ID: StateCa, Output: "A", Next: [NumSymbols]StateID{Zero: StateDb, One: StateB}},
	Row{ID: StateDa, Output: "B", Next: [NumSymbols]StateID{Zero: StateB, One: StateCb}},
	Row{ID: StateCb, Output: "C", Next: [NumSymbols]StateID{Zero: StateDb, One: StateB}},
	Row{ID: StateDb, Output: "C", Next: [NumSymbols]StateID{Zero: StateB, One: StateCb}},
	// E is only reachable as an alternate start state.
	Row{ID: StateE, Output: "C", Next: [NumSymbols]StateID{Zero: StateDb, One: StateE}},
}

var reference = MustTable(ReferenceName, referenceRows...)

// Reference returns the built-in seven-state table.
func Reference() *Table {
	return reference
}

// isReference reports whether rows define exactly the built-in table, in order.
func isReference(rows []Row) bool {
	if len(rows) != len(referenceRows) {
		return false
	}
	for i := range rows {
		if rows[i] != referenceRows[i] {
			return false
		}
	}
	return true
}
