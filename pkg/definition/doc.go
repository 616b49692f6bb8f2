// Package definition reads and writes transition tables as YAML documents.
//
// A document names the table, an optional start state, and one entry per state:
//
//	name: parity
//	start: even
//	states:
//	  - id: even
//	    output: "0"
//	    next: {"0": even, "1": odd}
//	  - id: odd
//	    output: "1"
//	    next: {"0": odd, "1": even}
//
// Documents are decoded into a generic map first and then into Spec with
// mapstructure, so scalar ids and outputs such as 0 or 1 need no quoting.
package definition
