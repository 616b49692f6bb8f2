/*
Package domain contains the core domain models of the Moore transducer.

It defines the closed binary input alphabet, the immutable transition table and
the persisted snapshot of a machine. This package is kept pure and free of
external dependencies like I/O or persistence, following Hexagonal Architecture
principles.

# Key Entities

  - Symbol: One of the two input symbols, Zero or One. Parsed once at the boundary.
  - Table: A validated, immutable mapping from state to (output, successor per symbol).
  - Transition: A single consumed symbol, with the state left, the state entered and its output.
  - Snapshot: The persisted form of a machine (current state, step count, visited states).
*/
package domain
