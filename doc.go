/*
Package moore is a deterministic Moore-type finite-state transducer over the binary alphabet {0,1}.

The output of a Moore machine depends only on its current state. Every consumed symbol moves the
machine to the successor named by an immutable transition table and emits the output of the state
it just entered.

# Concept

A Machine holds a single mutable field: its current state. The Table is validated once, at
construction, and shared read-only by any number of machines. Validation of input always happens
before any transition, so a failed call never leaves a machine partially advanced.

# Usage

	package main

	import (
		"fmt"
		"log"

		"github.com/aretw0/moore"
		"github.com/aretw0/moore/pkg/domain"
	)

	func main() {
		m, err := moore.New(domain.DefaultStart)
		if err != nil {
			log.Fatal(err)
		}

		outputs, err := m.Process("00110", true)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(outputs, m.Current()) // [A A A B B B] B
	}

Machines are not safe for concurrent mutation. Give each goroutine its own Machine, or use
pkg/session to serialize access to persisted sessions.
*/
package moore
