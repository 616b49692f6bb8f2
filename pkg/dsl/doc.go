/*
Package dsl provides a Go DSL for programmatically constructing transition tables.

It defines tables with a fluent builder instead of YAML documents, which is useful for
generated tables, unit tests and IDE autocompletion.

Example usage:

	package main

	import (
		"github.com/aretw0/moore"
		"github.com/aretw0/moore/pkg/dsl"
	)

	func main() {
		b := dsl.New("parity")

		b.Add("even").Emit("E").Zero("even").One("odd")
		b.Add("odd").Emit("O").Zero("odd").One("even")

		loader, err := b.Build()
		if err != nil {
			panic(err)
		}
		table, _ := loader.Load(context.Background())

		m, _ := moore.New("even", moore.WithTable(table))
		// ...
	}

States keep the order in which they were first added, so the first one is the natural start.
*/
package dsl
