/*
Package ports defines the driven ports (interfaces) of the Moore transducer.

These interfaces decouple the core logic from external implementations, allowing
machines to be persisted in various storage backends and tables to be read from
various sources.

# Key Interfaces

  - TableLoader: Responsible for producing a validated transition table (Memory, YAML, Loam).
  - StateStore: Responsible for persisting and loading session snapshots.
  - DistributedLocker: Provides distributed locking for handling concurrent session access.
*/
package ports
