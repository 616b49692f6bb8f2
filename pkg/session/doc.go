/*
Package session runs machines bound to persisted sessions.

A Manager serializes operations on the same session with a reference counted
mutex, optionally backed by a ports.DistributedLocker when several replicas
share one store. State lives only in the store between calls.
*/
package session
