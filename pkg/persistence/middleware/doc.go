// Package middleware decorates ports.StateStore implementations with
// integrity checks and history trimming.
package middleware
