/*
Package observability exports machine activity as Prometheus metrics.

Metrics.Hooks returns lifecycle hooks that can be passed to moore.WithLifecycleHooks
or session.WithLifecycleHooks; Handler serves the registry in the text exposition format.
*/
package observability
