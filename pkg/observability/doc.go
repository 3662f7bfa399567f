/*
Package observability turns form lifecycle events into metrics and logs.

Metrics registers Prometheus collectors and exposes LifecycleHooks that feed
them. LoggingHooks does the same for a structured logger. Both can be merged
with domain.LifecycleHooks.Merge and passed to the engine.
*/
package observability
