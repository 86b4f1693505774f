// Package instrumentation provides OpenTelemetry metrics and tracing
// for taskcal.
//
// Metrics cover the HTTP calls made against the backend, session
// renewal attempts and outcomes, task operations, and the active
// session gauge. The default exporter is Prometheus (scraped from the
// watch-mode metrics endpoint); OTLP and stdout exporters are
// available for collector-based setups and local debugging.
//
// Tracing is off by default and can be pointed at an OTLP collector or
// stdout. Spans wrap individual backend calls.
//
// All recording methods are nil-safe: a zero Metrics value is a no-op
// recorder, so call sites never need to branch on whether
// instrumentation is enabled.
package instrumentation
