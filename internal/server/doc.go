// Package server provides the observability endpoints for watch mode:
// a small HTTP server exposing Prometheus metrics on /metrics and
// health probes on /healthz and /readyz. It runs on a dedicated port so
// operational endpoints stay separate from the task backend traffic.
package server
