package instrumentation

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys.
const (
	attrMethod    = "method"
	attrPath      = "path"
	attrStatus    = "status"
	attrOperation = "operation"
	attrResult    = "result"
)

// Metrics provides methods for recording observability metrics. The
// zero value is a no-op recorder.
type Metrics struct {
	// Backend API metrics
	apiRequestsTotal   metric.Int64Counter
	apiRequestDuration metric.Float64Histogram

	// Session metrics
	renewalTotal        metric.Int64Counter
	blockedSignalsTotal metric.Int64Counter
	activeSessions      metric.Int64UpDownCounter

	// Task operation metrics
	taskOperationsTotal   metric.Int64Counter
	taskOperationDuration metric.Float64Histogram
}

// NewMetrics creates a Metrics instance with all instruments initialized.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}

	var err error

	m.apiRequestsTotal, err = meter.Int64Counter(
		"api_requests_total",
		metric.WithDescription("Total number of backend API requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create api_requests_total counter: %w", err)
	}

	m.apiRequestDuration, err = meter.Float64Histogram(
		"api_request_duration_seconds",
		metric.WithDescription("Backend API request duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.01, 0.1, 0.5, 1.0, 2.5, 5.0, 10.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create api_request_duration_seconds histogram: %w", err)
	}

	m.renewalTotal, err = meter.Int64Counter(
		"session_renewal_total",
		metric.WithDescription("Total number of silent credential renewal attempts"),
		metric.WithUnit("{attempt}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create session_renewal_total counter: %w", err)
	}

	m.blockedSignalsTotal, err = meter.Int64Counter(
		"account_blocked_signals_total",
		metric.WithDescription("Total number of blocked-account signals received"),
		metric.WithUnit("{signal}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create account_blocked_signals_total counter: %w", err)
	}

	m.activeSessions, err = meter.Int64UpDownCounter(
		"active_sessions",
		metric.WithDescription("Number of active user sessions"),
		metric.WithUnit("{session}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create active_sessions gauge: %w", err)
	}

	m.taskOperationsTotal, err = meter.Int64Counter(
		"task_operations_total",
		metric.WithDescription("Total number of task store operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create task_operations_total counter: %w", err)
	}

	m.taskOperationDuration, err = meter.Float64Histogram(
		"task_operation_duration_seconds",
		metric.WithDescription("Task store operation duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create task_operation_duration_seconds histogram: %w", err)
	}

	return m, nil
}

// RecordAPIRequest records one backend request with its route template
// (not the expanded path, to keep label cardinality bounded), status
// code and duration.
func (m *Metrics) RecordAPIRequest(ctx context.Context, method, path string, statusCode int, duration time.Duration) {
	if m == nil || m.apiRequestsTotal == nil || m.apiRequestDuration == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrMethod, method),
		attribute.String(attrPath, path),
		attribute.String(attrStatus, strconv.Itoa(statusCode)),
	}

	m.apiRequestsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.apiRequestDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordRenewal records a silent credential renewal attempt.
// Result should be RenewalResultSuccess or RenewalResultFailure.
func (m *Metrics) RecordRenewal(ctx context.Context, result string) {
	if m == nil || m.renewalTotal == nil {
		return
	}
	m.renewalTotal.Add(ctx, 1, metric.WithAttributes(attribute.String(attrResult, result)))
}

// RecordBlockedSignal records a blocked-account signal from the server.
func (m *Metrics) RecordBlockedSignal(ctx context.Context) {
	if m == nil || m.blockedSignalsTotal == nil {
		return
	}
	m.blockedSignalsTotal.Add(ctx, 1)
}

// RecordTaskOperation records a task store operation (list, create,
// edit, toggle, delete) with status and duration.
func (m *Metrics) RecordTaskOperation(ctx context.Context, operation, status string, duration time.Duration) {
	if m == nil || m.taskOperationsTotal == nil || m.taskOperationDuration == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrOperation, operation),
		attribute.String(attrStatus, status),
	}

	m.taskOperationsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.taskOperationDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// IncrementActiveSessions increments the active sessions counter.
func (m *Metrics) IncrementActiveSessions(ctx context.Context) {
	if m == nil || m.activeSessions == nil {
		return
	}
	m.activeSessions.Add(ctx, 1)
}

// DecrementActiveSessions decrements the active sessions counter.
func (m *Metrics) DecrementActiveSessions(ctx context.Context) {
	if m == nil || m.activeSessions == nil {
		return
	}
	m.activeSessions.Add(ctx, -1)
}
