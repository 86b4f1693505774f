package instrumentation

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the default tracer name for the taskcal application.
const TracerName = "taskcal"

// Span attribute keys for backend operations.
const (
	// SpanAttrOperation is the logical operation (task.list, auth.login, ...).
	SpanAttrOperation = "taskcal.operation"

	// SpanAttrPath is the route template of the backend call.
	SpanAttrPath = "taskcal.path"

	// SpanAttrStatus is the operation status attribute.
	SpanAttrStatus = "taskcal.status"

	// SpanAttrTaskID is the task identifier, when one is involved.
	SpanAttrTaskID = "taskcal.task_id"

	// SpanAttrRenewed marks a call that went through a credential renewal.
	SpanAttrRenewed = "taskcal.renewed"
)

// StartSpan starts a span for a backend operation with the standard
// attributes. The returned end function records the error state and
// ends the span.
func StartSpan(ctx context.Context, tracer trace.Tracer, operation, path string) (context.Context, func(err error)) {
	if tracer == nil {
		return ctx, func(error) {}
	}

	ctx, span := tracer.Start(ctx, operation,
		trace.WithAttributes(
			attribute.String(SpanAttrOperation, operation),
			attribute.String(SpanAttrPath, path),
		),
	)

	return ctx, func(err error) {
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			span.SetAttributes(attribute.String(SpanAttrStatus, StatusError))
		} else {
			span.SetAttributes(attribute.String(SpanAttrStatus, StatusSuccess))
		}
		span.End()
	}
}
