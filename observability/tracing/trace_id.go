package tracing

import (
	"context"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
)

// GetStartingTraceID returns the trace ID of the span in ctx. When tracing is
// off it falls back to a "man-" prefixed UUID so log lines can still be correlated.
func GetStartingTraceID(ctx context.Context) string {
	traceID := trace.SpanFromContext(ctx).SpanContext().TraceID()
	if traceID.IsValid() {
		return traceID.String()
	}
	return "man-" + uuid.NewString()
}
