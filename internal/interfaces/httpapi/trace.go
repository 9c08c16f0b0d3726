package httpapi

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const handlerSpanPrefix = "httpapi.Handler."

var (
	apiTracer = otel.Tracer("fanbet/internal/interfaces/httpapi")
	noopSpan  = trace.SpanFromContext(context.Background())
)

// healthCheckPaths are polled by orchestrators and would flood the trace backend.
var healthCheckPaths = map[string]struct{}{
	"/healthz": {},
	"/health":  {},
	"/livez":   {},
	"/readyz":  {},
}

// startSpan only opens child spans for handlers running under a traced request.
func startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	if !strings.HasPrefix(name, handlerSpanPrefix) {
		return ctx, noopSpan
	}
	if !trace.SpanFromContext(ctx).SpanContext().IsValid() {
		return ctx, noopSpan
	}
	return apiTracer.Start(ctx, name)
}

func isTracedPath(path string) bool {
	_, healthCheck := healthCheckPaths[strings.ToLower(strings.TrimSpace(path))]
	return !healthCheck
}
