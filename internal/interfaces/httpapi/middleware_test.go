package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.opentelemetry.io/otel/trace"
)

func TestIsTracedPath(t *testing.T) {
	t.Parallel()

	cases := map[string]bool{
		"/healthz":                    false,
		" /READYZ ":                   false,
		"/livez":                      false,
		"/v1/internal/bets":           true,
		"/v1/internal/jobs/run-cycle": true,
		"/":                           true,
	}
	for path, want := range cases {
		if got := isTracedPath(path); got != want {
			t.Fatalf("isTracedPath(%q) got=%v want=%v", path, got, want)
		}
	}
}

func TestStartSpan_SkipsWithoutParentOrForHelpers(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	if gotCtx, span := startSpan(ctx, "httpapi.Handler.PlaceBet"); gotCtx != ctx || span != noopSpan {
		t.Fatalf("expected no span without a traced parent")
	}

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	parent := trace.ContextWithSpanContext(ctx, trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	}))
	if gotCtx, span := startSpan(parent, "httpapi.writeJSON"); gotCtx != parent || span != noopSpan {
		t.Fatalf("expected helper names to skip span creation")
	}
}

func TestCORS(t *testing.T) {
	t.Parallel()

	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	cases := []struct {
		name       string
		allowed    []string
		method     string
		origin     string
		wantCode   int
		wantOrigin string
		wantVary   bool
	}{
		{"configured origin", []string{"https://admin.fanbet.example"}, http.MethodGet, "https://admin.fanbet.example", http.StatusOK, "https://admin.fanbet.example", true},
		{"wildcard preflight", []string{"*"}, http.MethodOptions, "https://admin.fanbet.example", http.StatusNoContent, "*", false},
		{"unknown origin", []string{"https://admin.fanbet.example"}, http.MethodGet, "https://evil.example", http.StatusOK, "", false},
		{"no origin header", []string{"*"}, http.MethodOptions, "", http.StatusOK, "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(tc.method, "/v1/internal/bets", nil)
			if tc.origin != "" {
				req.Header.Set("Origin", tc.origin)
			}
			rec := httptest.NewRecorder()
			CORS(tc.allowed, next).ServeHTTP(rec, req)

			if rec.Code != tc.wantCode {
				t.Fatalf("unexpected status: got=%d want=%d", rec.Code, tc.wantCode)
			}
			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tc.wantOrigin {
				t.Fatalf("unexpected allow origin: got=%q want=%q", got, tc.wantOrigin)
			}
			if got := rec.Header().Get("Vary") == "Origin"; got != tc.wantVary {
				t.Fatalf("unexpected vary header: got=%q", rec.Header().Get("Vary"))
			}
		})
	}
}
