package middleware_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/jsamuelsen11/stack-of-tasks/internal/adapters/http/middleware"
	"github.com/jsamuelsen11/stack-of-tasks/internal/platform/logging"
)

var uuidPattern = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)

func testLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func serve(h http.Handler, method, target string, headers map[string]string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, http.NoBody)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	h.ServeHTTP(rec, req)
	return rec
}

// --- RequestID ---

func TestRequestID(t *testing.T) {
	t.Parallel()

	var got string
	h := middleware.RequestID()(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		got = middleware.RequestIDFromContext(r.Context())
	}))

	rec := serve(h, http.MethodGet, "/api/v1/snapshot", nil)
	if !uuidPattern.MatchString(got) {
		t.Errorf("generated ID %q is not a UUID v4", got)
	}
	if rec.Header().Get("X-Request-ID") != got {
		t.Errorf("response X-Request-ID = %q, want %q", rec.Header().Get("X-Request-ID"), got)
	}

	rec = serve(h, http.MethodGet, "/api/v1/snapshot", map[string]string{"X-Request-ID": "incoming-123"})
	if got != "incoming-123" || rec.Header().Get("X-Request-ID") != "incoming-123" {
		t.Errorf("RequestIDFromContext = %q, want incoming-123 reused", got)
	}

	if id := middleware.RequestIDFromContext(context.Background()); id != "" {
		t.Errorf("RequestIDFromContext(empty) = %q, want empty", id)
	}
}

func TestRequestID_ReplacesUnusableIDs(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"control characters": "abc\r\nlevel=ERROR",
		"spaces":             "two words",
		"too long":           strings.Repeat("x", 129),
	}
	for name, incoming := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			var got string
			h := middleware.RequestID()(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
				got = middleware.RequestIDFromContext(r.Context())
			}))
			req := httptest.NewRequest(http.MethodGet, "/api/v1/stack", http.NoBody)
			req.Header[http.CanonicalHeaderKey("X-Request-ID")] = []string{incoming}
			h.ServeHTTP(httptest.NewRecorder(), req)

			if !uuidPattern.MatchString(got) {
				t.Errorf("request ID = %q, want a generated UUID", got)
			}
		})
	}
}

// --- Recovery ---

func TestRecovery_HandlesPanic(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	h := middleware.Recovery(testLogger(&buf))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("index out of range")
	}))

	rec := serve(h, http.MethodGet, "/api/v1/stack", nil)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/problem+json" {
		t.Errorf("Content-Type = %q, want application/problem+json", ct)
	}
	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if strings.Contains(rec.Body.String(), "index out of range") {
		t.Error("response leaks the panic value")
	}

	out := buf.String()
	for _, want := range []string{"panic recovered", "index out of range", "goroutine"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q", want)
		}
	}
}

func TestRecovery_KeepsWrittenResponse(t *testing.T) {
	t.Parallel()

	h := middleware.Recovery(testLogger(new(bytes.Buffer)))(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte("partial"))
		panic(42)
	}))

	if rec := serve(h, http.MethodGet, "/", nil); rec.Code != http.StatusAccepted {
		t.Errorf("status = %d, want 202 kept", rec.Code)
	}
}

// --- Logging ---

func TestLogging_EnrichesContextAndLogsCompletion(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	var fromCtx *slog.Logger
	h := chi.Chain(middleware.RequestID(), middleware.Logging(testLogger(&buf))).Handler(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fromCtx = logging.FromContext(r.Context())
			w.WriteHeader(http.StatusServiceUnavailable)
		}),
	)

	serve(h, http.MethodGet, "/api/v1/snapshot", map[string]string{"X-Request-ID": "req-7"})

	if fromCtx == slog.Default() {
		t.Error("handler got the default logger, want the request logger")
	}
	out := buf.String()
	for _, want := range []string{"request completed", "request_id=req-7", "status=503", "path=/api/v1/snapshot"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output = %q, missing %q", out, want)
		}
	}
}

func TestLogging_ProbesLogAtDebug(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))
	h := middleware.Logging(logger)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	serve(h, http.MethodGet, "/health/ready", nil)
	serve(h, http.MethodGet, "/metrics", nil)

	if buf.Len() != 0 {
		t.Errorf("probe requests logged at info: %q", buf.String())
	}
}

func TestRedactHeaders(t *testing.T) {
	t.Parallel()

	headers := http.Header{}
	headers.Set("Authorization", "Bearer secret")
	headers.Set("X-Api-Key", "k-1")
	headers.Add("Accept", "application/json")
	headers.Add("Accept", "text/plain")

	got := map[string]string{}
	for _, a := range middleware.RedactHeaders(headers) {
		attr := a.(slog.Attr)
		got[attr.Key] = attr.Value.String()
	}

	if got["Authorization"] != "[REDACTED]" || got["X-Api-Key"] != "[REDACTED]" {
		t.Errorf("credentials not redacted: %v", got)
	}
	if got["Accept"] != "application/json,text/plain" {
		t.Errorf("Accept = %q, want joined values", got["Accept"])
	}
}

// --- OpenTelemetry ---
// Not parallel: these replace the global TracerProvider.

func setupTracer(t *testing.T) *tracetest.InMemoryExporter {
	t.Helper()

	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})
	t.Cleanup(func() { _ = tp.Shutdown(t.Context()) })
	return exporter
}

func TestOpenTelemetry_NamesSpanByRoute(t *testing.T) {
	exporter := setupTracer(t)

	r := chi.NewRouter()
	r.Use(middleware.OpenTelemetry(nil))
	r.Get("/api/v1/cycles", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

	serve(r, http.MethodGet, "/api/v1/cycles?limit=5", nil)

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("spans = %d, want 1", len(spans))
	}
	if spans[0].Name != "HTTP GET /api/v1/cycles" {
		t.Errorf("span name = %q, want %q", spans[0].Name, "HTTP GET /api/v1/cycles")
	}
}

func TestOpenTelemetry_ServerErrorSetsStatus(t *testing.T) {
	exporter := setupTracer(t)

	h := middleware.OpenTelemetry(nil)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	serve(h, http.MethodGet, "/nowhere", nil)

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("spans = %d, want 1", len(spans))
	}
	if spans[0].Status.Code != codes.Error {
		t.Errorf("status = %v, want Error", spans[0].Status.Code)
	}
	if spans[0].Name != "HTTP GET unmatched" {
		t.Errorf("span name = %q, want HTTP GET unmatched", spans[0].Name)
	}
}

func TestOpenTelemetry_ContinuesIncomingTrace(t *testing.T) {
	exporter := setupTracer(t)

	h := middleware.OpenTelemetry(nil)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	serve(h, http.MethodGet, "/", map[string]string{
		"traceparent": "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01",
	})

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("spans = %d, want 1", len(spans))
	}
	if got := spans[0].SpanContext.TraceID().String(); got != "4bf92f3577b34da6a3ce929d0e0e4736" {
		t.Errorf("trace ID = %s, want the incoming one", got)
	}
}
