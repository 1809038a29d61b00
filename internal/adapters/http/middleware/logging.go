package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/jsamuelsen11/stack-of-tasks/internal/platform/logging"
)

// Logging stores a request-scoped child logger in the context and logs each
// completed request. Probe and scrape endpoints log at debug so a polling
// orchestrator does not flood the output.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ctx := r.Context()

			child := logger.With(slog.String("request_id", RequestIDFromContext(ctx)))
			ctx = logging.WithLogger(ctx, child)

			if child.Enabled(ctx, slog.LevelDebug) {
				child.DebugContext(ctx, "request headers", RedactHeaders(r.Header)...)
			}

			rw := recordStatus(w)
			next.ServeHTTP(rw, r.WithContext(ctx))

			level := slog.LevelInfo
			if quiet(r.URL.Path) {
				level = slog.LevelDebug
			}
			child.Log(ctx, level, "request completed",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", rw.Status()),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

func quiet(path string) bool {
	return strings.HasPrefix(path, "/health/") || path == "/metrics"
}

// RedactHeaders returns headers as log attributes with credential headers
// replaced by "[REDACTED]". Multi-value headers are comma joined.
func RedactHeaders(headers http.Header) []any {
	attrs := make([]any, 0, len(headers))
	for key, vals := range headers {
		if logging.IsSensitiveHeader(key) {
			attrs = append(attrs, slog.String(key, logging.Redacted))
		} else {
			attrs = append(attrs, slog.String(key, strings.Join(vals, ",")))
		}
	}
	return attrs
}
