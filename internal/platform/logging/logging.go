// Package logging builds the process slog.Logger and carries it through
// contexts.
//
//	logger := logging.New("info", "json", os.Stderr)
//	ctx = logging.WithLogger(ctx, logger)
//
// Control code logs through the shared attribute helpers so cycle, level
// and task fields keep the same keys everywhere:
//
//	logger.WarnContext(ctx, "level solve failed",
//	    logging.Cycle(n),
//	    logging.Level(i),
//	    logging.Task(id),
//	    slog.Any("error", err),
//	)
package logging

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"gonum.org/v1/gonum/mat"
)

type contextKey struct{}

// New creates a logger at level ("debug", "info", "warn" or "error",
// anything else is info) writing text or, for any other format, JSON.
// Debug loggers include the source location.
func New(level, format string, w io.Writer) *slog.Logger {
	lvl := parseLevel(level)

	opts := &slog.HandlerOptions{
		Level:       lvl,
		AddSource:   lvl == slog.LevelDebug,
		ReplaceAttr: replaceAttr(),
	}

	var handler slog.Handler
	if format == "text" {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}
	return slog.New(handler)
}

// WithLogger stores logger in ctx.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, logger)
}

// FromContext returns the logger stored in ctx, or slog.Default().
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(contextKey{}).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}

// Cycle is the control cycle counter attribute.
func Cycle(n uint64) slog.Attr { return slog.Uint64("cycle", n) }

// Level is the priority level attribute, 0 being the highest priority.
func Level(i int) slog.Attr { return slog.Int("level", i) }

// Task is the task ID attribute.
func Task(id string) slog.Attr { return slog.String("task_id", id) }

// Vector logs v as a list of floats. A nil or empty vector logs as an
// empty list.
func Vector(key string, v mat.Vector) slog.Attr {
	if v == nil {
		return slog.Any(key, []float64{})
	}
	out := make([]float64, v.Len())
	for i := range out {
		out[i] = v.AtVec(i)
	}
	return slog.Any(key, out)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
