package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/jsamuelsen11/stack-of-tasks/internal/platform/logging"
)

// respond encodes body as JSON. Every payload here describes live controller
// state, so responses are never cacheable.
func respond(w http.ResponseWriter, r *http.Request, status int, body any) {
	h := w.Header()
	h.Set("Content-Type", "application/json")
	h.Set("Cache-Control", "no-store")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.FromContext(r.Context()).WarnContext(r.Context(), "response body truncated",
			slog.String("path", r.URL.Path),
			slog.Any("error", err),
		)
	}
}
