// Package middleware holds the inbound HTTP pipeline, outermost first:
//
//	Recovery → RequestID → OpenTelemetry → Logging → Handler
//
// Each middleware is a func(http.Handler) http.Handler installed with chi's
// Router.Use.
package middleware

import "net/http"

// statusRecorder remembers the status sent downstream. A handler that only
// writes a body implicitly answers 200.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func recordStatus(w http.ResponseWriter) *statusRecorder {
	return &statusRecorder{ResponseWriter: w}
}

// Status returns the status sent, or 200 when nothing was written yet.
func (s *statusRecorder) Status() int {
	if s.status == 0 {
		return http.StatusOK
	}
	return s.status
}

// Committed reports whether the status line has gone out.
func (s *statusRecorder) Committed() bool { return s.status != 0 }

func (s *statusRecorder) WriteHeader(code int) {
	if s.Committed() {
		return
	}
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	if !s.Committed() {
		s.status = http.StatusOK
	}
	return s.ResponseWriter.Write(b)
}

// Unwrap exposes the wrapped writer to http.ResponseController.
func (s *statusRecorder) Unwrap() http.ResponseWriter { return s.ResponseWriter }
