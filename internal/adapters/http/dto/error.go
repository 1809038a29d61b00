package dto

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sort"

	"github.com/jsamuelsen11/stack-of-tasks/internal/domain"
)

// ErrorResponse is an RFC 9457 Problem Details body.
type ErrorResponse struct {
	Type     string        `json:"type"`
	Title    string        `json:"title"`
	Status   int           `json:"status"`
	Detail   string        `json:"detail,omitempty"`
	Instance string        `json:"instance,omitempty"`
	Errors   []ErrorDetail `json:"errors,omitempty"`
}

// ErrorDetail is one invalid query parameter.
type ErrorDetail struct {
	Location string `json:"location"`
	Message  string `json:"message"`
}

// problemTypePrefix namespaces the problem types this API defines.
const problemTypePrefix = "urn:stack-of-tasks:problem:"

// problemKinds maps domain errors onto statuses, first match wins. Errors
// matching none are 500 with type about:blank.
var problemKinds = []struct {
	target error
	status int
	kind   string
}{
	{domain.ErrValidation, http.StatusBadRequest, "validation"},
	{domain.ErrNotFound, http.StatusNotFound, "not-found"},
	{domain.ErrStaleState, http.StatusServiceUnavailable, "stale-state"},
	{domain.ErrUnavailable, http.StatusServiceUnavailable, "unavailable"},
}

// NewErrorResponse builds the problem details for err.
func NewErrorResponse(r *http.Request, err error) ErrorResponse {
	resp := ErrorResponse{
		Type:     "about:blank",
		Status:   http.StatusInternalServerError,
		Detail:   err.Error(),
		Instance: r.RequestURI,
	}
	for _, k := range problemKinds {
		if errors.Is(err, k.target) {
			resp.Type = problemTypePrefix + k.kind
			resp.Status = k.status
			break
		}
	}
	resp.Title = http.StatusText(resp.Status)

	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		resp.Errors = queryDetails(verr.Fields)
	}
	return resp
}

// WriteErrorResponse writes err as application/problem+json.
func WriteErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	resp := NewErrorResponse(r, err)

	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(resp.Status)
	if encErr := json.NewEncoder(w).Encode(resp); encErr != nil {
		slog.ErrorContext(r.Context(), "failed to encode error response",
			slog.Any("error", encErr),
		)
	}
}

// queryDetails lists invalid query parameters sorted by location.
func queryDetails(fields map[string]string) []ErrorDetail {
	details := make([]ErrorDetail, 0, len(fields))
	for field, msg := range fields {
		details = append(details, ErrorDetail{Location: "query." + field, Message: msg})
	}
	sort.Slice(details, func(i, j int) bool {
		return details[i].Location < details[j].Location
	})
	return details
}
