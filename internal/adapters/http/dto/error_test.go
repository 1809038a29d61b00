package dto_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jsamuelsen11/stack-of-tasks/internal/adapters/http/dto"
	"github.com/jsamuelsen11/stack-of-tasks/internal/domain"
)

func TestNewErrorResponse_StatusMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
	}{
		{"ErrNotFound maps to 404", domain.ErrNotFound, http.StatusNotFound, "urn:stack-of-tasks:problem:not-found"},
		{"validation maps to 400", &domain.ValidationError{Fields: map[string]string{"limit": "bad"}}, http.StatusBadRequest, "urn:stack-of-tasks:problem:validation"},
		{"ErrUnavailable maps to 503", domain.ErrUnavailable, http.StatusServiceUnavailable, "urn:stack-of-tasks:problem:unavailable"},
		{"wrapped unavailable", fmt.Errorf("controlloop: %w: no cycle yet", domain.ErrUnavailable), http.StatusServiceUnavailable, "urn:stack-of-tasks:problem:unavailable"},
		{"stale state maps to 503", fmt.Errorf("solve before update: %w", domain.ErrStaleState), http.StatusServiceUnavailable, "urn:stack-of-tasks:problem:stale-state"},
		{"solver error maps to 500", domain.ErrSolveFailed, http.StatusInternalServerError, "about:blank"},
		{"unknown error maps to 500", errors.New("oops"), http.StatusInternalServerError, "about:blank"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, "/api/v1/snapshot", http.NoBody)
			resp := dto.NewErrorResponse(req, tt.err)

			if resp.Status != tt.wantStatus {
				t.Errorf("Status = %d, want %d", resp.Status, tt.wantStatus)
			}
			if resp.Title != http.StatusText(tt.wantStatus) {
				t.Errorf("Title = %q, want %q", resp.Title, http.StatusText(tt.wantStatus))
			}
			if resp.Type != tt.wantType {
				t.Errorf("Type = %q, want %q", resp.Type, tt.wantType)
			}
			if resp.Instance != "/api/v1/snapshot" {
				t.Errorf("Instance = %q, want /api/v1/snapshot", resp.Instance)
			}
		})
	}
}

func TestNewErrorResponse_ValidationDetailsSorted(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cycles?limit=x", http.NoBody)
	resp := dto.NewErrorResponse(req, &domain.ValidationError{Fields: map[string]string{
		"limit":  "must be a valid integer",
		"before": "unknown parameter",
	}})

	if len(resp.Errors) != 2 {
		t.Fatalf("len(Errors) = %d, want 2", len(resp.Errors))
	}
	if resp.Errors[0].Location != "query.before" || resp.Errors[1].Location != "query.limit" {
		t.Errorf("Errors = %+v, want sorted query locations", resp.Errors)
	}
}

func TestNewErrorResponse_NoDetailsForOtherErrors(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/snapshot", http.NoBody)
	if resp := dto.NewErrorResponse(req, domain.ErrUnavailable); resp.Errors != nil {
		t.Errorf("Errors = %+v, want nil", resp.Errors)
	}
}

func TestWriteErrorResponse(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/snapshot", http.NoBody)
	dto.WriteErrorResponse(rec, req, domain.ErrUnavailable)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/problem+json" {
		t.Errorf("Content-Type = %q, want application/problem+json", ct)
	}

	var body dto.ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("body is not JSON: %v", err)
	}
	if body.Status != http.StatusServiceUnavailable || body.Detail != "unavailable" {
		t.Errorf("body = %+v", body)
	}
}
