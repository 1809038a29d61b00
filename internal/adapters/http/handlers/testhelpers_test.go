package handlers_test

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jsamuelsen11/stack-of-tasks/internal/domain"
)

var testTime = time.Date(2026, 2, 12, 15, 4, 5, 0, time.UTC)

func validSnapshot(cycle uint64) domain.Snapshot {
	return domain.Snapshot{
		Cycle:    cycle,
		Time:     testTime,
		Duration: time.Millisecond,
		State:    []float64{0.9, 0, -0.9},
		Command:  []float64{0.1, 0, -0.1},
		Levels: []domain.LevelReport{
			{Level: 0, TaskID: "postural", Rows: 3, Status: domain.StatusSolved, Iterations: 12},
			{Level: 1, TaskID: "minimum_velocity", Rows: 3, Status: domain.StatusSolved, Iterations: 8},
		},
	}
}

func decodeJSON[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var result T
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode JSON response: %v", err)
	}
	return result
}

func requireStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Errorf("status = %d, want %d; body = %s", rec.Code, want, rec.Body.String())
	}
}
