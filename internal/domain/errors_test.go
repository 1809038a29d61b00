package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestShapeError(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("set weight: %w", NewShapeError("weight", 3, 3, 2, 2))

	if !errors.Is(err, ErrShapeMismatch) {
		t.Fatalf("errors.Is(err, ErrShapeMismatch) = false, want true")
	}

	var serr *ShapeError
	if !errors.As(err, &serr) {
		t.Fatalf("errors.As(err, *ShapeError) = false, want true")
	}
	if serr.Want != "3x3" || serr.Got != "2x2" {
		t.Errorf("ShapeError = {Want: %q, Got: %q}, want {3x3, 2x2}", serr.Want, serr.Got)
	}
}

func TestIndexError(t *testing.T) {
	t.Parallel()

	err := &IndexError{Owner: "sub", Index: 5, Limit: 5}
	if !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("errors.Is(err, ErrIndexOutOfRange) = false, want true")
	}
	if errors.Is(err, ErrShapeMismatch) {
		t.Errorf("errors.Is(err, ErrShapeMismatch) = true, want false")
	}
}

func TestLevelError_Unwrap(t *testing.T) {
	t.Parallel()

	cause := errors.New("kkt factorization failed")

	tests := []struct {
		name     string
		err      *LevelError
		wantIs   error
		wantNot  error
		wantWrap bool
	}{
		{
			name:    "infeasible",
			err:     &LevelError{Level: 1, TaskID: "posture", Status: StatusInfeasible},
			wantIs:  ErrInfeasibleLevel,
			wantNot: ErrSolveFailed,
		},
		{
			name:     "max iterations with cause",
			err:      &LevelError{Level: 0, TaskID: "ee", Status: StatusMaxIterations, Err: cause},
			wantIs:   ErrSolveFailed,
			wantNot:  ErrInfeasibleLevel,
			wantWrap: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if !errors.Is(tt.err, tt.wantIs) {
				t.Errorf("errors.Is(%v, %v) = false, want true", tt.err, tt.wantIs)
			}
			if errors.Is(tt.err, tt.wantNot) {
				t.Errorf("errors.Is(%v, %v) = true, want false", tt.err, tt.wantNot)
			}
			if got := errors.Is(tt.err, cause); got != tt.wantWrap {
				t.Errorf("errors.Is(err, cause) = %v, want %v", got, tt.wantWrap)
			}
		})
	}
}

func TestValidationError(t *testing.T) {
	t.Parallel()

	err := &ValidationError{Fields: map[string]string{"lambda": "must be non-negative"}}
	if !errors.Is(err, ErrValidation) {
		t.Errorf("errors.Is(err, ErrValidation) = false, want true")
	}
	if got, want := err.Error(), "validation error: lambda: must be non-negative"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
