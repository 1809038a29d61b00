package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for errors.Is() checking.
var (
	ErrNotFound    = errors.New("not found")
	ErrValidation  = errors.New("validation error")
	ErrUnavailable = errors.New("unavailable")

	ErrShapeMismatch       = errors.New("shape mismatch")
	ErrIndexOutOfRange     = errors.New("index out of range")
	ErrWrongConstraintKind = errors.New("wrong constraint kind")
	ErrInvalidWeight       = errors.New("invalid weight")
	ErrInvalidGain         = errors.New("invalid gain")
	ErrInfeasibleLevel     = errors.New("infeasible level")
	ErrSolveFailed         = errors.New("solve failed")
	ErrStaleState          = errors.New("stale state")
)

// ValidationError provides programmatic access to field-level validation failures.
// Use errors.Is(err, ErrValidation) for simple checks, or errors.As(err, &verr) to
// access verr.Fields for per-field error details.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, field+": "+msg)
	}
	return fmt.Sprintf("%s: %s", ErrValidation.Error(), strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// ShapeError reports a dimension disagreement detected at the point of
// mutation. Want and Got are rendered as "rows×cols" or a plain length.
type ShapeError struct {
	Op   string
	Want string
	Got  string
}

// NewShapeError formats a ShapeError for a matrix operand.
func NewShapeError(op string, wantRows, wantCols, gotRows, gotCols int) *ShapeError {
	return &ShapeError{
		Op:   op,
		Want: fmt.Sprintf("%dx%d", wantRows, wantCols),
		Got:  fmt.Sprintf("%dx%d", gotRows, gotCols),
	}
}

// NewLengthError formats a ShapeError for a vector operand.
func NewLengthError(op string, want, got int) *ShapeError {
	return &ShapeError{Op: op, Want: fmt.Sprint(want), Got: fmt.Sprint(got)}
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s: %s: want %s, got %s", ErrShapeMismatch.Error(), e.Op, e.Want, e.Got)
}

func (e *ShapeError) Unwrap() error { return ErrShapeMismatch }

// IndexError reports a row index that does not address a row of its parent.
type IndexError struct {
	Owner string
	Index int
	Limit int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("%s: %s: index %d, rows %d", ErrIndexOutOfRange.Error(), e.Owner, e.Index, e.Limit)
}

func (e *IndexError) Unwrap() error { return ErrIndexOutOfRange }

// LevelError is returned by the cascaded solver when a priority level cannot
// be solved. It never accompanies a command.
type LevelError struct {
	Level  int
	TaskID string
	Status Status
	Err    error
}

func (e *LevelError) Error() string {
	msg := fmt.Sprintf("level %d (%s): %s", e.Level, e.TaskID, e.Status)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes ErrInfeasibleLevel for infeasible levels, ErrSolveFailed
// otherwise, together with the underlying engine error if any.
func (e *LevelError) Unwrap() []error {
	kind := ErrSolveFailed
	if e.Status == StatusInfeasible {
		kind = ErrInfeasibleLevel
	}
	if e.Err == nil {
		return []error{kind}
	}
	return []error{kind, e.Err}
}
