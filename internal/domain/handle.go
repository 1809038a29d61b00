package domain

import "github.com/google/uuid"

// Handle identifies a constraint instance. Constraints are de-duplicated by
// handle, never by value, so two structurally equal constraints built
// separately stay distinct.
type Handle uuid.UUID

// NewHandle returns a fresh random handle.
func NewHandle() Handle {
	return Handle(uuid.New())
}

// String implements fmt.Stringer.
func (h Handle) String() string {
	return uuid.UUID(h).String()
}

// IsZero reports whether h is the zero handle.
func (h Handle) IsZero() bool {
	return h == Handle(uuid.Nil)
}
