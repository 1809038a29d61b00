package domain

// ConstraintKind is the shape of a constraint. Exactly one kind is active
// per constraint instance.
type ConstraintKind string

const (
	KindBound      ConstraintKind = "bound"
	KindInequality ConstraintKind = "inequality"
	KindEquality   ConstraintKind = "equality"
)

// IsValid returns true if the kind is one of the defined constants.
func (k ConstraintKind) IsValid() bool {
	switch k {
	case KindBound, KindInequality, KindEquality:
		return true
	default:
		return false
	}
}

// String implements fmt.Stringer.
func (k ConstraintKind) String() string {
	return string(k)
}
