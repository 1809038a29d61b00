package solver

import "fmt"

// LevelState tracks the engine of one priority level across cycles.
type LevelState int

const (
	// Uninitialized levels have no engine state; the next solve is cold.
	Uninitialized LevelState = iota
	// Initialized levels have an engine sized for the current shape but no
	// usable solution.
	Initialized
	// Solved levels hold a solution the next cycle warm-starts from.
	Solved
)

func (s LevelState) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Initialized:
		return "initialized"
	case Solved:
		return "solved"
	default:
		return fmt.Sprintf("LevelState(%d)", int(s))
	}
}

// transition moves l to the target state, rejecting any move that the
// solving protocol does not allow.
func (l *level) transition(to LevelState) error {
	if !isAllowedTransition(l.state, to) {
		return fmt.Errorf("level %d: disallowed transition %s -> %s", l.index, l.state, to)
	}
	l.state = to
	return nil
}

func isAllowedTransition(from, to LevelState) bool {
	switch from {
	case Uninitialized:
		return to == Initialized
	case Initialized:
		return to == Initialized || to == Solved || to == Uninitialized
	case Solved:
		return to == Solved || to == Initialized || to == Uninitialized
	default:
		return false
	}
}
