package constraint

import (
	"github.com/jsamuelsen11/stack-of-tasks/internal/domain"
	"github.com/jsamuelsen11/stack-of-tasks/internal/ports"
)

// List is an insertion-ordered constraint set keyed by handle.
type List struct {
	items []ports.Constraint
	index map[domain.Handle]int
}

var _ ports.ConstraintList = (*List)(nil)

// NewList returns a list holding cs, skipping duplicate handles.
func NewList(cs ...ports.Constraint) *List {
	l := &List{index: make(map[domain.Handle]int)}
	for _, c := range cs {
		l.Add(c)
	}
	return l
}

func (l *List) Add(c ports.Constraint) bool {
	if c == nil {
		return false
	}
	if l.index == nil {
		l.index = make(map[domain.Handle]int)
	}
	if _, ok := l.index[c.Handle()]; ok {
		return false
	}
	l.index[c.Handle()] = len(l.items)
	l.items = append(l.items, c)
	return true
}

func (l *List) Remove(h domain.Handle) bool {
	i, ok := l.index[h]
	if !ok {
		return false
	}
	l.items = append(l.items[:i], l.items[i+1:]...)
	delete(l.index, h)
	for j := i; j < len(l.items); j++ {
		l.index[l.items[j].Handle()] = j
	}
	return true
}

func (l *List) Contains(h domain.Handle) bool {
	_, ok := l.index[h]
	return ok
}

// Items returns a copy of the constraints in insertion order.
func (l *List) Items() []ports.Constraint {
	out := make([]ports.Constraint, len(l.items))
	copy(out, l.items)
	return out
}

func (l *List) Len() int { return len(l.items) }

func (l *List) Clear() {
	l.items = l.items[:0]
	clear(l.index)
}
