package dto

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/jsamuelsen11/stack-of-tasks/internal/domain"
)

// Cycle history page sizes.
const (
	DefaultCyclesLimit = 20
	MaxCyclesLimit     = 1000
)

// CyclesQuery holds the query parameters of GET /api/v1/cycles.
type CyclesQuery struct {
	Limit int
}

// ParseCyclesQuery reads and validates the limit parameter. A missing limit
// means DefaultCyclesLimit.
func ParseCyclesQuery(values url.Values) (CyclesQuery, error) {
	q := CyclesQuery{Limit: DefaultCyclesLimit}
	raw := values.Get("limit")
	if raw == "" {
		return q, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return q, &domain.ValidationError{Fields: map[string]string{"limit": "must be a valid integer"}}
	}
	if n < 1 || n > MaxCyclesLimit {
		return q, &domain.ValidationError{Fields: map[string]string{
			"limit": fmt.Sprintf("must be between 1 and %d", MaxCyclesLimit),
		}}
	}
	q.Limit = n
	return q, nil
}
