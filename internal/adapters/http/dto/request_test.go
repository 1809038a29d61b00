package dto_test

import (
	"errors"
	"net/url"
	"testing"

	"github.com/jsamuelsen11/stack-of-tasks/internal/adapters/http/dto"
	"github.com/jsamuelsen11/stack-of-tasks/internal/domain"
)

func TestParseCyclesQuery(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		query   string
		want    int
		wantErr bool
	}{
		{"default", "", dto.DefaultCyclesLimit, false},
		{"explicit", "limit=5", 5, false},
		{"maximum", "limit=1000", dto.MaxCyclesLimit, false},
		{"zero", "limit=0", 0, true},
		{"too large", "limit=1001", 0, true},
		{"not a number", "limit=ten", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			values, err := url.ParseQuery(tt.query)
			if err != nil {
				t.Fatalf("ParseQuery: %v", err)
			}
			q, err := dto.ParseCyclesQuery(values)
			if tt.wantErr {
				if !errors.Is(err, domain.ErrValidation) {
					t.Fatalf("error = %v, want ErrValidation", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if q.Limit != tt.want {
				t.Errorf("Limit = %d, want %d", q.Limit, tt.want)
			}
		})
	}
}
