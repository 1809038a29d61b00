// Package health keeps the set of components consulted by the readiness
// probe and runs their checks.
package health

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jsamuelsen11/stack-of-tasks/internal/domain"
	"github.com/jsamuelsen11/stack-of-tasks/internal/ports"
)

var _ ports.HealthRegistry = (*Registry)(nil)

// DefaultTimeout bounds a single health check.
const DefaultTimeout = 2 * time.Second

// Option configures a Registry.
type Option func(*Registry)

// WithTimeout bounds each check. Zero or negative disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(r *Registry) { r.timeout = d }
}

// Registry is a concurrency-safe [ports.HealthRegistry].
type Registry struct {
	mu       sync.RWMutex
	checkers []ports.HealthChecker
	timeout  time.Duration
}

// New creates an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds checker. Checkers sharing a name report the result of the
// one registered last.
func (r *Registry) Register(checker ports.HealthChecker) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.checkers = append(r.checkers, checker)
}

// CheckAll runs every check concurrently, each under its own timeout, and
// returns the results keyed by checker name. Nil means healthy.
func (r *Registry) CheckAll(ctx context.Context) map[string]error {
	r.mu.RLock()
	checkers := append([]ports.HealthChecker(nil), r.checkers...)
	r.mu.RUnlock()

	errs := make([]error, len(checkers))
	var g errgroup.Group
	for i, c := range checkers {
		g.Go(func() error {
			errs[i] = r.check(ctx, c)
			return nil
		})
	}
	_ = g.Wait()

	results := make(map[string]error, len(checkers))
	for i, c := range checkers {
		results[c.Name()] = errs[i]
	}
	return results
}

func (r *Registry) check(ctx context.Context, c ports.HealthChecker) error {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	return c.HealthCheck(ctx)
}

// Unhealthy returns the sorted names of failed checks in results.
func Unhealthy(results map[string]error) []string {
	var names []string
	for name, err := range results {
		if err != nil {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Err summarizes results as a single error wrapping domain.ErrUnavailable,
// or nil when every check passed.
func Err(results map[string]error) error {
	names := Unhealthy(results)
	if len(names) == 0 {
		return nil
	}
	return fmt.Errorf("%w: unhealthy components %v", domain.ErrUnavailable, names)
}
