package ports

import "context"

// HealthChecker is a component the readiness probe consults, such as the
// control loop or the cycle recorder.
type HealthChecker interface {
	// Name keys the component in readiness reports.
	Name() string

	// HealthCheck returns nil when the component can serve. It must give
	// up when ctx is done.
	HealthCheck(ctx context.Context) error
}

// HealthRegistry collects checkers and runs them on demand.
type HealthRegistry interface {
	Register(checker HealthChecker)

	// CheckAll runs every check and returns the errors keyed by name. A nil
	// error means healthy.
	CheckAll(ctx context.Context) map[string]error
}
