package config

const (
	defaultServerPort = 8080

	defaultControllerRate  = 100.0
	defaultControllerBurst = 1

	defaultSolverRegularization = 1e-6
	defaultSolverMaxIterations  = 4000
	defaultSolverEps            = 1e-7
	defaultSolverRho            = 0.1
	defaultSolverAlpha          = 1.6

	defaultBreakerMaxFailures = 5
	defaultBreakerHalfOpen    = 1
)

// defaults returns the default configuration values.
// These are loaded first and can be overridden by base.yaml, profile YAML, and env vars.
func defaults() map[string]any {
	return map[string]any{
		"server.host":          "0.0.0.0",
		"server.port":          defaultServerPort,
		"server.read_timeout":  "5s",
		"server.write_timeout": "10s",
		"server.idle_timeout":  "120s",

		"log.level":  "info",
		"log.format": "json",

		"controller.scenario":   "configs/scenarios/posture.yaml",
		"controller.rate":       defaultControllerRate,
		"controller.burst":      defaultControllerBurst,
		"controller.max_cycles": 0,

		"solver.regularization": defaultSolverRegularization,
		"solver.relaxation":     0.0,
		"solver.max_iterations": defaultSolverMaxIterations,
		"solver.eps_abs":        defaultSolverEps,
		"solver.eps_rel":        defaultSolverEps,
		"solver.rho":            defaultSolverRho,
		"solver.alpha":          defaultSolverAlpha,

		"breaker.max_failures":    defaultBreakerMaxFailures,
		"breaker.timeout":         "1s",
		"breaker.half_open_limit": defaultBreakerHalfOpen,

		"recorder.enabled": false,
		"recorder.path":    "cycles.db",

		"telemetry.enabled":      false,
		"telemetry.exporter":     "stdout",
		"telemetry.endpoint":     "",
		"telemetry.service_name": "stack-of-tasks",
	}
}
