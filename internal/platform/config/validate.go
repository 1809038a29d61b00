package config

import (
	"errors"
	"fmt"
	"math"
)

// Validate checks all configuration values and returns aggregated errors.
func (c *Config) Validate() error {
	return errors.Join(
		c.Server.validate(),
		c.Log.validate(),
		c.Controller.validate(),
		c.Solver.validate(),
		c.Breaker.validate(),
		c.Recorder.validate(),
		c.Telemetry.validate(),
	)
}

func (s *ServerConfig) validate() error {
	var errs []error

	if s.Port < 1 || s.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be between 1 and 65535, got %d", s.Port))
	}
	if s.ReadTimeout <= 0 {
		errs = append(errs, errors.New("server.read_timeout must be positive"))
	}
	if s.WriteTimeout <= 0 {
		errs = append(errs, errors.New("server.write_timeout must be positive"))
	}

	return errors.Join(errs...)
}

func (l *LogConfig) validate() error {
	var errs []error

	switch l.Level {
	case "debug", "info", "warn", "error":
		// Valid levels.
	default:
		errs = append(errs, fmt.Errorf("log.level must be one of: debug, info, warn, error; got %q", l.Level))
	}

	switch l.Format {
	case "json", "text":
		// Valid formats.
	default:
		errs = append(errs, fmt.Errorf("log.format must be one of: json, text; got %q", l.Format))
	}

	return errors.Join(errs...)
}

func (c *ControllerConfig) validate() error {
	var errs []error

	if c.Scenario == "" {
		errs = append(errs, errors.New("controller.scenario must not be empty"))
	}
	if !(c.Rate > 0) || math.IsInf(c.Rate, 0) {
		errs = append(errs, fmt.Errorf("controller.rate must be positive and finite, got %g", c.Rate))
	}
	if c.Burst < 1 {
		errs = append(errs, fmt.Errorf("controller.burst must be >= 1, got %d", c.Burst))
	}

	return errors.Join(errs...)
}

func (s *SolverConfig) validate() error {
	var errs []error

	if s.Regularization < 0 {
		errs = append(errs, fmt.Errorf("solver.regularization must be non-negative, got %g", s.Regularization))
	}
	if s.Relaxation < 0 {
		errs = append(errs, fmt.Errorf("solver.relaxation must be non-negative, got %g", s.Relaxation))
	}
	if s.MaxIterations < 1 {
		errs = append(errs, fmt.Errorf("solver.max_iterations must be >= 1, got %d", s.MaxIterations))
	}
	if s.EpsAbs <= 0 && s.EpsRel <= 0 {
		errs = append(errs, errors.New("solver.eps_abs or solver.eps_rel must be positive"))
	}
	if s.Rho <= 0 {
		errs = append(errs, fmt.Errorf("solver.rho must be positive, got %g", s.Rho))
	}
	if s.Alpha <= 0 || s.Alpha >= 2 {
		errs = append(errs, fmt.Errorf("solver.alpha must be in (0, 2), got %g", s.Alpha))
	}

	return errors.Join(errs...)
}

func (b *BreakerConfig) validate() error {
	var errs []error

	if b.MaxFailures < 1 {
		errs = append(errs, fmt.Errorf("breaker.max_failures must be >= 1, got %d", b.MaxFailures))
	}
	if b.Timeout <= 0 {
		errs = append(errs, errors.New("breaker.timeout must be positive"))
	}

	return errors.Join(errs...)
}

func (r *RecorderConfig) validate() error {
	if r.Enabled && r.Path == "" {
		return errors.New("recorder.path must not be empty when recorder is enabled")
	}
	return nil
}

func (t *TelemetryConfig) validate() error {
	if !t.Enabled {
		return nil
	}

	var errs []error

	switch t.Exporter {
	case "stdout", "otlp", "prometheus":
		// Valid exporters.
	default:
		errs = append(errs, fmt.Errorf("telemetry.exporter must be one of: stdout, otlp, prometheus; got %q", t.Exporter))
	}

	if t.Exporter == "otlp" && t.Endpoint == "" {
		errs = append(errs, errors.New("telemetry.endpoint must not be empty when exporter is otlp"))
	}

	return errors.Join(errs...)
}
