// Package config provides configuration loading and validation for the controller.
// Configuration is loaded from YAML files with environment variable overrides
// using a layered system: defaults -> base.yaml -> {profile}.yaml -> env vars.
package config

import "time"

// Config holds all configuration for the controller process.
type Config struct {
	Server     ServerConfig     `koanf:"server"`
	Log        LogConfig        `koanf:"log"`
	Telemetry  TelemetryConfig  `koanf:"telemetry"`
	Controller ControllerConfig `koanf:"controller"`
	Solver     SolverConfig     `koanf:"solver"`
	Breaker    BreakerConfig    `koanf:"breaker"`
	Recorder   RecorderConfig   `koanf:"recorder"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host         string        `koanf:"host"`
	Port         int           `koanf:"port"`
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
	IdleTimeout  time.Duration `koanf:"idle_timeout"`
}

// LogConfig holds structured logging settings.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// ControllerConfig holds control loop settings.
type ControllerConfig struct {
	// Scenario is the YAML file describing the stack to run.
	Scenario string `koanf:"scenario"`

	// Rate is the cycle frequency in Hz. The integration step is 1/Rate.
	Rate float64 `koanf:"rate"`

	// Burst is how many cycles may run back to back after a stall.
	Burst int `koanf:"burst"`

	// MaxCycles stops the loop after that many cycles. Zero runs until cancelled.
	MaxCycles uint64 `koanf:"max_cycles"`
}

// Period returns the duration of one cycle.
func (c ControllerConfig) Period() time.Duration {
	if c.Rate <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / c.Rate)
}

// SolverConfig holds the cascade and QP engine settings.
type SolverConfig struct {
	Regularization float64 `koanf:"regularization"`
	Relaxation     float64 `koanf:"relaxation"`
	MaxIterations  int     `koanf:"max_iterations"`
	EpsAbs         float64 `koanf:"eps_abs"`
	EpsRel         float64 `koanf:"eps_rel"`
	Rho            float64 `koanf:"rho"`
	Alpha          float64 `koanf:"alpha"`
}

// BreakerConfig holds the solve-failure circuit breaker settings.
type BreakerConfig struct {
	MaxFailures   int           `koanf:"max_failures"`
	Timeout       time.Duration `koanf:"timeout"`
	HalfOpenLimit int           `koanf:"half_open_limit"`
}

// RecorderConfig holds the cycle recorder settings.
type RecorderConfig struct {
	Enabled bool   `koanf:"enabled"`
	Path    string `koanf:"path"`
}

// TelemetryConfig holds OpenTelemetry settings.
type TelemetryConfig struct {
	Enabled     bool   `koanf:"enabled"`
	Exporter    string `koanf:"exporter"`
	Endpoint    string `koanf:"endpoint"`
	ServiceName string `koanf:"service_name"`
}
