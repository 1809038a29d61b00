package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jsamuelsen11/stack-of-tasks/internal/platform/config"
)

func TestLoad_LocalProfile(t *testing.T) {
	t.Chdir("../../..")

	cfg, err := config.Load("local")
	if err != nil {
		t.Fatalf("Load(\"local\") error: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want \"debug\"", cfg.Log.Level)
	}
	if cfg.Log.Format != "text" {
		t.Errorf("Log.Format = %q, want \"text\"", cfg.Log.Format)
	}
	if cfg.Controller.Rate != 50 {
		t.Errorf("Controller.Rate = %g, want 50", cfg.Controller.Rate)
	}
	if cfg.Telemetry.Enabled {
		t.Error("Telemetry.Enabled = true, want false for local")
	}
}

func TestLoad_ProdProfile(t *testing.T) {
	t.Chdir("../../..")

	cfg, err := config.Load("prod")
	if err != nil {
		t.Fatalf("Load(\"prod\") error: %v", err)
	}

	if cfg.Log.Format != "json" {
		t.Errorf("Log.Format = %q, want \"json\"", cfg.Log.Format)
	}
	if cfg.Controller.Rate != 500 {
		t.Errorf("Controller.Rate = %g, want 500", cfg.Controller.Rate)
	}
	if cfg.Controller.Burst != 2 {
		t.Errorf("Controller.Burst = %d, want 2", cfg.Controller.Burst)
	}
	if !cfg.Recorder.Enabled {
		t.Error("Recorder.Enabled = false, want true for prod")
	}
	if !cfg.Telemetry.Enabled {
		t.Error("Telemetry.Enabled = false, want true for prod")
	}
	if cfg.Telemetry.Exporter != "otlp" {
		t.Errorf("Telemetry.Exporter = %q, want \"otlp\"", cfg.Telemetry.Exporter)
	}
	if cfg.Telemetry.Endpoint == "" {
		t.Error("Telemetry.Endpoint is empty, want non-empty for prod")
	}
}

func TestLoad_BaseConfigInheritance(t *testing.T) {
	t.Chdir("../../..")

	cfg, err := config.Load("local")
	if err != nil {
		t.Fatalf("Load(\"local\") error: %v", err)
	}

	// These come from base.yaml, not overridden by local.yaml.
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want \"0.0.0.0\" (from base)", cfg.Server.Host)
	}
	if cfg.Solver.MaxIterations != 4000 {
		t.Errorf("Solver.MaxIterations = %d, want 4000 (from base)", cfg.Solver.MaxIterations)
	}
	if cfg.Breaker.MaxFailures != 5 {
		t.Errorf("Breaker.MaxFailures = %d, want 5 (from base)", cfg.Breaker.MaxFailures)
	}
	if cfg.Controller.Scenario != "configs/scenarios/posture.yaml" {
		t.Errorf("Controller.Scenario = %q, want posture scenario (from base)", cfg.Controller.Scenario)
	}
}

func TestLoad_DefaultsFillPartialBase(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "base.yaml"), "log:\n  level: warn\n")
	writeFile(t, filepath.Join(dir, "edge.yaml"), "controller:\n  rate: 25\n")

	cfg, err := config.Load("edge", config.WithConfigDir(dir))
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.Log.Level != "warn" {
		t.Errorf("Log.Level = %q, want \"warn\"", cfg.Log.Level)
	}
	if cfg.Controller.Rate != 25 {
		t.Errorf("Controller.Rate = %g, want 25", cfg.Controller.Rate)
	}
	if cfg.Solver.Alpha != 1.6 {
		t.Errorf("Solver.Alpha = %g, want 1.6 (default)", cfg.Solver.Alpha)
	}
	if cfg.Breaker.Timeout != time.Second {
		t.Errorf("Breaker.Timeout = %v, want 1s (default)", cfg.Breaker.Timeout)
	}
	if got := cfg.Controller.Period(); got != 40*time.Millisecond {
		t.Errorf("Controller.Period() = %v, want 40ms", got)
	}
}

func TestLoad_EnvOverrideSimpleKey(t *testing.T) {
	t.Chdir("../../..")
	t.Setenv("APP_SERVER_PORT", "9090")

	cfg, err := config.Load("local")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090 (env override)", cfg.Server.Port)
	}
}

func TestLoad_EnvOverrideSnakeCaseKey(t *testing.T) {
	t.Chdir("../../..")
	t.Setenv("APP_SOLVER_MAX_ITERATIONS", "250")
	t.Setenv("APP_BREAKER_HALF_OPEN_LIMIT", "3")

	cfg, err := config.Load("local")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.Solver.MaxIterations != 250 {
		t.Errorf("Solver.MaxIterations = %d, want 250 (env override)", cfg.Solver.MaxIterations)
	}
	if cfg.Breaker.HalfOpenLimit != 3 {
		t.Errorf("Breaker.HalfOpenLimit = %d, want 3 (env override)", cfg.Breaker.HalfOpenLimit)
	}
}

func TestLoad_OverridesWinOverEnv(t *testing.T) {
	t.Chdir("../../..")
	t.Setenv("APP_CONTROLLER_SCENARIO", "configs/scenarios/from-env.yaml")

	cfg, err := config.Load("local",
		config.WithOverride("controller.scenario", "configs/scenarios/priority.yaml"),
		config.WithOverride("controller.max_cycles", uint64(10)),
	)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.Controller.Scenario != "configs/scenarios/priority.yaml" {
		t.Errorf("Controller.Scenario = %q, want the override", cfg.Controller.Scenario)
	}
	if cfg.Controller.MaxCycles != 10 {
		t.Errorf("Controller.MaxCycles = %d, want 10", cfg.Controller.MaxCycles)
	}
}

func TestLoad_InvalidOverrideFailsValidation(t *testing.T) {
	t.Chdir("../../..")

	_, err := config.Load("local", config.WithOverride("controller.rate", -1.0))
	if err == nil {
		t.Fatal("Load with negative rate returned nil error, want validation error")
	}
}

func TestLoad_MissingProfile(t *testing.T) {
	t.Chdir("../../..")

	_, err := config.Load("nonexistent")
	if err == nil {
		t.Fatal("Load(\"nonexistent\") returned nil error, want error")
	}
}

func TestLoad_UnsafeProfile(t *testing.T) {
	t.Parallel()

	for _, profile := range []string{"", "  ", "../etc", `a\b`} {
		if _, err := config.Load(profile); err == nil {
			t.Errorf("Load(%q) returned nil error, want error", profile)
		}
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	t.Parallel()

	cfg := validBaseConfig()
	cfg.Server.Port = 0

	if err := cfg.Validate(); err == nil {
		t.Fatal("Validate() returned nil, want error for port=0")
	}
}

func TestValidate_InvalidLogLevel(t *testing.T) {
	t.Parallel()

	cfg := validBaseConfig()
	cfg.Log.Level = "verbose"

	if err := cfg.Validate(); err == nil {
		t.Fatal("Validate() returned nil, want error for invalid log level")
	}
}

func TestValidate_Controller(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(c *config.Config)
	}{
		{"zero rate", func(c *config.Config) { c.Controller.Rate = 0 }},
		{"zero burst", func(c *config.Config) { c.Controller.Burst = 0 }},
		{"empty scenario", func(c *config.Config) { c.Controller.Scenario = "" }},
		{"alpha out of range", func(c *config.Config) { c.Solver.Alpha = 2 }},
		{"negative relaxation", func(c *config.Config) { c.Solver.Relaxation = -1 }},
		{"breaker without failures", func(c *config.Config) { c.Breaker.MaxFailures = 0 }},
		{"recorder without path", func(c *config.Config) { c.Recorder.Enabled = true; c.Recorder.Path = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := validBaseConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("Validate() returned nil, want error")
			}
		})
	}
}

func TestValidate_OtlpWithoutEndpoint(t *testing.T) {
	t.Parallel()

	cfg := validBaseConfig()
	cfg.Telemetry.Enabled = true
	cfg.Telemetry.Exporter = "otlp"
	cfg.Telemetry.Endpoint = ""

	if err := cfg.Validate(); err == nil {
		t.Fatal("Validate() returned nil, want error for otlp without endpoint")
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	t.Parallel()

	cfg := validBaseConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() returned error for valid config: %v", err)
	}
}

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

// validBaseConfig returns a Config with all fields set to valid values.
func validBaseConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Host:         "0.0.0.0",
			Port:         8080,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  120 * time.Second,
		},
		Log: config.LogConfig{
			Level:  "info",
			Format: "json",
		},
		Controller: config.ControllerConfig{
			Scenario: "configs/scenarios/posture.yaml",
			Rate:     100,
			Burst:    1,
		},
		Solver: config.SolverConfig{
			Regularization: 1e-6,
			MaxIterations:  4000,
			EpsAbs:         1e-7,
			EpsRel:         1e-7,
			Rho:            0.1,
			Alpha:          1.6,
		},
		Breaker: config.BreakerConfig{
			MaxFailures:   5,
			Timeout:       time.Second,
			HalfOpenLimit: 1,
		},
		Telemetry: config.TelemetryConfig{
			Enabled:  false,
			Exporter: "stdout",
		},
	}
}
