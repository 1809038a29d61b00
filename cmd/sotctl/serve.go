package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	nethttp "net/http"
	"time"

	"github.com/samber/do/v2"
	"github.com/spf13/cobra"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"golang.org/x/sync/errgroup"

	adapthttp "github.com/jsamuelsen11/stack-of-tasks/internal/adapters/http"
	"github.com/jsamuelsen11/stack-of-tasks/internal/adapters/http/handlers"
	"github.com/jsamuelsen11/stack-of-tasks/internal/adapters/http/middleware"
	"github.com/jsamuelsen11/stack-of-tasks/internal/adapters/recorder"
	"github.com/jsamuelsen11/stack-of-tasks/internal/app/controlloop"
	"github.com/jsamuelsen11/stack-of-tasks/internal/platform/config"
	"github.com/jsamuelsen11/stack-of-tasks/internal/platform/health"
	"github.com/jsamuelsen11/stack-of-tasks/internal/platform/telemetry"
	"github.com/jsamuelsen11/stack-of-tasks/internal/ports"
)

const otelShutdownTimeout = 5 * time.Second

func newServeCmd(flags *globalFlags) *cobra.Command {
	var scenarioPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the control loop and serve its state over HTTP",
		Long: `serve drives the configured scenario at controller.rate and exposes the
latest snapshot, the stack structure, recorded cycles, health probes and,
with the prometheus exporter, /metrics.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := bootstrap(cmd, flags, scenarioOverride(scenarioPath)...)
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg, logger)
		},
	}
	cmd.Flags().StringVar(&scenarioPath, "scenario", "", "scenario file (defaults to controller.scenario)")
	return cmd
}

func serve(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	otel, err := initTelemetry(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}
	if cfg.Telemetry.Enabled {
		logger.Info("telemetry enabled",
			slog.String("exporter", cfg.Telemetry.Exporter),
			slog.String("endpoint", cfg.Telemetry.Endpoint),
		)
	}
	defer func() {
		otelCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), otelShutdownTimeout)
		defer cancel()
		if err := otel.Shutdown(otelCtx); err != nil {
			logger.Error("telemetry shutdown error", slog.Any("error", err))
		}
	}()

	injector := do.New()
	do.ProvideValue(injector, cfg)
	do.ProvideValue(injector, logger)
	do.ProvideValue(injector, otel.metrics)
	registerDependencies(injector, cfg, logger)

	// Resolving the server wires the full graph.
	server, err := do.Invoke[*adapthttp.Server](injector)
	if err != nil {
		return fmt.Errorf("resolving server: %w", err)
	}
	loop := do.MustInvoke[*controlloop.Loop](injector)
	if cfg.Recorder.Enabled {
		rec := do.MustInvoke[*recorder.SQLite](injector)
		defer func() {
			if err := rec.Close(); err != nil {
				logger.Error("recorder close error", slog.Any("error", err))
			}
		}()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return loop.Run(gctx) })
	g.Go(func() error { return server.Run(gctx) })
	if err := g.Wait(); err != nil {
		return err
	}

	logger.Info("shutdown complete")
	return nil
}

// otelProviders bundles OpenTelemetry provider lifecycle. All fields are nil
// when telemetry is disabled.
type otelProviders struct {
	tracer  *sdktrace.TracerProvider
	meter   *sdkmetric.MeterProvider
	metrics *telemetry.Metrics
}

// Shutdown flushes both providers. Nil-safe.
func (o *otelProviders) Shutdown(ctx context.Context) error {
	var errs []error
	if o.tracer != nil {
		if err := o.tracer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer shutdown: %w", err))
		}
	}
	if o.meter != nil {
		if err := o.meter.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter shutdown: %w", err))
		}
	}
	return errors.Join(errs...)
}

func initTelemetry(ctx context.Context, cfg *config.Config) (*otelProviders, error) {
	if !cfg.Telemetry.Enabled {
		return &otelProviders{}, nil
	}

	p := &otelProviders{}
	// Prometheus only pulls metrics; spans stay on the no-op provider.
	if cfg.Telemetry.Exporter != telemetry.ExporterPrometheus {
		tp, err := telemetry.InitTracer(ctx,
			cfg.Telemetry.ServiceName,
			cfg.Telemetry.Exporter,
			cfg.Telemetry.Endpoint,
		)
		if err != nil {
			return nil, fmt.Errorf("init tracer: %w", err)
		}
		p.tracer = tp
	}

	mp, err := telemetry.InitMeter(ctx,
		cfg.Telemetry.ServiceName,
		cfg.Telemetry.Exporter,
		cfg.Telemetry.Endpoint,
	)
	if err != nil {
		_ = p.Shutdown(ctx)
		return nil, fmt.Errorf("init meter: %w", err)
	}
	p.meter = mp

	metrics, err := telemetry.NewMetrics(mp, cfg.Telemetry.ServiceName)
	if err != nil {
		_ = p.Shutdown(ctx)
		return nil, fmt.Errorf("creating metrics: %w", err)
	}
	p.metrics = metrics
	return p, nil
}

func registerDependencies(injector *do.RootScope, cfg *config.Config, logger *slog.Logger) {
	if cfg.Recorder.Enabled {
		do.Provide(injector, func(_ do.Injector) (*recorder.SQLite, error) {
			return recorder.New(cfg.Recorder.Path)
		})
	}

	do.Provide(injector, func(i do.Injector) (*controlloop.Loop, error) {
		metrics := do.MustInvoke[*telemetry.Metrics](i)
		var opts []controlloop.Option
		if cfg.Recorder.Enabled {
			rec, err := do.Invoke[*recorder.SQLite](i)
			if err != nil {
				return nil, err
			}
			opts = append(opts, controlloop.WithRecorder(rec))
		}
		ctrl, err := newController(cfg.Controller.Scenario, cfg, loopSettings(cfg), logger, metrics, opts...)
		if err != nil {
			return nil, err
		}
		return ctrl.loop, nil
	})

	do.Provide(injector, func(i do.Injector) (ports.HealthRegistry, error) {
		registry := health.New()
		registry.Register(do.MustInvoke[*controlloop.Loop](i))
		if cfg.Recorder.Enabled {
			registry.Register(do.MustInvoke[*recorder.SQLite](i))
		}
		return registry, nil
	})

	do.Provide(injector, func(i do.Injector) (*handlers.ControlHandler, error) {
		loop := do.MustInvoke[*controlloop.Loop](i)
		var history ports.CycleHistory
		if cfg.Recorder.Enabled {
			history = do.MustInvoke[*recorder.SQLite](i)
		}
		return handlers.NewControlHandler(loop, history), nil
	})

	do.Provide(injector, func(i do.Injector) (*handlers.HealthHandler, error) {
		registry := do.MustInvoke[ports.HealthRegistry](i)
		return handlers.NewHealthHandler(registry), nil
	})

	do.Provide(injector, func(i do.Injector) (nethttp.Handler, error) {
		controlH := do.MustInvoke[*handlers.ControlHandler](i)
		healthH := do.MustInvoke[*handlers.HealthHandler](i)
		metrics := do.MustInvoke[*telemetry.Metrics](i)

		return adapthttp.NewRouter(controlH, healthH, telemetry.MetricsHandler(),
			middleware.Recovery(logger),
			middleware.RequestID(),
			middleware.OpenTelemetry(metrics),
			middleware.Logging(logger),
		), nil
	})

	do.Provide(injector, func(i do.Injector) (*adapthttp.Server, error) {
		handler := do.MustInvoke[nethttp.Handler](i)
		return adapthttp.NewServer(cfg.Server, handler, logger), nil
	})
}
