package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jsamuelsen11/stack-of-tasks/internal/platform/config"
	"github.com/jsamuelsen11/stack-of-tasks/internal/platform/logging"
)

const defaultProfile = "local"

// globalFlags are shared by every subcommand.
type globalFlags struct {
	profile   string
	configDir string
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:   "sotctl",
		Short: "Run and inspect stack-of-tasks controllers",
		Long: `sotctl drives a prioritized stack of tasks with a cascaded QP solver.

Configuration is layered: built-in defaults, configs/base.yaml, the profile
file and APP_* environment variables.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	profile := os.Getenv("APP_PROFILE")
	if profile == "" {
		profile = defaultProfile
	}
	root.PersistentFlags().StringVar(&flags.profile, "profile", profile, "configuration profile (local, dev, qa, prod)")
	root.PersistentFlags().StringVar(&flags.configDir, "config-dir", "configs", "directory holding the configuration files")

	root.AddCommand(
		newServeCmd(flags),
		newSolveCmd(flags),
		newCheckCmd(flags),
		newBatchCmd(flags),
	)
	return root
}

// bootstrap loads the configuration and builds the logger. Logs go to the
// command's stderr so stdout stays machine readable.
func bootstrap(cmd *cobra.Command, flags *globalFlags, opts ...config.Option) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(flags.profile, append([]config.Option{config.WithConfigDir(flags.configDir)}, opts...)...)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, logging.New(cfg.Log.Level, cfg.Log.Format, cmd.ErrOrStderr()), nil
}

// scenarioOverride applies a non-empty --scenario flag over
// controller.scenario.
func scenarioOverride(path string) []config.Option {
	if path == "" {
		return nil
	}
	return []config.Option{config.WithOverride("controller.scenario", path)}
}
