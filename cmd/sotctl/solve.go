package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jsamuelsen11/stack-of-tasks/internal/adapters/http/dto"
)

const defaultCycles = 100

func newSolveCmd(flags *globalFlags) *cobra.Command {
	var (
		scenarioPath string
		cycles       uint64
	)

	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Run a scenario for a number of cycles and print every snapshot",
		Long: `solve runs the scenario unpaced and prints one JSON snapshot per line:
the state before the cycle, the command applied and the per-level reports.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := bootstrap(cmd, flags, scenarioOverride(scenarioPath)...)
			if err != nil {
				return err
			}

			settings := loopSettings(cfg)
			settings.Rate = 0
			settings.MaxCycles = cycles
			ctrl, err := newController(cfg.Controller.Scenario, cfg, settings, logger, nil)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			for range cycles {
				snap, err := ctrl.loop.Step(cmd.Context())
				if err != nil {
					return err
				}
				if err := enc.Encode(dto.ToSnapshotResponse(snap)); err != nil {
					return fmt.Errorf("writing snapshot: %w", err)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&scenarioPath, "scenario", "", "scenario file (defaults to controller.scenario)")
	cmd.Flags().Uint64Var(&cycles, "cycles", defaultCycles, "number of cycles to run")
	return cmd
}

