package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/jsamuelsen11/stack-of-tasks/internal/adapters/http/dto"
	"github.com/jsamuelsen11/stack-of-tasks/internal/app/batch"
)

// batchLine is one scenario's outcome, printed as a JSON line.
type batchLine struct {
	Path     string                `json:"path"`
	Snapshot *dto.SnapshotResponse `json:"snapshot,omitempty"`
	Error    string                `json:"error,omitempty"`
}

func newBatchCmd(flags *globalFlags) *cobra.Command {
	var (
		workers int
		cycles  uint64
	)

	cmd := &cobra.Command{
		Use:   "batch <scenario>...",
		Short: "Solve several scenarios concurrently",
		Long: `batch runs every scenario for --cycles unpaced cycles, each with its own
stack, solver and engines, and prints the final snapshot of each in argument
order. It fails if any scenario failed.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cycles == 0 {
				return errors.New("--cycles must be positive")
			}
			cfg, logger, err := bootstrap(cmd, flags)
			if err != nil {
				return err
			}

			settings := loopSettings(cfg)
			settings.Rate = 0
			settings.MaxCycles = cycles
			open := func(path string) (batch.Loop, error) {
				ctrl, err := newController(path, cfg, settings, logger, nil)
				if err != nil {
					return nil, err
				}
				return ctrl.loop, nil
			}

			results := batch.Run(cmd.Context(), workers, args, open)
			enc := json.NewEncoder(cmd.OutOrStdout())
			for _, r := range results {
				line := batchLine{Path: r.Path}
				if r.Err != nil {
					line.Error = r.Err.Error()
				} else {
					snap := dto.ToSnapshotResponse(r.Snapshot)
					line.Snapshot = &snap
				}
				if err := enc.Encode(line); err != nil {
					return fmt.Errorf("writing result: %w", err)
				}
			}
			return batch.Err(results)
		},
	}
	cmd.Flags().IntVar(&workers, "workers", runtime.NumCPU(), "maximum scenarios solved at once")
	cmd.Flags().Uint64Var(&cycles, "cycles", defaultCycles, "cycles to run per scenario")
	return cmd
}
