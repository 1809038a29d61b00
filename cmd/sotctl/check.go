package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"

	"github.com/jsamuelsen11/stack-of-tasks/internal/adapters/http/dto"
	"github.com/jsamuelsen11/stack-of-tasks/internal/domain"
)

// checkReport is the output of the check command.
type checkReport struct {
	Scenario string               `json:"scenario"`
	Stack    dto.StackResponse    `json:"stack"`
	Command  []float64            `json:"command,omitempty"`
	Levels   []domain.LevelReport `json:"levels,omitempty"`
}

func newCheckCmd(flags *globalFlags) *cobra.Command {
	var (
		scenarioPath string
		solveOnce    bool
	)

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Build a scenario, update it once and report its structure",
		Long: `check builds the scenario, updates every task and constraint at the
initial state and verifies the stack is consistent. With --solve it also
runs one cascade solve and reports every level.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := bootstrap(cmd, flags, scenarioOverride(scenarioPath)...)
			if err != nil {
				return err
			}

			ctrl, err := newController(cfg.Controller.Scenario, cfg, loopSettings(cfg), logger, nil)
			if err != nil {
				return err
			}
			st := ctrl.scenario.Stack
			if m := ctrl.scenario.Model; m != nil {
				q := mat.NewVecDense(m.DoF(), nil)
				q.CopyVec(ctrl.scenario.State.SliceVec(0, m.DoF()))
				if err := m.SetState(q, mat.NewVecDense(m.DoF(), nil)); err != nil {
					return fmt.Errorf("model: %w", err)
				}
			}
			if err := st.Update(ctrl.scenario.State); err != nil {
				return fmt.Errorf("update: %w", err)
			}
			if err := st.CheckConsistency(); err != nil {
				return fmt.Errorf("inconsistent stack: %w", err)
			}

			report := checkReport{Scenario: cfg.Controller.Scenario, Stack: dto.ToStackResponse(st.Describe())}
			if solveOnce {
				dq, err := ctrl.cascade.Solve(cmd.Context())
				if err != nil {
					return fmt.Errorf("solve: %w", err)
				}
				report.Command = dq.RawVector().Data
				report.Levels = ctrl.cascade.Reports()
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		},
	}
	cmd.Flags().StringVar(&scenarioPath, "scenario", "", "scenario file (defaults to controller.scenario)")
	cmd.Flags().BoolVar(&solveOnce, "solve", false, "run one cascade solve after the update")
	return cmd
}
