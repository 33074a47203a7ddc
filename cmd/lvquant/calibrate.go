// SPDX-License-Identifier: MIT

package main

import (
	"github.com/spf13/cobra"

	"github.com/katalvlaran/lvquant/gravity"
)

func (a *app) calibrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "calibrate",
		Short: "Calibrate per-mode betas and write the calibration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.newModel()
			if err != nil {
				return err
			}
			_, err = a.calibrate(cmd, m)

			return err
		},
	}
}

func (a *app) calibrate(cmd *cobra.Command, m *gravity.Model) (gravity.Calibration, error) {
	cal, err := m.Calibrate(cmd.Context())
	if err != nil {
		return cal, err
	}
	path := a.settings.Output(a.settings.Model.Calibration)
	if err = gravity.SaveCalibration(path, cal); err != nil {
		return cal, err
	}
	a.logger.Info("calibrated", "beta", cal.Beta, "cbar_obs", cal.CBarObs, "cbar_pred", cal.CBarPred,
		"outer", cal.OuterIterations, "converged", cal.Converged, "file", path)

	return cal, nil
}
