// SPDX-License-Identifier: MIT

package main

import (
	"encoding/csv"
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/katalvlaran/lvquant/impact"
	"github.com/katalvlaran/lvquant/scenario"
)

func (a *app) countScenariosCmd() *cobra.Command {
	var (
		radius float64
		output string
	)
	cmd := &cobra.Command{
		Use:   "count-scenarios",
		Short: "Count single-link scenarios per origin zone within the radius",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("radius") {
				a.settings.Scenario.RadiusKM = radius
			}
			mode, err := a.settings.ScenarioMode()
			if err != nil {
				return err
			}
			km, err := a.loadKM()
			if err != nil {
				return err
			}
			if int(mode) >= len(km) {
				return errors.Errorf("scenario mode %v with %d modes loaded", mode, len(km))
			}
			r := a.settings.Scenario.RadiusKM
			counts, err := scenario.CountOneLink(r, km[mode])
			if err != nil {
				return err
			}
			f, err := a.create(output)
			if err != nil {
				return err
			}
			cw := csv.NewWriter(f)
			if err = cw.Write([]string{"zonei", "count_" + strconv.FormatFloat(r, 'g', -1, 64) + "KM"}); err != nil {
				return errors.Wrap(err, "Can't write header")
			}
			total := 0
			for i, c := range counts {
				total += c
				if err = cw.Write([]string{strconv.Itoa(i), strconv.Itoa(c)}); err != nil {
					return errors.Wrapf(err, "Can't write zone %d", i)
				}
			}
			cw.Flush()
			a.logger.Info("scenarios counted", "radius_km", r, "mode", mode, "total", total)

			return errors.Wrap(cw.Error(), "Can't flush counts")
		},
	}
	cmd.Flags().Float64Var(&radius, "radius", 0, "radius in km (overrides scenario.radius_km)")
	cmd.Flags().StringVarP(&output, "output", "o", "scenario_counts.csv", "counts file, relative to dirs.output")

	return cmd
}

func (a *app) zoneTotalsCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "zone-totals",
		Short: "Write observed outflow and inflow per zone and mode",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			trips, err := a.loadTrips()
			if err != nil {
				return err
			}
			f, err := a.create(output)
			if err != nil {
				return err
			}

			return impact.WriteZoneTotals(f, trips)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "OiDjTable.csv", "totals file, relative to dirs.output")

	return cmd
}
