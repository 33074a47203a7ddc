// SPDX-License-Identifier: MIT

package main

import (
	"encoding/csv"
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/katalvlaran/lvquant/gravity"
	"github.com/katalvlaran/lvquant/network"
)

func (a *app) sweepCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Predict the baseline over a beta grid and write CBar per grid point",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(a.settings.Sweep.Grid) == 0 {
				return errors.New("sweep.grid is empty")
			}
			m, err := a.newModel()
			if err != nil {
				return err
			}
			f, err := a.create(output)
			if err != nil {
				return err
			}

			return writeSweep(cmd, m, a.settings.Sweep.Grid, csv.NewWriter(f))
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "sweep.csv", "sweep file, relative to dirs.output")

	return cmd
}

func sweepHeader(modes int) []string {
	var h []string
	for _, name := range []string{"beta", "CijObs", "Cij", "CBarObs", "CBarPred"} {
		for k := 0; k < modes; k++ {
			h = append(h, name+"_"+network.Mode(k).String())
		}
	}

	return h
}

func writeSweep(cmd *cobra.Command, m *gravity.Model, grid []gravity.Range, cw *csv.Writer) error {
	if err := cw.Write(sweepHeader(m.Modes())); err != nil {
		return errors.Wrap(err, "Can't write header")
	}
	err := gravity.Sweep(cmd.Context(), m, grid, func(r gravity.SweepRow) error {
		row := make([]string, 0, 5*len(r.Beta))
		for _, vs := range [][]float64{r.Beta, r.ObsTotal, r.PredTotal, r.CBarObs, r.CBarPred} {
			for _, v := range vs {
				row = append(row, strconv.FormatFloat(v, 'g', -1, 64))
			}
		}

		return cw.Write(row)
	})
	if err != nil {
		return err
	}
	cw.Flush()

	return errors.Wrap(cw.Error(), "Can't flush sweep")
}
