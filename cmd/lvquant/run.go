// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"math/rand"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/katalvlaran/lvquant/gravity"
	"github.com/katalvlaran/lvquant/impact"
	"github.com/katalvlaran/lvquant/matrix"
	"github.com/katalvlaran/lvquant/network"
	"github.com/katalvlaran/lvquant/scenario"
	"github.com/katalvlaran/lvquant/zones"
)

func (a *app) runCmd() *cobra.Command {
	var (
		count       int
		recalibrate bool
		output      string
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run scenarios against the calibrated baseline and write impact statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("count") {
				a.settings.Scenario.Count = count
			}

			return a.run(cmd, recalibrate, output)
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 0, "maximum number of scenarios (overrides scenario.count)")
	cmd.Flags().BoolVar(&recalibrate, "recalibrate", false, "calibrate even if a calibration file exists")
	cmd.Flags().StringVarP(&output, "output", "o", "impacts.csv", "statistics file, relative to dirs.output")

	return cmd
}

// baseline prepares m with betas (loaded or calibrated) and returns an
// independent fork holding the baseline prediction on the pristine network.
func (a *app) baseline(cmd *cobra.Command, m *gravity.Model, recalibrate bool) (*gravity.Model, error) {
	path := a.settings.Output(a.settings.Model.Calibration)
	_, statErr := os.Stat(path)
	if recalibrate || statErr != nil {
		if _, err := a.calibrate(cmd, m); err != nil {
			return nil, err
		}
	} else {
		cal, err := gravity.LoadCalibration(path)
		if err != nil {
			return nil, err
		}
		if _, err = m.PredictBaseline(cal.Beta); err != nil {
			return nil, err
		}
		if len(cal.Balancing) > 0 {
			if err = m.SetBalancing(cal.Balancing); err != nil {
				return nil, err
			}
		}
		a.logger.Info("calibration loaded", "file", path, "beta", cal.Beta)
	}

	base, err := m.Fork()
	if err != nil {
		return nil, err
	}
	res, err := base.ApplyScenario(cmd.Context(), gravity.Scenario{}, a.settings.Model.UseConstraints)
	if err != nil {
		return nil, err
	}
	if !res.Converged {
		a.logger.Warn("baseline capacity loop did not converge", "iterations", res.InnerIterations)
	}

	return base, nil
}

// source builds the configured scenario source over the km matrix of its mode.
func (a *app) source(mode network.Mode, km []*matrix.Dense) (scenario.Source, error) {
	sc := a.settings.Scenario
	if int(mode) >= len(km) {
		return nil, fmt.Errorf("scenario mode %v with %d modes loaded: %w", mode, len(km), network.ErrInvalidMode)
	}
	var opts []scenario.Option
	if sc.SpeedKMH > 0 {
		opts = append(opts, scenario.WithSpeed(sc.SpeedKMH))
	}
	switch sc.Kind {
	case "onelink":
		return scenario.NewOneLink(mode, sc.RadiusKM, km[mode], opts...)
	case "nlink":
		return scenario.NewNLink(mode, sc.Links, sc.RadiusKM, km[mode], rand.New(rand.NewSource(sc.Seed)), opts...)
	case "graphml":
		tbl, err := a.loadZones()
		if err != nil {
			return nil, err
		}
		return scenario.LoadGraphML(a.settings.Input(sc.GraphML), mode, tbl)
	}

	return nil, fmt.Errorf("scenario kind %q", sc.Kind)
}

func (a *app) run(cmd *cobra.Command, recalibrate bool, output string) error {
	m, err := a.newModel()
	if err != nil {
		return err
	}
	km, err := a.loadKM()
	if err != nil {
		return err
	}
	if err = checkKM(m, km); err != nil {
		return err
	}
	base, err := a.baseline(cmd, m, recalibrate)
	if err != nil {
		return err
	}
	baseSnap := impact.Take(base)

	mode, err := a.settings.ScenarioMode()
	if err != nil {
		return err
	}
	src, err := a.source(mode, km)
	if err != nil {
		return err
	}
	var tbl *zones.Table
	if a.settings.Scenario.ZoneStats {
		if tbl, err = a.loadZones(); err != nil {
			return err
		}
	}

	out, err := a.create(output)
	if err != nil {
		return err
	}
	sw := impact.NewStatisticsWriter(out, m.Modes())
	arena, err := gravity.NewArena(m)
	if err != nil {
		return err
	}

	n := 0
	for ; n < a.settings.Scenario.Count; n++ {
		changes, err := src.Next()
		if err != nil {
			return err
		}
		if len(changes) == 0 {
			break
		}
		if a.settings.Scenario.SpeedKMH > 0 {
			if changes, err = network.WithSpeed(changes, km, a.settings.Scenario.SpeedKMH); err != nil {
				return err
			}
		}

		fork, err := arena.Fork(m)
		if err != nil {
			return err
		}
		res, err := fork.ApplyScenario(cmd.Context(), gravity.Scenario{Changes: changes}, a.settings.Model.UseConstraints)
		if err != nil {
			return fmt.Errorf("scenario %d: %w", n, err)
		}
		if !res.Converged {
			a.logger.Warn("scenario capacity loop did not converge", "scenario", n, "iterations", res.InnerIterations)
		}
		scen := impact.Take(fork)
		st, err := impact.Compute(baseSnap, scen, km, changes)
		if err != nil {
			return fmt.Errorf("scenario %d: %w", n, err)
		}
		if err = sw.Write(n, st); err != nil {
			return err
		}
		if tbl != nil {
			if err = a.writeZones(n, baseSnap, scen, tbl); err != nil {
				return err
			}
		}
		a.logger.Debug("scenario done", "scenario", n, "patched", res.PatchedPairs, "saved_minutes", res.SavedMinutes)
	}
	if err = sw.Flush(); err != nil {
		return err
	}
	a.logger.Info("run finished", "run_id", sw.RunID(), "scenarios", n, "file", a.settings.Output(output))

	return nil
}

// checkKM rejects km matrices that do not fit the model before any
// calibration runs or output is created.
func checkKM(m *gravity.Model, km []*matrix.Dense) error {
	if len(km) != m.Modes() {
		return fmt.Errorf("%d km matrices for %d modes: %w", len(km), m.Modes(), gravity.ErrShapeMismatch)
	}
	if err := matrix.ValidateOrder(m.N(), asMatrices(km)...); err != nil {
		return errors.Wrap(err, "km matrices")
	}

	return nil
}

func (a *app) writeZones(n int, base, scen impact.Snapshot, tbl *zones.Table) error {
	z, err := impact.ComputeZones(base, scen)
	if err != nil {
		return err
	}
	f, err := os.Create(a.settings.Output(fmt.Sprintf("zones_%04d.csv", n)))
	if err != nil {
		return errors.Wrap(err, "File create")
	}
	defer f.Close()

	return impact.WriteZoneStatistics(f, z, tbl)
}
