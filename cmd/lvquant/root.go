// SPDX-License-Identifier: MIT

package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/katalvlaran/lvquant/config"
	"github.com/katalvlaran/lvquant/gravity"
	"github.com/katalvlaran/lvquant/matrix"
	"github.com/katalvlaran/lvquant/matrix/qbin"
	"github.com/katalvlaran/lvquant/zones"
)

// app carries the flags and the state set up before every command.
type app struct {
	settingsPath string
	logLevel     string
	logFile      string

	settings config.Settings
	logger   *slog.Logger
	closers  []io.Closer
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "lvquant",
		Short:         "Multi-modal gravity model calibration and scenario impacts",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.teardown()
		},
	}
	root.PersistentFlags().StringVarP(&a.settingsPath, "config", "c", "settings.yaml", "settings file")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "info", "debug, info, warn or error")
	root.PersistentFlags().StringVar(&a.logFile, "log-file", "", "also append log lines to this file")

	root.AddCommand(
		a.calibrateCmd(),
		a.runCmd(),
		a.sweepCmd(),
		a.countScenariosCmd(),
		a.zoneTotalsCmd(),
	)

	return root
}

func (a *app) setup() error {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(a.logLevel)); err != nil {
		return errors.Wrap(err, "Bad log level")
	}
	var w io.Writer = os.Stderr
	if a.logFile != "" {
		f, err := os.OpenFile(a.logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return errors.Wrap(err, "File open")
		}
		a.closers = append(a.closers, f)
		w = io.MultiWriter(os.Stderr, f)
	}
	a.logger = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))

	s, err := config.Load(a.settingsPath)
	if err != nil {
		return err
	}
	a.settings = s
	a.logger.Debug("settings loaded", "path", a.settingsPath, "modes", len(s.Matrices))

	return errors.Wrap(os.MkdirAll(s.Dirs.Output, 0o755), "Can't create output dir")
}

func (a *app) teardown() error {
	var first error
	for _, c := range a.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	a.closers = nil

	return first
}

// create opens an output file that teardown closes.
func (a *app) create(name string) (*os.File, error) {
	f, err := os.Create(a.settings.Output(name))
	if err != nil {
		return nil, errors.Wrap(err, "File create")
	}
	a.closers = append(a.closers, f)

	return f, nil
}

func (a *app) loadSet(what string, pick func(config.ModeFiles) string) ([]*matrix.Dense, error) {
	paths := a.settings.Paths(pick)
	ms, err := qbin.ReadSquareSet(paths...)
	if err != nil {
		return nil, errors.Wrapf(err, "Can't load %s matrices", what)
	}
	a.logger.Info("matrices loaded", "kind", what, "modes", len(ms), "zones", ms[0].Rows())

	return ms, nil
}

func (a *app) loadTrips() ([]*matrix.Dense, error) {
	return a.loadSet("trips", func(m config.ModeFiles) string { return m.Trips })
}

func (a *app) loadCosts() ([]*matrix.Dense, error) {
	return a.loadSet("costs", func(m config.ModeFiles) string { return m.Costs })
}

// loadKM reads the km matrix of every mode. A mode without a km file gets
// the great-circle distances between the zone centroids.
func (a *app) loadKM() ([]*matrix.Dense, error) {
	out := make([]*matrix.Dense, len(a.settings.Matrices))
	var crowfly *matrix.Dense
	for k, mf := range a.settings.Matrices {
		if mf.KM != "" {
			m, err := qbin.ReadFile(a.settings.Input(mf.KM), qbin.RequireSquare())
			if err != nil {
				return nil, errors.Wrap(err, "Can't load km matrices")
			}
			out[k] = m
			continue
		}
		if crowfly == nil {
			tbl, err := a.loadZones()
			if err != nil {
				return nil, err
			}
			if crowfly, err = tbl.CrowflyKM(); err != nil {
				return nil, errors.Wrap(err, "Can't derive km matrix")
			}
			a.logger.Info("km derived from zone centroids", "zones", crowfly.Rows())
		}
		out[k] = crowfly // km matrices are read-only, modes may share one
	}
	if err := matrix.ValidateOrder(out[0].Rows(), asMatrices(out)...); err != nil {
		return nil, errors.Wrap(err, "Can't load km matrices")
	}

	return out, nil
}

func asMatrices(ds []*matrix.Dense) []matrix.Matrix {
	out := make([]matrix.Matrix, len(ds))
	for i, d := range ds {
		out[i] = d
	}

	return out
}

func (a *app) loadZones() (*zones.Table, error) {
	if a.settings.Tables.ZoneCodes == "" {
		return nil, errors.New("tables.zone_codes is not set")
	}

	return zones.LoadCSV(a.settings.Input(a.settings.Tables.ZoneCodes))
}

// newModel loads trips and costs and builds the model with the configured
// options. With model.close_costs every cost matrix is replaced by its
// all-pairs shortest times first. Constraint flags are attached when
// model.use_constraints is set.
func (a *app) newModel() (*gravity.Model, error) {
	trips, err := a.loadTrips()
	if err != nil {
		return nil, err
	}
	costs, err := a.loadCosts()
	if err != nil {
		return nil, err
	}
	if a.settings.Model.CloseCosts {
		for k, c := range costs {
			if err = matrix.FloydWarshall(c); err != nil {
				return nil, errors.Wrapf(err, "Can't close cost matrix %d", k)
			}
		}
		a.logger.Info("cost matrices re-solved", "modes", len(costs))
	}
	var flags []bool
	if a.settings.Model.UseConstraints {
		if flags, err = zones.LoadConstraints(a.settings.Input(a.settings.Tables.Constraints), trips[0].Rows()); err != nil {
			return nil, err
		}
	}
	opts, err := a.settings.GravityOptions(flags, a.logger)
	if err != nil {
		return nil, err
	}

	return gravity.New(trips, costs, opts...)
}
