// SPDX-License-Identifier: MIT

package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/lvquant/gravity"
	"github.com/katalvlaran/lvquant/network"
)

// Default returns settings with every solver and scenario default filled.
// Dirs and Matrices stay empty and must come from the file.
func Default() Settings {
	return Settings{
		Model: Model{
			MaxOuterIterations: gravity.DefaultMaxOuterIterations,
			MaxInnerIterations: gravity.DefaultMaxInnerIterations,
			Tolerance:          gravity.DefaultTolerance,
			CapacitySlack:      gravity.DefaultCapacitySlack,
			Anchor:             gravity.AnchorPostChange.String(),
			Calibration:        "calibration.yaml",
		},
		Scenario: Scenario{
			Kind:     "onelink",
			Mode:     network.Road.String(),
			RadiusKM: 10,
			Links:    1,
			Count:    1,
		},
	}
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(raw []byte) (Settings, error) {
	s := Default()
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return Settings{}, errors.Wrap(err, "Can't decode settings")
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}

	return s, nil
}

// Load reads and validates a settings file.
func Load(path string) (Settings, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, errors.Wrap(err, "File open")
	}

	return Parse(raw)
}

// Validate checks struct tags and the cross-section rules tags cannot express.
func (s Settings) Validate() error {
	if err := validator.New().Struct(s); err != nil {
		return errors.Wrap(err, "Invalid settings")
	}
	if s.Model.UseConstraints && s.Tables.Constraints == "" {
		return ErrMissingConstraints
	}
	if s.Tables.ZoneCodes == "" {
		for k, m := range s.Matrices {
			if m.KM == "" {
				return fmt.Errorf("mode %d: %w", k, ErrMissingZoneCodes)
			}
		}
	}
	if len(s.Sweep.Grid) > 0 && len(s.Sweep.Grid) != len(s.Matrices) {
		return fmt.Errorf("%d ranges, %d modes: %w", len(s.Sweep.Grid), len(s.Matrices), ErrSweepModes)
	}

	return nil
}

// Input resolves name against the model-runs directory.
func (s Settings) Input(name string) string {
	if name == "" || filepath.IsAbs(name) {
		return name
	}

	return filepath.Join(s.Dirs.ModelRuns, name)
}

// Output resolves name against the output directory.
func (s Settings) Output(name string) string {
	if name == "" || filepath.IsAbs(name) {
		return name
	}

	return filepath.Join(s.Dirs.Output, name)
}

// Paths returns the resolved per-mode paths of one matrix kind.
func (s Settings) Paths(pick func(ModeFiles) string) []string {
	out := make([]string, len(s.Matrices))
	for k, m := range s.Matrices {
		out[k] = s.Input(pick(m))
	}

	return out
}

// GravityOptions translates the model section into gravity options.
// constraints may be nil.
func (s Settings) GravityOptions(constraints []bool, logger *slog.Logger) ([]gravity.Option, error) {
	anchor, err := gravity.ParseAnchor(s.Model.Anchor)
	if err != nil {
		return nil, err
	}
	opts := []gravity.Option{
		gravity.WithMaxOuterIterations(s.Model.MaxOuterIterations),
		gravity.WithMaxInnerIterations(s.Model.MaxInnerIterations),
		gravity.WithTolerance(s.Model.Tolerance),
		gravity.WithCapacitySlack(s.Model.CapacitySlack),
		gravity.WithConstraintAnchor(anchor),
		gravity.WithWorkers(s.Model.Workers),
		gravity.WithLogger(logger),
	}
	if constraints != nil {
		opts = append(opts, gravity.WithConstraints(constraints))
	}

	return opts, nil
}

// ScenarioMode parses the scenario mode.
func (s Settings) ScenarioMode() (network.Mode, error) {
	return network.ParseMode(s.Scenario.Mode)
}
