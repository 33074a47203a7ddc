// SPDX-License-Identifier: MIT

package config

import "github.com/katalvlaran/lvquant/gravity"

// Dirs locates inputs and outputs. Relative file names elsewhere in the
// settings resolve against them.
type Dirs struct {
	ModelRuns string `yaml:"model_runs" validate:"required"`
	Output    string `yaml:"output" validate:"required"`
}

// ModeFiles names the matrices of one mode. Modes are positional:
// the first entry is road, then bus, then rail. Without a km file the mode
// uses great-circle distances between the zone centroids.
type ModeFiles struct {
	Trips string `yaml:"trips" validate:"required"`
	Costs string `yaml:"costs" validate:"required"`
	KM    string `yaml:"km"`
}

// Tables names the CSV inputs.
type Tables struct {
	ZoneCodes   string `yaml:"zone_codes"`
	Constraints string `yaml:"constraints"`
}

// Model holds the solver settings.
type Model struct {
	MaxOuterIterations int     `yaml:"max_outer_iterations" validate:"gte=1"`
	MaxInnerIterations int     `yaml:"max_inner_iterations" validate:"gte=1"`
	Tolerance          float64 `yaml:"tolerance" validate:"gt=0"`
	CapacitySlack      float64 `yaml:"capacity_slack" validate:"gte=0"`
	Anchor             string  `yaml:"anchor" validate:"oneof=post-change pre-change observed"`
	Workers            int     `yaml:"workers" validate:"gte=0"`
	UseConstraints     bool    `yaml:"use_constraints"`
	CloseCosts         bool    `yaml:"close_costs"` // re-solve shortest times on load
	Calibration        string  `yaml:"calibration"`
}

// Scenario configures the scenario source of a run.
type Scenario struct {
	Kind      string  `yaml:"kind" validate:"oneof=onelink nlink graphml"`
	Mode      string  `yaml:"mode" validate:"oneof=road bus rail"`
	RadiusKM  float64 `yaml:"radius_km" validate:"gte=0"`
	Links     int     `yaml:"links" validate:"gte=1"`
	SpeedKMH  float64 `yaml:"speed_kmh" validate:"gte=0"`
	GraphML   string  `yaml:"graphml" validate:"required_if=Kind graphml"`
	Count     int     `yaml:"count" validate:"gte=0"`
	Seed      int64   `yaml:"seed"`
	ZoneStats bool    `yaml:"zone_stats"`
}

// Sweep is the beta grid, one range per mode.
type Sweep struct {
	Grid []gravity.Range `yaml:"grid" validate:"dive"`
}

// Settings is the root of the YAML settings file.
type Settings struct {
	Dirs     Dirs        `yaml:"dirs" validate:"required"`
	Matrices []ModeFiles `yaml:"matrices" validate:"required,min=1,dive"`
	Tables   Tables      `yaml:"tables"`
	Model    Model       `yaml:"model"`
	Scenario Scenario    `yaml:"scenario"`
	Sweep    Sweep       `yaml:"sweep"`
}
