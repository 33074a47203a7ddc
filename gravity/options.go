// SPDX-License-Identifier: MIT

package gravity

import (
	"fmt"
	"io"
	"log/slog"
	"runtime"
)

// Defaults for Model options.
const (
	DefaultMaxOuterIterations = 500
	DefaultMaxInnerIterations = 200
	DefaultTolerance          = 0.001
	DefaultCapacitySlack      = 0.5
)

// Anchor selects which destination totals cap capacity-restricted zones in a scenario.
type Anchor int

const (
	// AnchorPostChange caps zones at the inflow predicted after the network
	// changes are applied and before any O/D override.
	AnchorPostChange Anchor = iota

	// AnchorPreChange caps zones at the inflow predicted on the pristine
	// network with the calibrated balancing factors.
	AnchorPreChange

	// AnchorObserved caps zones at their observed inflow, as calibration does.
	AnchorObserved
)

var anchorNames = [...]string{"post-change", "pre-change", "observed"}

// String returns the configuration name of the anchor.
func (a Anchor) String() string {
	if a >= 0 && int(a) < len(anchorNames) {
		return anchorNames[a]
	}

	return fmt.Sprintf("anchor(%d)", int(a))
}

// ParseAnchor is the inverse of Anchor.String.
func ParseAnchor(s string) (Anchor, error) {
	for i, name := range anchorNames {
		if name == s {
			return Anchor(i), nil
		}
	}

	return 0, fmt.Errorf("anchor %q: %w", s, ErrInvalidOption)
}

// Option configures a Model.
type Option func(*options)

type options struct {
	maxOuter    int
	maxInner    int
	tolerance   float64
	slack       float64
	constraints []bool
	anchor      Anchor
	workers     int
	logger      *slog.Logger
}

func defaultOptions() options {
	return options{
		maxOuter:  DefaultMaxOuterIterations,
		maxInner:  DefaultMaxInnerIterations,
		tolerance: DefaultTolerance,
		slack:     DefaultCapacitySlack,
		anchor:    AnchorPostChange,
		workers:   runtime.GOMAXPROCS(0),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// WithMaxOuterIterations caps the beta search. Exhaustion is reported via
// Calibration.Converged, not as an error.
func WithMaxOuterIterations(n int) Option {
	return func(o *options) { o.maxOuter = n }
}

// WithMaxInnerIterations caps each capacity-constraint loop.
func WithMaxInnerIterations(n int) Option {
	return func(o *options) { o.maxInner = n }
}

// WithTolerance sets the relative CBar error below which a mode's beta is accepted.
func WithTolerance(tol float64) Option {
	return func(o *options) { o.tolerance = tol }
}

// WithCapacitySlack sets how far (in trips) predicted inflow may exceed a cap.
func WithCapacitySlack(slack float64) Option {
	return func(o *options) { o.slack = slack }
}

// WithConstraints flags capacity-restricted zones (len must equal N).
func WithConstraints(flags []bool) Option {
	return func(o *options) { o.constraints = flags }
}

// WithConstraintAnchor selects the scenario capacity anchor.
func WithConstraintAnchor(a Anchor) Option {
	return func(o *options) { o.anchor = a }
}

// WithWorkers sets the row parallelism of distribution and link patching
// (≤0 means GOMAXPROCS). Results do not depend on it.
func WithWorkers(n int) Option {
	return func(o *options) {
		if n <= 0 {
			n = runtime.GOMAXPROCS(0)
		}
		o.workers = n
	}
}

// WithLogger sets the logger for iteration progress and convergence warnings.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func (o options) validate(n int) error {
	if o.maxOuter < 1 || o.maxInner < 1 {
		return fmt.Errorf("iteration caps %d/%d: %w", o.maxOuter, o.maxInner, ErrInvalidOption)
	}
	if !(o.tolerance > 0) || !(o.slack >= 0) {
		return fmt.Errorf("tolerance %g, slack %g: %w", o.tolerance, o.slack, ErrInvalidOption)
	}
	if o.anchor < AnchorPostChange || o.anchor > AnchorObserved {
		return fmt.Errorf("%v: %w", o.anchor, ErrInvalidOption)
	}
	if o.constraints != nil && len(o.constraints) != n {
		return fmt.Errorf("%d flags for %d zones: %w", len(o.constraints), n, ErrConstraintCount)
	}

	return nil
}
