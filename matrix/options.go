// SPDX-License-Identifier: MIT

// Package matrix: functional configuration for the numeric policy of newly
// created matrices. This file defines:
//   - documented defaults (constants),
//   - Option / Options (functional options with internal state),
//   - gatherOptions helper that resolves options into an Options value.
//
// Design goals:
//   - Deterministic behavior: no global state, no implicit randomness.
//   - No dead switches: each flag impacts behavior and is covered by tests.
//   - Policy is carried per instance: Clone and CopyFrom preserve it.
package matrix

import "math"

// ---------- Defaults (single source of truth) ----------

const (
	// DefaultValidateNaNInf toggles strict finite-value validation on Set, Fill and Apply.
	DefaultValidateNaNInf = true

	// DefaultAllowInfDistances permits +Inf values to represent "no path" in
	// shortest-time matrices that are still being solved.
	//
	// IMPORTANT:
	//   - This is NOT a "dirty-data" mode.
	//   - When ValidateNaNInf is enabled, NaN and -Inf are still rejected; only +Inf
	//     is allowed by this mode.
	DefaultAllowInfDistances = false

	// DefaultRTol and DefaultATol are the tolerances used by AllClose callers
	// that do not have a domain-specific tolerance at hand.
	DefaultRTol = 1e-9
	DefaultATol = 1e-9
)

// Option mutates internal options. Safe to apply repeatedly (idempotent).
type Option func(*Options)

// Options stores the effective configuration after applying Option setters.
// Fields are unexported; public entry points accept `...Option`.
type Options struct {
	validateNaNInf    bool // DefaultValidateNaNInf
	allowInfDistances bool // DefaultAllowInfDistances (+Inf as "no path")
}

// WithValidateNaNInf enables strict finite-value validation (the default).
func WithValidateNaNInf() Option {
	return func(o *Options) { o.validateNaNInf = true }
}

// WithNoValidateNaNInf disables NaN/Inf validation (use with care).
// The flag propagates only on creation; existing matrices are unaffected.
func WithNoValidateNaNInf() Option {
	return func(o *Options) { o.validateNaNInf = false }
}

// WithAllowInfDistances permits +Inf entries to represent "no path".
// Does NOT imply "allow NaN": NaN and -Inf are still rejected under validation.
//
// AI-Hints:
//   - Use when assembling a link-time matrix before running FloydWarshall.
func WithAllowInfDistances() Option {
	return func(o *Options) { o.allowInfDistances = true }
}

// gatherOptions resolves functional options on top of the documented defaults.
// Complexity: O(len(opts)).
func gatherOptions(opts ...Option) Options {
	o := Options{
		validateNaNInf:    DefaultValidateNaNInf,
		allowInfDistances: DefaultAllowInfDistances,
	}
	for _, fn := range opts {
		if fn != nil {
			fn(&o)
		}
	}

	return o
}

// rejects reports whether v violates the numeric policy (validate, allowInf).
func rejects(validate, allowInf bool, v float64) bool {
	if !validate {
		return false
	}
	if math.IsNaN(v) {
		return true
	}
	if math.IsInf(v, 1) {
		return !allowInf
	}

	return math.IsInf(v, -1)
}
