// SPDX-License-Identifier: MIT

// Package field: functional configuration for field construction.
//   - Option / Options (functional options with unexported state),
//   - documented defaults,
//   - WithX constructors that panic on nonsensical values (programmer error).
package field

// DefaultValidateNaNInf toggles strict finite-value validation in Set.
const DefaultValidateNaNInf = true

const (
	panicSpacingInvalid = "field: WithSpacing: spacing must be finite and > 0"
	panicOriginInvalid  = "field: WithOrigin: origin must be finite"
)

// Option mutates internal options. Safe to apply repeatedly.
type Option func(*Options)

// Options stores the effective configuration after applying Option setters.
type Options struct {
	spacing        []float64 // nil ⇒ 1.0 on every axis
	origin         []float64 // nil ⇒ 0.0 on every axis
	validateNaNInf bool
}

// WithSpacing sets the physical distance between neighboring samples per axis.
// The number of values must match the region dimension (checked by New).
//
// Panics when a value is non-finite or ≤ 0.
func WithSpacing(spacing ...float64) Option {
	for _, v := range spacing {
		if isNonFinite(v) || v <= 0 {
			panic(panicSpacingInvalid)
		}
	}
	s := append([]float64(nil), spacing...)

	return func(o *Options) { o.spacing = s }
}

// WithOrigin sets the physical coordinate of the first sample per axis.
//
// Panics when a value is non-finite.
func WithOrigin(origin ...float64) Option {
	for _, v := range origin {
		if isNonFinite(v) {
			panic(panicOriginInvalid)
		}
	}
	s := append([]float64(nil), origin...)

	return func(o *Options) { o.origin = s }
}

// WithValidateNaNInf makes Set reject NaN and ±Inf components (default).
func WithValidateNaNInf() Option {
	return func(o *Options) { o.validateNaNInf = true }
}

// WithNoValidateNaNInf lets Set store any float64.
func WithNoValidateNaNInf() Option {
	return func(o *Options) { o.validateNaNInf = false }
}

// gatherOptions applies user options over the defaults, last writer wins.
func gatherOptions(user ...Option) Options {
	o := Options{validateNaNInf: DefaultValidateNaNInf}
	for _, set := range user {
		set(&o)
	}

	return o
}
