// SPDX-License-Identifier: MIT

package regularizer

import (
	"log/slog"

	"github.com/katalvlaran/fieldreg/metrics"
)

// Defaults (single source of truth for New).
const (
	// DefaultStandardDeviation is σ on every axis, in grid units.
	DefaultStandardDeviation = 1.0

	// DefaultMaximumError bounds the tail mass dropped by kernel truncation.
	DefaultMaximumError = 0.1

	// DefaultMaximumKernelWidth caps the kernel half-width on every axis.
	DefaultMaximumKernelWidth uint = 30
)

const panicWorkersInvalid = "regularizer: WithWorkers: workers must be >= 0"

// Option configures a Gaussian at construction.
type Option func(*Options)

// Options stores the effective configuration after applying Option setters.
type Options struct {
	uniform            *float64
	standardDeviations []float64
	maximumError       float64
	maximumKernelWidth uint
	workers            int
	logger             *slog.Logger
	metrics            *metrics.Recorder
}

// WithStandardDeviation sets the same σ on every axis.
// Overrides an earlier WithStandardDeviations.
func WithStandardDeviation(sigma float64) Option {
	return func(o *Options) {
		o.uniform = &sigma
		o.standardDeviations = nil
	}
}

// WithStandardDeviations sets σ per axis; the count must equal the
// dimension passed to New (ErrDimensionMismatch otherwise).
// Overrides an earlier WithStandardDeviation.
func WithStandardDeviations(sigmas ...float64) Option {
	s := append([]float64(nil), sigmas...)

	return func(o *Options) {
		o.standardDeviations = s
		o.uniform = nil
	}
}

// WithMaximumError sets the truncation error bound ε. It is validated by the
// kernel generator when the chain is built, not here.
func WithMaximumError(eps float64) Option {
	return func(o *Options) { o.maximumError = eps }
}

// WithMaximumKernelWidth caps the kernel half-width.
func WithMaximumKernelWidth(w uint) Option {
	return func(o *Options) { o.maximumKernelWidth = w }
}

// WithWorkers bounds the goroutines used inside one axis pass
// (0 = GOMAXPROCS). Axis passes themselves always run one after another.
//
// Panics when n < 0.
func WithWorkers(n int) Option {
	if n < 0 {
		panic(panicWorkersInvalid)
	}

	return func(o *Options) { o.workers = n }
}

// WithLogger sets the structured logger. A nil logger is ignored.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMetrics records update, kernel and pass instruments on r.
// A nil recorder disables recording.
func WithMetrics(r *metrics.Recorder) Option {
	return func(o *Options) { o.metrics = r }
}

func gatherOptions(user ...Option) Options {
	o := Options{
		maximumError:       DefaultMaximumError,
		maximumKernelWidth: DefaultMaximumKernelWidth,
		logger:             slog.Default(),
	}
	for _, set := range user {
		set(&o)
	}

	return o
}
