package kernel

import (
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// Operator defaults for a standalone kernel. Pipeline nodes pass their own values.
const (
	DefaultVariance       = 1.0
	DefaultMaxError       = 0.01
	DefaultMaxKernelWidth = 30
)

// epsilon is the float64 machine epsilon; a tap below mass·epsilon no longer
// changes the kept mass.
const epsilon = 2.220446049250313e-16

// Spec parameterizes one directional Gaussian kernel.
//
// Fields:
//   - Direction     : axis the kernel smooths along.
//   - Variance      : σ² of the Gaussian, in grid units.
//   - MaxError      : bound on the omitted tail mass, in [0, 1].
//   - MaxKernelWidth: hard cap on the half-width (taps on each side).
type Spec struct {
	Direction      int
	Variance       float64
	MaxError       float64
	MaxKernelWidth uint
}

// DefaultSpec returns a Spec for axis 0 with the operator defaults.
func DefaultSpec() Spec {
	return Spec{
		Direction:      0,
		Variance:       DefaultVariance,
		MaxError:       DefaultMaxError,
		MaxKernelWidth: DefaultMaxKernelWidth,
	}
}

// Validate checks the Spec against the kernel sentinels.
func (s Spec) Validate() error {
	if s.Direction < 0 {
		return fmt.Errorf("Spec.Validate: direction %d: %w", s.Direction, ErrBadDirection)
	}
	if math.IsNaN(s.Variance) || math.IsInf(s.Variance, 0) || s.Variance < 0 {
		return fmt.Errorf("Spec.Validate: variance %g: %w", s.Variance, ErrBadVariance)
	}
	if math.IsNaN(s.MaxError) || s.MaxError < 0 || s.MaxError > 1 {
		return fmt.Errorf("Spec.Validate: max error %g: %w", s.MaxError, ErrBadMaxError)
	}

	return nil
}

// Option configures kernel construction.
type Option func(*options)

type options struct {
	logger *slog.Logger
}

// WithLogger routes clamp warnings to l. A nil logger is ignored.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// Kernel is a symmetric, unit-sum 1-D convolution kernel bound to one axis.
type Kernel struct {
	spec    Spec
	coeffs  []float64 // len == 2*radius+1
	clamped bool
}

// NewGaussian builds the discrete Gaussian kernel described by spec.
// Stage 1 (Validate): spec sentinels.
// Stage 2 (Grow): c[0], c[1], then c[n] while kept mass < 1 − MaxError,
// stopping after a tap below mass·epsilon or when the half-width reaches
// MaxKernelWidth.
// Stage 3 (Finalize): normalize by the kept mass and mirror.
// Complexity: O(r²) for radius r (each Bessel order costs O(n)).
func NewGaussian(spec Spec, opts ...Option) (*Kernel, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	o := options{logger: slog.Default()}
	for _, set := range opts {
		set(&o)
	}

	t := spec.Variance
	limit := 1.0 - spec.MaxError
	width := int(min(spec.MaxKernelWidth, uint(math.MaxInt32)))

	half := []float64{besselI0e(t)}
	mass := half[0]
	if width >= 1 {
		c := besselI1e(t)
		half = append(half, c)
		mass += 2 * c
	}
	clamped := false
	for n := 2; mass < limit; n++ {
		if n > width {
			clamped = true
			o.logger.Warn("kernel: half-width clamped to maximum",
				slog.Int("direction", spec.Direction),
				slog.Float64("variance", t),
				slog.Int("max_kernel_width", width),
				slog.Float64("kept_mass", mass))

			break
		}
		c := besselIne(n, t)
		half = append(half, c)
		mass += 2 * c
		if c < mass*epsilon {
			break
		}
	}

	floats.Scale(1/mass, half)

	r := len(half) - 1
	coeffs := make([]float64, 2*r+1)
	for i, c := range half {
		coeffs[r+i] = c
		coeffs[r-i] = c
	}

	return &Kernel{spec: spec, coeffs: coeffs, clamped: clamped}, nil
}

// Direction returns the axis this kernel smooths along.
func (k *Kernel) Direction() int {
	return k.spec.Direction
}

// Spec returns the parameters the kernel was built from.
func (k *Kernel) Spec() Spec {
	return k.spec
}

// Radius returns the half-width r; the kernel has 2r+1 taps.
func (k *Kernel) Radius() int {
	return len(k.coeffs) / 2
}

// Len returns the number of taps.
func (k *Kernel) Len() int {
	return len(k.coeffs)
}

// Coefficients returns a copy of the taps, offset −r first.
func (k *Kernel) Coefficients() []float64 {
	return append([]float64(nil), k.coeffs...)
}

// Taps exposes the coefficient slice without copying. Callers must not modify it.
func (k *Kernel) Taps() []float64 {
	return k.coeffs
}

// At returns the coefficient at offset in [−r, r], or 0 outside.
func (k *Kernel) At(offset int) float64 {
	r := k.Radius()
	if offset < -r || offset > r {
		return 0
	}

	return k.coeffs[offset+r]
}

// Sum returns the total mass of the taps (1 up to rounding).
func (k *Kernel) Sum() float64 {
	return floats.Sum(k.coeffs)
}

// Clamped reports whether growth stopped at MaxKernelWidth before reaching
// the requested error bound.
func (k *Kernel) Clamped() bool {
	return k.clamped
}

// String renders the taps as "[c-r, ..., cr]".
func (k *Kernel) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for i, c := range k.coeffs {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(strconv.FormatFloat(c, 'g', 6, 64))
	}
	b.WriteByte(']')

	return b.String()
}
