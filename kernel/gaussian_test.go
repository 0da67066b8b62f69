package kernel_test

import (
	"bytes"
	"log/slog"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/fieldreg/kernel"
)

// quiet discards clamp warnings in tests that do not inspect them.
var quiet = kernel.WithLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))

// TestNewGaussian_Validation rejects nonsensical specs with sentinels.
func TestNewGaussian_Validation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*kernel.Spec)
		target error
	}{
		{"NegativeVariance", func(s *kernel.Spec) { s.Variance = -1 }, kernel.ErrBadVariance},
		{"NaNVariance", func(s *kernel.Spec) { s.Variance = math.NaN() }, kernel.ErrBadVariance},
		{"InfVariance", func(s *kernel.Spec) { s.Variance = math.Inf(1) }, kernel.ErrBadVariance},
		{"ErrorAboveOne", func(s *kernel.Spec) { s.MaxError = 1.5 }, kernel.ErrBadMaxError},
		{"ErrorNegative", func(s *kernel.Spec) { s.MaxError = -0.1 }, kernel.ErrBadMaxError},
		{"NegativeDirection", func(s *kernel.Spec) { s.Direction = -1 }, kernel.ErrBadDirection},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			spec := kernel.DefaultSpec()
			tc.mutate(&spec)
			_, err := kernel.NewGaussian(spec)
			require.ErrorIs(t, err, tc.target)
		})
	}
}

// TestNewGaussian_ZeroVariance yields the identity kernel.
func TestNewGaussian_ZeroVariance(t *testing.T) {
	spec := kernel.DefaultSpec()
	spec.Variance = 0
	k, err := kernel.NewGaussian(spec)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1, 0}, k.Coefficients())
	assert.False(t, k.Clamped())
}

// TestNewGaussian_UnitVariance checks the known coefficients for t = 1.
// e^-1·I0(1), e^-1·I1(1), e^-1·I2(1) keep 0.9815 of the mass, which is the
// first point above 1 − 0.1, so the radius is 2.
func TestNewGaussian_UnitVariance(t *testing.T) {
	k, err := kernel.NewGaussian(kernel.Spec{Direction: 1, Variance: 1, MaxError: 0.1, MaxKernelWidth: 30})
	require.NoError(t, err)
	require.Equal(t, 2, k.Radius())
	assert.Equal(t, 1, k.Direction())
	assert.Equal(t, kernel.Spec{Direction: 1, Variance: 1, MaxError: 0.1, MaxKernelWidth: 30}, k.Spec())

	e := math.Exp(-1)
	i0, i1, i2 := 1.2660658777520082*e, 0.5651591039924851*e, 0.13574766976703828*e
	mass := i0 + 2*i1 + 2*i2
	assert.InDelta(t, i0/mass, k.At(0), 1e-6)
	assert.InDelta(t, i1/mass, k.At(1), 1e-6)
	assert.InDelta(t, i2/mass, k.At(-2), 1e-6)
	assert.Zero(t, k.At(3), "outside the support")
}

// TestNewGaussian_Shape verifies symmetry, unit mass and monotone growth.
func TestNewGaussian_Shape(t *testing.T) {
	prev := 0
	for _, sigma := range []float64{0.25, 0.5, 1, 2, 3, 4} {
		k, err := kernel.NewGaussian(kernel.Spec{Variance: sigma * sigma, MaxError: 0.01, MaxKernelWidth: 30})
		require.NoError(t, err)

		c := k.Coefficients()
		r := k.Radius()
		require.Len(t, c, 2*r+1)
		for i := 0; i < r; i++ {
			assert.Equal(t, c[i], c[len(c)-1-i], "sigma=%g tap %d must mirror", sigma, i)
			assert.LessOrEqual(t, c[i], c[i+1], "sigma=%g taps must rise towards the center", sigma)
		}
		assert.InDelta(t, 1, k.Sum(), 1e-12, "sigma=%g must be normalized", sigma)
		assert.GreaterOrEqual(t, r, prev, "radius must not shrink with sigma")
		prev = r
	}
}

// TestNewGaussian_Clamp caps the half-width and logs a warning.
func TestNewGaussian_Clamp(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	k, err := kernel.NewGaussian(kernel.Spec{Variance: 100, MaxError: 0.01, MaxKernelWidth: 5}, kernel.WithLogger(logger))
	require.NoError(t, err)
	assert.Equal(t, 5, k.Radius())
	assert.True(t, k.Clamped())
	assert.InDelta(t, 1, k.Sum(), 1e-12)
	assert.Contains(t, buf.String(), "clamped")

	zero, err := kernel.NewGaussian(kernel.Spec{Variance: 4, MaxError: 0.01, MaxKernelWidth: 0}, quiet)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{1}, zero.Coefficients(), 1e-15, "zero width keeps only the center tap")
}

// TestNewGaussian_ErrorBound checks that the kept mass honors MaxError.
func TestNewGaussian_ErrorBound(t *testing.T) {
	loose, err := kernel.NewGaussian(kernel.Spec{Variance: 4, MaxError: 0.2, MaxKernelWidth: 30})
	require.NoError(t, err)
	tight, err := kernel.NewGaussian(kernel.Spec{Variance: 4, MaxError: 0.001, MaxKernelWidth: 30})
	require.NoError(t, err)
	assert.Greater(t, tight.Radius(), loose.Radius())
	assert.False(t, tight.Clamped())
}

// TestNewGaussian_ZeroError stops once a tap no longer changes the kept mass,
// well before a generous width cap.
func TestNewGaussian_ZeroError(t *testing.T) {
	for _, tc := range []struct {
		variance float64
		maxR     int
	}{{1, 15}, {4, 22}} {
		k, err := kernel.NewGaussian(kernel.Spec{Variance: tc.variance, MaxError: 0, MaxKernelWidth: 100}, quiet)
		require.NoError(t, err)
		assert.False(t, k.Clamped(), "variance %g", tc.variance)
		assert.LessOrEqual(t, k.Radius(), tc.maxR, "variance %g", tc.variance)
		assert.Greater(t, k.Radius(), 8, "variance %g", tc.variance)
		assert.InDelta(t, 1, k.Sum(), 1e-12)
	}
}
