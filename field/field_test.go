package field_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/fieldreg/field"
)

//----------------------------------------------------------------------------//
// Construction
//----------------------------------------------------------------------------//

// TestNew_Errors verifies that invalid regions and options are rejected.
func TestNew_Errors(t *testing.T) {
	cases := []struct {
		name   string
		index  []int
		size   []int
		opts   []field.Option
		target error
	}{
		{"ZeroDim", []int{}, []int{}, nil, field.ErrBadDimension},
		{"TooManyDims", make([]int, 5), []int{1, 1, 1, 1, 1}, nil, field.ErrBadDimension},
		{"ZeroExtent", []int{0, 0}, []int{4, 0}, nil, field.ErrBadShape},
		{"NegativeExtent", []int{0}, []int{-3}, nil, field.ErrBadShape},
		{"SpacingLength", []int{0, 0}, []int{2, 2}, []field.Option{field.WithSpacing(1)}, field.ErrDimensionMismatch},
		{"OriginLength", []int{0, 0}, []int{2, 2}, []field.Option{field.WithOrigin(1, 2, 3)}, field.ErrDimensionMismatch},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := field.New(field.Region{Index: tc.index, Size: tc.size}, tc.opts...)
			require.ErrorIs(t, err, tc.target)
		})
	}
}

// TestNewRegion_LengthMismatch checks that index and size must agree.
func TestNewRegion_LengthMismatch(t *testing.T) {
	_, err := field.NewRegion([]int{0}, []int{2, 2})
	require.ErrorIs(t, err, field.ErrDimensionMismatch)
}

// TestNew_Geometry verifies defaults and explicit geometry.
func TestNew_Geometry(t *testing.T) {
	f, err := field.NewSize(3, 4)
	require.NoError(t, err)
	assert.Equal(t, 2, f.Dimension())
	assert.Equal(t, 12, f.Len())
	assert.Equal(t, []float64{1, 1}, f.Spacing())
	assert.Equal(t, []float64{0, 0}, f.Origin())
	assert.Equal(t, []int{1, 3}, f.Strides())
	assert.Len(t, f.Data(), 24, "two components per pixel")

	r, err := field.NewRegion([]int{-2, 5}, []int{3, 4})
	require.NoError(t, err)
	g, err := field.New(r, field.WithSpacing(0.5, 2), field.WithOrigin(-1, 10))
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5, 2}, g.Spacing())
	assert.Equal(t, []float64{-1, 10}, g.Origin())
	assert.True(t, g.Region().Equal(r))
}

// TestWithSpacing_Panics ensures nonsensical spacing is a programmer error.
func TestWithSpacing_Panics(t *testing.T) {
	assert.Panics(t, func() { field.WithSpacing(0) })
	assert.Panics(t, func() { field.WithSpacing(math.NaN()) })
	assert.Panics(t, func() { field.WithOrigin(math.Inf(1)) })
}

//----------------------------------------------------------------------------//
// Access
//----------------------------------------------------------------------------//

// TestAtSet_RoundTrip checks indexing with a non-zero region start.
func TestAtSet_RoundTrip(t *testing.T) {
	r, err := field.NewRegion([]int{10, 20}, []int{3, 2})
	require.NoError(t, err)
	f, err := field.New(r)
	require.NoError(t, err)

	require.NoError(t, f.Set([]int{12, 21}, []float64{1.5, -2}))
	v, err := f.At([]int{12, 21})
	require.NoError(t, err)
	assert.Equal(t, []float64{1.5, -2}, v)

	off, err := f.Offset([]int{12, 21})
	require.NoError(t, err)
	assert.Equal(t, 2+1*3, off)
	assert.Equal(t, []float64{1.5, -2}, f.Data()[off*2:off*2+2])

	v[0] = 99
	again, _ := f.At([]int{12, 21})
	assert.Equal(t, 1.5, again[0], "At must return a copy")
}

// TestAtSet_Errors covers bounds, arity and the NaN policy.
func TestAtSet_Errors(t *testing.T) {
	f, err := field.NewSize(2, 2)
	require.NoError(t, err)

	_, err = f.At([]int{2, 0})
	assert.ErrorIs(t, err, field.ErrOutOfRange)
	_, err = f.At([]int{0})
	assert.ErrorIs(t, err, field.ErrDimensionMismatch)
	assert.ErrorIs(t, f.Set([]int{0, 0}, []float64{1}), field.ErrDimensionMismatch)
	assert.ErrorIs(t, f.Set([]int{0, 0}, []float64{math.NaN(), 0}), field.ErrNaNInf)

	loose, err := field.New(f.Region(), field.WithNoValidateNaNInf())
	require.NoError(t, err)
	assert.NoError(t, loose.Set([]int{0, 0}, []float64{math.Inf(-1), 0}))
}

// TestModified_Advances verifies that writes move the modification stamp.
func TestModified_Advances(t *testing.T) {
	f, err := field.NewSize(2)
	require.NoError(t, err)
	before := f.MTime()

	require.NoError(t, f.Set([]int{1}, []float64{3}))
	assert.Greater(t, f.MTime(), before)

	mid := f.MTime()
	require.NoError(t, f.SetSpacing([]float64{1}))
	assert.Equal(t, mid, f.MTime(), "unchanged spacing is a no-op")
	require.NoError(t, f.SetSpacing([]float64{2}))
	assert.Greater(t, f.MTime(), mid)
	assert.ErrorIs(t, f.SetSpacing([]float64{-1}), field.ErrBadSpacing)
}

//----------------------------------------------------------------------------//
// Ownership: Clone / Graft / Release
//----------------------------------------------------------------------------//

// TestClone_Independent ensures the copy owns its buffer.
func TestClone_Independent(t *testing.T) {
	f, err := field.NewSize(2, 2)
	require.NoError(t, err)
	require.NoError(t, f.Fill([]float64{1, 2}))

	c := f.Clone()
	require.NoError(t, c.Set([]int{0, 0}, []float64{7, 7}))
	v, _ := f.At([]int{0, 0})
	assert.Equal(t, []float64{1, 2}, v)
	assert.True(t, f.SameGeometry(c))
}

// TestGraft_SharesBuffer verifies zero-copy adoption.
func TestGraft_SharesBuffer(t *testing.T) {
	dst, err := field.NewSize(1, 1)
	require.NoError(t, err)
	src, err := field.New(field.Region{Index: []int{0, 0}, Size: []int{3, 2}}, field.WithSpacing(2, 3))
	require.NoError(t, err)
	require.NoError(t, src.Set([]int{2, 1}, []float64{4, 5}))

	require.NoError(t, dst.Graft(src))
	assert.True(t, dst.SameGeometry(src))
	assert.Same(t, &src.Data()[0], &dst.Data()[0], "graft must not copy")
	assert.NoError(t, dst.Graft(dst), "self graft is a no-op")
	assert.ErrorIs(t, dst.Graft(nil), field.ErrNilField)
}

// TestRelease drops the buffer but keeps geometry.
func TestRelease(t *testing.T) {
	f, err := field.NewSize(4)
	require.NoError(t, err)
	f.Release()
	assert.True(t, f.Released())
	assert.Equal(t, []int{4}, f.Size())
	_, err = f.At([]int{0})
	assert.ErrorIs(t, err, field.ErrReleased)
	assert.ErrorIs(t, field.ValidateNotNil(f), field.ErrReleased)
	assert.Contains(t, f.String(), "released")
}

// TestMaxAbsDiff compares buffers under the L∞ norm.
func TestMaxAbsDiff(t *testing.T) {
	a, _ := field.NewSize(2, 2)
	b, _ := field.NewSize(2, 2)
	require.NoError(t, b.Set([]int{1, 1}, []float64{0, -0.25}))

	d, err := field.MaxAbsDiff(a, b)
	require.NoError(t, err)
	assert.InDelta(t, 0.25, d, 1e-15)

	c, _ := field.NewSize(3, 2)
	_, err = field.MaxAbsDiff(a, c)
	assert.ErrorIs(t, err, field.ErrDimensionMismatch)
	_, err = field.MaxAbsDiff(nil, a)
	assert.ErrorIs(t, err, field.ErrNilField)
}

// TestString renders a tiny field deterministically.
func TestString(t *testing.T) {
	f, _ := field.NewSize(2)
	_ = f.Set([]int{1}, []float64{0.5})
	assert.Equal(t, "Field{Index: [0] Size: [2] Vectors: [(0) (0.5)]}", f.String())
}

// TestRegion_Predicates covers Contains and IsInside.
func TestRegion_Predicates(t *testing.T) {
	outer, _ := field.NewRegion([]int{0, 0}, []int{5, 5})
	inner, _ := field.NewRegion([]int{1, 2}, []int{3, 3})
	wide, _ := field.NewRegion([]int{1, 2}, []int{3, 4})

	assert.True(t, outer.Contains(inner))
	assert.False(t, outer.Contains(wide))
	assert.True(t, inner.IsInside([]int{3, 4}))
	assert.False(t, inner.IsInside([]int{0, 2}))
	assert.Equal(t, 9, inner.NumberOfPixels())
	assert.Equal(t, "Index: [1, 2] Size: [3, 3]", inner.String())
}
