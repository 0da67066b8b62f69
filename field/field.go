package field

import (
	"fmt"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"

	"github.com/katalvlaran/fieldreg/internal/clock"
)

// fieldErrorf wraps an underlying error with Field method context.
func fieldErrorf(method string, idx []int, err error) error {
	return fmt.Errorf("Field.%s(%v): %w", method, idx, err)
}

// Field is an N-dimensional grid of N-component vectors.
// Samples are stored row-major with axis 0 varying fastest; the components
// of one vector are contiguous, so pixel p occupies data[p*N : p*N+N].
type Field struct {
	region   Region
	spacing  []float64
	origin   []float64
	strides  []int     // pixel strides per axis
	data     []float64 // len == pixels*N; nil once released
	validate bool
	mtime    clock.Stamp
}

// New allocates a zero-valued field covering region.
// Stage 1 (Validate): region shape, option lengths, addressable size.
// Stage 2 (Prepare): allocate the flat buffer and strides.
// Stage 3 (Finalize): stamp the modification time.
// Complexity: O(pixels·N) time and memory.
func New(region Region, opts ...Option) (*Field, error) {
	if err := ValidateRegion(region); err != nil {
		return nil, err
	}
	o := gatherOptions(opts...)
	dim := region.Dimension()

	spacing := o.spacing
	if spacing == nil {
		spacing = make([]float64, dim)
		for i := range spacing {
			spacing[i] = 1
		}
	}
	if err := validateSpacing(spacing, dim); err != nil {
		return nil, err
	}
	origin := o.origin
	if origin == nil {
		origin = make([]float64, dim)
	}
	if len(origin) != dim {
		return nil, fmt.Errorf("New: origin: %w", ErrDimensionMismatch)
	}

	n, err := bufferLen(region)
	if err != nil {
		return nil, fmt.Errorf("New: %v: %w", region.Size, err)
	}

	f := &Field{
		region:   region.Clone(),
		spacing:  append([]float64(nil), spacing...),
		origin:   append([]float64(nil), origin...),
		strides:  stridesOf(region.Size),
		data:     make([]float64, n),
		validate: o.validateNaNInf,
	}
	f.mtime.Modified()

	return f, nil
}

// NewSize allocates a field with the given per-axis size starting at index 0.
func NewSize(size ...int) (*Field, error) {
	r, err := RegionOfSize(size...)
	if err != nil {
		return nil, err
	}

	return New(r)
}

// NewLike allocates a zeroed field with the geometry and policy of f.
// This is the allocation primitive pipeline nodes use for their outputs.
func NewLike(f *Field) (*Field, error) {
	if f == nil {
		return nil, fieldErrorf("NewLike", nil, ErrNilField)
	}

	return NewRegionLike(f, f.region)
}

// NewRegionLike allocates a zeroed field over region carrying the spacing,
// origin and validation policy of f.
func NewRegionLike(f *Field, region Region) (*Field, error) {
	if f == nil {
		return nil, fieldErrorf("NewRegionLike", nil, ErrNilField)
	}
	policy := WithNoValidateNaNInf()
	if f.validate {
		policy = WithValidateNaNInf()
	}

	return New(region, WithSpacing(f.spacing...), WithOrigin(f.origin...), policy)
}

func stridesOf(size []int) []int {
	s := make([]int, len(size))
	acc := 1
	for i, n := range size {
		s[i] = acc
		acc *= n
	}

	return s
}

// Dimension returns N, the number of axes and the vector arity.
func (f *Field) Dimension() int {
	return len(f.region.Size)
}

// Region returns a copy of the buffered region.
func (f *Field) Region() Region {
	return f.region.Clone()
}

// Size returns a copy of the per-axis extent.
func (f *Field) Size() []int {
	return append([]int(nil), f.region.Size...)
}

// Spacing returns a copy of the per-axis spacing.
func (f *Field) Spacing() []float64 {
	return append([]float64(nil), f.spacing...)
}

// Origin returns a copy of the per-axis origin.
func (f *Field) Origin() []float64 {
	return append([]float64(nil), f.origin...)
}

// SetSpacing replaces the spacing. Errors: ErrDimensionMismatch, ErrBadSpacing.
func (f *Field) SetSpacing(spacing []float64) error {
	if err := validateSpacing(spacing, f.Dimension()); err != nil {
		return err
	}
	if equalFloats(spacing, f.spacing) {
		return nil
	}
	copy(f.spacing, spacing)
	f.Modified()

	return nil
}

// SetOrigin replaces the origin. Errors: ErrDimensionMismatch, ErrNaNInf.
func (f *Field) SetOrigin(origin []float64) error {
	if len(origin) != f.Dimension() {
		return fieldErrorf("SetOrigin", nil, ErrDimensionMismatch)
	}
	for _, v := range origin {
		if isNonFinite(v) {
			return fieldErrorf("SetOrigin", nil, ErrNaNInf)
		}
	}
	if equalFloats(origin, f.origin) {
		return nil
	}
	copy(f.origin, origin)
	f.Modified()

	return nil
}

// SameGeometry reports whether f and o share region, spacing and origin.
func (f *Field) SameGeometry(o *Field) bool {
	if f == nil || o == nil {
		return false
	}

	return ValidateSameGeometry(f, o) == nil
}

// Strides returns a copy of the per-axis pixel strides.
func (f *Field) Strides() []int {
	return append([]int(nil), f.strides...)
}

// Len returns the number of pixels in the buffered region.
func (f *Field) Len() int {
	return f.region.NumberOfPixels()
}

// Data exposes the flat sample buffer (shared, not copied). Callers that
// write through it must call Modified afterwards.
func (f *Field) Data() []float64 {
	return f.data
}

// Modified marks the field as changed now.
func (f *Field) Modified() {
	f.mtime.Modified()
}

// MTime returns the last modification time on the shared clock.
func (f *Field) MTime() uint64 {
	return f.mtime.Time()
}

// Offset computes the pixel offset of idx inside the buffer.
// Errors: ErrDimensionMismatch, ErrOutOfRange.
// Complexity: O(N).
func (f *Field) Offset(idx []int) (int, error) {
	if len(idx) != f.Dimension() {
		return 0, fieldErrorf("Offset", idx, ErrDimensionMismatch)
	}
	off := 0
	for i, v := range idx {
		local := v - f.region.Index[i]
		if local < 0 || local >= f.region.Size[i] {
			return 0, fieldErrorf("Offset", idx, ErrOutOfRange)
		}
		off += local * f.strides[i]
	}

	return off, nil
}

// At returns a copy of the vector stored at idx.
// Stage 1 (Validate): buffer present, index in range.
// Stage 2 (Execute): copy N components.
// Complexity: O(N).
func (f *Field) At(idx []int) ([]float64, error) {
	if f.data == nil {
		return nil, fieldErrorf("At", idx, ErrReleased)
	}
	p, err := f.Offset(idx)
	if err != nil {
		return nil, err
	}
	n := f.Dimension()

	return append([]float64(nil), f.data[p*n:p*n+n]...), nil
}

// Set stores v at idx.
// Stage 1 (Validate): buffer present, arity, index, finite policy.
// Stage 2 (Execute): copy components, stamp modification.
// Complexity: O(N).
func (f *Field) Set(idx []int, v []float64) error {
	if f.data == nil {
		return fieldErrorf("Set", idx, ErrReleased)
	}
	n := f.Dimension()
	if len(v) != n {
		return fieldErrorf("Set", idx, ErrDimensionMismatch)
	}
	if f.validate {
		for _, c := range v {
			if isNonFinite(c) {
				return fieldErrorf("Set", idx, ErrNaNInf)
			}
		}
	}
	p, err := f.Offset(idx)
	if err != nil {
		return err
	}
	copy(f.data[p*n:p*n+n], v)
	f.Modified()

	return nil
}

// Fill sets every vector to v.
func (f *Field) Fill(v []float64) error {
	if f.data == nil {
		return fieldErrorf("Fill", nil, ErrReleased)
	}
	n := f.Dimension()
	if len(v) != n {
		return fieldErrorf("Fill", nil, ErrDimensionMismatch)
	}
	for p := 0; p < len(f.data); p += n {
		copy(f.data[p:p+n], v)
	}
	f.Modified()

	return nil
}

// Clone returns a deep copy with its own buffer and a fresh stamp.
// Complexity: O(pixels·N).
func (f *Field) Clone() *Field {
	c := &Field{
		region:   f.region.Clone(),
		spacing:  append([]float64(nil), f.spacing...),
		origin:   append([]float64(nil), f.origin...),
		strides:  append([]int(nil), f.strides...),
		validate: f.validate,
	}
	if f.data != nil {
		c.data = append([]float64(nil), f.data...)
	}
	c.mtime.Modified()

	return c
}

// Graft makes f adopt src's buffer and geometry without copying samples.
// After the call f and src share storage. Grafting a field onto itself is a no-op.
func (f *Field) Graft(src *Field) error {
	if src == nil {
		return fieldErrorf("Graft", nil, ErrNilField)
	}
	if src == f {
		return nil
	}
	f.region = src.region.Clone()
	f.spacing = append([]float64(nil), src.spacing...)
	f.origin = append([]float64(nil), src.origin...)
	f.strides = append([]int(nil), src.strides...)
	f.data = src.data
	f.validate = src.validate
	f.Modified()

	return nil
}

// Release drops the sample buffer; geometry stays readable.
// Used for intermediates that were fully consumed by the next stage.
func (f *Field) Release() {
	f.data = nil
}

// Released reports whether the buffer was dropped.
func (f *Field) Released() bool {
	return f.data == nil
}

// MaxAbsDiff returns the largest absolute component difference between a and b
// (the L∞ distance of their buffers).
// Errors: ErrNilField, ErrReleased, ErrDimensionMismatch.
func MaxAbsDiff(a, b *Field) (float64, error) {
	if err := ValidateNotNil(a); err != nil {
		return 0, err
	}
	if err := ValidateNotNil(b); err != nil {
		return 0, err
	}
	if !a.region.Equal(b.region) {
		return 0, validatorErrorf("MaxAbsDiff", ErrDimensionMismatch)
	}

	return floats.Distance(a.data, b.data, inf), nil
}

// String renders every vector in buffer order, one pixel per entry.
// Intended for small fields in tests and examples.
func (f *Field) String() string {
	var b strings.Builder
	b.WriteString("Field{")
	b.WriteString(f.region.String())
	if f.data == nil {
		b.WriteString(" released}")

		return b.String()
	}
	n := f.Dimension()
	b.WriteString(" Vectors: [")
	for p := 0; p < len(f.data); p += n {
		if p > 0 {
			b.WriteString(" ")
		}
		b.WriteByte('(')
		for c := 0; c < n; c++ {
			if c > 0 {
				b.WriteString(", ")
			}
			b.WriteString(strconv.FormatFloat(f.data[p+c], 'g', -1, 64))
		}
		b.WriteByte(')')
	}
	b.WriteString("]}")

	return b.String()
}
