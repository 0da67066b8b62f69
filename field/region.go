package field

import (
	"fmt"
	"math"
	"strings"
)

// MaxDimension is the largest supported field dimensionality.
const MaxDimension = 4

// Region is an axis-aligned block of grid indices: Index is the first index
// on each axis and Size the number of samples along it.
type Region struct {
	Index []int
	Size  []int
}

// NewRegion builds a Region from copies of index and size.
// Stage 1 (Validate): equal lengths, dimension in range, sizes > 0.
// Stage 2 (Finalize): return a Region owning its slices.
// Complexity: O(N).
func NewRegion(index, size []int) (Region, error) {
	if len(index) != len(size) {
		return Region{}, fmt.Errorf("NewRegion: index %d vs size %d: %w", len(index), len(size), ErrDimensionMismatch)
	}
	r := Region{Index: append([]int(nil), index...), Size: append([]int(nil), size...)}
	if err := ValidateRegion(r); err != nil {
		return Region{}, err
	}

	return r, nil
}

// RegionOfSize returns the region starting at the origin index with the given size.
func RegionOfSize(size ...int) (Region, error) {
	return NewRegion(make([]int, len(size)), size)
}

// Dimension returns the number of axes.
func (r Region) Dimension() int {
	return len(r.Size)
}

// NumberOfPixels returns the product of the sizes.
// Complexity: O(N).
func (r Region) NumberOfPixels() int {
	n := 1
	for _, s := range r.Size {
		n *= s
	}

	return n
}

// End returns the exclusive upper index on axis.
func (r Region) End(axis int) int {
	return r.Index[axis] + r.Size[axis]
}

// Clone returns a deep copy.
func (r Region) Clone() Region {
	return Region{Index: append([]int(nil), r.Index...), Size: append([]int(nil), r.Size...)}
}

// Equal reports whether r and o cover the same indices.
func (r Region) Equal(o Region) bool {
	if len(r.Size) != len(o.Size) || len(r.Index) != len(o.Index) {
		return false
	}
	for i := range r.Size {
		if r.Index[i] != o.Index[i] || r.Size[i] != o.Size[i] {
			return false
		}
	}

	return true
}

// Contains reports whether every index of o lies inside r.
func (r Region) Contains(o Region) bool {
	if len(r.Size) != len(o.Size) {
		return false
	}
	for i := range r.Size {
		if o.Index[i] < r.Index[i] || o.End(i) > r.End(i) {
			return false
		}
	}

	return true
}

// IsInside reports whether idx lies inside r.
func (r Region) IsInside(idx []int) bool {
	if len(idx) != len(r.Size) {
		return false
	}
	for i, v := range idx {
		if v < r.Index[i] || v >= r.End(i) {
			return false
		}
	}

	return true
}

// String renders the region as "Index: [..] Size: [..]".
func (r Region) String() string {
	var b strings.Builder
	b.WriteString("Index: ")
	writeInts(&b, r.Index)
	b.WriteString(" Size: ")
	writeInts(&b, r.Size)

	return b.String()
}

func writeInts(b *strings.Builder, v []int) {
	b.WriteByte('[')
	for i, x := range v {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(b, "%d", x)
	}
	b.WriteByte(']')
}

// bufferLen returns pixels*components or ErrTooLarge when the product
// does not fit in an int.
func bufferLen(r Region) (int, error) {
	n := r.Dimension()
	for _, s := range r.Size {
		if n > math.MaxInt/s {
			return 0, ErrTooLarge
		}
		n *= s
	}

	return n, nil
}
