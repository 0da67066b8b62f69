// Package field provides the dense N-dimensional vector field container used
// by the regularization pipeline.
//
// 🚀 What is a Field?
//
//	A Field is a grid of displacement vectors: one vector per grid point,
//	each vector carrying one float64 component per spatial axis. A 2-D field
//	stores (dx, dy) at every pixel, a 3-D field stores (dx, dy, dz) at every
//	voxel.
//
// ✨ Key features:
//   - Region: the buffered region (start index + size per axis) the field
//     actually holds data for.
//   - Geometry: per-axis spacing and origin, preserved by every filter stage.
//   - Flat row-major storage (axis 0 fastest, components interleaved) for
//     cache-friendly line passes.
//   - Modification tracking through a monotonic clock, so pipeline nodes can
//     tell whether an input changed since their last run.
//   - Zero-copy buffer adoption (Graft) and explicit release of intermediates.
//
// ⚙️ Usage:
//
//	f, err := field.NewSize(64, 64) // 2-D field, vectors of arity 2
//	if err != nil {
//		// handle ErrBadShape / ErrTooLarge
//	}
//	_ = f.Set([]int{10, 12}, []float64{0.5, -0.25})
//	v, _ := f.At([]int{10, 12})
//
// Errors are package-level sentinels prefixed with "field:"; match them with
// errors.Is.
package field
