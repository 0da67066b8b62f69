// Package regularizer implements Gaussian regularization of displacement
// fields for iterative (variational) image registration.
//
// 🚀 What does it do?
//
//	Between registration iterations the update step leaves noise in the
//	displacement field. Gaussian smooths every vector component with an
//	isotropic-per-axis Gaussian, keeping the field locally smooth.
//
// ✨ How:
//   - one directional discrete Gaussian kernel per axis (package kernel),
//     variance σ[j]², truncated at MaximumError, half-width ≤ MaximumKernelWidth;
//   - a chain of N one-dimensional passes (package convolve), axis 0 first,
//     each pass consuming the previous pass's output;
//   - pull-based updates with modification tracking (package pipeline): a
//     setter that does not change a value never triggers a recomputation.
//
// Axis order is fixed (ascending). In exact arithmetic the passes commute,
// but the intermediate floating-point results do not, so results are only
// reproducible bit for bit in this order.
//
// Known limitation: σ is interpreted in grid units. Voxel spacing is not
// folded into the standard deviations.
//
// ⚙️ Usage:
//
//	g, err := regularizer.New(2, regularizer.WithStandardDeviation(1.5))
//	if err != nil {
//		// handle ErrBadDimension
//	}
//	out, err := g.Regularize(ctx, field)
package regularizer
