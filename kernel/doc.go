// Package kernel builds normalized one-dimensional discrete Gaussian kernels
// for directional smoothing passes.
//
// The coefficients are the discrete analogue of the Gaussian:
//
//	c[n] = e^(-t) · I_n(t),   t = variance
//
// where I_n is the modified Bessel function of the first kind. Unlike a
// sampled continuous Gaussian, this family is exactly closed under
// convolution and stays well-behaved for small variances.
//
// Truncation policy:
//   - coefficients are added outwards while the kept mass c[0] + 2·Σc[n]
//     is below 1 − MaxError;
//   - growth stops early after a tap too small to change the kept mass
//     (below mass·epsilon) or when the half-width reaches
//     MaxKernelWidth (a warning is logged, the kernel is marked Clamped);
//   - the kept coefficients are renormalized to sum to exactly one and
//     mirrored into a symmetric kernel of length 2·radius+1.
package kernel
