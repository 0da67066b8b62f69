// Package fieldreg regularizes dense N-dimensional displacement fields, the
// smoothing step of variational image registration.
//
// 🚀 What is fieldreg?
//
//	A small pipeline library that smooths every component of a vector field
//	with a separable discrete Gaussian:
//		• Field container: region, spacing, origin, flat row-major vectors
//		• Kernels: discrete Gaussian from scaled modified Bessel functions
//		• Passes: one directional convolution per axis, run in parallel per line block
//		• Regularizer: per-axis σ, error bound, width cap, cached pull updates
//		• I/O: YAML/TOML configuration, field documents, a cobra CLI
//		• Metrics: optional Prometheus instruments per update and pass
//
// ✨ Why choose fieldreg?
//
//   - Deterministic – identical output for any worker count
//   - Lazy – Update recomputes only when parameters or input changed
//   - Safe ownership – the input is only borrowed, published outputs never rewritten
//   - Structured logging through log/slog, sentinel errors everywhere
//
// Under the hood, everything is organized under these subpackages:
//
//	field/       — Field and Region types, validators, geometry
//	kernel/      — discrete Gaussian kernel generator (Spec, Kernel)
//	convolve/    — directional smoothing Stage with Neumann boundary
//	pipeline/    — Process base: modification times, input/output, Update
//	regularizer/ — Gaussian regularizer chaining one Stage per axis
//	metrics/     — Prometheus recorder for updates, kernels and passes
//	config/      — YAML/TOML settings → regularizer options and slog logger
//	fieldio/     — YAML/JSON field documents
//	cmd/fieldreg — command line front end
//
// Quick example:
//
//	g, _ := regularizer.New(3, regularizer.WithStandardDeviations(1.5, 1.5, 2))
//	smooth, err := g.Regularize(ctx, u)
//
// Smoothing a unit spike with σ = 1 spreads it into
//
//	0.0509 0.2118 0.4746 0.2118 0.0509
//
// along each axis (ε = 0.1 truncation, renormalized to unit mass).
//
//	go get github.com/katalvlaran/fieldreg
package fieldreg
