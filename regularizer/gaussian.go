package regularizer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/katalvlaran/fieldreg/convolve"
	"github.com/katalvlaran/fieldreg/field"
	"github.com/katalvlaran/fieldreg/kernel"
	"github.com/katalvlaran/fieldreg/metrics"
	"github.com/katalvlaran/fieldreg/pipeline"
)

var _ pipeline.Node = (*Gaussian)(nil)

// Gaussian regularizes an N-dimensional displacement field with a chain of
// N directional Gaussian passes.
//
// Parameters change only through setters; each setter marks the node
// modified only when the stored value actually changes. Not safe for
// concurrent use: serialize parameter changes against Update.
type Gaussian struct {
	pipeline.Process

	dim                int
	standardDeviations []float64
	maximumError       float64
	maximumKernelWidth uint
	workers            int
	logger             *slog.Logger
	metrics            *metrics.Recorder

	kernels []*kernel.Kernel // chain of the last successful update
}

// New returns a Gaussian regularizer for dim-dimensional fields.
// Defaults: σ = 1 on every axis, MaximumError = 0.1, MaximumKernelWidth = 30.
// Errors: ErrBadDimension, ErrDimensionMismatch (WithStandardDeviations count).
func New(dim int, opts ...Option) (*Gaussian, error) {
	if dim < 1 || dim > field.MaxDimension {
		return nil, fmt.Errorf("regularizer: New(%d): %w", dim, ErrBadDimension)
	}
	o := gatherOptions(opts...)

	sd := make([]float64, dim)
	switch {
	case o.standardDeviations != nil:
		if len(o.standardDeviations) != dim {
			return nil, fmt.Errorf("regularizer: %d standard deviations for %d axes: %w",
				len(o.standardDeviations), dim, ErrDimensionMismatch)
		}
		copy(sd, o.standardDeviations)
	case o.uniform != nil:
		for j := range sd {
			sd[j] = *o.uniform
		}
	default:
		for j := range sd {
			sd[j] = DefaultStandardDeviation
		}
	}

	return &Gaussian{
		dim:                dim,
		standardDeviations: sd,
		maximumError:       o.maximumError,
		maximumKernelWidth: o.maximumKernelWidth,
		workers:            o.workers,
		logger:             o.logger,
		metrics:            o.metrics,
	}, nil
}

// Dimension returns N.
func (g *Gaussian) Dimension() int {
	return g.dim
}

// SetStandardDeviation sets σ on every axis. If every axis already holds
// sigma the call is a no-op and does not mark the node modified.
// σ is not validated: the kernel uses σ², and non-finite values fail when
// the chain is built.
func (g *Gaussian) SetStandardDeviation(sigma float64) {
	j := 0
	for ; j < g.dim; j++ {
		if g.standardDeviations[j] != sigma {
			break
		}
	}
	if j == g.dim {
		return
	}
	g.Modified()
	for j := range g.standardDeviations {
		g.standardDeviations[j] = sigma
	}
}

// SetStandardDeviations sets σ per axis with the same no-op rule.
// Errors: ErrDimensionMismatch.
func (g *Gaussian) SetStandardDeviations(sigmas []float64) error {
	if len(sigmas) != g.dim {
		return fmt.Errorf("regularizer: %d standard deviations for %d axes: %w", len(sigmas), g.dim, ErrDimensionMismatch)
	}
	for j, s := range sigmas {
		if g.standardDeviations[j] != s {
			g.Modified()
			copy(g.standardDeviations, sigmas)

			return nil
		}
	}

	return nil
}

// StandardDeviations returns a copy of σ in ascending axis order.
func (g *Gaussian) StandardDeviations() []float64 {
	return append([]float64(nil), g.standardDeviations...)
}

// SetMaximumError sets the kernel truncation bound ε.
func (g *Gaussian) SetMaximumError(eps float64) {
	if eps == g.maximumError {
		return
	}
	g.maximumError = eps
	g.Modified()
}

// MaximumError returns ε.
func (g *Gaussian) MaximumError() float64 {
	return g.maximumError
}

// SetMaximumKernelWidth sets the kernel half-width cap.
func (g *Gaussian) SetMaximumKernelWidth(w uint) {
	if w == g.maximumKernelWidth {
		return
	}
	g.maximumKernelWidth = w
	g.Modified()
}

// MaximumKernelWidth returns the half-width cap.
func (g *Gaussian) MaximumKernelWidth() uint {
	return g.maximumKernelWidth
}

// SetInput borrows f as the field to regularize. f is never modified.
// Errors: ErrNilInput, ErrDimensionMismatch.
func (g *Gaussian) SetInput(f *field.Field) error {
	if f == nil {
		return ErrNilInput
	}
	if f.Dimension() != g.dim {
		return fmt.Errorf("regularizer: %d-D input for %d-D regularizer: %w", f.Dimension(), g.dim, ErrDimensionMismatch)
	}
	g.Process.SetInput(f)

	return nil
}

// Update recomputes the output when parameters or input changed since the
// last successful update. Lower-layer errors are returned wrapped, never
// retried; on error no new output is published.
func (g *Gaussian) Update(ctx context.Context) error {
	return g.Process.Update(ctx, g)
}

// Regularize sets in as input, brings the output up to date and returns it.
// A repeated call with unchanged parameters and input returns the cached
// field without recomputation. The node never writes to a returned field
// again; callers that modify it should use TakeOutput semantics instead.
func (g *Gaussian) Regularize(ctx context.Context, in *field.Field) (*field.Field, error) {
	if err := g.SetInput(in); err != nil {
		return nil, err
	}
	if err := g.Update(ctx); err != nil {
		return nil, err
	}

	return g.Output(), nil
}

// Initialize validates the input before the chain is built.
// Spacing is deliberately not folded into σ here.
func (g *Gaussian) Initialize() error {
	if err := g.Process.Initialize(); err != nil {
		return err
	}
	in := g.Input()
	if in.Dimension() != g.dim {
		return fmt.Errorf("regularizer: %d-D input for %d-D regularizer: %w", in.Dimension(), g.dim, ErrDimensionMismatch)
	}
	g.logger.Debug("regularizer: standard deviations are in grid units, spacing ignored",
		slog.Any("spacing", in.Spacing()))

	return nil
}

// GenerateData runs the smoothing chain.
//
// Implementation:
//   - Stage 1: allocate the output like the input, then Initialize.
//   - Stage 2: build one kernel and one pass per axis, ascending.
//   - Stage 3: request the input buffered region from the last pass.
//   - Stage 4: run the passes strictly in sequence; pass j reads pass j−1's
//     output, intermediates are recycled as destinations and then released.
//   - Stage 5: graft the last pass's output (written straight into the
//     allocated output) as this node's output.
//
// Complexity: O(pixels · N² · (2r+1)) time, O(pixels · N) extra memory.
func (g *Gaussian) GenerateData(ctx context.Context) (err error) {
	start := time.Now()
	defer func() {
		status := metrics.StatusSuccess
		switch {
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			status = metrics.StatusCanceled
		case err != nil:
			status = metrics.StatusError
		}
		pixels := 0
		if in := g.Input(); in != nil {
			pixels = in.Region().NumberOfPixels()
		}
		g.metrics.ObserveUpdate(status, pixels, time.Since(start))
	}()

	if err := g.AllocateOutputs(); err != nil {
		return err
	}
	if err := g.Initialize(); err != nil {
		return err
	}
	in := g.Input()

	kernels := make([]*kernel.Kernel, g.dim)
	stages := make([]*convolve.Stage, g.dim)
	for j := 0; j < g.dim; j++ {
		spec := kernel.Spec{
			Direction:      j,
			Variance:       g.standardDeviations[j] * g.standardDeviations[j],
			MaxError:       g.maximumError,
			MaxKernelWidth: g.maximumKernelWidth,
		}
		k, err := kernel.NewGaussian(spec, kernel.WithLogger(g.logger))
		if err != nil {
			return fmt.Errorf("regularizer: axis %d: %w", j, err)
		}
		st, err := convolve.NewStage(k, convolve.WithWorkers(g.workers), convolve.WithLogger(g.logger))
		if err != nil {
			return fmt.Errorf("regularizer: axis %d: %w", j, err)
		}
		kernels[j], stages[j] = k, st
		g.metrics.ObserveKernel(j, k.Radius(), k.Clamped())
	}
	last := len(stages) - 1
	stages[last].SetRequestedRegion(in.Region())

	cur := in
	var spare *field.Field
	for j, st := range stages {
		dst := spare
		if j == last {
			dst = g.Output()
		}
		passStart := time.Now()
		next, err := st.Run(ctx, cur, dst)
		if err != nil {
			return fmt.Errorf("regularizer: axis %d: %w", j, err)
		}
		g.metrics.ObservePass(j, time.Since(passStart))
		if spare != nil && spare != next {
			spare.Release()
		}
		spare = nil
		if cur != in {
			spare = cur
		}
		cur = next
		g.logger.Debug("regularizer: pass done",
			slog.Int("axis", j),
			slog.Float64("sigma", g.standardDeviations[j]),
			slog.Int("radius", kernels[j].Radius()))
	}
	if spare != nil {
		spare.Release()
	}

	g.GraftOutput(cur)
	g.kernels = kernels

	return nil
}

// Kernels returns the per-axis kernels of the last successful update, in
// chain order, or nil before the first update.
func (g *Gaussian) Kernels() []*kernel.Kernel {
	return append([]*kernel.Kernel(nil), g.kernels...)
}

// WriteTo writes the parameter dump, one item per line:
//
//	Standard deviations: [σ0, σ1, ...]
//	MaximumError: ε
//	MaximumKernelWidth: W
func (g *Gaussian) WriteTo(w io.Writer) (int64, error) {
	var b bytes.Buffer
	b.WriteString("Standard deviations: [")
	for j, s := range g.standardDeviations {
		if j > 0 {
			b.WriteString(", ")
		}
		b.WriteString(strconv.FormatFloat(s, 'g', -1, 64))
	}
	b.WriteString("]\n")
	b.WriteString("MaximumError: " + strconv.FormatFloat(g.maximumError, 'g', -1, 64) + "\n")
	b.WriteString("MaximumKernelWidth: " + strconv.FormatUint(uint64(g.maximumKernelWidth), 10) + "\n")

	return b.WriteTo(w)
}

// String returns the WriteTo dump.
func (g *Gaussian) String() string {
	var b bytes.Buffer
	_, _ = g.WriteTo(&b)

	return b.String()
}
