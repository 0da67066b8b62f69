// Package convolve runs one directional neighborhood-operator pass over a
// vector field: every component of every vector is convolved with a 1-D
// kernel along the kernel's axis.
//
// Boundary handling is zero-flux Neumann: taps that fall outside the input
// buffered region read the nearest sample on the region edge, so a constant
// field is reproduced exactly.
//
// Lines orthogonal to the smoothing axis are independent; a Stage splits them
// into blocks and processes the blocks on a bounded errgroup. Every output
// sample is computed by the same sequence of floating-point operations
// regardless of the worker count, so results are bit-for-bit deterministic.
package convolve

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/fieldreg/field"
	"github.com/katalvlaran/fieldreg/kernel"
)

// Stage smooths a field along the direction of its kernel.
// A Stage is cheap to build and holds no sample buffers between runs.
type Stage struct {
	k         *kernel.Kernel
	requested *field.Region
	opts      Options
}

// NewStage binds k to a new Stage.
// Errors: ErrNilKernel.
func NewStage(k *kernel.Kernel, opts ...Option) (*Stage, error) {
	if k == nil {
		return nil, ErrNilKernel
	}

	return &Stage{k: k, opts: gatherOptions(opts...)}, nil
}

// Kernel returns the kernel this stage applies.
func (s *Stage) Kernel() *kernel.Kernel {
	return s.k
}

// Direction returns the smoothed axis.
func (s *Stage) Direction() int {
	return s.k.Direction()
}

// SetRequestedRegion restricts the output to r. Without a request the
// output covers the input buffered region.
func (s *Stage) SetRequestedRegion(r field.Region) {
	c := r.Clone()
	s.requested = &c
}

// RequestedRegion returns the explicit request, if any.
func (s *Stage) RequestedRegion() (field.Region, bool) {
	if s.requested == nil {
		return field.Region{}, false
	}

	return s.requested.Clone(), true
}

// Run smooths in along the kernel direction.
//
// Implementation:
//   - Stage 1: validate input, direction, extent and requested region.
//   - Stage 2: pick the destination (dst when non-nil, otherwise a new field).
//   - Stage 3: convolve all lines, in parallel blocks when workers > 1.
//
// Inputs:
//   - in:  source field, never modified.
//   - dst: optional reuse buffer; must cover the output region and must not be in.
//
// Returns the output field (dst itself when it was supplied).
//
// Errors: ErrNilInput, field.ErrReleased, ErrDirection, ErrKernelTooWide,
// ErrRegion, ErrDestination, field allocation errors, ctx.Err().
//
// Complexity: O(pixels · N · (2r+1)) time; O(pixels · N) memory when dst is nil.
func (s *Stage) Run(ctx context.Context, in, dst *field.Field) (*field.Field, error) {
	if in == nil {
		return nil, ErrNilInput
	}
	if err := field.ValidateNotNil(in); err != nil {
		return nil, fmt.Errorf("convolve: input: %w", err)
	}
	dim, dir, r := in.Dimension(), s.k.Direction(), s.k.Radius()
	if dir >= dim {
		return nil, fmt.Errorf("convolve: direction %d for %d-D field: %w", dir, dim, ErrDirection)
	}
	inRegion := in.Region()
	if inRegion.Size[dir] < r {
		return nil, fmt.Errorf("convolve: axis %d extent %d < radius %d: %w", dir, inRegion.Size[dir], r, ErrKernelTooWide)
	}
	outRegion := inRegion
	if s.requested != nil {
		if !inRegion.Contains(*s.requested) {
			return nil, fmt.Errorf("convolve: %v not in %v: %w", *s.requested, inRegion, ErrRegion)
		}
		outRegion = s.requested.Clone()
	}

	out, err := destination(in, outRegion, dst)
	if err != nil {
		return nil, err
	}

	lines := outRegion.NumberOfPixels() / outRegion.Size[dir]
	workers := min(s.opts.workers, lines)
	s.opts.logger.Debug("convolve: pass",
		slog.Int("direction", dir),
		slog.Int("radius", r),
		slog.Int("lines", lines),
		slog.Int("workers", workers))

	if workers <= 1 {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("convolve: axis %d: %w", dir, err)
		}
		s.smoothLines(in, out, outRegion, 0, lines)
		out.Modified()

		return out, nil
	}

	blocks := workers * DefaultBlocksPerWorker
	size := (lines + blocks - 1) / blocks
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for from := 0; from < lines; from += size {
		from := from
		to := min(from+size, lines)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			s.smoothLines(in, out, outRegion, from, to)

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("convolve: axis %d: %w", dir, err)
	}
	out.Modified()

	return out, nil
}

// destination validates a reuse buffer or allocates a fresh output.
func destination(in *field.Field, region field.Region, dst *field.Field) (*field.Field, error) {
	if dst == nil {
		out, err := field.NewRegionLike(in, region)
		if err != nil {
			return nil, fmt.Errorf("convolve: allocate output: %w", err)
		}

		return out, nil
	}
	if dst == in || dst.Released() || !dst.Region().Equal(region) {
		return nil, fmt.Errorf("convolve: destination %v: %w", dst.Region(), ErrDestination)
	}
	if err := dst.SetSpacing(in.Spacing()); err != nil {
		return nil, err
	}
	if err := dst.SetOrigin(in.Origin()); err != nil {
		return nil, err
	}

	return dst, nil
}

// smoothLines convolves output lines [from, to) along the kernel direction.
// A line is identified by its coordinates on every axis except the smoothed one,
// enumerated with the lowest axis varying fastest.
func (s *Stage) smoothLines(in, out *field.Field, outRegion field.Region, from, to int) {
	dim, dir := in.Dimension(), s.k.Direction()
	taps, r := s.k.Taps(), s.k.Radius()
	inData, outData := in.Data(), out.Data()
	inRegion := in.Region()
	inStrides, outStrides := in.Strides(), out.Strides()

	n := outRegion.Size[dir]
	lo, hi := inRegion.Index[dir], inRegion.End(dir)-1
	idx := make([]int, dim)
	acc := make([]float64, dim)

	for line := from; line < to; line++ {
		rem := line
		for a := 0; a < dim; a++ {
			if a == dir {
				continue
			}
			idx[a] = outRegion.Index[a] + rem%outRegion.Size[a]
			rem /= outRegion.Size[a]
		}
		inBase, outBase := 0, 0
		for a := 0; a < dim; a++ {
			if a == dir {
				continue
			}
			inBase += (idx[a] - inRegion.Index[a]) * inStrides[a]
			outBase += (idx[a] - outRegion.Index[a]) * outStrides[a]
		}

		for i := 0; i < n; i++ {
			pos := outRegion.Index[dir] + i
			clear(acc)
			for t, c := range taps {
				q := pos + t - r
				if q < lo {
					q = lo
				} else if q > hi {
					q = hi
				}
				p := (inBase + (q-lo)*inStrides[dir]) * dim
				for comp := range acc {
					acc[comp] += c * inData[p+comp]
				}
			}
			o := (outBase + i*outStrides[dir]) * dim
			copy(outData[o:o+dim], acc)
		}
	}
}
