// Package pipeline defines the pull-based execution contract shared by field
// filters: a Node exposes an Initialize precondition hook, a GenerateData
// entry point and a result-publishing step (GraftOutput); Process is the
// embeddable base that owns modification tracking, the borrowed input and the
// published output.
//
// Lifecycle of one Update:
//
//	NeedsUpdate? ──no──► return (cached output stays published)
//	     │yes
//	     ▼
//	node.GenerateData(ctx)          // calls AllocateOutputs, Initialize, GraftOutput
//	     │ok                         │error
//	     ▼                           ▼
//	record update time        restore previous output, return error
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/katalvlaran/fieldreg/field"
	"github.com/katalvlaran/fieldreg/internal/clock"
)

// ErrNoInput indicates an update was requested before an input was set.
var ErrNoInput = errors.New("pipeline: no input")

// Node is a pull-based computation step over fields.
type Node interface {
	// Initialize runs once per recomputation, before any data is produced.
	Initialize() error
	// GenerateData computes the output from the current input and parameters.
	GenerateData(ctx context.Context) error
	// GraftOutput publishes f as the node's output without copying.
	GraftOutput(f *field.Field)
}

// Process is the embeddable base of a Node. It is not safe for concurrent
// use: callers serialize parameter changes and updates.
type Process struct {
	mtime      clock.Stamp
	input      *field.Field
	output     *field.Field
	updateTime uint64
	updates    int
}

// Modified marks the node's parameters as changed now.
func (p *Process) Modified() {
	p.mtime.Modified()
}

// MTime returns the last parameter modification time.
func (p *Process) MTime() uint64 {
	return p.mtime.Time()
}

// SetInput borrows f as the node input. The node is marked modified only
// when the identity of the input changes. Returns whether it changed.
func (p *Process) SetInput(f *field.Field) bool {
	if f == p.input {
		return false
	}
	p.input = f
	p.Modified()

	return true
}

// Input returns the borrowed input.
func (p *Process) Input() *field.Field {
	return p.input
}

// Output returns the published output, or nil before the first update.
// The node never writes to a field once it is published; the next
// recomputation publishes a newly allocated field instead.
func (p *Process) Output() *field.Field {
	return p.output
}

// TakeOutput transfers the published output to the caller and forgets it,
// so the next Update recomputes.
func (p *Process) TakeOutput() *field.Field {
	out := p.output
	p.output = nil

	return out
}

// AllocateOutputs replaces the output with a zeroed field shaped like the input.
// Errors: ErrNoInput, field allocation errors.
func (p *Process) AllocateOutputs() error {
	if p.input == nil {
		return ErrNoInput
	}
	out, err := field.NewLike(p.input)
	if err != nil {
		return fmt.Errorf("pipeline: allocate output: %w", err)
	}
	p.output = out

	return nil
}

// Initialize checks the common preconditions of GenerateData.
func (p *Process) Initialize() error {
	if p.input == nil {
		return ErrNoInput
	}

	return field.ValidateNotNil(p.input)
}

// GraftOutput adopts f as the output. When an output was allocated, it takes
// over f's buffer and geometry; grafting the allocated output onto itself is free.
func (p *Process) GraftOutput(f *field.Field) {
	if p.output == nil || f == nil {
		p.output = f

		return
	}
	_ = p.output.Graft(f)
}

// NeedsUpdate reports whether the next Update would recompute: there is an
// input and either no published output, or the parameters, the input
// identity or the input samples changed since the last successful update.
func (p *Process) NeedsUpdate() bool {
	if p.input == nil {
		return false
	}

	return p.output == nil ||
		p.mtime.Time() > p.updateTime ||
		p.input.MTime() > p.updateTime
}

// UpdateCount returns how many times GenerateData completed successfully.
func (p *Process) UpdateCount() int {
	return p.updates
}

// Update brings node's output up to date, running GenerateData only when needed.
// On failure the previously published output is restored and the error is
// returned unchanged, so NeedsUpdate stays true.
func (p *Process) Update(ctx context.Context, node Node) error {
	if p.input == nil {
		return ErrNoInput
	}
	if !p.NeedsUpdate() {
		return nil
	}
	prev := p.output
	if err := node.GenerateData(ctx); err != nil {
		p.output = prev

		return err
	}
	p.updateTime = clock.Next()
	p.updates++

	return nil
}
