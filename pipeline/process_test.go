package pipeline_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/katalvlaran/fieldreg/field"
	"github.com/katalvlaran/fieldreg/pipeline"
)

// doubler is a minimal Node that scales its input by two.
type doubler struct {
	pipeline.Process
	fail error
}

func (d *doubler) GenerateData(ctx context.Context) error {
	if err := d.AllocateOutputs(); err != nil {
		return err
	}
	if err := d.Initialize(); err != nil {
		return err
	}
	if d.fail != nil {
		return d.fail
	}
	out := d.Output()
	for i, v := range d.Input().Data() {
		out.Data()[i] = 2 * v
	}
	d.GraftOutput(out)

	return nil
}

// ProcessSuite exercises modification tracking and the Update contract.
type ProcessSuite struct {
	suite.Suite
	in *field.Field
	n  *doubler
}

func (s *ProcessSuite) SetupTest() {
	in, err := field.NewSize(3)
	require.NoError(s.T(), err)
	require.NoError(s.T(), in.Set([]int{1}, []float64{4}))
	s.in = in
	s.n = &doubler{}
}

// TestNoInput reports ErrNoInput until an input is set.
func (s *ProcessSuite) TestNoInput() {
	s.False(s.n.NeedsUpdate())
	s.ErrorIs(s.n.Update(context.Background(), s.n), pipeline.ErrNoInput)
}

// TestCachedOutput runs GenerateData once for repeated updates.
func (s *ProcessSuite) TestCachedOutput() {
	ctx := context.Background()
	s.True(s.n.SetInput(s.in))
	s.True(s.n.NeedsUpdate())
	s.Require().NoError(s.n.Update(ctx, s.n))
	s.Equal(1, s.n.UpdateCount())
	first := s.n.Output()
	s.Equal([]float64{0, 8, 0}, first.Data())

	s.False(s.n.SetInput(s.in), "same input identity is a no-op")
	s.False(s.n.NeedsUpdate())
	s.Require().NoError(s.n.Update(ctx, s.n))
	s.Equal(1, s.n.UpdateCount())
	s.Same(first, s.n.Output())
}

// TestInputModified recomputes after the input samples change.
func (s *ProcessSuite) TestInputModified() {
	ctx := context.Background()
	s.n.SetInput(s.in)
	s.Require().NoError(s.n.Update(ctx, s.n))
	first := s.n.Output()

	s.Require().NoError(s.in.Set([]int{0}, []float64{1}))
	s.True(s.n.NeedsUpdate())
	s.Require().NoError(s.n.Update(ctx, s.n))
	s.Equal(2, s.n.UpdateCount())
	s.NotSame(first, s.n.Output(), "a recomputation publishes a new field")
	s.Equal([]float64{0, 8, 0}, first.Data(), "published fields are never rewritten")
}

// TestParametersModified recomputes after Modified.
func (s *ProcessSuite) TestParametersModified() {
	s.n.SetInput(s.in)
	s.Require().NoError(s.n.Update(context.Background(), s.n))
	s.n.Modified()
	s.True(s.n.NeedsUpdate())
}

// TestTakeOutput transfers ownership and forces the next update.
func (s *ProcessSuite) TestTakeOutput() {
	s.n.SetInput(s.in)
	s.Require().NoError(s.n.Update(context.Background(), s.n))
	out := s.n.TakeOutput()
	s.NotNil(out)
	s.Nil(s.n.Output())
	s.True(s.n.NeedsUpdate())
}

// TestFailureKeepsPrevious restores the last good output on error.
func (s *ProcessSuite) TestFailureKeepsPrevious() {
	ctx := context.Background()
	s.n.SetInput(s.in)
	s.Require().NoError(s.n.Update(ctx, s.n))
	good := s.n.Output()

	boom := errors.New("boom")
	s.n.fail = boom
	s.n.Modified()
	s.ErrorIs(s.n.Update(ctx, s.n), boom)
	s.Same(good, s.n.Output())
	s.True(s.n.NeedsUpdate())
	s.Equal(1, s.n.UpdateCount())
}

// TestGraftOutput adopts a foreign buffer into the allocated output.
func (s *ProcessSuite) TestGraftOutput() {
	s.n.SetInput(s.in)
	s.Require().NoError(s.n.AllocateOutputs())
	out := s.n.Output()
	src := s.in.Clone()
	s.n.GraftOutput(src)
	s.Same(out, s.n.Output(), "graft keeps the output object")
	s.Same(&src.Data()[0], &out.Data()[0])
}

func TestProcessSuite(t *testing.T) {
	suite.Run(t, new(ProcessSuite))
}
