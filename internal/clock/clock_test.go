package clock_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/katalvlaran/fieldreg/internal/clock"
)

// TestStamp_Ordering verifies that later modifications always compare newer.
func TestStamp_Ordering(t *testing.T) {
	var a, b clock.Stamp
	assert.Zero(t, a.Time(), "zero stamp must be older than any tick")

	a.Modified()
	b.Modified()
	assert.Greater(t, b.Time(), a.Time(), "b was modified after a")

	a.Modified()
	assert.Greater(t, a.Time(), b.Time(), "a was re-modified after b")
	assert.Greater(t, clock.Next(), a.Time(), "clock must keep advancing")
}
