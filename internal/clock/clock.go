// Package clock provides the process-wide monotonic modification clock shared
// by fields and pipeline nodes. Stamps taken from it are totally ordered, so
// "was A modified after B last ran" is a single integer comparison.
package clock

import "sync/atomic"

var now atomic.Uint64

// Next advances the clock and returns the new time.
// Complexity: O(1), safe for concurrent use.
func Next() uint64 {
	return now.Add(1)
}

// Stamp records the last modification time of one object.
// The zero Stamp is older than every value returned by Next.
type Stamp struct {
	t atomic.Uint64
}

// Modified moves the stamp to a fresh clock value.
func (s *Stamp) Modified() {
	s.t.Store(Next())
}

// Time returns the recorded modification time.
func (s *Stamp) Time() uint64 {
	return s.t.Load()
}
