package fsm

import "sync/atomic"

// Sequencer issues monotonically increasing sequence numbers.
type Sequencer interface {
	Next() int64
}

// Clock is a monotonic logical clock used to stamp trace steps.
//
// Steps are ordered by seq, never by wall time, so two drives of the same
// input produce identical traces when they start from the same clock value.
// A Clock is safe to share between engines.
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a clock starting at 0.
func NewClock() *Clock {
	return &Clock{}
}

// NewClockAt creates a clock whose next value is start+1.
func NewClockAt(start int64) *Clock {
	c := &Clock{}
	c.seq.Store(start)
	return c
}

// Next returns the next sequence number.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the last issued sequence number.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
