package engine

import "sync/atomic"

// Clock is the per-store dispatch counter.
//
// Every committed dispatch is stamped with the next value, so seq 1 is always
// the first commit (normally the cold start). Failed dispatches do not advance
// the clock. Traces and logs use seq instead of wall-clock time, which keeps
// golden traces identical between runs.
//
// Clock is safe for concurrent use, although a Store only touches it from
// its single dispatching goroutine.
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a new clock starting at 0.
func NewClock() *Clock {
	return &Clock{}
}

// Next returns the next sequence number and increments the clock.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the last issued sequence number.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
