package engine

import "sync/atomic"

// Clock is the engine's logical tick counter.
//
// Ticks are numbered from 1 and never derived from wall-clock time, so a
// replayed session produces identical tick numbers.
//
// Thread-safety: Clock is safe for concurrent use (atomic operations).
// Only the tick goroutine calls Next; any goroutine may read Current.
type Clock struct {
	tick atomic.Int64
}

// NewClock creates a clock positioned before the first tick.
func NewClock() *Clock {
	return &Clock{}
}

// NewClockAt creates a clock whose next tick is start+1.
func NewClockAt(start int64) *Clock {
	c := &Clock{}
	c.tick.Store(start)
	return c
}

// Next advances to and returns the next tick number.
func (c *Clock) Next() int64 {
	return c.tick.Add(1)
}

// Current returns the number of the last tick started, or 0 before any.
func (c *Clock) Current() int64 {
	return c.tick.Load()
}
