//go:build linux

package line

import (
	"sync/atomic"
	"time"

	"golang.org/x/sys/unix"
)

// RawClock is a Timebase reading CLOCK_MONOTONIC_RAW, which is not slewed by
// NTP adjustments while a frame is on the air.
type RawClock struct {
	epoch   time.Duration
	last    atomic.Int64
	gettime func(*unix.Timespec) error
}

var _ Timebase = (*RawClock)(nil)

// NewRawClock creates a RawClock whose epoch is the moment of the call.
// It falls back to a SpinClock when the kernel rejects CLOCK_MONOTONIC_RAW.
func NewRawClock() Timebase {
	var ts unix.Timespec
	if err := rawGettime(&ts); err != nil {
		return NewSpinClock()
	}

	return &RawClock{epoch: time.Duration(ts.Nano()), gettime: rawGettime}
}

func rawGettime(ts *unix.Timespec) error {
	return unix.ClockGettime(unix.CLOCK_MONOTONIC_RAW, ts)
}

// Now returns the time elapsed since the clock's epoch. A failed read
// repeats the previous reading.
func (c *RawClock) Now() time.Duration {
	var ts unix.Timespec
	if err := c.gettime(&ts); err != nil {
		return time.Duration(c.last.Load())
	}

	now := time.Duration(ts.Nano()) - c.epoch
	c.last.Store(int64(now))

	return now
}

// Delay busy-waits for d.
func (c *RawClock) Delay(d time.Duration) {
	spin(c, d)
}
