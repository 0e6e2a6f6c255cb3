package nec

import (
	"time"

	"github.com/arloliu/go-necir/line"
)

// BurstDriver produces the 38 kHz carrier under a mark by toggling one output
// line.
//
// This type is NOT goroutine-safe.
type BurstDriver struct {
	out  line.Output
	tb   line.Timebase
	high time.Duration
	low  time.Duration
}

// NewBurstDriver creates a BurstDriver toggling out with the given carrier
// high and low times, timed by tb.
func NewBurstDriver(out line.Output, tb line.Timebase, high, low time.Duration) *BurstDriver {
	return &BurstDriver{out: out, tb: tb, high: high, low: low}
}

// Emit drives pin high for the carrier high time, then low for the carrier low
// time, repeating until d has elapsed. A cycle that starts before d elapses is
// always completed, so the line is left low. Non-positive durations emit
// nothing.
//
// Emit blocks for the whole burst and never yields. An unmappable pin is a
// silent no-op of the line backend.
func (bd *BurstDriver) Emit(pin line.PinID, d time.Duration) {
	if d <= 0 {
		return
	}

	start := bd.tb.Now()
	for bd.tb.Now()-start < d {
		bd.out.Set(pin, line.High)
		bd.tb.Delay(bd.high)
		bd.out.Set(pin, line.Low)
		bd.tb.Delay(bd.low)
	}
}

// Period returns the duration of one carrier cycle.
func (bd *BurstDriver) Period() time.Duration { return bd.high + bd.low }
