package line

import "time"

// SpinClock is a Timebase backed by the Go runtime's monotonic clock.
//
// Delay spins on the clock rather than sleeping so the calling goroutine keeps
// its thread for the whole interval.
type SpinClock struct {
	epoch time.Time
}

var _ Timebase = (*SpinClock)(nil)

// NewSpinClock creates a SpinClock whose epoch is the moment of the call.
func NewSpinClock() *SpinClock {
	return &SpinClock{epoch: time.Now()}
}

// Now returns the time elapsed since the clock's epoch.
func (c *SpinClock) Now() time.Duration {
	return time.Since(c.epoch)
}

// Delay busy-waits for d.
func (c *SpinClock) Delay(d time.Duration) {
	spin(c, d)
}

// spin busy-waits on clk until d has elapsed.
func spin(clk Clock, d time.Duration) {
	if d <= 0 {
		return
	}
	start := clk.Now()
	for clk.Now()-start < d { //nolint:revive // intentional busy-wait
	}
}
