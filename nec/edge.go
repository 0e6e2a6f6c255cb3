package nec

import (
	"time"

	"github.com/arloliu/go-necir/line"
)

// EdgeTimer measures how long an input line takes to reach a logic level.
//
// It polls the line without interrupts or yielding. This type is NOT
// goroutine-safe.
type EdgeTimer struct {
	in      line.Input
	clk     line.Clock
	timeout time.Duration
}

// NewEdgeTimer creates an EdgeTimer sampling in, timed by clk, that gives up
// after timeout.
func NewEdgeTimer(in line.Input, clk line.Clock, timeout time.Duration) *EdgeTimer {
	return &EdgeTimer{in: in, clk: clk, timeout: timeout}
}

// Measure samples pin until it reads target and returns the time elapsed since
// the call began. If target is not observed within the absence timeout it
// returns ErrFrameAbsent.
func (et *EdgeTimer) Measure(pin line.PinID, target line.Level) (time.Duration, error) {
	return et.measureWithin(pin, target, et.timeout)
}

// Timeout returns the absence timeout.
func (et *EdgeTimer) Timeout() time.Duration { return et.timeout }

func (et *EdgeTimer) measureWithin(pin line.PinID, target line.Level, timeout time.Duration) (time.Duration, error) {
	start := et.clk.Now()
	for {
		if et.in.Read(pin) == target {
			return et.clk.Now() - start, nil
		}
		if et.clk.Now()-start >= timeout {
			return 0, ErrFrameAbsent
		}
	}
}
