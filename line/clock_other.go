//go:build !linux

package line

// NewRawClock returns a SpinClock on platforms without CLOCK_MONOTONIC_RAW.
func NewRawClock() Timebase {
	return NewSpinClock()
}
