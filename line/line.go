package line

import "time"

// Level is the logic level of a digital line.
type Level bool

const (
	Low  Level = false
	High Level = true
)

// String returns "high" or "low".
func (l Level) String() string {
	if l {
		return "high"
	}

	return "low"
}

// Invert returns the opposite level.
func (l Level) Invert() Level { return !l }

// PinID identifies one digital line.
type PinID uint8

// Output drives a digital line.
//
// Implementations must not report failures; a pin that cannot be driven is a
// silent no-op.
type Output interface {
	Set(pin PinID, level Level)
}

// Input samples a digital line.
//
// Implementations must not report failures; a pin that cannot be read returns
// a fixed default level.
type Input interface {
	Read(pin PinID) Level
}

// Clock is a monotonic clock. Now must be strictly increasing for the duration
// of any single codec call; its epoch is arbitrary.
type Clock interface {
	Now() time.Duration
}

// Delayer blocks the caller for d without yielding.
type Delayer interface {
	Delay(d time.Duration)
}

// Timebase combines a Clock with a Delayer sharing the same time source.
type Timebase interface {
	Clock
	Delayer
}
