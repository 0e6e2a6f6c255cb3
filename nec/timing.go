package nec

import (
	"fmt"
	"time"
)

// Nominal protocol durations.
const (
	// Unit is the NEC base time unit; every nominal duration is a multiple of it.
	Unit = 562500 * time.Nanosecond

	HeaderMark  = 16 * Unit // 9 ms
	HeaderSpace = 8 * Unit  // 4.5 ms
	BitMark     = Unit      // 562.5 µs
	Bit0Space   = Unit      // 562.5 µs
	Bit1Space   = 3 * Unit  // 1687.5 µs
	StopMark    = Unit      // 562.5 µs

	// InterframeGap is the idle time after the stop mark, long enough for a
	// receiver to quiesce before the next frame.
	InterframeGap = 72 * Unit // 40.5 ms
)

// Carrier timing: ~38 kHz at ~1/3 duty cycle.
const (
	CarrierHigh = 8700 * time.Nanosecond
	CarrierLow  = 17700 * time.Nanosecond
)

// FrameBits is the number of data bits in a frame.
const FrameBits = 32

// Symbol is a named point in the protocol grammar: a mark followed by a space.
type Symbol struct {
	Name  string
	Mark  time.Duration
	Space time.Duration
}

// Pulse returns the mark/space pair of the symbol.
func (s Symbol) Pulse() Pulse { return Pulse{Mark: s.Mark, Space: s.Space} }

// Protocol symbols.
var (
	SymbolHeader = Symbol{Name: "header", Mark: HeaderMark, Space: HeaderSpace}
	SymbolBit0   = Symbol{Name: "bit0", Mark: BitMark, Space: Bit0Space}
	SymbolBit1   = Symbol{Name: "bit1", Mark: BitMark, Space: Bit1Space}
	SymbolStop   = Symbol{Name: "stop", Mark: StopMark, Space: InterframeGap}
)

// Pulse is one carrier burst followed by one idle gap.
type Pulse struct {
	Mark  time.Duration
	Space time.Duration
}

// Duration returns the total on-air time of the pulse.
func (p Pulse) Duration() time.Duration { return p.Mark + p.Space }

// Window is a closed acceptance interval [Low, High] for a measured duration.
type Window struct {
	Low  time.Duration
	High time.Duration
}

// Contains reports whether d lies inside the window, bounds included.
func (w Window) Contains(d time.Duration) bool {
	return d >= w.Low && d <= w.High
}

// String returns the window in microseconds, e.g. "[281µs, 843µs]".
func (w Window) String() string {
	return fmt.Sprintf("[%v, %v]", w.Low, w.High)
}

// Tolerance windows used during reception.
var (
	HeaderMarkWindow  = Window{Low: 8100 * time.Microsecond, High: 9900 * time.Microsecond}
	HeaderSpaceWindow = Window{Low: 4050 * time.Microsecond, High: 4950 * time.Microsecond}
	BitMarkWindow     = Window{Low: 281 * time.Microsecond, High: 843 * time.Microsecond}
	Bit0SpaceWindow   = Window{Low: 281 * time.Microsecond, High: 843 * time.Microsecond}
	Bit1SpaceWindow   = Window{Low: 1405 * time.Microsecond, High: 1967 * time.Microsecond}
)
