// Package sim provides a deterministic simulation of the line collaborators on
// a virtual clock.
//
// A Recorder captures what a transmitter drives onto an output pin. Envelope
// turns that carrier trace into the logical waveform a 38 kHz receiver module
// would report, and a Player replays a waveform to a receiver through the
// line.Input interface. Every Player read advances the shared Clock by one poll
// step, so polling loops make progress without real time passing.
package sim

import (
	"time"

	"github.com/arloliu/go-necir/line"
)

// Clock is a virtual line.Timebase. Time only moves when Delay or Advance is
// called. It is not goroutine-safe.
type Clock struct {
	now time.Duration
}

var _ line.Timebase = (*Clock)(nil)

// NewClock creates a Clock at time zero.
func NewClock() *Clock {
	return &Clock{}
}

// Now returns the current virtual time.
func (c *Clock) Now() time.Duration { return c.now }

// Delay advances the clock by d. Non-positive durations are ignored.
func (c *Clock) Delay(d time.Duration) {
	if d > 0 {
		c.now += d
	}
}

// Advance is an alias of Delay for test readability.
func (c *Clock) Advance(d time.Duration) { c.Delay(d) }

// Edge is a level change on a pin at a point in virtual time.
type Edge struct {
	At    time.Duration
	Level line.Level
}

// Recorder is a line.Output that records every level change per pin.
// Pins start low; repeated writes of the current level are not recorded.
type Recorder struct {
	clk    line.Clock
	levels map[line.PinID]line.Level
	edges  map[line.PinID][]Edge
}

var _ line.Output = (*Recorder)(nil)

// NewRecorder creates a Recorder timestamping edges with clk.
func NewRecorder(clk line.Clock) *Recorder {
	return &Recorder{
		clk:    clk,
		levels: make(map[line.PinID]line.Level),
		edges:  make(map[line.PinID][]Edge),
	}
}

// Set records a level change on pin.
func (r *Recorder) Set(pin line.PinID, level line.Level) {
	if r.levels[pin] == level {
		return
	}
	r.levels[pin] = level
	r.edges[pin] = append(r.edges[pin], Edge{At: r.clk.Now(), Level: level})
}

// Level returns the current level of pin.
func (r *Recorder) Level(pin line.PinID) line.Level {
	return r.levels[pin]
}

// Edges returns a copy of the edges recorded on pin.
func (r *Recorder) Edges(pin line.PinID) []Edge {
	out := make([]Edge, len(r.edges[pin]))
	copy(out, r.edges[pin])

	return out
}

// Pins returns the number of pins with at least one recorded edge.
func (r *Recorder) Pins() int {
	return len(r.edges)
}

// Reset discards every recorded edge and returns all pins to low.
func (r *Recorder) Reset() {
	clear(r.levels)
	clear(r.edges)
}
