package sim

import (
	"time"
)

// DefaultHoldoff is the longest carrier gap Envelope bridges inside one mark.
// A 38 kHz carrier has gaps of about 18 µs; the shortest NEC space is 562.5 µs.
const DefaultHoldoff = 100 * time.Microsecond

// Segment is a stretch of a logical waveform: carrier present (Active) or not.
type Segment struct {
	Active   bool
	Duration time.Duration
}

// Waveform is a logical IR waveform, a sequence of active and idle segments
// starting at time zero. Past its end the waveform is idle.
type Waveform struct {
	segs []Segment
}

// NewWaveform creates an empty waveform.
func NewWaveform() *Waveform {
	return &Waveform{}
}

// Idle appends an idle stretch of d.
func (w *Waveform) Idle(d time.Duration) *Waveform {
	return w.add(false, d)
}

// Space is Idle under its protocol name.
func (w *Waveform) Space(d time.Duration) *Waveform {
	return w.add(false, d)
}

// Mark appends an active stretch of d.
func (w *Waveform) Mark(d time.Duration) *Waveform {
	return w.add(true, d)
}

// Pulse appends a mark followed by a space.
func (w *Waveform) Pulse(mark, space time.Duration) *Waveform {
	return w.Mark(mark).Space(space)
}

// Append appends every segment of other.
func (w *Waveform) Append(other *Waveform) *Waveform {
	for _, s := range other.segs {
		w.add(s.Active, s.Duration)
	}

	return w
}

// Segments returns a copy of the segments. Adjacent segments of the same kind
// are merged.
func (w *Waveform) Segments() []Segment {
	out := make([]Segment, len(w.segs))
	copy(out, w.segs)

	return out
}

// Duration returns the total length of the waveform.
func (w *Waveform) Duration() time.Duration {
	var total time.Duration
	for _, s := range w.segs {
		total += s.Duration
	}

	return total
}

// ActiveAt reports whether the waveform is active at t. Segments are half-open
// intervals [start, start+duration).
func (w *Waveform) ActiveAt(t time.Duration) bool {
	if t < 0 {
		return false
	}
	var start time.Duration
	for _, s := range w.segs {
		end := start + s.Duration
		if t < end {
			return s.Active
		}
		start = end
	}

	return false
}

func (w *Waveform) add(active bool, d time.Duration) *Waveform {
	if d <= 0 {
		return w
	}
	if n := len(w.segs); n > 0 && w.segs[n-1].Active == active {
		w.segs[n-1].Duration += d
		return w
	}
	w.segs = append(w.segs, Segment{Active: active, Duration: d})

	return w
}

// Envelope demodulates a recorded carrier trace into the logical waveform a
// receiver module reports.
//
// A mark runs from a rising edge to the last falling edge of a run of carrier
// cycles whose low gaps are shorter than holdoff. The waveform starts at time
// zero of the trace's clock, so any time before the first rising edge is idle.
// A trace that ends high is closed at its last edge.
func Envelope(edges []Edge, holdoff time.Duration) *Waveform {
	w := NewWaveform()

	var (
		cursor    time.Duration // end of the waveform built so far
		markStart time.Duration
		lastFall  time.Duration
		inMark    bool
	)

	for _, e := range edges {
		if e.Level {
			if inMark && e.At-lastFall < holdoff {
				continue
			}
			if inMark {
				w.Mark(lastFall - markStart)
				cursor = lastFall
			}
			w.Idle(e.At - cursor)
			cursor = e.At
			markStart = e.At
			lastFall = e.At
			inMark = true

			continue
		}
		lastFall = e.At
	}

	if inMark {
		w.Mark(lastFall - markStart)
	}

	return w
}
