package sim

import (
	"time"

	"github.com/arloliu/go-necir/line"
)

// DefaultPollStep is the virtual time consumed by one Player read.
const DefaultPollStep = time.Microsecond

// PlayerOption configures a Player.
type PlayerOption func(*Player)

// WithPollStep sets the virtual time each read consumes. Non-positive values
// are ignored.
func WithPollStep(d time.Duration) PlayerOption {
	return func(p *Player) {
		if d > 0 {
			p.step = d
		}
	}
}

// WithActiveHigh makes the Player report an active waveform as line.High.
// By default it behaves like an IR receiver module and pulls the line low
// while carrier is present.
func WithActiveHigh() PlayerOption {
	return func(p *Player) {
		p.active = line.High
	}
}

// Player replays a Waveform on one pin as a line.Input.
//
// The waveform starts at the clock's time when the Player is created. Each
// Read samples the waveform at the current time and then advances the clock by
// the poll step. Reads of other pins return line.DefaultInputLevel.
type Player struct {
	clk    *Clock
	pin    line.PinID
	wave   *Waveform
	origin time.Duration
	step   time.Duration
	active line.Level
	reads  int

	// cursor into wave.segs; reads move forward in time
	seg      int
	segStart time.Duration
}

var _ line.Input = (*Player)(nil)

// NewPlayer creates a Player replaying wave on pin, driven by clk.
func NewPlayer(clk *Clock, pin line.PinID, wave *Waveform, opts ...PlayerOption) *Player {
	p := &Player{
		clk:    clk,
		pin:    pin,
		wave:   wave,
		origin: clk.Now(),
		step:   DefaultPollStep,
		active: line.Low,
	}
	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Read samples pin and advances the clock by one poll step.
func (p *Player) Read(pin line.PinID) line.Level {
	defer p.clk.Delay(p.step)
	p.reads++

	if pin != p.pin {
		return line.DefaultInputLevel
	}
	if p.activeAt(p.clk.Now() - p.origin) {
		return p.active
	}

	return p.active.Invert()
}

func (p *Player) activeAt(t time.Duration) bool {
	if t < p.segStart {
		p.seg, p.segStart = 0, 0
	}
	segs := p.wave.segs
	for p.seg < len(segs) && t >= p.segStart+segs[p.seg].Duration {
		p.segStart += segs[p.seg].Duration
		p.seg++
	}

	return t >= 0 && p.seg < len(segs) && segs[p.seg].Active
}

// Reads returns the number of Read calls so far.
func (p *Player) Reads() int {
	return p.reads
}

// Rewind restarts the waveform at the clock's current time.
func (p *Player) Rewind() {
	p.origin = p.clk.Now()
	p.seg, p.segStart = 0, 0
}

// Load replaces the waveform and restarts it at the clock's current time.
func (p *Player) Load(wave *Waveform) {
	p.wave = wave
	p.Rewind()
}
