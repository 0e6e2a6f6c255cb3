package sim

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/go-necir/line"
)

const us = time.Microsecond

func TestClock_Delay(t *testing.T) {
	clk := NewClock()
	assert.Equal(t, time.Duration(0), clk.Now())

	clk.Delay(10 * us)
	clk.Advance(5 * us)
	clk.Delay(-1)
	clk.Delay(0)
	assert.Equal(t, 15*us, clk.Now())
}

func TestRecorder_Edges(t *testing.T) {
	clk := NewClock()
	rec := NewRecorder(clk)

	rec.Set(3, line.Low) // no change from the initial level
	clk.Delay(10 * us)
	rec.Set(3, line.High)
	rec.Set(3, line.High)
	clk.Delay(5 * us)
	rec.Set(3, line.Low)

	edges := rec.Edges(3)
	require.Len(t, edges, 2)
	assert.Equal(t, Edge{At: 10 * us, Level: line.High}, edges[0])
	assert.Equal(t, Edge{At: 15 * us, Level: line.Low}, edges[1])
	assert.Equal(t, line.Low, rec.Level(3))
	assert.Equal(t, 1, rec.Pins())
	assert.Empty(t, rec.Edges(4))

	rec.Reset()
	assert.Zero(t, rec.Pins())
	assert.Empty(t, rec.Edges(3))
}

func TestWaveform_Builder(t *testing.T) {
	w := NewWaveform().
		Idle(100*us).
		Mark(50*us).
		Mark(50*us).
		Pulse(20*us, 30*us).
		Space(0).
		Idle(10 * us)

	assert.Equal(t, []Segment{
		{Active: false, Duration: 100 * us},
		{Active: true, Duration: 120 * us},
		{Active: false, Duration: 40 * us},
	}, w.Segments())
	assert.Equal(t, 260*us, w.Duration())

	other := NewWaveform().Idle(5 * us).Mark(5 * us)
	w.Append(other)
	assert.Equal(t, 270*us, w.Duration())
	assert.Len(t, w.Segments(), 4)
}

func TestWaveform_ActiveAt(t *testing.T) {
	w := NewWaveform().Idle(100 * us).Mark(50 * us).Space(25 * us)

	assert.False(t, w.ActiveAt(-1))
	assert.False(t, w.ActiveAt(0))
	assert.False(t, w.ActiveAt(100*us-1))
	assert.True(t, w.ActiveAt(100*us))
	assert.True(t, w.ActiveAt(150*us-1))
	assert.False(t, w.ActiveAt(150*us))
	assert.False(t, w.ActiveAt(time.Hour))
}

func TestEnvelope_BridgesCarrierGaps(t *testing.T) {
	clk := NewClock()
	rec := NewRecorder(clk)

	clk.Delay(200 * us)
	for range 4 {
		rec.Set(0, line.High)
		clk.Delay(9 * us)
		rec.Set(0, line.Low)
		clk.Delay(17 * us)
	}
	clk.Delay(600 * us)
	rec.Set(0, line.High)
	clk.Delay(9 * us)
	rec.Set(0, line.Low)

	w := Envelope(rec.Edges(0), DefaultHoldoff)
	// 4 cycles: first rise at 200, last fall at 200 + 3*26 + 9.
	assert.Equal(t, []Segment{
		{Active: false, Duration: 200 * us},
		{Active: true, Duration: 87 * us},
		{Active: false, Duration: 617 * us},
		{Active: true, Duration: 9 * us},
	}, w.Segments())
}

func TestEnvelope_Empty(t *testing.T) {
	w := Envelope(nil, DefaultHoldoff)
	assert.Empty(t, w.Segments())
	assert.False(t, w.ActiveAt(0))
}

func TestPlayer_ActiveLowDefault(t *testing.T) {
	clk := NewClock()
	w := NewWaveform().Idle(3 * us).Mark(2 * us)
	p := NewPlayer(clk, 5, w)

	var got []line.Level
	for range 6 {
		got = append(got, p.Read(5))
	}

	assert.Equal(t, []line.Level{line.High, line.High, line.High, line.Low, line.Low, line.High}, got)
	assert.Equal(t, 6*us, clk.Now())
	assert.Equal(t, 6, p.Reads())
}

func TestPlayer_ActiveHighAndStep(t *testing.T) {
	clk := NewClock()
	w := NewWaveform().Mark(10 * us)
	p := NewPlayer(clk, 1, w, WithActiveHigh(), WithPollStep(4*us), WithPollStep(0))

	assert.Equal(t, line.High, p.Read(1)) // t=0
	assert.Equal(t, line.High, p.Read(1)) // t=4
	assert.Equal(t, line.High, p.Read(1)) // t=8
	assert.Equal(t, line.Low, p.Read(1))  // t=12
	assert.Equal(t, 16*us, clk.Now())
}

func TestPlayer_OtherPinsReadDefault(t *testing.T) {
	clk := NewClock()
	p := NewPlayer(clk, 1, NewWaveform().Mark(time.Millisecond), WithActiveHigh())

	assert.Equal(t, line.DefaultInputLevel, p.Read(2))
	assert.Equal(t, line.DefaultInputLevel, p.Read(200))
	assert.Equal(t, 2*us, clk.Now())
}

func TestPlayer_RewindAndLoad(t *testing.T) {
	clk := NewClock()
	p := NewPlayer(clk, 0, NewWaveform().Mark(2*us), WithActiveHigh())

	assert.Equal(t, line.High, p.Read(0))
	assert.Equal(t, line.High, p.Read(0))
	assert.Equal(t, line.Low, p.Read(0))

	p.Rewind()
	assert.Equal(t, line.High, p.Read(0))

	p.Load(NewWaveform().Idle(1 * us).Mark(1 * us))
	assert.Equal(t, line.Low, p.Read(0))
	assert.Equal(t, line.High, p.Read(0))
}
