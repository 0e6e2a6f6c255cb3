package nec

import (
	"github.com/arloliu/go-necir/line"
	"github.com/arloliu/go-necir/logger"
)

// Transmitter sends NEC frames on a digital output.
//
// This type is NOT goroutine-safe. The caller must own the pin exclusively for
// the duration of each call.
type Transmitter struct {
	burst   *BurstDriver
	delay   line.Delayer
	cfg     *Config
	logger  logger.Logger
	metrics Metrics
}

// NewTransmitter creates a Transmitter driving out, timed by tb.
func NewTransmitter(out line.Output, tb line.Timebase, cfg *Config) (*Transmitter, error) {
	if cfg == nil {
		return nil, ErrConfigNil
	}
	if out == nil || tb == nil {
		return nil, ErrLineNil
	}

	return &Transmitter{
		burst:  NewBurstDriver(out, tb, cfg.carrierHigh, cfg.carrierLow),
		delay:  tb,
		cfg:    cfg,
		logger: cfg.logger,
	}, nil
}

// TransmitFrame sends one frame carrying address and command on pin.
//
// The sequence is: header burst, header gap, the 32 bits of address, ^address,
// command, ^command (most-significant bit first, each a burst and a gap), the
// stop burst, and the inter-frame gap. TransmitFrame blocks for the whole
// sequence, about 68 ms on air plus the inter-frame gap, and has no failure
// path; pin is not validated.
func (tx *Transmitter) TransmitFrame(pin line.PinID, address, command byte) {
	f := Frame{Address: address, Command: command}
	tx.play(pin, EncodeFrame(f))

	tx.logger.Debug("nec: frame sent", "pin", pin, "address", f.Address, "command", f.Command)
}

// TransmitRaw sends four arbitrary wire bytes framed as an NEC transmission.
// No complement relationship between the bytes is enforced, which makes it
// suitable for relaying captured codes or producing deliberately invalid frames.
func (tx *Transmitter) TransmitRaw(pin line.PinID, data [4]byte) {
	tx.play(pin, EncodeRaw(data))

	tx.logger.Debug("nec: raw frame sent", "pin", pin, "raw", RawFromBytes(data))
}

// Metrics returns the transmitter's counters.
func (tx *Transmitter) Metrics() *Metrics {
	return &tx.metrics
}

func (tx *Transmitter) play(pin line.PinID, pulses []Pulse) {
	// The stop pulse carries the configured inter-frame gap.
	pulses[len(pulses)-1].Space = tx.cfg.interframeGap

	for _, p := range pulses {
		tx.burst.Emit(pin, p.Mark)
		tx.delay.Delay(p.Space)
	}

	tx.metrics.incFrameSendCount()
}
