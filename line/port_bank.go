package line

import "sync/atomic"

// DefaultInputLevel is the level read from a pin outside every band. It is the
// pulled-up rest level of an active-low IR receiver module.
const DefaultInputLevel = High

// PortBank models three 8-bit port registers, one per band, each with an output
// latch and an input register.
//
// Set updates a single bit of the band's output latch with a read-modify-write,
// the same way a port register is driven on a microcontroller. Read reports the
// corresponding bit of the band's input register. Registers are stored
// atomically so a test may inject input levels from another goroutine while a
// codec call polls.
type PortBank struct {
	out [3]atomic.Uint32
	in  [3]atomic.Uint32
}

var (
	_ Output = (*PortBank)(nil)
	_ Input  = (*PortBank)(nil)
)

// NewPortBank creates a PortBank with all output latches low and all input
// registers high (idle for an active-low receiver).
func NewPortBank() *PortBank {
	pb := &PortBank{}
	for i := range pb.in {
		pb.in[i].Store(0xFF)
	}

	return pb
}

// Set drives pin to level. Pins outside every band are ignored.
func (pb *PortBank) Set(pin PinID, level Level) {
	band, bit, ok := Locate(pin)
	if !ok {
		return
	}
	writeBit(&pb.out[band-1], bit, level)
}

// Read returns the input level of pin, or DefaultInputLevel for pins outside
// every band.
func (pb *PortBank) Read(pin PinID) Level {
	band, bit, ok := Locate(pin)
	if !ok {
		return DefaultInputLevel
	}

	return pb.in[band-1].Load()&(1<<bit) != 0
}

// Drive sets the input register bit for pin, as an external device would.
// Pins outside every band are ignored.
func (pb *PortBank) Drive(pin PinID, level Level) {
	band, bit, ok := Locate(pin)
	if !ok {
		return
	}
	writeBit(&pb.in[band-1], bit, level)
}

// Latched returns the current output latch level of pin. Pins outside every
// band report Low.
func (pb *PortBank) Latched(pin PinID) Level {
	band, bit, ok := Locate(pin)
	if !ok {
		return Low
	}

	return pb.out[band-1].Load()&(1<<bit) != 0
}

// OutputRegister returns the raw 8-bit output latch of band.
func (pb *PortBank) OutputRegister(band Band) uint8 {
	if band == BandNone || band > BandAnalog {
		return 0
	}

	return uint8(pb.out[band-1].Load()) //nolint:gosec // register is 8 bits wide
}

func writeBit(reg *atomic.Uint32, bit uint8, level Level) {
	mask := uint32(1) << bit
	for {
		old := reg.Load()
		updated := old &^ mask
		if level {
			updated |= mask
		}
		if reg.CompareAndSwap(old, updated) {
			return
		}
	}
}
