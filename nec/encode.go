package nec

import (
	"fmt"
	"time"
)

// framePulses is the number of pulses in a frame: header, 32 bits and stop.
const framePulses = FrameBits + 2

// EncodeFrame returns the mark/space sequence of f: the header, the 32 data bits
// of address, ^address, command, ^command (each byte most-significant bit
// first), then the stop mark followed by the inter-frame gap.
func EncodeFrame(f Frame) []Pulse {
	return EncodeRaw(f.Bytes())
}

// EncodeRaw returns the mark/space sequence for four arbitrary wire bytes.
// No complement relationship between the bytes is enforced.
func EncodeRaw(data [4]byte) []Pulse {
	pulses := make([]Pulse, 0, framePulses)
	pulses = append(pulses, SymbolHeader.Pulse())

	for _, b := range data {
		for i := 7; i >= 0; i-- {
			if b&(1<<i) != 0 {
				pulses = append(pulses, SymbolBit1.Pulse())
			} else {
				pulses = append(pulses, SymbolBit0.Pulse())
			}
		}
	}

	return append(pulses, SymbolStop.Pulse())
}

// FrameDuration returns the nominal on-air time of f, inter-frame gap included.
func FrameDuration(f Frame) time.Duration {
	var total time.Duration
	for _, p := range EncodeFrame(f) {
		total += p.Duration()
	}

	return total
}

// DecodePulses classifies a measured pulse sequence with the same windows and
// complement checks as the Receiver.
//
// pulses must hold the header, 32 data pulses and the stop pulse. Only the
// stop mark is read from the last pulse; its duration and the trailing space
// are not checked. On error the zero Frame is returned.
func DecodePulses(pulses []Pulse) (Frame, error) {
	if len(pulses) != framePulses {
		return Frame{}, fmt.Errorf("%w: got %d pulses, want %d", ErrTimingError, len(pulses), framePulses)
	}

	hdr := pulses[0]
	if err := checkWindow("header mark", hdr.Mark, HeaderMarkWindow); err != nil {
		return Frame{}, err
	}
	if err := checkWindow("header space", hdr.Space, HeaderSpaceWindow); err != nil {
		return Frame{}, err
	}

	var data [4]byte
	for i, p := range pulses[1 : 1+FrameBits] {
		if err := checkBitMark(i, p.Mark); err != nil {
			return Frame{}, err
		}
		bit, err := classifySpace(i, p.Space)
		if err != nil {
			return Frame{}, err
		}
		data[i/8] |= bit << (7 - i%8)
	}

	return parseBytes(data)
}

func checkWindow(what string, d time.Duration, w Window) error {
	if !w.Contains(d) {
		return fmt.Errorf("%w: %s %v outside %v", ErrTimingError, what, d, w)
	}

	return nil
}

// checkBitMark validates the mark of data bit index (0 = first transmitted).
// The mark window is shared by both bit values.
func checkBitMark(index int, mark time.Duration) error {
	if !BitMarkWindow.Contains(mark) {
		return fmt.Errorf("%w: bit %d mark %v outside %v", ErrTimingError, index, mark, BitMarkWindow)
	}

	return nil
}

// classifySpace returns the value of data bit index from its space.
func classifySpace(index int, space time.Duration) (byte, error) {
	switch {
	case Bit0SpaceWindow.Contains(space):
		return 0, nil
	case Bit1SpaceWindow.Contains(space):
		return 1, nil
	default:
		return 0, fmt.Errorf("%w: bit %d space %v outside %v and %v",
			ErrTimingError, index, space, Bit0SpaceWindow, Bit1SpaceWindow)
	}
}
