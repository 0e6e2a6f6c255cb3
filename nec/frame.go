package nec

import (
	"fmt"
)

// Frame is the logical content of one NEC transmission.
//
// The complement bytes exist only on the wire: Bytes and Raw add them, and
// ParseRaw and the Receiver verify them.
type Frame struct {
	Address byte
	Command byte
}

// Bytes returns the four bytes in transmission order: address, ^address,
// command, ^command.
func (f Frame) Bytes() [4]byte {
	return [4]byte{f.Address, ^f.Address, f.Command, ^f.Command}
}

// Raw returns the 32-bit frame word, first transmitted bit in bit 31:
//
//	addr<<24 | ^addr<<16 | cmd<<8 | ^cmd
func (f Frame) Raw() uint32 {
	return RawFromBytes(f.Bytes())
}

// String returns a compact representation, e.g. "addr=0xA5 cmd=0x5A".
func (f Frame) String() string {
	return fmt.Sprintf("addr=0x%02X cmd=0x%02X", f.Address, f.Command)
}

// RawFromBytes packs four wire bytes into a frame word.
func RawFromBytes(data [4]byte) uint32 {
	return uint32(data[0])<<24 | uint32(data[1])<<16 | uint32(data[2])<<8 | uint32(data[3])
}

// BytesFromRaw unpacks a frame word into its four wire bytes.
func BytesFromRaw(raw uint32) [4]byte {
	return [4]byte{byte(raw >> 24), byte(raw >> 16), byte(raw >> 8), byte(raw)}
}

// ParseRaw validates both complement bytes of raw and returns the frame.
// A mismatch returns an error wrapping ErrComplementMismatch (and therefore
// ErrTimingError) together with the zero Frame.
func ParseRaw(raw uint32) (Frame, error) {
	return parseBytes(BytesFromRaw(raw))
}

func parseBytes(data [4]byte) (Frame, error) {
	if err := checkComplement("address", data[0], data[1]); err != nil {
		return Frame{}, err
	}
	if err := checkComplement("command", data[2], data[3]); err != nil {
		return Frame{}, err
	}

	return Frame{Address: data[0], Command: data[2]}, nil
}

func checkComplement(field string, value, complement byte) error {
	if complement != ^value {
		return fmt.Errorf("%w: %s 0x%02X, complement 0x%02X, want 0x%02X",
			ErrComplementMismatch, field, value, complement, ^value)
	}

	return nil
}
