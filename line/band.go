package line

// Band is one of the three contiguous pin ranges backed by an 8-bit port.
type Band uint8

const (
	// BandNone marks a pin identifier outside every band.
	BandNone Band = iota
	// BandLow covers pins 0-7.
	BandLow
	// BandHigh covers pins 8-13.
	BandHigh
	// BandAnalog covers the analog inputs A0-A5 used as digital lines (pins 14-19).
	BandAnalog
)

// Band boundaries, inclusive.
const (
	LowBandFirst    PinID = 0
	LowBandLast     PinID = 7
	HighBandFirst   PinID = 8
	HighBandLast    PinID = 13
	AnalogBandFirst PinID = 14
	AnalogBandLast  PinID = 19
)

// A0 is the first analog-as-digital pin. A1-A5 follow contiguously.
const A0 = AnalogBandFirst

// String returns the band name.
func (b Band) String() string {
	switch b {
	case BandLow:
		return "low"
	case BandHigh:
		return "high"
	case BandAnalog:
		return "analog"
	default:
		return "none"
	}
}

// Locate maps pin to its band and the bit position inside the band's port.
// ok is false for identifiers outside all bands.
func Locate(pin PinID) (band Band, bit uint8, ok bool) {
	switch {
	case pin <= LowBandLast:
		return BandLow, uint8(pin - LowBandFirst), true
	case pin >= HighBandFirst && pin <= HighBandLast:
		return BandHigh, uint8(pin - HighBandFirst), true
	case pin >= AnalogBandFirst && pin <= AnalogBandLast:
		return BandAnalog, uint8(pin - AnalogBandFirst), true
	default:
		return BandNone, 0, false
	}
}
