// Package nec implements the NEC infrared remote-control protocol as a
// software codec on a single digital output and a single digital input.
//
// # Protocol Overview
//
// An NEC frame carries an 8-bit address and an 8-bit command, each followed by
// its bitwise complement, for 32 data bits sent most-significant bit first:
//
//	[header mark 9 ms][header space 4.5 ms]
//	[addr][^addr][cmd][^cmd]   each bit: mark 562.5 µs + space 562.5 µs (0) or 1687.5 µs (1)
//	[stop mark 562.5 µs][inter-frame gap 40.5 ms]
//
// Every mark is a burst of a 38 kHz carrier at roughly 1/3 duty cycle. Spaces
// leave the line at rest.
//
// # Transmission
//
// Transmitter.TransmitFrame drives the whole waveform through a BurstDriver and
// blocks for about 68 ms on air plus the inter-frame gap (FrameDuration). It
// never fails: pin identifiers are not validated, and unmappable pins are a
// silent no-op in the line backend.
//
// # Reception
//
// Receiver.ReceiveFrame polls the input through an EdgeTimer and classifies
// every mark and space against closed tolerance windows:
//
//   - header mark  [8100, 9900] µs
//   - header space [4050, 4950] µs
//   - bit mark     [281, 843] µs
//   - bit-0 space  [281, 843] µs
//   - bit-1 space  [1405, 1967] µs
//
// The stop mark is required to end, but its duration is not window-checked.
//
// Reception has three outcomes. A nil error means both complement checks
// passed. An error wrapping ErrTimingError means an edge arrived with an
// out-of-window duration or a complement mismatched. An error wrapping
// ErrFrameAbsent means an expected edge did not arrive within the absence
// timeout (500 ms by default). On any error the returned Frame is the zero
// value.
//
// # Timeouts
//
// The absence timeout bounds each individual edge wait, not the decode as a
// whole: a stalling signal can hold ReceiveFrame for up to ~34 absence
// timeouts. WithReceiveBudget adds an overall deadline reported as
// ErrBudgetExceeded.
//
// # Concurrency
//
// Transmitter and Receiver are NOT goroutine-safe. Both block the calling
// goroutine with busy-wait loops and expect exclusive ownership of their pin
// for the duration of a call. Metrics may be read concurrently.
package nec
