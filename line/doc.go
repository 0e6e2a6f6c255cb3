// Package line defines the platform collaborators consumed by the NEC codec:
// digital output control, digital input sampling, a monotonic clock and a
// busy-wait delay primitive.
//
// The codec never touches hardware registers directly. Backends implement
// Output and Input on top of whatever the platform offers:
//
//   - PortBank: an in-memory model of three 8-bit port registers, mapping pin
//     identifiers onto a low band (0-7), a high band (8-13) and an
//     analog-as-digital band (14-19).
//   - line/cdev: Linux GPIO character device.
//   - line/bcm: Raspberry Pi memory-mapped GPIO.
//   - line/sim: deterministic simulation on a virtual clock.
//
// # Permissive Pin Handling
//
// Pin identifiers are small non-negative integers. Identifiers that a backend
// cannot map are accepted syntactically: writes to them are silently ignored
// and reads return a fixed default level. No operation in this package returns
// an error for an unmapped pin.
//
// # Timing
//
// Clock and Delayer are expected to be tight, non-yielding primitives. Timing
// correctness of the 38 kHz carrier depends on uninterrupted loops, so the
// implementations in this package spin instead of sleeping.
package line
