package nec

import (
	"errors"
	"fmt"
)

var (
	// ErrTimingError indicates an edge was observed but its duration, or a
	// derived field, violated protocol tolerance: a corrupted or foreign signal.
	ErrTimingError = errors.New("nec: timing error")

	// ErrFrameAbsent indicates no edge of the expected polarity arrived within
	// the absence timeout: no transmitter is active.
	ErrFrameAbsent = errors.New("nec: frame absent")

	// ErrBudgetExceeded indicates the overall receive budget set by
	// WithReceiveBudget elapsed before the frame completed.
	ErrBudgetExceeded = errors.New("nec: receive budget exceeded")

	// ErrComplementMismatch indicates a complement byte did not equal the
	// bitwise complement of its data byte. It wraps ErrTimingError.
	ErrComplementMismatch = fmt.Errorf("%w: complement mismatch", ErrTimingError)
)

var (
	// ErrConfigNil indicates that a nil Config was provided.
	ErrConfigNil = errors.New("nec: config is nil")

	// ErrLineNil indicates that a nil line collaborator was provided.
	ErrLineNil = errors.New("nec: line collaborator is nil")
)

// Status is the outcome of one reception.
//
// The numeric values match the return codes of the classic embedded NEC
// receiver routines: 0 valid, -1 reception error, -2 frame absent.
type Status int8

const (
	StatusSuccess        Status = 0
	StatusTimingError    Status = -1
	StatusFrameAbsent    Status = -2
	StatusBudgetExceeded Status = -3
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusTimingError:
		return "timing-error"
	case StatusFrameAbsent:
		return "frame-absent"
	case StatusBudgetExceeded:
		return "budget-exceeded"
	default:
		return "unknown"
	}
}

// StatusOf maps a ReceiveFrame error to its Status. Absence takes priority over
// every other kind; any error that is neither absence nor budget exhaustion is
// a timing error.
func StatusOf(err error) Status {
	switch {
	case err == nil:
		return StatusSuccess
	case errors.Is(err, ErrFrameAbsent):
		return StatusFrameAbsent
	case errors.Is(err, ErrBudgetExceeded):
		return StatusBudgetExceeded
	default:
		return StatusTimingError
	}
}
