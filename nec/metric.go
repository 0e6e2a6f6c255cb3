package nec

import (
	"errors"
	"sync/atomic"
)

// Metrics contains atomic counters for a Transmitter or a Receiver.
// Metrics can be used as the value of a prometheus CounterFunc.
type Metrics struct {
	// FrameSendCount indicates the number of frames transmitted.
	FrameSendCount atomic.Uint64
	// FrameRecvCount indicates the number of frames received and validated.
	FrameRecvCount atomic.Uint64
	// TimingErrCount indicates the number of receptions rejected with a timing error,
	// complement mismatches included.
	TimingErrCount atomic.Uint64
	// ComplementErrCount indicates the number of receptions rejected on a complement mismatch.
	ComplementErrCount atomic.Uint64
	// AbsentCount indicates the number of receptions that found no frame.
	AbsentCount atomic.Uint64
	// BudgetExceededCount indicates the number of receptions that ran out of receive budget.
	BudgetExceededCount atomic.Uint64
}

func (m *Metrics) incFrameSendCount() {
	m.FrameSendCount.Add(1)
}

func (m *Metrics) incFrameRecvCount() {
	m.FrameRecvCount.Add(1)
}

// observeRecvErr counts err under its Status.
func (m *Metrics) observeRecvErr(err error) {
	switch StatusOf(err) {
	case StatusFrameAbsent:
		m.AbsentCount.Add(1)
	case StatusBudgetExceeded:
		m.BudgetExceededCount.Add(1)
	case StatusTimingError:
		m.TimingErrCount.Add(1)
		if errors.Is(err, ErrComplementMismatch) {
			m.ComplementErrCount.Add(1)
		}
	case StatusSuccess:
	}
}
