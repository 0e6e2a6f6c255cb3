package nec

import (
	"fmt"
	"time"

	"github.com/arloliu/go-necir/line"
	"github.com/arloliu/go-necir/logger"
)

// rxState is a step of the reception state machine.
type rxState uint8

const (
	stateWaitHeaderActive rxState = iota
	stateWaitHeaderIdle
	stateHeaderSpace
	stateReadAddress
	stateReadAddressComplement
	stateReadCommand
	stateReadCommandComplement
	stateWaitStop
	stateDone
)

func (s rxState) String() string {
	switch s {
	case stateWaitHeaderActive:
		return "wait-header-active"
	case stateWaitHeaderIdle:
		return "wait-header-idle"
	case stateHeaderSpace:
		return "header-space"
	case stateReadAddress:
		return "read-address"
	case stateReadAddressComplement:
		return "read-address-complement"
	case stateReadCommand:
		return "read-command"
	case stateReadCommandComplement:
		return "read-command-complement"
	case stateWaitStop:
		return "wait-stop"
	case stateDone:
		return "done"
	default:
		return "unknown"
	}
}

// Result is the status-shaped outcome of one reception. Address and Command
// are zero unless Status is StatusSuccess.
type Result struct {
	Status  Status
	Address byte
	Command byte
}

// Receiver decodes NEC frames from a digital input.
//
// This type is NOT goroutine-safe. The caller must own the pin exclusively for
// the duration of each call.
type Receiver struct {
	clk     line.Clock
	timer   *EdgeTimer
	cfg     *Config
	logger  logger.Logger
	metrics Metrics

	active line.Level // input level while carrier is present
	idle   line.Level
}

// NewReceiver creates a Receiver sampling in, timed by clk.
func NewReceiver(in line.Input, clk line.Clock, cfg *Config) (*Receiver, error) {
	if cfg == nil {
		return nil, ErrConfigNil
	}
	if in == nil || clk == nil {
		return nil, ErrLineNil
	}

	active := line.High
	if cfg.activeLowInput {
		active = line.Low
	}

	return &Receiver{
		clk:    clk,
		timer:  NewEdgeTimer(in, clk, cfg.absenceTimeout),
		cfg:    cfg,
		logger: cfg.logger,
		active: active,
		idle:   active.Invert(),
	}, nil
}

// ReceiveFrame waits for one frame on pin and decodes it.
//
// It blocks until the frame is complete, a timing error is detected, or an
// expected edge fails to arrive within the absence timeout. Each edge wait is
// bounded individually, so a stalling signal can hold the call for several
// absence timeouts unless a receive budget is configured.
//
// On error the returned Frame is the zero value. Use errors.Is with
// ErrTimingError, ErrFrameAbsent or ErrBudgetExceeded, or StatusOf, to
// classify the error. No retries are attempted.
func (r *Receiver) ReceiveFrame(pin line.PinID) (Frame, error) {
	d := decoder{r: r, pin: pin, start: r.clk.Now()}

	f, err := d.run()
	if err != nil {
		r.metrics.observeRecvErr(err)
		r.logger.Debug("nec: frame rejected",
			"pin", pin,
			"state", d.state.String(),
			"status", StatusOf(err).String(),
			"error", err,
		)

		return Frame{}, err
	}

	r.metrics.incFrameRecvCount()
	r.logger.Debug("nec: frame received", "pin", pin, "address", f.Address, "command", f.Command)

	return f, nil
}

// Receive is ReceiveFrame reporting its outcome as a Result.
func (r *Receiver) Receive(pin line.PinID) Result {
	f, err := r.ReceiveFrame(pin)

	return Result{Status: StatusOf(err), Address: f.Address, Command: f.Command}
}

// EdgeTimer returns the edge timer used by the receiver.
func (r *Receiver) EdgeTimer() *EdgeTimer {
	return r.timer
}

// Metrics returns the receiver's counters.
func (r *Receiver) Metrics() *Metrics {
	return &r.metrics
}

// decoder holds the state of one ReceiveFrame call.
type decoder struct {
	r     *Receiver
	pin   line.PinID
	start time.Duration
	state rxState
}

func (d *decoder) run() (Frame, error) {
	// Frame start: the time spent before the header is not a phase.
	d.state = stateWaitHeaderActive
	if err := d.awaitHeader(); err != nil {
		return Frame{}, err
	}

	d.state = stateWaitHeaderIdle
	mark, err := d.phase(d.r.idle)
	if err != nil {
		return Frame{}, err
	}
	if err := checkWindow("header mark", mark, HeaderMarkWindow); err != nil {
		return Frame{}, err
	}

	d.state = stateHeaderSpace
	space, err := d.phase(d.r.active)
	if err != nil {
		return Frame{}, err
	}
	if err := checkWindow("header space", space, HeaderSpaceWindow); err != nil {
		return Frame{}, err
	}

	d.state = stateReadAddress
	addr, err := d.readByte(0)
	if err != nil {
		return Frame{}, err
	}

	d.state = stateReadAddressComplement
	addrComp, err := d.readByte(1)
	if err != nil {
		return Frame{}, err
	}
	if err := checkComplement("address", addr, addrComp); err != nil {
		return Frame{}, err
	}

	d.state = stateReadCommand
	cmd, err := d.readByte(2)
	if err != nil {
		return Frame{}, err
	}

	d.state = stateReadCommandComplement
	cmdComp, err := d.readByte(3)
	if err != nil {
		return Frame{}, err
	}
	if err := checkComplement("command", cmd, cmdComp); err != nil {
		return Frame{}, err
	}

	// The stop mark must end, but its duration is not window-checked.
	d.state = stateWaitStop
	if _, err := d.phase(d.r.idle); err != nil {
		return Frame{}, err
	}

	d.state = stateDone

	return Frame{Address: addr, Command: cmd}, nil
}

// readByte reads 8 bits, most-significant first. n is the byte's position in
// the frame.
func (d *decoder) readByte(n int) (byte, error) {
	var b byte
	for i := 7; i >= 0; i-- {
		index := n*8 + 7 - i

		mark, err := d.phase(d.r.idle)
		if err != nil {
			return 0, err
		}
		if err := checkBitMark(index, mark); err != nil {
			return 0, err
		}

		space, err := d.phase(d.r.active)
		if err != nil {
			return 0, err
		}
		bit, err := classifySpace(index, space)
		if err != nil {
			return 0, err
		}
		b |= bit << i
	}

	return b, nil
}

// awaitHeader waits for the line to become active. The elapsed time is not
// checked against any window or the glitch floor.
func (d *decoder) awaitHeader() error {
	_, err := d.measure(d.r.active)
	return err
}

// phase measures the current phase: the time until the line reaches until.
// Phases shorter than the glitch floor are read errors.
func (d *decoder) phase(until line.Level) (time.Duration, error) {
	dur, err := d.measure(until)
	if err != nil {
		return 0, err
	}
	if dur < d.r.cfg.glitchFloor {
		return 0, fmt.Errorf("%w: %s: %v phase shorter than glitch floor %v",
			ErrTimingError, d.state, dur, d.r.cfg.glitchFloor)
	}

	return dur, nil
}

// measure runs one edge wait, capped by the remaining receive budget when one
// is configured.
func (d *decoder) measure(target line.Level) (time.Duration, error) {
	budget := d.r.cfg.receiveBudget
	if budget <= 0 {
		dur, err := d.r.timer.Measure(d.pin, target)
		if err != nil {
			return 0, fmt.Errorf("%w: %s", err, d.state)
		}

		return dur, nil
	}

	remaining := budget - (d.r.clk.Now() - d.start)
	if remaining <= 0 {
		return 0, fmt.Errorf("%w: %v elapsed at %s", ErrBudgetExceeded, budget, d.state)
	}

	timeout := d.r.timer.timeout
	capped := remaining < timeout
	if capped {
		timeout = remaining
	}

	dur, err := d.r.timer.measureWithin(d.pin, target, timeout)
	if err != nil {
		if capped {
			return 0, fmt.Errorf("%w: %v elapsed at %s", ErrBudgetExceeded, budget, d.state)
		}

		return 0, fmt.Errorf("%w: %s", err, d.state)
	}

	return dur, nil
}
