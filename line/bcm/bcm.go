// Package bcm drives NEC pins through the memory-mapped GPIO registers of a
// Raspberry Pi, using github.com/stianeikeland/go-rpio.
//
// Pin identifiers are BCM GPIO numbers 0-27. Pins are switched to output on
// the first Set and to input with the pull-up enabled on the first Read.
// Identifiers above 27 follow the permissive pin contract of package line:
// writes are dropped and reads return line.DefaultInputLevel. Each such pin is
// logged once.
package bcm

import (
	"errors"
	"sync"

	"github.com/puzpuzpuz/xsync/v3"
	"github.com/stianeikeland/go-rpio/v4"

	"github.com/arloliu/go-necir/line"
	"github.com/arloliu/go-necir/logger"
)

// MaxPin is the highest BCM GPIO number on the 40-pin header.
const MaxPin line.PinID = 27

// ErrClosed indicates the GPIO block has already been released.
var ErrClosed = errors.New("bcm: gpio closed")

type direction uint8

const (
	dirInput direction = iota + 1
	dirOutput
)

// gpio is the register access used by GPIO.
type gpio interface {
	output(pin uint8)
	input(pin uint8)
	write(pin uint8, high bool)
	read(pin uint8) bool
	close() error
}

// GPIO is a line.Output and line.Input over the BCM283x GPIO block.
type GPIO struct {
	hw     gpio
	dirs   *xsync.MapOf[line.PinID, direction]
	warned *xsync.MapOf[line.PinID, struct{}]
	logger logger.Logger

	mu     sync.Mutex
	closed bool
}

var (
	_ line.Output = (*GPIO)(nil)
	_ line.Input  = (*GPIO)(nil)
)

// Open maps the GPIO registers. It needs /dev/gpiomem or root privileges.
func Open(l logger.Logger) (*GPIO, error) {
	if err := rpio.Open(); err != nil {
		return nil, err
	}

	return newGPIO(rpioGPIO{}, l), nil
}

func newGPIO(hw gpio, l logger.Logger) *GPIO {
	if l == nil {
		l = logger.GetLogger()
	}

	return &GPIO{
		hw:     hw,
		dirs:   xsync.NewMapOf[line.PinID, direction](),
		warned: xsync.NewMapOf[line.PinID, struct{}](),
		logger: l,
	}
}

// Set drives pin to level.
func (g *GPIO) Set(pin line.PinID, level line.Level) {
	if !g.prepare(pin, dirOutput) {
		return
	}
	g.hw.write(uint8(pin), bool(level))
}

// Read samples pin.
func (g *GPIO) Read(pin line.PinID) line.Level {
	if !g.prepare(pin, dirInput) {
		return line.DefaultInputLevel
	}

	return line.Level(g.hw.read(uint8(pin)))
}

// Close unmaps the GPIO registers.
func (g *GPIO) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.closed {
		return ErrClosed
	}
	g.closed = true
	g.dirs.Clear()

	return g.hw.close()
}

func (g *GPIO) prepare(pin line.PinID, dir direction) bool {
	if pin > MaxPin {
		if _, loaded := g.warned.LoadOrStore(pin, struct{}{}); !loaded {
			g.logger.Warn("bcm: pin out of range", "pin", pin, "max", MaxPin)
		}

		return false
	}
	if d, ok := g.dirs.Load(pin); ok && d == dir {
		return true
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.closed {
		return false
	}

	switch dir {
	case dirOutput:
		g.hw.output(uint8(pin))
	case dirInput:
		g.hw.input(uint8(pin))
	}
	g.dirs.Store(pin, dir)
	g.logger.Debug("bcm: pin configured", "pin", pin, "output", dir == dirOutput)

	return true
}

type rpioGPIO struct{}

func (rpioGPIO) output(pin uint8) { rpio.Pin(pin).Output() }

func (rpioGPIO) input(pin uint8) {
	p := rpio.Pin(pin)
	p.Input()
	p.PullUp()
}

func (rpioGPIO) write(pin uint8, high bool) {
	if high {
		rpio.Pin(pin).High()
	} else {
		rpio.Pin(pin).Low()
	}
}

func (rpioGPIO) read(pin uint8) bool { return rpio.Pin(pin).Read() == rpio.High }

func (rpioGPIO) close() error { return rpio.Close() }
