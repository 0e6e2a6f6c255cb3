// Package cdev drives NEC pins through the Linux GPIO character device
// (/dev/gpiochipN) using github.com/warthog618/go-gpiocdev.
//
// A Chip maps line.PinID values to line offsets on one chip. Lines are
// requested lazily on first use, as outputs by Set and as inputs by Read, and
// are re-requested when the direction changes. Pins without a mapping, and
// lines the kernel refuses (asked once per direction), follow the permissive pin contract of package line:
// writes are dropped and reads return line.DefaultInputLevel. Each such pin is
// logged once.
//
// On platforms other than Linux, Open returns ErrUnsupported.
package cdev

import (
	"errors"
	"fmt"
	"sync"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/arloliu/go-necir/line"
	"github.com/arloliu/go-necir/logger"
)

// DefaultConsumer is the consumer label attached to requested lines.
const DefaultConsumer = "necir"

var (
	// ErrUnsupported indicates the character device API is not available on
	// this platform.
	ErrUnsupported = errors.New("cdev: GPIO character device not supported on this platform")

	// ErrChipClosed indicates the Chip has been closed.
	ErrChipClosed = errors.New("cdev: chip closed")
)

// PinMap maps pin identifiers to line offsets on the chip.
type PinMap map[line.PinID]int

// lineHandle is the subset of *gpiocdev.Line used by Chip.
type lineHandle interface {
	Value() (int, error)
	SetValue(value int) error
	Close() error
}

// requestFunc requests one line of chip in the given direction.
type requestFunc func(chip string, offset int, output bool, consumer string) (lineHandle, error)

type handle struct {
	lh     lineHandle
	output bool
}

// lineKey is a pin in one direction.
type lineKey struct {
	pin    line.PinID
	output bool
}

// Chip is a line.Output and line.Input backed by one GPIO chip.
//
// Set and Read may be called from multiple goroutines, but a pin must not be
// driven and sampled concurrently.
type Chip struct {
	name     string
	consumer string
	pins     PinMap
	logger   logger.Logger
	request  requestFunc

	lines   *xsync.MapOf[line.PinID, *handle]
	refused *xsync.MapOf[lineKey, struct{}]
	warned  *xsync.MapOf[line.PinID, struct{}]

	mu     sync.Mutex // serializes line requests and Close
	closed bool
}

var (
	_ line.Output = (*Chip)(nil)
	_ line.Input  = (*Chip)(nil)
)

// Option configures a Chip.
type Option interface {
	apply(*Chip) error
}

type optFunc func(*Chip) error

func (f optFunc) apply(c *Chip) error { return f(c) }

// WithConsumer sets the consumer label shown by gpioinfo.
func WithConsumer(consumer string) Option {
	return optFunc(func(c *Chip) error {
		if consumer == "" {
			return errors.New("cdev: consumer must not be empty")
		}
		c.consumer = consumer

		return nil
	})
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return optFunc(func(c *Chip) error {
		if l == nil {
			return errors.New("cdev: logger must not be nil")
		}
		c.logger = l

		return nil
	})
}

// Open prepares chip (e.g. "gpiochip0") for the pins in pins. No line is
// requested until it is first used.
func Open(chip string, pins PinMap, opts ...Option) (*Chip, error) {
	if err := probe(chip); err != nil {
		return nil, err
	}

	return newChip(chip, pins, requestLine, opts...)
}

func newChip(chip string, pins PinMap, req requestFunc, opts ...Option) (*Chip, error) {
	for pin, offset := range pins {
		if offset < 0 {
			return nil, fmt.Errorf("cdev: pin %d: negative line offset %d", pin, offset)
		}
	}

	c := &Chip{
		name:     chip,
		consumer: DefaultConsumer,
		pins:     make(PinMap, len(pins)),
		logger:   logger.GetLogger(),
		request:  req,
		lines:    xsync.NewMapOf[line.PinID, *handle](),
		refused:  xsync.NewMapOf[lineKey, struct{}](),
		warned:   xsync.NewMapOf[line.PinID, struct{}](),
	}
	for pin, offset := range pins {
		c.pins[pin] = offset
	}

	for _, opt := range opts {
		if err := opt.apply(c); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// Name returns the chip name.
func (c *Chip) Name() string { return c.name }

// Set drives pin to level. Unmapped or unavailable pins are ignored.
func (c *Chip) Set(pin line.PinID, level line.Level) {
	h := c.line(pin, true)
	if h == nil {
		return
	}

	if err := h.lh.SetValue(toValue(level)); err != nil {
		c.warnOnce(pin, "cdev: set failed", err)
	}
}

// Read samples pin. Unmapped or unavailable pins read line.DefaultInputLevel.
func (c *Chip) Read(pin line.PinID) line.Level {
	h := c.line(pin, false)
	if h == nil {
		return line.DefaultInputLevel
	}

	v, err := h.lh.Value()
	if err != nil {
		c.warnOnce(pin, "cdev: read failed", err)
		return line.DefaultInputLevel
	}

	return v != 0
}

// Close releases every requested line. The Chip must not be used afterwards.
func (c *Chip) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrChipClosed
	}
	c.closed = true

	var errs []error
	c.lines.Range(func(pin line.PinID, h *handle) bool {
		if err := h.lh.Close(); err != nil {
			errs = append(errs, fmt.Errorf("cdev: pin %d: %w", pin, err))
		}

		return true
	})
	c.lines.Clear()

	return errors.Join(errs...)
}

// line returns the handle of pin requested in the given direction, or nil when
// the pin cannot be used.
func (c *Chip) line(pin line.PinID, output bool) *handle {
	if h, ok := c.lines.Load(pin); ok && h.output == output {
		return h
	}

	offset, ok := c.pins[pin]
	if !ok {
		c.warnOnce(pin, "cdev: pin not mapped", nil)
		return nil
	}
	// the kernel is asked once per direction
	if _, ok := c.refused.Load(lineKey{pin, output}); ok {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	if h, ok := c.lines.Load(pin); ok {
		if h.output == output {
			return h
		}
		// direction change: release and request again
		c.lines.Delete(pin)
		if err := h.lh.Close(); err != nil {
			c.logger.Debug("cdev: release failed", "chip", c.name, "pin", pin, "error", err)
		}
	}

	lh, err := c.request(c.name, offset, output, c.consumer)
	if err != nil {
		c.refused.Store(lineKey{pin, output}, struct{}{})
		c.warnOnce(pin, "cdev: line request failed", err)
		return nil
	}

	h := &handle{lh: lh, output: output}
	c.lines.Store(pin, h)
	c.logger.Debug("cdev: line requested", "chip", c.name, "pin", pin, "offset", offset, "output", output)

	return h
}

func (c *Chip) warnOnce(pin line.PinID, msg string, err error) {
	if _, loaded := c.warned.LoadOrStore(pin, struct{}{}); loaded {
		return
	}

	kv := []any{"chip", c.name, "pin", pin}
	if err != nil {
		kv = append(kv, "error", err)
	}
	c.logger.Warn(msg, kv...)
}

func toValue(level line.Level) int {
	if level {
		return 1
	}

	return 0
}
