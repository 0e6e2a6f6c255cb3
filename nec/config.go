package nec

import (
	"errors"
	"fmt"
	"time"

	"github.com/arloliu/go-necir/logger"
)

// Default configuration values.
const (
	DefaultAbsenceTimeout = 500 * time.Millisecond // per-edge wait before a frame is declared absent
	DefaultGlitchFloor    = 200 * time.Microsecond // shorter phases are read errors
)

// Configuration range limits.
const (
	MinAbsenceTimeout = 1 * time.Millisecond
	MaxAbsenceTimeout = 10 * time.Second

	// MaxGlitchFloor is exclusive: a floor at or above the lowest window bound
	// would reject valid bits.
	MaxGlitchFloor = 281 * time.Microsecond

	MinReceiveBudget = 100 * time.Millisecond
)

// Config holds the configuration shared by a Transmitter and a Receiver.
type Config struct {
	// absenceTimeout bounds each individual edge wait.
	absenceTimeout time.Duration

	// glitchFloor is the minimum duration of a measured mark or space.
	glitchFloor time.Duration

	// receiveBudget bounds a whole ReceiveFrame call. Zero disables it.
	receiveBudget time.Duration

	// activeLowInput: the receiver module pulls the line low while it detects
	// carrier.
	activeLowInput bool

	carrierHigh   time.Duration
	carrierLow    time.Duration
	interframeGap time.Duration

	logger logger.Logger
}

// NewConfig creates a codec configuration. opts are functional options applied
// in order; see With* functions.
func NewConfig(opts ...Option) (*Config, error) {
	cfg := &Config{
		absenceTimeout: DefaultAbsenceTimeout,
		glitchFloor:    DefaultGlitchFloor,
		activeLowInput: true,
		carrierHigh:    CarrierHigh,
		carrierLow:     CarrierLow,
		interframeGap:  InterframeGap,
		logger:         logger.GetLogger(),
	}

	for _, opt := range opts {
		if err := opt.apply(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// DefaultConfig returns a configuration with every default applied.
func DefaultConfig() *Config {
	cfg, _ := NewConfig()
	return cfg
}

// AbsenceTimeout returns the per-edge absence timeout.
func (cfg *Config) AbsenceTimeout() time.Duration { return cfg.absenceTimeout }

// GlitchFloor returns the minimum accepted phase duration.
func (cfg *Config) GlitchFloor() time.Duration { return cfg.glitchFloor }

// ReceiveBudget returns the overall receive budget, or zero when disabled.
func (cfg *Config) ReceiveBudget() time.Duration { return cfg.receiveBudget }

// ActiveLowInput reports whether a low input level means carrier present.
func (cfg *Config) ActiveLowInput() bool { return cfg.activeLowInput }

// CarrierHigh returns the high time of one carrier cycle.
func (cfg *Config) CarrierHigh() time.Duration { return cfg.carrierHigh }

// CarrierLow returns the low time of one carrier cycle.
func (cfg *Config) CarrierLow() time.Duration { return cfg.carrierLow }

// InterframeGap returns the idle delay after the stop mark.
func (cfg *Config) InterframeGap() time.Duration { return cfg.interframeGap }

// GetLogger returns the configured logger.
func (cfg *Config) GetLogger() logger.Logger { return cfg.logger }

// --- Option ---

// Option is a functional option for configuring a Config.
type Option interface {
	apply(*Config) error
}

type optFunc func(*Config) error

func (f optFunc) apply(cfg *Config) error { return f(cfg) }

// WithAbsenceTimeout sets the per-edge absence timeout. Must be in
// [MinAbsenceTimeout, MaxAbsenceTimeout].
func WithAbsenceTimeout(d time.Duration) Option {
	return optFunc(func(cfg *Config) error {
		if d < MinAbsenceTimeout || d > MaxAbsenceTimeout {
			return fmt.Errorf("nec: absence timeout %v out of range [%v, %v]", d, MinAbsenceTimeout, MaxAbsenceTimeout)
		}
		cfg.absenceTimeout = d

		return nil
	})
}

// WithGlitchFloor sets the minimum accepted mark or space duration. Zero
// disables the check. Must be below MaxGlitchFloor.
func WithGlitchFloor(d time.Duration) Option {
	return optFunc(func(cfg *Config) error {
		if d < 0 || d >= MaxGlitchFloor {
			return fmt.Errorf("nec: glitch floor %v out of range [0, %v)", d, MaxGlitchFloor)
		}
		cfg.glitchFloor = d

		return nil
	})
}

// WithReceiveBudget bounds a whole ReceiveFrame call. When the budget elapses
// the call returns ErrBudgetExceeded. Zero disables the budget (default);
// otherwise it must be at least MinReceiveBudget.
func WithReceiveBudget(d time.Duration) Option {
	return optFunc(func(cfg *Config) error {
		if d != 0 && d < MinReceiveBudget {
			return fmt.Errorf("nec: receive budget %v below minimum %v", d, MinReceiveBudget)
		}
		cfg.receiveBudget = d

		return nil
	})
}

// WithActiveLowInput selects the input polarity. true (default) treats a low
// line as carrier present, as with common 38 kHz receiver modules.
func WithActiveLowInput(activeLow bool) Option {
	return optFunc(func(cfg *Config) error {
		cfg.activeLowInput = activeLow

		return nil
	})
}

// WithCarrier sets the high and low times of one carrier cycle.
func WithCarrier(high, low time.Duration) Option {
	return optFunc(func(cfg *Config) error {
		if high <= 0 || low <= 0 {
			return fmt.Errorf("nec: carrier high %v and low %v must be positive", high, low)
		}
		cfg.carrierHigh = high
		cfg.carrierLow = low

		return nil
	})
}

// WithInterframeGap sets the idle delay after the stop mark.
func WithInterframeGap(d time.Duration) Option {
	return optFunc(func(cfg *Config) error {
		if d < 0 {
			return errors.New("nec: inter-frame gap must not be negative")
		}
		cfg.interframeGap = d

		return nil
	})
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return optFunc(func(cfg *Config) error {
		if l == nil {
			return errors.New("nec: logger must not be nil")
		}
		cfg.logger = l

		return nil
	})
}
