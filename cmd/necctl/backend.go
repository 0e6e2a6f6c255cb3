package main

import (
	"fmt"
	"io"

	"github.com/arloliu/go-necir/line"
	"github.com/arloliu/go-necir/line/bcm"
	"github.com/arloliu/go-necir/line/cdev"
	"github.com/arloliu/go-necir/logger"
)

// board bundles the line collaborators of one backend.
type board struct {
	out    line.Output
	in     line.Input
	tb     line.Timebase
	closer io.Closer
}

func (b *board) Close() error {
	if b.closer == nil {
		return nil
	}

	return b.closer.Close()
}

func openBoard(cfg boardConfig, l logger.Logger) (*board, error) {
	switch cfg.Backend {
	case backendCdev:
		pins := cfg.Pins
		if len(pins) == 0 {
			// identity mapping for the configured pins
			pins = cdev.PinMap{cfg.TxPin: int(cfg.TxPin), cfg.RxPin: int(cfg.RxPin)}
		}
		chip, err := cdev.Open(cfg.Chip, pins, cdev.WithLogger(l))
		if err != nil {
			return nil, err
		}

		return &board{out: chip, in: chip, tb: line.NewRawClock(), closer: chip}, nil

	case backendBCM:
		g, err := bcm.Open(l)
		if err != nil {
			return nil, fmt.Errorf("open bcm gpio: %w", err)
		}

		return &board{out: g, in: g, tb: line.NewRawClock(), closer: g}, nil

	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}

func newLogger(cfg boardConfig, w io.Writer) logger.Logger {
	switch cfg.LogFormat {
	case formatJSON:
		return logger.NewSlogWriter(w, cfg.LogLevel, false)
	case formatZerolog:
		return logger.NewZerolog(w, cfg.LogLevel)
	default:
		return logger.NewConsole(w, cfg.LogLevel)
	}
}
