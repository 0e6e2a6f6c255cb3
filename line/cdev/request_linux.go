//go:build linux

package cdev

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

func probe(chip string) error {
	c, err := gpiocdev.NewChip(chip)
	if err != nil {
		return fmt.Errorf("cdev: open %s: %w", chip, err)
	}

	return c.Close()
}

func requestLine(chip string, offset int, output bool, consumer string) (lineHandle, error) {
	opts := []gpiocdev.LineReqOption{gpiocdev.WithConsumer(consumer)}
	if output {
		opts = append(opts, gpiocdev.AsOutput(0))
	} else {
		opts = append(opts, gpiocdev.AsInput, gpiocdev.WithPullUp)
	}

	l, err := gpiocdev.RequestLine(chip, offset, opts...)
	if err != nil {
		return nil, fmt.Errorf("cdev: request %s:%d: %w", chip, offset, err)
	}

	return l, nil
}
