// Command necctl sends and receives NEC infrared frames on GPIO pins.
//
// Usage:
//
//	necctl send -a 0x10 -k 0x20 [--count N] [--raw 0x10EF20DF]
//	necctl recv [--count N] [--no-retry]
//	necctl sim  -a 0x10 -k 0x20 [--raw WORD]
//
// The GPIO backend and codec timing come from a board profile (--config) and
// the command-line flags; see "necctl <command> --help".
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/arloliu/go-necir/line"
	"github.com/arloliu/go-necir/line/sim"
	"github.com/arloliu/go-necir/logger"
	"github.com/arloliu/go-necir/nec"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "Usage: necctl <send|recv|sim> [flags]")
	fmt.Fprintln(w, "Run 'necctl <command> --help' for the flags of a command.")
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		usage(stderr)
		return 2
	}

	var err error
	switch args[0] {
	case "send":
		err = runSend(args[1:], stdout, stderr)
	case "recv":
		err = runRecv(ctx, args[1:], stdout, stderr)
	case "sim":
		err = runSim(args[1:], stdout, stderr)
	case "help", "-h", "--help":
		usage(stdout)
		return 0
	default:
		fmt.Fprintf(stderr, "necctl: unknown command %q\n", args[0])
		usage(stderr)
		return 2
	}

	switch {
	case err == nil:
		return 0
	case errors.Is(err, pflag.ErrHelp):
		return 0
	default:
		fmt.Fprintf(stderr, "necctl: %v\n", err)
		return 1
	}
}

// frameFlags selects the frame to send.
type frameFlags struct {
	address string
	command string
	raw     string
}

func (ff *frameFlags) register(fs *pflag.FlagSet) {
	fs.StringVarP(&ff.address, "address", "a", "0x00", "Address byte (decimal or 0x hex).")
	fs.StringVarP(&ff.command, "command", "k", "0x00", "Command byte (decimal or 0x hex).")
	fs.StringVar(&ff.raw, "raw", "", "32-bit frame word sent as is, overriding --address and --command.")
}

// bytes returns the four wire bytes to send.
func (ff *frameFlags) bytes() ([4]byte, error) {
	if ff.raw != "" {
		v, err := strconv.ParseUint(ff.raw, 0, 32)
		if err != nil {
			return [4]byte{}, fmt.Errorf("parse raw word %q: %w", ff.raw, err)
		}

		return nec.BytesFromRaw(uint32(v)), nil
	}

	addr, err := strconv.ParseUint(ff.address, 0, 8)
	if err != nil {
		return [4]byte{}, fmt.Errorf("parse address %q: %w", ff.address, err)
	}
	cmd, err := strconv.ParseUint(ff.command, 0, 8)
	if err != nil {
		return [4]byte{}, fmt.Errorf("parse command %q: %w", ff.command, err)
	}

	return nec.Frame{Address: byte(addr), Command: byte(cmd)}.Bytes(), nil
}

func newFlagSet(name string, stderr io.Writer) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.SortFlags = false

	return fs
}

func runSend(args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("send", stderr)
	var bf boardFlags
	var ff frameFlags
	bf.register(fs)
	ff.register(fs)
	count := fs.IntP("count", "n", 1, "Number of frames to send.")

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := bf.resolve(fs)
	if err != nil {
		return err
	}
	data, err := ff.bytes()
	if err != nil {
		return err
	}

	log := newLogger(cfg, stderr)
	b, err := openBoard(cfg, log)
	if err != nil {
		return err
	}
	defer b.Close()

	codecCfg, err := nec.NewConfig(cfg.necOptions(log)...)
	if err != nil {
		return err
	}
	tx, err := nec.NewTransmitter(b.out, b.tb, codecCfg)
	if err != nil {
		return err
	}

	for i := 0; i < *count; i++ {
		tx.TransmitRaw(cfg.TxPin, data)
	}

	fmt.Fprintf(stdout, "sent %d frame(s) %08X on pin %d\n", *count, nec.RawFromBytes(data), cfg.TxPin)

	return nil
}

func runRecv(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("recv", stderr)
	var bf boardFlags
	bf.register(fs)
	count := fs.IntP("count", "n", 0, "Stop after N valid frames, 0 to run until interrupted.")
	noRetry := fs.Bool("no-retry", false, "Exit when no frame arrives within the absence timeout.")

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := bf.resolve(fs)
	if err != nil {
		return err
	}

	log := newLogger(cfg, stderr)
	b, err := openBoard(cfg, log)
	if err != nil {
		return err
	}
	defer b.Close()

	codecCfg, err := nec.NewConfig(cfg.necOptions(log)...)
	if err != nil {
		return err
	}
	rx, err := nec.NewReceiver(b.in, b.tb, codecCfg)
	if err != nil {
		return err
	}

	return receiveLoop(ctx, rx, cfg.RxPin, *count, !*noRetry, stdout, log)
}

// receivable is the part of nec.Receiver used by receiveLoop.
type receivable interface {
	ReceiveFrame(pin line.PinID) (nec.Frame, error)
}

func receiveLoop(ctx context.Context, rx receivable, pin line.PinID, count int, retry bool, stdout io.Writer, log logger.Logger) error {
	for received := 0; count == 0 || received < count; {
		if err := ctx.Err(); err != nil {
			return nil //nolint:nilerr // interrupted by the user
		}

		f, err := rx.ReceiveFrame(pin)
		switch nec.StatusOf(err) {
		case nec.StatusSuccess:
			received++
			fmt.Fprintf(stdout, "%s raw=%08X\n", f, f.Raw())
		case nec.StatusFrameAbsent:
			if !retry {
				return err
			}
		case nec.StatusTimingError, nec.StatusBudgetExceeded:
			log.Warn("frame rejected", "pin", pin, "error", err)
		}
	}

	return nil
}

func runSim(args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("sim", stderr)
	var ff frameFlags
	ff.register(fs)
	level := fs.StringP("log-level", "l", "info", "Log level: debug, info, warn, error.")

	if err := fs.Parse(args); err != nil {
		return err
	}

	data, err := ff.bytes()
	if err != nil {
		return err
	}
	lv, ok := logger.ParseLevel(*level)
	if !ok {
		return fmt.Errorf("unknown log level %q", *level)
	}

	res, err := simulate(data, logger.NewConsole(stderr, lv))
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "status=%s addr=0x%02X cmd=0x%02X\n", res.Status, res.Address, res.Command)

	return nil
}

// simulate sends data through a virtual transmitter, demodulates the carrier
// and decodes it with a virtual receiver.
func simulate(data [4]byte, log logger.Logger) (nec.Result, error) {
	const pin line.PinID = 3

	cfg, err := nec.NewConfig(nec.WithLogger(log))
	if err != nil {
		return nec.Result{}, err
	}

	txClk := sim.NewClock()
	rec := sim.NewRecorder(txClk)
	tx, err := nec.NewTransmitter(rec, txClk, cfg)
	if err != nil {
		return nec.Result{}, err
	}
	tx.TransmitRaw(pin, data)

	edges := rec.Edges(pin)
	log.Info("carrier recorded", "edges", len(edges), "on_air", txClk.Now())

	wave := sim.NewWaveform().Idle(cfg.InterframeGap()).Append(sim.Envelope(edges, sim.DefaultHoldoff))

	rxClk := sim.NewClock()
	rx, err := nec.NewReceiver(sim.NewPlayer(rxClk, pin, wave), rxClk, cfg)
	if err != nil {
		return nec.Result{}, err
	}

	return rx.Receive(pin), nil
}
