package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/arloliu/go-necir/line"
	"github.com/arloliu/go-necir/line/cdev"
	"github.com/arloliu/go-necir/logger"
	"github.com/arloliu/go-necir/nec"
)

// Supported backends.
const (
	backendCdev = "cdev"
	backendBCM  = "bcm"
)

// Supported log formats.
const (
	formatJSON    = "json"
	formatConsole = "console"
	formatZerolog = "zerolog"
)

// fileConfig is the on-disk board profile, in YAML or TOML.
type fileConfig struct {
	Backend        string         `yaml:"backend" toml:"backend"`
	Chip           string         `yaml:"chip" toml:"chip"`
	TxPin          *int           `yaml:"tx_pin" toml:"tx_pin"`
	RxPin          *int           `yaml:"rx_pin" toml:"rx_pin"`
	Pins           map[string]int `yaml:"pins" toml:"pins"`
	AbsenceTimeout string         `yaml:"absence_timeout" toml:"absence_timeout"`
	GlitchFloor    string         `yaml:"glitch_floor" toml:"glitch_floor"`
	ReceiveBudget  string         `yaml:"receive_budget" toml:"receive_budget"`
	ActiveLow      *bool          `yaml:"active_low" toml:"active_low"`
	LogLevel       string         `yaml:"log_level" toml:"log_level"`
	LogFormat      string         `yaml:"log_format" toml:"log_format"`
}

// boardConfig is the resolved configuration of one necctl run.
type boardConfig struct {
	Backend        string
	Chip           string
	TxPin          line.PinID
	RxPin          line.PinID
	Pins           cdev.PinMap
	AbsenceTimeout time.Duration
	GlitchFloor    time.Duration
	ReceiveBudget  time.Duration
	ActiveLow      bool
	LogLevel       logger.Level
	LogFormat      string
}

func defaultBoardConfig() boardConfig {
	return boardConfig{
		Backend:        backendCdev,
		Chip:           "gpiochip0",
		TxPin:          3,
		RxPin:          2,
		Pins:           cdev.PinMap{},
		AbsenceTimeout: nec.DefaultAbsenceTimeout,
		GlitchFloor:    nec.DefaultGlitchFloor,
		ActiveLow:      true,
		LogLevel:       logger.InfoLevel,
		LogFormat:      formatConsole,
	}
}

// loadConfigFile reads a board profile, choosing the decoder by extension.
func loadConfigFile(path string) (fileConfig, error) {
	var raw fileConfig

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return fileConfig{}, fmt.Errorf("load board config: %w", err)
		}
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return fileConfig{}, fmt.Errorf("load board config: %w", err)
		}
	case ".toml":
		if _, err := toml.DecodeFile(path, &raw); err != nil {
			return fileConfig{}, fmt.Errorf("load board config: %w", err)
		}
	default:
		return fileConfig{}, fmt.Errorf("load board config: unsupported extension %q", ext)
	}

	return raw, nil
}

// apply overlays the fields set in raw onto cfg.
func (raw fileConfig) apply(cfg *boardConfig) error {
	if v := strings.TrimSpace(raw.Backend); v != "" {
		cfg.Backend = v
	}
	if v := strings.TrimSpace(raw.Chip); v != "" {
		cfg.Chip = v
	}

	if raw.TxPin != nil {
		pin, err := toPinID(*raw.TxPin)
		if err != nil {
			return fmt.Errorf("parse tx_pin: %w", err)
		}
		cfg.TxPin = pin
	}

	if raw.RxPin != nil {
		pin, err := toPinID(*raw.RxPin)
		if err != nil {
			return fmt.Errorf("parse rx_pin: %w", err)
		}
		cfg.RxPin = pin
	}

	for key, offset := range raw.Pins {
		n, err := strconv.Atoi(strings.TrimSpace(key))
		if err != nil {
			return fmt.Errorf("parse pins: key %q: %w", key, err)
		}
		pin, err := toPinID(n)
		if err != nil {
			return fmt.Errorf("parse pins: %w", err)
		}
		cfg.Pins[pin] = offset
	}

	durations := []struct {
		key string
		val string
		dst *time.Duration
	}{
		{"absence_timeout", raw.AbsenceTimeout, &cfg.AbsenceTimeout},
		{"glitch_floor", raw.GlitchFloor, &cfg.GlitchFloor},
		{"receive_budget", raw.ReceiveBudget, &cfg.ReceiveBudget},
	}
	for _, d := range durations {
		v := strings.TrimSpace(d.val)
		if v == "" {
			continue
		}
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse %s: %w", d.key, err)
		}
		*d.dst = parsed
	}

	if raw.ActiveLow != nil {
		cfg.ActiveLow = *raw.ActiveLow
	}

	if v := strings.TrimSpace(raw.LogLevel); v != "" {
		level, ok := logger.ParseLevel(v)
		if !ok {
			return fmt.Errorf("parse log_level: unknown level %q", v)
		}
		cfg.LogLevel = level
	}

	if v := strings.TrimSpace(raw.LogFormat); v != "" {
		cfg.LogFormat = v
	}

	return nil
}

// boardFlags are the command-line overrides shared by every subcommand.
type boardFlags struct {
	config         string
	backend        string
	chip           string
	txPin          uint8
	rxPin          uint8
	pins           []string
	absenceTimeout time.Duration
	glitchFloor    time.Duration
	receiveBudget  time.Duration
	activeLow      bool
	logLevel       string
	logFormat      string
}

func (bf *boardFlags) register(fs *pflag.FlagSet) {
	def := defaultBoardConfig()

	fs.StringVarP(&bf.config, "config", "c", "", "Board profile (.yaml, .yml or .toml).")
	fs.StringVarP(&bf.backend, "backend", "b", def.Backend, "GPIO backend: cdev or bcm.")
	fs.StringVar(&bf.chip, "chip", def.Chip, "GPIO chip for the cdev backend.")
	fs.Uint8Var(&bf.txPin, "tx-pin", uint8(def.TxPin), "Pin driving the IR LED.")
	fs.Uint8Var(&bf.rxPin, "rx-pin", uint8(def.RxPin), "Pin sampling the IR receiver module.")
	fs.StringSliceVar(&bf.pins, "pin", nil, "Pin to line offset mapping for cdev, e.g. 3=17. Repeatable.")
	fs.DurationVar(&bf.absenceTimeout, "absence-timeout", def.AbsenceTimeout, "Per-edge wait before a frame is declared absent.")
	fs.DurationVar(&bf.glitchFloor, "glitch-floor", def.GlitchFloor, "Shortest accepted mark or space.")
	fs.DurationVar(&bf.receiveBudget, "receive-budget", 0, "Overall limit for one reception, 0 to disable.")
	fs.BoolVar(&bf.activeLow, "active-low", def.ActiveLow, "Receiver pulls the line low while it detects carrier.")
	fs.StringVarP(&bf.logLevel, "log-level", "l", def.LogLevel.String(), "Log level: debug, info, warn, error.")
	fs.StringVar(&bf.logFormat, "log-format", def.LogFormat, "Log format: console, json or zerolog.")
}

// resolve builds the run configuration: defaults, then the profile, then the
// flags that were set explicitly.
func (bf *boardFlags) resolve(fs *pflag.FlagSet) (boardConfig, error) {
	cfg := defaultBoardConfig()

	if bf.config != "" {
		raw, err := loadConfigFile(bf.config)
		if err != nil {
			return boardConfig{}, err
		}
		if err := raw.apply(&cfg); err != nil {
			return boardConfig{}, err
		}
	}

	if fs.Changed("backend") {
		cfg.Backend = bf.backend
	}
	if fs.Changed("chip") {
		cfg.Chip = bf.chip
	}
	if fs.Changed("tx-pin") {
		cfg.TxPin = line.PinID(bf.txPin)
	}
	if fs.Changed("rx-pin") {
		cfg.RxPin = line.PinID(bf.rxPin)
	}
	for _, m := range bf.pins {
		pin, offset, err := parsePinMapping(m)
		if err != nil {
			return boardConfig{}, err
		}
		cfg.Pins[pin] = offset
	}
	if fs.Changed("absence-timeout") {
		cfg.AbsenceTimeout = bf.absenceTimeout
	}
	if fs.Changed("glitch-floor") {
		cfg.GlitchFloor = bf.glitchFloor
	}
	if fs.Changed("receive-budget") {
		cfg.ReceiveBudget = bf.receiveBudget
	}
	if fs.Changed("active-low") {
		cfg.ActiveLow = bf.activeLow
	}
	if fs.Changed("log-level") {
		level, ok := logger.ParseLevel(bf.logLevel)
		if !ok {
			return boardConfig{}, fmt.Errorf("unknown log level %q", bf.logLevel)
		}
		cfg.LogLevel = level
	}
	if fs.Changed("log-format") {
		cfg.LogFormat = bf.logFormat
	}

	return cfg, cfg.validate()
}

func (cfg boardConfig) validate() error {
	switch cfg.Backend {
	case backendCdev, backendBCM:
	default:
		return fmt.Errorf("unknown backend %q", cfg.Backend)
	}

	switch cfg.LogFormat {
	case formatJSON, formatConsole, formatZerolog:
	default:
		return fmt.Errorf("unknown log format %q", cfg.LogFormat)
	}

	if cfg.Backend == backendCdev && cfg.Chip == "" {
		return errors.New("cdev backend needs a chip")
	}

	return nil
}

// necOptions converts the timing settings to codec options.
func (cfg boardConfig) necOptions(l logger.Logger) []nec.Option {
	return []nec.Option{
		nec.WithLogger(l),
		nec.WithAbsenceTimeout(cfg.AbsenceTimeout),
		nec.WithGlitchFloor(cfg.GlitchFloor),
		nec.WithReceiveBudget(cfg.ReceiveBudget),
		nec.WithActiveLowInput(cfg.ActiveLow),
	}
}

func parsePinMapping(s string) (line.PinID, int, error) {
	k, v, ok := strings.Cut(s, "=")
	if !ok {
		return 0, 0, fmt.Errorf("pin mapping %q: want PIN=OFFSET", s)
	}

	n, err := strconv.Atoi(strings.TrimSpace(k))
	if err != nil {
		return 0, 0, fmt.Errorf("pin mapping %q: %w", s, err)
	}
	pin, err := toPinID(n)
	if err != nil {
		return 0, 0, fmt.Errorf("pin mapping %q: %w", s, err)
	}

	offset, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || offset < 0 {
		return 0, 0, fmt.Errorf("pin mapping %q: invalid line offset", s)
	}

	return pin, offset, nil
}

func toPinID(n int) (line.PinID, error) {
	if n < 0 || n > 255 {
		return 0, fmt.Errorf("pin %d out of range [0, 255]", n)
	}

	return line.PinID(n), nil
}
