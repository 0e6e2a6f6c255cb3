package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/go-necir/line/cdev"
	"github.com/arloliu/go-necir/logger"
	"github.com/arloliu/go-necir/nec"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func parseBoardFlags(t *testing.T, args ...string) (boardConfig, error) {
	t.Helper()

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	var bf boardFlags
	bf.register(fs)
	require.NoError(t, fs.Parse(args))

	return bf.resolve(fs)
}

func TestLoadConfigFile_YAML(t *testing.T) {
	require := require.New(t)

	path := writeFile(t, "board.yaml", `
backend: bcm
tx_pin: 18
rx_pin: 23
pins:
  "18": 18
absence_timeout: 250ms
glitch_floor: 150us
receive_budget: 2s
active_low: false
log_level: debug
log_format: json
`)

	raw, err := loadConfigFile(path)
	require.NoError(err)

	cfg := defaultBoardConfig()
	require.NoError(raw.apply(&cfg))
	require.Equal(backendBCM, cfg.Backend)
	require.Equal("gpiochip0", cfg.Chip)
	require.EqualValues(18, cfg.TxPin)
	require.EqualValues(23, cfg.RxPin)
	require.Equal(cdev.PinMap{18: 18}, cfg.Pins)
	require.Equal(250*time.Millisecond, cfg.AbsenceTimeout)
	require.Equal(150*time.Microsecond, cfg.GlitchFloor)
	require.Equal(2*time.Second, cfg.ReceiveBudget)
	require.False(cfg.ActiveLow)
	require.Equal(logger.DebugLevel, cfg.LogLevel)
	require.Equal(formatJSON, cfg.LogFormat)
}

func TestLoadConfigFile_TOML(t *testing.T) {
	require := require.New(t)

	path := writeFile(t, "board.toml", `
backend = "cdev"
chip = "gpiochip4"
tx_pin = 3
absence_timeout = "1s"
log_format = "zerolog"

[pins]
3 = 17
2 = 27
`)

	raw, err := loadConfigFile(path)
	require.NoError(err)

	cfg := defaultBoardConfig()
	require.NoError(raw.apply(&cfg))
	require.Equal(backendCdev, cfg.Backend)
	require.Equal("gpiochip4", cfg.Chip)
	require.EqualValues(3, cfg.TxPin)
	require.EqualValues(2, cfg.RxPin) // default kept
	require.Equal(cdev.PinMap{3: 17, 2: 27}, cfg.Pins)
	require.Equal(time.Second, cfg.AbsenceTimeout)
	require.Equal(nec.DefaultGlitchFloor, cfg.GlitchFloor)
	require.True(cfg.ActiveLow)
	require.Equal(formatZerolog, cfg.LogFormat)
}

func TestLoadConfigFile_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"unsupported extension", "board.json", `{}`},
		{"bad yaml", "board.yaml", "backend: [unclosed"},
		{"bad toml", "board.toml", "backend = "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadConfigFile(writeFile(t, tt.file, tt.content))
			require.Error(t, err)
		})
	}

	t.Run("missing file", func(t *testing.T) {
		_, err := loadConfigFile(filepath.Join(t.TempDir(), "none.yaml"))
		require.Error(t, err)
	})
}

func TestFileConfig_ApplyErrors(t *testing.T) {
	big := 300
	tests := []struct {
		name string
		raw  fileConfig
	}{
		{"bad duration", fileConfig{AbsenceTimeout: "soon"}},
		{"bad level", fileConfig{LogLevel: "loud"}},
		{"pin out of range", fileConfig{TxPin: &big}},
		{"bad pin key", fileConfig{Pins: map[string]int{"tx": 1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultBoardConfig()
			require.Error(t, tt.raw.apply(&cfg))
		})
	}
}

func TestBoardFlags_Resolve(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		require := require.New(t)

		cfg, err := parseBoardFlags(t)
		require.NoError(err)
		require.Equal(defaultBoardConfig(), cfg)
	})

	t.Run("flags override profile", func(t *testing.T) {
		require := require.New(t)

		path := writeFile(t, "board.yaml", "backend: bcm\ntx_pin: 18\nabsence_timeout: 250ms\n")
		cfg, err := parseBoardFlags(t,
			"--config", path,
			"--tx-pin", "12",
			"--pin", "12=5",
			"--receive-budget", "1s",
			"--active-low=false",
			"-l", "warn",
		)
		require.NoError(err)
		require.Equal(backendBCM, cfg.Backend)
		require.EqualValues(12, cfg.TxPin)
		require.Equal(cdev.PinMap{12: 5}, cfg.Pins)
		require.Equal(250*time.Millisecond, cfg.AbsenceTimeout)
		require.Equal(time.Second, cfg.ReceiveBudget)
		require.False(cfg.ActiveLow)
		require.Equal(logger.WarnLevel, cfg.LogLevel)
	})

	t.Run("invalid", func(t *testing.T) {
		for _, args := range [][]string{
			{"--backend", "serial"},
			{"--log-format", "xml"},
			{"--log-level", "chatty"},
			{"--pin", "3"},
			{"--pin", "3=-1"},
			{"--chip", ""},
		} {
			_, err := parseBoardFlags(t, args...)
			require.Error(t, err, "args %v", args)
		}
	})
}

func TestBoardConfig_NECOptions(t *testing.T) {
	require := require.New(t)

	cfg := defaultBoardConfig()
	cfg.AbsenceTimeout = 20 * time.Millisecond
	cfg.ReceiveBudget = time.Second
	cfg.ActiveLow = false

	codec, err := nec.NewConfig(cfg.necOptions(logger.NewMockLogger())...)
	require.NoError(err)
	require.Equal(20*time.Millisecond, codec.AbsenceTimeout())
	require.Equal(time.Second, codec.ReceiveBudget())
	require.False(codec.ActiveLowInput())

	cfg.GlitchFloor = time.Millisecond
	_, err = nec.NewConfig(cfg.necOptions(logger.NewMockLogger())...)
	require.Error(err)
}
