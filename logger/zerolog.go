package logger

import (
	"io"
	"os"
	"sync/atomic"

	"github.com/rs/zerolog"
)

// ZerologLogger adapts a zerolog.Logger to the Logger interface.
type ZerologLogger struct {
	logger zerolog.Logger
	level  *atomic.Int32 // shared with children created by With
}

var _ Logger = (*ZerologLogger)(nil)

// NewZerolog creates a zerolog-backed logger writing JSON lines to w.
// A nil w writes to stdout.
func NewZerolog(w io.Writer, level Level) Logger {
	if w == nil {
		w = os.Stdout
	}
	zl := zerolog.New(w).With().Timestamp().Logger()

	return FromZerolog(zl, level)
}

// FromZerolog wraps an existing zerolog.Logger. Level filtering is done by the
// wrapper, so the wrapped logger should not filter above level itself.
func FromZerolog(zl zerolog.Logger, level Level) Logger {
	lv := &atomic.Int32{}
	lv.Store(int32(level))

	return &ZerologLogger{logger: zl, level: lv}
}

func (l *ZerologLogger) Debug(msg string, keysAndValues ...any) {
	if l.enabled(DebugLevel) {
		l.logger.Debug().Fields(keysAndValues).Msg(msg)
	}
}

func (l *ZerologLogger) Info(msg string, keysAndValues ...any) {
	if l.enabled(InfoLevel) {
		l.logger.Info().Fields(keysAndValues).Msg(msg)
	}
}

func (l *ZerologLogger) Warn(msg string, keysAndValues ...any) {
	if l.enabled(WarnLevel) {
		l.logger.Warn().Fields(keysAndValues).Msg(msg)
	}
}

func (l *ZerologLogger) Error(msg string, keysAndValues ...any) {
	if l.enabled(ErrorLevel) {
		l.logger.Error().Fields(keysAndValues).Msg(msg)
	}
}

func (l *ZerologLogger) Fatal(msg string, keysAndValues ...any) {
	l.logger.WithLevel(zerolog.FatalLevel).Fields(keysAndValues).Msg(msg)
	os.Exit(1)
}

func (l *ZerologLogger) With(keyValues ...any) Logger {
	return &ZerologLogger{
		logger: l.logger.With().Fields(keyValues).Logger(),
		level:  l.level,
	}
}

func (l *ZerologLogger) Level() Level {
	return Level(l.level.Load())
}

func (l *ZerologLogger) SetLevel(level Level) {
	l.level.Store(int32(level))
}

func (l *ZerologLogger) enabled(level Level) bool {
	return level >= Level(l.level.Load())
}
