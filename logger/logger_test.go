package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name  string
		level Level
		ok    bool
	}{
		{"debug", DebugLevel, true},
		{"info", InfoLevel, true},
		{"", InfoLevel, true},
		{"warn", WarnLevel, true},
		{"warning", WarnLevel, true},
		{"error", ErrorLevel, true},
		{"fatal", FatalLevel, true},
		{"verbose", InfoLevel, false},
	}

	for _, tt := range tests {
		level, ok := ParseLevel(tt.name)
		assert.Equal(t, tt.level, level, tt.name)
		assert.Equal(t, tt.ok, ok, tt.name)
	}
}

func TestLevel_String(t *testing.T) {
	for _, lv := range []Level{DebugLevel, InfoLevel, WarnLevel, ErrorLevel, FatalLevel} {
		parsed, ok := ParseLevel(lv.String())
		require.True(t, ok)
		assert.Equal(t, lv, parsed)
	}
	assert.Equal(t, "unknown", Level(42).String())
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()

	var records []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		rec := map[string]any{}
		require.NoError(t, json.Unmarshal([]byte(line), &rec))
		records = append(records, rec)
	}

	return records
}

func TestSlogLogger_LevelFiltering(t *testing.T) {
	t.Setenv("ENV", "")

	var buf bytes.Buffer
	l := NewSlogWriter(&buf, InfoLevel, false)
	assert.Equal(t, InfoLevel, l.Level())

	l.Debug("hidden")
	l.Info("shown", "pin", 3)

	records := decodeLines(t, &buf)
	require.Len(t, records, 1)
	assert.Equal(t, "shown", records[0]["msg"])
	assert.InDelta(t, 3, records[0]["pin"], 0)
	assert.Contains(t, records[0], "ts")

	l.SetLevel(DebugLevel)
	assert.Equal(t, DebugLevel, l.Level())
	buf.Reset()
	l.Debug("now shown")
	assert.Len(t, decodeLines(t, &buf), 1)
}

func TestSlogLogger_WithSharesLevel(t *testing.T) {
	t.Setenv("ENV", "")

	var buf bytes.Buffer
	parent := NewSlogWriter(&buf, WarnLevel, false)
	child := parent.With("component", "nec")

	child.Info("hidden")
	child.Warn("shown")
	records := decodeLines(t, &buf)
	require.Len(t, records, 1)
	assert.Equal(t, "nec", records[0]["component"])

	parent.SetLevel(InfoLevel)
	assert.Equal(t, InfoLevel, child.Level())
}

func TestZerologLogger(t *testing.T) {
	var buf bytes.Buffer
	l := NewZerolog(&buf, InfoLevel)

	l.Debug("hidden")
	l.Info("shown", "address", 0xA5)
	l.With("pin", 2).Warn("child")

	records := decodeLines(t, &buf)
	require.Len(t, records, 2)
	assert.Equal(t, "shown", records[0]["message"])
	assert.Equal(t, "info", records[0]["level"])
	assert.InDelta(t, 0xA5, records[0]["address"], 0)
	assert.Equal(t, "warn", records[1]["level"])
	assert.InDelta(t, 2, records[1]["pin"], 0)

	l.SetLevel(ErrorLevel)
	assert.Equal(t, ErrorLevel, l.Level())
	buf.Reset()
	l.Warn("hidden")
	assert.Empty(t, buf.String())
}

func TestSetLogger(t *testing.T) {
	prev := GetLogger()
	t.Cleanup(func() { SetLogger(prev) })

	mockLog := NewMockLogger()
	mockLog.On("Info", "hello", []any{"k", 1}).Return()

	SetLogger(mockLog)
	Info("hello", "k", 1)
	mockLog.AssertExpectations(t)

	SetLogger(nil)
	assert.Same(t, mockLog, GetLogger())
}

func TestMockLogger_Ignore(t *testing.T) {
	m := NewMockLogger().Ignore(DebugLevel, WarnLevel)
	assert.NotPanics(t, func() {
		m.Debug("any", "k", 1)
		m.Warn("other")
	})
	assert.Panics(t, func() { m.Info("unexpected") })

	all := NewMockLogger().Ignore()
	assert.NotPanics(t, func() {
		all.Info("a")
		all.Error("b", "err", "x")
	})
	all.AssertExpectations(t)

	all.On("With", "pin", 3).Return(nil)
	assert.Same(t, all, all.With("pin", 3))
}

func TestNewConsole(t *testing.T) {
	var buf bytes.Buffer
	l := NewConsole(&buf, WarnLevel)

	l.Info("hidden")
	l.Warn("shown", "pin", 3)
	assert.Equal(t, WarnLevel, l.Level())
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}
