package logger

import (
	"github.com/stretchr/testify/mock"
)

// MockLogger is a testify mock implementing Logger.
//
// Leveled methods are called with two arguments: the message and the
// key-value slice, so expectations take the form
//
//	m.On("Warn", "cdev: pin not mapped", mock.Anything)
type MockLogger struct {
	mock.Mock
}

var _ Logger = (*MockLogger)(nil)

// NewMockLogger creates a MockLogger with no expectations.
func NewMockLogger() *MockLogger {
	return &MockLogger{}
}

// Ignore accepts any message at levels without requiring it. With no levels
// every leveled method is ignored.
func (m *MockLogger) Ignore(levels ...Level) *MockLogger {
	if len(levels) == 0 {
		levels = []Level{DebugLevel, InfoLevel, WarnLevel, ErrorLevel}
	}
	for _, level := range levels {
		m.On(methodOf(level), mock.Anything, mock.Anything).Maybe()
	}

	return m
}

func methodOf(level Level) string {
	switch level {
	case DebugLevel:
		return "Debug"
	case InfoLevel:
		return "Info"
	case WarnLevel:
		return "Warn"
	case ErrorLevel:
		return "Error"
	default:
		return "Fatal"
	}
}

func (m *MockLogger) Debug(msg string, keysAndValues ...any) {
	m.Called(msg, keysAndValues)
}

func (m *MockLogger) Info(msg string, keysAndValues ...any) {
	m.Called(msg, keysAndValues)
}

func (m *MockLogger) Warn(msg string, keysAndValues ...any) {
	m.Called(msg, keysAndValues)
}

func (m *MockLogger) Error(msg string, keysAndValues ...any) {
	m.Called(msg, keysAndValues)
}

func (m *MockLogger) Fatal(msg string, keysAndValues ...any) {
	m.Called(msg, keysAndValues)
}

func (m *MockLogger) SetLevel(level Level) {
	m.Called(level)
}

func (m *MockLogger) Level() Level {
	args := m.Called()
	return args.Get(0).(Level)
}

// With returns the logger registered for the call, or m itself when the
// expectation has no return value.
func (m *MockLogger) With(keyValues ...any) Logger {
	args := m.Called(keyValues...)
	if len(args) == 0 || args.Get(0) == nil {
		return m
	}

	return args.Get(0).(Logger)
}
