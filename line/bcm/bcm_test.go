package bcm

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/go-necir/line"
	"github.com/arloliu/go-necir/logger"
)

type fakeGPIO struct {
	outputs map[uint8]int
	inputs  map[uint8]int
	levels  map[uint8]bool
	closed  bool
}

func newFakeGPIO() *fakeGPIO {
	return &fakeGPIO{outputs: map[uint8]int{}, inputs: map[uint8]int{}, levels: map[uint8]bool{}}
}

func (f *fakeGPIO) output(pin uint8)           { f.outputs[pin]++ }
func (f *fakeGPIO) input(pin uint8)            { f.inputs[pin]++ }
func (f *fakeGPIO) write(pin uint8, high bool) { f.levels[pin] = high }
func (f *fakeGPIO) read(pin uint8) bool        { return f.levels[pin] }
func (f *fakeGPIO) close() error {
	f.closed = true
	return nil
}

func quietLogger() logger.Logger {
	return logger.NewMockLogger().Ignore(logger.DebugLevel)
}

func TestGPIO_SetRead(t *testing.T) {
	require := require.New(t)

	hw := newFakeGPIO()
	g := newGPIO(hw, quietLogger())

	g.Set(17, line.High)
	g.Set(17, line.Low)
	g.Set(17, line.High)
	require.Equal(1, hw.outputs[17])
	require.True(hw.levels[17])

	hw.levels[27] = true
	require.Equal(line.High, g.Read(27))
	hw.levels[27] = false
	require.Equal(line.Low, g.Read(27))
	require.Equal(1, hw.inputs[27])

	// switching direction reconfigures the pin
	require.Equal(line.High, g.Read(17))
	require.Equal(1, hw.inputs[17])
	g.Set(17, line.Low)
	require.Equal(2, hw.outputs[17])
}

func TestGPIO_OutOfRange(t *testing.T) {
	require := require.New(t)

	l := logger.NewMockLogger()
	l.On("Warn", "bcm: pin out of range", []any{"pin", MaxPin + 1, "max", MaxPin}).Once()
	l.On("Warn", "bcm: pin out of range", []any{"pin", line.PinID(255), "max", MaxPin}).Once()

	hw := newFakeGPIO()
	g := newGPIO(hw, l)

	for range 100 {
		g.Set(MaxPin+1, line.High)
		require.Equal(line.DefaultInputLevel, g.Read(MaxPin+1))
	}
	require.Equal(line.DefaultInputLevel, g.Read(255))
	require.Empty(hw.outputs)
	require.Empty(hw.inputs)
	require.Empty(hw.levels)
	l.AssertExpectations(t)
}

func TestGPIO_Close(t *testing.T) {
	require := require.New(t)

	hw := newFakeGPIO()
	g := newGPIO(hw, nil)

	g.Set(4, line.High)
	require.NoError(g.Close())
	require.True(hw.closed)
	require.ErrorIs(g.Close(), ErrClosed)

	g.Set(4, line.Low)
	require.True(hw.levels[4])
	require.Equal(line.DefaultInputLevel, g.Read(4))
}
