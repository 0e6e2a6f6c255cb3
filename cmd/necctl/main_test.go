package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/go-necir/line"
	"github.com/arloliu/go-necir/logger"
	"github.com/arloliu/go-necir/nec"
)

type scriptedReceiver struct {
	results []error
	frames  []nec.Frame
	calls   int
}

func (sr *scriptedReceiver) ReceiveFrame(line.PinID) (nec.Frame, error) {
	i := sr.calls
	sr.calls++
	if i >= len(sr.results) {
		return nec.Frame{}, nec.ErrFrameAbsent
	}

	return sr.frames[i], sr.results[i]
}

func TestReceiveLoop(t *testing.T) {
	t.Run("counts valid frames and retries absence", func(t *testing.T) {
		require := require.New(t)

		l := logger.NewMockLogger()
		l.On("Warn", "frame rejected", mock.Anything).Once()

		rx := &scriptedReceiver{
			results: []error{nec.ErrFrameAbsent, nil, nec.ErrComplementMismatch, nil},
			frames:  []nec.Frame{{}, {Address: 0x10, Command: 0x20}, {}, {Address: 1, Command: 2}},
		}
		var out bytes.Buffer
		require.NoError(receiveLoop(context.Background(), rx, 2, 2, true, &out, l))
		require.Equal(4, rx.calls)
		require.Equal("addr=0x10 cmd=0x20 raw=10EF20DF\naddr=0x01 cmd=0x02 raw=01FE02FD\n", out.String())
		l.AssertExpectations(t)
	})

	t.Run("absence without retry", func(t *testing.T) {
		require := require.New(t)

		rx := &scriptedReceiver{}
		err := receiveLoop(context.Background(), rx, 2, 0, false, &bytes.Buffer{}, logger.NewMockLogger())
		require.ErrorIs(err, nec.ErrFrameAbsent)
		require.Equal(1, rx.calls)
	})

	t.Run("cancelled", func(t *testing.T) {
		require := require.New(t)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		rx := &scriptedReceiver{}
		require.NoError(receiveLoop(ctx, rx, 2, 0, true, &bytes.Buffer{}, logger.NewMockLogger()))
		require.Zero(rx.calls)
	})
}

func TestFrameFlags_Bytes(t *testing.T) {
	require := require.New(t)

	ff := frameFlags{address: "0x10", command: "32"}
	data, err := ff.bytes()
	require.NoError(err)
	require.Equal([4]byte{0x10, 0xEF, 0x20, 0xDF}, data)

	ff.raw = "0xA55A5A5B"
	data, err = ff.bytes()
	require.NoError(err)
	require.Equal([4]byte{0xA5, 0x5A, 0x5A, 0x5B}, data)

	for _, bad := range []frameFlags{
		{address: "0x100", command: "0"},
		{address: "0", command: "x"},
		{raw: "0x1FFFFFFFF"},
	} {
		_, err := bad.bytes()
		require.Error(err)
	}
}

func TestSimulate(t *testing.T) {
	require := require.New(t)

	l := logger.NewMockLogger()
	l.On("Info", "carrier recorded", mock.Anything).Twice()
	l.On("Debug", mock.Anything, mock.Anything).Maybe()

	res, err := simulate(nec.Frame{Address: 0x10, Command: 0x20}.Bytes(), l)
	require.NoError(err)
	require.Equal(nec.Result{Status: nec.StatusSuccess, Address: 0x10, Command: 0x20}, res)

	res, err = simulate([4]byte{0xA5, 0x5A, 0x5A, 0x5B}, l)
	require.NoError(err)
	require.Equal(nec.Result{Status: nec.StatusTimingError}, res)
	l.AssertExpectations(t)
}

func TestRun(t *testing.T) {
	ctx := context.Background()

	t.Run("no command", func(t *testing.T) {
		var stderr bytes.Buffer
		require.Equal(t, 2, run(ctx, nil, &bytes.Buffer{}, &stderr))
		require.Contains(t, stderr.String(), "Usage")
	})

	t.Run("unknown command", func(t *testing.T) {
		var stderr bytes.Buffer
		require.Equal(t, 2, run(ctx, []string{"blink"}, &bytes.Buffer{}, &stderr))
		require.Contains(t, stderr.String(), "blink")
	})

	t.Run("help", func(t *testing.T) {
		var stdout bytes.Buffer
		require.Equal(t, 0, run(ctx, []string{"help"}, &stdout, &bytes.Buffer{}))
		require.Contains(t, stdout.String(), "Usage")
		require.Equal(t, 0, run(ctx, []string{"sim", "--help"}, &bytes.Buffer{}, &bytes.Buffer{}))
	})

	t.Run("sim", func(t *testing.T) {
		var stdout bytes.Buffer
		code := run(ctx, []string{"sim", "-a", "0xA5", "-k", "0x5A", "-l", "error"}, &stdout, &bytes.Buffer{})
		require.Equal(t, 0, code)
		require.Equal(t, "status=success addr=0xA5 cmd=0x5A\n", stdout.String())
	})

	t.Run("sim bad flag", func(t *testing.T) {
		var stderr bytes.Buffer
		require.Equal(t, 1, run(ctx, []string{"sim", "-a", "zz"}, &bytes.Buffer{}, &stderr))
		require.Contains(t, stderr.String(), "parse address")
	})

	t.Run("send unknown backend", func(t *testing.T) {
		var stderr bytes.Buffer
		require.Equal(t, 1, run(ctx, []string{"send", "--backend", "serial"}, &bytes.Buffer{}, &stderr))
		require.Contains(t, stderr.String(), "unknown backend")
	})
}
