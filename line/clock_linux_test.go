//go:build linux

package line

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestRawClock_FailedRead(t *testing.T) {
	require := require.New(t)

	var fail bool
	var nanos int64 = 5_000_000
	clk := &RawClock{
		epoch: time.Millisecond,
		gettime: func(ts *unix.Timespec) error {
			if fail {
				return unix.EINVAL
			}
			*ts = unix.NsecToTimespec(nanos)

			return nil
		},
	}

	require.Equal(4*time.Millisecond, clk.Now())

	fail = true
	require.Equal(4*time.Millisecond, clk.Now())

	fail = false
	nanos = 6_000_000
	require.Equal(5*time.Millisecond, clk.Now())
}
