package toolrunner

import (
	"context"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emu-tui/emu/internal/apperror"
)

func TestRunSucceedsAndCapturesStdout(t *testing.T) {
	r := New(nil)
	res, err := r.Run(context.Background(), Input{
		Program: "sh",
		Args:    []string{"-c", "echo hello"},
		Timeout: time.Second,
	})
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(res.Stdout))
	assert.Equal(t, 0, res.ExitCode)
}

func TestRunNonZeroExitIsNotRetried(t *testing.T) {
	r := New(nil)
	mock := clock.NewMock()
	r.Clock = mock

	_, err := r.Run(context.Background(), Input{
		Program: "sh",
		Args:    []string{"-c", "echo nope >&2; exit 3"},
		Timeout: time.Second,
		Retry:   DefaultRetryPolicy,
	})
	require.Error(t, err)
	kind, ok := apperror.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, apperror.ToolExit, kind)
}

func TestRunToolNotFoundIsNotRetried(t *testing.T) {
	r := New(nil)
	_, err := r.Run(context.Background(), Input{
		Program: "emu-tui-definitely-does-not-exist-on-path",
		Timeout: time.Second,
		Retry:   DefaultRetryPolicy,
	})
	require.Error(t, err)
	kind, ok := apperror.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, apperror.ToolNotFound, kind)
}

func TestRunTimeoutUsesMockClockForBackoff(t *testing.T) {
	r := New(nil)
	mock := clock.NewMock()
	r.Clock = mock

	done := make(chan struct{})
	var err error
	go func() {
		_, err = r.Run(context.Background(), Input{
			Program: "sh",
			Args:    []string{"-c", "sleep 5"},
			Timeout: 10 * time.Millisecond,
			Retry:   RetryPolicy{MaxRetries: 1, InitialBackoff: 20 * time.Millisecond, MaxBackoff: time.Second},
		})
		close(done)
	}()

	// Advance past each real-time probe's own timeout plus the backoff wait.
	deadline := time.After(2 * time.Second)
	for {
		select {
		case <-done:
			require.Error(t, err)
			kind, ok := apperror.KindOf(err)
			require.True(t, ok)
			assert.Equal(t, apperror.ToolTimeout, kind)
			return
		case <-deadline:
			t.Fatal("Run did not finish")
		case <-time.After(5 * time.Millisecond):
			mock.Add(25 * time.Millisecond)
		}
	}
}

func TestRunCancelledContextStopsRetryLoop(t *testing.T) {
	r := New(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Run(ctx, Input{Program: "sh", Args: []string{"-c", "echo hi"}, Timeout: time.Second})
	require.Error(t, err)
	kind, ok := apperror.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, apperror.Fatal, kind)
}
