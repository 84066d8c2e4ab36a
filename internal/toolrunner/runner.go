// Package toolrunner spawns external tools (adb, avdmanager, emulator,
// sdkmanager, xcrun) with bounded timeouts, exponential-backoff retry for
// transient failures, and cooperative cancellation. It never touches shared
// application state (§4.1, §5).
package toolrunner

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os/exec"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"github.com/emu-tui/emu/internal/apperror"
)

// Result is the outcome of a successful (possibly retried) invocation.
type Result struct {
	ExitCode int
	Stdout   []byte
	Stderr   []byte
	Duration time.Duration
}

// RetryPolicy controls backoff for Timeout/transient-spawn failures.
// NonZeroExit is never retried (§4.1: "it is a data signal").
type RetryPolicy struct {
	MaxRetries     int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// DefaultRetryPolicy matches §4.1: 100ms initial, 2s cap, 2 retries.
var DefaultRetryPolicy = RetryPolicy{
	MaxRetries:     2,
	InitialBackoff: 100 * time.Millisecond,
	MaxBackoff:     2 * time.Second,
}

// NoRetry disables retries, used for operations whose failure is always a
// data signal (e.g. probes that expect nonzero exit on "not found").
var NoRetry = RetryPolicy{}

// Operation-class default timeouts (§4.1).
const (
	TimeoutProbe    = 2 * time.Second
	TimeoutList     = 10 * time.Second
	TimeoutStart    = 60 * time.Second
	TimeoutStop     = 30 * time.Second
	TimeoutCreate   = 120 * time.Second
	TimeoutRefresh  = 10 * time.Second
)

// Runner executes argv vectors. The zero value is usable; Clock defaults to
// the real wall clock, and it is swapped for a clock.Mock in tests so retry
// backoff doesn't cost wall-clock time.
type Runner struct {
	Clock  clock.Clock
	Logger *zap.Logger
}

// New returns a Runner using the real clock.
func New(logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{Clock: clock.New(), Logger: logger}
}

// Input describes one invocation.
type Input struct {
	Program string
	Args    []string
	Stdin   []byte
	Timeout time.Duration
	Retry   RetryPolicy
}

// Run executes Input, retrying per Retry on Timeout or spawn failure.
// Cancellation via ctx kills the subprocess and discards its output.
func (r *Runner) Run(ctx context.Context, in Input) (Result, error) {
	clk := r.Clock
	if clk == nil {
		clk = clock.New()
	}
	logger := r.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	backoff := in.Retry.InitialBackoff
	if backoff <= 0 {
		backoff = DefaultRetryPolicy.InitialBackoff
	}
	maxBackoff := in.Retry.MaxBackoff
	if maxBackoff <= 0 {
		maxBackoff = DefaultRetryPolicy.MaxBackoff
	}

	var lastErr error
	attempts := in.Retry.MaxRetries + 1
	if attempts < 1 {
		attempts = 1
	}

	for attempt := 0; attempt < attempts; attempt++ {
		if ctx.Err() != nil {
			return Result{}, apperror.Wrap(apperror.Fatal, ctx.Err(), "cancelled before spawn")
		}

		res, err := r.runOnce(ctx, in)
		if err == nil {
			return res, nil
		}
		lastErr = err

		kind, _ := apperror.KindOf(err)
		missing := errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist)
		if kind == apperror.ToolExit || (kind == apperror.ToolNotFound && missing) {
			// Never retry a data signal or a missing binary; other spawn
			// failures are transient and fall through to the retry below.
			return Result{}, err
		}
		if errors.Is(ctx.Err(), context.Canceled) {
			return Result{}, apperror.Wrap(apperror.Fatal, ctx.Err(), "cancelled")
		}

		if attempt < attempts-1 {
			logger.Debug("retrying tool invocation",
				zap.String("program", in.Program), zap.Int("attempt", attempt+1), zap.Error(err))
			t := clk.Timer(backoff)
			select {
			case <-t.C:
			case <-ctx.Done():
				t.Stop()
				return Result{}, apperror.Wrap(apperror.Fatal, ctx.Err(), "cancelled during backoff")
			}
			backoff *= 2
			if backoff > maxBackoff {
				backoff = maxBackoff
			}
		}
	}
	return Result{}, lastErr
}

func (r *Runner) runOnce(ctx context.Context, in Input) (Result, error) {
	timeout := in.Timeout
	if timeout <= 0 {
		timeout = TimeoutProbe
	}
	cmdCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(cmdCtx, in.Program, in.Args...)
	if in.Stdin != nil {
		cmd.Stdin = bytes.NewReader(in.Stdin)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	dur := time.Since(start)

	if err != nil {
		if errors.Is(cmdCtx.Err(), context.DeadlineExceeded) {
			return Result{}, apperror.Wrap(apperror.ToolTimeout, err,
				"timed out after "+timeout.String())
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return Result{}, apperror.Wrap(apperror.ToolExit, err,
				apperror.Truncate(stderr.String(), apperror.StderrDisplayLimit))
		}
		if errors.Is(err, exec.ErrNotFound) {
			return Result{}, apperror.Wrap(apperror.ToolNotFound, err, in.Program+" not found on PATH")
		}
		return Result{}, apperror.Wrap(apperror.ToolNotFound, err, "spawn failed")
	}

	return Result{
		ExitCode: 0,
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		Duration: dur,
	}, nil
}
