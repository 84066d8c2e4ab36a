// Package refresh runs the background device-list polling loop: a fast
// timer while a panel is focused/dirty, a slow timer otherwise, coalesced
// through a debounce so a burst of triggers (user action + timer tick)
// collapses into one probe (§4.4).
package refresh

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"
	"golang.org/x/sync/errgroup"

	"github.com/emu-tui/emu/internal/devicemgr"
	"github.com/emu-tui/emu/internal/domain"
)

// Result is delivered once per coalesced refresh cycle. IssuedAt lets the
// caller discard a stale result that arrives after a newer one was already
// issued (§5's monotonic-stamp rule).
type Result struct {
	IssuedAt time.Time

	Android    []domain.Record
	AndroidErr error
	AndroidWarnings []string

	IOSDev    []domain.Record
	IOSErr    error
	IOSWarnings []string
}

// Scheduler drives periodic List() calls against both platform managers and
// reports their raw, unmerged results; merging (internal/devicemgr.Merge) is
// the caller's job, keeping Scheduler ignorant of prior state (§5: a background
// task never mutates AppState).
type Scheduler struct {
	Clock    clock.Clock
	Android  devicemgr.Manager // nil if the SDK was incomplete at startup
	IOS      devicemgr.Manager // nil on non-Darwin hosts

	FastInterval time.Duration
	SlowInterval time.Duration
	Debounce     time.Duration

	out     chan Result
	trigger chan struct{}
}

// New builds a Scheduler; zero Clock defaults to the real wall clock.
func New(android, ios devicemgr.Manager, fast, slow, debounce time.Duration) *Scheduler {
	return &Scheduler{
		Clock:        clock.New(),
		Android:      android,
		IOS:          ios,
		FastInterval: fast,
		SlowInterval: slow,
		Debounce:     debounce,
		out:          make(chan Result, 1),
		trigger:      make(chan struct{}, 1),
	}
}

// Out delivers one Result per coalesced cycle.
func (s *Scheduler) Out() <-chan Result { return s.out }

// Trigger requests an immediate refresh (e.g. after a Start/Stop/Create
// completes), debounced against other triggers arriving within Debounce.
func (s *Scheduler) Trigger() {
	select {
	case s.trigger <- struct{}{}:
	default:
	}
}

// Run drives the scheduler until ctx is cancelled. focused reports whether
// any panel currently wants fast-interval polling; the caller (EventLoop)
// owns that decision (§4.4: fast only while a relevant panel is visible).
// suppressed reports whether the periodic timer should skip firing this
// tick (§4.5: a modal dialog is open, and a repaint would jitter the list
// out from under the user's input). It gates only the timer-driven path;
// an explicit Trigger() call (e.g. after a lifecycle op completes) always
// runs regardless of suppressed, per §4.5's own carve-out.
func (s *Scheduler) Run(ctx context.Context, focused func() bool, suppressed func() bool) {
	clk := s.Clock
	if clk == nil {
		clk = clock.New()
	}

	fastTimer := clk.Timer(s.interval(focused()))
	defer fastTimer.Stop()

	debounceTimer := clk.Timer(s.Debounce)
	if !debounceTimer.Stop() {
		<-debounceTimer.C
	}
	pending := false

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.trigger:
			if !pending {
				pending = true
				debounceTimer.Reset(s.Debounce)
			}
		case <-debounceTimer.C:
			if pending {
				pending = false
				s.runOnce(ctx)
			}
		case <-fastTimer.C:
			if suppressed == nil || !suppressed() {
				s.runOnce(ctx)
			}
			fastTimer.Reset(s.interval(focused()))
		}
	}
}

func (s *Scheduler) interval(focused bool) time.Duration {
	if focused {
		return s.FastInterval
	}
	return s.SlowInterval
}

// runOnce fans out List() to both managers concurrently and reports a
// single coalesced Result, stamped with the issue time for staleness checks.
func (s *Scheduler) runOnce(ctx context.Context) {
	issuedAt := time.Now()
	result := Result{IssuedAt: issuedAt}

	// Each platform's probe is independent: one failing must never block or
	// poison the other's merge, per the Open Question resolution that a
	// failed List leaves the caller's prior state untouched for that
	// platform only.
	var g errgroup.Group
	if s.Android != nil {
		g.Go(func() error {
			recs, warns, err := s.Android.List(ctx)
			result.Android, result.AndroidWarnings, result.AndroidErr = recs, warns, err
			return nil
		})
	}
	if s.IOS != nil {
		g.Go(func() error {
			recs, warns, err := s.IOS.List(ctx)
			result.IOSDev, result.IOSWarnings, result.IOSErr = recs, warns, err
			return nil
		})
	}
	_ = g.Wait()

	select {
	case s.out <- result:
	case <-ctx.Done():
	}
}
