// Package devicemgr defines the capability shared by the Android and iOS
// backends (§9 design note: "represent as a capability trait/interface with
// two concrete implementations; do not attempt a single unified manager")
// and the list-merge algorithm both backends' refresh results flow through.
package devicemgr

import (
	"context"

	"github.com/emu-tui/emu/internal/domain"
)

// ProgressFunc receives zero or more progress updates before the terminal
// result of a create/install_system_image operation.
type ProgressFunc func(domain.Progress)

// Manager is the operation set §4.3 requires of both platform backends. The
// UI task dispatches to whichever Manager the focused panel names; it never
// talks to android/iossim packages directly (§9).
type Manager interface {
	Platform() domain.Platform

	// List probes the platform and returns a fresh, unmerged device list
	// plus non-fatal parse warnings. Merging against prior state is the
	// caller's job (Merge below), so List stays a pure probe.
	List(ctx context.Context) ([]domain.Record, []string, error)

	Start(ctx context.Context, identity string) error
	Stop(ctx context.Context, identity string) error
	Create(ctx context.Context, spec domain.CreateSpec, progress ProgressFunc) (identity string, err error)
	Delete(ctx context.Context, identity string) error
	Wipe(ctx context.Context, identity string) error
	InstallSystemImage(ctx context.Context, pkg string, progress ProgressFunc) error

	// StreamLogs returns a channel of raw lines; cancelling ctx ends the
	// stream. The caller (internal/logstream) owns classification and buffering.
	StreamLogs(ctx context.Context, identity string) (lines <-chan string, err error)

	// CaptureCommand returns the external command that tails identity's
	// logs, so internal/capture can run the same invocation StreamLogs uses
	// inside a detached tmux session that outlives the TUI process.
	CaptureCommand(ctx context.Context, identity string) (program string, args []string, err error)
}
