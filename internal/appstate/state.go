// Package appstate holds the single mutable State the EventLoop owns
// exclusively (§3, §5). Every other package only ever receives a read-only
// view or produces an immutable result the EventLoop folds in.
package appstate

import (
	"time"

	"github.com/emu-tui/emu/internal/devicemgr"
	"github.com/emu-tui/emu/internal/domain"
	"github.com/emu-tui/emu/internal/logstream"
	"github.com/emu-tui/emu/internal/notify"
)

// Panel identifies which device list has input focus.
type Panel int

const (
	PanelAndroid Panel = iota
	PanelIOS
)

// DialogKind enumerates the modal dialogs §4.3/§4.8 describe.
type DialogKind int

const (
	DialogNone DialogKind = iota
	DialogCreate
	DialogConfirmDelete
	DialogConfirmWipe
	DialogProgress
	DialogError
)

// Dialog is the currently open modal, if any.
type Dialog struct {
	Kind    DialogKind
	Target  string // device identity the dialog acts on, if any
	Draft   domain.CreateSpec
	Message string
	Op      domain.OpID
}

// State is the single source of truth the Renderer reads from (§3).
type State struct {
	AndroidDevices []domain.Record
	IOSDevices     []domain.Record

	AndroidSDKIncomplete bool // §9(b): disables the Android panel, doesn't fail per-op
	IOSUnavailable       bool // non-Darwin hosts never have a simulator backend

	Focus    Panel
	Selected map[Panel]int

	Dialog Dialog

	Notifications *notify.Center
	Logs          *logstream.Streamer

	PendingOps map[domain.OpID]domain.OpKind

	LastAndroidRefresh time.Time
	LastIOSRefresh     time.Time

	nextOpID domain.OpID
	tracker  devicemgr.Tracker
}

// New returns an initialized, empty State.
func New() *State {
	return &State{
		Selected:      map[Panel]int{PanelAndroid: 0, PanelIOS: 0},
		Notifications: notify.New(),
		Logs:          logstream.New(),
		PendingOps:    make(map[domain.OpID]domain.OpKind),
	}
}

// NextOpID allocates a new OpID for a background operation the caller is
// about to dispatch.
func (s *State) NextOpID() domain.OpID {
	s.nextOpID++
	return s.nextOpID
}

// SeedFromCache populates the device lists from a previously persisted
// cache so the first frame renders real data before the scheduler's first
// live probe completes (§3, §4.4). It bypasses transition tracking and
// notifications entirely: there is no meaningful "transition" before any
// live data has been observed.
func (s *State) SeedFromCache(c *domain.Cache) {
	if c == nil {
		return
	}
	s.AndroidDevices = c.AndroidDevices
	s.IOSDevices = c.IOSDevices
	s.LastAndroidRefresh = c.LastUpdated
	s.LastIOSRefresh = c.LastUpdated
}

// ApplyAndroidRefresh merges a fresh Android probe into state, recording
// transitions as notifications and updating the refresh timestamp. A
// non-nil err means the probe itself failed and old must be left as-is
// (Open Question §E(a)): the caller should not call this in that case.
func (s *State) ApplyAndroidRefresh(fresh []domain.Record, now time.Time) []devicemgr.Transition {
	merged := devicemgr.Merge(s.AndroidDevices, fresh, now.UnixNano())
	transitions := s.tracker.Observe(s.AndroidDevices, merged)
	s.AndroidDevices = merged
	s.LastAndroidRefresh = now
	return transitions
}

// ApplyIOSRefresh is ApplyAndroidRefresh's iOS counterpart.
func (s *State) ApplyIOSRefresh(fresh []domain.Record, now time.Time) []devicemgr.Transition {
	merged := devicemgr.Merge(s.IOSDevices, fresh, now.UnixNano())
	transitions := s.tracker.Observe(s.IOSDevices, merged)
	s.IOSDevices = merged
	s.LastIOSRefresh = now
	return transitions
}

// FocusedDevices returns the device list belonging to the focused panel.
func (s *State) FocusedDevices() []domain.Record {
	if s.Focus == PanelAndroid {
		return s.AndroidDevices
	}
	return s.IOSDevices
}

// SelectedRecord returns the device under the cursor in the focused panel,
// or the zero Record with ok=false if the list is empty or the index is
// stale (e.g. the list shrank since the cursor was set).
func (s *State) SelectedRecord() (domain.Record, bool) {
	devices := s.FocusedDevices()
	idx := s.Selected[s.Focus]
	if idx < 0 || idx >= len(devices) {
		return domain.Record{}, false
	}
	return devices[idx], true
}

// MoveSelection shifts the focused panel's cursor by delta, clamped to the
// list bounds.
func (s *State) MoveSelection(delta int) {
	devices := s.FocusedDevices()
	if len(devices) == 0 {
		s.Selected[s.Focus] = 0
		return
	}
	idx := s.Selected[s.Focus] + delta
	if idx < 0 {
		idx = 0
	}
	if idx >= len(devices) {
		idx = len(devices) - 1
	}
	s.Selected[s.Focus] = idx
}

// ToggleFocus switches the focused panel between Android and iOS.
func (s *State) ToggleFocus() {
	if s.Focus == PanelAndroid {
		s.Focus = PanelIOS
	} else {
		s.Focus = PanelAndroid
	}
}
