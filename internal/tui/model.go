// Package tui is the single-threaded cooperative EventLoop of §4.8/§5: one
// bubbletea Model owning appstate.State exclusively, dispatching background
// operations and folding their results back in arrival order.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/emu-tui/emu/internal/appstate"
	"github.com/emu-tui/emu/internal/capture"
	"github.com/emu-tui/emu/internal/config"
	"github.com/emu-tui/emu/internal/devicecache"
	"github.com/emu-tui/emu/internal/devicemgr"
	"github.com/emu-tui/emu/internal/domain"
	"github.com/emu-tui/emu/internal/refresh"
)

// createField identifies which input of the create dialog has focus.
type createField int

const (
	fieldName createField = iota
	fieldType
	fieldExtra // API level (Android) or runtime (iOS)
	fieldRAM
	fieldStorage
	fieldCount
)

// Model is the bubbletea root model. It holds no business logic of its own;
// every mutation goes through appstate.State or devicemgr.Manager per §5.
type Model struct {
	state *appstate.State

	android devicemgr.Manager // nil when the SDK was incomplete at startup
	ios     devicemgr.Manager // nil on non-Darwin hosts

	scheduler *refresh.Scheduler
	cfg       *config.Config
	cache     *devicecache.Store

	width, height int
	ready         bool

	createInputs []textinput.Model
	createFocus  createField

	pendingLogIdentity string
	captures           map[string]*capture.Session
}

// New builds the root Model. androidMgr/iosMgr may individually be nil;
// Model degrades that panel to an "unavailable" banner (§9(b), non-Darwin).
// cache may be nil (no persisted device list is available, e.g. first run or
// a read-only config dir); when non-nil it both seeds the first frame from
// its last-saved contents (§3, §4.4) and is written back to after every
// successful live refresh.
func New(androidMgr, iosMgr devicemgr.Manager, cfg *config.Config, cache *devicecache.Store) Model {
	sched := refresh.New(androidMgr, iosMgr, cfg.FastInterval(), cfg.SlowInterval(), cfg.Debounce())

	st := appstate.New()
	st.AndroidSDKIncomplete = androidMgr == nil
	st.IOSUnavailable = iosMgr == nil
	if st.AndroidSDKIncomplete {
		st.Notifications.Push(domain.NotifyWarning, "Android SDK incomplete: Android panel disabled", time.Now(), 0)
	}
	if cache != nil {
		if c, err := cache.Load(); err == nil && c != nil {
			st.SeedFromCache(c)
		}
	}

	m := Model{
		state:     st,
		android:   androidMgr,
		ios:       iosMgr,
		scheduler: sched,
		cfg:       cfg,
		cache:     cache,
		captures:  make(map[string]*capture.Session),
	}
	m.createInputs = make([]textinput.Model, fieldCount)
	for i := range m.createInputs {
		ti := textinput.New()
		ti.CharLimit = 64
		m.createInputs[i] = ti
	}
	return m
}

// Init starts the background scheduler and the first wait commands.
func (m Model) Init() tea.Cmd {
	ctx := context.Background()
	go m.scheduler.Run(ctx, m.anyPanelFocused, m.dialogOpen)
	return tea.Batch(
		waitForRefresh(m.scheduler),
		waitForLog(m.state),
		tickCmd(),
	)
}

func (m Model) anyPanelFocused() bool {
	return true // both panels are always visible; fast polling is the default posture
}

// dialogOpen reports whether a modal is currently open, so the scheduler's
// timer-driven refresh can skip a tick rather than repaint the device list
// out from under the user's input (§4.5).
func (m Model) dialogOpen() bool {
	return m.state.Dialog.Kind != appstate.DialogNone
}

func (m *Model) activeManager() devicemgr.Manager {
	if m.state.Focus == appstate.PanelAndroid {
		return m.android
	}
	return m.ios
}

func waitForRefresh(s *refresh.Scheduler) tea.Cmd {
	return func() tea.Msg {
		r, ok := <-s.Out()
		if !ok {
			return nil
		}
		return refreshMsg(r)
	}
}

func waitForLog(st *appstate.State) tea.Cmd {
	return func() tea.Msg {
		line, ok := <-st.Logs.Out()
		if !ok {
			return nil
		}
		return logLineMsg(line)
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// dispatch runs a background DeviceManager op and reports its terminal
// result as an opResultMsg, letting the EventLoop stay non-blocking (§5).
func dispatch(op domain.OpID, kind domain.OpKind, platform domain.Platform, identity string, fn func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		err := fn(context.Background())
		return opResultMsg{
			Op:       op,
			Kind:     kind,
			Platform: platform,
			Identity: identity,
			IssuedAt: time.Now(),
			Err:      err,
		}
	}
}
