package tui

import (
	"context"
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/emu-tui/emu/internal/appstate"
	"github.com/emu-tui/emu/internal/capture"
	"github.com/emu-tui/emu/internal/devicemgr"
	"github.com/emu-tui/emu/internal/domain"
)

// Update is the single point every message flows through (§5: AppState is
// only ever mutated on this task's timeline).
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.state.Dialog.Kind != appstate.DialogNone {
			return m.updateDialog(msg)
		}
		return m.updateNormal(msg)

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.ready = true

	case refreshMsg:
		if m.android != nil && msg.AndroidErr == nil {
			transitions := m.state.ApplyAndroidRefresh(msg.Android, msg.IssuedAt)
			m.notifyTransitions(transitions)
		} else if msg.AndroidErr != nil {
			m.state.Notifications.Push(domain.NotifyWarning, "android refresh failed: "+msg.AndroidErr.Error(), msg.IssuedAt, domain.DefaultNotificationTTL)
		}
		if m.ios != nil && msg.IOSErr == nil {
			transitions := m.state.ApplyIOSRefresh(msg.IOSDev, msg.IssuedAt)
			m.notifyTransitions(transitions)
		} else if msg.IOSErr != nil {
			m.state.Notifications.Push(domain.NotifyWarning, "ios refresh failed: "+msg.IOSErr.Error(), msg.IssuedAt, domain.DefaultNotificationTTL)
		}
		if msg.AndroidErr == nil || msg.IOSErr == nil {
			m.saveCache(msg.IssuedAt)
		}
		cmds = append(cmds, waitForRefresh(m.scheduler))

	case opResultMsg:
		m.applyOpResult(domain.OpResult(msg))
		cmds = append(cmds, m.maybeSubscribeLogs())

	case logLineMsg:
		cmds = append(cmds, waitForLog(m.state))

	case tickMsg:
		m.state.Notifications.Prune(time.Time(msg))
		cmds = append(cmds, tickCmd())
	}

	return m, tea.Batch(cmds...)
}

// saveCache persists the current device lists so the next launch can seed
// its first frame from them (§3, §4.4). A write failure is silently
// dropped: the cache is a convenience, never a correctness requirement, and
// the next successful refresh will simply retry the write.
func (m *Model) saveCache(now time.Time) {
	if m.cache == nil {
		return
	}
	_ = m.cache.Save(m.state.AndroidDevices, m.state.IOSDevices, now)
}

func (m *Model) notifyTransitions(transitions []devicemgr.Transition) {
	for _, t := range transitions {
		if t.To == domain.StatusError {
			m.state.Notifications.Push(domain.NotifyError, t.Identity+" entered an error state", time.Now(), 0)
		}
	}
}

// applyOpResult folds a completed background operation's outcome into
// state: clears its pending marker, surfaces a notification, and triggers
// an immediate targeted refresh on success (§5's "lifecycle op completion
// triggers immediate refresh" ordering guarantee).
func (m *Model) applyOpResult(res domain.OpResult) {
	delete(m.state.PendingOps, res.Op)

	if res.Err != nil {
		m.state.Notifications.Push(domain.NotifyError, res.Identity+": "+res.Err.Error(), res.IssuedAt, 0)
		return
	}

	var verb string
	switch res.Kind {
	case domain.OpStart:
		verb = "started"
	case domain.OpStop:
		verb = "stopped"
	case domain.OpCreate:
		verb = "created"
	case domain.OpDelete:
		verb = "deleted"
	case domain.OpWipe:
		verb = "wiped"
	case domain.OpInstallSystemImage:
		verb = "installed"
	}
	if verb != "" {
		m.state.Notifications.Push(domain.NotifySuccess, res.Identity+" "+verb, res.IssuedAt, domain.DefaultNotificationTTL)
	}
	m.scheduler.Trigger()
}

func (m Model) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case keyQuit, keyCtrlC:
		return m, tea.Quit

	case keyUp, keyK:
		m.state.MoveSelection(-1)
	case keyDown, keyJ:
		m.state.MoveSelection(1)
	case keyTab, keyH, keyL:
		m.unsubscribeFocusedLogs()
		m.state.ToggleFocus()

	case keyRefresh:
		m.scheduler.Trigger()

	case keyStart:
		return m.dispatchLifecycle(domain.OpStart)
	case keyStop:
		return m.dispatchLifecycle(domain.OpStop)
	case keyDelete:
		return m.openConfirm(appstate.DialogConfirmDelete)
	case keyWipe:
		return m.openConfirm(appstate.DialogConfirmWipe)
	case keyCreate:
		return m.openCreate()
	}
	return m, nil
}

// dispatchLifecycle validates the selected device is eligible for op (§4.3's
// state machine, via devicemgr.EligibleForOp) and, if so, spawns it as a
// background task tracked by a fresh OpID.
func (m Model) dispatchLifecycle(op domain.OpKind) (tea.Model, tea.Cmd) {
	rec, ok := m.state.SelectedRecord()
	if !ok {
		return m, nil
	}
	if !devicemgr.EligibleForOp(rec, op) {
		m.state.Notifications.Push(domain.NotifyWarning, rec.Identity+" is not eligible for that action right now", time.Now(), domain.DefaultNotificationTTL)
		return m, nil
	}

	mgr := m.activeManager()
	if mgr == nil {
		return m, nil
	}
	id := m.state.NextOpID()
	m.state.PendingOps[id] = op
	identity := rec.Identity
	var fn func(ctx context.Context) error
	switch op {
	case domain.OpStart:
		fn = func(ctx context.Context) error { return mgr.Start(ctx, identity) }
	case domain.OpStop:
		fn = func(ctx context.Context) error { return mgr.Stop(ctx, identity) }
	default:
		return m, nil
	}
	return m, dispatch(id, op, rec.Platform, identity, fn)
}

func (m Model) openConfirm(kind appstate.DialogKind) (tea.Model, tea.Cmd) {
	rec, ok := m.state.SelectedRecord()
	if !ok {
		return m, nil
	}
	op := domain.OpDelete
	if kind == appstate.DialogConfirmWipe {
		op = domain.OpWipe
	}
	if !devicemgr.EligibleForOp(rec, op) {
		m.state.Notifications.Push(domain.NotifyWarning, rec.Identity+" is not eligible for that action right now", time.Now(), domain.DefaultNotificationTTL)
		return m, nil
	}
	m.state.Dialog = appstate.Dialog{Kind: kind, Target: rec.Identity}
	return m, nil
}

func (m Model) openCreate() (tea.Model, tea.Cmd) {
	draft := domain.CreateSpec{}
	if m.state.Focus == appstate.PanelAndroid {
		draft.APILevel = m.cfg.Android.DefaultAPILevel
		draft.RAMMB = m.cfg.Android.DefaultRAMMB
		draft.StorageMB = m.cfg.Android.DefaultStorageMB
	} else {
		draft.Type = m.cfg.IOS.DefaultDeviceType
		draft.Runtime = m.cfg.IOS.DefaultIOSVersion
	}
	m.state.Dialog = appstate.Dialog{Kind: appstate.DialogCreate, Draft: draft}
	m.createFocus = fieldName
	for i := range m.createInputs {
		m.createInputs[i].SetValue("")
		m.createInputs[i].Blur()
	}
	m.createInputs[fieldName].Focus()
	return m, nil
}

func (m Model) updateDialog(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.state.Dialog.Kind {
	case appstate.DialogConfirmDelete, appstate.DialogConfirmWipe:
		return m.updateConfirmDialog(msg)
	case appstate.DialogCreate:
		return m.updateCreateDialog(msg)
	case appstate.DialogError:
		if msg.String() == keyEnter || msg.String() == keyEsc {
			m.state.Dialog = appstate.Dialog{}
		}
		return m, nil
	default:
		return m, nil
	}
}

func (m Model) updateConfirmDialog(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case keyEsc:
		m.state.Dialog = appstate.Dialog{}
	case keyEnter:
		identity := m.state.Dialog.Target
		op := domain.OpDelete
		if m.state.Dialog.Kind == appstate.DialogConfirmWipe {
			op = domain.OpWipe
		}
		m.state.Dialog = appstate.Dialog{}
		mgr := m.activeManager()
		if mgr == nil {
			return m, nil
		}
		id := m.state.NextOpID()
		m.state.PendingOps[id] = op
		platform := mgr.Platform()
		if op == domain.OpDelete {
			m.stopCapture(identity)
		}
		var fn func(ctx context.Context) error
		if op == domain.OpDelete {
			fn = func(ctx context.Context) error { return mgr.Delete(ctx, identity) }
		} else {
			fn = func(ctx context.Context) error { return mgr.Wipe(ctx, identity) }
		}
		return m, dispatch(id, op, platform, identity, fn)
	}
	return m, nil
}

func (m Model) updateCreateDialog(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case keyEsc:
		m.state.Dialog = appstate.Dialog{}
		return m, nil
	case keyTab, keyDown:
		m.createInputs[m.createFocus].Blur()
		m.createFocus = (m.createFocus + 1) % fieldCount
		m.createInputs[m.createFocus].Focus()
		return m, nil
	case keyUp:
		m.createInputs[m.createFocus].Blur()
		m.createFocus = (m.createFocus - 1 + fieldCount) % fieldCount
		m.createInputs[m.createFocus].Focus()
		return m, nil
	case keyEnter:
		return m.submitCreate()
	}
	var cmd tea.Cmd
	m.createInputs[m.createFocus], cmd = m.createInputs[m.createFocus].Update(msg)
	return m, cmd
}

func (m Model) submitCreate() (tea.Model, tea.Cmd) {
	spec := m.state.Dialog.Draft
	spec.Name = m.createInputs[fieldName].Value()
	if v := m.createInputs[fieldType].Value(); v != "" {
		spec.Type = v
	}
	isAndroid := m.state.Focus == appstate.PanelAndroid
	if isAndroid {
		if v := m.createInputs[fieldExtra].Value(); v != "" {
			spec.APILevel = parseUint16(v, spec.APILevel)
		}
		if v := m.createInputs[fieldRAM].Value(); v != "" {
			spec.RAMMB = parseUint32(v, spec.RAMMB)
		}
		if v := m.createInputs[fieldStorage].Value(); v != "" {
			spec.StorageMB = parseUint32(v, spec.StorageMB)
		}
	} else if v := m.createInputs[fieldExtra].Value(); v != "" {
		spec.Runtime = v
	}

	existing := m.state.AndroidDevices
	if !isAndroid {
		existing = m.state.IOSDevices
	}
	if errs := devicemgr.ValidateCreate(spec, existing, isAndroid); len(errs) > 0 {
		msg := errs[0].Error()
		m.state.Dialog = appstate.Dialog{Kind: appstate.DialogError, Message: msg}
		return m, nil
	}

	mgr := m.activeManager()
	if mgr == nil {
		return m, nil
	}
	m.state.Dialog = appstate.Dialog{}
	id := m.state.NextOpID()
	m.state.PendingOps[id] = domain.OpCreate
	platform := mgr.Platform()
	return m, dispatch(id, domain.OpCreate, platform, spec.Name, func(ctx context.Context) error {
		_, err := mgr.Create(ctx, spec, nil)
		return err
	})
}

// maybeSubscribeLogs starts (or stops) streaming the focused panel's
// selected device's logs, cancelling the previous subscription when the
// selected device differs from the streamed one, per §5's cancellation rule
// for a departed device's log stream. It runs after each op result, not on
// every cursor move.
func (m *Model) maybeSubscribeLogs() tea.Cmd {
	rec, ok := m.state.SelectedRecord()
	if !ok {
		m.unsubscribeFocusedLogs()
		return nil
	}
	if m.pendingLogIdentity == rec.Identity {
		return nil
	}
	m.unsubscribeFocusedLogs()
	m.pendingLogIdentity = rec.Identity
	mgr := m.activeManager()
	if mgr == nil {
		return nil
	}
	identity := rec.Identity
	m.startCapture(mgr, identity)
	return func() tea.Msg {
		_ = m.state.Logs.Subscribe(context.Background(), mgr, identity)
		return nil
	}
}

func (m *Model) unsubscribeFocusedLogs() {
	if m.pendingLogIdentity != "" {
		m.state.Logs.Unsubscribe(m.pendingLogIdentity)
		m.pendingLogIdentity = ""
	}
}

// startCapture mirrors the focused device's log stream into a detached tmux
// session that outlives the TUI process, so a user can reattach after
// quitting. It is best-effort: a missing tmux binary or an already-running
// session for identity is not an error worth surfacing to the notification
// center.
func (m *Model) startCapture(mgr devicemgr.Manager, identity string) {
	if !capture.IsAvailable() {
		return
	}
	if _, ok := m.captures[identity]; ok {
		return
	}
	program, args, err := mgr.CaptureCommand(context.Background(), identity)
	if err != nil || program == "" {
		return
	}
	sess, err := capture.Start(identity, program, args)
	if err != nil {
		return
	}
	m.captures[identity] = sess
}

// stopCapture kills identity's background capture session, if any, before
// its device is deleted out from under it.
func (m *Model) stopCapture(identity string) {
	sess, ok := m.captures[identity]
	if !ok {
		return
	}
	_ = sess.Kill()
	delete(m.captures, identity)
}

func parseUint16(s string, fallback uint16) uint16 {
	n, err := strconv.ParseUint(s, 10, 16)
	if err != nil {
		return fallback
	}
	return uint16(n)
}

func parseUint32(s string, fallback uint32) uint32 {
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return fallback
	}
	return uint32(n)
}
