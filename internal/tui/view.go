package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/emu-tui/emu/internal/appstate"
	"github.com/emu-tui/emu/internal/domain"
	"github.com/emu-tui/emu/internal/tui/style"
)

// View renders one frame. Layout: two device panels side by side, a detail
// pane, a log pane, and a status/notification bar, matching §4.8's frame
// contents; a modal dialog overlays everything when open.
func (m Model) View() string {
	if !m.ready {
		return "initializing..."
	}

	panelWidth := (m.width - 4) / 2
	panelHeight := m.height/2 - 2

	androidPanel := m.renderPanel(appstate.PanelAndroid, "Android", panelWidth, panelHeight)
	iosPanel := m.renderPanel(appstate.PanelIOS, "iOS Simulator", panelWidth, panelHeight)
	panels := lipgloss.JoinHorizontal(lipgloss.Top, androidPanel, iosPanel)

	detail := m.renderDetail(m.width)
	logs := m.renderLogs(m.width, m.height/2-4)

	body := lipgloss.JoinVertical(lipgloss.Left, panels, detail, logs, m.renderStatusBar())

	if m.state.Dialog.Kind != appstate.DialogNone {
		return m.renderDialogOverlay(body)
	}
	return body
}

func (m Model) renderPanel(panel appstate.Panel, title string, w, h int) string {
	devices := m.state.AndroidDevices
	unavailable := m.state.AndroidSDKIncomplete
	if panel == appstate.PanelIOS {
		devices = m.state.IOSDevices
		unavailable = m.state.IOSUnavailable
	}

	border := style.PanelBorder
	if m.state.Focus == panel {
		border = style.PanelBorderActive
	}

	var b strings.Builder
	b.WriteString(style.PanelTitle.Render(title))
	b.WriteString("\n")

	switch {
	case unavailable:
		b.WriteString(style.Dim.Render("unavailable on this host"))
	case len(devices) == 0:
		b.WriteString(style.Dim.Render("no devices found"))
	default:
		selected := m.state.Selected[panel]
		for i, rec := range devices {
			line := formatDeviceRow(rec, w-4)
			if i == selected && m.state.Focus == panel {
				line = style.Selected.Render(line)
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
	}

	return border.Width(w).Height(h).Render(b.String())
}

func formatDeviceRow(r domain.Record, width int) string {
	statusStyle := style.StatusStyle(string(r.Status.Kind))
	statusStr := statusStyle.Render(fmt.Sprintf("[%-8s]", r.Status.Kind))
	name := r.DisplayName
	if name == "" {
		name = r.Identity
	}
	kindMarker := ""
	if r.IsPhysical {
		kindMarker = " (physical)"
	}
	line := fmt.Sprintf("%s %s%s", statusStr, name, kindMarker)
	if width > 0 && len(line) > width {
		line = line[:width]
	}
	return line
}

func (m Model) renderDetail(w int) string {
	rec, ok := m.state.SelectedRecord()
	if !ok {
		return style.Dim.Render("no device selected")
	}

	var parts []string
	parts = append(parts, style.FieldFocused.Render(rec.DisplayName), style.Dim.Render(rec.Identity))
	if rec.Platform == domain.PlatformAndroid {
		parts = append(parts, fmt.Sprintf("API %d (%s) | RAM %dMB | Storage %dMB | %s",
			rec.Android.APILevel, rec.Android.AndroidVersion, rec.Android.RAMMB, rec.Android.StorageMB, rec.Android.ABI))
	} else {
		avail := "available"
		if !rec.IOS.IsAvailable {
			avail = "unavailable"
		}
		parts = append(parts, fmt.Sprintf("iOS %s | %s", rec.IOS.IOSVersion, avail))
	}
	line := strings.Join(parts, "  ")
	if len(line) > w {
		line = line[:w]
	}
	return style.Field.Render(line)
}

func (m Model) renderLogs(w, h int) string {
	if h < 1 {
		h = 1
	}
	rec, ok := m.state.SelectedRecord()
	if !ok {
		return ""
	}
	buf := m.state.Logs.Buffer(rec.Identity)
	if buf == nil {
		return style.Dim.Render("no logs streamed for " + rec.Identity)
	}
	lines := buf.GetLast(h)
	var b strings.Builder
	for _, l := range lines {
		rendered := style.LogLevelStyle(string(l.Level)).Render(string(l.Level))
		line := fmt.Sprintf("%s %s", rendered, l.Raw)
		if len(line) > w {
			line = line[:w]
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	if dropped := buf.Dropped(); dropped > 0 {
		b.WriteString(style.Dim.Render(fmt.Sprintf("(%d lines dropped)", dropped)))
	}
	return b.String()
}

func (m Model) renderStatusBar() string {
	notifications := m.state.Notifications.All()
	var msg string
	if len(notifications) > 0 {
		last := notifications[len(notifications)-1]
		msg = style.NotifyStyle(string(last.Kind)).Render(last.Message)
	}
	left := style.StatusBar.Render(msg)
	right := style.Help.Render(helpText)
	return lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right)
}

func (m Model) renderDialogOverlay(background string) string {
	var content string
	switch m.state.Dialog.Kind {
	case appstate.DialogConfirmDelete:
		content = style.DialogTitle.Render("Delete "+m.state.Dialog.Target+"?") + "\n\nEnter to confirm, Esc to cancel"
	case appstate.DialogConfirmWipe:
		content = style.DialogTitle.Render("Wipe "+m.state.Dialog.Target+"?") + "\n\nEnter to confirm, Esc to cancel"
	case appstate.DialogError:
		content = style.DialogTitle.Render("Error") + "\n\n" + m.state.Dialog.Message + "\n\nEnter/Esc to dismiss"
	case appstate.DialogCreate:
		content = m.renderCreateDialog()
	default:
		return background
	}
	dialog := style.DialogBorder.Render(content)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, dialog)
}

func (m Model) renderCreateDialog() string {
	labels := []string{"Name", "Type", "API level"}
	if m.state.Focus == appstate.PanelIOS {
		labels = []string{"Name", "Device type", "Runtime"}
	}
	var b strings.Builder
	b.WriteString(style.DialogTitle.Render("Create device"))
	b.WriteString("\n\n")
	for i := 0; i < 3; i++ {
		l := style.Field
		if createField(i) == m.createFocus {
			l = style.FieldFocused
		}
		b.WriteString(l.Render(labels[i] + ": "))
		b.WriteString(m.createInputs[i].View())
		b.WriteString("\n")
	}
	if m.state.Focus == appstate.PanelAndroid {
		for i, label := range []string{"RAM MB", "Storage MB"} {
			idx := fieldRAM + createField(i)
			l := style.Field
			if idx == m.createFocus {
				l = style.FieldFocused
			}
			b.WriteString(l.Render(label + ": "))
			b.WriteString(m.createInputs[idx].View())
			b.WriteString("\n")
		}
	}
	b.WriteString("\nTab/↓ next field, Enter to submit, Esc to cancel")
	return b.String()
}
