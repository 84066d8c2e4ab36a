// Package style centralizes the lipgloss styles the TUI renders with,
// adapted from the teacher's internal/output.Styles table (same palette,
// repurposed for a two-panel device manager instead of a log viewer).
package style

import "github.com/charmbracelet/lipgloss"

var (
	Title = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")).Padding(0, 1)

	PanelBorder       = lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("239"))
	PanelBorderActive = lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("39"))
	PanelTitle        = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252"))

	Selected = lipgloss.NewStyle().Background(lipgloss.Color("236")).Foreground(lipgloss.Color("39")).Bold(true)
	Row      = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	Dim      = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))

	StatusRunning  = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	StatusStopped  = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	StatusStarting = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	StatusStopping = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	StatusCreating = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	StatusError    = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	StatusUnknown  = lipgloss.NewStyle().Foreground(lipgloss.Color("201"))

	NotifySuccess = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	NotifyError   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	NotifyWarning = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	NotifyInfo    = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))

	StatusBar = lipgloss.NewStyle().Background(lipgloss.Color("236")).Foreground(lipgloss.Color("252")).Padding(0, 1)
	Help      = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))

	DialogBorder = lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("39")).Padding(1, 2)
	DialogTitle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	Field        = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	FieldFocused = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)

	LogDebug = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	LogInfo  = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	LogWarn  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	LogError = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
)

// StatusStyle picks the style matching a lifecycle status kind string.
func StatusStyle(kind string) lipgloss.Style {
	switch kind {
	case "running":
		return StatusRunning
	case "starting":
		return StatusStarting
	case "stopping":
		return StatusStopping
	case "creating":
		return StatusCreating
	case "error":
		return StatusError
	case "stopped":
		return StatusStopped
	default:
		return StatusUnknown
	}
}

// NotifyStyle picks the style matching a notification kind string.
func NotifyStyle(kind string) lipgloss.Style {
	switch kind {
	case "success":
		return NotifySuccess
	case "error":
		return NotifyError
	case "warning":
		return NotifyWarning
	default:
		return NotifyInfo
	}
}

// LogLevelStyle picks the style matching a classified log level string.
func LogLevelStyle(level string) lipgloss.Style {
	switch level {
	case "warning":
		return LogWarn
	case "error":
		return LogError
	case "info":
		return LogInfo
	default:
		return LogDebug
	}
}
